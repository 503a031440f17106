package notify

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsole(t *testing.T) {
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })

	var buf bytes.Buffer
	c := NewConsole(&buf)
	first := c.Notify(Notification{Level: Info, Title: "Token approval required", Description: "You need to approve access to your tokens", Action: &Action{Label: "Approve"}})
	second := c.Notify(Notification{Level: Error, Title: "Failed to initialize Nexus"})
	c.Dismiss(first)

	assert.NotEqual(t, first, second)
	assert.Equal(t,
		"Token approval required You need to approve access to your tokens [Approve]\nFailed to initialize Nexus\n",
		buf.String())
}

func TestRecorder(t *testing.T) {
	var r Recorder
	clicked := 0
	id := r.Notify(Notification{Level: Info, Title: "Transaction confirmation needed", Action: &Action{Label: "Confirm", Do: func() { clicked++ }}})
	plain := r.Notify(Notification{Level: Success, Title: "Transaction confirmed"})

	require.NoError(t, r.Trigger(id))
	assert.Equal(t, 1, clicked)
	assert.ErrorIs(t, r.Trigger(plain), ErrNoAction)
	assert.ErrorIs(t, r.Trigger(ID(99)), ErrUnknownID)

	r.Dismiss(id)
	entries := r.Entries()
	require.Len(t, entries, 2)
	assert.True(t, entries[0].Dismissed)
	assert.False(t, entries[1].Dismissed)
	assert.Equal(t, []string{"Transaction confirmed"}, r.Titles()[1:])

	last, ok := r.Last()
	require.True(t, ok)
	assert.Equal(t, Success, last.Notification.Level)
}

func TestLevelString(t *testing.T) {
	assert.Equal(t, "warning", Warning.String())
	assert.Equal(t, "level(9)", Level(9).String())
}
