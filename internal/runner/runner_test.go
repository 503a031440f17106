package runner

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireShell(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
}

func TestExecCapturesOutput(t *testing.T) {
	requireShell(t)
	res, err := New().Run(context.Background(), "sh", []string{"-c", "echo out; echo err >&2; exit 3"}, Opts{})
	require.NoError(t, err)
	assert.Equal(t, "out\n", res.Stdout)
	assert.Equal(t, "err\n", res.Stderr)
	assert.Equal(t, 3, res.ExitCode)
}

func TestExecStreamsOutput(t *testing.T) {
	requireShell(t)
	var out bytes.Buffer
	res, err := New().Run(context.Background(), "sh", []string{"-c", "echo $GREETING; pwd"}, Opts{
		Dir:    t.TempDir(),
		Env:    map[string]string{"GREETING": "hello"},
		Stdout: &out,
	})
	require.NoError(t, err)
	assert.Empty(t, res.Stdout)
	assert.Contains(t, out.String(), "hello\n")
}

func TestExecMissingBinary(t *testing.T) {
	_, err := New().Run(context.Background(), "definitely-not-a-real-binary-xyz", nil, Opts{})
	assert.Error(t, err)
}

func TestCheck(t *testing.T) {
	requireShell(t)
	_, err := Check(context.Background(), New(), "sh", []string{"-c", "echo broken >&2; exit 2"}, Opts{})
	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, 2, exitErr.Code)
	assert.Equal(t, "sh exited with status 2: broken", exitErr.Error())

	_, err = Check(context.Background(), New(), "sh", []string{"-c", "true"}, Opts{})
	assert.NoError(t, err)
}
