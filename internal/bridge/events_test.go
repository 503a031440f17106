package bridge

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeEvent(t *testing.T) {
	cases := []struct {
		name string
		args any
		want Event
	}{
		{EventStepsList, []Step{{Type: "A"}}, StepsList{Steps: []Step{{Type: "A"}}}},
		{EventStepsList, []any{map[string]any{"type": "B", "typeID": "b1"}}, StepsList{Steps: []Step{{Type: "B", TypeID: "b1", Data: map[string]any{"type": "B", "typeID": "b1"}}}}},
		{EventStepsList, "garbage", StepsList{Steps: []Step{}}},
		{EventStepComplete, 2, StepComplete{Index: 2}},
		{EventStepComplete, float64(4), StepComplete{Index: 4}},
		{EventStepComplete, "x", StepComplete{Index: 0}},
		{EventIntentCreated, nil, IntentCreated{}},
		{EventAllowanceRequired, nil, AllowanceRequired{}},
		{"REFUND", 7, UnknownEvent{Name: "REFUND", Args: 7}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, DecodeEvent(tc.name, tc.args))
		})
	}
}
