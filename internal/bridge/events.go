package bridge

import "fmt"

// SDK event names.
const (
	EventStepsList         = "STEPS_LIST"
	EventStepComplete      = "STEP_COMPLETE"
	EventIntentCreated     = "INTENT_CREATED"
	EventAllowanceRequired = "ALLOWANCE_REQUIRED"
)

// Step types with a dedicated description.
const (
	StepAllowanceApproval = "ALLOWANCE_USER_APPROVAL"
	StepTransactionSent   = "TRANSACTION_SENT"
)

// Step is one entry of the SDK's expected step list.
type Step struct {
	Type   string
	TypeID string
	Data   map[string]any
}

// Event is a decoded progress event. The set of implementations is closed.
type Event interface {
	event()
}

// StepsList announces the steps of the running transfer.
type StepsList struct{ Steps []Step }

// StepComplete reports the index of the step that just finished.
type StepComplete struct{ Index int }

// IntentCreated asks the user to approve the transaction in their wallet.
type IntentCreated struct{}

// AllowanceRequired asks the user to approve a token allowance.
type AllowanceRequired struct{}

// UnknownEvent carries any name the decoder does not recognize.
type UnknownEvent struct {
	Name string
	Args any
}

func (StepsList) event()         {}
func (StepComplete) event()      {}
func (IntentCreated) event()     {}
func (AllowanceRequired) event() {}
func (UnknownEvent) event()      {}

func (e UnknownEvent) String() string { return fmt.Sprintf("unknown event %q", e.Name) }

// DecodeEvent converts an SDK event into its typed form. Malformed payloads
// decode to the zero value of the event's arm.
func DecodeEvent(name string, args any) Event {
	switch name {
	case EventStepsList:
		return StepsList{Steps: decodeSteps(args)}
	case EventStepComplete:
		return StepComplete{Index: decodeIndex(args)}
	case EventIntentCreated:
		return IntentCreated{}
	case EventAllowanceRequired:
		return AllowanceRequired{}
	default:
		return UnknownEvent{Name: name, Args: args}
	}
}

func decodeSteps(args any) []Step {
	switch v := args.(type) {
	case []Step:
		return append([]Step(nil), v...)
	case []any:
		steps := make([]Step, 0, len(v))
		for _, item := range v {
			switch s := item.(type) {
			case Step:
				steps = append(steps, s)
			case map[string]any:
				step := Step{Data: s}
				step.Type, _ = s["type"].(string)
				step.TypeID, _ = s["typeID"].(string)
				steps = append(steps, step)
			default:
				steps = append(steps, Step{})
			}
		}
		return steps
	default:
		return []Step{}
	}
}

func decodeIndex(args any) int {
	switch v := args.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}
