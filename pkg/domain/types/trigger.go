package types

// Trigger represents what initiated a posting run
type Trigger string

const (
	// TriggerScheduled means the run was started by the tick scheduler
	TriggerScheduled Trigger = "scheduled"
	// TriggerManual means the run was started by an operator request
	TriggerManual Trigger = "manual"
)

// String returns the string representation of the trigger
func (t Trigger) String() string {
	return string(t)
}
