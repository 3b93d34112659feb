package moderation

// EventType names one structured outbound moderation event.
type EventType string

const (
	EventWarningAdded       EventType = "warning_added"
	EventWarningRemoved     EventType = "warning_removed"
	EventAllWarningsCleared EventType = "all_warnings_cleared"
	EventAutoActionApplied  EventType = "auto_action_applied"
	EventAutoActionBlocked  EventType = "auto_action_blocked"
	EventAutoActionFailed   EventType = "auto_action_failed"
	EventReconciled         EventType = "reconciled"
)

// Event is one structured moderation event handed to the Notifier. Fields
// are populated per type; zero values mean "not applicable".
type Event struct {
	Type        EventType
	GuildID     string
	UserID      string
	ModeratorID string
	Action      ActionType
	Reason      string
	WarnCount   int
	Corrections []string
	Err         error
}

// Notifier receives moderation events for operational logging. Losing a
// notification is acceptable; implementations must not block the caller on
// delivery failures.
type Notifier interface {
	Notify(ev Event)
}

// NopNotifier discards all events.
type NopNotifier struct{}

func (NopNotifier) Notify(Event) {}
