package queue

// EventType names a change to the query workflow that downstream consumers
// may care about.
type EventType string

const (
	EventGroupCreated     EventType = "group_created"
	EventItemTransitioned EventType = "item_transitioned"
	EventMessagePosted    EventType = "message_posted"
)

func (t EventType) Valid() bool {
	switch t {
	case EventGroupCreated, EventItemTransitioned, EventMessagePosted:
		return true
	}
	return false
}

// QueryEvent is published after the change it describes has committed.
type QueryEvent struct {
	EventType EventType
	GroupID   string
	ItemID    string
	EntryID   *int64
	Action    string
	Team      string
	TraceID   *string
	SpanID    *string
	Attempt   int
}
