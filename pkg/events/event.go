package events

import "time"

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "FILE_ADDED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent is the generic implementation used across the service.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// FileAdded is emitted after a file record lands in a subject.
func FileAdded(subjectId, fileId, fileName string) Event {
	return BaseEvent{
		Type: "FILE_ADDED",
		Data: map[string]interface{}{
			"subject_id": subjectId,
			"file_id":    fileId,
			"file_name":  fileName,
		},
		OccurredAt: time.Now(),
	}
}

// ChatCompleted is emitted when an assistant turn finalizes.
func ChatCompleted(messageId string, parsed bool) Event {
	return BaseEvent{
		Type: "CHAT_COMPLETED",
		Data: map[string]interface{}{
			"message_id": messageId,
			"parsed":     parsed,
		},
		OccurredAt: time.Now(),
	}
}
