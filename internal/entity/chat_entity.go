package entity

import "time"

// MessagePart is one fragment of a chat message. Assistant messages
// accumulate text parts while the model stream is in progress.
type MessagePart struct {
	Type string
	Text string
}

// Message is a single turn in the session-wide conversation.
type Message struct {
	Id        string
	Role      string
	Parts     []MessagePart
	CreatedAt time.Time
}

// Text concatenates the message's text parts in order.
func (m *Message) Text() string {
	if len(m.Parts) == 1 {
		return m.Parts[0].Text
	}
	var out string
	for _, p := range m.Parts {
		if p.Type == "text" {
			out += p.Text
		}
	}
	return out
}
