package entity

import "time"

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

type QuickReply struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

type AttachmentKind string

const (
	AttachmentServiceCard    AttachmentKind = "service_card"
	AttachmentBookingSummary AttachmentKind = "booking_summary"
)

type ServiceCard struct {
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
}

type BookingSummary struct {
	Draft  Draft  `json:"draft"`
	Totals Totals `json:"totals"`
}

type Attachment struct {
	Kind    AttachmentKind  `json:"kind"`
	Service *ServiceCard    `json:"service,omitempty"`
	Summary *BookingSummary `json:"summary,omitempty"`
}

// Message is immutable once appended to a transcript.
type Message struct {
	ID           string       `json:"id"`
	SessionID    string       `json:"session_id"`
	Role         Role         `json:"role"`
	Text         string       `json:"text"`
	Timestamp    time.Time    `json:"timestamp"`
	QuickReplies []QuickReply `json:"quick_replies,omitempty"`
	Attachment   *Attachment  `json:"attachment,omitempty"`
}
