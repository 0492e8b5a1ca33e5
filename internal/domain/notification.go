package domain

import "time"

type NotificationKind string

const (
	NotificationKindStatusChanged NotificationKind = "DONATION_STATUS_CHANGED"
	NotificationKindMatchProposed NotificationKind = "MATCH_PROPOSED"
	NotificationKindMatchAnswered NotificationKind = "MATCH_ANSWERED"
	NotificationKindQuoteSent     NotificationKind = "QUOTE_SENT"
	NotificationKindQuoteAnswered NotificationKind = "QUOTE_ANSWERED"
	NotificationKindPickup        NotificationKind = "PICKUP_SCHEDULED"
	NotificationKindRegistration  NotificationKind = "REGISTRATION_REVIEWED"
	NotificationKindRegistered    NotificationKind = "REGISTRATION_SUBMITTED"
	NotificationKindDocument      NotificationKind = "DOCUMENT_ATTACHED"
)

// Notification is an in-app message row for one recipient organization (or
// the admin inbox when RecipientType is admin).
type Notification struct {
	ID            int32             `json:"id"`
	RecipientType ActorType         `json:"recipient_type"`
	RecipientID   int32             `json:"recipient_id"`
	Kind          NotificationKind  `json:"kind"`
	Title         string            `json:"title"`
	Message       string            `json:"message"`
	IsRead        bool              `json:"is_read"`
	Attributes    map[string]string `json:"attributes"`
	CreatedAt     time.Time         `json:"created_at"`
}
