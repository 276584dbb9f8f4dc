package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventSubscriberRegistered EventType = "subscriber_registered"
	EventSubscriberConfirmed  EventType = "subscriber_confirmed"
	EventNewsletterPublished  EventType = "newsletter_published"
)

// Event represents a domain event emitted by services after their work has
// committed; handlers must not assume they can veto the operation.
type Event struct {
	ID           string      `json:"id"`
	Type         EventType   `json:"type"`
	SubscriberID string      `json:"subscriber_id,omitempty"`
	Timestamp    time.Time   `json:"timestamp"`
	Payload      interface{} `json:"payload"`
}

// SubscriberRegisteredPayload payload.
type SubscriberRegisteredPayload struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// SubscriberConfirmedPayload payload.
type SubscriberConfirmedPayload struct {
	Token string `json:"token"`
}

// NewsletterPublishedPayload payload.
type NewsletterPublishedPayload struct {
	Title   string `json:"title"`
	Sent    int    `json:"sent"`
	Skipped int    `json:"skipped"`
}
