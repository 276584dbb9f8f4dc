package dto

import "time"

// NewsletterContent carries both renderings of an issue.
type NewsletterContent struct {
	HTML string `json:"html"`
	Text string `json:"text"`
}

// PublishNewsletterRequest is the JSON payload for a publish call.
type PublishNewsletterRequest struct {
	Title   string            `json:"title"`
	Content NewsletterContent `json:"content"`
}

// PublishNewsletterResponse summarizes a publish call.
type PublishNewsletterResponse struct {
	Sent      int  `json:"sent"`
	Skipped   int  `json:"skipped"`
	Duplicate bool `json:"duplicate,omitempty"`
}

// SessionResponse is returned when an operator exchanges Basic credentials
// for a session token.
type SessionResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}
