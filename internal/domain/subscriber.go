package domain

import "time"

// SubscriberStatus represents lifecycle states for a subscriber.
type SubscriberStatus string

const (
	SubscriberStatusPending   SubscriberStatus = "pending"
	SubscriberStatusConfirmed SubscriberStatus = "confirmed"
)

// Subscriber is the stored representation of one newsletter recipient.
// Email and Name hold the raw persisted strings; validation is enforced at
// registration time and re-checked defensively when dispatching.
type Subscriber struct {
	ID           string
	Email        string
	Name         string
	Status       SubscriberStatus
	SubscribedAt time.Time
}

// NewSubscriber bundles the validated inputs for a registration. Both fields
// can only be obtained through their constructors, so holders of a
// NewSubscriber never need to re-validate.
type NewSubscriber struct {
	Name  SubscriberName
	Email SubscriberEmail
}

// ParseNewSubscriber validates both raw inputs.
func ParseNewSubscriber(rawName, rawEmail string) (NewSubscriber, error) {
	name, err := NewSubscriberName(rawName)
	if err != nil {
		return NewSubscriber{}, err
	}
	email, err := NewSubscriberEmail(rawEmail)
	if err != nil {
		return NewSubscriber{}, err
	}
	return NewSubscriber{Name: name, Email: email}, nil
}
