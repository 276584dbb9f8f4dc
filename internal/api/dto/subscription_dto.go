package dto

// SubscribeRequest is the form-encoded payload for new subscriptions.
type SubscribeRequest struct {
	Name  string `form:"name"`
	Email string `form:"email"`
}
