package domain

// SubscribeRequest is the newsletter submission body
type SubscribeRequest struct {
	Email string `json:"email"`
}

// Acknowledgement is the message returned after a newsletter submission.
// Degraded is set when the upstream call failed and is never sent to the shopper.
type Acknowledgement struct {
	Message  string `json:"message"`
	Degraded bool   `json:"-"`
}
