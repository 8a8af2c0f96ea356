// Package message defines the annotation record shared by the store, its
// HTTP clients and the review controllers.
package message

// Message is one generated assistant utterance together with the operator's
// annotation of it. The store assigns ID on creation; UUID is a client-side
// correlation token for records that have not been persisted yet and is not
// guaranteed unique server-side.
type Message struct {
	ID        int     `json:"id,omitempty"`
	UUID      string  `json:"uuid,omitempty"`
	SessionID string  `json:"sessionID"`
	Message   string  `json:"message"`
	Timestamp float64 `json:"timestamp"`
	Rating    int     `json:"rating"`
	Comment   string  `json:"comment"`
}

// Patch carries a partial update. Nil fields are left untouched.
type Patch struct {
	Rating  *int    `json:"rating,omitempty"`
	Comment *string `json:"comment,omitempty"`
}
