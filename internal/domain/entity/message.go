package entity

import "time"

// Message is one direct message between two users. Rows are immutable except
// for Read, which only ever flips false -> true when the recipient opens the
// conversation.
type Message struct {
	ID        string    `json:"id" firestore:"id"`
	FromUser  string    `json:"from_user" firestore:"fromUser"`
	ToUser    string    `json:"to_user" firestore:"toUser"`
	Content   string    `json:"content" firestore:"content"`
	Read      bool      `json:"read" firestore:"read"`
	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
}

// Involves reports whether userID is a participant of the message.
func (m *Message) Involves(userID string) bool {
	return m.FromUser == userID || m.ToUser == userID
}

// Counterpart returns the other participant relative to userID.
func (m *Message) Counterpart(userID string) string {
	if m.FromUser == userID {
		return m.ToUser
	}
	return m.FromUser
}
