package models

// ConversationTurn is one question/answer exchange within a session.
// Turns are append-only and ordered by call order.
type ConversationTurn struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}
