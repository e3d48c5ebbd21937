package models

import "github.com/google/uuid"

// Message is the wire form of an outcome event: the serialized event
// plus a content hash used as the partition key.
type Message struct {
	ID      uuid.UUID `json:"id"`
	Content string    `json:"content"`
	Hash    string    `json:"hash"`
}
