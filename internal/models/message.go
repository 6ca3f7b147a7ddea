package models

import (
	"time"

	"github.com/google/uuid"
)

// Kind identifies who authored a message
type Kind string

const (
	KindUser      Kind = "user"
	KindAssistant Kind = "assistant"
)

// Message is one entry in a conversation thread
type Message struct {
	ID      string    `json:"id"`
	Author  string    `json:"author"`
	Text    string    `json:"text"`
	Kind    Kind      `json:"kind"`
	Pending bool      `json:"pending"`
	Time    time.Time `json:"time"`
}

// NewUserMessage creates a message authored by the user
func NewUserMessage(text string) Message {
	return Message{
		ID:     uuid.NewString(),
		Author: AuthorUser,
		Text:   text,
		Kind:   KindUser,
		Time:   time.Now(),
	}
}

// NewAssistantMessage creates a message authored by the assistant.
// Pending messages are placeholders whose text is replaced once a reply settles.
func NewAssistantMessage(text string, pending bool) Message {
	return Message{
		ID:      uuid.NewString(),
		Author:  AuthorAssistant,
		Text:    text,
		Kind:    KindAssistant,
		Pending: pending,
		Time:    time.Now(),
	}
}

// IsUser reports whether the message was written by the user
func (m Message) IsUser() bool {
	return m.Kind == KindUser
}
