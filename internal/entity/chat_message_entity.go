package entity

import "time"

const (
	ChatRoleUser      = "user"
	ChatRoleAssistant = "assistant"
)

type ChatMessage struct {
	Id             uint
	ConversationId uint
	Role           string
	Content        string
	CreatedAt      time.Time
}

type AnonymousCount struct {
	Ip        string
	Count     int
	UpdatedAt time.Time
}
