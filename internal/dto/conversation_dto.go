package dto

import "time"

type ConversationDTO struct {
	Id        uint      `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

type ConversationListResponse struct {
	Conversations []ConversationDTO `json:"conversations"`
}

type CreateConversationResponse struct {
	Id uint `json:"id"`
}

type DeleteConversationRequest struct {
	Id uint `json:"id" validate:"required"`
}

type ConversationMessagesResponse struct {
	Messages []ChatMessageDTO `json:"messages"`
}
