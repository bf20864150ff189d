package dto

type ChatMessageDTO struct {
	Role    string `json:"role" validate:"oneof=user assistant"`
	Content string `json:"content"`
}

type ChatRequest struct {
	Messages       []ChatMessageDTO `json:"messages" validate:"dive"`
	UserMessage    string           `json:"userMessage"`
	ConversationId *uint            `json:"conversationId"`
}

// ChatResponse sets Message for a single-part reply and Messages when the
// reply was split into several display messages.
type ChatResponse struct {
	Message        string   `json:"message,omitempty"`
	Messages       []string `json:"messages,omitempty"`
	Count          int      `json:"count"`
	ConversationId *uint    `json:"conversationId"`
}

type CountResponse struct {
	Count int `json:"count"`
}
