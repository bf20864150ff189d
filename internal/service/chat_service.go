package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"askq-be/internal/dto"
	"askq-be/internal/entity"
	"askq-be/internal/pkg/apperror"
	"askq-be/internal/pkg/logger"
	"askq-be/internal/repository/unitofwork"
	"askq-be/pkg/events"
	"askq-be/pkg/llm"
	"askq-be/pkg/prompt"
	"askq-be/pkg/utils"
)

const DefaultMaxTokens = 500

var errEmptyReply = errors.New("completion returned an empty reply")

// ChatIdentity is who is sending a chat turn. User is nil for anonymous callers,
// who are charged against QuotaKey.
type ChatIdentity struct {
	User     *entity.User
	QuotaKey string
}

type IChatService interface {
	SendChat(ctx context.Context, identity ChatIdentity, request *dto.ChatRequest) (*dto.ChatResponse, error)
}

type chatService struct {
	uowFactory     unitofwork.RepositoryFactory
	quotaService   IQuotaService
	llmProvider    llm.LLMProvider
	promptBuilder  *prompt.Builder
	eventPublisher events.Publisher
	logger         logger.ILogger
	llmLogger      logger.ILogger
	maxTokens      int
	temperature    float64
}

func NewChatService(
	uowFactory unitofwork.RepositoryFactory,
	quotaService IQuotaService,
	llmProvider llm.LLMProvider,
	promptBuilder *prompt.Builder,
	eventPublisher events.Publisher,
	logger logger.ILogger,
	llmLogger logger.ILogger,
	maxTokens int,
	temperature float64,
) IChatService {
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	return &chatService{
		uowFactory:     uowFactory,
		quotaService:   quotaService,
		llmProvider:    llmProvider,
		promptBuilder:  promptBuilder,
		eventPublisher: eventPublisher,
		logger:         logger,
		llmLogger:      llmLogger,
		maxTokens:      maxTokens,
		temperature:    temperature,
	}
}

func (s *chatService) SendChat(ctx context.Context, identity ChatIdentity, request *dto.ChatRequest) (*dto.ChatResponse, error) {
	if request == nil {
		return nil, apperror.NewValidation("Invalid request")
	}
	if identity.User != nil {
		return s.sendAuthenticated(ctx, identity, request)
	}
	return s.sendAnonymous(ctx, identity, request)
}

func (s *chatService) sendAnonymous(ctx context.Context, identity ChatIdentity, request *dto.ChatRequest) (*dto.ChatResponse, error) {
	if _, err := s.quotaService.Check(ctx, identity.QuotaKey); err != nil {
		return nil, err
	}

	history := clientHistory(request.Messages)
	if len(history) == 0 {
		return nil, apperror.NewValidation("Messages are required")
	}

	reply, err := s.complete(ctx, history, countUserTurns(history)-1)
	if err != nil {
		return nil, err
	}

	count, err := s.quotaService.Increment(ctx, identity.QuotaKey)
	if err != nil {
		return nil, err
	}

	s.publishCompleted(ctx, identity, nil)
	return buildChatResponse(reply, count, nil), nil
}

func (s *chatService) sendAuthenticated(ctx context.Context, identity ChatIdentity, request *dto.ChatRequest) (*dto.ChatResponse, error) {
	owner := entity.UserOwner(identity.User.Id)

	userMessage := strings.TrimSpace(request.UserMessage)
	if userMessage == "" {
		userMessage = lastUserMessage(request.Messages)
	}
	if userMessage == "" {
		return nil, apperror.NewValidation("Message is required")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	var stored []*entity.ChatMessage
	if request.ConversationId != nil {
		if _, err := findOwnedConversation(ctx, uow.ConversationRepository(), owner, *request.ConversationId); err != nil {
			return nil, err
		}
		history, err := loadHistory(ctx, uow.ChatMessageRepository(), *request.ConversationId)
		if err != nil {
			return nil, err
		}
		stored = history
	}

	history := make([]llm.Message, 0, len(stored)+1)
	for _, msg := range stored {
		history = append(history, llm.Message{Role: msg.Role, Content: msg.Content})
	}
	priorUserTurns := countUserTurns(history)
	history = append(history, llm.Message{Role: llm.RoleUser, Content: userMessage})

	reply, err := s.complete(ctx, history, priorUserTurns)
	if err != nil {
		return nil, err
	}

	conversationId, err := s.persistTurn(ctx, uow, owner, request.ConversationId, userMessage, reply)
	if err != nil {
		return nil, err
	}

	count, err := s.quotaService.GetCount(ctx, identity.QuotaKey)
	if err != nil {
		return nil, err
	}

	s.publishCompleted(ctx, identity, &conversationId)
	return buildChatResponse(reply, count, &conversationId), nil
}

// persistTurn stores the user message and the full reply together so a failed
// completion never leaves a dangling user message behind.
func (s *chatService) persistTurn(
	ctx context.Context,
	uow unitofwork.UnitOfWork,
	owner entity.Owner,
	conversationId *uint,
	userMessage, reply string,
) (uint, error) {
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}
	defer uow.Rollback()

	var id uint
	if conversationId != nil {
		id = *conversationId
	} else {
		conversation, err := createConversation(ctx, uow.ConversationRepository(), owner)
		if err != nil {
			return 0, err
		}
		id = conversation.Id
	}

	if _, err := appendMessage(ctx, uow.ConversationRepository(), uow.ChatMessageRepository(), id, entity.ChatRoleUser, userMessage); err != nil {
		return 0, err
	}
	if _, err := appendMessage(ctx, uow.ConversationRepository(), uow.ChatMessageRepository(), id, entity.ChatRoleAssistant, reply); err != nil {
		return 0, err
	}

	if err := uow.Commit(); err != nil {
		return 0, fmt.Errorf("commit chat turn: %w", err)
	}
	return id, nil
}

func (s *chatService) complete(ctx context.Context, history []llm.Message, priorUserTurns int) (string, error) {
	systemPrompt, varied := s.promptBuilder.Build(priorUserTurns)

	messages := make([]llm.Message, 0, len(history)+1)
	messages = append(messages, llm.Message{Role: llm.RoleSystem, Content: systemPrompt})
	messages = append(messages, history...)

	start := time.Now()
	reply, err := s.llmProvider.Chat(ctx, messages,
		llm.WithMaxTokens(s.maxTokens),
		llm.WithTemperature(s.temperature),
	)
	if err == nil && strings.TrimSpace(reply) == "" {
		err = errEmptyReply
	}
	if err != nil {
		s.logger.Error("CHAT", "Completion failed", map[string]interface{}{
			"error": err.Error(),
		})
		s.llmLogger.Error("LLM", "Completion failed", map[string]interface{}{
			"messages":    len(messages),
			"duration_ms": time.Since(start).Milliseconds(),
			"error":       err.Error(),
		})
		return "", &apperror.UpstreamError{Err: err}
	}

	s.llmLogger.Info("LLM", "Completion succeeded", map[string]interface{}{
		"messages":      len(messages),
		"prompt_varied": varied,
		"duration_ms":   time.Since(start).Milliseconds(),
		"reply_chars":   len(reply),
	})
	return reply, nil
}

func (s *chatService) publishCompleted(ctx context.Context, identity ChatIdentity, conversationId *uint) {
	data := map[string]interface{}{"anonymous": identity.User == nil}
	if identity.User != nil {
		data["user_id"] = identity.User.Id
	}
	if conversationId != nil {
		data["conversation_id"] = *conversationId
	}
	publishEvent(ctx, s.eventPublisher, s.logger, events.ChatCompleted, data)
}

func buildChatResponse(reply string, count int, conversationId *uint) *dto.ChatResponse {
	response := &dto.ChatResponse{Count: count, ConversationId: conversationId}
	parts := utils.SplitMessages(reply)
	if len(parts) > 1 {
		response.Messages = parts
	} else {
		response.Message = parts[0]
	}
	return response
}

// clientHistory converts request messages, whose roles are validated at the HTTP boundary.
func clientHistory(messages []dto.ChatMessageDTO) []llm.Message {
	history := make([]llm.Message, 0, len(messages))
	for _, msg := range messages {
		history = append(history, llm.Message{Role: msg.Role, Content: msg.Content})
	}
	return history
}

func lastUserMessage(messages []dto.ChatMessageDTO) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == entity.ChatRoleUser {
			return strings.TrimSpace(messages[i].Content)
		}
	}
	return ""
}

func countUserTurns(history []llm.Message) int {
	n := 0
	for _, msg := range history {
		if msg.Role == llm.RoleUser {
			n++
		}
	}
	return n
}
