package service

import (
	"context"
	"fmt"
	"strings"

	"askq-be/internal/dto"
	"askq-be/internal/entity"
	"askq-be/internal/pkg/apperror"
	"askq-be/internal/pkg/logger"
	"askq-be/internal/repository/contract"
	"askq-be/internal/repository/specification"
	"askq-be/internal/repository/unitofwork"
	"askq-be/pkg/utils"
)

const (
	TitleMaxRunes = 50
	// MaxListLimit caps an explicit page size. Without one the whole list is returned.
	MaxListLimit = 100
)

type IConversationService interface {
	Create(ctx context.Context, owner entity.Owner) (*entity.Conversation, error)
	AppendMessage(ctx context.Context, conversationId uint, role, content string) (*entity.ChatMessage, error)
	GetHistory(ctx context.Context, conversationId uint) ([]*entity.ChatMessage, error)
	// GetDisplayHistory returns the owner's transcript with multi-part replies expanded.
	GetDisplayHistory(ctx context.Context, owner entity.Owner, conversationId uint) ([]dto.ChatMessageDTO, error)
	List(ctx context.Context, owner entity.Owner, limit, offset int) ([]*entity.Conversation, error)
	Delete(ctx context.Context, owner entity.Owner, conversationId uint) error
}

type conversationService struct {
	uowFactory unitofwork.RepositoryFactory
	logger     logger.ILogger
}

func NewConversationService(uowFactory unitofwork.RepositoryFactory, logger logger.ILogger) IConversationService {
	return &conversationService{
		uowFactory: uowFactory,
		logger:     logger,
	}
}

// DeriveTitle builds a conversation title from its first user message.
func DeriveTitle(content string) string {
	return utils.TruncateRunes(content, TitleMaxRunes)
}

func createConversation(ctx context.Context, repo contract.ConversationRepository, owner entity.Owner) (*entity.Conversation, error) {
	if !owner.Valid() {
		return nil, apperror.NewValidation("No identity")
	}

	conversation := &entity.Conversation{Title: entity.DefaultConversationTitle}
	if owner.IsUser() {
		userId := owner.UserId
		conversation.UserId = &userId
	} else {
		deviceId := owner.DeviceId
		conversation.DeviceId = &deviceId
	}

	if err := repo.Create(ctx, conversation); err != nil {
		return nil, fmt.Errorf("create conversation: %w", err)
	}
	return conversation, nil
}

func appendMessage(
	ctx context.Context,
	conversations contract.ConversationRepository,
	messages contract.ChatMessageRepository,
	conversationId uint,
	role, content string,
) (*entity.ChatMessage, error) {
	if role != entity.ChatRoleUser && role != entity.ChatRoleAssistant {
		return nil, apperror.NewValidation("Invalid message role")
	}
	if role == entity.ChatRoleUser {
		content = strings.TrimSpace(content)
	}

	message := &entity.ChatMessage{
		ConversationId: conversationId,
		Role:           role,
		Content:        content,
	}
	if err := messages.Create(ctx, message); err != nil {
		return nil, fmt.Errorf("append message: %w", err)
	}

	if role != entity.ChatRoleUser || content == "" {
		return message, nil
	}

	// The title comes from the first user message with content.
	userMessages, err := messages.Count(ctx,
		specification.ByConversationID{ConversationID: conversationId},
		specification.ByRole{Role: entity.ChatRoleUser},
		specification.NonEmptyContent{},
	)
	if err != nil {
		return nil, fmt.Errorf("count user messages: %w", err)
	}
	if userMessages == 1 {
		if err := conversations.UpdateTitle(ctx, conversationId, DeriveTitle(content)); err != nil {
			return nil, fmt.Errorf("update title: %w", err)
		}
	}
	return message, nil
}

func findOwnedConversation(ctx context.Context, repo contract.ConversationRepository, owner entity.Owner, conversationId uint) (*entity.Conversation, error) {
	if !owner.Valid() {
		return nil, apperror.ErrNotFound
	}
	conversation, err := repo.FindOne(ctx, specification.ByID{ID: conversationId})
	if err != nil {
		return nil, fmt.Errorf("find conversation: %w", err)
	}
	if conversation == nil || !conversation.OwnedBy(owner) {
		return nil, apperror.ErrNotFound
	}
	return conversation, nil
}

func loadHistory(ctx context.Context, repo contract.ChatMessageRepository, conversationId uint) ([]*entity.ChatMessage, error) {
	messages, err := repo.FindAll(ctx,
		specification.ByConversationID{ConversationID: conversationId},
		specification.OrderBy{Field: "id"},
	)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	return messages, nil
}

func (s *conversationService) Create(ctx context.Context, owner entity.Owner) (*entity.Conversation, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return createConversation(ctx, uow.ConversationRepository(), owner)
}

func (s *conversationService) AppendMessage(ctx context.Context, conversationId uint, role, content string) (*entity.ChatMessage, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	conversation, err := uow.ConversationRepository().FindOne(ctx, specification.ByID{ID: conversationId})
	if err != nil {
		return nil, fmt.Errorf("find conversation: %w", err)
	}
	if conversation == nil {
		return nil, apperror.ErrNotFound
	}

	message, err := appendMessage(ctx, uow.ConversationRepository(), uow.ChatMessageRepository(), conversationId, role, content)
	if err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}
	return message, nil
}

func (s *conversationService) GetHistory(ctx context.Context, conversationId uint) ([]*entity.ChatMessage, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return loadHistory(ctx, uow.ChatMessageRepository(), conversationId)
}

func (s *conversationService) GetDisplayHistory(ctx context.Context, owner entity.Owner, conversationId uint) ([]dto.ChatMessageDTO, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if _, err := findOwnedConversation(ctx, uow.ConversationRepository(), owner, conversationId); err != nil {
		return nil, err
	}

	history, err := loadHistory(ctx, uow.ChatMessageRepository(), conversationId)
	if err != nil {
		return nil, err
	}
	return ExpandHistory(history), nil
}

// ExpandHistory turns each multi-part assistant reply into one entry per part.
// The stored rows are left untouched.
func ExpandHistory(history []*entity.ChatMessage) []dto.ChatMessageDTO {
	display := make([]dto.ChatMessageDTO, 0, len(history))
	for _, msg := range history {
		if msg.Role != entity.ChatRoleAssistant {
			display = append(display, dto.ChatMessageDTO{Role: msg.Role, Content: msg.Content})
			continue
		}
		for _, part := range utils.SplitMessages(msg.Content) {
			display = append(display, dto.ChatMessageDTO{Role: msg.Role, Content: part})
		}
	}
	return display
}

func (s *conversationService) List(ctx context.Context, owner entity.Owner, limit, offset int) ([]*entity.Conversation, error) {
	if !owner.Valid() {
		return []*entity.Conversation{}, nil
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	conversations, err := uow.ConversationRepository().FindAll(ctx,
		specification.OwnedBy(owner),
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.OrderBy{Field: "id", Desc: true},
		specification.Pagination{Limit: limit, Offset: offset},
	)
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	return conversations, nil
}

func (s *conversationService) Delete(ctx context.Context, owner entity.Owner, conversationId uint) error {
	if !owner.Valid() {
		return apperror.ErrUnauthenticated
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if _, err := findOwnedConversation(ctx, uow.ConversationRepository(), owner, conversationId); err != nil {
		return err
	}
	if err := uow.ChatMessageRepository().DeleteByConversationId(ctx, conversationId); err != nil {
		return fmt.Errorf("delete messages: %w", err)
	}
	if err := uow.ConversationRepository().Delete(ctx, conversationId); err != nil {
		return fmt.Errorf("delete conversation: %w", err)
	}
	if err := uow.Commit(); err != nil {
		return err
	}

	s.logger.Info("CONVERSATION", "Conversation deleted", map[string]interface{}{
		"conversation_id": conversationId,
	})
	return nil
}
