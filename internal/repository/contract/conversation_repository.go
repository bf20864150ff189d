package contract

import (
	"context"

	"askq-be/internal/entity"
	"askq-be/internal/repository/specification"
)

type ConversationRepository interface {
	Create(ctx context.Context, conversation *entity.Conversation) error
	UpdateTitle(ctx context.Context, id uint, title string) error
	Delete(ctx context.Context, id uint) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Conversation, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Conversation, error)
	// MigrateDeviceToUser moves every conversation owned by deviceId to userId and returns the number moved.
	MigrateDeviceToUser(ctx context.Context, deviceId string, userId uint) (int64, error)
}
