package contract

import (
	"context"

	"askq-be/internal/entity"
	"askq-be/internal/repository/specification"
)

type UserRepository interface {
	// EnsureByEmail inserts the user when the email is new and leaves existing rows untouched.
	EnsureByEmail(ctx context.Context, email string) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error)
	MarkVerified(ctx context.Context, email string) error

	// Verification codes
	CreateVerificationCode(ctx context.Context, code *entity.VerificationCode) error
	FindVerificationCodes(ctx context.Context, specs ...specification.Specification) ([]*entity.VerificationCode, error)
	// MarkCodeUsed reports false when the code was already used.
	MarkCodeUsed(ctx context.Context, id uint) (bool, error)
	InvalidateOutstandingCodes(ctx context.Context, email string) error

	// Sessions
	CreateSession(ctx context.Context, session *entity.Session) error
	FindUserBySessionTokenHash(ctx context.Context, tokenHash string) (*entity.User, error)
}
