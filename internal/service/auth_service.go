package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"
	"time"

	"askq-be/internal/entity"
	"askq-be/internal/pkg/apperror"
	"askq-be/internal/pkg/logger"
	"askq-be/internal/pkg/mailer"
	"askq-be/internal/repository/specification"
	"askq-be/internal/repository/unitofwork"
	"askq-be/pkg/events"

	"golang.org/x/crypto/bcrypt"
)

type IAuthService interface {
	RequestCode(ctx context.Context, email string) error
	// VerifyCode returns the raw session token for the cookie.
	VerifyCode(ctx context.Context, email, code, deviceId string) (string, error)
	ResolveSession(ctx context.Context, token string) (*entity.User, error)
	MigrateDeviceHistory(ctx context.Context, deviceId string, userId uint) (int64, error)
}

type authService struct {
	uowFactory     unitofwork.RepositoryFactory
	emailService   mailer.IEmailService
	eventPublisher events.Publisher
	logger         logger.ILogger
	codeTTL        time.Duration
	bcryptCost     int
	now            func() time.Time
}

func NewAuthService(
	uowFactory unitofwork.RepositoryFactory,
	emailService mailer.IEmailService,
	eventPublisher events.Publisher,
	logger logger.ILogger,
	codeTTL time.Duration,
	bcryptCost int,
) IAuthService {
	return &authService{
		uowFactory:     uowFactory,
		emailService:   emailService,
		eventPublisher: eventPublisher,
		logger:         logger,
		codeTTL:        codeTTL,
		bcryptCost:     bcryptCost,
		now:            func() time.Time { return time.Now().UTC() },
	}
}

// generateCode returns a six digit code without a leading zero.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

// newSessionToken returns the raw token handed to the client and the hash that is stored.
func newSessionToken() (string, string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", "", err
	}
	raw := hex.EncodeToString(b)
	return raw, hashToken(raw), nil
}

func hashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

func (s *authService) RequestCode(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if !strings.Contains(email, "@") {
		return apperror.NewValidation("Invalid email")
	}

	code, err := generateCode()
	if err != nil {
		return fmt.Errorf("generate code: %w", err)
	}
	codeHash, err := bcrypt.GenerateFromPassword([]byte(code), s.bcryptCost)
	if err != nil {
		return fmt.Errorf("hash code: %w", err)
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.UserRepository().EnsureByEmail(ctx, email); err != nil {
		return fmt.Errorf("ensure user: %w", err)
	}
	user, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: email})
	if err != nil {
		return fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		return fmt.Errorf("find user: no row for %s after insert", email)
	}
	verification := &entity.VerificationCode{
		Email:     email,
		CodeHash:  string(codeHash),
		ExpiresAt: s.now().Add(s.codeTTL),
	}
	if err := uow.UserRepository().CreateVerificationCode(ctx, verification); err != nil {
		return fmt.Errorf("store code: %w", err)
	}
	if err := uow.Commit(); err != nil {
		return err
	}

	if err := s.emailService.SendVerificationCode(email, code); err != nil {
		s.logger.Error("AUTH", "Failed to send verification code", map[string]interface{}{
			"email": email,
			"error": err.Error(),
		})
		return fmt.Errorf("send verification code: %w", err)
	}

	publishEvent(ctx, s.eventPublisher, s.logger, events.AuthCodeRequested, map[string]interface{}{
		"user_id": user.Id,
	})
	return nil
}

func (s *authService) VerifyCode(ctx context.Context, email, code, deviceId string) (string, error) {
	email = strings.TrimSpace(email)
	code = strings.TrimSpace(code)
	if email == "" || code == "" {
		return "", apperror.NewValidation("Missing email or code")
	}

	now := s.now()
	uow := s.uowFactory.NewUnitOfWork(ctx)

	candidates, err := uow.UserRepository().FindVerificationCodes(ctx,
		specification.ByEmail{Email: email},
		specification.Unused{},
		specification.NotExpired{At: now},
		specification.OrderBy{Field: "id", Desc: true},
	)
	if err != nil {
		return "", fmt.Errorf("find codes: %w", err)
	}

	var matched *entity.VerificationCode
	for _, candidate := range candidates {
		if candidate.Expired(now) {
			continue
		}
		if bcrypt.CompareHashAndPassword([]byte(candidate.CodeHash), []byte(code)) == nil {
			matched = candidate
			break
		}
	}
	if matched == nil {
		return "", apperror.ErrInvalidOrExpiredCode
	}

	user, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: email})
	if err != nil {
		return "", fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		return "", apperror.ErrInvalidOrExpiredCode
	}

	rawToken, tokenHash, err := newSessionToken()
	if err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}

	if err := uow.Begin(ctx); err != nil {
		return "", err
	}
	defer uow.Rollback()

	claimed, err := uow.UserRepository().MarkCodeUsed(ctx, matched.Id)
	if err != nil {
		return "", fmt.Errorf("mark code used: %w", err)
	}
	if !claimed {
		return "", apperror.ErrInvalidOrExpiredCode
	}
	if err := uow.UserRepository().InvalidateOutstandingCodes(ctx, email); err != nil {
		return "", fmt.Errorf("invalidate codes: %w", err)
	}
	if err := uow.UserRepository().MarkVerified(ctx, email); err != nil {
		return "", fmt.Errorf("mark verified: %w", err)
	}
	if err := uow.UserRepository().CreateSession(ctx, &entity.Session{
		UserId:    user.Id,
		TokenHash: tokenHash,
		CreatedAt: now,
	}); err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}

	var migrated int64
	if deviceId = strings.TrimSpace(deviceId); deviceId != "" {
		migrated, err = uow.ConversationRepository().MigrateDeviceToUser(ctx, deviceId, user.Id)
		if err != nil {
			return "", fmt.Errorf("migrate device history: %w", err)
		}
	}

	if err := uow.Commit(); err != nil {
		return "", err
	}

	s.logger.Info("AUTH", "User verified", map[string]interface{}{
		"user_id":                user.Id,
		"migrated_conversations": migrated,
	})
	publishEvent(ctx, s.eventPublisher, s.logger, events.UserVerified, map[string]interface{}{
		"user_id":                user.Id,
		"migrated_conversations": migrated,
	})

	return rawToken, nil
}

func (s *authService) ResolveSession(ctx context.Context, token string) (*entity.User, error) {
	if token == "" {
		return nil, apperror.ErrUnauthenticated
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindUserBySessionTokenHash(ctx, hashToken(token))
	if err != nil {
		return nil, fmt.Errorf("resolve session: %w", err)
	}
	if user == nil {
		return nil, apperror.ErrUnauthenticated
	}
	return user, nil
}

func (s *authService) MigrateDeviceHistory(ctx context.Context, deviceId string, userId uint) (int64, error) {
	if deviceId == "" || userId == 0 {
		return 0, apperror.NewValidation("Missing device or user")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	moved, err := uow.ConversationRepository().MigrateDeviceToUser(ctx, deviceId, userId)
	if err != nil {
		return 0, fmt.Errorf("migrate device history: %w", err)
	}
	return moved, nil
}
