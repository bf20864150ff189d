package implementation

import (
	"context"
	"errors"

	"askq-be/internal/entity"
	"askq-be/internal/mapper"
	"askq-be/internal/model"
	"askq-be/internal/repository/contract"
	"askq-be/internal/repository/specification"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.UserMapper
}

func NewUserRepository(db *gorm.DB) contract.UserRepository {
	return &UserRepositoryImpl{
		db:     db,
		mapper: mapper.NewUserMapper(),
	}
}

func (r *UserRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *UserRepositoryImpl) EnsureByEmail(ctx context.Context, email string) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "email"}},
			DoNothing: true,
		}).
		Create(&model.User{Email: email}).Error
}

func (r *UserRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error) {
	var m model.User
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *UserRepositoryImpl) MarkVerified(ctx context.Context, email string) error {
	return r.db.WithContext(ctx).Model(&model.User{}).
		Where("email = ?", email).
		Update("verified", true).Error
}

// Verification Codes

func (r *UserRepositoryImpl) CreateVerificationCode(ctx context.Context, code *entity.VerificationCode) error {
	m := r.mapper.VerificationCodeToModel(code)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*code = *r.mapper.VerificationCodeToEntity(m)
	return nil
}

func (r *UserRepositoryImpl) FindVerificationCodes(ctx context.Context, specs ...specification.Specification) ([]*entity.VerificationCode, error) {
	var models []*model.VerificationCode
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.VerificationCode, len(models))
	for i, m := range models {
		entities[i] = r.mapper.VerificationCodeToEntity(m)
	}
	return entities, nil
}

func (r *UserRepositoryImpl) MarkCodeUsed(ctx context.Context, id uint) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.VerificationCode{}).
		Where("id = ? AND used = ?", id, false).
		Update("used", true)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *UserRepositoryImpl) InvalidateOutstandingCodes(ctx context.Context, email string) error {
	return r.db.WithContext(ctx).Model(&model.VerificationCode{}).
		Where("email = ? AND used = ?", email, false).
		Update("used", true).Error
}

// Sessions

func (r *UserRepositoryImpl) CreateSession(ctx context.Context, session *entity.Session) error {
	m := r.mapper.SessionToModel(session)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*session = *r.mapper.SessionToEntity(m)
	return nil
}

func (r *UserRepositoryImpl) FindUserBySessionTokenHash(ctx context.Context, tokenHash string) (*entity.User, error) {
	var m model.User
	err := r.db.WithContext(ctx).
		Joins("JOIN sessions ON sessions.user_id = users.id").
		Where("sessions.token_hash = ?", tokenHash).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}
