package implementation

import (
	"context"
	"errors"

	"askq-be/internal/model"
	"askq-be/internal/repository/contract"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AnonymousCountRepositoryImpl struct {
	db *gorm.DB
}

func NewAnonymousCountRepository(db *gorm.DB) contract.AnonymousCountRepository {
	return &AnonymousCountRepositoryImpl{db: db}
}

func (r *AnonymousCountRepositoryImpl) Get(ctx context.Context, key string) (int, error) {
	var m model.AnonymousCount
	if err := r.db.WithContext(ctx).First(&m, "ip = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return m.Count, nil
}

// Increment upserts the counter row; the insert branch starts at 1 and the
// conflict branch adds 1 in the same statement.
func (r *AnonymousCountRepositoryImpl) Increment(ctx context.Context, key string) (int, error) {
	row := model.AnonymousCount{Ip: key, Count: 1}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "ip"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"count":      gorm.Expr("count + 1"),
			"updated_at": gorm.Expr("CURRENT_TIMESTAMP"),
		}),
	}).Create(&row).Error
	if err != nil {
		return 0, err
	}
	// The struct is not refreshed on the conflict branch, so read it back.
	return r.Get(ctx, key)
}
