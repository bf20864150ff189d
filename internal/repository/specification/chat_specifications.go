package specification

import (
	"askq-be/internal/entity"

	"gorm.io/gorm"
)

type ByConversationID struct {
	ConversationID uint
}

func (s ByConversationID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("conversation_id = ?", s.ConversationID)
}

type DeviceOwnedBy struct {
	DeviceID string
}

func (s DeviceOwnedBy) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("device_id = ?", s.DeviceID)
}

type ByRole struct {
	Role string
}

func (s ByRole) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("role = ?", s.Role)
}

// NonEmptyContent skips messages stored with empty content.
type NonEmptyContent struct{}

func (s NonEmptyContent) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("content <> ''")
}

// OwnedBy resolves an entity.Owner to the matching ownership filter.
func OwnedBy(o entity.Owner) Specification {
	if o.IsUser() {
		return UserOwnedBy{UserID: o.UserId}
	}
	return DeviceOwnedBy{DeviceID: o.DeviceId}
}
