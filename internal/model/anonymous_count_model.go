package model

import "time"

// AnonymousCount is keyed by the client's quota key (normally its IP).
type AnonymousCount struct {
	Ip        string    `gorm:"type:varchar(255);primaryKey"`
	Count     int       `gorm:"not null;default:0"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (AnonymousCount) TableName() string {
	return "anonymous_counts"
}

// All returns every model owned by the schema, in migration order.
func All() []interface{} {
	return []interface{}{
		&User{},
		&VerificationCode{},
		&Session{},
		&Conversation{},
		&ChatMessage{},
		&AnonymousCount{},
	}
}
