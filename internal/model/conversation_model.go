package model

import "time"

type Conversation struct {
	Id        uint      `gorm:"primaryKey;autoIncrement"`
	UserId    *uint     `gorm:"index"`
	DeviceId  *string   `gorm:"type:varchar(255);index"`
	Title     string    `gorm:"type:text;not null;default:'New conversation'"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (Conversation) TableName() string {
	return "conversations"
}

type ChatMessage struct {
	Id             uint      `gorm:"primaryKey;autoIncrement"`
	ConversationId uint      `gorm:"not null;index"`
	Role           string    `gorm:"type:varchar(20);not null"`
	Content        string    `gorm:"type:text;not null"`
	CreatedAt      time.Time `gorm:"autoCreateTime"`
}

func (ChatMessage) TableName() string {
	return "chat_messages"
}
