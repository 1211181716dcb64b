package models

import (
	"time"

	"github.com/google/uuid"
)

type Chat struct {
	ID          uuid.UUID     `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UserID      *uuid.UUID    `gorm:"type:uuid;index" json:"userId,omitempty"`
	InterviewID string        `gorm:"type:text;uniqueIndex;not null" json:"interviewId"`
	Messages    []ChatMessage `gorm:"foreignKey:ChatID;constraint:OnDelete:CASCADE" json:"messages"`
	CreatedAt   time.Time     `gorm:"default:CURRENT_TIMESTAMP" json:"createdAt"`
}

func (Chat) TableName() string {
	return "chats"
}

type ChatMessage struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	ChatID    uuid.UUID `gorm:"type:uuid;not null;index" json:"-"`
	Sender    string    `gorm:"type:text;not null" json:"sender"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	Score     *int      `json:"score,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

func (ChatMessage) TableName() string {
	return "chat_messages"
}
