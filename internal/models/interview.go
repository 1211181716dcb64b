package models

import (
	"time"

	"github.com/google/uuid"
)

type InterviewStatus string

const (
	StatusNotStarted InterviewStatus = "not_started"
	StatusInProgress InterviewStatus = "in_progress"
	// StatusEnding tells the client the turn limit was reached and the
	// interview should be ended.
	StatusEnding    InterviewStatus = "ending"
	StatusCompleted InterviewStatus = "completed"
)

const (
	EntryTypeInterviewer = "interviewer"
	EntryTypeUser        = "user"
)

type QuestionAnswer struct {
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	Score     *int      `json:"score"`
	Timestamp time.Time `json:"timestamp"`
}

type ConversationEntry struct {
	Type      string    `json:"type"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	Score     *int      `json:"score"`
}

type Interview struct {
	ID                  uuid.UUID           `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	InterviewID         string              `gorm:"type:text;uniqueIndex;not null" json:"interviewId"`
	UserID              uuid.UUID           `gorm:"type:uuid;not null;index" json:"userId"`
	UserName            string              `gorm:"type:text" json:"userName"`
	Date                time.Time           `json:"date"`
	EndDate             time.Time           `json:"endDate"`
	FinalScore          *int                `json:"finalScore"`
	Status              InterviewStatus     `gorm:"type:text;not null;default:'completed'" json:"status"`
	Questions           []QuestionAnswer    `gorm:"type:jsonb;serializer:json" json:"questions"`
	ConversationHistory []ConversationEntry `gorm:"type:jsonb;serializer:json" json:"conversationHistory"`
	CreatedAt           time.Time           `gorm:"default:CURRENT_TIMESTAMP" json:"createdAt"`
	UpdatedAt           time.Time           `gorm:"default:CURRENT_TIMESTAMP" json:"updatedAt"`
}

func (Interview) TableName() string {
	return "interviews"
}
