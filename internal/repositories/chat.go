package repositories

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"alfredoptarigan/ai-interviewer/internal/models"
)

type ChatRepository interface {
	AppendMessages(interviewID string, userID *uuid.UUID, messages []models.ChatMessage) error
	FindByInterviewID(interviewID string) (*models.Chat, error)
}

type chatRepository struct {
	db *gorm.DB
}

func NewChatRepository(db *gorm.DB) ChatRepository {
	return &chatRepository{db: db}
}

// AppendMessages adds messages to the interview's chat, creating the chat on
// first use.
func (r *chatRepository) AppendMessages(interviewID string, userID *uuid.UUID, messages []models.ChatMessage) error {
	if len(messages) == 0 {
		return nil
	}

	return r.db.Transaction(func(tx *gorm.DB) error {
		chat := models.Chat{
			ID:          uuid.New(),
			InterviewID: interviewID,
			UserID:      userID,
		}
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "interview_id"}},
			DoNothing: true,
		}).Create(&chat).Error
		if err != nil {
			return fmt.Errorf("failed to create chat: %w", err)
		}

		if err := tx.Where("interview_id = ?", interviewID).First(&chat).Error; err != nil {
			return fmt.Errorf("failed to load chat: %w", err)
		}

		rows := make([]models.ChatMessage, len(messages))
		for i, msg := range messages {
			msg.ID = 0
			msg.ChatID = chat.ID
			rows[i] = msg
		}

		if err := tx.Create(&rows).Error; err != nil {
			return fmt.Errorf("failed to append chat messages: %w", err)
		}
		return nil
	})
}

func (r *chatRepository) FindByInterviewID(interviewID string) (*models.Chat, error) {
	var chat models.Chat
	err := r.db.
		Preload("Messages", func(db *gorm.DB) *gorm.DB {
			return db.Order("timestamp ASC, id ASC")
		}).
		Where("interview_id = ?", interviewID).
		First(&chat).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("chat for interview %s: %w", interviewID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find chat: %w", err)
	}
	return &chat, nil
}
