package repositories

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"alfredoptarigan/ai-interviewer/internal/models"
)

type InterviewRepository interface {
	Create(interview *models.Interview) error
	FindByInterviewID(interviewID string) (*models.Interview, error)
	FindByUserID(userID uuid.UUID) ([]models.Interview, error)
}

type interviewRepository struct {
	db *gorm.DB
}

func NewInterviewRepository(db *gorm.DB) InterviewRepository {
	return &interviewRepository{db: db}
}

func (r *interviewRepository) Create(interview *models.Interview) error {
	if err := r.db.Create(interview).Error; err != nil {
		return fmt.Errorf("failed to create interview: %w", err)
	}
	return nil
}

// FindByInterviewID looks the interview up by its public id, falling back to
// the row primary key when the value is a UUID.
func (r *interviewRepository) FindByInterviewID(interviewID string) (*models.Interview, error) {
	var interview models.Interview
	err := r.db.Where("interview_id = ?", interviewID).First(&interview).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if id, parseErr := uuid.Parse(interviewID); parseErr == nil {
			err = r.db.Where("id = ?", id).First(&interview).Error
		}
	}

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("interview %s: %w", interviewID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find interview: %w", err)
	}
	return &interview, nil
}

func (r *interviewRepository) FindByUserID(userID uuid.UUID) ([]models.Interview, error) {
	var interviews []models.Interview
	err := r.db.
		Where("user_id = ?", userID).
		Order("date DESC").
		Find(&interviews).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find interviews: %w", err)
	}
	return interviews, nil
}
