package repositories

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"alfredoptarigan/ai-interviewer/internal/models"
)

type ResumeRepository interface {
	Create(resume *models.Resume) error
	FindByUserID(userID uuid.UUID) ([]models.Resume, error)
}

type resumeRepository struct {
	db *gorm.DB
}

func NewResumeRepository(db *gorm.DB) ResumeRepository {
	return &resumeRepository{db: db}
}

func (r *resumeRepository) Create(resume *models.Resume) error {
	if err := r.db.Create(resume).Error; err != nil {
		return fmt.Errorf("failed to create resume: %w", err)
	}
	return nil
}

func (r *resumeRepository) FindByUserID(userID uuid.UUID) ([]models.Resume, error) {
	var resumes []models.Resume
	err := r.db.
		Where("user_id = ?", userID).
		Order("uploaded_at DESC").
		Find(&resumes).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find resumes: %w", err)
	}
	return resumes, nil
}
