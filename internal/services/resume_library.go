package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"alfredoptarigan/ai-interviewer/internal/models"
	"alfredoptarigan/ai-interviewer/internal/repositories"
)

// ResumeLibrary keeps uploaded resumes for registered users.
type ResumeLibrary interface {
	Save(userID uuid.UUID, filename string, data []byte, parsed models.ResumeData) (*models.Resume, error)
	ListByUser(userID string) ([]models.Resume, error)
}

type resumeLibrary struct {
	storage    StorageService
	resumeRepo repositories.ResumeRepository
	log        *zap.Logger
}

func NewResumeLibrary(storage StorageService, resumeRepo repositories.ResumeRepository, log *zap.Logger) ResumeLibrary {
	return &resumeLibrary{
		storage:    storage,
		resumeRepo: resumeRepo,
		log:        log,
	}
}

// Save implements ResumeLibrary. The stored file is removed again if the
// record cannot be written.
func (l *resumeLibrary) Save(userID uuid.UUID, filename string, data []byte, parsed models.ResumeData) (*models.Resume, error) {
	storedName, _, err := l.storage.SaveFile(filename, data)
	if err != nil {
		return nil, err
	}

	resume := &models.Resume{
		ID:         uuid.New(),
		UserID:     userID,
		FileName:   filename,
		FileURL:    storedName,
		ParsedData: parsed,
		UploadedAt: time.Now().UTC(),
	}
	if err := l.resumeRepo.Create(resume); err != nil {
		if delErr := l.storage.DeleteFile(storedName); delErr != nil {
			l.log.Warn("Failed to remove orphaned upload", zap.String("file", storedName), zap.Error(delErr))
		}
		return nil, err
	}

	l.log.Info("📄 Stored resume",
		zap.String("resume_id", resume.ID.String()),
		zap.String("user_id", userID.String()))
	return resume, nil
}

// ListByUser implements ResumeLibrary.
func (l *resumeLibrary) ListByUser(userID string) ([]models.Resume, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidUserID, userID)
	}
	return l.resumeRepo.FindByUserID(id)
}
