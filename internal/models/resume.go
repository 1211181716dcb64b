package models

import (
	"time"

	"github.com/google/uuid"
)

// ResumeData is the structured form of a parsed resume. Experience and
// project entries keep whatever keys the model produced.
type ResumeData struct {
	Name       string           `json:"name"`
	Skills     []string         `json:"skills"`
	Experience []map[string]any `json:"experience"`
	Projects   []map[string]any `json:"projects"`
}

// EmptyResumeData is returned when a document has no extractable text.
func EmptyResumeData() ResumeData {
	return ResumeData{
		Skills:     []string{},
		Experience: []map[string]any{},
		Projects:   []map[string]any{},
	}
}

type Resume struct {
	ID         uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UserID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"userId"`
	FileName   string     `gorm:"type:text" json:"fileName"`
	FileURL    string     `gorm:"type:text" json:"fileUrl"`
	ParsedData ResumeData `gorm:"type:jsonb;serializer:json" json:"parsedData"`
	UploadedAt time.Time  `gorm:"default:CURRENT_TIMESTAMP" json:"uploadedAt"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (Resume) TableName() string {
	return "resumes"
}
