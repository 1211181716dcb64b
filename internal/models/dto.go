package models

import "time"

type ParseResumeResponse struct {
	ResumeData
	ResumeID string `json:"resumeId,omitempty"`
}

type StartInterviewRequest struct {
	ResumeData map[string]any `json:"resumeData"`
	UserID     string         `json:"userId"`
}

type StartInterviewResponse struct {
	Message         string          `json:"message"`
	InterviewID     string          `json:"interviewId"`
	InterviewStatus InterviewStatus `json:"interviewStatus"`
}

// ContinueInterviewRequest mirrors the client payload. ResumeData and
// ConversationHistory are accepted but the server-side history wins.
type ContinueInterviewRequest struct {
	InterviewID         string           `json:"interviewId"`
	UserResponse        string           `json:"userResponse"`
	ResumeData          map[string]any   `json:"resumeData,omitempty"`
	ConversationHistory []map[string]any `json:"conversationHistory,omitempty"`
}

type ContinueInterviewResponse struct {
	InterviewStatus InterviewStatus `json:"interviewStatus"`
	Message         string          `json:"message"`
	Feedback        string          `json:"feedback"`
	Score           *int            `json:"score"`
}

type EndInterviewRequest struct {
	InterviewID string `json:"interviewId"`
}

type EndInterviewResponse struct {
	Message     string `json:"message"`
	InterviewID string `json:"interviewId"`
	FinalScore  *int   `json:"finalScore"`
}

// InterviewSnapshot is the read view of a live, not yet stored, interview.
type InterviewSnapshot struct {
	InterviewID         string              `json:"interviewId"`
	UserName            string              `json:"userName"`
	Status              InterviewStatus     `json:"status"`
	Date                time.Time           `json:"date"`
	Scores              []int               `json:"scores"`
	ConversationHistory []ConversationEntry `json:"conversationHistory"`
}

type CreateUserRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}
