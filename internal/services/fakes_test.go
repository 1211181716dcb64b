package services

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"alfredoptarigan/ai-interviewer/internal/models"
	"alfredoptarigan/ai-interviewer/internal/repositories"
)

var errLLMDown = errors.New("llm down")

// scriptedLLM replays canned replies and records every request.
type scriptedLLM struct {
	mu       sync.Mutex
	replies  []string
	errs     []error
	requests []ChatRequest
}

func (l *scriptedLLM) Name() string { return "scripted" }

func (l *scriptedLLM) Chat(ctx context.Context, req ChatRequest) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.requests = append(l.requests, req)
	if len(l.errs) > 0 {
		err := l.errs[0]
		l.errs = l.errs[1:]
		if err != nil {
			return "", err
		}
	}
	if len(l.replies) == 0 {
		return "Next question? **Feedback:** Fine. **Score:** 5/10", nil
	}
	reply := l.replies[0]
	l.replies = l.replies[1:]
	return reply, nil
}

func (l *scriptedLLM) lastRequest() ChatRequest {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.requests[len(l.requests)-1]
}

type memInterviewRepo struct {
	mu        sync.Mutex
	saved     map[string]*models.Interview
	createErr error
}

func newMemInterviewRepo() *memInterviewRepo {
	return &memInterviewRepo{saved: map[string]*models.Interview{}}
}

func (r *memInterviewRepo) Create(interview *models.Interview) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	r.saved[interview.InterviewID] = interview
	return nil
}

func (r *memInterviewRepo) FindByInterviewID(interviewID string) (*models.Interview, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if interview, ok := r.saved[interviewID]; ok {
		return interview, nil
	}
	return nil, repositories.ErrNotFound
}

func (r *memInterviewRepo) FindByUserID(userID uuid.UUID) ([]models.Interview, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Interview
	for _, interview := range r.saved {
		if interview.UserID == userID {
			out = append(out, *interview)
		}
	}
	return out, nil
}

type memChatRepo struct {
	mu       sync.Mutex
	messages map[string][]models.ChatMessage
	err      error
}

func newMemChatRepo() *memChatRepo {
	return &memChatRepo{messages: map[string][]models.ChatMessage{}}
}

func (r *memChatRepo) AppendMessages(interviewID string, userID *uuid.UUID, messages []models.ChatMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.messages[interviewID] = append(r.messages[interviewID], messages...)
	return nil
}

func (r *memChatRepo) FindByInterviewID(interviewID string) (*models.Chat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	messages, ok := r.messages[interviewID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &models.Chat{InterviewID: interviewID, Messages: messages}, nil
}

func (r *memChatRepo) count(interviewID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.messages[interviewID])
}

// syncQueue writes transcript jobs straight to the chat repository.
type syncQueue struct {
	repo *memChatRepo
}

func (q *syncQueue) Enqueue(job TranscriptJob) bool {
	return q.repo.AppendMessages(job.InterviewID, job.UserID, job.Messages) == nil
}

type stubRetriever struct {
	context string
	err     error
	queries []string
}

func (r *stubRetriever) RetrieveGuidelines(ctx context.Context, query string) (string, error) {
	r.queries = append(r.queries, query)
	return r.context, r.err
}
