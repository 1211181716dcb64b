package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"alfredoptarigan/ai-interviewer/internal/metrics"
	"alfredoptarigan/ai-interviewer/internal/models"
	"alfredoptarigan/ai-interviewer/internal/repositories"
)

const (
	unansweredBeforeNext = "[No specific user answer recorded before next question]"
	unansweredAtEnd      = "[Interview ended before answer]"
)

type InterviewService interface {
	Start(ctx context.Context, resumeData map[string]any, userID string) (*models.StartInterviewResponse, error)
	Continue(ctx context.Context, interviewID, userResponse string) (*models.ContinueInterviewResponse, error)
	End(ctx context.Context, interviewID string) (*models.EndInterviewResponse, error)
	// Get returns the stored interview, or a snapshot of the live session.
	Get(interviewID string) (any, error)
	GetChat(interviewID string) (*models.Chat, error)
	ListByUser(userID string) ([]models.Interview, error)
}

type InterviewOptions struct {
	MaxMessages int
}

type interviewService struct {
	llm           LLMService
	store         *SessionStore
	interviewRepo repositories.InterviewRepository
	chatRepo      repositories.ChatRepository
	transcripts   TranscriptQueue
	guidelines    GuidelineRetriever
	promptBuilder *PromptBuilder
	maxMessages   int
	now           func() time.Time
	log           *zap.Logger
	metrics       *metrics.Metrics
}

// NewInterviewService wires the interview engine. guidelines may be nil.
func NewInterviewService(
	llm LLMService,
	store *SessionStore,
	interviewRepo repositories.InterviewRepository,
	chatRepo repositories.ChatRepository,
	transcripts TranscriptQueue,
	guidelines GuidelineRetriever,
	opts InterviewOptions,
	log *zap.Logger,
	m *metrics.Metrics,
) InterviewService {
	maxMessages := opts.MaxMessages
	if maxMessages <= 0 {
		maxMessages = 15
	}

	store.OnChange(m.SetActiveSessions)

	return &interviewService{
		llm:           llm,
		store:         store,
		interviewRepo: interviewRepo,
		chatRepo:      chatRepo,
		transcripts:   transcripts,
		guidelines:    guidelines,
		promptBuilder: NewPromptBuilder(),
		maxMessages:   maxMessages,
		now:           func() time.Time { return time.Now().UTC() },
		log:           log,
		metrics:       m,
	}
}

// Start implements InterviewService.
func (s *interviewService) Start(ctx context.Context, resumeData map[string]any, userID string) (*models.StartInterviewResponse, error) {
	if len(resumeData) == 0 {
		return nil, &ValidationError{Message: "Request JSON must include a valid 'resumeData' object."}
	}

	profile := ProfileFromResumeData(resumeData)
	guidelines := s.retrieveGuidelines(ctx, profile)
	systemPrompt := s.promptBuilder.BuildInterviewerPrompt(profile, guidelines)

	interviewID := uuid.NewString()
	s.log.Debug("Starting interview", zap.String("interview_id", interviewID))

	greeting, err := s.llm.Chat(WithOperation(ctx, "start_interview"), ChatRequest{
		Messages: []ChatMessage{
			{Role: RoleSystem, Content: systemPrompt},
			{Role: RoleUser, Content: startInterviewTrigger},
		},
		Temperature: 0.7,
	})
	if err != nil {
		s.metrics.InterviewEvent("start_failed")
		return nil, fmt.Errorf("failed to start interview: %w", err)
	}

	now := s.now()
	session := &Session{
		ID:           interviewID,
		UserID:       userID,
		UserName:     profile.Name,
		Status:       models.StatusInProgress,
		SystemPrompt: systemPrompt,
		History: []Turn{
			{Role: RoleAssistant, Content: greeting, Timestamp: now},
		},
		Scores:    []int{},
		StartTime: now,
	}
	s.store.Put(session)
	s.queueTranscript(session, session.History)

	s.metrics.InterviewEvent("started")
	s.log.Info("Started interview",
		zap.String("interview_id", interviewID),
		zap.String("user_id", userID),
		zap.String("candidate", profile.Name))

	return &models.StartInterviewResponse{
		Message:         greeting,
		InterviewID:     interviewID,
		InterviewStatus: models.StatusInProgress,
	}, nil
}

// Continue implements InterviewService.
func (s *interviewService) Continue(ctx context.Context, interviewID, userResponse string) (*models.ContinueInterviewResponse, error) {
	session, ok := s.store.Get(interviewID)
	if interviewID == "" || !ok {
		return nil, ErrInterviewNotFound
	}
	if strings.TrimSpace(userResponse) == "" {
		return nil, &ValidationError{Message: "userResponse is required."}
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	if session.closed {
		return nil, ErrInterviewNotFound
	}
	if session.Status != models.StatusInProgress {
		s.log.Warn("Attempt to continue interview that is not in progress",
			zap.String("interview_id", interviewID),
			zap.String("status", string(session.Status)))
		return nil, &StatusError{Status: session.Status}
	}

	session.History = append(session.History, Turn{
		Role:      RoleUser,
		Content:   userResponse,
		Timestamp: s.now(),
	})

	messages := make([]ChatMessage, 0, len(session.History)+1)
	messages = append(messages, ChatMessage{Role: RoleSystem, Content: session.SystemPrompt})
	for _, turn := range session.History {
		messages = append(messages, ChatMessage{Role: turn.Role, Content: turn.Content})
	}

	reply, err := s.llm.Chat(WithOperation(ctx, "continue_interview"), ChatRequest{
		Messages:    messages,
		Temperature: 0.6,
	})
	if err != nil {
		// Drop the unanswered turn so the candidate can resend it.
		session.History = session.History[:len(session.History)-1]
		return nil, fmt.Errorf("failed to continue interview: %w", err)
	}

	assessment := ExtractAssessment(reply)
	if assessment.Score != nil {
		session.Scores = append(session.Scores, *assessment.Score)
	} else {
		s.log.Warn("Feedback/score pattern not found in response",
			zap.String("interview_id", interviewID),
			zap.String("snippet", snippet(reply, 100)))
	}

	session.History = append(session.History, Turn{
		Role:      RoleAssistant,
		Content:   reply,
		Timestamp: s.now(),
		Score:     assessment.Score,
	})
	s.queueTranscript(session, session.History[len(session.History)-2:])
	s.metrics.Turn(assessment.Score)

	message := reply
	if len(session.History) >= s.maxMessages {
		session.Status = models.StatusEnding
		message += ClosingRemark
		s.metrics.InterviewEvent("limit_reached")
		s.log.Info("Interview reached message limit, signaling end",
			zap.String("interview_id", interviewID),
			zap.Int("max_messages", s.maxMessages))
	}

	return &models.ContinueInterviewResponse{
		InterviewStatus: session.Status,
		Message:         message,
		Feedback:        assessment.Feedback,
		Score:           assessment.Score,
	}, nil
}

// End implements InterviewService. The session is discarded whatever the
// outcome.
func (s *interviewService) End(ctx context.Context, interviewID string) (*models.EndInterviewResponse, error) {
	session, ok := s.store.Get(interviewID)
	if interviewID == "" || !ok {
		return nil, ErrInterviewNotFound
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	if session.closed {
		return nil, ErrInterviewNotFound
	}
	defer s.store.Remove(session)

	if session.UserID == "" {
		s.log.Error("Interview cannot be saved because userId is missing", zap.String("interview_id", interviewID))
		s.metrics.InterviewEvent("discarded")
		return nil, ErrMissingUserID
	}

	userID, err := uuid.Parse(session.UserID)
	if err != nil {
		s.log.Error("Invalid userId format",
			zap.String("interview_id", interviewID),
			zap.String("user_id", session.UserID))
		s.metrics.InterviewEvent("discarded")
		return nil, fmt.Errorf("%w: %s", ErrInvalidUserID, session.UserID)
	}

	record := BuildInterviewRecord(session, userID, s.now())

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.interviewRepo.Create(record); err != nil {
		s.metrics.InterviewEvent("save_failed")
		return nil, fmt.Errorf("failed to save interview: %w", err)
	}

	s.metrics.InterviewEvent("completed")
	s.log.Info("Interview ended and saved",
		zap.String("interview_id", interviewID),
		zap.Any("final_score", record.FinalScore))

	return &models.EndInterviewResponse{
		Message:     "Interview ended and saved successfully.",
		InterviewID: interviewID,
		FinalScore:  record.FinalScore,
	}, nil
}

// Get implements InterviewService.
func (s *interviewService) Get(interviewID string) (any, error) {
	if session, ok := s.store.Get(interviewID); ok {
		session.mu.Lock()
		defer session.mu.Unlock()
		if !session.closed {
			return snapshot(session), nil
		}
	}

	interview, err := s.interviewRepo.FindByInterviewID(interviewID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInterviewNotFound
		}
		return nil, err
	}
	return interview, nil
}

// GetChat implements InterviewService.
func (s *interviewService) GetChat(interviewID string) (*models.Chat, error) {
	chat, err := s.chatRepo.FindByInterviewID(interviewID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInterviewNotFound
		}
		return nil, err
	}
	return chat, nil
}

// ListByUser implements InterviewService.
func (s *interviewService) ListByUser(userID string) ([]models.Interview, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidUserID, userID)
	}
	return s.interviewRepo.FindByUserID(id)
}

func (s *interviewService) retrieveGuidelines(ctx context.Context, profile CandidateProfile) string {
	if s.guidelines == nil {
		return ""
	}

	guidelines, err := s.guidelines.RetrieveGuidelines(ctx, s.promptBuilder.BuildGuidelineQuery(profile))
	if err != nil {
		s.log.Warn("⚠️ Failed to retrieve interview guidelines", zap.Error(err))
		return ""
	}
	return guidelines
}

func (s *interviewService) queueTranscript(session *Session, turns []Turn) {
	if s.transcripts == nil {
		return
	}

	var userID *uuid.UUID
	if id, err := uuid.Parse(session.UserID); err == nil {
		userID = &id
	}

	messages := make([]models.ChatMessage, len(turns))
	for i, turn := range turns {
		messages[i] = models.ChatMessage{
			Sender:    entryType(turn.Role),
			Content:   turn.Content,
			Score:     turn.Score,
			Timestamp: turn.Timestamp,
		}
	}

	s.transcripts.Enqueue(TranscriptJob{
		InterviewID: session.ID,
		UserID:      userID,
		Messages:    messages,
	})
}

// FinalScore is the mean of the answer scores rounded half to even, or nil
// when no answer was scored.
func FinalScore(scores []int) *int {
	if len(scores) == 0 {
		return nil
	}

	sum := 0
	for _, score := range scores {
		sum += score
	}
	final := int(math.RoundToEven(float64(sum) / float64(len(scores))))
	return &final
}

// BuildConversation converts live turns into the stored history and
// question/answer pairs. The score on an interviewer turn rates the answer
// before it, so it is attached to the most recently answered pair.
func BuildConversation(history []Turn) ([]models.ConversationEntry, []models.QuestionAnswer) {
	entries := make([]models.ConversationEntry, 0, len(history))
	pairs := []models.QuestionAnswer{}

	var pending *models.QuestionAnswer
	lastAnswered := -1

	for _, turn := range history {
		kind := entryType(turn.Role)
		entries = append(entries, models.ConversationEntry{
			Type:      kind,
			Content:   turn.Content,
			Timestamp: turn.Timestamp,
			Score:     turn.Score,
		})

		switch kind {
		case models.EntryTypeInterviewer:
			if turn.Score != nil && lastAnswered >= 0 && pairs[lastAnswered].Score == nil {
				score := *turn.Score
				pairs[lastAnswered].Score = &score
			}
			if pending != nil {
				pending.Answer = unansweredBeforeNext
				pairs = append(pairs, *pending)
			}
			pending = &models.QuestionAnswer{
				Question:  turn.Content,
				Timestamp: turn.Timestamp,
			}
		case models.EntryTypeUser:
			if pending == nil {
				continue
			}
			pending.Answer = turn.Content
			pairs = append(pairs, *pending)
			lastAnswered = len(pairs) - 1
			pending = nil
		}
	}

	if pending != nil {
		pending.Answer = unansweredAtEnd
		pairs = append(pairs, *pending)
	}

	return entries, pairs
}

// BuildInterviewRecord produces the stored form of a finished session.
func BuildInterviewRecord(session *Session, userID uuid.UUID, endedAt time.Time) *models.Interview {
	entries, pairs := BuildConversation(session.History)

	return &models.Interview{
		ID:                  uuid.New(),
		InterviewID:         session.ID,
		UserID:              userID,
		UserName:            session.UserName,
		Date:                session.StartTime,
		EndDate:             endedAt,
		FinalScore:          FinalScore(session.Scores),
		Status:              models.StatusCompleted,
		Questions:           pairs,
		ConversationHistory: entries,
		CreatedAt:           endedAt,
		UpdatedAt:           endedAt,
	}
}

func snapshot(session *Session) *models.InterviewSnapshot {
	entries, _ := BuildConversation(session.History)
	scores := append([]int(nil), session.Scores...)
	if scores == nil {
		scores = []int{}
	}

	return &models.InterviewSnapshot{
		InterviewID:         session.ID,
		UserName:            session.UserName,
		Status:              session.Status,
		Date:                session.StartTime,
		Scores:              scores,
		ConversationHistory: entries,
	}
}

func entryType(role string) string {
	if role == RoleAssistant {
		return models.EntryTypeInterviewer
	}
	return models.EntryTypeUser
}
