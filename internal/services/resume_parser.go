package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"go.uber.org/zap"

	"alfredoptarigan/ai-interviewer/internal/metrics"
	"alfredoptarigan/ai-interviewer/internal/models"
)

var (
	ErrInvalidLLMJSON = errors.New("failed to parse JSON data from LLM response")
	// ErrNoJSONObject also matches ErrInvalidLLMJSON.
	ErrNoJSONObject = errors.New("could not find valid JSON structure in LLM response")
)

// llmJSONMessage is the client-facing text for a model reply that could not
// be decoded.
func llmJSONMessage(err error) string {
	if errors.Is(err, ErrNoJSONObject) {
		return "Could not find valid JSON structure in LLM response."
	}
	return "Failed to parse JSON data from LLM response."
}

type ResumeParserService interface {
	ParseResume(ctx context.Context, filename string, data []byte) (*models.ResumeData, error)
}

type resumeParserService struct {
	llm           LLMService
	extractor     DocumentExtractor
	promptBuilder *PromptBuilder
	maxTextLength int
	log           *zap.Logger
	metrics       *metrics.Metrics
}

func NewResumeParserService(
	llm LLMService,
	extractor DocumentExtractor,
	maxTextLength int,
	log *zap.Logger,
	m *metrics.Metrics,
) ResumeParserService {
	return &resumeParserService{
		llm:           llm,
		extractor:     extractor,
		promptBuilder: NewPromptBuilder(),
		maxTextLength: maxTextLength,
		log:           log,
		metrics:       m,
	}
}

// ParseResume extracts the document text and asks the model to structure it.
// Extraction and JSON problems come back as *ValidationError.
func (s *resumeParserService) ParseResume(ctx context.Context, filename string, data []byte) (*models.ResumeData, error) {
	fileType, err := DetectFileType(filename)
	if err != nil {
		s.metrics.ResumeParsed("unknown", "unsupported")
		return nil, &ValidationError{Message: "Unsupported file type. Only PDF and DOCX are allowed.", Err: err}
	}

	content, err := s.extractor.Extract(filename, data)
	if err != nil {
		s.metrics.ResumeParsed(fileType, "extract_error")
		return nil, &ValidationError{Message: err.Error(), Err: err}
	}

	text := CleanText(content.Text)
	if text == "" {
		s.log.Warn("Resume resulted in empty text after extraction", zap.String("filename", filename))
		s.metrics.ResumeParsed(fileType, "empty")
		empty := models.EmptyResumeData()
		return &empty, nil
	}

	if s.maxTextLength > 0 {
		if truncated, ok := truncateRunes(text, s.maxTextLength); ok {
			s.log.Warn("Resume text truncated",
				zap.String("filename", filename),
				zap.Int("max_length", s.maxTextLength))
			text = truncated
		}
	}

	s.log.Debug("Sending resume text for parsing",
		zap.String("filename", filename),
		zap.Int("pages", content.PageCount),
		zap.Int("chars", len(text)))

	response, err := s.llm.Chat(WithOperation(ctx, "parse_resume"), ChatRequest{
		Messages: []ChatMessage{
			{Role: RoleSystem, Content: resumeParserSystemPrompt},
			{Role: RoleUser, Content: s.promptBuilder.BuildResumeParsePrompt(text)},
		},
		Temperature: 0.1,
		JSONMode:    true,
	})
	if err != nil {
		s.metrics.ResumeParsed(fileType, "llm_error")
		return nil, fmt.Errorf("failed to parse resume with LLM: %w", err)
	}

	raw, err := ParseLLMJSON(response)
	if err != nil {
		s.log.Error("LLM response was not valid JSON",
			zap.String("filename", filename),
			zap.String("snippet", snippet(response, 500)),
			zap.Error(err))
		s.metrics.ResumeParsed(fileType, "invalid_json")
		return nil, &ValidationError{Message: llmJSONMessage(err), Err: err}
	}

	resume := NormalizeResumeData(raw)
	s.metrics.ResumeParsed(fileType, "success")
	s.log.Info("Successfully parsed resume",
		zap.String("filename", filename),
		zap.Int("skills", len(resume.Skills)),
		zap.Int("experience", len(resume.Experience)),
		zap.Int("projects", len(resume.Projects)))

	return &resume, nil
}

var codeFenceRe = regexp.MustCompile("(?m)^```(?:json)?\\s*|\\s*```$")

// ParseLLMJSON decodes a JSON object from model output, tolerating markdown
// fences and prose around the object.
func ParseLLMJSON(content string) (map[string]any, error) {
	var parsed map[string]any
	if err := json.Unmarshal([]byte(content), &parsed); err == nil && parsed != nil {
		return parsed, nil
	}

	cleaned := codeFenceRe.ReplaceAllString(strings.TrimSpace(content), "")
	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start == -1 || end <= start {
		return nil, fmt.Errorf("%w: %w", ErrNoJSONObject, ErrInvalidLLMJSON)
	}

	if err := json.Unmarshal([]byte(cleaned[start:end+1]), &parsed); err != nil || parsed == nil {
		return nil, ErrInvalidLLMJSON
	}
	return parsed, nil
}

// NormalizeResumeData coerces loosely shaped model output into ResumeData.
// Missing keys become empty values.
func NormalizeResumeData(raw map[string]any) models.ResumeData {
	resume := models.EmptyResumeData()
	if raw == nil {
		return resume
	}

	if name, ok := raw["name"].(string); ok {
		resume.Name = strings.TrimSpace(name)
	}
	resume.Skills = normalizeSkills(raw["skills"])
	resume.Experience = normalizeEntries(raw["experience"])
	resume.Projects = normalizeEntries(raw["projects"])

	return resume
}

func normalizeSkills(v any) []string {
	skills := []string{}
	seen := map[string]bool{}
	add := func(s string) {
		s = strings.TrimSpace(s)
		if s == "" || seen[strings.ToLower(s)] {
			return
		}
		seen[strings.ToLower(s)] = true
		skills = append(skills, s)
	}

	var walk func(v any)
	walk = func(v any) {
		switch t := v.(type) {
		case string:
			for _, part := range strings.Split(t, ",") {
				add(part)
			}
		case []any:
			for _, item := range t {
				walk(item)
			}
		case map[string]any:
			// Grouped skills ({"languages": [...], "tools": [...]}); keep
			// a stable order.
			keys := make([]string, 0, len(t))
			for k := range t {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				walk(t[k])
			}
		}
	}
	walk(v)

	return skills
}

func normalizeEntries(v any) []map[string]any {
	entries := []map[string]any{}

	switch t := v.(type) {
	case []any:
		for _, item := range t {
			switch e := item.(type) {
			case map[string]any:
				entries = append(entries, e)
			case string:
				if strings.TrimSpace(e) != "" {
					entries = append(entries, map[string]any{"description": strings.TrimSpace(e)})
				}
			}
		}
	case map[string]any:
		entries = append(entries, t)
	case string:
		if strings.TrimSpace(t) != "" {
			entries = append(entries, map[string]any{"description": strings.TrimSpace(t)})
		}
	}

	return entries
}

// ProfileFromResumeData summarises client-supplied resume JSON. It accepts
// the same loose shapes as NormalizeResumeData.
func ProfileFromResumeData(raw map[string]any) CandidateProfile {
	resume := NormalizeResumeData(raw)
	name := resume.Name
	if name == "" {
		name = "the candidate"
	}
	return CandidateProfile{
		Name:            name,
		Skills:          resume.Skills,
		ExperienceCount: len(resume.Experience),
		ProjectCount:    len(resume.Projects),
	}
}

func truncateRunes(s string, max int) (string, bool) {
	count := 0
	for i := range s {
		if count == max {
			return s[:i], true
		}
		count++
	}
	return s, false
}

func snippet(s string, max int) string {
	out, truncated := truncateRunes(s, max)
	if truncated {
		return out + "..."
	}
	return out
}
