package services

import (
	"regexp"
	"strconv"
	"strings"
)

const DefaultFeedback = "Feedback not provided."

var (
	feedbackRe = regexp.MustCompile(`(?is)\*\*Feedback:\*\*\s*(.*?)\s*(?:\*\*Score:\*\*|\z)`)
	scoreRe    = regexp.MustCompile(`(?i)\*\*Score:\*\*\s*(\d{1,2})\s*/\s*10`)
)

// AnswerAssessment is the feedback and score an interviewer turn gives the
// previous answer.
type AnswerAssessment struct {
	Feedback string
	Score    *int
}

// ExtractAssessment pulls "**Feedback:** ... **Score:** N/10" out of an
// interviewer reply. Scores outside 0..10 are ignored.
func ExtractAssessment(reply string) AnswerAssessment {
	assessment := AnswerAssessment{Feedback: DefaultFeedback}

	if m := feedbackRe.FindStringSubmatch(reply); m != nil {
		if feedback := strings.TrimSpace(m[1]); feedback != "" {
			assessment.Feedback = feedback
		}
	}

	if m := scoreRe.FindStringSubmatch(reply); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n >= 0 && n <= 10 {
			assessment.Score = &n
		}
	}

	return assessment
}
