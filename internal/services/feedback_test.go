package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractAssessment(t *testing.T) {
	tests := []struct {
		name         string
		reply        string
		wantFeedback string
		wantScore    *int
	}{
		{
			name:         "feedback and score",
			reply:        "Tell me about testing.\n\n**Feedback:** Solid example. **Score:** 7/10",
			wantFeedback: "Solid example.",
			wantScore:    intPtr(7),
		},
		{
			name:         "case and whitespace tolerant",
			reply:        "Next?\n**feedback:**   Be more concrete.\n**SCORE:** 4 / 10",
			wantFeedback: "Be more concrete.",
			wantScore:    intPtr(4),
		},
		{
			name:         "multi-line feedback",
			reply:        "**Feedback:** Good start.\nMention tradeoffs. **Score:** 6/10",
			wantFeedback: "Good start.\nMention tradeoffs.",
			wantScore:    intPtr(6),
		},
		{
			name:         "score without feedback",
			reply:        "Next question. **Score:** 9/10",
			wantFeedback: DefaultFeedback,
			wantScore:    intPtr(9),
		},
		{
			name:         "feedback without score",
			reply:        "Next question.\n**Feedback:** Nice.",
			wantFeedback: "Nice.",
		},
		{
			name:         "out of range score",
			reply:        "**Feedback:** Hmm. **Score:** 11/10",
			wantFeedback: "Hmm.",
		},
		{
			name:         "no markers",
			reply:        "Welcome! Let's begin.",
			wantFeedback: DefaultFeedback,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractAssessment(tt.reply)
			assert.Equal(t, tt.wantFeedback, got.Feedback)
			assert.Equal(t, tt.wantScore, got.Score)
		})
	}
}
