package services

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCandidateProfile_SkillsSummary(t *testing.T) {
	var many []string
	for i := 1; i <= 12; i++ {
		many = append(many, fmt.Sprintf("s%d", i))
	}

	tests := []struct {
		name   string
		skills []string
		want   string
	}{
		{name: "none", want: "Not specified"},
		{name: "few", skills: []string{"Go", "SQL"}, want: "Go, SQL"},
		{name: "more than ten", skills: many, want: "s1, s2, s3, s4, s5, s6, s7, s8, s9, s10..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CandidateProfile{Skills: tt.skills}.SkillsSummary())
		})
	}
}

func TestBuildInterviewerPrompt(t *testing.T) {
	pb := NewPromptBuilder()
	profile := CandidateProfile{Name: "Ada", Skills: []string{"Go"}, ExperienceCount: 2, ProjectCount: 3}

	prompt := pb.BuildInterviewerPrompt(profile, "")
	assert.Contains(t, prompt, "**Candidate:** Ada")
	assert.Contains(t, prompt, "- Experience: 2 positions mentioned")
	assert.Contains(t, prompt, "- Projects: 3 projects mentioned")
	assert.Contains(t, prompt, "**Feedback:** [Your feedback text]. **Score:** [Number]/10")
	assert.NotContains(t, prompt, "Interview Guidelines")

	withGuidelines := pb.BuildInterviewerPrompt(profile, "Dig into error handling.")
	assert.Contains(t, withGuidelines, "**Interview Guidelines (reference material):**\nDig into error handling.")
}

func TestFormatRAGContext(t *testing.T) {
	assert.Equal(t, "", FormatRAGContext(nil))

	got := FormatRAGContext([]SearchResult{
		{Text: " first ", Score: 0.91},
		{Text: "second", Score: 0.5},
	})
	assert.Equal(t, "--- Context 1 (Score: 0.91) ---\nfirst\n\n--- Context 2 (Score: 0.50) ---\nsecond", got)
}
