package services

import (
	"fmt"
	"strings"
)

const (
	resumeParserSystemPrompt = "You are an expert resume parser. Your sole task is to extract information and return it as a valid JSON object according to the user's specified format. Respond ONLY with the JSON object."

	startInterviewTrigger = "Start the interview now."

	// ClosingRemark is appended to the interviewer's last turn once the
	// message limit is reached.
	ClosingRemark = "\n\nOkay, I believe that covers the main areas I wanted to discuss. Thank you for answering my questions."

	maxPromptSkills = 10
)

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// BuildResumeParsePrompt creates the extraction prompt for raw resume text.
func (pb *PromptBuilder) BuildResumeParsePrompt(resumeText string) string {
	return fmt.Sprintf(`**Task:** Extract key information from the following resume text.
**Output Format:** Return ONLY a valid JSON object with these exact keys: "name" (string), "skills" (list of strings), "experience" (list of objects, each representing a job), and "projects" (list of objects, each representing a project). If information for a key isn't found, use an empty string or empty list as appropriate.

**Resume Text:**
`+"```"+`
%s
`+"```"+`

**JSON Output:**`, resumeText)
}

// CandidateProfile is the summary of a resume the interviewer works from.
type CandidateProfile struct {
	Name            string
	Skills          []string
	ExperienceCount int
	ProjectCount    int
}

// SkillsSummary lists the first ten skills, marking truncation with "...".
func (p CandidateProfile) SkillsSummary() string {
	if len(p.Skills) == 0 {
		return "Not specified"
	}
	if len(p.Skills) > maxPromptSkills {
		return strings.Join(p.Skills[:maxPromptSkills], ", ") + "..."
	}
	return strings.Join(p.Skills, ", ")
}

// BuildInterviewerPrompt creates the system prompt that drives the whole
// interview. guidelines may be empty.
func (pb *PromptBuilder) BuildInterviewerPrompt(profile CandidateProfile, guidelines string) string {
	var b strings.Builder

	fmt.Fprintf(&b, `**Role:** You are 'AI Interviewer', a friendly yet professional senior technical interviewer.
**Candidate:** %s
**Candidate Profile Summary:**
- Key Skills: %s
- Experience: %d positions mentioned
- Projects: %d projects mentioned

**Interview Protocol:**
1.  **Begin:** Start with a brief, professional introduction and ask your first question immediately.
2.  **Questioning:** Ask around 5-7 insightful questions covering:
    -   Technical skills (related to the profile summary).
    -   Problem-solving approaches.
    -   Specific experiences or projects from their resume (if details were provided).
    -   Behavioral scenarios (e.g., teamwork, handling challenges).
3.  **Interaction:** After *each* candidate answer:
    -   Provide brief, constructive feedback (1-2 sentences).
    -   Provide a numerical score for their answer (1-10).
    -   **Format:** Respond *only* in this format: `+"`"+`[Your next question or follow-up]\n\n**Feedback:** [Your feedback text]. **Score:** [Number]/10`+"`"+`
4.  **Adapt:** Ask relevant follow-up questions based on their responses.
5.  **Conclude:** After sufficient questions (~5-7), politely conclude the interview.

**Tone:** Maintain a positive, encouraging, and professional tone throughout.
`, profile.Name, profile.SkillsSummary(), profile.ExperienceCount, profile.ProjectCount)

	if strings.TrimSpace(guidelines) != "" {
		fmt.Fprintf(&b, `
**Interview Guidelines (reference material):**
%s
`, guidelines)
	}

	b.WriteString(`
**Action:** Start the interview now by introducing yourself briefly and asking the first relevant question based on the candidate's profile.`)

	return b.String()
}

// BuildGuidelineQuery creates the retrieval query for the guideline index.
func (pb *PromptBuilder) BuildGuidelineQuery(profile CandidateProfile) string {
	return fmt.Sprintf("Interview questions and evaluation criteria for a candidate skilled in %s", profile.SkillsSummary())
}

// FormatRAGContext renders retrieved guideline chunks for the prompt.
func FormatRAGContext(results []SearchResult) string {
	if len(results) == 0 {
		return ""
	}

	var parts []string
	for i, result := range results {
		parts = append(parts, fmt.Sprintf("--- Context %d (Score: %.2f) ---\n%s",
			i+1, result.Score, strings.TrimSpace(result.Text)))
	}

	return strings.Join(parts, "\n\n")
}
