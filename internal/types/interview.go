package types

import "github.com/google/uuid"

// Language selects the output language for LLM-generated content.
type Language string

const (
	LanguageEN Language = "en"
	LanguageJA Language = "ja"
)

// NormalizeLanguage maps any input to a supported language, defaulting to
// English.
func NormalizeLanguage(s string) Language {
	if Language(s) == LanguageJA {
		return LanguageJA
	}
	return LanguageEN
}

// RoleLevel is the seniority extracted from a job description.
type RoleLevel string

const (
	LevelJunior      RoleLevel = "junior"
	LevelMid         RoleLevel = "mid"
	LevelSenior      RoleLevel = "senior"
	LevelLead        RoleLevel = "lead"
	LevelUnspecified RoleLevel = "unspecified"
)

// RoleProfile is the structured view of a job description.
type RoleProfile struct {
	ID                 uuid.UUID `json:"id"`
	Title              string    `json:"title,omitempty"`
	Level              RoleLevel `json:"level"`
	RequiredSkills     []string  `json:"requiredSkills"`
	NiceToHaveSkills   []string  `json:"niceToHaveSkills"`
	Responsibilities   []string  `json:"responsibilities"`
	EvaluationCriteria []string  `json:"evaluationCriteria"`
	// HiringPreferences carries the hiring side's intent (profile,
	// priorities, deal-breakers) separate from the posting itself.
	HiringPreferences string `json:"hiringPreferences,omitempty"`
	RawText           string `json:"rawText"`
}

// CandidateProfile is the structured view of a candidate writeup.
type CandidateProfile struct {
	ID                uuid.UUID `json:"id"`
	Name              string    `json:"name,omitempty"`
	Headline          string    `json:"headline,omitempty"`
	KeySkills         []string  `json:"keySkills"`
	ExperienceSummary string    `json:"experienceSummary"`
	RawText           string    `json:"rawText"`
}

// QuestionCategory buckets interview questions.
type QuestionCategory string

const (
	CategoryTechnical  QuestionCategory = "technical"
	CategoryBehavioral QuestionCategory = "behavioral"
	CategoryCulture    QuestionCategory = "culture"
)

// InterviewQuestion is one generated question with its evaluation hints.
type InterviewQuestion struct {
	ID        uuid.UUID        `json:"id"`
	Category  QuestionCategory `json:"category"`
	Question  string           `json:"question"`
	GoodSigns []string         `json:"goodSigns"`
	RedFlags  []string         `json:"redFlags"`
}

// ScorecardItem is one evaluation category on the interview scorecard.
type ScorecardItem struct {
	ID          uuid.UUID `json:"id"`
	Label       string    `json:"label"`
	Description string    `json:"description"`
	MaxScore    int       `json:"maxScore"`
}

// InterviewPlan is the full generated interview package.
type InterviewPlan struct {
	ID                   uuid.UUID           `json:"id"`
	RoleProfile          RoleProfile         `json:"roleProfile"`
	CandidateProfile     *CandidateProfile   `json:"candidateProfile,omitempty"`
	Questions            []InterviewQuestion `json:"questions"`
	Scorecard            []ScorecardItem     `json:"scorecard"`
	InterviewerNotesHint string              `json:"interviewerNotesHint"`
	Language             Language            `json:"language"`
}

// GenerateRequest is the interview plan generation request.
type GenerateRequest struct {
	RoleProfile      *RoleProfile      `json:"roleProfile"`
	CandidateProfile *CandidateProfile `json:"candidateProfile,omitempty"`
	Language         string            `json:"language,omitempty"`
}

// AnalyzeRoleRequest is the job description analysis request. Exactly one of
// JobDescription or SourceURL must be set.
type AnalyzeRoleRequest struct {
	JobDescription string `json:"jobDescription,omitempty"`
	SourceURL      string `json:"sourceUrl,omitempty"`
	Language       string `json:"language,omitempty"`
}

// AnalyzeCandidateRequest is the candidate resume/summary analysis request.
type AnalyzeCandidateRequest struct {
	CandidateText string `json:"candidateText"`
	Language      string `json:"language,omitempty"`
}
