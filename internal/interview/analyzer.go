package interview

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/interview-pilot/internal/llm"
	"github.com/jonathan/interview-pilot/internal/schemas"
	"github.com/jonathan/interview-pilot/internal/types"
)

// Analyzer extracts a structured role profile from a job description.
type Analyzer struct {
	client llm.Client
	logger *zap.Logger
}

// NewAnalyzer creates an Analyzer.
func NewAnalyzer(client llm.Client, logger *zap.Logger) *Analyzer {
	return &Analyzer{client: client, logger: logger}
}

type analyzedRole struct {
	Title              string          `json:"title"`
	Level              types.RoleLevel `json:"level"`
	RequiredSkills     []string        `json:"requiredSkills"`
	NiceToHaveSkills   []string        `json:"niceToHaveSkills"`
	Responsibilities   []string        `json:"responsibilities"`
	EvaluationCriteria []string        `json:"evaluationCriteria"`
}

// AnalyzeRole turns a raw job description into a RoleProfile.
func (a *Analyzer) AnalyzeRole(ctx context.Context, jobDescription, language string) (*types.RoleProfile, error) {
	if strings.TrimSpace(jobDescription) == "" {
		return nil, fmt.Errorf("job description is required")
	}
	lang := types.NormalizeLanguage(language)

	raw, err := a.client.GenerateJSON(ctx, buildAnalyzePrompt(jobDescription, lang), llm.TierLite)
	if err != nil {
		return nil, fmt.Errorf("role analysis failed: %w", err)
	}
	if err := schemas.ValidateJSONString(roleSchema, raw); err != nil {
		return nil, fmt.Errorf("role analysis returned invalid output: %w", err)
	}

	var parsed analyzedRole
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode role analysis: %w", err)
	}

	level := parsed.Level
	if level == "" {
		level = types.LevelUnspecified
	}

	profile := &types.RoleProfile{
		ID:                 uuid.New(),
		Title:              parsed.Title,
		Level:              level,
		RequiredSkills:     orEmpty(parsed.RequiredSkills),
		NiceToHaveSkills:   orEmpty(parsed.NiceToHaveSkills),
		Responsibilities:   orEmpty(parsed.Responsibilities),
		EvaluationCriteria: orEmpty(parsed.EvaluationCriteria),
		RawText:            jobDescription,
	}

	a.logger.Debug("role analyzed",
		zap.String("title", profile.Title),
		zap.String("level", string(profile.Level)))

	return profile, nil
}

type analyzedCandidate struct {
	Name              string   `json:"name"`
	Headline          string   `json:"headline"`
	KeySkills         []string `json:"keySkills"`
	ExperienceSummary string   `json:"experienceSummary"`
}

// AnalyzeCandidate turns a free-text resume or summary into a
// CandidateProfile.
func (a *Analyzer) AnalyzeCandidate(ctx context.Context, candidateText, language string) (*types.CandidateProfile, error) {
	if strings.TrimSpace(candidateText) == "" {
		return nil, fmt.Errorf("candidate text is required")
	}
	lang := types.NormalizeLanguage(language)

	raw, err := a.client.GenerateJSON(ctx, buildCandidatePrompt(candidateText, lang), llm.TierLite)
	if err != nil {
		return nil, fmt.Errorf("candidate analysis failed: %w", err)
	}
	if err := schemas.ValidateJSONString(candidateSchema, raw); err != nil {
		return nil, fmt.Errorf("candidate analysis returned invalid output: %w", err)
	}

	var parsed analyzedCandidate
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode candidate analysis: %w", err)
	}

	profile := &types.CandidateProfile{
		ID:                uuid.New(),
		Name:              parsed.Name,
		Headline:          parsed.Headline,
		KeySkills:         orEmpty(parsed.KeySkills),
		ExperienceSummary: parsed.ExperienceSummary,
		RawText:           candidateText,
	}

	a.logger.Debug("candidate analyzed",
		zap.String("headline", profile.Headline),
		zap.Int("skills", len(profile.KeySkills)))

	return profile, nil
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
