// Package interview generates interview plans and role profiles through the
// LLM client. All LLM output is schema-validated before it is returned.
package interview

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/interview-pilot/internal/llm"
	"github.com/jonathan/interview-pilot/internal/schemas"
	"github.com/jonathan/interview-pilot/internal/types"
)

//go:embed schema/questions.json
var questionsSchema string

//go:embed schema/scorecard.json
var scorecardSchema string

//go:embed schema/role.json
var roleSchema string

//go:embed schema/candidate.json
var candidateSchema string

// Generator produces interview plans.
type Generator struct {
	client llm.Client
	logger *zap.Logger
}

// NewGenerator creates a Generator.
func NewGenerator(client llm.Client, logger *zap.Logger) *Generator {
	return &Generator{client: client, logger: logger}
}

type generatedQuestions struct {
	Questions []struct {
		Category  types.QuestionCategory `json:"category"`
		Question  string                 `json:"question"`
		GoodSigns []string               `json:"goodSigns"`
		RedFlags  []string               `json:"redFlags"`
	} `json:"questions"`
	InterviewerNotesHint string `json:"interviewerNotesHint"`
}

type generatedScorecard struct {
	Scorecard []struct {
		Label       string `json:"label"`
		Description string `json:"description"`
		MaxScore    int    `json:"maxScore"`
	} `json:"scorecard"`
}

// GeneratePlan creates a full interview plan for the role. Questions and
// scorecard are produced by two concurrent LLM calls; either failing fails
// the whole generation.
func (g *Generator) GeneratePlan(ctx context.Context, req *types.GenerateRequest) (*types.InterviewPlan, error) {
	if req.RoleProfile == nil {
		return nil, fmt.Errorf("role profile is required")
	}
	lang := types.NormalizeLanguage(req.Language)

	var questions generatedQuestions
	var scorecard generatedScorecard

	eg, egCtx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		raw, err := g.client.GenerateJSON(egCtx, buildQuestionsPrompt(req.RoleProfile, req.CandidateProfile, lang), llm.TierStandard)
		if err != nil {
			return fmt.Errorf("question generation failed: %w", err)
		}
		if err := schemas.ValidateJSONString(questionsSchema, raw); err != nil {
			return fmt.Errorf("question generation returned invalid output: %w", err)
		}
		return json.Unmarshal([]byte(raw), &questions)
	})

	eg.Go(func() error {
		raw, err := g.client.GenerateJSON(egCtx, buildScorecardPrompt(req.RoleProfile, lang), llm.TierStandard)
		if err != nil {
			return fmt.Errorf("scorecard generation failed: %w", err)
		}
		if err := schemas.ValidateJSONString(scorecardSchema, raw); err != nil {
			return fmt.Errorf("scorecard generation returned invalid output: %w", err)
		}
		return json.Unmarshal([]byte(raw), &scorecard)
	})

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	plan := &types.InterviewPlan{
		ID:                   uuid.New(),
		RoleProfile:          *req.RoleProfile,
		CandidateProfile:     req.CandidateProfile,
		InterviewerNotesHint: questions.InterviewerNotesHint,
		Language:             lang,
	}

	for _, q := range questions.Questions {
		plan.Questions = append(plan.Questions, types.InterviewQuestion{
			ID:        uuid.New(),
			Category:  q.Category,
			Question:  q.Question,
			GoodSigns: q.GoodSigns,
			RedFlags:  q.RedFlags,
		})
	}
	for _, s := range scorecard.Scorecard {
		plan.Scorecard = append(plan.Scorecard, types.ScorecardItem{
			ID:          uuid.New(),
			Label:       s.Label,
			Description: s.Description,
			MaxScore:    s.MaxScore,
		})
	}

	g.logger.Info("interview plan generated",
		zap.String("role", req.RoleProfile.Title),
		zap.Int("questions", len(plan.Questions)),
		zap.Int("scorecard_items", len(plan.Scorecard)))

	return plan, nil
}
