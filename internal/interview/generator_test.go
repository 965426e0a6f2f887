package interview

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jonathan/interview-pilot/internal/llm"
	"github.com/jonathan/interview-pilot/internal/types"
)

const questionsJSON = `{
	"questions": [
		{"category": "technical", "question": "Walk me through a service you scaled.", "goodSigns": ["names concrete bottlenecks"], "redFlags": ["vague on numbers"]},
		{"category": "behavioral", "question": "Describe a disagreement with a teammate.", "goodSigns": ["owns their part"], "redFlags": ["blames others"]},
		{"category": "culture", "question": "What kind of code review culture works for you?", "goodSigns": ["values feedback"], "redFlags": ["dismissive of process"]}
	],
	"interviewerNotesHint": "Probe for specifics and follow up on vague answers."
}`

const scorecardJSON = `{
	"scorecard": [
		{"label": "Communication", "description": "Explains clearly", "maxScore": 5},
		{"label": "Technical Fit", "description": "Matches required skills", "maxScore": 5}
	]
}`

// fakeLLM routes by prompt content so the two concurrent generation calls
// each get the right payload.
type fakeLLM struct {
	questionsOut string
	scorecardOut string
	analyzeOut   string
	candidateOut string
	err          error
	prompts      []string
}

func (f *fakeLLM) GenerateContent(_ context.Context, prompt string, _ llm.ModelTier) (string, error) {
	return "", errors.New("not used")
}

func (f *fakeLLM) GenerateJSON(_ context.Context, prompt string, _ llm.ModelTier) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	switch {
	case strings.Contains(prompt, "designing an interview scorecard"):
		return f.scorecardOut, nil
	case strings.Contains(prompt, "creating interview questions"):
		return f.questionsOut, nil
	case strings.Contains(prompt, "analyze candidate resumes"):
		return f.candidateOut, nil
	default:
		return f.analyzeOut, nil
	}
}

func (f *fakeLLM) Close() error { return nil }

func testRole() *types.RoleProfile {
	return &types.RoleProfile{
		ID:                 uuid.New(),
		Title:              "Backend Engineer",
		Level:              types.LevelSenior,
		RequiredSkills:     []string{"Go", "PostgreSQL"},
		NiceToHaveSkills:   []string{"Kubernetes"},
		Responsibilities:   []string{"Own services end to end"},
		EvaluationCriteria: []string{"System design depth"},
		RawText:            "raw posting",
	}
}

func TestGeneratePlan(t *testing.T) {
	t.Run("assembles questions and scorecard", func(t *testing.T) {
		fake := &fakeLLM{questionsOut: questionsJSON, scorecardOut: scorecardJSON}
		g := NewGenerator(fake, zap.NewNop())

		plan, err := g.GeneratePlan(context.Background(), &types.GenerateRequest{
			RoleProfile: testRole(),
			Language:    "ja",
		})
		require.NoError(t, err)

		assert.NotEqual(t, uuid.Nil, plan.ID)
		assert.Equal(t, types.LanguageJA, plan.Language)
		assert.Equal(t, "Backend Engineer", plan.RoleProfile.Title)
		assert.Equal(t, "Probe for specifics and follow up on vague answers.", plan.InterviewerNotesHint)

		require.Len(t, plan.Questions, 3)
		assert.Equal(t, types.CategoryTechnical, plan.Questions[0].Category)
		for _, q := range plan.Questions {
			assert.NotEqual(t, uuid.Nil, q.ID)
		}

		require.Len(t, plan.Scorecard, 2)
		assert.Equal(t, "Communication", plan.Scorecard[0].Label)
		assert.Equal(t, 5, plan.Scorecard[0].MaxScore)

		// Both generation calls happened.
		assert.Len(t, fake.prompts, 2)
	})

	t.Run("missing role profile", func(t *testing.T) {
		g := NewGenerator(&fakeLLM{}, zap.NewNop())
		_, err := g.GeneratePlan(context.Background(), &types.GenerateRequest{})
		assert.Error(t, err)
	})

	t.Run("llm failure fails generation", func(t *testing.T) {
		fake := &fakeLLM{err: errors.New("model overloaded")}
		g := NewGenerator(fake, zap.NewNop())
		_, err := g.GeneratePlan(context.Background(), &types.GenerateRequest{RoleProfile: testRole()})
		assert.Error(t, err)
	})

	t.Run("schema violation fails generation", func(t *testing.T) {
		fake := &fakeLLM{
			questionsOut: `{"questions": [{"category": "astrology", "question": "sign?", "goodSigns": [], "redFlags": []}], "interviewerNotesHint": ""}`,
			scorecardOut: scorecardJSON,
		}
		g := NewGenerator(fake, zap.NewNop())
		_, err := g.GeneratePlan(context.Background(), &types.GenerateRequest{RoleProfile: testRole()})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid output")
	})

	t.Run("candidate context reaches the prompt", func(t *testing.T) {
		fake := &fakeLLM{questionsOut: questionsJSON, scorecardOut: scorecardJSON}
		g := NewGenerator(fake, zap.NewNop())

		_, err := g.GeneratePlan(context.Background(), &types.GenerateRequest{
			RoleProfile: testRole(),
			CandidateProfile: &types.CandidateProfile{
				KeySkills:         []string{"Go", "gRPC"},
				ExperienceSummary: "8 years of infrastructure work",
			},
		})
		require.NoError(t, err)

		var questionsPrompt string
		for _, p := range fake.prompts {
			if strings.Contains(p, "creating interview questions") {
				questionsPrompt = p
			}
		}
		assert.Contains(t, questionsPrompt, "8 years of infrastructure work")
		assert.Contains(t, questionsPrompt, "Tailor some questions")
	})
}
