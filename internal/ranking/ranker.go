package ranking

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jonathan/interview-pilot/internal/llm"
	"go.uber.org/zap"
)

const systemPromptEN = `You are an assistant for hiring managers at seed-Series C SaaS startups.
Rank the given candidates by who the team should prioritize for an offer.
Each candidate object includes: id, candidate_name, role_title, decision, total_score, created_at.
Use higher total_score as the main signal, and prefer decisions in this order: Strong Yes > Yes > Maybe > No.
When scores are close, prefer Strong Yes over others and explain this briefly.
Always respond as a JSON object with the following shape:
{"rankings":[{"id":"...","rank":1,"reason":"..."}]}
reason must be a single short sentence in concise business English, grounded in facts and numbers.
Use a neutral, precise, and informative tone (e.g. "Strong Yes with a score of 82 and experience closely matching the role requirements.").
Avoid exclamation marks or overly casual phrases.`

const systemPromptJA = `あなたはシード〜シリーズCのSaaSスタートアップで働く採用マネージャー向けのアシスタントです。
与えられた候補者一覧を「どの候補者から優先的にオファーすべきか」という観点で順位付けしてください。
入力として渡される各候補者オブジェクトには、id, candidate_name, role_title, decision, total_score, created_at が含まれています。
total_score が高いこと、decision が Strong Yes > Yes > Maybe > No の順で好ましいことを基本ルールとしてください。
ただし、スコアが近い場合には、Strong Yes を優先するなど、採用判断として自然な理由付けを行ってください。
出力は必ず JSON オブジェクトで、フォーマットは次の通りにしてください:
{"rankings":[{"id":"...","rank":1,"reason":"..."}]}
reason は 1 文の短いビジネスライクな日本語で、事実ベースかつ数字を含めて説明してください。
トーンは丁寧だがフラットで簡潔にしてください。感嘆符やカジュアルな表現は避けてください。`

// Ranker asks the LLM for a candidate priority ordering.
type Ranker struct {
	client llm.Client
	logger *zap.Logger
}

// NewRanker creates a ranker backed by the given LLM client.
func NewRanker(client llm.Client, logger *zap.Logger) *Ranker {
	return &Ranker{client: client, logger: logger}
}

// Rank requests a ranking for the given evaluations. The language hint is
// "en" or "ja" (default ja). Zero evaluations return zero entries without
// calling the LLM. A transport-level failure is returned as an error; a
// malformed response body is not an error and yields whatever entries
// survived validation, possibly none.
func (r *Ranker) Rank(ctx context.Context, evals []Summary, language string) ([]Entry, error) {
	if len(evals) == 0 {
		return []Entry{}, nil
	}

	prompt, err := buildRankingPrompt(evals, language)
	if err != nil {
		return nil, fmt.Errorf("failed to build ranking prompt: %w", err)
	}

	raw, err := r.client.GenerateJSON(ctx, prompt, llm.TierStandard)
	if err != nil {
		return nil, fmt.Errorf("ranking request failed: %w", err)
	}

	entries := ParseResponse(raw)
	r.logger.Debug("ranking response parsed",
		zap.Int("evaluations", len(evals)),
		zap.Int("entries", len(entries)),
		zap.Int("response_length", len(raw)))

	return entries, nil
}

func buildRankingPrompt(evals []Summary, language string) (string, error) {
	system := systemPromptJA
	if language == "en" {
		system = systemPromptEN
	}

	payload, err := json.Marshal(map[string]any{"candidates": evals})
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString(system)
	b.WriteString("\n\n")
	b.Write(payload)
	return b.String(), nil
}
