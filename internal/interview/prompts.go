package interview

import (
	"fmt"
	"strings"

	"github.com/jonathan/interview-pilot/internal/types"
)

func languageInstruction(lang types.Language) string {
	if lang == types.LanguageJA {
		return "全ての出力は自然な日本語（人事担当者向けのビジネス日本語）で生成してください。"
	}
	return "Generate all output in natural business English."
}

func roleContext(role *types.RoleProfile) string {
	title := role.Title
	if title == "" {
		title = "Not specified"
	}
	level := string(role.Level)
	if level == "" {
		level = string(types.LevelUnspecified)
	}
	return fmt.Sprintf(`Role: %s
Level: %s
Required Skills: %s
Nice-to-have Skills: %s
Responsibilities: %s
Evaluation Criteria: %s
`,
		title, level,
		strings.Join(role.RequiredSkills, ", "),
		strings.Join(role.NiceToHaveSkills, ", "),
		strings.Join(role.Responsibilities, "; "),
		strings.Join(role.EvaluationCriteria, "; "))
}

func candidateContext(candidate *types.CandidateProfile) string {
	if candidate == nil {
		return ""
	}
	return fmt.Sprintf(`
Candidate Information:
- Skills: %s
- Background: %s
`, strings.Join(candidate.KeySkills, ", "), candidate.ExperienceSummary)
}

func buildQuestionsPrompt(role *types.RoleProfile, candidate *types.CandidateProfile, lang types.Language) string {
	tailoring := "Keep questions general but role-specific"
	if candidate != nil {
		tailoring = "Tailor some questions to the candidate's background"
	}

	return fmt.Sprintf(`You are a senior hiring manager creating interview questions. %s

Guidelines for questions:
- Avoid generic questions like "Tell me about yourself" or "What are your strengths/weaknesses"
- Focus on practical experience, decision-making, problem-solving, teamwork, and culture fit
- Make questions specific to the role requirements
- %s
- Never comment on mental health, protected attributes, or illegal interview topics
- Include 3-4 questions per category (technical, behavioral, culture)

Guidelines for goodSigns and redFlags:
- Provide 2-3 specific indicators for each
- Be concrete and observable
- Focus on behaviors and responses, not personality judgments

You must respond with valid JSON matching this structure:
{
  "questions": [
    {
      "category": "technical" | "behavioral" | "culture",
      "question": "string",
      "goodSigns": ["string array"],
      "redFlags": ["string array"]
    }
  ],
  "interviewerNotesHint": "string - 2-4 sentences of guidance for the interviewer"
}

Create 9-12 interview questions and a brief interviewer guidance note for the following role:

%s%s`, languageInstruction(lang), tailoring, roleContext(role), candidateContext(candidate))
}

func buildScorecardPrompt(role *types.RoleProfile, lang types.Language) string {
	return fmt.Sprintf(`You are a senior hiring manager designing an interview scorecard. %s

Guidelines for the scorecard:
- Include 5-7 evaluation categories
- Categories should cover: Communication, Technical Fit, Problem Solving, Ownership/Initiative, Teamwork, Culture Fit, Overall Recommendation
- Max scores should be 5 for each category
- Descriptions should be clear and specific

You must respond with valid JSON matching this structure:
{
  "scorecard": [
    {
      "label": "string",
      "description": "string",
      "maxScore": 5
    }
  ]
}

Design the scorecard for the following role:

%s`, languageInstruction(lang), roleContext(role))
}

func buildCandidatePrompt(candidateText string, lang types.Language) string {
	return fmt.Sprintf(`You are an expert technical recruiter and HR professional. Your task is to analyze candidate resumes or summaries and extract key information.

%s

Guidelines:
- Extract only information that is clearly stated in the text
- Do not fabricate companies, role titles, or experiences
- Be accurate and honest in your summary
- Focus on skills, experiences, and achievements that are relevant for hiring decisions

You must respond with valid JSON matching this exact structure:
{
  "name": "string or null",
  "headline": "string or null",
  "keySkills": ["string array - top 8-10 skills"],
  "experienceSummary": "string - 2-3 sentence summary of their background"
}

Please analyze the following candidate information and extract structured data:

---
%s
---`, languageInstruction(lang), candidateText)
}

func buildAnalyzePrompt(jobDescription string, lang types.Language) string {
	return fmt.Sprintf(`You are an expert HR professional and hiring manager. Your task is to analyze job descriptions and extract structured information.

%s

Guidelines:
- Extract only information that is clearly stated or reasonably inferred from the job description
- Do not invent technologies, skills, or requirements that are not plausible from the text
- Be precise and professional in your summaries
- evaluationCriteria should be specific metrics or qualities to assess candidates on

You must respond with valid JSON matching this exact structure:
{
  "title": "string or null",
  "level": "junior" | "mid" | "senior" | "lead" | "unspecified",
  "requiredSkills": ["string array"],
  "niceToHaveSkills": ["string array"],
  "responsibilities": ["string array"],
  "evaluationCriteria": ["string array"]
}

Please analyze the following job description and extract structured information:

---
%s
---`, languageInstruction(lang), jobDescription)
}
