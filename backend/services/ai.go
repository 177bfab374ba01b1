package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"learnhub/backend/config"
)

var ErrAINotConfigured = errors.New("ai: GEMINI_API_KEY is not set")

// AIService proxies tutoring prompts to the Gemini API. The client is
// created lazily on first use so the server still boots without a key.
type AIService struct {
	cfg *config.Config

	mu     sync.Mutex
	client *genai.Client
}

func NewAIService(cfg *config.Config) *AIService {
	return &AIService{cfg: cfg}
}

func (s *AIService) model(ctx context.Context) (*genai.GenerativeModel, error) {
	if s.cfg.GeminiAPIKey == "" {
		return nil, ErrAINotConfigured
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.client == nil {
		client, err := genai.NewClient(ctx, option.WithAPIKey(s.cfg.GeminiAPIKey))
		if err != nil {
			return nil, err
		}
		s.client = client
	}
	return s.client.GenerativeModel(s.cfg.GeminiModel), nil
}

func (s *AIService) generate(ctx context.Context, prompt string) (string, error) {
	model, err := s.model(ctx)
	if err != nil {
		return "", err
	}

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", err
	}
	return responseText(resp), nil
}

// Chat answers a free-form tutoring question, optionally grounded in course
// context supplied by the client.
func (s *AIService) Chat(ctx context.Context, message, courseContext string) (string, error) {
	prompt := "You are a patient tutor on an e-learning platform. Answer the student's question clearly and concisely.\n"
	if courseContext != "" {
		prompt += "Course context: " + courseContext + "\n"
	}
	prompt += "Question: " + message
	return s.generate(ctx, prompt)
}

func (s *AIService) ResolveCodeDoubt(ctx context.Context, code, question, language string) (string, error) {
	if language == "" {
		language = "the given language"
	}
	prompt := fmt.Sprintf(
		"A student is stuck on %s code. Explain what is wrong and how to fix it, referencing lines where helpful.\n\nCode:\n%s\n\nQuestion: %s",
		language, code, question)
	return s.generate(ctx, prompt)
}

type QuizQuestion struct {
	Question    string   `json:"question"`
	Options     []string `json:"options"`
	Answer      int      `json:"answer"`
	Explanation string   `json:"explanation"`
}

// GenerateQuiz asks the model for strict JSON. When the reply does not parse,
// the raw text is returned instead so the client can still render something.
func (s *AIService) GenerateQuiz(ctx context.Context, topic string, count int) ([]QuizQuestion, string, error) {
	if count <= 0 || count > 20 {
		count = 5
	}
	prompt := fmt.Sprintf(
		`Generate %d multiple-choice quiz questions about %q. Respond with ONLY a JSON array, no prose, where each element is {"question": string, "options": [4 strings], "answer": index of correct option, "explanation": string}.`,
		count, topic)

	raw, err := s.generate(ctx, prompt)
	if err != nil {
		return nil, "", err
	}

	var questions []QuizQuestion
	if jsonErr := json.Unmarshal([]byte(stripCodeFence(raw)), &questions); jsonErr != nil {
		return nil, raw, nil
	}
	return questions, "", nil
}

func (s *AIService) EvaluateAnswer(ctx context.Context, question, expected, answer string) (string, error) {
	prompt := fmt.Sprintf(
		"Evaluate a student's short answer.\nQuestion: %s\nExpected answer: %s\nStudent answer: %s\nGive a score out of 10 and one short paragraph of feedback.",
		question, expected, answer)
	return s.generate(ctx, prompt)
}

func responseText(resp *genai.GenerateContentResponse) string {
	var sb strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				sb.WriteString(string(text))
			}
		}
	}
	return strings.TrimSpace(sb.String())
}

// stripCodeFence removes a surrounding markdown code fence, which the model
// often adds despite being told not to.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
