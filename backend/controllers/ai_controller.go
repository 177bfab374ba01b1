package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"learnhub/backend/config"
	"learnhub/backend/services"
	"learnhub/backend/utils"
)

type AIController struct {
	Cfg *config.Config
	AI  *services.AIService
}

func NewAIController(cfg *config.Config, ai *services.AIService) *AIController {
	return &AIController{Cfg: cfg, AI: ai}
}

func (ac *AIController) Chat(c *fiber.Ctx) error {
	var input struct {
		Message string `json:"message"`
		Context string `json:"context"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if input.Message == "" {
		return utils.BadRequest(c, "Message is required")
	}

	reply, err := ac.AI.Chat(c.Context(), input.Message, input.Context)
	if err != nil {
		return ac.aiError(c, err)
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{"reply": reply})
}

func (ac *AIController) ResolveCodeDoubt(c *fiber.Ctx) error {
	var input struct {
		Code     string `json:"code"`
		Question string `json:"question"`
		Language string `json:"language"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if input.Code == "" || input.Question == "" {
		return utils.BadRequest(c, "Code and question are required")
	}

	reply, err := ac.AI.ResolveCodeDoubt(c.Context(), input.Code, input.Question, input.Language)
	if err != nil {
		return ac.aiError(c, err)
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{"explanation": reply})
}

// GenerateQuiz expects strict JSON from the model; when parsing fails, the
// raw text is returned under "raw" instead of failing the request.
func (ac *AIController) GenerateQuiz(c *fiber.Ctx) error {
	var input struct {
		Topic string `json:"topic"`
		Count int    `json:"count"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if input.Topic == "" {
		return utils.BadRequest(c, "Topic is required")
	}

	questions, raw, err := ac.AI.GenerateQuiz(c.Context(), input.Topic, input.Count)
	if err != nil {
		return ac.aiError(c, err)
	}

	if questions == nil {
		return utils.Success(c, fiber.StatusOK, fiber.Map{"raw": raw})
	}
	return utils.Success(c, fiber.StatusOK, fiber.Map{"questions": questions})
}

func (ac *AIController) EvaluateAnswer(c *fiber.Ctx) error {
	var input struct {
		Question       string `json:"question"`
		ExpectedAnswer string `json:"expected_answer"`
		StudentAnswer  string `json:"student_answer"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if input.Question == "" || input.StudentAnswer == "" {
		return utils.BadRequest(c, "Question and student answer are required")
	}

	feedback, err := ac.AI.EvaluateAnswer(c.Context(), input.Question, input.ExpectedAnswer, input.StudentAnswer)
	if err != nil {
		return ac.aiError(c, err)
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{"feedback": feedback})
}

func (ac *AIController) aiError(c *fiber.Ctx, err error) error {
	if errors.Is(err, services.ErrAINotConfigured) {
		return utils.Error(c, fiber.StatusServiceUnavailable, "AI assistant is not configured")
	}
	return utils.InternalServerError(c, err, ac.Cfg.IsProduction())
}
