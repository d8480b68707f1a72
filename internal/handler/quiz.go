package handler

import (
	"errors"
	"time"

	"quizzy/internal/domain"
	"quizzy/internal/dto"
	"quizzy/internal/logger"
	"quizzy/internal/middleware"
	"quizzy/internal/service"
	"quizzy/internal/util"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	SessionHeader = "X-Quiz-Session"
	SessionCookie = "quiz_session"
)

// QuizHandler exposes one quiz session per client over HTTP.
type QuizHandler struct {
	registry  *service.Registry
	cookieTTL time.Duration
}

// NewQuizHandler creates a new QuizHandler instance
func NewQuizHandler(registry *service.Registry, cookieTTL time.Duration) *QuizHandler {
	return &QuizHandler{
		registry:  registry,
		cookieTTL: cookieTTL,
	}
}

type sessionCommand func(c *fiber.Ctx, r *service.SessionRunner) (dto.QuizView, error)

// errNoQuiz answers commands that need a running quiz from a caller without a session.
var errNoQuiz = domain.NewInvalidStateError("No quiz question is active")

// open resolves the caller's session, creating one if needed, and applies cmd.
func (h *QuizHandler) open(c *fiber.Ctx, cmd sessionCommand) error {
	cred, ok := middleware.CredentialFrom(c)
	if !ok {
		return domain.NewUnauthorizedError()
	}
	id, runner := h.registry.Acquire(sessionID(c), cred.Token())
	h.bindSession(c, id)
	view, err := cmd(c, runner)
	return h.respond(c, id, view, err)
}

// existing applies cmd to the caller's session. Without one it answers with an
// idle view carrying missing, which may be nil.
func (h *QuizHandler) existing(c *fiber.Ctx, missing error, cmd sessionCommand) error {
	cred, ok := middleware.CredentialFrom(c)
	if !ok {
		return domain.NewUnauthorizedError()
	}
	id := sessionID(c)
	runner, ok := h.registry.Lookup(id, cred.Token())
	if !ok {
		if c.Cookies(SessionCookie) != "" {
			c.ClearCookie(SessionCookie)
		}
		view := dto.QuizView{Phase: domain.PhaseIdle.String(), Error: domain.MessageOf(missing)}
		return c.Status(middleware.StatusOf(missing)).JSON(view)
	}
	view, err := cmd(c, runner)
	return h.respond(c, id, view, err)
}

// respond writes the view. A failed command still returns the view, under the status of its error.
func (h *QuizHandler) respond(c *fiber.Ctx, id string, view dto.QuizView, err error) error {
	if err != nil {
		var de *domain.DomainError
		if !errors.As(err, &de) {
			// closed session or cancelled request
			return err
		}
		logger.Get().Debug("Quiz command failed",
			zap.String("session_id", id),
			zap.String("code", string(de.Code)),
			zap.String("message", de.Message),
		)
	}
	c.Set(SessionHeader, id)
	view.SessionID = id
	return c.Status(middleware.StatusOf(err)).JSON(view)
}

// bindSession hands the id back as a cookie. Without an idle timeout the cookie
// lives for the browser session.
func (h *QuizHandler) bindSession(c *fiber.Ctx, id string) {
	cookie := &fiber.Cookie{
		Name:     SessionCookie,
		Value:    id,
		HTTPOnly: true,
		Secure:   c.Secure(),
		SameSite: "Lax",
		Path:     "/",
	}
	if h.cookieTTL > 0 {
		cookie.Expires = time.Now().Add(h.cookieTTL)
	}
	c.Cookie(cookie)
}

// sessionID reads the id from the header, then the cookie. Malformed ids read as none.
func sessionID(c *fiber.Ctx) string {
	id := c.Get(SessionHeader)
	if id == "" {
		id = c.Cookies(SessionCookie)
	}
	if !util.IsSessionID(id) {
		return ""
	}
	return id
}

// GetQuiz handles GET /api/quiz
// @Summary Current quiz session
// @Tags quiz
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {object} dto.QuizView
// @Router /quiz [get]
func (h *QuizHandler) GetQuiz(c *fiber.Ctx) error {
	return h.existing(c, nil, func(c *fiber.Ctx, r *service.SessionRunner) (dto.QuizView, error) {
		return r.View(c.Context())
	})
}

// StartQuiz handles POST /api/quiz/start
// @Summary Start a quiz
// @Description Generates questions for the given topic or text and starts the timer.
// @Tags quiz
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param request body dto.StartQuizRequest true "Quiz context"
// @Success 200 {object} dto.QuizView
// @Failure 400 {object} dto.QuizView
// @Failure 401 {object} dto.QuizView
// @Router /quiz/start [post]
func (h *QuizHandler) StartQuiz(c *fiber.Ctx) error {
	var req dto.StartQuizRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewValidationError("Invalid request body")
	}
	return h.open(c, func(c *fiber.Ctx, r *service.SessionRunner) (dto.QuizView, error) {
		return r.Start(c.Context(), req.Context)
	})
}

// SelectAnswer handles POST /api/quiz/answer
// @Summary Select an option for the active question
// @Tags quiz
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param request body dto.SelectAnswerRequest true "Selection"
// @Success 200 {object} dto.QuizView
// @Router /quiz/answer [post]
func (h *QuizHandler) SelectAnswer(c *fiber.Ctx) error {
	var req dto.SelectAnswerRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewValidationError("Invalid request body")
	}
	return h.existing(c, errNoQuiz, func(c *fiber.Ctx, r *service.SessionRunner) (dto.QuizView, error) {
		return r.SelectAnswer(c.Context(), req.QuestionID, req.Option)
	})
}

// NextQuestion handles POST /api/quiz/next. On the last question it submits.
func (h *QuizHandler) NextQuestion(c *fiber.Ctx) error {
	return h.existing(c, errNoQuiz, func(c *fiber.Ctx, r *service.SessionRunner) (dto.QuizView, error) {
		return r.Advance(c.Context())
	})
}

// SubmitQuiz handles POST /api/quiz/submit
// @Summary Submit the collected answers for grading
// @Tags quiz
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {object} dto.QuizView
// @Failure 502 {object} dto.QuizView
// @Router /quiz/submit [post]
func (h *QuizHandler) SubmitQuiz(c *fiber.Ctx) error {
	return h.existing(c, errNoQuiz, func(c *fiber.Ctx, r *service.SessionRunner) (dto.QuizView, error) {
		return r.Submit(c.Context())
	})
}

func (h *QuizHandler) ResetQuiz(c *fiber.Ctx) error {
	return h.existing(c, nil, func(c *fiber.Ctx, r *service.SessionRunner) (dto.QuizView, error) {
		return r.Reset(c.Context())
	})
}

func (h *QuizHandler) DismissError(c *fiber.Ctx) error {
	return h.existing(c, nil, func(c *fiber.Ctx, r *service.SessionRunner) (dto.QuizView, error) {
		return r.DismissError(c.Context())
	})
}

// LeaveQuiz handles DELETE /api/quiz: the session and its timer are dropped.
func (h *QuizHandler) LeaveQuiz(c *fiber.Ctx) error {
	cred, ok := middleware.CredentialFrom(c)
	if !ok {
		return domain.NewUnauthorizedError()
	}
	id := sessionID(c)
	if _, ok := h.registry.Lookup(id, cred.Token()); !ok {
		return domain.NewNotFoundError("Quiz session not found")
	}
	h.registry.Remove(id)
	c.ClearCookie(SessionCookie)
	logger.Get().Info("Quiz session closed by client", zap.String("session_id", id))
	return c.SendStatus(fiber.StatusNoContent)
}
