package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"quizzy/internal/domain"
	"quizzy/internal/dto"
	"quizzy/internal/logger"
	"quizzy/internal/validation"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

// LoginPath is where an expired session sends the user.
const LoginPath = "/login"

const defaultTimePerQuestion = 30

// QuizSession is the state machine of one timed quiz attempt. It is not safe for
// concurrent use: every method must be called from a single goroutine, normally
// the loop of a SessionRunner, which also selects on Ticks.
type QuizSession struct {
	backend     domain.QuizBackend
	creds       oauth2.TokenSource
	navigator   domain.Navigator
	validator   *validation.Validator
	defaultTime int
	countdown   *Countdown

	state      domain.QuizState
	err        error
	redirectTo string
	pending    bool

	// changed is called mid-transition, before a blocking backend call, so
	// observers can render the pending state.
	changed func()
}

type SessionOption func(*QuizSession)

// WithTickerFactory replaces the one-second wall clock ticker.
func WithTickerFactory(f TickerFactory) SessionOption {
	return func(s *QuizSession) {
		s.countdown = NewCountdown(time.Second, f)
	}
}

// WithDefaultTimePerQuestion sets the limit used when the backend does not supply one.
func WithDefaultTimePerQuestion(seconds int) SessionOption {
	return func(s *QuizSession) {
		if seconds > 0 {
			s.defaultTime = seconds
		}
	}
}

// NewQuizSession creates an Idle session. creds authorizes every backend call;
// navigator, which may be nil, is told to go to the login page when creds are rejected.
func NewQuizSession(backend domain.QuizBackend, creds oauth2.TokenSource, navigator domain.Navigator, opts ...SessionOption) *QuizSession {
	s := &QuizSession{
		backend:     backend,
		creds:       creds,
		navigator:   navigator,
		validator:   validation.NewValidator(),
		defaultTime: defaultTimePerQuestion,
		countdown:   NewCountdown(time.Second, nil),
		state:       domain.Idle{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *QuizSession) State() domain.QuizState {
	return s.state
}

// Err is the current dismissible error, or nil.
func (s *QuizSession) Err() error {
	return s.err
}

func (s *QuizSession) RedirectTo() string {
	return s.redirectTo
}

// Ticks delivers countdown ticks while a question is active and nil otherwise.
func (s *QuizSession) Ticks() <-chan time.Time {
	return s.countdown.C()
}

func (s *QuizSession) TimerRunning() bool {
	return s.countdown.Running()
}

func (s *QuizSession) setChanged(f func()) {
	s.changed = f
}

func (s *QuizSession) notify() {
	if s.changed != nil {
		s.changed()
	}
}

// Start requests a question set for quizContext and, on success, enters Answering at question one.
func (s *QuizSession) Start(ctx context.Context, quizContext string) error {
	if err := s.validator.ValidateQuizContext(quizContext); err != nil {
		return s.fail(err)
	}
	if s.state.Phase() != domain.PhaseIdle {
		return s.fail(domain.NewInvalidStateError("Finish or reset the current quiz first"))
	}

	s.pending = true
	s.notify()
	set, err := s.backend.StartQuiz(ctx, s.creds, quizContext)
	s.pending = false
	if err != nil {
		return s.backendFailed(ctx, "start", err)
	}
	if len(set.Questions) == 0 {
		return s.fail(domain.NewServerError(http.StatusOK, "", "The quiz service returned no questions"))
	}

	limit := set.TimePerQuestion
	if limit <= 0 {
		limit = s.defaultTime
	}
	s.state = &domain.Answering{
		Context:         quizContext,
		Questions:       set.Questions,
		Index:           0,
		Selected:        domain.AnswerSelection{},
		TimePerQuestion: limit,
		TimeLeft:        limit,
	}
	s.err = nil
	s.redirectTo = ""
	s.countdown.Restart()

	logger.Get().Debug("Quiz started",
		zap.Int("questions", len(set.Questions)),
		zap.Int("time_per_question", limit),
	)
	return nil
}

// SelectAnswer records option for the active question. The last call for an id wins; the index does not move.
func (s *QuizSession) SelectAnswer(id domain.QuestionID, option string) error {
	a, err := s.answering()
	if err != nil {
		return s.fail(err)
	}
	q, ok := a.Find(id)
	if !ok {
		return s.fail(domain.NewValidationError(fmt.Sprintf("Unknown question %s", id)))
	}
	if !q.ID.Matches(a.Current().ID) {
		return s.fail(domain.NewValidationError(fmt.Sprintf("Question %s is not the active question", id)))
	}
	if !q.HasOption(option) {
		return s.fail(domain.NewValidationError(fmt.Sprintf("%q is not an option of question %s", option, id)))
	}
	a.Selected.Select(q.ID, option)
	return nil
}

// Advance moves to the next question and restarts the timer, or submits after the last one.
func (s *QuizSession) Advance(ctx context.Context) error {
	a, err := s.answering()
	if err != nil {
		return s.fail(err)
	}
	if a.IsLast() {
		return s.Submit(ctx)
	}
	a.Index++
	a.TimeLeft = a.TimePerQuestion
	s.countdown.Restart()
	logger.Get().Debug("Advanced to next question", zap.Int("index", a.Index))
	return nil
}

// Submit sends one entry per question, nil for unanswered ones, and enters Completed on success.
// On failure the answers stay in place so the user can retry.
func (s *QuizSession) Submit(ctx context.Context) error {
	a, err := s.answering()
	if err != nil {
		return s.fail(err)
	}
	s.countdown.Stop()

	s.pending = true
	s.notify()
	report, err := s.backend.SubmitQuiz(ctx, s.creds, a.Context, domain.BuildSubmissions(a.Questions, a.Selected))
	s.pending = false
	if err != nil {
		return s.backendFailed(ctx, "submit", err)
	}

	s.state = &domain.Completed{
		Context:   a.Context,
		Questions: a.Questions,
		Selected:  a.Selected.Clone(),
		Score:     report.Score,
		Results:   report.Results,
	}
	s.err = nil
	logger.Get().Debug("Quiz completed", zap.Int("score", report.Score), zap.Int("results", len(report.Results)))
	return nil
}

// Tick counts the active question down by one second and advances when it reaches zero.
// Ticks outside Answering are ignored.
func (s *QuizSession) Tick(ctx context.Context) error {
	a, ok := s.state.(*domain.Answering)
	if !ok || s.pending {
		return nil
	}
	if a.TimeLeft > 1 {
		a.TimeLeft--
		return nil
	}
	a.TimeLeft = 0
	logger.Get().Debug("Question timed out", zap.Int("index", a.Index))
	return s.Advance(ctx)
}

// Reset discards all quiz data and returns to Idle.
func (s *QuizSession) Reset() {
	s.countdown.Stop()
	s.state = domain.Idle{}
	s.err = nil
	s.redirectTo = ""
	s.pending = false
}

func (s *QuizSession) DismissError() {
	s.err = nil
}

// Close stops the timer for good; the session must not be used afterwards.
func (s *QuizSession) Close() {
	s.countdown.Stop()
}

func (s *QuizSession) answering() (*domain.Answering, error) {
	a, ok := s.state.(*domain.Answering)
	if !ok {
		return nil, domain.NewInvalidStateError("No quiz question is active")
	}
	if s.pending {
		return nil, domain.NewInvalidStateError("Please wait for the quiz to be submitted")
	}
	return a, nil
}

func (s *QuizSession) fail(err error) error {
	s.err = err
	return err
}

func (s *QuizSession) backendFailed(ctx context.Context, action string, err error) error {
	if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
		// The session is going away; nothing to surface.
		return err
	}
	if domain.IsUnauthorized(err) {
		logger.Get().Warn("Quiz credential rejected, redirecting to login", zap.String("action", action))
		s.countdown.Stop()
		s.state = domain.Idle{}
		s.err = err
		s.redirectTo = LoginPath
		if s.navigator != nil {
			s.navigator.RedirectToLogin()
		}
		return err
	}
	logger.Get().Error("Quiz backend call failed", zap.String("action", action), zap.Error(err))
	return s.fail(err)
}

// View renders the session for display.
func (s *QuizSession) View() dto.QuizView {
	view := dto.QuizView{
		Phase:      s.state.Phase().String(),
		Pending:    s.pending,
		Error:      domain.MessageOf(s.err),
		RedirectTo: s.redirectTo,
	}

	switch st := s.state.(type) {
	case *domain.Answering:
		q := st.Current()
		selected, _ := st.Selected.Selected(q.ID)
		label := "Next Question"
		if st.IsLast() {
			label = "Submit Quiz"
		}
		view.Context = st.Context
		view.Question = &dto.QuestionView{
			ID:              q.ID.String(),
			Number:          st.Index + 1,
			Total:           len(st.Questions),
			Level:           q.Level,
			Text:            q.Question,
			Options:         q.Options,
			Selected:        selected,
			TimeLeft:        st.TimeLeft,
			TimePerQuestion: st.TimePerQuestion,
			NextLabel:       label,
		}
	case *domain.Completed:
		score := st.Score
		view.Context = st.Context
		view.Score = &score
		view.Summary = st.Summary()
		view.Results = make([]dto.ResultView, 0, len(st.Results))
		for _, r := range st.Results {
			verdict := "Incorrect"
			if r.IsCorrect {
				verdict = "Correct"
			}
			yours := "None"
			if r.SelectedOption != nil && *r.SelectedOption != "" {
				yours = *r.SelectedOption
			}
			view.Results = append(view.Results, dto.ResultView{
				QuestionID:    r.QuestionID.String(),
				Verdict:       verdict,
				IsCorrect:     r.IsCorrect,
				YourAnswer:    yours,
				CorrectAnswer: r.CorrectAnswer,
				Explanation:   r.Explanation,
			})
		}
	}
	return view
}
