package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"quizzy/internal/domain"
	"quizzy/internal/dto"
	"quizzy/internal/logger"

	"go.uber.org/zap"
)

// ErrSessionClosed is returned for commands sent to a runner that has stopped.
var ErrSessionClosed = errors.New("quiz session closed")

type commandResult struct {
	view dto.QuizView
	err  error
}

type command struct {
	apply func(ctx context.Context, s *QuizSession) error
	reply chan commandResult
}

// SessionRunner serializes every event of one QuizSession (user commands,
// countdown ticks and the backend calls they trigger) on a single goroutine.
type SessionRunner struct {
	session  *QuizSession
	observer func(dto.QuizView)

	commands chan command
	quit     chan struct{}
	done     chan struct{}
	once     sync.Once

	lastActive atomic.Int64
}

// NewSessionRunner wraps session. observer, if non-nil, receives a view after
// every transition and tick; it runs on the loop goroutine and must not call back into the runner.
func NewSessionRunner(session *QuizSession, observer func(dto.QuizView)) *SessionRunner {
	r := &SessionRunner{
		session:  session,
		observer: observer,
		commands: make(chan command),
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	r.touch()
	session.setChanged(func() { r.publish() })
	return r
}

// Run processes events until ctx is cancelled or Close is called. Cancelling
// aborts any backend call in flight; its outcome is discarded.
func (r *SessionRunner) Run(ctx context.Context) error {
	defer close(r.done)
	defer r.session.Close()

	loopCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-r.quit:
			cancel()
		case <-loopCtx.Done():
		}
	}()

	r.publish()
	for {
		select {
		case <-loopCtx.Done():
			return nil
		case cmd := <-r.commands:
			err := cmd.apply(loopCtx, r.session)
			view := r.session.View()
			r.publish()
			cmd.reply <- commandResult{view: view, err: err}
		case <-r.session.Ticks():
			if err := r.session.Tick(loopCtx); err != nil {
				logger.Get().Debug("Timed advance failed", zap.Error(err))
			}
			r.publish()
		}
	}
}

// Close stops the loop. Wait on Done to know it has exited.
func (r *SessionRunner) Close() {
	r.once.Do(func() { close(r.quit) })
}

// Done is closed once Run has returned.
func (r *SessionRunner) Done() <-chan struct{} {
	return r.done
}

// LastActive is the time of the last command sent to the runner.
func (r *SessionRunner) LastActive() time.Time {
	return time.Unix(0, r.lastActive.Load())
}

func (r *SessionRunner) touch() {
	r.lastActive.Store(time.Now().UnixNano())
}

func (r *SessionRunner) publish() {
	if r.observer != nil {
		r.observer(r.session.View())
	}
}

// Do runs fn on the loop goroutine and returns the resulting view. The view is
// returned even when fn fails, since the failure is part of what gets rendered.
func (r *SessionRunner) Do(ctx context.Context, fn func(ctx context.Context, s *QuizSession) error) (dto.QuizView, error) {
	r.touch()
	reply := make(chan commandResult, 1)
	select {
	case r.commands <- command{apply: fn, reply: reply}:
	case <-r.quit:
		return dto.QuizView{}, ErrSessionClosed
	case <-r.done:
		return dto.QuizView{}, ErrSessionClosed
	case <-ctx.Done():
		return dto.QuizView{}, ctx.Err()
	}

	select {
	case res := <-reply:
		return res.view, res.err
	case <-ctx.Done():
		return dto.QuizView{}, ctx.Err()
	}
}

func (r *SessionRunner) Start(ctx context.Context, quizContext string) (dto.QuizView, error) {
	return r.Do(ctx, func(ctx context.Context, s *QuizSession) error {
		return s.Start(ctx, quizContext)
	})
}

func (r *SessionRunner) SelectAnswer(ctx context.Context, id domain.QuestionID, option string) (dto.QuizView, error) {
	return r.Do(ctx, func(_ context.Context, s *QuizSession) error {
		return s.SelectAnswer(id, option)
	})
}

// SelectOption picks the n-th (1-based) option of the active question.
func (r *SessionRunner) SelectOption(ctx context.Context, n int) (dto.QuizView, error) {
	return r.Do(ctx, func(_ context.Context, s *QuizSession) error {
		a, ok := s.State().(*domain.Answering)
		if !ok {
			return s.fail(domain.NewInvalidStateError("No quiz question is active"))
		}
		q := a.Current()
		if n < 1 || n > len(q.Options) {
			return s.fail(domain.NewValidationError(fmt.Sprintf("Choose an option between 1 and %d", len(q.Options))))
		}
		return s.SelectAnswer(q.ID, q.Options[n-1])
	})
}

func (r *SessionRunner) Advance(ctx context.Context) (dto.QuizView, error) {
	return r.Do(ctx, func(ctx context.Context, s *QuizSession) error {
		return s.Advance(ctx)
	})
}

func (r *SessionRunner) Submit(ctx context.Context) (dto.QuizView, error) {
	return r.Do(ctx, func(ctx context.Context, s *QuizSession) error {
		return s.Submit(ctx)
	})
}

func (r *SessionRunner) Reset(ctx context.Context) (dto.QuizView, error) {
	return r.Do(ctx, func(_ context.Context, s *QuizSession) error {
		s.Reset()
		return nil
	})
}

func (r *SessionRunner) DismissError(ctx context.Context) (dto.QuizView, error) {
	return r.Do(ctx, func(_ context.Context, s *QuizSession) error {
		s.DismissError()
		return nil
	})
}

func (r *SessionRunner) View(ctx context.Context) (dto.QuizView, error) {
	return r.Do(ctx, func(context.Context, *QuizSession) error { return nil })
}
