package service

import (
	"context"
	"sync"
	"time"

	"quizzy/internal/domain"
	"quizzy/internal/logger"
	"quizzy/internal/util"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

// RunnerFactory builds the runner for a new session bound to token.
type RunnerFactory func(token string) *SessionRunner

type registryEntry struct {
	runner *SessionRunner
	token  string
}

// Registry keeps one SessionRunner per gateway session id.
type Registry struct {
	ctx         context.Context
	cancel      context.CancelFunc
	newRunner   RunnerFactory
	idleTimeout time.Duration

	mu       sync.Mutex
	sessions map[string]registryEntry
}

// NewRegistry returns a registry whose runners live until Remove, Sweep or Close.
func NewRegistry(newRunner RunnerFactory, idleTimeout time.Duration) *Registry {
	ctx, cancel := context.WithCancel(context.Background())
	return &Registry{
		ctx:         ctx,
		cancel:      cancel,
		newRunner:   newRunner,
		idleTimeout: idleTimeout,
		sessions:    make(map[string]registryEntry),
	}
}

// NewQuizRunnerFactory builds runners whose sessions call backend with a static bearer token.
func NewQuizRunnerFactory(backend domain.QuizBackend, opts ...SessionOption) RunnerFactory {
	return func(token string) *SessionRunner {
		creds := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"})
		return NewSessionRunner(NewQuizSession(backend, creds, nil, opts...), nil)
	}
}

// Acquire returns the runner for id. A fresh session is created, with a new id,
// when id is empty or unknown, or when it belongs to a different token. The other
// token's session is left running.
func (r *Registry) Acquire(id, token string) (string, *SessionRunner) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.sessions[id]; ok {
		if e.token == token {
			return id, e.runner
		}
		logger.Get().Info("Session id presented with another token, opening a new session", zap.String("session_id", id))
	}

	newID := util.NewSessionID()
	runner := r.newRunner(token)
	r.sessions[newID] = registryEntry{runner: runner, token: token}
	go func() {
		if err := runner.Run(r.ctx); err != nil {
			logger.Get().Error("Session loop failed", zap.String("session_id", newID), zap.Error(err))
		}
	}()
	logger.Get().Debug("Session created", zap.String("session_id", newID))
	return newID, runner
}

// Lookup returns the runner for id if it exists and belongs to token.
func (r *Registry) Lookup(id, token string) (*SessionRunner, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.sessions[id]
	if !ok || e.token != token {
		return nil, false
	}
	return e.runner, true
}

// Remove closes and forgets the session. It reports whether the session existed.
func (r *Registry) Remove(id string) bool {
	r.mu.Lock()
	e, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()
	if ok {
		e.runner.Close()
	}
	return ok
}

// Sweep closes sessions idle since before now minus the idle timeout and returns how many it closed.
func (r *Registry) Sweep(now time.Time) int {
	if r.idleTimeout <= 0 {
		return 0
	}
	cutoff := now.Add(-r.idleTimeout)

	r.mu.Lock()
	var stale []*SessionRunner
	for id, e := range r.sessions {
		if e.runner.LastActive().Before(cutoff) {
			stale = append(stale, e.runner)
			delete(r.sessions, id)
		}
	}
	r.mu.Unlock()

	for _, runner := range stale {
		runner.Close()
	}
	return len(stale)
}

// RunJanitor sweeps every interval until ctx is done.
func (r *Registry) RunJanitor(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			if n := r.Sweep(now); n > 0 {
				logger.Get().Info("Closed idle quiz sessions", zap.Int("count", n))
			}
		}
	}
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Close stops every session loop.
func (r *Registry) Close() {
	r.mu.Lock()
	for id, e := range r.sessions {
		e.runner.Close()
		delete(r.sessions, id)
	}
	r.mu.Unlock()
	r.cancel()
}
