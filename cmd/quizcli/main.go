// Command quizcli is an interactive terminal front end for the study assistant.
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"quizzy/internal/adapter/backend"
	"quizzy/internal/auth"
	"quizzy/internal/config"
	"quizzy/internal/domain"
	"quizzy/internal/logger"
	"quizzy/internal/service"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	_ = godotenv.Load()

	flags := pflag.NewFlagSet("quizcli", pflag.ExitOnError)
	config.RegisterFlags(flags)
	logFile := flags.String("log-file", "", "write logs to this file (stdout is reserved for the quiz)")
	_ = flags.Parse(os.Args[1:])

	cfg, err := config.LoadConfig(flags)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	fileLogger, err := newFileLogger(*logFile, cfg.Logger)
	if err != nil {
		log.Fatalf("Failed to open log file: %v", err)
	}
	logger.Use(fileLogger)
	defer logger.Sync()

	client, err := backend.NewClient(cfg.Backend.BaseURL, cfg.Backend.Timeout, logger.Get().Named("backend"))
	if err != nil {
		log.Fatalf("Failed to create backend client: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, client, os.Stdin, os.Stdout); err != nil {
		logger.Get().Error("quizcli stopped with error", zap.Error(err))
		os.Exit(1)
	}
}

// backendAPI is everything the terminal client needs from the backend.
type backendAPI interface {
	domain.QuizBackend
	domain.StudyBackend
	domain.AuthBackend
}

func run(ctx context.Context, cfg *config.Config, api backendAPI, in io.Reader, out io.Writer) error {
	screen := newRenderer(out)
	holder := &auth.Holder{}

	// A rejected credential sends the user back to the login prompt.
	toLogin := domain.NavigatorFunc(func() {
		holder.Clear()
		screen.Notice("%s Use `login <username> <password>`.", domain.SessionExpiredMessage)
	})

	session := service.NewQuizSession(api, holder, toLogin,
		service.WithDefaultTimePerQuestion(cfg.Quiz.DefaultSeconds()))
	runner := service.NewSessionRunner(session, screen.Render)

	c := &cli{
		screen: screen,
		holder: holder,
		auth:   service.NewAuthService(api),
		study:  service.NewStudyService(api, toLogin),
		runner: runner,
	}

	lines := make(chan string)
	go readLines(in, lines)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return runner.Run(gctx)
	})
	g.Go(func() error {
		defer runner.Close()
		screen.Notice("Welcome to quizzy. Type `help` for commands.")
		for {
			select {
			case <-gctx.Done():
				return nil
			case line, ok := <-lines:
				if !ok {
					return nil
				}
				if quit := c.handle(gctx, line); quit {
					return nil
				}
			}
		}
	})
	return g.Wait()
}

func readLines(in io.Reader, lines chan<- string) {
	defer close(lines)
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		lines <- scanner.Text()
	}
	if err := scanner.Err(); err != nil {
		logger.Get().Warn("Reading input failed", zap.Error(err))
	}
}

func newFileLogger(path string, cfg config.LoggerConfig) (*zap.Logger, error) {
	if path == "" {
		return zap.NewNop(), nil
	}
	zc := zap.NewDevelopmentConfig()
	if cfg.Env == "production" {
		zc = zap.NewProductionConfig()
	}
	level := zap.InfoLevel
	if cfg.Level == "debug" {
		level = zap.DebugLevel
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.OutputPaths = []string{path}
	zc.ErrorOutputPaths = []string{path}
	l, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return l, nil
}
