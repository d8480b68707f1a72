// @title Quizzy Gateway API
// @version 1.0
// @description HTTP front end for timed quiz sessions against the study-assistant backend.
// @host localhost:8090
// @BasePath /api
// @schemes http https
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
// @description Type 'Bearer YOUR_TOKEN' to authorize.
package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"quizzy/internal/adapter/backend"
	"quizzy/internal/config"
	"quizzy/internal/handler"
	"quizzy/internal/logger"
	"quizzy/internal/middleware"
	"quizzy/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const janitorInterval = time.Minute

// requestLogger is a middleware that logs HTTP requests
func requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		path := c.Path()
		method := c.Method()

		err := c.Next()

		logger.Get().Info("HTTP Request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", c.Response().StatusCode()),
			zap.Duration("duration", time.Since(start)),
			zap.String("ip", c.IP()),
		)
		return err
	}
}

// newApp wires routes onto a fiber app. It is separate from main so tests can drive it.
func newApp(cfg *config.Config, authService service.AuthService, study *service.StudyService, registry *service.Registry) *fiber.App {
	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.ReadTimeout,
		BodyLimit:    20 * 1024 * 1024,
		ErrorHandler: middleware.ErrorHandler(),
	})

	app.Use(requestLogger())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     "GET,POST,DELETE,OPTIONS",
		AllowHeaders:     "Origin,Content-Type,Accept,Authorization," + handler.SessionHeader,
		ExposeHeaders:    handler.SessionHeader,
		AllowCredentials: cfg.Server.AllowedOrigins != "*",
		MaxAge:           300,
	}))
	app.Use(recover.New())

	authHandler := handler.NewAuthHandler(authService)
	quizHandler := handler.NewQuizHandler(registry, cfg.Session.IdleTimeout)
	studyHandler := handler.NewStudyHandler(study)
	validator := middleware.NewValidationMiddleware()

	apiGroup := app.Group("/api")
	apiGroup.Get("/health", handler.Health(registry))

	authGroup := apiGroup.Group("/auth")
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Get("/me", middleware.Protected(), authHandler.Me)

	quizGroup := apiGroup.Group("/quiz", middleware.Protected())
	quizGroup.Get("/", quizHandler.GetQuiz)
	quizGroup.Delete("/", quizHandler.LeaveQuiz)
	quizGroup.Post("/start", quizHandler.StartQuiz)
	quizGroup.Post("/answer", quizHandler.SelectAnswer)
	quizGroup.Post("/next", quizHandler.NextQuestion)
	quizGroup.Post("/submit", quizHandler.SubmitQuiz)
	quizGroup.Post("/reset", quizHandler.ResetQuiz)
	quizGroup.Delete("/error", quizHandler.DismissError)

	apiGroup.Post("/ask", middleware.Protected(), studyHandler.Ask)
	apiGroup.Post("/upload", middleware.Protected(), validator.ValidateUpload(), studyHandler.Upload)

	return app
}

func main() {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	flags := pflag.NewFlagSet("quizzy-api", pflag.ExitOnError)
	config.RegisterFlags(flags)
	_ = flags.Parse(os.Args[1:])

	cfg, err := config.LoadConfig(flags)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		panic(err)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	client, err := backend.NewClient(cfg.Backend.BaseURL, cfg.Backend.Timeout, appLogger.Named("backend"))
	if err != nil {
		appLogger.Fatal("Failed to create backend client", zap.Error(err))
	}

	authService := service.NewAuthService(client)
	study := service.NewStudyService(client, nil)
	registry := service.NewRegistry(
		service.NewQuizRunnerFactory(client, service.WithDefaultTimePerQuestion(cfg.Quiz.DefaultSeconds())),
		cfg.Session.IdleTimeout,
	)
	defer registry.Close()

	app := newApp(cfg, authService, study, registry)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		appLogger.Info("Starting server",
			zap.Int("port", cfg.Server.Port),
			zap.String("backend", cfg.Backend.BaseURL),
		)
		return app.Listen(":" + strconv.Itoa(cfg.Server.Port))
	})
	g.Go(func() error {
		return registry.RunJanitor(gctx, janitorInterval)
	})
	g.Go(func() error {
		<-gctx.Done()
		appLogger.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return app.ShutdownWithContext(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		appLogger.Error("Server stopped with error", zap.Error(err))
		return
	}
	appLogger.Info("Server exited gracefully")
}
