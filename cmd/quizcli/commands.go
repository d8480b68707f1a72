package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"quizzy/internal/auth"
	"quizzy/internal/domain"
	"quizzy/internal/service"
)

const helpText = `Commands:
  login <username> <password>   log in
  register <username> <password>
  logout                        forget the current credential
  whoami                        show who is logged in
  ask <question>                ask the study assistant
  upload <path>                 extract text from a JPG, PNG, PDF, PPT or PPTX file
  quiz <topic or text>          start a timed quiz
  1..n                          choose an option
  next                          next question, or submit after the last one
  submit                        submit now
  new                           discard the quiz
  dismiss                       clear the error message
  quit`

type cli struct {
	screen *renderer
	holder *auth.Holder
	auth   service.AuthService
	study  *service.StudyService
	runner *service.SessionRunner
}

// handle runs one input line and reports whether the user asked to quit.
func (c *cli) handle(ctx context.Context, line string) bool {
	cmd, rest, _ := strings.Cut(strings.TrimSpace(line), " ")
	rest = strings.TrimSpace(rest)

	if n, err := strconv.Atoi(cmd); err == nil {
		c.quizCommand(ctx, func(ctx context.Context) error {
			_, err := c.runner.SelectOption(ctx, n)
			return err
		})
		return false
	}

	switch strings.ToLower(cmd) {
	case "":
	case "quit", "exit":
		return true
	case "help":
		c.screen.Notice(helpText)
	case "login":
		c.login(ctx, rest)
	case "register":
		c.register(ctx, rest)
	case "logout":
		c.holder.Clear()
		c.quizCommand(ctx, func(ctx context.Context) error {
			_, err := c.runner.Reset(ctx)
			return err
		})
		c.screen.Notice("Logged out.")
	case "whoami":
		if cred := c.holder.Current(); cred != nil {
			c.screen.Notice("Logged in as %s", cred.Describe())
		} else {
			c.screen.Notice("Not logged in.")
		}
	case "ask":
		c.ask(ctx, rest)
	case "upload":
		c.upload(ctx, rest)
	case "quiz":
		if !c.requireLogin() {
			return false
		}
		c.quizCommand(ctx, func(ctx context.Context) error {
			_, err := c.runner.Start(ctx, rest)
			return err
		})
	case "next":
		c.quizCommand(ctx, func(ctx context.Context) error {
			_, err := c.runner.Advance(ctx)
			return err
		})
	case "submit":
		c.quizCommand(ctx, func(ctx context.Context) error {
			_, err := c.runner.Submit(ctx)
			return err
		})
	case "new":
		c.quizCommand(ctx, func(ctx context.Context) error {
			_, err := c.runner.Reset(ctx)
			return err
		})
	case "dismiss":
		c.quizCommand(ctx, func(ctx context.Context) error {
			_, err := c.runner.DismissError(ctx)
			return err
		})
	default:
		c.screen.Notice("Unknown command %q. Type `help` for commands.", cmd)
	}
	return false
}

// quizCommand runs fn against the session. Domain failures are already part of
// the rendered view, so only loop failures are reported here.
func (c *cli) quizCommand(ctx context.Context, fn func(ctx context.Context) error) {
	err := fn(ctx)
	var de *domain.DomainError
	if err != nil && !errors.As(err, &de) {
		c.screen.Notice("Quiz unavailable: %v", err)
	}
}

func (c *cli) requireLogin() bool {
	if c.holder.Current() == nil {
		c.screen.Notice("Please log in first: login <username> <password>")
		return false
	}
	return true
}

func (c *cli) login(ctx context.Context, args string) {
	user, pass, _ := strings.Cut(args, " ")
	cred, err := c.auth.Login(ctx, user, strings.TrimSpace(pass))
	if err != nil {
		c.screen.Notice("Login failed: %s", domain.MessageOf(err))
		return
	}
	c.holder.Set(cred)
	c.screen.Notice("Logged in as %s", cred.Describe())
}

func (c *cli) register(ctx context.Context, args string) {
	user, pass, _ := strings.Cut(args, " ")
	msg, err := c.auth.Register(ctx, user, strings.TrimSpace(pass))
	if err != nil {
		c.screen.Notice("Registration failed: %s", domain.MessageOf(err))
		return
	}
	if msg == "" {
		msg = "Registered."
	}
	c.screen.Notice("%s You can now log in.", msg)
}

func (c *cli) ask(ctx context.Context, question string) {
	if !c.requireLogin() {
		return
	}
	answer, err := c.study.Ask(ctx, c.holder, question)
	if err != nil {
		if !domain.IsUnauthorized(err) {
			c.screen.Notice("! %s", domain.MessageOf(err))
		}
		return
	}
	c.screen.Notice("%s", answer)
}

func (c *cli) upload(ctx context.Context, path string) {
	if !c.requireLogin() {
		return
	}
	if path == "" {
		c.screen.Notice("Usage: upload <path>")
		return
	}
	f, err := os.Open(path)
	if err != nil {
		c.screen.Notice("! Could not open %s: %v", path, err)
		return
	}
	defer f.Close()

	out, err := c.study.ExtractText(ctx, c.holder, filepath.Base(path), f)
	if err != nil {
		if !domain.IsUnauthorized(err) {
			c.screen.Notice("! %s", domain.MessageOf(err))
		}
		return
	}
	c.screen.Notice("Extracted text:\n%s", out.Text)
	if out.Summary != "" {
		c.screen.Notice("Summary:\n%s", out.Summary)
	}
}
