package main

import (
	"bytes"
	"strings"
	"testing"

	"quizzy/internal/dto"

	"github.com/stretchr/testify/assert"
)

func answeringView(timeLeft int, selected string) dto.QuizView {
	return dto.QuizView{
		Phase:   "answering",
		Context: "Photosynthesis",
		Question: &dto.QuestionView{
			ID:              "1",
			Number:          1,
			Total:           2,
			Level:           "easy",
			Text:            "Where does photosynthesis happen?",
			Options:         []string{"Chloroplast", "Nucleus"},
			Selected:        selected,
			TimeLeft:        timeLeft,
			TimePerQuestion: 30,
			NextLabel:       "Next Question",
		},
	}
}

func TestRenderer_Answering(t *testing.T) {
	var out bytes.Buffer
	r := newRenderer(&out)

	r.Render(answeringView(30, "Nucleus"))

	s := out.String()
	assert.Contains(t, s, "== Quiz: Photosynthesis ==")
	assert.Contains(t, s, "Question 1 of 2  [easy]")
	assert.Contains(t, s, "   1) Chloroplast")
	assert.Contains(t, s, " * 2) Nucleus")
	assert.Contains(t, s, "`next` for Next Question")
	assert.Contains(t, s, "Time left: 30s")
}

func TestRenderer_TickRewritesTimeLine(t *testing.T) {
	var out bytes.Buffer
	r := newRenderer(&out)
	r.Render(answeringView(30, ""))
	out.Reset()

	r.Render(answeringView(29, ""))

	assert.Equal(t, "\rTime left: 29s ", out.String())

	out.Reset()
	r.Render(answeringView(29, "Chloroplast"))
	assert.True(t, strings.HasPrefix(out.String(), "\n"), "a real change starts a fresh screen")
	assert.Contains(t, out.String(), " * 1) Chloroplast")
}

func TestRenderer_Completed(t *testing.T) {
	var out bytes.Buffer
	r := newRenderer(&out)
	score := 1

	r.Render(dto.QuizView{
		Phase:   "completed",
		Context: "Photosynthesis",
		Score:   &score,
		Summary: "1 / 2",
		Results: []dto.ResultView{
			{Verdict: "Correct", YourAnswer: "A", CorrectAnswer: "A", Explanation: "Chloroplasts."},
			{Verdict: "Incorrect", YourAnswer: "None", CorrectAnswer: "B"},
		},
	})

	s := out.String()
	assert.Contains(t, s, "== Results for Photosynthesis: 1 / 2 ==")
	assert.Contains(t, s, "2. Incorrect")
	assert.Contains(t, s, "Your answer: None")
	assert.Contains(t, s, "Chloroplasts.")
}

func TestRenderer_IdleWithError(t *testing.T) {
	var out bytes.Buffer
	r := newRenderer(&out)

	r.Render(dto.QuizView{Phase: "idle", Error: "Please enter a topic or content for the quiz"})

	assert.Contains(t, out.String(), "No quiz running")
	assert.Contains(t, out.String(), "! Please enter a topic or content for the quiz")
}

func TestRenderer_PendingStart(t *testing.T) {
	var out bytes.Buffer
	r := newRenderer(&out)

	r.Render(dto.QuizView{Phase: "idle", Pending: true})

	assert.Contains(t, out.String(), "Generating quiz...")
}
