package validation

import (
	"testing"

	"quizzy/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestValidator_ValidateQuizContext(t *testing.T) {
	v := NewValidator()
	assert.NoError(t, v.ValidateQuizContext("Photosynthesis"))

	err := v.ValidateQuizContext(" \t\n")
	assert.Equal(t, domain.CodeValidation, domain.CodeOf(err))
	assert.Equal(t, MsgEmptyQuizContext, domain.MessageOf(err))
}

func TestValidator_ValidateQuestion(t *testing.T) {
	v := NewValidator()
	assert.NoError(t, v.ValidateQuestion("Why is the sky blue?"))
	assert.Equal(t, MsgEmptyQuestion, domain.MessageOf(v.ValidateQuestion("")))
}

func TestValidator_ValidateUploadName(t *testing.T) {
	v := NewValidator()
	for _, ok := range []string{"a.jpg", "b.JPEG", "c.png", "d.pdf", "e.ppt", "lecture 3.PPTX"} {
		assert.NoError(t, v.ValidateUploadName(ok), ok)
	}
	assert.Equal(t, MsgNoFile, domain.MessageOf(v.ValidateUploadName(" ")))
	for _, bad := range []string{"notes.txt", "pdf", "image.gif", "x.pdf.exe"} {
		err := v.ValidateUploadName(bad)
		assert.Equal(t, MsgUnsupportedUpload, domain.MessageOf(err), bad)
	}
}

func TestValidator_ValidateCredentials(t *testing.T) {
	v := NewValidator()
	assert.NoError(t, v.ValidateCredentials("alice", "pw"))
	assert.Error(t, v.ValidateCredentials("", "pw"))
	assert.Error(t, v.ValidateCredentials("alice", ""))
}
