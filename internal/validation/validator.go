package validation

import (
	"path/filepath"
	"strings"

	"quizzy/internal/domain"
)

const (
	MsgEmptyQuizContext  = "Please enter a topic or content for the quiz"
	MsgEmptyQuestion     = "Please enter a question"
	MsgNoFile            = "No file selected"
	MsgUnsupportedUpload = "Please select a file (JPG, PNG, PDF, PPT, or PPTX)"
	MsgMissingCreds      = "Username and password are required"
)

// allowedUploadExts mirrors what the backend's /ocr endpoint can read.
var allowedUploadExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".pdf":  true,
	".ppt":  true,
	".pptx": true,
}

// Validator provides request validation functionality
type Validator struct{}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateQuizContext rejects empty or whitespace-only quiz topics.
func (v *Validator) ValidateQuizContext(quizContext string) error {
	if strings.TrimSpace(quizContext) == "" {
		return domain.NewValidationError(MsgEmptyQuizContext)
	}
	return nil
}

func (v *Validator) ValidateQuestion(question string) error {
	if strings.TrimSpace(question) == "" {
		return domain.NewValidationError(MsgEmptyQuestion)
	}
	return nil
}

// ValidateUploadName checks the file extension, case-insensitively.
func (v *Validator) ValidateUploadName(filename string) error {
	if strings.TrimSpace(filename) == "" {
		return domain.NewValidationError(MsgNoFile)
	}
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedUploadExts[ext] {
		return domain.NewValidationError(MsgUnsupportedUpload)
	}
	return nil
}

func (v *Validator) ValidateCredentials(username, password string) error {
	if strings.TrimSpace(username) == "" || password == "" {
		return domain.NewValidationError(MsgMissingCreds)
	}
	return nil
}
