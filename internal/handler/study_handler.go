package handler

import (
	"mime/multipart"

	"quizzy/internal/domain"
	"quizzy/internal/dto"
	"quizzy/internal/logger"
	"quizzy/internal/middleware"
	"quizzy/internal/service"
	"quizzy/internal/validation"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type StudyHandler struct {
	study *service.StudyService
}

func NewStudyHandler(study *service.StudyService) *StudyHandler {
	return &StudyHandler{study: study}
}

// Ask handles POST /api/ask
// @Summary Ask a study question
// @Tags study
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param request body dto.AskRequest true "Question"
// @Success 200 {object} dto.AskResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Router /ask [post]
func (h *StudyHandler) Ask(c *fiber.Ctx) error {
	cred, ok := middleware.CredentialFrom(c)
	if !ok {
		return domain.NewUnauthorizedError()
	}
	var req dto.AskRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewValidationError("Invalid request body")
	}

	answer, err := h.study.Ask(c.Context(), cred.TokenSource(), req.Question)
	if err != nil {
		return err
	}
	return c.JSON(dto.AskResponse{Answer: answer})
}

// Upload handles POST /api/upload
// @Summary Extract text from a document
// @Tags study
// @Security ApiKeyAuth
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "JPG, PNG, PDF, PPT or PPTX"
// @Success 200 {object} dto.ExtractionResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Router /upload [post]
func (h *StudyHandler) Upload(c *fiber.Ctx) error {
	cred, ok := middleware.CredentialFrom(c)
	if !ok {
		return domain.NewUnauthorizedError()
	}
	fh, ok := c.Locals("validated_upload").(*multipart.FileHeader)
	if !ok {
		var err error
		if fh, err = c.FormFile(middleware.UploadField); err != nil {
			return domain.NewValidationError(validation.MsgNoFile)
		}
	}

	f, err := fh.Open()
	if err != nil {
		return domain.NewInternalError("Could not read uploaded file", err)
	}
	defer f.Close()

	out, err := h.study.ExtractText(c.Context(), cred.TokenSource(), fh.Filename, f)
	if err != nil {
		return err
	}
	logger.Get().Info("Document processed", zap.String("file", fh.Filename), zap.Int64("size", fh.Size))
	return c.JSON(dto.ExtractionResponse{Text: out.Text, Summary: out.Summary})
}
