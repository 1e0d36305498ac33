package handler

import (
	"github.com/gin-gonic/gin"

	"repdf/internal/service"
)

// AnalysisHandler handles document inspection endpoints.
type AnalysisHandler struct {
	analysisService service.AnalysisService
	maxUploadBytes  int64
}

// NewAnalysisHandler creates a new AnalysisHandler.
func NewAnalysisHandler(analysisService service.AnalysisService, maxUploadBytes int64) *AnalysisHandler {
	return &AnalysisHandler{analysisService: analysisService, maxUploadBytes: maxUploadBytes}
}

// Analyze handles POST /api/v1/analyze
// @Summary Analyze a source document
// @Description Reports page count, text layer coverage, paper size, orientation and an OCR cost estimate.
// @Tags analyze
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Source document (PDF or a PNG, JPEG, GIF, BMP, TIFF or WebP image)"
// @Success 200 {object} Response{data=domain.DocumentAnalysis} "Analysis"
// @Failure 400 {object} ErrorResponseBody "Missing file or unsupported type"
// @Failure 413 {object} ErrorResponseBody "File too large"
// @Failure 422 {object} ErrorResponseBody "Unreadable document"
// @Router /analyze [post]
func (h *AnalysisHandler) Analyze(c *gin.Context) {
	name, data, ok := readUpload(c, h.maxUploadBytes)
	if !ok {
		return
	}

	result, err := h.analysisService.Analyze(c.Request.Context(), name, data)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, result)
}
