package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"repdf/internal/service"
)

// ConversionHandler handles deck conversion endpoints.
type ConversionHandler struct {
	conversionService service.ConversionService
	maxUploadBytes    int64
}

// NewConversionHandler creates a new ConversionHandler. maxUploadBytes of zero
// disables the handler-side size check.
func NewConversionHandler(conversionService service.ConversionService, maxUploadBytes int64) *ConversionHandler {
	return &ConversionHandler{conversionService: conversionService, maxUploadBytes: maxUploadBytes}
}

// Submit handles POST /api/v1/process/pptx
// @Summary Convert a document into an editable deck
// @Description Upload a PDF or image and start an asynchronous conversion. Poll the status endpoint with the returned job_id.
// @Tags process
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Source document (PDF or a PNG, JPEG, GIF, BMP, TIFF or WebP image)"
// @Param output_ratio formData string false "Slide ratio: 16:9 or 4:3" default(16:9)
// @Param output_format formData string false "Output format: pptx or pdf" default(pptx)
// @Param pages formData string false "Pages to convert, e.g. 1,3-5 (default: all)"
// @Param remove_watermark formData bool false "Erase the bottom-right watermark band" default(false)
// @Success 202 {object} Response{data=domain.JobSnapshot} "Job accepted"
// @Failure 400 {object} ErrorResponseBody "Invalid request"
// @Failure 413 {object} ErrorResponseBody "File too large"
// @Router /process/pptx [post]
func (h *ConversionHandler) Submit(c *gin.Context) {
	removeWatermark := false
	if raw := strings.TrimSpace(c.PostForm("remove_watermark")); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "remove_watermark must be true or false")
			return
		}
		removeWatermark = v
	}

	name, data, ok := readUpload(c, h.maxUploadBytes)
	if !ok {
		return
	}

	snap, err := h.conversionService.Submit(c.Request.Context(), service.ConversionInput{
		FileName:        name,
		Data:            data,
		OutputRatio:     c.PostForm("output_ratio"),
		OutputFormat:    c.PostForm("output_format"),
		Pages:           c.PostForm("pages"),
		RemoveWatermark: removeWatermark,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	c.Header("Location", "/api/v1/process/status/"+snap.ID)
	RespondAccepted(c, snap)
}

// Status handles GET /api/v1/process/status/:id
// @Summary Get conversion status
// @Description Poll a job's state and progress. result_location is set once the job is done.
// @Tags process
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} Response{data=domain.JobSnapshot} "Job status"
// @Failure 404 {object} ErrorResponseBody "Job not found"
// @Router /process/status/{id} [get]
func (h *ConversionHandler) Status(c *gin.Context) {
	snap, err := h.conversionService.Status(c.Request.Context(), c.Param("id"))
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, snap)
}

// Download handles GET /api/v1/download/:id
// @Summary Download a finished deck
// @Description Returns the converted document as an attachment.
// @Tags process
// @Produce application/vnd.openxmlformats-officedocument.presentationml.presentation
// @Produce application/pdf
// @Param id path string true "Job ID"
// @Success 200 {file} binary "Converted deck"
// @Failure 404 {object} ErrorResponseBody "Job not found"
// @Failure 409 {object} ErrorResponseBody "Job not finished"
// @Router /download/{id} [get]
func (h *ConversionHandler) Download(c *gin.Context) {
	res, err := h.conversionService.Result(c.Request.Context(), c.Param("id"))
	if err != nil {
		HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", res.FileName))
	c.Data(http.StatusOK, res.ContentType, res.Data)
}
