package handler_test

import (
	"bytes"
	"encoding/json"
	"image"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"

	"repdf/internal/domain"
	"repdf/internal/handler"
	"repdf/internal/jobstore/memory"
	"repdf/internal/service"
	"repdf/mocks"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func multipartRequest(t *testing.T, url string, fileName string, content []byte, fields map[string]string) *http.Request {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	if fileName != "" {
		part, err := writer.CreateFormFile("file", fileName)
		require.NoError(t, err)
		_, _ = part.Write(content)
	}
	for k, v := range fields {
		require.NoError(t, writer.WriteField(k, v))
	}
	require.NoError(t, writer.Close())

	req, err := http.NewRequest(http.MethodPost, url, body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func decode(t *testing.T, w *httptest.ResponseRecorder) handler.APIResponse {
	t.Helper()
	var resp handler.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestConversionHandler_Submit_Success(t *testing.T) {
	mockSvc := new(mocks.MockConversionService)
	h := handler.NewConversionHandler(mockSvc, 1<<20)

	snap := &domain.JobSnapshot{ID: "job-1", State: domain.JobStatePending, OutputFormat: domain.OutputPPTX}
	mockSvc.On("Submit", mock.Anything, mock.MatchedBy(func(in service.ConversionInput) bool {
		return in.FileName == "deck.pdf" &&
			string(in.Data) == "%PDF-1.4 body" &&
			in.OutputRatio == "4:3" &&
			in.OutputFormat == "pdf" &&
			in.Pages == "2" &&
			in.RemoveWatermark
	})).Return(snap, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = multipartRequest(t, "/api/v1/process/pptx", "deck.pdf", []byte("%PDF-1.4 body"), map[string]string{
		"output_ratio":     "4:3",
		"output_format":    "pdf",
		"pages":            "2",
		"remove_watermark": "true",
	})

	h.Submit(c)

	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, "/api/v1/process/status/job-1", w.Header().Get("Location"))
	resp := decode(t, w)
	assert.True(t, resp.Success)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "job-1", data["job_id"])
	assert.Equal(t, "pending", data["state"])
	mockSvc.AssertExpectations(t)
}

func TestConversionHandler_Submit_NoFile(t *testing.T) {
	mockSvc := new(mocks.MockConversionService)
	h := handler.NewConversionHandler(mockSvc, 1<<20)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = multipartRequest(t, "/api/v1/process/pptx", "", nil, map[string]string{"output_ratio": "16:9"})

	h.Submit(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "MISSING_FILE", decode(t, w).Error.Code)
	mockSvc.AssertNotCalled(t, "Submit", mock.Anything, mock.Anything)
}

func TestConversionHandler_Submit_TooLarge(t *testing.T) {
	mockSvc := new(mocks.MockConversionService)
	h := handler.NewConversionHandler(mockSvc, 8)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = multipartRequest(t, "/api/v1/process/pptx", "deck.pdf", []byte("%PDF-1.4 too long"), nil)

	h.Submit(c)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Equal(t, "FILE_TOO_LARGE", decode(t, w).Error.Code)
	mockSvc.AssertNotCalled(t, "Submit", mock.Anything, mock.Anything)
}

func TestConversionHandler_Submit_BadWatermarkFlag(t *testing.T) {
	mockSvc := new(mocks.MockConversionService)
	h := handler.NewConversionHandler(mockSvc, 0)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = multipartRequest(t, "/api/v1/process/pptx", "deck.pdf", []byte("%PDF-1.4"), map[string]string{"remove_watermark": "maybe"})

	h.Submit(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_REQUEST", decode(t, w).Error.Code)
}

func TestConversionHandler_Submit_ValidationErrors(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{domain.ErrInvalidRatio, http.StatusBadRequest, "INVALID_RATIO"},
		{domain.ErrInvalidOutputFormat, http.StatusBadRequest, "INVALID_OUTPUT_FORMAT"},
		{domain.ErrInvalidPageFilter, http.StatusBadRequest, "INVALID_PAGES"},
		{domain.ErrUnsupportedFileType, http.StatusBadRequest, "UNSUPPORTED_FILE_TYPE"},
		{domain.ErrEmptyFile, http.StatusBadRequest, "EMPTY_FILE"},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			mockSvc := new(mocks.MockConversionService)
			h := handler.NewConversionHandler(mockSvc, 0)
			mockSvc.On("Submit", mock.Anything, mock.Anything).Return(nil, tt.err)

			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = multipartRequest(t, "/api/v1/process/pptx", "deck.pdf", []byte("%PDF-1.4"), nil)

			h.Submit(c)

			assert.Equal(t, tt.status, w.Code)
			resp := decode(t, w)
			assert.False(t, resp.Success)
			assert.Equal(t, tt.code, resp.Error.Code)
		})
	}
}

func TestConversionHandler_Status(t *testing.T) {
	mockSvc := new(mocks.MockConversionService)
	h := handler.NewConversionHandler(mockSvc, 0)

	snap := &domain.JobSnapshot{
		ID:    "job-2",
		State: domain.JobStateProcessing,
		Progress: domain.Progress{
			CurrentPage: 4,
			TotalPages:  10,
			CurrentStep: domain.StepOCR,
			Percent:     40,
		},
	}
	mockSvc.On("Status", mock.Anything, "job-2").Return(snap, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/process/status/job-2", nil)
	c.Params = gin.Params{{Key: "id", Value: "job-2"}}

	h.Status(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w).Data.(map[string]interface{})
	progress := data["progress"].(map[string]interface{})
	assert.Equal(t, "ocr", progress["current_step"])
	assert.Equal(t, float64(40), progress["percent"])
	assert.NotContains(t, data, "result_location")
}

func TestConversionHandler_Status_NotFound(t *testing.T) {
	mockSvc := new(mocks.MockConversionService)
	h := handler.NewConversionHandler(mockSvc, 0)
	mockSvc.On("Status", mock.Anything, "nope").Return(nil, domain.ErrJobNotFound)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/process/status/nope", nil)
	c.Params = gin.Params{{Key: "id", Value: "nope"}}

	h.Status(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	resp := decode(t, w)
	assert.False(t, resp.Success)
	assert.Nil(t, resp.Data)
	assert.Equal(t, "JOB_NOT_FOUND", resp.Error.Code)
}

func TestConversionHandler_Download(t *testing.T) {
	mockSvc := new(mocks.MockConversionService)
	h := handler.NewConversionHandler(mockSvc, 0)
	mockSvc.On("Result", mock.Anything, "job-3").Return(&service.ConversionResult{
		Data:        []byte("PK\x03\x04deck"),
		ContentType: domain.OutputPPTX.ContentType(),
		FileName:    "repdf_job-3.pptx",
	}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/download/job-3", nil)
	c.Params = gin.Params{{Key: "id", Value: "job-3"}}

	h.Download(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, domain.OutputPPTX.ContentType(), w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="repdf_job-3.pptx"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "PK\x03\x04deck", w.Body.String())
}

func TestConversionHandler_Download_NotReady(t *testing.T) {
	mockSvc := new(mocks.MockConversionService)
	h := handler.NewConversionHandler(mockSvc, 0)
	mockSvc.On("Result", mock.Anything, "job-4").Return(nil, domain.ErrJobNotReady)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/download/job-4", nil)
	c.Params = gin.Params{{Key: "id", Value: "job-4"}}

	h.Download(c)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "JOB_NOT_READY", decode(t, w).Error.Code)
}

type discardDispatcher struct{}

func (discardDispatcher) Dispatch(*domain.Job, service.Conversion) {}

func TestConversionHandler_Submit_AcceptsBMP(t *testing.T) {
	var img bytes.Buffer
	require.NoError(t, bmp.Encode(&img, image.NewRGBA(image.Rect(0, 0, 4, 4))))
	svc := service.NewConversionService(memory.NewStore(), discardDispatcher{}, 1<<20)
	h := handler.NewConversionHandler(svc, 1<<20)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = multipartRequest(t, "/api/v1/process/pptx", "a.bmp", img.Bytes(), nil)

	h.Submit(c)

	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.True(t, decode(t, w).Success)
}

func TestConversionHandler_Submit_RejectsUnknownRaster(t *testing.T) {
	svc := service.NewConversionService(memory.NewStore(), discardDispatcher{}, 1<<20)
	h := handler.NewConversionHandler(svc, 1<<20)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = multipartRequest(t, "/api/v1/process/pptx", "a.ico", []byte("\x00\x00\x01\x00\x01\x00"), nil)

	h.Submit(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "UNSUPPORTED_FILE_TYPE", decode(t, w).Error.Code)
}
