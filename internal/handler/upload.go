package handler

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"repdf/internal/domain"
)

// readUpload reads the "file" form field. It writes the error response itself
// and returns ok=false when the field is missing or over maxBytes.
func readUpload(c *gin.Context, maxBytes int64) (name string, data []byte, ok bool) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "file field is required")
		return "", nil, false
	}
	defer func() { _ = file.Close() }()

	if maxBytes > 0 && header.Size > maxBytes {
		HandleError(c, domain.ErrFileTooLarge)
		return "", nil, false
	}

	var r io.Reader = file
	if maxBytes > 0 {
		r = io.LimitReader(file, maxBytes+1)
	}
	data, err = io.ReadAll(r)
	if err != nil {
		HandleError(c, fmt.Errorf("reading upload: %w", err))
		return "", nil, false
	}
	if maxBytes > 0 && int64(len(data)) > maxBytes {
		HandleError(c, domain.ErrFileTooLarge)
		return "", nil, false
	}
	return header.Filename, data, true
}
