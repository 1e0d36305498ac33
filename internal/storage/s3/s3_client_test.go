package s3_test

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"repdf/internal/config"
	"repdf/internal/port"
	s3store "repdf/internal/storage/s3"
)

func testConfig(endpoint string) *config.S3Config {
	return &config.S3Config{
		Enabled:   true,
		Region:    "us-east-1",
		Bucket:    "results",
		Endpoint:  endpoint,
		AccessKey: "test-access",
		SecretKey: "test-secret",
	}
}

func TestNewS3Client_RequiresBucket(t *testing.T) {
	cfg := testConfig("")
	cfg.Bucket = ""

	_, err := s3store.NewS3Client(context.Background(), cfg)

	assert.Error(t, err)
}

func TestS3Client_UploadAndDelete(t *testing.T) {
	var (
		putPath, putType, putDisposition string
		putBody                          []byte
		deletedPath                      string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPut:
			putPath = r.URL.Path
			putType = r.Header.Get("Content-Type")
			putDisposition = r.Header.Get("Content-Disposition")
			putBody, _ = io.ReadAll(r.Body)
			w.Header().Set("ETag", `"abc123"`)
			w.WriteHeader(http.StatusOK)
		case http.MethodDelete:
			deletedPath = r.URL.Path
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	}))
	defer srv.Close()

	store, err := s3store.NewS3Client(context.Background(), testConfig(srv.URL))
	require.NoError(t, err)

	out, err := store.Upload(context.Background(), port.UploadInput{
		Bucket:      "results",
		Key:         "results/job-1.pptx",
		Body:        bytes.NewReader([]byte("deck bytes")),
		ContentType: "application/vnd.openxmlformats-officedocument.presentationml.presentation",
		Size:        10,
		FileName:    "repdf_job-1.pptx",
	})
	require.NoError(t, err)

	assert.Equal(t, "/results/results/job-1.pptx", putPath)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.presentationml.presentation", putType)
	assert.Equal(t, `attachment; filename="repdf_job-1.pptx"`, putDisposition)
	assert.Contains(t, string(putBody), "deck bytes")
	assert.Equal(t, `"abc123"`, out.ETag)
	assert.Contains(t, out.Location, "/results/results/job-1.pptx")

	require.NoError(t, store.Delete(context.Background(), "results", "results/job-1.pptx"))
	assert.Equal(t, "/results/results/job-1.pptx", deletedPath)
}

func TestS3Client_UploadError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`<Error><Code>AccessDenied</Code><Message>denied</Message></Error>`))
	}))
	defer srv.Close()

	store, err := s3store.NewS3Client(context.Background(), testConfig(srv.URL))
	require.NoError(t, err)

	_, err = store.Upload(context.Background(), port.UploadInput{
		Bucket: "results",
		Key:    "results/job-2.pdf",
		Body:   bytes.NewReader([]byte("x")),
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "s3 upload")
}

func TestS3Client_GetPresignedURL(t *testing.T) {
	store, err := s3store.NewS3Client(context.Background(), testConfig("http://localhost:9000"))
	require.NoError(t, err)

	raw, err := store.GetPresignedURL(context.Background(), "results", "results/job-3.pptx", 600)
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "localhost:9000", u.Host)
	assert.Equal(t, "/results/results/job-3.pptx", u.Path)
	assert.Equal(t, "600", u.Query().Get("X-Amz-Expires"))
	assert.NotEmpty(t, u.Query().Get("X-Amz-Signature"))
}
