package recognizer_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"repdf/internal/port"
	"repdf/internal/recognizer"
	"repdf/mocks"
)

func namedBackend(name string) *mocks.MockRecognitionBackend {
	b := new(mocks.MockRecognitionBackend)
	b.On("Name").Return(name).Maybe()
	return b
}

func TestFallbackBackend_FirstSucceeds(t *testing.T) {
	b1 := namedBackend("ollama")
	b2 := namedBackend("gemini")

	input := port.RecognizeInput{Image: []byte("png"), ContentType: "image/png", PageNumber: 1}
	b1.On("Recognize", mock.Anything, input).Return(`{"texts":[]}`, nil)

	fb := recognizer.NewFallbackBackend([]port.RecognitionBackend{b1, b2})

	reply, err := fb.Recognize(context.Background(), input)

	assert.NoError(t, err)
	assert.Equal(t, `{"texts":[]}`, reply)
	b2.AssertNotCalled(t, "Recognize", mock.Anything, mock.Anything)
}

func TestFallbackBackend_FirstFails_SecondSucceeds(t *testing.T) {
	b1 := namedBackend("ollama")
	b2 := namedBackend("gemini")

	input := port.RecognizeInput{Image: []byte("png"), ContentType: "image/png", PageNumber: 2}
	b1.On("Recognize", mock.Anything, input).Return("", errors.New("connection refused"))
	b2.On("Recognize", mock.Anything, input).Return("reply-from-gemini", nil)

	fb := recognizer.NewFallbackBackend([]port.RecognitionBackend{b1, b2})

	reply, err := fb.Recognize(context.Background(), input)

	assert.NoError(t, err)
	assert.Equal(t, "reply-from-gemini", reply)
}

func TestFallbackBackend_RateLimitedCircuitSkipsBackend(t *testing.T) {
	b1 := namedBackend("gemini")
	b2 := namedBackend("ollama")

	input := port.RecognizeInput{Image: []byte("png"), ContentType: "image/png", PageNumber: 1}
	b1.On("Recognize", mock.Anything, input).Return("", recognizer.NewRateLimitError("gemini", errors.New("429"), 60)).Once()
	b2.On("Recognize", mock.Anything, input).Return("ok", nil).Twice()

	fb := recognizer.NewFallbackBackend([]port.RecognitionBackend{b1, b2})

	_, err := fb.Recognize(context.Background(), input)
	require.NoError(t, err)

	// Circuit for b1 is now open: the second call goes straight to b2.
	reply, err := fb.Recognize(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, "ok", reply)
	b1.AssertNumberOfCalls(t, "Recognize", 1)
	b2.AssertNumberOfCalls(t, "Recognize", 2)
}

func TestFallbackBackend_AllRateLimited(t *testing.T) {
	b1 := namedBackend("gemini")
	b2 := namedBackend("ollama")

	input := port.RecognizeInput{PageNumber: 1}
	b1.On("Recognize", mock.Anything, input).Return("", recognizer.NewRateLimitError("gemini", errors.New("429"), 60))
	b2.On("Recognize", mock.Anything, input).Return("", recognizer.NewRateLimitError("ollama", errors.New("429"), 30))

	fb := recognizer.NewFallbackBackend([]port.RecognitionBackend{b1, b2})

	_, err := fb.Recognize(context.Background(), input)

	require.Error(t, err)
	var rlErr *recognizer.RateLimitError
	require.True(t, errors.As(err, &rlErr))
	assert.Equal(t, "all", rlErr.Provider)
}

func TestFallbackBackend_AllFail(t *testing.T) {
	b1 := namedBackend("gemini")
	b2 := namedBackend("ollama")

	input := port.RecognizeInput{PageNumber: 3}
	b1.On("Recognize", mock.Anything, input).Return("", recognizer.NewRateLimitError("gemini", errors.New("429"), 60))
	b2.On("Recognize", mock.Anything, input).Return("", errors.New("model not loaded"))

	fb := recognizer.NewFallbackBackend([]port.RecognitionBackend{b1, b2})

	_, err := fb.Recognize(context.Background(), input)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "all recognition backends failed")
	assert.Contains(t, err.Error(), "model not loaded")
}

func TestFallbackBackend_CanceledContextStops(t *testing.T) {
	b1 := namedBackend("gemini")
	b2 := namedBackend("ollama")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	input := port.RecognizeInput{PageNumber: 1}
	b1.On("Recognize", mock.Anything, input).Return("", context.Canceled)

	fb := recognizer.NewFallbackBackend([]port.RecognitionBackend{b1, b2})

	_, err := fb.Recognize(ctx, input)

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	b2.AssertNotCalled(t, "Recognize", mock.Anything, mock.Anything)
}

func TestFallbackBackend_Name(t *testing.T) {
	fb := recognizer.NewFallbackBackend([]port.RecognitionBackend{namedBackend("ollama"), namedBackend("gemini")})

	assert.Equal(t, "fallback(ollama,gemini)", fb.Name())
}
