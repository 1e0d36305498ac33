//go:build tesseract

package main

import (
	"repdf/internal/config"
	"repdf/internal/port"
	"repdf/internal/recognizer"
	"repdf/internal/recognizer/tesseract"
)

func init() {
	optionalBackends = append(optionalBackends, func() {
		recognizer.RegisterProvider("tesseract", func(cfg *config.RecognizerProviderConfig) (port.RecognitionBackend, error) {
			return tesseract.NewBackend(cfg), nil
		})
	})
}
