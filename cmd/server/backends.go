package main

import (
	"context"
	"fmt"

	"repdf/internal/config"
	"repdf/internal/port"
	"repdf/internal/recognizer"
	"repdf/internal/recognizer/documentai"
	"repdf/internal/recognizer/gemini"
	"repdf/internal/recognizer/ollama"
)

// optionalBackends holds registrations compiled in behind build tags.
var optionalBackends []func()

func registerBackends(ctx context.Context) {
	recognizer.RegisterProvider("ollama", func(cfg *config.RecognizerProviderConfig) (port.RecognitionBackend, error) {
		return ollama.NewBackend(cfg), nil
	})
	recognizer.RegisterProvider("gemini", func(cfg *config.RecognizerProviderConfig) (port.RecognitionBackend, error) {
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("gemini: api key is required")
		}
		return gemini.NewBackend(cfg), nil
	})
	recognizer.RegisterProvider("documentai", func(cfg *config.RecognizerProviderConfig) (port.RecognitionBackend, error) {
		b, err := documentai.NewBackend(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return b, nil
	})
	for _, register := range optionalBackends {
		register()
	}
}
