package recognizer

import (
	"fmt"

	"repdf/internal/config"
	"repdf/internal/port"
)

// ProviderFactory creates a RecognitionBackend from a provider config.
type ProviderFactory func(cfg *config.RecognizerProviderConfig) (port.RecognitionBackend, error)

// registry of backend factories, populated explicitly via RegisterProvider.
var providers = map[string]ProviderFactory{}

// RegisterProvider registers a backend factory by name.
func RegisterProvider(name string, factory ProviderFactory) {
	providers[name] = factory
}

// NewBackend creates a RecognitionBackend from a provider config using the registered factory.
func NewBackend(cfg *config.RecognizerProviderConfig) (port.RecognitionBackend, error) {
	factory, ok := providers[cfg.Provider]
	if !ok {
		return nil, fmt.Errorf("unknown recognition provider: %s", cfg.Provider)
	}
	return factory(cfg)
}

// NewChain builds one backend per config. A single config yields that backend
// directly; several are wrapped in a FallbackBackend.
func NewChain(cfgs []*config.RecognizerProviderConfig) (port.RecognitionBackend, error) {
	if len(cfgs) == 0 {
		return nil, fmt.Errorf("no recognition provider configured")
	}
	backends := make([]port.RecognitionBackend, 0, len(cfgs))
	for _, c := range cfgs {
		b, err := NewBackend(c)
		if err != nil {
			return nil, fmt.Errorf("creating %s backend: %w", c.Provider, err)
		}
		backends = append(backends, b)
	}
	if len(backends) == 1 {
		return backends[0], nil
	}
	return NewFallbackBackend(backends), nil
}
