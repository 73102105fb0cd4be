package embedder

import "chonkit/internal/apperr"

// Registry resolves a named provider to its Embedder.
type Registry struct {
	embedders map[string]Embedder
}

// NewRegistry builds an empty registry. Use Register to add providers.
func NewRegistry() *Registry {
	return &Registry{embedders: make(map[string]Embedder)}
}

func (r *Registry) Register(provider string, e Embedder) {
	r.embedders[provider] = e
}

func (r *Registry) Get(provider string) (Embedder, error) {
	e, ok := r.embedders[provider]
	if !ok {
		return nil, apperr.New(apperr.ConfigError, "unknown embedder provider: "+provider)
	}
	return e, nil
}
