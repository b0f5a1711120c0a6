package carrier

import (
	"fmt"
	"strings"

	"github.com/tembill/tembill/internal/batch"
)

// Registry maps a normalized carrier identifier to its strategy. Strategies
// are registered once at startup and resolved once per batch.
type Registry struct {
	strategies map[string]batch.Strategy
}

func NewRegistry() *Registry {
	return &Registry{strategies: make(map[string]batch.Strategy)}
}

func (r *Registry) Register(name string, s batch.Strategy) {
	r.strategies[normalize(name)] = s
}

// Resolve looks up a strategy case-insensitively. A miss is a configuration
// error, not a fallback.
func (r *Registry) Resolve(name string) (batch.Strategy, error) {
	s, ok := r.strategies[normalize(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", batch.ErrUnknownCarrier, name)
	}

	return s, nil
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
