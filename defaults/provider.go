// Package defaults supplies the process-wide option defaults consumed by the
// options builder. Providers hand out read-only snapshots: callers receive a
// copy and can never change what the next build observes.
package defaults

import "github.com/goliatone/go-render-options/layering"

// Provider returns the current defaults snapshot.
type Provider interface {
	Defaults() map[string]any
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func() map[string]any

// Defaults implements Provider.
func (f ProviderFunc) Defaults() map[string]any {
	if f == nil {
		return nil
	}
	return f()
}

// Static is an immutable defaults snapshot.
type Static map[string]any

// NewStatic copies values into a Static provider.
func NewStatic(values map[string]any) Static {
	return Static(layering.Clone(values))
}

// Defaults returns a deep copy of the snapshot.
func (s Static) Defaults() map[string]any {
	return layering.Clone(s)
}
