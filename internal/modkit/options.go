package modkit

import "net/http"

// Option adjusts how Build assembles a module
type Option func(*Built)

// WithName overrides the module name used in logs and panics
func WithName(name string) Option { return func(b *Built) { b.Name = name } }

// WithPrefix overrides the path the module mounts under
func WithPrefix(prefix string) Option { return func(b *Built) { b.Prefix = prefix } }

// WithMiddlewares appends per module middleware, outermost first
func WithMiddlewares(mw ...func(http.Handler) http.Handler) Option {
	return func(b *Built) { b.Mw = append(b.Mw, mw...) }
}

// WithPorts hands a module the ports it imports, e.g. dialogue receiving the interaction log
// the receiving module type-asserts Built.Ports to its own Ports struct
func WithPorts[T any](p T) Option { return func(b *Built) { b.Ports = p } }
