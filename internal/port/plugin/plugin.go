// Package plugin defines the runtime component port (interfaces) and the
// capability classification applied at registration time.
package plugin

// Component is the minimal contract every registered component satisfies.
// The registry stamps the canonical name onto the instance at registration;
// components never choose their own name.
type Component interface {
	Name() string
	SetName(name string)
}

// Starter is implemented by components with a start hook. The hook is invoked
// exactly once, synchronously, at registration.
type Starter interface {
	Start() error
}

// Module is a unit of work owned by a worker component, tagged with the
// tenant it serves.
type Module interface {
	ModuleID() string
	TenantID() string
}

// ModuleOwner is implemented by components that own a keyed collection of
// modules. Presence of this interface classifies a component as a worker.
type ModuleOwner interface {
	// Modules returns the live module collection keyed by module ID.
	Modules() map[string]Module

	// RemoveModule tears down a single module by ID.
	RemoveModule(moduleID string) error
}

// Removable is implemented by any component that can be unregistered.
type Removable interface {
	// RemoveHandlers tears down the component's own handlers. Invoked after
	// all modules (if any) have been removed.
	RemoveHandlers() error
}

// Kind is the capability profile of a component, computed once at
// registration and stored on the registry entry rather than re-probed.
type Kind int

const (
	// KindPlain components expose no teardown capability and cannot be unregistered.
	KindPlain Kind = iota
	// KindApp components are removable but own no modules.
	KindApp
	// KindWorker components own modules and are removable.
	KindWorker
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case KindWorker:
		return "worker"
	case KindApp:
		return "app"
	default:
		return "plain"
	}
}

// Classify determines the capability profile of a constructed component from
// interface assertions.
func Classify(c Component) Kind {
	_, removable := c.(Removable)
	if !removable {
		return KindPlain
	}
	if _, ok := c.(ModuleOwner); ok {
		return KindWorker
	}
	return KindApp
}

// Base provides the name bookkeeping required by Component and is meant to be
// embedded by concrete components.
type Base struct {
	name string
}

// Name returns the canonical name assigned by the registry.
func (b *Base) Name() string { return b.name }

// SetName records the canonical name. Called by the registry only.
func (b *Base) SetName(name string) { b.name = name }
