package migrator

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"sync"
)

const (
	// DefaultMigrationsNamespace is the namespace migrations are discovered in unless
	// [WithMigrationsNamespace] says otherwise.
	DefaultMigrationsNamespace = "migrations"
	// DefaultSeedsNamespace is the namespace seeds are discovered in unless [WithSeedsNamespace]
	// says otherwise.
	DefaultSeedsNamespace = "seeds"
)

// Descriptor describes a discovered unit: its identifier and how to construct it.
type Descriptor struct {
	Kind Kind
	Type SourceType
	ID   string
	// Path is the file the unit was read from, if any.
	Path string
	// New returns a fresh unit. It is called once per run.
	New func() Unit
}

// Discoverer enumerates the concrete units of one kind registered under a namespace.
//
// A discoverer returning an error aborts the run before any unit is applied.
type Discoverer interface {
	Discover(ctx context.Context, namespace string, kind Kind) ([]Descriptor, error)
}

// Registry is an explicit, in-memory [Discoverer] mapping identifiers to factory functions.
//
// A Registry is safe for concurrent use.
type Registry struct {
	mu    sync.Mutex
	units map[string]map[string]Descriptor // namespace -> id -> descriptor
}

var _ Discoverer = (*Registry)(nil)

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		units: make(map[string]map[string]Descriptor),
	}
}

// Register adds a unit constructor under namespace. The identifier is not validated here; a
// malformed identifier is reported when the namespace is run.
func (r *Registry) Register(namespace string, kind Kind, id string, factory func() Unit) error {
	if namespace == "" {
		return errors.New("namespace must not be empty")
	}
	if !kind.valid() {
		return fmt.Errorf("invalid kind: %v", kind)
	}
	if id == "" {
		return errors.New("identifier must not be empty")
	}
	if factory == nil {
		return fmt.Errorf("%s %q: %w", kind, id, ErrNilFactory)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	ns, ok := r.units[namespace]
	if !ok {
		ns = make(map[string]Descriptor)
		r.units[namespace] = ns
	}
	if _, ok := ns[id]; ok {
		return fmt.Errorf("%s %q in namespace %q: %w", kind, id, namespace, ErrDuplicateIdentifier)
	}
	ns[id] = Descriptor{
		Kind: kind,
		Type: TypeGo,
		ID:   id,
		New:  factory,
	}
	return nil
}

// RegisterType is like Register, but uses the name of the concrete type built by factory as the
// identifier.
func (r *Registry) RegisterType(namespace string, kind Kind, factory func() Unit) error {
	if factory == nil {
		return fmt.Errorf("%s: %w", kind, ErrNilFactory)
	}
	return r.Register(namespace, kind, TypeName(factory()), factory)
}

// Discover implements Discoverer. Units are returned sorted by identifier. A namespace holds a
// single kind, so a unit registered there with the other kind is an [ErrWrongKind] error.
func (r *Registry) Discover(_ context.Context, namespace string, kind Kind) ([]Descriptor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Descriptor, 0, len(r.units[namespace]))
	for _, d := range r.units[namespace] {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ID < out[j].ID
	})
	for _, d := range out {
		if d.Kind != kind {
			return nil, identifierError(kind, d.ID,
				fmt.Errorf("%w: registered as %s in namespace %q", ErrWrongKind, d.Kind, namespace))
		}
	}
	return out, nil
}

// Reset removes every registered unit.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.units = make(map[string]map[string]Descriptor)
}

// TypeName returns the name of the concrete type of u, dereferencing pointers.
func TypeName(u Unit) string {
	if u == nil {
		return ""
	}
	t := reflect.TypeOf(u)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Name()
}

// globalRegistry is the registry used by a Runner unless WithRegistry is given.
var globalRegistry = NewRegistry()

// GlobalRegistry returns the process-wide registry populated by [AddMigration] and [AddSeed].
func GlobalRegistry() *Registry {
	return globalRegistry
}

// ResetGlobalUnits removes every unit from the global registry.
func ResetGlobalUnits() {
	globalRegistry.Reset()
}

// AddMigration registers a migration in the default migrations namespace of the global registry.
// It is intended to be called from init functions and panics on misuse.
func AddMigration(id string, factory func() Unit) {
	AddUnit(DefaultMigrationsNamespace, KindMigration, id, factory)
}

// AddSeed registers a seed in the default seeds namespace of the global registry. It is intended
// to be called from init functions and panics on misuse.
func AddSeed(id string, factory func() Unit) {
	AddUnit(DefaultSeedsNamespace, KindSeed, id, factory)
}

// AddMigrationType registers a migration identified by its type name.
//
//	migrator.AddMigrationType(func() migrator.Unit { return new(M20190823000001_CreateUsers) })
func AddMigrationType(factory func() Unit) {
	if err := globalRegistry.RegisterType(DefaultMigrationsNamespace, KindMigration, factory); err != nil {
		panic("migrator: " + err.Error())
	}
}

// AddSeedType registers a seed identified by its type name.
func AddSeedType(factory func() Unit) {
	if err := globalRegistry.RegisterType(DefaultSeedsNamespace, KindSeed, factory); err != nil {
		panic("migrator: " + err.Error())
	}
}

// AddUnit registers a unit of any kind under namespace in the global registry.
func AddUnit(namespace string, kind Kind, id string, factory func() Unit) {
	if err := globalRegistry.Register(namespace, kind, id, factory); err != nil {
		panic("migrator: " + err.Error())
	}
}
