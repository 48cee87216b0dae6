package mson

import (
	"log/slog"
	"sync"

	"github.com/ardnew/mson/ident"
)

const (
	// Namespace holds the built-in component types. Unqualified types are
	// looked up here.
	Namespace = "mson"
	// DynamicNamespace holds the ids of implementations.
	DynamicNamespace = "dynamic"
)

// Built-in component types.
var (
	CompoundID = ident.Identifier{Namespace: Namespace, Path: "compound"}
	BoxID      = ident.Identifier{Namespace: Namespace, Path: "box"}
	PlaneID    = ident.Identifier{Namespace: Namespace, Path: "plane"}
	PlanarID   = ident.Identifier{Namespace: Namespace, Path: "planar"}
	SlotID     = ident.Identifier{Namespace: Namespace, Path: "slot"}
	ConeID     = ident.Identifier{Namespace: Namespace, Path: "cone"}
	QuadsID    = ident.Identifier{Namespace: Namespace, Path: "quads"}
	ImportID   = ident.Identifier{Namespace: Namespace, Path: "import"}
)

// ModelKey is a registered model: a description file and the factory that
// finishes it.
type ModelKey struct {
	ID      ident.Identifier
	Factory ModelFactory
}

func (k *ModelKey) LogValue() slog.Value {
	return slog.GroupValue(slog.String("id", k.ID.String()))
}

// Registry holds the component types, implementations and model keys known
// to a foundry.
type Registry struct {
	mu sync.RWMutex

	components      map[ident.Identifier]ComponentFactory
	implementations map[string]*Implementation
	models          map[ident.Identifier]*ModelKey
}

// NewRegistry returns a registry holding the built-in component types.
func NewRegistry() *Registry {
	r := &Registry{
		components:      map[ident.Identifier]ComponentFactory{},
		implementations: map[string]*Implementation{},
		models:          map[ident.Identifier]*ModelKey{},
	}

	r.components[CompoundID] = newCompoundComponent
	r.components[BoxID] = newBox
	r.components[PlaneID] = newPlane
	r.components[PlanarID] = newPlanar
	r.components[SlotID] = newSlot
	r.components[ConeID] = newCone
	r.components[QuadsID] = newQuads
	r.components[ImportID] = newImportComponent

	return r
}

func checkNamespace(id ident.Identifier) error {
	switch id.Namespace {
	case ident.DefaultNamespace:
		return ErrReservedNamespace.
			With(slog.String("id", id.String())).
			Errorf("cannot register a component in the %q namespace", id.Namespace)
	case Namespace, DynamicNamespace:
		return ErrReservedNamespace.
			With(slog.String("id", id.String())).
			Errorf("the %q namespace is reserved", id.Namespace)
	}

	return nil
}

// RegisterComponent adds a component type.
func (r *Registry) RegisterComponent(id ident.Identifier, factory ComponentFactory) error {
	if err := checkNamespace(id); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.components[id]; ok {
		return ErrDuplicateRegistration.
			With(slog.String("id", id.String())).
			Errorf("component %s is already registered", id)
	}

	r.components[id] = factory

	return nil
}

// Component returns the factory of the component type id.
func (r *Registry) Component(id ident.Identifier) (ComponentFactory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	factory, ok := r.components[id]
	if !ok {
		return nil, ErrUnknownComponent.
			With(slog.String("type", id.String())).
			Errorf("unknown component type %s", id)
	}

	return factory, nil
}

// ComponentTypes returns the registered component type ids.
func (r *Registry) ComponentTypes() []ident.Identifier {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]ident.Identifier, 0, len(r.components))
	for id := range r.components {
		ids = append(ids, id)
	}

	return ids
}

// RegisterImplementation adds the implementation called className.
func (r *Registry) RegisterImplementation(className string, factory ModelFactory) (*Implementation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.implementations[className]; ok {
		return nil, ErrDuplicateRegistration.
			With(slog.String("class", className)).
			Errorf("implementation %s is already registered", className)
	}

	impl := newImplementation(className, factory)
	r.implementations[className] = impl

	return impl, nil
}

// Implementation returns the implementation called className. Unknown
// classes get a generic implementation that builds the tree alone.
func (r *Registry) Implementation(className string) *Implementation {
	r.mu.Lock()
	defer r.mu.Unlock()

	if impl, ok := r.implementations[className]; ok {
		return impl
	}

	impl := newImplementation(className, nil)
	r.implementations[className] = impl

	return impl
}

// RegisterModel adds a model key for the description file id.
func (r *Registry) RegisterModel(id ident.Identifier, factory ModelFactory) (*ModelKey, error) {
	if err := checkNamespace(id); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.models[id]; ok {
		return nil, ErrDuplicateRegistration.
			With(slog.String("id", id.String())).
			Errorf("model %s is already registered", id)
	}

	key := &ModelKey{ID: id, Factory: factory}
	r.models[id] = key

	return key, nil
}

// Model returns the model key registered for id.
func (r *Registry) Model(id ident.Identifier) (*ModelKey, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	key, ok := r.models[id]

	return key, ok
}
