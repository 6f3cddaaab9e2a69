package catalog

import (
	"fmt"
	"sync"
)

// Registry holds entity definitions in registration order.
type Registry struct {
	mu    sync.RWMutex
	defs  map[string]Definition
	order []string
}

// NewRegistry returns a registry with every built-in entity registered.
func NewRegistry() *Registry {
	r := &Registry{defs: make(map[string]Definition)}
	r.Register(studentDefinition())
	r.Register(lecturerDefinition())
	r.Register(courseDefinition())
	r.Register(roomDefinition())
	r.Register(timeSlotDefinition())
	r.Register(scheduleDefinition())
	return r
}

// Register adds a definition.
// Panics if an entity with the same key is already registered or if a schema
// rule does not match the record field it fills.
func (r *Registry) Register(def Definition) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.defs[def.Info.Key]; exists {
		panic(fmt.Sprintf("entity already registered: %s", def.Info.Key))
	}
	if err := def.checkSchema(); err != nil {
		panic(fmt.Sprintf("entity %s: %v", def.Info.Key, err))
	}
	if def.Info.SheetName == "" {
		def.Info.SheetName = "Sheet1"
	}
	r.defs[def.Info.Key] = def
	r.order = append(r.order, def.Info.Key)
}

// Get returns a definition by key.
func (r *Registry) Get(key string) (Definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	def, ok := r.defs[key]
	return def, ok
}

// All returns every definition in registration order.
func (r *Registry) All() []Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Definition, 0, len(r.order))
	for _, k := range r.order {
		out = append(out, r.defs[k])
	}
	return out
}

// Unmarshal decodes a stored record of the given entity.
func (r *Registry) Unmarshal(entity string, data []byte) (Record, error) {
	def, ok := r.Get(entity)
	if !ok {
		return nil, fmt.Errorf("unknown entity %q", entity)
	}
	return def.Unmarshal(data)
}

// ApplyAliases appends extra header aliases to the schemas of the named
// entities. Nothing changes if any entity or field is unknown.
func (r *Registry) ApplyAliases(a Aliases) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	updated := make(map[string]Schema, len(a))
	for entity, fields := range a {
		def, ok := r.defs[entity]
		if !ok {
			return fmt.Errorf("aliases: unknown entity %q", entity)
		}
		if def.Info.ReadOnly {
			return fmt.Errorf("aliases: entity %q is not importable", entity)
		}
		schema, err := def.Schema.Extend(fields)
		if err != nil {
			return fmt.Errorf("aliases: %s: %w", entity, err)
		}
		updated[entity] = schema
	}
	for entity, schema := range updated {
		def := r.defs[entity]
		def.Schema = schema
		r.defs[entity] = def
	}
	return nil
}
