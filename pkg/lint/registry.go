package lint

import "fmt"

// Registry is the complete, ordered set of checks known to the engine. It is
// an explicit value constructed once at startup and immutable afterwards.
type Registry struct {
	checks []*Check
	byName map[string]*Check
}

// NewRegistry builds a registry from the given definitions. The sentinel
// checks standing in for recipe structural failures are always included
// first. A duplicate check name is a fatal configuration error.
func NewRegistry(defs ...CheckDef) (*Registry, error) {
	all := append(sentinelChecks(), defs...)

	reg := &Registry{
		checks: make([]*Check, 0, len(all)),
		byName: make(map[string]*Check, len(all)),
	}
	for _, def := range all {
		if def.Name == "" {
			return nil, fmt.Errorf("check definition without a name")
		}
		if _, exists := reg.byName[def.Name]; exists {
			return nil, fmt.Errorf("duplicate check name %q", def.Name)
		}
		check := newCheck(def)
		reg.checks = append(reg.checks, check)
		reg.byName[def.Name] = check
	}
	return reg, nil
}

// Get returns a check by name.
func (r *Registry) Get(name string) (*Check, bool) {
	check, ok := r.byName[name]
	return check, ok
}

// All returns all checks in registration order.
func (r *Registry) All() []*Check {
	return r.checks
}

// Count returns the number of registered checks.
func (r *Registry) Count() int {
	return len(r.checks)
}
