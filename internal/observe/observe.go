// Package observe maps observable names to accessor functions over a
// simulation state. Names are resolved and validated eagerly, so a typo in
// the configuration fails before any stepping occurs.
package observe

import (
	"fmt"
	"sort"
	"strings"
)

// Source is the read-only view of simulation state an accessor consumes.
type Source interface {
	KineticEnergy() float64
	PotentialEnergy() float64
	Temperature() float64
	Volume() float64
	Density() float64
}

// Accessor extracts one scalar observable from the state.
type Accessor func(Source) float64

// Observable is a named scalar quantity eligible for live plotting.
type Observable struct {
	Name  string
	Label string
	Get   Accessor
}

type Registry struct {
	byName map[string]Observable
}

// NewRegistry returns a registry seeded with the built-in observables and
// their accepted aliases.
func NewRegistry() *Registry {
	r := &Registry{byName: make(map[string]Observable)}

	r.add(Observable{
		Name:  "kinetic_energy",
		Label: "Kinetic Energy [kJ/mol]",
		Get:   func(s Source) float64 { return s.KineticEnergy() },
	}, "KE", "kinetic", "kineticEnergy", "kinetic energy")

	r.add(Observable{
		Name:  "potential_energy",
		Label: "Potential Energy [kJ/mol]",
		Get:   func(s Source) float64 { return s.PotentialEnergy() },
	}, "V", "potential", "potentialEnergy", "potential energy")

	r.add(Observable{
		Name:  "total_energy",
		Label: "Total Energy [kJ/mol]",
		Get:   func(s Source) float64 { return s.KineticEnergy() + s.PotentialEnergy() },
	}, "total", "totalEnergy", "total energy")

	r.add(Observable{
		Name:  "temperature",
		Label: "Temperature [K]",
		Get:   func(s Source) float64 { return s.Temperature() },
	}, "T", "temp")

	r.add(Observable{
		Name:  "volume",
		Label: "Volume [nm^3]",
		Get:   func(s Source) float64 { return s.Volume() },
	}, "vol")

	r.add(Observable{
		Name:  "density",
		Label: "Density [g/mL]",
		Get:   func(s Source) float64 { return s.Density() },
	}, "rho")

	return r
}

func (r *Registry) add(obs Observable, aliases ...string) {
	r.byName[obs.Name] = obs
	for _, a := range aliases {
		r.byName[a] = obs
	}
}

// Register adds a custom observable under the given name. The name must not
// collide with a built-in name or alias.
func (r *Registry) Register(name, label string, get Accessor) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("observable name must not be empty")
	}
	if get == nil {
		return fmt.Errorf("observable %q: accessor must not be nil", name)
	}
	if _, exists := r.byName[name]; exists {
		return fmt.Errorf("observable %q is already registered", name)
	}
	if label == "" {
		label = name
	}
	r.byName[name] = Observable{Name: name, Label: label, Get: get}
	return nil
}

// Resolve looks up an observable by canonical name or alias.
func (r *Registry) Resolve(name string) (Observable, error) {
	obs, ok := r.byName[name]
	if !ok {
		return Observable{}, fmt.Errorf("%q is not a valid observable, choose from %s",
			name, strings.Join(r.Names(), ", "))
	}
	return obs, nil
}

// Names lists every accepted name and alias, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Set is a resolved, deduplicated selection of observables to report.
type Set struct {
	obs []Observable
}

// NewSet resolves the requested names against the registry. Aliases that
// resolve to the same observable are deduplicated; an unknown name is a
// configuration error.
func (r *Registry) NewSet(names ...string) (*Set, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("at least one observable is required")
	}
	set := &Set{obs: make([]Observable, 0, len(names))}
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		obs, err := r.Resolve(name)
		if err != nil {
			return nil, err
		}
		if seen[obs.Name] {
			continue
		}
		seen[obs.Name] = true
		set.obs = append(set.obs, obs)
	}
	return set, nil
}

func (s *Set) Len() int { return len(s.obs) }

// Labels maps canonical names to display labels for every member.
func (s *Set) Labels() map[string]string {
	labels := make(map[string]string, len(s.obs))
	for _, obs := range s.obs {
		labels[obs.Name] = obs.Label
	}
	return labels
}

// Read evaluates every member against the state.
func (s *Set) Read(src Source) map[string]float64 {
	values := make(map[string]float64, len(s.obs))
	for _, obs := range s.obs {
		values[obs.Name] = obs.Get(src)
	}
	return values
}
