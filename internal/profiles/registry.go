// Package profiles holds the fixed table of job profiles the resume scorer matches against.
// The table is embedded YAML, parsed and validated once.
package profiles

import (
	_ "embed"
	"slices"
	"sort"
	"sync"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/jonathan/screening-diagnostic/internal/types"
)

//go:embed profiles.yaml
var embeddedProfiles []byte

// Registry is an immutable lookup from job key to profile.
type Registry struct {
	profiles map[string]types.JobProfile
	keys     []string
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
	defaultErr      error
)

// Default returns the registry built from the embedded profile table.
func Default() (*Registry, error) {
	defaultOnce.Do(func() {
		defaultRegistry, defaultErr = Parse(embeddedProfiles)
	})
	return defaultRegistry, defaultErr
}

// MustDefault is Default for callers that cannot continue without profiles.
func MustDefault() *Registry {
	reg, err := Default()
	if err != nil {
		panic(err)
	}
	return reg
}

// Parse builds a registry from a YAML document mapping job keys to profiles.
func Parse(data []byte) (*Registry, error) {
	var raw map[string]types.JobProfile
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, &LoadError{Message: "invalid YAML", Cause: err}
	}
	if len(raw) == 0 {
		return nil, &LoadError{Message: "no profiles defined"}
	}

	validate := validator.New()
	reg := &Registry{profiles: make(map[string]types.JobProfile, len(raw))}
	for key, p := range raw {
		if err := validate.Struct(p); err != nil {
			return nil, &LoadError{Message: "profile " + key, Cause: err}
		}
		p.Key = key
		reg.profiles[key] = p
		reg.keys = append(reg.keys, key)
	}
	sort.Strings(reg.keys)
	return reg, nil
}

// Get returns the profile for key.
func (r *Registry) Get(key string) (types.JobProfile, error) {
	p, ok := r.profiles[key]
	if !ok {
		return types.JobProfile{}, &UnknownProfileError{Key: key}
	}
	return clone(p), nil
}

// Keys returns the job keys in sorted order.
func (r *Registry) Keys() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

// List returns every profile ordered by key.
func (r *Registry) List() []types.JobProfile {
	out := make([]types.JobProfile, 0, len(r.keys))
	for _, k := range r.keys {
		out = append(out, clone(r.profiles[k]))
	}
	return out
}

// clone copies the skill lists so callers cannot mutate the table.
func clone(p types.JobProfile) types.JobProfile {
	p.RequiredSkills = slices.Clone(p.RequiredSkills)
	p.PreferredSkills = slices.Clone(p.PreferredSkills)
	p.EducationKeywords = slices.Clone(p.EducationKeywords)
	return p
}
