// Package types provides type definitions for structured data used throughout the screening diagnostic system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// JobProfile describes the fixed requirements for one open position.
// Profiles are loaded once at startup and never mutated.
type JobProfile struct {
	Key               string   `json:"key" yaml:"-"`
	Title             string   `json:"title" yaml:"title" validate:"required"`
	Department        string   `json:"department" yaml:"department" validate:"required"`
	MinExperience     int      `json:"min_experience" yaml:"min_experience" validate:"gt=0"`
	RequiredSkills    []string `json:"required_skills" yaml:"required_skills" validate:"min=1,dive,required,lowercase"`
	PreferredSkills   []string `json:"preferred_skills" yaml:"preferred_skills" validate:"min=1,dive,required,lowercase"`
	EducationKeywords []string `json:"education_keywords" yaml:"education_keywords" validate:"min=1,dive,required,lowercase"`
}
