package models

import "slices"

// Employee is immutable reference data, referenced by id from contractors.
type Employee struct {
	ID         string `json:"id" yaml:"id"`
	Name       string `json:"name" yaml:"name"`
	Email      string `json:"email" yaml:"email"`
	Department string `json:"department" yaml:"department"`
	Title      string `json:"title" yaml:"title"`
}

// Site is a physical location a contractor can be assigned to.
type Site struct {
	ID      string `json:"id" yaml:"id"`
	Name    string `json:"name" yaml:"name"`
	Address string `json:"address" yaml:"address"`
	Type    string `json:"type" yaml:"type"`
}

// TechSystem is a technology system with an ordered access-level vocabulary.
type TechSystem struct {
	ID           string   `json:"id" yaml:"id"`
	Name         string   `json:"name" yaml:"name"`
	Description  string   `json:"description" yaml:"description"`
	Category     string   `json:"category" yaml:"category"`
	AccessLevels []string `json:"accessLevels" yaml:"accessLevels"`
}

// AllowsAccessLevel reports whether level is in the system's vocabulary.
func (s *TechSystem) AllowsAccessLevel(level string) bool {
	return slices.Contains(s.AccessLevels, level)
}

// DeactivationReason is one entry of the reason catalog offered on deactivation.
type DeactivationReason struct {
	ID          string `json:"id" yaml:"id"`
	Label       string `json:"label" yaml:"label"`
	Description string `json:"description,omitempty" yaml:"description"`
}
