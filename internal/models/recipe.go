// Package models defines the domain types for Larder.
package models

import "fmt"

// Recipe represents one recipe document in the content store.
type Recipe struct {
	ID          string       `json:"id" yaml:"id"`
	Title       string       `json:"title" yaml:"title"`
	Ingredients []Ingredient `json:"ingredients,omitempty" yaml:"ingredients,omitempty"`
	Visibility  Visibility   `json:"visibility" yaml:"visibility"`
}

// Ingredient is one line of a recipe's ingredient list. Item and Text are
// both optional free-form fields; either may carry a sub-recipe reference.
type Ingredient struct {
	Quantity string `json:"quantity,omitempty" yaml:"quantity,omitempty"`
	Item     string `json:"item,omitempty" yaml:"item,omitempty"`
	Text     string `json:"text,omitempty" yaml:"text,omitempty"`
}

// Visibility holds the two independent audience flags of a recipe.
type Visibility struct {
	Public     bool `json:"public" yaml:"public"`
	Enterprise bool `json:"enterprise" yaml:"enterprise"`
}

// With returns a copy of v with the flag for the given audience overridden.
// The other audience flag is left untouched.
func (v Visibility) With(a Audience, value bool) Visibility {
	switch a {
	case AudienceEnterprise:
		v.Enterprise = value
	default:
		v.Public = value
	}
	return v
}

// Flag returns the flag value for the given audience.
func (v Visibility) Flag(a Audience) bool {
	if a == AudienceEnterprise {
		return v.Enterprise
	}
	return v.Public
}

// Audience is one of the two visibility scopes a recipe may be exposed to.
type Audience string

// Known audiences.
const (
	AudiencePublic     Audience = "public"
	AudienceEnterprise Audience = "enterprise"
)

// ParseAudience validates s and returns it as an Audience.
func ParseAudience(s string) (Audience, error) {
	switch Audience(s) {
	case AudiencePublic, AudienceEnterprise:
		return Audience(s), nil
	}
	return "", fmt.Errorf("models: unknown audience %q", s)
}
