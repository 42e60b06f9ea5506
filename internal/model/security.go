package model

import "regexp"

// PasswordPolicy holds the optional password constraints applied by the
// sign-up and reset-password forms. Zero values mean "unset".
type PasswordPolicy struct {
	MinLength int            `json:"min_length,omitempty"`
	MaxLength int            `json:"max_length,omitempty"`
	Pattern   *regexp.Regexp `json:"-"`
}

// Merge returns a copy of p where every field set on override wins.
func (p PasswordPolicy) Merge(override PasswordPolicy) PasswordPolicy {
	merged := p
	if override.MinLength > 0 {
		merged.MinLength = override.MinLength
	}
	if override.MaxLength > 0 {
		merged.MaxLength = override.MaxLength
	}
	if override.Pattern != nil {
		merged.Pattern = override.Pattern
	}
	return merged
}

// IsZero reports whether no constraint is set.
func (p PasswordPolicy) IsZero() bool {
	return p.MinLength == 0 && p.MaxLength == 0 && p.Pattern == nil
}
