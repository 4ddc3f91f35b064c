// ABOUTME: Profile model for a tracked individual.
// ABOUTME: Optional age and gender stay nil when unset, distinct from zero values.
package models

import "strconv"

// Profile is a named individual whose measurements are tracked.
type Profile struct {
	ID     int64   `json:"id"`
	Name   string  `json:"name"`
	Age    *int    `json:"age,omitempty"`
	Gender *string `json:"gender,omitempty"`
}

// ProfileSummary is the (id, name) pair returned when listing profiles.
type ProfileSummary struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// NewProfile creates a Profile with only a name set. The ID is assigned by storage.
func NewProfile(name string) *Profile {
	return &Profile{Name: name}
}

// WithAge sets the profile age.
func (p *Profile) WithAge(age int) *Profile {
	p.Age = &age
	return p
}

// WithGender sets the free-form gender text.
func (p *Profile) WithGender(gender string) *Profile {
	p.Gender = &gender
	return p
}

// FindProfile resolves ref against profiles. An exact name match wins;
// otherwise ref is tried as a numeric id.
func FindProfile(profiles []ProfileSummary, ref string) (ProfileSummary, bool) {
	for _, p := range profiles {
		if p.Name == ref {
			return p, true
		}
	}
	id, err := strconv.ParseInt(ref, 10, 64)
	if err != nil {
		return ProfileSummary{}, false
	}
	for _, p := range profiles {
		if p.ID == id {
			return p, true
		}
	}
	return ProfileSummary{}, false
}
