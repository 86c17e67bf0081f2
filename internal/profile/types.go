package profile

import "fmt"

// Profile is a named record of a user's preferences and interaction
// history, keyed by a stable identifier.
type Profile struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Preferences []string `json:"preferences"`
	History     []string `json:"history"`
}

// DisplayName returns the profile's name, or a derived placeholder
// when none was ever supplied.
func (p Profile) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	return fmt.Sprintf("User_%s", p.ID)
}

func (p Profile) clone() Profile {
	cp := p
	if p.Preferences != nil {
		cp.Preferences = make([]string, len(p.Preferences))
		copy(cp.Preferences, p.Preferences)
	}
	if p.History != nil {
		cp.History = make([]string, len(p.History))
		copy(cp.History, p.History)
	}
	return cp
}
