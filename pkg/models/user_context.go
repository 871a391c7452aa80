package models

// UserContext is the normalized matching profile extracted from project data.
// Sector and Subsector are lowercased; Contaminants holds canonical category
// keys (see the contaminants package); Flow is in m3/day when known.
type UserContext struct {
	Sector       string
	Subsector    string
	Contaminants map[string]bool
	Flow         *float64
}

// ContaminantList returns the detected categories in map order.
// Callers that need determinism must sort the result themselves.
func (u *UserContext) ContaminantList() []string {
	out := make([]string, 0, len(u.Contaminants))
	for c := range u.Contaminants {
		out = append(out, c)
	}
	return out
}

// HasContaminant reports whether a canonical category was detected
func (u *UserContext) HasContaminant(category string) bool {
	return u.Contaminants[category]
}
