// Package catalog stores searchable entries and the partner list.
package catalog

import "strings"

// Entry is a single searchable record retrievable by its code.
type Entry struct {
	Code     string   `json:"-" db:"code"`
	Title    string   `json:"title" db:"title"`
	Poster   string   `json:"poster" db:"poster"`
	Episodes []string `json:"episodes" db:"episodes"`
}

// Store is the durable mapping of code to entry plus the ordered,
// deduplicated partner list. Implementations must make every mutating
// call durable before returning.
type Store interface {
	// GetEntry returns the entry for code, or ok=false if absent.
	GetEntry(code string) (Entry, bool, error)
	// PutEntry stores the entry, overwriting any prior one with the same
	// code. Episodes are trimmed and empty elements dropped before storing.
	PutEntry(entry Entry) error
	// DeleteEntry removes the entry and reports whether it existed.
	DeleteEntry(code string) (bool, error)
	CountEntries() (int, error)

	// ListPartners returns partner handles in insertion order.
	ListPartners() ([]string, error)
	// AddPartner appends the normalized handle unless already present.
	AddPartner(handle string) error
	// DeletePartner removes the handle and reports whether it was present.
	DeletePartner(handle string) (bool, error)
	CountPartners() (int, error)

	Close() error
}

// NormalizePartner trims the handle and ensures the @ prefix.
func NormalizePartner(handle string) string {
	handle = strings.TrimSpace(handle)
	if handle == "" {
		return ""
	}
	if !strings.HasPrefix(handle, "@") {
		handle = "@" + handle
	}
	return handle
}

// CleanEpisodes trims each episode link and drops empty elements,
// preserving order.
func CleanEpisodes(episodes []string) []string {
	cleaned := make([]string, 0, len(episodes))
	for _, ep := range episodes {
		ep = strings.TrimSpace(ep)
		if ep == "" {
			continue
		}
		cleaned = append(cleaned, ep)
	}
	return cleaned
}

// SplitEpisodes parses a comma-separated episode list into cleaned links.
func SplitEpisodes(raw string) []string {
	return CleanEpisodes(strings.Split(raw, ","))
}
