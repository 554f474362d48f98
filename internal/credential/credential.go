package credential

import "github.com/samber/mo"

// Pair is the access/refresh credential pair issued by the backend.
// It is always replaced wholesale; a pair with either half empty is
// never stored.
type Pair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// Valid reports whether both halves of the pair are present.
func (p Pair) Valid() bool {
	return p.Access != "" && p.Refresh != ""
}

// Store is durable storage for the credential pair. Implementations do
// no network access and Get never blocks on anything but local storage,
// since it gates the initial session status.
type Store interface {
	// Get returns the stored pair, or None when unauthenticated.
	Get() mo.Option[Pair]

	// Set replaces the stored pair.
	Set(pair Pair) error

	// Clear removes the stored pair. Clearing an empty store is not an error.
	Clear() error
}
