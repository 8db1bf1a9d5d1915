package domain

import "time"

// RawItem represents one item fetched by a source adapter before
// normalisation. Fields the source does not supply are left zero; the
// normaliser synthesises deterministic fallbacks for the required ones.
type RawItem struct {
	// ID is the source-native identifier, if any.
	ID string

	Title   string
	URL     string
	Content string
	Author  string

	// Date is the source-reported timestamp. Zero when unknown.
	Date time.Time

	// Score is the adapter-supplied relevance in [0,1].
	// Only meaningful when Scored is true.
	Score float64

	// Scored reports whether the adapter supplied a relevance score.
	// When false the ranker derives one from query term overlap.
	Scored bool

	Tags      []string
	KeyPoints []string
	Summary   string

	// Metadata carries source-specific structured data, passed through
	// to the canonical result losslessly.
	Metadata *Metadata
}

// SearchOptions configures one adapter search call.
type SearchOptions struct {
	// Limit is the maximum number of items to return. Zero means the
	// adapter default.
	Limit int

	// Model is the AI model identifier. Only used by the AI adapter.
	Model string

	// Temperature is the AI sampling temperature. Only used by the AI
	// adapter.
	Temperature float64
}
