package driven

import "context"

// BlobStore is an external key-value collaborator storing whole records.
// Every write replaces the full value for a key atomically; partial field
// patches are never performed.
type BlobStore interface {
	// Get retrieves the blob stored under key. The boolean reports
	// whether the key exists.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Put replaces the blob stored under key in one atomic write.
	Put(ctx context.Context, key string, value []byte) error

	// Delete removes the blob stored under key. Deleting a missing key
	// is not an error.
	Delete(ctx context.Context, key string) error
}

// StarStore persists starred result identifiers across independent
// search calls. Starred state is the only result field that survives a
// request.
type StarStore interface {
	// IsStarred reports whether the result id is starred.
	IsStarred(ctx context.Context, resultID string) (bool, error)

	// SetStarred stars or unstars a result id.
	SetStarred(ctx context.Context, resultID string, starred bool) error

	// StarredIDs returns every starred result id.
	StarredIDs(ctx context.Context) ([]string, error)
}
