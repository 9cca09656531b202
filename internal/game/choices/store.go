package choices

import "context"

// Persistence keys shared by every Store implementation.
const (
	KeyLanguage = "wheel_lang_v1"
	KeyOptions  = "wheel_options_v1"
)

// Store is a string key-value store scoped to one desk profile.
//
// Implementations MUST be safe for concurrent use.
type Store interface {
	// Get returns the value for key. found is false when the key was never set.
	Get(ctx context.Context, key string) (value string, found bool, err error)
	// Set writes one key.
	Set(ctx context.Context, key, value string) error
	// SetAll writes every pair atomically where the backend supports it.
	SetAll(ctx context.Context, pairs map[string]string) error
}
