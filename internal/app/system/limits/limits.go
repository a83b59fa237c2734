// internal/app/system/limits/limits.go
package limits

// Request body size limits.
// These limits help prevent memory exhaustion from oversized requests.
const (
	// MaxNewsBodySize is the maximum size of a create or update request for
	// a news post. Post text is HTML and may be long.
	MaxNewsBodySize = 1 << 20 // 1 MB
)
