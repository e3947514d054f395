// internal/app/system/limits/limits.go
package limits

// Request body size limits for various features.
// These limits help prevent memory exhaustion from oversized requests.
const (
	// MaxMemberForm is the largest accepted create/edit form body.
	MaxMemberForm = 256 << 10 // 256 KB

	// MaxMemberJSON is the largest accepted member payload on the API.
	MaxMemberJSON = 64 << 10 // 64 KB

	// MultipartMemory is how much of a multipart body is held in memory;
	// the rest spills to temporary files.
	MultipartMemory = 1 << 20 // 1 MB
)
