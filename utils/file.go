package utils

import (
	"os"
)

const uploadDir = "./uploads"

// EnsureUploadDir creates the local uploads directory used when no object
// storage bucket is configured.
func EnsureUploadDir() error {
	return os.MkdirAll(uploadDir, 0o755)
}
