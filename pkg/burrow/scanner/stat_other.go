//go:build !darwin && !linux

package scanner

import (
	"os"
	"time"
)

// getCreateTime returns the creation time of a file.
// On unsupported platforms the timestamp is reported as unavailable.
func getCreateTime(_ os.FileInfo) time.Time {
	return time.Time{}
}
