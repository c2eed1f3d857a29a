//go:build linux

package scanner

import (
	"os"
	"time"
)

// getCreateTime returns the creation time of a file.
// Linux does not reliably expose birth time through syscall.Stat_t, so the
// timestamp is reported as unavailable rather than approximated.
func getCreateTime(_ os.FileInfo) time.Time {
	return time.Time{}
}
