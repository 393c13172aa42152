//go:build !windows

package apply

import (
	"os"
	"time"
)

// setFileTimes sets access and modification time. Unix filesystems expose
// no settable creation time.
func setFileTimes(path string, t time.Time) error {
	return os.Chtimes(path, t, t)
}
