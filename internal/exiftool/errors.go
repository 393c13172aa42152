package exiftool

import (
	"errors"
	"fmt"
	"regexp"
)

// ErrUnavailable is returned when no exiftool process could be started.
var ErrUnavailable = errors.New("exiftool unavailable")

// Reason is a short classification of a failed embedded write.
type Reason string

const (
	ReasonUnsupported Reason = "unsupported format"
	ReasonCorrupt     Reason = "corrupt file"
	ReasonPermission  Reason = "permission denied"
	ReasonOther       Reason = "embedded write failed"
)

// Pre-compiled patterns for exiftool's error text, checked in order by
// [Classify]; first match wins.
var reasonPatterns = []struct {
	re     *regexp.Regexp
	reason Reason
}{
	{
		regexp.MustCompile(`(?i)permission denied|error renaming temporary file|error opening file|read-only file system`),
		ReasonPermission,
	},
	{
		regexp.MustCompile(`(?i)can't currently write|writing of .* (files )?is not supported|unknown file type|not a supported file|file format error`),
		ReasonUnsupported,
	},
	{
		regexp.MustCompile(`(?i)corrupt|not a valid|truncated|bad format|missing .* segment|error reading|invalid .* header`),
		ReasonCorrupt,
	},
}

// Classify maps exiftool error text to a [Reason].
func Classify(msg string) Reason {
	for _, p := range reasonPatterns {
		if p.re.MatchString(msg) {
			return p.reason
		}
	}
	return ReasonOther
}

// reTransport matches go-exiftool errors from the stay-open pipe itself
// rather than from the file being written.
var reTransport = regexp.MustCompile(`(?i)stdMergedOut|stdin|buffer too small|broken pipe|file already closed`)

// IsTransportError reports whether err means the exiftool process can no
// longer be used.
func IsTransportError(err error) bool {
	return err != nil && reTransport.MatchString(err.Error())
}

// WriteError reports a failed embedded write for one file.
type WriteError struct {
	Path   string
	Reason Reason
	Err    error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("%s: %s (%v)", e.Path, e.Reason, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }
