// Package term decides whether photostamp colors its console output and
// holds the escape sequences for each log label.
//
// Progress lines are printed from many workers at once, so the sequences are
// resolved once by [Configure] and read without locking afterwards. With
// colors off every sequence is "", which keeps call sites branch-free.
package term

import (
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/backmassage/photostamp/internal/config"
)

// Label colors, keyed by what they mark rather than by hue.
var (
	Info    = ""
	Success = ""
	Warn    = ""
	Error   = ""
	Debug   = ""
	Banner  = ""
	Reset   = ""
)

// Configure resolves mode against out, the console stream log lines go to.
// In auto mode colors need out to be a terminal, NO_COLOR unset and a TERM
// other than "dumb"; redirecting a run to a file therefore yields plain
// text without --no-color.
func Configure(mode config.ColorMode, out io.Writer) {
	on := false
	switch mode {
	case config.ColorAlways:
		on = true
	case config.ColorAuto:
		f, _ := out.(*os.File)
		on = IsTerminal(f) && os.Getenv("NO_COLOR") == "" &&
			!strings.EqualFold(os.Getenv("TERM"), "dumb")
	}
	set(on)
}

func set(on bool) {
	if !on {
		Info, Success, Warn, Error, Debug, Banner, Reset = "", "", "", "", "", "", ""
		return
	}
	Info = "\033[1;94m"
	Success = "\033[1;92m"
	Warn = "\033[1;93m"
	Error = "\033[1;91m"
	Debug = "\033[1;96m"
	Banner = "\033[1;95m"
	Reset = "\033[0m"
}

// Enabled reports whether colors are on.
func Enabled() bool { return Reset != "" }

// IsTerminal reports whether f is a TTY, including Cygwin and MSYS
// terminals on Windows.
func IsTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
