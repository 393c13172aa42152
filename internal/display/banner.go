// Package display holds console presentation helpers: the startup banner
// and human-readable formatting for summaries.
package display

import (
	"fmt"
	"io"

	"github.com/backmassage/photostamp/internal/term"
)

// PrintBanner writes the ASCII art banner to w, in magenta when colors are
// enabled.
func PrintBanner(w io.Writer, version string) {
	fmt.Fprint(w, term.Banner)
	fmt.Fprint(w, `       _           _             _
 _ __ | |__   ___ | |_ ___  ___| |_ __ _ _ __ ___  _ __
| '_ \| '_ \ / _ \| __/ _ \/ __| __/ _`+"`"+` | '_ `+"`"+` _ \| '_ \
| |_) | | | | (_) | || (_) \__ \ || (_| | | | | | | |_) |
| .__/|_| |_|\___/ \__\___/|___/\__\__,_|_| |_| |_| .__/
|_|                                               |_|
`)
	fmt.Fprint(w, term.Reset)
	fmt.Fprintf(w, "v%s\n\n", version)
}
