package theme

import (
	"fmt"
	"io"
)

// Banner returns the startup banner.
func Banner() string {
	const cyan = "\033[36m"
	const yellow = "\033[33m"
	const reset = "\033[0m"

	return "" +
		cyan + "  ╔╗ ┌─┐┌─┐┌┬┐  ╔╦╗┬ ┬┌─┐┌─┐┌┬┐┌─┐\n" + reset +
		cyan + "  ╠╩╗├┤ └─┐ │    ║ │││├┤ ├┤  │ └─┐\n" + reset +
		cyan + "  ╚═╝└─┘└─┘ ┴    ╩ └┴┘└─┘└─┘ ┴ └─┘\n" + reset +
		yellow + "  ────────────────────────────────\n" + reset +
		"  yesterday's best, printed daily ✦\n"
}

// PrintBanner writes the banner to w.
func PrintBanner(w io.Writer) {
	fmt.Fprint(w, Banner())
}
