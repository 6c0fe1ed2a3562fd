package ui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/glamour"
)

// defaultWrap is the column width for transcript previews.
const defaultWrap = 100

// RenderMarkdown pretty-prints a composed transcript to w, wrapping at
// the given column (or defaultWrap when wrap <= 0). When the terminal
// renderer cannot be built or fails, the raw markdown is written
// instead so a preview never errors out.
func RenderMarkdown(w io.Writer, md string, wrap int) {
	if wrap <= 0 {
		wrap = defaultWrap
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		fmt.Fprintln(w, md)
		return
	}

	out, err := renderer.Render(md)
	if err != nil {
		fmt.Fprintln(w, md)
		return
	}

	fmt.Fprint(w, out)
}
