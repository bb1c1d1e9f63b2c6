// Package report renders the human-readable output of the burncheck commands.
package report

import (
	"io"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const ruleWidth = 80

// printer groups thousands in counts, e.g. 1,000,000.00
type printer struct {
	p *message.Printer
	w io.Writer
}

func newPrinter(w io.Writer) *printer {
	return &printer{p: message.NewPrinter(language.English), w: w}
}

func (pr *printer) printf(format string, args ...interface{}) {
	pr.p.Fprintf(pr.w, format, args...)
}

func (pr *printer) println(s string) {
	io.WriteString(pr.w, s+"\n")
}

func (pr *printer) blank() {
	pr.println("")
}

func (pr *printer) banner(title string) {
	pr.println(strings.Repeat("=", ruleWidth))
	pr.println(title)
	pr.println(strings.Repeat("=", ruleWidth))
}

func (pr *printer) rule() {
	pr.println(strings.Repeat("-", ruleWidth))
}

func mark(ok bool) string {
	if ok {
		return "✓"
	}
	return "✗"
}
