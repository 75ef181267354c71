package preview

import (
	"strings"

	"github.com/apparentlymart/go-textseg/v13/textseg"
)

const (
	DefaultMaxLength   = 100
	DefaultEdgeLength  = 5
	DefaultSpaceChar   = "\u2423" // ␣
	DefaultNewlineChar = "\u00ac" // ¬
	ellipsis           = "..."
)

// Options control how range text is shortened for display.
type Options struct {
	// MaxLength is the number of characters above which text is elided.
	MaxLength int
	// EdgeLength is how many characters are kept on each side of the elision.
	EdgeLength int
	// ReplaceWhitespace swaps spaces and newlines for visible glyphs.
	ReplaceWhitespace bool
	SpaceChar         string
	NewlineChar       string
}

func DefaultOptions() Options {
	return Options{
		MaxLength:         DefaultMaxLength,
		EdgeLength:        DefaultEdgeLength,
		ReplaceWhitespace: true,
		SpaceChar:         DefaultSpaceChar,
		NewlineChar:       DefaultNewlineChar,
	}
}

// Formatter turns the raw text of a range into a short, single-line string.
type Formatter struct {
	opts     Options
	replacer *strings.Replacer
}

func NewFormatter(opts Options) *Formatter {
	f := &Formatter{opts: opts}
	if opts.ReplaceWhitespace {
		f.replacer = strings.NewReplacer("\n", opts.NewlineChar, " ", opts.SpaceChar)
	}
	return f
}

// Format elides the middle of text longer than MaxLength characters and
// substitutes whitespace glyphs. Characters are grapheme clusters.
func (f *Formatter) Format(text string) string {
	if f.opts.MaxLength > 0 {
		text = f.elide(text)
	}
	if f.replacer != nil {
		text = f.replacer.Replace(text)
	}
	return text
}

func (f *Formatter) elide(text string) string {
	// a string can't hold more clusters than bytes
	if len(text) <= f.opts.MaxLength {
		return text
	}

	clusters, err := textseg.AllTokens([]byte(text), textseg.ScanGraphemeClusters)
	if err != nil || len(clusters) <= f.opts.MaxLength {
		return text
	}

	edge := f.opts.EdgeLength
	if edge < 0 {
		edge = 0
	}
	if 2*edge > len(clusters) {
		edge = len(clusters) / 2
	}

	var b strings.Builder
	for _, c := range clusters[:edge] {
		b.Write(c)
	}
	b.WriteString(ellipsis)
	for _, c := range clusters[len(clusters)-edge:] {
		b.Write(c)
	}
	return b.String()
}
