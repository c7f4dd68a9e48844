package errors

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// Formatter formats errors in a rustc-like layout, optionally colored.
type Formatter struct {
	// UseColor enables ANSI color codes in output.
	UseColor bool

	palette palette
}

type palette struct {
	errorBold *color.Color
	err       *color.Color
	code      *color.Color
	context   *color.Color
	pipe      *color.Color
	expected  *color.Color
	found     *color.Color
	hint      *color.Color
	note      *color.Color
}

// NewFormatter creates a new error formatter.
func NewFormatter(useColor bool) *Formatter {
	f := &Formatter{
		UseColor: useColor,
		palette: palette{
			errorBold: color.New(color.FgHiRed, color.Bold),
			err:       color.New(color.FgRed),
			code:      color.New(color.FgHiBlack),
			context:   color.New(color.FgCyan),
			pipe:      color.New(color.FgHiBlack),
			expected:  color.New(color.FgGreen),
			found:     color.New(color.FgHiRed),
			hint:      color.New(color.FgHiYellow),
			note:      color.New(color.FgHiBlue),
		},
	}
	if useColor {
		// EnableColor overrides terminal detection.
		for _, c := range []*color.Color{
			f.palette.errorBold, f.palette.err, f.palette.code, f.palette.context,
			f.palette.pipe, f.palette.expected, f.palette.found, f.palette.hint,
			f.palette.note,
		} {
			c.EnableColor()
		}
	}
	return f
}

// FormattedError represents an error ready for display.
type FormattedError struct {
	Code     ErrorCode
	Kind     string // "error" or "internal error"
	Message  string
	Context  string // rendering of the expression being checked
	Expected string // rendering of the expected type
	Found    string // rendering of the inferred type
	Hint     string // "Did you mean?" suggestion
	Note     string // Additional context
}

func (f *Formatter) paint(c *color.Color, s string) string {
	if !f.UseColor {
		return s
	}
	return c.Sprint(s)
}

// Format formats the error as a string.
func (f *Formatter) Format(err *FormattedError) string {
	return f.FormatWithPrefix(err, "")
}

// FormatWithPrefix formats the error with an optional prefix like "1/5".
func (f *Formatter) FormatWithPrefix(err *FormattedError, prefix string) string {
	var b strings.Builder

	// Error header: "error[E4003]: message" or "error[1/5]: message"
	f.writeHeader(&b, err, prefix)

	// Context arrow: "  --> in (a) => a.x"
	if err.Context != "" {
		b.WriteString("  ")
		b.WriteString(f.paint(f.palette.context, "-->"))
		b.WriteString(" in ")
		b.WriteString(f.paint(f.palette.context, err.Context))
		b.WriteString("\n")
	}

	if err.Expected != "" || err.Found != "" {
		b.WriteString(f.paint(f.palette.pipe, "   |\n"))
	}
	if err.Expected != "" {
		f.writeField(&b, "expected", err.Expected, f.palette.expected)
	}
	if err.Found != "" {
		f.writeField(&b, "   found", err.Found, f.palette.found)
	}
	if err.Hint != "" {
		f.writeAnnotation(&b, "hint", err.Hint, f.palette.hint)
	}
	if err.Note != "" {
		f.writeAnnotation(&b, "note", err.Note, f.palette.note)
	}
	return b.String()
}

func (f *Formatter) writeHeader(b *strings.Builder, err *FormattedError, prefix string) {
	label := "error"
	if err.Kind != "" && err.Kind != "error" {
		label = err.Kind
	}
	b.WriteString(f.paint(f.palette.errorBold, label))

	// Add code or prefix in brackets
	if err.Code != "" {
		b.WriteString(f.paint(f.palette.code, fmt.Sprintf("[%s]", err.Code)))
	} else if prefix != "" {
		b.WriteString(f.paint(f.palette.code, fmt.Sprintf("[%s]", prefix)))
	}

	b.WriteString(f.paint(f.palette.err, ": "))
	b.WriteString(err.Message)
	b.WriteString("\n")
}

func (f *Formatter) writeField(b *strings.Builder, label, value string, c *color.Color) {
	b.WriteString(f.paint(f.palette.pipe, "   = "))
	b.WriteString(label)
	b.WriteString(": ")
	b.WriteString(f.paint(c, value))
	b.WriteString("\n")
}

func (f *Formatter) writeAnnotation(b *strings.Builder, label, value string, c *color.Color) {
	b.WriteString(f.paint(f.palette.pipe, "   = "))
	b.WriteString(f.paint(c, label+": "))
	b.WriteString(value)
	b.WriteString("\n")
}

// FormatMultiple formats multiple errors with consistent styling.
func (f *Formatter) FormatMultiple(errs []*FormattedError) string {
	if len(errs) == 0 {
		return ""
	}

	// Single error - no numbering needed
	if len(errs) == 1 {
		return f.Format(errs[0])
	}

	var b strings.Builder
	total := len(errs)

	for i, err := range errs {
		if i > 0 {
			b.WriteString("\n")
		}
		prefix := fmt.Sprintf("%d/%d", i+1, total)
		b.WriteString(f.FormatWithPrefix(err, prefix))
	}

	// Summary
	b.WriteString("\n")
	b.WriteString(f.paint(f.palette.errorBold, fmt.Sprintf("found %d errors", total)))
	b.WriteString("\n")

	return b.String()
}
