package errors

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFormatterPlain(t *testing.T) {
	f := NewFormatter(false)
	out := f.Format(&FormattedError{
		Code:     E4003,
		Kind:     "error",
		Message:  "type 'number' is not assignable to type 'string'",
		Context:  "(a) => a.x",
		Expected: "string",
		Found:    "number",
		Hint:     "did you mean 'x'?",
		Note:     "checked against the annotation",
	})
	expected := strings.Join([]string{
		"error[E4003]: type 'number' is not assignable to type 'string'",
		"  --> in (a) => a.x",
		"   |",
		"   = expected: string",
		"   =    found: number",
		"   = hint: did you mean 'x'?",
		"   = note: checked against the annotation",
		"",
	}, "\n")
	require.Equal(t, expected, out)
}

func TestFormatterMinimal(t *testing.T) {
	out := NewFormatter(false).Format(&FormattedError{Message: "something failed"})
	require.Equal(t, "error: something failed\n", out)
}

func TestFormatterInternalKind(t *testing.T) {
	out := Internal("bounds lost").FriendlyErrorMessage()
	require.True(t, strings.HasPrefix(out, "internal error[E9001]: bounds lost\n"), out)
	require.Contains(t, out, "   = note: this is a bug in the type checker")
}

func TestFormatterColor(t *testing.T) {
	fe := &FormattedError{Code: E4001, Message: "unknown identifier \"x\""}
	colored := NewFormatter(true).Format(fe)
	plain := NewFormatter(false).Format(fe)
	require.Contains(t, colored, "\x1b[")
	require.NotContains(t, plain, "\x1b[")
	require.Contains(t, colored, "unknown identifier \"x\"")
}

func TestFormatMultiple(t *testing.T) {
	f := NewFormatter(false)
	require.Equal(t, "", f.FormatMultiple(nil))

	one := &FormattedError{Message: "first"}
	require.Equal(t, f.Format(one), f.FormatMultiple([]*FormattedError{one}))

	out := f.FormatMultiple([]*FormattedError{
		{Message: "first"},
		{Message: "second"},
	})
	require.Equal(t, "error[1/2]: first\n\nerror[2/2]: second\n\nfound 2 errors\n", out)
}
