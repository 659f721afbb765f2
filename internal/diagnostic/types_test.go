package diagnostic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiagnostics(t *testing.T) {
	t.Parallel()

	var d Diagnostics
	require.True(t, d.IsValid())
	require.NoError(t, d.Err())

	d.AddWarning("empty_policy", "policy sets nothing", "Person", "")
	d.AddError("unknown_convention", `unknown case convention "kebab"`, "Person", "rename", "kebab-case")

	assert.Equal(t, "[Person]: [empty_policy] policy sets nothing", d.Warnings[0].String())
	assert.True(t, d.HasErrors())
	assert.False(t, d.IsValid())

	err := d.Err()
	require.ErrorIs(t, err, ErrInvalid)
	assert.EqualError(t, err,
		`validation failed: [Person] rename: [unknown_convention] unknown case convention "kebab" (did you mean "kebab-case"?)`)
}

func TestDiagnostics_Merge(t *testing.T) {
	t.Parallel()

	var a, b Diagnostics
	a.AddError("x", "first", "", "")
	b.AddError("y", "second", "", "")
	b.AddWarning("z", "third", "", "")

	a.Merge(b)

	assert.Len(t, a.Errors, 2)
	assert.Len(t, a.Warnings, 1)
	assert.Equal(t, "[x] first; [y] second", a.Err().Error()[len("validation failed: "):])
}

func TestDiagnosticSeverity_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "warning", DiagnosticWarning.String())
	assert.Equal(t, "error", DiagnosticError.String())
	assert.Equal(t, "unknown", DiagnosticSeverity(42).String())
}

func TestQuote(t *testing.T) {
	t.Parallel()

	assert.Equal(t, `"a"`, Quote([]string{"a"}))
	assert.Equal(t, `"a" or "b"`, Quote([]string{"a", "b"}))
}
