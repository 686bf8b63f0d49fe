package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConstraintMatching(t *testing.T) {
	tests := []struct {
		constraint string
		matches    []string
		excludes   []string
	}{
		{">=1.0.0", []string{"1.0.0", "1.5.0", "2.0.0"}, []string{"0.9.0"}},
		{"<=2.0.0", []string{"1.0.0", "2.0.0"}, []string{"2.0.1", "3.0.0"}},
		{">1.0.0", []string{"1.0.1", "2.0.0"}, []string{"1.0.0", "0.9.0"}},
		{"<2.0.0", []string{"1.0.0", "1.9.9"}, []string{"2.0.0", "3.0.0"}},
		{"==1.5.0", []string{"1.5.0"}, []string{"1.4.0", "1.6.0"}},
		{">=1.0.0,<2.0.0", []string{"1.0.0", "1.9.0"}, []string{"0.9.0", "2.0.0"}},
		{"~=1.4.0", []string{"1.4.0", "1.4.5"}, []string{"1.3.0", "1.5.0"}},
		{"~=1.4", []string{"1.4.0", "1.9.9"}, []string{"1.3.9", "2.0.0"}},
		{"==1.0", []string{"1.0.0"}, []string{"1.0.1"}},
	}

	for _, tt := range tests {
		set, err := ParseConstraint(tt.constraint)
		require.NoError(t, err, "constraint %q", tt.constraint)
		for _, v := range tt.matches {
			assert.True(t, set.Contains(MustParse(v)), "%q should match %s", tt.constraint, v)
		}
		for _, v := range tt.excludes {
			assert.False(t, set.Contains(MustParse(v)), "%q should not match %s", tt.constraint, v)
		}
	}
}

func TestParseConstraintWhitespace(t *testing.T) {
	spaced, err := ParseConstraint("  >= 1.0.0 ,  < 2.0.0  ")
	require.NoError(t, err)
	tight, err := ParseConstraint(">=1.0.0,<2.0.0")
	require.NoError(t, err)
	assert.True(t, spaced.Equal(tight))
}

func TestParseConstraintEmptyMeansAny(t *testing.T) {
	set, err := ParseConstraint("")
	require.NoError(t, err)
	assert.True(t, set.IsFull())
}

func TestParseConstraintContradiction(t *testing.T) {
	set, err := ParseConstraint(">=2.0.0, <1.0.0")
	require.NoError(t, err)
	assert.True(t, set.IsEmpty())
}

func TestParseConstraintErrors(t *testing.T) {
	invalid := []string{
		">>invalid<<",
		"==",
		">=",
		"~=1",
		"abc",
		"1.0.0",
		">=1.0.0,,<2.0.0",
		">=1.0.x",
		"=1.0.0",
	}
	for _, s := range invalid {
		_, err := ParseConstraint(s)
		require.Error(t, err, "constraint %q", s)
		var parseErr *ParseError
		require.ErrorAs(t, err, &parseErr)
		assert.Equal(t, "constraint", parseErr.Kind)
		assert.Contains(t, err.Error(), "invalid constraint")
	}
}

func TestCompatibleReleaseExpansion(t *testing.T) {
	set, err := ParseConstraint("~=1.4.5")
	require.NoError(t, err)
	want, err := ParseConstraint(">=1.4.5, <1.5.0")
	require.NoError(t, err)
	assert.True(t, set.Equal(want))

	set, err = ParseConstraint("~=2.7")
	require.NoError(t, err)
	want, err = ParseConstraint(">=2.7, <3.0")
	require.NoError(t, err)
	assert.True(t, set.Equal(want))
}
