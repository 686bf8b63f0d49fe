package resolver

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rimraf-adi.com/sirocco/pkg/registry"
	"rimraf-adi.com/sirocco/pkg/solver"
	"rimraf-adi.com/sirocco/pkg/version"
)

func TestSimpleResolution(t *testing.T) {
	result, err := Resolve(
		map[string]string{"root": ">=1.0.0"},
		map[string]map[string]map[string]string{
			"root": {"1.0.0": {"dep": ">=1.0.0"}},
			"dep":  {"1.0.0": {}, "1.1.0": {}},
		})
	require.NoError(t, err)
	assert.Equal(t, "1.0.0", result["root"])
	assert.Equal(t, "1.1.0", result["dep"], "should pick highest matching version")
}

func TestTransitiveDependencies(t *testing.T) {
	result, err := Resolve(
		map[string]string{"a": ">=1.0.0"},
		map[string]map[string]map[string]string{
			"a": {"1.0.0": {"b": ">=1.0.0"}},
			"b": {"1.0.0": {"c": ">=1.0.0"}, "2.0.0": {"c": ">=2.0.0"}},
			"c": {"1.0.0": {}, "2.0.0": {}},
		})
	require.NoError(t, err)
	want := map[string]string{"a": "1.0.0", "b": "2.0.0", "c": "2.0.0"}
	assert.Empty(t, cmp.Diff(want, result))
}

func TestConstraintUpperBound(t *testing.T) {
	result, err := Resolve(
		map[string]string{"pkg": ">=1.0.0,<2.0.0"},
		map[string]map[string]map[string]string{
			"pkg": {"1.0.0": {}, "1.5.0": {}, "2.0.0": {}, "2.1.0": {}},
		})
	require.NoError(t, err)
	assert.Equal(t, "1.5.0", result["pkg"])
}

func TestExactVersion(t *testing.T) {
	result, err := Resolve(
		map[string]string{"pkg": "==1.2.0"},
		map[string]map[string]map[string]string{
			"pkg": {"1.0.0": {}, "1.2.0": {}, "1.5.0": {}},
		})
	require.NoError(t, err)
	assert.Equal(t, "1.2.0", result["pkg"])
}

func TestCompatibleRelease(t *testing.T) {
	result, err := Resolve(
		map[string]string{"pkg": "~=1.4.0"},
		map[string]map[string]map[string]string{
			"pkg": {"1.3.0": {}, "1.4.0": {}, "1.4.5": {}, "1.5.0": {}},
		})
	require.NoError(t, err)
	assert.Equal(t, "1.4.5", result["pkg"])
}

func TestNoDependencies(t *testing.T) {
	result, err := Resolve(
		map[string]string{"standalone": ">=1.0.0"},
		map[string]map[string]map[string]string{
			"standalone": {"1.0.0": {}, "2.0.0": {}},
		})
	require.NoError(t, err)
	assert.Equal(t, "2.0.0", result["standalone"])
}

func TestMultipleRootRequirements(t *testing.T) {
	result, err := Resolve(
		map[string]string{"a": ">=1.0.0", "b": ">=2.0.0"},
		map[string]map[string]map[string]string{
			"a": {"1.0.0": {}},
			"b": {"2.0.0": {}, "2.1.0": {}},
		})
	require.NoError(t, err)
	assert.Equal(t, "1.0.0", result["a"])
	assert.Equal(t, "2.1.0", result["b"])
}

func TestConflictErrorMessage(t *testing.T) {
	_, err := Resolve(
		map[string]string{"a": ">=1.0.0", "b": ">=1.0.0"},
		map[string]map[string]map[string]string{
			"a":      {"1.0.0": {"shared": ">=2.0.0"}},
			"b":      {"1.0.0": {"shared": "<2.0.0"}},
			"shared": {"1.0.0": {}, "2.0.0": {}},
		})
	require.Error(t, err)
	var resolution *solver.ResolutionError
	require.ErrorAs(t, err, &resolution)
	assert.Contains(t, err.Error(), "shared")
}

func TestNoMatchingVersion(t *testing.T) {
	_, err := Resolve(
		map[string]string{"pkg": ">=5.0.0"},
		map[string]map[string]map[string]string{
			"pkg": {"1.0.0": {}, "2.0.0": {}},
		})
	var resolution *solver.ResolutionError
	require.ErrorAs(t, err, &resolution)
}

func TestMissingPackage(t *testing.T) {
	_, err := Resolve(
		map[string]string{"nonexistent": ">=1.0.0"},
		map[string]map[string]map[string]string{})
	var resolution *solver.ResolutionError
	require.ErrorAs(t, err, &resolution)
}

func TestMissingTransitiveDependency(t *testing.T) {
	_, err := Resolve(
		map[string]string{"a": ">=1.0.0"},
		map[string]map[string]map[string]string{
			"a": {"1.0.0": {"missing": ">=1.0.0"}},
		})
	var resolution *solver.ResolutionError
	require.ErrorAs(t, err, &resolution)
}

func TestAddPackageAndResolve(t *testing.T) {
	r := New()
	require.NoError(t, r.AddPackage("app", "1.0.0", map[string]string{"lib": ">=1.0.0"}))
	require.NoError(t, r.AddPackage("lib", "1.0.0", nil))
	require.NoError(t, r.AddPackage("lib", "1.1.0", nil))

	result, err := r.Resolve(map[string]string{"app": ">=1.0.0"})
	require.NoError(t, err)
	assert.Equal(t, "1.0.0", result["app"])
	assert.Equal(t, "1.1.0", result["lib"])
}

func TestAddPackageWithoutDependencies(t *testing.T) {
	r := New()
	require.NoError(t, r.AddPackage("standalone", "1.0.0", nil))

	result, err := r.Resolve(map[string]string{"standalone": ">=1.0.0"})
	require.NoError(t, err)
	assert.Equal(t, "1.0.0", result["standalone"])
}

func TestInvalidVersionFormat(t *testing.T) {
	r := New()
	err := r.AddPackage("pkg", "not-a-version", nil)
	var parseErr *version.ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Contains(t, err.Error(), "invalid version")
}

func TestInvalidConstraintFormat(t *testing.T) {
	r := New()
	require.NoError(t, r.AddPackage("pkg", "1.0.0", nil))

	_, err := r.Resolve(map[string]string{"pkg": ">>invalid<<"})
	var parseErr *version.ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Contains(t, err.Error(), "invalid constraint")
}

func TestDuplicateRegistrationRejected(t *testing.T) {
	r := New()
	require.NoError(t, r.AddPackage("pkg", "1.0.0", nil))

	err := r.AddPackage("pkg", "1.0.0", nil)
	var dup *registry.DuplicateError
	require.ErrorAs(t, err, &dup)
}

func TestResolutionNeverReturnsRoot(t *testing.T) {
	result, err := Resolve(
		map[string]string{"a": ">=1.0.0"},
		map[string]map[string]map[string]string{
			"a": {"1.0.0": {}},
		})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"a": "1.0.0"}, result)
}

func TestConstraintMatching(t *testing.T) {
	tests := []struct {
		constraint    string
		shouldMatch   []string
		shouldExclude []string
	}{
		{">=1.0.0", []string{"1.0.0", "1.5.0", "2.0.0"}, []string{"0.9.0"}},
		{"<=2.0.0", []string{"1.0.0", "2.0.0"}, []string{"2.0.1", "3.0.0"}},
		{">1.0.0", []string{"1.0.1", "2.0.0"}, []string{"1.0.0", "0.9.0"}},
		{"<2.0.0", []string{"1.0.0", "1.9.9"}, []string{"2.0.0", "3.0.0"}},
		{"==1.5.0", []string{"1.5.0"}, []string{"1.4.0", "1.6.0"}},
		{">=1.0.0,<2.0.0", []string{"1.0.0", "1.9.0"}, []string{"0.9.0", "2.0.0"}},
	}

	for _, tt := range tests {
		versions := make(map[string]map[string]string)
		for _, v := range append(append([]string{}, tt.shouldMatch...), tt.shouldExclude...) {
			versions[v] = nil
		}

		result, err := Resolve(
			map[string]string{"pkg": tt.constraint},
			map[string]map[string]map[string]string{"pkg": versions})
		require.NoError(t, err, "constraint %q", tt.constraint)
		assert.Contains(t, tt.shouldMatch, result["pkg"], "constraint %q", tt.constraint)
	}
}
