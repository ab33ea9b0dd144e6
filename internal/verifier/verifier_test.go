package verifier

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrison/fixcheck/internal/manifest"
	"github.com/harrison/fixcheck/internal/models"
)

const oldSnippet = "// Load categories.html directly into the datain container\n        loadStoredContent('/ai/categories.html');\n"

func newBuiltinVerifier(t *testing.T) *Verifier {
	t.Helper()
	m, err := manifest.Builtin()
	require.NoError(t, err)
	v, err := New(m)
	require.NoError(t, err)
	return v
}

func readFixture(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return string(data)
}

func writeTarget(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "datain.js")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestVerify_AllChecksPass(t *testing.T) {
	v := newBuiltinVerifier(t)
	fixed := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	v.now = func() time.Time { return fixed }

	path := filepath.Join("testdata", "datain-fixed.js")
	result, err := v.Verify(path)
	require.NoError(t, err)

	assert.True(t, result.Passed)
	assert.Len(t, result.Outcomes, 7)
	assert.Equal(t, 7, result.PassedCount())
	assert.Equal(t, path, result.Target)
	assert.Equal(t, manifest.BuiltinName, result.Manifest)
	assert.Equal(t, fixed, result.CheckedAt)
	assert.Equal(t, "Pattern 1: Found container state check and expansion logic", result.Outcomes[0].Message)
	assert.Equal(t, "Old simple implementation removed", result.Outcomes[5].Message)
	assert.Equal(t, "toggleDataContainer function exists", result.Outcomes[6].Message)
}

func TestVerify_OldSnippetAlongsideFix(t *testing.T) {
	v := newBuiltinVerifier(t)
	content := readFixture(t, "datain-fixed.js") + "\n" + oldSnippet

	result, err := v.Verify(writeTarget(t, content))
	require.NoError(t, err)

	assert.False(t, result.Passed)
	assert.Equal(t, 6, result.PassedCount())

	failed := result.Failed()
	require.Len(t, failed, 1)
	assert.Equal(t, "old simple implementation", failed[0].Label)
	assert.True(t, failed[0].Matched)
	assert.Equal(t, "Old simple implementation still found - fix may not be complete", failed[0].Message)
}

func TestVerify_OldImplementationOnly(t *testing.T) {
	v := newBuiltinVerifier(t)

	result, err := v.Verify(filepath.Join("testdata", "datain-old.js"))
	require.NoError(t, err)

	assert.False(t, result.Passed)
	var labels []string
	for _, o := range result.Failed() {
		labels = append(labels, o.Label)
	}
	// toggleDataContainer() is only defined, never called, in the old file
	assert.Equal(t, []string{
		"container state check comment",
		"collapsed state conditional",
		"container toggle call",
		"deferred categories load",
		"already expanded comment",
		"old simple implementation",
	}, labels)
}

func TestVerify_FileNotFound(t *testing.T) {
	v := newBuiltinVerifier(t)
	path := filepath.Join(t.TempDir(), "missing.js")

	result, err := v.Verify(path)
	assert.Nil(t, result)

	fe, ok := IsFileError(err)
	require.True(t, ok, "expected FileError, got %v", err)
	assert.Equal(t, KindNotFound, fe.Kind)
	assert.Equal(t, path, fe.Path)
	assert.Contains(t, err.Error(), "file not found")
}

func TestVerify_EachRequiredPatternIndependent(t *testing.T) {
	full := readFixture(t, "datain-fixed.js")

	removals := map[string]string{
		"container state check comment": "// Check if container is collapsed and expand it before loading content",
		"collapsed state conditional":   "if (dataContainer.dataset.state !== 'expanded')",
		"deferred categories load":      "setTimeout(() => {",
		"already expanded comment":      "// Container is already expanded, load content immediately",
	}

	for label, snippet := range removals {
		t.Run(label, func(t *testing.T) {
			require.Contains(t, full, snippet)
			content := strings.Replace(full, snippet, "", 1)

			v := newBuiltinVerifier(t)
			result, err := v.Verify(writeTarget(t, content))
			require.NoError(t, err)

			assert.False(t, result.Passed)
			assert.Equal(t, 6, result.PassedCount())
			failed := result.Failed()
			require.Len(t, failed, 1)
			assert.Equal(t, label, failed[0].Label)
			assert.Contains(t, failed[0].Message, "Missing expected fix pattern")
		})
	}
}

func TestVerify_MissingHelperDefinition(t *testing.T) {
	content := strings.Replace(readFixture(t, "datain-fixed.js"),
		"function toggleDataContainer()", "const toggleDataContainer = () =>", 1)

	v := newBuiltinVerifier(t)
	result, err := v.Verify(writeTarget(t, content))
	require.NoError(t, err)

	assert.False(t, result.Passed)
	failed := result.Failed()
	require.Len(t, failed, 1)
	assert.Equal(t, "toggleDataContainer function not found", failed[0].Message)
}

func TestEvaluate_AggregateRule(t *testing.T) {
	checks := []models.Check{
		{Label: "req", Pattern: "alpha"},
		{Label: "forbid", Pattern: "omega", Expect: models.ExpectAbsent},
	}
	for i := range checks {
		require.NoError(t, checks[i].Compile())
	}

	tests := []struct {
		content string
		want    bool
	}{
		{"alpha", true},
		{"alpha omega", false},
		{"omega", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.content, func(t *testing.T) {
			result := Evaluate(tt.content, checks)
			assert.Equal(t, tt.want, result.Passed)
			assert.Len(t, result.Outcomes, 2)
		})
	}
}

func TestEvaluate_EmptyChecksPass(t *testing.T) {
	result := Evaluate("anything", nil)
	assert.True(t, result.Passed)
	assert.Empty(t, result.Outcomes)
}

func TestEvaluate_DefaultMessages(t *testing.T) {
	checks := []models.Check{
		{Label: "found", Pattern: "a"},
		{Label: "missing", Pattern: "z+"},
		{Label: "clean", Pattern: "q", Expect: models.ExpectAbsent},
		{Label: "dirty", Pattern: "a", Expect: models.ExpectAbsent},
		{Label: "custom", Pattern: "y", FailMessage: "{label} lacks {pattern}"},
	}
	for i := range checks {
		require.NoError(t, checks[i].Compile())
	}

	result := Evaluate("abc", checks)
	var messages []string
	for _, o := range result.Outcomes {
		messages = append(messages, o.Message)
	}

	assert.Equal(t, []string{
		"found: found",
		"missing: missing expected pattern: z+",
		"clean: not present",
		"dirty: forbidden pattern still present",
		"custom lacks y",
	}, messages)
}

func TestNew_RejectsInvalidManifest(t *testing.T) {
	_, err := New(nil)
	require.Error(t, err)

	_, err = New(&models.Manifest{Name: "bad", Checks: []models.Check{{Label: "x", Pattern: "("}}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid manifest "bad"`)
}
