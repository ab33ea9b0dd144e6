package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/gofrs/flock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/harrison/fixcheck/internal/models"
)

func sampleResult() *models.Result {
	return &models.Result{
		RunID:    "run-1",
		Target:   "ai/datain.js",
		Manifest: "category-button-fix",
		Passed:   false,
		Outcomes: []models.Outcome{
			{Label: "toggle call", Pattern: `toggleDataContainer\(\);`, Expect: models.ExpectPresent, Matched: true, Passed: true, Message: "found"},
			{Label: "old impl", Pattern: "old", Expect: models.ExpectAbsent, Matched: true, Passed: false, Message: "still there"},
		},
		CheckedAt: time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC),
	}
}

func TestFormatFor(t *testing.T) {
	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{"out/report.json", FormatJSON, false},
		{"report.YAML", FormatYAML, false},
		{"report.yml", FormatYAML, false},
		{"report.txt", "", true},
		{"report", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := FormatFor(tt.path)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWrite_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "report.json")

	require.NoError(t, Write(path, sampleResult()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "run-1", decoded["run_id"])
	assert.Equal(t, false, decoded["passed"])
	outcomes, ok := decoded["outcomes"].([]interface{})
	require.True(t, ok)
	assert.Len(t, outcomes, 2)
	first := outcomes[0].(map[string]interface{})
	assert.Equal(t, "present", first["expect"])
}

func TestWrite_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.yaml")

	require.NoError(t, Write(path, sampleResult()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded models.Result
	require.NoError(t, yaml.Unmarshal(data, &decoded))
	assert.Equal(t, "category-button-fix", decoded.Manifest)
	assert.Equal(t, models.ExpectAbsent, decoded.Outcomes[1].Expect)
	assert.True(t, decoded.CheckedAt.Equal(sampleResult().CheckedAt))
}

func TestWrite_UnsupportedExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.csv")
	err := Write(path, sampleResult())
	require.Error(t, err)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestWrite_ReplacesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	require.NoError(t, os.WriteFile(path, []byte("stale"), 0644))

	require.NoError(t, Write(path, sampleResult()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "stale")

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0644), info.Mode().Perm())
}

func TestWrite_NoTempFilesLeft(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "report.json")
	require.NoError(t, Write(path, sampleResult()))

	matches, err := filepath.Glob(filepath.Join(dir, ".report-*"))
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestWrite_WaitsForLock(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")

	held := flock.New(path + ".lock")
	require.NoError(t, held.Lock())

	var wg sync.WaitGroup
	done := make(chan error, 1)
	wg.Add(1)
	go func() {
		defer wg.Done()
		done <- Write(path, sampleResult())
	}()

	select {
	case err := <-done:
		t.Fatalf("Write returned while lock was held: %v", err)
	case <-time.After(100 * time.Millisecond):
	}

	require.NoError(t, held.Unlock())
	wg.Wait()
	require.NoError(t, <-done)

	_, err := os.Stat(path)
	assert.NoError(t, err)
}
