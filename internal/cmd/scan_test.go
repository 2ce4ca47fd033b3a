package cmd

import (
	"bytes"
	"database/sql"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrison/filetier/internal/models"
)

const fixedNow = "2024-06-01T12:00:00Z"

func mustNow(t *testing.T) time.Time {
	t.Helper()
	now, err := time.Parse(time.RFC3339, fixedNow)
	require.NoError(t, err)
	return now
}

// runCLI executes the root command with args and captures both streams.
func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("FILETIER_CONFIG", filepath.Join(t.TempDir(), "absent.yaml"))

	root := NewRootCommand()
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)

	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func writeAged(t *testing.T, path string, size int, mtime time.Time) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, make([]byte, size), 0644))
	require.NoError(t, os.Chtimes(path, mtime, mtime))
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

type jsonRow struct {
	Path         string  `json:"path"`
	SizeMB       float64 `json:"size_mb"`
	LastModified string  `json:"last_modified"`
	Status       string  `json:"status"`
}

func readJSON(t *testing.T, path string) ([]jsonRow, string) {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var rows []jsonRow
	require.NoError(t, json.Unmarshal(data, &rows))
	return rows, string(data)
}

func TestScan_TwoMegabyteFileTenDaysOld(t *testing.T) {
	now := mustNow(t)
	root := t.TempDir()
	outDir := t.TempDir()
	mtime := now.Add(-10 * 24 * time.Hour)
	file := filepath.Join(root, "big.bin")
	writeAged(t, file, 2*models.BytesPerMB, mtime)

	csvPath := filepath.Join(outDir, "files.csv")
	jsonPath := filepath.Join(outDir, "files.json")

	stdout, _, err := runCLI(t, root, "--csv", csvPath, "--json", jsonPath, "--now", fixedNow)
	require.NoError(t, err)

	stamp := mtime.Local().Format(models.TimestampLayout)

	assert.Contains(t, stdout, file+" | 2.00 MB | "+stamp+" | Active\n")
	assert.Contains(t, stdout, "Scanned 1 file (2.00 MB)")
	assert.Contains(t, stdout, "Exported 1 records to "+csvPath+"\n")
	assert.Contains(t, stdout, "Exported 1 records to "+jsonPath+"\n")

	rows := readCSV(t, csvPath)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"path", "size_mb", "last_modified", "status"}, rows[0])
	assert.Equal(t, []string{file, "2.0", stamp, "Active"}, rows[1])

	records, raw := readJSON(t, jsonPath)
	require.Len(t, records, 1)
	assert.Equal(t, jsonRow{Path: file, SizeMB: 2.0, LastModified: stamp, Status: "Active"}, records[0])
	assert.Contains(t, raw, `"size_mb": 2.0,`)
	assert.True(t, strings.HasPrefix(raw, "[\n    {\n        \"path\": "), raw)
}

func TestScan_EmptyDirectory(t *testing.T) {
	root := t.TempDir()
	outDir := t.TempDir()
	csvPath := filepath.Join(outDir, "files.csv")
	jsonPath := filepath.Join(outDir, "files.json")

	stdout, stderr, err := runCLI(t, root, "--csv", csvPath, "--json", jsonPath)
	require.NoError(t, err)

	assert.Contains(t, stdout, "Exported 0 records to "+csvPath)
	assert.NotContains(t, stderr, "does not exist")

	data, err := os.ReadFile(csvPath)
	require.NoError(t, err)
	assert.Equal(t, "path,size_mb,last_modified,status\n", string(data))

	data, err = os.ReadFile(jsonPath)
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(data))
}

func TestScan_MissingRootIsNotFatal(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope")
	outDir := t.TempDir()
	csvPath := filepath.Join(outDir, "files.csv")
	jsonPath := filepath.Join(outDir, "files.json")

	stdout, stderr, err := runCLI(t, missing, "--csv", csvPath, "--json", jsonPath)
	require.NoError(t, err)

	assert.Contains(t, stderr, "[WARN] Path "+missing+" does not exist.")
	assert.Contains(t, stdout, "Scanned 0 files (0.00 MB)")
	assert.Contains(t, stdout, "Exported 0 records to "+jsonPath)

	rows := readCSV(t, csvPath)
	assert.Len(t, rows, 1)
	records, _ := readJSON(t, jsonPath)
	assert.Empty(t, records)
}

func TestScan_ClassifiesEveryTier(t *testing.T) {
	now := mustNow(t)
	root := t.TempDir()
	outDir := t.TempDir()
	day := 24 * time.Hour

	writeAged(t, filepath.Join(root, "active.txt"), 10, now.Add(-30*day))
	writeAged(t, filepath.Join(root, "sub", "stale.txt"), 10, now.Add(-31*day))
	writeAged(t, filepath.Join(root, "sub", "deep", "dark.txt"), 10, now.Add(-181*day))

	jsonPath := filepath.Join(outDir, "files.json")
	_, _, err := runCLI(t, root, "--no-csv", "--json", jsonPath, "--now", fixedNow, "--quiet")
	require.NoError(t, err)

	records, _ := readJSON(t, jsonPath)
	got := map[string]string{}
	for _, r := range records {
		got[filepath.Base(r.Path)] = r.Status
	}
	assert.Equal(t, map[string]string{
		"active.txt": "Active",
		"stale.txt":  "Stale",
		"dark.txt":   "Dark",
	}, got)
}

func TestScan_CustomThresholds(t *testing.T) {
	now := mustNow(t)
	root := t.TempDir()
	outDir := t.TempDir()
	writeAged(t, filepath.Join(root, "f"), 1, now.Add(-10*24*time.Hour))

	jsonPath := filepath.Join(outDir, "files.json")
	_, _, err := runCLI(t, root, "--no-csv", "--json", jsonPath, "--now", fixedNow,
		"--active-days", "3", "--stale-days", "7")
	require.NoError(t, err)

	records, _ := readJSON(t, jsonPath)
	require.Len(t, records, 1)
	assert.Equal(t, "Dark", records[0].Status)
}

func TestScan_QuietSuppressesRecordLines(t *testing.T) {
	root := t.TempDir()
	outDir := t.TempDir()
	writeAged(t, filepath.Join(root, "f"), 1, time.Now())

	stdout, _, err := runCLI(t, root, "--quiet",
		"--csv", filepath.Join(outDir, "a.csv"), "--json", filepath.Join(outDir, "a.json"))
	require.NoError(t, err)

	assert.NotContains(t, stdout, " MB | ")
	assert.Contains(t, stdout, "Scanned 1 file")
}

func TestScan_DefaultOutputsInWorkingDirectory(t *testing.T) {
	root := t.TempDir()
	work := t.TempDir()
	writeAged(t, filepath.Join(root, "f"), 1, time.Now())
	chdir(t, work)

	stdout, _, err := runCLI(t, root)
	require.NoError(t, err)

	assert.Contains(t, stdout, "Exported 1 records to classified_files.csv")
	assert.Contains(t, stdout, "Exported 1 records to classified_files.json")
	assert.FileExists(t, filepath.Join(work, "classified_files.csv"))
	assert.FileExists(t, filepath.Join(work, "classified_files.json"))
	assert.NoFileExists(t, filepath.Join(work, "classified_files.csv.lock"))
}

func TestScan_ReportsAndDatabase(t *testing.T) {
	root := t.TempDir()
	outDir := t.TempDir()
	writeAged(t, filepath.Join(root, "report me.txt"), 1, mustNow(t))

	mdPath := filepath.Join(outDir, "report.md")
	htmlPath := filepath.Join(outDir, "report.html")
	dbPath := filepath.Join(outDir, "scan.db")

	stdout, _, err := runCLI(t, "scan", root, "--now", fixedNow, "--no-csv", "--no-json",
		"--markdown", mdPath, "--html", htmlPath, "--sqlite", dbPath)
	require.NoError(t, err)

	assert.NotContains(t, stdout, ".csv")
	assert.Contains(t, stdout, "Exported 1 records to "+mdPath)
	assert.Contains(t, stdout, "Exported 1 records to "+htmlPath)
	assert.Contains(t, stdout, "Exported 1 records to "+dbPath)

	md, err := os.ReadFile(mdPath)
	require.NoError(t, err)
	assert.Contains(t, string(md), "report me.txt")

	html, err := os.ReadFile(htmlPath)
	require.NoError(t, err)
	assert.Contains(t, string(html), "<table>")

	db, err := sql.Open("sqlite3", dbPath)
	require.NoError(t, err)
	defer db.Close()

	var count, activeDays int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM files").Scan(&count))
	require.NoError(t, db.QueryRow("SELECT active_days FROM scans").Scan(&activeDays))
	assert.Equal(t, 1, count)
	assert.Equal(t, 30, activeDays)
}

func TestScan_ConfigFile(t *testing.T) {
	now := mustNow(t)
	root := t.TempDir()
	outDir := t.TempDir()
	writeAged(t, filepath.Join(root, "f"), 1, now.Add(-10*24*time.Hour))

	jsonPath := filepath.Join(outDir, "cfg.json")
	cfgPath := filepath.Join(outDir, "config.yaml")
	cfgBody := "root: " + root + "\nactive_days: 5\nstale_days: 20\nquiet: true\noutputs:\n  csv: \"\"\n  json: " + jsonPath + "\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfgBody), 0644))

	stdout, _, err := runCLI(t, "--config", cfgPath, "--now", fixedNow)
	require.NoError(t, err)

	assert.NotContains(t, stdout, ".csv")
	records, _ := readJSON(t, jsonPath)
	require.Len(t, records, 1)
	assert.Equal(t, "Stale", records[0].Status)
}

func TestScan_LogDirWritesRunLog(t *testing.T) {
	root := filepath.Join(t.TempDir(), "missing")
	outDir := t.TempDir()
	logDir := filepath.Join(outDir, "logs")

	_, _, err := runCLI(t, root, "--log-dir", logDir, "--no-csv", "--no-json")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(logDir, "latest.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "=== filetier Run Log ===")
	assert.Contains(t, string(data), "Run ID: ")
	assert.Contains(t, string(data), "Path "+root+" does not exist.")
}

func TestScan_FlagErrors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{name: "bad now", args: []string{"--now", "yesterday"}, wantErr: "invalid --now value"},
		{name: "csv conflict", args: []string{"--csv", "a.csv", "--no-csv"}, wantErr: "--csv and --no-csv"},
		{name: "json conflict", args: []string{"--json", "a.json", "--no-json"}, wantErr: "--json and --no-json"},
		{name: "inverted thresholds", args: []string{"--active-days", "200"}, wantErr: "invalid configuration"},
		{name: "bad log level", args: []string{"--log-level", "chatty"}, wantErr: "invalid log_level"},
		{name: "too many args", args: []string{"a", "b"}, wantErr: "accepts at most 1 arg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, stderr, err := runCLI(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.NotContains(t, stderr, "Error:", "the error is printed once, by main")
		})
	}
}

func TestScan_UnwritableExportFails(t *testing.T) {
	root := t.TempDir()
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	_, stderr, err := runCLI(t, root, "--no-json", "--csv", filepath.Join(blocker, "out.csv"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "export to")
	assert.Contains(t, stderr, "csv export failed")
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (stand-in for testing.T.Chdir, added in Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { require.NoError(t, os.Chdir(prev)) })
}
