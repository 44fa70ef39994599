package cli

import (
	"bytes"
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runCLI executes a fresh root command with args and returns its combined
// text output.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	rootCmd := newRootCmd()
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

// writeTestBag creates a minimal recording under root/group/run with one
// pose topic.
func writeTestBag(t *testing.T, root, group, run string, ts []int64) {
	t.Helper()
	dir := filepath.Join(root, group, run)
	require.NoError(t, os.MkdirAll(dir, 0o755))

	db, err := sql.Open("sqlite3", filepath.Join(dir, run+"_0.db3"))
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(`
		CREATE TABLE topics(
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			type TEXT NOT NULL,
			serialization_format TEXT NOT NULL,
			offered_qos_profiles TEXT NOT NULL DEFAULT ''
		);
		CREATE TABLE messages(
			id INTEGER PRIMARY KEY,
			topic_id INTEGER NOT NULL,
			timestamp INTEGER NOT NULL,
			data BLOB NOT NULL
		);
		INSERT INTO topics(id, name, type, serialization_format)
			VALUES (1, '/pose', 'geometry_msgs/msg/PoseStamped', 'json');`)
	require.NoError(t, err)

	for _, t0 := range ts {
		_, err = db.Exec(
			`INSERT INTO messages(topic_id, timestamp, data) VALUES (1, ?, ?)`,
			t0, []byte(`{"x": 1.5}`))
		require.NoError(t, err)
	}
}

func TestVersionCmd(t *testing.T) {
	out, err := runCLI(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "bag2csv version dev")
}

func TestRootRejectsBadOutputFormat(t *testing.T) {
	_, err := runCLI(t, "--output", "yaml", "version")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported output format")
}

func TestFindCmd(t *testing.T) {
	root := t.TempDir()
	writeTestBag(t, root, "groupA", "run1", []int64{100})
	require.NoError(t, os.MkdirAll(filepath.Join(root, "groupB", "run2"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "groupB", "DATAIGNORE"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "groupB", "run2", "run2_0.db3"), nil, 0o644))

	out, err := runCLI(t, "find", "--root", root)
	require.NoError(t, err)
	assert.Contains(t, out, "groupA/run1/run1_0.db3")
	assert.NotContains(t, out, "run2_0.db3")

	out, err = runCLI(t, "find", "--root", root, "--all")
	require.NoError(t, err)
	assert.Contains(t, out, "groupB/run2/run2_0.db3 (ignored)")
}

func TestTopicsCmd(t *testing.T) {
	root := t.TempDir()
	writeTestBag(t, root, "groupA", "run1", []int64{100})

	out, err := runCLI(t, "topics", filepath.Join(root, "groupA", "run1", "run1_0.db3"))
	require.NoError(t, err)
	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "/pose")
	assert.Contains(t, out, "geometry_msgs/msg/PoseStamped")

	_, err = runCLI(t, "topics", filepath.Join(root, "nope.db3"))
	assert.Error(t, err)
}

func TestExportAndMergeCmds(t *testing.T) {
	root := t.TempDir()
	writeTestBag(t, root, "groupA", "run1", []int64{100, 300})
	writeTestBag(t, root, "groupA", "run2", []int64{200})

	cfgPath := filepath.Join(t.TempDir(), "job.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`
conversions:
  - topic: /pose
    output: _pose.csv
    prefix: pose
merge:
  match: run
`), 0o644))

	out, err := runCLI(t, "export", "--config", cfgPath, "--root", root)
	require.NoError(t, err)
	assert.Contains(t, out, "converted: 2")

	_, err = os.Stat(filepath.Join(root, "groupA", "run1_0_pose.csv"))
	require.NoError(t, err)

	out, err = runCLI(t, "merge", "--config", cfgPath, "--root", root)
	require.NoError(t, err)
	assert.Contains(t, out, "merged:    1")

	data, err := os.ReadFile(filepath.Join(root, "groupA", "data.csv"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "timestamp,posex", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "100,"))
	assert.True(t, strings.HasPrefix(lines[2], "200,"))
	assert.True(t, strings.HasPrefix(lines[3], "300,"))
}

func TestPrintTable(t *testing.T) {
	var buf bytes.Buffer
	printTable(&buf, []string{"name", "type"}, [][]string{
		{"/pose", "geometry_msgs/msg/PoseStamped"},
		{"/battery", "sensor_msgs/msg/BatteryState"},
	})
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "NAME      TYPE", lines[0])
	assert.Equal(t, "/pose     geometry_msgs/msg/PoseStamped", lines[1])
	assert.Equal(t, "/battery  sensor_msgs/msg/BatteryState", lines[2])

	buf.Reset()
	printTable(&buf, nil, [][]string{{"a"}})
	assert.Empty(t, buf.String())
}

func TestExportCmdRequiresConversions(t *testing.T) {
	_, err := runCLI(t, "export", "--root", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no conversions configured")
}

func TestExportCmdReportsFailures(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "groupA", "run1"), 0o755))
	require.NoError(t, os.WriteFile(
		filepath.Join(root, "groupA", "run1", "run1_0.db3"),
		[]byte("not sqlite"), 0o644))

	cfgPath := filepath.Join(t.TempDir(), "job.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`
conversions:
  - topic: /pose
    output: _pose.csv
    prefix: pose
`), 0o644))

	// Unreadable recordings are skips, not failures: the command succeeds.
	out, err := runCLI(t, "export", "--config", cfgPath, "--root", root)
	require.NoError(t, err)
	assert.Contains(t, out, "skipped:   1")
}
