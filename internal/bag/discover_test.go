package bag

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscoverFindsRecordings(t *testing.T) {
	fsys := fstest.MapFS{
		"drive1/run1/run1_0.db3":    &fstest.MapFile{},
		"drive1/run1/metadata.yaml": &fstest.MapFile{},
		"drive1/run2/run2_0.db3":    &fstest.MapFile{},
		"drive2/run3/run3_0.db3":    &fstest.MapFile{},
		"drive2/run3/run3_1.db3":    &fstest.MapFile{},
		"notes.txt":                 &fstest.MapFile{},
	}

	found, ignored, err := Discover(fsys)
	require.NoError(t, err)
	assert.Empty(t, ignored)
	assert.Equal(t, []string{
		"drive1/run1/run1_0.db3",
		"drive1/run2/run2_0.db3",
		"drive2/run3/run3_0.db3",
		"drive2/run3/run3_1.db3",
	}, found)
}

func TestDiscoverHonorsIgnoreMarker(t *testing.T) {
	fsys := fstest.MapFS{
		"drive1/run1/run1_0.db3": &fstest.MapFile{},
		"drive2/DATAIGNORE":      &fstest.MapFile{},
		"drive2/run2/run2_0.db3": &fstest.MapFile{},
		"drive2/run3/run3_0.db3": &fstest.MapFile{},
	}

	found, ignored, err := Discover(fsys)
	require.NoError(t, err)
	assert.Equal(t, []string{"drive1/run1/run1_0.db3"}, found)
	assert.Equal(t, []string{
		"drive2/run2/run2_0.db3",
		"drive2/run3/run3_0.db3",
	}, ignored)
}

func TestDiscoverMarkerAtRoot(t *testing.T) {
	// A recording directly under a marked root has the root itself as its
	// grouping directory.
	fsys := fstest.MapFS{
		"run_0.db3":  &fstest.MapFile{},
		"DATAIGNORE": &fstest.MapFile{},
	}

	found, ignored, err := Discover(fsys)
	require.NoError(t, err)
	assert.Empty(t, found)
	assert.Equal(t, []string{"run_0.db3"}, ignored)
}

func TestDiscoverEmpty(t *testing.T) {
	found, ignored, err := Discover(fstest.MapFS{})
	require.NoError(t, err)
	assert.Empty(t, found)
	assert.Empty(t, ignored)
}
