package table

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTable(t *testing.T) *Table {
	t.Helper()
	b := NewBuilder(nil, "m")
	require.NoError(t, b.Append(100, comp(
		fld("count", sc(int64(7))),
		fld("ratio", sc(0.5)),
		fld("name", sc("front, left")),
		fld("ok", sc(true)),
		fld("gap", sc(nil)),
	)))
	require.NoError(t, b.Append(200, comp(
		fld("count", sc(int64(8))),
		fld("extra", sc(int64(1))),
	)))
	return b.Table()
}

func TestWriteCSVLayout(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleTable(t)))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "timestamp,mcount,mratio,mname,mok,mgap,mextra", lines[0])
	assert.Equal(t, `100,7,0.5,"front, left",true,,`, lines[1])
	assert.Equal(t, "200,8,,,,,1", lines[2])
}

func TestCSVRoundTrip(t *testing.T) {
	src := sampleTable(t)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, src))
	got, err := ReadCSV(&buf)
	require.NoError(t, err)

	assert.Equal(t, src.Columns(), got.Columns())
	require.Equal(t, src.Len(), got.Len())

	v, ok := got.Cell(0, "mcount")
	require.True(t, ok)
	assert.Equal(t, int64(7), v)

	v, ok = got.Cell(0, "mratio")
	require.True(t, ok)
	assert.Equal(t, 0.5, v)

	v, ok = got.Cell(0, "mname")
	require.True(t, ok)
	assert.Equal(t, "front, left", v)

	v, ok = got.Cell(0, "mok")
	require.True(t, ok)
	assert.Equal(t, true, v)

	// Nulls stay nulls, whether written as nil or never set.
	_, ok = got.Cell(0, "mgap")
	assert.False(t, ok)
	_, ok = got.Cell(1, "mratio")
	assert.False(t, ok)

	assert.Equal(t, int64(100), got.Timestamp(0))
	assert.Equal(t, int64(200), got.Timestamp(1))
}

func TestCSVByteCellsReadBackAsBase64(t *testing.T) {
	b := NewBuilder(nil, "m")
	require.NoError(t, b.Append(1, comp(fld("blob", sc([]byte{0x01, 0x02})))))

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, b.Table()))
	got, err := ReadCSV(&buf)
	require.NoError(t, err)

	v, ok := got.Cell(0, "mblob")
	require.True(t, ok)
	assert.Equal(t, "AQI=", v)
}

func TestReadCSVRejectsMissingIndex(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("time,x\n1,2\n"))
	assert.ErrorIs(t, err, ErrMissingIndex)

	_, err = ReadCSV(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrMissingIndex)
}

func TestReadCSVRejectsBadHeader(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("timestamp,x,x\n1,2,3\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate column")

	_, err = ReadCSV(strings.NewReader("timestamp,x,timestamp\n1,2,3\n"))
	assert.ErrorIs(t, err, ErrReservedColumn)
}

func TestReadCSVRejectsBadTimestamp(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("timestamp,x\nabc,2\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse timestamp")
}

func TestWriteFileCompressed(t *testing.T) {
	dir := t.TempDir()
	src := sampleTable(t)

	plain := filepath.Join(dir, "out.csv")
	require.NoError(t, WriteFile(plain, src))
	packed := filepath.Join(dir, "out.csv.zst")
	require.NoError(t, WriteFile(packed, src))

	// The compressed file is a real zstd stream of the same CSV bytes.
	raw, err := os.ReadFile(packed)
	require.NoError(t, err)
	dec, err := zstd.NewReader(nil)
	require.NoError(t, err)
	defer dec.Close()
	unpacked, err := dec.DecodeAll(raw, nil)
	require.NoError(t, err)
	plainBytes, err := os.ReadFile(plain)
	require.NoError(t, err)
	assert.Equal(t, plainBytes, unpacked)

	for _, path := range []string{plain, packed} {
		got, err := ReadFile(path)
		require.NoError(t, err, path)
		assert.Equal(t, src.Len(), got.Len(), path)
		assert.Equal(t, src.Columns(), got.Columns(), path)
	}
}

func TestReadFileMissing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "nope.csv"))
	assert.Error(t, err)
}
