package table

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// CompressedExt marks table files that are zstd-compressed CSV.
const CompressedExt = ".zst"

// WriteFile writes t as CSV to path, compressing the stream with zstd when
// the name ends in .zst.
func WriteFile(path string, t *Table) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	var w io.Writer = f
	var enc *zstd.Encoder
	if strings.HasSuffix(path, CompressedExt) {
		enc, err = zstd.NewWriter(f)
		if err != nil {
			f.Close()
			return fmt.Errorf("compress %s: %w", path, err)
		}
		w = enc
	}

	if err := WriteCSV(w, t); err != nil {
		if enc != nil {
			enc.Close()
		}
		f.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	if enc != nil {
		if err := enc.Close(); err != nil {
			f.Close()
			return fmt.Errorf("flush %s: %w", path, err)
		}
	}
	return f.Close()
}

// ReadFile reads a CSV table from path, transparently decompressing .zst
// files.
func ReadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, CompressedExt) {
		dec, err := zstd.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("decompress %s: %w", path, err)
		}
		defer dec.Close()
		r = dec
	}

	t, err := ReadCSV(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}
