package bag

import (
	"bytes"
	"fmt"

	"github.com/klauspost/compress/zstd"

	"bag2csv/internal/record"
)

// Decoder turns one raw message payload into a record.
type Decoder interface {
	Decode(data []byte) (record.Record, error)
}

// zstd frame magic, little endian.
var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

// JSONDecoder decodes JSON payloads. Payloads that start with a zstd frame
// are decompressed first, so recordings with per-message compression read
// the same as plain ones.
type JSONDecoder struct {
	zstd *zstd.Decoder
}

// NewJSONDecoder returns a ready decoder. It is safe for concurrent use.
func NewJSONDecoder() (*JSONDecoder, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	return &JSONDecoder{zstd: dec}, nil
}

func (d *JSONDecoder) Decode(data []byte) (record.Record, error) {
	if bytes.HasPrefix(data, zstdMagic) {
		plain, err := d.zstd.DecodeAll(data, nil)
		if err != nil {
			return nil, fmt.Errorf("decompress payload: %w", err)
		}
		data = plain
	}
	return record.FromJSON(data)
}
