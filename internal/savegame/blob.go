package savegame

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/appengine-ltd/skyweather/internal/weather"
	"github.com/pierrec/lz4/v4"
	"lukechampine.com/blake3"
)

var ErrChecksum = errors.New("weather record checksum mismatch")

var bufferPool = sync.Pool{
	New: func() any { return new(bytes.Buffer) },
}

// Blob is a compressed record with the checksum of its compressed bytes.
type Blob struct {
	Format   int
	Data     []byte
	Checksum string
}

// Pack encodes, compresses and checksums a weather state.
func Pack(s weather.State) (Blob, error) {
	data, err := compressLZ4(Encode(s))
	if err != nil {
		return Blob{}, err
	}
	return Blob{Format: FormatVersion, Data: data, Checksum: hashBLAKE3(data)}, nil
}

// Unpack verifies and decodes a blob.
func Unpack(b Blob) (weather.State, error) {
	if b.Format < MinCompatibleFormat {
		return weather.State{}, fmt.Errorf("%w: format %d", ErrStaleFormat, b.Format)
	}
	if got := hashBLAKE3(b.Data); got != b.Checksum {
		return weather.State{}, fmt.Errorf("%w: got %s, want %s", ErrChecksum, got, b.Checksum)
	}
	raw, err := decompressLZ4(b.Data)
	if err != nil {
		return weather.State{}, err
	}
	return Decode(raw)
}

func compressLZ4(src []byte) ([]byte, error) {
	buf := bufferPool.Get().(*bytes.Buffer)
	buf.Reset()
	defer bufferPool.Put(buf)

	zw := lz4.NewWriter(buf)
	if _, err := zw.Write(src); err != nil {
		return nil, fmt.Errorf("compress weather record: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("compress weather record: %w", err)
	}
	out := make([]byte, buf.Len())
	copy(out, buf.Bytes())
	return out, nil
}

func decompressLZ4(src []byte) ([]byte, error) {
	buf := bufferPool.Get().(*bytes.Buffer)
	buf.Reset()
	defer bufferPool.Put(buf)

	zr := lz4.NewReader(bytes.NewReader(src))
	if _, err := io.Copy(buf, zr); err != nil {
		return nil, fmt.Errorf("%w: decompress: %v", ErrCorrupt, err)
	}
	out := make([]byte, buf.Len())
	copy(out, buf.Bytes())
	return out, nil
}

func hashBLAKE3(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}
