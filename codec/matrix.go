package codec

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"gonum.org/v1/gonum/mat"
)

// Compression selects the payload compression algorithm.
type Compression uint8

const (
	// CompressionNone stores the raw float64 payload.
	CompressionNone Compression = 0
	// CompressionLZ4 uses LZ4 block compression (fast, hot snapshots).
	CompressionLZ4 Compression = 1
	// CompressionZSTD uses ZSTD block compression (better ratio, archives).
	CompressionZSTD Compression = 2
)

const (
	snapshotVersion = 1
	headerSize      = 4 + 1 + 1 + 4 + 4
)

var magic = [4]byte{'M', 'G', 'S', 'N'}

// ErrInvalidSnapshot is returned for truncated, corrupt or unrecognized
// snapshot bytes.
var ErrInvalidSnapshot = errors.New("invalid matrix snapshot")

// Shared ZSTD coders; EncodeAll/DecodeAll are safe for concurrent use.
var (
	zstdEncoder, _ = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	zstdDecoder, _ = zstd.NewReader(nil)
)

// EncodeMatrix serializes m into a self-describing snapshot.
//
// If LZ4 finds the payload incompressible, the snapshot silently falls back
// to CompressionNone; DecodeMatrix does not care which mode was written.
func EncodeMatrix(m *mat.Dense, c Compression) ([]byte, error) {
	if m == nil {
		return nil, fmt.Errorf("codec: nil matrix: %w", ErrInvalidSnapshot)
	}
	rows, cols := m.Dims()

	raw := make([]byte, 8*rows*cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			off := 8 * (i*cols + j)
			binary.LittleEndian.PutUint64(raw[off:], math.Float64bits(m.At(i, j)))
		}
	}

	var payload []byte
	switch c {
	case CompressionNone:
		payload = raw
	case CompressionLZ4:
		buf := make([]byte, lz4.CompressBlockBound(len(raw)))
		n, err := lz4.CompressBlock(raw, buf, nil)
		if err != nil {
			return nil, fmt.Errorf("codec: lz4 compress: %w", err)
		}
		if n == 0 {
			// Incompressible; store raw.
			c = CompressionNone
			payload = raw
		} else {
			payload = buf[:n]
		}
	case CompressionZSTD:
		payload = zstdEncoder.EncodeAll(raw, nil)
	default:
		return nil, fmt.Errorf("codec: unknown compression %d: %w", c, ErrInvalidSnapshot)
	}

	out := make([]byte, headerSize+len(payload))
	copy(out[0:4], magic[:])
	out[4] = snapshotVersion
	out[5] = byte(c)
	binary.LittleEndian.PutUint32(out[6:], uint32(rows))
	binary.LittleEndian.PutUint32(out[10:], uint32(cols))
	copy(out[headerSize:], payload)
	return out, nil
}

// DecodeMatrix reconstructs a matrix from snapshot bytes.
func DecodeMatrix(data []byte) (*mat.Dense, error) {
	if len(data) < headerSize {
		return nil, fmt.Errorf("codec: %d bytes, need %d for header: %w", len(data), headerSize, ErrInvalidSnapshot)
	}
	if [4]byte(data[0:4]) != magic {
		return nil, fmt.Errorf("codec: bad magic: %w", ErrInvalidSnapshot)
	}
	if data[4] != snapshotVersion {
		return nil, fmt.Errorf("codec: version %d unsupported: %w", data[4], ErrInvalidSnapshot)
	}

	rows := int(binary.LittleEndian.Uint32(data[6:]))
	cols := int(binary.LittleEndian.Uint32(data[10:]))
	if rows < 1 || cols < 1 {
		return nil, fmt.Errorf("codec: %dx%d dims: %w", rows, cols, ErrInvalidSnapshot)
	}
	rawSize := 8 * rows * cols
	payload := data[headerSize:]

	var raw []byte
	switch Compression(data[5]) {
	case CompressionNone:
		if len(payload) != rawSize {
			return nil, fmt.Errorf("codec: payload %d bytes, want %d: %w", len(payload), rawSize, ErrInvalidSnapshot)
		}
		raw = payload
	case CompressionLZ4:
		raw = make([]byte, rawSize)
		n, err := lz4.UncompressBlock(payload, raw)
		if err != nil {
			return nil, fmt.Errorf("codec: lz4 decompress: %w", err)
		}
		if n != rawSize {
			return nil, fmt.Errorf("codec: decompressed %d bytes, want %d: %w", n, rawSize, ErrInvalidSnapshot)
		}
	case CompressionZSTD:
		decoded, err := zstdDecoder.DecodeAll(payload, make([]byte, 0, rawSize))
		if err != nil {
			return nil, fmt.Errorf("codec: zstd decompress: %w", err)
		}
		if len(decoded) != rawSize {
			return nil, fmt.Errorf("codec: decompressed %d bytes, want %d: %w", len(decoded), rawSize, ErrInvalidSnapshot)
		}
		raw = decoded
	default:
		return nil, fmt.Errorf("codec: unknown compression %d: %w", data[5], ErrInvalidSnapshot)
	}

	values := make([]float64, rows*cols)
	for i := range values {
		values[i] = math.Float64frombits(binary.LittleEndian.Uint64(raw[8*i:]))
	}
	return mat.NewDense(rows, cols, values), nil
}
