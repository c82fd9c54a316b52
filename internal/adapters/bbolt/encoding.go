// Binary encoding for stored line records.
//
// Line sets are the bulk of a record and are ascending, so they are written as
// uvarint deltas after a small JSON header:
//
//	version:   uint8 (recordVersion)
//	headerLen: uvarint
//	header:    [headerLen]byte JSON of FileLines without Lines
//	lineCount: uvarint
//	lines:     [lineCount]× uvarint delta from the previous line
package bbolt

import (
	"encoding/binary"
	"encoding/json"
	"fmt"

	"github.com/corey/codelens/internal/ports"
)

const recordVersion = 1

// recordHeader is FileLines minus the line list.
type recordHeader struct {
	Path     string `json:"path"`
	Language string `json:"language"`
	Hash     string `json:"hash"`
	Updated  int64  `json:"updated"`
}

// encodeRecord serializes rec. Lines must be ascending.
func encodeRecord(rec *ports.FileLines) ([]byte, error) {
	header, err := json.Marshal(recordHeader{
		Path:     rec.Path,
		Language: rec.Language,
		Hash:     rec.Hash,
		Updated:  rec.Updated,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal header: %w", err)
	}

	buf := make([]byte, 0, 1+binary.MaxVarintLen64*2+len(header)+len(rec.Lines)*2)
	buf = append(buf, recordVersion)
	buf = binary.AppendUvarint(buf, uint64(len(header)))
	buf = append(buf, header...)
	buf = binary.AppendUvarint(buf, uint64(len(rec.Lines)))

	var prev uint
	for i, line := range rec.Lines {
		if i > 0 && line <= prev {
			return nil, fmt.Errorf("lines not strictly ascending at index %d (%d after %d)", i, line, prev)
		}
		buf = binary.AppendUvarint(buf, uint64(line-prev))
		prev = line
	}
	return buf, nil
}

// decodeRecord is the inverse of encodeRecord.
func decodeRecord(data []byte) (*ports.FileLines, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty record")
	}
	if data[0] != recordVersion {
		return nil, fmt.Errorf("unsupported record version %d", data[0])
	}
	pos := 1

	headerLen, n := binary.Uvarint(data[pos:])
	if n <= 0 || uint64(len(data)-pos-n) < headerLen {
		return nil, fmt.Errorf("truncated header")
	}
	pos += n

	var h recordHeader
	if err := json.Unmarshal(data[pos:pos+int(headerLen)], &h); err != nil {
		return nil, fmt.Errorf("unmarshal header: %w", err)
	}
	pos += int(headerLen)

	count, n := binary.Uvarint(data[pos:])
	if n <= 0 {
		return nil, fmt.Errorf("truncated line count")
	}
	pos += n
	// Every delta takes at least one byte.
	if count > uint64(len(data)-pos) {
		return nil, fmt.Errorf("truncated lines: %d declared, %d bytes left", count, len(data)-pos)
	}

	lines := make([]uint, 0, count)
	var prev uint
	for i := uint64(0); i < count; i++ {
		delta, n := binary.Uvarint(data[pos:])
		if n <= 0 {
			return nil, fmt.Errorf("truncated line %d of %d", i, count)
		}
		pos += n
		prev += uint(delta)
		lines = append(lines, prev)
	}

	return &ports.FileLines{
		Path:     h.Path,
		Language: h.Language,
		Lines:    lines,
		Hash:     h.Hash,
		Updated:  h.Updated,
	}, nil
}
