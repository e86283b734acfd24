package frequency

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/charmbracelet/log"
)

// ErrMalformed is returned when the usage data ends in the middle of a record.
var ErrMalformed = errors.New("malformed frequency data")

// maxNameLen is the longest name a record can hold; its length is a single byte.
const maxNameLen = math.MaxUint8

// Read decodes usage records until r is exhausted.
//
// Each record is a one byte name length, the name, a little-endian uint16
// count and a little-endian uint64 last-used time in unix seconds.
// A record cut short anywhere after its length byte fails with ErrMalformed.
func Read(r io.Reader) (*Store, error) {
	reader := bufio.NewReader(r)
	s := NewStore()

	for {
		nameLen, err := reader.ReadByte()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read name length: %w", err)
		}

		nameBytes := make([]byte, nameLen)
		if _, err := io.ReadFull(reader, nameBytes); err != nil {
			return nil, malformed("name", err)
		}

		var e Entry
		if err := binary.Read(reader, binary.LittleEndian, &e.Count); err != nil {
			return nil, malformed("count", err)
		}
		if err := binary.Read(reader, binary.LittleEndian, &e.LastUsed); err != nil {
			return nil, malformed("last used time", err)
		}

		// later records for the same name win
		s.entries[string(nameBytes)] = e
	}

	s.recomputeMax()
	return s, nil
}

// Write encodes every entry of s to w, in name order.
// Names too long for a record are skipped with a warning.
func Write(w io.Writer, s *Store) error {
	writer := bufio.NewWriter(w)

	for _, name := range s.Names() {
		if len(name) > maxNameLen {
			log.Warnf("Skipping frequency entry, name is %d bytes: %.32s...", len(name), name)
			continue
		}
		e, ok := s.Get(name)
		if !ok {
			continue
		}

		if err := writer.WriteByte(byte(len(name))); err != nil {
			return fmt.Errorf("failed to write name length: %w", err)
		}
		if _, err := writer.WriteString(name); err != nil {
			return fmt.Errorf("failed to write name: %w", err)
		}
		if err := binary.Write(writer, binary.LittleEndian, e.Count); err != nil {
			return fmt.Errorf("failed to write count: %w", err)
		}
		if err := binary.Write(writer, binary.LittleEndian, e.LastUsed); err != nil {
			return fmt.Errorf("failed to write last used time: %w", err)
		}
	}

	return writer.Flush()
}

func malformed(field string, err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: truncated %s", ErrMalformed, field)
	}
	return fmt.Errorf("failed to read %s: %w", field, err)
}
