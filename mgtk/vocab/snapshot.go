package vocab

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
)

const snapshotVersion uint32 = 1

// MaxWordLen bounds a single snapshot entry.
const MaxWordLen = 64 << 10

var snapshotMagic = [4]byte{'M', 'G', 'V', 'B'}

// ErrInvalidSnapshot is returned for files not written by Persist, including
// truncated ones.
var ErrInvalidSnapshot = errors.New("invalid vocabulary snapshot")

// Persist writes v to path.
// Format (little-endian):
// [magic 'MGVB'] [u32 version] [16B uuid] [u32 n] n x ([u32 len] [len bytes])
// Words are written in id order so ids are implied by position.
func Persist(path string, v *Vocabulary) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteTo(f, v); err != nil {
		f.Close()
		return fmt.Errorf("failed to write vocabulary snapshot %s: %w", path, err)
	}
	return f.Close()
}

// WriteTo encodes v onto w in the Persist format.
func WriteTo(w io.Writer, v *Vocabulary) error {
	bw := bufio.NewWriter(w)
	words := v.Words()
	id := v.UUID()

	if _, err := bw.Write(snapshotMagic[:]); err != nil {
		return err
	}
	if err := binary.Write(bw, binary.LittleEndian, snapshotVersion); err != nil {
		return err
	}
	if _, err := bw.Write(id[:]); err != nil {
		return err
	}
	if err := binary.Write(bw, binary.LittleEndian, uint32(len(words))); err != nil {
		return err
	}
	for _, word := range words {
		if err := binary.Write(bw, binary.LittleEndian, uint32(len(word))); err != nil {
			return err
		}
		if _, err := bw.WriteString(word); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Load reads a snapshot written by Persist.
func Load(path string) (*Vocabulary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadFrom(f)
}

// ReadFrom decodes a vocabulary in the Persist format.
func ReadFrom(r io.Reader) (*Vocabulary, error) {
	br := bufio.NewReader(r)

	var magic [4]byte
	if _, err := io.ReadFull(br, magic[:]); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}
	if magic != snapshotMagic {
		return nil, ErrInvalidSnapshot
	}
	var ver uint32
	if err := binary.Read(br, binary.LittleEndian, &ver); err != nil {
		return nil, invalid(err)
	}
	if ver != snapshotVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrInvalidSnapshot, ver)
	}
	var id uuid.UUID
	if _, err := io.ReadFull(br, id[:]); err != nil {
		return nil, invalid(err)
	}
	var n uint32
	if err := binary.Read(br, binary.LittleEndian, &n); err != nil {
		return nil, invalid(err)
	}
	if n < NumReserved {
		return nil, fmt.Errorf("%w: %d entries, need at least %d", ErrInvalidSnapshot, n, NumReserved)
	}

	v := newWithID(id)
	for i := uint32(0); i < n; i++ {
		var slen uint32
		if err := binary.Read(br, binary.LittleEndian, &slen); err != nil {
			return nil, invalid(err)
		}
		if slen > MaxWordLen {
			return nil, fmt.Errorf("%w: entry %d is %d bytes, limit %d", ErrInvalidSnapshot, i, slen, MaxWordLen)
		}
		buf := make([]byte, slen)
		if _, err := io.ReadFull(br, buf); err != nil {
			return nil, invalid(err)
		}
		word := string(buf)
		if i < NumReserved {
			if word != reserved[i] {
				return nil, fmt.Errorf("%w: reserved id %d holds %q", ErrInvalidSnapshot, i, word)
			}
			continue
		}
		got, err := v.AddWord(word)
		if err != nil {
			return nil, fmt.Errorf("%w: entry %d: %v", ErrInvalidSnapshot, i, err)
		}
		if got != ID(i) {
			return nil, fmt.Errorf("%w: duplicate word %q", ErrInvalidSnapshot, word)
		}
	}
	return v, nil
}

func invalid(err error) error {
	return fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
}
