// Package vocab maps surface words to integer token ids. The four lowest ids
// are reserved control tokens and are part of the external contract with any
// model consuming the encoding; registered words always receive ids above them.
package vocab

import (
	"errors"
	"fmt"
	"sync"

	"github.com/armon/go-radix"
	"github.com/google/uuid"
)

// ID is a token id in [0, Size()).
type ID = uint32

// Reserved ids. Never renumber these.
const (
	SOS   ID = 0
	EOS   ID = 1
	PAD   ID = 2
	AFFIX ID = 3

	NumReserved = 4
)

// Display names of the reserved ids and of unknown ids.
const (
	SOSToken   = "[SOS]"
	EOSToken   = "[EOS]"
	PADToken   = "[PAD]"
	AFFIXToken = "[AFFIX]"
	OOVToken   = "[OOV]"
)

var reserved = [NumReserved]string{SOSToken, EOSToken, PADToken, AFFIXToken}

var (
	ErrUnknownWord = errors.New("word has no token id in vocabulary")
	ErrEmptyWord   = errors.New("word cannot be empty")
)

// IsReserved reports whether id is one of the control ids.
func IsReserved(id ID) bool { return id < NumReserved }

// Vocabulary is a grow-only bidirectional word <-> id mapping.
// It is safe for concurrent use.
type Vocabulary struct {
	mu    sync.RWMutex
	id    uuid.UUID
	words []string    // id -> word
	index *radix.Tree // word -> ID
}

// New returns a vocabulary holding only the reserved entries.
func New() *Vocabulary {
	return newWithID(uuid.New())
}

func newWithID(id uuid.UUID) *Vocabulary {
	v := &Vocabulary{
		id:    id,
		words: make([]string, 0, 64),
		index: radix.New(),
	}
	for i, w := range reserved {
		v.words = append(v.words, w)
		v.index.Insert(w, ID(i))
	}
	return v
}

// FromWords registers words in order on a fresh vocabulary.
func FromWords(words ...string) (*Vocabulary, error) {
	v := New()
	for _, w := range words {
		if _, err := v.AddWord(w); err != nil {
			return nil, err
		}
	}
	return v, nil
}

// UUID identifies this vocabulary across persistence round trips.
func (v *Vocabulary) UUID() uuid.UUID { return v.id }

// AddWord returns the id of word, assigning the next free id when the word
// has not been seen before.
func (v *Vocabulary) AddWord(word string) (ID, error) {
	if word == "" {
		return 0, ErrEmptyWord
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	if raw, ok := v.index.Get(word); ok {
		return raw.(ID), nil
	}
	id := ID(len(v.words))
	v.words = append(v.words, word)
	v.index.Insert(word, id)
	return id, nil
}

// ID looks up the id of word.
func (v *Vocabulary) ID(word string) (ID, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	raw, ok := v.index.Get(word)
	if !ok {
		return 0, false
	}
	return raw.(ID), true
}

// MustID is ID for callers that hold the invariant that word is registered.
// It panics otherwise.
func (v *Vocabulary) MustID(word string) ID {
	id, ok := v.ID(word)
	if !ok {
		panic(fmt.Errorf("%w: %q", ErrUnknownWord, word))
	}
	return id
}

// Word looks up the word of id.
func (v *Vocabulary) Word(id ID) (string, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if int(id) >= len(v.words) {
		return "", false
	}
	return v.words[id], true
}

// WordOrOOV is Word for display purposes: unknown ids render as OOVToken.
func (v *Vocabulary) WordOrOOV(id ID) string {
	if w, ok := v.Word(id); ok {
		return w
	}
	return OOVToken
}

// Size is the number of ids assigned so far, reserved ones included.
func (v *Vocabulary) Size() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.words)
}

// Words returns all entries ordered by id.
func (v *Vocabulary) Words() []string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	out := make([]string, len(v.words))
	copy(out, v.words)
	return out
}

// WithPrefix lists registered words starting with prefix in lexical order.
// Reserved entries are excluded.
func (v *Vocabulary) WithPrefix(prefix string) []string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	var out []string
	v.index.WalkPrefix(prefix, func(key string, raw interface{}) bool {
		if !IsReserved(raw.(ID)) {
			out = append(out, key)
		}
		return false
	})
	return out
}
