package oracle

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/ZanzyTHEbar/mg-tokens/mgtk/lexical"
)

var ErrUnknownCategory = errors.New("unknown category")

// CorpusOracle answers continuation queries over a finite language: the
// sentences registered for each category. The continuations of a prefix are
// the next items of every sentence that starts with it, plus EndOfSentence
// when a sentence equals it. A trailing affixed item that is still open in the
// prefix matches no sentence.
//
// It is useful when the grammar's language has been enumerated ahead of time
// and in tests.
type CorpusOracle struct {
	mu        sync.RWMutex
	sentences map[string][]lexical.Sequence
}

func NewCorpusOracle() *CorpusOracle {
	return &CorpusOracle{sentences: make(map[string][]lexical.Sequence)}
}

// Add registers sentences under category.
func (o *CorpusOracle) Add(category string, sentences ...lexical.Sequence) {
	o.mu.Lock()
	defer o.mu.Unlock()
	for _, s := range sentences {
		o.sentences[category] = append(o.sentences[category], s.Clone())
	}
}

// Categories returns the number of categories known to the oracle.
func (o *CorpusOracle) Categories() int {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return len(o.sentences)
}

func (o *CorpusOracle) ValidContinuations(category string, prefix lexical.Sequence, cfg BeamConfig) ([]Continuation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	o.mu.RLock()
	defer o.mu.RUnlock()

	sentences, ok := o.sentences[category]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}

	var out []Continuation
	seen := make(map[string]bool)
	for _, s := range sentences {
		if len(s) < len(prefix) || !s[:len(prefix)].Equal(prefix) {
			continue
		}
		var c Continuation
		if len(s) == len(prefix) {
			c = EndOfSentence()
		} else if next := s[len(prefix)]; next.IsAffixed() {
			c = AffixedWord(next.Words()...)
		} else {
			c = Word(next.String())
		}
		key := c.key()
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, c)
	}
	return out, nil
}

// key identifies c by kind and exact word list. Words never contain NUL, so
// distinct splits of the same morphemes stay distinct.
func (c Continuation) key() string {
	return fmt.Sprintf("%d\x00%s", c.Kind, strings.Join(c.Words, "\x00"))
}
