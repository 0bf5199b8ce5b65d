// Package oracle is the boundary to the grammar engine that answers "what may
// legally come next" for a prefix of lexical items.
package oracle

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/ZanzyTHEbar/mg-tokens/mgtk/lexical"
)

// ContinuationKind tags a Continuation.
type ContinuationKind uint8

const (
	ContinueWord ContinuationKind = iota
	ContinueAffixedWord
	ContinueEndOfSentence
)

// Continuation is one legal next unit after a prefix.
type Continuation struct {
	Kind  ContinuationKind
	Words []string // one word for ContinueWord, >= 2 for ContinueAffixedWord
}

func Word(w string) Continuation {
	return Continuation{Kind: ContinueWord, Words: []string{w}}
}

func AffixedWord(words ...string) Continuation {
	return Continuation{Kind: ContinueAffixedWord, Words: slices.Clone(words)}
}

func EndOfSentence() Continuation {
	return Continuation{Kind: ContinueEndOfSentence}
}

func (c Continuation) String() string {
	switch c.Kind {
	case ContinueWord:
		return strings.Join(c.Words, "")
	case ContinueAffixedWord:
		return strings.Join(c.Words, "-")
	default:
		return "<eos>"
	}
}

// Oracle answers continuation queries for a grammar.
//
// Implementations must be deterministic for fixed inputs and must not retain
// or modify prefix. The mask engine may call ValidContinuations from several
// goroutines at once.
type Oracle interface {
	ValidContinuations(category string, prefix lexical.Sequence, cfg BeamConfig) ([]Continuation, error)
}

// OracleFunc adapts a function to Oracle.
type OracleFunc func(category string, prefix lexical.Sequence, cfg BeamConfig) ([]Continuation, error)

func (f OracleFunc) ValidContinuations(category string, prefix lexical.Sequence, cfg BeamConfig) ([]Continuation, error) {
	return f(category, prefix, cfg)
}

// ErrOracle marks every failure surfaced from a grammar query.
var ErrOracle = errors.New("grammar oracle failure")

// Error wraps a failure of one continuation query.
type Error struct {
	Category string
	Prefix   string
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%v: category %q, prefix %q: %v", ErrOracle, e.Category, e.Prefix, e.Err)
}

func (e *Error) Unwrap() []error { return []error{ErrOracle, e.Err} }

// Wrap returns err as an *Error for the given query, or nil.
func Wrap(category string, prefix lexical.Sequence, err error) error {
	if err == nil {
		return nil
	}
	var already *Error
	if errors.As(err, &already) {
		return err
	}
	return &Error{Category: category, Prefix: prefix.String(), Err: err}
}
