package codec

import (
	"errors"
	"fmt"

	"github.com/ZanzyTHEbar/mg-tokens/mgtk/vocab"
)

// Kind classifies a strict decode/encode failure.
type Kind uint8

const (
	EmptyInput Kind = iota + 1
	MissingStartSymbol
	MissingEndSymbol
	OutOfVocabularyToken
	MalformedAffixRun
	UnknownWord
)

// Sentinels, one per Kind, for use with errors.Is.
var (
	ErrEmptyInput           = errors.New("empty input")
	ErrMissingStartSymbol   = errors.New("missing start symbol")
	ErrMissingEndSymbol     = errors.New("missing end symbol")
	ErrOutOfVocabularyToken = errors.New("out of vocabulary token")
	ErrMalformedAffixRun    = errors.New("malformed affix run")
	ErrUnknownWord          = vocab.ErrUnknownWord
)

func (k Kind) sentinel() error {
	switch k {
	case EmptyInput:
		return ErrEmptyInput
	case MissingStartSymbol:
		return ErrMissingStartSymbol
	case MissingEndSymbol:
		return ErrMissingEndSymbol
	case OutOfVocabularyToken:
		return ErrOutOfVocabularyToken
	case MalformedAffixRun:
		return ErrMalformedAffixRun
	case UnknownWord:
		return ErrUnknownWord
	}
	return nil
}

func (k Kind) String() string {
	if err := k.sentinel(); err != nil {
		return err.Error()
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Error is a strict-path failure. Pos is the offending token position, or -1
// when the failure is not tied to one position.
type Error struct {
	Kind  Kind
	Pos   int
	Token vocab.ID
	Word  string
}

func (e *Error) Error() string {
	switch e.Kind {
	case OutOfVocabularyToken:
		return fmt.Sprintf("%s: token %d at position %d", e.Kind, e.Token, e.Pos)
	case UnknownWord:
		return fmt.Sprintf("%s: %q", e.Kind, e.Word)
	}
	if e.Pos >= 0 {
		return fmt.Sprintf("%s at position %d", e.Kind, e.Pos)
	}
	return e.Kind.String()
}

func (e *Error) Unwrap() error { return e.Kind.sentinel() }

func newError(kind Kind, pos int) *Error {
	return &Error{Kind: kind, Pos: pos}
}

// KindOf extracts the Kind of a codec error, or 0.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
