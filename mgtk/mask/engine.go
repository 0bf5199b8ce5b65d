// Package mask computes grammar-constrained continuation masks for batches of
// token sequences.
//
// Rows are scanned leniently: a row that is terminated (PAD or EOS) or
// structurally malformed simply stops contributing, and all of its remaining
// mask entries stay false. Callers get no indication of which rows stopped
// early; that is expected behavior. Only an invalid tensor shape or a failing
// oracle query aborts the whole call.
package mask

import (
	"context"
	"fmt"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"github.com/sourcegraph/conc/pool"

	"github.com/ZanzyTHEbar/mg-tokens/mgtk/lexical"
	"github.com/ZanzyTHEbar/mg-tokens/mgtk/oracle"
	"github.com/ZanzyTHEbar/mg-tokens/mgtk/vocab"
)

// Engine computes continuation masks against one vocabulary and oracle.
// Both are only read during Compute.
type Engine struct {
	vocab   *vocab.Vocabulary
	oracle  oracle.Oracle
	logger  zerolog.Logger
	workers int
}

type Option func(*Engine)

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger zerolog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithWorkers bounds how many rows are scanned concurrently. Values below 1
// select a default based on the CPU count.
func WithWorkers(n int) Option {
	return func(e *Engine) { e.workers = n }
}

func NewEngine(v *vocab.Vocabulary, o oracle.Oracle, opts ...Option) *Engine {
	e := &Engine{
		vocab:  v,
		oracle: o,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.workers < 1 {
		e.workers = min(max(runtime.NumCPU()*2, 4), 32)
	}
	return e
}

// stopReason says why a row scan ended before its last position.
type stopReason string

const (
	stopTerminated     stopReason = "terminated"
	stopMisplacedStart stopReason = "misplaced start symbol"
	stopMisplacedAffix stopReason = "misplaced affix"
	stopUnknownToken   stopReason = "unknown token"
	stopOrphanAffix    stopReason = "affix without open word"
)

// Compute returns the continuation mask of x, of shape x.Shape + (V,), where
// V is the vocabulary size when the call starts.
//
// For every row and position j the oracle is queried with the prefix built
// from the row's tokens up to j, and each legal continuation is marked at j.
// An affixed continuation spans several tokens: its later tokens are marked
// at j+1, j+2, ... only while the row's actual tokens follow that same path.
func (e *Engine) Compute(ctx context.Context, x *Tensor, category string, cfg oracle.BeamConfig) (*Mask, error) {
	rows, length, err := x.dims()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	vocabSize := e.vocab.Size()
	out := newMask(x.Shape[:len(x.Shape)-1], rows, length, vocabSize)

	var calls, truncated atomic.Int64
	p := pool.New().WithMaxGoroutines(min(e.workers, rows)).WithContext(ctx).WithCancelOnError().WithFirstError()
	for d := 0; d < rows; d++ {
		p.Go(func(ctx context.Context) error {
			s := &scan{
				engine:    e,
				category:  category,
				cfg:       cfg,
				tokens:    x.Row(d),
				out:       out.row(d),
				vocabSize: vocabSize,
			}
			err := s.run(ctx)
			calls.Add(s.calls)
			if s.stopped != "" && s.stopped != stopTerminated {
				truncated.Add(1)
				e.logger.Debug().
					Int("row", d).
					Int("pos", s.stopPos).
					Str("reason", string(s.stopped)).
					Msg("Row scan stopped early")
			}
			return err
		})
	}
	if err := p.Wait(); err != nil {
		e.logger.Error().Err(err).Str("category", category).Msg("Continuation mask failed")
		return nil, err
	}

	e.logger.Debug().
		Str("vocabulary", e.vocab.UUID().String()).
		Str("category", category).
		Int("rows", rows).
		Int("length", length).
		Int("vocab_size", vocabSize).
		Int64("oracle_calls", calls.Load()).
		Int64("malformed_rows", truncated.Load()).
		Dur("elapsed", time.Since(start)).
		Msg("Continuation mask computed")
	return out, nil
}

// scan holds the state of one row.
type scan struct {
	engine    *Engine
	category  string
	cfg       oracle.BeamConfig
	tokens    []vocab.ID
	out       rowView
	vocabSize int

	calls   int64
	stopped stopReason
	stopPos int
}

func (s *scan) stop(j int, why stopReason) {
	s.stopped = why
	s.stopPos = j
}

func (s *scan) run(ctx context.Context) error {
	var prefix lexical.Sequence
	lastWasAffix := false

	for j, c := range s.tokens {
		if err := ctx.Err(); err != nil {
			return err
		}

		switch {
		case c == vocab.PAD || c == vocab.EOS:
			s.stop(j, stopTerminated)
			return nil
		case c == vocab.SOS:
			if j != 0 {
				s.stop(j, stopMisplacedStart)
				return nil
			}
		case c == vocab.AFFIX:
			if lastWasAffix || j < 2 {
				s.stop(j, stopMisplacedAffix)
				return nil
			}
			lastWasAffix = true
		default:
			w, ok := s.word(c)
			if !ok {
				s.stop(j, stopUnknownToken)
				return nil
			}
			nextIsAffix := j+1 < len(s.tokens) && s.tokens[j+1] == vocab.AFFIX
			if !prefix.Extend(w, nextIsAffix, lastWasAffix) {
				s.stop(j, stopOrphanAffix)
				return nil
			}
			lastWasAffix = false
		}

		s.calls++
		conts, err := s.engine.oracle.ValidContinuations(s.category, prefix, s.cfg)
		if err != nil {
			return oracle.Wrap(s.category, prefix, err)
		}
		for _, cont := range conts {
			if err := s.mark(j, cont); err != nil {
				return oracle.Wrap(s.category, prefix, err)
			}
		}
	}
	return nil
}

func (s *scan) word(id vocab.ID) (string, bool) {
	if int(id) >= s.vocabSize {
		return "", false
	}
	return s.engine.vocab.Word(id)
}

func (s *scan) id(word string) (vocab.ID, error) {
	id, ok := s.engine.vocab.ID(word)
	if !ok || int(id) >= s.vocabSize {
		return 0, fmt.Errorf("continuation %w: %q", vocab.ErrUnknownWord, word)
	}
	return id, nil
}

// mark projects one continuation computed at position j onto the mask.
func (s *scan) mark(j int, cont oracle.Continuation) error {
	switch cont.Kind {
	case oracle.ContinueEndOfSentence:
		s.out.set(j, vocab.EOS)
	case oracle.ContinueWord:
		if len(cont.Words) != 1 {
			return fmt.Errorf("word continuation with %d morphemes", len(cont.Words))
		}
		id, err := s.id(cont.Words[0])
		if err != nil {
			return err
		}
		s.out.set(j, id)
	case oracle.ContinueAffixedWord:
		path, err := s.path(cont.Words)
		if err != nil {
			return err
		}
		var last vocab.ID
		for off, tok := range path {
			pos := j + off
			if pos >= len(s.tokens) {
				break
			}
			// Beyond offset 0 the real input must still follow this path.
			if off > 0 && s.tokens[pos] != last {
				break
			}
			s.out.set(pos, tok)
			last = tok
		}
	default:
		return fmt.Errorf("unknown continuation kind %d", cont.Kind)
	}
	return nil
}

// path is the interleaved token form of an affixed word: w1 AFFIX w2 ... wn.
func (s *scan) path(words []string) ([]vocab.ID, error) {
	if len(words) == 0 {
		return nil, fmt.Errorf("affixed continuation without morphemes")
	}
	out := make([]vocab.ID, 0, 2*len(words)-1)
	for i, w := range words {
		id, err := s.id(w)
		if err != nil {
			return nil, err
		}
		if i > 0 {
			out = append(out, vocab.AFFIX)
		}
		out = append(out, id)
	}
	return out, nil
}
