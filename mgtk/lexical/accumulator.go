package lexical

// State of an Accumulator.
type State uint8

const (
	// Idle: no affixed word is being assembled.
	Idle State = iota
	// Accumulating: at least one morpheme followed by AFFIX has been seen.
	Accumulating
)

func (s State) String() string {
	if s == Accumulating {
		return "accumulating"
	}
	return "idle"
}

// Accumulator assembles affixed words from a stream of morphemes, each seen
// together with whether the token after it is the affix marker.
//
//	Idle         --(w, next=AFFIX)-->  Accumulating[w]
//	Idle         --(w, next!=AFFIX)--> Idle,          emit Normal(w)
//	Accumulating --(w, next=AFFIX)-->  Accumulating[.., w]
//	Accumulating --(w, next!=AFFIX)--> Idle,          emit Affixed(.., w)
type Accumulator struct {
	state   State
	partial []string
}

func (a *Accumulator) State() State { return a.state }

// Pending reports an affixed word that has been opened but not closed.
func (a *Accumulator) Pending() bool { return a.state == Accumulating }

// Partial returns a copy of the morphemes collected so far.
func (a *Accumulator) Partial() []string {
	out := make([]string, len(a.partial))
	copy(out, a.partial)
	return out
}

// Push feeds one morpheme. It returns the completed item, if any.
func (a *Accumulator) Push(word string, nextIsAffix bool) (Item, bool) {
	if nextIsAffix {
		a.partial = append(a.partial, word)
		a.state = Accumulating
		return Item{}, false
	}
	if a.state == Accumulating {
		words := append(a.partial, word)
		a.partial = nil
		a.state = Idle
		return Item{kind: KindAffixed, words: words}, true
	}
	return Normal(word), true
}

// Reset discards any partial word.
func (a *Accumulator) Reset() {
	a.partial = nil
	a.state = Idle
}
