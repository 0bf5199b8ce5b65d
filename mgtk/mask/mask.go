package mask

import (
	"fmt"
	"slices"

	roaring "github.com/RoaringBitmap/roaring"

	"github.com/ZanzyTHEbar/mg-tokens/mgtk/vocab"
)

// Mask is a dense boolean tensor of shape (batch..., L, V). Entry
// (row, j, id) is true when id may legally follow the prefix built from the
// row's tokens up to and including position j.
type Mask struct {
	Shape []int
	Data  []bool

	rows, length, vocabSize int
}

func newMask(leading []int, rows, length, vocabSize int) *Mask {
	shape := make([]int, 0, len(leading)+2)
	shape = append(shape, leading...)
	shape = append(shape, length, vocabSize)
	return &Mask{
		Shape:     shape,
		Data:      make([]bool, rows*length*vocabSize),
		rows:      rows,
		length:    length,
		vocabSize: vocabSize,
	}
}

// Rows is the flattened batch size.
func (m *Mask) Rows() int { return m.rows }

// Len is the sequence length L.
func (m *Mask) Len() int { return m.length }

// VocabSize is V, the vocabulary size at the time the mask was computed.
func (m *Mask) VocabSize() int { return m.vocabSize }

// At indexes the mask with one index per dimension of Shape.
func (m *Mask) At(idx ...int) bool {
	if len(idx) != len(m.Shape) {
		panic(fmt.Sprintf("mask: %d indices for %d dimensions", len(idx), len(m.Shape)))
	}
	off := 0
	for i, x := range idx {
		if x < 0 || x >= m.Shape[i] {
			panic(fmt.Sprintf("mask: index %d out of range [0, %d) in dimension %d", x, m.Shape[i], i))
		}
		off = off*m.Shape[i] + x
	}
	return m.Data[off]
}

// Get indexes the mask by flattened row.
func (m *Mask) Get(row, j int, id vocab.ID) bool {
	return m.Data[m.offset(row, j)+int(id)]
}

// Position returns the V legality flags of (row, j). The slice aliases Data.
func (m *Mask) Position(row, j int) []bool {
	off := m.offset(row, j)
	return m.Data[off : off+m.vocabSize]
}

// Legal returns the legal ids at (row, j) as a bitmap.
func (m *Mask) Legal(row, j int) *roaring.Bitmap {
	bm := roaring.New()
	for id, ok := range m.Position(row, j) {
		if ok {
			bm.Add(uint32(id))
		}
	}
	return bm
}

// Count is the number of legal ids at (row, j).
func (m *Mask) Count(row, j int) int {
	n := 0
	for _, ok := range m.Position(row, j) {
		if ok {
			n++
		}
	}
	return n
}

// Equal reports bit-identical masks of the same shape.
func (m *Mask) Equal(o *Mask) bool {
	return slices.Equal(m.Shape, o.Shape) && slices.Equal(m.Data, o.Data)
}

func (m *Mask) offset(row, j int) int {
	return (row*m.length + j) * m.vocabSize
}

// rowView is the slice of a mask owned by one row; concurrent row scans never
// share cells.
type rowView struct {
	data      []bool
	length    int
	vocabSize int
}

func (m *Mask) row(d int) rowView {
	n := m.length * m.vocabSize
	return rowView{data: m.Data[d*n : (d+1)*n], length: m.length, vocabSize: m.vocabSize}
}

func (r rowView) set(j int, id vocab.ID) {
	r.data[j*r.vocabSize+int(id)] = true
}
