package mask

import (
	"errors"
	"fmt"
	"slices"

	"github.com/ZanzyTHEbar/mg-tokens/mgtk/vocab"
)

var (
	ErrEmptyShape     = errors.New("target shape is empty")
	ErrZeroSizedBatch = errors.New("target shape has an empty batch dimension")
	ErrShapeMismatch  = errors.New("tensor data does not match its shape")
)

// Tensor is a row-major array of token ids. The trailing dimension is the
// sequence length; all leading dimensions are batch dimensions.
type Tensor struct {
	Shape []int
	Data  []vocab.ID
}

// NewTensor wraps data with the given shape after checking that they agree.
func NewTensor(data []vocab.ID, shape ...int) (*Tensor, error) {
	t := &Tensor{Shape: slices.Clone(shape), Data: data}
	if _, _, err := t.dims(); err != nil {
		return nil, err
	}
	return t, nil
}

// FromRows builds a (len(rows), L) tensor from equal-length rows.
func FromRows(rows ...[]vocab.ID) (*Tensor, error) {
	if len(rows) == 0 {
		return nil, ErrZeroSizedBatch
	}
	length := len(rows[0])
	data := make([]vocab.ID, 0, len(rows)*length)
	for i, r := range rows {
		if len(r) != length {
			return nil, fmt.Errorf("%w: row %d has length %d, want %d", ErrShapeMismatch, i, len(r), length)
		}
		data = append(data, r...)
	}
	return NewTensor(data, len(rows), length)
}

// dims flattens the leading dimensions: it returns the batch size D and the
// sequence length L.
func (t *Tensor) dims() (int, int, error) {
	if len(t.Shape) == 0 {
		return 0, 0, ErrEmptyShape
	}
	for _, s := range t.Shape {
		if s < 0 {
			return 0, 0, fmt.Errorf("%w: negative dimension in %v", ErrShapeMismatch, t.Shape)
		}
	}
	d := 1
	for _, s := range t.Shape[:len(t.Shape)-1] {
		d *= s
	}
	if d == 0 {
		return 0, 0, ErrZeroSizedBatch
	}
	l := t.Shape[len(t.Shape)-1]
	if len(t.Data) != d*l {
		return 0, 0, fmt.Errorf("%w: shape %v needs %d ids, got %d", ErrShapeMismatch, t.Shape, d*l, len(t.Data))
	}
	return d, l, nil
}

// Row returns the d-th flattened row.
func (t *Tensor) Row(d int) []vocab.ID {
	l := t.Shape[len(t.Shape)-1]
	return t.Data[d*l : (d+1)*l]
}
