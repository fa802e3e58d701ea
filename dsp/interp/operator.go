package interp

import (
	"fmt"

	"github.com/james-bowman/sparse"
	"gonum.org/v1/gonum/mat"
)

// Operator is a sparse linear interpolation matrix of shape
// len(xi) x len(x0). Row i holds weights (1-frac, frac) on columns
// (col, col+1) when xi[i] is inside the source support and is zero otherwise.
// The weights are stored in CSR form.
type Operator struct {
	m       *sparse.CSR
	rows    int
	cols    int
	inRange []int
}

var _ mat.Matrix = (*Operator)(nil)

// NewRegularGridOperator builds the interpolation operator that maps values
// sampled on the regular grid x0 to the query points xi. delta is the source
// spacing; pass 0 to infer it from x0[1]-x0[0].
func NewRegularGridOperator(x0, xi []float64, delta float64) (*Operator, error) {
	delta, err := sourceSpacing(x0, delta)
	if err != nil {
		return nil, err
	}

	n := len(x0)
	lo, hi := x0[0], x0[n-1]
	inRange := make([]int, 0, len(xi))
	rows := make([]int, 0, 2*len(xi))
	cols := make([]int, 0, 2*len(xi))
	vals := make([]float64, 0, 2*len(xi))

	for i, x := range xi {
		if !inBounds(x, lo, hi) {
			continue
		}
		c, frac := locate(x, lo, delta, n)
		rows = append(rows, i, i)
		cols = append(cols, c, c+1)
		vals = append(vals, 1-frac, frac)
		inRange = append(inRange, i)
	}

	op := &Operator{rows: len(xi), cols: n, inRange: inRange}
	if len(xi) > 0 {
		op.m = sparse.NewCOO(len(xi), n, rows, cols, vals).ToCSR()
	}
	return op, nil
}

// Dims returns the operator shape (query points, source samples).
func (o *Operator) Dims() (r, c int) {
	return o.rows, o.cols
}

// At returns the weight linking query point i to source sample j.
func (o *Operator) At(i, j int) float64 {
	if i < 0 || i >= o.rows || j < 0 || j >= o.cols {
		panic(mat.ErrIndexOutOfRange)
	}
	return o.m.At(i, j)
}

// T returns the implicit transpose.
func (o *Operator) T() mat.Matrix {
	return mat.Transpose{Matrix: o}
}

// InRange returns the indices of query points inside the source support.
// The returned slice must not be modified.
func (o *Operator) InRange() []int {
	return o.inRange
}

// NonZero returns the number of stored weights, two per in-range row.
func (o *Operator) NonZero() int {
	return 2 * len(o.inRange)
}

// Apply evaluates the operator on the source values y0.
func (o *Operator) Apply(y0 []float64) ([]float64, error) {
	out := make([]float64, o.rows)
	if err := o.ApplyTo(out, y0); err != nil {
		return nil, err
	}
	return out, nil
}

// ApplyTo evaluates the operator on y0 into dst, which must have one entry
// per query point. Out-of-range entries are set to zero.
func (o *Operator) ApplyTo(dst, y0 []float64) error {
	if len(y0) != o.cols {
		return fmt.Errorf("%w: operator has %d columns, got %d values", ErrLengthMismatch, o.cols, len(y0))
	}
	if len(dst) != o.rows {
		return fmt.Errorf("%w: operator has %d rows, got %d outputs", ErrLengthMismatch, o.rows, len(dst))
	}
	if o.rows == 0 {
		return nil
	}

	out := mat.NewVecDense(o.rows, dst)
	out.MulVec(o.m, mat.NewVecDense(o.cols, y0))
	return nil
}
