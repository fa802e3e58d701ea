// Package interp resamples a regularly gridded profile onto arbitrary query
// times by linear interpolation.
//
// Two interchangeable strategies are provided:
//
//   - [Operator]: an explicit sparse linear operator built by
//     [NewRegularGridOperator]. Each in-bounds query row holds two non-zero
//     weights (1-frac, frac) on its bracketing source samples. The operator
//     satisfies gonum's mat.Matrix interface, so it composes with dense
//     linear algebra. Works for any query ordering.
//   - [ShiftVector]: direct evaluation for a uniform query grid, the common
//     case of a template shifted by a constant delay. When the query step
//     equals the source step, a single fractional weight is applied to a
//     contiguous block.
//
// Both strategies treat query points outside [x0[0], x0[last]) as "no
// signal" and produce zero there. They agree to floating tolerance wherever
// both apply.
package interp
