package deals

import "errors"

// ErrInvalidInput means the evaluation could not run: no comparable carried a
// usable price, or a rehab line item was malformed. No partial evaluation is
// ever persisted in this case.
var ErrInvalidInput = errors.New("No comparables with a valid price")

// ErrPropertyNotFound is returned when the subject property does not exist.
var ErrPropertyNotFound = errors.New("Property not found")

// ErrLenderNotFound is returned when a selected lender does not exist.
var ErrLenderNotFound = errors.New("Lender not found")

// ErrEvaluationNotFound is returned when an evaluation lookup misses.
var ErrEvaluationNotFound = errors.New("Evaluation not found")
