package comps

import (
	"errors"
	"fmt"
)

// ErrNoMarketData means the listing set held nothing of the subject's
// property type at all.
var ErrNoMarketData = errors.New("No market data for property type")

// InsufficientComparablesError means some listings matched the type but no
// tolerance tier reached the three-comparable minimum. Best carries the
// largest match count any tier produced.
type InsufficientComparablesError struct {
	Best int
}

func (e *InsufficientComparablesError) Error() string {
	return fmt.Sprintf("Insufficient comparables: best tier matched %d, need 3", e.Best)
}
