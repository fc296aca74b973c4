package ledger

import "errors"

// Logical errors surfaced by Store operations. All checks run before any
// state changes, so a failed call leaves the Store exactly as it was.
var (
	// ErrInvalidArgument reports an empty item name, a non-positive
	// count, or a negative price.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrPriceMismatch reports stocking an existing item name with a
	// price different from the one it was registered with.
	ErrPriceMismatch = errors.New("price mismatch")

	// ErrItemUnknown reports a reference to an item name that was never
	// stocked.
	ErrItemUnknown = errors.New("item unknown")

	// ErrOutOfStock reports a sale larger than the on-hand count.
	ErrOutOfStock = errors.New("out of stock")
)
