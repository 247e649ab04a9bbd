package properties

import "errors"

var (
	ErrNotFound       = errors.New("Property not found")
	ErrInvalidAddress = errors.New("Invalid address")
	ErrInvalidZip     = errors.New("Invalid zip code")
	ErrInvalidType    = errors.New("Invalid property type")
)
