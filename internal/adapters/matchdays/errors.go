package matchdays

import "errors"

// Sentinel kinds for matchday loading errors.
var (
	ErrNotFound          = errors.New("matchday file not found")
	ErrUnsupportedFormat = errors.New("unsupported matchday file format")
	ErrDecode            = errors.New("decode matchday file failed")
	ErrTooLarge          = errors.New("matchday file too large")
)
