package badger

import "errors"

var (
	// ErrPathRequired is returned when an on-disk catalog is opened without a directory.
	ErrPathRequired = errors.New("catalog directory required")

	// ErrNotDirectory is returned when the catalog path exists but is not a directory.
	ErrNotDirectory = errors.New("catalog path is not a directory")

	// ErrIDMismatch is returned when a replacement item carries a different id.
	ErrIDMismatch = errors.New("item id does not match")

	// ErrCorruptRecord is returned when a stored envelope cannot be decoded.
	ErrCorruptRecord = errors.New("corrupt stored record")
)
