package vfs

import "errors"

var (
	// ErrNotFound is an error that occurs when a name does not resolve to an
	// existing node of the required kind in the current directory.
	ErrNotFound = errors.New("no such file or directory")

	// ErrNameConflict is an error that occurs when a directory is created
	// under a name that already exists in the current directory.
	ErrNameConflict = errors.New("name already exists")

	// ErrInvalidName is an error that occurs when an empty name is given.
	ErrInvalidName = errors.New("invalid name")
)
