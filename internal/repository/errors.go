package repository

import "errors"

// ErrNotFound is wrapped by every lookup that finds no row.
var ErrNotFound = errors.New("not found")

// ErrAmbiguous is returned when an abbreviated id matches several rows.
var ErrAmbiguous = errors.New("ambiguous id")
