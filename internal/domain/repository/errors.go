package repository

import "errors"

// ErrDuplicateKey is returned by Create and Update when a unique column
// (tax ID, quotation number, product slug, user email) is already taken.
var ErrDuplicateKey = errors.New("repository: duplicate key")
