package blob

import "errors"

// ErrBlobNotFound is returned by Store.Get when key does not exist.
var ErrBlobNotFound = errors.New("blob not found")
