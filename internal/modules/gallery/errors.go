package gallery

import "errors"

var ErrNotFound = errors.New("not found")
