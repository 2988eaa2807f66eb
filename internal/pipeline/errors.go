package pipeline

import "errors"

// ErrValidation is returned when a stage encounters malformed or
// missing required input. Any stage failure aborts the whole run with
// no persistence.
var ErrValidation = errors.New("validation failed")
