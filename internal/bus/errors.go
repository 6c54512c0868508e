package bus

import "errors"

var ErrHandlerPanicked = errors.New("event handler panicked")
