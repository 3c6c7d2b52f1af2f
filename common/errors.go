package common

import "errors"

// ErrUnsupported marks initialization failures caused by missing platform graphics
// capabilities, such as a window system, GPU adapter, device, or surface that cannot
// be created. Callers can detect it with errors.Is and present a fallback message
// instead of crashing.
var ErrUnsupported = errors.New("required graphics capabilities are unavailable")
