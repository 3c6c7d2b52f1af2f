package interaction

import (
	"github.com/Carmen-Shannon/orrery/catalog"
)

// ManagerBuilderOption is a functional option for configuring a Manager during construction.
type ManagerBuilderOption func(*manager)

// WithViewport sets the initial viewport size used for pointer-to-NDC
// conversion. Resize events update it later through SetViewport.
//
// Parameters:
//   - width: viewport width in pixels
//   - height: viewport height in pixels
//
// Returns:
//   - ManagerBuilderOption: functional option to set the viewport
func WithViewport(width, height int) ManagerBuilderOption {
	return func(m *manager) {
		m.width = width
		m.height = height
	}
}

// WithHoverCallback sets the callback fired when the hovered body changes.
// The callback receives the newly hovered record, or nil when the pointer
// moves onto empty space. It runs on the render goroutine and should return
// quickly.
//
// Parameters:
//   - cb: the hover callback
//
// Returns:
//   - ManagerBuilderOption: functional option to set the hover callback
func WithHoverCallback(cb func(rec *catalog.Record)) ManagerBuilderOption {
	return func(m *manager) {
		m.onHover = cb
	}
}

// WithSelectCallback sets the callback fired when a click lands on a body.
// It runs on the render goroutine and should return quickly.
//
// Parameters:
//   - cb: the selection callback
//
// Returns:
//   - ManagerBuilderOption: functional option to set the selection callback
func WithSelectCallback(cb func(rec catalog.Record)) ManagerBuilderOption {
	return func(m *manager) {
		m.onSelect = cb
	}
}

// WithCursorCallback sets the callback fired when the cursor shape should
// change: true when the pointer enters a body (pointing hand), false when it
// leaves (default arrow).
//
// Parameters:
//   - cb: the cursor shape callback
//
// Returns:
//   - ManagerBuilderOption: functional option to set the cursor callback
func WithCursorCallback(cb func(pointing bool)) ManagerBuilderOption {
	return func(m *manager) {
		m.onCursor = cb
	}
}
