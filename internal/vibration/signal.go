package vibration

// Level is the binary state of the vibration sensor line.
type Level int

const (
	// Low is the inactive level; also the fail-closed value on read errors.
	Low Level = iota

	// High is the active level, indicating the piezo element is vibrating.
	High
)

// String returns "low" or "high".
func (l Level) String() string {
	if l == High {
		return "high"
	}
	return "low"
}

// SignalSource is the boundary to the physical vibration sensor line.
//
// Implementations wrap whatever transport reaches the hardware (GPIO,
// replayed captures, scripted test sources). Read returns the instantaneous
// signal level; an error means the level could not be determined and callers
// in this package treat it as Low.
type SignalSource interface {
	Read() (Level, error)
}

// SignalFunc adapts a plain function to the SignalSource interface.
type SignalFunc func() (Level, error)

// Read calls the function.
func (f SignalFunc) Read() (Level, error) { return f() }
