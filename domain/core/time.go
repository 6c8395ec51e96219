package core

// RelTime is a relative time index: hours (or whatever step the loader uses)
// since the subject-specific reference event. Absolute wall-clock time is
// never required by this core.
type RelTime int64

// Before returns true if t is strictly before u
func (t RelTime) Before(u RelTime) bool { return t < u }

// After returns true if t is strictly after u
func (t RelTime) After(u RelTime) bool { return t > u }

// Window is an inclusive relative-time interval used by context queries.
type Window struct {
	From RelTime
	To   RelTime
}

// AllTime covers every representable relative time.
func AllTime() Window {
	return Window{From: -1 << 62, To: 1<<62 - 1}
}

// Until covers everything at or before t.
func Until(t RelTime) Window {
	w := AllTime()
	w.To = t
	return w
}

// Contains reports whether t falls inside the window.
func (w Window) Contains(t RelTime) bool {
	return t >= w.From && t <= w.To
}
