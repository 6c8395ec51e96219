package measure

import "fmt"

// Value is an uncertainty-carrying scalar: either a known numeric value or an
// explicit unknown. Unknown propagates through every arithmetic operator;
// the only escape hatch is Coalesce, reserved for aggregation boundaries
// where a policy default must be picked.
type Value struct {
	v     float64
	known bool
}

// Known wraps a numeric value.
func Known(v float64) Value {
	return Value{v: v, known: true}
}

// Unknown returns the explicit unknown state.
func Unknown() Value {
	return Value{}
}

// IsKnown reports whether the value carries a number.
func (a Value) IsKnown() bool { return a.known }

// Float returns the underlying number. The second return is false for Unknown;
// callers must test it rather than rely on the zero value.
func (a Value) Float() (float64, bool) {
	return a.v, a.known
}

// Coalesce returns the value, or def when Unknown. Aggregation boundaries only.
func (a Value) Coalesce(def float64) float64 {
	if !a.known {
		return def
	}
	return a.v
}

// Add returns a+b, Unknown if either side is Unknown.
func (a Value) Add(b Value) Value {
	if !a.known || !b.known {
		return Unknown()
	}
	return Known(a.v + b.v)
}

// Sub returns a-b, Unknown if either side is Unknown.
func (a Value) Sub(b Value) Value {
	if !a.known || !b.known {
		return Unknown()
	}
	return Known(a.v - b.v)
}

// Mul returns a*b, Unknown if either side is Unknown.
func (a Value) Mul(b Value) Value {
	if !a.known || !b.known {
		return Unknown()
	}
	return Known(a.v * b.v)
}

// Div returns a/b. Division by zero yields Unknown rather than Inf so that
// downstream comparisons stay testable.
func (a Value) Div(b Value) Value {
	if !a.known || !b.known || b.v == 0 {
		return Unknown()
	}
	return Known(a.v / b.v)
}

// Equal reports a==b. ok is false when either side is Unknown; the result
// must not be read in that case.
func (a Value) Equal(b Value) (eq bool, ok bool) {
	if !a.known || !b.known {
		return false, false
	}
	return a.v == b.v, true
}

// Less reports a<b, undefined (ok=false) when either side is Unknown.
func (a Value) Less(b Value) (less bool, ok bool) {
	if !a.known || !b.known {
		return false, false
	}
	return a.v < b.v, true
}

// String renders the value for traces and logs.
func (a Value) String() string {
	if !a.known {
		return "unknown"
	}
	return fmt.Sprintf("%.4f", a.v)
}
