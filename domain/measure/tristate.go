package measure

// Tristate is a boolean with an explicit unknown state, used for causaloid
// activations. Unknown never silently decays to False.
type Tristate int8

const (
	False Tristate = iota
	True
	Indeterminate
)

// TristateOf lifts a plain bool.
func TristateOf(b bool) Tristate {
	if b {
		return True
	}
	return False
}

// IsKnown reports whether the state resolved to True or False.
func (t Tristate) IsKnown() bool { return t != Indeterminate }

// Fired reports a Known True activation.
func (t Tristate) Fired() bool { return t == True }

// And combines two activations; Unknown is absorbing.
func (t Tristate) And(u Tristate) Tristate {
	if t == Indeterminate || u == Indeterminate {
		return Indeterminate
	}
	if t == True && u == True {
		return True
	}
	return False
}

func (t Tristate) String() string {
	switch t {
	case True:
		return "true"
	case False:
		return "false"
	default:
		return "unknown"
	}
}
