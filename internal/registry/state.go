package registry

// State tracks where a config is in its compile/load lifecycle. Invalid
// is terminal until the source is corrected and re-validated; any
// previously loaded mapping stays visible throughout.
type State int

const (
	StateUncompiled State = iota
	StateValidating
	StateValid
	StateCompiled
	StateLoaded
	StateInvalid
)

func (s State) String() string {
	switch s {
	case StateUncompiled:
		return "uncompiled"
	case StateValidating:
		return "validating"
	case StateValid:
		return "valid"
	case StateCompiled:
		return "compiled"
	case StateLoaded:
		return "loaded"
	case StateInvalid:
		return "invalid"
	default:
		return "unknown"
	}
}
