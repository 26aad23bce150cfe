package pipeline

// Target selects which test suite subset a pipeline runs.
type Target int

const (
	All Target = iota
	Native
	Wasm
	Unknown
)

func (t Target) String() string {
	switch t {
	case All:
		return "all"
	case Native:
		return "native"
	case Wasm:
		return "wasm"
	default:
		return "unknown"
	}
}

// ParseTarget maps a CLI selector to a Target. The empty selector means
// All. Anything unrecognized is Unknown, never an error — the caller
// decides how to surface it.
func ParseTarget(selector string) Target {
	switch selector {
	case "", "all":
		return All
	case "native":
		return Native
	case "wasm":
		return Wasm
	default:
		return Unknown
	}
}
