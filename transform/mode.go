package transform

import (
	"fmt"
	"strings"

	"github.com/saraswati-lib/saraswati/errors"
)

// Mode selects the rewrite strategy applied to target calls. A mode is
// chosen once per run and never changes during a traversal.
type Mode int

const (
	// ModeDirect replaces the callee of each target call with the runtime
	// callee, leaving the call in place.
	ModeDirect Mode = iota

	// ModeLowered hoists every argument of a target call into a const
	// temporary and calls the runtime with the temporaries.
	ModeLowered

	// ModeContinuation moves the statements following a target call into a
	// function passed as the last argument of the runtime call.
	ModeContinuation
)

var modeNames = map[Mode]string{
	ModeDirect:       "direct",
	ModeLowered:      "lowered",
	ModeContinuation: "continuation",
}

// Modes returns every supported mode in declaration order.
func Modes() []Mode {
	return []Mode{ModeDirect, ModeLowered, ModeContinuation}
}

func (m Mode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	_, ok := modeNames[m]
	return ok
}

// RequiresStatement reports whether the mode can only rewrite target calls
// that stand alone as statements.
func (m Mode) RequiresStatement() bool {
	return m == ModeLowered || m == ModeContinuation
}

// RevisitsReplacement reports whether the walker continues into the nodes
// produced by a rewrite. Only continuations carry statements that have not
// been visited yet.
func (m Mode) RevisitsReplacement() bool {
	return m == ModeContinuation
}

// ParseMode converts a mode name such as "lowered" into a Mode.
func ParseMode(s string) (Mode, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for m, n := range modeNames {
		if n == name {
			return m, nil
		}
	}
	return 0, unknownValue("mode", s, modeNames)
}

func unknownValue[K comparable](what, value string, names map[K]string) error {
	candidates := make([]string, 0, len(names))
	for _, n := range names {
		candidates = append(candidates, n)
	}
	if suggestions := errors.SuggestSimilar(value, candidates); len(suggestions) > 0 {
		return fmt.Errorf("unknown %s %q (did you mean %q?)", what, value, suggestions[0].Value)
	}
	return fmt.Errorf("unknown %s %q", what, value)
}
