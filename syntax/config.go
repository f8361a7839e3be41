// Package syntax provides AST validation and transformation hooks that run
// around the target-call rewrite.
package syntax

// SyntaxConfig controls which language features are disallowed.
// Zero value allows all features (full language).
type SyntaxConfig struct {
	// Declarations
	DisallowVar      bool // var declarations (function scoped, hoisted)
	DisallowFuncDecl bool // named function declarations in statement lists

	// Functions
	DisallowArrow bool // arrow functions

	// Error handling
	DisallowTryCatch bool // try/catch/finally, throw

	// Control flow
	DisallowSwitch bool // switch statements
	DisallowLabels bool // break and continue

	// Advanced syntax
	DisallowSpread        bool // ...arr in calls, lists and objects
	DisallowTemplates     bool // `hello ${name}`
	DisallowOptionalChain bool // a?.b, f?.(), a?.[i]
	DisallowNew           bool // new Foo()
}

// Presets for common use cases.
var (
	// ContinuationSafe disallows the constructs that cannot be moved into a
	// continuation function without changing meaning: hoisted declarations
	// and loop control that would cross the function boundary.
	ContinuationSafe = SyntaxConfig{
		DisallowVar:      true,
		DisallowFuncDecl: true,
		DisallowLabels:   true,
	}

	// Portable restricts the tree to syntax every target runtime accepts.
	Portable = SyntaxConfig{
		DisallowSpread:        true,
		DisallowTemplates:     true,
		DisallowOptionalChain: true,
		DisallowArrow:         true,
	}

	// FullLanguage allows all features (zero value, default behavior).
	FullLanguage = SyntaxConfig{}
)
