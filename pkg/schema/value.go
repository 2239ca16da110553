package schema

// Value is one parameter value in a task entry: either a literal (scalar,
// sequence or mapping, arbitrarily nested) or a placeholder that must be
// resolved interactively before dispatch. It is a closed union: Literal,
// Sequence, Mapping, Input, Select.
type Value interface {
	isValue()
}

// Literal is a concrete scalar value, passed through opaquely.
type Literal struct {
	Val any
}

func (*Literal) isValue() {}

// Sequence is an ordered list of values; placeholders may appear at any
// position.
type Sequence struct {
	Items []Value
}

func (*Sequence) isValue() {}

// Mapping is a string-keyed collection of values; placeholders may appear
// under any key.
type Mapping struct {
	Entries map[string]Value
}

func (*Mapping) isValue() {}

// Input is a placeholder resolved by prompting for a free-form line.
// An empty response substitutes Default when present; without a default
// the prompt repeats until a non-empty response arrives.
type Input struct {
	Default     any // nil means no default
	Description string
}

func (*Input) isValue() {}

// Select is a placeholder resolved by choosing one of Alternatives by its
// 1-based index. Alternatives must be non-empty; an empty list is a
// configuration error caught at load time.
type Select struct {
	Alternatives []any
	Description  string
}

func (*Select) isValue() {}
