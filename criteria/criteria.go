// Package criteria parses and evaluates conjunctive predicates over solar
// system records.
//
// A filter expression is a comma-separated list of clauses of the form
// "<property> <operator> <value>", combined by logical AND:
//
//	planets gt 5, security ge 0.5, name ne Jita
//
// Operand values are typed at parse time by lexical shape (integer, float,
// else quote-stripped string). Evaluation is a closed dispatch over the
// fixed operator set; there is no runtime expression construction.
package criteria

import (
	"strconv"
)

// Op identifies a comparison operator.
type Op uint8

const (
	// OpInvalid represents an unrecognized operator.
	OpInvalid Op = iota
	// OpEqual represents "eq".
	OpEqual
	// OpNotEqual represents "ne".
	OpNotEqual
	// OpGreaterThan represents "gt".
	OpGreaterThan
	// OpGreaterEqual represents "ge".
	OpGreaterEqual
	// OpLessThan represents "lt".
	OpLessThan
	// OpLessEqual represents "le".
	OpLessEqual
)

// ParseOp maps an operator token to its Op. ok is false for unknown tokens.
func ParseOp(tok string) (Op, bool) {
	switch tok {
	case "eq":
		return OpEqual, true
	case "ne":
		return OpNotEqual, true
	case "gt":
		return OpGreaterThan, true
	case "ge":
		return OpGreaterEqual, true
	case "lt":
		return OpLessThan, true
	case "le":
		return OpLessEqual, true
	default:
		return OpInvalid, false
	}
}

// String returns the operator token.
func (op Op) String() string {
	switch op {
	case OpEqual:
		return "eq"
	case OpNotEqual:
		return "ne"
	case OpGreaterThan:
		return "gt"
	case OpGreaterEqual:
		return "ge"
	case OpLessThan:
		return "lt"
	case OpLessEqual:
		return "le"
	default:
		return "invalid"
	}
}

// Kind identifies the concrete type stored in a Value.
type Kind uint8

const (
	// KindInvalid represents an invalid kind.
	KindInvalid Kind = iota
	// KindInt represents an integer operand.
	KindInt
	// KindFloat represents a floating-point operand.
	KindFloat
	// KindString represents a string operand.
	KindString
)

// Value is a small typed operand. The representation keeps comparison fast
// and predictable: no reflection and no fmt-based stringification.
type Value struct {
	Kind Kind
	I64  int64
	F64  float64
	S    string
}

// Int creates an integer Value.
func Int(i int64) Value { return Value{Kind: KindInt, I64: i} }

// Float creates a floating-point Value.
func Float(f float64) Value { return Value{Kind: KindFloat, F64: f} }

// String creates a string Value.
func String(s string) Value { return Value{Kind: KindString, S: s} }

// Criterion is a single (property, operator, operand) predicate.
type Criterion struct {
	Property string
	Op       Op
	Value    Value
}

// Plan is an ordered conjunction of criteria. The zero Plan matches every
// record.
type Plan struct {
	Criteria []Criterion
}

// coerce types an operand token by lexical shape: integer, then float,
// otherwise a string with surrounding quote characters stripped.
func coerce(tok string) Value {
	if i, err := strconv.ParseInt(tok, 10, 64); err == nil {
		return Int(i)
	}
	if f, err := strconv.ParseFloat(tok, 64); err == nil {
		return Float(f)
	}
	return String(stripQuotes(tok))
}

func isQuoted(s string) bool {
	if len(s) < 2 {
		return false
	}
	return (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'')
}

func stripQuotes(s string) string {
	if isQuoted(s) {
		return s[1 : len(s)-1]
	}
	return s
}
