package catalog

import "fmt"

// Op identifies a binary operator.
type Op uint8

const (
	OpAdd Op = iota
	OpSubtract
	OpMultiply
	OpDivide
	OpModulo
	OpAnd
	OpOr
	OpXor
	OpEqual
	OpNotEqual
	OpLessThan
	OpLessThanOrEqual
	OpGreaterThan
	OpGreaterThanOrEqual
	OpAndAlso
	OpOrElse
)

var opNames = [...]string{
	OpAdd:                "add",
	OpSubtract:           "subtract",
	OpMultiply:           "multiply",
	OpDivide:             "divide",
	OpModulo:             "modulo",
	OpAnd:                "and",
	OpOr:                 "or",
	OpXor:                "xor",
	OpEqual:              "equal",
	OpNotEqual:           "not_equal",
	OpLessThan:           "less_than",
	OpLessThanOrEqual:    "less_than_or_equal",
	OpGreaterThan:        "greater_than",
	OpGreaterThanOrEqual: "greater_than_or_equal",
	OpAndAlso:            "and_also",
	OpOrElse:             "or_else",
}

func (o Op) String() string {
	if int(o) < len(opNames) {
		return opNames[o]
	}
	return fmt.Sprintf("Op(%d)", o)
}

// IsComparison reports whether o yields a bool from two comparable operands.
func (o Op) IsComparison() bool {
	return o >= OpEqual && o <= OpGreaterThanOrEqual
}

// IsOrdering reports whether o needs ordered operands.
func (o Op) IsOrdering() bool {
	return o >= OpLessThan && o <= OpGreaterThanOrEqual
}

// IsLogical reports whether o only applies to booleans.
func (o Op) IsLogical() bool {
	return o == OpAndAlso || o == OpOrElse
}

// IsBitwise reports whether o is And, Or or Xor, which apply to integers and booleans.
func (o Op) IsBitwise() bool {
	return o == OpAnd || o == OpOr || o == OpXor
}
