package sema

import "github.com/scriptcore/scriptcore/internal/types"

// opClass groups binary operator spellings by the widening rule they share.
// §4.9 spells out the rule fully only for "+" and "+="; the remaining
// arithmetic/bitwise/shift/comparison/logical operators are specified as
// following "the same widen-then-dispatch rule" without naming every
// resulting opcode. The grouping and opcode names below are this
// implementation's chosen, locked-down completion of that table (see
// DESIGN.md's Open Question resolution).
type opClass int

const (
	classArithmetic opClass = iota // + - * / %  and the relational family
	classBitwise                   // & | ^ << >>
	classLogical                   // && ||
)

var opNames = map[string]string{
	"+": "Plus", "-": "Minus", "*": "Times", "/": "Div", "%": "Mod",
	"==": "Equals", "!=": "NotEquals", "<": "LessThan", "<=": "LessOrEqual",
	">": "GreaterThan", ">=": "GreaterOrEqual",
	"=~": "RegexMatch", "!~": "RegexNoMatch",
	"&": "BitAnd", "|": "BitOr", "^": "BitXor", "<<": "Shl", ">>": "Shr",
	"&&": "And", "||": "Or",
}

var opClasses = map[string]opClass{
	"+": classArithmetic, "-": classArithmetic, "*": classArithmetic,
	"/": classArithmetic, "%": classArithmetic,
	"==": classArithmetic, "!=": classArithmetic, "<": classArithmetic,
	"<=": classArithmetic, ">": classArithmetic, ">=": classArithmetic,
	"=~": classArithmetic, "!~": classArithmetic,
	"&": classBitwise, "|": classBitwise, "^": classBitwise,
	"<<": classBitwise, ">>": classBitwise,
	"&&": classLogical, "||": classLogical,
}

var comparisonOps = map[string]bool{
	"==": true, "!=": true, "<": true, "<=": true, ">": true, ">=": true,
	"=~": true, "!~": true,
}

// binaryDispatch is the resolved shape of one binary-operator application:
// the two operands converted to a common widened type, the chosen opcode
// name, and the expression's result type.
type binaryDispatch struct {
	opID       string
	convLeft   Conversion
	convRight  Conversion
	operandType *types.Type // the widened type operands convert into
	resultType *types.Type
	ok         bool
}

// dispatchBinary implements the widen-then-dispatch rule of §4.9: "if
// either side is any, widen both to any and use Any<Op>Any; else if either
// side is string-like, widen both to softstring; else if either side is
// int-like, widen both to softint." classBitwise narrows this to an
// int-only widen (bit operations on an "any" or a string have no defined
// meaning here); classLogical widens both sides to softbool.
func (a *Analyzer) dispatchBinary(op string, l, r *types.Type) binaryDispatch {
	name, ok := opNames[op]
	if !ok {
		return binaryDispatch{ok: false}
	}
	class := opClasses[op]
	resultIsBool := comparisonOps[op]

	widenTo := func(target *types.Type, label string) binaryDispatch {
		convL, _ := convertTo(l, target)
		convR, _ := convertTo(r, target)
		// A comparison yields bool; any other operator on soft-widened
		// operands yields the matching plain type (SoftInt -> int, ...).
		result := target
		switch {
		case resultIsBool || target.Kind() == types.SoftBool:
			result = a.builtin("bool")
		case target.Kind() == types.SoftInt:
			result = a.builtin("int")
		case target.Kind() == types.SoftString:
			result = a.builtin("string")
		}
		return binaryDispatch{
			opID:        label + name + label,
			convLeft:    convL,
			convRight:   convR,
			operandType: target,
			resultType:  result,
			ok:          true,
		}
	}

	switch class {
	case classLogical:
		softbool := a.builtin("softbool")
		return widenTo(softbool, "SoftBool")
	case classBitwise:
		if !isIntLike(l) || !isIntLike(r) {
			return binaryDispatch{ok: false}
		}
		return widenTo(a.builtin("softint"), "SoftInt")
	default: // classArithmetic
		if l.Kind() == types.Any || r.Kind() == types.Any {
			return widenTo(a.builtin("any"), "Any")
		}
		if isStringLike(l) || isStringLike(r) {
			return widenTo(a.builtin("softstring"), "SoftString")
		}
		if isIntLike(l) || isIntLike(r) {
			return widenTo(a.builtin("softint"), "SoftInt")
		}
		return binaryDispatch{ok: false}
	}
}

// compoundDispatch resolves a compound-assignment operator ("+=" and
// friends): the left side's static type alone picks the scheme (§4.9: "the
// left side determines the scheme"), the right side is converted into that
// scheme, and the expression's result type is always the left side's
// static type.
type compoundDispatch struct {
	opID       string
	convRight  Conversion
	schemeType *types.Type // the type the right operand is converted into
	ok         bool
}

func (a *Analyzer) dispatchCompound(op string, l, r *types.Type) compoundDispatch {
	base := op[:len(op)-1] // strip trailing '='
	name, ok := opNames[base]
	if !ok {
		return compoundDispatch{ok: false}
	}
	class := opClasses[base]

	switch {
	case class == classLogical:
		softbool := a.builtin("softbool")
		convR, _ := convertTo(r, softbool)
		return compoundDispatch{opID: "SoftBool" + name + "EqualsSoftBool", convRight: convR, schemeType: softbool, ok: true}
	case class == classBitwise:
		if !isIntLike(l) {
			return compoundDispatch{ok: false}
		}
		softint := a.builtin("softint")
		convR, _ := convertTo(r, softint)
		return compoundDispatch{opID: "SoftInt" + name + "EqualsSoftInt", convRight: convR, schemeType: softint, ok: true}
	case l.Kind() == types.Any:
		any := a.builtin("any")
		convR, _ := convertTo(r, any)
		return compoundDispatch{opID: "Any" + name + "EqualsAny", convRight: convR, schemeType: any, ok: true}
	case isStringLike(l):
		softstring := a.builtin("softstring")
		convR, _ := convertTo(r, softstring)
		return compoundDispatch{opID: "SoftString" + name + "SoftString", convRight: convR, schemeType: softstring, ok: true}
	case isIntLike(l):
		softint := a.builtin("softint")
		convR, _ := convertTo(r, softint)
		return compoundDispatch{opID: "SoftInt" + name + "SoftInt", convRight: convR, schemeType: softint, ok: true}
	default:
		return compoundDispatch{ok: false}
	}
}

func isStringLike(t *types.Type) bool {
	return t.Kind() == types.String || t.Kind() == types.SoftString
}

func isIntLike(t *types.Type) bool {
	return t.Kind() == types.Int || t.Kind() == types.SoftInt
}
