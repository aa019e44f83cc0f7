package sema

import "github.com/scriptcore/scriptcore/internal/types"

// Conversion names one entry of the fixed primitive-conversion table
// (§4.9). IR emission turns a non-identity Conversion into an
// InvokeConversion instruction.
type Conversion int

const (
	ConvIdentity Conversion = iota
	ConvAnyToString
	ConvIntToString
	ConvIntToBool
	ConvStringToInt
	ConvIntToAny
)

func (c Conversion) String() string {
	switch c {
	case ConvIdentity:
		return "Identity"
	case ConvAnyToString:
		return "AnyToString"
	case ConvIntToString:
		return "IntToString"
	case ConvIntToBool:
		return "IntToBool"
	case ConvStringToInt:
		return "StringToInt"
	case ConvIntToAny:
		return "IntToAny"
	default:
		return "Unknown"
	}
}

// convertTo looks up the conversion needed to bring a value of type from
// into a context expecting dest, per the §4.9 table. ok is false when no
// such conversion exists (a compile error at the call site).
//
// dest == Implicit accepts anything without a wrapper: a declaration with
// no syntactic type annotation takes on whatever its initializer produces,
// the same way an untyped Qore variable does. dest/from == Error also
// passes through as identity so one already-reported mistake does not
// cascade into a second "cannot convert" diagnostic at every use site.
func convertTo(from, to *types.Type) (Conversion, bool) {
	if types.IdentityEquals(from, to) {
		return ConvIdentity, true
	}
	if to.Kind() == types.Implicit || to.Kind() == types.Error || from.Kind() == types.Error {
		return ConvIdentity, true
	}

	switch {
	case from.Kind() == types.Any && (to.Kind() == types.String || to.Kind() == types.SoftString):
		return ConvAnyToString, true
	case from.Kind() == types.Int && to.Kind() == types.SoftString:
		return ConvIntToString, true
	case from.Kind() == types.Int && to.Kind() == types.SoftBool:
		return ConvIntToBool, true
	case from.Kind() == types.String && to.Kind() == types.SoftInt:
		return ConvStringToInt, true
	case from.Kind() == types.Int && to.Kind() == types.Any:
		return ConvIntToAny, true
	default:
		return ConvIdentity, false
	}
}
