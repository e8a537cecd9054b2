package wire

// ScalarCode identifies the wire encoding of one descriptor field. The
// set is closed and dense: codes 0 through 8, one byte on the wire.
// Nested struct/list entry kinds exist in the format this trace
// descends from but have no producer in this module and are not
// modelled here.
type ScalarCode uint8

const (
	U8 ScalarCode = iota
	I8
	U16
	I16
	U32
	I32
	U64
	I64
	Str
)

// entryKindRawValue is the only entry kind this module ever emits.
const entryKindRawValue = 0

func (c ScalarCode) String() string {
	switch c {
	case U8:
		return "u8"
	case I8:
		return "i8"
	case U16:
		return "u16"
	case I16:
		return "i16"
	case U32:
		return "u32"
	case I32:
		return "i32"
	case U64:
		return "u64"
	case I64:
		return "i64"
	case Str:
		return "str"
	default:
		return "invalid"
	}
}
