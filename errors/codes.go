package errors

// ErrorCode represents a unique identifier for error types.
// Codes are organized by category:
//   - E4xxx: Type check errors
//   - E9xxx: Internal checker errors
type ErrorCode string

const (
	// Type check errors (E4xxx)
	E4001 ErrorCode = "E4001" // Unknown identifier
	E4002 ErrorCode = "E4002" // Unknown type identifier
	E4003 ErrorCode = "E4003" // Type mismatch
	E4004 ErrorCode = "E4004" // Property missing
	E4005 ErrorCode = "E4005" // Property readonly violation
	E4006 ErrorCode = "E4006" // Property optional violation
	E4007 ErrorCode = "E4007" // Index type mismatch
	E4008 ErrorCode = "E4008" // Unsupported construct
	E4009 ErrorCode = "E4009" // Argument count mismatch
	E4010 ErrorCode = "E4010" // Recursive type reference
	E4011 ErrorCode = "E4011" // Maximum check depth exceeded
	E4012 ErrorCode = "E4012" // Unknown module

	// Internal errors (E9xxx)
	E9001 ErrorCode = "E9001" // Internal invariant violation
)

// Readable aliases for the codes above.
const (
	UnknownIdentifierCode     = E4001
	UnknownTypeIdentifierCode = E4002
	TypeMismatchCode          = E4003
	PropertyMissingCode       = E4004
	PropertyReadonlyCode      = E4005
	PropertyOptionalCode      = E4006
	IndexTypeMismatchCode     = E4007
	UnsupportedCode           = E4008
	ArgumentCountCode         = E4009
	RecursiveTypeCode         = E4010
	DepthExceededCode         = E4011
	UnknownModuleCode         = E4012
	InternalCode              = E9001
)

// codeDescriptions maps error codes to their short descriptions.
var codeDescriptions = map[ErrorCode]string{
	E4001: "unknown identifier",
	E4002: "unknown type identifier",
	E4003: "type mismatch",
	E4004: "property missing",
	E4005: "property readonly violation",
	E4006: "property optional violation",
	E4007: "index type mismatch",
	E4008: "unsupported construct",
	E4009: "argument count mismatch",
	E4010: "recursive type reference",
	E4011: "maximum check depth exceeded",
	E4012: "unknown module",

	E9001: "internal invariant violation",
}

// Description returns the short description for an error code.
func (c ErrorCode) Description() string {
	if desc, ok := codeDescriptions[c]; ok {
		return desc
	}
	return "unknown error"
}

// String returns the error code as a string.
func (c ErrorCode) String() string {
	return string(c)
}

// Category returns the error category based on the code prefix.
func (c ErrorCode) Category() string {
	if len(c) < 2 {
		return "unknown"
	}
	switch c[1] {
	case '4':
		return "type"
	case '9':
		return "internal"
	default:
		return "unknown"
	}
}
