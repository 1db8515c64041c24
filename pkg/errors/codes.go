package errors

import "strings"

// ErrorCode is a string representation of a specific error condition.  Codes
// follow the "<MODULE>_<NNN>" layout.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common error codes.
const (
	ErrCodeInternal       ErrorCode = "COMMON_001"
	ErrCodeBadRequest     ErrorCode = "COMMON_002"
	ErrCodeNotFound       ErrorCode = "COMMON_005"
	ErrCodeValidation     ErrorCode = "COMMON_010"
	ErrCodeSerialization  ErrorCode = "COMMON_011"
	ErrCodeNotImplemented ErrorCode = "COMMON_016"
)

// Molecule error codes.
const (
	ErrCodeMoleculeInvalidFormat       ErrorCode = "MOL_003"
	ErrCodeMoleculeParsingFailed       ErrorCode = "MOL_006"
	ErrCodeFingerprintGenerationFailed ErrorCode = "MOL_007"
	ErrCodeFingerprintTypeUnsupported  ErrorCode = "MOL_008"
	ErrCodeSimilarityThresholdInvalid  ErrorCode = "MOL_010"
)

// File I/O error codes.
const (
	ErrCodeFileRead  ErrorCode = "IO_001"
	ErrCodeFileWrite ErrorCode = "IO_002"
	ErrCodeExport    ErrorCode = "IO_003"
)

// Data source error codes.
const (
	ErrCodeDataSourceUnavailable ErrorCode = "SRC_001"
	ErrCodeDataSourceParseError  ErrorCode = "SRC_004"
)

// Short aliases used at call sites.
const (
	CodeOK                    = ErrorCode("OK")
	CodeUnknown               = ErrorCode("UNKNOWN")
	CodeInternal              = ErrCodeInternal
	CodeInvalidParam          = ErrCodeBadRequest
	CodeNotFound              = ErrCodeNotFound
	CodeMoleculeParsingFailed = ErrCodeMoleculeParsingFailed
	CodeFileRead              = ErrCodeFileRead
	CodeFileWrite             = ErrCodeFileWrite
)

// ErrorCodeMessage maps ErrorCodes to default messages.
var ErrorCodeMessage = map[ErrorCode]string{
	ErrCodeInternal:       "internal error",
	ErrCodeBadRequest:     "bad request",
	ErrCodeNotFound:       "resource not found",
	ErrCodeValidation:     "validation failed",
	ErrCodeSerialization:  "serialization failed",
	ErrCodeNotImplemented: "not implemented",

	ErrCodeMoleculeInvalidFormat:       "unsupported molecule format",
	ErrCodeMoleculeParsingFailed:       "failed to parse molecule",
	ErrCodeFingerprintGenerationFailed: "failed to generate fingerprint",
	ErrCodeFingerprintTypeUnsupported:  "unsupported fingerprint type",
	ErrCodeSimilarityThresholdInvalid:  "invalid similarity threshold",

	ErrCodeFileRead:  "failed to read file",
	ErrCodeFileWrite: "failed to write file",
	ErrCodeExport:    "failed to export output",

	ErrCodeDataSourceUnavailable: "data source unavailable",
	ErrCodeDataSourceParseError:  "failed to parse data source response",
}

// DefaultMessageForCode returns the default message for an ErrorCode.
func DefaultMessageForCode(code ErrorCode) string {
	if msg, ok := ErrorCodeMessage[code]; ok {
		return msg
	}
	return "unknown error"
}

// ModuleForCode returns the module prefix of an ErrorCode ("MOL", "IO", ...).
func ModuleForCode(code ErrorCode) string {
	parts := strings.Split(string(code), "_")
	if len(parts) > 1 && parts[0] != "" {
		return parts[0]
	}
	return "UNKNOWN"
}

//Personal.AI order the ending
