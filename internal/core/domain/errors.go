package domain

// ErrorCode represents categorized error types.
// These codes are stable and can be used for programmatic error handling.
// Every code is a terminal judgment about a specific artifact: no failure
// is retryable, and a failed artifact must never be reinterpreted as valid.
type ErrorCode string

const (
	ErrCodeUnallocatedHandle     ErrorCode = "unallocated_handle"
	ErrCodeAlreadySet            ErrorCode = "already_set"
	ErrCodeParseFailed           ErrorCode = "parse_failed"
	ErrCodeInvalidArtifact       ErrorCode = "invalid_artifact"
	ErrCodeInvalidSignatureField ErrorCode = "invalid_signature_field"
	ErrCodeInvalidAuthenticity   ErrorCode = "invalid_authenticity"
	ErrCodeDigestMismatch        ErrorCode = "digest_mismatch"
	ErrCodeBadFence              ErrorCode = "bad_fence"
	ErrCodeInvalidAltitude       ErrorCode = "invalid_altitude"
	ErrCodeInvalidFlightParams   ErrorCode = "invalid_flight_params"
	ErrCodeMalformedDocument     ErrorCode = "malformed_document"
)

// String returns the error code as a string.
func (c ErrorCode) String() string {
	return string(c)
}

// AppError is a structured error with code, message, and optional cause.
type AppError struct {
	Code    ErrorCode
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *AppError) Error() string {
	return e.Message
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// CodeOf extracts the ErrorCode from err, unwrapping as needed.
// Returns the empty code if err carries no AppError.
func CodeOf(err error) ErrorCode {
	for err != nil {
		if app, ok := err.(*AppError); ok {
			return app.Code
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return ""
		}
		err = u.Unwrap()
	}
	return ""
}

// Error constructors. Each ties a message (and optional cause) to a stable code.

func UnallocatedHandleError() *AppError {
	return &AppError{Code: ErrCodeUnallocatedHandle, Message: "nil artifact handle"}
}

func AlreadySetError() *AppError {
	return &AppError{Code: ErrCodeAlreadySet, Message: "permission artifact already set on this handle"}
}

func ParseError(msg string, cause error) *AppError {
	return &AppError{Code: ErrCodeParseFailed, Message: msg, Cause: cause}
}

func InvalidArtifactError(msg string) *AppError {
	return &AppError{Code: ErrCodeInvalidArtifact, Message: msg}
}

func InvalidSignatureFieldError(msg string) *AppError {
	return &AppError{Code: ErrCodeInvalidSignatureField, Message: msg}
}

func AuthenticityError(msg string, cause error) *AppError {
	return &AppError{Code: ErrCodeInvalidAuthenticity, Message: msg, Cause: cause}
}

func DigestMismatchError(msg string) *AppError {
	return &AppError{Code: ErrCodeDigestMismatch, Message: msg}
}

func BadFenceError(msg string, cause error) *AppError {
	return &AppError{Code: ErrCodeBadFence, Message: msg, Cause: cause}
}

func InvalidAltitudeError(msg string, cause error) *AppError {
	return &AppError{Code: ErrCodeInvalidAltitude, Message: msg, Cause: cause}
}

func InvalidFlightParamsError(msg string, cause error) *AppError {
	return &AppError{Code: ErrCodeInvalidFlightParams, Message: msg, Cause: cause}
}

func MalformedDocumentError(msg string) *AppError {
	return &AppError{Code: ErrCodeMalformedDocument, Message: msg}
}
