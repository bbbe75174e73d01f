package types

// ErrorCode identifies a parse failure class. Codes are stable strings the
// mobile client switches on to choose between a retry prompt and a
// fix-your-input prompt.
type ErrorCode string

const (
	ErrInvalidInputType ErrorCode = "INVALID_INPUT_TYPE"
	ErrInvalidInput     ErrorCode = "INVALID_INPUT"
	ErrInputTooLong     ErrorCode = "INPUT_TOO_LONG"
	ErrInvalidMimeType  ErrorCode = "INVALID_MIME_TYPE"
	ErrInvalidBase64    ErrorCode = "INVALID_BASE64"
	ErrFetchFailed      ErrorCode = "FETCH_FAILED"
	ErrNoContent        ErrorCode = "NO_CONTENT"
	ErrAIParseFailed    ErrorCode = "AI_PARSE_FAILED"
	ErrInternalError    ErrorCode = "INTERNAL_ERROR"
)

// ParseError is the failure branch of a response envelope.
type ParseError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// ErrorResponse builds a failed ParseResponse with the given code and message.
func ErrorResponse(code ErrorCode, message string) ParseResponse {
	return ParseResponse{
		Success: false,
		Error:   &ParseError{Code: code, Message: message},
	}
}
