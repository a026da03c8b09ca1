package errors

// ErrorCode represents a unique error code for identifying different error types.
type ErrorCode int

const (
	// General errors (1-99)
	ErrCodeUnknown ErrorCode = 1

	// Validation errors (100-199)
	ErrCodeInvalidParameter     ErrorCode = 100
	ErrCodeInvalidConfiguration ErrorCode = 101
	ErrCodeInsufficientData     ErrorCode = 106
	ErrCodeInvalidPeriod        ErrorCode = 108
	ErrCodeInvalidThreshold     ErrorCode = 112

	// Data/Resource errors (200-299)
	ErrCodeNotFound    ErrorCode = 200
	ErrCodeEmptyResult ErrorCode = 204

	// Indicator errors (300-399)
	ErrCodeIndicatorCalculation ErrorCode = 302

	// Market data errors (700-799)
	ErrCodeNetwork          ErrorCode = 700
	ErrCodeCacheWriteFailed ErrorCode = 701
	ErrCodeSchema           ErrorCode = 702
	ErrCodeInvalidProvider  ErrorCode = 704
	ErrCodeChainExhausted   ErrorCode = 705
)
