package errors

// ErrorCode represents a unique error code for identifying different error types.
type ErrorCode int

const (
	// ErrCodeUnknown represents a general unknown error (1-99 range).
	ErrCodeUnknown ErrorCode = 1

	// ErrCodeInvalidParameter indicates an invalid parameter was provided (100-199 range).
	ErrCodeInvalidParameter     ErrorCode = 100
	ErrCodeInvalidConfiguration ErrorCode = 101
	ErrCodeMissingParameter     ErrorCode = 102
	ErrCodeInvalidThreshold     ErrorCode = 103
	ErrCodeInsufficientData     ErrorCode = 104
	ErrCodeInvalidInterval      ErrorCode = 105

	// ErrCodeDataNotFound indicates requested data was not found (200-299 range).
	ErrCodeDataNotFound          ErrorCode = 200
	ErrCodeDataSourceUnavailable ErrorCode = 201
	ErrCodeQueryFailed           ErrorCode = 202
	ErrCodeDuplicateKey          ErrorCode = 203

	// ErrCodeStrategyNotFound indicates strategy registry failures (300-399 range).
	ErrCodeStrategyNotFound      ErrorCode = 300
	ErrCodeStrategyAlreadyExists ErrorCode = 301
	ErrCodeStrategyConfigError   ErrorCode = 302
	ErrCodeStrategyRuntimeError  ErrorCode = 303

	// ErrCodeOraclePriceUnavailable indicates the price oracle has no usable
	// price (stale or absent cache entry and no store fallback) (400-499 range).
	ErrCodeOraclePriceUnavailable ErrorCode = 400
	ErrCodeOracleStale            ErrorCode = 401
	ErrCodeOracleStreamFailure    ErrorCode = 402

	// ErrCodeRiskDailyLossPaused through ErrCodeRiskMaxExposure indicate the
	// paper engine's risk gate rejected a signal, a control-flow outcome
	// rather than a failure; the band also holds position and account
	// lookup codes (500-599 range).
	ErrCodeRiskDailyLossPaused  ErrorCode = 500
	ErrCodeRiskCooldown         ErrorCode = 501
	ErrCodeRiskMaxPositions     ErrorCode = 502
	ErrCodeRiskMaxExposure      ErrorCode = 503
	ErrCodePositionNotFound     ErrorCode = 504
	ErrCodeAccountNotFound      ErrorCode = 505
	ErrCodeAccountAlreadyExists ErrorCode = 506

	// ErrCodeVenueRequestFailed indicates an external venue HTTP/WS call
	// failed or timed out (700-799 range).
	ErrCodeVenueRequestFailed ErrorCode = 700
	ErrCodeVenueParseFailed   ErrorCode = 701
	ErrCodeVenueTimeout       ErrorCode = 702
)
