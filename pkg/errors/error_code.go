package errors

// ErrorCode represents a unique error code for identifying different error types.
type ErrorCode int

const (
	// General errors (1-99)
	ErrCodeUnknown ErrorCode = 1

	// Validation errors (100-199)
	ErrCodeInvalidParameter     ErrorCode = 100
	ErrCodeInvalidConfiguration ErrorCode = 101
	ErrCodeMalformedBar         ErrorCode = 102
	ErrCodeInsufficientHistory  ErrorCode = 103
	ErrCodeInvalidType          ErrorCode = 104
	ErrCodeInvalidPeriod        ErrorCode = 105
	ErrCodeMissingParameter     ErrorCode = 106
	ErrCodeInvalidMultiplier    ErrorCode = 107
	ErrCodeMissingColumn        ErrorCode = 108
	ErrCodeInvalidLabel         ErrorCode = 109

	// Data/Resource errors (200-299)
	ErrCodeDataNotFound          ErrorCode = 200
	ErrCodeDataSourceUnavailable ErrorCode = 201
	ErrCodeQueryFailed           ErrorCode = 202
	ErrCodeNoDataFound           ErrorCode = 203

	// Indicator errors (300-399)
	ErrCodeIndicatorNotFound      ErrorCode = 300
	ErrCodeIndicatorAlreadyExists ErrorCode = 301
	ErrCodeIndicatorCalculation   ErrorCode = 302
	ErrCodeStreamLengthMismatch   ErrorCode = 303

	// Feature errors (400-499)
	ErrCodeSchemaMismatch       ErrorCode = 400
	ErrCodeImputationFailure    ErrorCode = 401
	ErrCodeContractVersion      ErrorCode = 402
	ErrCodeUnknownRowPolicy     ErrorCode = 403
	ErrCodeFeatureTableMismatch ErrorCode = 404

	// Classifier errors (500-599)
	ErrCodeModelNotFound    ErrorCode = 500
	ErrCodeModelNotFitted   ErrorCode = 501
	ErrCodeModelFitFailed   ErrorCode = 502
	ErrCodeEmptyTrainingSet ErrorCode = 503

	// Pipeline errors (600-699)
	ErrCodePipelineConfigError ErrorCode = 600
	ErrCodePipelineNoData      ErrorCode = 601

	// IO errors (700-799)
	ErrCodeWriteFailed ErrorCode = 700
	ErrCodeReadFailed  ErrorCode = 701
)
