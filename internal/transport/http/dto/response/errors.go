package response

// Коды ошибок в поле error.
const (
	CodeInvalidRequest   = "invalid_request"
	CodeValidation       = "validation_failed"
	CodeNotFound         = "not_found"
	CodeConflict         = "conflict"
	CodeFileTooLarge     = "file_too_large"
	CodeUnsupportedMedia = "unsupported_media_type"
	CodeUpstream         = "upstream_error"
	CodeInternal         = "internal_error"
)

var (
	ErrInvalidRequestFormat = ErrorResponse{
		Status:  "error",
		Error:   CodeInvalidRequest,
		Details: "Invalid request format",
	}

	ErrInternal = ErrorResponse{
		Status:  "error",
		Error:   CodeInternal,
		Details: "Internal server error",
	}
)
