package response

// Коды ошибок в поле error. Значения стабильны: на них завязан клиент.
const (
	CodeInvalidRequest  = "invalid_request"
	CodeValidation      = "validation_failed"
	CodeUnauthorized    = "unauthorized"
	CodeForbidden       = "forbidden"
	CodeNotFound        = "not_found"
	CodeGone            = "upload_slot_expired"
	CodeTooLarge        = "file_too_large"
	CodeUnsupportedType = "unsupported_file_type"
	CodeUnavailable     = "service_unavailable"
	CodeInternal        = "internal_error"
)

var (
	ErrInvalidRequestFormat = ErrorResponse{
		Status:  "error",
		Error:   CodeInvalidRequest,
		Details: "Invalid request format",
	}

	ErrAuthenticationFailed = ErrorResponse{
		Status:  "error",
		Error:   "authentication_failed",
		Details: "Invalid email or password",
	}

	ErrAuthenticationRequired = ErrorResponse{
		Status:  "error",
		Error:   CodeUnauthorized,
		Details: "Authentication required",
	}

	ErrAdminRequired = ErrorResponse{
		Status:  "error",
		Error:   CodeForbidden,
		Details: "Admin access required",
	}

	ErrInternal = ErrorResponse{
		Status:  "error",
		Error:   CodeInternal,
		Details: "Internal server error",
	}
)

// Validation строит ответ 400 с ошибками по полям
func Validation(fields map[string]string) ErrorResponse {
	return ErrorResponse{
		Status:  "error",
		Error:   CodeValidation,
		Details: "Request validation failed",
		Fields:  fields,
	}
}
