package response

type Response struct {
	Status  string      `json:"status"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

// ErrorResponse тело любого ответа с ошибкой. Field заполняется для ошибок
// валидации пользовательского ввода.
type ErrorResponse struct {
	Status  string `json:"status"`
	Error   string `json:"error"`
	Field   string `json:"field,omitempty"`
	Details string `json:"details,omitempty"`
}

func SuccessResponse(data interface{}) Response {
	return Response{
		Status: "success",
		Data:   data,
	}
}

func MessageResponse(message string) Response {
	return Response{
		Status:  "success",
		Message: message,
	}
}

func ErrorResponseWithDetails(err, details string) ErrorResponse {
	return ErrorResponse{
		Status:  "error",
		Error:   err,
		Details: details,
	}
}

func FieldError(field, details string) ErrorResponse {
	return ErrorResponse{
		Status:  "error",
		Error:   CodeValidation,
		Field:   field,
		Details: details,
	}
}
