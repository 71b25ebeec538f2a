package dto

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ValidationErrorResponse 400 con el detalle de campos inválidos.
type ValidationErrorResponse struct {
	Code    string       `json:"code"`
	Message string       `json:"message"`
	Fields  []FieldError `json:"fields"`
}

// FieldError campo que no cumple una regla de validación.
type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}
