package api

// swagger:model api.ErrorResponse
type ErrorResponse struct {
	Error string `json:"error" example:"internal server error"`
}

// FieldError is one violated constraint.
// swagger:model api.FieldError
type FieldError struct {
	Field   string `json:"field" example:"name"`
	Message string `json:"message" example:"This value should not be blank."`
}

// swagger:model api.ValidationErrorResponse
type ValidationErrorResponse struct {
	Errors []FieldError `json:"errors"`
}

// swagger:model api.TokenResponse
type TokenResponse struct {
	Token string `json:"token" example:"eyJhbGciOi..."`
}
