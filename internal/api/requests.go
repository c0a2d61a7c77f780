package api

// swagger:model api.PhoneRequest
type PhoneRequest struct {
	Name        string  `json:"name" example:"Nom du modèle"`
	Description *string `json:"description" example:"Rapide description"`
	Price       *string `json:"price" example:"en euro"`
}

// swagger:model api.CreateUserRequest
type CreateUserRequest struct {
	Email    string `json:"email" validate:"required,email,max=180" example:"user@mail.com"`
	Password string `json:"password" validate:"required" example:"password"`
	Company  string `json:"company" validate:"max=255" example:"client"`
}

// swagger:model api.UpdateUserRequest
type UpdateUserRequest struct {
	Email   string `json:"email" example:"user@mail.com"`
	Company string `json:"company" example:"client"`
}

// swagger:model api.LoginRequest
type LoginRequest struct {
	Username string `json:"username" validate:"required" example:"admin@mail.com"`
	Password string `json:"password" validate:"required" example:"password"`
}
