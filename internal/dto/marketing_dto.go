package dto

type NewsletterSubscribeRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ContactRequest struct {
	Name    string `json:"name" validate:"required,max=255"`
	Email   string `json:"email" validate:"required,email"`
	Message string `json:"message" validate:"required,max=5000"`
}
