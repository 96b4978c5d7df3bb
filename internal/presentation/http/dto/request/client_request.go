package request

// CreateClientRequest registers a walk-in client
type CreateClientRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=255"`
	Phone    string `json:"phone" binding:"omitempty,max=30"`
	Document string `json:"document" binding:"omitempty,max=30"`
	Email    string `json:"email" binding:"omitempty,email,max=255"`
}
