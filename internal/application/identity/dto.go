package identity

// RegisterRequest represents a request to create a storefront account
type RegisterRequest struct {
	Name     string `json:"name" binding:"max=200"`
	Email    string `json:"email" binding:"max=200"`
	Password string `json:"password" binding:"max=72"`
}

// LoginRequest represents a credential check
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
