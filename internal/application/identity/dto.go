package identity

// SignUpInput contains the registration form
type SignUpInput struct {
	Name            string `json:"name" binding:"required,min=1,max=100"`
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required,min=6,max=72"`
	ConfirmPassword string `json:"confirmPassword" binding:"required,eqfield=Password"`
}

// SignInInput contains the sign-in form
type SignInInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UpdateProfileInput contains the profile form. An empty password keeps the current one.
type UpdateProfileInput struct {
	Name            string `json:"name" binding:"required,min=1,max=100"`
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"omitempty,min=6,max=72"`
	ConfirmPassword string `json:"confirmPassword" binding:"omitempty,eqfield=Password"`
}
