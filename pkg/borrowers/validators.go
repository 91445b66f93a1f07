package borrowers

type RegisterBorrowerPayload struct {
	Name  string `json:"name" mod:"trim" validate:"required,max=300"`
	Email string `json:"email" mod:"trim" validate:"required,email,max=320"`
}
