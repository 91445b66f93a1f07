package books

type AddBookPayload struct {
	Title  string  `json:"title" mod:"trim" validate:"required,max=500"`
	Author string  `json:"author" mod:"trim" validate:"required,max=300"`
	ISBN   *string `json:"isbn,omitempty" mod:"trim" validate:"omitempty,max=20"`
}
