package lending

type BorrowBookPayload struct {
	BorrowerID int `json:"borrower_id" validate:"required,min=1"`
}
