package errcodes

import (
	"fmt"
	"net/http"
)

// Error is an error that is safe to show to API callers. Label is the short
// category shown in the "error" field of the response; Code is the stable
// machine-readable identifier.
type Error struct {
	HTTPCode int
	Label    string
	Message  string
	Code     string
	// Fields maps request fields to what is wrong with them. Only set for
	// request validation failures.
	Fields map[string]string
}

func (err *Error) Error() string {
	return err.Message
}

func (err *Error) As(target interface{}) bool {
	te, ok := target.(*Error)
	if !ok {
		return false
	}
	*te = *err
	return true
}

func (err *Error) Is(target error) bool {
	te, ok := target.(*Error)
	if !ok {
		return false
	}
	return te.HTTPCode == err.HTTPCode &&
		te.Message == err.Message &&
		te.Code == err.Code
}

// NotFound returns a 404 error with a message indicating the given resource.
func NotFound(resource string) error {
	return &Error{
		HTTPCode: http.StatusNotFound,
		Label:    "Not Found",
		Message:  resource + " not found.",
		Code:     "not_found",
	}
}

func BookNotFound(id int) error {
	return &Error{
		HTTPCode: http.StatusNotFound,
		Label:    "Book Not Found",
		Message:  fmt.Sprintf("Book not found with ID: %d", id),
		Code:     "book_not_found",
	}
}

func BorrowerNotFound(id int) error {
	return &Error{
		HTTPCode: http.StatusNotFound,
		Label:    "Borrower Not Found",
		Message:  fmt.Sprintf("Borrower not found with ID: %d", id),
		Code:     "borrower_not_found",
	}
}

// BookAlreadyBorrowed is returned when borrowing a book that already
// references a borrower, including the borrower asking for it again.
func BookAlreadyBorrowed(id int) error {
	return &Error{
		HTTPCode: http.StatusConflict,
		Label:    "Book Already Borrowed",
		Message:  fmt.Sprintf("Book with ID %d is already borrowed", id),
		Code:     "book_already_borrowed",
	}
}

func BookNotBorrowed(id int) error {
	return &Error{
		HTTPCode: http.StatusConflict,
		Label:    "Book Not Borrowed",
		Message:  fmt.Sprintf("Book with ID %d is not borrowed", id),
		Code:     "book_not_borrowed",
	}
}

func DuplicateEmail(email string) error {
	return &Error{
		HTTPCode: http.StatusConflict,
		Label:    "Duplicate Email",
		Message:  "Email already exists: " + email,
		Code:     "duplicate_email",
	}
}

// ValidationFailed returns a 400 error carrying a message per invalid field.
func ValidationFailed(fields map[string]string) error {
	return &Error{
		HTTPCode: http.StatusBadRequest,
		Label:    "Validation Failed",
		Message:  "Request validation failed",
		Code:     "validation_failed",
		Fields:   fields,
	}
}

func UnsupportedMediaType() error {
	return &Error{
		HTTPCode: http.StatusUnsupportedMediaType,
		Label:    "Unsupported Media Type",
		Message:  "Unsupported Media Type",
		Code:     "unsupported_media_type",
	}
}

func UnknownParameter(param string) error {
	return &Error{
		HTTPCode: http.StatusBadRequest,
		Label:    "Bad Request",
		Message:  fmt.Sprintf("Unknown Parameter %q", param),
		Code:     "unknown_parameter",
	}
}

func MalformedPayload() error {
	return &Error{
		HTTPCode: http.StatusBadRequest,
		Label:    "Bad Request",
		Message:  "Malformed Payload",
		Code:     "malformed_payload",
	}
}

func EmptyRequestBody() error {
	return &Error{
		HTTPCode: http.StatusBadRequest,
		Label:    "Bad Request",
		Message:  "Request body can't be empty.",
		Code:     "empty_request_body",
	}
}
