package binder

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type bookPayload struct {
	Title  string `json:"title" validate:"required,max=500"`
	Author string `json:"author" validate:"required,max=300"`
	ISBN   string `json:"isbn" validate:"omitempty,numeric"`
}

type borrowerPayload struct {
	Name  string `json:"name" validate:"required,max=300"`
	Email string `json:"email" validate:"required,email,max=320"`
}

type borrowPayload struct {
	BorrowerID int `json:"borrower_id" validate:"required,min=1"`
}

func validationMessages(t *testing.T, payload interface{}) map[string]string {
	t.Helper()

	b, err := New()
	require.NoError(t, err)

	err = b.validate.Struct(payload)
	require.Error(t, err)

	var verrs validator.ValidationErrors
	require.True(t, errors.As(err, &verrs))

	msgs := map[string]string{}
	for _, fe := range verrs {
		msgs[fe.Field()] = formatValidationError(fe)
	}
	return msgs
}

func TestFormatValidationError(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		payload interface{}
		want    map[string]string
	}{
		{
			name:    "missing title and author",
			payload: bookPayload{},
			want: map[string]string{
				"title":  `"title" is required`,
				"author": `"author" is required`,
			},
		},
		{
			name:    "title too long",
			payload: bookPayload{Title: strings.Repeat("a", 501), Author: "Ursula K. Le Guin"},
			want:    map[string]string{"title": `"title" length must be less than or equal to 500 characters`},
		},
		{
			name:    "isbn with an unmapped rule",
			payload: bookPayload{Title: "Lathe of Heaven", Author: "Ursula K. Le Guin", ISBN: "isbn-abc"},
			want:    map[string]string{"isbn": `"isbn" is invalid`},
		},
		{
			name:    "malformed email",
			payload: borrowerPayload{Name: "Genly Ai", Email: "genly-at-ekumen"},
			want:    map[string]string{"email": `"email" is not a valid email`},
		},
		{
			name:    "missing borrower id",
			payload: borrowPayload{},
			want:    map[string]string{"borrower_id": `"borrower_id" is required`},
		},
		{
			name:    "negative borrower id",
			payload: borrowPayload{BorrowerID: -3},
			want:    map[string]string{"borrower_id": `"borrower_id" must be greater than or equal to 1`},
		},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, validationMessages(t, tt.payload))
		})
	}
}

func TestCharacters(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "character", characters("1"))
	assert.Equal(t, "characters", characters("300"))
}

func TestFormatUnmarshalTypeError(t *testing.T) {
	t.Parallel()

	var payload borrowPayload
	err := json.Unmarshal([]byte(`{"borrower_id": "seven"}`), &payload)

	var typeErr *json.UnmarshalTypeError
	require.True(t, errors.As(err, &typeErr))

	field, msg := formatUnmarshalTypeError(typeErr)
	assert.Equal(t, "borrower_id", field)
	assert.Equal(t, `"borrower_id" should be of type int`, msg)
}

func TestFormatSchemaConversionError(t *testing.T) {
	t.Parallel()

	err := schema.ConversionError{Key: "borrower_id", Type: reflect.TypeOf(0)}
	assert.Equal(t, `"borrower_id" should be of type int`, formatSchemaConversionError(err))
}
