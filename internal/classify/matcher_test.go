// internal/classify/matcher_test.go
package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchValueOrder(t *testing.T) {
	data := map[string]string{
		"email":            "a@b.test",
		"username":         "user_x",
		"password":         "pw",
		"password_confirm": "pw2",
		"first_name":       "John",
		"last_name":        "Doe",
		"name":             "John Doe",
		"phone":            "+1",
		"address":          "addr",
		"city":             "NYC",
		"country":          "USA",
		"company":          "Corp",
		"age":              "25",
		"zip":              "12345",
	}

	tests := []struct {
		label       string
		name, ftype string
		placeholder string
		want        string
		wantOK      bool
	}{
		{"email by name", "email", "text", "", "a@b.test", true},
		{"email by placeholder", "f1", "text", "Your e-mail", "a@b.test", true},
		{"confirm before plain password", "password_confirm", "password", "", "pw2", true},
		{"repeat also means confirm", "pw", "password", "Repeat password", "pw2", true},
		{"plain password", "password", "password", "", "pw", true},
		{"username", "login", "text", "", "user_x", true},
		{"first name", "fname", "text", "", "John", true},
		{"last name", "surname", "text", "", "Doe", true},
		{"full name when no user token", "display_name", "text", "", "John Doe", true},
		{"name containing user maps to username", "user_name", "text", "", "user_x", true},
		{"phone", "tel", "text", "", "+1", true},
		{"address", "address_line1", "text", "", "addr", true},
		{"city", "city", "text", "", "NYC", true},
		{"country", "country", "text", "", "USA", true},
		{"company", "organization", "text", "", "Corp", true},
		{"age", "age", "number", "", "25", true},
		{"zip", "postal", "text", "", "12345", true},
		{"checkbox skipped", "agree_terms", "checkbox", "", "", false},
		{"unnamed text gets generic value", "", "text", "", GenericTextValue, true},
		{"named unmatched field skipped", "captcha_token", "hidden", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			got, ok := MatchValue(field(tt.name, tt.ftype, tt.placeholder), data)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMatchValueDeterministic(t *testing.T) {
	data := map[string]string{"email": "a@b.test"}
	f := field("contact_email", "text", "")
	v1, ok1 := MatchValue(f, data)
	v2, ok2 := MatchValue(f, data)
	assert.Equal(t, ok1, ok2)
	assert.Equal(t, v1, v2)
}

func TestMatchValueMissingSlot(t *testing.T) {
	// A rule can hit a slot the data set does not carry (search data has no
	// email slot); the field is then skipped rather than filled with zero.
	_, ok := MatchValue(field("email", "email", ""), map[string]string{"q": "test"})
	assert.False(t, ok)
}
