// internal/classify/matcher.go
package classify

import (
	"strings"

	"github.com/xkilldash9x/webscout-cli/api/schemas"
)

// GenericTextValue is the fallback typed into unnamed free-text fields.
const GenericTextValue = "Test input"

// MatchValue maps one form field to a value from the test data set. The rules
// run in a fixed order and the first hit wins; a second call with the same
// inputs always returns the same slot. ok=false means the field should be
// left untouched (checkboxes, unmatched named fields).
func MatchValue(field schemas.FieldDescriptor, data map[string]string) (value string, ok bool) {
	name := strings.ToLower(field.Name)
	ftype := strings.ToLower(field.Type)
	placeholder := strings.ToLower(field.Placeholder)
	hints := name + " " + ftype + " " + placeholder

	pick := func(slot string) (string, bool) {
		v, present := data[slot]
		return v, present
	}

	switch {
	case containsAny(hints, []string{"email", "e-mail"}):
		return pick("email")
	case containsAny(hints, []string{"password", "pass"}):
		if strings.Contains(hints, "confirm") || strings.Contains(hints, "repeat") {
			return pick("password_confirm")
		}
		return pick("password")
	case containsAny(hints, []string{"username", "user", "login"}):
		return pick("username")
	case containsAny(hints, []string{"first", "fname"}):
		return pick("first_name")
	case containsAny(hints, []string{"last", "lname", "surname"}):
		return pick("last_name")
	case strings.Contains(hints, "name") && !strings.Contains(hints, "user"):
		return pick("name")
	case containsAny(hints, []string{"phone", "tel"}):
		return pick("phone")
	case strings.Contains(hints, "address"):
		return pick("address")
	case strings.Contains(hints, "city"):
		return pick("city")
	case strings.Contains(hints, "country"):
		return pick("country")
	case containsAny(hints, []string{"company", "organization"}):
		return pick("company")
	case strings.Contains(hints, "age"):
		return pick("age")
	case containsAny(hints, []string{"zip", "postal"}):
		return pick("zip")
	case ftype == "checkbox":
		return "", false
	case ftype == "text" && name == "":
		return GenericTextValue, true
	}

	return "", false
}
