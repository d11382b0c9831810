// internal/persona/generator_test.go
package persona

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultsRoster(t *testing.T) {
	ps := Defaults()
	require.Len(t, ps, 3)
	assert.Equal(t, "regular_user", ps[0].Name)
	assert.Equal(t, "power_user", ps[1].Name)
	assert.Equal(t, "edge_case_user", ps[2].Name)
	// The boundary persona must keep its non-ASCII values intact.
	assert.Equal(t, "Александр", ps[2].FirstName)
	assert.Equal(t, "O'Connor-Smith", ps[2].LastName)
}

func TestRegistrationSlots(t *testing.T) {
	g := NewDataGenerator()
	p := Defaults()[0]
	data := g.Registration(p)

	require.Contains(t, data, "email")
	assert.True(t, strings.HasPrefix(data["email"], "testuser."))
	assert.True(t, strings.HasSuffix(data["email"], "@testmail.com"))
	assert.Equal(t, TestPassword, data["password"])
	assert.Equal(t, data["password"], data["password_confirm"])
	assert.Equal(t, "John Doe", data["name"])
	assert.Equal(t, data["name"], data["full_name"])
	assert.Equal(t, data["zip"], data["postal_code"])
}

func TestRegistrationUniqueness(t *testing.T) {
	g := NewDataGenerator()
	p := Defaults()[1]

	seenEmail := make(map[string]bool)
	seenUser := make(map[string]bool)
	for i := 0; i < 200; i++ {
		data := g.Registration(p)
		require.False(t, seenEmail[data["email"]], "duplicate email on call %d: %s", i, data["email"])
		require.False(t, seenUser[data["username"]], "duplicate username on call %d: %s", i, data["username"])
		seenEmail[data["email"]] = true
		seenUser[data["username"]] = true
	}
}

func TestSearchUsesOneTerm(t *testing.T) {
	g := NewDataGenerator()
	for i := 0; i < 20; i++ {
		data := g.Search()
		assert.Equal(t, data["search"], data["query"])
		assert.Equal(t, data["query"], data["q"])
		assert.Contains(t, searchTerms, data["search"])
	}
}

func TestSubscriptionSlots(t *testing.T) {
	g := NewDataGenerator()
	data := g.Subscription()
	assert.True(t, strings.HasPrefix(data["email"], "testsub."))
	assert.Equal(t, "true", data["newsletter"])
}
