// internal/persona/persona.go
// Package persona defines the synthetic user identities the engine registers
// with and generates deterministic-shape test data for form interactions.
package persona

// Persona is a synthetic user identity. The three built-in personas cover a
// plain ASCII user, a second distinct identity, and a boundary-testing
// identity with non-ASCII and punctuated values.
type Persona struct {
	Name        string
	EmailPrefix string
	FirstName   string
	LastName    string
	Age         string
	Phone       string
	Address     string
	City        string
	Country     string
	Company     string
	Behavior    string
}

// Defaults returns the built-in persona roster in registration order.
func Defaults() []Persona {
	return []Persona{
		{
			Name:        "regular_user",
			EmailPrefix: "testuser",
			FirstName:   "John",
			LastName:    "Doe",
			Age:         "25",
			Phone:       "+1234567890",
			Address:     "123 Main St",
			City:        "New York",
			Country:     "USA",
			Company:     "Test Corp",
			Behavior:    "cautious",
		},
		{
			Name:        "power_user",
			EmailPrefix: "poweruser",
			FirstName:   "Jane",
			LastName:    "Smith",
			Age:         "35",
			Phone:       "+1987654321",
			Address:     "456 Oak Ave",
			City:        "San Francisco",
			Country:     "USA",
			Company:     "Tech Solutions",
			Behavior:    "aggressive",
		},
		{
			Name:        "edge_case_user",
			EmailPrefix: "edgeuser",
			FirstName:   "Александр",
			LastName:    "O'Connor-Smith",
			Age:         "99",
			Phone:       "+7-800-555-0199",
			Address:     "Улица Пушкина, дом Колотушкина",
			City:        "Москва",
			Country:     "Россия",
			Company:     "ООО 'Тест & Ко'",
			Behavior:    "boundary_testing",
		},
	}
}
