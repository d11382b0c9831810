// internal/persona/generator.go
package persona

import (
	"fmt"
	"math/rand"
	"sync"
	"time"
)

const (
	// TestPassword is the fixed credential used for every synthetic signup.
	TestPassword = "TestPass123!@#"

	suffixAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
	suffixLen      = 6
)

// DataGenerator produces test data sets keyed by canonical slot names. Email
// and username values are unique for the lifetime of the process: the
// timestamp component is forced strictly monotonic and a random suffix is
// appended on top.
type DataGenerator struct {
	mu       sync.Mutex
	lastUnix int64
	rng      *rand.Rand
}

// NewDataGenerator returns a generator seeded from the current time.
func NewDataGenerator() *DataGenerator {
	return &DataGenerator{
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (g *DataGenerator) nextStamp() (int64, string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	now := time.Now().Unix()
	if now <= g.lastUnix {
		now = g.lastUnix + 1
	}
	g.lastUnix = now
	b := make([]byte, suffixLen)
	for i := range b {
		b[i] = suffixAlphabet[g.rng.Intn(len(suffixAlphabet))]
	}
	return now, string(b)
}

// Registration builds the full slot map for a registration or login attempt
// with the given persona.
func (g *DataGenerator) Registration(p Persona) map[string]string {
	ts, suffix := g.nextStamp()
	fullName := p.FirstName + " " + p.LastName
	return map[string]string{
		"email":            fmt.Sprintf("%s.%d.%s@testmail.com", p.EmailPrefix, ts, suffix),
		"username":         fmt.Sprintf("%s_%s", p.EmailPrefix, suffix),
		"password":         TestPassword,
		"password_confirm": TestPassword,
		"first_name":       p.FirstName,
		"last_name":        p.LastName,
		"name":             fullName,
		"full_name":        fullName,
		"age":              p.Age,
		"phone":            p.Phone,
		"address":          p.Address,
		"city":             p.City,
		"country":          p.Country,
		"company":          p.Company,
		"zip":              "12345",
		"postal_code":      "12345",
		"state":            "NY",
		"region":           "New York",
	}
}

// Contact builds a slot map for contact forms.
func (g *DataGenerator) Contact() map[string]string {
	ts, _ := g.nextStamp()
	return map[string]string{
		"name":    "Test User",
		"email":   fmt.Sprintf("testcontact.%d@example.com", ts),
		"subject": "Test inquiry from automated testing",
		"message": "This is a test message generated by automated testing system. Please ignore.",
		"phone":   "+1234567890",
		"company": "Test Company",
	}
}

var searchTerms = []string{"test", "example", "demo", "sample", "product"}

// Search builds a slot map for search forms. The same term is used for every
// query-style slot so the report shows one coherent query.
func (g *DataGenerator) Search() map[string]string {
	g.mu.Lock()
	term := searchTerms[g.rng.Intn(len(searchTerms))]
	g.mu.Unlock()
	return map[string]string{
		"search": term,
		"query":  term,
		"q":      term,
	}
}

// Subscription builds a slot map for newsletter signup forms.
func (g *DataGenerator) Subscription() map[string]string {
	ts, _ := g.nextStamp()
	return map[string]string{
		"email":      fmt.Sprintf("testsub.%d@example.com", ts),
		"newsletter": "true",
	}
}
