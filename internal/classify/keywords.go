// internal/classify/keywords.go
package classify

// Keyword sets driving the deterministic classification pass. Matching is a
// case-insensitive substring test against combined form and nearby text.
var (
	registrationKeywords = []string{
		"sign up", "register", "create account", "join", "get started",
		"create your account", "become a member", "start your journey",
		"join us", "create profile", "new account", "registration",
		"create a password", "create password", "birthdate", "birth date",
		"date of birth", "age verification",
	}

	loginKeywords = []string{
		"sign in", "login", "log in", "enter", "access account",
		"welcome back", "member login", "user login", "enter password",
	}

	contactKeywords      = []string{"contact", "message", "email us"}
	searchKeywords       = []string{"search"}
	subscriptionKeywords = []string{"subscribe", "newsletter"}

	// subscriptionContextKeywords applies to the email-without-password
	// fallback, where plain "updates" copy also counts.
	subscriptionContextKeywords = []string{"subscribe", "newsletter", "updates"}

	// passwordCreationPlaceholders force registration regardless of the
	// surrounding copy. Single-field overlay flows label the password box
	// this way before any other registration signal is visible.
	passwordCreationPlaceholders = []string{"create a password", "create password"}
)

// TriggerKeywords are the texts scanned for when hunting clickable elements
// that open signup overlays. Spaces are stripped when matched against
// data-testid, class and id attributes.
var TriggerKeywords = []string{
	"sign up", "signup", "register", "registration", "join", "create account",
	"get started", "start free", "join now", "create", "new account",
}

// AuthLinkTextKeywords and AuthLinkHrefKeywords identify anchors that lead to
// dedicated auth pages; text and href are matched independently.
var (
	AuthLinkTextKeywords = []string{"sign up", "register", "login", "sign in"}
	AuthLinkHrefKeywords = []string{"register", "login", "signup", "signin"}
)

// ModeSwitchScanKeywords select candidate in-overlay controls; a candidate is
// actually followed only when its text matches ModeSwitchKeywords, which is
// stricter ("join" alone opens too many unrelated menus).
var (
	ModeSwitchScanKeywords = []string{"sign up", "register", "create", "join"}
	ModeSwitchKeywords     = []string{"sign up", "register", "create"}
)
