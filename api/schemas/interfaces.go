// api/schemas/interfaces.go
package schemas

import "context"

// ElementState is the visibility/enablement snapshot of a live element.
type ElementState struct {
	Visible bool
	Enabled bool
}

// ElementHandle is a live reference to one element inside the current page.
// Handles are only valid until the next navigation.
type ElementHandle interface {
	// State reports current visibility and enablement.
	State(ctx context.Context) (ElementState, error)

	// ScrollIntoView scrolls the element into the viewport.
	ScrollIntoView(ctx context.Context) error

	// Click performs the given click strategy against the element.
	Click(ctx context.Context, strategy ClickStrategy) error
}

// PageDriver is the renderer capability the engine runs against. The concrete
// implementation lives in internal/browser; everything above it depends only
// on this interface so the decision logic stays testable without a browser.
type PageDriver interface {
	// Navigate loads the URL and returns a structured snapshot. Navigation
	// failures are folded into the snapshot's Errors field; the returned
	// snapshot is always non-nil and safe to consume.
	Navigate(ctx context.Context, url string) (*PageSnapshot, error)

	// Snapshot re-extracts a snapshot of the current page without navigating.
	Snapshot(ctx context.Context) (*PageSnapshot, error)

	// CurrentURL returns the page's current location.
	CurrentURL(ctx context.Context) (string, error)

	// PageText returns the rendered inner text of the document body.
	PageText(ctx context.Context) (string, error)

	// PageHTML returns the current outer HTML of the document.
	PageHTML(ctx context.Context) (string, error)

	// QueryAll resolves a selector to live element handles. The selector
	// grammar is CSS plus the `tag:has-text('...')` extension, which matches
	// elements of that tag whose trimmed text contains the given string
	// case-insensitively.
	QueryAll(ctx context.Context, selector string) ([]ElementHandle, error)

	// CollectForms returns descriptors for every form on the current page,
	// indexed from 1 in document order.
	CollectForms(ctx context.Context) ([]FormDescriptor, error)

	// CollectTriggers returns descriptors for clickable elements whose text,
	// aria-label or data-testid contains any of the given keywords.
	CollectTriggers(ctx context.Context, keywords []string) ([]TriggerDescriptor, error)

	// Fill sets the value of the first element matching the selector,
	// dispatching input/change events.
	Fill(ctx context.Context, selector, value string) error

	// Evaluate runs a JS expression in the page and unmarshals the result
	// into out. Pass nil to discard the result.
	Evaluate(ctx context.Context, expression string, out any) error

	// WaitNetworkIdle blocks until in-flight requests settle or the context
	// expires. Expiry is not an error; pages that never go idle are common.
	WaitNetworkIdle(ctx context.Context) error

	// Close tears down the browser session.
	Close() error
}

// Judgment is the oracle's structured guess for an ambiguous form. A zero
// Judgment means the oracle had nothing usable to say.
type Judgment struct {
	Purpose    string  `json:"purpose"`
	Confidence float64 `json:"confidence"`
}

// Judge is the classification oracle consulted only after every deterministic
// rule has returned unknown. Implementations must degrade gracefully: a
// malformed or unavailable oracle yields a zero Judgment, not a failed run.
type Judge interface {
	Judge(ctx context.Context, prompt string) (Judgment, error)

	// AnalyzePage asks for a free-form structured analysis of a page. Used
	// for the report's main-page analysis section.
	AnalyzePage(ctx context.Context, snapshot *PageSnapshot) (map[string]any, error)
}
