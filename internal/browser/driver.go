// internal/browser/driver.go
// Package browser implements the PageDriver capability on top of a managed
// headless Chrome session (chromedp). It is the only package that talks CDP;
// everything above it consumes api/schemas interfaces.
package browser

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/xkilldash9x/webscout-cli/api/schemas"
	"github.com/xkilldash9x/webscout-cli/internal/config"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ErrElementGone is returned when a tagged element no longer exists, usually
// because the page navigated underneath the handle.
var ErrElementGone = errors.New("element no longer attached to the page")

// Driver owns one browser session for the lifetime of a run.
type Driver struct {
	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc
	tracker       *networkTracker
	cfg           config.BrowserConfig
	netCfg        config.NetworkConfig
	logger        *zap.Logger
}

// NewDriver launches the browser and prepares the session. The caller must
// Close the driver to tear the browser down.
func NewDriver(ctx context.Context, cfg config.BrowserConfig, netCfg config.NetworkConfig, logger *zap.Logger) (*Driver, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("browser")

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", cfg.Headless),
		chromedp.WindowSize(cfg.WindowWidth, cfg.WindowHeight),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
	)
	if cfg.IgnoreTLSErrors {
		opts = append(opts, chromedp.Flag("ignore-certificate-errors", true))
	}
	if cfg.UserAgent != "" {
		opts = append(opts, chromedp.UserAgent(cfg.UserAgent))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	// Start the browser process now so failures surface here, not on the
	// first navigation.
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}

	d := &Driver{
		allocCancel:   allocCancel,
		browserCtx:    browserCtx,
		browserCancel: browserCancel,
		cfg:           cfg,
		netCfg:        netCfg,
		logger:        logger,
	}
	d.tracker = newNetworkTracker(browserCtx, logger)
	return d, nil
}

// opCtx derives a chromedp-compatible context that also honours the caller's
// cancellation and deadline.
func (d *Driver) opCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	opCtx, cancel := context.WithCancel(d.browserCtx)
	stop := context.AfterFunc(ctx, cancel)
	return opCtx, func() {
		stop()
		cancel()
	}
}

// Navigate loads the URL and extracts a full snapshot. Failures never return
// a nil snapshot: partial loads produce whatever could be extracted plus an
// entry in Errors.
func (d *Driver) Navigate(ctx context.Context, url string) (*schemas.PageSnapshot, error) {
	start := time.Now()
	snap := emptySnapshot(url)

	opCtx, cancel := d.opCtx(ctx)
	defer cancel()

	navCtx, navCancel := context.WithTimeout(opCtx, d.netCfg.NavigationTimeout)
	defer navCancel()

	d.tracker.reset()
	err := chromedp.Run(navCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
	)
	if err != nil {
		snap.Errors = append(snap.Errors, fmt.Sprintf("failed to load page: %v", err))
		snap.LoadTimeSeconds = time.Since(start).Seconds()
		d.logger.Warn("Navigation failed.", zap.String("url", url), zap.Error(err))
		return snap, nil
	}

	// Let the network settle before extracting; a timeout here is normal.
	idleCtx, idleCancel := context.WithTimeout(opCtx, d.cfg.IdleTimeout)
	_ = d.tracker.waitIdle(idleCtx)
	idleCancel()

	snap.LoadTimeSeconds = time.Since(start).Seconds()
	snap.StatusCode = d.tracker.mainStatus()

	if err := d.extractInto(opCtx, snap); err != nil {
		snap.Errors = append(snap.Errors, fmt.Sprintf("failed to extract page info: %v", err))
	}
	return snap, nil
}

// Snapshot re-extracts the current page without navigating.
func (d *Driver) Snapshot(ctx context.Context) (*schemas.PageSnapshot, error) {
	opCtx, cancel := d.opCtx(ctx)
	defer cancel()

	url, _ := d.CurrentURL(ctx)
	snap := emptySnapshot(url)
	snap.StatusCode = d.tracker.mainStatus()
	if err := d.extractInto(opCtx, snap); err != nil {
		snap.Errors = append(snap.Errors, fmt.Sprintf("failed to extract page info: %v", err))
	}
	return snap, nil
}

func emptySnapshot(url string) *schemas.PageSnapshot {
	return &schemas.PageSnapshot{
		URL:      url,
		Links:    []string{},
		Images:   []string{},
		Forms:    []schemas.FormDescriptor{},
		MetaTags: map[string]string{},
		Errors:   []string{},
	}
}

func (d *Driver) extractInto(ctx context.Context, snap *schemas.PageSnapshot) error {
	var extracted struct {
		Title    string                   `json:"title"`
		Content  string                   `json:"content"`
		Links    []string                 `json:"links"`
		Images   []string                 `json:"images"`
		Forms    []schemas.FormDescriptor `json:"forms"`
		MetaTags map[string]string        `json:"meta_tags"`
	}
	if err := d.Evaluate(ctx, snapshotScript, &extracted); err != nil {
		return err
	}
	snap.Title = extracted.Title
	snap.TextContent = extracted.Content
	if extracted.Links != nil {
		snap.Links = extracted.Links
	}
	if extracted.Images != nil {
		snap.Images = extracted.Images
	}
	if extracted.Forms != nil {
		snap.Forms = extracted.Forms
	}
	if extracted.MetaTags != nil {
		snap.MetaTags = extracted.MetaTags
	}
	return nil
}

// CurrentURL returns the page's current location.
func (d *Driver) CurrentURL(ctx context.Context) (string, error) {
	opCtx, cancel := d.opCtx(ctx)
	defer cancel()

	var url string
	if err := chromedp.Run(opCtx, chromedp.Location(&url)); err != nil {
		return "", fmt.Errorf("failed to read location: %w", err)
	}
	return url, nil
}

// PageText returns the rendered inner text of the document body.
func (d *Driver) PageText(ctx context.Context) (string, error) {
	var text string
	err := d.Evaluate(ctx, `document.body ? document.body.innerText : ''`, &text)
	return text, err
}

// PageHTML returns the current outer HTML of the document.
func (d *Driver) PageHTML(ctx context.Context) (string, error) {
	var html string
	err := d.Evaluate(ctx, `document.documentElement ? document.documentElement.outerHTML : ''`, &html)
	return html, err
}

// QueryAll resolves a selector (CSS or tag:has-text) to element handles.
func (d *Driver) QueryAll(ctx context.Context, selector string) ([]schemas.ElementHandle, error) {
	selJSON, err := json.Marshal(selector)
	if err != nil {
		return nil, err
	}

	var ids []string
	if err := d.Evaluate(ctx, fmt.Sprintf(queryScript, selJSON), &ids); err != nil {
		return nil, fmt.Errorf("selector query failed: %w", err)
	}

	handles := make([]schemas.ElementHandle, 0, len(ids))
	for _, id := range ids {
		handles = append(handles, &element{driver: d, id: id})
	}
	return handles, nil
}

// CollectForms returns descriptors for every form on the current page.
func (d *Driver) CollectForms(ctx context.Context) ([]schemas.FormDescriptor, error) {
	var forms []schemas.FormDescriptor
	if err := d.Evaluate(ctx, collectFormsScript, &forms); err != nil {
		return nil, fmt.Errorf("form collection failed: %w", err)
	}
	return forms, nil
}

// CollectTriggers scans clickable elements for the given keywords.
func (d *Driver) CollectTriggers(ctx context.Context, keywords []string) ([]schemas.TriggerDescriptor, error) {
	kwJSON, err := json.Marshal(keywords)
	if err != nil {
		return nil, err
	}

	var triggers []schemas.TriggerDescriptor
	if err := d.Evaluate(ctx, fmt.Sprintf(collectTriggersScript, kwJSON), &triggers); err != nil {
		return nil, fmt.Errorf("trigger collection failed: %w", err)
	}
	return triggers, nil
}

// Fill sets the value of the first element matching the selector and fires
// input/change events.
func (d *Driver) Fill(ctx context.Context, selector, value string) error {
	selJSON, err := json.Marshal(selector)
	if err != nil {
		return err
	}
	valJSON, err := json.Marshal(value)
	if err != nil {
		return err
	}

	var ok bool
	if err := d.Evaluate(ctx, fmt.Sprintf(fillScript, selJSON, valJSON), &ok); err != nil {
		return fmt.Errorf("fill failed for %q: %w", selector, err)
	}
	if !ok {
		return fmt.Errorf("no element matches %q", selector)
	}
	return nil
}

// Evaluate runs a JS expression and unmarshals the result into out. Promises
// are awaited, so async IIFEs work. Pass nil to discard the result.
func (d *Driver) Evaluate(ctx context.Context, expression string, out any) error {
	opCtx, cancel := d.opCtx(ctx)
	defer cancel()

	awaitPromise := func(p *runtime.EvaluateParams) *runtime.EvaluateParams {
		return p.WithAwaitPromise(true)
	}
	if out == nil {
		return chromedp.Run(opCtx, chromedp.Evaluate(expression, nil, awaitPromise))
	}
	return chromedp.Run(opCtx, chromedp.Evaluate(expression, out, awaitPromise))
}

// WaitNetworkIdle blocks until in-flight requests settle or the context
// expires. Expiry is not an error.
func (d *Driver) WaitNetworkIdle(ctx context.Context) error {
	opCtx, cancel := d.opCtx(ctx)
	defer cancel()
	return d.tracker.waitIdle(opCtx)
}

// Close tears down the browser session.
func (d *Driver) Close() error {
	d.browserCancel()
	d.allocCancel()
	return nil
}

// element is a live handle addressed by its data-webscout-id tag.
type element struct {
	driver *Driver
	id     string
}

func (e *element) idJSON() string {
	b, _ := json.Marshal(e.id)
	return string(b)
}

// State reports current visibility and enablement.
func (e *element) State(ctx context.Context) (schemas.ElementState, error) {
	var res struct {
		Found   bool `json:"found"`
		Visible bool `json:"visible"`
		Enabled bool `json:"enabled"`
	}
	script := fmt.Sprintf(elementStateScript, e.idJSON())
	if err := e.driver.Evaluate(ctx, script, &res); err != nil {
		return schemas.ElementState{}, err
	}
	if !res.Found {
		return schemas.ElementState{}, ErrElementGone
	}
	return schemas.ElementState{Visible: res.Visible, Enabled: res.Enabled}, nil
}

// ScrollIntoView centers the element in the viewport.
func (e *element) ScrollIntoView(ctx context.Context) error {
	var ok bool
	script := fmt.Sprintf(scrollIntoViewScript, e.idJSON())
	if err := e.driver.Evaluate(ctx, script, &ok); err != nil {
		return err
	}
	if !ok {
		return ErrElementGone
	}
	return nil
}

// Click performs the requested click strategy. Normal clicks go through CDP
// input events with actionability checks; forced clicks synthesize the mouse
// event sequence from script; scripted clicks call the element's click().
func (e *element) Click(ctx context.Context, strategy schemas.ClickStrategy) error {
	switch strategy {
	case schemas.ClickNormal:
		opCtx, cancel := e.driver.opCtx(ctx)
		defer cancel()
		selector := fmt.Sprintf(`[data-webscout-id=%q]`, e.id)
		return chromedp.Run(opCtx, chromedp.Click(selector, chromedp.ByQuery))
	case schemas.ClickForced:
		return e.scriptClick(ctx, forcedClickScript)
	case schemas.ClickScripted:
		return e.scriptClick(ctx, scriptedClickScript)
	default:
		return fmt.Errorf("unknown click strategy %q", strategy)
	}
}

func (e *element) scriptClick(ctx context.Context, script string) error {
	var ok bool
	if err := e.driver.Evaluate(ctx, fmt.Sprintf(script, e.idJSON()), &ok); err != nil {
		return err
	}
	if !ok {
		return ErrElementGone
	}
	return nil
}
