// internal/resolve/resolver_test.go
package resolve

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/webscout-cli/api/schemas"
)

type fakeElement struct {
	state       schemas.ElementState
	stateAfter  *schemas.ElementState // applied after ScrollIntoView
	stateErr    error
	clickErr    error
	scrolled    bool
	clickedWith []schemas.ClickStrategy
}

func (f *fakeElement) State(context.Context) (schemas.ElementState, error) {
	return f.state, f.stateErr
}

func (f *fakeElement) ScrollIntoView(context.Context) error {
	f.scrolled = true
	if f.stateAfter != nil {
		f.state = *f.stateAfter
	}
	return nil
}

func (f *fakeElement) Click(_ context.Context, s schemas.ClickStrategy) error {
	f.clickedWith = append(f.clickedWith, s)
	return f.clickErr
}

type fakeDriver struct {
	schemas.PageDriver
	elements map[string][]schemas.ElementHandle
	queryErr map[string]error
	queried  []string
}

func (f *fakeDriver) QueryAll(_ context.Context, selector string) ([]schemas.ElementHandle, error) {
	f.queried = append(f.queried, selector)
	if err := f.queryErr[selector]; err != nil {
		return nil, err
	}
	return f.elements[selector], nil
}

func newResolver(d *fakeDriver) *Resolver {
	r := NewResolver(d, nil)
	r.sleep = func(context.Context, time.Duration) {}
	return r
}

func TestCandidatesOrder(t *testing.T) {
	trigger := schemas.TriggerDescriptor{
		Text:       "Sign up",
		DataTestID: "signup-button",
		AriaLabel:  "Sign up",
		ClassName:  "btn btn-primary cta extra-class",
	}
	sels := Candidates(trigger)

	require.True(t, len(sels) > 10)
	assert.Equal(t, "button:has-text('Sign up')", sels[0])
	assert.Equal(t, "[role='button']:has-text('Sign up')", sels[1])
	assert.Equal(t, "div:has-text('Sign up')", sels[2])
	assert.Equal(t, "a:has-text('Sign up')", sels[3])
	assert.Equal(t, "span:has-text('Sign up')", sels[4])
	assert.Equal(t, "[data-testid='signup-button']", sels[5])
	assert.Equal(t, "[aria-label='Sign up']", sels[6])
	// Only three class fragments make it in.
	assert.Contains(t, sels, ".btn")
	assert.Contains(t, sels, ".btn-primary")
	assert.Contains(t, sels, ".cta")
	assert.NotContains(t, sels, ".extra-class")
	// Generic tail closes the list.
	assert.Equal(t, "#register", sels[len(sels)-1])
}

func TestCandidatesEmptyTrigger(t *testing.T) {
	sels := Candidates(schemas.TriggerDescriptor{})
	// Nothing but the generic tail.
	assert.Len(t, sels, 10)
	assert.Equal(t, "[data-testid*='signup']", sels[0])
}

func TestCandidatesEscapesQuotes(t *testing.T) {
	sels := Candidates(schemas.TriggerDescriptor{Text: "It's free"})
	assert.Equal(t, `button:has-text('It\'s free')`, sels[0])
}

func TestResolveNormalClick(t *testing.T) {
	el := &fakeElement{state: schemas.ElementState{Visible: true, Enabled: true}}
	d := &fakeDriver{elements: map[string][]schemas.ElementHandle{
		"button:has-text('Join')": {el},
	}}

	out := newResolver(d).Resolve(context.Background(), schemas.TriggerDescriptor{Text: "Join"})
	require.True(t, out.Success)
	assert.Equal(t, schemas.ClickNormal, out.StrategyUsed)
	assert.Equal(t, "button:has-text('Join')", out.SelectorMatched)
	assert.Equal(t, []schemas.ClickStrategy{schemas.ClickNormal}, el.clickedWith)
}

func TestResolveScrollMakesVisible(t *testing.T) {
	el := &fakeElement{
		state:      schemas.ElementState{Visible: false, Enabled: true},
		stateAfter: &schemas.ElementState{Visible: true, Enabled: true},
	}
	d := &fakeDriver{elements: map[string][]schemas.ElementHandle{
		"button:has-text('Join')": {el},
	}}

	out := newResolver(d).Resolve(context.Background(), schemas.TriggerDescriptor{Text: "Join"})
	require.True(t, out.Success)
	assert.True(t, el.scrolled)
	assert.Equal(t, schemas.ClickNormal, out.StrategyUsed)
}

func TestResolveForcedWhenEnabledButHidden(t *testing.T) {
	el := &fakeElement{state: schemas.ElementState{Visible: false, Enabled: true}}
	d := &fakeDriver{elements: map[string][]schemas.ElementHandle{
		"button:has-text('Join')": {el},
	}}

	out := newResolver(d).Resolve(context.Background(), schemas.TriggerDescriptor{Text: "Join"})
	require.True(t, out.Success)
	assert.Equal(t, schemas.ClickForced, out.StrategyUsed)
}

func TestResolveScriptedWhenDisabled(t *testing.T) {
	el := &fakeElement{state: schemas.ElementState{Visible: false, Enabled: false}}
	d := &fakeDriver{elements: map[string][]schemas.ElementHandle{
		"button:has-text('Join')": {el},
	}}

	out := newResolver(d).Resolve(context.Background(), schemas.TriggerDescriptor{Text: "Join"})
	require.True(t, out.Success)
	assert.Equal(t, schemas.ClickScripted, out.StrategyUsed)
}

func TestResolveFallsThroughToNextSelector(t *testing.T) {
	failing := &fakeElement{
		state:    schemas.ElementState{Visible: true, Enabled: true},
		clickErr: errors.New("detached"),
	}
	working := &fakeElement{state: schemas.ElementState{Visible: true, Enabled: true}}
	d := &fakeDriver{
		elements: map[string][]schemas.ElementHandle{
			"button:has-text('Join')": {failing},
			"a:has-text('Join')":      {working},
		},
		queryErr: map[string]error{
			"div:has-text('Join')": errors.New("bad selector"),
		},
	}

	out := newResolver(d).Resolve(context.Background(), schemas.TriggerDescriptor{Text: "Join"})
	require.True(t, out.Success)
	assert.Equal(t, "a:has-text('Join')", out.SelectorMatched)
}

func TestResolveExhaustionIsFailureNotError(t *testing.T) {
	d := &fakeDriver{}
	out := newResolver(d).Resolve(context.Background(), schemas.TriggerDescriptor{Text: "Join"})
	assert.False(t, out.Success)
	assert.Empty(t, out.StrategyUsed)
	// Every candidate was tried.
	assert.True(t, len(d.queried) >= 10)
}

func TestResolveStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	d := &fakeDriver{}
	out := newResolver(d).Resolve(ctx, schemas.TriggerDescriptor{Text: "Join"})
	assert.False(t, out.Success)
	assert.Empty(t, d.queried)
}

func TestCandidatesDeduplicate(t *testing.T) {
	// A trigger whose class repeats a generic selector fragment must not
	// produce the same selector twice.
	trigger := schemas.TriggerDescriptor{ClassName: "signup-btn signup-btn"}
	sels := Candidates(trigger)
	count := 0
	for _, s := range sels {
		if strings.Contains(s, "signup-btn") {
			count++
		}
	}
	assert.Equal(t, 1, count)
}
