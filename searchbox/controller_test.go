package searchbox

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xhd2015/partsearch/data/storage"
	"github.com/xhd2015/partsearch/data/storage/memory"
	"github.com/xhd2015/partsearch/models"
)

type harness struct {
	clock   *fakeClock
	catalog *fakeCatalog
	queue   *workQueue
	c       *Controller
}

// newHarness builds a controller on a fake clock. With queued=true
// background work waits in h.queue; otherwise it runs inline.
func newHarness(t *testing.T, queued bool, mutate ...func(*Options)) *harness {
	t.Helper()
	h := &harness{
		clock:   &fakeClock{},
		catalog: newFakeCatalog(),
		queue:   &workQueue{},
	}
	opts := Options{
		Catalog: h.catalog,
		Clock:   h.clock,
		Post:    func(fn func()) { fn() },
		Go:      func(fn func()) { fn() },
	}
	if queued {
		opts.Go = h.queue.Go
	}
	for _, m := range mutate {
		m(&opts)
	}
	h.c = New(opts)
	t.Cleanup(h.c.Close)
	return h
}

func suggestions(labels ...string) []models.Suggestion {
	list := make([]models.Suggestion, 0, len(labels))
	for _, l := range labels {
		list = append(list, models.Suggestion{ID: models.PartID("id-" + l), Label: l})
	}
	return list
}

func TestEmptyQuery_ClearsSynchronouslyWithoutRequest(t *testing.T) {
	h := newHarness(t, false)
	h.catalog.suggestions["ab"] = suggestions("AB-1", "AB-2")

	h.c.OnQueryChange("ab")
	h.clock.Advance(DefaultDebounce)
	require.Len(t, h.c.State().Suggestions, 2)

	h.c.OnQueryChange("")
	assert.Empty(t, h.c.State().Suggestions)
	assert.Equal(t, 0, h.clock.pending())

	h.clock.Advance(time.Second)
	assert.Equal(t, []string{"ab"}, h.catalog.suggestionQueries)
}

func TestEmptyQuery_FromStartNeverRequests(t *testing.T) {
	h := newHarness(t, false)

	h.c.OnQueryChange("")
	h.clock.Advance(time.Second)

	assert.Empty(t, h.catalog.suggestionQueries)
	assert.Empty(t, h.c.State().Suggestions)
}

func TestDebounce_OnlyFinalTextRequested(t *testing.T) {
	h := newHarness(t, false)

	for _, q := range []string{"w", "wi", "wip", "wipe"} {
		h.c.OnQueryChange(q)
		h.clock.Advance(100 * time.Millisecond)
	}
	assert.Equal(t, 1, h.clock.pending())
	assert.Empty(t, h.catalog.suggestionQueries)

	h.clock.Advance(400 * time.Millisecond)
	assert.Equal(t, []string{"wipe"}, h.catalog.suggestionQueries)
	assert.Equal(t, 0, h.clock.pending())
}

func TestDebounce_AbcThenAbcdWithin200ms(t *testing.T) {
	h := newHarness(t, false)

	h.c.OnQueryChange("abc")
	h.clock.Advance(200 * time.Millisecond)
	h.c.OnQueryChange("abcd")

	h.clock.Advance(499 * time.Millisecond)
	assert.Empty(t, h.catalog.suggestionQueries)

	h.clock.Advance(time.Millisecond)
	assert.Equal(t, []string{"abcd"}, h.catalog.suggestionQueries)

	h.clock.Advance(5 * time.Second)
	assert.Len(t, h.catalog.suggestionQueries, 1)
}

func TestFencing_StaleResponseDiscarded(t *testing.T) {
	h := newHarness(t, true)
	h.catalog.suggestions["abc"] = suggestions("OLD")
	h.catalog.suggestions["abcd"] = suggestions("NEW-1", "NEW-2")

	h.c.OnQueryChange("abc")
	h.clock.Advance(DefaultDebounce)
	h.c.OnQueryChange("abcd")
	h.clock.Advance(DefaultDebounce)
	require.Len(t, h.queue.jobs, 2)
	assert.True(t, h.c.State().Loading)

	// newer resolves first, older afterwards
	h.queue.run(1)
	h.queue.run(0)

	state := h.c.State()
	assert.Equal(t, suggestions("NEW-1", "NEW-2"), state.Suggestions)
	assert.False(t, state.Loading)

	// the superseded request's context was canceled
	require.NotNil(t, h.catalog.lastSuggestCtx)
	assert.ErrorIs(t, h.catalog.lastSuggestCtx.Err(), context.Canceled)
}

func TestFencing_ClearWhileInFlight(t *testing.T) {
	h := newHarness(t, true)
	h.catalog.suggestions["abc"] = suggestions("LATE")

	h.c.OnQueryChange("abc")
	h.clock.Advance(DefaultDebounce)
	h.c.OnQueryChange("")
	h.queue.runAll()

	assert.Empty(t, h.c.State().Suggestions)
	assert.False(t, h.c.State().Loading)
}

func TestIsExpanded_FalseWhenListEmpty(t *testing.T) {
	h := newHarness(t, false)
	h.catalog.suggestions["ab"] = suggestions("AB-1")

	h.c.OnFocus()
	state := h.c.State()
	assert.True(t, state.Open)
	assert.False(t, state.IsExpanded())

	h.c.OnQueryChange("ab")
	h.clock.Advance(DefaultDebounce)
	assert.True(t, h.c.State().IsExpanded())

	h.c.OnQueryChange("")
	assert.False(t, h.c.State().IsExpanded())

	h.c.OnQueryChange("zz")
	h.clock.Advance(DefaultDebounce)
	assert.False(t, h.c.State().IsExpanded(), "empty result keeps the list hidden")
}

func TestSelect_ClearsPreviousProductBeforeResolve(t *testing.T) {
	h := newHarness(t, true)

	h.c.Select("1")
	h.queue.runAll()
	require.NotNil(t, h.c.State().Product)
	assert.Equal(t, models.PartID("1"), h.c.State().Product.ID)

	h.c.Select("2")
	assert.Nil(t, h.c.State().Product)
	assert.False(t, h.c.State().CardVisible())
	assert.True(t, h.c.State().Selecting)

	h.queue.runAll()
	require.NotNil(t, h.c.State().Product)
	assert.Equal(t, models.PartID("2"), h.c.State().Product.ID)
}

func TestSelect_Id42PopulatesAndHidesList(t *testing.T) {
	h := newHarness(t, true)
	h.catalog.suggestions["brake"] = []models.Suggestion{{ID: "42", Label: "BRK-42"}}
	h.catalog.products["42"] = productResult{product: &models.Product{
		ID:         "42",
		PartNumber: "BRK-42",
		BrandName:  "Acme",
	}}

	h.c.OnFocus()
	h.c.OnQueryChange("brake")
	h.clock.Advance(DefaultDebounce)
	h.queue.runAll()
	require.True(t, h.c.State().IsExpanded())

	require.True(t, h.c.SelectHighlighted())
	assert.True(t, h.c.State().IsExpanded(), "list stays until the detail resolves")

	h.queue.runAll()
	assert.Equal(t, []models.PartID{"42"}, h.catalog.productIDs)
	state := h.c.State()
	require.NotNil(t, state.Product)
	assert.Equal(t, "BRK-42", state.Product.PartNumber)
	assert.False(t, state.IsExpanded())
	assert.False(t, state.Selecting)
}

func TestSelect_StaleDetailDiscarded(t *testing.T) {
	h := newHarness(t, true)

	h.c.Select("1")
	h.c.Select("2")
	h.queue.run(1)
	h.queue.run(0)

	require.NotNil(t, h.c.State().Product)
	assert.Equal(t, models.PartID("2"), h.c.State().Product.ID)
}

func TestBlur_HidesAfterDelay(t *testing.T) {
	h := newHarness(t, false)
	h.catalog.suggestions["ab"] = suggestions("AB-1")

	h.c.OnFocus()
	h.c.OnQueryChange("ab")
	h.clock.Advance(DefaultDebounce)

	h.c.OnBlur()
	h.clock.Advance(DefaultBlurDelay - time.Millisecond)
	assert.True(t, h.c.State().IsExpanded())

	h.clock.Advance(time.Millisecond)
	assert.False(t, h.c.State().IsExpanded())
	assert.False(t, h.c.State().Open)
}

func TestBlur_FocusCancelsPendingHide(t *testing.T) {
	h := newHarness(t, false)

	h.c.OnFocus()
	h.c.OnBlur()
	h.clock.Advance(50 * time.Millisecond)
	h.c.OnFocus()
	h.clock.Advance(time.Second)

	assert.True(t, h.c.State().Open)
}

func TestBlur_SuppressedWhileSelectionPending(t *testing.T) {
	h := newHarness(t, true)
	h.catalog.suggestions["ab"] = suggestions("AB-1")

	h.c.OnFocus()
	h.c.OnQueryChange("ab")
	h.clock.Advance(DefaultDebounce)
	h.queue.runAll()

	h.c.Select("id-AB-1")
	h.c.OnBlur()
	h.clock.Advance(time.Second)
	assert.True(t, h.c.State().Open, "hide must wait for the selection")

	h.queue.runAll()
	assert.False(t, h.c.State().Open)
	assert.NotNil(t, h.c.State().Product)
}

func TestBlur_SelectionCancelsScheduledHide(t *testing.T) {
	h := newHarness(t, true)

	h.c.OnFocus()
	h.c.OnBlur()
	h.clock.Advance(50 * time.Millisecond)
	h.c.Select("7")
	h.clock.Advance(time.Second)
	assert.True(t, h.c.State().Open)

	h.queue.runAll()
	assert.False(t, h.c.State().Open)
}

func TestBlur_ZeroDelayHidesImmediately(t *testing.T) {
	h := newHarness(t, false, func(o *Options) { o.BlurDelay = -1 })

	h.c.OnFocus()
	h.c.OnBlur()
	assert.False(t, h.c.State().Open)
	assert.Equal(t, 0, h.clock.pending())
}

func TestSuggestionFailure_KeepsPreviousAndSetsNotice(t *testing.T) {
	h := newHarness(t, false)
	h.catalog.suggestions["ab"] = suggestions("AB-1")
	h.catalog.suggestions["abcd"] = suggestions("ABCD-1")

	h.c.OnQueryChange("ab")
	h.clock.Advance(DefaultDebounce)

	h.catalog.suggestionErr = &storage.FetchError{Kind: storage.ErrStatus, Op: "suggestions", StatusCode: 503}
	h.c.OnQueryChange("abc")
	h.clock.Advance(DefaultDebounce)

	state := h.c.State()
	assert.Equal(t, suggestions("AB-1"), state.Suggestions)
	require.NotNil(t, state.Notice)
	assert.Equal(t, NoticeSuggestions, state.Notice.Kind)
	assert.Contains(t, state.Notice.Message, "status error")

	h.catalog.suggestionErr = nil
	h.c.OnQueryChange("abcd")
	h.clock.Advance(DefaultDebounce)
	assert.Nil(t, h.c.State().Notice)
	assert.Equal(t, suggestions("ABCD-1"), h.c.State().Suggestions)
}

func TestDetailFailure_RestoresPreviousProduct(t *testing.T) {
	h := newHarness(t, true)
	h.catalog.products["bad"] = productResult{err: &storage.FetchError{Kind: storage.ErrMalformed, Op: "product"}}

	h.c.Select("1")
	h.queue.runAll()

	h.c.Select("bad")
	assert.Nil(t, h.c.State().Product)
	h.queue.runAll()

	state := h.c.State()
	require.NotNil(t, state.Product)
	assert.Equal(t, models.PartID("1"), state.Product.ID)
	require.NotNil(t, state.Notice)
	assert.Equal(t, NoticeProduct, state.Notice.Kind)
	assert.Contains(t, state.Notice.Message, "malformed")
	assert.False(t, state.Selecting)

	h.c.DismissNotice()
	assert.Nil(t, h.c.State().Notice)
}

func TestCatalogPanic_BecomesNotice(t *testing.T) {
	h := newHarness(t, false, func(o *Options) {
		o.Catalog = panicCatalog{}
	})

	h.c.OnQueryChange("x")
	assert.NotPanics(t, func() {
		h.clock.Advance(DefaultDebounce)
	})
	require.NotNil(t, h.c.State().Notice)
	assert.False(t, h.c.State().Loading)
}

type panicCatalog struct{}

func (panicCatalog) Suggestions(ctx context.Context, query string) ([]models.Suggestion, error) {
	panic("boom")
}

func (panicCatalog) Product(ctx context.Context, id models.PartID) (*models.Product, error) {
	panic("boom")
}

func TestClose_StopsTimersAndIgnoresLateResults(t *testing.T) {
	h := newHarness(t, true)
	h.catalog.suggestions["a"] = suggestions("A-1")

	h.c.OnQueryChange("a")
	h.clock.Advance(DefaultDebounce)
	require.Len(t, h.queue.jobs, 1)

	h.c.OnQueryChange("ab")
	h.c.OnBlur()
	h.c.Close()
	assert.Equal(t, 0, h.clock.pending())

	h.queue.runAll()
	h.clock.Advance(time.Second)
	assert.Empty(t, h.c.State().Suggestions)
	assert.Equal(t, []string{"a"}, h.catalog.suggestionQueries)

	// calls after teardown are no-ops
	h.c.OnQueryChange("abc")
	h.c.Select("1")
	h.clock.Advance(time.Second)
	assert.Len(t, h.catalog.suggestionQueries, 1)
	assert.Empty(t, h.catalog.productIDs)
}

func TestMoveHighlight_Clamps(t *testing.T) {
	h := newHarness(t, false)
	h.catalog.suggestions["p"] = suggestions("P-1", "P-2", "P-3")

	h.c.MoveHighlight(1)
	assert.Equal(t, 0, h.c.State().Highlight)

	h.c.OnFocus()
	h.c.OnQueryChange("p")
	h.clock.Advance(DefaultDebounce)

	h.c.MoveHighlight(1)
	h.c.MoveHighlight(5)
	assert.Equal(t, 2, h.c.State().Highlight)
	h.c.MoveHighlight(-10)
	assert.Equal(t, 0, h.c.State().Highlight)

	h.c.MoveHighlight(2)
	require.True(t, h.c.SelectHighlighted())
	assert.Equal(t, []models.PartID{"id-P-3"}, h.catalog.productIDs)
}

func TestSelectHighlighted_NeedsVisibleList(t *testing.T) {
	h := newHarness(t, false)
	h.catalog.suggestions["p"] = suggestions("P-1")

	h.c.OnQueryChange("p")
	h.clock.Advance(DefaultDebounce)
	// never focused
	assert.False(t, h.c.SelectHighlighted())
	assert.Empty(t, h.catalog.productIDs)
}

func TestThumbnailAndHistory(t *testing.T) {
	history := memory.NewHistoryService()
	var refs []string
	h := newHarness(t, false, func(o *Options) {
		o.History = history
		o.Thumbnail = func(ctx context.Context, ref string) ([]string, error) {
			refs = append(refs, ref)
			if ref == "broken.jpg" {
				return nil, &storage.FetchError{Kind: storage.ErrMalformed, Op: "asset"}
			}
			return []string{"##", "##"}, nil
		}
	})
	h.catalog.products["1"] = productResult{product: &models.Product{ID: "1", PartNumber: "P-1", ImageRef: "p1.jpg"}}
	h.catalog.products["2"] = productResult{product: &models.Product{ID: "2", PartNumber: "P-2", ImageRef: "broken.jpg"}}

	h.c.Select("1")
	assert.Equal(t, []string{"##", "##"}, h.c.State().Thumbnail)

	h.c.Select("2")
	state := h.c.State()
	assert.Nil(t, state.Thumbnail)
	require.NotNil(t, state.Notice)
	assert.Equal(t, NoticeImage, state.Notice.Kind)
	require.NotNil(t, state.Product, "an image failure keeps the product")
	assert.Equal(t, []string{"p1.jpg", "broken.jpg"}, refs)

	entries, err := history.List(storage.HistoryListOptions{})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "P-2", entries[0].PartNumber)
	assert.Equal(t, models.PartID("1"), entries[1].ProductID)
}

func TestThumbnail_StaleSelectionDropped(t *testing.T) {
	h := newHarness(t, true, func(o *Options) {
		o.Thumbnail = func(ctx context.Context, ref string) ([]string, error) {
			return []string{ref}, nil
		}
	})
	h.catalog.products["1"] = productResult{product: &models.Product{ID: "1", ImageRef: "one.jpg"}}

	h.c.Select("1")
	h.queue.run(0)
	// detail resolved, thumbnail job queued
	require.Len(t, h.queue.jobs, 1)
	h.c.Select("2")
	h.queue.runAll()

	state := h.c.State()
	require.NotNil(t, state.Product)
	assert.Equal(t, models.PartID("2"), state.Product.ID)
	assert.Nil(t, state.Thumbnail)
}

func TestGuard(t *testing.T) {
	err := guard(func() error { panic("x") })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "panic: x")

	want := errors.New("plain")
	assert.Equal(t, want, guard(func() error { return want }))
}
