// Package searchbox implements the interaction model of the product search
// box: debounced suggestion lookup, suggestion selection and product detail
// lookup. It holds no rendering code.
//
// Every exported method must be called from the UI goroutine. Timer
// callbacks and request completions are handed back through Options.Post
// so that state is only ever touched there.
package searchbox

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/xhd2015/partsearch/data/storage"
	"github.com/xhd2015/partsearch/log"
	"github.com/xhd2015/partsearch/models"
)

const (
	DefaultDebounce       = 500 * time.Millisecond
	DefaultBlurDelay      = 100 * time.Millisecond
	DefaultRequestTimeout = 10 * time.Second
)

// ThumbnailFunc loads the image named by ref and renders it as text lines.
type ThumbnailFunc func(ctx context.Context, ref string) ([]string, error)

type Options struct {
	Catalog storage.CatalogService
	// optional
	History   storage.HistoryService
	Thumbnail ThumbnailFunc

	Clock Clock

	// Post runs fn on the UI goroutine. When nil, fn runs inline and Go
	// also defaults to inline, which makes the controller synchronous.
	Post func(fn func())
	// Go starts background work. Defaults to a new goroutine.
	Go func(fn func())

	// zero values pick the defaults; a negative BlurDelay hides at once
	Debounce       time.Duration
	BlurDelay      time.Duration
	RequestTimeout time.Duration
}

type Controller struct {
	opts  Options
	state State

	focused bool

	debounce    Timer
	debounceGen uint64
	blur        Timer
	blurGen     uint64

	suggestSeq    uint64
	suggestCancel context.CancelFunc

	detailSeq    uint64
	detailCancel context.CancelFunc
	imageCancel  context.CancelFunc

	// what the card showed before the in-flight selection cleared it
	prevProduct   *models.Product
	prevThumbnail []string

	ctx    context.Context
	cancel context.CancelFunc
	closed bool
}

func New(opts Options) *Controller {
	if opts.Clock == nil {
		opts.Clock = RealClock
	}
	if opts.Post == nil {
		opts.Post = func(fn func()) { fn() }
		if opts.Go == nil {
			opts.Go = func(fn func()) { fn() }
		}
	}
	if opts.Go == nil {
		opts.Go = func(fn func()) { go fn() }
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.BlurDelay == 0 {
		opts.BlurDelay = DefaultBlurDelay
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = DefaultRequestTimeout
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Controller{
		opts:   opts,
		ctx:    ctx,
		cancel: cancel,
	}
}

// State returns a snapshot. Slices are shared and must not be modified.
func (c *Controller) State() State {
	return c.state
}

// OnQueryChange handles a new input value.
func (c *Controller) OnQueryChange(text string) {
	if c.closed {
		return
	}
	c.state.Query = text
	c.stopDebounce()

	if text == "" {
		// anything still in flight belongs to a query that no longer exists
		c.suggestSeq++
		cancelFn(&c.suggestCancel)
		c.state.Suggestions = nil
		c.state.Highlight = 0
		c.state.Loading = false
		c.clearNotice(NoticeSuggestions)
		return
	}

	gen := c.debounceGen
	c.debounce = c.opts.Clock.AfterFunc(c.opts.Debounce, func() {
		c.opts.Post(func() {
			c.fireDebounce(gen)
		})
	})
}

func (c *Controller) fireDebounce(gen uint64) {
	// a timer that fired just before being stopped still posts; its
	// generation is stale by then
	if c.closed || gen != c.debounceGen {
		return
	}
	c.debounce = nil
	c.debounceGen++
	if c.state.Query == "" {
		return
	}
	c.fetchSuggestions(c.state.Query)
}

func (c *Controller) fetchSuggestions(query string) {
	c.suggestSeq++
	seq := c.suggestSeq
	cancelFn(&c.suggestCancel)

	ctx, cancel := context.WithTimeout(c.ctx, c.opts.RequestTimeout)
	c.suggestCancel = cancel
	c.state.Loading = true

	log.Info(ctx, "fetch suggestions", "seq", seq, "query", query)
	catalog := c.opts.Catalog
	c.opts.Go(func() {
		var suggestions []models.Suggestion
		err := guard(func() error {
			var err error
			suggestions, err = catalog.Suggestions(ctx, query)
			return err
		})
		c.opts.Post(func() {
			cancel()
			c.applySuggestions(seq, query, suggestions, err)
		})
	})
}

func (c *Controller) applySuggestions(seq uint64, query string, suggestions []models.Suggestion, err error) {
	if c.closed || seq != c.suggestSeq {
		log.Info(context.Background(), "drop stale suggestions", "seq", seq, "latest", c.suggestSeq)
		return
	}
	c.suggestCancel = nil
	c.state.Loading = false
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		logFetchError("suggestions", err, "query", query)
		c.setNotice(NoticeSuggestions, "suggestions unavailable", err)
		return
	}
	c.state.Suggestions = suggestions
	c.state.Highlight = 0
	c.clearNotice(NoticeSuggestions)
	log.Info(context.Background(), "suggestions", "seq", seq, "count", len(suggestions))
}

// OnFocus opens the suggestion list.
func (c *Controller) OnFocus() {
	if c.closed {
		return
	}
	c.focused = true
	c.stopBlur()
	c.state.Open = true
}

// OnBlur closes the suggestion list after BlurDelay unless a selection is
// in flight, in which case the selection's resolution closes it.
func (c *Controller) OnBlur() {
	if c.closed {
		return
	}
	c.focused = false
	c.stopBlur()
	if c.state.Selecting {
		return
	}
	if c.opts.BlurDelay < 0 {
		c.state.Open = false
		return
	}
	gen := c.blurGen
	c.blur = c.opts.Clock.AfterFunc(c.opts.BlurDelay, func() {
		c.opts.Post(func() {
			c.fireBlur(gen)
		})
	})
}

func (c *Controller) fireBlur(gen uint64) {
	if c.closed || gen != c.blurGen {
		return
	}
	c.blur = nil
	c.blurGen++
	if c.state.Selecting {
		return
	}
	c.state.Open = false
}

// MoveHighlight moves the keyboard highlight, clamped to the list.
func (c *Controller) MoveHighlight(delta int) {
	n := len(c.state.Suggestions)
	if n == 0 {
		return
	}
	h := c.state.Highlight + delta
	if h < 0 {
		h = 0
	}
	if h >= n {
		h = n - 1
	}
	c.state.Highlight = h
}

// SelectHighlighted selects the highlighted suggestion if the list is
// visible.
func (c *Controller) SelectHighlighted() bool {
	if !c.state.IsExpanded() {
		return false
	}
	s, ok := c.state.Highlighted()
	if !ok {
		return false
	}
	c.Select(s.ID)
	return true
}

// Select clears the current product and looks up the one identified by id.
func (c *Controller) Select(id models.PartID) {
	if c.closed {
		return
	}
	c.stopBlur()

	if c.state.Product != nil {
		c.prevProduct = c.state.Product
		c.prevThumbnail = c.state.Thumbnail
	}
	c.state.Product = nil
	c.state.Thumbnail = nil
	c.state.Selecting = true

	c.detailSeq++
	seq := c.detailSeq
	cancelFn(&c.detailCancel)
	cancelFn(&c.imageCancel)

	ctx, cancel := context.WithTimeout(c.ctx, c.opts.RequestTimeout)
	c.detailCancel = cancel

	log.Info(ctx, "fetch product", "seq", seq, "id", id.String())
	catalog := c.opts.Catalog
	c.opts.Go(func() {
		var product *models.Product
		err := guard(func() error {
			var err error
			product, err = catalog.Product(ctx, id)
			return err
		})
		c.opts.Post(func() {
			cancel()
			c.applyProduct(seq, id, product, err)
		})
	})
}

func (c *Controller) applyProduct(seq uint64, id models.PartID, product *models.Product, err error) {
	if c.closed || seq != c.detailSeq {
		return
	}
	c.detailCancel = nil
	c.state.Selecting = false
	if err == nil && product == nil {
		err = &storage.FetchError{Kind: storage.ErrMalformed, Op: "product", Err: fmt.Errorf("empty response")}
	}
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		logFetchError("product", err, "id", id.String())
		c.setNotice(NoticeProduct, "product details unavailable", err)
		c.state.Product = c.prevProduct
		c.state.Thumbnail = c.prevThumbnail
		c.prevProduct = nil
		c.prevThumbnail = nil
		if !c.focused {
			c.state.Open = false
		}
		return
	}

	c.state.Product = product
	c.state.Open = false
	c.prevProduct = nil
	c.prevThumbnail = nil
	c.clearNotice(NoticeProduct)
	c.clearNotice(NoticeImage)

	c.recordView(product)
	c.loadThumbnail(seq, product.ImageRef)
}

func (c *Controller) recordView(product *models.Product) {
	history := c.opts.History
	if history == nil {
		return
	}
	entry := models.HistoryEntry{
		ProductID:  product.ID,
		PartNumber: product.PartNumber,
		BrandName:  product.BrandName,
		ViewTime:   time.Now(),
	}
	c.opts.Go(func() {
		if _, err := history.Add(entry); err != nil {
			log.Error(context.Background(), "record history", "id", entry.ProductID.String(), "err", err)
		}
	})
}

func (c *Controller) loadThumbnail(seq uint64, ref string) {
	thumbnail := c.opts.Thumbnail
	if thumbnail == nil || ref == "" {
		return
	}
	ctx, cancel := context.WithTimeout(c.ctx, c.opts.RequestTimeout)
	c.imageCancel = cancel
	c.opts.Go(func() {
		var lines []string
		err := guard(func() error {
			var err error
			lines, err = thumbnail(ctx, ref)
			return err
		})
		c.opts.Post(func() {
			cancel()
			if c.closed || seq != c.detailSeq {
				return
			}
			c.imageCancel = nil
			if err != nil {
				if errors.Is(err, context.Canceled) {
					return
				}
				logFetchError("asset", err, "ref", ref)
				c.setNotice(NoticeImage, "image unavailable", err)
				return
			}
			c.state.Thumbnail = lines
		})
	})
}

// DismissNotice hides the current notice.
func (c *Controller) DismissNotice() {
	c.state.Notice = nil
}

// Close stops all timers and cancels in-flight requests. Callbacks that
// arrive afterwards are ignored.
func (c *Controller) Close() {
	if c.closed {
		return
	}
	c.closed = true
	c.stopDebounce()
	c.stopBlur()
	c.cancel()
	c.suggestCancel = nil
	c.detailCancel = nil
	c.imageCancel = nil
}

func (c *Controller) stopDebounce() {
	if c.debounce != nil {
		c.debounce.Stop()
		c.debounce = nil
	}
	c.debounceGen++
}

func (c *Controller) stopBlur() {
	if c.blur != nil {
		c.blur.Stop()
		c.blur = nil
	}
	c.blurGen++
}

func (c *Controller) setNotice(kind NoticeKind, prefix string, err error) {
	msg := prefix
	if name := storage.KindName(err); name != "" {
		msg = fmt.Sprintf("%s (%s error)", prefix, name)
	}
	c.state.Notice = &Notice{Kind: kind, Message: msg}
}

func (c *Controller) clearNotice(kind NoticeKind) {
	if c.state.Notice != nil && c.state.Notice.Kind == kind {
		c.state.Notice = nil
	}
}

func cancelFn(fn *context.CancelFunc) {
	if *fn != nil {
		(*fn)()
		*fn = nil
	}
}

// guard turns a panic in fn into an error.
func guard(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn()
}

func logFetchError(op string, err error, args ...any) {
	attrs := append([]any{"kind", storage.KindName(err), "err", err}, args...)
	var fetchErr *storage.FetchError
	if errors.As(err, &fetchErr) {
		attrs = append(attrs, "url", fetchErr.URL)
	}
	log.Error(context.Background(), op+" failed", attrs...)
}
