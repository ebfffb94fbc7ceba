// Package carousel rotates the hero slides shown above the home page.
package carousel

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/moviestream-ai/moviestream/internal/media"
	"github.com/moviestream-ai/moviestream/internal/metrics"
)

const (
	DefaultInterval = 7 * time.Second
	MaxSlides       = 5
)

// Snapshot is the visible carousel state.
type Snapshot struct {
	Index  int          `json:"index"`
	Slides []media.Item `json:"slides"`
}

// Current returns the visible slide.
func (s Snapshot) Current() (media.Item, bool) {
	if len(s.Slides) == 0 {
		return nil, false
	}
	return s.Slides[s.Index], true
}

// NextIndex and PrevIndex wrap modulo n.
func NextIndex(i, n int) int {
	if n == 0 {
		return 0
	}
	return (i + 1) % n
}

func PrevIndex(i, n int) int {
	if n == 0 {
		return 0
	}
	return (i - 1 + n) % n
}

// Carousel auto-advances through at most MaxSlides slides. Replacing the
// slides restarts the timer; manual moves do not.
type Carousel struct {
	interval time.Duration

	mu       sync.Mutex
	slides   []media.Item
	index    int
	onChange func(Snapshot)

	restart chan struct{}
}

func New(interval time.Duration) *Carousel {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Carousel{
		interval: interval,
		slides:   []media.Item{},
		restart:  make(chan struct{}, 1),
	}
}

// OnChange registers fn to receive a snapshot after every change.
func (c *Carousel) OnChange(fn func(Snapshot)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onChange = fn
}

// SetSlides replaces the slides with the first MaxSlides items, shows the
// first one and restarts the timer.
func (c *Carousel) SetSlides(items []media.Item) {
	slides := make([]media.Item, 0, MaxSlides)
	slides = append(slides, media.Truncate(items, MaxSlides)...)

	c.mu.Lock()
	c.slides = slides
	c.index = 0
	c.mu.Unlock()

	select {
	case c.restart <- struct{}{}:
	default:
	}
	c.notify()
}

func (c *Carousel) Next() Snapshot {
	return c.move(NextIndex, "manual")
}

func (c *Carousel) Prev() Snapshot {
	return c.move(PrevIndex, "manual")
}

// Select jumps to slide i.
func (c *Carousel) Select(i int) (Snapshot, error) {
	c.mu.Lock()
	if i < 0 || i >= len(c.slides) {
		n := len(c.slides)
		c.mu.Unlock()
		return c.Snapshot(), fmt.Errorf("slide %d out of range [0,%d)", i, n)
	}
	c.index = i
	c.mu.Unlock()

	metrics.CarouselAdvances.WithLabelValues("manual").Inc()
	return c.notify(), nil
}

func (c *Carousel) move(step func(i, n int) int, trigger string) Snapshot {
	c.mu.Lock()
	if len(c.slides) == 0 {
		c.mu.Unlock()
		return c.Snapshot()
	}
	c.index = step(c.index, len(c.slides))
	c.mu.Unlock()

	metrics.CarouselAdvances.WithLabelValues(trigger).Inc()
	return c.notify()
}

func (c *Carousel) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Carousel) snapshotLocked() Snapshot {
	slides := make([]media.Item, len(c.slides))
	copy(slides, c.slides)
	return Snapshot{Index: c.index, Slides: slides}
}

func (c *Carousel) notify() Snapshot {
	c.mu.Lock()
	snap := c.snapshotLocked()
	fn := c.onChange
	c.mu.Unlock()

	if fn != nil {
		fn(snap)
	}
	return snap
}

func (c *Carousel) hasSlides() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.slides) > 0
}

// Run advances the carousel every interval while it has slides. It returns
// when ctx is done.
func (c *Carousel) Run(ctx context.Context) {
	var ticker *time.Ticker
	var tick <-chan time.Time

	reset := func() {
		if ticker != nil {
			ticker.Stop()
			ticker, tick = nil, nil
		}
		if c.hasSlides() {
			ticker = time.NewTicker(c.interval)
			tick = ticker.C
		}
	}
	reset()
	defer func() {
		if ticker != nil {
			ticker.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case <-c.restart:
			reset()
		case <-tick:
			c.move(NextIndex, "timer")
		}
	}
}
