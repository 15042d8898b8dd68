package hover

import (
	"slices"
	"sync"
	"time"

	"github.com/dshills/patientdb/pkg/types"
)

// DefaultDelay is how long the card stays up after the pointer leaves
const DefaultDelay = 300 * time.Millisecond

// State is the preview state
type State int

const (
	// Idle shows nothing
	Idle State = iota
	// Previewing shows the card for one patient
	Previewing
	// PendingHide still shows the card while the hide timer runs
	PendingHide
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Previewing:
		return "previewing"
	case PendingHide:
		return "pending_hide"
	default:
		return "unknown"
	}
}

// Surface is the hoverable element that owns the preview
type Surface int

const (
	// SurfaceNone is used while Idle
	SurfaceNone Surface = iota
	// SurfaceRow is a patient row in the list
	SurfaceRow
	// SurfaceDetail is the preview card itself
	SurfaceDetail
)

// Snapshot is what a view needs to render the preview
type Snapshot struct {
	State    State
	Patient  *types.Patient // nil while Idle
	Position Point
	Surface  Surface
}

// Visible reports whether the card should be drawn
func (s Snapshot) Visible() bool {
	return s.State != Idle
}

// NoMargin places the card flush against the pointer and viewport edges
const NoMargin = -1

// Config configures a Controller. Zero fields take the package defaults.
type Config struct {
	Delay time.Duration
	Card  Size
	// Margin is the gap around the card in viewport units. Use NoMargin for none.
	Margin    int
	Scheduler Scheduler
}

// Controller tracks which patient is previewed. Events may come from the
// UI goroutine while the hide timer fires on its own goroutine.
type Controller struct {
	delay     time.Duration
	card      Size
	margin    int
	scheduler Scheduler

	mu        sync.Mutex
	state     State
	patient   *types.Patient
	pos       Point
	surface   Surface
	timer     Timer
	gen       uint64
	closed    bool
	observers []func(Snapshot)
}

// NewController creates an idle controller
func NewController(cfg Config) *Controller {
	c := &Controller{
		delay:     cfg.Delay,
		card:      cfg.Card,
		margin:    cfg.Margin,
		scheduler: cfg.Scheduler,
	}
	if c.delay <= 0 {
		c.delay = DefaultDelay
	}
	if c.card.W <= 0 || c.card.H <= 0 {
		c.card = DefaultCard
	}
	switch {
	case c.margin == 0:
		c.margin = DefaultMargin
	case c.margin < 0:
		c.margin = 0
	}
	if c.scheduler == nil {
		c.scheduler = RealScheduler{}
	}
	return c
}

// OnChange registers fn to be called after every transition.
// fn runs without the controller lock held.
func (c *Controller) OnChange(fn func(Snapshot)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.observers = append(c.observers, fn)
}

// Snapshot returns the current state
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// EnterRow previews p anchored at pointer. Any pending hide is canceled.
func (c *Controller) EnterRow(p types.Patient, pointer Point, viewport Size) {
	c.transition(func() bool {
		c.cancelLocked()
		c.state = Previewing
		c.patient = &p
		c.pos = Position(pointer, c.card, viewport, c.margin)
		c.surface = SurfaceRow
		return true
	})
}

// LeaveRow arms the hide timer when the row owns the preview
func (c *Controller) LeaveRow() {
	c.transition(func() bool {
		if c.state != Previewing || c.surface != SurfaceRow {
			return false
		}
		c.armLocked()
		c.state = PendingHide
		return true
	})
}

// EnterDetail keeps the preview up when the pointer reaches the card
func (c *Controller) EnterDetail() {
	c.transition(func() bool {
		if c.state != PendingHide {
			return false
		}
		c.cancelLocked()
		c.state = Previewing
		c.surface = SurfaceDetail
		return true
	})
}

// LeaveDetail arms the hide timer when the card owns the preview
func (c *Controller) LeaveDetail() {
	c.transition(func() bool {
		if c.state != Previewing || c.surface != SurfaceDetail {
			return false
		}
		c.armLocked()
		c.state = PendingHide
		return true
	})
}

// Close cancels the hide timer. Events after Close are ignored.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cancelLocked()
	c.closed = true
	c.observers = nil
}

func (c *Controller) expire(gen uint64) {
	c.transition(func() bool {
		if gen != c.gen || c.state != PendingHide {
			return false
		}
		c.timer = nil
		c.state = Idle
		c.patient = nil
		c.pos = Point{}
		c.surface = SurfaceNone
		return true
	})
}

// transition applies fn under the lock and notifies observers if it
// reports a change
func (c *Controller) transition(fn func() bool) {
	c.mu.Lock()
	if c.closed || !fn() {
		c.mu.Unlock()
		return
	}
	snap := c.snapshotLocked()
	observers := slices.Clone(c.observers)
	c.mu.Unlock()

	for _, o := range observers {
		o(snap)
	}
}

func (c *Controller) armLocked() {
	c.cancelLocked()
	gen := c.gen
	c.timer = c.scheduler.AfterFunc(c.delay, func() { c.expire(gen) })
}

// cancelLocked stops the armed timer; bumping gen retires a callback that
// already started
func (c *Controller) cancelLocked() {
	c.gen++
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

func (c *Controller) snapshotLocked() Snapshot {
	snap := Snapshot{State: c.state, Position: c.pos, Surface: c.surface}
	if c.patient != nil {
		p := *c.patient
		snap.Patient = &p
	}
	return snap
}
