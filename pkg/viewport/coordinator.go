package viewport

import (
	"slices"
	"sync"
	"time"

	"github.com/levalleyjack/slugtistics/pkg/types"
)

// DefaultDebounce gives the filtered list time to finish re-deriving
// before a scroll resolves, so a filter change and a selection landing
// in the same tick never scroll to a stale index.
const DefaultDebounce = 100 * time.Millisecond

// Coordinator keeps a selection, the visible window and filter-driven
// re-ordering consistent. It is a two-state machine (idle and
// pending-scroll) with a single cancellable debounce timer; a new
// selection or list change wins over any outstanding one.
type Coordinator struct {
	mu       sync.Mutex
	debounce time.Duration

	selectedId string
	origin     types.SelectOrigin

	list       []types.Course
	generation uint64

	lastScrolledId  string
	lastScrolledGen uint64

	viewport    types.ViewportRange
	hasViewport bool

	timer    *time.Timer
	timerSeq uint64
	pending  *types.ScrollInstruction
}

func NewCoordinator() *Coordinator {
	return &Coordinator{debounce: DefaultDebounce}
}

func NewCoordinatorWithDebounce(d time.Duration) *Coordinator {
	return &Coordinator{debounce: d}
}

// SetList installs the current filtered/sorted ordering. It bumps the
// list generation but never scrolls by itself.
func (c *Coordinator) SetList(list []types.Course) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.list = slices.Clone(list)
	c.generation++
}

// Select records a selection and schedules the debounced scroll.
// Repeating the identical selection with an unchanged list is
// suppressed, so at most one physical scroll results.
func (c *Coordinator) Select(id string, origin types.SelectOrigin) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if id == c.lastScrolledId && c.generation == c.lastScrolledGen {
		return
	}
	c.selectedId = id
	c.origin = origin
	c.lastScrolledId = ""
	if c.timer != nil {
		c.timer.Stop()
	}
	c.timerSeq++
	seq := c.timerSeq
	c.timer = time.AfterFunc(c.debounce, func() { c.fire(seq) })
}

// fire runs when a debounce timer expires. A timer that already lost
// the Stop race against a newer Select carries a stale seq and must
// not resolve.
func (c *Coordinator) fire(seq uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if seq != c.timerSeq {
		return
	}
	c.timer = nil
	c.resolveLocked()
}

// resolveLocked turns the current selection into a pending scroll
// instruction. A selection absent from the list is held, not cleared;
// the course may reappear when filters change again.
func (c *Coordinator) resolveLocked() {
	idx := c.indexLocked(c.selectedId)
	if idx < 0 {
		return
	}
	behavior := types.ScrollAuto
	if c.origin == types.OriginClick {
		behavior = types.ScrollSmooth
	}
	c.pending = &types.ScrollInstruction{
		Index:    idx,
		Align:    "center",
		Behavior: behavior,
	}
	c.lastScrolledId = c.selectedId
	c.lastScrolledGen = c.generation
}

// OnViewportRangeChange records the rendered window. It never triggers
// scrolling; it only feeds ScrollDirection.
func (c *Coordinator) OnViewportRangeChange(r types.ViewportRange) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.viewport = r
	c.hasViewport = true
}

// ScrollInstruction is the pull-based query the renderer drains. It
// returns and consumes the pending instruction, or resolves one on the
// spot when the list changed identity since the last scroll while the
// coordinator sat idle.
func (c *Coordinator) ScrollInstruction() *types.ScrollInstruction {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pending != nil {
		p := c.pending
		c.pending = nil
		return p
	}
	if c.timer != nil || c.selectedId == "" {
		return nil
	}
	if c.selectedId == c.lastScrolledId && c.generation == c.lastScrolledGen {
		return nil
	}
	c.resolveLocked()
	p := c.pending
	c.pending = nil
	return p
}

// ScrollDirection reports where the selected course sits relative to
// the rendered window, for a "jump to selection" affordance.
func (c *Coordinator) ScrollDirection() types.ScrollDirection {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.hasViewport || c.selectedId == "" {
		return types.DirectionNone
	}
	idx := c.indexLocked(c.selectedId)
	if idx < 0 {
		return types.DirectionNone
	}
	if idx < c.viewport.StartIndex {
		return types.DirectionUp
	}
	if idx > c.viewport.EndIndex {
		return types.DirectionDown
	}
	return types.DirectionNone
}

// Selected returns the currently held course id, empty when none.
func (c *Coordinator) Selected() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selectedId
}

// Close cancels any outstanding debounce timer.
func (c *Coordinator) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.timerSeq++
}

func (c *Coordinator) indexLocked(id string) int {
	if id == "" {
		return -1
	}
	return slices.IndexFunc(c.list, func(course types.Course) bool {
		return course.Id == id
	})
}
