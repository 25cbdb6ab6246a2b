package game

import (
	"errors"
	"fmt"
	"math/rand"
	"slices"
	"strconv"
	"time"

	"github.com/tomz197/circles/internal/loop/config"
	"github.com/tomz197/circles/internal/sched"
)

// Scheduler is the timer facility the controller runs on. Callbacks must be
// delivered on the goroutine that owns the controller.
type Scheduler interface {
	After(d time.Duration, fn func()) sched.TimerID
	Every(d time.Duration, fn func()) sched.TimerID
	Cancel(id sched.TimerID) bool
}

// Compile-time check that the cooperative scheduler satisfies Scheduler.
var _ Scheduler = (*sched.Scheduler)(nil)

// ClickResult reports what a click did to the round.
type ClickResult int

const (
	ClickIgnored  ClickResult = iota // Round over or id not tracked
	ClickCorrect                     // Expected id, round continues
	ClickCleared                     // Expected id and it was the last one
	ClickMismatch                    // Wrong id, round is over
)

// Options configures a Controller. Zero values select the defaults.
type Options struct {
	MaxPoints    int
	TickInterval time.Duration
	RemovalDelay time.Duration
	Rand         *rand.Rand
	Notifier     Notifier
}

// Controller owns the round state of one player. It is not safe for
// concurrent use; the owning loop serializes calls and timer callbacks.
type Controller struct {
	sched        Scheduler
	notifier     Notifier
	rng          *rand.Rand
	maxPoints    int
	tickInterval time.Duration
	removalDelay time.Duration

	targetCount int
	started     bool
	round       round
	generation  uint64

	tickTimer sched.TimerID
	removals  map[int]sched.TimerID // pending removals of the current round
}

// NewController creates a controller with no round in progress.
func NewController(s Scheduler, opts Options) *Controller {
	c := &Controller{
		sched:        s,
		notifier:     opts.Notifier,
		rng:          opts.Rand,
		maxPoints:    opts.MaxPoints,
		tickInterval: opts.TickInterval,
		removalDelay: opts.RemovalDelay,
		removals:     make(map[int]sched.TimerID),
	}
	if c.notifier == nil {
		c.notifier = discardNotifier
	}
	if c.rng == nil {
		c.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if c.maxPoints <= 0 {
		c.maxPoints = config.DefaultMaxPoints
	}
	if c.tickInterval <= 0 {
		c.tickInterval = config.TickInterval
	}
	if c.removalDelay <= 0 {
		c.removalDelay = config.RemovalDelay
	}
	return c
}

// TargetCount returns the configured number of circles for the next round.
func (c *Controller) TargetCount() int { return c.targetCount }

// MaxPoints returns the point-count ceiling.
func (c *Controller) MaxPoints() int { return c.maxPoints }

// Started reports whether a round was ever launched.
func (c *Controller) Started() bool { return c.started }

// Outcome returns the current round's classification.
func (c *Controller) Outcome() Outcome { return c.round.outcome }

// Generation identifies the current round. It is 0 before the first start.
func (c *Controller) Generation() uint64 { return c.round.generation }

// RoundSize is the circle count the current round started with.
func (c *Controller) RoundSize() int { return c.round.size }

// NextExpectedID returns the id the next correct click must target.
func (c *Controller) NextExpectedID() int {
	if c.round.nextID == 0 {
		return 1
	}
	return c.round.nextID
}

// Elapsed returns the round time accumulated by ticks.
func (c *Controller) Elapsed() time.Duration {
	return time.Duration(c.round.ticks) * c.tickInterval
}

// Circles returns a copy of the active circles ordered by id.
func (c *Controller) Circles() []Circle {
	return slices.Clone(c.round.circles)
}

// Circle looks up an active circle by id.
func (c *Controller) Circle(id int) (Circle, bool) {
	i, ok := c.round.find(id)
	if !ok {
		return Circle{}, false
	}
	return c.round.circles[i], true
}

// Ticking reports whether the periodic tick is armed.
func (c *Controller) Ticking() bool { return c.tickTimer != 0 }

// Configure validates point-count text and updates the target count.
// A rejected entry is reported to the notifier and changes nothing.
// The round in progress is not affected.
func (c *Controller) Configure(text string) error {
	n, err := ParsePoints(text, c.maxPoints)
	if err != nil {
		c.reject(err)
		return err
	}
	c.targetCount = n
	return nil
}

// SetTargetCount updates the target count from an already numeric value.
func (c *Controller) SetTargetCount(n int) error {
	if err := checkRange(strconv.Itoa(n), n, c.maxPoints); err != nil {
		c.reject(err)
		return err
	}
	c.targetCount = n
	return nil
}

func (c *Controller) reject(err error) {
	msg := "Points must be a whole number"
	var ie *InputError
	if errors.As(err, &ie) {
		msg = "Points " + ie.Reason
	}
	c.notify(EventInvalidInput, LevelError, msg)
}

// Start discards the current round and launches a new one with fresh
// positions. It fails with ErrStartRejected when the target count is zero.
func (c *Controller) Start() error {
	if c.targetCount <= 0 {
		c.notify(EventStartRejected, LevelError, "Enter a point count above 0 to play")
		return fmt.Errorf("%w: point count is 0", ErrStartRejected)
	}

	c.teardown()
	c.generation++

	circles := make([]Circle, c.targetCount)
	for i := range circles {
		circles[i] = Circle{
			ID: i + 1,
			Position: Position{
				Top:  c.rng.Float64() * config.PlayAreaSize,
				Left: c.rng.Float64() * config.PlayAreaSize,
			},
		}
	}
	c.round = round{
		generation: c.generation,
		size:       c.targetCount,
		circles:    circles,
		nextID:     1,
		outcome:    OutcomeInProgress,
	}

	kind, msg := EventStarted, "Game started"
	if c.started {
		kind, msg = EventRestarted, "Game restarted"
	}
	c.started = true
	c.tickTimer = c.sched.Every(c.tickInterval, c.Tick)
	c.notify(kind, LevelInfo, msg)
	return nil
}

// Tick advances elapsed time by one interval while the round is live.
// Otherwise it disarms the periodic timer.
func (c *Controller) Tick() {
	if len(c.round.circles) == 0 || c.round.outcome != OutcomeInProgress {
		c.stopTick()
		return
	}
	c.round.ticks++
}

// Click validates a click on the circle with the given id.
// Clicking a circle that is still shown after its own correct click counts as
// an out-of-order click.
func (c *Controller) Click(id int) ClickResult {
	if c.round.outcome != OutcomeInProgress {
		return ClickIgnored
	}
	i, ok := c.round.find(id)
	if !ok {
		return ClickIgnored
	}

	if id != c.round.nextID {
		c.round.outcome = OutcomeGameOver
		c.stopTick()
		c.notify(EventGameOver, LevelError, fmt.Sprintf("GAME OVER: clicked %d, expected %d", id, c.round.nextID))
		return ClickMismatch
	}

	c.round.circles[i].Clicked = true
	c.round.nextID++

	// Clearance is decided against the set that still holds this circle,
	// before its removal is scheduled.
	cleared := c.evaluateClearance()
	c.scheduleRemoval(id)

	if cleared {
		return ClickCleared
	}
	return ClickCorrect
}

func (c *Controller) evaluateClearance() bool {
	if c.round.size <= 0 || c.round.outcome != OutcomeInProgress || !c.round.allClicked() {
		return false
	}
	c.round.outcome = OutcomeAllCleared
	c.stopTick()
	c.notify(EventAllCleared, LevelSuccess, "ALL CLEARED in "+FormatElapsed(c.Elapsed())+"s")
	return true
}

func (c *Controller) scheduleRemoval(id int) {
	gen := c.round.generation
	c.removals[id] = c.sched.After(c.removalDelay, func() {
		c.RemoveCircle(gen, id)
	})
}

// RemoveCircle drops a clicked circle from the active set. It is the action
// behind the delayed removal and returns false for stale requests: another
// round, an id no longer tracked, or a circle that was never clicked.
func (c *Controller) RemoveCircle(generation uint64, id int) bool {
	if generation != c.round.generation {
		return false
	}
	i, ok := c.round.find(id)
	if !ok || !c.round.circles[i].Clicked {
		return false
	}
	delete(c.removals, id)
	c.round.circles = slices.Delete(c.round.circles, i, i+1)
	if len(c.round.circles) == 0 {
		c.stopTick()
	}
	return true
}

// Close cancels every timer the controller owns.
func (c *Controller) Close() {
	c.teardown()
}

func (c *Controller) teardown() {
	c.stopTick()
	for id, timer := range c.removals {
		c.sched.Cancel(timer)
		delete(c.removals, id)
	}
}

func (c *Controller) stopTick() {
	if c.tickTimer != 0 {
		c.sched.Cancel(c.tickTimer)
		c.tickTimer = 0
	}
}

func (c *Controller) notify(kind EventKind, level Level, msg string) {
	c.notifier.Notify(Event{Kind: kind, Level: level, Message: msg, Round: c.round.generation})
}

// ParsePoints validates point-count text: digits only, at most limit.
// The empty string is a cleared field and reads as 0.
func ParsePoints(text string, limit int) (int, error) {
	if text == "" {
		return 0, nil
	}
	for _, r := range text {
		if r < '0' || r > '9' {
			return 0, &InputError{Text: text, Reason: "must contain digits only"}
		}
	}
	n, err := strconv.Atoi(text)
	if err != nil {
		return 0, &InputError{Text: text, Reason: fmt.Sprintf("must be at most %d", limit)}
	}
	if err := checkRange(text, n, limit); err != nil {
		return 0, err
	}
	return n, nil
}

func checkRange(text string, n, limit int) error {
	if n < 0 {
		return &InputError{Text: text, Reason: "must not be negative"}
	}
	if n > limit {
		return &InputError{Text: text, Reason: fmt.Sprintf("must be at most %d", limit)}
	}
	return nil
}
