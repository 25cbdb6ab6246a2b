package client

import (
	"bufio"
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/circles/internal/draw"
	"github.com/tomz197/circles/internal/game"
	"github.com/tomz197/circles/internal/input"
	"github.com/tomz197/circles/internal/loop/config"
	"github.com/tomz197/circles/internal/loop/server"
	"github.com/tomz197/circles/internal/object"
	"github.com/tomz197/circles/internal/physics"
	"github.com/tomz197/circles/internal/sched"
)

// Client handles rendering and input for a single terminal session.
// It owns one game controller and the scheduler that drives it; both are
// only touched from the Run goroutine.
type Client struct {
	server       server.GameServer
	handle       *server.ClientHandle
	state        *ClientState
	sched        *sched.Scheduler
	game         *game.Controller
	canvas       *draw.Canvas
	boardWriter  *draw.ChunkWriter // Canvas-relative output (board, labels)
	uiWriter     *draw.ChunkWriter // Absolute output (header, footer, screens)
	styles       styles
	reader       *bufio.Reader
	writer       io.Writer
	inputStream  *input.Stream
	lastInput    time.Time
	username     string
	termSizeFunc draw.TermSizeFunc
	logger       *log.Logger
	rng          *rand.Rand

	layout    layout
	grid      *physics.SpatialGrid
	discs     []*object.Disc
	cursor    *object.Cursor
	particles []object.Object
	spawned   []object.Object
	toast     object.Toast
}

// ClientOptions configures the client.
type ClientOptions struct {
	TermSizeFunc draw.TermSizeFunc
	Username     string
	Logger       *log.Logger
	MaxPoints    int         // Point-count ceiling, 0 for the default
	Clock        sched.Clock // Nil selects the system clock
	Rand         *rand.Rand  // Nil seeds from the current time
}

// Ensure Client can receive spawned particles.
var _ object.Spawner = (*Client)(nil)

// NewClient creates a new client registered with the given hub.
func NewClient(gs server.GameServer, r *bufio.Reader, w io.Writer, opts ClientOptions) *Client {
	termSizeFunc := opts.TermSizeFunc
	if termSizeFunc == nil {
		termSizeFunc = draw.DefaultTermSizeFunc
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	handle := gs.RegisterClient(opts.Username)
	logger = logger.With("session", handle.ID)

	termWidth, termHeight, _ := draw.TerminalSize(termSizeFunc)
	lay := computeLayout(termWidth, termHeight)
	canvas := draw.NewScaledCanvas(lay.canvasWidth, lay.canvasHeight, config.ViewWidth, config.ViewHeight)
	canvas.SetOffset(lay.offsetCol, lay.offsetRow)

	c := &Client{
		server:       gs,
		handle:       handle,
		state:        NewClientState(),
		sched:        sched.New(opts.Clock),
		canvas:       canvas,
		boardWriter:  draw.NewChunkWriter(w, lay.offsetCol, lay.offsetRow),
		uiWriter:     draw.NewChunkWriter(w, 0, 0),
		styles:       newStyles(w),
		reader:       r,
		writer:       w,
		lastInput:    time.Now(),
		inputStream:  input.StartStream(r),
		username:     opts.Username,
		termSizeFunc: termSizeFunc,
		logger:       logger,
		rng:          rng,
		layout:       lay,
		grid:         physics.NewSpatialGrid(config.ViewWidth, config.ViewHeight, 2*config.CircleRadius),
		cursor:       object.NewCursor(config.ViewWidth/2, config.ViewHeight/2, config.CursorSpeed),
	}
	c.game = game.NewController(c.sched, game.Options{
		MaxPoints: opts.MaxPoints,
		Rand:      rng,
		Notifier:  game.Notifiers(game.LogNotifier(logger), game.NotifierFunc(c.notify)),
	})
	return c
}

// Run starts the client loop. Blocks until the client disconnects or the hub shuts down.
func (c *Client) Run() error {
	draw.EnterGameScreen(c.writer)
	defer func() {
		c.game.Close()
		c.server.UnregisterClient(c.handle.ID)
		draw.LeaveGameScreen(c.writer)
	}()

	lastTime := time.Now()

	for c.state.Running {
		frameStart := time.Now()
		c.state.delta = frameStart.Sub(lastTime)
		lastTime = frameStart

		swallow := c.processInput()
		c.processServerEvents()
		c.updateScreen()

		switch c.state.GameState {
		case GameStatePlaying:
			c.updatePlayingState(swallow)
		case GameStateShutdown:
			c.updateShutdownState()
		}

		if err := c.drawFrame(); err != nil {
			return err
		}

		elapsed := time.Since(frameStart)
		if elapsed < config.ClientTargetFrameTime {
			time.Sleep(config.ClientTargetFrameTime - elapsed)
		}
	}
	return nil
}

// processInput reads this frame's input and tracks inactivity. It returns true
// when the input only dismissed the inactivity warning and must not reach the game.
func (c *Client) processInput() (swallow bool) {
	c.state.Input = input.ReadInput(c.inputStream)

	if hasActivity(c.state.Input) {
		swallow = c.state.isInactive
		c.lastInput = time.Now()
		c.state.isInactive = false
	} else if time.Since(c.lastInput).Seconds() > config.InactivityDisconnectUser {
		c.logger.Info("disconnecting inactive session")
		c.state.Running = false
	} else if time.Since(c.lastInput).Seconds() > config.InactivityWarnUser {
		c.state.isInactive = true
	}

	if c.state.Input.Quit {
		c.state.Running = false
	}
	return swallow
}

func hasActivity(in input.Input) bool {
	return in.Left || in.Right || in.Up || in.Down ||
		in.Space > 0 || in.Enter > 0 || in.Backspace > 0 ||
		len(in.Runes) > 0 || len(in.Clicks) > 0
}

// processServerEvents handles events from the hub.
func (c *Client) processServerEvents() {
	for {
		select {
		case event, ok := <-c.handle.EventsCh:
			if !ok {
				c.state.Running = false
				return
			}
			if event.Type == server.EventServerShutdown && c.state.GameState != GameStateShutdown {
				c.state.GameState = GameStateShutdown
				c.state.shutdownTimer = config.ShutdownDisplaySeconds
			}
		default:
			return
		}
	}
}

// updateScreen handles terminal resize. On actual size changes it clears the
// terminal to remove residual pixels outside the new canvas area.
func (c *Client) updateScreen() {
	termWidth, termHeight, err := draw.TerminalSize(c.termSizeFunc)
	if err != nil {
		return
	}
	lay := computeLayout(termWidth, termHeight)
	if lay == c.layout {
		return
	}

	c.layout = lay
	c.uiWriter.ClearScreen()
	c.canvas.Resize(lay.canvasWidth, lay.canvasHeight)
	c.canvas.SetOffset(lay.offsetCol, lay.offsetRow)
	c.canvas.ForceRedraw()
	c.boardWriter.SetOffset(lay.offsetCol, lay.offsetRow)
}

// updatePlayingState applies input to the round, fires due timers and
// advances the sprites.
func (c *Client) updatePlayingState(swallow bool) {
	in := c.state.Input

	if !swallow && !c.state.isInactive {
		c.editPoints(in)
		for i := 0; i < in.Enter; i++ {
			c.startRound()
		}
		for _, click := range in.Clicks {
			c.handleClick(click)
		}
		for i := 0; i < in.Space; i++ {
			c.clickAt(c.cursor.X, c.cursor.Y)
		}
	}

	c.sched.Poll()
	c.syncBoard()
	c.updateSprites()
}

// editPoints applies backspaces and typed runes to the points field. Every
// edit goes through the controller, which rejects anything that is not a
// valid count and leaves the field unchanged.
func (c *Client) editPoints(in input.Input) {
	for i := 0; i < in.Backspace; i++ {
		if text := c.state.PointsText; text != "" {
			c.applyPoints(text[:len(text)-1])
		}
	}
	for _, r := range in.Runes {
		c.applyPoints(c.state.PointsText + string(r))
	}
}

func (c *Client) applyPoints(text string) {
	if err := c.game.Configure(text); err != nil {
		c.logger.Debug("points rejected", "text", text, "err", err)
		return
	}
	c.state.PointsText = text
}

// startRound starts or restarts the round.
func (c *Client) startRound() {
	if err := c.game.Start(); err != nil {
		c.logger.Debug("start rejected", "err", err)
		return
	}
	input.ResetKeyInput(c.inputStream)
	c.logger.Info("round started", "round", c.game.Generation(), "points", c.game.RoundSize())
	c.syncBoard()
}

// handleClick routes a mouse press to the start button or the board.
func (c *Client) handleClick(click input.Click) {
	if click.Row == c.state.buttonRow && click.Col >= c.state.buttonCol &&
		click.Col < c.state.buttonCol+c.state.buttonWidth {
		c.startRound()
		return
	}

	x, y, ok := c.canvas.TerminalToLogical(click.Col, click.Row)
	if !ok {
		return
	}
	c.cursor.X, c.cursor.Y = x, y
	c.clickAt(x, y)
}

// clickAt clicks the top-most circle under the logical point, if any.
func (c *Client) clickAt(x, y float64) {
	idx, ok := c.hitTest(x, y)
	if !ok {
		return
	}
	d := c.discs[idx]

	switch c.game.Click(d.ID) {
	case game.ClickCorrect, game.ClickCleared:
		c.state.clickedAt[d.ID] = c.sched.Now()
		d.Clicked = true
		object.SpawnBurst(c.rng, d.X, d.Y, d.Radius, config.BurstParticles, config.BurstSpeed, config.BurstLifetime, c)
	}
	c.reportOutcome()
}

// hitTest returns the index in c.discs of the lowest-id disc containing the
// point. Lower ids are drawn on top, so this is the circle the player sees.
func (c *Client) hitTest(x, y float64) (int, bool) {
	best := -1
	c.grid.QueryPoint(x, y, func(i int) bool {
		if best < 0 || c.discs[i].ID < c.discs[best].ID {
			best = i
		}
		return false
	})
	return best, best >= 0
}

// syncBoard rebuilds the disc sprites and the hit-test grid from the controller.
func (c *Client) syncBoard() {
	if gen := c.game.Generation(); gen != c.state.clickedRound {
		clear(c.state.clickedAt)
		c.state.clickedRound = gen
	}

	now := c.sched.Now()
	circles := c.game.Circles()
	c.discs = c.discs[:0]
	c.grid.Clear()
	for i, circle := range circles {
		d := object.NewDisc(circle)
		if at, ok := c.state.clickedAt[circle.ID]; ok {
			d.Pending = (config.RemovalDelay - now.Sub(at)).Seconds()
		}
		c.discs = append(c.discs, d)
		c.grid.Insert(d.X, d.Y, d.Radius, i)
	}
}

// reportOutcome tells the hub about a round that just ended.
func (c *Client) reportOutcome() {
	outcome := c.game.Outcome()
	gen := c.game.Generation()
	if !outcome.Terminal() || gen == c.state.reportedRound {
		return
	}
	c.state.reportedRound = gen
	c.server.RecordOutcome(c.handle.ID, server.RoundResult{
		Outcome: outcome,
		Points:  c.game.RoundSize(),
		Elapsed: c.game.Elapsed(),
	})
	c.logger.Info("round finished", "round", gen, "outcome", outcome, "elapsed", c.game.Elapsed())
}

// updateSprites moves the cursor and particles and ages the toast.
func (c *Client) updateSprites() {
	ctx := object.UpdateContext{
		Delta:   c.state.delta,
		Input:   c.state.Input,
		Bounds:  object.Bounds{Width: config.ViewWidth, Height: config.ViewHeight},
		Spawner: c,
	}

	if !c.state.isInactive {
		c.cursor.Update(ctx)
	}

	kept := c.particles[:0]
	for _, p := range c.particles {
		if remove, _ := p.Update(ctx); remove {
			object.ReleaseObject(p)
			continue
		}
		kept = append(kept, p)
	}
	c.particles = append(kept, c.spawned...)
	c.spawned = c.spawned[:0]

	c.toast.Tick(c.state.delta.Seconds())
}

// Spawn queues a sprite to join the particles after the current update.
func (c *Client) Spawn(obj object.Object) {
	c.spawned = append(c.spawned, obj)
}

// notify shows controller events in the toast line.
func (c *Client) notify(ev game.Event) {
	c.toast.Show(ev.Message, c.styles.forLevel(ev.Level), config.ToastSeconds)
}

// updateShutdownState handles the shutdown screen countdown.
func (c *Client) updateShutdownState() {
	c.state.shutdownTimer -= c.state.delta.Seconds()
	if c.state.shutdownTimer <= 0 {
		c.state.Running = false
	}
}

// layout places the canvas below the header, keeping the play area square.
// Half-block cells are one column wide and two sub-pixels tall.
type layout struct {
	termWidth    int
	termHeight   int
	canvasWidth  int
	canvasHeight int
	offsetCol    int
	offsetRow    int
}

// computeLayout clamps the canvas to the max render resolution, reserves the
// header, footer and border rows and centres the result horizontally.
func computeLayout(termWidth, termHeight int) layout {
	height := min(termHeight-config.HeaderRows-config.FooterRows-2, config.MaxTermHeight)
	height = max(height, 1)
	width := min(termWidth, config.MaxTermWidth) - 2
	width = max(min(width, 2*height), 1)
	height = min(height, (width+1)/2)

	return layout{
		termWidth:    termWidth,
		termHeight:   termHeight,
		canvasWidth:  width,
		canvasHeight: height,
		offsetCol:    max((termWidth-width)/2, 0),
		offsetRow:    config.HeaderRows + 1,
	}
}
