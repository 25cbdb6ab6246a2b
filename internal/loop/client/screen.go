package client

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/tomz197/circles/internal/game"
	"github.com/tomz197/circles/internal/loop/config"
	"github.com/tomz197/circles/internal/object"
)

// drawFrame draws the current frame.
func (c *Client) drawFrame() error {
	// On screen or inactivity transitions, do a full terminal clear so UI
	// elements from the previous screen don't persist.
	stateChanged := c.state.GameState != c.state.prevGameState
	inactiveChanged := c.state.isInactive != c.state.wasInactive
	if stateChanged || inactiveChanged {
		c.uiWriter.ClearScreen()
		c.canvas.ForceRedraw()
		c.state.prevGameState = c.state.GameState
		c.state.wasInactive = c.state.isInactive
	}

	centerX := c.layout.termWidth / 2
	centerY := c.layout.termHeight / 2

	switch {
	case c.state.GameState == GameStateShutdown:
		c.drawShutdownScreen(centerX, centerY)
		return c.uiWriter.Flush()
	case c.state.isInactive:
		c.drawInactivityScreen(centerX, centerY)
		return c.uiWriter.Flush()
	}

	c.drawBoard()
	c.drawHeader()
	c.drawFooter()

	if err := c.boardWriter.Flush(); err != nil {
		return err
	}
	return c.uiWriter.Flush()
}

// drawBoard renders circles, particles and the cursor. Discs are drawn from
// the highest id down so lower ids end up on top.
func (c *Client) drawBoard() {
	c.canvas.Clear()
	ctx := object.DrawContext{Canvas: c.canvas, Writer: c.boardWriter}

	for i := len(c.discs) - 1; i >= 0; i-- {
		c.discs[i].Draw(ctx)
	}
	for _, p := range c.particles {
		p.Draw(ctx)
	}
	c.cursor.Draw(ctx)

	c.canvas.Render(c.boardWriter)
	c.canvas.RenderBorder(c.boardWriter)

	for i := len(c.discs) - 1; i >= 0; i-- {
		c.discs[i].DrawLabel(ctx)
	}
}

// drawHeader draws the status, fields and toast rows.
// Text fields use fixed-width formatting so shrinking values don't leave
// residual characters on screen.
func (c *Client) drawHeader() {
	cw := c.uiWriter
	view := c.game.View()
	termWidth := c.layout.termWidth

	headline := fmt.Sprintf("%-12s", view.Headline())
	cw.WriteAt(2, 1, c.styles.forOutcome(view.Outcome).Render(headline))

	if view.Outcome == game.OutcomeInProgress && view.Started {
		next := fmt.Sprintf("Next: %-5d", view.NextID)
		cw.WriteAt(16, 1, c.styles.dim.Render(next))
	} else {
		cw.WriteAt(16, 1, strings.Repeat(" ", 11))
	}

	players := fmt.Sprintf("Players: %-4d", c.server.Snapshot().Players)
	if col := termWidth - len(players); col > 28 {
		cw.WriteAt(col, 1, players)
	}

	// Row 2: Points: [....]   Time: 0.0s   [ Play ]
	fieldWidth := len(strconv.Itoa(view.MaxPoints))
	col := 2
	cw.WriteAt(col, 2, "Points: ")
	col += len("Points: ")
	cw.WriteAt(col, 2, c.styles.field.Render(fmt.Sprintf("%-*s", fieldWidth, c.state.PointsText)))
	col += fieldWidth

	timeText := fmt.Sprintf("   Time: %-8s", view.ElapsedText+"s")
	cw.WriteAt(col, 2, timeText)
	col += len(timeText) + 1

	label := config.ButtonLabelPlay
	if view.Started {
		label = config.ButtonLabelReplay
	}
	pad := max(len(config.ButtonLabelPlay), len(config.ButtonLabelReplay)) - len(label)
	cw.WriteAt(col, 2, c.styles.button.Render(label)+strings.Repeat(" ", pad))
	c.state.buttonCol, c.state.buttonRow, c.state.buttonWidth = col, 2, len(label)

	// Row 3: notifications
	cw.WriteAt(2, 3, c.toast.Line(termWidth-2))
}

// drawFooter draws the controls hint and the best clear below the board.
func (c *Client) drawFooter() {
	row := c.layout.offsetRow + c.layout.canvasHeight + 2
	if row > c.layout.termHeight {
		return
	}
	cw := c.uiWriter

	hint := "digits: points  enter: play  arrows+space / mouse: click  q: quit"
	cw.WriteAt(2, row, c.styles.dim.Render(hint))

	best := "Best: -"
	if top := c.server.Snapshot().TopClears; len(top) > 0 {
		best = fmt.Sprintf("Best: %d in %ss", top[0].Points, game.FormatElapsed(top[0].Elapsed))
		if top[0].Username != "" {
			best += " by " + top[0].Username
		}
	}
	best = fmt.Sprintf("%-32s", best)
	if col := c.layout.termWidth - len(best); col > len(hint)+3 {
		cw.WriteAt(col, row, best)
	}
}

// drawInactivityScreen draws the inactivity warning screen.
func (c *Client) drawInactivityScreen(centerX, centerY int) {
	cw := c.uiWriter
	title := "INACTIVITY WARNING"
	cw.WriteAt(centerX-len(title)/2, centerY-2, c.styles.failure.Render(title))

	msg := fmt.Sprintf(
		"You have been inactive for too long. You will be disconnected in %3d seconds.",
		int(config.InactivityDisconnectUser-time.Since(c.lastInput).Seconds()),
	)
	cw.WriteAt(centerX-len(msg)/2, centerY, msg)

	hint := "Press any key to continue"
	cw.WriteAt(centerX-len(hint)/2, centerY+2, hint)
}

// drawShutdownScreen draws the server shutdown notification screen.
func (c *Client) drawShutdownScreen(centerX, centerY int) {
	cw := c.uiWriter
	title := "SERVER SHUTTING DOWN"
	cw.WriteAt(centerX-len(title)/2, centerY-3, c.styles.failure.Render(title))

	msg1 := "The server is restarting for maintenance."
	cw.WriteAt(centerX-len(msg1)/2, centerY-1, msg1)

	msg2 := "Please reconnect in a moment."
	cw.WriteAt(centerX-len(msg2)/2, centerY, msg2)

	remaining := int(c.state.shutdownTimer) + 1
	countdown := fmt.Sprintf("Disconnecting in %2d seconds...", remaining)
	cw.WriteAt(centerX-len(countdown)/2, centerY+2, countdown)

	hint := "Press Q to disconnect now"
	cw.WriteAt(centerX-len(hint)/2, centerY+4, hint)
}
