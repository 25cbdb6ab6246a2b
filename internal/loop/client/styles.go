package client

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/tomz197/circles/internal/game"
)

// styles are the lipgloss styles of one session. Each session renders through
// its own renderer because SSH sessions do not share the server's terminal.
type styles struct {
	title   lipgloss.Style
	success lipgloss.Style
	failure lipgloss.Style
	info    lipgloss.Style
	dim     lipgloss.Style
	button  lipgloss.Style
	field   lipgloss.Style
}

// newStyles builds styles for w using plain 16-colour ANSI, which every
// terminal reachable over SSH understands.
func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	r.SetColorProfile(termenv.ANSI)

	return styles{
		title:   r.NewStyle().Bold(true),
		success: r.NewStyle().Bold(true).Foreground(lipgloss.Color("10")),
		failure: r.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
		info:    r.NewStyle().Foreground(lipgloss.Color("14")),
		dim:     r.NewStyle().Faint(true),
		button:  r.NewStyle().Bold(true).Reverse(true),
		field:   r.NewStyle().Underline(true),
	}
}

// forOutcome styles the headline.
func (s styles) forOutcome(o game.Outcome) lipgloss.Style {
	switch o {
	case game.OutcomeAllCleared:
		return s.success
	case game.OutcomeGameOver:
		return s.failure
	default:
		return s.title
	}
}

// forLevel styles a notification.
func (s styles) forLevel(l game.Level) lipgloss.Style {
	switch l {
	case game.LevelSuccess:
		return s.success
	case game.LevelError:
		return s.failure
	default:
		return s.info
	}
}
