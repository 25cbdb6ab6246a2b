// Package loop runs a single local game session in the current terminal.
package loop

import (
	"bufio"
	"io"

	"github.com/charmbracelet/log"

	"github.com/tomz197/circles/internal/loop/client"
	"github.com/tomz197/circles/internal/loop/server"
)

// Options configures a local session.
type Options struct {
	Username  string
	MaxPoints int
	Logger    *log.Logger
}

// Run plays in the terminal behind r and w until the player quits.
// It runs the same client as remote sessions against a private hub.
func Run(r *bufio.Reader, w io.Writer, opts Options) error {
	hub := server.NewServer(opts.Logger)
	c := client.NewClient(hub, r, w, client.ClientOptions{
		Username:  opts.Username,
		MaxPoints: opts.MaxPoints,
		Logger:    opts.Logger,
	})
	return c.Run()
}
