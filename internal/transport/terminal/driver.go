// Package terminal drives a quiz shell from line-oriented input and renders
// text screens.
package terminal

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"quiz-client/internal/app"
	"quiz-client/internal/domain"
	"quiz-client/internal/view"
)

// Driver reads commands from in and writes screens to out.
type Driver struct {
	shell    *app.Shell
	in       io.Reader
	out      io.Writer
	renderer *view.TextRenderer
	log      zerolog.Logger

	screen       view.Screen
	shownMount   int
	shownVersion int
}

func NewDriver(shell *app.Shell, in io.Reader, out io.Writer, renderer *view.TextRenderer, log zerolog.Logger) *Driver {
	return &Driver{
		shell:    shell,
		in:       in,
		out:      out,
		renderer: renderer,
		log:      log,
	}
}

var errQuit = errors.New("quit")

// Run mounts the quiz and processes input until quit, EOF or ctx is done.
// Input is only read while the current screen accepts it, so commands typed
// during loading or scoring apply to the screen that follows.
func (d *Driver) Run(ctx context.Context) error {
	ctx, stop := context.WithCancel(ctx)
	defer stop()

	updates, cancel := d.shell.Subscribe()
	defer cancel()

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(d.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	c := d.shell.Mount()
	if c == nil {
		return domain.ErrUnmounted
	}
	if err := d.show(c.Snapshot()); err != nil {
		return err
	}

	for {
		var input <-chan string
		if d.screen.AcceptsInput() {
			input = lines
		}

		select {
		case <-ctx.Done():
			return ctx.Err()

		case snap, ok := <-updates:
			if !ok {
				return nil
			}
			if err := d.show(snap); err != nil {
				return err
			}

		case line, ok := <-input:
			if !ok {
				return nil
			}
			err := d.handle(strings.TrimSpace(line))
			if errors.Is(err, errQuit) {
				return nil
			}
			if err != nil {
				d.log.Debug().Err(err).Str("input", line).Msg("input rejected")
				if err := d.renderer.RenderHint(d.out, hintFor(err)); err != nil {
					return err
				}
			}
			if current := d.shell.Current(); current != nil {
				if err := d.show(current.Snapshot()); err != nil {
					return err
				}
			}
		}
	}
}

// show renders snap unless an equal or newer snapshot is already on screen.
func (d *Driver) show(snap app.Snapshot) error {
	if snap.Mount < d.shownMount || (snap.Mount == d.shownMount && snap.Version <= d.shownVersion) {
		return nil
	}
	d.shownMount, d.shownVersion = snap.Mount, snap.Version
	d.screen = view.Build(snap)
	return d.renderer.Render(d.out, d.screen)
}

func (d *Driver) handle(line string) error {
	cmd := strings.ToLower(line)
	if cmd == "q" || cmd == "quit" {
		return errQuit
	}

	c := d.shell.Current()
	if c == nil {
		return domain.ErrUnmounted
	}

	switch d.screen.Kind {
	case view.KindError, view.KindEmpty:
		if cmd == "r" || cmd == "retry" || cmd == "" {
			d.shell.Restart()
			return nil
		}

	case view.KindQuestion:
		if d.screen.Feedback != nil {
			if cmd == "" || cmd == "c" || cmd == "continue" {
				return c.Continue()
			}
			break
		}
		if cmd == "" || cmd == "s" || cmd == "submit" {
			return c.Submit()
		}
		if option, ok := parseOption(cmd); ok {
			return c.Select(option)
		}

	case view.KindResults:
		switch cmd {
		case "r", "restart":
			d.shell.Restart()
			return nil
		case "s", "share":
			return d.renderer.RenderShare(d.out, d.screen.Results.ShareText)
		}
	}
	return domain.ErrInvalidTransition
}

// parseOption accepts "1".."n" or "a".."z" and returns a zero-based index.
func parseOption(cmd string) (int, bool) {
	if n, err := strconv.Atoi(cmd); err == nil {
		return n - 1, true
	}
	if len(cmd) == 1 && cmd[0] >= 'a' && cmd[0] <= 'z' {
		return int(cmd[0] - 'a'), true
	}
	return 0, false
}

func hintFor(err error) string {
	switch {
	case errors.Is(err, domain.ErrNoSelection):
		return "Pick an option first."
	case errors.Is(err, domain.ErrInvalidOption):
		return "No such option."
	default:
		return "Unknown command."
	}
}
