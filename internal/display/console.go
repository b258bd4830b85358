package display

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/chzyer/readline"

	"github.com/hammamikhairi/wristtimer/internal/domain"
	"github.com/hammamikhairi/wristtimer/internal/input"
	"github.com/hammamikhairi/wristtimer/internal/logger"
)

// Compile-time interface checks.
var (
	_ domain.Display     = (*Console)(nil)
	_ domain.ModeDisplay = (*Console)(nil)
)

// Handler runs one parsed command and returns a status line to print.
type Handler func(ctx context.Context, cmd input.Command) (string, error)

const consoleHelp = `Commands:
  select | s          click Select (start, pause, next unit)
  long | m            long-press Select (enter or leave setting)
  double | x          double-click Select (reset)
  up [n] | down [n]   click or hold Up/Down
  set H:M:S           type the duration while setting
  status              show the timer
  help                show this help
  quit                exit`

// Console is a line-oriented face: the prompt carries the live countdown
// and commands are typed words.
type Console struct {
	rl     *readline.Instance
	parser *input.KeywordParser
	log    *logger.Logger

	mu        sync.Mutex
	title     string
	countdown string
	clock     string
	mode      domain.Mode
	unit      domain.Unit
	markerOn  bool
}

// NewConsole creates the readline console.
func NewConsole(log *logger.Logger) (*Console, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "wristtimer> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}

	return &Console{
		rl:        rl,
		parser:    input.NewKeywordParser(log),
		log:       log,
		countdown: "--:--:--",
	}, nil
}

// PrintUrgent prints an urgent line in soft red above the prompt.
func (c *Console) PrintUrgent(text string) {
	fmt.Fprintln(c.rl.Stdout(), urgentLine(text))
}

// SetTitle implements domain.Display.
func (c *Console) SetTitle(text string) {
	c.update(func() { c.title = text })
}

// SetCountdown implements domain.Display.
func (c *Console) SetCountdown(text string) {
	c.update(func() { c.countdown = text })
}

// SetClock implements domain.Display.
func (c *Console) SetClock(text string) {
	c.update(func() { c.clock = text })
}

// SetMarker implements domain.Display.
func (c *Console) SetMarker(unit domain.Unit, visible bool) {
	c.update(func() { c.unit, c.markerOn = unit, visible })
}

// SetMode implements domain.ModeDisplay.
func (c *Console) SetMode(mode domain.Mode) {
	c.update(func() { c.mode = mode })
}

func (c *Console) update(fn func()) {
	c.mu.Lock()
	fn()
	prompt := consolePrompt(c.mode, c.countdown, c.unit, c.markerOn)
	c.mu.Unlock()

	c.rl.SetPrompt(prompt)
	c.rl.Refresh()
}

// consolePrompt renders e.g. "[running 00:04:12] > ".
func consolePrompt(mode domain.Mode, countdown string, unit domain.Unit, markerOn bool) string {
	shown := countdown
	if mode == domain.ModeSetting {
		shown = markField(countdown, unit, markerOn)
	}
	return fmt.Sprintf("[%s %s] > ", mode, shown)
}

// Run reads commands until quit, EOF or ctx cancellation.
func (c *Console) Run(ctx context.Context, handle Handler) error {
	defer c.rl.Close()

	c.mu.Lock()
	title, clock := c.title, c.clock
	c.mu.Unlock()
	fmt.Fprintf(c.rl.Stdout(), "%s  %s\n", title, clock)
	fmt.Fprintln(c.rl.Stdout(), "Type 'help' for commands.")

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		line, err := c.rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				if strings.TrimSpace(line) == "" {
					return nil
				}
				continue
			}
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("read command: %w", err)
		}

		if c.execute(ctx, line, handle) {
			return nil
		}
	}
}

// Close releases the terminal. Run returns after the next read.
func (c *Console) Close() error {
	return c.rl.Close()
}

// execute runs one input line. It reports whether the user asked to quit.
func (c *Console) execute(ctx context.Context, line string, handle Handler) bool {
	out := c.rl.Stdout()

	cmd, err := c.parser.Parse(line)
	if err != nil {
		fmt.Fprintf(out, "Error: %v\n", err)
		return false
	}

	switch cmd.Kind {
	case input.CommandUnknown:
		if cmd.Raw != "" {
			fmt.Fprintf(out, "Unknown command: %s (type 'help' for commands)\n", cmd.Raw)
		}
		return false
	case input.CommandHelp:
		fmt.Fprintln(out, consoleHelp)
		return false
	case input.CommandQuit:
		fmt.Fprintln(out, "Exiting...")
		return true
	}

	c.log.Debug("console: running %s %q", cmd.Kind, cmd.Raw)
	status, err := handle(ctx, cmd)
	if err != nil {
		if ctx.Err() != nil {
			return true
		}
		fmt.Fprintf(out, "Error: %v\n", err)
		return false
	}
	if cmd.Kind == input.CommandStatus || cmd.Kind == input.CommandSet {
		fmt.Fprintln(out, status)
	}
	return false
}
