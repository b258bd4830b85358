// Package display provides the watch faces a person can look at: a
// Bubble Tea terminal face, a readline console, and a fan-out that drives
// several faces at once.
//
// Every face implements domain.Display. Calls arrive from the timer's
// event loop goroutine; the terminal face forwards them to Bubble Tea
// with Program.Send so the model is only ever touched by its own loop.
package display

import (
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hammamikhairi/wristtimer/internal/domain"
	"github.com/hammamikhairi/wristtimer/internal/input"
)

// Compile-time interface checks.
var (
	_ domain.Display     = (*UI)(nil)
	_ domain.ModeDisplay = (*UI)(nil)
)

// ── Styles ───────────────────────────────────────────────────────

var (
	faceStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#52525b")).
			Padding(1, 3).
			Align(lipgloss.Center)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#a1a1aa"))

	countdownStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#d4d4d8")).
			Bold(true)

	runningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#fde68a")).
			Bold(true)

	markerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#bbf7d0"))

	clockStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#71717a"))

	modeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#94a3b8")).
			Italic(true)

	// BannerStyle is muted slate for the startup banner.
	BannerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#94a3b8"))

	urgentOutputStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#fca5a5"))
)

// ── Keys ─────────────────────────────────────────────────────────

type keyMap struct {
	Select key.Binding
	Long   key.Binding
	Double key.Binding
	Up     key.Binding
	Down   key.Binding
	Quit   key.Binding
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Select, k.Long, k.Double, k.Up, k.Down, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

var keys = keyMap{
	Select: key.NewBinding(
		key.WithKeys("enter", " "),
		key.WithHelp("enter", "start/pause"),
	),
	Long: key.NewBinding(
		key.WithKeys("s", "tab"),
		key.WithHelp("s", "set"),
	),
	Double: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "reset"),
	),
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓", "down"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// ── UI ───────────────────────────────────────────────────────────

// CommandFunc receives the gesture a key press stands for. It runs on a
// single forwarding goroutine, one command at a time in key order, and may
// block.
type CommandFunc func(cmd input.Command)

// commandQueue is how many key presses may wait for the event loop.
const commandQueue = 32

// UI is the terminal watch face.
//
// Call [NewUI] then [UI.Run] (blocking). Other goroutines may call the
// Display methods and [UI.PrintUrgent] once [UI.Ready] is closed.
type UI struct {
	program   atomic.Pointer[tea.Program]
	onCommand CommandFunc
	commands  chan input.Command
	readyCh   chan struct{}
	quitCh    chan struct{}
	done      atomic.Bool
}

// NewUI creates the face. Key presses are reported to onCommand.
func NewUI(onCommand CommandFunc) *UI {
	return &UI{
		onCommand: onCommand,
		commands:  make(chan input.Command, commandQueue),
		readyCh:   make(chan struct{}),
		quitCh:    make(chan struct{}),
	}
}

// SetTitle implements domain.Display.
func (u *UI) SetTitle(text string) { u.send(titleMsg(text)) }

// SetCountdown implements domain.Display.
func (u *UI) SetCountdown(text string) { u.send(countdownMsg(text)) }

// SetClock implements domain.Display.
func (u *UI) SetClock(text string) { u.send(clockMsg(text)) }

// SetMarker implements domain.Display.
func (u *UI) SetMarker(unit domain.Unit, visible bool) {
	u.send(markerMsg{unit: unit, visible: visible})
}

// SetMode implements domain.ModeDisplay.
func (u *UI) SetMode(mode domain.Mode) { u.send(modeMsg(mode)) }

func (u *UI) send(msg tea.Msg) {
	if p := u.program.Load(); p != nil && !u.done.Load() {
		p.Send(msg)
	}
}

// PrintUrgent prints an urgent line in soft red above the face.
// Thread-safe. If the program isn't running, falls back to fmt.Println.
func (u *UI) PrintUrgent(text string) {
	line := urgentLine(text)
	if p := u.program.Load(); p != nil && !u.done.Load() {
		p.Println(line)
	} else {
		fmt.Println(line)
	}
}

// urgentLine styles an urgent message for either terminal face.
func urgentLine(text string) string {
	return urgentOutputStyle.Render("  " + text)
}

// Ready is closed once the Bubble Tea event loop is running.
func (u *UI) Ready() <-chan struct{} { return u.readyCh }

// Quit tells Bubble Tea to exit. Before Run it does nothing.
func (u *UI) Quit() {
	if p := u.program.Load(); p != nil {
		p.Quit()
	}
}

// QuitChan is closed when Run returns.
func (u *UI) QuitChan() <-chan struct{} { return u.quitCh }

// Run starts the Bubble Tea event loop. Blocks until quit.
func (u *UI) Run() error {
	p := tea.NewProgram(newModel(u.commands, u.readyCh))
	u.program.Store(p)

	go u.forward()
	_, err := p.Run()
	u.done.Store(true)
	close(u.quitCh)
	return err
}

// forward hands queued key commands to onCommand one at a time until Run
// returns.
func (u *UI) forward() {
	for {
		select {
		case cmd := <-u.commands:
			if u.onCommand != nil {
				u.onCommand(cmd)
			}
		case <-u.quitCh:
			return
		}
	}
}

// ── Bubble Tea model ─────────────────────────────────────────────

type model struct {
	title     string
	countdown string
	clock     string
	mode      domain.Mode
	unit      domain.Unit
	markerOn  bool

	keys     keyMap
	help     help.Model
	commands chan<- input.Command
	readyCh  chan struct{}
	width    int
}

// Messages.
type (
	titleMsg     string
	countdownMsg string
	clockMsg     string
	modeMsg      domain.Mode
	markerMsg    struct {
		unit    domain.Unit
		visible bool
	}
)

func newModel(commands chan<- input.Command, readyCh chan struct{}) model {
	return model{
		countdown: "--:--:--",
		keys:      keys,
		help:      help.New(),
		commands:  commands,
		readyCh:   readyCh,
	}
}

func (m model) Init() tea.Cmd {
	if m.readyCh == nil {
		return nil
	}
	return signalReady(m.readyCh)
}

func signalReady(ch chan struct{}) tea.Cmd {
	return func() tea.Msg {
		close(ch)
		return nil
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Select):
			m.emit(input.Click(input.ButtonSelect))
		case key.Matches(msg, m.keys.Long):
			m.emit(input.LongPress(input.ButtonSelect))
		case key.Matches(msg, m.keys.Double):
			m.emit(input.DoubleClick(input.ButtonSelect))
		case key.Matches(msg, m.keys.Up):
			m.emit(input.Click(input.ButtonUp))
		case key.Matches(msg, m.keys.Down):
			m.emit(input.Click(input.ButtonDown))
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case titleMsg:
		m.title = string(msg)
		return m, tea.SetWindowTitle(m.title)
	case countdownMsg:
		m.countdown = string(msg)
	case clockMsg:
		m.clock = string(msg)
	case modeMsg:
		m.mode = domain.Mode(msg)
	case markerMsg:
		m.unit, m.markerOn = msg.unit, msg.visible
	}
	return m, nil
}

// emit queues the command for the forwarding goroutine. Update never
// blocks on the event loop; when the queue is full the key is dropped.
func (m model) emit(cmd input.Command) {
	if m.commands == nil {
		return
	}
	select {
	case m.commands <- cmd:
	default:
	}
}

func (m model) View() string {
	style := countdownStyle
	if m.mode == domain.ModeRunning {
		style = runningStyle
	}

	marker := " "
	if m.mode == domain.ModeSetting && m.markerOn {
		marker = markerLine(m.unit)
	}

	face := lipgloss.JoinVertical(lipgloss.Center,
		titleStyle.Render(m.title),
		"",
		style.Render(m.countdown),
		markerStyle.Render(padTo(marker, len(m.countdown))),
		"",
		clockStyle.Render(m.clock),
		modeStyle.Render(m.mode.String()),
	)

	var b strings.Builder
	b.WriteString(faceStyle.Render(face))
	b.WriteByte('\n')
	b.WriteString(m.help.View(m.keys))
	return b.String()
}
