package term

import (
	"errors"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	xterm "golang.org/x/term"

	"github.com/rileyhilliard/sysmon/internal/monitor"
)

// Tea is a monitor.Terminal backed by a Bubble Tea program. The program
// owns the terminal and forwards input; frames are sent to it as messages
// and shown by its View.
type Tea struct {
	output   io.Writer
	opts     []tea.ProgramOption
	noColor  bool
	renderer *lipgloss.Renderer
	styles   map[monitor.Role]lipgloss.Style

	program *tea.Program
	events  chan monitor.Event
	ready   chan struct{}
	done    chan struct{}
	runErr  error

	readyOnce sync.Once
	exitOnce  sync.Once

	mu            sync.Mutex
	width, height int
}

// TeaOption configures a Tea backend.
type TeaOption func(*Tea)

// WithOutput sets where the program draws. Defaults to stdout.
func WithOutput(w io.Writer) TeaOption {
	return func(t *Tea) {
		t.output = w
	}
}

// WithProgramOptions passes extra options to the Bubble Tea program.
func WithProgramOptions(opts ...tea.ProgramOption) TeaOption {
	return func(t *Tea) {
		t.opts = append(t.opts, opts...)
	}
}

// WithNoColor draws without colours; bold and reverse still apply.
func WithNoColor() TeaOption {
	return func(t *Tea) {
		t.noColor = true
	}
}

// NewTea creates a Bubble Tea backend.
func NewTea(opts ...TeaOption) *Tea {
	t := &Tea{
		output: os.Stdout,
		events: make(chan monitor.Event, 64),
		ready:  make(chan struct{}),
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.renderer = lipgloss.NewRenderer(t.output)
	if t.noColor {
		t.renderer.SetColorProfile(termenv.Ascii)
	}
	t.styles = buildStyles(t.renderer)
	return t
}

func buildStyles(r *lipgloss.Renderer) map[monitor.Role]lipgloss.Style {
	roles := []monitor.Role{
		monitor.RoleText, monitor.RoleMuted, monitor.RoleTitle, monitor.RoleLabel,
		monitor.RoleTabActive, monitor.RoleTabInactive, monitor.RoleNormal,
		monitor.RoleWarning, monitor.RoleCritical, monitor.RoleStale, monitor.RoleGraph,
	}
	styles := make(map[monitor.Role]lipgloss.Style, len(roles))
	for _, role := range roles {
		rs := monitor.StyleFor(role)
		styles[role] = r.NewStyle().
			Foreground(rs.Foreground).
			Bold(rs.Bold).
			Reverse(rs.Reverse)
	}
	return styles
}

// frameMsg carries a frame into the program.
type frameMsg monitor.Frame

// teaModel is the Bubble Tea model. It holds no monitor state, only the
// last painted frame.
type teaModel struct {
	term *Tea
	view string
}

func (m teaModel) Init() tea.Cmd {
	m.term.readyOnce.Do(func() { close(m.term.ready) })
	return nil
}

func (m teaModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		m.term.forward(monitor.KeyEvent(msg.String()))
	case tea.WindowSizeMsg:
		m.term.setSize(msg.Width, msg.Height)
		m.term.forward(monitor.ResizeEvent(msg.Width, msg.Height))
	case frameMsg:
		m.view = m.term.paint(monitor.Frame(msg))
	}
	return m, nil
}

func (m teaModel) View() string {
	return m.view
}

// forward queues an input event, dropping it if the monitor has fallen far
// behind.
func (t *Tea) forward(ev monitor.Event) {
	select {
	case t.events <- ev:
	default:
	}
}

func (t *Tea) setSize(w, h int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.width, t.height = w, h
}

// paint turns a frame into styled text.
func (t *Tea) paint(frame monitor.Frame) string {
	rows := make([]string, len(frame.Lines))
	for i, line := range frame.Lines {
		var sb strings.Builder
		for _, span := range line {
			style, ok := t.styles[span.Role]
			if !ok {
				style = t.styles[monitor.RoleText]
			}
			sb.WriteString(style.Render(span.Text))
		}
		rows[i] = sb.String()
	}
	return strings.Join(rows, "\n")
}

// Enter starts the program on the alternate screen and waits until it is
// running.
func (t *Tea) Enter() error {
	opts := append([]tea.ProgramOption{
		tea.WithAltScreen(),
		tea.WithOutput(t.output),
		// Signals are handled by the caller's context.
		tea.WithoutSignalHandler(),
	}, t.opts...)
	t.program = tea.NewProgram(teaModel{term: t}, opts...)

	go func() {
		_, err := t.program.Run()
		t.runErr = err
		close(t.done)
	}()

	select {
	case <-t.ready:
		return nil
	case <-t.done:
		if t.runErr != nil {
			return t.runErr
		}
		return ErrClosed
	}
}

// Exit stops the program, which restores the terminal, and waits for it.
func (t *Tea) Exit() error {
	if t.program == nil {
		return nil
	}
	var err error
	t.exitOnce.Do(func() {
		t.program.Quit()
		<-t.done
		if t.runErr != nil && !errors.Is(t.runErr, tea.ErrProgramKilled) {
			err = t.runErr
		}
	})
	return err
}

// PollEvent waits up to timeout for input.
func (t *Tea) PollEvent(timeout time.Duration) (monitor.Event, bool, error) {
	select {
	case <-t.done:
		return monitor.Event{}, false, ErrClosed
	default:
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case ev := <-t.events:
		return ev, true, nil
	case <-t.done:
		return monitor.Event{}, false, ErrClosed
	case <-timer.C:
		return monitor.Event{}, false, nil
	}
}

// WriteFrame hands frame to the program for drawing.
func (t *Tea) WriteFrame(frame monitor.Frame) error {
	if t.program == nil {
		return ErrNotEntered
	}
	select {
	case <-t.done:
		return ErrClosed
	default:
	}
	t.program.Send(frameMsg(frame))
	return nil
}

// Size returns the last size the program reported, falling back to the
// size of stdout before the first report.
func (t *Tea) Size() (int, int) {
	t.mu.Lock()
	w, h := t.width, t.height
	t.mu.Unlock()
	if w > 0 && h > 0 {
		return w, h
	}
	if f, ok := t.output.(*os.File); ok && xterm.IsTerminal(int(f.Fd())) {
		if w, h, err := xterm.GetSize(int(f.Fd())); err == nil {
			return w, h
		}
	}
	return 0, 0
}
