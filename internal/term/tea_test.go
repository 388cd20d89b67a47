package term

import (
	"bytes"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/sysmon/internal/monitor"
)

func sampleFrame() monitor.Frame {
	return monitor.Frame{
		Width:  20,
		Height: 2,
		Lines: []monitor.Line{
			{{Text: " Overview ", Role: monitor.RoleTabActive}, {Text: " Disks ", Role: monitor.RoleTabInactive}},
			{{Text: "cpu ", Role: monitor.RoleLabel}, {Text: " 42.0%", Role: monitor.RoleNormal}},
		},
	}
}

func TestTeaModel_ForwardsKeys(t *testing.T) {
	term := NewTea(WithOutput(&bytes.Buffer{}))
	m := teaModel{term: term}

	tests := []struct {
		msg    tea.KeyMsg
		expect string
	}{
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}}, "q"},
		{tea.KeyMsg{Type: tea.KeyShiftTab}, "shift+tab"},
		{tea.KeyMsg{Type: tea.KeyCtrlC}, "ctrl+c"},
		{tea.KeyMsg{Type: tea.KeyPgDown}, "pgdown"},
		{tea.KeyMsg{Type: tea.KeyEsc}, "esc"},
		{tea.KeyMsg{Type: tea.KeyHome}, "home"},
	}

	for _, tt := range tests {
		t.Run(tt.expect, func(t *testing.T) {
			_, cmd := m.Update(tt.msg)
			assert.Nil(t, cmd)

			ev, ok, err := term.PollEvent(time.Second)
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, monitor.KeyEvent(tt.expect), ev)
		})
	}
}

func TestTeaModel_WindowSize(t *testing.T) {
	term := NewTea(WithOutput(&bytes.Buffer{}))
	m := teaModel{term: term}

	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})

	w, h := term.Size()
	assert.Equal(t, 120, w)
	assert.Equal(t, 40, h)

	ev, ok, err := term.PollEvent(time.Second)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, monitor.ResizeEvent(120, 40), ev)
}

func TestTeaModel_PaintsFrames(t *testing.T) {
	term := NewTea(WithOutput(&bytes.Buffer{}), WithNoColor())
	var m tea.Model = teaModel{term: term}

	assert.Empty(t, m.View())

	frame := sampleFrame()
	m, _ = m.Update(frameMsg(frame))
	assert.Equal(t, frame.Text(), m.View())
}

func TestTea_PollEventTimeout(t *testing.T) {
	term := NewTea(WithOutput(&bytes.Buffer{}))

	_, ok, err := term.PollEvent(10 * time.Millisecond)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTea_NotEntered(t *testing.T) {
	term := NewTea(WithOutput(&bytes.Buffer{}))

	assert.ErrorIs(t, term.WriteFrame(sampleFrame()), ErrNotEntered)
	assert.NoError(t, term.Exit())

	w, h := term.Size()
	assert.Zero(t, w)
	assert.Zero(t, h)
}

func TestTea_Program(t *testing.T) {
	var out bytes.Buffer
	term := NewTea(
		WithOutput(&out),
		WithNoColor(),
		WithProgramOptions(tea.WithInput(nil)),
	)

	require.NoError(t, term.Enter())
	require.NoError(t, term.WriteFrame(sampleFrame()))

	term.program.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	var got monitor.Event
	for i := 0; i < 10; i++ {
		ev, ok, err := term.PollEvent(time.Second)
		require.NoError(t, err)
		if ok && ev.Kind == monitor.EventKey {
			got = ev
			break
		}
	}
	assert.Equal(t, monitor.KeyEvent("j"), got)

	require.NoError(t, term.Exit())
	require.NoError(t, term.Exit(), "Exit is idempotent")

	_, _, err := term.PollEvent(time.Second)
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, term.WriteFrame(sampleFrame()), ErrClosed)
}

func TestNew(t *testing.T) {
	tm, err := New("tea", false)
	require.NoError(t, err)
	assert.IsType(t, &Tea{}, tm)

	tm, err = New("TCELL", true)
	require.NoError(t, err)
	assert.IsType(t, &Tcell{}, tm)

	_, err = New("tcel", false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `did you mean "tcell"`)

	_, err = New("curses", false)
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "did you mean")
}
