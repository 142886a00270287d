package components

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Spinner shows the latest progress notice of a running task with the time
// elapsed since it started.
type Spinner struct {
	spinner spinner.Model
	message string
	started time.Time
	now     func() time.Time
	done    bool
	result  string
	err     error
	styles  spinnerStyles
}

type spinnerStyles struct {
	Message lipgloss.Style
	Elapsed lipgloss.Style
	Success lipgloss.Style
	Error   lipgloss.Style
}

func defaultSpinnerStyles() spinnerStyles {
	return spinnerStyles{
		Message: lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		Elapsed: lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color("34")),
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	}
}

// NewSpinner creates a new spinner with the given message.
func NewSpinner(message string) Spinner {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))

	return Spinner{
		spinner: s,
		message: message,
		started: time.Now(),
		now:     time.Now,
		styles:  defaultSpinnerStyles(),
	}
}

// Init implements tea.Model.
func (s Spinner) Init() tea.Cmd {
	return s.spinner.Tick
}

// Update implements tea.Model.
func (s Spinner) Update(msg tea.Msg) (Spinner, tea.Cmd) {
	switch msg := msg.(type) {
	case SpinnerStatusMsg:
		s.message = string(msg)
		return s, nil
	case SpinnerDoneMsg:
		s.done = true
		s.result = msg.Result
		s.err = msg.Err
		return s, nil
	case spinner.TickMsg:
		if s.done {
			return s, nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd
	}
	return s, nil
}

// View implements tea.Model.
func (s Spinner) View() string {
	if s.done {
		if s.err == nil {
			return s.styles.Success.Render("✓ "+s.result) + "\n"
		}
		return s.styles.Error.Render("✗ "+s.err.Error()) + "\n"
	}
	return s.spinner.View() + " " + s.styles.Message.Render(s.message) + " " + s.styles.Elapsed.Render(s.elapsed())
}

func (s Spinner) elapsed() string {
	d := s.now().Sub(s.started).Truncate(time.Second)
	return fmt.Sprintf("(%s)", d)
}

// SpinnerStatusMsg replaces the spinner message.
type SpinnerStatusMsg string

// SpinnerDoneMsg signals that the spinner operation is complete.
type SpinnerDoneMsg struct {
	Result string
	Err    error
}

// SpinnerDone creates a success message.
func SpinnerDone(result string) SpinnerDoneMsg {
	return SpinnerDoneMsg{Result: result}
}

// SpinnerFailed creates a failure message.
func SpinnerFailed(err error) SpinnerDoneMsg {
	return SpinnerDoneMsg{Err: err}
}
