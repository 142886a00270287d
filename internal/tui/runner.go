package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/vvka-141/kagglefetch/internal/logging"
	"github.com/vvka-141/kagglefetch/internal/tui/components"
	"github.com/vvka-141/kagglefetch/pkg/kagglefetch"
)

// Task is blocking work shown behind a spinner. It reports progress through
// logger and returns a one-line result.
type Task func(ctx context.Context, logger kagglefetch.Logger) (string, error)

// RunWithSpinner runs task while a spinner on stderr shows its latest progress
// notice. Outside an interactive terminal the task runs directly with a
// console logger on stderr.
//
// RunWithSpinner never returns before task does. When the spinner stops early
// (interrupt or cancelled ctx) the task's context is cancelled and its
// cleanup runs to completion first.
func RunWithSpinner(ctx context.Context, message string, verbose bool, task Task) (string, error) {
	if !IsInteractive() {
		return task(ctx, logging.NewConsoleLogger(verbose))
	}
	return runInProgram(ctx, message, verbose, task, os.Stderr)
}

func runInProgram(ctx context.Context, message string, verbose bool, task Task, out io.Writer) (string, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	m := &spinnerModel{spinner: components.NewSpinner(message)}
	p := tea.NewProgram(m, tea.WithOutput(out), tea.WithInput(nil), tea.WithContext(ctx))
	logger := &programLogger{
		program:  p,
		fallback: logging.NewConsoleLoggerTo(out, verbose),
		verbose:  verbose,
	}

	done := make(chan taskDoneMsg, 1)
	go func() {
		result, err := task(ctx, logger)
		msg := taskDoneMsg{result: result, err: err}
		done <- msg
		p.Send(msg)
	}()

	_, runErr := p.Run()
	logger.stopped.Store(true)
	cancel()
	res := <-done

	switch {
	case errors.Is(runErr, tea.ErrInterrupted):
		return "", fmt.Errorf("interrupted: %w", context.Canceled)
	case runErr != nil && res.err == nil:
		return "", fmt.Errorf("spinner failed: %w", runErr)
	}
	return res.result, res.err
}

type taskDoneMsg struct {
	result string
	err    error
}

// logLineMsg is printed above the spinner.
type logLineMsg struct {
	line   string
	status bool
}

// spinnerModel renders task progress and quits when the task finishes.
type spinnerModel struct {
	spinner components.Spinner
}

func (m *spinnerModel) Init() tea.Cmd {
	return m.spinner.Init()
}

func (m *spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case taskDoneMsg:
		if msg.err != nil {
			m.spinner, _ = m.spinner.Update(components.SpinnerFailed(msg.err))
		} else {
			m.spinner, _ = m.spinner.Update(components.SpinnerDone(msg.result))
		}
		return m, tea.Quit
	case logLineMsg:
		if msg.status {
			m.spinner, _ = m.spinner.Update(components.SpinnerStatusMsg(msg.line))
		}
		return m, tea.Println(msg.line)
	}

	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	return m, cmd
}

func (m *spinnerModel) View() string {
	return m.spinner.View()
}

// programLogger routes notices through the running program and falls back to
// plain console output once the program has stopped.
type programLogger struct {
	program  *tea.Program
	fallback kagglefetch.Logger
	verbose  bool
	stopped  atomic.Bool
}

func (l *programLogger) Verbose(format string, args ...interface{}) {
	if l.stopped.Load() {
		l.fallback.Verbose(format, args...)
		return
	}
	if l.verbose {
		l.program.Send(logLineMsg{line: "[VERBOSE] " + fmt.Sprintf(format, args...)})
	}
}

func (l *programLogger) Info(format string, args ...interface{}) {
	if l.stopped.Load() {
		l.fallback.Info(format, args...)
		return
	}
	l.program.Send(logLineMsg{line: fmt.Sprintf(format, args...), status: true})
}

func (l *programLogger) Error(format string, args ...interface{}) {
	if l.stopped.Load() {
		l.fallback.Error(format, args...)
		return
	}
	l.program.Send(logLineMsg{line: "[ERROR] " + fmt.Sprintf(format, args...)})
}
