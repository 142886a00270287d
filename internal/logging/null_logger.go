package logging

import "github.com/vvka-141/kagglefetch/pkg/kagglefetch"

var (
	_ kagglefetch.Logger = (*NullLogger)(nil)
	_ kagglefetch.Logger = (*ConsoleLogger)(nil)
)

// NullLogger discards progress notices. Components fall back to it when no
// logger is supplied, so library callers get silent fetches and loads.
type NullLogger struct{}

func NewNullLogger() *NullLogger {
	return &NullLogger{}
}

func (l *NullLogger) Verbose(string, ...interface{}) {}

func (l *NullLogger) Info(string, ...interface{}) {}

func (l *NullLogger) Error(string, ...interface{}) {}
