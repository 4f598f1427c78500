// Package notify defines the fire-and-forget notification sink surfaced to
// the user. Core operations never depend on a sink being present or
// functional; delivery failures are swallowed.
package notify

import "log/slog"

// Notifier receives user-facing success/error/info signals.
type Notifier interface {
	Success(msg string)
	Error(msg string)
	Info(msg string)
}

// LogNotifier writes notifications to a structured logger. It is the
// default sink for CLI and server runs.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier creates a logger-backed notification sink.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Success(msg string) { n.logger.Info("notify: " + msg) }
func (n *LogNotifier) Error(msg string)   { n.logger.Error("notify: " + msg) }
func (n *LogNotifier) Info(msg string)    { n.logger.Info("notify: " + msg) }

// Nop discards all notifications.
type Nop struct{}

func (Nop) Success(string) {}
func (Nop) Error(string)   {}
func (Nop) Info(string)    {}
