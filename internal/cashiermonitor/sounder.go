package cashiermonitor

import "uno-qr-menu/pkg/logger"

// LogSounder announces cues as log lines. A cashier station wires the same
// interface to its actual audio output.
type LogSounder struct {
	logger *logger.Logger
}

func NewLogSounder(log *logger.Logger) *LogSounder {
	return &LogSounder{logger: log}
}

func (s *LogSounder) PlayOrderCue() {
	s.logger.Info("", "sound_cue", "new-order")
}

func (s *LogSounder) PlayQuickActionCue() {
	s.logger.Info("", "sound_cue", "quick-action")
}
