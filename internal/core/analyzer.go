package core

import (
	"strings"

	"go.uber.org/zap"
)

// HeadersUnavailable replaces the header block when the host cannot return it
const HeadersUnavailable = "Headers unavailable"

// IsSimulatedPhishing reports whether the marker appears anywhere in the raw
// header block. Empty headers and an empty marker never match.
func IsSimulatedPhishing(headers, marker string) (simulated bool) {
	defer func() {
		if r := recover(); r != nil {
			simulated = false
		}
	}()

	if headers == "" || marker == "" {
		return false
	}
	return strings.Contains(headers, marker)
}

// classify sets the simulated-phishing flag on the snapshot
func (s *ReportService) classify(snap *MessageSnapshot) {
	snap.IsSimulatedPhishing = IsSimulatedPhishing(snap.Headers, s.cfg.MarkerHeader)
	if snap.IsSimulatedPhishing {
		s.logger.Info("Simulated phishing email detected",
			zap.String("run_id", snap.RunID),
			zap.String("marker", s.cfg.MarkerHeader))
	}
}
