package report

import (
	"time"

	"github.com/psantana5/cpxanno/internal/anno"
	"github.com/psantana5/cpxanno/internal/logging"
)

// Target kinds, used as the "target" label on export counters
const (
	TargetFile   = "file"
	TargetStdout = "stdout"
	TargetHTTP   = "http"
)

// Result is the outcome of one export
type Result struct {
	Model    string
	Kind     string
	Target   string
	Stats    anno.Stats
	Duration time.Duration
	Err      error
}

// NewResult creates a result for an export that started at start
func NewResult(model, kind, target string, stats anno.Stats, start time.Time, err error) *Result {
	return &Result{
		Model:    model,
		Kind:     kind,
		Target:   target,
		Stats:    stats,
		Duration: time.Since(start),
		Err:      err,
	}
}

// LogSummary writes a one-line summary of the export
func (r *Result) LogSummary(l *logging.Logger) {
	fields := map[string]interface{}{
		"model":          r.Model,
		"target":         r.Target,
		"objects":        r.Stats.Objects,
		"annotations":    r.Stats.Annotations,
		"detached":       r.Stats.Detached,
		"ignored_scopes": r.Stats.IgnoredScopes,
		"duration_ms":    r.Duration.Milliseconds(),
	}
	if r.Err != nil {
		fields["error"] = r.Err.Error()
		l.Error("annotation export failed", fields)
		return
	}
	l.Info("annotation export finished", fields)
}
