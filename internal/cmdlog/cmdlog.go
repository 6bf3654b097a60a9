// Package cmdlog records one line per CLI command with where its config came from.
package cmdlog

import (
	"time"

	"besttweets/internal/apperr"
	"besttweets/internal/logging"
	"besttweets/internal/metrics"
)

// Run executes cmd with the config file at configPath. f may add fields it learns while
// running (storage driver, environment); they are logged with the result.
func Run(cmd, configPath string, f func(fields map[string]any) error) error {
	metrics.IncCommandRun(cmd)
	fields := map[string]any{"config": configPath}
	start := time.Now()
	err := f(fields)
	fields["duration_ms"] = time.Since(start).Milliseconds()
	if err != nil {
		metrics.IncCommandError(cmd)
		fields["error"] = err.Error()
		if op := apperr.OpOf(err); op != "" {
			fields["op"] = op
			fields["kind"] = apperr.KindOf(err).String()
		}
		logging.Error(cmd+"_error", fields)
		return err
	}
	logging.Info(cmd+"_ok", fields)
	return nil
}
