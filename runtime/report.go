package runtime

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/pithecene-io/msdev/bridge"
	"github.com/pithecene-io/msdev/metrics"
)

// RunReport is the JSON report written by --report after run or serve.
type RunReport struct {
	InvocationID string `json:"invocation_id"`
	App          string `json:"app"`
	Mode         string `json:"mode"`
	Outcome      string `json:"outcome"`
	Message      string `json:"message,omitempty"`
	ExitCode     int    `json:"exit_code"`
	DurationMs   int64  `json:"duration_ms"`
	Artifact     string `json:"artifact,omitempty"`
	URL          string `json:"url,omitempty"`
	Interrupted  bool   `json:"interrupted"`

	Bridge  *ReportBridge     `json:"bridge"`
	Metrics *metrics.Snapshot `json:"metrics"`
}

// ReportBridge describes the attached bridge in the report.
type ReportBridge struct {
	bridge.HeadlessSpec
	Owned bool `json:"owned"`
}

// kinded is implemented by every failure msdev classifies.
type kinded interface {
	Kind() string
}

// BuildRunReport composes a report. err is the failure, if any; exitCode is
// the process exit code that will be returned.
func BuildRunReport(invocationID string, result RunResult, err error, snap metrics.Snapshot, exitCode int) *RunReport {
	report := &RunReport{
		InvocationID: invocationID,
		App:          result.App,
		Mode:         string(result.Mode),
		Outcome:      "success",
		ExitCode:     exitCode,
		DurationMs:   result.Duration.Milliseconds(),
		Artifact:     result.Artifact,
		URL:          result.URL,
		Interrupted:  result.Interrupted,
		Metrics:      &snap,
	}
	if err != nil {
		report.Outcome = "error"
		var k kinded
		if errors.As(err, &k) {
			report.Outcome = k.Kind()
		}
		report.Message = err.Error()
	}
	if result.Bridge != nil {
		report.Bridge = &ReportBridge{HeadlessSpec: *result.Bridge, Owned: result.BridgeOwned}
	}
	return report
}

// WriteRunReport writes the report as JSON to path. "-" writes to stderr.
func WriteRunReport(report *RunReport, path string) error {
	if path == "" {
		return errors.New("report path must not be empty")
	}
	if path == "-" {
		if err := writeRunReportTo(report, os.Stderr); err != nil {
			return fmt.Errorf("failed to write report to stderr: %w", err)
		}
		return nil
	}

	data, err := marshalReport(report)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write report to %s: %w", path, err)
	}
	return nil
}

func writeRunReportTo(report *RunReport, w io.Writer) error {
	data, err := marshalReport(report)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func marshalReport(report *RunReport) ([]byte, error) {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal report: %w", err)
	}
	return append(data, '\n'), nil
}
