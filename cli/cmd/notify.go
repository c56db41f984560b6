package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/pithecene-io/msdev/adapter"
	"github.com/pithecene-io/msdev/adapter/redis"
	"github.com/pithecene-io/msdev/adapter/webhook"
	"github.com/pithecene-io/msdev/build"
	"github.com/pithecene-io/msdev/cli/config"
	"github.com/pithecene-io/msdev/iox"
	"github.com/pithecene-io/msdev/types"
)

// defaultNotifyRetries applies when notify.retries is unset.
const defaultNotifyRetries = 3

// notifyBudget bounds the whole publish, retries included.
const notifyBudget = 30 * time.Second

// newNotifier builds the configured adapter. A config without a type
// yields nil: notifications are off.
func newNotifier(cfg config.NotifyConfig) (adapter.Adapter, error) {
	retries := defaultNotifyRetries
	if cfg.Retries != nil {
		retries = *cfg.Retries
	}

	switch cfg.Type {
	case "":
		return nil, nil
	case "webhook":
		return webhook.New(webhook.Config{
			URL:     cfg.URL,
			Headers: cfg.Headers,
			Secret:  cfg.Secret,
			Timeout: cfg.Timeout.Duration,
			Retries: retries,
		})
	case "redis":
		return redis.New(redis.Config{
			URL:     cfg.URL,
			Channel: cfg.Channel,
			Timeout: cfg.Timeout.Duration,
			Retries: retries,
			LastTTL: cfg.LastTTL.Duration,
		})
	default:
		return nil, fmt.Errorf("unknown notify adapter %q", cfg.Type)
	}
}

// buildEvent composes the notification for a finished build.
func buildEvent(s *session, mode types.Mode, app string, dryRun bool, art build.Artifact, err build.Error, code int, started, finished time.Time) *adapter.BuildCompletedEvent {
	ev := &adapter.BuildCompletedEvent{
		ContractVersion: types.NotificationVersion,
		EventType:       adapter.EventTypeBuildCompleted,
		InvocationID:    s.meta.InvocationID,
		App:             app,
		Mode:            string(mode),
		Outcome:         adapter.OutcomeSuccess,
		ExitCode:        code,
		Artifact:        art.Path,
		DryRun:          dryRun,
		Platform:        s.platform.String(),
		Timestamp:       adapter.FormatTimestamp(finished),
		DurationMs:      finished.Sub(started).Milliseconds(),
	}
	if err != nil {
		ev.Outcome = err.Kind()
		ev.Message = err.Error()
	}
	return ev
}

// publish sends ev through the configured adapter. Notification failures
// are logged and counted; they never change the command's exit code.
func (s *session) publish(ev *adapter.BuildCompletedEvent) {
	n, err := newNotifier(s.cfg.Notify)
	if err != nil {
		s.metrics.IncNotifyFailure()
		s.logger.Warn("notification adapter unavailable", map[string]any{"error": err.Error()})
		return
	}
	if n == nil {
		return
	}
	defer iox.DiscardClose(n)

	ctx, cancel := context.WithTimeout(context.Background(), notifyBudget)
	defer cancel()
	if err := n.Publish(ctx, ev); err != nil {
		s.metrics.IncNotifyFailure()
		s.logger.Warn("build notification failed", map[string]any{"type": s.cfg.Notify.Type, "error": err.Error()})
		return
	}
	s.metrics.IncNotifySuccess()
	s.logger.Debug("build notification sent", map[string]any{"type": s.cfg.Notify.Type})
}
