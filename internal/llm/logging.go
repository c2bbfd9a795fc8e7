package llm

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// LoggingProvider is a decorator that records every LLM request in the
// structured log.
type LoggingProvider struct {
	inner Provider
	log   logrus.FieldLogger
}

// WithLogging wraps a Provider with request logging.
func WithLogging(p Provider, log logrus.FieldLogger) Provider {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &LoggingProvider{inner: p, log: log}
}

func (l *LoggingProvider) Ask(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	purpose := PurposeFrom(ctx)

	resp, err := l.inner.Ask(ctx, req)

	fields := logrus.Fields{
		"provider":   l.inner.ModelID(),
		"purpose":    purpose,
		"latency_ms": time.Since(start).Milliseconds(),
	}

	if resp != nil {
		fields["model"] = resp.Model
		fields["input_tokens"] = resp.Usage.InputTokens
		fields["output_tokens"] = resp.Usage.OutputTokens
		if cost := LookupCost(resp.Model); cost != nil {
			fields["cost_usd"] = cost.Cost(resp.Usage.InputTokens, resp.Usage.OutputTokens)
		}
	}

	if err != nil {
		l.log.WithFields(fields).WithError(err).Warn("llm request failed")
		return resp, err
	}

	l.log.WithFields(fields).Debug("llm request")
	return resp, nil
}

func (l *LoggingProvider) ModelID() string {
	return l.inner.ModelID()
}
