package metrics

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

// PushJob is the Pushgateway job name of every CLI run.
const PushJob = "cartprice"

// Push replaces the metrics of the given command group on a Pushgateway.
// CLI runs are too short-lived to be scraped.
func Push(ctx context.Context, url, command string, g prometheus.Gatherer, timeout time.Duration) error {
	if url == "" {
		return errors.New("push url is empty")
	}
	if g == nil {
		return errors.New("gatherer is nil")
	}

	pusher := push.New(url, PushJob).
		Gatherer(g).
		Grouping("command", command).
		Client(&http.Client{Timeout: timeout})

	if err := pusher.PushContext(ctx); err != nil {
		return fmt.Errorf("pusher.PushContext: %w", err)
	}

	return nil
}
