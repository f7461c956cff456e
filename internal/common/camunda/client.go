// internal/common/camunda/client.go
package camunda

import (
	"context"
	"fmt"
	"time"

	"credit-risk-dashboard/internal/common/config"

	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"go.uber.org/zap"
)

// Client wraps the Zeebe gRPC client used by the credit job workers.
type Client struct {
	client         zbc.Client
	requestTimeout time.Duration
}

// BackoffConfig controls how long startup waits for the gateway.
type BackoffConfig struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
}

var DefaultBackoff = BackoffConfig{
	MaxAttempts:  10,
	InitialDelay: 2 * time.Second,
	MaxDelay:     30 * time.Second,
}

// NewClient connects to the gateway and confirms it with a topology request.
func NewClient(ctx context.Context, cfg config.CamundaConfig, backoff BackoffConfig, log *zap.Logger) (*Client, error) {
	requestTimeout := config.GetDuration(cfg.RequestTimeout)

	var zeebeClient zbc.Client
	err := RetryWithBackoff(ctx, backoff, log, "Zeebe client initialization", func() error {
		c, err := zbc.NewClient(&zbc.ClientConfig{
			GatewayAddress:         cfg.BrokerAddress,
			UsePlaintextConnection: true,
		})
		if err != nil {
			return err
		}

		topoCtx, cancel := context.WithTimeout(ctx, requestTimeout)
		defer cancel()
		if _, err := c.NewTopologyCommand().Send(topoCtx); err != nil {
			_ = c.Close()
			return fmt.Errorf("failed to reach Zeebe gateway at %s: %w", cfg.BrokerAddress, err)
		}

		zeebeClient = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &Client{client: zeebeClient, requestTimeout: requestTimeout}, nil
}

// GetClient returns the raw Zeebe client for job worker registration.
func (c *Client) GetClient() zbc.Client {
	return c.client
}

// Close releases the underlying gRPC connection.
func (c *Client) Close() error {
	return c.client.Close()
}

// HealthCheck performs a topology request against the gateway.
func (c *Client) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.requestTimeout)
	defer cancel()

	if _, err := c.client.NewTopologyCommand().Send(ctx); err != nil {
		return fmt.Errorf("zeebe health check failed: %w", err)
	}
	return nil
}

// RetryWithBackoff runs operation until it succeeds, doubling the delay
// between attempts up to MaxDelay.
func RetryWithBackoff(ctx context.Context, cfg BackoffConfig, log *zap.Logger, operationName string, operation func() error) error {
	var err error
	delay := cfg.InitialDelay

	for i := 0; i < cfg.MaxAttempts; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i == cfg.MaxAttempts-1 {
			break
		}

		log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
			zap.Error(err),
			zap.Int("attempt", i+1),
			zap.Int("maxAttempts", cfg.MaxAttempts),
			zap.Duration("nextRetryIn", delay),
		)

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return fmt.Errorf("%s cancelled after %d attempts: %w", operationName, i+1, ctx.Err())
		}

		delay *= 2
		if cfg.MaxDelay > 0 && delay > cfg.MaxDelay {
			delay = cfg.MaxDelay
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, cfg.MaxAttempts, err)
}
