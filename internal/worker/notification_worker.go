package worker

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/support-desk/internal/service"
)

// StreamConsumer is a dispatcher that must be driven to receive events.
type StreamConsumer interface {
	Run(ctx context.Context) error
}

// StartNotificationWorker registers notification handlers and, for stream-backed
// dispatchers, runs the consumer until ctx is cancelled. The returned channel
// closes once the consumer has stopped.
func StartNotificationWorker(ctx context.Context, notificationService *service.NotificationService, consumer StreamConsumer, logger *zap.Logger) <-chan struct{} {
	done := make(chan struct{})
	if notificationService == nil {
		close(done)
		return done
	}
	notificationService.RegisterHandlers()

	if consumer == nil {
		close(done)
		return done
	}
	go func() {
		defer close(done)
		if err := consumer.Run(ctx); err != nil {
			logger.Error("notification consumer stopped", zap.Error(err))
			return
		}
		logger.Info("notification consumer stopped")
	}()
	return done
}
