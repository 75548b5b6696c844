package publisher

import (
	"context"

	"github.com/nandanugg/speedcam/module/core/domain"
)

type EventPublisher interface {
	PublishStatus(ctx context.Context, s *domain.StatusEvent) error
	PublishWarning(ctx context.Context, w *domain.WarningEvent) error
	PublishSpeed(ctx context.Context, s *domain.SpeedStatus) error
}
