package pipelineservice

import (
	"context"

	pipelinetypes "github.com/Black-And-White-Club/talent-pipeline/app/modules/pipeline/domain/types"
	"github.com/Black-And-White-Club/talent-pipeline/app/shared/eventbus"
	"github.com/ThreeDotsLabs/watermill/message"
)

type eventPublisher struct {
	publisher message.Publisher
}

func (p eventPublisher) applicationAdvanced(ctx context.Context, payload pipelinetypes.ApplicationAdvancedPayload) error {
	if p.publisher == nil {
		return nil
	}
	return eventbus.PublishJSON(ctx, p.publisher, pipelinetypes.ApplicationAdvancedV1, payload)
}
