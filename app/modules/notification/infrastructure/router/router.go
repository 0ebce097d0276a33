package notificationrouter

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	notificationtypes "github.com/Black-And-White-Club/talent-pipeline/app/modules/notification/domain/types"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/components/metrics"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

// Delivery is one email request pulled off the bus.
type Delivery struct {
	Topic      string
	To         string
	TemplateID string
	Payload    json.RawMessage
}

// Deliverer hands a request to the mail provider.
type Deliverer interface {
	Deliver(ctx context.Context, d Delivery) error
}

// LogDeliverer logs each request instead of sending it.
type LogDeliverer struct {
	Logger *slog.Logger
}

// Deliver logs d.
func (l LogDeliverer) Deliver(ctx context.Context, d Delivery) error {
	l.Logger.InfoContext(ctx, "Email delivered",
		slog.String("topic", d.Topic),
		slog.String("to", d.To),
		slog.String("template_id", d.TemplateID),
	)
	return nil
}

// NotificationRouter consumes email requests and passes them to a Deliverer.
type NotificationRouter struct {
	logger     *slog.Logger
	Router     *message.Router
	subscriber message.Subscriber
	deliverer  Deliverer
}

// NewNotificationRouter creates a watermill router over subscriber. A nil
// registry skips router metrics.
func NewNotificationRouter(
	logger *slog.Logger,
	wmLogger watermill.LoggerAdapter,
	subscriber message.Subscriber,
	deliverer Deliverer,
	registry prometheus.Registerer,
) (*NotificationRouter, error) {
	router, err := message.NewRouter(message.RouterConfig{CloseTimeout: 10 * time.Second}, wmLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to create notification router: %w", err)
	}

	router.AddMiddleware(
		middleware.CorrelationID,
		middleware.Retry{
			MaxRetries:      3,
			InitialInterval: 100 * time.Millisecond,
			Logger:          wmLogger,
		}.Middleware,
		middleware.Recoverer,
	)

	if registry != nil {
		builder := metrics.NewPrometheusMetricsBuilder(registry, "notification", "")
		builder.AddPrometheusRouterMetrics(router)
	}

	r := &NotificationRouter{
		logger:     logger,
		Router:     router,
		subscriber: subscriber,
		deliverer:  deliverer,
	}
	r.registerHandlers()
	return r, nil
}

type envelope struct {
	To         string `json:"to"`
	TemplateID string `json:"template_id"`
}

func (r *NotificationRouter) registerHandlers() {
	for _, topic := range []string{
		notificationtypes.TemplatedEmailRequestedV1,
		notificationtypes.InterviewInvitationRequestedV1,
		notificationtypes.OfferEmailRequestedV1,
	} {
		r.Router.AddConsumerHandler("notification."+topic, topic, r.subscriber, r.handle(topic))
	}
}

func (r *NotificationRouter) handle(topic string) message.NoPublishHandlerFunc {
	return func(msg *message.Message) error {
		var env envelope
		if err := json.Unmarshal(msg.Payload, &env); err != nil {
			// A malformed request will never succeed; ack and drop it.
			r.logger.Error("Dropping malformed email request",
				slog.String("topic", topic),
				slog.String("message_id", msg.UUID),
				slog.Any("error", err),
			)
			return nil
		}

		return r.deliverer.Deliver(msg.Context(), Delivery{
			Topic:      topic,
			To:         env.To,
			TemplateID: env.TemplateID,
			Payload:    json.RawMessage(msg.Payload),
		})
	}
}

// Run blocks until ctx is done or the router is closed.
func (r *NotificationRouter) Run(ctx context.Context) error {
	return r.Router.Run(ctx)
}

// Running is closed once handlers are subscribed.
func (r *NotificationRouter) Running() chan struct{} {
	return r.Router.Running()
}

// Close stops the router.
func (r *NotificationRouter) Close() error {
	return r.Router.Close()
}
