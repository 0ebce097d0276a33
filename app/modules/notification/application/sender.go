package notificationservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	notificationtypes "github.com/Black-And-White-Club/talent-pipeline/app/modules/notification/domain/types"
	"github.com/Black-And-White-Club/talent-pipeline/app/shared/eventbus"
	"github.com/ThreeDotsLabs/watermill/message"
)

// ErrNoRecipient is returned when a request carries no address.
var ErrNoRecipient = errors.New("notification has no recipient")

// Sender queues email requests on the event bus. Delivery happens in the
// notification router.
type Sender struct {
	publisher message.Publisher
	logger    *slog.Logger
}

// NewSender creates a Sender.
func NewSender(publisher message.Publisher, logger *slog.Logger) *Sender {
	if logger == nil {
		logger = slog.Default()
	}
	return &Sender{publisher: publisher, logger: logger}
}

// SendTemplated queues a templated email.
func (s *Sender) SendTemplated(ctx context.Context, email notificationtypes.TemplatedEmail) error {
	if email.To == "" {
		return ErrNoRecipient
	}
	if email.TemplateID == "" {
		return fmt.Errorf("templated email to %s has no template", email.To)
	}
	return s.publish(ctx, notificationtypes.TemplatedEmailRequestedV1, email.TemplateID, email)
}

// SendInterviewInvitation queues an interview invitation.
func (s *Sender) SendInterviewInvitation(ctx context.Context, inv notificationtypes.InterviewInvitation) error {
	if inv.To == "" {
		return ErrNoRecipient
	}
	if inv.TemplateID == "" {
		inv.TemplateID = notificationtypes.DefaultInterviewInvitationTemplate
	}
	return s.publish(ctx, notificationtypes.InterviewInvitationRequestedV1, inv.TemplateID, inv)
}

// SendOfferEmail queues an offer letter.
func (s *Sender) SendOfferEmail(ctx context.Context, offer notificationtypes.OfferEmail) error {
	if offer.To == "" {
		return ErrNoRecipient
	}
	if offer.TemplateID == "" {
		offer.TemplateID = notificationtypes.DefaultOfferTemplate
	}
	return s.publish(ctx, notificationtypes.OfferEmailRequestedV1, offer.TemplateID, offer)
}

func (s *Sender) publish(ctx context.Context, topic, templateID string, payload any) error {
	if err := eventbus.PublishJSON(ctx, s.publisher, topic, payload); err != nil {
		return err
	}
	s.logger.DebugContext(ctx, "Queued email",
		slog.String("topic", topic),
		slog.String("template_id", templateID),
	)
	return nil
}
