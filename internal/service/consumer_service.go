package service

import (
	"context"
	"fmt"

	"perfumeshop-be/internal/pkg/logger"
	"perfumeshop-be/internal/pkg/sms"
	"perfumeshop-be/internal/repository/specification"
	"perfumeshop-be/internal/repository/unitofwork"
	"perfumeshop-be/pkg/events"
	pktNats "perfumeshop-be/pkg/nats"

	"github.com/google/uuid"
)

// ConsumerService turns settlement events into customer text messages. It
// runs off the durable stream so a crashed worker picks up where it left off.
type ConsumerService struct {
	subscriber *pktNats.Subscriber
	uowFactory unitofwork.RepositoryFactory
	sender     sms.ISender
	logger     logger.ILogger
}

func NewConsumerService(sub *pktNats.Subscriber, uowFactory unitofwork.RepositoryFactory, sender sms.ISender, log logger.ILogger) *ConsumerService {
	return &ConsumerService{
		subscriber: sub,
		uowFactory: uowFactory,
		sender:     sender,
		logger:     log,
	}
}

// Start begins listening to the event bus.
func (s *ConsumerService) Start() {
	err := s.subscriber.Subscribe("settlement.>", "sms-notifier", s.handleEvent)
	if err != nil {
		s.logger.Error("ConsumerService", "Failed to start sms subscriber", map[string]interface{}{"error": err})
		return
	}
	s.logger.Info("ConsumerService", "SMS consumer started, listening to settlement.>", nil)
}

func (s *ConsumerService) handleEvent(ctx context.Context, event events.Event) error {
	payload := event.Payload()

	userIdStr, _ := payload["user_id"].(string)
	userId, err := uuid.Parse(userIdStr)
	if err != nil {
		// Malformed payload; retrying will not fix it.
		s.logger.Warn("ConsumerService", "Event without a valid user_id, dropping", map[string]interface{}{"type": event.EventType()})
		return nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return err
	}
	if user == nil || user.Phone == "" {
		s.logger.Warn("ConsumerService", "No reachable user for event, dropping", map[string]interface{}{
			"type":    event.EventType(),
			"user_id": userIdStr,
		})
		return nil
	}

	text := renderMessage(event.EventType(), payload)
	if text == "" {
		return nil
	}

	if err := s.sender.Send(ctx, user.Phone, text); err != nil {
		// Best effort: log and ack, never replay a settlement SMS forever.
		s.logger.Error("ConsumerService", "Failed to send sms", map[string]interface{}{
			"type":  event.EventType(),
			"error": err,
		})
		return nil
	}

	s.logger.Info("ConsumerService", "SMS sent", map[string]interface{}{"type": event.EventType(), "user_id": userIdStr})
	return nil
}

func renderMessage(eventType string, payload map[string]interface{}) string {
	switch eventType {
	case events.TypeOrderPaid:
		return fmt.Sprintf("Your payment of %v won was received. We are preparing your order.", payload["amount"])
	case events.TypeOrderCanceled:
		return fmt.Sprintf("Your order was canceled and %v won was refunded to the original payment.", payload["amount"])
	case events.TypeRefundRequest:
		return "Your refund request was received and is waiting for review."
	case events.TypeRefundApproved:
		return fmt.Sprintf("Your refund was approved: %v won to the original payment, %v points restored.",
			payload["total_refund_amount"], payload["refund_mileage"])
	case events.TypeRefundRejected:
		reason, _ := payload["reason"].(string)
		if reason != "" {
			return fmt.Sprintf("Your refund request was declined: %s", reason)
		}
		return "Your refund request was declined."
	default:
		return ""
	}
}
