package service

import (
	"context"

	"ridepool-backend/internal/domain"
	"ridepool-backend/internal/repository"
)

type messageService struct {
	msgRepo  repository.MessageRepository
	tripRepo repository.TripRepository
	notifier Notifier
}

func NewMessageService(msgRepo repository.MessageRepository, tripRepo repository.TripRepository, notifier Notifier) MessageService {
	return &messageService{msgRepo: msgRepo, tripRepo: tripRepo, notifier: notifier}
}

func (s *messageService) Send(ctx context.Context, tripID, senderID, receiverID, body string) (*domain.Message, error) {
	if body == "" {
		return nil, domain.NewValidationError("body", "is required")
	}
	if senderID == receiverID {
		return nil, domain.NewValidationError("receiver_id", "cannot message yourself")
	}
	if _, err := s.tripRepo.GetByID(ctx, tripID); err != nil {
		return nil, err
	}

	msg := &domain.Message{
		TripID:     tripID,
		SenderID:   senderID,
		ReceiverID: receiverID,
		Body:       body,
	}
	if err := s.msgRepo.Create(ctx, msg); err != nil {
		return nil, err
	}

	_ = s.notifier.Notify(ctx, receiverID, EventMessageReceived, map[string]string{
		"trip_id":    tripID,
		"message_id": msg.ID,
	})
	return msg, nil
}

func (s *messageService) Thread(ctx context.Context, tripID, userA, userB string) ([]domain.Message, error) {
	return s.msgRepo.Thread(ctx, tripID, userA, userB)
}

func (s *messageService) MarkRead(ctx context.Context, tripID, receiverID string) error {
	_, err := s.msgRepo.MarkRead(ctx, tripID, receiverID)
	return err
}

func (s *messageService) UnreadCount(ctx context.Context, userID string) (int32, error) {
	return s.msgRepo.UnreadCount(ctx, userID)
}
