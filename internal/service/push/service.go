package push

import (
	"context"
	"log"
	"time"

	"firebase.google.com/go/v4/messaging"
	"github.com/google/uuid"

	"moey-backend/internal/domain"
	"moey-backend/internal/repository"
)

// Sender is the subset of *messaging.Client used here.
type Sender interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

type Message struct {
	Title string
	Body  string
	Data  map[string]string
}

type Service interface {
	Enabled() bool
	SendToUser(ctx context.Context, user *domain.User, msg Message) error
	SendToUsers(ctx context.Context, users []domain.User, msg Message) int
	RegisterToken(ctx context.Context, userID uuid.UUID, input domain.FCMTokenInput) error
	RemoveToken(ctx context.Context, userID uuid.UUID) error
	Stats(ctx context.Context) (*domain.FCMStats, error)
	SendTest(ctx context.Context, input domain.PushTestInput) error
}

type service struct {
	sender   Sender
	userRepo repository.UserRepository
	now      func() time.Time
}

// NewService accepts a nil sender; pushes are then skipped.
func NewService(sender Sender, userRepo repository.UserRepository) Service {
	return &service{
		sender:   sender,
		userRepo: userRepo,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *service) Enabled() bool {
	return s.sender != nil
}

func (s *service) SendToUser(ctx context.Context, user *domain.User, msg Message) error {
	if s.sender == nil {
		return domain.ErrPushDisabled
	}
	if user.FCMToken == nil || *user.FCMToken == "" {
		return domain.ErrNoFCMToken
	}

	data := map[string]string{"click_action": "FLUTTER_NOTIFICATION_CLICK"}
	for k, v := range msg.Data {
		data[k] = v
	}

	token := *user.FCMToken
	_, err := s.sender.Send(ctx, &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: msg.Title,
			Body:  msg.Body,
		},
		Data: data,
	})
	if err == nil {
		return nil
	}

	if messaging.IsUnregistered(err) || messaging.IsInvalidArgument(err) {
		log.Printf("push: dropping invalid token of user %s: %v", user.ID, err)
		if clearErr := s.userRepo.ClearFCMTokenValue(ctx, token); clearErr != nil {
			log.Printf("push: failed to clear token: %v", clearErr)
		}
	}
	return err
}

// SendToUsers returns the number of successful deliveries. Users without a token are skipped.
func (s *service) SendToUsers(ctx context.Context, users []domain.User, msg Message) int {
	if s.sender == nil {
		return 0
	}

	sent := 0
	for i := range users {
		if users[i].FCMToken == nil {
			continue
		}
		if err := s.SendToUser(ctx, &users[i], msg); err != nil {
			log.Printf("push: failed to send to user %s: %v", users[i].ID, err)
			continue
		}
		sent++
	}
	return sent
}

func (s *service) RegisterToken(ctx context.Context, userID uuid.UUID, input domain.FCMTokenInput) error {
	return s.userRepo.UpdateFCMToken(ctx, userID, input.FCMToken, input.Platform, s.now())
}

func (s *service) RemoveToken(ctx context.Context, userID uuid.UUID) error {
	return s.userRepo.ClearFCMToken(ctx, userID)
}

func (s *service) Stats(ctx context.Context) (*domain.FCMStats, error) {
	return s.userRepo.FCMStats(ctx)
}

func (s *service) SendTest(ctx context.Context, input domain.PushTestInput) error {
	user, err := s.userRepo.GetByID(ctx, input.UserID)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.ErrUserNotFound
	}

	return s.SendToUser(ctx, user, Message{
		Title: input.Title,
		Body:  input.Body,
		Data:  map[string]string{"type": "test"},
	})
}
