package push_test

import (
	"context"
	"errors"
	"testing"

	"firebase.google.com/go/v4/messaging"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"moey-backend/internal/domain"
	"moey-backend/internal/mocks"
	"moey-backend/internal/service/push"
)

type fakeSender struct {
	sent []*messaging.Message
	err  error
}

func (f *fakeSender) Send(_ context.Context, message *messaging.Message) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.sent = append(f.sent, message)
	return "projects/moey/messages/1", nil
}

func strPtr(s string) *string { return &s }

func TestSendToUser_MergesData(t *testing.T) {
	sender := &fakeSender{}
	svc := push.NewService(sender, new(mocks.UserRepository))

	user := &domain.User{ID: uuid.New(), FCMToken: strPtr("token-a")}
	err := svc.SendToUser(context.Background(), user, push.Message{
		Title: "Permintaan Survey",
		Body:  "Rumah Pak Andi",
		Data:  map[string]string{"type": "survey_request"},
	})

	require.NoError(t, err)
	require.Len(t, sender.sent, 1)
	msg := sender.sent[0]
	assert.Equal(t, "token-a", msg.Token)
	assert.Equal(t, "Permintaan Survey", msg.Notification.Title)
	assert.Equal(t, "survey_request", msg.Data["type"])
	assert.Equal(t, "FLUTTER_NOTIFICATION_CLICK", msg.Data["click_action"])
}

func TestSendToUser_Disabled(t *testing.T) {
	svc := push.NewService(nil, new(mocks.UserRepository))

	assert.False(t, svc.Enabled())
	err := svc.SendToUser(context.Background(), &domain.User{FCMToken: strPtr("x")}, push.Message{})
	assert.ErrorIs(t, err, domain.ErrPushDisabled)
}

func TestSendToUser_NoToken(t *testing.T) {
	svc := push.NewService(&fakeSender{}, new(mocks.UserRepository))

	err := svc.SendToUser(context.Background(), &domain.User{ID: uuid.New()}, push.Message{})
	assert.ErrorIs(t, err, domain.ErrNoFCMToken)
}

func TestSendToUsers_CountsDeliveries(t *testing.T) {
	sender := &fakeSender{}
	svc := push.NewService(sender, new(mocks.UserRepository))

	users := []domain.User{
		{ID: uuid.New(), FCMToken: strPtr("a")},
		{ID: uuid.New()},
		{ID: uuid.New(), FCMToken: strPtr("c")},
	}

	assert.Equal(t, 2, svc.SendToUsers(context.Background(), users, push.Message{Title: "t"}))
}

func TestSendToUsers_SenderFailure(t *testing.T) {
	svc := push.NewService(&fakeSender{err: errors.New("unavailable")}, new(mocks.UserRepository))

	users := []domain.User{{ID: uuid.New(), FCMToken: strPtr("a")}}
	assert.Equal(t, 0, svc.SendToUsers(context.Background(), users, push.Message{}))
}

func TestRegisterToken(t *testing.T) {
	users := new(mocks.UserRepository)
	svc := push.NewService(nil, users)
	ctx := context.Background()
	userID := uuid.New()

	users.On("UpdateFCMToken", ctx, userID, "device-1", "android", mock.AnythingOfType("time.Time")).Return(nil)

	require.NoError(t, svc.RegisterToken(ctx, userID, domain.FCMTokenInput{FCMToken: "device-1", Platform: "android"}))
	users.AssertExpectations(t)
}

func TestSendTest_UnknownUser(t *testing.T) {
	users := new(mocks.UserRepository)
	svc := push.NewService(&fakeSender{}, users)
	ctx := context.Background()
	userID := uuid.New()

	users.On("GetByID", ctx, userID).Return(nil, nil)

	err := svc.SendTest(ctx, domain.PushTestInput{UserID: userID, Title: "Halo", Body: "Tes"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
