package deadline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"moey-backend/internal/domain"
	"moey-backend/internal/mocks"
	"moey-backend/internal/repository"
)

type fixture struct {
	svc    *service
	tasks  *mocks.TaskResponseRepository
	users  *mocks.UserRepository
	orders *mocks.OrderRepository
	push   *mocks.PushService
	email  *mocks.EmailService
	audits *mocks.AuditService
	tx     *mocks.Transactor
	now    time.Time
	jobs   []func()
}

func newFixture() *fixture {
	f := &fixture{
		tasks:  new(mocks.TaskResponseRepository),
		users:  new(mocks.UserRepository),
		orders: new(mocks.OrderRepository),
		push:   new(mocks.PushService),
		email:  new(mocks.EmailService),
		audits: new(mocks.AuditService),
		now:    time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC),
	}
	f.tx = &mocks.Transactor{Repos: &repository.Repositories{TaskResponse: f.tasks}}
	f.svc = &service{
		taskRepo:    f.tasks,
		userRepo:    f.users,
		orderRepo:   f.orders,
		tx:          f.tx,
		pushSvc:     f.push,
		emailSvc:    f.email,
		auditSvc:    f.audits,
		defaultDays: 3,
		locale:      "id",
		now:         func() time.Time { return f.now },
		async:       func(fn func()) { f.jobs = append(f.jobs, fn) },
	}
	return f
}

func (f *fixture) runJobs() {
	for _, job := range f.jobs {
		job()
	}
	f.jobs = nil
}

func TestStart_UsesDefaultDeadline(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	orderID := uuid.New()

	f.tasks.On("Create", ctx, mock.AnythingOfType("*domain.TaskResponse")).Return(nil)

	task, err := f.svc.Start(ctx, domain.StartTaskInput{OrderID: orderID, Tahap: "survey"})

	require.NoError(t, err)
	assert.Equal(t, 3, task.Duration)
	assert.Equal(t, f.now.AddDate(0, 0, 3), task.Deadline)
	assert.Equal(t, domain.TaskMenungguResponse, task.Status)
	assert.Nil(t, task.UserID)
}

func TestMarkResponded_ClaimsUnassignedTask(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	orderID, userID := uuid.New(), uuid.New()

	task := &domain.TaskResponse{ID: uuid.New(), OrderID: orderID, Tahap: "survey", StartTime: f.now.Add(-30 * time.Hour), Status: domain.TaskMenungguResponse}
	f.tasks.On("FindOpenForUser", ctx, orderID, "survey", userID).Return(task, nil)
	f.tasks.On("Update", ctx, task).Return(nil)

	require.NoError(t, f.svc.MarkResponded(ctx, orderID, "survey", userID))

	assert.Equal(t, userID, *task.UserID)
	assert.Equal(t, domain.TaskMenungguInput, task.Status)
	assert.Equal(t, 2, *task.DurationActual)
}

func TestMarkResponded_NoOpenTask(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	orderID, userID := uuid.New(), uuid.New()

	f.tasks.On("FindOpenForUser", ctx, orderID, "survey", userID).Return(nil, nil)

	require.NoError(t, f.svc.MarkResponded(ctx, orderID, "survey", userID))
	f.tasks.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestCompleteLatestMarketing_SkipsTerminal(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	orderID := uuid.New()

	done := &domain.TaskResponse{ID: uuid.New(), Status: domain.TaskSelesai, IsMarketing: true}
	f.tasks.On("GetLatest", ctx, orderID, "survey", true).Return(done, nil)

	require.NoError(t, f.svc.CompleteLatestMarketing(ctx, orderID, "survey", uuid.New()))
	f.tasks.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestCompleteLatestMarketing_Completes(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	orderID, pmID := uuid.New(), uuid.New()

	open := &domain.TaskResponse{ID: uuid.New(), Status: domain.TaskMenungguResponse, IsMarketing: true}
	f.tasks.On("GetLatest", ctx, orderID, "survey", true).Return(open, nil)
	f.tasks.On("Update", ctx, open).Return(nil)

	require.NoError(t, f.svc.CompleteLatestMarketing(ctx, orderID, "survey", pmID))
	assert.Equal(t, domain.TaskSelesai, open.Status)
	assert.Equal(t, pmID, *open.UserID)
}

func TestComplete_LateSubmission(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	actor := &domain.User{ID: uuid.New(), Role: domain.RoleSurveyor}

	task := &domain.TaskResponse{
		ID:        uuid.New(),
		OrderID:   uuid.New(),
		UserID:    &actor.ID,
		Tahap:     "survey",
		StartTime: f.now.AddDate(0, 0, -5),
		Deadline:  f.now.AddDate(0, 0, -2),
		Status:    domain.TaskTelat,
	}
	f.tasks.On("GetByID", ctx, task.ID).Return(task, nil)
	f.tasks.On("Update", ctx, task).Return(nil)
	f.audits.On("Record", ctx, mock.MatchedBy(func(in domain.CreateAuditLogInput) bool {
		return in.Action == domain.AuditTaskComplete && in.EntityID == task.ID
	})).Return()

	got, err := f.svc.Complete(ctx, task.ID, actor)

	require.NoError(t, err)
	assert.Equal(t, domain.TaskTelatSubmit, got.Status)
	assert.Equal(t, 5, *got.DurationActual)
}

func TestComplete_RejectsOtherUsersTask(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	owner := uuid.New()
	actor := &domain.User{ID: uuid.New(), Role: domain.RoleSurveyor}

	task := &domain.TaskResponse{ID: uuid.New(), UserID: &owner, Status: domain.TaskMenungguInput}
	f.tasks.On("GetByID", ctx, task.ID).Return(task, nil)

	_, err := f.svc.Complete(ctx, task.ID, actor)
	assert.ErrorIs(t, err, domain.ErrNotTaskOwner)
}

func TestComplete_AlreadyDone(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	actor := &domain.User{ID: uuid.New(), Role: domain.RoleSurveyor}

	task := &domain.TaskResponse{ID: uuid.New(), UserID: &actor.ID, Status: domain.TaskSelesai}
	f.tasks.On("GetByID", ctx, task.ID).Return(task, nil)

	_, err := f.svc.Complete(ctx, task.ID, actor)
	assert.ErrorIs(t, err, domain.ErrTaskCompleted)
}

func TestRequestExtension_RejectsSecondPending(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	actor := &domain.User{ID: uuid.New(), Role: domain.RoleDesainer}

	task := &domain.TaskResponse{ID: uuid.New(), UserID: &actor.ID, Status: domain.TaskMenungguResponse}
	f.tasks.On("GetByID", ctx, task.ID).Return(task, nil)
	f.tasks.On("HasPendingExtension", ctx, task.ID).Return(true, nil)

	_, err := f.svc.RequestExtension(ctx, task.ID, actor, domain.ExtensionRequestInput{Days: 2, Reason: "Material delay"})
	assert.ErrorIs(t, err, domain.ErrExtensionPending)
}

func TestRequestExtension_NotifiesReviewers(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	actor := &domain.User{ID: uuid.New(), FullName: "Dewi", Role: domain.RoleDesainer}
	order := &domain.Order{ID: uuid.New(), NamaProject: "Kitchen Set Bu Rina"}

	task := &domain.TaskResponse{ID: uuid.New(), OrderID: order.ID, UserID: &actor.ID, Tahap: "moodboard", Status: domain.TaskMenungguResponse}
	pms := []domain.User{{ID: uuid.New(), Role: domain.RoleProjectManager}}

	f.tasks.On("GetByID", ctx, task.ID).Return(task, nil)
	f.tasks.On("HasPendingExtension", ctx, task.ID).Return(false, nil)
	f.tasks.On("CreateExtension", ctx, mock.AnythingOfType("*domain.TaskResponseExtendLog")).Return(nil)
	f.audits.On("Record", ctx, mock.Anything).Return()
	f.push.On("Enabled").Return(true)
	f.orders.On("GetByID", mock.Anything, order.ID).Return(order, nil)
	f.users.On("ListByRoles", mock.Anything, []string{domain.RoleProjectManager}).Return(pms, nil)
	f.push.On("SendToUsers", mock.Anything, pms, mock.Anything).Return(1)

	extLog, err := f.svc.RequestExtension(ctx, task.ID, actor, domain.ExtensionRequestInput{Days: 2, Reason: "Material delay"})
	require.NoError(t, err)
	assert.Equal(t, domain.ExtensionPending, extLog.Status)
	assert.Equal(t, 2, extLog.ExtendTime)

	f.runJobs()
	f.push.AssertCalled(t, "SendToUsers", mock.Anything, pms, mock.Anything)
}

func TestApproveExtension(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	requester := uuid.New()
	reviewer := &domain.User{ID: uuid.New(), FullName: "Pak Budi", Role: domain.RoleProjectManager}

	task := &domain.TaskResponse{
		ID:       uuid.New(),
		OrderID:  uuid.New(),
		UserID:   &requester,
		Tahap:    "estimasi",
		Deadline: f.now.Add(-time.Hour),
		Duration: 3,
		Status:   domain.TaskTelat,
	}
	extLog := &domain.TaskResponseExtendLog{ID: uuid.New(), TaskResponseID: task.ID, UserID: requester, ExtendTime: 2, ExtendReason: "Client revision", Status: domain.ExtensionPending}

	f.tasks.On("GetExtension", ctx, extLog.ID).Return(extLog, nil)
	f.tasks.On("UpdateExtensionStatus", ctx, extLog.ID, domain.ExtensionApproved, reviewer.ID, f.now).Return(true, nil)
	f.tasks.On("GetByID", ctx, task.ID).Return(task, nil)
	f.tasks.On("Update", ctx, task).Return(nil)
	f.audits.On("Record", ctx, mock.Anything).Return()

	got, err := f.svc.ApproveExtension(ctx, extLog.ID, reviewer)

	require.NoError(t, err)
	assert.Equal(t, 1, f.tx.Calls)
	assert.Equal(t, 5, got.Duration)
	assert.Equal(t, 1, got.ExtendTime)
	assert.Equal(t, domain.TaskMenungguResponse, got.Status)
	assert.Equal(t, "Perpanjangan #1: Client revision", *got.ExtendReason)
}

func TestApproveExtension_Guards(t *testing.T) {
	ctx := context.Background()
	requester := uuid.New()

	t.Run("reviewer must be project manager", func(t *testing.T) {
		f := newFixture()
		_, err := f.svc.ApproveExtension(ctx, uuid.New(), &domain.User{ID: uuid.New(), Role: domain.RoleSupervisor})
		assert.ErrorIs(t, err, domain.ErrReviewerRoleRequired)
	})

	t.Run("no self review", func(t *testing.T) {
		f := newFixture()
		extLog := &domain.TaskResponseExtendLog{ID: uuid.New(), UserID: requester, Status: domain.ExtensionPending}
		f.tasks.On("GetExtension", ctx, extLog.ID).Return(extLog, nil)

		_, err := f.svc.ApproveExtension(ctx, extLog.ID, &domain.User{ID: requester, Role: domain.RoleProjectManager})
		assert.ErrorIs(t, err, domain.ErrSelfReview)
	})

	t.Run("already reviewed", func(t *testing.T) {
		f := newFixture()
		extLog := &domain.TaskResponseExtendLog{ID: uuid.New(), UserID: requester, Status: domain.ExtensionRejected}
		f.tasks.On("GetExtension", ctx, extLog.ID).Return(extLog, nil)

		_, err := f.svc.ApproveExtension(ctx, extLog.ID, &domain.User{ID: uuid.New(), Role: domain.RoleProjectManager})
		assert.ErrorIs(t, err, domain.ErrExtensionNotPending)
	})

	t.Run("lost review race", func(t *testing.T) {
		f := newFixture()
		reviewer := &domain.User{ID: uuid.New(), Role: domain.RoleProjectManager}
		extLog := &domain.TaskResponseExtendLog{ID: uuid.New(), UserID: requester, Status: domain.ExtensionPending}
		f.tasks.On("GetExtension", ctx, extLog.ID).Return(extLog, nil)
		f.tasks.On("UpdateExtensionStatus", ctx, extLog.ID, domain.ExtensionApproved, reviewer.ID, f.now).Return(false, nil)

		_, err := f.svc.ApproveExtension(ctx, extLog.ID, reviewer)
		assert.ErrorIs(t, err, domain.ErrExtensionNotPending)
		f.tasks.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})
}

func TestRejectExtension_EmailsRequester(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	requester := &domain.User{ID: uuid.New(), Email: "dewi@example.com", FullName: "Dewi"}
	reviewer := &domain.User{ID: uuid.New(), FullName: "Pak Budi", Role: domain.RoleProjectManager}
	order := &domain.Order{ID: uuid.New(), NamaProject: "Lemari Bu Sari"}

	task := &domain.TaskResponse{ID: uuid.New(), OrderID: order.ID, UserID: &requester.ID, Tahap: "kontrak"}
	extLog := &domain.TaskResponseExtendLog{ID: uuid.New(), TaskResponseID: task.ID, UserID: requester.ID, Status: domain.ExtensionPending}

	f.tasks.On("GetExtension", ctx, extLog.ID).Return(extLog, nil)
	f.tasks.On("UpdateExtensionStatus", ctx, extLog.ID, domain.ExtensionRejected, reviewer.ID, f.now).Return(true, nil)
	f.tasks.On("GetByID", ctx, task.ID).Return(task, nil)
	f.audits.On("Record", ctx, mock.Anything).Return()
	f.users.On("GetByID", mock.Anything, requester.ID).Return(requester, nil)
	f.orders.On("GetByID", mock.Anything, order.ID).Return(order, nil)
	f.push.On("Enabled").Return(false)
	f.email.On("SendExtensionStatusEmail", mock.Anything, requester.Email, "Dewi", "Lemari Bu Sari", "kontrak", "ditolak", "Pak Budi").Return(nil)

	got, err := f.svc.RejectExtension(ctx, extLog.ID, reviewer)
	require.NoError(t, err)
	assert.Equal(t, domain.ExtensionRejected, got.Status)
	assert.Equal(t, reviewer.ID, *got.ReviewedBy)

	f.runJobs()
	f.email.AssertExpectations(t)
}

func TestRejectExtension_PushFailureStillEmails(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	token := "device-token"
	requester := &domain.User{ID: uuid.New(), Email: "dewi@example.com", FullName: "Dewi", FCMToken: &token}
	reviewer := &domain.User{ID: uuid.New(), FullName: "Pak Budi", Role: domain.RoleProjectManager}
	order := &domain.Order{ID: uuid.New(), NamaProject: "Lemari Bu Sari"}

	task := &domain.TaskResponse{ID: uuid.New(), OrderID: order.ID, UserID: &requester.ID, Tahap: "kontrak"}
	extLog := &domain.TaskResponseExtendLog{ID: uuid.New(), TaskResponseID: task.ID, UserID: requester.ID, Status: domain.ExtensionPending}

	f.tasks.On("GetExtension", ctx, extLog.ID).Return(extLog, nil)
	f.tasks.On("UpdateExtensionStatus", ctx, extLog.ID, domain.ExtensionRejected, reviewer.ID, f.now).Return(true, nil)
	f.tasks.On("GetByID", ctx, task.ID).Return(task, nil)
	f.audits.On("Record", ctx, mock.Anything).Return()
	f.users.On("GetByID", mock.Anything, requester.ID).Return(requester, nil)
	f.orders.On("GetByID", mock.Anything, order.ID).Return(order, nil)
	f.push.On("Enabled").Return(true)
	f.push.On("SendToUser", mock.Anything, requester, mock.Anything).Return(errors.New("fcm unavailable"))
	f.email.On("SendExtensionStatusEmail", mock.Anything, requester.Email, "Dewi", "Lemari Bu Sari", "kontrak", "ditolak", "Pak Budi").Return(nil)

	_, err := f.svc.RejectExtension(ctx, extLog.ID, reviewer)
	require.NoError(t, err)

	f.runJobs()
	f.push.AssertExpectations(t)
	f.email.AssertExpectations(t)
}

func TestSweep_RemindsAndFlagsOverdue(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	token := "device-token"
	user := &domain.User{ID: uuid.New(), Email: "andi@example.com", FullName: "Andi", FCMToken: &token}
	order := &domain.Order{ID: uuid.New(), NamaProject: "Rumah Pak Andi"}

	dueSoon := domain.TaskResponse{ID: uuid.New(), OrderID: order.ID, UserID: &user.ID, Tahap: "survey", Deadline: f.now.Add(6 * time.Hour)}
	unassigned := domain.TaskResponse{ID: uuid.New(), OrderID: order.ID, Tahap: "moodboard", Deadline: f.now.Add(12 * time.Hour)}

	f.tasks.On("ListDueForReminder", ctx, f.now).Return([]domain.TaskResponse{dueSoon, unassigned}, nil)
	f.users.On("GetByID", ctx, user.ID).Return(user, nil)
	f.orders.On("GetByID", ctx, order.ID).Return(order, nil)
	f.push.On("Enabled").Return(true)
	f.push.On("SendToUser", ctx, user, mock.Anything).Return(nil)
	f.tasks.On("MarkReminderSent", ctx, mock.Anything, f.now).Return(nil)
	f.tasks.On("MarkOverdue", ctx, f.now).Return(int64(3), nil)
	f.email.On("SendDeadlineReminderEmail", mock.Anything, user.Email, "Andi", "Rumah Pak Andi", "survey", dueSoon.Deadline).Return(nil)

	report, err := f.svc.Sweep(ctx)

	require.NoError(t, err)
	assert.Equal(t, 2, report.Reminded)
	assert.Equal(t, int64(3), report.Overdue)
	f.push.AssertNumberOfCalls(t, "SendToUser", 1)

	f.runJobs()
	f.email.AssertExpectations(t)
}

func TestListByOrder_FlagsOverdueTasks(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	orderID := uuid.New()

	past := f.now.Add(-time.Hour)
	f.tasks.On("ListByOrder", ctx, orderID).Return([]domain.TaskResponse{
		{ID: uuid.New(), Tahap: "survey", Deadline: past, Status: domain.TaskMenungguResponse},
		{ID: uuid.New(), Tahap: "moodboard", Deadline: past, Status: domain.TaskSelesai},
		{ID: uuid.New(), Tahap: "estimasi", Deadline: f.now.Add(time.Hour), Status: domain.TaskMenungguInput},
	}, nil)

	tasks, err := f.svc.ListByOrder(ctx, orderID)

	require.NoError(t, err)
	require.Len(t, tasks, 3)
	assert.True(t, tasks[0].Overdue)
	assert.False(t, tasks[1].Overdue)
	assert.False(t, tasks[2].Overdue)
}

func TestGetByOrderAndTahap_FlagsOverdue(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	orderID := uuid.New()

	f.tasks.On("GetLatest", ctx, orderID, "survey", false).Return(&domain.TaskResponse{
		ID: uuid.New(), Tahap: "survey", Deadline: f.now, Status: domain.TaskTelat,
	}, nil)
	f.tasks.On("GetLatest", ctx, orderID, "kontrak", false).Return(nil, nil)

	task, err := f.svc.GetByOrderAndTahap(ctx, orderID, "survey")
	require.NoError(t, err)
	assert.False(t, task.Overdue, "deadline equal to now is not overdue yet")

	f.now = f.now.Add(time.Second)
	task, err = f.svc.GetByOrderAndTahap(ctx, orderID, "survey")
	require.NoError(t, err)
	assert.True(t, task.Overdue)

	_, err = f.svc.GetByOrderAndTahap(ctx, orderID, "kontrak")
	assert.ErrorIs(t, err, domain.ErrTaskResponseNotFound)
}
