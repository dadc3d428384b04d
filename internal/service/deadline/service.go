package deadline

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/google/uuid"

	"moey-backend/internal/domain"
	"moey-backend/internal/pkg/i18n"
	"moey-backend/internal/repository"
	"moey-backend/internal/service/audit"
	"moey-backend/internal/service/email"
	"moey-backend/internal/service/push"
)

type Service interface {
	Start(ctx context.Context, input domain.StartTaskInput) (*domain.TaskResponse, error)
	MarkResponded(ctx context.Context, orderID uuid.UUID, tahap string, userID uuid.UUID) error
	CompleteLatestMarketing(ctx context.Context, orderID uuid.UUID, tahap string, actorID uuid.UUID) error

	Complete(ctx context.Context, id uuid.UUID, actor *domain.User) (*domain.TaskResponse, error)
	RequestExtension(ctx context.Context, id uuid.UUID, actor *domain.User, input domain.ExtensionRequestInput) (*domain.TaskResponseExtendLog, error)
	ApproveExtension(ctx context.Context, logID uuid.UUID, reviewer *domain.User) (*domain.TaskResponse, error)
	RejectExtension(ctx context.Context, logID uuid.UUID, reviewer *domain.User) (*domain.TaskResponseExtendLog, error)

	ListByOrder(ctx context.Context, orderID uuid.UUID) ([]domain.TaskResponse, error)
	GetByOrderAndTahap(ctx context.Context, orderID uuid.UUID, tahap string) (*domain.TaskResponse, error)
	ListExtensions(ctx context.Context, taskID uuid.UUID) ([]domain.TaskResponseExtendLog, error)
	ListPendingExtensions(ctx context.Context) ([]domain.TaskResponseExtendLog, error)

	Sweep(ctx context.Context) (*domain.SweepReport, error)
}

type service struct {
	taskRepo  repository.TaskResponseRepository
	userRepo  repository.UserRepository
	orderRepo repository.OrderRepository
	tx        repository.Transactor
	pushSvc   push.Service
	emailSvc  email.Service
	auditSvc  audit.Service

	defaultDays int
	locale      string
	now         func() time.Time
	async       func(fn func())
}

func NewService(
	taskRepo repository.TaskResponseRepository,
	userRepo repository.UserRepository,
	orderRepo repository.OrderRepository,
	tx repository.Transactor,
	pushSvc push.Service,
	emailSvc email.Service,
	auditSvc audit.Service,
	defaultDays int,
	locale string,
) Service {
	if defaultDays < 1 {
		defaultDays = 3
	}
	return &service{
		taskRepo:    taskRepo,
		userRepo:    userRepo,
		orderRepo:   orderRepo,
		tx:          tx,
		pushSvc:     pushSvc,
		emailSvc:    emailSvc,
		auditSvc:    auditSvc,
		defaultDays: defaultDays,
		locale:      locale,
		now:         func() time.Time { return time.Now().UTC() },
		async:       func(fn func()) { go fn() },
	}
}

func (s *service) Start(ctx context.Context, input domain.StartTaskInput) (*domain.TaskResponse, error) {
	days := input.DeadlineDays
	if days < 1 {
		days = s.defaultDays
	}

	now := s.now()
	task := &domain.TaskResponse{
		ID:          uuid.New(),
		OrderID:     input.OrderID,
		UserID:      input.UserID,
		Tahap:       input.Tahap,
		StartTime:   now,
		NotifTime:   &now,
		Deadline:    now.AddDate(0, 0, days),
		Duration:    days,
		Status:      domain.TaskMenungguResponse,
		IsMarketing: input.IsMarketing,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to start task response: %w", err)
	}
	return task, nil
}

// MarkResponded is a no-op when the user has no open task for the stage.
func (s *service) MarkResponded(ctx context.Context, orderID uuid.UUID, tahap string, userID uuid.UUID) error {
	task, err := s.taskRepo.FindOpenForUser(ctx, orderID, tahap, userID)
	if err != nil {
		return err
	}
	if task == nil || task.ResponseTime != nil {
		return nil
	}

	if task.UserID == nil {
		task.UserID = &userID
	}
	task.MarkResponded(s.now())
	return s.taskRepo.Update(ctx, task)
}

func (s *service) CompleteLatestMarketing(ctx context.Context, orderID uuid.UUID, tahap string, actorID uuid.UUID) error {
	task, err := s.taskRepo.GetLatest(ctx, orderID, tahap, true)
	if err != nil {
		return err
	}
	if task == nil || task.Status.IsTerminal() {
		return nil
	}

	now := s.now()
	task.UserID = &actorID
	task.ResponseTime = &now
	task.Status = domain.TaskSelesai
	task.UpdatedAt = now
	return s.taskRepo.Update(ctx, task)
}

func (s *service) loadOwnedTask(ctx context.Context, id uuid.UUID, actor *domain.User) (*domain.TaskResponse, error) {
	task, err := s.taskRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, domain.ErrTaskResponseNotFound
	}
	if task.UserID != nil && *task.UserID != actor.ID && !actor.IsProjectManager() {
		return nil, domain.ErrNotTaskOwner
	}
	if task.Status.IsTerminal() {
		return nil, domain.ErrTaskCompleted
	}
	return task, nil
}

func (s *service) Complete(ctx context.Context, id uuid.UUID, actor *domain.User) (*domain.TaskResponse, error) {
	task, err := s.loadOwnedTask(ctx, id, actor)
	if err != nil {
		return nil, err
	}

	if task.UserID == nil {
		task.UserID = &actor.ID
	}
	task.Complete(s.now())

	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to complete task response: %w", err)
	}

	s.auditSvc.Record(ctx, domain.CreateAuditLogInput{
		UserID:     actor.ID,
		Action:     domain.AuditTaskComplete,
		EntityType: "task_response",
		EntityID:   task.ID,
		OrderID:    &task.OrderID,
		NewValue:   map[string]interface{}{"tahap": task.Tahap, "status": task.Status},
	})

	return task, nil
}

func (s *service) RequestExtension(ctx context.Context, id uuid.UUID, actor *domain.User, input domain.ExtensionRequestInput) (*domain.TaskResponseExtendLog, error) {
	task, err := s.loadOwnedTask(ctx, id, actor)
	if err != nil {
		return nil, err
	}

	pending, err := s.taskRepo.HasPendingExtension(ctx, task.ID)
	if err != nil {
		return nil, err
	}
	if pending {
		return nil, domain.ErrExtensionPending
	}

	now := s.now()
	extLog := &domain.TaskResponseExtendLog{
		ID:             uuid.New(),
		TaskResponseID: task.ID,
		UserID:         actor.ID,
		ExtendTime:     input.Days,
		ExtendReason:   input.Reason,
		RequestTime:    now,
		Status:         domain.ExtensionPending,
		CreatedAt:      now,
	}
	if err := s.taskRepo.CreateExtension(ctx, extLog); err != nil {
		return nil, fmt.Errorf("failed to create extension request: %w", err)
	}

	s.auditSvc.Record(ctx, domain.CreateAuditLogInput{
		UserID:     actor.ID,
		Action:     domain.AuditExtensionRequest,
		EntityType: "task_response_extend_log",
		EntityID:   extLog.ID,
		OrderID:    &task.OrderID,
		NewValue:   map[string]interface{}{"days": input.Days, "reason": input.Reason},
	})

	s.notifyReviewers(task, actor, input.Days)

	return extLog, nil
}

func (s *service) loadPendingForReview(ctx context.Context, logID uuid.UUID, reviewer *domain.User) (*domain.TaskResponseExtendLog, error) {
	if !reviewer.IsProjectManager() {
		return nil, domain.ErrReviewerRoleRequired
	}

	extLog, err := s.taskRepo.GetExtension(ctx, logID)
	if err != nil {
		return nil, err
	}
	if extLog == nil {
		return nil, domain.ErrExtensionNotFound
	}
	if extLog.UserID == reviewer.ID {
		return nil, domain.ErrSelfReview
	}
	if extLog.Status != domain.ExtensionPending {
		return nil, domain.ErrExtensionNotPending
	}
	return extLog, nil
}

func (s *service) ApproveExtension(ctx context.Context, logID uuid.UUID, reviewer *domain.User) (*domain.TaskResponse, error) {
	extLog, err := s.loadPendingForReview(ctx, logID, reviewer)
	if err != nil {
		return nil, err
	}

	now := s.now()
	var task *domain.TaskResponse
	err = s.tx.WithinTx(ctx, func(repos *repository.Repositories) error {
		moved, err := repos.TaskResponse.UpdateExtensionStatus(ctx, extLog.ID, domain.ExtensionApproved, reviewer.ID, now)
		if err != nil {
			return err
		}
		if !moved {
			return domain.ErrExtensionNotPending
		}

		task, err = repos.TaskResponse.GetByID(ctx, extLog.TaskResponseID)
		if err != nil {
			return err
		}
		if task == nil {
			return domain.ErrTaskResponseNotFound
		}

		task.ApplyExtension(extLog.ExtendTime, extLog.ExtendReason, now)
		return repos.TaskResponse.Update(ctx, task)
	})
	if err != nil {
		return nil, err
	}

	s.auditSvc.Record(ctx, domain.CreateAuditLogInput{
		UserID:     reviewer.ID,
		Action:     domain.AuditExtensionApprove,
		EntityType: "task_response_extend_log",
		EntityID:   extLog.ID,
		OrderID:    &task.OrderID,
		NewValue:   map[string]interface{}{"deadline": task.Deadline, "extend_time": task.ExtendTime},
	})

	s.notifyRequester(task, extLog, reviewer, "disetujui")

	return task, nil
}

func (s *service) RejectExtension(ctx context.Context, logID uuid.UUID, reviewer *domain.User) (*domain.TaskResponseExtendLog, error) {
	extLog, err := s.loadPendingForReview(ctx, logID, reviewer)
	if err != nil {
		return nil, err
	}

	now := s.now()
	moved, err := s.taskRepo.UpdateExtensionStatus(ctx, extLog.ID, domain.ExtensionRejected, reviewer.ID, now)
	if err != nil {
		return nil, err
	}
	if !moved {
		return nil, domain.ErrExtensionNotPending
	}

	extLog.Status = domain.ExtensionRejected
	extLog.ReviewedBy = &reviewer.ID
	extLog.ReviewedAt = &now

	task, err := s.taskRepo.GetByID(ctx, extLog.TaskResponseID)
	if err != nil {
		return nil, err
	}
	if task != nil {
		s.auditSvc.Record(ctx, domain.CreateAuditLogInput{
			UserID:     reviewer.ID,
			Action:     domain.AuditExtensionReject,
			EntityType: "task_response_extend_log",
			EntityID:   extLog.ID,
			OrderID:    &task.OrderID,
			NewValue:   map[string]interface{}{"status": extLog.Status},
		})
		s.notifyRequester(task, extLog, reviewer, "ditolak")
	}

	return extLog, nil
}

func (s *service) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]domain.TaskResponse, error) {
	tasks, err := s.taskRepo.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	for i := range tasks {
		tasks[i].Overdue = tasks[i].IsOverdue(now)
	}
	return tasks, nil
}

func (s *service) GetByOrderAndTahap(ctx context.Context, orderID uuid.UUID, tahap string) (*domain.TaskResponse, error) {
	task, err := s.taskRepo.GetLatest(ctx, orderID, tahap, false)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, domain.ErrTaskResponseNotFound
	}
	task.Overdue = task.IsOverdue(s.now())
	return task, nil
}

func (s *service) ListExtensions(ctx context.Context, taskID uuid.UUID) ([]domain.TaskResponseExtendLog, error) {
	task, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, domain.ErrTaskResponseNotFound
	}
	return s.taskRepo.ListExtensions(ctx, taskID)
}

func (s *service) ListPendingExtensions(ctx context.Context) ([]domain.TaskResponseExtendLog, error) {
	return s.taskRepo.ListPendingExtensions(ctx)
}

// Sweep reminds owners of tasks due within a day, then flags overdue tasks as telat.
func (s *service) Sweep(ctx context.Context) (*domain.SweepReport, error) {
	now := s.now()
	report := &domain.SweepReport{}

	due, err := s.taskRepo.ListDueForReminder(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("failed to list due tasks: %w", err)
	}

	for i := range due {
		task := &due[i]
		if !task.IsOneDayBeforeDeadline(now) {
			continue
		}
		if err := s.remind(ctx, task); err != nil {
			log.Printf("deadline: failed to remind task %s: %v", task.ID, err)
			continue
		}
		if err := s.taskRepo.MarkReminderSent(ctx, task.ID, now); err != nil {
			log.Printf("deadline: failed to mark reminder for task %s: %v", task.ID, err)
			continue
		}
		report.Reminded++
	}

	overdue, err := s.taskRepo.MarkOverdue(ctx, now)
	if err != nil {
		return report, fmt.Errorf("failed to mark overdue tasks: %w", err)
	}
	report.Overdue = overdue

	if report.Reminded > 0 || report.Overdue > 0 {
		log.Printf("deadline: sweep reminded=%d overdue=%d", report.Reminded, report.Overdue)
	}
	return report, nil
}

func (s *service) remind(ctx context.Context, task *domain.TaskResponse) error {
	if task.UserID == nil {
		return nil
	}

	user, err := s.userRepo.GetByID(ctx, *task.UserID)
	if err != nil {
		return err
	}
	if user == nil {
		return nil
	}

	order, err := s.orderRepo.GetByID(ctx, task.OrderID)
	if err != nil {
		return err
	}
	if order == nil {
		return domain.ErrOrderNotFound
	}

	vars := map[string]string{
		"project":  order.NamaProject,
		"tahap":    task.Tahap,
		"deadline": task.Deadline.Format("02 Jan 2006 15:04"),
	}

	if s.pushSvc.Enabled() && user.FCMToken != nil {
		err := s.pushSvc.SendToUser(ctx, user, push.Message{
			Title: i18n.Format(s.locale, "deadline_reminder.title", vars),
			Body:  i18n.Format(s.locale, "deadline_reminder.message", vars),
			Data: map[string]string{
				"type":             "deadline_reminder",
				"order_id":         order.ID.String(),
				"task_response_id": task.ID.String(),
			},
		})
		if err != nil {
			log.Printf("deadline: push reminder failed for task %s: %v", task.ID, err)
		}
	}

	if user.Email != "" {
		toEmail, name, project, tahap, deadline := user.Email, user.FullName, order.NamaProject, task.Tahap, task.Deadline
		s.async(func() {
			if err := s.emailSvc.SendDeadlineReminderEmail(context.Background(), toEmail, name, project, tahap, deadline); err != nil {
				log.Printf("deadline: reminder email to %s failed: %v", toEmail, err)
			}
		})
	}

	return nil
}

func (s *service) notifyReviewers(task *domain.TaskResponse, requester *domain.User, days int) {
	if !s.pushSvc.Enabled() {
		return
	}

	taskCopy := *task
	s.async(func() {
		ctx := context.Background()
		order, err := s.orderRepo.GetByID(ctx, taskCopy.OrderID)
		if err != nil || order == nil {
			return
		}
		reviewers, err := s.userRepo.ListByRoles(ctx, []string{domain.RoleProjectManager})
		if err != nil {
			log.Printf("deadline: failed to load reviewers: %v", err)
			return
		}

		vars := map[string]string{
			"project": order.NamaProject,
			"name":    requester.FullName,
			"days":    strconv.Itoa(days),
			"tahap":   taskCopy.Tahap,
		}
		s.pushSvc.SendToUsers(ctx, reviewers, push.Message{
			Title: i18n.Format(s.locale, "extension_requested.title", vars),
			Body:  i18n.Format(s.locale, "extension_requested.message", vars),
			Data: map[string]string{
				"type":             "extension_requested",
				"task_response_id": taskCopy.ID.String(),
			},
		})
	})
}

func (s *service) notifyRequester(task *domain.TaskResponse, extLog *domain.TaskResponseExtendLog, reviewer *domain.User, status string) {
	taskCopy := *task
	requesterID := extLog.UserID
	reviewerName := reviewer.FullName

	s.async(func() {
		ctx := context.Background()
		requester, err := s.userRepo.GetByID(ctx, requesterID)
		if err != nil || requester == nil {
			return
		}
		order, err := s.orderRepo.GetByID(ctx, taskCopy.OrderID)
		if err != nil || order == nil {
			return
		}

		vars := map[string]string{"project": order.NamaProject, "tahap": taskCopy.Tahap, "status": status}
		if s.pushSvc.Enabled() && requester.FCMToken != nil {
			err := s.pushSvc.SendToUser(ctx, requester, push.Message{
				Title: i18n.Format(s.locale, "extension_reviewed.title", vars),
				Body:  i18n.Format(s.locale, "extension_reviewed.message", vars),
				Data: map[string]string{
					"type":             "extension_reviewed",
					"task_response_id": taskCopy.ID.String(),
				},
			})
			if err != nil {
				log.Printf("deadline: extension push to %s failed: %v", requester.ID, err)
			}
		}
		if requester.Email != "" {
			if err := s.emailSvc.SendExtensionStatusEmail(ctx, requester.Email, requester.FullName, order.NamaProject, taskCopy.Tahap, status, reviewerName); err != nil {
				log.Printf("deadline: extension email to %s failed: %v", requester.Email, err)
			}
		}
	})
}
