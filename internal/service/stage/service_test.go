package stage

import (
	"context"
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

type fakeLocker struct {
	busy bool
	keys []string
}

func (l *fakeLocker) Lock(_ context.Context, key string) (func(), error) {
	if l.busy {
		return nil, domain.ErrStageBusy
	}
	l.keys = append(l.keys, key)
	return func() {}, nil
}

type fixture struct {
	svc       *service
	orders    *mocks.OrderRepository
	stages    *mocks.StageRepository
	workplans *mocks.WorkplanRepository
	ledger    *mocks.NotificationService
	deadlines *mocks.DeadlineService
	audits    *mocks.AuditService
	locker    *fakeLocker
	tx        *mocks.Transactor
	now       time.Time
}

func newFixture() *fixture {
	f := &fixture{
		orders:    new(mocks.OrderRepository),
		stages:    new(mocks.StageRepository),
		workplans: new(mocks.WorkplanRepository),
		ledger:    new(mocks.NotificationService),
		deadlines: new(mocks.DeadlineService),
		audits:    new(mocks.AuditService),
		locker:    &fakeLocker{},
		now:       time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
	}
	f.tx = &mocks.Transactor{Repos: &repository.Repositories{
		Order:    f.orders,
		Stage:    f.stages,
		Workplan: f.workplans,
	}}
	f.svc = &service{
		orderRepo:   f.orders,
		stageRepo:   f.stages,
		tx:          f.tx,
		ledger:      f.ledger,
		deadlineSvc: f.deadlines,
		auditSvc:    f.audits,
		locker:      f.locker,
		now:         func() time.Time { return f.now },
	}
	f.svc.registry = f.svc.buildRegistry()
	return f
}

// arrange wires the notification, order and snapshot lookups shared by every path.
func (f *fixture) arrange(ctx context.Context, notifType domain.NotificationType, actor *domain.User, snapshot *domain.StageSnapshot) (*domain.Notification, *domain.Order) {
	order := &domain.Order{ID: snapshot.OrderID, NamaProject: "Rumah Pak Andi", TahapanProyek: domain.StageNotStart}
	notif := &domain.Notification{ID: uuid.New(), UserID: actor.ID, OrderID: &order.ID, Type: notifType, IsRead: true}

	f.ledger.On("MarkAsRead", ctx, notif.ID, actor.ID).Return(notif, nil).Once()
	f.orders.On("GetByID", ctx, order.ID).Return(order, nil).Once()
	f.stages.On("LoadSnapshot", ctx, order.ID).Return(snapshot, nil).Once()
	return notif, order
}

func staffUser() *domain.User {
	return &domain.User{ID: uuid.New(), FullName: "Budi", Role: domain.RoleSurveyor}
}

func pmUser() *domain.User {
	return &domain.User{ID: uuid.New(), FullName: "Sari", Role: domain.RoleProjectManager}
}

func stamped(at time.Time, by string) *domain.StageRecord {
	return &domain.StageRecord{ID: uuid.New(), ResponseBy: &by, ResponseTime: &at, AckStatus: domain.AckStaff}
}

func TestRegistryCoversEveryNotificationType(t *testing.T) {
	f := newFixture()

	assert.Len(t, f.svc.registry, len(domain.NotificationTypes))
	for _, nt := range domain.NotificationTypes {
		st, ok := f.svc.registry[nt]
		if assert.True(t, ok, "missing registry entry for %s", nt) {
			assert.NotNil(t, st.staff, "missing staff handler for %s", nt)
			assert.NotNil(t, st.pm, "missing pm handler for %s", nt)
		}
	}
}

func TestRespond_CreatesSurveyAndStartsProject(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	actor := staffUser()
	snapshot := domain.NewStageSnapshot(uuid.New())
	notif, _ := f.arrange(ctx, domain.NotifSurveyRequest, actor, snapshot)

	f.stages.On("Insert", ctx, domain.EntitySurveyResult, snapshot.OrderID, domain.SlotStaff, "Budi", f.now).Return(true, nil).Once()
	f.orders.On("UpdateStage", ctx, snapshot.OrderID, domain.StageSurvey, mock.MatchedBy(func(s *domain.ProjectStatus) bool {
		return s != nil && *s == domain.ProjectInProgress
	}), f.now).Return(nil).Once()
	f.deadlines.On("MarkResponded", ctx, snapshot.OrderID, "survey", actor.ID).Return(nil).Once()
	f.audits.On("Record", ctx, mock.MatchedBy(func(in domain.CreateAuditLogInput) bool {
		return in.Action == domain.AuditStageResponse && in.UserID == actor.ID
	})).Once()

	result, err := f.svc.Respond(ctx, notif.ID, actor)

	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, domain.OutcomeCreated, result.Status)
	assert.Equal(t, domain.ActionCreate, result.Action)
	assert.Equal(t, "Response recorded. Survey can now be created.", result.Message)
	assert.Equal(t, snapshot.OrderID, result.Data.OrderID)
	assert.Equal(t, []string{"stage:lock:" + snapshot.OrderID.String() + ":survey_request"}, f.locker.keys)
	assert.Equal(t, 1, f.tx.Calls)
	f.stages.AssertExpectations(t)
	f.orders.AssertExpectations(t)
	f.deadlines.AssertExpectations(t)
	f.audits.AssertExpectations(t)
}

func TestRespond_ExistingEntityIsNotDuplicated(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	actor := staffUser()
	snapshot := domain.NewStageSnapshot(uuid.New())
	snapshot.Moodboard = stamped(f.now.Add(-time.Hour), "Desi")
	notif, _ := f.arrange(ctx, domain.NotifMoodboardRequest, actor, snapshot)

	f.deadlines.On("MarkResponded", ctx, snapshot.OrderID, "moodboard", actor.ID).Return(nil).Once()
	f.audits.On("Record", ctx, mock.Anything).Once()

	result, err := f.svc.Respond(ctx, notif.ID, actor)

	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, domain.OutcomeAlreadyExists, result.Status)
	assert.Equal(t, domain.ActionView, result.Action)
	assert.Equal(t, "Moodboard already exists", result.Message)
	f.stages.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.orders.AssertNotCalled(t, "UpdateStage", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	assert.Zero(t, f.tx.Calls)
}

func TestRespond_AcknowledgesPMOnlyRowInPlace(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	actor := staffUser()
	snapshot := domain.NewStageSnapshot(uuid.New())
	pmAt := f.now.Add(-2 * time.Hour)
	pmBy := "Sari"
	snapshot.Moodboard = &domain.StageRecord{ID: uuid.New(), PMResponseBy: &pmBy, PMResponseTime: &pmAt, AckStatus: domain.AckPM}
	snapshot.Estimasi = &domain.StageRecord{ID: uuid.New(), ParentID: snapshot.Moodboard.ID, PMResponseBy: &pmBy, PMResponseTime: &pmAt, AckStatus: domain.AckPM}
	notif, _ := f.arrange(ctx, domain.NotifEstimasiRequest, actor, snapshot)

	f.stages.On("Stamp", ctx, domain.EntityEstimasi, snapshot.Estimasi.ID, domain.SlotStaff, "Budi", f.now).Return(true, nil).Once()
	f.orders.On("UpdateStage", ctx, snapshot.OrderID, domain.StageEstimasi, (*domain.ProjectStatus)(nil), f.now).Return(nil).Once()
	f.deadlines.On("MarkResponded", ctx, snapshot.OrderID, "estimasi", actor.ID).Return(nil).Once()
	f.audits.On("Record", ctx, mock.Anything).Once()

	result, err := f.svc.Respond(ctx, notif.ID, actor)

	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeAlreadyExists, result.Status)
	assert.Equal(t, "Estimasi already exists", result.Message)
	f.stages.AssertExpectations(t)
	f.orders.AssertExpectations(t)
	f.stages.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRespond_MissingPrerequisite(t *testing.T) {
	cases := []struct {
		name    string
		typ     domain.NotificationType
		message string
	}{
		{"estimasi without moodboard", domain.NotifEstimasiRequest, "Moodboard not found for this order"},
		{"commitment fee without moodboard", domain.NotifCommitmentFeeRequest, "Moodboard not found for this order"},
		{"final design without moodboard", domain.NotifFinalDesignRequest, "Moodboard not found for this order"},
		{"item pekerjaan without moodboard", domain.NotifItemPekerjaanRequest, "Moodboard not found for this order"},
		{"rab without item pekerjaan", domain.NotifRabInternalRequest, "Item pekerjaan not found for this order"},
		{"kontrak without item pekerjaan", domain.NotifKontrakRequest, "Item pekerjaan not found for this order"},
		{"workplan without item pekerjaan", domain.NotifWorkplanRequest, "Item pekerjaan not found for this order"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture()
			ctx := context.Background()
			actor := staffUser()
			snapshot := domain.NewStageSnapshot(uuid.New())
			notif, _ := f.arrange(ctx, tc.typ, actor, snapshot)

			result, err := f.svc.Respond(ctx, notif.ID, actor)

			require.NoError(t, err)
			assert.False(t, result.Success)
			assert.Equal(t, domain.OutcomeError, result.Status)
			assert.Equal(t, "PREREQUISITE_MISSING", result.Code)
			assert.Equal(t, tc.message, result.Message)
			assert.Zero(t, f.tx.Calls)
			f.deadlines.AssertNotCalled(t, "MarkResponded", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
			f.audits.AssertNotCalled(t, "Record", mock.Anything, mock.Anything)
		})
	}
}

func TestRespond_RabInternalAttachesToFirstItemPekerjaan(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	actor := staffUser()
	snapshot := domain.NewStageSnapshot(uuid.New())
	snapshot.Moodboard = stamped(f.now, "Desi")
	first := domain.ItemPekerjaanStages{StageRecord: *stamped(f.now, "Eko")}
	second := domain.ItemPekerjaanStages{StageRecord: *stamped(f.now, "Eko")}
	snapshot.ItemPekerjaans = []domain.ItemPekerjaanStages{first, second}
	notif, _ := f.arrange(ctx, domain.NotifRabInternalRequest, actor, snapshot)

	f.stages.On("Insert", ctx, domain.EntityRabInternal, first.ID, domain.SlotStaff, "Budi", f.now).Return(true, nil).Once()
	f.orders.On("UpdateStage", ctx, snapshot.OrderID, domain.StageRAB, (*domain.ProjectStatus)(nil), f.now).Return(nil).Once()
	f.deadlines.On("MarkResponded", ctx, snapshot.OrderID, "rab_internal", actor.ID).Return(nil).Once()
	f.audits.On("Record", ctx, mock.Anything).Once()

	result, err := f.svc.Respond(ctx, notif.ID, actor)

	require.NoError(t, err)
	assert.Equal(t, "Response recorded. Please manage RAB Internal.", result.Message)
	f.stages.AssertExpectations(t)
}

func TestRespond_LostInsertRaceReportsExists(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	actor := staffUser()
	snapshot := domain.NewStageSnapshot(uuid.New())
	notif, _ := f.arrange(ctx, domain.NotifGambarKerjaRequest, actor, snapshot)

	f.stages.On("Insert", ctx, domain.EntityGambarKerja, snapshot.OrderID, domain.SlotStaff, "Budi", f.now).Return(false, nil).Once()
	f.deadlines.On("MarkResponded", ctx, snapshot.OrderID, "gambar_kerja", actor.ID).Return(nil).Once()
	f.audits.On("Record", ctx, mock.Anything).Once()

	result, err := f.svc.Respond(ctx, notif.ID, actor)

	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeAlreadyExists, result.Status)
	assert.Equal(t, "Gambar Kerja already exists", result.Message)
	f.orders.AssertNotCalled(t, "UpdateStage", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRespond_FinalDesign(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	actor := staffUser()
	snapshot := domain.NewStageSnapshot(uuid.New())
	snapshot.Moodboard = stamped(f.now, "Desi")
	notif, _ := f.arrange(ctx, domain.NotifFinalDesignRequest, actor, snapshot)

	f.stages.On("StampFinal", ctx, snapshot.Moodboard.ID, domain.SlotStaff, "Budi", f.now).Return(true, nil).Once()
	f.orders.On("UpdateStage", ctx, snapshot.OrderID, domain.StageDesainFinal, (*domain.ProjectStatus)(nil), f.now).Return(nil).Once()
	f.deadlines.On("MarkResponded", ctx, snapshot.OrderID, "desain_final", actor.ID).Return(nil).Once()
	f.audits.On("Record", ctx, mock.Anything).Once()

	result, err := f.svc.Respond(ctx, notif.ID, actor)

	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeCreated, result.Status)
	assert.Equal(t, "Response recorded. Please upload final design.", result.Message)
	f.stages.AssertExpectations(t)
	f.orders.AssertExpectations(t)
}

func TestRespond_ViewOnlyTypes(t *testing.T) {
	cases := map[domain.NotificationType]string{
		domain.NotifDesignApproval:           "Check the design for approval",
		domain.NotifInvoiceRequest:           "Please manage Invoice for this order",
		domain.NotifSurveyScheduleRequest:    "Please schedule survey for this order",
		domain.NotifApprovalMaterialRequest:  "Please manage Approval Material for this order",
		domain.NotifProjectManagementRequest: "Please manage Project Management for this order",
	}

	for typ, message := range cases {
		t.Run(string(typ), func(t *testing.T) {
			f := newFixture()
			ctx := context.Background()
			actor := staffUser()
			snapshot := domain.NewStageSnapshot(uuid.New())
			notif, _ := f.arrange(ctx, typ, actor, snapshot)

			result, err := f.svc.Respond(ctx, notif.ID, actor)

			require.NoError(t, err)
			assert.True(t, result.Success)
			assert.Equal(t, domain.OutcomeView, result.Status)
			assert.Equal(t, domain.ActionView, result.Action)
			assert.Equal(t, message, result.Message)
			assert.Zero(t, f.tx.Calls)
			f.audits.AssertNotCalled(t, "Record", mock.Anything, mock.Anything)
		})
	}
}

func TestRespond_NotificationNotFound(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	actor := staffUser()
	id := uuid.New()
	f.ledger.On("MarkAsRead", ctx, id, actor.ID).Return(nil, domain.ErrNotificationNotFound).Once()

	result, err := f.svc.Respond(ctx, id, actor)

	assert.ErrorIs(t, err, domain.ErrNotificationNotFound)
	assert.Nil(t, result)
	f.orders.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestRespond_UnknownType(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	actor := staffUser()
	orderID := uuid.New()
	notif := &domain.Notification{ID: uuid.New(), UserID: actor.ID, OrderID: &orderID, Type: "legacy_request"}
	f.ledger.On("MarkAsRead", ctx, notif.ID, actor.ID).Return(notif, nil).Once()

	result, err := f.svc.Respond(ctx, notif.ID, actor)

	assert.ErrorIs(t, err, domain.ErrUnknownNotificationType)
	assert.Nil(t, result)
}

func TestRespond_OrderNotFound(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	actor := staffUser()
	orderID := uuid.New()
	notif := &domain.Notification{ID: uuid.New(), UserID: actor.ID, OrderID: &orderID, Type: domain.NotifSurveyRequest}
	f.ledger.On("MarkAsRead", ctx, notif.ID, actor.ID).Return(notif, nil).Once()
	f.orders.On("GetByID", ctx, orderID).Return(nil, nil).Once()

	result, err := f.svc.Respond(ctx, notif.ID, actor)

	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
	assert.Nil(t, result)
}

func TestRespond_StageBusy(t *testing.T) {
	f := newFixture()
	f.locker.busy = true
	ctx := context.Background()
	actor := staffUser()
	orderID := uuid.New()
	notif := &domain.Notification{ID: uuid.New(), UserID: actor.ID, OrderID: &orderID, Type: domain.NotifSurveyRequest}
	f.ledger.On("MarkAsRead", ctx, notif.ID, actor.ID).Return(notif, nil).Once()
	f.orders.On("GetByID", ctx, orderID).Return(&domain.Order{ID: orderID}, nil).Once()

	result, err := f.svc.Respond(ctx, notif.ID, actor)

	assert.ErrorIs(t, err, domain.ErrStageBusy)
	assert.Nil(t, result)
	f.stages.AssertNotCalled(t, "LoadSnapshot", mock.Anything, mock.Anything)
}

func TestRespond_WorkplanFanOut(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	actor := staffUser()
	snapshot := domain.NewStageSnapshot(uuid.New())
	snapshot.Moodboard = stamped(f.now, "Desi")
	snapshot.ItemPekerjaans = []domain.ItemPekerjaanStages{{StageRecord: *stamped(f.now, "Eko")}}
	notif, _ := f.arrange(ctx, domain.NotifWorkplanRequest, actor, snapshot)

	fresh := domain.ProdukWorkplan{ProdukID: uuid.New(), NamaProduk: "Kitchen set"}
	planned := domain.ProdukWorkplan{ProdukID: uuid.New(), NamaProduk: "Wardrobe", ItemCount: 9}
	f.workplans.On("ListProduks", ctx, snapshot.OrderID).Return([]domain.ProdukWorkplan{fresh, planned}, nil).Once()
	f.workplans.On("CreateItems", ctx, mock.MatchedBy(func(items []domain.WorkplanItem) bool {
		if len(items) != len(domain.DefaultWorkplanStages) {
			return false
		}
		for i, item := range items {
			if item.ItemPekerjaanProdukID != fresh.ProdukID || item.Urutan != i+1 || item.Status != domain.WorkplanPlanned {
				return false
			}
			if item.ResponseBy == nil || *item.ResponseBy != "Budi" {
				return false
			}
		}
		return true
	})).Return(nil).Once()
	f.deadlines.On("MarkResponded", ctx, snapshot.OrderID, "workplan", actor.ID).Return(nil).Once()
	f.audits.On("Record", ctx, mock.Anything).Once()

	result, err := f.svc.Respond(ctx, notif.ID, actor)

	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeCreated, result.Status)
	assert.Equal(t, "Response recorded. Workplan created for 1 produk.", result.Message)
	f.workplans.AssertExpectations(t)
}

func TestRespond_WorkplanEdgeCases(t *testing.T) {
	t.Run("all produks planned", func(t *testing.T) {
		f := newFixture()
		ctx := context.Background()
		actor := staffUser()
		snapshot := domain.NewStageSnapshot(uuid.New())
		snapshot.ItemPekerjaans = []domain.ItemPekerjaanStages{{StageRecord: *stamped(f.now, "Eko")}}
		notif, _ := f.arrange(ctx, domain.NotifWorkplanRequest, actor, snapshot)

		f.workplans.On("ListProduks", ctx, snapshot.OrderID).Return([]domain.ProdukWorkplan{{ProdukID: uuid.New(), ItemCount: 9}}, nil).Once()
		f.deadlines.On("MarkResponded", ctx, snapshot.OrderID, "workplan", actor.ID).Return(nil).Once()
		f.audits.On("Record", ctx, mock.Anything).Once()

		result, err := f.svc.Respond(ctx, notif.ID, actor)

		require.NoError(t, err)
		assert.Equal(t, domain.OutcomeAlreadyExists, result.Status)
		assert.Equal(t, "Workplan already exists", result.Message)
		f.workplans.AssertNotCalled(t, "CreateItems", mock.Anything, mock.Anything)
	})

	t.Run("no produk", func(t *testing.T) {
		f := newFixture()
		ctx := context.Background()
		actor := staffUser()
		snapshot := domain.NewStageSnapshot(uuid.New())
		snapshot.ItemPekerjaans = []domain.ItemPekerjaanStages{{StageRecord: *stamped(f.now, "Eko")}}
		notif, _ := f.arrange(ctx, domain.NotifWorkplanRequest, actor, snapshot)

		f.workplans.On("ListProduks", ctx, snapshot.OrderID).Return([]domain.ProdukWorkplan{}, nil).Once()

		result, err := f.svc.Respond(ctx, notif.ID, actor)

		require.NoError(t, err)
		assert.False(t, result.Success)
		assert.Equal(t, "PREREQUISITE_MISSING", result.Code)
		assert.Equal(t, "Produk not found for this order", result.Message)
	})
}

func TestPMRespond_RequiresProjectManager(t *testing.T) {
	f := newFixture()
	actor := &domain.User{ID: uuid.New(), Role: "project manager"}

	result, err := f.svc.PMRespond(context.Background(), uuid.New(), actor)

	assert.ErrorIs(t, err, domain.ErrPMRoleRequired)
	assert.Nil(t, result)
	f.ledger.AssertNotCalled(t, "MarkAsRead", mock.Anything, mock.Anything, mock.Anything)
}

func TestPMRespond_CreatesPMOnlyRow(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	actor := pmUser()
	snapshot := domain.NewStageSnapshot(uuid.New())
	notif, _ := f.arrange(ctx, domain.NotifMoodboardRequest, actor, snapshot)

	f.stages.On("Insert", ctx, domain.EntityMoodboard, snapshot.OrderID, domain.SlotPM, "Sari", f.now).Return(true, nil).Once()
	f.deadlines.On("CompleteLatestMarketing", ctx, snapshot.OrderID, "moodboard", actor.ID).Return(nil).Once()
	f.audits.On("Record", ctx, mock.MatchedBy(func(in domain.CreateAuditLogInput) bool {
		return in.Action == domain.AuditPMResponse
	})).Once()

	result, err := f.svc.PMRespond(ctx, notif.ID, actor)

	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, domain.OutcomeRecorded, result.Status)
	f.stages.AssertExpectations(t)
	f.deadlines.AssertExpectations(t)
	f.orders.AssertNotCalled(t, "UpdateStage", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPMRespond_StampsExistingRow(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	actor := pmUser()
	snapshot := domain.NewStageSnapshot(uuid.New())
	snapshot.SurveyResult = stamped(f.now, "Budi")
	notif, _ := f.arrange(ctx, domain.NotifSurveyRequest, actor, snapshot)

	f.stages.On("Stamp", ctx, domain.EntitySurveyResult, snapshot.SurveyResult.ID, domain.SlotPM, "Sari", f.now).Return(true, nil).Once()
	f.deadlines.On("CompleteLatestMarketing", ctx, snapshot.OrderID, "survey", actor.ID).Return(nil).Once()
	f.audits.On("Record", ctx, mock.Anything).Once()

	result, err := f.svc.PMRespond(ctx, notif.ID, actor)

	require.NoError(t, err)
	assert.Equal(t, "PM response recorded for Survey", result.Message)
	f.stages.AssertExpectations(t)
}

func TestPMRespond_AlreadyRecorded(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	actor := pmUser()
	snapshot := domain.NewStageSnapshot(uuid.New())
	by := "Sari"
	at := f.now.Add(-time.Hour)
	snapshot.SurveyUlang = &domain.StageRecord{ID: uuid.New(), PMResponseBy: &by, PMResponseTime: &at, AckStatus: domain.AckPM}
	notif, _ := f.arrange(ctx, domain.NotifSurveyUlangRequest, actor, snapshot)

	f.deadlines.On("CompleteLatestMarketing", ctx, snapshot.OrderID, "survey_ulang", actor.ID).Return(nil).Once()
	f.audits.On("Record", ctx, mock.Anything).Once()

	result, err := f.svc.PMRespond(ctx, notif.ID, actor)

	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, "PM response already recorded", result.Message)
	assert.Zero(t, f.tx.Calls)
}

func TestPMRespond_NotApplicable(t *testing.T) {
	for _, typ := range []domain.NotificationType{
		domain.NotifDesignApproval,
		domain.NotifInvoiceRequest,
		domain.NotifApprovalMaterialRequest,
		domain.NotifProjectManagementRequest,
	} {
		t.Run(string(typ), func(t *testing.T) {
			f := newFixture()
			ctx := context.Background()
			actor := pmUser()
			notif, _ := f.arrange(ctx, typ, actor, domain.NewStageSnapshot(uuid.New()))

			result, err := f.svc.PMRespond(ctx, notif.ID, actor)

			assert.ErrorIs(t, err, domain.ErrPMNotApplicable)
			assert.Nil(t, result)
		})
	}
}

func TestPMRespond_SurveySchedule(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	actor := pmUser()
	snapshot := domain.NewStageSnapshot(uuid.New())
	notif, _ := f.arrange(ctx, domain.NotifSurveyScheduleRequest, actor, snapshot)

	f.orders.On("StampPMSurvey", ctx, snapshot.OrderID, "Sari", f.now).Return(true, nil).Once()
	f.deadlines.On("CompleteLatestMarketing", ctx, snapshot.OrderID, "survey_schedule", actor.ID).Return(nil).Once()
	f.audits.On("Record", ctx, mock.Anything).Once()

	result, err := f.svc.PMRespond(ctx, notif.ID, actor)

	require.NoError(t, err)
	assert.Equal(t, "PM response recorded for survey schedule", result.Message)
	f.orders.AssertExpectations(t)
}

func TestPMRespond_Workplan(t *testing.T) {
	t.Run("stamps every item", func(t *testing.T) {
		f := newFixture()
		ctx := context.Background()
		actor := pmUser()
		snapshot := domain.NewStageSnapshot(uuid.New())
		snapshot.WorkplanItemCount = 18
		notif, _ := f.arrange(ctx, domain.NotifWorkplanRequest, actor, snapshot)

		f.workplans.On("StampPMForOrder", ctx, snapshot.OrderID, "Sari", f.now).Return(int64(18), nil).Once()
		f.deadlines.On("CompleteLatestMarketing", ctx, snapshot.OrderID, "workplan", actor.ID).Return(nil).Once()
		f.audits.On("Record", ctx, mock.Anything).Once()

		result, err := f.svc.PMRespond(ctx, notif.ID, actor)

		require.NoError(t, err)
		assert.Equal(t, "PM response recorded for 18 workplan items", result.Message)
	})

	t.Run("no workplan", func(t *testing.T) {
		f := newFixture()
		ctx := context.Background()
		actor := pmUser()
		snapshot := domain.NewStageSnapshot(uuid.New())
		notif, _ := f.arrange(ctx, domain.NotifWorkplanRequest, actor, snapshot)

		result, err := f.svc.PMRespond(ctx, notif.ID, actor)

		require.NoError(t, err)
		assert.False(t, result.Success)
		assert.Equal(t, "Workplan not found for this order", result.Message)
		f.deadlines.AssertNotCalled(t, "CompleteLatestMarketing", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}
