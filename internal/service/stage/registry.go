package stage

import (
	"context"
	"errors"
	"fmt"

	"moey-backend/internal/domain"
	"moey-backend/internal/repository"
)

const pmAlreadyRecorded = "PM response already recorded"

var errNoProduk = domain.ErrPrerequisiteMissing.WithMessage("Produk not found for this order")

// entitySpec drives the uniform create-or-acknowledge handler for one stage entity.
type entitySpec struct {
	entity  domain.StageEntity
	tag     domain.ProjectStage
	starts  bool
	created string
}

func (s *service) buildRegistry() map[domain.NotificationType]stage {
	entity := func(spec entitySpec) stage {
		return stage{staff: s.staffEntity(spec), pm: s.pmEntity(spec.entity)}
	}
	viewOnly := func(message string) stage {
		return stage{staff: view(message), pm: pmNotApplicable}
	}

	return map[domain.NotificationType]stage{
		domain.NotifSurveyRequest: entity(entitySpec{
			entity: domain.EntitySurveyResult, tag: domain.StageSurvey, starts: true,
			created: "Response recorded. Survey can now be created.",
		}),
		domain.NotifMoodboardRequest: entity(entitySpec{
			entity: domain.EntityMoodboard, tag: domain.StageMoodboard,
			created: "Response recorded. Moodboard can now be created.",
		}),
		domain.NotifEstimasiRequest: entity(entitySpec{
			entity: domain.EntityEstimasi, tag: domain.StageEstimasi,
			created: "Response recorded. Estimasi can now be created.",
		}),
		domain.NotifCommitmentFeeRequest: entity(entitySpec{
			entity: domain.EntityCommitmentFee, tag: domain.StageCMFee,
			created: "Response recorded. Please create commitment fee.",
		}),
		domain.NotifItemPekerjaanRequest: entity(entitySpec{
			entity:  domain.EntityItemPekerjaan,
			created: "Response recorded. Please manage item pekerjaan.",
		}),
		domain.NotifRabInternalRequest: entity(entitySpec{
			entity: domain.EntityRabInternal, tag: domain.StageRAB,
			created: "Response recorded. Please manage RAB Internal.",
		}),
		domain.NotifKontrakRequest: entity(entitySpec{
			entity: domain.EntityKontrak, tag: domain.StageKontrak,
			created: "Response recorded. Please manage Kontrak.",
		}),
		domain.NotifSurveyUlangRequest: entity(entitySpec{
			entity: domain.EntitySurveyUlang, tag: domain.StageSurveyUlang,
			created: "Response recorded. Please manage Survey Ulang.",
		}),
		domain.NotifGambarKerjaRequest: entity(entitySpec{
			entity: domain.EntityGambarKerja, tag: domain.StageGambarKerja,
			created: "Response recorded. Please manage Gambar Kerja.",
		}),

		domain.NotifFinalDesignRequest:    {staff: s.finalDesignStaff, pm: s.finalDesignPM},
		domain.NotifWorkplanRequest:       {staff: s.workplanStaff, pm: s.workplanPM},
		domain.NotifSurveyScheduleRequest: {staff: view("Please schedule survey for this order"), pm: s.surveySchedulePM},

		domain.NotifDesignApproval:           viewOnly("Check the design for approval"),
		domain.NotifInvoiceRequest:           viewOnly("Please manage Invoice for this order"),
		domain.NotifApprovalMaterialRequest:  viewOnly("Please manage Approval Material for this order"),
		domain.NotifProjectManagementRequest: viewOnly("Please manage Project Management for this order"),
	}
}

func view(message string) handler {
	return func(_ context.Context, sc *stageContext) (*domain.StageResult, error) {
		return domain.StageView(sc.order.ID, message), nil
	}
}

func pmNotApplicable(context.Context, *stageContext) (*domain.StageResult, error) {
	return nil, domain.ErrPMNotApplicable
}

func prerequisiteOf(entity domain.StageEntity) domain.StageEntity {
	switch entity.ParentKind() {
	case domain.ParentMoodboard:
		return domain.EntityMoodboard
	case domain.ParentItemPekerjaan:
		return domain.EntityItemPekerjaan
	}
	return ""
}

func missingPrerequisite(entity domain.StageEntity) *domain.StageResult {
	return domain.StageFailed(domain.ErrPrerequisiteMissing.WithMessage("%s not found for this order", entity.Label()))
}

func exists(sc *stageContext, entity domain.StageEntity) *domain.StageResult {
	return domain.StageExists(sc.order.ID, entity.Label()+" already exists")
}

// advance moves the order marker after a staff response.
func advance(ctx context.Context, r *repository.Repositories, sc *stageContext, tag domain.ProjectStage, starts bool) error {
	if tag == "" {
		return nil
	}
	var status *domain.ProjectStatus
	if starts {
		inProgress := domain.ProjectInProgress
		status = &inProgress
	}
	return r.Order.UpdateStage(ctx, sc.order.ID, tag, status, sc.now)
}

func (s *service) staffEntity(spec entitySpec) handler {
	return func(ctx context.Context, sc *stageContext) (*domain.StageResult, error) {
		parentID, ok := sc.snapshot.ParentID(spec.entity)
		if !ok {
			return missingPrerequisite(prerequisiteOf(spec.entity)), nil
		}

		existing := sc.snapshot.Record(spec.entity)
		if existing != nil && existing.StaffResponded() {
			return exists(sc, spec.entity), nil
		}

		created := false
		err := s.tx.WithinTx(ctx, func(r *repository.Repositories) error {
			if existing != nil {
				// PM-only row: acknowledge it in place instead of inserting a second one.
				stamped, err := r.Stage.Stamp(ctx, spec.entity, existing.ID, domain.SlotStaff, sc.actorName, sc.now)
				if err != nil || !stamped {
					return err
				}
				return advance(ctx, r, sc, spec.tag, spec.starts)
			}

			inserted, err := r.Stage.Insert(ctx, spec.entity, parentID, domain.SlotStaff, sc.actorName, sc.now)
			if err != nil || !inserted {
				return err
			}
			created = true
			return advance(ctx, r, sc, spec.tag, spec.starts)
		})
		if err != nil {
			return nil, err
		}

		if !created {
			return exists(sc, spec.entity), nil
		}
		return domain.StageCreated(sc.order.ID, spec.created), nil
	}
}

func (s *service) pmEntity(entity domain.StageEntity) handler {
	return func(ctx context.Context, sc *stageContext) (*domain.StageResult, error) {
		parentID, ok := sc.snapshot.ParentID(entity)
		if !ok {
			return missingPrerequisite(prerequisiteOf(entity)), nil
		}

		existing := sc.snapshot.Record(entity)
		if existing != nil && existing.PMResponded() {
			return domain.StageRecorded(sc.order.ID, pmAlreadyRecorded), nil
		}

		err := s.tx.WithinTx(ctx, func(r *repository.Repositories) error {
			if existing != nil {
				_, err := r.Stage.Stamp(ctx, entity, existing.ID, domain.SlotPM, sc.actorName, sc.now)
				return err
			}
			_, err := r.Stage.Insert(ctx, entity, parentID, domain.SlotPM, sc.actorName, sc.now)
			return err
		})
		if err != nil {
			return nil, err
		}

		return domain.StageRecorded(sc.order.ID, fmt.Sprintf("PM response recorded for %s", entity.Label())), nil
	}
}

func (s *service) finalDesignStaff(ctx context.Context, sc *stageContext) (*domain.StageResult, error) {
	moodboard := sc.snapshot.Moodboard
	if moodboard == nil {
		return missingPrerequisite(domain.EntityMoodboard), nil
	}
	if moodboard.ResponseFinalTime != nil {
		return domain.StageExists(sc.order.ID, "Final design already exists"), nil
	}

	stamped := false
	err := s.tx.WithinTx(ctx, func(r *repository.Repositories) error {
		var err error
		stamped, err = r.Stage.StampFinal(ctx, moodboard.ID, domain.SlotStaff, sc.actorName, sc.now)
		if err != nil || !stamped {
			return err
		}
		return advance(ctx, r, sc, domain.StageDesainFinal, false)
	})
	if err != nil {
		return nil, err
	}

	if !stamped {
		return domain.StageExists(sc.order.ID, "Final design already exists"), nil
	}
	return domain.StageCreated(sc.order.ID, "Response recorded. Please upload final design."), nil
}

func (s *service) finalDesignPM(ctx context.Context, sc *stageContext) (*domain.StageResult, error) {
	moodboard := sc.snapshot.Moodboard
	if moodboard == nil {
		return missingPrerequisite(domain.EntityMoodboard), nil
	}
	if moodboard.PMResponseFinalTime != nil {
		return domain.StageRecorded(sc.order.ID, pmAlreadyRecorded), nil
	}

	err := s.tx.WithinTx(ctx, func(r *repository.Repositories) error {
		_, err := r.Stage.StampFinal(ctx, moodboard.ID, domain.SlotPM, sc.actorName, sc.now)
		return err
	})
	if err != nil {
		return nil, err
	}
	return domain.StageRecorded(sc.order.ID, "PM response recorded for final design"), nil
}

func (s *service) surveySchedulePM(ctx context.Context, sc *stageContext) (*domain.StageResult, error) {
	if sc.order.PMSurveyResponseTime != nil {
		return domain.StageRecorded(sc.order.ID, pmAlreadyRecorded), nil
	}

	stamped := false
	err := s.tx.WithinTx(ctx, func(r *repository.Repositories) error {
		var err error
		stamped, err = r.Order.StampPMSurvey(ctx, sc.order.ID, sc.actorName, sc.now)
		return err
	})
	if err != nil {
		return nil, err
	}

	if !stamped {
		return domain.StageRecorded(sc.order.ID, pmAlreadyRecorded), nil
	}
	return domain.StageRecorded(sc.order.ID, "PM response recorded for survey schedule"), nil
}

// workplanStaff creates the default breakdown for every produk that has none yet,
// all in one transaction.
func (s *service) workplanStaff(ctx context.Context, sc *stageContext) (*domain.StageResult, error) {
	if sc.snapshot.FirstItemPekerjaan() == nil {
		return missingPrerequisite(domain.EntityItemPekerjaan), nil
	}

	created := 0
	err := s.tx.WithinTx(ctx, func(r *repository.Repositories) error {
		produks, err := r.Workplan.ListProduks(ctx, sc.order.ID)
		if err != nil {
			return err
		}
		if len(produks) == 0 {
			return errNoProduk
		}

		for _, p := range produks {
			if p.ItemCount > 0 {
				continue
			}
			if err := r.Workplan.CreateItems(ctx, domain.NewDefaultWorkplan(p.ProdukID, sc.actorName, sc.now)); err != nil {
				return err
			}
			created++
		}
		return nil
	})
	if errors.Is(err, errNoProduk) {
		return domain.StageFailed(errNoProduk), nil
	}
	if err != nil {
		return nil, err
	}

	if created == 0 {
		return domain.StageExists(sc.order.ID, "Workplan already exists"), nil
	}
	return domain.StageCreated(sc.order.ID, fmt.Sprintf("Response recorded. Workplan created for %d produk.", created)), nil
}

func (s *service) workplanPM(ctx context.Context, sc *stageContext) (*domain.StageResult, error) {
	if sc.snapshot.WorkplanItemCount == 0 {
		return domain.StageFailed(domain.ErrPrerequisiteMissing.WithMessage("Workplan not found for this order")), nil
	}

	var stamped int64
	err := s.tx.WithinTx(ctx, func(r *repository.Repositories) error {
		var err error
		stamped, err = r.Workplan.StampPMForOrder(ctx, sc.order.ID, sc.actorName, sc.now)
		return err
	})
	if err != nil {
		return nil, err
	}

	if stamped == 0 {
		return domain.StageRecorded(sc.order.ID, pmAlreadyRecorded), nil
	}
	return domain.StageRecorded(sc.order.ID, fmt.Sprintf("PM response recorded for %d workplan items", stamped)), nil
}
