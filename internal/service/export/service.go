package export

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/xuri/excelize/v2"

	"moey-backend/internal/domain"
	"moey-backend/internal/repository"
	"moey-backend/internal/service/audit"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	taskSheet       = "Task Responses"
	extensionSheet  = "Perpanjangan"
	timeLayout      = "2006-01-02 15:04"
)

// ObjectStore is the part of *minio.Client used for archiving reports.
type ObjectStore interface {
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	PresignedGetObject(ctx context.Context, bucketName, objectName string, expires time.Duration, reqParams url.Values) (*url.URL, error)
}

type Service interface {
	TaskResponses(ctx context.Context, orderID uuid.UUID) (*domain.ReportFile, error)
	ArchiveTaskResponses(ctx context.Context, orderID uuid.UUID, actor *domain.User) (*domain.ReportArchive, error)
}

type service struct {
	orderRepo repository.OrderRepository
	taskRepo  repository.TaskResponseRepository
	userRepo  repository.UserRepository
	auditSvc  audit.Service
	store     ObjectStore
	bucket    string
	urlTTL    time.Duration
	now       func() time.Time
}

func NewService(
	orderRepo repository.OrderRepository,
	taskRepo repository.TaskResponseRepository,
	userRepo repository.UserRepository,
	auditSvc audit.Service,
	minioClient *minio.Client,
	bucket string,
	urlTTL time.Duration,
) Service {
	s := &service{
		orderRepo: orderRepo,
		taskRepo:  taskRepo,
		userRepo:  userRepo,
		auditSvc:  auditSvc,
		bucket:    bucket,
		urlTTL:    urlTTL,
		now:       func() time.Time { return time.Now().UTC() },
	}
	if minioClient != nil {
		s.store = minioClient
	}
	if s.urlTTL <= 0 {
		s.urlTTL = 15 * time.Minute
	}
	return s
}

func (s *service) TaskResponses(ctx context.Context, orderID uuid.UUID) (*domain.ReportFile, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrOrderNotFound
	}

	tasks, err := s.taskRepo.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	extensions := make(map[uuid.UUID][]domain.TaskResponseExtendLog)
	userIDs := []uuid.UUID{}
	seen := map[uuid.UUID]bool{}
	addUser := func(id *uuid.UUID) {
		if id != nil && !seen[*id] {
			seen[*id] = true
			userIDs = append(userIDs, *id)
		}
	}
	for _, task := range tasks {
		addUser(task.UserID)
		if task.ExtendTime == 0 {
			continue
		}
		logs, err := s.taskRepo.ListExtensions(ctx, task.ID)
		if err != nil {
			return nil, err
		}
		extensions[task.ID] = logs
		for i := range logs {
			addUser(&logs[i].UserID)
		}
	}

	names := map[uuid.UUID]string{}
	if len(userIDs) > 0 {
		users, err := s.userRepo.ListByIDs(ctx, userIDs)
		if err != nil {
			return nil, err
		}
		for _, u := range users {
			names[u.ID] = u.FullName
		}
	}

	content, err := buildWorkbook(order, tasks, extensions, names, s.now())
	if err != nil {
		return nil, fmt.Errorf("failed to build report: %w", err)
	}

	return &domain.ReportFile{
		FileName:    fmt.Sprintf("task-responses-%s-%s.xlsx", slug(order.NamaProject), s.now().Format("20060102")),
		ContentType: xlsxContentType,
		Content:     content,
	}, nil
}

// ArchiveTaskResponses stores the report in the bucket and returns a presigned download URL.
func (s *service) ArchiveTaskResponses(ctx context.Context, orderID uuid.UUID, actor *domain.User) (*domain.ReportArchive, error) {
	if s.store == nil {
		return nil, domain.ErrStorageDisabled
	}

	report, err := s.TaskResponses(ctx, orderID)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("reports/%s/%s/%s", orderID, s.now().Format("2006/01"), report.FileName)
	_, err = s.store.PutObject(ctx, s.bucket, key, bytes.NewReader(report.Content), int64(len(report.Content)), minio.PutObjectOptions{
		ContentType: report.ContentType,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload to MinIO: %w", err)
	}

	params := url.Values{}
	params.Set("response-content-disposition", fmt.Sprintf("attachment; filename=%q", report.FileName))
	presigned, err := s.store.PresignedGetObject(ctx, s.bucket, key, s.urlTTL, params)
	if err != nil {
		return nil, fmt.Errorf("failed to presign report: %w", err)
	}

	s.auditSvc.Record(ctx, domain.CreateAuditLogInput{
		UserID:     actor.ID,
		Action:     domain.AuditReportArchive,
		EntityType: "order",
		EntityID:   orderID,
		OrderID:    &orderID,
		NewValue:   map[string]interface{}{"object_key": key},
	})

	return &domain.ReportArchive{
		ObjectKey: key,
		URL:       presigned.String(),
		ExpiresAt: s.now().Add(s.urlTTL),
	}, nil
}

func buildWorkbook(order *domain.Order, tasks []domain.TaskResponse, extensions map[uuid.UUID][]domain.TaskResponseExtendLog, names map[uuid.UUID]string, now time.Time) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", taskSheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(extensionSheet); err != nil {
		return nil, err
	}

	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#E0E0E0"}},
	})
	if err != nil {
		return nil, err
	}

	f.SetCellValue(taskSheet, "A1", "Project")
	f.SetCellValue(taskSheet, "B1", order.NamaProject)
	f.SetCellValue(taskSheet, "A2", "Customer")
	f.SetCellValue(taskSheet, "B2", order.CustomerName)
	f.SetCellValue(taskSheet, "A3", "Generated")
	f.SetCellValue(taskSheet, "B3", now.Format(timeLayout))

	taskHeaders := []string{"Tahap", "PIC", "Status", "Marketing", "Mulai", "Deadline", "Response", "Selesai", "Durasi (hari)", "Durasi Aktual", "Perpanjangan", "Alasan"}
	if err := writeRow(f, taskSheet, 5, toCells(taskHeaders)); err != nil {
		return nil, err
	}
	f.SetCellStyle(taskSheet, "A5", cellName(len(taskHeaders), 5), header)

	for i, task := range tasks {
		row := []interface{}{
			task.Tahap,
			userName(names, task.UserID),
			string(task.Status),
			yesNo(task.IsMarketing),
			task.StartTime.Format(timeLayout),
			task.Deadline.Format(timeLayout),
			formatTime(task.ResponseTime),
			formatTime(task.UpdateDataTime),
			task.Duration,
			intOrBlank(task.DurationActual),
			task.ExtendTime,
			stringOrBlank(task.ExtendReason),
		}
		if err := writeRow(f, taskSheet, 6+i, row); err != nil {
			return nil, err
		}
	}

	extHeaders := []string{"Tahap", "Pemohon", "Hari", "Alasan", "Diajukan", "Status", "Ditinjau"}
	if err := writeRow(f, extensionSheet, 1, toCells(extHeaders)); err != nil {
		return nil, err
	}
	f.SetCellStyle(extensionSheet, "A1", cellName(len(extHeaders), 1), header)

	rowNum := 2
	for _, task := range tasks {
		for _, ext := range extensions[task.ID] {
			row := []interface{}{
				task.Tahap,
				names[ext.UserID],
				ext.ExtendTime,
				ext.ExtendReason,
				ext.RequestTime.Format(timeLayout),
				string(ext.Status),
				formatTime(ext.ReviewedAt),
			}
			if err := writeRow(f, extensionSheet, rowNum, row); err != nil {
				return nil, err
			}
			rowNum++
		}
	}

	f.SetColWidth(taskSheet, "A", "A", 18)
	f.SetColWidth(taskSheet, "B", "B", 24)
	f.SetColWidth(taskSheet, "E", "H", 18)
	f.SetColWidth(taskSheet, "L", "L", 48)
	f.SetColWidth(extensionSheet, "D", "D", 48)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell := cellName(1, row)
	return f.SetSheetRow(sheet, cell, &values)
}

func cellName(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

func toCells(values []string) []interface{} {
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return cells
}

func userName(names map[uuid.UUID]string, id *uuid.UUID) string {
	if id == nil {
		return "-"
	}
	if name, ok := names[*id]; ok {
		return name
	}
	return id.String()
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(timeLayout)
}

func intOrBlank(v *int) interface{} {
	if v == nil {
		return ""
	}
	return *v
}

func stringOrBlank(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func yesNo(b bool) string {
	if b {
		return "Ya"
	}
	return "Tidak"
}

func slug(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	dash := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	out := strings.TrimSuffix(b.String(), "-")
	if out == "" {
		return "order"
	}
	return out
}
