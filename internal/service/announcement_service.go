package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/notify-admin-api/internal/dto"
	"github.com/noah-isme/notify-admin-api/internal/models"
	"github.com/noah-isme/notify-admin-api/internal/repository"
	appErrors "github.com/noah-isme/notify-admin-api/pkg/errors"
)

type announcementRepository interface {
	SelectPage(ctx context.Context, filter models.AnnouncementFilter) ([]models.Announcement, int, error)
	GetByID(ctx context.Context, id int64) (*models.Announcement, error)
	Insert(ctx context.Context, announcement *models.Announcement) (bool, error)
	UpdateIfStatus(ctx context.Context, announcement *models.Announcement, withStatus bool, expected models.AnnouncementStatus) (int64, error)
	TransitionStatus(ctx context.Context, id int64, from, to models.AnnouncementStatus, updateBy *string) (int64, error)
	UpdateStatus(ctx context.Context, id int64, status models.AnnouncementStatus, updateBy *string) (int64, error)
	Delete(ctx context.Context, id int64) (int64, error)
}

type announcementPublisher interface {
	Publish(ctx context.Context, event models.AnnouncementPublishedEvent) error
}

type transitionRecorder interface {
	RecordTransition(transition string)
	RecordEventFailure()
}

// eventQueueTimeout bounds how long a committed write waits for room on the
// event bus.
const eventQueueTimeout = 5 * time.Second

type noopRecorder struct{}

func (noopRecorder) RecordTransition(string) {}
func (noopRecorder) RecordEventFailure()     {}

// AnnouncementService owns the announcement lifecycle. Edits and publish are
// only accepted while an announcement is unpublished; the conditional write in
// the repository is what makes that rule hold under concurrent requests.
type AnnouncementService struct {
	repo      announcementRepository
	publisher announcementPublisher
	validator *validator.Validate
	metrics   transitionRecorder
	logger    *zap.Logger
	now       func() time.Time
}

// NewAnnouncementService constructs the service.
func NewAnnouncementService(repo announcementRepository, publisher announcementPublisher, validate *validator.Validate, metrics transitionRecorder, logger *zap.Logger) *AnnouncementService {
	if validate == nil {
		validate = validator.New()
	}
	if metrics == nil {
		metrics = noopRecorder{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	svc := &AnnouncementService{
		repo:      repo,
		publisher: publisher,
		validator: validate,
		metrics:   metrics,
		logger:    logger,
		now:       time.Now,
	}
	svc.validator.RegisterValidation("announcement_status", func(fl validator.FieldLevel) bool {
		return models.AnnouncementStatus(fl.Field().Int()).Valid()
	})
	svc.validator.RegisterValidation("recipient_filter_type", func(fl validator.FieldLevel) bool {
		return models.RecipientFilterType(fl.Field().Int()).Valid()
	})
	return svc
}

// SelectPageVo returns one page of announcement views.
func (s *AnnouncementService) SelectPageVo(ctx context.Context, query dto.AnnouncementQuery) ([]dto.AnnouncementItem, *models.Pagination, error) {
	filter := query.Filter()
	filter.Page, filter.PageSize = repository.NormalizePage(filter.Page, filter.PageSize)
	rows, total, err := s.repo.SelectPage(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list announcements")
	}
	items := make([]dto.AnnouncementItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, dto.NewAnnouncementItem(row))
	}
	return items, &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}, nil
}

// AddAnnouncement inserts a new announcement. An announcement created as
// published emits a publish event.
func (s *AnnouncementService) AddAnnouncement(ctx context.Context, req dto.AnnouncementRequest, actor *models.JWTClaims) (bool, error) {
	if err := s.validate(req); err != nil {
		return false, err
	}
	announcement := req.ToModel()
	announcement.ID = 0
	announcement.CreateBy = actorID(actor)
	announcement.UpdateBy = announcement.CreateBy

	inserted, err := s.repo.Insert(ctx, &announcement)
	if err != nil {
		return false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create announcement")
	}
	if !inserted {
		return false, nil
	}
	s.metrics.RecordTransition(TransitionCreated)
	if announcement.Status == models.AnnouncementStatusPublished {
		s.metrics.RecordTransition(TransitionPublished)
		s.emitPublished(ctx, announcement)
	}
	return true, nil
}

// UpdateAnnouncement rewrites an unpublished announcement. The status column
// is only written when the request asks to publish.
func (s *AnnouncementService) UpdateAnnouncement(ctx context.Context, req dto.AnnouncementRequest, actor *models.JWTClaims) (bool, error) {
	if req.ID <= 0 {
		return false, appErrors.Clone(appErrors.ErrValidation, "id is required")
	}
	if err := s.validate(req); err != nil {
		return false, err
	}
	existing, err := s.loadUnpublished(ctx, req.ID)
	if err != nil {
		return false, err
	}

	announcement := req.ToModel()
	announcement.CreateBy = existing.CreateBy
	announcement.CreatedAt = existing.CreatedAt
	announcement.UpdateBy = actorID(actor)
	publishing := announcement.Status == models.AnnouncementStatusPublished
	if !publishing {
		announcement.Status = existing.Status
	}

	affected, err := s.repo.UpdateIfStatus(ctx, &announcement, publishing, models.AnnouncementStatusUnpublished)
	if err != nil {
		return false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update announcement")
	}
	if affected == 0 {
		s.metrics.RecordTransition(TransitionRaceLost)
		s.logger.Warn("announcement update matched no unpublished row", zap.Int64("announcement_id", req.ID))
		return false, nil
	}
	s.metrics.RecordTransition(TransitionUpdated)
	if publishing {
		s.metrics.RecordTransition(TransitionPublished)
		s.emitPublished(ctx, announcement)
	}
	return true, nil
}

// Publish moves an unpublished announcement to published and emits the event.
func (s *AnnouncementService) Publish(ctx context.Context, id int64, actor *models.JWTClaims) (bool, error) {
	existing, err := s.loadUnpublished(ctx, id)
	if err != nil {
		return false, err
	}
	updateBy := actorID(actor)
	affected, err := s.repo.TransitionStatus(ctx, id, models.AnnouncementStatusUnpublished, models.AnnouncementStatusPublished, updateBy)
	if err != nil {
		return false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to publish announcement")
	}
	if affected == 0 {
		s.metrics.RecordTransition(TransitionRaceLost)
		s.logger.Warn("announcement publish matched no unpublished row", zap.Int64("announcement_id", id))
		return false, nil
	}
	s.metrics.RecordTransition(TransitionPublished)
	existing.Status = models.AnnouncementStatusPublished
	existing.UpdateBy = updateBy
	s.emitPublished(ctx, *existing)
	return true, nil
}

// Close disables an announcement whatever its current status.
func (s *AnnouncementService) Close(ctx context.Context, id int64, actor *models.JWTClaims) (bool, error) {
	affected, err := s.repo.UpdateStatus(ctx, id, models.AnnouncementStatusDisabled, actorID(actor))
	if err != nil {
		return false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to close announcement")
	}
	if affected == 0 {
		return false, nil
	}
	s.metrics.RecordTransition(TransitionClosed)
	return true, nil
}

// RemoveByID deletes an announcement.
func (s *AnnouncementService) RemoveByID(ctx context.Context, id int64) (bool, error) {
	affected, err := s.repo.Delete(ctx, id)
	if err != nil {
		return false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete announcement")
	}
	if affected == 0 {
		return false, nil
	}
	s.metrics.RecordTransition(TransitionDeleted)
	return true, nil
}

func (s *AnnouncementService) validate(req dto.AnnouncementRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}
	if !req.Immortal && req.Deadline == nil {
		return appErrors.Clone(appErrors.ErrValidation, "deadline is required unless the announcement is immortal")
	}
	return nil
}

// loadUnpublished is the early, non-atomic precondition check.
func (s *AnnouncementService) loadUnpublished(ctx context.Context, id int64) (*models.Announcement, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "announcement not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load announcement")
	}
	if existing.Status != models.AnnouncementStatusUnpublished {
		return nil, appErrors.Clone(appErrors.ErrAnnouncementPublished, "")
	}
	return existing, nil
}

func (s *AnnouncementService) emitPublished(ctx context.Context, announcement models.Announcement) {
	if s.publisher == nil {
		return
	}
	event := models.AnnouncementPublishedEvent{
		EventID:      uuid.NewString(),
		Announcement: announcement,
		PublishedAt:  s.now().UTC(),
	}
	// The row is already committed; a client hanging up must not drop the event.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), eventQueueTimeout)
	defer cancel()
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.metrics.RecordEventFailure()
		s.logger.Warn("failed to publish announcement event",
			zap.Int64("announcement_id", announcement.ID),
			zap.String("event_id", event.EventID),
			zap.Error(err),
		)
	}
}

func actorID(actor *models.JWTClaims) *string {
	if actor == nil || actor.UserID == "" {
		return nil
	}
	id := actor.UserID
	return &id
}
