package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/training-registration-api/internal/dto"
	"github.com/noah-isme/training-registration-api/internal/models"
	"github.com/noah-isme/training-registration-api/internal/repository"
	appErrors "github.com/noah-isme/training-registration-api/pkg/errors"
)

type registrationRepository interface {
	Load(ctx context.Context) ([]models.Registration, error)
	Save(ctx context.Context, items []models.Registration) error
}

// ChangePublisher announces that the stored collection changed.
type ChangePublisher interface {
	Publish(ctx context.Context) error
}

type registrationMetrics interface {
	RecordRegistrationCreated(department string)
	RecordStatusUpdate(status string)
}

// RegistrationConfig tunes the registration service.
type RegistrationConfig struct {
	SubmitDelay time.Duration
	Clock       func() time.Time
	NewID       func() string
}

// RegistrationService owns the registration collection: reads, appends and status changes.
type RegistrationService struct {
	repo      registrationRepository
	validator *RegistrationValidator
	publisher ChangePublisher
	metrics   registrationMetrics
	logger    *zap.Logger
	cfg       RegistrationConfig

	mu sync.Mutex
}

// NewRegistrationService constructs a RegistrationService.
func NewRegistrationService(repo registrationRepository, validator *RegistrationValidator, publisher ChangePublisher, metrics registrationMetrics, logger *zap.Logger, cfg RegistrationConfig) *RegistrationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if cfg.NewID == nil {
		cfg.NewID = uuid.NewString
	}
	if validator == nil {
		validator = NewRegistrationValidator(nil, time.UTC, cfg.Clock)
	}
	return &RegistrationService{
		repo:      repo,
		validator: validator,
		publisher: publisher,
		metrics:   metrics,
		logger:    logger,
		cfg:       cfg,
	}
}

// List returns the whole collection. Unreadable or corrupt storage yields an empty collection;
// records that fail to decode are left out of an otherwise readable one.
func (s *RegistrationService) List(ctx context.Context) []models.Registration {
	items, err := s.repo.Load(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrUnreadableRecords) {
			s.logger.Warn("skipping unreadable registrations", zap.Error(err))
			return items
		}
		if errors.Is(err, repository.ErrCorruptCollection) {
			s.logger.Warn("registration collection is corrupt, treating as empty", zap.Error(err))
		} else {
			s.logger.Error("failed to load registrations, treating as empty", zap.Error(err))
		}
		return []models.Registration{}
	}
	return items
}

// Query returns the records matching filter and the size of the unfiltered collection.
func (s *RegistrationService) Query(ctx context.Context, filter models.RegistrationFilter) ([]models.Registration, int) {
	items := s.List(ctx)
	return FilterRegistrations(items, filter), len(items)
}

// Get returns one registration by id.
func (s *RegistrationService) Get(ctx context.Context, id string) (*models.Registration, error) {
	for _, item := range s.List(ctx) {
		if item.ID == id {
			found := item
			return &found, nil
		}
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "registration not found")
}

// Stats summarises the collection for the dashboard.
func (s *RegistrationService) Stats(ctx context.Context) models.RegistrationStats {
	return SummarizeRegistrations(s.List(ctx))
}

// Submit validates the form, waits the configured submission delay and stores the registration.
func (s *RegistrationService) Submit(ctx context.Context, req dto.CreateRegistrationRequest) (*models.Registration, error) {
	if err := s.validator.Validate(&req); err != nil {
		return nil, err
	}
	fields, err := req.Fields()
	if err != nil {
		return nil, appErrors.Validation(msgInvalidRegistration, map[string]string{"participationDate": MsgSelectParticipation})
	}
	if err := sleepContext(ctx, s.cfg.SubmitDelay); err != nil {
		return nil, err
	}
	return s.Create(ctx, fields)
}

// Create appends a new pending registration with a fresh id and creation time, then rewrites the collection.
func (s *RegistrationService) Create(ctx context.Context, fields models.RegistrationFields) (*models.Registration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.loadForMutation(ctx)
	if err != nil {
		return nil, err
	}

	reg := models.Registration{
		ID:                   s.cfg.NewID(),
		FullName:             fields.FullName,
		Email:                fields.Email,
		Department:           fields.Department,
		FamiliarityLevel:     fields.FamiliarityLevel,
		NeedsAccessibility:   fields.NeedsAccessibility,
		AccessibilityDetails: fields.AccessibilityDetails,
		Observations:         fields.Observations,
		ParticipationDate:    fields.ParticipationDate,
		CreatedAt:            s.cfg.Clock().UTC(),
		ApprovalStatus:       models.ApprovalPending,
	}
	items = append(items, reg)

	if err := s.repo.Save(ctx, items); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save registration")
	}

	s.logger.Info("registration created",
		zap.String("registration_id", reg.ID),
		zap.String("department", string(reg.Department)),
	)
	if s.metrics != nil {
		s.metrics.RecordRegistrationCreated(string(reg.Department))
	}
	s.notify(ctx)
	return &reg, nil
}

// UpdateStatus overwrites the approval status of the registration with id. Unknown ids are ignored.
func (s *RegistrationService) UpdateStatus(ctx context.Context, id string, status models.ApprovalStatus) error {
	if !status.Valid() {
		return appErrors.Validation("invalid approval status", map[string]string{"status": "status inválido"})
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.loadForMutation(ctx)
	if err != nil {
		return err
	}

	index := -1
	for i := range items {
		if items[i].ID == id {
			index = i
			break
		}
	}
	if index < 0 {
		s.logger.Debug("status update for unknown registration ignored", zap.String("registration_id", id))
		return nil
	}

	items[index].ApprovalStatus = status
	if err := s.repo.Save(ctx, items); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save registration status")
	}

	s.logger.Info("registration status updated",
		zap.String("registration_id", id),
		zap.String("status", string(status)),
	)
	if s.metrics != nil {
		s.metrics.RecordStatusUpdate(string(status))
	}
	s.notify(ctx)
	return nil
}

// loadForMutation treats a blob that is not an array as empty. It refuses to continue when the backend
// is unreachable or when some stored records cannot be decoded, since rewriting would drop them.
func (s *RegistrationService) loadForMutation(ctx context.Context) ([]models.Registration, error) {
	items, err := s.repo.Load(ctx)
	if err == nil {
		return items, nil
	}
	if errors.Is(err, repository.ErrUnreadableRecords) {
		s.logger.Error("refusing to rewrite collection with unreadable registrations", zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "stored registrations could not be read")
	}
	if errors.Is(err, repository.ErrCorruptCollection) {
		s.logger.Warn("registration collection is corrupt, overwriting", zap.Error(err))
		return []models.Registration{}, nil
	}
	return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load registrations")
}

func (s *RegistrationService) notify(ctx context.Context) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(context.WithoutCancel(ctx)); err != nil {
		s.logger.Warn("failed to publish registration change", zap.Error(err))
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
