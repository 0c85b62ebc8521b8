package food

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/eatwise/eatwise-backend/internal/media"
	"github.com/eatwise/eatwise-backend/internal/moderation"
	"github.com/eatwise/eatwise-backend/pkg/db/models"
	pkgerrors "github.com/eatwise/eatwise-backend/pkg/errors"
	"github.com/eatwise/eatwise-backend/pkg/logger"
	"github.com/eatwise/eatwise-backend/pkg/metrics"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service exposes the food catalogue operations.
type Service interface {
	List(ctx context.Context) ([]models.FoodItem, error)
	Get(ctx context.Context, id string) (*models.FoodItem, error)
	Search(ctx context.Context, query string) ([]models.FoodItem, error)
	Create(ctx context.Context, req CreateFoodRequest) (*models.FoodItem, error)
	Seed(ctx context.Context) (*SeedResult, error)
}

type repository interface {
	List(ctx context.Context) ([]models.FoodItem, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.FoodItem, error)
	Search(ctx context.Context, q string, limit int) ([]models.FoodItem, error)
	Create(ctx context.Context, item *models.FoodItem) error
	ExistingBarcodes(ctx context.Context, barcodes []string) (map[string]struct{}, error)
}

type locker interface {
	AcquireLock(ctx context.Context, name string, ttl time.Duration) (func(context.Context) error, bool, error)
}

// ServiceParams wires the food service. Locker and Metrics are optional.
type ServiceParams struct {
	Repo        repository
	Uploader    media.Uploader
	Notifier    moderation.Notifier
	Locker      locker
	SeedLockTTL time.Duration
	Metrics     *metrics.FoodMetrics
	Logger      *logger.Logger
}

type service struct {
	repo        repository
	uploader    media.Uploader
	notifier    moderation.Notifier
	locker      locker
	seedLockTTL time.Duration
	metrics     *metrics.FoodMetrics
	logg        *logger.Logger
}

// NewService constructs the food service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("food repository required")
	}
	if params.Uploader == nil {
		return nil, fmt.Errorf("media uploader required")
	}
	if params.Notifier == nil {
		return nil, fmt.Errorf("moderation notifier required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	ttl := params.SeedLockTTL
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &service{
		repo:        params.Repo,
		uploader:    params.Uploader,
		notifier:    params.Notifier,
		locker:      params.Locker,
		seedLockTTL: ttl,
		metrics:     params.Metrics,
		logg:        params.Logger,
	}, nil
}

func (s *service) List(ctx context.Context) ([]models.FoodItem, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list food items")
	}
	return items, nil
}

func (s *service) Get(ctx context.Context, id string) (*models.FoodItem, error) {
	parsed, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "Invalid food item ID")
	}
	item, err := s.repo.FindByID(ctx, parsed)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Food item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load food item")
	}
	return item, nil
}

func (s *service) Search(ctx context.Context, query string) ([]models.FoodItem, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Search query is required")
	}
	items, err := s.repo.Search(ctx, q, SearchLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "search food items")
	}
	return items, nil
}

func (s *service) Create(ctx context.Context, req CreateFoodRequest) (*models.FoodItem, error) {
	item := req.toModel()
	if item.Name == "" || len(item.Ingredients) == 0 {
		s.metrics.IncSubmission(metrics.OutcomeRejected)
		return nil, pkgerrors.New(pkgerrors.CodeValidation, MsgRequiredFields)
	}
	if item.SafetyScore != nil && (*item.SafetyScore < 0 || *item.SafetyScore > 100) {
		s.metrics.IncSubmission(metrics.OutcomeRejected)
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "safetyScore must be between 0 and 100").
			WithDetails(map[string]string{"safetyScore": "must be between 0 and 100"})
	}

	if req.ImageDataURI != "" {
		secureURL, err := s.uploader.UploadDataURI(ctx, req.ImageDataURI)
		if err != nil {
			s.metrics.IncSubmission(metrics.OutcomeFailed)
			return nil, uploadError(err)
		}
		item.ImageURL = secureURL
	}

	if err := s.repo.Create(ctx, &item); err != nil {
		if errors.Is(err, ErrDuplicateBarcode) {
			s.metrics.IncSubmission(metrics.OutcomeConflict)
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "Error creating food item: A food item with this barcode already exists.")
		}
		s.metrics.IncSubmission(metrics.OutcomeFailed)
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create food item")
	}
	s.metrics.IncSubmission(metrics.OutcomeCreated)

	s.notifier.FoodItemSubmitted(ctx, item)
	return &item, nil
}

// uploadError keeps the media host's reason in the public message.
func uploadError(err error) error {
	reason := err.Error()
	if typed := pkgerrors.As(err); typed != nil {
		reason = typed.Message()
		if cause := typed.Unwrap(); cause != nil {
			reason = cause.Error()
		}
	}
	return pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "Image upload failed: "+reason)
}
