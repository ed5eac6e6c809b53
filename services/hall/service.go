package hall

import (
	"context"
	"errors"
	"time"

	hallRepo "hallbook/database/repository/hall"
	"hallbook/models"
	"hallbook/services/storage"
	"hallbook/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrHallNotFound indicates the requested hall does not exist.
var ErrHallNotFound = errors.New("hall not found")

// UpsertHallRequest carries the admin-editable hall fields.
type UpsertHallRequest struct {
	Name                string  `json:"name" binding:"required"`
	Location            string  `json:"location" binding:"required"`
	Capacity            int     `json:"capacity" binding:"required,gt=0"`
	BasePrice           float64 `json:"basePrice" binding:"required,gt=0"`
	AdditionalHourPrice float64 `json:"additionalHourPrice" binding:"gte=0"`
}

// HallService manages the hall catalogue.
type HallService interface {
	GetHall(ctx context.Context, id string) (*models.Hall, error)
	ListHalls(ctx context.Context) ([]models.Hall, error)
	CreateHall(ctx context.Context, req UpsertHallRequest) (*models.Hall, error)
	UpdateHall(ctx context.Context, id string, req UpsertHallRequest) (*models.Hall, error)
	AddImage(ctx context.Context, id, localFilePath string) (*models.Hall, error)
}

type hallService struct {
	halls hallRepo.HallRepository
	store storage.StorageService
}

// NewHallService creates a new hall service instance.
func NewHallService(halls hallRepo.HallRepository, store storage.StorageService) HallService {
	return &hallService{halls: halls, store: store}
}

func (s *hallService) GetHall(_ context.Context, id string) (*models.Hall, error) {
	h, err := s.halls.GetByID(id)
	if err != nil {
		return nil, err
	}
	if h == nil {
		return nil, ErrHallNotFound
	}
	return h, nil
}

func (s *hallService) ListHalls(_ context.Context) ([]models.Hall, error) {
	return s.halls.GetAll()
}

func (s *hallService) CreateHall(_ context.Context, req UpsertHallRequest) (*models.Hall, error) {
	now := time.Now()
	h := &models.Hall{
		ID:                  uuid.New().String(),
		Name:                req.Name,
		Location:            req.Location,
		Capacity:            req.Capacity,
		BasePrice:           req.BasePrice,
		AdditionalHourPrice: req.AdditionalHourPrice,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if err := s.halls.Create(h); err != nil {
		return nil, err
	}
	return h, nil
}

func (s *hallService) UpdateHall(ctx context.Context, id string, req UpsertHallRequest) (*models.Hall, error) {
	h, err := s.GetHall(ctx, id)
	if err != nil {
		return nil, err
	}
	h.Name = req.Name
	h.Location = req.Location
	h.Capacity = req.Capacity
	h.BasePrice = req.BasePrice
	h.AdditionalHourPrice = req.AdditionalHourPrice
	h.UpdatedAt = time.Now()
	if err := s.halls.Update(h); err != nil {
		return nil, err
	}
	return h, nil
}

// AddImage uploads a hall photo and appends its URL to the gallery.
// If the gallery update fails the uploaded asset is removed again, so
// storage never holds images no hall points to.
func (s *hallService) AddImage(ctx context.Context, id, localFilePath string) (*models.Hall, error) {
	h, err := s.GetHall(ctx, id)
	if err != nil {
		return nil, err
	}
	url, publicID, err := s.store.UploadFile(ctx, localFilePath, "halls")
	if err != nil {
		return nil, err
	}
	h.Images = append(h.Images, url)
	h.UpdatedAt = time.Now()
	if err := s.halls.Update(h); err != nil {
		if delErr := s.store.DeleteFile(ctx, publicID); delErr != nil {
			utils.GetLogger().Warn("Failed to delete orphaned hall image",
				zap.String("publicId", publicID), zap.Error(delErr))
		}
		return nil, err
	}
	return h, nil
}
