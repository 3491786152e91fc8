package services

import (
	"context"
	"log"
	"strings"

	"makemystay/internal/domain"
	"makemystay/internal/metrics"
)

// ImageStore persists property images.
type ImageStore interface {
	ListForProperty(ctx context.Context, propertyID uint) ([]domain.PropertyImage, error)
	Get(ctx context.Context, id uint) (*domain.PropertyImage, error)
	Create(ctx context.Context, propertyID uint, image *domain.PropertyImage) error
	Update(ctx context.Context, id uint, patch domain.PropertyImagePatch) (*domain.PropertyImage, error)
	Delete(ctx context.Context, id uint) error
}

// PropertyImagePayload is the body of an image creation request.
type PropertyImagePayload struct {
	ImageURL  string `json:"image_url" yaml:"image_url" validate:"required,max=500"`
	IsPrimary bool   `json:"is_primary" yaml:"is_primary"`
	SortOrder int    `json:"sort_order" yaml:"sort_order" validate:"gte=0"`
}

func (p PropertyImagePayload) toImage() domain.PropertyImage {
	return domain.PropertyImage{
		ImageURL:  p.ImageURL,
		IsPrimary: p.IsPrimary,
		SortOrder: p.SortOrder,
	}
}

// ImageService implements the property image service
type ImageService struct {
	store     ImageStore
	validator *Validator
}

// NewImageService creates a new image service
func NewImageService(store ImageStore, validator *Validator) *ImageService {
	return &ImageService{store: store, validator: validator}
}

// ListForProperty returns the property's images in display order.
func (s *ImageService) ListForProperty(ctx context.Context, propertyID uint) ([]domain.PropertyImage, error) {
	return s.store.ListForProperty(ctx, propertyID)
}

func (s *ImageService) Get(ctx context.Context, id uint) (*domain.PropertyImage, error) {
	return s.store.Get(ctx, id)
}

// Create attaches an image to an existing property.
func (s *ImageService) Create(ctx context.Context, propertyID uint, p *PropertyImagePayload) (*domain.PropertyImage, error) {
	payload := *p
	payload.ImageURL = strings.TrimSpace(p.ImageURL)
	log.Printf("[IMAGE] Create request: property_id=%d, sort_order=%d", propertyID, payload.SortOrder)

	if err := s.validator.Struct(&payload); err != nil {
		log.Printf("[IMAGE] Create failed: validation error: %v", err)
		return nil, err
	}

	image := payload.toImage()
	if err := s.store.Create(ctx, propertyID, &image); err != nil {
		log.Printf("[IMAGE] Create failed for property_id=%d: %v", propertyID, err)
		return nil, err
	}

	log.Printf("[IMAGE] Create successful: id=%d, property_id=%d", image.ID, propertyID)
	metrics.RecordListingChange("image", "create")
	return &image, nil
}

// Update applies a partial update. Only supplied fields change.
func (s *ImageService) Update(ctx context.Context, id uint, patch domain.PropertyImagePatch) (*domain.PropertyImage, error) {
	log.Printf("[IMAGE] Update request: id=%d", id)

	patch.ImageURL = trimOptional(patch.ImageURL)
	if err := requireNonNull(
		nonNull{"image_url", patch.ImageURL.IsNull()},
		nonNull{"is_primary", patch.IsPrimary.IsNull()},
		nonNull{"sort_order", patch.SortOrder.IsNull()},
	); err != nil {
		return nil, err
	}
	if err := checkOptional(s.validator, "image_url", patch.ImageURL, "required,max=500"); err != nil {
		return nil, err
	}
	if err := checkOptional(s.validator, "sort_order", patch.SortOrder, "gte=0"); err != nil {
		return nil, err
	}

	image, err := s.store.Update(ctx, id, patch)
	if err != nil {
		log.Printf("[IMAGE] Update failed for id=%d: %v", id, err)
		return nil, err
	}

	log.Printf("[IMAGE] Update successful: id=%d", id)
	metrics.RecordListingChange("image", "update")
	return image, nil
}

func (s *ImageService) Delete(ctx context.Context, id uint) error {
	log.Printf("[IMAGE] Delete request: id=%d", id)
	if err := s.store.Delete(ctx, id); err != nil {
		log.Printf("[IMAGE] Delete failed for id=%d: %v", id, err)
		return err
	}
	log.Printf("[IMAGE] Delete successful: id=%d", id)
	metrics.RecordListingChange("image", "delete")
	return nil
}
