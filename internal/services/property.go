package services

import (
	"context"
	"log"
	"strings"

	"makemystay/internal/domain"
	"makemystay/internal/metrics"
)

// PropertyStore persists listings and their images.
type PropertyStore interface {
	List(ctx context.Context, filter domain.PropertyFilter, page domain.Page) ([]domain.Property, error)
	Get(ctx context.Context, id uint) (*domain.Property, error)
	Create(ctx context.Context, property *domain.Property) error
	CreateMany(ctx context.Context, properties []domain.Property) error
	Update(ctx context.Context, id uint, patch domain.PropertyPatch) (*domain.Property, error)
	Delete(ctx context.Context, id uint) error
}

// PropertyPayload is the body of a property creation request. Images may
// be supplied inline; they are stored in the same transaction.
type PropertyPayload struct {
	PropertyName string                 `json:"property_name" yaml:"property_name" validate:"required,min=1,max=150"`
	Location     string                 `json:"location" yaml:"location" validate:"required,min=1,max=150"`
	Phone        string                 `json:"phone" yaml:"phone" validate:"required,min=10,max=15"`
	MapLink      *string                `json:"map_link" yaml:"map_link" validate:"omitnil,max=500,httpurl"`
	Description  *string                `json:"description" yaml:"description"`
	PropertyType domain.PropertyType    `json:"property_type" yaml:"property_type" validate:"required,oneof=PG 1RK 1BHK 2BHK"`
	Furnishing   *domain.Furnishing     `json:"furnishing" yaml:"furnishing" validate:"omitnil,oneof=fully_furnished semi_furnished unfurnished"`
	PrivatePrice *float64               `json:"private_price" yaml:"private_price" validate:"omitnil,gte=0"`
	SinglePrice  *float64               `json:"single_price" yaml:"single_price" validate:"omitnil,gte=0"`
	DoublePrice  *float64               `json:"double_price" yaml:"double_price" validate:"omitnil,gte=0"`
	TriplePrice  *float64               `json:"triple_price" yaml:"triple_price" validate:"omitnil,gte=0"`
	ListingType  *domain.ListingType    `json:"listing_type" yaml:"listing_type" validate:"omitnil,oneof=buy rent"`
	IsAvailable  *bool                  `json:"is_available" yaml:"is_available"`
	Images       []PropertyImagePayload `json:"images" yaml:"images" validate:"omitempty,dive"`
}

// PropertyService implements the property service
type PropertyService struct {
	store     PropertyStore
	validator *Validator
}

// NewPropertyService creates a new property service
func NewPropertyService(store PropertyStore, validator *Validator) *PropertyService {
	return &PropertyService{store: store, validator: validator}
}

func (s *PropertyService) List(ctx context.Context, filter domain.PropertyFilter, page domain.Page) ([]domain.Property, error) {
	page = page.Normalize()
	log.Printf("[PROPERTY] List request: skip=%d, limit=%d", page.Skip, page.Limit)

	properties, err := s.store.List(ctx, filter, page)
	if err != nil {
		log.Printf("[PROPERTY] List failed: %v", err)
		return nil, err
	}

	log.Printf("[PROPERTY] List successful: returned %d properties", len(properties))
	return properties, nil
}

func (s *PropertyService) Get(ctx context.Context, id uint) (*domain.Property, error) {
	return s.store.Get(ctx, id)
}

// Create validates p and stores it with defaults applied.
func (s *PropertyService) Create(ctx context.Context, p *PropertyPayload) (*domain.Property, error) {
	property, err := s.build(p)
	if err != nil {
		log.Printf("[PROPERTY] Create failed: validation error: %v", err)
		return nil, err
	}
	log.Printf("[PROPERTY] Create request: name=%s, type=%s", property.PropertyName, property.PropertyType)

	if err := s.store.Create(ctx, property); err != nil {
		log.Printf("[PROPERTY] Create failed: %v", err)
		return nil, err
	}

	log.Printf("[PROPERTY] Create successful: id=%d, images=%d", property.ID, len(property.Images))
	metrics.RecordListingChange("property", "create")
	return property, nil
}

// Import validates every payload first and then stores them all in one
// transaction. Nothing is stored when any payload is invalid.
func (s *PropertyService) Import(ctx context.Context, payloads []PropertyPayload) ([]domain.Property, error) {
	log.Printf("[PROPERTY] Import request: %d properties", len(payloads))

	properties := make([]domain.Property, 0, len(payloads))
	for i := range payloads {
		property, err := s.build(&payloads[i])
		if err != nil {
			log.Printf("[PROPERTY] Import failed: entry %d: %v", i+1, err)
			return nil, err
		}
		properties = append(properties, *property)
	}

	if err := s.store.CreateMany(ctx, properties); err != nil {
		log.Printf("[PROPERTY] Import failed: %v", err)
		return nil, err
	}

	log.Printf("[PROPERTY] Import successful: %d properties", len(properties))
	metrics.RecordListingChange("property", "import")
	return properties, nil
}

func (s *PropertyService) build(p *PropertyPayload) (*domain.Property, error) {
	payload := *p
	payload.PropertyName = strings.TrimSpace(p.PropertyName)
	payload.Location = strings.TrimSpace(p.Location)
	payload.Phone = strings.TrimSpace(p.Phone)
	payload.MapLink = trimPtr(p.MapLink)
	payload.Images = make([]PropertyImagePayload, len(p.Images))
	for i, img := range p.Images {
		img.ImageURL = strings.TrimSpace(img.ImageURL)
		payload.Images[i] = img
	}

	if err := s.validator.Struct(&payload); err != nil {
		return nil, err
	}

	phone := payload.Phone
	property := &domain.Property{
		PropertyName: payload.PropertyName,
		Location:     payload.Location,
		Phone:        &phone,
		MapLink:      payload.MapLink,
		Description:  payload.Description,
		PropertyType: payload.PropertyType,
		Furnishing:   domain.FurnishingUnfurnished,
		PrivatePrice: payload.PrivatePrice,
		SinglePrice:  payload.SinglePrice,
		DoublePrice:  payload.DoublePrice,
		TriplePrice:  payload.TriplePrice,
		ListingType:  domain.ListingTypeRent,
		IsAvailable:  true,
		Images:       make([]domain.PropertyImage, 0, len(payload.Images)),
	}
	if payload.Furnishing != nil {
		property.Furnishing = *payload.Furnishing
	}
	if payload.ListingType != nil {
		property.ListingType = *payload.ListingType
	}
	if payload.IsAvailable != nil {
		property.IsAvailable = *payload.IsAvailable
	}
	for _, img := range payload.Images {
		property.Images = append(property.Images, img.toImage())
	}
	return property, nil
}

// Update applies a partial update. Only supplied fields change.
func (s *PropertyService) Update(ctx context.Context, id uint, patch domain.PropertyPatch) (*domain.Property, error) {
	log.Printf("[PROPERTY] Update request: id=%d", id)

	patch.PropertyName = trimOptional(patch.PropertyName)
	patch.Location = trimOptional(patch.Location)
	patch.Phone = trimOptional(patch.Phone)
	patch.MapLink = trimOptional(patch.MapLink)

	if err := s.validatePropertyPatch(patch); err != nil {
		log.Printf("[PROPERTY] Update failed: validation error: %v", err)
		return nil, err
	}

	property, err := s.store.Update(ctx, id, patch)
	if err != nil {
		log.Printf("[PROPERTY] Update failed for id=%d: %v", id, err)
		return nil, err
	}

	log.Printf("[PROPERTY] Update successful: id=%d", id)
	metrics.RecordListingChange("property", "update")
	return property, nil
}

// Delete removes the property together with its images.
func (s *PropertyService) Delete(ctx context.Context, id uint) error {
	log.Printf("[PROPERTY] Delete request: id=%d", id)
	if err := s.store.Delete(ctx, id); err != nil {
		log.Printf("[PROPERTY] Delete failed for id=%d: %v", id, err)
		return err
	}
	log.Printf("[PROPERTY] Delete successful: id=%d", id)
	metrics.RecordListingChange("property", "delete")
	return nil
}

func (s *PropertyService) validatePropertyPatch(p domain.PropertyPatch) error {
	if err := requireNonNull(
		nonNull{"property_name", p.PropertyName.IsNull()},
		nonNull{"location", p.Location.IsNull()},
		nonNull{"property_type", p.PropertyType.IsNull()},
		nonNull{"furnishing", p.Furnishing.IsNull()},
		nonNull{"listing_type", p.ListingType.IsNull()},
		nonNull{"is_available", p.IsAvailable.IsNull()},
	); err != nil {
		return err
	}

	checks := []error{
		checkOptional(s.validator, "property_name", p.PropertyName, "min=1,max=150"),
		checkOptional(s.validator, "location", p.Location, "min=1,max=150"),
		checkOptional(s.validator, "phone", p.Phone, "min=10,max=15"),
		checkOptional(s.validator, "map_link", p.MapLink, "max=500,httpurl"),
		checkOptional(s.validator, "property_type", p.PropertyType, "oneof=PG 1RK 1BHK 2BHK"),
		checkOptional(s.validator, "furnishing", p.Furnishing, "oneof=fully_furnished semi_furnished unfurnished"),
		checkOptional(s.validator, "listing_type", p.ListingType, "oneof=buy rent"),
		checkOptional(s.validator, "private_price", p.PrivatePrice, "gte=0"),
		checkOptional(s.validator, "single_price", p.SinglePrice, "gte=0"),
		checkOptional(s.validator, "double_price", p.DoublePrice, "gte=0"),
		checkOptional(s.validator, "triple_price", p.TriplePrice, "gte=0"),
	}
	for _, err := range checks {
		if err != nil {
			return err
		}
	}
	return nil
}
