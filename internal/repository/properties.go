package repository

import (
	"context"

	"gorm.io/gorm"

	"makemystay/internal/domain"
)

// PropertyRepository stores listings together with their images.
type PropertyRepository struct {
	base
}

func NewPropertyRepository(db *gorm.DB, opts ...Option) *PropertyRepository {
	return &PropertyRepository{base: newBase(db, opts)}
}

// preloadImages loads a property's images in display order.
func preloadImages(db *gorm.DB) *gorm.DB {
	return db.Preload("Images", func(db *gorm.DB) *gorm.DB {
		return db.Order("sort_order ASC, id ASC")
	})
}

// List returns properties in id order with their images loaded.
func (r *PropertyRepository) List(ctx context.Context, filter domain.PropertyFilter, page domain.Page) ([]domain.Property, error) {
	page = page.Normalize()
	properties := []domain.Property{}
	err := r.read(ctx, "properties.list", func(db *gorm.DB) error {
		q := preloadImages(db.Model(&domain.Property{}))
		if filter.PropertyType != nil {
			q = q.Where("property_type = ?", string(*filter.PropertyType))
		}
		if filter.ListingType != nil {
			q = q.Where("listing_type = ?", string(*filter.ListingType))
		}
		if filter.IsAvailable != nil {
			q = q.Where("is_available = ?", *filter.IsAvailable)
		}
		return q.Order("id ASC").Offset(page.Skip).Limit(page.Limit).Find(&properties).Error
	})
	if err != nil {
		return nil, err
	}
	for i := range properties {
		ensureImages(&properties[i])
	}
	return properties, nil
}

func (r *PropertyRepository) Get(ctx context.Context, id uint) (*domain.Property, error) {
	var property domain.Property
	err := r.read(ctx, "properties.get", func(db *gorm.DB) error {
		return notFound(preloadImages(db).First(&property, id).Error, "Property", id)
	})
	if err != nil {
		return nil, err
	}
	ensureImages(&property)
	return &property, nil
}

// Create inserts property and any images it carries.
func (r *PropertyRepository) Create(ctx context.Context, property *domain.Property) error {
	return r.transaction(ctx, "properties.create", func(tx *gorm.DB) error {
		return r.insert(tx, property)
	})
}

// CreateMany inserts all properties, with their images, in one transaction.
// Nothing is stored if any insert fails.
func (r *PropertyRepository) CreateMany(ctx context.Context, properties []domain.Property) error {
	return r.transaction(ctx, "properties.create_many", func(tx *gorm.DB) error {
		for i := range properties {
			if err := r.insert(tx, &properties[i]); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *PropertyRepository) insert(tx *gorm.DB, property *domain.Property) error {
	now := r.now()
	property.ID = 0
	property.CreatedAt = now
	property.UpdatedAt = now
	for i := range property.Images {
		property.Images[i].ID = 0
		property.Images[i].PropertyID = 0
		property.Images[i].CreatedAt = now
	}
	if err := tx.Create(property).Error; err != nil {
		return err
	}
	ensureImages(property)
	return nil
}

// Update applies the set fields of patch and refreshes updated_at.
func (r *PropertyRepository) Update(ctx context.Context, id uint, patch domain.PropertyPatch) (*domain.Property, error) {
	var property domain.Property
	err := r.transaction(ctx, "properties.update", func(tx *gorm.DB) error {
		if err := tx.Select("id").First(&domain.Property{}, id).Error; err != nil {
			return notFound(err, "Property", id)
		}

		updates, err := propertyUpdates(patch)
		if err != nil {
			return err
		}
		updates["updated_at"] = r.now()

		if err := tx.Model(&domain.Property{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return err
		}
		return preloadImages(tx).First(&property, id).Error
	})
	if err != nil {
		return nil, err
	}
	ensureImages(&property)
	return &property, nil
}

// Delete removes the property and all of its images.
func (r *PropertyRepository) Delete(ctx context.Context, id uint) error {
	return r.transaction(ctx, "properties.delete", func(tx *gorm.DB) error {
		if err := tx.Select("id").First(&domain.Property{}, id).Error; err != nil {
			return notFound(err, "Property", id)
		}
		if err := tx.Where("property_id = ?", id).Delete(&domain.PropertyImage{}).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.Property{}, id).Error
	})
}

// Count returns the number of stored properties.
func (r *PropertyRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.read(ctx, "properties.count", func(db *gorm.DB) error {
		return db.Model(&domain.Property{}).Count(&count).Error
	})
	return count, err
}

// Latest returns up to n properties, newest id first.
func (r *PropertyRepository) Latest(ctx context.Context, n int) ([]domain.Property, error) {
	properties := []domain.Property{}
	err := r.read(ctx, "properties.latest", func(db *gorm.DB) error {
		return db.Order("id DESC").Limit(n).Find(&properties).Error
	})
	if err != nil {
		return nil, err
	}
	return properties, nil
}

// ensureImages keeps an empty image list from encoding as null.
func ensureImages(p *domain.Property) {
	if p.Images == nil {
		p.Images = []domain.PropertyImage{}
	}
}

func propertyUpdates(p domain.PropertyPatch) (map[string]interface{}, error) {
	updates := map[string]interface{}{}

	required := []struct {
		column string
		value  domain.Optional[string]
	}{
		{"property_name", p.PropertyName},
		{"location", p.Location},
	}
	for _, f := range required {
		if !f.value.Set {
			continue
		}
		if f.value.Value == nil {
			return nil, nullNotAllowed(f.column)
		}
		updates[f.column] = *f.value.Value
	}

	for _, f := range []struct {
		column string
		value  domain.Optional[string]
	}{
		{"phone", p.Phone},
		{"map_link", p.MapLink},
		{"description", p.Description},
	} {
		if f.value.Set {
			updates[f.column] = nullableString(f.value)
		}
	}

	for _, f := range []struct {
		column string
		value  domain.Optional[float64]
	}{
		{"private_price", p.PrivatePrice},
		{"single_price", p.SinglePrice},
		{"double_price", p.DoublePrice},
		{"triple_price", p.TriplePrice},
	} {
		if f.value.Set {
			updates[f.column] = nullableFloat(f.value)
		}
	}

	if p.PropertyType.Set {
		if p.PropertyType.Value == nil {
			return nil, nullNotAllowed("property_type")
		}
		updates["property_type"] = string(*p.PropertyType.Value)
	}
	if p.Furnishing.Set {
		if p.Furnishing.Value == nil {
			return nil, nullNotAllowed("furnishing")
		}
		updates["furnishing"] = string(*p.Furnishing.Value)
	}
	if p.ListingType.Set {
		if p.ListingType.Value == nil {
			return nil, nullNotAllowed("listing_type")
		}
		updates["listing_type"] = string(*p.ListingType.Value)
	}
	if p.IsAvailable.Set {
		if p.IsAvailable.Value == nil {
			return nil, nullNotAllowed("is_available")
		}
		updates["is_available"] = *p.IsAvailable.Value
	}

	return updates, nil
}

func nullableString(o domain.Optional[string]) interface{} {
	if o.Value == nil {
		return nil
	}
	return *o.Value
}

func nullableFloat(o domain.Optional[float64]) interface{} {
	if o.Value == nil {
		return nil
	}
	return *o.Value
}
