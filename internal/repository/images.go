package repository

import (
	"context"

	"gorm.io/gorm"

	"makemystay/internal/domain"
)

// ImageRepository stores property images. An image never outlives its property.
type ImageRepository struct {
	base
}

func NewImageRepository(db *gorm.DB, opts ...Option) *ImageRepository {
	return &ImageRepository{base: newBase(db, opts)}
}

func propertyExists(db *gorm.DB, propertyID uint) error {
	return notFound(db.Select("id").First(&domain.Property{}, propertyID).Error, "Property", propertyID)
}

// ListForProperty returns the property's images ordered by sort_order.
func (r *ImageRepository) ListForProperty(ctx context.Context, propertyID uint) ([]domain.PropertyImage, error) {
	images := []domain.PropertyImage{}
	err := r.read(ctx, "images.list", func(db *gorm.DB) error {
		if err := propertyExists(db, propertyID); err != nil {
			return err
		}
		return db.Where("property_id = ?", propertyID).Order("sort_order ASC, id ASC").Find(&images).Error
	})
	if err != nil {
		return nil, err
	}
	return images, nil
}

func (r *ImageRepository) Get(ctx context.Context, id uint) (*domain.PropertyImage, error) {
	var image domain.PropertyImage
	err := r.read(ctx, "images.get", func(db *gorm.DB) error {
		return notFound(db.First(&image, id).Error, "Image", id)
	})
	if err != nil {
		return nil, err
	}
	return &image, nil
}

// Create attaches image to an existing property.
func (r *ImageRepository) Create(ctx context.Context, propertyID uint, image *domain.PropertyImage) error {
	return r.transaction(ctx, "images.create", func(tx *gorm.DB) error {
		if err := propertyExists(tx, propertyID); err != nil {
			return err
		}
		image.ID = 0
		image.PropertyID = propertyID
		image.CreatedAt = r.now()
		return tx.Create(image).Error
	})
}

// Update applies the set fields of patch.
func (r *ImageRepository) Update(ctx context.Context, id uint, patch domain.PropertyImagePatch) (*domain.PropertyImage, error) {
	var image domain.PropertyImage
	err := r.transaction(ctx, "images.update", func(tx *gorm.DB) error {
		if err := tx.First(&image, id).Error; err != nil {
			return notFound(err, "Image", id)
		}

		updates, err := imageUpdates(patch)
		if err != nil {
			return err
		}
		if len(updates) == 0 {
			return nil
		}

		if err := tx.Model(&domain.PropertyImage{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return err
		}
		return tx.First(&image, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &image, nil
}

func (r *ImageRepository) Delete(ctx context.Context, id uint) error {
	return r.transaction(ctx, "images.delete", func(tx *gorm.DB) error {
		res := tx.Delete(&domain.PropertyImage{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return notFound(gorm.ErrRecordNotFound, "Image", id)
		}
		return nil
	})
}

func imageUpdates(p domain.PropertyImagePatch) (map[string]interface{}, error) {
	updates := map[string]interface{}{}
	if p.ImageURL.Set {
		if p.ImageURL.Value == nil {
			return nil, nullNotAllowed("image_url")
		}
		updates["image_url"] = *p.ImageURL.Value
	}
	if p.IsPrimary.Set {
		if p.IsPrimary.Value == nil {
			return nil, nullNotAllowed("is_primary")
		}
		updates["is_primary"] = *p.IsPrimary.Value
	}
	if p.SortOrder.Set {
		if p.SortOrder.Value == nil {
			return nil, nullNotAllowed("sort_order")
		}
		updates["sort_order"] = *p.SortOrder.Value
	}
	return updates, nil
}
