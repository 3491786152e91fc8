package repository

import (
	"context"

	"gorm.io/gorm"

	"makemystay/internal/domain"
)

// ContactRepository stores contact leads.
type ContactRepository struct {
	base
}

func NewContactRepository(db *gorm.DB, opts ...Option) *ContactRepository {
	return &ContactRepository{base: newBase(db, opts)}
}

// List returns contacts in id order.
func (r *ContactRepository) List(ctx context.Context, filter domain.ContactFilter, page domain.Page) ([]domain.Contact, error) {
	page = page.Normalize()
	contacts := []domain.Contact{}
	err := r.read(ctx, "contacts.list", func(db *gorm.DB) error {
		q := db.Model(&domain.Contact{})
		if filter.Status != nil {
			q = q.Where("status = ?", string(*filter.Status))
		}
		return q.Order("id ASC").Offset(page.Skip).Limit(page.Limit).Find(&contacts).Error
	})
	if err != nil {
		return nil, err
	}
	return contacts, nil
}

func (r *ContactRepository) Get(ctx context.Context, id uint) (*domain.Contact, error) {
	var contact domain.Contact
	err := r.read(ctx, "contacts.get", func(db *gorm.DB) error {
		return notFound(db.First(&contact, id).Error, "Contact", id)
	})
	if err != nil {
		return nil, err
	}
	return &contact, nil
}

// Create inserts contact and fills in its id and timestamps.
func (r *ContactRepository) Create(ctx context.Context, contact *domain.Contact) error {
	return r.transaction(ctx, "contacts.create", func(tx *gorm.DB) error {
		now := r.now()
		contact.ID = 0
		contact.CreatedAt = now
		contact.UpdatedAt = now
		return tx.Create(contact).Error
	})
}

// Update applies the set fields of patch and refreshes updated_at.
func (r *ContactRepository) Update(ctx context.Context, id uint, patch domain.ContactPatch) (*domain.Contact, error) {
	var contact domain.Contact
	err := r.transaction(ctx, "contacts.update", func(tx *gorm.DB) error {
		if err := tx.First(&contact, id).Error; err != nil {
			return notFound(err, "Contact", id)
		}

		updates, err := contactUpdates(patch)
		if err != nil {
			return err
		}
		updates["updated_at"] = r.now()

		if err := tx.Model(&domain.Contact{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return err
		}
		return tx.First(&contact, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &contact, nil
}

func (r *ContactRepository) Delete(ctx context.Context, id uint) error {
	return r.transaction(ctx, "contacts.delete", func(tx *gorm.DB) error {
		res := tx.Delete(&domain.Contact{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return notFound(gorm.ErrRecordNotFound, "Contact", id)
		}
		return nil
	})
}

func contactUpdates(p domain.ContactPatch) (map[string]interface{}, error) {
	updates := map[string]interface{}{}
	for _, f := range []struct {
		column string
		value  domain.Optional[string]
	}{
		{"name", p.Name},
		{"phone", p.Phone},
		{"email", p.Email},
		{"message", p.Message},
	} {
		if !f.value.Set {
			continue
		}
		if f.value.Value == nil {
			return nil, nullNotAllowed(f.column)
		}
		updates[f.column] = *f.value.Value
	}
	if p.Status.Set {
		if p.Status.Value == nil {
			return nil, nullNotAllowed("status")
		}
		updates["status"] = string(*p.Status.Value)
	}
	return updates, nil
}
