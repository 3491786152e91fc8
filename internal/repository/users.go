package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"makemystay/internal/domain"
	apperrors "makemystay/pkg/errors"
)

// EmailTakenMessage is returned when signing up with a registered email.
const EmailTakenMessage = "Email already registered"

// UserRepository stores credentials.
type UserRepository struct {
	base
}

func NewUserRepository(db *gorm.DB, opts ...Option) *UserRepository {
	return &UserRepository{base: newBase(db, opts)}
}

// Create inserts user. A registered email yields a Conflict error.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	return r.transaction(ctx, "users.create", func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&domain.User{}).Where("email = ?", user.Email).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return apperrors.Conflict(EmailTakenMessage)
		}
		if user.CreatedAt.IsZero() {
			user.CreatedAt = r.now()
		}
		// The unique index still guards against a concurrent signup that
		// passed the check above.
		if err := tx.Create(user).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperrors.Conflict(EmailTakenMessage)
			}
			return err
		}
		return nil
	})
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	err := r.read(ctx, "users.get_by_email", func(db *gorm.DB) error {
		err := db.Where("email = ?", email).First(&user).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.New(apperrors.ErrCodeNotFound, "User not found")
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Count returns the number of stored users.
func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.read(ctx, "users.count", func(db *gorm.DB) error {
		return db.Model(&domain.User{}).Count(&count).Error
	})
	return count, err
}
