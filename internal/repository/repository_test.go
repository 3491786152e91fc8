package repository

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"makemystay/internal/config"
	"makemystay/internal/database"
	"makemystay/internal/domain"
	apperrors "makemystay/pkg/errors"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open(&config.DatabaseConfig{URL: "sqlite://:memory:"})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

// stepClock advances by one second on every call.
type stepClock struct {
	mu sync.Mutex
	t  time.Time
}

func newStepClock() *stepClock {
	return &stepClock{t: time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(time.Second)
	return c.t
}

func strPtr(s string) *string { return &s }

func newContact(name string, status domain.ContactStatus) *domain.Contact {
	return &domain.Contact{
		Name:    name,
		Phone:   "9876543210",
		Email:   name + "@example.com",
		Message: "Looking for a 1BHK",
		Status:  status,
	}
}

func newProperty(name string, pt domain.PropertyType) *domain.Property {
	return &domain.Property{
		PropertyName: name,
		Location:     "Koramangala, Bangalore",
		Phone:        strPtr("9876543210"),
		PropertyType: pt,
		Furnishing:   domain.FurnishingUnfurnished,
		ListingType:  domain.ListingTypeRent,
		IsAvailable:  true,
	}
}

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(newTestDB(t))

	user := &domain.User{Email: "a@b.com", PasswordHash: "hash", IsActive: true}
	require.NoError(t, repo.Create(ctx, user))
	assert.NotZero(t, user.ID)
	assert.False(t, user.CreatedAt.IsZero())

	got, err := repo.GetByEmail(ctx, "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.Equal(t, "hash", got.PasswordHash)

	err = repo.Create(ctx, &domain.User{Email: "a@b.com", PasswordHash: "other", IsActive: true})
	assert.True(t, apperrors.IsConflict(err))

	_, err = repo.GetByEmail(ctx, "missing@b.com")
	assert.True(t, apperrors.IsNotFound(err))

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestContactCRUD(t *testing.T) {
	ctx := context.Background()
	repo := NewContactRepository(newTestDB(t))

	c := newContact("asha", domain.ContactStatusNew)
	require.NoError(t, repo.Create(ctx, c))
	require.NotZero(t, c.ID)

	got, err := repo.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "asha", got.Name)
	assert.Equal(t, domain.ContactStatusNew, got.Status)

	require.NoError(t, repo.Delete(ctx, c.ID))

	_, err = repo.Get(ctx, c.ID)
	require.True(t, apperrors.IsNotFound(err))
	assert.Equal(t, "Contact with ID 1 not found", err.Error())

	assert.True(t, apperrors.IsNotFound(repo.Delete(ctx, c.ID)))
}

func TestContactPartialUpdate(t *testing.T) {
	ctx := context.Background()
	clock := newStepClock()
	repo := NewContactRepository(newTestDB(t), WithClock(clock.Now))

	c := newContact("ravi", domain.ContactStatusNew)
	require.NoError(t, repo.Create(ctx, c))

	updated, err := repo.Update(ctx, c.ID, domain.ContactPatch{Status: domain.Some(domain.ContactStatusContacted)})
	require.NoError(t, err)

	assert.Equal(t, domain.ContactStatusContacted, updated.Status)
	assert.Equal(t, c.Name, updated.Name)
	assert.Equal(t, c.Phone, updated.Phone)
	assert.Equal(t, c.Email, updated.Email)
	assert.Equal(t, c.Message, updated.Message)
	assert.True(t, updated.UpdatedAt.After(c.UpdatedAt))
	assert.True(t, updated.CreatedAt.Equal(c.CreatedAt))
}

func TestContactUpdateRejectsNull(t *testing.T) {
	ctx := context.Background()
	repo := NewContactRepository(newTestDB(t))

	c := newContact("meera", domain.ContactStatusNew)
	require.NoError(t, repo.Create(ctx, c))

	_, err := repo.Update(ctx, c.ID, domain.ContactPatch{Name: domain.Null[string]()})
	assert.True(t, apperrors.IsValidation(err))

	got, err := repo.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "meera", got.Name)
}

func TestContactUpdateMissing(t *testing.T) {
	repo := NewContactRepository(newTestDB(t))

	_, err := repo.Update(context.Background(), 99, domain.ContactPatch{Name: domain.Some("x")})
	assert.True(t, apperrors.IsNotFound(err))
}

func TestContactListFilterAndPage(t *testing.T) {
	ctx := context.Background()
	repo := NewContactRepository(newTestDB(t))

	for i, status := range []domain.ContactStatus{
		domain.ContactStatusNew, domain.ContactStatusClosed, domain.ContactStatusNew, domain.ContactStatusNew,
	} {
		require.NoError(t, repo.Create(ctx, newContact(string(rune('a'+i)), status)))
	}

	all, err := repo.List(ctx, domain.ContactFilter{}, domain.Page{})
	require.NoError(t, err)
	require.Len(t, all, 4)
	for i := 1; i < len(all); i++ {
		assert.Less(t, all[i-1].ID, all[i].ID)
	}

	status := domain.ContactStatusNew
	filtered, err := repo.List(ctx, domain.ContactFilter{Status: &status}, domain.Page{Skip: 1, Limit: 1})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "c", filtered[0].Name)

	none, err := repo.List(ctx, domain.ContactFilter{}, domain.Page{Skip: 10})
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestPropertyImagesSortedAndCascade(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	properties := NewPropertyRepository(db)
	images := NewImageRepository(db)

	p := newProperty("Sunrise PG", domain.PropertyTypePG)
	require.NoError(t, properties.Create(ctx, p))

	got, err := properties.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.NotNil(t, got.Images)
	assert.Empty(t, got.Images)

	second := &domain.PropertyImage{ImageURL: "https://cdn.example.com/2.jpg", SortOrder: 2}
	first := &domain.PropertyImage{ImageURL: "https://cdn.example.com/1.jpg", SortOrder: 1, IsPrimary: true}
	require.NoError(t, images.Create(ctx, p.ID, second))
	require.NoError(t, images.Create(ctx, p.ID, first))

	got, err = properties.Get(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, got.Images, 2)
	assert.Equal(t, first.ID, got.Images[0].ID)
	assert.Equal(t, second.ID, got.Images[1].ID)

	listed, err := images.ListForProperty(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, 1, listed[0].SortOrder)

	require.NoError(t, properties.Delete(ctx, p.ID))

	for _, id := range []uint{first.ID, second.ID} {
		_, err := images.Get(ctx, id)
		assert.True(t, apperrors.IsNotFound(err))
	}
	_, err = images.ListForProperty(ctx, p.ID)
	assert.True(t, apperrors.IsNotFound(err))

	var remaining int64
	require.NoError(t, db.Model(&domain.PropertyImage{}).Count(&remaining).Error)
	assert.Zero(t, remaining)
}

func TestForeignKeyCascadeInDatabase(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	properties := NewPropertyRepository(db)
	images := NewImageRepository(db)

	p := newProperty("Lake View", domain.PropertyTypeOneBHK)
	require.NoError(t, properties.Create(ctx, p))
	require.NoError(t, images.Create(ctx, p.ID, &domain.PropertyImage{ImageURL: "https://cdn.example.com/a.jpg"}))

	// Bypass the repository: the schema itself must cascade.
	require.NoError(t, db.Exec("DELETE FROM properties WHERE id = ?", p.ID).Error)

	var remaining int64
	require.NoError(t, db.Model(&domain.PropertyImage{}).Where("property_id = ?", p.ID).Count(&remaining).Error)
	assert.Zero(t, remaining)
}

func TestImageCreateRequiresProperty(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	images := NewImageRepository(db)

	err := images.Create(ctx, 404, &domain.PropertyImage{ImageURL: "https://cdn.example.com/x.jpg"})
	require.True(t, apperrors.IsNotFound(err))
	assert.Equal(t, "Property with ID 404 not found", err.Error())

	var count int64
	require.NoError(t, db.Model(&domain.PropertyImage{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestImageUpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	properties := NewPropertyRepository(db)
	images := NewImageRepository(db)

	p := newProperty("Green Homes", domain.PropertyTypeTwoBHK)
	require.NoError(t, properties.Create(ctx, p))
	img := &domain.PropertyImage{ImageURL: "https://cdn.example.com/a.jpg"}
	require.NoError(t, images.Create(ctx, p.ID, img))

	updated, err := images.Update(ctx, img.ID, domain.PropertyImagePatch{IsPrimary: domain.Some(true)})
	require.NoError(t, err)
	assert.True(t, updated.IsPrimary)
	assert.Equal(t, "https://cdn.example.com/a.jpg", updated.ImageURL)
	assert.Equal(t, p.ID, updated.PropertyID)

	_, err = images.Update(ctx, img.ID, domain.PropertyImagePatch{SortOrder: domain.Null[int]()})
	assert.True(t, apperrors.IsValidation(err))

	require.NoError(t, images.Delete(ctx, img.ID))
	assert.True(t, apperrors.IsNotFound(images.Delete(ctx, img.ID)))
}

func TestPropertyUpdateClearsNullableFields(t *testing.T) {
	ctx := context.Background()
	clock := newStepClock()
	repo := NewPropertyRepository(newTestDB(t), WithClock(clock.Now))

	p := newProperty("Sunrise PG", domain.PropertyTypePG)
	p.MapLink = strPtr("https://maps.example.com/sunrise")
	price := 9000.0
	p.SinglePrice = &price
	require.NoError(t, repo.Create(ctx, p))

	updated, err := repo.Update(ctx, p.ID, domain.PropertyPatch{
		MapLink:     domain.Null[string](),
		DoublePrice: domain.Some(7000.0),
		IsAvailable: domain.Some(false),
	})
	require.NoError(t, err)

	assert.Nil(t, updated.MapLink)
	require.NotNil(t, updated.SinglePrice)
	assert.Equal(t, 9000.0, *updated.SinglePrice)
	require.NotNil(t, updated.DoublePrice)
	assert.Equal(t, 7000.0, *updated.DoublePrice)
	assert.False(t, updated.IsAvailable)
	assert.Equal(t, "Sunrise PG", updated.PropertyName)
	require.NotNil(t, updated.Phone)
	assert.True(t, updated.UpdatedAt.After(p.UpdatedAt))

	_, err = repo.Update(ctx, p.ID, domain.PropertyPatch{ListingType: domain.Null[domain.ListingType]()})
	assert.True(t, apperrors.IsValidation(err))

	_, err = repo.Update(ctx, 999, domain.PropertyPatch{})
	assert.True(t, apperrors.IsNotFound(err))
}

func TestPropertyListFilters(t *testing.T) {
	ctx := context.Background()
	repo := NewPropertyRepository(newTestDB(t))

	pg := newProperty("PG One", domain.PropertyTypePG)
	flat := newProperty("Flat One", domain.PropertyTypeOneBHK)
	flat.ListingType = domain.ListingTypeBuy
	taken := newProperty("PG Two", domain.PropertyTypePG)
	taken.IsAvailable = false
	for _, p := range []*domain.Property{pg, flat, taken} {
		require.NoError(t, repo.Create(ctx, p))
	}

	pgType := domain.PropertyTypePG
	list, err := repo.List(ctx, domain.PropertyFilter{PropertyType: &pgType}, domain.Page{})
	require.NoError(t, err)
	assert.Len(t, list, 2)

	available := false
	list, err = repo.List(ctx, domain.PropertyFilter{IsAvailable: &available}, domain.Page{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "PG Two", list[0].PropertyName)
	assert.NotNil(t, list[0].Images)

	buy := domain.ListingTypeBuy
	list, err = repo.List(ctx, domain.PropertyFilter{ListingType: &buy}, domain.Page{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Flat One", list[0].PropertyName)

	list, err = repo.List(ctx, domain.PropertyFilter{}, domain.Page{Limit: 500})
	require.NoError(t, err)
	assert.Len(t, list, 3)
}

func TestCreateManyRollsBackOnFailure(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewPropertyRepository(db)

	require.NoError(t, db.Callback().Create().Before("gorm:create").Register("test:fail_images", func(tx *gorm.DB) {
		if tx.Statement.Table == "property_images" {
			_ = tx.AddError(errors.New("disk full"))
		}
	}))

	withImage := newProperty("Second", domain.PropertyTypeOneRK)
	withImage.Images = []domain.PropertyImage{{ImageURL: "https://cdn.example.com/s.jpg"}}

	err := repo.CreateMany(ctx, []domain.Property{*newProperty("First", domain.PropertyTypePG), *withImage})
	require.True(t, apperrors.IsDatabase(err))
	assert.Equal(t, "Database operation failed", apperrors.PublicMessage(err))

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestCreateManyStoresImages(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewPropertyRepository(db)

	p := newProperty("Seeded", domain.PropertyTypePG)
	p.Images = []domain.PropertyImage{
		{ImageURL: "https://cdn.example.com/2.jpg", SortOrder: 2},
		{ImageURL: "https://cdn.example.com/1.jpg", SortOrder: 1, IsPrimary: true},
	}
	batch := []domain.Property{*p, *newProperty("Plain", domain.PropertyTypeOneRK)}
	require.NoError(t, repo.CreateMany(ctx, batch))
	assert.NotZero(t, batch[0].ID)

	got, err := repo.Get(ctx, batch[0].ID)
	require.NoError(t, err)
	require.Len(t, got.Images, 2)
	assert.Equal(t, 1, got.Images[0].SortOrder)
	assert.True(t, got.Images[0].IsPrimary)

	latest, err := repo.Latest(ctx, 5)
	require.NoError(t, err)
	require.Len(t, latest, 2)
	assert.Equal(t, "Plain", latest[0].PropertyName)
}

func TestCreateRollsBackOnFailure(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewContactRepository(db)

	require.NoError(t, db.Callback().Create().After("gorm:create").Register("test:fail_after_insert", func(tx *gorm.DB) {
		if tx.Statement.Table == "contacts" {
			_ = tx.AddError(errors.New("constraint check failed"))
		}
	}))

	err := repo.Create(ctx, newContact("lost", domain.ContactStatusNew))
	require.True(t, apperrors.IsDatabase(err))

	var count int64
	require.NoError(t, db.Model(&domain.Contact{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestPropertyDeleteRollsBackOnFailure(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewPropertyRepository(db)

	p := newProperty("Keeps Images", domain.PropertyTypePG)
	p.Images = []domain.PropertyImage{
		{ImageURL: "https://cdn.example.com/1.jpg", SortOrder: 1},
		{ImageURL: "https://cdn.example.com/2.jpg", SortOrder: 2},
	}
	require.NoError(t, repo.Create(ctx, p))

	require.NoError(t, db.Callback().Delete().After("gorm:delete").Register("test:fail_property_delete", func(tx *gorm.DB) {
		if tx.Statement.Table == "properties" {
			_ = tx.AddError(errors.New("lock timeout"))
		}
	}))

	err := repo.Delete(ctx, p.ID)
	require.True(t, apperrors.IsDatabase(err))

	got, err := repo.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, got.Images, 2)

	var images int64
	require.NoError(t, db.Model(&domain.PropertyImage{}).Where("property_id = ?", p.ID).Count(&images).Error)
	assert.EqualValues(t, 2, images)
}

func TestContactUpdateRollsBackOnFailure(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewContactRepository(db)

	contact := newContact("steady", domain.ContactStatusNew)
	require.NoError(t, repo.Create(ctx, contact))

	require.NoError(t, db.Callback().Update().After("gorm:update").Register("test:fail_contact_update", func(tx *gorm.DB) {
		if tx.Statement.Table == "contacts" {
			_ = tx.AddError(errors.New("serialization failure"))
		}
	}))

	_, err := repo.Update(ctx, contact.ID, domain.ContactPatch{
		Name:   domain.Some("changed"),
		Status: domain.Some(domain.ContactStatusClosed),
	})
	require.True(t, apperrors.IsDatabase(err))

	got, err := repo.Get(ctx, contact.ID)
	require.NoError(t, err)
	assert.Equal(t, "steady", got.Name)
	assert.Equal(t, domain.ContactStatusNew, got.Status)
	assert.Equal(t, contact.UpdatedAt.Unix(), got.UpdatedAt.Unix())
}

func TestUserCreateMapsDuplicateKeyToConflict(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewUserRepository(db)

	// A concurrent signup can pass the email check and lose the race on the
	// unique index; drivers report that as gorm.ErrDuplicatedKey.
	require.NoError(t, db.Callback().Create().Before("gorm:create").Register("test:duplicate_key", func(tx *gorm.DB) {
		if tx.Statement.Table == "users" {
			_ = tx.AddError(gorm.ErrDuplicatedKey)
		}
	}))

	err := repo.Create(ctx, &domain.User{Email: "race@example.com", PasswordHash: "x", IsActive: true})
	require.True(t, apperrors.IsConflict(err))
	assert.Equal(t, EmailTakenMessage, apperrors.PublicMessage(err))

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}
