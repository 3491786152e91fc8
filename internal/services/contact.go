package services

import (
	"context"
	"log"
	"strings"

	"makemystay/internal/domain"
	"makemystay/internal/metrics"
)

// ContactStore persists contact leads.
type ContactStore interface {
	List(ctx context.Context, filter domain.ContactFilter, page domain.Page) ([]domain.Contact, error)
	Get(ctx context.Context, id uint) (*domain.Contact, error)
	Create(ctx context.Context, contact *domain.Contact) error
	Update(ctx context.Context, id uint, patch domain.ContactPatch) (*domain.Contact, error)
	Delete(ctx context.Context, id uint) error
}

// ContactPayload is the body of a contact creation request.
type ContactPayload struct {
	Name    string                `json:"name" validate:"required,min=1,max=100"`
	Phone   string                `json:"phone" validate:"required,min=10,max=15"`
	Email   string                `json:"email" validate:"required,email,max=150"`
	Message string                `json:"message" validate:"max=250"`
	Status  *domain.ContactStatus `json:"status" validate:"omitnil,oneof=new contacted closed"`
}

// ContactService implements the contact service
type ContactService struct {
	store     ContactStore
	validator *Validator
	notifier  Notifier
}

// NewContactService creates a new contact service
func NewContactService(store ContactStore, validator *Validator, notifier Notifier) *ContactService {
	return &ContactService{
		store:     store,
		validator: validator,
		notifier:  notifier,
	}
}

func (s *ContactService) List(ctx context.Context, filter domain.ContactFilter, page domain.Page) ([]domain.Contact, error) {
	page = page.Normalize()
	log.Printf("[CONTACT] List request: skip=%d, limit=%d", page.Skip, page.Limit)

	contacts, err := s.store.List(ctx, filter, page)
	if err != nil {
		log.Printf("[CONTACT] List failed: %v", err)
		return nil, err
	}

	log.Printf("[CONTACT] List successful: returned %d contacts", len(contacts))
	return contacts, nil
}

func (s *ContactService) Get(ctx context.Context, id uint) (*domain.Contact, error) {
	return s.store.Get(ctx, id)
}

// Create stores a new lead and notifies staff in the background.
func (s *ContactService) Create(ctx context.Context, p *ContactPayload) (*domain.Contact, error) {
	payload := ContactPayload{
		Name:    strings.TrimSpace(p.Name),
		Phone:   strings.TrimSpace(p.Phone),
		Email:   normalizeEmail(p.Email),
		Message: strings.TrimSpace(p.Message),
		Status:  p.Status,
	}
	log.Printf("[CONTACT] Create request: name=%s, email=%s", payload.Name, payload.Email)

	if err := s.validator.Struct(&payload); err != nil {
		log.Printf("[CONTACT] Create failed: validation error: %v", err)
		return nil, err
	}

	contact := &domain.Contact{
		Name:    payload.Name,
		Phone:   payload.Phone,
		Email:   payload.Email,
		Message: payload.Message,
		Status:  domain.ContactStatusNew,
	}
	if payload.Status != nil {
		contact.Status = *payload.Status
	}

	if err := s.store.Create(ctx, contact); err != nil {
		log.Printf("[CONTACT] Create failed: %v", err)
		return nil, err
	}

	log.Printf("[CONTACT] Create successful: id=%d, name=%s, email=%s", contact.ID, contact.Name, contact.Email)
	metrics.RecordContactSubmission()

	if s.notifier != nil {
		go s.notifier.NotifyNewContact(*contact)
	}

	return contact, nil
}

// Update applies a partial update. Only supplied fields change.
func (s *ContactService) Update(ctx context.Context, id uint, patch domain.ContactPatch) (*domain.Contact, error) {
	log.Printf("[CONTACT] Update request: id=%d", id)

	patch.Name = trimOptional(patch.Name)
	patch.Phone = trimOptional(patch.Phone)
	patch.Message = trimOptional(patch.Message)
	if patch.Email.Value != nil {
		patch.Email = domain.Some(normalizeEmail(*patch.Email.Value))
	}

	if err := s.validateContactPatch(patch); err != nil {
		log.Printf("[CONTACT] Update failed: validation error: %v", err)
		return nil, err
	}

	contact, err := s.store.Update(ctx, id, patch)
	if err != nil {
		log.Printf("[CONTACT] Update failed for id=%d: %v", id, err)
		return nil, err
	}

	log.Printf("[CONTACT] Update successful: id=%d", id)
	return contact, nil
}

func (s *ContactService) Delete(ctx context.Context, id uint) error {
	log.Printf("[CONTACT] Delete request: id=%d", id)
	if err := s.store.Delete(ctx, id); err != nil {
		log.Printf("[CONTACT] Delete failed for id=%d: %v", id, err)
		return err
	}
	log.Printf("[CONTACT] Delete successful: id=%d", id)
	return nil
}

func (s *ContactService) validateContactPatch(p domain.ContactPatch) error {
	if err := requireNonNull(
		nonNull{"name", p.Name.IsNull()},
		nonNull{"phone", p.Phone.IsNull()},
		nonNull{"email", p.Email.IsNull()},
		nonNull{"message", p.Message.IsNull()},
		nonNull{"status", p.Status.IsNull()},
	); err != nil {
		return err
	}
	if err := checkOptional(s.validator, "name", p.Name, "min=1,max=100"); err != nil {
		return err
	}
	if err := checkOptional(s.validator, "phone", p.Phone, "min=10,max=15"); err != nil {
		return err
	}
	if err := checkOptional(s.validator, "email", p.Email, "email,max=150"); err != nil {
		return err
	}
	if err := checkOptional(s.validator, "message", p.Message, "max=250"); err != nil {
		return err
	}
	return checkOptional(s.validator, "status", p.Status, "oneof=new contacted closed")
}
