package domain

import (
	"time"
)

// ContactStatus tracks how far a lead has been followed up
type ContactStatus string

const (
	ContactStatusNew       ContactStatus = "new"
	ContactStatusContacted ContactStatus = "contacted"
	ContactStatusClosed    ContactStatus = "closed"
)

func (s ContactStatus) Valid() bool {
	switch s {
	case ContactStatusNew, ContactStatusContacted, ContactStatusClosed:
		return true
	}
	return false
}

// Contact represents a lead submitted through the contact form
type Contact struct {
	ID        uint          `gorm:"primaryKey" json:"id"`
	Name      string        `gorm:"size:100;not null" json:"name"`
	Phone     string        `gorm:"size:15;not null" json:"phone"`
	Email     string        `gorm:"size:150;not null" json:"email"`
	Message   string        `gorm:"size:250;not null" json:"message"`
	Status    ContactStatus `gorm:"size:20;not null;index" json:"status"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// ContactPatch carries a partial update; unset fields are left untouched.
type ContactPatch struct {
	Name    Optional[string]        `json:"name"`
	Phone   Optional[string]        `json:"phone"`
	Email   Optional[string]        `json:"email"`
	Message Optional[string]        `json:"message"`
	Status  Optional[ContactStatus] `json:"status"`
}

// ContactFilter narrows a contact listing
type ContactFilter struct {
	Status *ContactStatus
}
