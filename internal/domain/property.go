package domain

import (
	"time"
)

type PropertyType string

const (
	PropertyTypePG     PropertyType = "PG"
	PropertyTypeOneRK  PropertyType = "1RK"
	PropertyTypeOneBHK PropertyType = "1BHK"
	PropertyTypeTwoBHK PropertyType = "2BHK"
)

func (t PropertyType) Valid() bool {
	switch t {
	case PropertyTypePG, PropertyTypeOneRK, PropertyTypeOneBHK, PropertyTypeTwoBHK:
		return true
	}
	return false
}

type Furnishing string

const (
	FurnishingFully       Furnishing = "fully_furnished"
	FurnishingSemi        Furnishing = "semi_furnished"
	FurnishingUnfurnished Furnishing = "unfurnished"
)

func (f Furnishing) Valid() bool {
	switch f {
	case FurnishingFully, FurnishingSemi, FurnishingUnfurnished:
		return true
	}
	return false
}

type ListingType string

const (
	ListingTypeBuy  ListingType = "buy"
	ListingTypeRent ListingType = "rent"
)

func (l ListingType) Valid() bool {
	return l == ListingTypeBuy || l == ListingTypeRent
}

// Property is a listing. The four price columns are free-form: PG listings
// use the single/double/triple occupancy tiers, 1RK/1BHK/2BHK use private.
type Property struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	PropertyName string          `gorm:"size:150;not null" json:"property_name"`
	Location     string          `gorm:"size:150;not null" json:"location"`
	Phone        *string         `gorm:"size:15" json:"phone"`
	MapLink      *string         `gorm:"size:500" json:"map_link"`
	Description  *string         `gorm:"type:text" json:"description"`
	PropertyType PropertyType    `gorm:"size:10;not null;index" json:"property_type"`
	Furnishing   Furnishing      `gorm:"size:20;not null" json:"furnishing"`
	PrivatePrice *float64        `json:"private_price"`
	SinglePrice  *float64        `json:"single_price"`
	DoublePrice  *float64        `json:"double_price"`
	TriplePrice  *float64        `json:"triple_price"`
	ListingType  ListingType     `gorm:"size:10;not null;index" json:"listing_type"`
	IsAvailable  bool            `gorm:"not null;index" json:"is_available"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	Images       []PropertyImage `gorm:"foreignKey:PropertyID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"images"`
}

// PropertyImage belongs to exactly one Property and is deleted with it.
type PropertyImage struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	PropertyID uint      `gorm:"not null;index" json:"property_id"`
	ImageURL   string    `gorm:"size:500;not null" json:"image_url"`
	IsPrimary  bool      `gorm:"not null" json:"is_primary"`
	SortOrder  int       `gorm:"not null;index" json:"sort_order"`
	CreatedAt  time.Time `gorm:"not null" json:"created_at"`
}

// PropertyPatch carries a partial update. Phone, MapLink, Description and
// the prices may be explicitly cleared with null.
type PropertyPatch struct {
	PropertyName Optional[string]       `json:"property_name"`
	Location     Optional[string]       `json:"location"`
	Phone        Optional[string]       `json:"phone"`
	MapLink      Optional[string]       `json:"map_link"`
	Description  Optional[string]       `json:"description"`
	PropertyType Optional[PropertyType] `json:"property_type"`
	Furnishing   Optional[Furnishing]   `json:"furnishing"`
	PrivatePrice Optional[float64]      `json:"private_price"`
	SinglePrice  Optional[float64]      `json:"single_price"`
	DoublePrice  Optional[float64]      `json:"double_price"`
	TriplePrice  Optional[float64]      `json:"triple_price"`
	ListingType  Optional[ListingType]  `json:"listing_type"`
	IsAvailable  Optional[bool]         `json:"is_available"`
}

type PropertyImagePatch struct {
	ImageURL  Optional[string] `json:"image_url"`
	IsPrimary Optional[bool]   `json:"is_primary"`
	SortOrder Optional[int]    `json:"sort_order"`
}

// PropertyFilter narrows a property listing; nil fields do not filter.
type PropertyFilter struct {
	PropertyType *PropertyType
	ListingType  *ListingType
	IsAvailable  *bool
}
