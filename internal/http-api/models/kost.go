package models

import "time"

// Kost types as the product defines them.
const (
	TypePutra     = "putra"
	TypePutri     = "putri"
	TypeCampur    = "campur"
	TypeExclusive = "exclusive"
)

// ValidType reports whether t is one of the allowed kost types.
func ValidType(t string) bool {
	switch t {
	case TypePutra, TypePutri, TypeCampur, TypeExclusive:
		return true
	}
	return false
}

type Kost struct {
	ID          int64    `json:"_id" gorm:"primaryKey;autoIncrement"`
	Title       string   `json:"title" gorm:"not null;index"`
	Location    string   `json:"location" gorm:"not null;index"`
	Price       int64    `json:"price" gorm:"not null;check:price >= 0;index"`
	Type        string   `json:"type" gorm:"not null;index"`
	Description string   `json:"description"`
	Images      []string `json:"images" gorm:"serializer:json"`
	Latitude    float64  `json:"latitude"`
	Longitude   float64  `json:"longitude"`
	Phone       string   `json:"phone"`
	OwnerName   string   `json:"owner_name"`

	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"autoUpdateTime"`

	// association
	Facilities []Facility `json:"-" gorm:"many2many:kost_facilities;constraint:OnDelete:CASCADE;"`
}

// FacilityNames flattens the association for JSON responses.
func (k *Kost) FacilityNames() []string {
	names := make([]string, 0, len(k.Facilities))
	for _, f := range k.Facilities {
		names = append(names, f.Name)
	}
	return names
}

func (Kost) TableName() string {
	return "kosts"
}
