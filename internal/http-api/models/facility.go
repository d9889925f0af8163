package models

// Facility is an amenity tag attached to a kost (e.g. "WiFi", "AC").
type Facility struct {
	ID   int64  `json:"id" gorm:"primaryKey;autoIncrement"`
	Name string `json:"name" gorm:"uniqueIndex;not null"`
}

func (Facility) TableName() string {
	return "facilities"
}
