package models

import "time"

type Favorite struct {
	ID      int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID  string    `gorm:"type:uuid;not null;uniqueIndex:idx_favorite_user_kost" json:"user_id"`
	KostID  int64     `gorm:"not null;uniqueIndex:idx_favorite_user_kost;index" json:"kost_id"`
	AddedAt time.Time `gorm:"autoCreateTime" json:"added_at"`

	// Associations
	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;" json:"user,omitempty"`
	Kost *Kost `gorm:"foreignKey:KostID;constraint:OnDelete:CASCADE;" json:"kost,omitempty"`
}

func (Favorite) TableName() string {
	return "favorites"
}
