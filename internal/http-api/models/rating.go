package models

import "time"

type Rating struct {
	ID     int64  `json:"_id" gorm:"primaryKey;autoIncrement"`
	UserID string `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_rating_user_kost"`
	KostID int64  `json:"kost_id" gorm:"not null;uniqueIndex:idx_rating_user_kost;index"`
	Rating int    `json:"rating" gorm:"not null;check:rating >= 1 AND rating <= 5"`
	Review string `json:"review" gorm:"not null"`

	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`

	// Associations
	User User `json:"user,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;"`
	Kost Kost `json:"kost,omitempty" gorm:"foreignKey:KostID;constraint:OnDelete:CASCADE;"`
}

func (Rating) TableName() string {
	return "ratings"
}
