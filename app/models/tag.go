package models

// Tag is a vibe chip shown on venue cards ("Bailable", "Terraza", ...).
type Tag struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"type:varchar(40);not null;uniqueIndex" json:"name" validate:"required,max=40"`
}
