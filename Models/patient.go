package Models

import "gorm.io/gorm"

type Patient struct {
	gorm.Model
	Name      string `json:"name" gorm:"not null;uniqueIndex"`
	Age       int    `json:"age"`
	Mobile    string `json:"mobile"`
	Gender    string `json:"gender"`
	IsDeleted bool   `json:"is_deleted" gorm:"default:false"`
}
