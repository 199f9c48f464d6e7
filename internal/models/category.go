// internal/models/category.go
package models

type Category struct {
	BaseModel
	Name     string `json:"name" gorm:"uniqueIndex;size:100;not null"`
	Image    string `json:"image" gorm:"size:500"`
	Priority int    `json:"priority" gorm:"default:0"`
	IsActive bool   `json:"is_active" gorm:"default:true"`
}
