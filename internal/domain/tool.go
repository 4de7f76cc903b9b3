package domain

import "time"

// Tool is a priced catalog entry kept in the relational store
type Tool struct {
	ID           string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Article      *string   `json:"article" gorm:"size:50"`
	Title        string    `json:"title" gorm:"not null"`
	BaseTitle    string    `json:"-" gorm:"not null;index;uniqueIndex:unique_base_title_manufacturer"`
	Manufacturer string    `json:"manufacturer" gorm:"size:50;not null;uniqueIndex:unique_base_title_manufacturer"`
	Description  *string   `json:"description"`
	Price        float64   `json:"price"`
	Currency     string    `json:"currency" gorm:"size:5"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ToolInput is the user-supplied part of a Tool
type ToolInput struct {
	Article      *string `json:"article" binding:"omitempty,max=50"`
	Title        string  `json:"title" binding:"required"`
	Manufacturer string  `json:"manufacturer" binding:"required,max=50"`
	Description  *string `json:"description"`
	Price        float64 `json:"price" binding:"gte=0"`
	Currency     string  `json:"currency" binding:"required,max=5"`
}

// ToolBatch is a bulk create or update request
type ToolBatch struct {
	Tools []ToolInput `json:"tools" binding:"required,min=1,max=20000,dive"`
}

// ToolIDBatch is a bulk delete request
type ToolIDBatch struct {
	IDs []string `json:"ids" binding:"required,min=1,max=20000,dive,uuid"`
}

// TableName specifies the table name
func (Tool) TableName() string {
	return "tools"
}
