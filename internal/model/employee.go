package model

import "time"

// Employee is the directory record supplied by the employee store. The core
// treats its id as an opaque string; only department lookups feed rollups.
type Employee struct {
	ID         string    `json:"id" gorm:"primaryKey"`
	Fullname   string    `json:"fullname"`
	Email      string    `json:"email,omitempty"`
	Position   string    `json:"position,omitempty"`
	Department string    `json:"department,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
