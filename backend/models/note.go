package models

import "gorm.io/gorm"

// Note holds one user's free-text notes for one course, upserted on save.
type Note struct {
	gorm.Model
	UserID   uint   `gorm:"index" json:"user_id"`
	CourseID uint   `gorm:"index" json:"course_id"`
	Content  string `gorm:"type:text" json:"content"`
}
