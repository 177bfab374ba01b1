package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	RoleStudent    = "student"
	RoleInstructor = "instructor"
	RoleAdmin      = "admin"
)

type User struct {
	gorm.Model
	Name         string `gorm:"not null" json:"name"`
	Email        string `gorm:"unique;not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`
	Role         string `gorm:"default:student" json:"role"` // student, instructor, admin
	Blocked      bool   `gorm:"default:false" json:"blocked"`
}

// Enrollment ties a student to a course. Duplicates are guarded by an
// application-level pre-check, not a uniqueness constraint.
type Enrollment struct {
	gorm.Model
	UserID   uint `gorm:"index" json:"user_id"`
	CourseID uint `gorm:"index" json:"course_id"`

	User   User   `gorm:"foreignKey:UserID" json:"-"`
	Course Course `gorm:"foreignKey:CourseID" json:"-"`
}

// CourseProgress is a user's completion record for one course: the set of
// lectures they have finished plus the fully-completed flag.
type CourseProgress struct {
	gorm.Model
	UserID      uint       `gorm:"index" json:"user_id"`
	CourseID    uint       `gorm:"index" json:"course_id"`
	Completed   bool       `gorm:"default:false" json:"completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	Lectures []CompletedLecture `gorm:"foreignKey:ProgressID;constraint:OnDelete:CASCADE" json:"lectures,omitempty"`
}

type CompletedLecture struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	ProgressID uint      `gorm:"index" json:"progress_id"`
	LectureID  uint      `json:"lecture_id"`
	CreatedAt  time.Time `json:"created_at"`
}
