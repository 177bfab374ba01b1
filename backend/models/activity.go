package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ActivityType string

const (
	ActivityEnrollment        ActivityType = "enrollment"
	ActivityLectureCompletion ActivityType = "lecture_completion"
	ActivityCourseCompletion  ActivityType = "course_completion"
	ActivityReview            ActivityType = "review"
	ActivityCourseCreated     ActivityType = "course_created"
)

// Activity is an append-only event in an instructor's feed. Only IsRead is
// ever mutated after creation.
type Activity struct {
	gorm.Model
	Type         ActivityType   `gorm:"type:varchar(50);index" json:"type"`
	ActorID      uint           `json:"actor_id"`
	CourseID     uint           `gorm:"index" json:"course_id"`
	LectureID    *uint          `json:"lecture_id,omitempty"`
	InstructorID uint           `gorm:"index" json:"instructor_id"`
	Description  string         `gorm:"type:text" json:"description"`
	Metadata     datatypes.JSON `json:"metadata,omitempty"`
	IsRead       bool           `gorm:"default:false" json:"is_read"`
}
