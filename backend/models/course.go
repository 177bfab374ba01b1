package models

import (
	"math"
	"time"

	"gorm.io/gorm"
)

type Course struct {
	gorm.Model
	Title       string  `gorm:"not null" json:"title"`
	Description string  `gorm:"type:text" json:"description"`
	Category    string  `gorm:"index" json:"category"`
	Price       float64 `gorm:"default:0" json:"price"`
	Thumbnail   string  `json:"thumbnail"`
	CreatorID   uint    `gorm:"index" json:"creator_id"`

	// Derived from the reviews table on every save; never set directly.
	AverageRating float64 `json:"average_rating"`
	TotalReviews  int     `json:"total_reviews"`

	Views       int64      `json:"views"`
	UniqueViews int64      `json:"unique_views"`
	LastViewed  *time.Time `json:"last_viewed,omitempty"`

	Creator  User      `gorm:"foreignKey:CreatorID" json:"-"`
	Lectures []Lecture `gorm:"constraint:OnDelete:CASCADE" json:"lectures,omitempty"`
	Reviews  []Review  `gorm:"constraint:OnDelete:CASCADE" json:"reviews,omitempty"`
}

// BeforeSave recomputes the denormalized rating fields from the reviews
// table, so the stored average self-heals no matter where reviews were
// mutated.
func (course *Course) BeforeSave(tx *gorm.DB) error {
	if course.ID == 0 {
		return nil
	}

	var agg struct {
		Total int64
		Avg   float64
	}
	err := tx.Session(&gorm.Session{NewDB: true}).Model(&Review{}).
		Where("course_id = ?", course.ID).
		Select("COUNT(*) AS total, COALESCE(AVG(rating), 0) AS avg").
		Scan(&agg).Error
	if err != nil {
		return err
	}

	course.TotalReviews = int(agg.Total)
	course.AverageRating = math.Round(agg.Avg*10) / 10
	return nil
}

type Lecture struct {
	gorm.Model
	CourseID      uint   `gorm:"index" json:"course_id"`
	Title         string `gorm:"not null" json:"title"`
	VideoURL      string `json:"video_url"`
	Duration      int    `json:"duration"` // seconds
	SequenceOrder int    `json:"sequence_order"`
	Views         int64  `json:"views"`
}

type Review struct {
	gorm.Model
	CourseID uint   `gorm:"index" json:"course_id"`
	UserID   uint   `gorm:"index" json:"user_id"`
	Rating   int    `gorm:"check:rating>=1 AND rating<=5" json:"rating"`
	Comment  string `gorm:"type:text" json:"comment"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

// CourseView is one entry in a course's append-only view history. UserID is
// nil for anonymous views, which are never de-duplicated.
type CourseView struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CourseID  uint      `gorm:"index" json:"course_id"`
	UserID    *uint     `gorm:"index" json:"user_id,omitempty"`
	IPAddress string    `gorm:"type:varchar(45)" json:"ip_address"`
	UserAgent string    `gorm:"type:text" json:"user_agent"`
	ViewedAt  time.Time `gorm:"index" json:"viewed_at"`
}
