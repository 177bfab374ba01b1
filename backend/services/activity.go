package services

import (
	"fmt"
	"log"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"learnhub/backend/models"
)

// ActivityRecorder writes instructor-feed events as a side effect of domain
// operations. Recording is best-effort: failures are logged and swallowed so
// they never abort the operation that triggered them.
type ActivityRecorder struct {
	DB     *gorm.DB
	Logger *log.Logger
}

func NewActivityRecorder(db *gorm.DB, logger *log.Logger) *ActivityRecorder {
	return &ActivityRecorder{DB: db, Logger: logger}
}

func (r *ActivityRecorder) Enrollment(student *models.User, course *models.Course) {
	r.record(&models.Activity{
		Type:         models.ActivityEnrollment,
		ActorID:      student.ID,
		CourseID:     course.ID,
		InstructorID: course.CreatorID,
		Description:  fmt.Sprintf("%s enrolled in %q", student.Name, course.Title),
	})
}

func (r *ActivityRecorder) LectureCompleted(student *models.User, course *models.Course, lecture *models.Lecture) {
	lectureID := lecture.ID
	r.record(&models.Activity{
		Type:         models.ActivityLectureCompletion,
		ActorID:      student.ID,
		CourseID:     course.ID,
		LectureID:    &lectureID,
		InstructorID: course.CreatorID,
		Description:  fmt.Sprintf("%s completed lecture %q in %q", student.Name, lecture.Title, course.Title),
	})
}

func (r *ActivityRecorder) CourseCompleted(student *models.User, course *models.Course) {
	r.record(&models.Activity{
		Type:         models.ActivityCourseCompletion,
		ActorID:      student.ID,
		CourseID:     course.ID,
		InstructorID: course.CreatorID,
		Description:  fmt.Sprintf("%s completed the course %q", student.Name, course.Title),
	})
}

func (r *ActivityRecorder) ReviewAdded(student *models.User, course *models.Course, rating int) {
	r.record(&models.Activity{
		Type:         models.ActivityReview,
		ActorID:      student.ID,
		CourseID:     course.ID,
		InstructorID: course.CreatorID,
		Description:  fmt.Sprintf("%s rated %q %d/5", student.Name, course.Title, rating),
		Metadata:     datatypes.JSON(fmt.Sprintf(`{"rating":%d}`, rating)),
	})
}

func (r *ActivityRecorder) CourseCreated(instructor *models.User, course *models.Course) {
	r.record(&models.Activity{
		Type:         models.ActivityCourseCreated,
		ActorID:      instructor.ID,
		CourseID:     course.ID,
		InstructorID: instructor.ID,
		Description:  fmt.Sprintf("%s published a new course %q", instructor.Name, course.Title),
	})
}

func (r *ActivityRecorder) record(activity *models.Activity) {
	if err := r.DB.Create(activity).Error; err != nil {
		r.Logger.Printf("activity: failed to record %s event for course %d: %v",
			activity.Type, activity.CourseID, err)
	}
}
