package models

import "gorm.io/gorm"

// CourseProgress tracks a user's progress through a course. One row per
// (user, course) pair, created lazily on the first progress update.
type CourseProgress struct {
	gorm.Model
	UserID          uint              `json:"user_id" gorm:"index:idx_course_progress_user_course,unique;not null"`
	CourseID        uint              `json:"course_id" gorm:"index:idx_course_progress_user_course,unique;not null"`
	IsCompleted     bool              `json:"is_completed" gorm:"default:false"`
	LectureProgress []LectureProgress `json:"lecture_progress" gorm:"foreignKey:CourseProgressID"`
}

// LectureProgress records completion of a single lecture. The unique index
// keeps one entry per lecture within a progress row.
type LectureProgress struct {
	gorm.Model
	CourseProgressID uint `json:"course_progress_id" gorm:"index:idx_lecture_progress_entry,unique;not null"`
	LectureID        uint `json:"lecture_id" gorm:"index:idx_lecture_progress_entry,unique;not null"`
	IsCompleted      bool `json:"is_completed" gorm:"default:false"`
}
