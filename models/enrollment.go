package models

import (
	"gorm.io/gorm"
)

// Enrollment links a user to a course they are entitled to. Granted as a side
// effect of a purchase reaching COMPLETED; the unique pair index makes the
// grant idempotent under duplicate webhook delivery.
type Enrollment struct {
	gorm.Model
	UserID    uint   `json:"user_id" gorm:"index:idx_enrollment_user_course,unique;not null"`
	CourseID  uint   `json:"course_id" gorm:"index:idx_enrollment_user_course,unique;not null"`
	Status    string `json:"status" gorm:"default:'ENROLLED'"`
	IsDeleted bool   `gorm:"default:false"`
	User      User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Course    Course `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE"`
}
