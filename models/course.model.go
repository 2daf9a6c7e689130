package models

import "gorm.io/gorm"

// Course represents a learning course authored by an instructor
type Course struct {
	gorm.Model
	Title        string  `json:"title"`
	Subtitle     string  `json:"subtitle"`
	Description  string  `json:"description" gorm:"type:text"`
	Category     string  `json:"category"`
	Level        string  `json:"level" gorm:"default:'BEGINNER'"` // BEGINNER, INTERMEDIATE, ADVANCED
	Price        float64 `json:"price" gorm:"default:0"`
	ThumbnailURL string  `json:"thumbnail_url"`
	InstructorID uint    `json:"instructor_id" gorm:"index;not null"`
	IsPublished  bool    `json:"is_published" gorm:"default:false"`
	IsDeleted    bool    `gorm:"default:false"`
}

// Lecture represents a single video lecture within a course
type Lecture struct {
	gorm.Model
	CourseID    uint   `json:"course_id" gorm:"index;not null"`
	Title       string `json:"title"`
	Description string `json:"description"`
	VideoURL    string `json:"video_url"`
	PublicID    string `json:"public_id"`                   // media host identifier
	Duration    int    `json:"duration" gorm:"default:0"`   // duration in seconds
	OrderIndex  int    `json:"order_index" gorm:"default:0"`
	IsPreview   bool   `json:"is_preview" gorm:"default:false"`
	IsDeleted   bool   `gorm:"default:false"`
}
