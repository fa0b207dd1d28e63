package mocktest

import "gorm.io/gorm"

// MockTest is a course-scoped standalone exam, independent of chapters.
type MockTest struct {
	gorm.Model
	CourseID    uint   `json:"course_id" gorm:"index;not null"`
	Title       string `json:"title"`
	Description string `json:"description"`
	TimeLimit   int    `json:"time_limit"` // seconds, 0 = unlimited
	PassScore   int    `json:"pass_score" gorm:"default:60"`
	IsActive    bool   `json:"is_active" gorm:"default:true"`
}

// MockTestQuestion belongs to a mock test.
type MockTestQuestion struct {
	gorm.Model
	MockTestID uint   `json:"mock_test_id" gorm:"index;not null"`
	Text       string `json:"text" gorm:"type:text"`
	SortOrder  int    `json:"sort_order" gorm:"default:0"`
}

// MockTestChoice is one selectable answer of a mock test question.
type MockTestChoice struct {
	gorm.Model
	MockTestQuestionID uint   `json:"mock_test_question_id" gorm:"index;not null"`
	Text               string `json:"text"`
	IsCorrect          bool   `json:"-" gorm:"default:false"`
	SortOrder          int    `json:"sort_order" gorm:"default:0"`
}
