package mocktest

import "gorm.io/gorm"

// MockTestResult is an immutable submission record. Every scoring call is
// persisted; there is no review mode for mock tests.
type MockTestResult struct {
	gorm.Model
	ResultUID      string `json:"result_uid" gorm:"uniqueIndex;size:36"`
	MockTestID     uint   `json:"mock_test_id" gorm:"index;not null"`
	UserID         uint   `json:"user_id" gorm:"index;not null"`
	Score          int    `json:"score"` // 0-100
	Pass           bool   `json:"pass" gorm:"default:false"`
	CorrectCount   int    `json:"correct_count"`
	TotalQuestions int    `json:"total_questions"`
}

// MockTestResultDetail records one question of a result. Unanswered questions
// are stored with a nil SelectedChoiceID and IsCorrect=false.
type MockTestResultDetail struct {
	gorm.Model
	MockTestResultID   uint  `json:"mock_test_result_id" gorm:"index;not null"`
	MockTestQuestionID uint  `json:"mock_test_question_id" gorm:"not null"`
	SelectedChoiceID   *uint `json:"selected_choice_id"`
	CorrectChoiceID    *uint `json:"correct_choice_id"`
	IsCorrect          bool  `json:"is_correct" gorm:"default:false"`
}
