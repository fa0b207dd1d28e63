package services

import (
	"errors"

	courseModels "langit/models/course"
	mockModels "langit/models/mocktest"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MockChoicePayload is one selectable answer as delivered to the taker.
type MockChoicePayload struct {
	ChoiceID uint   `json:"choice_id"`
	Text     string `json:"text"`
}

// MockQuestionPayload is one delivered mock test question.
type MockQuestionPayload struct {
	QuestionID uint                `json:"question_id"`
	Text       string              `json:"text"`
	SortOrder  int                 `json:"sort_order"`
	Choices    []MockChoicePayload `json:"choices"`
}

// MockTestPayload is the deliverable form of a mock test.
type MockTestPayload struct {
	MockTestID  uint                  `json:"mock_test_id"`
	CourseID    uint                  `json:"course_id"`
	Title       string                `json:"title"`
	Description string                `json:"description"`
	TimeLimit   int                   `json:"time_limit"`
	PassScore   int                   `json:"pass_score"`
	Questions   []MockQuestionPayload `json:"questions"`
}

// MockAnswer is one submitted (question, choice) pair. Questions missing from
// the submission are tolerated and graded as incorrect.
type MockAnswer struct {
	QuestionID uint `json:"question_id" validate:"required"`
	ChoiceID   uint `json:"choice_id" validate:"required"`
}

// MockAnswerReview is the graded view of one question, answered or not.
type MockAnswerReview struct {
	QuestionID       uint  `json:"question_id"`
	SelectedChoiceID *uint `json:"selected_choice_id"`
	CorrectChoiceID  *uint `json:"correct_choice_id"`
	IsCorrect        bool  `json:"is_correct"`
}

// MockScoreResult is the outcome of one mock test submission.
type MockScoreResult struct {
	ResultUID      string             `json:"result_uid"`
	Score          int                `json:"score"`
	Pass           bool               `json:"pass"`
	PassScore      int                `json:"pass_score"`
	CorrectCount   int                `json:"correct_count"`
	TotalQuestions int                `json:"total_questions"`
	Answers        []MockAnswerReview `json:"answers"`
}

// ResolveMockTestForUser loads an active mock test and verifies the user's
// enrollment in its course; failures collapse to ErrNotFound.
func ResolveMockTestForUser(db *gorm.DB, userID, mockTestID uint) (*mockModels.MockTest, error) {
	var mockTest mockModels.MockTest
	if err := db.Where("is_active = ?", true).First(&mockTest, mockTestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var enrolled int64
	if err := db.Model(&courseModels.UserCourse{}).
		Where("user_id = ? AND course_id = ?", userID, mockTest.CourseID).
		Count(&enrolled).Error; err != nil {
		return nil, err
	}
	if enrolled == 0 {
		return nil, ErrNotFound
	}

	return &mockTest, nil
}

// GetMockTestPayload assembles the deliverable mock test in stored order.
// Mock tests are delivered unshuffled; correctness flags are never included.
func GetMockTestPayload(db *gorm.DB, userID, mockTestID uint) (*MockTestPayload, error) {
	mockTest, err := ResolveMockTestForUser(db, userID, mockTestID)
	if err != nil {
		return nil, err
	}

	var questions []mockModels.MockTestQuestion
	if err := db.Where("mock_test_id = ?", mockTest.ID).
		Order("sort_order").
		Find(&questions).Error; err != nil {
		return nil, err
	}

	questionIDs := make([]uint, 0, len(questions))
	for _, q := range questions {
		questionIDs = append(questionIDs, q.ID)
	}

	var choices []mockModels.MockTestChoice
	if len(questionIDs) > 0 {
		if err := db.Where("mock_test_question_id IN ?", questionIDs).
			Order("sort_order").
			Find(&choices).Error; err != nil {
			return nil, err
		}
	}
	choicesByQuestion := make(map[uint][]MockChoicePayload)
	for _, c := range choices {
		choicesByQuestion[c.MockTestQuestionID] = append(choicesByQuestion[c.MockTestQuestionID], MockChoicePayload{
			ChoiceID: c.ID,
			Text:     c.Text,
		})
	}

	payload := &MockTestPayload{
		MockTestID:  mockTest.ID,
		CourseID:    mockTest.CourseID,
		Title:       mockTest.Title,
		Description: mockTest.Description,
		TimeLimit:   mockTest.TimeLimit,
		PassScore:   mockTest.PassScore,
		Questions:   make([]MockQuestionPayload, 0, len(questions)),
	}
	for _, q := range questions {
		payload.Questions = append(payload.Questions, MockQuestionPayload{
			QuestionID: q.ID,
			Text:       q.Text,
			SortOrder:  q.SortOrder,
			Choices:    choicesByQuestion[q.ID],
		})
	}

	return payload, nil
}

// ScoreMockTest grades a submission against the full question set and
// persists the result atomically. Unanswered questions count as incorrect; a
// choice that does not belong to its stated question rejects the whole
// submission with ErrInvalidInput before anything is stored.
func ScoreMockTest(db *gorm.DB, userID, mockTestID uint, answers []MockAnswer) (*MockScoreResult, error) {
	mockTest, err := ResolveMockTestForUser(db, userID, mockTestID)
	if err != nil {
		return nil, err
	}

	var questions []mockModels.MockTestQuestion
	if err := db.Where("mock_test_id = ?", mockTest.ID).
		Order("sort_order").
		Find(&questions).Error; err != nil {
		return nil, err
	}

	questionIDs := make([]uint, 0, len(questions))
	for _, q := range questions {
		questionIDs = append(questionIDs, q.ID)
	}

	var choices []mockModels.MockTestChoice
	if len(questionIDs) > 0 {
		if err := db.Where("mock_test_question_id IN ?", questionIDs).
			Find(&choices).Error; err != nil {
			return nil, err
		}
	}
	ownedChoices := make(map[uint]map[uint]bool)
	correctChoice := make(map[uint]uint)
	for _, c := range choices {
		if ownedChoices[c.MockTestQuestionID] == nil {
			ownedChoices[c.MockTestQuestionID] = make(map[uint]bool)
		}
		ownedChoices[c.MockTestQuestionID][c.ID] = true
		if c.IsCorrect {
			correctChoice[c.MockTestQuestionID] = c.ID
		}
	}

	answerByQuestion := make(map[uint]uint, len(answers))
	for _, a := range answers {
		if !ownedChoices[a.QuestionID][a.ChoiceID] {
			return nil, invalidInput("choice %d does not belong to question %d", a.ChoiceID, a.QuestionID)
		}
		answerByQuestion[a.QuestionID] = a.ChoiceID
	}

	reviews := make([]MockAnswerReview, 0, len(questions))
	correctCount := 0
	for _, q := range questions {
		review := MockAnswerReview{QuestionID: q.ID}
		if cid, ok := correctChoice[q.ID]; ok {
			correct := cid
			review.CorrectChoiceID = &correct
		}

		if choiceID, answered := answerByQuestion[q.ID]; answered {
			selected := choiceID
			review.SelectedChoiceID = &selected
			review.IsCorrect = choiceID == correctChoice[q.ID]
		}

		if review.IsCorrect {
			correctCount++
		}
		reviews = append(reviews, review)
	}

	score := 0
	if len(questions) > 0 {
		score = correctCount * 100 / len(questions)
	}
	pass := len(questions) > 0 && score >= mockTest.PassScore

	result := mockModels.MockTestResult{
		ResultUID:      uuid.NewString(),
		MockTestID:     mockTest.ID,
		UserID:         userID,
		Score:          score,
		Pass:           pass,
		CorrectCount:   correctCount,
		TotalQuestions: len(questions),
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&result).Error; err != nil {
			return err
		}
		if len(reviews) == 0 {
			return nil
		}
		details := make([]mockModels.MockTestResultDetail, 0, len(reviews))
		for _, r := range reviews {
			details = append(details, mockModels.MockTestResultDetail{
				MockTestResultID:   result.ID,
				MockTestQuestionID: r.QuestionID,
				SelectedChoiceID:   r.SelectedChoiceID,
				CorrectChoiceID:    r.CorrectChoiceID,
				IsCorrect:          r.IsCorrect,
			})
		}
		return tx.Create(&details).Error
	})
	if err != nil {
		return nil, err
	}

	return &MockScoreResult{
		ResultUID:      result.ResultUID,
		Score:          score,
		Pass:           pass,
		PassScore:      mockTest.PassScore,
		CorrectCount:   correctCount,
		TotalQuestions: len(questions),
		Answers:        reviews,
	}, nil
}

// LatestMockTestResult returns the user's most recent submission for a mock
// test, or ErrNotFound when they never submitted it.
func LatestMockTestResult(db *gorm.DB, userID, mockTestID uint) (*mockModels.MockTestResult, []mockModels.MockTestResultDetail, error) {
	if _, err := ResolveMockTestForUser(db, userID, mockTestID); err != nil {
		return nil, nil, err
	}

	var result mockModels.MockTestResult
	err := db.Where("user_id = ? AND mock_test_id = ?", userID, mockTestID).
		Order("created_at DESC, id DESC").
		First(&result).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, err
	}

	details, err := mockResultDetails(db, result.ID)
	if err != nil {
		return nil, nil, err
	}
	return &result, details, nil
}

// ListMockTestResults pages through the user's submission history, newest
// first. The limit is clamped to 1..100.
func ListMockTestResults(db *gorm.DB, userID, mockTestID uint, limit int) ([]mockModels.MockTestResult, error) {
	if _, err := ResolveMockTestForUser(db, userID, mockTestID); err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	var results []mockModels.MockTestResult
	err := db.Where("user_id = ? AND mock_test_id = ?", userID, mockTestID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

// MockTestResultByUID loads one of the user's submissions by its public
// reference, with details.
func MockTestResultByUID(db *gorm.DB, userID uint, resultUID string) (*mockModels.MockTestResult, []mockModels.MockTestResultDetail, error) {
	var result mockModels.MockTestResult
	err := db.Where("user_id = ? AND result_uid = ?", userID, resultUID).
		First(&result).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, err
	}

	details, err := mockResultDetails(db, result.ID)
	if err != nil {
		return nil, nil, err
	}
	return &result, details, nil
}

func mockResultDetails(db *gorm.DB, resultID uint) ([]mockModels.MockTestResultDetail, error) {
	var details []mockModels.MockTestResultDetail
	if err := db.Where("mock_test_result_id = ?", resultID).Find(&details).Error; err != nil {
		return nil, err
	}
	return details, nil
}
