package services

import (
	"testing"

	courseModels "langit/models/course"
	mockModels "langit/models/mocktest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// seedMockTest creates an active mock test with questionCount questions of
// three choices each; the first choice is correct.
func seedMockTest(t *testing.T, db *gorm.DB, passScore, questionCount int) (courseModels.Course, mockModels.MockTest, []mockModels.MockTestQuestion) {
	t.Helper()

	course := courseModels.Course{Title: "Algebra", Version: 1, IsActive: true}
	require.NoError(t, db.Create(&course).Error)

	mockTest := mockModels.MockTest{CourseID: course.ID, Title: "Final mock", PassScore: passScore, IsActive: true}
	require.NoError(t, db.Create(&mockTest).Error)

	questions := make([]mockModels.MockTestQuestion, 0, questionCount)
	for i := 0; i < questionCount; i++ {
		q := mockModels.MockTestQuestion{MockTestID: mockTest.ID, Text: "Q", SortOrder: i + 1}
		require.NoError(t, db.Create(&q).Error)
		for j := 0; j < 3; j++ {
			require.NoError(t, db.Create(&mockModels.MockTestChoice{
				MockTestQuestionID: q.ID,
				Text:               "choice",
				IsCorrect:          j == 0,
				SortOrder:          j + 1,
			}).Error)
		}
		questions = append(questions, q)
	}
	return course, mockTest, questions
}

func mockChoices(t *testing.T, db *gorm.DB, questionID uint) (correct, wrong mockModels.MockTestChoice) {
	t.Helper()
	var choices []mockModels.MockTestChoice
	require.NoError(t, db.Where("mock_test_question_id = ?", questionID).Order("sort_order").Find(&choices).Error)
	require.NotEmpty(t, choices)
	for _, c := range choices {
		if c.IsCorrect {
			correct = c
		} else {
			wrong = c
		}
	}
	return correct, wrong
}

func TestScoreMockTest(t *testing.T) {
	t.Run("floors the score and persists", func(t *testing.T) {
		db := newTestDB(t)
		course, mockTest, questions := seedMockTest(t, db, 60, 4)
		enroll(t, db, 1, course.ID)

		answers := make([]MockAnswer, 0, 3)
		for i, q := range questions[:3] {
			correct, wrong := mockChoices(t, db, q.ID)
			choice := correct
			if i == 2 {
				choice = wrong
			}
			answers = append(answers, MockAnswer{QuestionID: q.ID, ChoiceID: choice.ID})
		}

		// Question 4 is left unanswered on purpose
		result, err := ScoreMockTest(db, 1, mockTest.ID, answers)
		require.NoError(t, err)
		assert.Equal(t, 50, result.Score) // 2/4
		assert.False(t, result.Pass)
		assert.Equal(t, 2, result.CorrectCount)
		assert.Equal(t, 4, result.TotalQuestions)
		assert.NotEmpty(t, result.ResultUID)

		var stored mockModels.MockTestResult
		require.NoError(t, db.Where("result_uid = ?", result.ResultUID).First(&stored).Error)
		assert.Equal(t, 50, stored.Score)

		var details []mockModels.MockTestResultDetail
		require.NoError(t, db.Where("mock_test_result_id = ?", stored.ID).Find(&details).Error)
		require.Len(t, details, 4)

		// The unanswered question is stored with a nil selected choice
		var unanswered *mockModels.MockTestResultDetail
		for i := range details {
			if details[i].MockTestQuestionID == questions[3].ID {
				unanswered = &details[i]
			}
		}
		require.NotNil(t, unanswered)
		assert.Nil(t, unanswered.SelectedChoiceID)
		assert.False(t, unanswered.IsCorrect)
	})

	t.Run("passes against the configured threshold", func(t *testing.T) {
		db := newTestDB(t)
		course, mockTest, questions := seedMockTest(t, db, 75, 4)
		enroll(t, db, 1, course.ID)

		answers := make([]MockAnswer, 0, len(questions))
		for _, q := range questions {
			correct, _ := mockChoices(t, db, q.ID)
			answers = append(answers, MockAnswer{QuestionID: q.ID, ChoiceID: correct.ID})
		}
		answers = answers[:3] // 3/4 = 75, exactly at the threshold

		result, err := ScoreMockTest(db, 1, mockTest.ID, answers)
		require.NoError(t, err)
		assert.Equal(t, 75, result.Score)
		assert.True(t, result.Pass)
	})

	t.Run("a foreign choice rejects the whole submission", func(t *testing.T) {
		db := newTestDB(t)
		course, mockTest, questions := seedMockTest(t, db, 60, 2)
		enroll(t, db, 1, course.ID)

		correctA, _ := mockChoices(t, db, questions[0].ID)
		_, err := ScoreMockTest(db, 1, mockTest.ID, []MockAnswer{
			{QuestionID: questions[0].ID, ChoiceID: correctA.ID},
			{QuestionID: questions[1].ID, ChoiceID: correctA.ID}, // belongs to question 1
		})
		assert.ErrorIs(t, err, ErrInvalidInput)

		// Rejected submissions leave no trace
		var count int64
		require.NoError(t, db.Model(&mockModels.MockTestResult{}).Count(&count).Error)
		assert.Zero(t, count)
	})

	t.Run("an empty mock test scores zero and never passes", func(t *testing.T) {
		db := newTestDB(t)
		course, mockTest, _ := seedMockTest(t, db, 60, 0)
		enroll(t, db, 1, course.ID)

		result, err := ScoreMockTest(db, 1, mockTest.ID, nil)
		require.NoError(t, err)
		assert.Equal(t, 0, result.Score)
		assert.False(t, result.Pass)
		assert.Equal(t, 0, result.TotalQuestions)
	})

	t.Run("inactive mock tests are invisible", func(t *testing.T) {
		db := newTestDB(t)
		course, mockTest, _ := seedMockTest(t, db, 60, 2)
		enroll(t, db, 1, course.ID)
		require.NoError(t, db.Model(&mockModels.MockTest{}).
			Where("id = ?", mockTest.ID).Update("is_active", false).Error)

		_, err := ScoreMockTest(db, 1, mockTest.ID, nil)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("unenrolled user sees not found", func(t *testing.T) {
		db := newTestDB(t)
		_, mockTest, _ := seedMockTest(t, db, 60, 2)

		_, err := ScoreMockTest(db, 99, mockTest.ID, nil)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestGetMockTestPayload(t *testing.T) {
	db := newTestDB(t)
	course, mockTest, questions := seedMockTest(t, db, 60, 3)
	enroll(t, db, 1, course.ID)

	payload, err := GetMockTestPayload(db, 1, mockTest.ID)
	require.NoError(t, err)
	assert.Equal(t, mockTest.ID, payload.MockTestID)
	assert.Equal(t, 60, payload.PassScore)
	require.Len(t, payload.Questions, 3)

	// Delivered in stored order
	for i, q := range payload.Questions {
		assert.Equal(t, questions[i].ID, q.QuestionID)
		assert.Len(t, q.Choices, 3)
	}
}

func TestMockTestResultHistory(t *testing.T) {
	db := newTestDB(t)
	course, mockTest, questions := seedMockTest(t, db, 60, 2)
	enroll(t, db, 1, course.ID)

	_, _, err := LatestMockTestResult(db, 1, mockTest.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	correct, _ := mockChoices(t, db, questions[0].ID)
	for i := 0; i < 3; i++ {
		_, err := ScoreMockTest(db, 1, mockTest.ID, []MockAnswer{
			{QuestionID: questions[0].ID, ChoiceID: correct.ID},
		})
		require.NoError(t, err)
	}

	results, err := ListMockTestResults(db, 1, mockTest.ID, 2)
	require.NoError(t, err)
	assert.Len(t, results, 2)

	latest, details, err := LatestMockTestResult(db, 1, mockTest.ID)
	require.NoError(t, err)
	assert.Equal(t, 50, latest.Score)
	assert.Len(t, details, 2)

	byUID, _, err := MockTestResultByUID(db, 1, latest.ResultUID)
	require.NoError(t, err)
	assert.Equal(t, latest.ID, byUID.ID)

	// Another user cannot read it by UID
	_, _, err = MockTestResultByUID(db, 2, latest.ResultUID)
	assert.ErrorIs(t, err, ErrNotFound)
}
