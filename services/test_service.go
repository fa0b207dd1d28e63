package services

import (
	"errors"
	"math/rand"
	"strings"

	courseModels "langit/models/course"
	testModels "langit/models/test"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// passThreshold is the minimum 0-100 score counted as passing a chapter test.
const passThreshold = 60

// Scoring modes. Review runs never persist anything.
const (
	TestModeNormal = "normal"
	TestModeReview = "review"
)

// Next-action hints returned after scoring.
const (
	NextActionReview          = "review"
	NextActionGoNextChapter   = "go_next_chapter"
	NextActionCourseCompleted = "course_completed"
)

// TestFilter narrows the delivered question set. Filters apply in order:
// difficulty set membership, then tag name intersection, then only-incorrect;
// Limit trims after shuffling.
type TestFilter struct {
	Difficulties  []string
	Tags          []string
	OnlyIncorrect bool
	Limit         int
}

// ChoicePayload is a selectable answer as delivered to the taker. The
// correctness flag is deliberately absent.
type ChoicePayload struct {
	ChoiceID   uint   `json:"choice_id"`
	ChoiceText string `json:"choice_text"`
}

// QuestionPayload is one delivered question with its metadata.
type QuestionPayload struct {
	QuestionID       uint            `json:"question_id"`
	QuestionText     string          `json:"question_text"`
	Difficulty       string          `json:"difficulty"`
	Tags             []string        `json:"tags"`
	RelatedChapterID *uint           `json:"related_chapter_id,omitempty"`
	RelatedVideoID   *uint           `json:"related_video_id,omitempty"`
	Choices          []ChoicePayload `json:"choices"`
}

// TestPayload is the deliverable form of a chapter test.
type TestPayload struct {
	TestID    uint              `json:"test_id"`
	ChapterID uint              `json:"chapter_id"`
	Title     string            `json:"title"`
	Questions []QuestionPayload `json:"questions"`
}

// TestAnswer is one submitted (question, choice) pair.
type TestAnswer struct {
	QuestionID uint `json:"question_id" validate:"required"`
	ChoiceID   uint `json:"choice_id" validate:"required"`
}

// AnswerReview is the corrected view of one submitted answer.
type AnswerReview struct {
	QuestionID      uint   `json:"question_id"`
	ChoiceID        uint   `json:"choice_id"`
	IsCorrect       bool   `json:"is_correct"`
	CorrectChoiceID uint   `json:"correct_choice_id"`
	Explanation     string `json:"explanation,omitempty"`
}

// TestScoreResult is the outcome of one scoring run.
type TestScoreResult struct {
	ResultUID      string         `json:"result_uid,omitempty"` // empty in review mode
	Score          int            `json:"score"`
	IsPassed       bool           `json:"is_passed"`
	PassThreshold  int            `json:"pass_threshold"`
	CorrectCount   int            `json:"correct_count"`
	TotalQuestions int            `json:"total_questions"`
	AlreadyPassed  bool           `json:"already_passed"`
	NextAction     string         `json:"next_action"`
	Answers        []AnswerReview `json:"answers"`
}

// ResolveTestForUser loads a test with its chapter and course and verifies the
// user's enrollment; every failure collapses to ErrNotFound.
func ResolveTestForUser(db *gorm.DB, userID, testID uint) (*testModels.Test, *courseModels.Chapter, *courseModels.Course, error) {
	var test testModels.Test
	if err := db.First(&test, testID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, nil, ErrNotFound
		}
		return nil, nil, nil, err
	}

	var chapter courseModels.Chapter
	if err := db.First(&chapter, test.ChapterID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, nil, ErrNotFound
		}
		return nil, nil, nil, err
	}

	var course courseModels.Course
	if err := db.First(&course, chapter.CourseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, nil, ErrNotFound
		}
		return nil, nil, nil, err
	}

	var enrolled int64
	if err := db.Model(&courseModels.UserCourse{}).
		Where("user_id = ? AND course_id = ?", userID, course.ID).
		Count(&enrolled).Error; err != nil {
		return nil, nil, nil, err
	}
	if enrolled == 0 {
		return nil, nil, nil, ErrNotFound
	}

	return &test, &chapter, &course, nil
}

// GetTestForUser assembles the deliverable question set: filters in fixed
// order, then shuffles questions and choices, then applies the limit.
func GetTestForUser(db *gorm.DB, userID uint, testID uint, filter TestFilter) (*TestPayload, error) {
	test, chapter, _, err := ResolveTestForUser(db, userID, testID)
	if err != nil {
		return nil, err
	}

	var questions []testModels.TestQuestion
	query := db.Preload("Tags").Where("test_id = ?", test.ID)
	if len(filter.Difficulties) > 0 {
		query = query.Where("difficulty IN ?", filter.Difficulties)
	}
	if err := query.Order("sort_order").Find(&questions).Error; err != nil {
		return nil, err
	}

	if len(filter.Tags) > 0 {
		wanted := make(map[string]bool, len(filter.Tags))
		for _, tag := range filter.Tags {
			wanted[strings.ToLower(tag)] = true
		}
		filtered := questions[:0]
		for _, q := range questions {
			for _, tag := range q.Tags {
				if wanted[strings.ToLower(tag.Name)] || wanted[strings.ToLower(tag.Slug)] {
					filtered = append(filtered, q)
					break
				}
			}
		}
		questions = filtered
	}

	if filter.OnlyIncorrect {
		incorrect, err := latestIncorrectQuestionIDs(db, userID, test.ID)
		if err != nil {
			return nil, err
		}
		filtered := questions[:0]
		for _, q := range questions {
			if incorrect[q.ID] {
				filtered = append(filtered, q)
			}
		}
		questions = filtered
	}

	if len(questions) == 0 {
		return nil, invalidInput("no questions match the requested filters")
	}

	questionIDs := make([]uint, 0, len(questions))
	for _, q := range questions {
		questionIDs = append(questionIDs, q.ID)
	}

	var choices []testModels.TestChoice
	if err := db.Where("question_id IN ?", questionIDs).
		Order("sort_order").
		Find(&choices).Error; err != nil {
		return nil, err
	}
	choicesByQuestion := make(map[uint][]testModels.TestChoice)
	for _, c := range choices {
		choicesByQuestion[c.QuestionID] = append(choicesByQuestion[c.QuestionID], c)
	}

	rand.Shuffle(len(questions), func(i, j int) {
		questions[i], questions[j] = questions[j], questions[i]
	})
	if filter.Limit > 0 && filter.Limit < len(questions) {
		questions = questions[:filter.Limit]
	}

	payload := &TestPayload{
		TestID:    test.ID,
		ChapterID: chapter.ID,
		Title:     test.Title,
		Questions: make([]QuestionPayload, 0, len(questions)),
	}

	for _, q := range questions {
		tags := make([]string, 0, len(q.Tags))
		for _, tag := range q.Tags {
			tags = append(tags, tag.Name)
		}

		qChoices := choicesByQuestion[q.ID]
		rand.Shuffle(len(qChoices), func(i, j int) {
			qChoices[i], qChoices[j] = qChoices[j], qChoices[i]
		})

		choicePayloads := make([]ChoicePayload, 0, len(qChoices))
		for _, c := range qChoices {
			choicePayloads = append(choicePayloads, ChoicePayload{
				ChoiceID:   c.ID,
				ChoiceText: c.ChoiceText,
			})
		}

		payload.Questions = append(payload.Questions, QuestionPayload{
			QuestionID:       q.ID,
			QuestionText:     q.QuestionText,
			Difficulty:       q.Difficulty,
			Tags:             tags,
			RelatedChapterID: q.RelatedChapterID,
			RelatedVideoID:   q.RelatedVideoID,
			Choices:          choicePayloads,
		})
	}

	return payload, nil
}

// ScoreTestForUser grades a full-answer submission. Normal mode persists the
// result atomically and marks the chapter completed on a first pass; review
// mode is a pure dry run.
func ScoreTestForUser(db *gorm.DB, userID uint, testID uint, answers []TestAnswer, mode string, elapsedSeconds *int) (*TestScoreResult, error) {
	if mode != TestModeNormal && mode != TestModeReview {
		return nil, invalidInput("mode must be normal or review")
	}
	if len(answers) == 0 {
		return nil, invalidInput("answers must not be empty")
	}

	test, chapter, course, err := ResolveTestForUser(db, userID, testID)
	if err != nil {
		return nil, err
	}

	var questions []testModels.TestQuestion
	if err := db.Where("test_id = ?", test.ID).Find(&questions).Error; err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, invalidInput("test has no questions")
	}

	questionSet := make(map[uint]testModels.TestQuestion, len(questions))
	questionIDs := make([]uint, 0, len(questions))
	for _, q := range questions {
		questionSet[q.ID] = q
		questionIDs = append(questionIDs, q.ID)
	}

	answerByQuestion := make(map[uint]uint, len(answers))
	for _, a := range answers {
		if _, ok := questionSet[a.QuestionID]; !ok {
			return nil, invalidInput("question %d does not belong to this test", a.QuestionID)
		}
		if _, dup := answerByQuestion[a.QuestionID]; dup {
			return nil, invalidInput("question %d answered more than once", a.QuestionID)
		}
		answerByQuestion[a.QuestionID] = a.ChoiceID
	}
	if len(answerByQuestion) != len(questions) {
		return nil, invalidInput("all %d questions must be answered", len(questions))
	}

	var choices []testModels.TestChoice
	if err := db.Where("question_id IN ?", questionIDs).Find(&choices).Error; err != nil {
		return nil, err
	}
	choicesByQuestion := make(map[uint]map[uint]testModels.TestChoice)
	correctByQuestion := make(map[uint][]uint)
	for _, c := range choices {
		if choicesByQuestion[c.QuestionID] == nil {
			choicesByQuestion[c.QuestionID] = make(map[uint]testModels.TestChoice)
		}
		choicesByQuestion[c.QuestionID][c.ID] = c
		if c.IsCorrect {
			correctByQuestion[c.QuestionID] = append(correctByQuestion[c.QuestionID], c.ID)
		}
	}

	// Content integrity: every question must carry exactly one correct choice
	for _, q := range questions {
		if len(correctByQuestion[q.ID]) != 1 {
			return nil, ErrDataIntegrity
		}
	}

	reviews := make([]AnswerReview, 0, len(questions))
	correctCount := 0
	for _, q := range questions {
		choiceID := answerByQuestion[q.ID]
		if _, ok := choicesByQuestion[q.ID][choiceID]; !ok {
			return nil, invalidInput("choice %d does not belong to question %d", choiceID, q.ID)
		}

		correctChoiceID := correctByQuestion[q.ID][0]
		isCorrect := choiceID == correctChoiceID
		if isCorrect {
			correctCount++
		}
		reviews = append(reviews, AnswerReview{
			QuestionID:      q.ID,
			ChoiceID:        choiceID,
			IsCorrect:       isCorrect,
			CorrectChoiceID: correctChoiceID,
			Explanation:     q.Explanation,
		})
	}

	score := correctCount * 100 / len(questions)
	passed := score >= passThreshold

	var previousPasses int64
	if err := db.Model(&testModels.TestResult{}).
		Where("user_id = ? AND test_id = ? AND is_passed = ?", userID, test.ID, true).
		Count(&previousPasses).Error; err != nil {
		return nil, err
	}
	alreadyPassed := previousPasses > 0

	out := &TestScoreResult{
		Score:          score,
		IsPassed:       passed,
		PassThreshold:  passThreshold,
		CorrectCount:   correctCount,
		TotalQuestions: len(questions),
		AlreadyPassed:  alreadyPassed,
		Answers:        reviews,
	}

	if mode == TestModeNormal {
		err = db.Transaction(func(tx *gorm.DB) error {
			result := testModels.TestResult{
				ResultUID:      uuid.NewString(),
				TestID:         test.ID,
				UserID:         userID,
				Score:          score,
				IsPassed:       passed,
				ElapsedSeconds: elapsedSeconds,
			}
			if err := tx.Create(&result).Error; err != nil {
				return err
			}

			details := make([]testModels.TestAnswerDetail, 0, len(reviews))
			for _, r := range reviews {
				details = append(details, testModels.TestAnswerDetail{
					TestResultID: result.ID,
					QuestionID:   r.QuestionID,
					ChoiceID:     r.ChoiceID,
					IsCorrect:    r.IsCorrect,
				})
			}
			if err := tx.Create(&details).Error; err != nil {
				return err
			}

			if passed {
				if err := completeTestChapter(tx, userID, course.ID, chapter.ID); err != nil {
					return err
				}
			}

			out.ResultUID = result.ResultUID
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	out.NextAction, err = decideNextAction(db, userID, course.ID, chapter, passed)
	if err != nil {
		return nil, err
	}

	return out, nil
}

// LatestTestResult returns the most recent persisted result and its answer
// details, or ErrNotFound when the user never submitted this test.
func LatestTestResult(db *gorm.DB, userID, testID uint) (*testModels.TestResult, []testModels.TestAnswerDetail, error) {
	if _, _, _, err := ResolveTestForUser(db, userID, testID); err != nil {
		return nil, nil, err
	}

	var result testModels.TestResult
	err := db.Where("user_id = ? AND test_id = ?", userID, testID).
		Order("created_at DESC, id DESC").
		First(&result).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, err
	}

	var details []testModels.TestAnswerDetail
	if err := db.Where("test_result_id = ?", result.ID).Find(&details).Error; err != nil {
		return nil, nil, err
	}

	return &result, details, nil
}

// completeTestChapter flags the chapter's progress row completed. Sticky: a
// chapter completed by an earlier pass is never un-completed or re-counted.
func completeTestChapter(tx *gorm.DB, userID, courseID, chapterID uint) error {
	progress, err := progressRow(tx, userID, courseID, chapterID)
	if err != nil {
		return err
	}
	if progress.IsCompleted {
		return nil
	}
	progress.IsCompleted = true
	if err := tx.Save(progress).Error; err != nil {
		return err
	}
	return RefreshUserCourseProgress(tx, userID, courseID)
}

// decideNextAction picks the post-scoring hint: failed runs point back to
// review, passing runs point at the next chapter or the course completion.
func decideNextAction(db *gorm.DB, userID, courseID uint, chapter *courseModels.Chapter, passed bool) (string, error) {
	if !passed {
		return NextActionReview, nil
	}

	rates, err := GetProgressRates(db, userID, &courseID)
	if err != nil {
		return "", err
	}
	if len(rates) > 0 && rates[0].ProgressRate >= 100 {
		return NextActionCourseCompleted, nil
	}

	var remaining int64
	if err := db.Model(&courseModels.Chapter{}).
		Where("course_id = ? AND sort_order > ?", courseID, chapter.SortOrder).
		Count(&remaining).Error; err != nil {
		return "", err
	}
	if remaining > 0 {
		return NextActionGoNextChapter, nil
	}
	return NextActionCourseCompleted, nil
}

// latestIncorrectQuestionIDs resolves the only-incorrect filter base set from
// the user's most recent persisted result. No history and a perfect latest
// run are both invalid filter inputs rather than empty deliveries.
func latestIncorrectQuestionIDs(db *gorm.DB, userID, testID uint) (map[uint]bool, error) {
	var latest testModels.TestResult
	err := db.Where("user_id = ? AND test_id = ?", userID, testID).
		Order("created_at DESC, id DESC").
		First(&latest).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, invalidInput("no previous result to review")
		}
		return nil, err
	}

	var details []testModels.TestAnswerDetail
	if err := db.Where("test_result_id = ? AND is_correct = ?", latest.ID, false).
		Find(&details).Error; err != nil {
		return nil, err
	}
	if len(details) == 0 {
		return nil, invalidInput("previous result has no incorrect answers")
	}

	incorrect := make(map[uint]bool, len(details))
	for _, d := range details {
		incorrect[d.QuestionID] = true
	}
	return incorrect, nil
}
