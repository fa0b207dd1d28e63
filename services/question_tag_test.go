package services

import (
	"testing"

	testModels "langit/models/test"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	assert.Equal(t, "linear-equations", Slugify("Linear Equations"))
	assert.Equal(t, "fractions", Slugify("  Fractions  "))
	assert.Equal(t, "a-b-c", Slugify("A & B / C!"))
	assert.Equal(t, "", Slugify("---"))
}

func TestQuestionTagCRUD(t *testing.T) {
	db := newTestDB(t)

	tag, err := CreateQuestionTag(db, "Linear Equations", "")
	require.NoError(t, err)
	assert.Equal(t, "linear-equations", tag.Slug)

	t.Run("duplicate slug is rejected", func(t *testing.T) {
		_, err := CreateQuestionTag(db, "Linear equations", "")
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("empty name is rejected", func(t *testing.T) {
		_, err := CreateQuestionTag(db, "   ", "")
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("update renames and reslugs", func(t *testing.T) {
		updated, err := UpdateQuestionTag(db, tag.ID, "Quadratic Equations", "")
		require.NoError(t, err)
		assert.Equal(t, "quadratic-equations", updated.Slug)
	})

	t.Run("update of a missing tag fails", func(t *testing.T) {
		_, err := UpdateQuestionTag(db, 9999, "Anything", "")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestListQuestionTags(t *testing.T) {
	db := newTestDB(t)
	_, _, _, questions := seedTest(t, db, 1)

	fractions, err := CreateQuestionTag(db, "Fractions", "")
	require.NoError(t, err)
	_, err = CreateQuestionTag(db, "Decimals", "")
	require.NoError(t, err)
	require.NoError(t, SyncQuestionTags(db, questions[0].ID, []uint{fractions.ID}))

	all, err := ListQuestionTags(db, "")
	require.NoError(t, err)
	require.Len(t, all, 2)

	byName := map[string]TagWithUsage{}
	for _, tag := range all {
		byName[tag.Name] = tag
	}
	assert.EqualValues(t, 1, byName["Fractions"].UsageCount)
	assert.EqualValues(t, 0, byName["Decimals"].UsageCount)

	narrowed, err := ListQuestionTags(db, "frac")
	require.NoError(t, err)
	require.Len(t, narrowed, 1)
	assert.Equal(t, "Fractions", narrowed[0].Name)
}

func TestDeleteQuestionTag(t *testing.T) {
	db := newTestDB(t)
	_, _, _, questions := seedTest(t, db, 1)

	tag, err := CreateQuestionTag(db, "Fractions", "")
	require.NoError(t, err)
	require.NoError(t, SyncQuestionTags(db, questions[0].ID, []uint{tag.ID}))

	// Still attached: deletion is refused
	err = DeleteQuestionTag(db, tag.ID)
	assert.ErrorIs(t, err, ErrInvalidInput)

	// Detach, then deletion goes through
	require.NoError(t, SyncQuestionTags(db, questions[0].ID, nil))
	require.NoError(t, DeleteQuestionTag(db, tag.ID))

	var count int64
	require.NoError(t, db.Model(&testModels.QuestionTag{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestSyncQuestionTags(t *testing.T) {
	db := newTestDB(t)
	_, _, _, questions := seedTest(t, db, 1)

	first, err := CreateQuestionTag(db, "Fractions", "")
	require.NoError(t, err)
	second, err := CreateQuestionTag(db, "Decimals", "")
	require.NoError(t, err)

	require.NoError(t, SyncQuestionTags(db, questions[0].ID, []uint{first.ID}))
	require.NoError(t, SyncQuestionTags(db, questions[0].ID, []uint{second.ID}))

	var q testModels.TestQuestion
	require.NoError(t, db.Preload("Tags").First(&q, questions[0].ID).Error)
	require.Len(t, q.Tags, 1)
	assert.Equal(t, second.ID, q.Tags[0].ID)

	t.Run("unknown tag ids fail the sync", func(t *testing.T) {
		err := SyncQuestionTags(db, questions[0].ID, []uint{9999})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("unknown question fails", func(t *testing.T) {
		err := SyncQuestionTags(db, 9999, nil)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestTagAccuracyForUser(t *testing.T) {
	db := newTestDB(t)
	course, _, quiz, questions := seedTest(t, db, 2)
	enroll(t, db, 1, course.ID)

	tag, err := CreateQuestionTag(db, "Fractions", "")
	require.NoError(t, err)
	require.NoError(t, SyncQuestionTags(db, questions[0].ID, []uint{tag.ID}))
	require.NoError(t, SyncQuestionTags(db, questions[1].ID, []uint{tag.ID}))

	// One right, one wrong
	_, err = ScoreTestForUser(db, 1, quiz.ID, answersFor(t, db, questions, 1), TestModeNormal, nil)
	require.NoError(t, err)

	stats, err := TagAccuracyForUser(db, 1)
	require.NoError(t, err)
	require.Len(t, stats, 1)
	assert.Equal(t, tag.ID, stats[0].TagID)
	assert.Equal(t, 2, stats[0].Answered)
	assert.Equal(t, 1, stats[0].CorrectCount)
	assert.InDelta(t, 0.5, stats[0].Accuracy, 0.001)

	// Another user has no stats
	other, err := TagAccuracyForUser(db, 2)
	require.NoError(t, err)
	assert.Empty(t, other)
}
