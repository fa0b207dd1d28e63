package services

import (
	"errors"
	"strings"

	testModels "langit/models/test"

	"gorm.io/gorm"
)

// TagAccuracy is one row of the per-tag answer statistics.
type TagAccuracy struct {
	TagID        uint    `json:"tag_id"`
	Name         string  `json:"name"`
	Slug         string  `json:"slug"`
	Answered     int     `json:"answered"`
	CorrectCount int     `json:"correct_count"`
	Accuracy     float64 `json:"accuracy"` // 0.0-1.0 over all persisted answers
}

// TagWithUsage is one tag row of the admin list, with the number of
// questions currently carrying it.
type TagWithUsage struct {
	testModels.QuestionTag
	UsageCount int64 `json:"usage_count"`
}

// ListQuestionTags returns tags ordered by name, each with its question
// usage count. A keyword narrows by name or slug.
func ListQuestionTags(db *gorm.DB, keyword string) ([]TagWithUsage, error) {
	var tags []testModels.QuestionTag
	query := db.Order("name")
	if keyword = strings.TrimSpace(keyword); keyword != "" {
		pattern := "%" + strings.ToLower(keyword) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(slug) LIKE ?", pattern, pattern)
	}
	if err := query.Find(&tags).Error; err != nil {
		return nil, err
	}

	type usageRow struct {
		TagID uint
		Total int64
	}
	var usages []usageRow
	if err := db.Table("question_tag_pivot").
		Select("tag_id, COUNT(*) as total").
		Group("tag_id").
		Scan(&usages).Error; err != nil {
		return nil, err
	}
	usageByTag := make(map[uint]int64, len(usages))
	for _, u := range usages {
		usageByTag[u.TagID] = u.Total
	}

	out := make([]TagWithUsage, 0, len(tags))
	for _, tag := range tags {
		out = append(out, TagWithUsage{QuestionTag: tag, UsageCount: usageByTag[tag.ID]})
	}
	return out, nil
}

// CreateQuestionTag stores a new tag; the slug is derived from the name when
// not supplied. Duplicate slugs are rejected.
func CreateQuestionTag(db *gorm.DB, name, slug string) (*testModels.QuestionTag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalidInput("name must not be empty")
	}
	if slug == "" {
		slug = Slugify(name)
	}

	var existing int64
	if err := db.Model(&testModels.QuestionTag{}).
		Where("slug = ?", slug).
		Count(&existing).Error; err != nil {
		return nil, err
	}
	if existing > 0 {
		return nil, invalidInput("a tag with slug %q already exists", slug)
	}

	tag := testModels.QuestionTag{Name: name, Slug: slug}
	if err := db.Create(&tag).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

// UpdateQuestionTag renames a tag and optionally replaces its slug.
func UpdateQuestionTag(db *gorm.DB, tagID uint, name, slug string) (*testModels.QuestionTag, error) {
	var tag testModels.QuestionTag
	if err := db.First(&tag, tagID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalidInput("name must not be empty")
	}
	if slug == "" {
		slug = Slugify(name)
	}

	var clash int64
	if err := db.Model(&testModels.QuestionTag{}).
		Where("slug = ? AND id <> ?", slug, tag.ID).
		Count(&clash).Error; err != nil {
		return nil, err
	}
	if clash > 0 {
		return nil, invalidInput("a tag with slug %q already exists", slug)
	}

	tag.Name = name
	tag.Slug = slug
	if err := db.Save(&tag).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

// DeleteQuestionTag removes a tag. Deletion is refused while any question
// still references it; detach the questions first.
func DeleteQuestionTag(db *gorm.DB, tagID uint) error {
	var tag testModels.QuestionTag
	if err := db.First(&tag, tagID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	var references int64
	if err := db.Table("question_tag_pivot").
		Where("tag_id = ?", tag.ID).
		Count(&references).Error; err != nil {
		return err
	}
	if references > 0 {
		return invalidInput("tag is still attached to %d question(s)", references)
	}

	return db.Delete(&tag).Error
}

// SyncQuestionTags replaces a question's tag set with the given tag IDs.
// Unknown tag IDs fail the whole sync.
func SyncQuestionTags(db *gorm.DB, questionID uint, tagIDs []uint) error {
	var question testModels.TestQuestion
	if err := db.First(&question, questionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	var tags []testModels.QuestionTag
	if len(tagIDs) > 0 {
		if err := db.Where("id IN ?", tagIDs).Find(&tags).Error; err != nil {
			return err
		}
		if len(tags) != len(uniqueIDs(tagIDs)) {
			return invalidInput("one or more tag ids do not exist")
		}
	}

	return db.Transaction(func(tx *gorm.DB) error {
		return tx.Model(&question).Association("Tags").Replace(tags)
	})
}

// TagAccuracyForUser computes per-tag answer accuracy over all of a user's
// persisted answer details. Tags the user never encountered are omitted.
func TagAccuracyForUser(db *gorm.DB, userID uint) ([]TagAccuracy, error) {
	type row struct {
		TagID        uint
		Name         string
		Slug         string
		Answered     int
		CorrectCount int
	}

	var rows []row
	err := db.Table("test_answer_details").
		Select("question_tags.id AS tag_id, question_tags.name, question_tags.slug, "+
			"COUNT(*) AS answered, SUM(CASE WHEN test_answer_details.is_correct THEN 1 ELSE 0 END) AS correct_count").
		Joins("JOIN test_results ON test_results.id = test_answer_details.test_result_id").
		Joins("JOIN question_tag_pivot ON question_tag_pivot.question_id = test_answer_details.question_id").
		Joins("JOIN question_tags ON question_tags.id = question_tag_pivot.tag_id").
		Where("test_results.user_id = ?", userID).
		Group("question_tags.id, question_tags.name, question_tags.slug").
		Order("question_tags.name").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	stats := make([]TagAccuracy, 0, len(rows))
	for _, r := range rows {
		accuracy := 0.0
		if r.Answered > 0 {
			accuracy = float64(r.CorrectCount) / float64(r.Answered)
		}
		stats = append(stats, TagAccuracy{
			TagID:        r.TagID,
			Name:         r.Name,
			Slug:         r.Slug,
			Answered:     r.Answered,
			CorrectCount: r.CorrectCount,
			Accuracy:     accuracy,
		})
	}
	return stats, nil
}

// Slugify lowercases a name and collapses non-alphanumeric runs into dashes.
func Slugify(name string) string {
	var b strings.Builder
	lastDash := true // suppress a leading dash
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			lastDash = false
		} else if !lastDash {
			b.WriteByte('-')
			lastDash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]bool, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
