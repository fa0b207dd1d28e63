package test

import "gorm.io/gorm"

// Test is a chapter-scoped quiz definition.
type Test struct {
	gorm.Model
	ChapterID uint   `json:"chapter_id" gorm:"index;not null"`
	Title     string `json:"title"`
}

// TestQuestion belongs to a test. Exactly one of its choices must be flagged
// correct; that invariant is enforced at scoring time, not at the schema.
type TestQuestion struct {
	gorm.Model
	TestID           uint   `json:"test_id" gorm:"index;not null"`
	QuestionText     string `json:"question_text" gorm:"type:text"`
	Explanation      string `json:"explanation" gorm:"type:text"`
	Difficulty       string `json:"difficulty" gorm:"default:'normal'"` // easy, normal, hard
	SortOrder        int    `json:"sort_order" gorm:"default:0"`
	RelatedChapterID *uint  `json:"related_chapter_id"` // review recommendation target
	RelatedVideoID   *uint  `json:"related_video_id"`

	Tags []QuestionTag `json:"tags" gorm:"many2many:question_tag_pivot;joinForeignKey:QuestionID;joinReferences:TagID"`
}

// TestChoice is one selectable answer of a question.
type TestChoice struct {
	gorm.Model
	QuestionID uint   `json:"question_id" gorm:"index;not null"`
	ChoiceText string `json:"choice_text"`
	IsCorrect  bool   `json:"-" gorm:"default:false"` // never serialized to takers
	SortOrder  int    `json:"sort_order" gorm:"default:0"`
}

// QuestionTag is a free-form label attached to questions via
// question_tag_pivot. Deletion is blocked while any question references it.
type QuestionTag struct {
	gorm.Model
	Name string `json:"name" gorm:"not null"`
	Slug string `json:"slug" gorm:"index"`
}
