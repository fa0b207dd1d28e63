package services

import (
	"sort"
	"strings"
	"time"

	courseModels "langit/models/course"
	testModels "langit/models/test"

	"gorm.io/gorm"
)

// CourseStats counts completed versus total chapters by chapter type.
type CourseStats struct {
	TotalChapters     int `json:"total_chapters"`
	CompletedChapters int `json:"completed_chapters"`
	TotalVideos       int `json:"total_videos"`
	CompletedVideos   int `json:"completed_videos"`
	TotalTests        int `json:"total_tests"`
	CompletedTests    int `json:"completed_tests"`
}

// CourseSummary is one row of the enrolled-course list.
type CourseSummary struct {
	CourseID       uint        `json:"course_id"`
	Title          string      `json:"title"`
	Description    string      `json:"description"`
	ThumbnailURL   string      `json:"thumbnail_url"`
	Version        uint        `json:"version"`
	BaseCourseID   uint        `json:"base_course_id"`
	IsLatest       bool        `json:"is_latest"`
	ProgressRate   int         `json:"progress_rate"`
	LearningStatus string      `json:"learning_status"`
	ChapterTitles  string      `json:"chapter_titles"` // concatenated for keyword search
	Stats          CourseStats `json:"stats"`
	LastActivityAt *time.Time  `json:"last_activity_at"`
}

// SummaryFilter is the typed filter specification for the course list.
type SummaryFilter struct {
	Keyword        string
	LearningStatus string
	MinProgress    *int
	MaxProgress    *int
	LatestOnly     bool
}

// ChapterDetail is one chapter row of the course detail view.
type ChapterDetail struct {
	ChapterID            uint    `json:"chapter_id"`
	Title                string  `json:"title"`
	ChapterType          string  `json:"chapter_type"`
	SortOrder            int     `json:"sort_order"`
	Status               string  `json:"status"` // completed / not_started
	WatchedRate          float64 `json:"watched_rate"`
	WatchedSeconds       int     `json:"watched_seconds"`
	LastWatchPosition    int     `json:"last_watch_position"`
	ChapterProgressRate  float64 `json:"chapter_progress_rate"` // 0.0-1.0
	IsLocked             bool    `json:"is_locked"`
	EstimatedTimeSeconds int     `json:"estimated_time_seconds"`
	LatestTestScore      *int    `json:"latest_test_score,omitempty"`
	TestPassed           bool    `json:"test_passed"`
}

// RoadmapCourse is a prerequisite or follow-up course reference with the
// same version and enrollment-derived fields as the summary rows.
type RoadmapCourse struct {
	CourseID       uint   `json:"course_id"`
	Title          string `json:"title"`
	ThumbnailURL   string `json:"thumbnail_url"`
	Version        uint   `json:"version"`
	IsLatest       bool   `json:"is_latest"`
	SortOrder      int    `json:"sort_order"`
	Enrolled       bool   `json:"enrolled"`
	ProgressRate   int    `json:"progress_rate"`
	LearningStatus string `json:"learning_status"`
}

// CourseDetail is the full per-chapter breakdown of one enrolled course.
type CourseDetail struct {
	CourseID       uint            `json:"course_id"`
	Title          string          `json:"title"`
	Description    string          `json:"description"`
	ThumbnailURL   string          `json:"thumbnail_url"`
	Version        uint            `json:"version"`
	IsLatest       bool            `json:"is_latest"`
	ProgressRate   int             `json:"progress_rate"`
	LearningStatus string          `json:"learning_status"`
	Chapters       []ChapterDetail `json:"chapters"`
	Prerequisites  []RoadmapCourse `json:"prerequisites"`
	NextCourses    []RoadmapCourse `json:"next_courses"`
}

// TimelineEvent is one entry of the reverse-chronological course history.
type TimelineEvent struct {
	Type         string    `json:"type"` // video_progress, test_submitted, chapter_completed
	OccurredAt   time.Time `json:"occurred_at"`
	ChapterID    uint      `json:"chapter_id"`
	ChapterTitle string    `json:"chapter_title"`
	WatchedRate  float64   `json:"watched_rate,omitempty"`
	Score        *int      `json:"score,omitempty"`
	IsPassed     *bool     `json:"is_passed,omitempty"`
}

// GetCourseSummaryForUser builds one summary per enrollment, joining flat
// collections in application code rather than through relationship preloads.
func GetCourseSummaryForUser(db *gorm.DB, userID uint) ([]CourseSummary, error) {
	var enrollments []courseModels.UserCourse
	if err := db.Where("user_id = ?", userID).Find(&enrollments).Error; err != nil {
		return nil, err
	}
	if len(enrollments) == 0 {
		return []CourseSummary{}, nil
	}

	courseIDs := make([]uint, 0, len(enrollments))
	for _, uc := range enrollments {
		courseIDs = append(courseIDs, uc.CourseID)
	}

	var courses []courseModels.Course
	if err := db.Where("id IN ?", courseIDs).Find(&courses).Error; err != nil {
		return nil, err
	}
	coursesByID := make(map[uint]courseModels.Course, len(courses))
	for _, c := range courses {
		coursesByID[c.ID] = c
	}

	latestByID, err := latestVersionFlags(db, courses)
	if err != nil {
		return nil, err
	}

	var chapters []courseModels.Chapter
	if err := db.Where("course_id IN ?", courseIDs).
		Order("course_id, sort_order").
		Find(&chapters).Error; err != nil {
		return nil, err
	}
	chaptersByCourse := make(map[uint][]courseModels.Chapter)
	chapterIDs := make([]uint, 0, len(chapters))
	for _, ch := range chapters {
		chaptersByCourse[ch.CourseID] = append(chaptersByCourse[ch.CourseID], ch)
		chapterIDs = append(chapterIDs, ch.ID)
	}

	var progressRows []courseModels.Progress
	if err := db.Where("user_id = ? AND course_id IN ?", userID, courseIDs).
		Find(&progressRows).Error; err != nil {
		return nil, err
	}
	progressByChapter := make(map[uint]courseModels.Progress, len(progressRows))
	for _, p := range progressRows {
		progressByChapter[p.ChapterID] = p
	}

	// Tests are needed to attribute result timestamps to a course
	var tests []testModels.Test
	if len(chapterIDs) > 0 {
		if err := db.Where("chapter_id IN ?", chapterIDs).Find(&tests).Error; err != nil {
			return nil, err
		}
	}
	testCourseByID := make(map[uint]uint, len(tests))
	chapterCourse := make(map[uint]uint, len(chapters))
	for _, ch := range chapters {
		chapterCourse[ch.ID] = ch.CourseID
	}
	testIDs := make([]uint, 0, len(tests))
	for _, t := range tests {
		testCourseByID[t.ID] = chapterCourse[t.ChapterID]
		testIDs = append(testIDs, t.ID)
	}

	var results []testModels.TestResult
	if len(testIDs) > 0 {
		if err := db.Where("user_id = ? AND test_id IN ?", userID, testIDs).
			Find(&results).Error; err != nil {
			return nil, err
		}
	}
	lastResultByCourse := make(map[uint]time.Time)
	for _, r := range results {
		cid := testCourseByID[r.TestID]
		if r.CreatedAt.After(lastResultByCourse[cid]) {
			lastResultByCourse[cid] = r.CreatedAt
		}
	}

	summaries := make([]CourseSummary, 0, len(enrollments))
	for _, uc := range enrollments {
		c, ok := coursesByID[uc.CourseID]
		if !ok {
			continue
		}

		s := CourseSummary{
			CourseID:       c.ID,
			Title:          c.Title,
			Description:    c.Description,
			ThumbnailURL:   c.ThumbnailURL,
			Version:        c.Version,
			BaseCourseID:   c.FamilyID(),
			IsLatest:       latestByID[c.ID],
			ProgressRate:   uc.ProgressRate,
			LearningStatus: uc.LearningStatus,
		}

		titles := make([]string, 0, len(chaptersByCourse[c.ID]))
		var lastActivity time.Time
		for _, ch := range chaptersByCourse[c.ID] {
			titles = append(titles, ch.Title)

			s.Stats.TotalChapters++
			switch ch.ChapterType {
			case "video":
				s.Stats.TotalVideos++
			case "test":
				s.Stats.TotalTests++
			}

			if pr, ok := progressByChapter[ch.ID]; ok {
				if pr.UpdatedAt.After(lastActivity) {
					lastActivity = pr.UpdatedAt
				}
				if pr.IsCompleted {
					s.Stats.CompletedChapters++
					switch ch.ChapterType {
					case "video":
						s.Stats.CompletedVideos++
					case "test":
						s.Stats.CompletedTests++
					}
				}
			}
		}
		s.ChapterTitles = strings.Join(titles, " ")

		if t, ok := lastResultByCourse[c.ID]; ok && t.After(lastActivity) {
			lastActivity = t
		}
		if !lastActivity.IsZero() {
			at := lastActivity
			s.LastActivityAt = &at
		}

		summaries = append(summaries, s)
	}

	return summaries, nil
}

// FilterSummaries applies the list filters as composable predicates.
func FilterSummaries(summaries []CourseSummary, filter SummaryFilter) []CourseSummary {
	out := make([]CourseSummary, 0, len(summaries))
	keyword := strings.ToLower(strings.TrimSpace(filter.Keyword))

	for _, s := range summaries {
		if filter.LatestOnly && !s.IsLatest {
			continue
		}
		if keyword != "" {
			haystack := strings.ToLower(s.Title + " " + s.Description + " " + s.ChapterTitles)
			if !strings.Contains(haystack, keyword) {
				continue
			}
		}
		if filter.LearningStatus != "" && s.LearningStatus != filter.LearningStatus {
			continue
		}
		if filter.MinProgress != nil && s.ProgressRate < *filter.MinProgress {
			continue
		}
		if filter.MaxProgress != nil && s.ProgressRate > *filter.MaxProgress {
			continue
		}
		out = append(out, s)
	}
	return out
}

// GetCourseDetailForUser builds the per-chapter breakdown with sequential
// locking, per-type chapter progress rates and the course roadmap.
func GetCourseDetailForUser(db *gorm.DB, userID uint, course *courseModels.Course) (*CourseDetail, error) {
	var chapters []courseModels.Chapter
	if err := db.Where("course_id = ?", course.ID).
		Order("sort_order").
		Find(&chapters).Error; err != nil {
		return nil, err
	}

	var progressRows []courseModels.Progress
	if err := db.Where("user_id = ? AND course_id = ?", userID, course.ID).
		Find(&progressRows).Error; err != nil {
		return nil, err
	}
	progressByChapter := make(map[uint]courseModels.Progress, len(progressRows))
	for _, p := range progressRows {
		progressByChapter[p.ChapterID] = p
	}

	chapterIDs := make([]uint, 0, len(chapters))
	for _, ch := range chapters {
		chapterIDs = append(chapterIDs, ch.ID)
	}

	var videos []courseModels.Video
	if len(chapterIDs) > 0 {
		if err := db.Where("chapter_id IN ?", chapterIDs).Find(&videos).Error; err != nil {
			return nil, err
		}
	}
	videoSecondsByChapter := make(map[uint]int)
	for _, v := range videos {
		videoSecondsByChapter[v.ChapterID] += v.Duration
	}

	var tests []testModels.Test
	if len(chapterIDs) > 0 {
		if err := db.Where("chapter_id IN ?", chapterIDs).Find(&tests).Error; err != nil {
			return nil, err
		}
	}
	testByChapter := make(map[uint]testModels.Test, len(tests))
	testIDs := make([]uint, 0, len(tests))
	for _, t := range tests {
		testByChapter[t.ChapterID] = t
		testIDs = append(testIDs, t.ID)
	}

	var results []testModels.TestResult
	if len(testIDs) > 0 {
		if err := db.Where("user_id = ? AND test_id IN ?", userID, testIDs).
			Order("created_at").
			Find(&results).Error; err != nil {
			return nil, err
		}
	}
	latestResultByTest := make(map[uint]testModels.TestResult)
	passedTests := make(map[uint]bool)
	for _, r := range results {
		latestResultByTest[r.TestID] = r
		if r.IsPassed {
			passedTests[r.TestID] = true
		}
	}

	details := make([]ChapterDetail, 0, len(chapters))
	prevCompleted := true // the first chapter is never locked
	for i, ch := range chapters {
		p, hasProgress := progressByChapter[ch.ID]

		d := ChapterDetail{
			ChapterID:            ch.ID,
			Title:                ch.Title,
			ChapterType:          ch.ChapterType,
			SortOrder:            ch.SortOrder,
			Status:               courseModels.StatusNotStarted,
			EstimatedTimeSeconds: videoSecondsByChapter[ch.ID],
		}
		if hasProgress {
			d.WatchedRate = p.WatchedRate
			d.WatchedSeconds = p.WatchedSeconds
			d.LastWatchPosition = p.LastWatchPosition
			if p.IsCompleted {
				d.Status = courseModels.StatusCompleted
			}
		}

		completed := hasProgress && p.IsCompleted

		switch ch.ChapterType {
		case "video":
			d.ChapterProgressRate = d.WatchedRate
		case "test":
			if t, ok := testByChapter[ch.ID]; ok {
				if passedTests[t.ID] {
					d.ChapterProgressRate = 1.0
				}
				if latest, ok := latestResultByTest[t.ID]; ok {
					score := latest.Score
					d.LatestTestScore = &score
					d.TestPassed = passedTests[t.ID]
				}
			} else if completed {
				// No test row configured; fall back to the completion flag
				d.ChapterProgressRate = 1.0
			}
		default:
			if completed {
				d.ChapterProgressRate = 1.0
			}
		}

		// Sequential gating: a gap in the chapter sequence locks everything
		// after it until the predecessor is completed.
		d.IsLocked = !completed && i > 0 && !prevCompleted

		prevCompleted = completed
		details = append(details, d)
	}

	rates, err := GetProgressRates(db, userID, &course.ID)
	if err != nil {
		return nil, err
	}
	progressRate := 0
	if len(rates) > 0 {
		progressRate = rates[0].ProgressRate
	}

	isLatest, err := IsLatestVersion(db, course)
	if err != nil {
		return nil, err
	}

	prereqs, next, err := roadmapForCourse(db, userID, course.ID)
	if err != nil {
		return nil, err
	}

	return &CourseDetail{
		CourseID:       course.ID,
		Title:          course.Title,
		Description:    course.Description,
		ThumbnailURL:   course.ThumbnailURL,
		Version:        course.Version,
		IsLatest:       isLatest,
		ProgressRate:   progressRate,
		LearningStatus: DecideLearningStatus(progressRate),
		Chapters:       details,
		Prerequisites:  prereqs,
		NextCourses:    next,
	}, nil
}

// GetCourseTimeline merges video progress, test submissions and chapter
// completions into one reverse-chronological sequence. Always recomputed
// from current state; nothing is persisted.
func GetCourseTimeline(db *gorm.DB, userID uint, course *courseModels.Course) ([]TimelineEvent, error) {
	var chapters []courseModels.Chapter
	if err := db.Where("course_id = ?", course.ID).Find(&chapters).Error; err != nil {
		return nil, err
	}
	chapterTitle := make(map[uint]string, len(chapters))
	chapterIDs := make([]uint, 0, len(chapters))
	for _, ch := range chapters {
		chapterTitle[ch.ID] = ch.Title
		chapterIDs = append(chapterIDs, ch.ID)
	}

	var progressRows []courseModels.Progress
	if err := db.Where("user_id = ? AND course_id = ?", userID, course.ID).
		Find(&progressRows).Error; err != nil {
		return nil, err
	}

	events := make([]TimelineEvent, 0, len(progressRows)*2)
	for _, p := range progressRows {
		if p.WatchedSeconds > 0 {
			events = append(events, TimelineEvent{
				Type:         "video_progress",
				OccurredAt:   p.UpdatedAt,
				ChapterID:    p.ChapterID,
				ChapterTitle: chapterTitle[p.ChapterID],
				WatchedRate:  p.WatchedRate,
			})
		}
		if p.IsCompleted {
			events = append(events, TimelineEvent{
				Type:         "chapter_completed",
				OccurredAt:   p.UpdatedAt,
				ChapterID:    p.ChapterID,
				ChapterTitle: chapterTitle[p.ChapterID],
			})
		}
	}

	var tests []testModels.Test
	if len(chapterIDs) > 0 {
		if err := db.Where("chapter_id IN ?", chapterIDs).Find(&tests).Error; err != nil {
			return nil, err
		}
	}
	testChapter := make(map[uint]uint, len(tests))
	testIDs := make([]uint, 0, len(tests))
	for _, t := range tests {
		testChapter[t.ID] = t.ChapterID
		testIDs = append(testIDs, t.ID)
	}

	var results []testModels.TestResult
	if len(testIDs) > 0 {
		if err := db.Where("user_id = ? AND test_id IN ?", userID, testIDs).
			Find(&results).Error; err != nil {
			return nil, err
		}
	}
	for _, r := range results {
		chID := testChapter[r.TestID]
		score := r.Score
		passed := r.IsPassed
		events = append(events, TimelineEvent{
			Type:         "test_submitted",
			OccurredAt:   r.CreatedAt,
			ChapterID:    chID,
			ChapterTitle: chapterTitle[chID],
			Score:        &score,
			IsPassed:     &passed,
		})
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].OccurredAt.After(events[j].OccurredAt)
	})

	return events, nil
}

// IsLatestVersion reports whether a course is the active row with the highest
// version in its family. Derived on read; never stored.
func IsLatestVersion(db *gorm.DB, course *courseModels.Course) (bool, error) {
	flags, err := latestVersionFlags(db, []courseModels.Course{*course})
	if err != nil {
		return false, err
	}
	return flags[course.ID], nil
}

// latestVersionFlags resolves the derived latest flag for each given course
// by comparing versions across the active rows of its family.
func latestVersionFlags(db *gorm.DB, courses []courseModels.Course) (map[uint]bool, error) {
	familyIDs := make([]uint, 0, len(courses))
	seen := make(map[uint]bool)
	for _, c := range courses {
		fid := c.FamilyID()
		if !seen[fid] {
			seen[fid] = true
			familyIDs = append(familyIDs, fid)
		}
	}
	if len(familyIDs) == 0 {
		return map[uint]bool{}, nil
	}

	var familyRows []courseModels.Course
	if err := db.Where("is_active = ? AND (base_course_id IN ? OR id IN ?)", true, familyIDs, familyIDs).
		Find(&familyRows).Error; err != nil {
		return nil, err
	}

	maxVersion := make(map[uint]uint)
	for _, c := range familyRows {
		fid := c.FamilyID()
		if c.Version > maxVersion[fid] {
			maxVersion[fid] = c.Version
		}
	}

	flags := make(map[uint]bool, len(courses))
	for _, c := range courses {
		flags[c.ID] = c.IsActive && c.Version == maxVersion[c.FamilyID()]
	}
	return flags, nil
}

// roadmapForCourse resolves incoming and outgoing course_paths edges and
// decorates each referenced course with version and enrollment fields.
func roadmapForCourse(db *gorm.DB, userID, courseID uint) ([]RoadmapCourse, []RoadmapCourse, error) {
	var edges []courseModels.CoursePath
	if err := db.Where("from_course_id = ? OR to_course_id = ?", courseID, courseID).
		Order("sort_order").
		Find(&edges).Error; err != nil {
		return nil, nil, err
	}
	if len(edges) == 0 {
		return []RoadmapCourse{}, []RoadmapCourse{}, nil
	}

	refIDs := make([]uint, 0, len(edges))
	for _, e := range edges {
		if e.FromCourseID == courseID {
			refIDs = append(refIDs, e.ToCourseID)
		} else {
			refIDs = append(refIDs, e.FromCourseID)
		}
	}

	var refCourses []courseModels.Course
	if err := db.Where("id IN ?", refIDs).Find(&refCourses).Error; err != nil {
		return nil, nil, err
	}
	refByID := make(map[uint]courseModels.Course, len(refCourses))
	for _, c := range refCourses {
		refByID[c.ID] = c
	}

	latestByID, err := latestVersionFlags(db, refCourses)
	if err != nil {
		return nil, nil, err
	}

	var enrollments []courseModels.UserCourse
	if err := db.Where("user_id = ? AND course_id IN ?", userID, refIDs).
		Find(&enrollments).Error; err != nil {
		return nil, nil, err
	}
	enrollmentByCourse := make(map[uint]courseModels.UserCourse, len(enrollments))
	for _, uc := range enrollments {
		enrollmentByCourse[uc.CourseID] = uc
	}

	buildRef := func(id uint, sortOrder int) (RoadmapCourse, bool) {
		c, ok := refByID[id]
		if !ok {
			return RoadmapCourse{}, false
		}
		rc := RoadmapCourse{
			CourseID:       c.ID,
			Title:          c.Title,
			ThumbnailURL:   c.ThumbnailURL,
			Version:        c.Version,
			IsLatest:       latestByID[c.ID],
			SortOrder:      sortOrder,
			LearningStatus: courseModels.StatusNotStarted,
		}
		if uc, ok := enrollmentByCourse[c.ID]; ok {
			rc.Enrolled = true
			rc.ProgressRate = uc.ProgressRate
			rc.LearningStatus = uc.LearningStatus
		}
		return rc, true
	}

	prereqs := []RoadmapCourse{}
	next := []RoadmapCourse{}
	for _, e := range edges {
		if e.FromCourseID == courseID {
			if rc, ok := buildRef(e.ToCourseID, e.SortOrder); ok {
				next = append(next, rc)
			}
		} else {
			if rc, ok := buildRef(e.FromCourseID, e.SortOrder); ok {
				prereqs = append(prereqs, rc)
			}
		}
	}

	return prereqs, next, nil
}
