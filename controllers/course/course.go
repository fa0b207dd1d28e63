package courseController

import (
	"errors"

	"langit/middleware"
	courseModels "langit/models/course"
	"langit/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// GetCourseList returns the user's enrolled courses with computed progress,
// narrowed by the validated list filters.
func GetCourseList(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData := c.Locals("validatedList").(*struct {
		Keyword        string `query:"keyword"`
		LearningStatus string `query:"learning_status"`
		MinProgress    *int   `query:"min_progress"`
		MaxProgress    *int   `query:"max_progress"`
		LatestOnly     bool   `query:"latest_only"`
	})

	db := middleware.TenantDB(c)

	summaries, err := services.GetCourseSummaryForUser(db, userID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}

	filtered := services.FilterSummaries(summaries, services.SummaryFilter{
		Keyword:        reqData.Keyword,
		LearningStatus: reqData.LearningStatus,
		MinProgress:    reqData.MinProgress,
		MaxProgress:    reqData.MaxProgress,
		LatestOnly:     reqData.LatestOnly,
	})

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully.", fiber.Map{
		"courses": filtered,
		"total":   len(filtered),
	})
}

// GetCourseDetail returns the per-chapter breakdown of one enrolled course.
func GetCourseDetail(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	db := middleware.TenantDB(c)

	course, err := enrolledCourse(db, userID, c.Locals("courseID").(uint))
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch course!", nil)
	}

	detail, err := services.GetCourseDetailForUser(db, userID, course)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course fetched successfully.", detail)
}

// GetCourseTimeline returns the reverse-chronological activity history for
// one enrolled course.
func GetCourseTimeline(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	db := middleware.TenantDB(c)

	course, err := enrolledCourse(db, userID, c.Locals("courseID").(uint))
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch timeline!", nil)
	}

	events, err := services.GetCourseTimeline(db, userID, course)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch timeline!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Timeline fetched successfully.", fiber.Map{
		"events": events,
	})
}

// enrolledCourse loads a course and verifies the user's enrollment. A missing
// course and a missing enrollment are both reported as ErrNotFound.
func enrolledCourse(db *gorm.DB, userID, courseID uint) (*courseModels.Course, error) {
	var course courseModels.Course
	if err := db.First(&course, courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, services.ErrNotFound
		}
		return nil, err
	}

	var enrolled int64
	if err := db.Model(&courseModels.UserCourse{}).
		Where("user_id = ? AND course_id = ?", userID, course.ID).
		Count(&enrolled).Error; err != nil {
		return nil, err
	}
	if enrolled == 0 {
		return nil, services.ErrNotFound
	}

	return &course, nil
}
