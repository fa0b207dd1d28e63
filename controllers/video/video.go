package videoController

import (
	"errors"

	"langit/middleware"
	"langit/services"

	"github.com/gofiber/fiber/v2"
)

// GetVideoMeta returns playback metadata and the user's stored watch state.
func GetVideoMeta(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	db := middleware.TenantDB(c)
	videoID := c.Locals("videoID").(uint)

	video, chapter, course, err := services.ResolveVideoForUser(db, userID, videoID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Video not found!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch video!", nil)
	}

	progress, err := services.WatchStateFor(db, userID, course.ID, chapter.ID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch video!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Video fetched successfully.", fiber.Map{
		"video": fiber.Map{
			"id":        video.ID,
			"title":     video.Title,
			"video_url": video.VideoURL,
			"duration":  video.Duration,
		},
		"chapter_id": chapter.ID,
		"course_id":  course.ID,
		"watch_state": fiber.Map{
			"watched_seconds":     progress.WatchedSeconds,
			"watched_rate":        progress.WatchedRate,
			"last_watch_position": progress.LastWatchPosition,
			"is_completed":        progress.IsCompleted,
		},
	})
}

// RecordEvent stores the position where playback last stopped.
func RecordEvent(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData := c.Locals("validatedEvent").(*struct {
		Position *int `json:"position"`
	})

	db := middleware.TenantDB(c)
	videoID := c.Locals("videoID").(uint)

	if err := services.RecordEvent(db, userID, videoID, *reqData.Position); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Video not found!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to record event!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Event recorded successfully.", nil)
}

// UpdateProgress ingests an accumulated watch time and returns the chapter
// watch status.
func UpdateProgress(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData := c.Locals("validatedProgress").(*struct {
		WatchTime *int `json:"watch_time"`
	})

	db := middleware.TenantDB(c)
	videoID := c.Locals("videoID").(uint)

	status, watchedRate, err := services.UpdateProgress(db, userID, videoID, *reqData.WatchTime)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Video not found!", nil)
		}
		if errors.Is(err, services.ErrInvalidInput) {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"watch_time": services.Detail(err),
			})
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update progress!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress updated successfully.", fiber.Map{
		"status":       status,
		"watched_rate": watchedRate,
	})
}
