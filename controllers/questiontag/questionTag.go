package questionTagController

import (
	"errors"

	"langit/middleware"
	"langit/services"

	"github.com/gofiber/fiber/v2"
)

// GetTagList returns all question tags.
func GetTagList(c *fiber.Ctx) error {
	db := middleware.TenantDB(c)

	tags, err := services.ListQuestionTags(db, c.Query("keyword"))
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch tags!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Tags fetched successfully.", fiber.Map{
		"tags": tags,
	})
}

// StoreTag creates a new question tag.
func StoreTag(c *fiber.Ctx) error {
	reqData := c.Locals("validatedTag").(*struct {
		Name string `json:"name"`
		Slug string `json:"slug"`
	})

	db := middleware.TenantDB(c)

	tag, err := services.CreateQuestionTag(db, reqData.Name, reqData.Slug)
	if err != nil {
		if errors.Is(err, services.ErrInvalidInput) {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, services.Detail(err), nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create tag!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Tag created successfully.", tag)
}

// UpdateTag renames a question tag.
func UpdateTag(c *fiber.Ctx) error {
	reqData := c.Locals("validatedTag").(*struct {
		Name string `json:"name"`
		Slug string `json:"slug"`
	})

	db := middleware.TenantDB(c)
	tagID := c.Locals("tagID").(uint)

	tag, err := services.UpdateQuestionTag(db, tagID, reqData.Name, reqData.Slug)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Tag not found!", nil)
		}
		if errors.Is(err, services.ErrInvalidInput) {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, services.Detail(err), nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update tag!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Tag updated successfully.", tag)
}

// DestroyTag deletes a tag unless questions still reference it.
func DestroyTag(c *fiber.Ctx) error {
	db := middleware.TenantDB(c)
	tagID := c.Locals("tagID").(uint)

	if err := services.DeleteQuestionTag(db, tagID); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Tag not found!", nil)
		}
		if errors.Is(err, services.ErrInvalidInput) {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, services.Detail(err), nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete tag!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Tag deleted successfully.", nil)
}

// SyncTags replaces a question's tag set.
func SyncTags(c *fiber.Ctx) error {
	reqData := c.Locals("validatedSync").(*struct {
		TagIDs []uint `json:"tag_ids"`
	})

	db := middleware.TenantDB(c)
	questionID := c.Locals("questionID").(uint)

	if err := services.SyncQuestionTags(db, questionID, reqData.TagIDs); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Question not found!", nil)
		}
		if errors.Is(err, services.ErrInvalidInput) {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, services.Detail(err), nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to sync tags!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Tags synced successfully.", nil)
}

// GetTagStats returns the authenticated user's per-tag answer accuracy.
func GetTagStats(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	db := middleware.TenantDB(c)

	stats, err := services.TagAccuracyForUser(db, userID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch stats!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Stats fetched successfully.", fiber.Map{
		"stats": stats,
	})
}
