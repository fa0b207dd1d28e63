package utils

import (
	"log"
	"time"

	"langit/config"

	"github.com/go-resty/resty/v2"
)

var webhookClient = resty.New().SetTimeout(10 * time.Second)

// NotifyCourseCompleted posts a completion event to the configured webhook.
// Fire-and-forget: failures are logged, never surfaced to the request.
func NotifyCourseCompleted(userID, courseID uint) {
	url := config.AppConfig.CompletionWebhookURL
	if url == "" {
		return
	}

	go func() {
		resp, err := webhookClient.R().
			SetHeader("Content-Type", "application/json").
			SetBody(map[string]interface{}{
				"event":        "course.completed",
				"user_id":      userID,
				"course_id":    courseID,
				"completed_at": time.Now().Format(time.RFC3339),
			}).
			Post(url)
		if err != nil {
			log.Printf("Completion webhook failed: %v", err)
			return
		}
		if resp.IsError() {
			log.Printf("Completion webhook returned %d", resp.StatusCode())
		}
	}()
}
