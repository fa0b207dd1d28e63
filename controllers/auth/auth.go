package authController

import (
	"log"
	"time"

	"langit/config"
	"langit/middleware"
	"langit/models"
	"langit/utils"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	maxFailedAttempts = 5
	lockoutWindow     = 15 * time.Minute
	mfaCodeLifetime   = 10 * time.Minute
)

func Login(c *fiber.Ctx) error {
	reqData := c.Locals("validatedLogin").(*struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	})

	db := middleware.TenantDB(c)
	if db == nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Unknown tenant!", nil)
	}

	var user models.User
	if err := db.Where("email = ?", reqData.Email).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid email or password!", nil)
	}

	if user.Status != "active" {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Your account is not active!", nil)
	}

	// Lockout: too many recent failures blocks further attempts for a while
	if user.FailedLoginAttempts >= maxFailedAttempts && user.LastFailedLogin != nil &&
		time.Since(*user.LastFailedLogin) < lockoutWindow {
		return middleware.JsonResponse(c, fiber.StatusLocked, false, "Account temporarily locked. Try again later!", nil)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(reqData.Password)); err != nil {
		now := time.Now()
		if user.LastFailedLogin == nil || time.Since(*user.LastFailedLogin) >= lockoutWindow {
			user.FailedLoginAttempts = 0
		}
		user.FailedLoginAttempts++
		user.LastFailedLogin = &now
		db.Save(&user)
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid email or password!", nil)
	}

	user.FailedLoginAttempts = 0
	user.LastFailedLogin = nil

	// Admins with MFA enabled finish the login with an emailed code
	if user.Role == "admin" && user.MfaEnabled {
		code, err := utils.GenerateMfaCode()
		if err != nil {
			log.Printf("Error generating MFA code: %v", err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
		}

		hashedCode, err := bcrypt.GenerateFromPassword([]byte(code), config.AppConfig.SaltRound)
		if err != nil {
			log.Printf("Error hashing MFA code: %v", err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
		}

		expiresAt := time.Now().Add(mfaCodeLifetime)
		user.MfaEmailCode = string(hashedCode)
		user.MfaEmailCodeExpiresAt = &expiresAt
		if err := db.Save(&user).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
		}

		utils.SendMfaCodeEmail(user.Email, user.Name, code)

		return middleware.JsonResponse(c, fiber.StatusOK, true, "Verification code sent to your email.", fiber.Map{
			"mfa_required": true,
		})
	}

	if err := db.Save(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}

	return issueSession(c, db, &user)
}

func VerifyMfa(c *fiber.Ctx) error {
	reqData := c.Locals("validatedMfa").(*struct {
		Email string `json:"email"`
		Code  string `json:"code"`
	})

	db := middleware.TenantDB(c)
	if db == nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Unknown tenant!", nil)
	}

	var user models.User
	if err := db.Where("email = ?", reqData.Email).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid code!", nil)
	}

	if user.MfaEmailCode == "" || user.MfaEmailCodeExpiresAt == nil ||
		time.Now().After(*user.MfaEmailCodeExpiresAt) {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Code expired. Please login again!", nil)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.MfaEmailCode), []byte(reqData.Code)); err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid code!", nil)
	}

	// One-shot code
	user.MfaEmailCode = ""
	user.MfaEmailCodeExpiresAt = nil
	if err := db.Save(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}

	return issueSession(c, db, &user)
}

func ChangePassword(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData := c.Locals("validatedPassword").(*struct {
		OldPassword string `json:"old_password"`
		NewPassword string `json:"new_password"`
	})

	db := middleware.TenantDB(c)
	if db == nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Unknown tenant!", nil)
	}

	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(reqData.OldPassword)); err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Old password is incorrect!", nil)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(reqData.NewPassword), config.AppConfig.SaltRound)
	if err != nil {
		log.Printf("Error hashing password: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}

	user.Password = string(hashedPassword)
	if err := db.Save(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update password!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Password updated successfully.", nil)
}

func LoginHistoryList(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	db := middleware.TenantDB(c)
	if db == nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Unknown tenant!", nil)
	}

	var history []models.LoginHistory
	if err := db.Where("user_id = ?", userID).
		Order("logged_in_at DESC").
		Limit(50).
		Find(&history).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch login history!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Login history fetched successfully.", history)
}

// issueSession finalizes a successful authentication: stamps the login,
// records history and returns the signed token.
func issueSession(c *fiber.Ctx, db *gorm.DB, user *models.User) error {
	now := time.Now()
	user.LastLoginAt = &now
	if err := db.Save(user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}

	history := models.LoginHistory{
		UserID:     user.ID,
		LoggedInAt: now,
		IPAddress:  c.IP(),
		UserAgent:  c.Get("User-Agent"),
	}
	if err := db.Create(&history).Error; err != nil {
		log.Printf("Error recording login history: %v", err)
	}

	utils.SendLoginNotificationEmail(user.Email, user.Name, history.IPAddress, history.UserAgent, now.Format(time.RFC1123))

	token, err := middleware.GenerateJWT(user.ID, user.Name, user.Role, user.Email)
	if err != nil {
		log.Printf("Error generating JWT: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Login successful.", fiber.Map{
		"token": token,
		"user": fiber.Map{
			"id":    user.ID,
			"name":  user.Name,
			"email": user.Email,
			"role":  user.Role,
		},
	})
}
