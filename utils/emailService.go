package utils

import (
	"fmt"
	"net/smtp"
	"strings"

	"langit/config"
)

// Generic Send Email
func SendEmail(to []string, subject string, htmlBody string) error {
	smtpHost := "smtp.gmail.com"
	smtpPort := "587"

	from := config.AppConfig.EmailSender
	password := config.AppConfig.Password

	// MIME basics
	msg := "MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n"
	msg += fmt.Sprintf("From: Langit Learning <%s>\r\n", from)
	msg += fmt.Sprintf("To: %s\r\n", strings.Join(to, ","))
	msg += fmt.Sprintf("Subject: %s\r\n\r\n", subject)
	msg += htmlBody

	auth := smtp.PlainAuth("", from, password, smtpHost)

	err := smtp.SendMail(smtpHost+":"+smtpPort, auth, from, to, []byte(msg))
	if err != nil {
		fmt.Println("Error sending email:", err)
		return err
	}
	return nil
}

func getEmailTemplate(title string, bodyContent string) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; background-color: #F6F6F6; margin: 0; padding: 0; }
			.container { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; overflow: hidden; box-shadow: 0 4px 15px rgba(0,0,0,0.05); }
			.header { background-color: #1A237E; padding: 30px; text-align: center; }
			.header h1 { color: #FFFFFF; margin: 0; font-size: 24px; letter-spacing: 1px; }
			.content { padding: 40px 30px; color: #1A237E; line-height: 1.6; }
			.content h2 { color: #1A237E; margin-top: 0; }
			.footer { background-color: #F6F6F6; padding: 20px; text-align: center; font-size: 12px; color: #666666; border-top: 1px solid #E0E0E0; }
			.code-box { background: #E8F0FE; padding: 15px; border-radius: 4px; text-align: center; font-size: 28px; letter-spacing: 8px; font-weight: bold; margin: 20px 0; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header">
				<h1>LANGIT LEARNING</h1>
			</div>
			<div class="content">
				<h2>%s</h2>
				%s
			</div>
			<div class="footer">
				&copy; 2026 Langit Learning. All rights reserved.
			</div>
		</div>
	</body>
	</html>
	`, title, bodyContent)
}

// --- Triggers ---

// 1. Admin MFA verification code
func SendMfaCodeEmail(email, name, code string) {
	subject := "Your verification code"
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Use the code below to finish signing in. It expires in 10 minutes.</p>
		<div class="code-box">%s</div>
		<p>If you did not try to sign in, please change your password immediately.</p>
	`, name, code)

	go SendEmail([]string{email}, subject, getEmailTemplate("Sign-in Verification", body))
}

// 2. Login Notification
func SendLoginNotificationEmail(email, name, ip, device, timeStr string) {
	subject := "New Login Alert"
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>We noticed a new login to your account.</p>
		<ul>
			<li><strong>Time:</strong> %s</li>
			<li><strong>IP Address:</strong> %s</li>
			<li><strong>Device:</strong> %s</li>
		</ul>
		<p>If this was you, you can safely ignore this email.</p>
	`, name, timeStr, ip, device)

	go SendEmail([]string{email}, subject, getEmailTemplate("New Login Detected", body))
}

// 3. Course Completed
func SendCourseCompletedEmail(email, name, courseTitle string) {
	subject := "Course Completed: " + courseTitle
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Congratulations! You have completed <strong>%s</strong>.</p>
		<p>Check your dashboard for recommended next courses.</p>
	`, name, courseTitle)

	go SendEmail([]string{email}, subject, getEmailTemplate("Congratulations!", body))
}
