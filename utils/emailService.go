package utils

import (
	"fmt"
	"html"
)

// Email is a single transactional message to one recipient.
type Email struct {
	ToEmail string
	ToName  string
	Subject string
	HTML    string
	Text    string
}

// HTML wrapper shared by every LearnHub email
func getEmailTemplate(title string, bodyContent string) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; background-color: #F6F6F6; margin: 0; padding: 0; }
			.container { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; overflow: hidden; box-shadow: 0 4px 15px rgba(0,0,0,0.05); }
			.header { background-color: #1E2A78; padding: 30px; text-align: center; }
			.header h1 { color: #FFFFFF; margin: 0; font-size: 24px; letter-spacing: 1px; }
			.content { padding: 40px 30px; color: #1E2A78; line-height: 1.6; }
			.content h2 { color: #1E2A78; margin-top: 0; }
			.footer { background-color: #F6F6F6; padding: 20px; text-align: center; font-size: 12px; color: #666666; border-top: 1px solid #E0E0E0; }
			.btn { display: inline-block; padding: 12px 24px; background-color: #F2A541; color: #FFFFFF; text-decoration: none; border-radius: 4px; font-weight: bold; margin-top: 20px; }
			.info-box { background: #EEF1FB; padding: 15px; border-radius: 4px; border-left: 4px solid #F2A541; margin: 20px 0; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header">
				<h1>LEARNHUB</h1>
			</div>
			<div class="content">
				<h2>%s</h2>
				%s
			</div>
			<div class="footer">
				&copy; LearnHub. All rights reserved.
			</div>
		</div>
	</body>
	</html>
	`, title, bodyContent)
}

// --- Messages ---

// 1. Welcome / Signup
func WelcomeEmail(email, name string) Email {
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Welcome to <strong>LearnHub</strong>! Your account has been created.</p>
		<p>Browse the catalog and enroll in your first course whenever you are ready.</p>
	`, html.EscapeString(name))

	return Email{
		ToEmail: email,
		ToName:  name,
		Subject: "Welcome to LearnHub",
		HTML:    getEmailTemplate("Welcome Onboard!", body),
		Text:    fmt.Sprintf("Dear %s, welcome to LearnHub! Your account has been created.", name),
	}
}

// 2. Enrollment Confirmation
func EnrollmentEmail(email, name, courseTitle string) Email {
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>You are now enrolled in <strong>%s</strong>.</p>
		<div class="info-box">Watch each lesson to the end to mark it complete. Your certificate becomes available once every lesson is done.</div>
	`, html.EscapeString(name), html.EscapeString(courseTitle))

	return Email{
		ToEmail: email,
		ToName:  name,
		Subject: "Enrollment Confirmed: " + courseTitle,
		HTML:    getEmailTemplate("Enrollment Confirmed", body),
		Text:    fmt.Sprintf("Dear %s, you are now enrolled in %s.", name, courseTitle),
	}
}

// 3. Certificate Issued
func CertificateIssuedEmail(email, name, courseTitle, number, verifyURL string) Email {
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Congratulations on completing <strong>%s</strong>!</p>
		<div class="info-box"><strong>Certificate No:</strong> %s</div>
		<a class="btn" href="%s">Verify Certificate</a>
	`, html.EscapeString(name), html.EscapeString(courseTitle), html.EscapeString(number), html.EscapeString(verifyURL))

	return Email{
		ToEmail: email,
		ToName:  name,
		Subject: "Your certificate for " + courseTitle,
		HTML:    getEmailTemplate("Certificate of Completion", body),
		Text:    fmt.Sprintf("Dear %s, congratulations on completing %s. Certificate No: %s. Verify at %s", name, courseTitle, number, verifyURL),
	}
}

// 4. Login Notification
func LoginNotificationEmail(email, name, ip, device, timeStr string) Email {
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>We noticed a new login to your account.</p>
		<div class="info-box" style="background: #FFFFFF; border: 1px solid #E0E0E0; border-left: 4px solid #F2A541;">
			<ul style="list-style: none; padding: 0; margin: 0;">
				<li style="margin-bottom: 8px;"><strong>Time:</strong> %s</li>
				<li style="margin-bottom: 8px;"><strong>IP Address:</strong> %s</li>
				<li><strong>Device:</strong> %s</li>
			</ul>
		</div>
		<p>If this was you, you can safely ignore this email.</p>
	`, html.EscapeString(name), timeStr, html.EscapeString(ip), html.EscapeString(device))

	return Email{
		ToEmail: email,
		ToName:  name,
		Subject: "New Login Alert",
		HTML:    getEmailTemplate("New Login Detected", body),
		Text:    fmt.Sprintf("Dear %s, new login at %s from %s (%s).", name, timeStr, ip, device),
	}
}
