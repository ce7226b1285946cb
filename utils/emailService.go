package utils

import (
	"anwaar/config"
	"fmt"
	"net/smtp"
	"strings"
)

// Generic Send Email
func SendEmail(to []string, subject string, htmlBody string) error {
	smtpHost := "smtp.gmail.com"
	smtpPort := "587"

	from := config.AppConfig.EmailSender
	password := config.AppConfig.Password

	// MIME basics
	msg := "MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n"
	msg += fmt.Sprintf("From: Anwaar Tafsiir <%s>\r\n", from)
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
			.header { background-color: #064E3B; padding: 30px; text-align: center; }
			.header h1 { color: #FFFFFF; margin: 0; font-size: 24px; letter-spacing: 1px; }
			.content { padding: 40px 30px; color: #064E3B; line-height: 1.6; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header"><h1>%s</h1></div>
			<div class="content">%s</div>
		</div>
	</body>
	</html>`, title, bodyContent)
}

// SendCourseCompletionEmail tells the instructor a student finished a surah.
func SendCourseCompletionEmail(studentName, surahName string) error {
	if config.AppConfig.InstructorEmail == "" {
		return nil
	}

	body := fmt.Sprintf(`
		<p>Assalamu alaykum Macalin,</p>
		<p><strong>%s</strong> waxay si guul leh u dhameysatay Tafsiirka <strong>%s</strong>.</p>
		<p>Waxaad karaa inaad furto casharka xiga ee ardayga.</p>`,
		studentName, surahName)

	return SendEmail(
		[]string{config.AppConfig.InstructorEmail},
		fmt.Sprintf("Cashar Dhamaystiran: %s", studentName),
		getEmailTemplate("Anwaar Tafsiir", body),
	)
}
