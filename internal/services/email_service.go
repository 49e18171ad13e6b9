package services

import (
	"fmt"
	"gopkg.in/gomail.v2"
)

type EmailService interface {
	SendCommentNotification(email, articleTitle, commenter string) error
}

type emailService struct {
	dialer *gomail.Dialer
	from   string
}

func NewEmailService(smtpHost string, smtpPort int, smtpUser, smtpPassword, fromEmail string) EmailService {
	dialer := gomail.NewDialer(smtpHost, smtpPort, smtpUser, smtpPassword)
	return &emailService{
		dialer: dialer,
		from:   fromEmail,
	}
}

func (s *emailService) SendCommentNotification(email, articleTitle, commenter string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", email)
	m.SetHeader("Subject", "Новый комментарий к вашей статье")

	body := fmt.Sprintf(`
		<h3>Новый комментарий</h3>
		<p>Пользователь <strong>%s</strong> оставил комментарий к статье «%s».</p>
		<p>Зайдите на сайт, чтобы ответить.</p>
	`, commenter, articleTitle)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send comment notification: %w", err)
	}

	return nil
}
