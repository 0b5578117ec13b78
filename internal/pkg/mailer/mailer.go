package mailer

import (
	"fmt"
	"net/smtp"
	"strings"

	"campuslink/internal/config"
)

// Email 一封待发送的邮件
type Email struct {
	To      string
	Subject string
	Body    string
}

// Mailer SMTP 邮件发送器
// 通知邮件是尽力而为的：发送失败由调用方记录日志，不会导致业务操作失败
type Mailer struct {
	host     string
	port     int
	username string
	password string
	from     string
	siteName string
}

// NewMailer 创建邮件发送器
func NewMailer(cfg *config.MailConfig) *Mailer {
	return &Mailer{
		host:     cfg.Host,
		port:     cfg.Port,
		username: cfg.Username,
		password: cfg.Password,
		from:     cfg.From,
		siteName: cfg.SiteName,
	}
}

// SiteName 获取站点名称
func (m *Mailer) SiteName() string {
	return m.siteName
}

// Send 发送邮件
func (m *Mailer) Send(email Email) error {
	addr := fmt.Sprintf("%s:%d", m.host, m.port)

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", m.from)
	fmt.Fprintf(&b, "To: %s\r\n", email.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", email.Subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(email.Body)

	// 本地调试SMTP（如mailhog）不需要认证
	var auth smtp.Auth
	if m.username != "" {
		auth = smtp.PlainAuth("", m.username, m.password, m.host)
	}

	return smtp.SendMail(addr, auth, m.from, []string{email.To}, []byte(b.String()))
}
