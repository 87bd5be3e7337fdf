package pkg

import (
	"bytes"
	"crypto/tls"
	"errors"
	"html/template"
	"time"

	"gopkg.in/gomail.v2"
)

var ErrSMTPNotConfigured = errors.New("smtp host not configured")

type SMTPConfig struct {
	Host     string
	Port     int
	Username string // 发件人邮箱
	Password string // 授权码/密码
	From     string // 显示的发件人，为空时用 Username
}

func (c SMTPConfig) sender() string {
	if c.From != "" {
		return c.From
	}
	return c.Username
}

// Mail 一封待发送的 HTML 邮件
type Mail struct {
	To      string
	Subject string
	HTML    string
}

// MailSender 便于测试替换
type MailSender func(cfg SMTPConfig, m Mail) error

func SendEmail(cfg SMTPConfig, mail Mail) error {
	if cfg.Host == "" {
		return ErrSMTPNotConfigured
	}
	m := gomail.NewMessage()
	m.SetHeader("From", cfg.sender())
	m.SetHeader("To", mail.To)
	m.SetHeader("Subject", mail.Subject)
	m.SetBody("text/html", mail.HTML)

	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	d.TLSConfig = &tls.Config{ServerName: cfg.Host}
	return d.DialAndSend(m)
}

var codeMailTmpl = template.Must(template.New("code").Parse(
	`<p>Hello,</p><p>You requested <b>{{.Action}}</b>. Your code is <b style="font-size:18px;">{{.Code}}</b>.</p>` +
		`<p>It expires in {{.Minutes}} minutes. Do not share it with anyone.</p>`))

// NewCodeMail 验证码邮件，subject 由用途决定
func NewCodeMail(to, subject, action, code string, ttl time.Duration) (Mail, error) {
	var buf bytes.Buffer
	err := codeMailTmpl.Execute(&buf, struct {
		Action  string
		Code    string
		Minutes int
	}{action, code, int(ttl.Minutes())})
	if err != nil {
		return Mail{}, err
	}
	return Mail{To: to, Subject: subject, HTML: buf.String()}, nil
}
