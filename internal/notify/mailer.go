package notify

import (
	"context"
	"fmt"
	"strings"

	"gopkg.in/gomail.v2"

	"github.com/suryarapeti/TalentIQ-HRAgent/internal/config"
)

// SMTPNotifier 通过认证的STARTTLS SMTP会话发送纯文本邮件
type SMTPNotifier struct {
	dialer *gomail.Dialer
	sender string
}

// NewSMTPNotifier 创建SMTP通知器。发件人或密码未配置时返回错误，
// 调用方可据此降级为"邮件通知不可用"。
func NewSMTPNotifier(cfg *config.SMTPConfig) (*SMTPNotifier, error) {
	if cfg.Sender == "" || cfg.Password == "" {
		return nil, fmt.Errorf("邮件凭证未配置 (EMAIL_SENDER / SMTP_PASSWORD)")
	}

	dialer := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Sender, cfg.Password)

	return &SMTPNotifier{
		dialer: dialer,
		sender: cfg.Sender,
	}, nil
}

// Send 发送一封纯文本邮件
func (n *SMTPNotifier) Send(ctx context.Context, to string, subject string, body string) error {
	to = strings.TrimSpace(to)
	if to == "" {
		return fmt.Errorf("收件人地址为空")
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", n.sender)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	if err := n.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("发送邮件到 %s 失败: %w", to, err)
	}
	return nil
}
