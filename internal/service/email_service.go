package service

import (
	"context"
	"crypto/subtle"

	"yatube/internal/observability"
	"yatube/internal/pkg"
	"yatube/internal/repository/redis"

	goredis "github.com/redis/go-redis/v9"
)

const (
	ScopeReset = "reset"

	// MaxCodeAttempts 连续输错这么多次后验证码作废
	MaxCodeAttempts = 5
)

type EmailService struct {
	emailCfg pkg.SMTPConfig
	rds      *redis.EmailRepository
	send     pkg.MailSender
}

// NewEmailService send 为 nil 时走 SMTP
func NewEmailService(cfg pkg.SMTPConfig, rdb *goredis.Client, send pkg.MailSender) *EmailService {
	if send == nil {
		send = pkg.SendEmail
	}
	return &EmailService{
		emailCfg: cfg,
		rds:      &redis.EmailRepository{RDB: rdb},
		send:     send,
	}
}

// SendResetCode 发送重置密码验证码
func (s *EmailService) SendResetCode(ctx context.Context, email string) error {
	code, err := pkg.RandDigits(6)
	if err != nil {
		return err
	}

	// 先写入pending键
	if err = s.rds.SavePending(ctx, ScopeReset, email, code); err != nil {
		return err
	}

	mail, err := pkg.NewCodeMail(email, "Password reset code", "a password reset", code, redis.DefaultEmailCodeTTL)
	if err != nil {
		_ = s.rds.DeletePending(ctx, ScopeReset, email)
		return err
	}
	if err = s.send(s.emailCfg, mail); err != nil {
		_ = s.rds.DeletePending(ctx, ScopeReset, email)
		return err
	}

	// 邮件发送后再将pending转为confirmed
	if err = s.rds.Confirm(ctx, ScopeReset, email); err != nil {
		_ = s.rds.DeletePending(ctx, ScopeReset, email)
		return err
	}
	return nil
}

// VerifyCode 校验验证码并一次性删除；错误次数达到上限时验证码同样作废
func (s *EmailService) VerifyCode(ctx context.Context, scope, email, code string) (bool, error) {
	val, err := s.rds.GetConfirmed(ctx, scope, email)
	if err != nil {
		// 不存在或已过期
		return false, err
	}
	if subtle.ConstantTimeCompare([]byte(val), []byte(code)) != 1 {
		n, err := s.rds.IncrAttempts(ctx, scope, email)
		if err != nil {
			return false, err
		}
		if n >= MaxCodeAttempts {
			observability.Logger.WarnContext(ctx, "verification code burned after repeated failures", "scope", scope)
			if err = s.rds.DeleteConfirmed(ctx, scope, email); err != nil {
				return false, err
			}
		}
		return false, nil
	}
	if err = s.rds.DeleteConfirmed(ctx, scope, email); err != nil {
		return false, err
	}
	return true, nil
}
