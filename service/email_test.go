package service

import (
	"testing"

	"spendtrack/config"

	"github.com/stretchr/testify/assert"
)

func newTestEmailService() *EmailService {
	return NewEmailService(&config.EmailConfig{})
}

func TestGenerateResetEmailBody(t *testing.T) {
	s := newTestEmailService()
	body := s.generateResetEmailBody("张三", "https://example.com/reset?token=abc")
	assert.Contains(t, body, "张三")
	assert.Contains(t, body, "https://example.com/reset?token=abc")
	assert.Contains(t, body, "重置密码")
	assert.Contains(t, body, "30 分钟")
}

func TestSendPasswordResetEmail_Disabled(t *testing.T) {
	s := newTestEmailService()

	// 未启用邮件服务时直接报错，不尝试连接 SMTP
	err := s.SendPasswordResetEmail("a@b.com", "张三", "https://example.com/reset")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "邮件服务未启用")
}
