package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// attemptLog 记录单个客户端 IP 在限流窗口内的尝试时间
type attemptLog struct {
	attempts []time.Time
}

// prune 丢弃窗口外的尝试，返回窗口内剩余数量
func (l *attemptLog) prune(cutoff time.Time) int {
	kept := l.attempts[:0]
	for _, at := range l.attempts {
		if at.After(cutoff) {
			kept = append(kept, at)
		}
	}
	l.attempts = kept
	return len(kept)
}

// LoginRateLimit 按客户端 IP 对登录接口限流。
// 窗口 window 内同一 IP 已有 maxAttempts 次尝试后返回 429，
// 并带 Retry-After 响应头。
func LoginRateLimit(maxAttempts int, window time.Duration) gin.HandlerFunc {
	var (
		mu      sync.Mutex
		clients = make(map[string]*attemptLog)
	)

	// 后台回收长时间无尝试的 IP，避免 map 无限增长
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			mu.Lock()
			cutoff := time.Now().Add(-window)
			for ip, l := range clients {
				if l.prune(cutoff) == 0 {
					delete(clients, ip)
				}
			}
			mu.Unlock()
		}
	}()

	return func(c *gin.Context) {
		ip := c.ClientIP()
		now := time.Now()

		mu.Lock()
		l, ok := clients[ip]
		if !ok {
			l = &attemptLog{}
			clients[ip] = l
		}
		if l.prune(now.Add(-window)) >= maxAttempts {
			mu.Unlock()
			c.Header("Retry-After", strconv.Itoa(int(window.Seconds())))
			c.JSON(http.StatusTooManyRequests, gin.H{
				"code":    http.StatusTooManyRequests,
				"message": "登录尝试过于频繁，请稍后再试",
			})
			c.Abort()
			return
		}
		l.attempts = append(l.attempts, now)
		mu.Unlock()

		c.Next()
	}
}
