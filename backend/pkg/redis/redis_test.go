package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"go.uber.org/zap"

	"hospital-asset/backend/config"
)

func newTestClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c, err := NewClient(&config.RedisConfig{Addr: mr.Addr()}, zap.NewNop())
	if err != nil {
		t.Fatalf("NewClient 失败: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestBlacklist(t *testing.T) {
	c, mr := newTestClient(t)
	ctx := context.Background()

	if err := c.BlacklistToken(ctx, "jti-1", time.Hour); err != nil {
		t.Fatalf("BlacklistToken 失败: %v", err)
	}
	ok, err := c.IsBlacklisted(ctx, "jti-1")
	if err != nil || !ok {
		t.Errorf("期望 jti-1 已在黑名单，实际=%v err=%v", ok, err)
	}
	if ttl := mr.TTL(blacklistPrefix + "jti-1"); ttl != time.Hour {
		t.Errorf("期望 TTL=1h，实际=%v", ttl)
	}

	if ok, _ := c.IsBlacklisted(ctx, "jti-2"); ok {
		t.Error("未加入的 jti 不应在黑名单")
	}
}

func TestBlacklist_ExpiredTokenSkipped(t *testing.T) {
	c, mr := newTestClient(t)

	if err := c.BlacklistToken(context.Background(), "old", 0); err != nil {
		t.Fatalf("BlacklistToken 失败: %v", err)
	}
	if mr.Exists(blacklistPrefix + "old") {
		t.Error("已过期的 token 不应写入黑名单")
	}
}

func TestCheckRateLimit_SameInstantCountsEachRequest(t *testing.T) {
	c, _ := newTestClient(t)
	fixed := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return fixed }
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		allowed, err := c.CheckRateLimit(ctx, "rl:test", 3, time.Minute)
		if err != nil {
			t.Fatalf("CheckRateLimit 失败: %v", err)
		}
		if !allowed {
			t.Fatalf("第 %d 次请求应被放行", i)
		}
	}

	allowed, err := c.CheckRateLimit(ctx, "rl:test", 3, time.Minute)
	if err != nil {
		t.Fatalf("CheckRateLimit 失败: %v", err)
	}
	if allowed {
		t.Error("同一时刻的第 4 次请求应被限流")
	}
}

func TestCheckRateLimit_WindowSlides(t *testing.T) {
	c, _ := newTestClient(t)
	now := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if allowed, _ := c.CheckRateLimit(ctx, "rl:slide", 2, time.Minute); !allowed {
			t.Fatalf("第 %d 次请求应被放行", i+1)
		}
	}
	if allowed, _ := c.CheckRateLimit(ctx, "rl:slide", 2, time.Minute); allowed {
		t.Fatal("窗口内超限请求应被拒绝")
	}

	now = now.Add(61 * time.Second)
	if allowed, _ := c.CheckRateLimit(ctx, "rl:slide", 2, time.Minute); !allowed {
		t.Error("窗口滑过后请求应被放行")
	}
}
