package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"classboard/backend/config"
)

// Client Redis 客户端封装
// 用途：Token 黑名单、删除操作限流、课表草稿镜像、班级分配变更通知
type Client struct {
	rdb    *goredis.Client
	logger *zap.Logger
}

// NewClient 创建 Redis 连接并执行 Ping 健康检查
func NewClient(cfg *config.RedisConfig, logger *zap.Logger) (*Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("Redis 连接失败: %w", err)
	}

	logger.Info("Redis 连接成功", zap.String("addr", cfg.Addr))

	return &Client{rdb: rdb, logger: logger}, nil
}

// ── Token 黑名单 ──

const blacklistPrefix = "token:blacklist:"

// BlacklistToken 将 JWT ID 加入黑名单，TTL 与 Token 剩余有效期一致
func (c *Client) BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil // Token 已过期，无需加入黑名单
	}
	return c.rdb.Set(ctx, blacklistPrefix+jti, "1", ttl).Err()
}

// IsBlacklisted 检查 JWT ID 是否在黑名单中
func (c *Client) IsBlacklisted(ctx context.Context, jti string) (bool, error) {
	n, err := c.rdb.Exists(ctx, blacklistPrefix+jti).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ── 限流 ──

// CheckRateLimit 固定窗口限流：窗口内超过 limit 次返回 false
func (c *Client) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	n, err := c.rdb.Incr(ctx, key).Result()
	if err != nil {
		return false, err
	}
	if n == 1 {
		// 首次计数时设置窗口过期
		if err := c.rdb.Expire(ctx, key, window).Err(); err != nil {
			return false, err
		}
	}
	return n <= int64(limit), nil
}

// ── 课表草稿镜像 ──
//
// 镜像仅作为编辑器崩溃恢复的参考数据：保存成功后清除，
// 读取端永远以数据库中的草稿为准，镜像不会被自动回读。

const mirrorPrefix = "schedule:mirror:"

// PutDraftMirror 写入某班级的草稿镜像（整份会话数组的 JSON）
func (c *Client) PutDraftMirror(ctx context.Context, classID string, payload []byte, ttl time.Duration) error {
	return c.rdb.Set(ctx, mirrorPrefix+classID, payload, ttl).Err()
}

// GetDraftMirror 读取草稿镜像；不存在时返回 (nil, nil)
func (c *Client) GetDraftMirror(ctx context.Context, classID string) ([]byte, error) {
	data, err := c.rdb.Get(ctx, mirrorPrefix+classID).Bytes()
	if err == goredis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

// ClearDraftMirror 清除草稿镜像（保存成功后调用）
func (c *Client) ClearDraftMirror(ctx context.Context, classID string) error {
	return c.rdb.Del(ctx, mirrorPrefix+classID).Err()
}

// ── 班级分配变更通知 ──

const assignmentChannel = "classboard:assignments"

// PublishAssignmentChange 广播 user_class_assignments 变更事件
// 无订阅者时 Publish 返回 0，属正常情况（前端降级为手动刷新）
func (c *Client) PublishAssignmentChange(ctx context.Context, payload []byte) error {
	return c.rdb.Publish(ctx, assignmentChannel, payload).Err()
}

// SubscribeAssignmentChanges 订阅分配变更事件
// 返回的 PubSub 由调用方负责 Close
func (c *Client) SubscribeAssignmentChanges(ctx context.Context) *goredis.PubSub {
	return c.rdb.Subscribe(ctx, assignmentChannel)
}

// Close 关闭 Redis 连接
func (c *Client) Close() error {
	return c.rdb.Close()
}
