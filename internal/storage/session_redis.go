package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/suryarapeti/TalentIQ-HRAgent/internal/config"
	"github.com/suryarapeti/TalentIQ-HRAgent/internal/constants"
	"github.com/suryarapeti/TalentIQ-HRAgent/internal/types"
)

// RedisSessionStore 基于Redis的会话存储，TTL由key过期实现。
// 多实例部署时替代进程内存储使用。
type RedisSessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisClient 根据配置创建Redis客户端并验证连通性
func NewRedisClient(ctx context.Context, cfg *config.RedisConfig) (*redis.Client, error) {
	if cfg.Address == "" {
		return nil, fmt.Errorf("Redis地址不能为空")
	}

	options := &redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
	if cfg.PoolSize > 0 {
		options.PoolSize = cfg.PoolSize
	}
	if cfg.MinIdleConns > 0 {
		options.MinIdleConns = cfg.MinIdleConns
	}
	if cfg.DialTimeoutSeconds > 0 {
		options.DialTimeout = time.Duration(cfg.DialTimeoutSeconds) * time.Second
	}
	if cfg.ReadTimeoutSeconds > 0 {
		options.ReadTimeout = time.Duration(cfg.ReadTimeoutSeconds) * time.Second
	}
	if cfg.WriteTimeoutSeconds > 0 {
		options.WriteTimeout = time.Duration(cfg.WriteTimeoutSeconds) * time.Second
	}

	client := redis.NewClient(options)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("连接Redis失败: %w", err)
	}

	return client, nil
}

// NewRedisSessionStore 创建Redis会话存储。ttl<=0 时使用默认保留时长。
func NewRedisSessionStore(client *redis.Client, ttl time.Duration) *RedisSessionStore {
	if ttl <= 0 {
		ttl = constants.DefaultSessionTTL
	}
	return &RedisSessionStore{client: client, ttl: ttl}
}

func sessionKey(id string) string {
	return constants.KeyScreeningSession + id
}

// Create 保存一个新会话
func (s *RedisSessionStore) Create(ctx context.Context, session *types.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("序列化会话失败: %w", err)
	}
	if err := s.client.Set(ctx, sessionKey(session.ID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("写入会话失败: %w", err)
	}
	return nil
}

// Get 按ID取回会话，key已过期或不存在时返回 ErrSessionNotFound
func (s *RedisSessionStore) Get(ctx context.Context, id string) (*types.Session, error) {
	data, err := s.client.Get(ctx, sessionKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("读取会话失败: %w", err)
	}

	var session types.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("反序列化会话失败: %w", err)
	}
	return &session, nil
}

// AddToShortlist 将候选人加入候选名单
func (s *RedisSessionStore) AddToShortlist(ctx context.Context, id string, candidateName string) error {
	return s.mutate(ctx, id, func(session *types.Session) {
		if !session.InShortlist(candidateName) {
			session.Shortlist = append(session.Shortlist, candidateName)
		}
	})
}

// RemoveFromShortlist 将候选人移出候选名单
func (s *RedisSessionStore) RemoveFromShortlist(ctx context.Context, id string, candidateName string) error {
	return s.mutate(ctx, id, func(session *types.Session) {
		shortlist := session.Shortlist[:0]
		for _, n := range session.Shortlist {
			if n != candidateName {
				shortlist = append(shortlist, n)
			}
		}
		session.Shortlist = shortlist
	})
}

// mutate 读取-修改-写回，保留key原有的TTL
func (s *RedisSessionStore) mutate(ctx context.Context, id string, fn func(*types.Session)) error {
	session, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	fn(session)

	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("序列化会话失败: %w", err)
	}
	if err := s.client.Set(ctx, sessionKey(id), data, redis.KeepTTL).Err(); err != nil {
		return fmt.Errorf("写回会话失败: %w", err)
	}
	return nil
}

// Close 关闭底层Redis连接
func (s *RedisSessionStore) Close() error {
	return s.client.Close()
}

var _ SessionStore = (*RedisSessionStore)(nil)
