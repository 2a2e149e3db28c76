package storage

import (
	"context"
	"fmt"

	"github.com/suryarapeti/TalentIQ-HRAgent/internal/config"
	"github.com/suryarapeti/TalentIQ-HRAgent/internal/constants"
	"github.com/suryarapeti/TalentIQ-HRAgent/internal/logger"
)

// Storage 存储管理器，聚合所有存储相关依赖
type Storage struct {
	// 会话存储（必选，按配置选择内存或Redis后端）
	Sessions SessionStore

	// 面试审计记录（可选，未配置MySQL时为nil）
	MySQL *MySQL
}

// NewStorage 创建存储管理器
func NewStorage(ctx context.Context, cfg *config.Config) (*Storage, error) {
	if cfg == nil {
		return nil, fmt.Errorf("配置不能为空")
	}

	storage := &Storage{}
	ttl := cfg.SessionTTL(constants.DefaultSessionTTL)

	switch cfg.Session.Backend {
	case "redis":
		client, err := NewRedisClient(ctx, &cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("初始化Redis会话存储失败: %w", err)
		}
		storage.Sessions = NewRedisSessionStore(client, ttl)
		logger.Info().Str("backend", "redis").Dur("ttl", ttl).Msg("会话存储初始化成功")
	case "", "memory":
		storage.Sessions = NewMemorySessionStore(ttl)
		logger.Info().Str("backend", "memory").Dur("ttl", ttl).Msg("会话存储初始化成功")
	default:
		return nil, fmt.Errorf("未知的会话存储后端: %s", cfg.Session.Backend)
	}

	// MySQL审计记录是可选能力，未配置时跳过
	if cfg.MySQL.Host != "" {
		mysqlStore, err := NewMySQL(&cfg.MySQL)
		if err != nil {
			logger.Warn().Err(err).Msg("初始化MySQL失败，面试审计记录不可用")
		} else {
			storage.MySQL = mysqlStore
			logger.Info().Msg("MySQL审计存储初始化成功")
		}
	}

	return storage, nil
}

// Close 释放所有存储资源
func (s *Storage) Close() {
	if s.Sessions != nil {
		if err := s.Sessions.Close(); err != nil {
			logger.Warn().Err(err).Msg("关闭会话存储失败")
		}
	}
	if s.MySQL != nil {
		if err := s.MySQL.Close(); err != nil {
			logger.Warn().Err(err).Msg("关闭MySQL连接失败")
		}
	}
}
