package storage

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/suryarapeti/TalentIQ-HRAgent/internal/constants"
	"github.com/suryarapeti/TalentIQ-HRAgent/internal/types"
)

// ErrSessionNotFound 会话不存在或已过期
var ErrSessionNotFound = errors.New("会话不存在")

// SessionStore 筛选会话的存储接口。
// Create 和 Get/Shortlist 变更可能被并发调用，实现必须保证并发安全。
type SessionStore interface {
	// Create 保存一个新会话
	Create(ctx context.Context, session *types.Session) error

	// Get 按ID取回会话，不存在时返回 ErrSessionNotFound
	Get(ctx context.Context, id string) (*types.Session, error)

	// AddToShortlist 将候选人加入会话的候选名单（重复添加为幂等操作）
	AddToShortlist(ctx context.Context, id string, candidateName string) error

	// RemoveFromShortlist 将候选人移出候选名单（不在名单中时为空操作）
	RemoveFromShortlist(ctx context.Context, id string, candidateName string) error

	// Close 释放存储持有的资源
	Close() error
}

type memorySessionEntry struct {
	session   *types.Session
	expiresAt time.Time
}

// MemorySessionStore 进程内的会话存储。
// 互斥锁保护的map加上后台清扫协程，过期会话按TTL逐出，
// 避免无限增长的内存占用。
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*memorySessionEntry
	ttl      time.Duration

	stopOnce sync.Once
	stopCh   chan struct{}
}

// NewMemorySessionStore 创建内存会话存储并启动清扫协程。
// ttl<=0 时使用默认保留时长。
func NewMemorySessionStore(ttl time.Duration) *MemorySessionStore {
	if ttl <= 0 {
		ttl = constants.DefaultSessionTTL
	}
	store := &MemorySessionStore{
		sessions: make(map[string]*memorySessionEntry),
		ttl:      ttl,
		stopCh:   make(chan struct{}),
	}
	go store.janitor()
	return store
}

// janitor 周期性清除过期会话
func (s *MemorySessionStore) janitor() {
	interval := s.ttl / 10
	if interval > time.Minute {
		interval = time.Minute
	}
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.evictExpired(time.Now())
		case <-s.stopCh:
			return
		}
	}
}

func (s *MemorySessionStore) evictExpired(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, entry := range s.sessions {
		if now.After(entry.expiresAt) {
			delete(s.sessions, id)
		}
	}
}

// Create 保存一个新会话
func (s *MemorySessionStore) Create(ctx context.Context, session *types.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = &memorySessionEntry{
		session:   copySession(session),
		expiresAt: time.Now().Add(s.ttl),
	}
	return nil
}

// Get 按ID取回会话的副本，过期或不存在时返回 ErrSessionNotFound
func (s *MemorySessionStore) Get(ctx context.Context, id string) (*types.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.sessions[id]
	if !ok || time.Now().After(entry.expiresAt) {
		return nil, ErrSessionNotFound
	}
	return copySession(entry.session), nil
}

// AddToShortlist 将候选人加入候选名单
func (s *MemorySessionStore) AddToShortlist(ctx context.Context, id string, candidateName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.sessions[id]
	if !ok || time.Now().After(entry.expiresAt) {
		return ErrSessionNotFound
	}
	for _, n := range entry.session.Shortlist {
		if n == candidateName {
			return nil
		}
	}
	entry.session.Shortlist = append(entry.session.Shortlist, candidateName)
	return nil
}

// RemoveFromShortlist 将候选人移出候选名单
func (s *MemorySessionStore) RemoveFromShortlist(ctx context.Context, id string, candidateName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.sessions[id]
	if !ok || time.Now().After(entry.expiresAt) {
		return ErrSessionNotFound
	}
	shortlist := entry.session.Shortlist[:0]
	for _, n := range entry.session.Shortlist {
		if n != candidateName {
			shortlist = append(shortlist, n)
		}
	}
	entry.session.Shortlist = shortlist
	return nil
}

// Close 停止清扫协程
func (s *MemorySessionStore) Close() error {
	s.stopOnce.Do(func() {
		close(s.stopCh)
	})
	return nil
}

// copySession 返回会话的深拷贝，避免调用方与存储之间的数据竞争
func copySession(session *types.Session) *types.Session {
	cp := &types.Session{
		ID:        session.ID,
		Results:   make([]types.CandidateRecord, len(session.Results)),
		Shortlist: make([]string, len(session.Shortlist)),
		CreatedAt: session.CreatedAt,
	}
	copy(cp.Results, session.Results)
	copy(cp.Shortlist, session.Shortlist)
	return cp
}

var _ SessionStore = (*MemorySessionStore)(nil)
