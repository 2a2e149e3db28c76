package storage

import (
	"context"
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/suryarapeti/TalentIQ-HRAgent/internal/config"
	"github.com/suryarapeti/TalentIQ-HRAgent/internal/storage/models"
)

// MySQL 包装GORM连接，只承载面试安排的审计记录
type MySQL struct {
	db *gorm.DB
}

// NewMySQL 建立MySQL连接并迁移审计表
func NewMySQL(cfg *config.MySQLConfig) (*MySQL, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		cfg.Username, cfg.Password, cfg.Host, cfg.Port, cfg.Database)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("连接MySQL失败: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取底层连接池失败: %w", err)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}

	if err := db.AutoMigrate(&models.InterviewRecord{}); err != nil {
		return nil, fmt.Errorf("迁移面试记录表失败: %w", err)
	}

	return &MySQL{db: db}, nil
}

// SaveInterviewRecord 写入一条面试审计记录
func (m *MySQL) SaveInterviewRecord(ctx context.Context, record *models.InterviewRecord) error {
	if err := m.db.WithContext(ctx).Create(record).Error; err != nil {
		return fmt.Errorf("保存面试记录失败: %w", err)
	}
	return nil
}

// ListInterviewRecords 按会话ID查询面试审计记录
func (m *MySQL) ListInterviewRecords(ctx context.Context, sessionID string) ([]models.InterviewRecord, error) {
	var records []models.InterviewRecord
	err := m.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at DESC").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("查询面试记录失败: %w", err)
	}
	return records, nil
}

// Close 关闭底层连接池
func (m *MySQL) Close() error {
	sqlDB, err := m.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
