package models

import "time"

// InterviewRecord 面试安排的持久化审计记录。
// 会话本身是短生命周期的，已安排的面试需要在会话过期后仍可追溯。
type InterviewRecord struct {
	ID              uint      `gorm:"primaryKey;autoIncrement"`
	SessionID       string    `gorm:"type:varchar(64);index;not null"`
	CandidateName   string    `gorm:"type:varchar(255);not null"`
	CandidateEmail  string    `gorm:"type:varchar(255)"`
	ScheduledAt     time.Time `gorm:"not null"`
	DurationMinutes int       `gorm:"not null"`
	CalendarLink    string    `gorm:"type:varchar(512)"`
	EmailSent       bool      `gorm:"not null;default:false"`
	CreatedAt       time.Time `gorm:"autoCreateTime"`
}

// TableName 指定表名
func (InterviewRecord) TableName() string {
	return "interview_records"
}
