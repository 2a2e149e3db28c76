package types

import "time"

// CandidateRecord 单份简历的评分结果，创建后不再修改。
// 会话内按 Score 降序排列，同分保持提取顺序。
type CandidateRecord struct {
	Name    string  `json:"name"`
	Email   string  `json:"email"`
	Score   float64 `json:"score"`
	Summary string  `json:"summary"`
}

// Session 一次简历筛选请求产生的会话。
// Results 在创建时排好序，之后不再重排；Shortlist 是唯一可变的部分。
type Session struct {
	ID        string            `json:"id"`
	Results   []CandidateRecord `json:"results"`
	Shortlist []string          `json:"shortlist"`
	CreatedAt time.Time         `json:"created_at"`
}

// FindCandidateEmail 按姓名精确匹配查找候选人邮箱，返回第一个匹配项。
// 未找到时返回空字符串和false。
func (s *Session) FindCandidateEmail(name string) (string, bool) {
	for _, c := range s.Results {
		if c.Name == name {
			return c.Email, true
		}
	}
	return "", false
}

// InShortlist 判断候选人是否在候选名单中
func (s *Session) InShortlist(name string) bool {
	for _, n := range s.Shortlist {
		if n == name {
			return true
		}
	}
	return false
}

// IntakeResponse POST /upload-resumes/ 的响应体
type IntakeResponse struct {
	Success         bool              `json:"success"`
	SessionID       string            `json:"session_id"`
	Results         []CandidateRecord `json:"results"`
	TotalCandidates int               `json:"total_candidates"`
	Message         string            `json:"message"`
}

// ScheduleResponse POST /schedule-interview/{session_id} 的响应体
type ScheduleResponse struct {
	Success           bool    `json:"success"`
	Message           string  `json:"message"`
	CalendarLink      string  `json:"calendar_link"`
	Candidate         string  `json:"candidate"`
	CandidateEmail    *string `json:"candidate_email"` // 未找到邮箱时为null
	InterviewDatetime string  `json:"interview_datetime"`
	Duration          int     `json:"duration"`
	EmailSent         bool    `json:"email_sent"`
	EmailMessage      string  `json:"email_message"`
}

// SessionResultsResponse GET /sessions/{session_id}/results 的响应体
type SessionResultsResponse struct {
	Success         bool              `json:"success"`
	SessionID       string            `json:"session_id"`
	Results         []CandidateRecord `json:"results"`
	Shortlist       []string          `json:"shortlist"`
	TotalCandidates int               `json:"total_candidates"`
	CreatedAt       time.Time         `json:"created_at"`
}

// ErrorResponse 统一的错误响应体
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}
