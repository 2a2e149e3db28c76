package scheduler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/suryarapeti/TalentIQ-HRAgent/internal/constants"
	"github.com/suryarapeti/TalentIQ-HRAgent/internal/processor"
	"github.com/suryarapeti/TalentIQ-HRAgent/internal/storage"
	"github.com/suryarapeti/TalentIQ-HRAgent/internal/storage/models"
)

// CalendarClient 外部日历协作方：创建事件并返回可分享链接
type CalendarClient interface {
	CreateEvent(ctx context.Context, summary string, description string, start time.Time, end time.Time) (string, error)
}

// Notifier 外部通知协作方：发送纯文本邮件
type Notifier interface {
	Send(ctx context.Context, to string, subject string, body string) error
}

// ScheduleRequest 面试安排请求
type ScheduleRequest struct {
	SessionID       string
	CandidateName   string
	InterviewDate   string // "2006-01-02"
	InterviewTime   string // "15:04"
	DurationMinutes int    // <=0 时使用默认60分钟
}

// ScheduleResult 面试安排结果。
// 日历和邮件各自的成败以标志位返回，协作方失败不会使整个操作失败。
type ScheduleResult struct {
	CandidateName     string
	CandidateEmail    string
	EmailFound        bool
	CalendarLink      string
	InterviewDatetime string
	DurationMinutes   int
	EmailSent         bool
	EmailMessage      string
}

// InterviewScheduler 面试安排编排器：查会话、建日历事件、发通知邮件、
// 维护候选名单，并在配置了MySQL时落一条审计记录。
type InterviewScheduler struct {
	sessions       storage.SessionStore
	calendar       CalendarClient
	notifier       Notifier
	audit          *storage.MySQL
	meetingBaseURL string
	logger         zerolog.Logger
}

// SchedulerOption InterviewScheduler 的配置选项
type SchedulerOption func(*InterviewScheduler)

// WithAuditStore 启用MySQL审计记录
func WithAuditStore(audit *storage.MySQL) SchedulerOption {
	return func(s *InterviewScheduler) {
		s.audit = audit
	}
}

// WithMeetingBaseURL 设置会议链接前缀
func WithMeetingBaseURL(baseURL string) SchedulerOption {
	return func(s *InterviewScheduler) {
		if baseURL != "" {
			s.meetingBaseURL = baseURL
		}
	}
}

// NewInterviewScheduler 创建面试安排编排器。
// calendar 和 notifier 允许为nil，此时对应步骤降级为不可用。
func NewInterviewScheduler(sessions storage.SessionStore, calendar CalendarClient, notifier Notifier, logger zerolog.Logger, options ...SchedulerOption) *InterviewScheduler {
	s := &InterviewScheduler{
		sessions:       sessions,
		calendar:       calendar,
		notifier:       notifier,
		meetingBaseURL: constants.DefaultMeetingBaseURL,
		logger:         logger,
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

// ScheduleInterview 为会话中的一位候选人安排面试。
// 前置条件失败返回 ErrInvalidRequest / ErrSessionNotFound；
// 日历或邮件协作方失败只体现在结果标志位中，不作为错误返回。
func (s *InterviewScheduler) ScheduleInterview(ctx context.Context, req ScheduleRequest) (*ScheduleResult, error) {
	session, err := s.sessions.Get(ctx, req.SessionID)
	if err != nil {
		return nil, err
	}

	candidateName := strings.TrimSpace(req.CandidateName)
	if candidateName == "" {
		return nil, processor.NewInvalidRequestError("候选人姓名不能为空")
	}
	if req.InterviewDate == "" || req.InterviewTime == "" {
		return nil, processor.NewInvalidRequestError("面试日期和时间都不能为空")
	}

	startStr := fmt.Sprintf("%sT%s:00", req.InterviewDate, req.InterviewTime)
	start, err := time.Parse(constants.InterviewDateTimeLayout, startStr)
	if err != nil {
		return nil, processor.NewInvalidRequestError("日期或时间格式无效: %s", startStr)
	}

	duration := req.DurationMinutes
	if duration <= 0 {
		duration = constants.DefaultInterviewDuration
	}
	end := start.Add(time.Duration(duration) * time.Minute)

	s.logger.Info().
		Str("session_id", req.SessionID).
		Str("candidate", candidateName).
		Str("start", startStr).
		Int("duration_minutes", duration).
		Msg("开始安排面试")

	// 日历事件：失败视为"链接不可用"，继续后面的流程
	calendarLink := ""
	if s.calendar != nil {
		summary := fmt.Sprintf("Interview with %s", candidateName)
		description := fmt.Sprintf("Interview scheduled with candidate %s.", candidateName)
		link, calErr := s.calendar.CreateEvent(ctx, summary, description, start, end)
		if calErr != nil {
			s.logger.Error().Err(calErr).Str("candidate", candidateName).Msg("创建日历事件失败，链接不可用")
		} else {
			calendarLink = link
		}
	} else {
		s.logger.Warn().Msg("日历客户端未配置，跳过日历事件创建")
	}

	// 邮箱按姓名精确匹配，取第一个；找不到不算失败
	candidateEmail, found := session.FindCandidateEmail(candidateName)
	if !found {
		s.logger.Warn().Str("candidate", candidateName).Msg("会话中未找到候选人邮箱")
	}

	result := &ScheduleResult{
		CandidateName:     candidateName,
		CandidateEmail:    candidateEmail,
		EmailFound:        found,
		CalendarLink:      calendarLink,
		InterviewDatetime: startStr,
		DurationMinutes:   duration,
	}

	if found && strings.TrimSpace(candidateEmail) != "" && s.notifier != nil {
		subject := fmt.Sprintf("Interview Scheduled - %s", candidateName)
		body := buildInterviewEmail(candidateName, start, duration, GenerateMeetingLink(s.meetingBaseURL), calendarLink)
		if mailErr := s.notifier.Send(ctx, candidateEmail, subject, body); mailErr != nil {
			s.logger.Error().Err(mailErr).Str("candidate", candidateName).Str("email", candidateEmail).Msg("发送面试通知邮件失败")
			result.EmailMessage = fmt.Sprintf("Failed to send email to %s", candidateEmail)
		} else {
			result.EmailSent = true
			result.EmailMessage = fmt.Sprintf("Email notification sent to %s", candidateEmail)
		}
	} else if found && strings.TrimSpace(candidateEmail) != "" {
		result.EmailMessage = fmt.Sprintf("Failed to send email to %s", candidateEmail)
		s.logger.Warn().Str("candidate", candidateName).Msg("邮件通知器未配置，无法发送通知")
	} else {
		result.EmailMessage = "Email not found for candidate"
	}

	// 安排成功后将候选人移出候选名单
	if err := s.sessions.RemoveFromShortlist(ctx, req.SessionID, candidateName); err != nil {
		s.logger.Warn().Err(err).Str("candidate", candidateName).Msg("更新候选名单失败")
	}

	if s.audit != nil {
		record := &models.InterviewRecord{
			SessionID:       req.SessionID,
			CandidateName:   candidateName,
			CandidateEmail:  candidateEmail,
			ScheduledAt:     start,
			DurationMinutes: duration,
			CalendarLink:    calendarLink,
			EmailSent:       result.EmailSent,
		}
		if auditErr := s.audit.SaveInterviewRecord(ctx, record); auditErr != nil {
			s.logger.Error().Err(auditErr).Str("candidate", candidateName).Msg("写入面试审计记录失败")
		}
	}

	s.logger.Info().
		Str("candidate", candidateName).
		Bool("email_sent", result.EmailSent).
		Bool("calendar_link_available", calendarLink != "").
		Msg("面试安排完成")

	return result, nil
}

// buildInterviewEmail 生成面试通知邮件正文
func buildInterviewEmail(candidateName string, start time.Time, durationMinutes int, meetingLink string, calendarLink string) string {
	formattedDate := start.Format(constants.InterviewDisplayLayout)
	if calendarLink == "" {
		calendarLink = "Will be provided separately"
	}

	return fmt.Sprintf(`Dear %s,

We are pleased to inform you that an interview has been scheduled for you.

Interview Details:
- Date and Time: %s
- Duration: %d minutes
- Meet Link: %s
- Calendar Link: %s

Please confirm your availability for this interview. If you have any questions or need to reschedule, please contact us as soon as possible.

We look forward to speaking with you.

Best regards,
The Hiring Team`, candidateName, formattedDate, durationMinutes, meetingLink, calendarLink)
}
