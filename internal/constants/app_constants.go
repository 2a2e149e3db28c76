package constants

import "time"

const (
	// MaxResumeFileSize 单个简历文件的最大字节数 (10 MiB)
	MaxResumeFileSize = 10 * 1024 * 1024

	// ResumeFileExtension 唯一支持的简历文件扩展名（不区分大小写）
	ResumeFileExtension = ".pdf"

	// DefaultInterviewDuration 未指定时的面试时长（分钟）
	DefaultInterviewDuration = 60

	// MeetingLinkLength 随机会议链接后缀的字符数
	MeetingLinkLength = 16

	// DefaultMeetingBaseURL 会议链接的默认前缀
	DefaultMeetingBaseURL = "https://meet.google.com/"

	// DefaultSessionTTL 会话在内存/Redis中的默认保留时长
	DefaultSessionTTL = 24 * time.Hour

	// InterviewDateTimeLayout 面试开始时间的组合格式: 日期 + "T" + 时间 + ":00"
	InterviewDateTimeLayout = "2006-01-02T15:04:05"

	// InterviewDateLayout / InterviewTimeLayout 表单字段各自的格式
	InterviewDateLayout = "2006-01-02"
	InterviewTimeLayout = "15:04"

	// InterviewDisplayLayout 通知邮件里的人类可读时间格式
	InterviewDisplayLayout = "January 2, 2006 at 3:04 PM"
)
