package scheduler

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/suryarapeti/TalentIQ-HRAgent/internal/config"
)

// GoogleCalendarClient 基于Google Calendar API的日历客户端。
// 凭证管理对调用方不可见：token文件由oauth2客户端自动刷新。
type GoogleCalendarClient struct {
	service    *calendar.Service
	calendarID string
	timeZone   string
}

// NewGoogleCalendarClient 从OAuth客户端密钥和已授权的token文件创建日历客户端。
// token文件缺失时返回错误，授权流程需要在部署前单独完成。
func NewGoogleCalendarClient(ctx context.Context, cfg *config.CalendarConfig) (*GoogleCalendarClient, error) {
	b, err := os.ReadFile(cfg.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("读取OAuth凭证文件失败: %w", err)
	}

	oauthConfig, err := google.ConfigFromJSON(b, calendar.CalendarEventsScope)
	if err != nil {
		return nil, fmt.Errorf("解析OAuth凭证失败: %w", err)
	}

	token, err := tokenFromFile(cfg.TokenFile)
	if err != nil {
		return nil, fmt.Errorf("读取token文件失败 (需要先完成授权流程): %w", err)
	}

	client := oauthConfig.Client(ctx, token)
	service, err := calendar.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("创建日历服务失败: %w", err)
	}

	return &GoogleCalendarClient{
		service:    service,
		calendarID: cfg.CalendarID,
		timeZone:   cfg.TimeZone,
	}, nil
}

// tokenFromFile 从本地JSON文件读取OAuth token
func tokenFromFile(file string) (*oauth2.Token, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	token := &oauth2.Token{}
	err = json.NewDecoder(f).Decode(token)
	return token, err
}

// CreateEvent 创建一个日历事件并返回可分享的链接
func (c *GoogleCalendarClient) CreateEvent(ctx context.Context, summary string, description string, start time.Time, end time.Time) (string, error) {
	event := &calendar.Event{
		Summary:     summary,
		Description: description,
		Start: &calendar.EventDateTime{
			DateTime: start.Format("2006-01-02T15:04:05"),
			TimeZone: c.timeZone,
		},
		End: &calendar.EventDateTime{
			DateTime: end.Format("2006-01-02T15:04:05"),
			TimeZone: c.timeZone,
		},
	}

	created, err := c.service.Events.Insert(c.calendarID, event).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("创建日历事件失败: %w", err)
	}
	return created.HtmlLink, nil
}

var _ CalendarClient = (*GoogleCalendarClient)(nil)
