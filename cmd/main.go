package main

import (
	"context"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	glog "github.com/cloudwego/hertz/pkg/common/hlog"
	hertzadapter "github.com/hertz-contrib/logger/zerolog"
	"github.com/spf13/pflag"

	"github.com/suryarapeti/TalentIQ-HRAgent/internal/agent"
	"github.com/suryarapeti/TalentIQ-HRAgent/internal/api/handler"
	"github.com/suryarapeti/TalentIQ-HRAgent/internal/api/router"
	"github.com/suryarapeti/TalentIQ-HRAgent/internal/config"
	appCoreLogger "github.com/suryarapeti/TalentIQ-HRAgent/internal/logger"
	"github.com/suryarapeti/TalentIQ-HRAgent/internal/notify"
	"github.com/suryarapeti/TalentIQ-HRAgent/internal/parser"
	"github.com/suryarapeti/TalentIQ-HRAgent/internal/processor"
	"github.com/suryarapeti/TalentIQ-HRAgent/internal/scheduler"
	"github.com/suryarapeti/TalentIQ-HRAgent/internal/storage"
)

var (
	version     = "1.0.0"            //nolint:gochecknoglobals
	serviceName = "talentiq-hragent" //nolint:gochecknoglobals
)

func main() {
	var configPath string
	pflag.StringVarP(&configPath, "config", "c", "", "Path to config file")
	pflag.Parse()

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	initLogger(cfg)
	glog.Infof("%s v%s 配置加载成功", serviceName, version)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	storageManager, err := storage.NewStorage(ctx, cfg)
	if err != nil {
		glog.Fatalf("初始化存储失败: %v", err)
	}
	defer storageManager.Close()
	glog.Infof("存储服务初始化成功 (会话后端: %s)", cfg.Session.Backend)

	// LLM评分模型：缺少 API Key 时回退到Mock，方便本地联调
	var llmChatModel model.ToolCallingChatModel
	if cfg.Groq.APIKey != "" {
		llmChatModel, err = agent.NewGroqChatModel(
			cfg.Groq.APIKey,
			cfg.Groq.Model,
			cfg.Groq.APIURL,
			agent.WithTemperature(cfg.Groq.Temperature),
			agent.WithHTTPTimeout(cfg.GroqTimeout()),
		)
		if err != nil {
			glog.Fatalf("初始化Groq聊天模型失败: %v", err)
		}
		glog.Infof("Groq聊天模型初始化成功 (model: %s)", cfg.Groq.Model)
	} else {
		glog.Warn("未配置GROQ_API_KEY，回退到Mock模型，评分结果不可用于生产")
		llmChatModel = agent.NewMockChatClient(
			`{"name": "Test Candidate", "email": "test@example.com", "score": 0, "summary": "mock response"}`, nil)
	}

	pdfExtractor, err := parser.NewEinoPDFTextExtractor(ctx,
		parser.WithEinoLogger(log.New(os.Stderr, "[EinoPDFMain] ", log.LstdFlags)))
	if err != nil {
		glog.Fatalf("创建Eino PDF提取器失败: %v", err)
	}
	glog.Info("Eino PDF解析器初始化成功")

	var scorerLogger *log.Logger
	if cfg.Logger.Level == "debug" {
		scorerLogger = log.New(os.Stderr, "[ScorerMain] ", log.LstdFlags|log.Lshortfile)
	} else {
		scorerLogger = log.New(io.Discard, "", 0)
	}

	var scorerOptions []parser.ScorerOption
	if timeout := cfg.GroqTimeout(); timeout > 0 {
		scorerOptions = append(scorerOptions, parser.WithScorerTimeout(timeout))
	}
	resumeScorer := parser.NewLLMResumeScorer(llmChatModel, scorerLogger, scorerOptions...)
	glog.Info("LLM简历评分器初始化成功")

	intakePipeline := processor.NewIntakePipeline(pdfExtractor, resumeScorer, storageManager.Sessions, appCoreLogger.Logger)
	glog.Info("简历处理流水线初始化成功")

	// 日历与邮件是可降级的协作方：初始化失败只告警，预约接口仍可用
	var calendarClient scheduler.CalendarClient
	if gc, calErr := scheduler.NewGoogleCalendarClient(ctx, &cfg.Calendar); calErr != nil {
		glog.Warnf("Google日历客户端不可用: %v", calErr)
	} else {
		calendarClient = gc
		glog.Info("Google日历客户端初始化成功")
	}

	var notifier scheduler.Notifier
	if mailer, mailErr := notify.NewSMTPNotifier(&cfg.SMTP); mailErr != nil {
		glog.Warnf("SMTP邮件通知不可用: %v", mailErr)
	} else {
		notifier = mailer
		glog.Info("SMTP邮件通知初始化成功")
	}

	schedulerOptions := []scheduler.SchedulerOption{
		scheduler.WithMeetingBaseURL(cfg.Meeting.BaseURL),
	}
	if storageManager.MySQL != nil {
		schedulerOptions = append(schedulerOptions, scheduler.WithAuditStore(storageManager.MySQL))
	}
	interviewScheduler := scheduler.NewInterviewScheduler(
		storageManager.Sessions, calendarClient, notifier, appCoreLogger.Logger, schedulerOptions...)
	glog.Info("面试调度器初始化成功")

	intakeHandler := handler.NewIntakeHandler(intakePipeline)
	scheduleHandler := handler.NewScheduleHandler(interviewScheduler)
	sessionHandler := handler.NewSessionHandler(storageManager.Sessions)

	h := server.New(
		server.WithHostPorts(cfg.Server.Address),
		server.WithHandleMethodNotAllowed(true),
		server.WithMaxRequestBodySize(64*1024*1024), // 批量PDF上传需要放宽默认限制
	)
	h.Use(func(c context.Context, ctx *app.RequestContext) {
		glog.CtxInfof(c, "Request: %s %s", string(ctx.Method()), string(ctx.Path()))
		ctx.Next(c)
		glog.CtxInfof(c, "Response: status %d", ctx.Response.StatusCode())
	})

	router.RegisterRoutes(h, cfg, intakeHandler, scheduleHandler, sessionHandler)
	glog.Info("HTTP路由注册成功")

	glog.Infof("HTTP 服务器启动中，监听地址: %s", cfg.Server.Address)
	go func() {
		if err := h.Run(); err != nil {
			glog.Fatalf("启动HTTP服务器失败: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	glog.Info("接收到终止信号，正在优雅退出...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := h.Shutdown(shutdownCtx); err != nil {
		glog.Fatalf("服务器关闭失败: %v", err)
	}
	glog.Info("优雅退出完成")
}

func initLogger(cfg *config.Config) {
	appCoreLogger.Init(appCoreLogger.Config{
		Level:        cfg.Logger.Level,
		Format:       cfg.Logger.Format,
		TimeFormat:   cfg.Logger.TimeFormat,
		ReportCaller: cfg.Logger.ReportCaller,
	})

	hertzCompatibleLogger := hertzadapter.From(appCoreLogger.Logger)
	glog.SetLogger(hertzCompatibleLogger)
}
