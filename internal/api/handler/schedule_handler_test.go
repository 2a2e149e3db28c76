package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/cloudwego/hertz/pkg/common/ut"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suryarapeti/TalentIQ-HRAgent/internal/config"
	"github.com/suryarapeti/TalentIQ-HRAgent/internal/types"
)

// seedSession 往测试环境的存储里写入一个会话
func seedSession(t *testing.T, env *testEnv, id string) {
	t.Helper()
	session := &types.Session{
		ID: id,
		Results: []types.CandidateRecord{
			{Name: "Alice", Email: "alice@example.com", Score: 92, Summary: "great"},
			{Name: "Bob", Email: "bob@example.com", Score: 70, Summary: "decent"},
		},
		Shortlist: []string{"Alice"},
		CreatedAt: time.Now(),
	}
	require.NoError(t, env.sessions.Create(context.Background(), session))
}

func postForm(env *testEnv, path string, form url.Values) *ut.ResponseRecorder {
	body := form.Encode()
	return ut.PerformRequest(env.engine.Engine, "POST", path,
		&ut.Body{Body: strings.NewReader(body), Len: len(body)},
		ut.Header{Key: "Content-Type", Value: "application/x-www-form-urlencoded"},
	)
}

func TestScheduleInterview_HandlerSuccess(t *testing.T) {
	env := newTestEnv(t, &config.Config{}, &stubExtractor{}, nil)
	seedSession(t, env, "sess-1")

	resp := postForm(env, "/schedule-interview/sess-1", url.Values{
		"candidate_name": {"Alice"},
		"interview_date": {"2024-01-01"},
		"interview_time": {"10:00"},
		"duration":       {"45"},
	})
	require.Equal(t, http.StatusOK, resp.Result().StatusCode())

	var scheduleResp types.ScheduleResponse
	require.NoError(t, json.Unmarshal(resp.Result().Body(), &scheduleResp))
	assert.True(t, scheduleResp.Success)
	assert.Equal(t, "Interview scheduled successfully for Alice", scheduleResp.Message)
	assert.Equal(t, "Alice", scheduleResp.Candidate)
	require.NotNil(t, scheduleResp.CandidateEmail)
	assert.Equal(t, "alice@example.com", *scheduleResp.CandidateEmail)
	assert.Equal(t, "2024-01-01T10:00:00", scheduleResp.InterviewDatetime)
	assert.Equal(t, 45, scheduleResp.Duration)
	// 测试环境没有配置日历和SMTP
	assert.Empty(t, scheduleResp.CalendarLink)
	assert.False(t, scheduleResp.EmailSent)

	// 候选人被移出候选名单
	session, err := env.sessions.Get(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.Empty(t, session.Shortlist)
}

func TestScheduleInterview_HandlerDefaultDuration(t *testing.T) {
	env := newTestEnv(t, &config.Config{}, &stubExtractor{}, nil)
	seedSession(t, env, "sess-1")

	resp := postForm(env, "/schedule-interview/sess-1", url.Values{
		"candidate_name": {"Bob"},
		"interview_date": {"2024-06-15"},
		"interview_time": {"14:30"},
	})
	require.Equal(t, http.StatusOK, resp.Result().StatusCode())

	var scheduleResp types.ScheduleResponse
	require.NoError(t, json.Unmarshal(resp.Result().Body(), &scheduleResp))
	assert.Equal(t, 60, scheduleResp.Duration)
	assert.Equal(t, "2024-06-15T14:30:00", scheduleResp.InterviewDatetime)
}

func TestScheduleInterview_HandlerUnknownSession(t *testing.T) {
	env := newTestEnv(t, &config.Config{}, &stubExtractor{}, nil)

	resp := postForm(env, "/schedule-interview/no-such-session", url.Values{
		"candidate_name": {"Alice"},
		"interview_date": {"2024-01-01"},
		"interview_time": {"10:00"},
	})
	assert.Equal(t, http.StatusNotFound, resp.Result().StatusCode())
}

func TestScheduleInterview_HandlerValidation(t *testing.T) {
	env := newTestEnv(t, &config.Config{}, &stubExtractor{}, nil)
	seedSession(t, env, "sess-1")

	testCases := []struct {
		name string
		form url.Values
	}{
		{"缺候选人姓名", url.Values{
			"interview_date": {"2024-01-01"},
			"interview_time": {"10:00"},
		}},
		{"非法日期", url.Values{
			"candidate_name": {"Alice"},
			"interview_date": {"01/01/2024"},
			"interview_time": {"10:00"},
		}},
		{"非法时长", url.Values{
			"candidate_name": {"Alice"},
			"interview_date": {"2024-01-01"},
			"interview_time": {"10:00"},
			"duration":       {"abc"},
		}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			resp := postForm(env, "/schedule-interview/sess-1", tc.form)
			assert.Equal(t, http.StatusBadRequest, resp.Result().StatusCode())
		})
	}
}

func TestScheduleInterview_HandlerUnknownCandidate(t *testing.T) {
	env := newTestEnv(t, &config.Config{}, &stubExtractor{}, nil)
	seedSession(t, env, "sess-1")

	resp := postForm(env, "/schedule-interview/sess-1", url.Values{
		"candidate_name": {"Stranger"},
		"interview_date": {"2024-01-01"},
		"interview_time": {"10:00"},
	})
	require.Equal(t, http.StatusOK, resp.Result().StatusCode())

	// 不在会话结果中的候选人仍可安排，candidate_email 为 null
	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(resp.Result().Body(), &raw))
	assert.Equal(t, "null", string(raw["candidate_email"]))

	var scheduleResp types.ScheduleResponse
	require.NoError(t, json.Unmarshal(resp.Result().Body(), &scheduleResp))
	assert.Nil(t, scheduleResp.CandidateEmail)
	assert.Equal(t, "Email not found for candidate", scheduleResp.EmailMessage)
}

func TestSessionResults_Endpoint(t *testing.T) {
	env := newTestEnv(t, &config.Config{}, &stubExtractor{}, nil)
	seedSession(t, env, "sess-1")

	resp := ut.PerformRequest(env.engine.Engine, "GET", "/sessions/sess-1/results", nil)
	require.Equal(t, http.StatusOK, resp.Result().StatusCode())

	var resultsResp types.SessionResultsResponse
	require.NoError(t, json.Unmarshal(resp.Result().Body(), &resultsResp))
	assert.Equal(t, "sess-1", resultsResp.SessionID)
	assert.Equal(t, 2, resultsResp.TotalCandidates)
	assert.Equal(t, []string{"Alice"}, resultsResp.Shortlist)

	resp = ut.PerformRequest(env.engine.Engine, "GET", "/sessions/missing/results", nil)
	assert.Equal(t, http.StatusNotFound, resp.Result().StatusCode())
}

func TestShortlist_Endpoints(t *testing.T) {
	env := newTestEnv(t, &config.Config{}, &stubExtractor{}, nil)
	seedSession(t, env, "sess-1")

	// 添加
	resp := postForm(env, "/sessions/sess-1/shortlist", url.Values{"candidate_name": {"Bob"}})
	require.Equal(t, http.StatusOK, resp.Result().StatusCode())

	session, err := env.sessions.Get(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"Alice", "Bob"}, session.Shortlist)

	// 移除
	resp = ut.PerformRequest(env.engine.Engine, "DELETE", "/sessions/sess-1/shortlist/Alice", nil)
	require.Equal(t, http.StatusOK, resp.Result().StatusCode())

	session, err = env.sessions.Get(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"Bob"}, session.Shortlist)

	// 空姓名
	resp = postForm(env, "/sessions/sess-1/shortlist", url.Values{})
	assert.Equal(t, http.StatusBadRequest, resp.Result().StatusCode())

	// 不存在的会话
	resp = postForm(env, "/sessions/missing/shortlist", url.Values{"candidate_name": {"X"}})
	assert.Equal(t, http.StatusNotFound, resp.Result().StatusCode())
}
