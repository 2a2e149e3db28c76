package processor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suryarapeti/TalentIQ-HRAgent/internal/constants"
	"github.com/suryarapeti/TalentIQ-HRAgent/internal/storage"
	"github.com/suryarapeti/TalentIQ-HRAgent/internal/types"
)

// fakeExtractor 按原始文件名（在上传内容里传递）返回预设文本
type fakeExtractor struct {
	texts  map[string]string // 上传内容 -> 提取文本
	errors map[string]error  // 上传内容 -> 提取错误
}

func (f *fakeExtractor) ExtractFromFile(ctx context.Context, filePath string) (string, error) {
	data, err := readFileContent(filePath)
	if err != nil {
		return "", err
	}
	if extractErr, ok := f.errors[data]; ok {
		return "", extractErr
	}
	return f.texts[data], nil
}

func (f *fakeExtractor) ExtractTextFromBytes(ctx context.Context, data []byte, uri string) (string, error) {
	return f.texts[string(data)], nil
}

// fakeScorer 按提取文本返回预设的候选人记录
type fakeScorer struct {
	records map[string]*types.CandidateRecord
	errors  map[string]error
}

func (f *fakeScorer) Score(ctx context.Context, resumeText string, jobDescription string) (*types.CandidateRecord, error) {
	if err, ok := f.errors[resumeText]; ok {
		return nil, err
	}
	record, ok := f.records[resumeText]
	if !ok {
		return nil, fmt.Errorf("no fake record for text %q", resumeText)
	}
	copied := *record
	return &copied, nil
}

type uploadFile struct {
	name    string
	content string
}

// buildFileHeaders 构造真实的multipart.FileHeader，走和线上一致的解析路径
func buildFileHeaders(t *testing.T, files []uploadFile) []*multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for _, file := range files {
		fw, err := writer.CreateFormFile("files", file.name)
		require.NoError(t, err)
		_, err = fw.Write([]byte(file.content))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	form, err := multipart.NewReader(&buf, writer.Boundary()).ReadForm(32 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File["files"]
}

func newTestPipeline(extractor PDFExtractor, scorer CandidateScorer) (*IntakePipeline, *storage.MemorySessionStore) {
	sessions := storage.NewMemorySessionStore(constants.DefaultSessionTTL)
	pipeline := NewIntakePipeline(extractor, scorer, sessions, zerolog.Nop())
	return pipeline, sessions
}

func TestIntake_EmptyJobDescription(t *testing.T) {
	pipeline, sessions := newTestPipeline(&fakeExtractor{}, &fakeScorer{})
	defer sessions.Close()

	files := buildFileHeaders(t, []uploadFile{{"resume.pdf", "content"}})

	for _, jd := range []string{"", "   ", "\t\n"} {
		result, err := pipeline.Intake(context.Background(), jd, files)
		assert.Nil(t, result)
		assert.ErrorIs(t, err, ErrInvalidRequest, "空白岗位描述应返回无效请求: %q", jd)
	}
}

func TestIntake_NoFiles(t *testing.T) {
	pipeline, sessions := newTestPipeline(&fakeExtractor{}, &fakeScorer{})
	defer sessions.Close()

	result, err := pipeline.Intake(context.Background(), "some job", nil)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestIntake_NonPDFRejected(t *testing.T) {
	pipeline, sessions := newTestPipeline(&fakeExtractor{}, &fakeScorer{})
	defer sessions.Close()

	files := buildFileHeaders(t, []uploadFile{
		{"resume.pdf", "ok"},
		{"resume.docx", "bad"},
	})

	result, err := pipeline.Intake(context.Background(), "some job", files)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrInvalidRequest)
	assert.Contains(t, err.Error(), "resume.docx")
}

func TestIntake_PDFExtensionCaseInsensitive(t *testing.T) {
	extractor := &fakeExtractor{texts: map[string]string{"upper": "text A"}}
	scorer := &fakeScorer{records: map[string]*types.CandidateRecord{
		"text A": {Name: "A", Email: "a@example.com", Score: 50, Summary: "ok"},
	}}
	pipeline, sessions := newTestPipeline(extractor, scorer)
	defer sessions.Close()

	files := buildFileHeaders(t, []uploadFile{{"RESUME.PDF", "upper"}})

	result, err := pipeline.Intake(context.Background(), "some job", files)
	require.NoError(t, err)
	assert.Len(t, result.Candidates, 1)
}

func TestIntake_OversizedFileRejected(t *testing.T) {
	pipeline, sessions := newTestPipeline(&fakeExtractor{}, &fakeScorer{})
	defer sessions.Close()

	// 校验只看 Filename 和 Size，直接构造头部避免生成10MB内容
	oversized := &multipart.FileHeader{
		Filename: "huge.pdf",
		Size:     constants.MaxResumeFileSize + 1,
	}

	result, err := pipeline.Intake(context.Background(), "some job", []*multipart.FileHeader{oversized})
	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrInvalidRequest)
	assert.Contains(t, err.Error(), "huge.pdf")
}

func TestIntake_SilentExclusionOfFailures(t *testing.T) {
	extractor := &fakeExtractor{
		texts: map[string]string{
			"good":  "good text",
			"empty": "",
		},
		errors: map[string]error{
			"corrupt": errors.New("malformed xref table"),
		},
	}
	scorer := &fakeScorer{
		records: map[string]*types.CandidateRecord{
			"good text": {Name: "Good", Email: "good@example.com", Score: 90, Summary: "great"},
		},
		errors: map[string]error{
			"unscorable text": errors.New("llm timeout"),
		},
	}
	pipeline, sessions := newTestPipeline(extractor, scorer)
	defer sessions.Close()

	files := buildFileHeaders(t, []uploadFile{
		{"good.pdf", "good"},
		{"corrupt.pdf", "corrupt"},
		{"empty.pdf", "empty"},
	})

	// 提取失败、空文本的文件被静默跳过，整批处理仍然成功
	result, err := pipeline.Intake(context.Background(), "some job", files)
	require.NoError(t, err)
	assert.Equal(t, 3, result.FilesReceived)
	require.Len(t, result.Candidates, 1)
	assert.Equal(t, "Good", result.Candidates[0].Name)

	// 会话里保存的是同样的已排序结果
	session, err := sessions.Get(context.Background(), result.SessionID)
	require.NoError(t, err)
	assert.Equal(t, result.Candidates, session.Results)
	assert.Empty(t, session.Shortlist)
}

func TestIntake_SortedByScoreDescending(t *testing.T) {
	extractor := &fakeExtractor{texts: map[string]string{
		"f1": "t1", "f2": "t2", "f3": "t3", "f4": "t4",
	}}
	scorer := &fakeScorer{records: map[string]*types.CandidateRecord{
		"t1": {Name: "Low", Score: 20},
		"t2": {Name: "High", Score: 95},
		"t3": {Name: "MidFirst", Score: 60},
		"t4": {Name: "MidSecond", Score: 60},
	}}
	pipeline, sessions := newTestPipeline(extractor, scorer)
	defer sessions.Close()

	files := buildFileHeaders(t, []uploadFile{
		{"a.pdf", "f1"},
		{"b.pdf", "f2"},
		{"c.pdf", "f3"},
		{"d.pdf", "f4"},
	})

	result, err := pipeline.Intake(context.Background(), "some job", files)
	require.NoError(t, err)
	require.Len(t, result.Candidates, 4)

	names := []string{
		result.Candidates[0].Name,
		result.Candidates[1].Name,
		result.Candidates[2].Name,
		result.Candidates[3].Name,
	}
	// 同分候选人保持处理顺序（稳定排序）
	assert.Equal(t, []string{"High", "MidFirst", "MidSecond", "Low"}, names)
}

func TestIntake_AllFilesFailStillCreatesSession(t *testing.T) {
	extractor := &fakeExtractor{errors: map[string]error{"bad": errors.New("broken")}}
	pipeline, sessions := newTestPipeline(extractor, &fakeScorer{})
	defer sessions.Close()

	files := buildFileHeaders(t, []uploadFile{{"bad.pdf", "bad"}})

	result, err := pipeline.Intake(context.Background(), "some job", files)
	require.NoError(t, err)
	assert.Empty(t, result.Candidates)

	session, err := sessions.Get(context.Background(), result.SessionID)
	require.NoError(t, err)
	assert.Empty(t, session.Results)
}

func TestNextSessionID_MonotonicUnderConcurrency(t *testing.T) {
	const n = 200
	ids := make([]string, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ids[i] = nextSessionID()
		}(i)
	}
	wg.Wait()

	seen := make(map[string]bool, n)
	for _, id := range ids {
		assert.False(t, seen[id], "会话ID重复: %s", id)
		seen[id] = true
		_, err := strconv.ParseInt(id, 10, 64)
		assert.NoError(t, err, "会话ID应是十进制整数: %s", id)
	}
}

// readFileContent 读取流水线写入的临时文件内容
func readFileContent(filePath string) (string, error) {
	if filepath.Ext(filePath) != constants.ResumeFileExtension {
		return "", fmt.Errorf("unexpected temp file extension: %s", filePath)
	}
	data, err := os.ReadFile(filePath)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
