package count

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/yeisme/codescope/pkg/models"
)

// maxLineBytes 单行最大长度，超过时该文件按读取失败处理
const maxLineBytes = 16 * 1024 * 1024

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ReadError 表示一个已发现的文件无法打开或读取
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	// *fs.PathError 已包含路径
	var pe *fs.PathError
	if errors.As(e.Err, &pe) {
		return e.Err.Error()
	}
	return fmt.Sprintf("read %s: %v", e.Path, e.Err)
}

// Unwrap 允许使用 errors.Is 和 errors.As 检查底层错误
func (e *ReadError) Unwrap() error {
	return e.Err
}

// SingleFileCounter 是 FileCounter 的基础实现
// 逐行应用 Classifier，累加注释、复杂度与关键字计数并收集片段
type SingleFileCounter struct {
	// TrackBlockComments 见 Options.TrackBlockComments
	TrackBlockComments bool
}

// AnalyzeFile 读取并分析单个文件
func (s *SingleFileCounter) AnalyzeFile(ctx context.Context, filePath, keyword string) (*models.FileMetrics, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(filePath)
	if err != nil {
		return nil, &ReadError{Path: filePath, Err: err}
	}
	defer func() { _ = f.Close() }()

	// 文件大小取自磁盘，与字符数无关
	st, err := f.Stat()
	if err != nil {
		return nil, &ReadError{Path: filePath, Err: err}
	}

	metrics := &models.FileMetrics{
		Path:        filePath,
		DisplayName: filepath.Base(filePath),
		SizeBytes:   st.Size(),
		Snippets:    []models.CodeSnippet{},
	}

	classifier := NewClassifier(filepath.Ext(filePath))
	var tracker *blockTracker
	if s != nil && s.TrackBlockComments {
		tracker = &blockTracker{style: classifier.Style}
	}

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	sc.Split(scanLines)

	lineNo := 0
	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		raw := sc.Bytes()
		if lineNo == 0 {
			raw = bytes.TrimPrefix(raw, utf8BOM)
		}
		line := string(raw)
		lineNo++

		metrics.LineCount++
		metrics.CharacterCount += utf8.RuneCountInString(line)

		comment := classifier.IsCommentLine(line)
		if tracker != nil && tracker.step(line) {
			comment = true
		}
		if comment {
			metrics.CommentLineCount++
		}

		if ComplexityHit(line) {
			metrics.ComplexityScore++
		}

		if n := KeywordOccurrences(line, keyword); n > 0 {
			metrics.KeywordCount += n
			metrics.Snippets = append(metrics.Snippets, models.CodeSnippet{
				LineNumber: lineNo,
				Text:       line,
			})
		}
	}
	if err := sc.Err(); err != nil {
		return nil, &ReadError{Path: filePath, Err: err}
	}

	return metrics, nil
}

// scanLines 是 bufio.SplitFunc，识别 \n、\r\n 与单独的 \r 三种换行
// 末尾的换行符不会产生额外的空行
func scanLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		if data[i] == '\n' {
			return i + 1, data[:i], nil
		}
		// \r: 需要看下一个字节是否为 \n
		if i+1 < len(data) {
			if data[i+1] == '\n' {
				return i + 2, data[:i], nil
			}
			return i + 1, data[:i], nil
		}
		if atEOF {
			return i + 1, data[:i], nil
		}
		// 请求更多数据以判断 \r\n
		return 0, nil, nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

var _ FileCounter = (*SingleFileCounter)(nil)
