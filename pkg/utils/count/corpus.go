package count

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"time"

	"github.com/yeisme/codescope/pkg/models"
	"github.com/yeisme/codescope/pkg/utils/log"
)

// Corpus 运行文件发现与单文件分析，汇总全量统计并持有最近一次完整的扫描结果
//
// 结果只在扫描完整结束后整体替换；被取消的扫描不会让任何半成品可见
type Corpus struct {
	// Counter 单文件分析器，为 nil 时按每次扫描的 Options 构造 SingleFileCounter
	Counter FileCounter

	mu      sync.RWMutex
	current *models.ScanResult
}

// NewCorpus 创建一个空的 Corpus
func NewCorpus() *Corpus {
	return &Corpus{}
}

// outcome 是单个文件的分析产物
type outcome struct {
	metrics *models.FileMetrics
	err     error
}

// Scan 丢弃上一次结果，从零开始扫描所有根目录
//
// 根目录缺失与文件读取失败都以诊断形式返回，不会中断扫描；
// 读取失败的文件计入 TotalFiles，但不进入文件集合与其它汇总
// 仅在 ctx 被取消时返回错误，此时 Current 仍为上一次的结果
func (c *Corpus) Scan(ctx context.Context, req ScanRequest) (*models.ScanResult, error) {
	started := time.Now()

	disc, err := Discover(ctx, req.Roots, req.Options)
	if err != nil {
		return nil, err
	}

	counter := c.Counter
	if counter == nil {
		counter = &SingleFileCounter{TrackBlockComments: req.Options.TrackBlockComments}
	}

	outcomes := analyzeFiles(ctx, counter, disc.Files, req.Keyword, req.Options.Concurrency)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res := &models.ScanResult{
		Roots:       make([]string, 0, len(req.Roots)),
		Keyword:     req.Keyword,
		SortKey:     string(normalizeSortKey(req.SortKey)),
		Ascending:   req.Ascending,
		Diagnostics: disc.Diagnostics,
		StartedAt:   started,
	}
	for _, r := range req.Roots {
		res.Roots = append(res.Roots, absPath(r))
	}

	// 按发现顺序折叠，求和满足交换律，顺序不影响汇总
	res.Summary.TotalFiles = len(disc.Files)
	files := make([]models.FileMetrics, 0, len(disc.Files))
	for i, o := range outcomes {
		if o.err != nil {
			if isCancel(o.err) {
				return nil, o.err
			}
			log.Warn().Str("file", disc.Files[i]).Err(o.err).Msg("failed to analyze file")
			res.Diagnostics = append(res.Diagnostics, models.Diagnostic{
				Kind:   models.DiagnosticReadError,
				Path:   disc.Files[i],
				Reason: readReason(o.err),
			})
			continue
		}
		if o.metrics == nil {
			continue
		}
		res.Summary.Add(*o.metrics)
		files = append(files, *o.metrics)
	}

	res.Files = SortMetrics(files, req.SortKey, req.Ascending)
	res.Duration = time.Since(started)

	c.mu.Lock()
	c.current = res
	c.mu.Unlock()

	log.Info().
		Int("files", res.Summary.TotalFiles).
		Int("lines", res.Summary.TotalLines).
		Int("keyword_hits", res.Summary.TotalKeywordOccurrences).
		Int("diagnostics", len(res.Diagnostics)).
		Dur("duration", res.Duration).
		Msg("scan completed")

	return res, nil
}

// Current 返回最近一次完整扫描的结果，尚未扫描时返回 nil
func (c *Corpus) Current() *models.ScanResult {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current
}

// Resort 在不重新分析的前提下对当前结果重新排序
// 返回新的结果对象，并将其设为当前结果；尚未扫描时返回 nil
func (c *Corpus) Resort(key SortKey, ascending bool) *models.ScanResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil {
		return nil
	}
	next := *c.current
	next.Files = SortMetrics(c.current.Files, key, ascending)
	next.SortKey = string(normalizeSortKey(key))
	next.Ascending = ascending
	c.current = &next
	return &next
}

func normalizeSortKey(k SortKey) SortKey {
	parsed, err := ParseSortKey(string(k))
	if err != nil {
		return DefaultSortKey
	}
	return parsed
}

func isCancel(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func readReason(err error) string {
	var re *ReadError
	if errors.As(err, &re) && re.Err != nil {
		return re.Err.Error()
	}
	return err.Error()
}

// WorkerCount 把用户输入的并发数转为 worker 数量：正数原样返回，<=0 使用 CPU 核心数
func WorkerCount(c int) int {
	if c > 0 {
		return c
	}
	return max(runtime.NumCPU(), 1)
}

// analyzeFiles 分析所有文件，结果按输入下标写入对应槽位
// 并发时每个 worker 只写自己领取的槽位，所有 worker 结束后才由调用方统一折叠
func analyzeFiles(ctx context.Context, counter FileCounter, files []string, keyword string, concurrency int) []outcome {
	out := make([]outcome, len(files))
	if len(files) == 0 {
		return out
	}

	conc := 1
	if concurrency > 1 {
		conc = min(concurrency, len(files))
	}

	if conc == 1 {
		for i, f := range files {
			if err := ctx.Err(); err != nil {
				out[i] = outcome{err: err}
				return out
			}
			m, err := counter.AnalyzeFile(ctx, f, keyword)
			out[i] = outcome{metrics: m, err: err}
		}
		return out
	}

	inCh := make(chan int)
	var wg sync.WaitGroup
	for range conc {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range inCh {
				if err := ctx.Err(); err != nil {
					out[i] = outcome{err: err}
					continue
				}
				m, err := counter.AnalyzeFile(ctx, files[i], keyword)
				out[i] = outcome{metrics: m, err: err}
			}
		}()
	}

	for i := range files {
		if ctx.Err() != nil {
			break
		}
		inCh <- i
	}
	close(inCh)
	wg.Wait()
	return out
}

var _ Scanner = (*Corpus)(nil)
