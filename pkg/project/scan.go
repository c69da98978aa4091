package project

import (
	"io"

	"github.com/yeisme/codescope/pkg/configs"
	gctx "github.com/yeisme/codescope/pkg/context"
	"github.com/yeisme/codescope/pkg/models"
	"github.com/yeisme/codescope/pkg/style"
	"github.com/yeisme/codescope/pkg/utils/count"
	"github.com/yeisme/codescope/pkg/utils/log"
)

// Stdio 命令的输入输出，打开编辑器时需要继承终端
type Stdio struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// ExecuteScanCommand 执行一次完整扫描并输出报告
// 根目录缺失与文件读取失败体现在报告的诊断中，不作为错误返回
func ExecuteScanCommand(appCtx *gctx.AppContext, opts ScanOptions, stdio Stdio) (*models.ScanResult, error) {
	req, err := opts.Request()
	if err != nil {
		return nil, err
	}

	log.Debug().
		Strs("roots", req.Roots).
		Str("keyword", req.Keyword).
		Str("sort", string(req.SortKey)).
		Int("concurrency", req.Options.Concurrency).
		Msg("start scan")

	spin := newScanSpinner(stdio.Err, opts.Format)
	spin.Start()
	res, err := count.NewCorpus().Scan(appCtx, req)
	spin.Stop()
	if err != nil {
		return nil, err
	}

	if err := RenderReport(stdio.Out, res, opts); err != nil {
		return res, err
	}

	if opts.Pick {
		return res, PickAndOpen(appCtx, res, opts.Editor, stdio.In, stdio.Out, stdio.Err)
	}
	return res, nil
}

// newScanSpinner 只在表格输出且 stderr 为终端时显示进度
func newScanSpinner(errOut io.Writer, format configs.OutputFormat) *style.Spinner {
	if format != configs.FormatTable || !style.IsTerminal(errOut) {
		return style.NewSpinner(io.Discard, "")
	}
	return style.NewSpinner(errOut, "scanning")
}
