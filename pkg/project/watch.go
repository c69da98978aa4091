package project

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/yeisme/codescope/pkg/configs"
	gctx "github.com/yeisme/codescope/pkg/context"
	"github.com/yeisme/codescope/pkg/style"
	"github.com/yeisme/codescope/pkg/utils/count"
	"github.com/yeisme/codescope/pkg/utils/hotload"
	"github.com/yeisme/codescope/pkg/utils/log"
)

// clearScreen 清屏并将光标移到左上角
const clearScreen = "\033[H\033[2J"

// ExecuteWatchCommand 先完整扫描一次，之后每当相关文件变化就重新完整扫描并刷新报告
// 阻塞直到 appCtx 被取消
func ExecuteWatchCommand(appCtx *gctx.AppContext, opts ScanOptions, watchCfg configs.WatchConfig, w io.Writer) error {
	req, err := opts.Request()
	if err != nil {
		return err
	}
	// 监听模式下交互选择没有意义
	opts.Pick = false

	corpus := count.NewCorpus()
	redraw := style.IsTerminal(w)

	rescan := func(ctx context.Context, changed []string) {
		res, err := corpus.Scan(ctx, req)
		if err != nil {
			// 被取消的扫描保留上一次的结果
			log.Warn().Err(err).Msg("rescan aborted")
			return
		}
		if redraw {
			_, _ = io.WriteString(w, clearScreen)
		}
		if err := RenderReport(w, res, opts); err != nil {
			log.Error().Err(err).Msg("failed to render report")
			return
		}
		if len(changed) > 0 {
			_, _ = fmt.Fprintf(w, "\n%d file(s) changed, rescanned at %s. Press Ctrl+C to exit.\n",
				len(changed), time.Now().Format(time.TimeOnly))
		}
	}

	rescan(appCtx, nil)

	watcher, err := hotload.New(hotload.Options{
		Roots:          req.Roots,
		Extensions:     extensionsOrDefault(req.Options.Extensions),
		IgnorePatterns: watchCfg.IgnorePatterns,
		GitIgnore:      req.Options.RespectGitignore,
		Debounce:       time.Duration(watchCfg.Debounce) * time.Millisecond,
	})
	if err != nil {
		return err
	}

	log.Info().Strs("roots", req.Roots).Msg("watching for changes")
	return watcher.Run(appCtx, rescan)
}

func extensionsOrDefault(exts []string) []string {
	if len(exts) == 0 {
		return count.DefaultExtensions
	}
	return exts
}
