package count

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/yeisme/codescope/pkg/models"
	"github.com/yeisme/codescope/pkg/utils/gitignore"
	"github.com/yeisme/codescope/pkg/utils/log"
)

// ErrMissingRoot 表示配置的根目录不存在或不是目录
var ErrMissingRoot = errors.New("root directory does not exist")

// walkDir 遍历函数，测试中可替换以模拟无法读取的目录
var walkDir = filepath.WalkDir

// DiscoveryResult 是文件发现阶段的产物
type DiscoveryResult struct {
	Files       []string // 绝对路径，按根目录顺序与遍历顺序排列，不重复
	Diagnostics []models.Diagnostic
}

// Discover 递归遍历每个根目录，收集扩展名匹配的文件
// 不存在的根目录只产生一条 MissingRoot 诊断，不影响其余根目录
// 仅在 ctx 被取消时返回错误
func Discover(ctx context.Context, roots []string, opts Options) (DiscoveryResult, error) {
	res := DiscoveryResult{Files: []string{}, Diagnostics: []models.Diagnostic{}}
	exts := normalizeExtensions(opts.Extensions)
	seen := make(map[string]struct{})

	for _, raw := range roots {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		root := absPath(raw)

		if err := checkRoot(root); err != nil {
			log.Warn().Str("root", root).Err(err).Msg("skip root")
			res.Diagnostics = append(res.Diagnostics, models.Diagnostic{
				Kind:   models.DiagnosticMissingRoot,
				Path:   root,
				Reason: err.Error(),
			})
			continue
		}

		// 根目录本身可能是符号链接，WalkDir 不会进入链接，因此遍历解析后的真实路径
		// 上报的路径仍以给定的根目录为前缀，去重使用真实路径
		walkRoot := root
		if resolved, err := filepath.EvalSymlinks(root); err == nil {
			walkRoot = resolved
		}

		gi := loadGitIgnore(walkRoot, opts.RespectGitignore)
		files, diags, err := collectFiles(ctx, walkRoot, opts, exts, gi)
		if err != nil {
			return res, err
		}
		for _, d := range diags {
			d.Path = rebase(walkRoot, root, d.Path)
			res.Diagnostics = append(res.Diagnostics, d)
		}

		added := 0
		for _, f := range files {
			if _, dup := seen[f]; dup {
				continue
			}
			seen[f] = struct{}{}
			res.Files = append(res.Files, rebase(walkRoot, root, f))
			added++
		}
		log.Debug().Str("root", root).Int("files", added).Msg("discovered files")
	}
	return res, nil
}

// checkRoot 校验根目录存在且为目录
func checkRoot(root string) error {
	st, err := os.Stat(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ErrMissingRoot
		}
		return err
	}
	if !st.IsDir() {
		return errors.New("root is not a directory")
	}
	return nil
}

// rebase 将 from 下的路径改写为 to 下的同一相对路径
func rebase(from, to, path string) string {
	if from == to {
		return path
	}
	rel, err := filepath.Rel(from, path)
	if err != nil {
		return path
	}
	return filepath.Join(to, rel)
}

func absPath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return filepath.Clean(p)
}

// loadGitIgnore 在 respect 为 false 时返回 nil，加载失败时返回空规则集
func loadGitIgnore(root string, respect bool) *gitignore.GitIgnore {
	if !respect {
		return nil
	}
	gi, err := gitignore.LoadGitIgnoreFromDir(root)
	if err != nil {
		log.Warn().Str("root", root).Err(err).Msg("failed to load .gitignore")
		return &gitignore.GitIgnore{}
	}
	return gi
}

// collectFiles 使用 filepath.WalkDir 遍历单个根目录
// 无法读取的子目录记为 ReadError 诊断后跳过，遍历继续
func collectFiles(ctx context.Context, root string, opts Options, exts []string, gi *gitignore.GitIgnore) ([]string, []models.Diagnostic, error) {
	files := make([]string, 0, 256)
	var diags []models.Diagnostic

	err := walkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			diags = append(diags, models.Diagnostic{
				Kind:   models.DiagnosticReadError,
				Path:   path,
				Reason: walkErr.Error(),
			})
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			if path == root {
				return nil
			}
			if shouldSkipDir(toRelSlash(root, path), opts, gi) {
				return filepath.SkipDir
			}
			return nil
		}

		if !slices.Contains(exts, strings.ToLower(filepath.Ext(path))) {
			return nil
		}
		if d.Type()&fs.ModeSymlink != 0 {
			if opts.SkipSymlinks {
				return nil
			}
			// 指向目录的链接不是文件
			if st, err := os.Stat(path); err == nil && st.IsDir() {
				return nil
			}
		}
		if !shouldIncludeFile(toRelSlash(root, path), opts, gi) {
			return nil
		}
		if overSize(path, opts.MaxFileSizeBytes) {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return files, diags, nil
}

// toRelSlash 将 path 转为相对 root、使用 `/` 分隔的路径
func toRelSlash(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

// shouldSkipDir 判断是否跳过整个目录
// 只有在 Include 为空时 Exclude 才作用于目录，避免误伤被 Include 命中的子文件
func shouldSkipDir(relSlash string, opts Options, gi *gitignore.GitIgnore) bool {
	if gi != nil {
		if relSlash == ".git" || strings.HasSuffix(relSlash, "/.git") {
			return true
		}
		if gi.Match(relSlash, true) {
			return true
		}
	}
	if len(opts.Include) == 0 && matchesAny(relSlash, opts.Exclude) {
		return true
	}
	return false
}

// shouldIncludeFile 判断文件是否参与统计
//  1. 被 .gitignore 忽略则不包含
//  2. Include 非空时必须命中 Include
//  3. 否则命中 Exclude 则不包含
func shouldIncludeFile(relSlash string, opts Options, gi *gitignore.GitIgnore) bool {
	if gi.Match(relSlash, false) {
		return false
	}
	if len(opts.Include) > 0 {
		return matchesAny(relSlash, opts.Include)
	}
	return !matchesAny(relSlash, opts.Exclude)
}

// normalizePattern 统一为 `/` 分隔并去掉前导的 `./`
func normalizePattern(raw string) string {
	p := strings.TrimSpace(raw)
	p = strings.ReplaceAll(p, "\\", "/")
	if after, ok := strings.CutPrefix(p, "./"); ok {
		p = after
	}
	return p
}

// matchesAny 检查相对路径是否匹配任意模式
// 支持 glob（对完整相对路径或文件名）、`dir/*` 与 `dir/` 前缀、以及路径片段前缀
func matchesAny(rel string, patterns []string) bool {
	base := rel
	if i := strings.LastIndex(rel, "/"); i >= 0 {
		base = rel[i+1:]
	}
	for _, raw := range patterns {
		p := normalizePattern(raw)
		if p == "" {
			continue
		}
		if ok, _ := filepath.Match(p, rel); ok {
			return true
		}
		if !strings.Contains(p, "/") {
			if ok, _ := filepath.Match(p, base); ok {
				return true
			}
		}
		prefix := strings.TrimSuffix(strings.TrimSuffix(p, "*"), "/")
		if prefix == "" || strings.ContainsAny(prefix, "*?[") {
			continue
		}
		if rel == prefix || strings.HasPrefix(rel, prefix+"/") || strings.Contains(rel, "/"+prefix+"/") {
			return true
		}
	}
	return false
}

// overSize 检查文件大小是否超过 limit，limit <= 0 表示不限制
// 获取状态失败时不过滤，交给分析阶段报告错误
func overSize(path string, limit int64) bool {
	if limit <= 0 {
		return false
	}
	if st, err := os.Stat(path); err == nil {
		return st.Size() > limit
	}
	return false
}
