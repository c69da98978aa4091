// Package fsop provides file system operations.
package fsop

import (
	"io/fs"
	"path/filepath"
)

// SkipFunc 判断相对路径（`/` 分隔）对应的目录是否应被跳过
type SkipFunc func(relSlash string) bool

// ListSubdirectories 递归列出 root 下的所有子目录（不含 root 本身）
// skip 返回 true 的目录及其子树不会出现在结果中；skip 可为 nil
// 无法读取的目录被跳过而不是中断遍历
func ListSubdirectories(root string, skip SkipFunc) ([]string, error) {
	var subdirs []string
	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.IsDir() || path == root {
			return nil
		}
		if skip != nil {
			rel, rerr := filepath.Rel(root, path)
			if rerr == nil && skip(filepath.ToSlash(rel)) {
				return filepath.SkipDir
			}
		}
		subdirs = append(subdirs, path)
		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}
	return subdirs, nil
}
