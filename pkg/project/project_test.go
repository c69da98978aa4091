package project

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ktr0731/go-fuzzyfinder"
	"github.com/yeisme/codescope/pkg/configs"
	gctx "github.com/yeisme/codescope/pkg/context"
	"github.com/yeisme/codescope/pkg/models"
	"github.com/yeisme/codescope/pkg/utils/count"
	"github.com/yeisme/codescope/pkg/utils/executor"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return p
}

func sampleResult() *models.ScanResult {
	files := []models.FileMetrics{
		{Path: "/src/Player.cs", DisplayName: "Player.cs", SizeBytes: 28, LineCount: 2, CharacterCount: 26, CommentLineCount: 1, ComplexityScore: 1, KeywordCount: 2,
			Snippets: []models.CodeSnippet{{LineNumber: 1, Text: "// TODO fix"}, {LineNumber: 2, Text: "if (x) { TODO }"}}},
		{Path: "/src/ui/Enemy.cs", DisplayName: "Enemy.cs", SizeBytes: 64, LineCount: 4, CharacterCount: 50, Snippets: []models.CodeSnippet{}},
	}
	res := &models.ScanResult{
		Roots:     []string{"/src"},
		Keyword:   "TODO",
		SortKey:   "size",
		Ascending: true,
		Files:     files,
		Diagnostics: []models.Diagnostic{
			{Kind: models.DiagnosticMissingRoot, Path: "/missing", Reason: "root directory does not exist"},
		},
	}
	res.Summary.TotalFiles = len(files)
	for _, f := range files {
		res.Summary.Add(f)
	}
	return res
}

func defaultOptions(t *testing.T) ScanOptions {
	t.Helper()
	var cfg configs.Config
	if err := configs.NewViper().Unmarshal(&cfg); err != nil {
		t.Fatal(err)
	}
	return OptionsFromConfig(&cfg)
}

func TestOptionsFromConfigAndRequest(t *testing.T) {
	opts := defaultOptions(t)
	if opts.Keyword != "TODO" || opts.Format != configs.FormatTable || !opts.Snippets {
		t.Fatalf("unexpected defaults %+v", opts)
	}

	opts.Roots = nil
	opts.Sort = "Lines"
	opts.MaxFileSize = "1KB"
	opts.GitIgnore = true
	opts.Concurrency = 4
	req, err := opts.Request()
	if err != nil {
		t.Fatal(err)
	}
	if len(req.Roots) != 1 || req.Roots[0] != "." {
		t.Fatalf("empty roots should default to '.', got %v", req.Roots)
	}
	if req.SortKey != count.SortByLines || !req.Options.RespectGitignore || req.Options.Concurrency != 4 {
		t.Fatalf("unexpected request %+v", req)
	}
	if req.Options.MaxFileSizeBytes != 1000 {
		t.Fatalf("max size %d want 1000", req.Options.MaxFileSizeBytes)
	}
}

func TestRequestErrors(t *testing.T) {
	base := defaultOptions(t)
	cases := map[string]func(o *ScanOptions){
		"sort":        func(o *ScanOptions) { o.Sort = "bogus" },
		"size":        func(o *ScanOptions) { o.MaxFileSize = "huge" },
		"concurrency": func(o *ScanOptions) { o.Concurrency = -1 },
	}
	for name, mutate := range cases {
		o := base
		mutate(&o)
		if _, err := o.Request(); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestFilterFiles(t *testing.T) {
	res := sampleResult()
	got := FilterFiles(res.Files, res.Roots, "ply")
	if len(got) != 1 || got[0].DisplayName != "Player.cs" {
		t.Fatalf("got %+v", got)
	}
	// 相对路径也参与匹配
	if got := FilterFiles(res.Files, res.Roots, "ui/en"); len(got) != 1 || got[0].DisplayName != "Enemy.cs" {
		t.Fatalf("path match got %+v", got)
	}
	if got := FilterFiles(res.Files, res.Roots, "  "); len(got) != 2 {
		t.Fatalf("blank pattern should keep all files, got %d", len(got))
	}
	if got := FilterFiles(res.Files, res.Roots, "zzz"); len(got) != 0 {
		t.Fatalf("expected no match, got %+v", got)
	}
}

func TestDisplayPath(t *testing.T) {
	roots := []string{"/src", "/src/ui"}
	if got := displayPath(roots, "/src/ui/Enemy.cs"); got != "Enemy.cs" {
		t.Fatalf("got %q", got)
	}
	if got := displayPath(roots, "/other/A.cs"); got != "/other/A.cs" {
		t.Fatalf("path outside roots should be unchanged, got %q", got)
	}
}

func TestBuildMarkdown(t *testing.T) {
	res := sampleResult()
	opts := ScanOptions{Snippets: true}
	md := BuildMarkdown(res, opts)

	for _, want := range []string{
		"# codescope report",
		"| Files | 2 |",
		"| Keyword hits | 2 |",
		"size ↑",
		"| Player.cs |",
		"| ui/Enemy.cs |",
		"## Snippets for `TODO`",
		"- **Player.cs:1** `// TODO fix`",
		"## Diagnostics",
		"**MissingRoot** `/missing`",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q\n%s", want, md)
		}
	}

	top := BuildMarkdown(res, ScanOptions{Top: 1})
	if strings.Contains(top, "Enemy.cs") || strings.Contains(top, "## Snippets") {
		t.Fatalf("top=1 without snippets should list only the first file:\n%s", top)
	}
}

func TestMarkdownEscaping(t *testing.T) {
	if got := mdEscape("a|b_c*d"); got != `a\|b\_c\*d` {
		t.Fatalf("mdEscape got %q", got)
	}
	if got := mdCode("a`b"); got != "``a`b``" {
		t.Fatalf("mdCode got %q", got)
	}
	if got := mdCode(""); got != "_(none)_" {
		t.Fatalf("mdCode empty got %q", got)
	}
}

func TestRenderReportDataFormatsIgnoreView(t *testing.T) {
	res := sampleResult()
	var buf bytes.Buffer
	err := RenderReport(&buf, res, ScanOptions{Format: configs.FormatJSON, Match: "zzz", Top: 1})
	if err != nil {
		t.Fatal(err)
	}
	var back models.ScanResult
	if err := json.Unmarshal(buf.Bytes(), &back); err != nil {
		t.Fatalf("invalid json: %v\n%s", err, buf.String())
	}
	if len(back.Files) != 2 || back.Summary != res.Summary {
		t.Fatalf("json output should contain the full result, got %d files", len(back.Files))
	}
}

func TestRenderReportTable(t *testing.T) {
	res := sampleResult()
	var buf bytes.Buffer
	if err := RenderReport(&buf, res, ScanOptions{Format: configs.FormatTable, Snippets: true, Width: 100}); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"SUMMARY", "FILES", "Player.cs", "ui/Enemy.cs", "Player.cs:2", "DIAGNOSTICS", "MissingRoot /missing"} {
		if !strings.Contains(out, want) {
			t.Errorf("table output missing %q\n%s", want, out)
		}
	}

	buf.Reset()
	if err := RenderReport(&buf, res, ScanOptions{Format: configs.FormatTable, Match: "zzz", Width: 100}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "no matching files") {
		t.Fatalf("expected empty view notice\n%s", buf.String())
	}
}

func TestExecuteScanCommand(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "Player.cs", "// TODO fix\nif (x) { TODO }\n")
	writeFile(t, dir, "sub/Empty.cs", "")

	opts := defaultOptions(t)
	opts.Roots = []string{dir, filepath.Join(dir, "missing")}
	opts.Format = configs.FormatJSON

	var out, errOut bytes.Buffer
	appCtx := &gctx.AppContext{Context: context.Background()}
	res, err := ExecuteScanCommand(appCtx, opts, Stdio{In: strings.NewReader(""), Out: &out, Err: &errOut})
	if err != nil {
		t.Fatal(err)
	}
	if res.Summary.TotalFiles != 2 || res.Summary.TotalKeywordOccurrences != 2 {
		t.Fatalf("unexpected summary %+v", res.Summary)
	}
	if len(res.Diagnostics) != 1 || res.Diagnostics[0].Kind != models.DiagnosticMissingRoot {
		t.Fatalf("unexpected diagnostics %+v", res.Diagnostics)
	}
	// 默认按大小升序，空文件在前
	if res.Files[0].DisplayName != "Empty.cs" {
		t.Fatalf("unexpected order %s, %s", res.Files[0].DisplayName, res.Files[1].DisplayName)
	}
	var back models.ScanResult
	if err := json.Unmarshal(out.Bytes(), &back); err != nil {
		t.Fatalf("report is not valid json: %v", err)
	}
	if errOut.Len() != 0 {
		t.Fatalf("nothing should be written to stderr for json output, got %q", errOut.String())
	}
}

func stubPick(t *testing.T, pick func([]string, []models.SnippetRef) (int, error)) *[]string {
	t.Helper()
	var opened []string
	oldPick, oldOpen := pickSnippet, openAtLine
	pickSnippet = pick
	openAtLine = func(_ context.Context, editor, path string, line int, _ io.Reader, _, _ io.Writer) error {
		opened = append(opened, editor, path, strings.Repeat("I", line))
		return nil
	}
	t.Cleanup(func() { pickSnippet, openAtLine = oldPick, oldOpen })
	return &opened
}

func TestPickAndOpen(t *testing.T) {
	res := sampleResult()
	opened := stubPick(t, func(_ []string, snips []models.SnippetRef) (int, error) {
		if len(snips) != 2 {
			t.Fatalf("expected 2 snippets, got %d", len(snips))
		}
		return 1, nil
	})

	if err := PickAndOpen(context.Background(), res, "vim", nil, io.Discard, io.Discard); err != nil {
		t.Fatal(err)
	}
	want := []string{"vim", "/src/Player.cs", "II"}
	if strings.Join(*opened, ",") != strings.Join(want, ",") {
		t.Fatalf("opened %v want %v", *opened, want)
	}
}

func TestPickAndOpenAbort(t *testing.T) {
	opened := stubPick(t, func([]string, []models.SnippetRef) (int, error) {
		return -1, fuzzyfinder.ErrAbort
	})
	if err := PickAndOpen(context.Background(), sampleResult(), "vim", nil, io.Discard, io.Discard); err != nil {
		t.Fatalf("abort should not be an error, got %v", err)
	}
	if len(*opened) != 0 {
		t.Fatal("editor must not be launched after abort")
	}
}

func TestPickAndOpenNoEditor(t *testing.T) {
	t.Setenv("VISUAL", "")
	t.Setenv("EDITOR", "")
	stubPick(t, func([]string, []models.SnippetRef) (int, error) { return 0, nil })
	err := PickAndOpen(context.Background(), sampleResult(), "", nil, io.Discard, io.Discard)
	if !errors.Is(err, executor.ErrNoEditor) {
		t.Fatalf("expected ErrNoEditor, got %v", err)
	}
}

func TestPickAndOpenNoSnippets(t *testing.T) {
	stubPick(t, func([]string, []models.SnippetRef) (int, error) {
		t.Fatal("picker should not run without snippets")
		return 0, nil
	})
	res := sampleResult()
	res.Files = res.Files[1:]
	var errOut bytes.Buffer
	if err := PickAndOpen(context.Background(), res, "vim", nil, io.Discard, &errOut); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(errOut.String(), "no snippets") {
		t.Fatalf("expected notice, got %q", errOut.String())
	}
}

func TestPreviewContext(t *testing.T) {
	p := writeFile(t, t.TempDir(), "A.cs", "one\ntwo\nthree\nfour\nfive\n")
	got := previewContext(p, 3, 1)
	want := "      2  two\n>     3  three\n      4  four\n"
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}
