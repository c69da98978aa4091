package count

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/yeisme/codescope/pkg/models"
)

// failingCounter 对指定文件名模拟读取失败，其它文件交给真实分析器
type failingCounter struct {
	fail  string
	inner FileCounter
}

func (f failingCounter) AnalyzeFile(ctx context.Context, path, keyword string) (*models.FileMetrics, error) {
	if filepath.Base(path) == f.fail {
		return nil, &ReadError{Path: path, Err: errors.New("permission denied")}
	}
	return f.inner.AnalyzeFile(ctx, path, keyword)
}

func seedProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, dir, "Player.cs", "// TODO fix\nif (x) { TODO }\n")
	writeFile(t, dir, "Enemy.cs", "class Enemy {\n  // attack\n  void Hit() { for (;;) {} }\n}\n")
	writeFile(t, dir, "ui/Menu.cs", "/* TODO menu */\nwhile (open) {\n  switch (k) { case 1: break; }\n}\n")
	writeFile(t, dir, "ui/Empty.cs", "")
	writeFile(t, dir, "notes.txt", "TODO not counted\n")
	return dir
}

func Test_Corpus_CurrentBeforeScan(t *testing.T) {
	c := NewCorpus()
	if c.Current() != nil {
		t.Fatal("expected nil result before the first scan")
	}
	if c.Resort(SortByName, true) != nil {
		t.Fatal("expected nil from Resort before the first scan")
	}
}

func Test_Corpus_ScanScenario(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "Player.cs", "// TODO fix\nif (x) { TODO }\n")

	res, err := NewCorpus().Scan(context.Background(), ScanRequest{Roots: []string{dir}, Keyword: "TODO", SortKey: SortBySize, Ascending: true})
	if err != nil {
		t.Fatal(err)
	}
	s := res.Summary
	if s.TotalFiles != 1 || s.TotalLines != 2 || s.TotalCommentLines != 1 || s.TotalComplexity != 1 ||
		s.TotalKeywordOccurrences != 2 || s.FilesContainingKeyword != 1 {
		t.Fatalf("unexpected summary %+v", s)
	}
	if len(res.Files) != 1 || len(res.Files[0].Snippets) != 2 {
		t.Fatalf("unexpected files %+v", res.Files)
	}
	if res.Keyword != "TODO" || res.SortKey != string(SortBySize) || !res.Ascending {
		t.Fatalf("request echo mismatch: %+v", res)
	}
}

func Test_Corpus_SummaryInvariants(t *testing.T) {
	dir := seedProject(t)
	res, err := NewCorpus().Scan(context.Background(), ScanRequest{Roots: []string{dir}, Keyword: "TODO"})
	if err != nil {
		t.Fatal(err)
	}

	var want models.AnalysisSummary
	for _, f := range res.Files {
		want.Add(f)
		if f.KeywordCount < len(f.Snippets) {
			t.Fatalf("%s: keyword count %d < snippets %d", f.DisplayName, f.KeywordCount, len(f.Snippets))
		}
		if f.CommentLineCount > f.LineCount || f.ComplexityScore > f.LineCount {
			t.Fatalf("%s: per-line counters exceed line count: %+v", f.DisplayName, f)
		}
		for i := 1; i < len(f.Snippets); i++ {
			if f.Snippets[i].LineNumber <= f.Snippets[i-1].LineNumber {
				t.Fatalf("%s: snippets not strictly increasing", f.DisplayName)
			}
		}
	}
	want.TotalFiles = len(res.Files)
	if res.Summary != want {
		t.Fatalf("summary %+v want %+v", res.Summary, want)
	}
	if res.Summary.TotalFiles != 4 {
		t.Fatalf("expected 4 .cs files, got %d", res.Summary.TotalFiles)
	}
	if res.Summary.FilesContainingKeyword != 2 || res.Summary.TotalKeywordOccurrences != 3 {
		t.Fatalf("unexpected keyword totals %+v", res.Summary)
	}
}

func Test_Corpus_EmptyKeyword(t *testing.T) {
	dir := seedProject(t)
	res, err := NewCorpus().Scan(context.Background(), ScanRequest{Roots: []string{dir}})
	if err != nil {
		t.Fatal(err)
	}
	if res.Summary.TotalKeywordOccurrences != 0 || res.Summary.FilesContainingKeyword != 0 {
		t.Fatalf("empty keyword should produce no hits: %+v", res.Summary)
	}
	for _, f := range res.Files {
		if len(f.Snippets) != 0 {
			t.Fatalf("%s has snippets with empty keyword", f.DisplayName)
		}
	}
}

func Test_Corpus_NoRoots(t *testing.T) {
	res, err := NewCorpus().Scan(context.Background(), ScanRequest{})
	if err != nil {
		t.Fatal(err)
	}
	if res.Summary != (models.AnalysisSummary{}) || len(res.Files) != 0 || len(res.Diagnostics) != 0 {
		t.Fatalf("expected empty result, got %+v", res)
	}
}

func Test_Corpus_MissingRootDoesNotAffectOthers(t *testing.T) {
	dir := seedProject(t)
	missing := filepath.Join(dir, "does-not-exist")

	alone, err := NewCorpus().Scan(context.Background(), ScanRequest{Roots: []string{dir}, Keyword: "TODO"})
	if err != nil {
		t.Fatal(err)
	}
	mixed, err := NewCorpus().Scan(context.Background(), ScanRequest{Roots: []string{missing, dir}, Keyword: "TODO"})
	if err != nil {
		t.Fatal(err)
	}
	if mixed.Summary != alone.Summary {
		t.Fatalf("missing root changed summary: %+v vs %+v", mixed.Summary, alone.Summary)
	}
	if len(mixed.Diagnostics) != 1 || mixed.Diagnostics[0].Kind != models.DiagnosticMissingRoot {
		t.Fatalf("expected one MissingRoot diagnostic, got %+v", mixed.Diagnostics)
	}
}

func Test_Corpus_ReadFailureCountsFileOnly(t *testing.T) {
	dir := seedProject(t)
	c := &Corpus{Counter: failingCounter{fail: "Player.cs", inner: &SingleFileCounter{}}}

	res, err := c.Scan(context.Background(), ScanRequest{Roots: []string{dir}, Keyword: "TODO"})
	if err != nil {
		t.Fatal(err)
	}
	if res.Summary.TotalFiles != 4 {
		t.Fatalf("failed file must still count in TotalFiles, got %d", res.Summary.TotalFiles)
	}
	if len(res.Files) != 3 {
		t.Fatalf("failed file must not appear in files, got %d", len(res.Files))
	}
	for _, f := range res.Files {
		if f.DisplayName == "Player.cs" {
			t.Fatal("Player.cs should be absent")
		}
	}
	if res.Summary.TotalKeywordOccurrences != 1 {
		t.Fatalf("only Menu.cs hits should remain, got %d", res.Summary.TotalKeywordOccurrences)
	}
	if len(res.Diagnostics) != 1 {
		t.Fatalf("expected one diagnostic, got %+v", res.Diagnostics)
	}
	d := res.Diagnostics[0]
	if d.Kind != models.DiagnosticReadError || filepath.Base(d.Path) != "Player.cs" || d.Reason != "permission denied" {
		t.Fatalf("unexpected diagnostic %+v", d)
	}
}

func Test_Corpus_SymlinkRoot(t *testing.T) {
	dir := t.TempDir()
	realDir := filepath.Join(dir, "real")
	writeFile(t, realDir, "Player.cs", "// TODO fix\nif (x) { TODO }\n")
	link := filepath.Join(dir, "link")
	if err := os.Symlink(realDir, link); err != nil {
		t.Skipf("symlink not supported: %v", err)
	}

	res, err := NewCorpus().Scan(context.Background(), ScanRequest{Roots: []string{link}, Keyword: "TODO"})
	if err != nil {
		t.Fatal(err)
	}
	if res.Summary.TotalFiles != 1 || res.Summary.TotalKeywordOccurrences != 2 || len(res.Diagnostics) != 0 {
		t.Fatalf("unexpected result %+v diagnostics %+v", res.Summary, res.Diagnostics)
	}
	if res.Files[0].Path != filepath.Join(link, "Player.cs") {
		t.Fatalf("path %q should be reported under the given root", res.Files[0].Path)
	}
}

func Test_Corpus_ConcurrentMatchesSerial(t *testing.T) {
	dir := seedProject(t)
	for i := range 20 {
		writeFile(t, dir, filepath.Join("gen", string(rune('a'+i))+".cs"), "if (a) {}\n// TODO\n")
	}
	req := ScanRequest{Roots: []string{dir}, Keyword: "TODO", SortKey: SortByName, Ascending: true}

	serial, err := NewCorpus().Scan(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	req.Options.Concurrency = 8
	parallel, err := NewCorpus().Scan(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if serial.Summary != parallel.Summary {
		t.Fatalf("summary differs: %+v vs %+v", serial.Summary, parallel.Summary)
	}
	if !reflect.DeepEqual(serial.Files, parallel.Files) {
		t.Fatal("files differ between serial and concurrent scans")
	}
}

func Test_Corpus_CancelKeepsPrevious(t *testing.T) {
	dir := seedProject(t)
	c := NewCorpus()
	first, err := c.Scan(context.Background(), ScanRequest{Roots: []string{dir}, Keyword: "TODO"})
	if err != nil {
		t.Fatal(err)
	}

	writeFile(t, dir, "Later.cs", "// TODO later\n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := c.Scan(ctx, ScanRequest{Roots: []string{dir}, Keyword: "TODO"}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if c.Current() != first {
		t.Fatal("cancelled scan must leave the previous result in place")
	}
}

func Test_Corpus_RescanReplaces(t *testing.T) {
	dir := seedProject(t)
	c := NewCorpus()
	if _, err := c.Scan(context.Background(), ScanRequest{Roots: []string{dir}, Keyword: "TODO"}); err != nil {
		t.Fatal(err)
	}
	writeFile(t, dir, "Later.cs", "// TODO later\n")
	second, err := c.Scan(context.Background(), ScanRequest{Roots: []string{dir}, Keyword: "TODO"})
	if err != nil {
		t.Fatal(err)
	}
	if second.Summary.TotalFiles != 5 || c.Current() != second {
		t.Fatalf("rescan should replace the result, got %+v", second.Summary)
	}
}

func Test_Corpus_Resort(t *testing.T) {
	dir := seedProject(t)
	c := NewCorpus()
	first, err := c.Scan(context.Background(), ScanRequest{Roots: []string{dir}, Keyword: "TODO", SortKey: SortByLines, Ascending: true})
	if err != nil {
		t.Fatal(err)
	}
	resorted := c.Resort(SortByLines, false)
	if resorted == nil || resorted.Ascending || resorted.SortKey != string(SortByLines) {
		t.Fatalf("unexpected resort result %+v", resorted)
	}
	if resorted.Summary != first.Summary {
		t.Fatal("resort must not change the summary")
	}
	n := len(first.Files)
	for i := range first.Files {
		if first.Files[i].Path != resorted.Files[n-1-i].Path {
			t.Fatalf("descending resort is not the reverse at %d", i)
		}
	}
	if c.Current() != resorted {
		t.Fatal("resort should become the current result")
	}
}

func Test_WorkerCount(t *testing.T) {
	if WorkerCount(3) != 3 {
		t.Fatal("positive value should pass through")
	}
	if WorkerCount(0) < 1 || WorkerCount(-2) < 1 {
		t.Fatal("non-positive value should map to at least one worker")
	}
}
