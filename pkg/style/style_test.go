package style

import (
	"bytes"
	"reflect"
	"slices"
	"strings"
	"testing"
)

func TestSpans(t *testing.T) {
	cases := []struct {
		name    string
		text    string
		keyword string
		markers []string
		want    []Span
	}{
		{
			name:    "comment with keyword",
			text:    "// TODO fix",
			keyword: "TODO",
			markers: []string{"//"},
			want:    []Span{{SpanComment, "// "}, {SpanKeyword, "TODO"}, {SpanComment, " fix"}},
		},
		{
			name:    "keyword inside string before comment",
			text:    `x = "TODO"; // done`,
			keyword: "TODO",
			markers: []string{"//"},
			want: []Span{
				{SpanPlain, "x = "}, {SpanString, `"`}, {SpanKeyword, "TODO"}, {SpanString, `"`},
				{SpanPlain, "; "}, {SpanComment, "// done"},
			},
		},
		{
			name:    "inline block comment",
			text:    "a /* b */ c",
			markers: []string{"//"},
			want:    []Span{{SpanPlain, "a "}, {SpanComment, "/* b */"}, {SpanPlain, " c"}},
		},
		{
			name:    "hash comment",
			text:    "x = 1  # TODO",
			keyword: "TODO",
			markers: []string{"#"},
			want:    []Span{{SpanPlain, "x = 1  "}, {SpanComment, "# "}, {SpanKeyword, "TODO"}},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Spans(tc.text, tc.keyword, tc.markers)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("got %+v want %+v", got, tc.want)
			}
		})
	}
}

func TestSpansConcatenateToInput(t *testing.T) {
	inputs := []string{
		"if (x) { TODO } // TODO: \"quoted\"",
		"世界 TODO 世界",
		"TODOTODO",
		"\"unterminated",
	}
	for _, in := range inputs {
		var b strings.Builder
		for _, s := range Spans(in, "TODO", []string{"//"}) {
			b.WriteString(s.Text)
		}
		if b.String() != in {
			t.Fatalf("spans of %q reassemble to %q", in, b.String())
		}
	}
	if Spans("", "TODO", nil) != nil {
		t.Fatal("empty text should produce no spans")
	}
}

func TestSortHeaders(t *testing.T) {
	headers := []string{"file", "size"}
	got := SortHeaders(headers, 1, true)
	if !slices.Equal(got, []string{"file", "size " + ArrowUp}) {
		t.Fatalf("got %v", got)
	}
	got = SortHeaders(headers, 0, false)
	if !slices.Equal(got, []string{"file " + ArrowDown, "size"}) {
		t.Fatalf("got %v", got)
	}
	if !slices.Equal(headers, []string{"file", "size"}) {
		t.Fatal("input headers modified")
	}
	if got := SortHeaders(headers, 5, true); !slices.Equal(got, headers) {
		t.Fatalf("out of range should be unchanged, got %v", got)
	}
}

func TestTruncate(t *testing.T) {
	cases := []struct {
		in    string
		width int
		want  string
	}{
		{"hello", 10, "hello"},
		{"hello world", 5, "hell…"},
		{"世界你好", 5, "世界…"},
		{"anything", 0, "anything"},
	}
	for _, c := range cases {
		if got := Truncate(c.in, c.width); got != c.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", c.in, c.width, got, c.want)
		}
	}
}

func TestPrintTable(t *testing.T) {
	var buf bytes.Buffer
	err := PrintTable(&buf, Table{
		Headers:    []string{"file", "lines"},
		Rows:       [][]string{{"Player.cs", "2"}, {"Enemy.cs", "4"}},
		Width:      60,
		RightAlign: []int{1},
	})
	if err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"FILE", "LINES", "Player.cs", "Enemy.cs"} {
		if !strings.Contains(out, want) {
			t.Errorf("table output missing %q:\n%s", want, out)
		}
	}
}

func TestPrintFieldsAndList(t *testing.T) {
	var buf bytes.Buffer
	if err := PrintFields(&buf, []Field{{Label: "Files", Value: "3"}, {Label: "Keyword", Value: "TODO"}}); err != nil {
		t.Fatal(err)
	}
	if err := PrintList(&buf, []string{"MissingRoot: /nope"}, true); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"Files", "3", "Keyword", "TODO", "MissingRoot: /nope"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Count(out, "\n") < 3 {
		t.Fatalf("expected one line per item, got %q", out)
	}
}

func TestSpinnerStopWithoutStart(t *testing.T) {
	var buf bytes.Buffer
	s := NewSpinner(&buf, "scanning")
	s.Stop()
	if buf.Len() != 0 {
		t.Fatalf("unexpected output %q", buf.String())
	}

	s = NewSpinner(&buf, "scanning")
	s.Start()
	s.Stop()
	if !strings.Contains(buf.String(), "scanning") {
		t.Fatalf("spinner did not render message: %q", buf.String())
	}
}
