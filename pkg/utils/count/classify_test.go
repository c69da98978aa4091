package count

import "testing"

func Test_Classifier_IsCommentLine(t *testing.T) {
	cs := NewClassifier(".cs")
	cases := []struct {
		line string
		want bool
	}{
		{"// TODO fix", true},
		{"    // indented", true},
		{"\t/* block */", true},
		{"int x = 1; /* trailing", true},
		{"end of block */", true},
		{"int x = 1;", false},
		{"var url = \"http:/x\";", false},
		{"", false},
	}
	for _, c := range cases {
		if got := cs.IsCommentLine(c.line); got != c.want {
			t.Errorf("IsCommentLine(%q) = %v, want %v", c.line, got, c.want)
		}
	}

	py := NewClassifier(".PY")
	if !py.IsCommentLine("  # note") {
		t.Error("python hash comment not detected")
	}
	if py.IsCommentLine("// not a python comment") {
		t.Error("python should not treat // as comment")
	}
}

func Test_CommentStyleFor_Fallback(t *testing.T) {
	st := CommentStyleFor(".unknown")
	if len(st.Line) != 1 || st.Line[0] != "//" || st.BlockStart != "/*" || st.BlockEnd != "*/" {
		t.Fatalf("unexpected fallback style: %+v", st)
	}
}

func Test_ComplexityHit(t *testing.T) {
	cases := []struct {
		line string
		want bool
	}{
		{"if (x) { TODO }", true},
		{"} else if (y) {", true},
		{"for (int i = 0; i < n; i++)", true},
		{"while (true)", true},
		{"case 1:", true},
		{"} catch (Exception e) {", true},
		{"// if this breaks", true},
		{"foreach (var x in xs)", false},
		{"var iffy = elsewhere;", false},
		{"} else {", false},
		{"return x;", false},
	}
	for _, c := range cases {
		if got := ComplexityHit(c.line); got != c.want {
			t.Errorf("ComplexityHit(%q) = %v, want %v", c.line, got, c.want)
		}
	}
}

func Test_KeywordOccurrences(t *testing.T) {
	cases := []struct {
		line, kw string
		want     int
	}{
		{"TODO TODO", "TODO", 2},
		{"todo", "TODO", 0},
		{"aaaa", "aa", 2},
		{"aXb", "a.b", 0},
		{"a.b", "a.b", 1},
		{"anything", "", 0},
		{"", "TODO", 0},
	}
	for _, c := range cases {
		if got := KeywordOccurrences(c.line, c.kw); got != c.want {
			t.Errorf("KeywordOccurrences(%q, %q) = %d, want %d", c.line, c.kw, got, c.want)
		}
	}
}

func Test_blockTracker(t *testing.T) {
	bt := &blockTracker{style: CStyleComment}
	steps := []struct {
		line string
		want bool
	}{
		{"code();", false},
		{"a /* b */ c", true},
		{"after();", false},
		{"/* open", true},
		{"  middle", true},
		{"close */ x();", true},
		{"tail();", false},
	}
	for i, s := range steps {
		if got := bt.step(s.line); got != s.want {
			t.Fatalf("step %d (%q) = %v, want %v", i, s.line, got, s.want)
		}
	}

	noBlock := &blockTracker{style: CommentStyleFor(".py")}
	if noBlock.step("/* not a block in python") {
		t.Fatal("style without block markers should never report block comments")
	}
}
