package texast_test

import (
	"errors"
	"testing"

	"github.com/yaklabco/texhelper/pkg/texast"
)

// buildTestTree builds:
//
//	Passage
//	  Paragraph
//	    Word(a)
//	    Command(textbf)
//	      CurlyBracketArg
//	        Paragraph
//	          Word(b)
//	  Paragraph
//	    Envr(eq)
//	      Passage
func buildTestTree() (*texast.Tree, map[string]texast.NodeID) {
	tree := texast.NewTree()
	ids := map[string]texast.NodeID{"root": tree.Root()}

	add := func(name string, parent texast.NodeID, kind texast.NodeKind, lexeme string) texast.NodeID {
		id := tree.Add(kind, lexeme)
		tree.AppendChild(parent, id)
		ids[name] = id
		return id
	}

	p1 := add("p1", tree.Root(), texast.NodeParagraph, "")
	add("a", p1, texast.NodeWord, "a")
	cmd := add("cmd", p1, texast.NodeCommand, "textbf")
	arg := add("arg", cmd, texast.NodeCurlyBracketArg, "")
	argPara := add("argPara", arg, texast.NodeParagraph, "")
	add("b", argPara, texast.NodeWord, "b")

	p2 := add("p2", tree.Root(), texast.NodeParagraph, "")
	envr := add("envr", p2, texast.NodeEnvr, "eq")
	add("body", envr, texast.NodePassage, "")

	return tree, ids
}

func TestNewTree(t *testing.T) {
	t.Parallel()

	tree := texast.NewTree()
	if tree.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", tree.Len())
	}
	if tree.Kind(tree.Root()) != texast.NodePassage {
		t.Errorf("root kind = %v, want Passage", tree.Kind(tree.Root()))
	}
	if len(tree.Children(tree.Root())) != 0 {
		t.Errorf("new root should have no children")
	}
}

func TestNodeKind_ContainerContentExclusive(t *testing.T) {
	t.Parallel()

	for kind := texast.NodePassage; kind <= texast.NodeEscapedChar; kind++ {
		if kind.IsContainer() == kind.IsContent() {
			t.Errorf("%v: IsContainer() == IsContent()", kind)
		}
	}

	if !texast.NodePassage.IsContainer() || !texast.NodeParagraph.IsContainer() {
		t.Error("Passage and Paragraph must be containers")
	}
	if texast.NodeEnvr.IsContainer() {
		t.Error("Envr must be content")
	}
}

func TestNodeKind_String(t *testing.T) {
	t.Parallel()

	tests := []struct {
		kind texast.NodeKind
		want string
	}{
		{texast.NodePassage, "Passage"},
		{texast.NodeDoubleBackSlash, "DoubleBackSlash"},
		{texast.NodeCurlyBracketArg, "CurlyBracketArg"},
		{texast.NodeKind(999), "NodeKind(999)"},
	}

	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestTree_ChildOutOfRange(t *testing.T) {
	t.Parallel()

	tree, ids := buildTestTree()

	if got := tree.Child(ids["p1"], 5); got != texast.NoNode {
		t.Errorf("Child(p1, 5) = %d, want NoNode", got)
	}
	if got := tree.Child(ids["p1"], -1); got != texast.NoNode {
		t.Errorf("Child(p1, -1) = %d, want NoNode", got)
	}
	if tree.Node(texast.NodeID(1000)) != nil {
		t.Error("Node(1000) should be nil")
	}
	if got := tree.Children(texast.NoNode); got != nil {
		t.Errorf("Children(NoNode) = %v, want nil", got)
	}
}

func TestTree_Text(t *testing.T) {
	t.Parallel()

	tree, ids := buildTestTree()

	if got := tree.Text(ids["arg"]); got != "b" {
		t.Errorf("Text(arg) = %q, want %q", got, "b")
	}
	if got := tree.Text(ids["p1"]); got != "atextbfb" {
		t.Errorf("Text(p1) = %q, want %q", got, "atextbfb")
	}
}

func TestTree_Parents(t *testing.T) {
	t.Parallel()

	tree, ids := buildTestTree()
	parents := tree.Parents()

	if parents[ids["root"]] != texast.NoNode {
		t.Error("root parent should be NoNode")
	}
	if parents[ids["b"]] != ids["argPara"] {
		t.Errorf("parent of b = %d, want %d", parents[ids["b"]], ids["argPara"])
	}
	if parents[ids["envr"]] != ids["p2"] {
		t.Errorf("parent of envr = %d, want %d", parents[ids["envr"]], ids["p2"])
	}
}

func TestWalk_PreOrder(t *testing.T) {
	t.Parallel()

	tree, _ := buildTestTree()

	var visited []texast.NodeKind
	err := texast.Walk(tree, tree.Root(), func(tr *texast.Tree, id texast.NodeID) error {
		visited = append(visited, tr.Kind(id))
		return nil
	})
	if err != nil {
		t.Fatalf("Walk returned error: %v", err)
	}

	expected := []texast.NodeKind{
		texast.NodePassage,
		texast.NodeParagraph,
		texast.NodeWord,
		texast.NodeCommand,
		texast.NodeCurlyBracketArg,
		texast.NodeParagraph,
		texast.NodeWord,
		texast.NodeParagraph,
		texast.NodeEnvr,
		texast.NodePassage,
	}
	if len(visited) != len(expected) {
		t.Fatalf("visited %d nodes, want %d", len(visited), len(expected))
	}
	for i := range expected {
		if visited[i] != expected[i] {
			t.Errorf("visited[%d] = %v, want %v", i, visited[i], expected[i])
		}
	}
}

func TestWalk_StopsOnError(t *testing.T) {
	t.Parallel()

	tree, _ := buildTestTree()
	stop := errors.New("stop")

	count := 0
	err := texast.Walk(tree, tree.Root(), func(tr *texast.Tree, id texast.NodeID) error {
		count++
		if tr.Kind(id) == texast.NodeCommand {
			return stop
		}
		return nil
	})

	if !errors.Is(err, stop) {
		t.Fatalf("Walk error = %v, want stop", err)
	}
	if count != 4 {
		t.Errorf("visited %d nodes before stopping, want 4", count)
	}
}

func TestWalkWithContext_EnterLeaveOrder(t *testing.T) {
	t.Parallel()

	tree, ids := buildTestTree()

	var events []string
	enter := func(tr *texast.Tree, id texast.NodeID) error {
		events = append(events, "+"+tr.Kind(id).String())
		return nil
	}
	leave := func(tr *texast.Tree, id texast.NodeID) error {
		events = append(events, "-"+tr.Kind(id).String())
		return nil
	}

	if err := texast.WalkWithContext(tree, ids["envr"], enter, leave); err != nil {
		t.Fatalf("WalkWithContext returned error: %v", err)
	}

	want := []string{"+Envr", "+Passage", "-Passage", "-Envr"}
	if len(events) != len(want) {
		t.Fatalf("events = %v, want %v", events, want)
	}
	for i := range want {
		if events[i] != want[i] {
			t.Errorf("events[%d] = %q, want %q", i, events[i], want[i])
		}
	}
}

func TestFindHelpers(t *testing.T) {
	t.Parallel()

	tree, ids := buildTestTree()

	words := texast.FindByKind(tree, texast.NodeWord)
	if len(words) != 2 || words[0] != ids["a"] || words[1] != ids["b"] {
		t.Errorf("FindByKind(Word) = %v", words)
	}

	if got := texast.FindFirst(tree, tree.Root(), func(n *texast.Node) bool {
		return n.Kind == texast.NodeEnvr
	}); got != ids["envr"] {
		t.Errorf("FindFirst(Envr) = %d, want %d", got, ids["envr"])
	}

	if got := texast.FindFirst(tree, tree.Root(), func(n *texast.Node) bool {
		return n.Kind == texast.NodeInlineMath
	}); got != texast.NoNode {
		t.Errorf("FindFirst(InlineMath) = %d, want NoNode", got)
	}

	if got := texast.FindEnvironments(tree, "eq"); len(got) != 1 {
		t.Errorf("FindEnvironments(eq) = %v, want one match", got)
	}
}

func TestDump(t *testing.T) {
	t.Parallel()

	tree, _ := buildTestTree()

	want := "Passage()\n" +
		"├── Paragraph()\n" +
		"│   ├── Word(a)\n" +
		"│   └── Command(textbf)\n" +
		"│       └── CurlyBracketArg()\n" +
		"│           └── Paragraph()\n" +
		"│               └── Word(b)\n" +
		"└── Paragraph()\n" +
		"    └── Envr(eq)\n" +
		"        └── Passage()\n"

	if got := texast.Dump(tree); got != want {
		t.Errorf("Dump() =\n%s\nwant\n%s", got, want)
	}
}
