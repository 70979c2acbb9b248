package fix

import (
	"fmt"
	"strings"
)

// Diff is a unified diff between two versions of a file.
type Diff struct {
	Path      string
	Original  []byte
	Modified  []byte
	Hunks     []DiffHunk
	Additions int
	Deletions int
}

// DiffHunk is one "@@" section. Starts are 1-based line numbers.
type DiffHunk struct {
	OriginalStart int
	OriginalCount int
	ModifiedStart int
	ModifiedCount int
	Lines         []DiffLine
}

// DiffLine is a line of a hunk without its prefix character.
type DiffLine struct {
	Kind    DiffLineKind
	Content string
}

// DiffLineKind tells context, added and removed lines apart.
type DiffLineKind int

const (
	DiffLineContext DiffLineKind = iota
	DiffLineAdd
	DiffLineRemove
)

func (k DiffLineKind) prefix() byte {
	switch k {
	case DiffLineAdd:
		return '+'
	case DiffLineRemove:
		return '-'
	default:
		return ' '
	}
}

// contextLines is the number of unchanged lines kept around each change.
const contextLines = 3

// GenerateDiff returns the unified diff from original to modified, or nil
// when both have the same lines.
func GenerateDiff(path string, original, modified []byte) *Diff {
	before := splitLines(original)
	after := splitLines(modified)

	ops := diffLines(before, after)
	hunks := buildHunks(ops)
	if len(hunks) == 0 {
		return nil
	}

	d := &Diff{Path: path, Original: original, Modified: modified, Hunks: hunks}
	for _, op := range ops {
		switch op.Kind {
		case DiffLineAdd:
			d.Additions++
		case DiffLineRemove:
			d.Deletions++
		}
	}
	return d
}

// GitHeader returns the "diff --git" header line.
func (d *Diff) GitHeader() string {
	if d == nil {
		return ""
	}
	path := strings.TrimPrefix(d.Path, "/")
	return fmt.Sprintf("diff --git a/%s b/%s", path, path)
}

// String renders the diff with ---/+++ headers and hunks.
func (d *Diff) String() string {
	if !d.HasChanges() {
		return ""
	}

	path := strings.TrimPrefix(d.Path, "/")

	var sb strings.Builder
	fmt.Fprintf(&sb, "--- a/%s\n+++ b/%s\n", path, path)
	for _, hunk := range d.Hunks {
		fmt.Fprintf(&sb, "@@ -%d,%d +%d,%d @@\n",
			hunk.OriginalStart, hunk.OriginalCount,
			hunk.ModifiedStart, hunk.ModifiedCount)
		for _, line := range hunk.Lines {
			sb.WriteByte(line.Kind.prefix())
			sb.WriteString(line.Content)
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// FullString returns the git header followed by String.
func (d *Diff) FullString() string {
	if !d.HasChanges() {
		return ""
	}
	return d.GitHeader() + "\n" + d.String()
}

// HasChanges reports whether the diff has at least one hunk.
func (d *Diff) HasChanges() bool {
	return d != nil && len(d.Hunks) > 0
}

// splitLines splits on "\n" and drops the empty element after a final
// newline.
func splitLines(content []byte) []string {
	if len(content) == 0 {
		return nil
	}
	lines := strings.Split(string(content), "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// diffLines computes a line script from a longest-common-subsequence table.
// Removals are emitted before additions at each change point.
func diffLines(before, after []string) []DiffLine {
	n, m := len(before), len(after)

	// suffix[i][j] is the LCS length of before[i:] and after[j:].
	suffix := make([][]int, n+1)
	for i := range suffix {
		suffix[i] = make([]int, m+1)
	}
	for i := n - 1; i >= 0; i-- {
		for j := m - 1; j >= 0; j-- {
			if before[i] == after[j] {
				suffix[i][j] = suffix[i+1][j+1] + 1
			} else {
				suffix[i][j] = max(suffix[i+1][j], suffix[i][j+1])
			}
		}
	}

	ops := make([]DiffLine, 0, n+m)
	i, j := 0, 0
	for i < n || j < m {
		switch {
		case i < n && j < m && before[i] == after[j]:
			ops = append(ops, DiffLine{Kind: DiffLineContext, Content: before[i]})
			i++
			j++
		case i < n && (j == m || suffix[i+1][j] >= suffix[i][j+1]):
			ops = append(ops, DiffLine{Kind: DiffLineRemove, Content: before[i]})
			i++
		default:
			ops = append(ops, DiffLine{Kind: DiffLineAdd, Content: after[j]})
			j++
		}
	}
	return ops
}

// buildHunks groups the script into hunks, joining changes separated by at
// most 2*contextLines unchanged lines.
func buildHunks(ops []DiffLine) []DiffHunk {
	var hunks []DiffHunk

	// Line numbers (1-based) of ops[k] in each file.
	origLine, modLine := make([]int, len(ops)+1), make([]int, len(ops)+1)
	origLine[0], modLine[0] = 1, 1
	for k, op := range ops {
		origLine[k+1], modLine[k+1] = origLine[k], modLine[k]
		if op.Kind != DiffLineAdd {
			origLine[k+1]++
		}
		if op.Kind != DiffLineRemove {
			modLine[k+1]++
		}
	}

	k := 0
	for k < len(ops) {
		if ops[k].Kind == DiffLineContext {
			k++
			continue
		}

		start := max(0, k-contextLines)
		end := k
		for end < len(ops) {
			if ops[end].Kind != DiffLineContext {
				end++
				continue
			}
			gap := end
			for gap < len(ops) && ops[gap].Kind == DiffLineContext {
				gap++
			}
			if gap == len(ops) || gap-end > 2*contextLines {
				break
			}
			end = gap
		}
		stop := min(len(ops), end+contextLines)

		hunk := DiffHunk{
			OriginalStart: origLine[start],
			ModifiedStart: modLine[start],
			Lines:         append([]DiffLine(nil), ops[start:stop]...),
		}
		for _, line := range hunk.Lines {
			if line.Kind != DiffLineAdd {
				hunk.OriginalCount++
			}
			if line.Kind != DiffLineRemove {
				hunk.ModifiedCount++
			}
		}
		hunks = append(hunks, hunk)
		k = stop
	}
	return hunks
}
