package fix

import (
	"bytes"
	"fmt"
)

// ApplyEdits applies sorted, non-overlapping edits to content and returns
// the new bytes. content itself is never modified.
func ApplyEdits(content []byte, edits []TextEdit) []byte {
	if len(edits) == 0 {
		return content
	}

	growth := 0
	for _, e := range edits {
		growth += len(e.NewText) - e.Len()
	}

	var out bytes.Buffer
	out.Grow(len(content) + growth)

	cursor := 0
	for _, e := range edits {
		out.Write(content[cursor:e.StartOffset])
		out.WriteString(e.NewText)
		cursor = e.EndOffset
	}
	out.Write(content[cursor:])

	return out.Bytes()
}

// Result summarises one Apply call.
type Result struct {
	Content []byte
	Applied int
	Skipped []TextEdit
	Merged  int
}

// Apply prepares edits with PrepareEditsFiltered and applies the accepted
// ones.
func Apply(content []byte, edits []TextEdit) (Result, error) {
	accepted, skipped, merged, err := PrepareEditsFiltered(edits, len(content))
	if err != nil {
		return Result{}, fmt.Errorf("prepare edits: %w", err)
	}
	return Result{
		Content: ApplyEdits(content, accepted),
		Applied: len(accepted),
		Skipped: skipped,
		Merged:  merged,
	}, nil
}
