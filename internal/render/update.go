package render

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/google/uuid"

	"github.com/viant/mdt/internal/config"
	"github.com/viant/mdt/internal/model"
)

// Edit is one byte-exact replacement of a consumer's content_range.
type Edit struct {
	File     string
	Range    model.Range
	Expected string
}

// PlanUpdate renders every consumer/inline block and returns the edits
// required to bring stale ones in sync, plus the same render diagnostics
// Check would produce. Edits for the same file are ordered last-to-first by
// offset so applying them in order never invalidates an earlier offset.
func PlanUpdate(idx *model.ProjectIndex, excludedBlocks map[string]bool, padding *config.Padding) ([]Edit, *Result) {
	res := Check(idx, excludedBlocks, padding)
	edits := make([]Edit, 0, len(res.Stale))
	for _, s := range res.Stale {
		edits = append(edits, Edit{File: s.File, Range: s.Range, Expected: s.Expected})
	}
	sort.Slice(edits, func(i, j int) bool {
		if edits[i].File != edits[j].File {
			return edits[i].File < edits[j].File
		}
		return edits[i].Range.Start.Offset > edits[j].Range.Start.Offset
	})
	return edits, res
}

// Apply rewrites every file touched by edits, root-relative to root. Writes
// are atomic (temp file + rename) and a file is only touched when its
// resulting bytes actually differ from what's on disk, so re-running update
// on an already-synced tree is a no-op. dryRun computes the same file set
// without writing anything.
// Returns the list of files that were (or, for dry-run, would be) written.
func Apply(root string, edits []Edit, dryRun bool) ([]string, error) {
	byFile := map[string][]Edit{}
	var order []string
	for _, e := range edits {
		if _, ok := byFile[e.File]; !ok {
			order = append(order, e.File)
		}
		byFile[e.File] = append(byFile[e.File], e)
	}
	sort.Strings(order)

	// runID marks every temp file this Apply call creates, so two mdt
	// update invocations racing on the same file never collide on the
	// same ".mdt-tmp" name.
	runID := uuid.NewString()

	var written []string
	for _, relPath := range order {
		full := filepath.Join(root, relPath)
		original, err := os.ReadFile(full)
		if err != nil {
			return written, err
		}
		updated := applyFileEdits(original, byFile[relPath])
		if string(updated) == string(original) {
			continue
		}
		written = append(written, relPath)
		if dryRun {
			continue
		}
		if err := writeAtomic(full, updated, runID); err != nil {
			return written, err
		}
	}
	return written, nil
}

// applyFileEdits assumes edits are already sorted last-to-first by offset
// (PlanUpdate's contract).
func applyFileEdits(src []byte, edits []Edit) []byte {
	out := append([]byte(nil), src...)
	for _, e := range edits {
		start, end := e.Range.Start.Offset, e.Range.End.Offset
		if start > uint64(len(out)) || end > uint64(len(out)) || start > end {
			continue
		}
		var next []byte
		next = append(next, out[:start]...)
		next = append(next, []byte(e.Expected)...)
		next = append(next, out[end:]...)
		out = next
	}
	return out
}

func writeAtomic(path string, content []byte, runID string) error {
	tmp := path + ".mdt-tmp-" + runID
	if err := os.WriteFile(tmp, content, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
