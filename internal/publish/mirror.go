package publish

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	ghpuberrors "ghpub.dev/ghpub/internal/errors"
)

// mirrorPlan describes the exact changes that make the target branch's
// tracked content match the build output.
type mirrorPlan struct {
	writes    []string          // files copied from the build output, relative slash paths
	extras    map[string][]byte // synthesized files such as .nojekyll and CNAME
	deletes   []string          // stale tracked files removed from disk and index
	unindexes []string          // stale tracked files inside the build output, removed from the index only
}

// changedPathspecs returns the pathspecs whose additions, updates and
// deletions need staging
func (p *mirrorPlan) changedPathspecs() []string {
	specs := make([]string, 0, len(p.writes)+len(p.extras)+len(p.deletes))
	specs = append(specs, p.writes...)
	for path := range p.extras {
		specs = append(specs, path)
	}
	specs = append(specs, p.deletes...)
	sort.Strings(specs)
	return specs
}

func (p *mirrorPlan) writeCount() int {
	return len(p.writes) + len(p.extras)
}

func (p *mirrorPlan) deleteCount() int {
	return len(p.deletes) + len(p.unindexes)
}

// collectSourceFiles walks the build output directory and returns the
// relative slash paths of its regular files. Symlinks to regular files are
// followed; a .git directory at the top level is skipped so output produced
// by older publishing tools does not end up in the branch.
func collectSourceFiles(srcDir string) ([]string, error) {
	info, err := os.Stat(srcDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ghpuberrors.NewMissingBuildOutputError(srcDir, "")
		}
		return nil, fmt.Errorf("failed to inspect build output %s: %w", srcDir, err)
	}
	if !info.IsDir() {
		return nil, ghpuberrors.NewMissingBuildOutputError(srcDir, "is not a directory")
	}

	var files []string
	err = filepath.WalkDir(srcDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, relErr := filepath.Rel(srcDir, path)
		if relErr != nil {
			return relErr
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if rel == ".git" {
				return filepath.SkipDir
			}
			return nil
		}

		if d.Type()&fs.ModeSymlink != 0 {
			target, statErr := os.Stat(path)
			if statErr != nil || !target.Mode().IsRegular() {
				return nil
			}
		} else if !d.Type().IsRegular() {
			return nil
		}

		files = append(files, rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk build output %s: %w", srcDir, err)
	}

	if len(files) == 0 {
		return nil, ghpuberrors.NewMissingBuildOutputError(srcDir, "directory is empty")
	}

	sort.Strings(files)
	return files, nil
}

// planMirror computes the mirror plan from the build output file list, the
// synthesized extras, and the branch's currently tracked files. Tracked
// files that live inside the build output directory itself are scheduled
// for index removal only, never for deletion from disk.
func planMirror(sourceFiles []string, extras map[string][]byte, tracked []string, sourceRel string) mirrorPlan {
	desired := make(map[string]struct{}, len(sourceFiles)+len(extras))
	for _, f := range sourceFiles {
		desired[f] = struct{}{}
	}

	plan := mirrorPlan{
		writes: sourceFiles,
		extras: make(map[string][]byte, len(extras)),
	}

	// The build output wins over synthesized files of the same name
	for path, content := range extras {
		if _, ok := desired[path]; ok {
			continue
		}
		desired[path] = struct{}{}
		plan.extras[path] = content
	}

	for _, t := range tracked {
		if _, ok := desired[t]; ok {
			continue
		}
		if underPath(t, sourceRel) {
			plan.unindexes = append(plan.unindexes, t)
			continue
		}
		plan.deletes = append(plan.deletes, t)
	}
	sort.Strings(plan.deletes)
	sort.Strings(plan.unindexes)

	return plan
}

// underPath reports whether path is prefix itself or lives below it
func underPath(path string, prefix string) bool {
	if prefix == "" || prefix == "." {
		return false
	}
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

// applyMirror copies the planned files from the build output into the
// working tree root, writes the synthesized extras, and removes stale
// files. Directories left empty by a removal are pruned.
func applyMirror(root string, srcDir string, sourceRel string, plan *mirrorPlan) error {
	for _, rel := range plan.writes {
		if underPath(rel, sourceRel) {
			return fmt.Errorf("build output contains %s, which would overwrite the build output directory itself", rel)
		}

		src := filepath.Join(srcDir, filepath.FromSlash(rel))
		dst := filepath.Join(root, filepath.FromSlash(rel))
		if err := copyFile(src, dst); err != nil {
			return err
		}
	}

	for rel, content := range plan.extras {
		dst := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(dst), 0750); err != nil {
			return fmt.Errorf("failed to create directory for %s: %w", rel, err)
		}
		if err := os.WriteFile(dst, content, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", rel, err)
		}
	}

	for _, rel := range plan.deletes {
		dst := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.Remove(dst); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove stale file %s: %w", rel, err)
		}
		pruneEmptyDirs(root, filepath.Dir(dst))
	}

	return nil
}

// copyFile copies a regular file preserving its permission bits
func copyFile(src string, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", src, err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", src, err)
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0750); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", dst, err)
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dst, err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("failed to copy %s: %w", src, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", dst, err)
	}

	// The destination may predate the copy with different permissions
	if err := os.Chmod(dst, info.Mode().Perm()); err != nil {
		return fmt.Errorf("failed to set permissions on %s: %w", dst, err)
	}
	return nil
}

// pruneEmptyDirs removes directories left empty after a deletion, walking
// up until a non-empty directory or the repository root is reached
func pruneEmptyDirs(root string, dir string) {
	for dir != root && strings.HasPrefix(dir, root) {
		entries, err := os.ReadDir(dir)
		if err != nil || len(entries) > 0 {
			return
		}
		if err := os.Remove(dir); err != nil {
			return
		}
		dir = filepath.Dir(dir)
	}
}
