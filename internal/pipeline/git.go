package pipeline

import (
	"os/exec"
	"strings"
)

// GitChangedFiles returns the files under root that are modified, staged or
// untracked, as slash paths relative to root. If git is unavailable or root
// is not inside a work tree the function returns an empty slice and no
// error.
func GitChangedFiles(root string) ([]string, error) {
	if _, err := exec.LookPath("git"); err != nil {
		return nil, nil
	}
	if _, err := runGit(root, "rev-parse", "--git-dir"); err != nil {
		return nil, nil
	}

	seen := make(map[string]bool)
	var files []string
	add := func(out string) {
		for _, f := range splitLines(out) {
			if f != "" && !seen[f] {
				seen[f] = true
				files = append(files, f)
			}
		}
	}

	// Falls back to --cached for repos without any commits yet.
	out, err := runGit(root, "diff", "--name-only", "--relative", "HEAD")
	if err != nil {
		out, err = runGit(root, "diff", "--name-only", "--relative", "--cached")
		if err != nil {
			return nil, nil
		}
	}
	add(out)

	if out, err := runGit(root, "ls-files", "--others", "--exclude-standard"); err == nil {
		add(out)
	}
	return files, nil
}

// ChangedSet is GitChangedFiles as a lookup set for View.Only.
func ChangedSet(root string) (map[string]bool, error) {
	files, err := GitChangedFiles(root)
	if err != nil {
		return nil, err
	}
	set := make(map[string]bool, len(files))
	for _, f := range files {
		set[f] = true
	}
	return set, nil
}

func runGit(dir string, args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func splitLines(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}
