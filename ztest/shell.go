package ztest

import (
	"context"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// RunShell runs script with bash in dir.  The directories in path are
// prepended to PATH and env is appended to the environment.
func RunShell(ctx context.Context, dir, path, script string, stdin io.Reader, env []string) (string, string, error) {
	cmd := exec.CommandContext(ctx, "bash", "-e", "-o", "pipefail", "-c", script)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), env...)
	if path != "" {
		abs, err := absPath(path)
		if err != nil {
			return "", "", err
		}
		cmd.Env = append(cmd.Env, "PATH="+abs+string(filepath.ListSeparator)+os.Getenv("PATH"))
	}
	cmd.Stdin = stdin
	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

// absPath makes each directory in the search path path absolute.
func absPath(path string) (string, error) {
	dirs := filepath.SplitList(path)
	for k, dir := range dirs {
		abs, err := filepath.Abs(dir)
		if err != nil {
			return "", err
		}
		dirs[k] = abs
	}
	return strings.Join(dirs, string(filepath.ListSeparator)), nil
}
