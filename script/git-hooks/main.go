package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xhd2015/less-gen/flags"
	"github.com/xhd2015/xgo/support/cmd"
	"github.com/xhd2015/xgo/support/fileutil"
	"github.com/xhd2015/xgo/support/git"
)

// usage:
//
//	go run ./script/git-hooks install
//	go run ./script/git-hooks pre-commit

const help = `

Commands:
  install                   install the pre-commit hook
  pre-commit                check staged files: gofmt, no .env
  pre-commit --skip-gofmt   only check for .env files

Examples:
 go run ./script/git-hooks install
 go run ./script/git-hooks pre-commit
`

func main() {
	args := os.Args[1:]
	if len(args) == 0 {
		fmt.Println("requires command: install, pre-commit")
		os.Exit(1)
	}
	command := args[0]
	args = args[1:]

	if command == "--help" || command == "help" {
		fmt.Print(strings.TrimPrefix(help, "\n"))
		return
	}

	var skipGofmt bool
	args, err := flags.Bool("--skip-gofmt", &skipGofmt).
		Help("-h,--help", help).
		Parse(args)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	if len(args) > 0 {
		fmt.Fprintf(os.Stderr, "unrecognized extra arguments: %s\n", strings.Join(args, " "))
		os.Exit(1)
	}
	switch command {
	case "install":
		err = install()
	case "pre-commit":
		err = preCommitCheck(skipGofmt)
	default:
		fmt.Fprintf(os.Stderr, "unrecognized command: %s\n", command)
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

const preCommitCmdHead = "# go-script git-hooks"

// NOTE: no empty lines in between
const preCommitCmd = `go run ./script/git-hooks pre-commit`

func preCommitCheck(skipGofmt bool) error {
	gitDir, err := git.ShowTopLevel("")
	if err != nil {
		return err
	}
	rootDir, err := filepath.Abs(gitDir)
	if err != nil {
		return err
	}

	stagedFiles, err := cmd.Dir(rootDir).Output("git", "diff", "--cached", "--name-only", "--diff-filter=ACMR")
	if err != nil {
		return fmt.Errorf("failed to get staged files: %w", err)
	}

	goFiles, err := checkStaged(strings.Split(strings.TrimSpace(stagedFiles), "\n"))
	if err != nil {
		return err
	}
	if skipGofmt || len(goFiles) == 0 {
		return nil
	}

	unformatted, err := cmd.Dir(rootDir).Output("gofmt", append([]string{"-l"}, goFiles...)...)
	if err != nil {
		return fmt.Errorf("gofmt: %w", err)
	}
	unformatted = strings.TrimSpace(unformatted)
	if unformatted != "" {
		return fmt.Errorf("files need gofmt:\n%s", unformatted)
	}
	return nil
}

// checkStaged rejects files that must never be committed and returns the
// Go sources to format-check.
func checkStaged(files []string) ([]string, error) {
	var goFiles []string
	for _, file := range files {
		if file == "" {
			continue
		}
		base := filepath.Base(file)
		if base == ".env" || strings.HasPrefix(base, ".env.") {
			return nil, fmt.Errorf("attempting to commit env file: %s", file)
		}
		if strings.HasPrefix(file, "_") || strings.Contains(file, "/_") {
			// ignored by the go tool
			continue
		}
		if strings.HasSuffix(file, ".go") {
			goFiles = append(goFiles, file)
		}
	}
	return goFiles, nil
}

func install() error {
	// NOTE: is git dir, not toplevel dir when in worktree mode
	gitDir, err := git.GetGitDir("")
	if err != nil {
		return err
	}

	hooksDir := filepath.Join(gitDir, "hooks")
	err = os.MkdirAll(hooksDir, 0755)
	if err != nil {
		return err
	}

	err = installHook(filepath.Join(hooksDir, "pre-commit"), preCommitCmdHead, preCommitCmd)
	if err != nil {
		return fmt.Errorf("pre-commit: %w", err)
	}
	return nil
}

// installHook writes head and cmd into hookFile, replacing the block a
// previous install left behind.
func installHook(hookFile string, head string, cmd string) error {
	var needChmod bool
	err := fileutil.Patch(hookFile, func(data []byte) ([]byte, error) {
		if len(data) == 0 {
			needChmod = true
			data = []byte("#!/usr/bin/env bash\n")
		}
		return []byte(replaceBlock(string(data), head, cmd)), nil
	})
	if err != nil {
		return err
	}

	if needChmod {
		err := os.Chmod(hookFile, 0755)
		if err != nil {
			return err
		}
	}
	return nil
}

func replaceBlock(content string, head string, cmd string) string {
	lines := strings.Split(content, "\n")
	idx := -1
	for i, line := range lines {
		if strings.Contains(line, head) {
			idx = i
			break
		}
	}
	if idx < 0 {
		lines = append(lines, head, cmd, "")
		return strings.Join(lines, "\n")
	}
	endIdx := idx + 1
	for ; endIdx < len(lines); endIdx++ {
		if strings.TrimSpace(lines[endIdx]) == "" {
			break
		}
	}
	result := append([]string{}, lines[:idx]...)
	result = append(result, head, cmd, "")
	if endIdx < len(lines) {
		result = append(result, lines[endIdx+1:]...)
	}
	return strings.Join(result, "\n")
}
