package command

// Git builds a git command with the given arguments
func Git(args ...string) *Command {
	return New("git").AddArgs(args...)
}

// GitSymbolicRef builds a query for the short name of the checked out branch
func GitSymbolicRef() *Command {
	return Git("symbolic-ref", "--short", "-q", "HEAD").WithKind(KindInternal)
}

// GitBranchList builds a query listing local branch names
func GitBranchList() *Command {
	return Git("branch", "--format=%(refname:short)").WithKind(KindInternal)
}

// GitRemoteGetURL builds a query for a remote's URL
func GitRemoteGetURL(remote string) *Command {
	return Git("remote", "get-url", remote).WithKind(KindInternal)
}

// GitStatusPorcelain builds a query listing uncommitted changes
func GitStatusPorcelain() *Command {
	return Git("status", "--porcelain", "-unormal").WithKind(KindInternal)
}

// GitDiffCachedQuiet builds a command that exits 1 when the index differs
// from HEAD.
func GitDiffCachedQuiet() *Command {
	return Git("diff", "--cached", "--quiet").WithKind(KindInternal)
}

// GitRevParseStash builds a query that succeeds when a stash exists
func GitRevParseStash() *Command {
	return Git("rev-parse", "--verify", "--quiet", "refs/stash").WithKind(KindInternal)
}

// GitRevListAhead builds a query counting commits on HEAD not yet upstream
func GitRevListAhead() *Command {
	return Git("rev-list", "--count", "--right-only", "@{upstream}...HEAD").WithKind(KindInternal)
}

// GitCleanPreview builds a dry run of removing ignored files
func GitCleanPreview() *Command {
	return Git("clean", "-dXn").WithKind(KindInternal)
}

// GitClean builds a command removing ignored files and directories
func GitClean() *Command {
	return Git("clean", "-dXf")
}

// GitStash builds a command stashing all changes including untracked files
func GitStash() *Command {
	return Git("stash", "-u")
}

// GitGC builds a git gc command
func GitGC() *Command {
	return Git("gc")
}

// GitPull builds a git pull command
func GitPull() *Command {
	return Git("pull")
}

// GitPush builds a git push command. A non-empty branch is pushed to origin
// and set as the upstream.
func GitPush(branch string) *Command {
	if branch == "" {
		return Git("push")
	}
	return Git("push", "--set-upstream", "origin", branch)
}

// GitCheckout builds a git checkout command
func GitCheckout(branch string) *Command {
	return Git("checkout", branch)
}

// GitCheckoutNewBranch builds a command creating branch from start and
// switching to it.
func GitCheckoutNewBranch(branch, start string) *Command {
	args := []string{"checkout", "-b", branch}
	if start != "" {
		args = append(args, start)
	}
	return Git(args...)
}

// GitAdd builds a git add command
func GitAdd(paths ...string) *Command {
	return Git("add").AddArgs(paths...)
}

// GitAddAll builds a command staging every change in the work tree
func GitAddAll() *Command {
	return Git("add", "-A")
}

// GitCommit builds a git commit command
func GitCommit(message string) *Command {
	return Git("commit", "-m", message)
}

// GitBranchDelete builds a git branch delete command
func GitBranchDelete(branchName string, force bool) *Command {
	args := []string{"branch"}

	if force {
		args = append(args, "-D")
	} else {
		args = append(args, "-d")
	}

	args = append(args, branchName)

	return Git(args...)
}
