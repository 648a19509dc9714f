package main

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/satococoa/forall/internal/command"
	"github.com/satococoa/forall/internal/errors"
	"github.com/satococoa/forall/internal/github"
	"github.com/satococoa/forall/internal/invocation"
	"github.com/satococoa/forall/internal/project"
)

const (
	runPRUsage        = "forall runpr --message TEXT [OPTIONS] [--] COMMAND [ARG...]"
	runPRBranchLayout = "20060102150405"
	runPRBranchPrefix = "forall-runpr-"
)

// newLabelColors are the colours GitHub's web UI offers for a new label.
var newLabelColors = []string{
	"0052cc", "006b75", "0e8a16", "1d76db", "5319e7", "b60205", "bfd4f2", "bfdadc",
	"c2e0c6", "c5def5", "d4c5f9", "d93f0b", "e99695", "f9d0c4", "fbca04", "fef2c0",
}

// skipMarkers keep CI from running for a commit; they are dropped from
// pull request titles.
var skipMarkers = []string{
	"[skip ci]",
	"[ci skip]",
	"[no ci]",
	"[skip actions]",
	"[actions skip]",
}

// Variables to allow mocking in tests
var (
	runPRNow        = time.Now
	labelColor      = func() string { return newLabelColors[rand.IntN(len(newLabelColors))] }
	newGitHubClient = func(e *env) (*github.Client, error) {
		token, err := github.Token(e.cmds)
		if err != nil {
			return nil, errors.GitHubTokenMissing(err)
		}
		return github.NewClient(token, github.WithRequestLogger(e.log)), nil
	}
)

// NewRunPRCommand creates the runpr command definition
func NewRunPRCommand() *cli.Command {
	return &cli.Command{
		Name:      "runpr",
		Usage:     "Run a command in each project and open a pull request with the changes",
		UsageText: runPRUsage,
		ArgsUsage: "[--] COMMAND [ARG...]",
		Description: "Only projects with a non-archived GitHub repository are considered. For\n" +
			"each, local changes are stashed, a new branch is created from the default\n" +
			"branch and the command is run. If it changed anything, the changes are\n" +
			"committed, pushed and submitted as a pull request; otherwise the branch\n" +
			"is deleted again.\n\n" +
			"A GitHub token is read from GH_TOKEN or GITHUB_TOKEN, or from `gh auth token`.",
		Flags: append(invocationFlags(),
			&cli.StringFlag{
				Name:    "message",
				Aliases: []string{"m"},
				Usage:   "Commit message (required)",
			},
			&cli.StringFlag{
				Name:    "branch",
				Aliases: []string{"b"},
				Usage:   "Name of the new branch (default: forall-runpr-YYYYMMDDHHMMSS)",
			},
			&cli.StringFlag{
				Name:    "pr-title",
				Aliases: []string{"T"},
				Usage:   "Pull request title (default: the commit message without CI skip markers)",
			},
			&cli.StringFlag{
				Name:    "pr-body-file",
				Aliases: []string{"B"},
				Usage:   "Read the pull request body from `FILE`",
			},
			&cli.StringSliceFlag{
				Name:    "label",
				Aliases: []string{"l"},
				Usage:   "Apply the label `NAME`, creating it where missing (repeatable)",
			},
			&cli.StringSliceFlag{
				Name:  "soft-label",
				Usage: "Apply the label `NAME` only where it already exists (repeatable)",
			},
		),
		Action: runPRCommand,
	}
}

// pullRequestPlan is everything runpr does the same way in every project
type pullRequestPlan struct {
	inv        *invocation.Invocation
	branch     string
	message    string
	title      string
	body       string
	labels     []string
	softLabels []string
}

func runPRCommand(ctx context.Context, cmd *cli.Command) error {
	message := cmd.String("message")
	if strings.TrimSpace(message) == "" {
		return errors.PRMessageRequired()
	}

	e, err := newEnv(cmd)
	if err != nil {
		return err
	}
	defer e.close()

	inv, err := newInvocation(cmd, e, runPRUsage)
	if err != nil {
		return err
	}

	plan := &pullRequestPlan{
		inv:        inv,
		branch:     cmd.String("branch"),
		message:    message,
		title:      cmd.String("pr-title"),
		labels:     append(append([]string(nil), e.cfg.RunPR.Labels...), cmd.StringSlice("label")...),
		softLabels: append(append([]string(nil), e.cfg.RunPR.SoftLabels...), cmd.StringSlice("soft-label")...),
	}
	if plan.branch == "" {
		plan.branch = runPRBranchPrefix + runPRNow().Format(runPRBranchLayout)
	}
	if plan.title == "" {
		plan.title = stripSkipMarkers(message)
	}
	if path := cmd.String("pr-body-file"); path != "" {
		body, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read pull request body: %w", err)
		}
		plan.body = string(body)
	}

	client, err := newGitHubClient(e)
	if err != nil {
		return err
	}

	projects, err := e.projects()
	if err != nil {
		return err
	}
	return e.each(projects, func(p *project.Project) error {
		return e.runPRProject(ctx, client, plan, p)
	})
}

func (e *env) runPRProject(ctx context.Context, client *github.Client, plan *pullRequestPlan, p *project.Project) error {
	ghRepo, ok := p.GitHubRepo()
	if !ok {
		return nil
	}
	info, err := client.GetRepository(ctx, ghRepo)
	if err != nil {
		return errors.ProjectOperationFailed(p.Name(), "fetch repository details", err)
	}
	if info.Archived {
		return nil
	}

	e.log.Project(p.Name())
	repo := p.Repo()
	base, err := repo.DefaultBranch()
	if err != nil {
		return err
	}
	if _, err := repo.Stash(); err != nil {
		return err
	}
	if err := repo.Run(command.GitCheckoutNewBranch(plan.branch, base)); err != nil {
		return err
	}
	if err := e.cmds.Run(plan.inv.Command(p)); err != nil {
		return err
	}
	if err := repo.Run(command.GitAdd(".")); err != nil {
		return err
	}

	staged, err := repo.HasStagedChanges()
	if err != nil {
		return err
	}
	if !staged {
		e.log.Slog().Info("No changes")
		if err := repo.Run(command.GitCheckout(base)); err != nil {
			return err
		}
		return repo.Run(command.GitBranchDelete(plan.branch, false))
	}

	if err := repo.Run(command.GitCommit(plan.message)); err != nil {
		return err
	}
	if err := repo.Run(command.GitPush(plan.branch)); err != nil {
		return err
	}

	pr, err := client.CreatePullRequest(ctx, ghRepo, github.NewPullRequest{
		Title:               plan.title,
		Head:                plan.branch,
		Base:                base,
		Body:                plan.body,
		MaintainerCanModify: true,
	})
	if err != nil {
		return errors.ProjectOperationFailed(p.Name(), "open pull request", err)
	}
	if _, err := fmt.Fprintln(e.out, pr.HTMLURL); err != nil {
		return err
	}

	if err := e.applyLabels(ctx, client, ghRepo, pr.Number, plan); err != nil {
		return errors.ProjectOperationFailed(p.Name(), "label pull request", err)
	}
	return nil
}

// applyLabels creates missing hard labels, keeps soft labels only where the
// repository already defines them and applies the result to the pull request.
// Label names compare case-insensitively, as on GitHub.
func (e *env) applyLabels(ctx context.Context, client *github.Client, repo github.Repo, number int, plan *pullRequestPlan) error {
	if len(plan.labels) == 0 && len(plan.softLabels) == 0 {
		return nil
	}
	names, err := client.LabelNames(ctx, repo)
	if err != nil {
		return err
	}
	existing := make(map[string]bool, len(names))
	for _, name := range names {
		existing[strings.ToLower(name)] = true
	}

	var apply []string
	for _, label := range plan.labels {
		if !existing[strings.ToLower(label)] {
			if err := client.CreateLabel(ctx, repo, github.Label{Name: label, Color: labelColor()}); err != nil {
				return err
			}
			existing[strings.ToLower(label)] = true
			e.log.Slog().Info(fmt.Sprintf("Created label %q in %s", label, repo))
		}
		apply = append(apply, label)
	}
	for _, label := range plan.softLabels {
		if existing[strings.ToLower(label)] {
			apply = append(apply, label)
		}
	}
	if len(apply) == 0 {
		return nil
	}
	return client.AddLabels(ctx, repo, number, apply)
}

// stripSkipMarkers removes CI skip markers from either end of a commit
// message.
func stripSkipMarkers(message string) string {
	s := strings.TrimSpace(message)
	for _, marker := range skipMarkers {
		s = strings.TrimPrefix(s, marker)
		s = strings.TrimSuffix(s, marker)
		s = strings.TrimSpace(s)
	}
	return s
}
