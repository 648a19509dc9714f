// Package github is a small GitHub REST client covering what forall needs:
// reading a repository, opening pull requests and managing labels.
package github

import (
	"fmt"
	"regexp"
	"strings"
)

// Repo identifies a GitHub repository
type Repo struct {
	Owner string
	Name  string
}

func (r Repo) String() string {
	return r.Owner + "/" + r.Name
}

// MarshalText renders the repo as OWNER/NAME, which is also its JSON form.
func (r Repo) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// APIPath is the REST path of the repository.
func (r Repo) APIPath() string {
	return "/repos/" + r.Owner + "/" + r.Name
}

const (
	ownerPattern = `[A-Za-z0-9](?:-?[A-Za-z0-9]){0,38}`
	namePattern  = `[-_.A-Za-z0-9]+`
)

var (
	fullNameRe = regexp.MustCompile(`^(` + ownerPattern + `)/(` + namePattern + `)$`)
	remoteRes  = []*regexp.Regexp{
		regexp.MustCompile(`^(?:https?://)?(?:[^@/]+@)?(?:www\.)?github\.com/(` + ownerPattern + `)/(` + namePattern + `?)(?:\.git)?/?$`),
		regexp.MustCompile(`^(?:ssh://)?git@github\.com[:/](` + ownerPattern + `)/(` + namePattern + `?)(?:\.git)?/?$`),
		regexp.MustCompile(`^git://github\.com/(` + ownerPattern + `)/(` + namePattern + `?)(?:\.git)?/?$`),
	}
)

// ParseRepo parses OWNER/NAME or any GitHub URL form accepted by
// ParseRemoteURL.
func ParseRepo(s string) (Repo, error) {
	if m := fullNameRe.FindStringSubmatch(s); m != nil && validName(m[2]) {
		return Repo{Owner: m[1], Name: m[2]}, nil
	}
	if repo, ok := ParseRemoteURL(s); ok {
		return repo, nil
	}
	return Repo{}, fmt.Errorf("invalid GitHub repository: %q", s)
}

// ParseRemoteURL extracts the repository from a git remote URL. ok is false
// for remotes that are not on GitHub.
func ParseRemoteURL(url string) (repo Repo, ok bool) {
	url = strings.TrimSpace(url)
	for _, re := range remoteRes {
		m := re.FindStringSubmatch(url)
		if m == nil || !validName(m[2]) {
			continue
		}
		return Repo{Owner: m[1], Name: m[2]}, true
	}
	return Repo{}, false
}

func validName(name string) bool {
	return name != "" && name != "." && name != ".." && !strings.HasSuffix(name, ".git")
}
