package vcs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCommitPermalink_GitHub(t *testing.T) {
	url := CommitPermalink("https://github.com/org/repo.git", "abc123")
	assert.Equal(t, "https://github.com/org/repo/commit/abc123", url)
}

func TestCommitPermalink_GitLab(t *testing.T) {
	url := CommitPermalink("https://gitlab.com/org/repo.git", "abc123")
	assert.Equal(t, "https://gitlab.com/org/repo/-/commit/abc123", url)
}

func TestCommitPermalink_Bitbucket(t *testing.T) {
	url := CommitPermalink("https://bitbucket.org/org/repo.git", "abc123")
	assert.Equal(t, "https://bitbucket.org/org/repo/commits/abc123", url)
}

func TestCommitPermalink_GenericHost(t *testing.T) {
	url := CommitPermalink("https://git.example.org/repo", "abc123")
	assert.Equal(t, "https://git.example.org/repo/commit/abc123", url)
}

func TestCommitPermalink_NoGitSuffix(t *testing.T) {
	url := CommitPermalink("https://github.com/org/repo", "abc123")
	assert.Equal(t, "https://github.com/org/repo/commit/abc123", url)
}

func TestCommitPermalink_Empty(t *testing.T) {
	assert.Equal(t, "", CommitPermalink("", "abc123"))
	assert.Equal(t, "", CommitPermalink("https://github.com/org/repo", ""))
}
