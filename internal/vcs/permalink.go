package vcs

import "strings"

// CommitPermalink derives a human-checkable proof URL for a commit from its
// remote URL. Known hosts get their native path template; anything else
// falls back to the generic "/commit/" form. A trailing ".git" suffix is
// stripped first.
func CommitPermalink(remoteURL, revision string) string {
	if remoteURL == "" || revision == "" {
		return ""
	}

	base := strings.TrimSuffix(remoteURL, ".git")
	switch {
	case strings.Contains(remoteURL, "github.com"):
		return base + "/commit/" + revision
	case strings.Contains(remoteURL, "gitlab.com"):
		return base + "/-/commit/" + revision
	case strings.Contains(remoteURL, "bitbucket.org"):
		return base + "/commits/" + revision
	default:
		// Generic hosts keep the URL as given, .git suffix included.
		return remoteURL + "/commit/" + revision
	}
}
