package service

import (
	"encoding/json"
	"strconv"

	"github.com/suqingyao/oawesome/github"
	"github.com/suqingyao/oawesome/models"
)

// normalizeLibrary maps raw upstream responses onto the Library model.
// The mapping is total: absent upstream fields become zero values, empty
// slices, or the given license placeholder, never missing JSON keys.
func normalizeLibrary(repo *github.RepoResponse, contributors []github.ContributorResponse, commits []github.CommitResponse, contributorLimit int, licensePlaceholder string) models.Library {
	lib := models.Library{
		ID:           strconv.FormatInt(repo.ID, 10),
		Name:         repo.Name,
		Description:  repo.Description,
		URL:          repo.HTMLURL,
		Tags:         repo.Topics,
		Stars:        repo.StargazersCount,
		Forks:        repo.ForksCount,
		Issues:       repo.OpenIssuesCount,
		Watchers:     repo.WatchersCount,
		OpenIssues:   repo.OpenIssuesCount,
		Language:     repo.Language,
		License:      licensePlaceholder,
		Size:         repo.Size,
		CreatedAt:    repo.CreatedAt,
		UpdatedAt:    repo.UpdatedAt,
		Contributors: normalizeContributors(contributors, contributorLimit),
		Commits:      normalizeCommits(commits),
	}
	if repo.License != nil && repo.License.Name != "" {
		lib.License = repo.License.Name
	}
	if lib.Tags == nil {
		lib.Tags = []string{}
	}
	return lib
}

// normalizeContributors keeps at most limit entries, preserving the
// upstream order (descending by contribution count).
func normalizeContributors(raw []github.ContributorResponse, limit int) []models.Contributor {
	if limit > 0 && len(raw) > limit {
		raw = raw[:limit]
	}
	out := make([]models.Contributor, 0, len(raw))
	for _, c := range raw {
		out = append(out, models.Contributor{
			ID:            c.ID,
			Username:      c.Login,
			Avatar:        c.AvatarURL,
			Contributions: c.Contributions,
		})
	}
	return out
}

func normalizeCommits(raw []github.CommitResponse) []models.CommitData {
	out := make([]models.CommitData, 0, len(raw))
	for _, c := range raw {
		out = append(out, models.CommitData{
			SHA:     c.SHA,
			Message: c.Commit.Message,
			Author:  c.Commit.Author.Name,
			Date:    c.Commit.Author.Date,
		})
	}
	return out
}

// latestCommitDate returns the committer date of the most recent commit,
// or ok=false when none is available.
func latestCommitDate(raw []github.CommitResponse) (string, bool) {
	if len(raw) == 0 || raw[0].Commit.Committer.Date == "" {
		return "", false
	}
	return raw[0].Commit.Committer.Date, true
}

// manifestKeywords extracts the keywords array from a package.json
// payload. Returns ok=false when the manifest cannot be decoded or
// declares no keywords, so callers keep their static tags.
func manifestKeywords(content *github.ContentResponse) ([]string, bool) {
	data, err := content.Decode()
	if err != nil {
		return nil, false
	}
	var manifest struct {
		Keywords []string `json:"keywords"`
	}
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, false
	}
	if len(manifest.Keywords) == 0 {
		return nil, false
	}
	return manifest.Keywords, true
}
