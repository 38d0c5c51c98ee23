// Package service implements the repository metadata aggregation
// pipeline: it orchestrates upstream fetches through the GitHub client
// and reshapes the raw responses into the normalized library model.
package service

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/suqingyao/oawesome/catalog"
	"github.com/suqingyao/oawesome/github"
	"github.com/suqingyao/oawesome/logger"
	"github.com/suqingyao/oawesome/models"

	"go.uber.org/zap"
)

// Contributor caps per caller; the single-repository route serves a
// larger payload than the batch and catalog routes.
const (
	singleContributorLimit  = 10
	batchContributorLimit   = 5
	catalogContributorLimit = 5
	commitLimit             = 10
)

// manifestPath is the package manifest consulted for catalog tags.
const manifestPath = "package.json"

// licensePlaceholder values per route, matching the served payloads.
const (
	licenseNone    = "No License"
	licenseUnknown = "Unknown"
)

// GitHubClientInterface abstracts the GitHub client operations needed by the service
// (for testability)
type GitHubClientInterface interface {
	FetchRepo(ctx context.Context, owner, name string) (*github.RepoResponse, error)
	FetchContributors(ctx context.Context, owner, name string, limit int) ([]github.ContributorResponse, error)
	FetchCommits(ctx context.Context, owner, name string, limit int) ([]github.CommitResponse, error)
	FetchFileContents(ctx context.Context, owner, name, filePath string) (*github.ContentResponse, error)
}

// Service aggregates repository metadata from the GitHub API. All
// operations are idempotent and side-effect-free beyond outbound HTTP.
type Service struct {
	client      GitHubClientInterface
	concurrency int
}

// NewService creates a new service instance. concurrency caps the number
// of repositories fetched in flight during batch and catalog calls.
func NewService(client GitHubClientInterface, concurrency int) *Service {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Service{client: client, concurrency: concurrency}
}

// GetRepository fetches and normalizes a single repository. The
// repository fetch itself is fatal; contributor and commit failures
// degrade to empty slices.
func (s *Service) GetRepository(ctx context.Context, owner, name string) (*models.Library, error) {
	repo, err := s.client.FetchRepo(ctx, owner, name)
	if err != nil {
		return nil, err
	}

	contributors, err := s.client.FetchContributors(ctx, owner, name, singleContributorLimit)
	if err != nil {
		logger.Warn("Contributor fetch failed, continuing without contributors",
			zap.Error(err),
			zap.String("owner", owner),
			zap.String("name", name))
		contributors = nil
	}

	commits, err := s.client.FetchCommits(ctx, owner, name, commitLimit)
	if err != nil {
		logger.Warn("Commit fetch failed, continuing without commits",
			zap.Error(err),
			zap.String("owner", owner),
			zap.String("name", name))
		commits = nil
	}

	lib := normalizeLibrary(repo, contributors, commits, singleContributorLimit, licenseNone)
	return &lib, nil
}

// GetBatch fetches every requested repository concurrently. Item
// failures are caught locally and recorded rather than failing the
// batch; the result partitions the input into successes and failures,
// preserving the input order within each partition.
func (s *Service) GetBatch(ctx context.Context, refs []models.RepoRef) *models.BatchResult {
	type itemResult struct {
		lib  *models.Library
		fail *models.BatchFailure
	}
	results := make([]itemResult, len(refs))

	g := new(errgroup.Group)
	g.SetLimit(s.concurrency)
	for i, ref := range refs {
		i, ref := i, ref
		g.Go(func() error {
			lib, err := s.fetchBatchItem(ctx, ref)
			if err != nil {
				logger.Error("Batch item failed",
					zap.Error(err),
					zap.String("owner", ref.Owner),
					zap.String("name", ref.Name))
				results[i] = itemResult{fail: &models.BatchFailure{
					Error: fmt.Sprintf("Failed to fetch %s/%s", ref.Owner, ref.Name),
					Owner: ref.Owner,
					Name:  ref.Name,
				}}
				return nil
			}
			results[i] = itemResult{lib: lib}
			return nil
		})
	}
	_ = g.Wait()

	result := &models.BatchResult{
		Successful: []models.Library{},
		Failed:     []models.BatchFailure{},
		Total:      len(refs),
	}
	for _, r := range results {
		switch {
		case r.lib != nil:
			result.Successful = append(result.Successful, *r.lib)
		case r.fail != nil:
			result.Failed = append(result.Failed, *r.fail)
		}
	}
	result.SuccessCount = len(result.Successful)
	result.FailureCount = len(result.Failed)

	logger.Info("Batch fetch complete",
		zap.Int("total", result.Total),
		zap.Int("success_count", result.SuccessCount),
		zap.Int("failure_count", result.FailureCount))

	return result
}

func (s *Service) fetchBatchItem(ctx context.Context, ref models.RepoRef) (*models.Library, error) {
	repo, err := s.client.FetchRepo(ctx, ref.Owner, ref.Name)
	if err != nil {
		return nil, err
	}

	contributors, err := s.client.FetchContributors(ctx, ref.Owner, ref.Name, batchContributorLimit)
	if err != nil {
		logger.Warn("Contributor fetch failed for batch item",
			zap.Error(err),
			zap.String("owner", ref.Owner),
			zap.String("name", ref.Name))
		contributors = nil
	}

	lib := normalizeLibrary(repo, contributors, nil, batchContributorLimit, licenseNone)
	return &lib, nil
}

// GetCatalog enriches the fixed catalog entries with live repository
// metadata. Entries whose repository fetch fails are dropped from the
// result entirely; every optional enrichment (contributors, latest
// commit date, manifest keywords) degrades independently to a default.
func (s *Service) GetCatalog(ctx context.Context) *models.CatalogResult {
	catalogEntries := catalog.Entries()
	libs := make([]*models.Library, len(catalogEntries))

	g := new(errgroup.Group)
	g.SetLimit(s.concurrency)
	for i, entry := range catalogEntries {
		i, entry := i, entry
		g.Go(func() error {
			lib, err := s.enrichEntry(ctx, entry)
			if err != nil {
				logger.Error("Catalog entry dropped",
					zap.Error(err),
					zap.String("library", entry.ID))
				return nil
			}
			libs[i] = lib
			return nil
		})
	}
	_ = g.Wait()

	result := &models.CatalogResult{
		Libraries:   []models.Library{},
		LastUpdated: time.Now().UTC().Format(time.RFC3339),
	}
	for _, lib := range libs {
		if lib != nil {
			result.Libraries = append(result.Libraries, *lib)
		}
	}
	result.Total = len(result.Libraries)
	return result
}

// enrichEntry builds the library record for one catalog entry. Only the
// top-level repository fetch is fatal.
func (s *Service) enrichEntry(ctx context.Context, entry catalog.Entry) (*models.Library, error) {
	repo, err := s.client.FetchRepo(ctx, entry.Owner, entry.Repo)
	if err != nil {
		return nil, err
	}

	lib := normalizeLibrary(repo, nil, nil, catalogContributorLimit, licenseUnknown)
	lib.ID = entry.ID
	lib.Name = entry.Name
	lib.Category = entry.Category
	lib.Tags = entry.Tags

	if contributors, err := s.client.FetchContributors(ctx, entry.Owner, entry.Repo, catalogContributorLimit); err == nil {
		lib.Contributors = normalizeContributors(contributors, catalogContributorLimit)
	} else {
		logger.Warn("Contributor fetch failed for catalog entry",
			zap.Error(err),
			zap.String("library", entry.ID))
	}

	// The most recent commit gives a truer freshness signal than the
	// repository's updated_at field.
	if commits, err := s.client.FetchCommits(ctx, entry.Owner, entry.Repo, 1); err == nil {
		if date, ok := latestCommitDate(commits); ok {
			lib.UpdatedAt = date
		}
	} else {
		logger.Warn("Commit fetch failed for catalog entry",
			zap.Error(err),
			zap.String("library", entry.ID))
	}

	if content, err := s.client.FetchFileContents(ctx, entry.Owner, entry.Repo, manifestPath); err == nil {
		if keywords, ok := manifestKeywords(content); ok {
			lib.Tags = keywords
		}
	} else {
		logger.Debug("Manifest fetch failed for catalog entry, keeping static tags",
			zap.Error(err),
			zap.String("library", entry.ID))
	}

	return &lib, nil
}
