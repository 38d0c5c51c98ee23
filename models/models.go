// Package models defines the core data structures used throughout the application.
package models

// RepoRef identifies a repository by owner and name.
type RepoRef struct {
	Owner string `json:"owner"`
	Name  string `json:"name"`
}

// Contributor represents a repository contributor for the current response.
// Contributors are constructed fresh per aggregation call and never persisted.
type Contributor struct {
	ID            int64  `json:"id"`
	Username      string `json:"username"`
	Avatar        string `json:"avatar"`
	Contributions int    `json:"contributions"`
}

// CommitData is the canonical commit shape served by every route.
type CommitData struct {
	SHA     string `json:"sha"`
	Message string `json:"message"`
	Author  string `json:"author"`
	Date    string `json:"date"`
}

// Library is the normalized repository record. Every field is always
// populated: absent upstream values are substituted with zero values or
// documented placeholders, never omitted.
type Library struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Description  string        `json:"description"`
	URL          string        `json:"url"`
	Category     string        `json:"category"`
	Tags         []string      `json:"tags"`
	Stars        int           `json:"stars"`
	Forks        int           `json:"forks"`
	Issues       int           `json:"issues"`
	Watchers     int           `json:"watchers"`
	OpenIssues   int           `json:"openIssues"`
	Language     string        `json:"language"`
	License      string        `json:"license"`
	Size         int           `json:"size"` // repository size in KB
	CreatedAt    string        `json:"createdAt"`
	UpdatedAt    string        `json:"updatedAt"`
	Contributors []Contributor `json:"contributors"`
	Commits      []CommitData  `json:"commits"`
}

// Category is a derived facet over a library collection. Count is the
// number of libraries whose category equals ID.
type Category struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Count       int    `json:"count"`
}

// BatchFailure records one failed item of a batch request.
type BatchFailure struct {
	Error string `json:"error"`
	Owner string `json:"owner"`
	Name  string `json:"name"`
}

// BatchResult partitions a batch request into successes and failures.
// SuccessCount+FailureCount always equals Total, and the union of the
// two partitions covers the input set exactly once.
type BatchResult struct {
	Successful   []Library      `json:"successful"`
	Failed       []BatchFailure `json:"failed"`
	Total        int            `json:"total"`
	SuccessCount int            `json:"successCount"`
	FailureCount int            `json:"failureCount"`
}

// CatalogResult is the payload of the catalog endpoint. LastUpdated is
// the RFC3339 timestamp of response generation.
type CatalogResult struct {
	Libraries   []Library `json:"libraries"`
	Total       int       `json:"total"`
	LastUpdated string    `json:"lastUpdated"`
}
