// Package catalog holds the curated library catalog and the pure
// filter/facet derivations over library collections.
package catalog

// Entry is one curated catalog item. Tags are the static defaults used
// when the repository's package manifest declares no keywords.
type Entry struct {
	ID       string
	Name     string
	Category string
	Owner    string
	Repo     string
	Tags     []string
}

// entries is the fixed list served by the catalog endpoint.
var entries = []Entry{
	{
		ID:       "react",
		Name:     "React",
		Category: "Frontend Framework",
		Owner:    "facebook",
		Repo:     "react",
		Tags:     []string{"frontend", "ui", "javascript", "library"},
	},
	{
		ID:       "vue",
		Name:     "Vue.js",
		Category: "Frontend Framework",
		Owner:    "vuejs",
		Repo:     "core",
		Tags:     []string{"frontend", "ui", "javascript", "framework"},
	},
	{
		ID:       "tailwindcss",
		Name:     "Tailwind CSS",
		Category: "CSS Framework",
		Owner:    "tailwindlabs",
		Repo:     "tailwindcss",
		Tags:     []string{"css", "framework", "utility-first", "styling"},
	},
	{
		ID:       "nodejs",
		Name:     "Node.js",
		Category: "Runtime",
		Owner:    "nodejs",
		Repo:     "node",
		Tags:     []string{"runtime", "javascript", "server", "backend"},
	},
	{
		ID:       "typescript",
		Name:     "TypeScript",
		Category: "Programming Language",
		Owner:    "microsoft",
		Repo:     "TypeScript",
		Tags:     []string{"language", "javascript", "types", "compiler"},
	},
}

// Entries returns the curated catalog list. The returned slice is a copy
// so callers cannot mutate the catalog.
func Entries() []Entry {
	out := make([]Entry, len(entries))
	copy(out, entries)
	return out
}
