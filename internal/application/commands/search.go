package commands

import (
	"context"
	"path/filepath"
	"sort"
	"strings"

	"esxforge/internal/application"
	"esxforge/internal/domain"
	"esxforge/internal/ports"
)

// SearchResult is an outline entry with a relevance score
type SearchResult struct {
	Node  *domain.OutlineNode
	Score int
}

// SearchCommand searches a plugin's outline with fuzzy matching
type SearchCommand struct {
	store ports.PluginStore
	Path  string
	Query string
}

// NewSearchCommand creates a new SearchCommand
func NewSearchCommand(store ports.PluginStore, path, query string) *SearchCommand {
	return &SearchCommand{
		store: store,
		Path:  path,
		Query: query,
	}
}

// Execute runs the search command and returns scored, sorted results
func (c *SearchCommand) Execute(ctx context.Context) ([]SearchResult, error) {
	if len(c.Query) < 2 {
		return nil, nil
	}

	p, err := c.store.Load(ctx, c.Path)
	if err != nil {
		return nil, err
	}

	root := application.BuildOutline(p, filepath.Base(c.Path))
	return FuzzySort(Descendants(root), c.Query), nil
}

// Descendants returns every node below root regardless of expansion
func Descendants(root *domain.OutlineNode) []*domain.OutlineNode {
	var nodes []*domain.OutlineNode
	var walk func(*domain.OutlineNode)
	walk = func(n *domain.OutlineNode) {
		for _, child := range n.Children {
			nodes = append(nodes, child)
			walk(child)
		}
	}
	walk(root)
	return nodes
}

// FuzzyScore calculates a relevance score for how well target matches query
func FuzzyScore(target, query string) int {
	target = strings.ToLower(target)
	query = strings.ToLower(query)

	if len(query) == 0 {
		return 0
	}

	// Substring matches rank above any fuzzy match
	if strings.Contains(target, query) {
		score := 100
		if strings.HasPrefix(target, query) {
			score += 50
		}
		return score
	}

	// Fuzzy match: query characters in order
	score := 0
	queryIdx := 0
	prevMatchIdx := -1

	for i := 0; i < len(target) && queryIdx < len(query); i++ {
		if target[i] != query[queryIdx] {
			continue
		}
		if prevMatchIdx == i-1 {
			score += 10 // consecutive chars
		}
		if i == 0 {
			score += 15 // start of string
		}
		if i > 0 && isWordBoundary(target[i-1]) {
			score += 10
		}
		score++
		prevMatchIdx = i
		queryIdx++
	}

	if queryIdx == len(query) {
		return score
	}
	return 0
}

// isWordBoundary reports separators used in editor ids and alias names
func isWordBoundary(b byte) bool {
	return b == ' ' || b == '_' || b == '.' || b == '-'
}

// FuzzySort scores outline nodes by id, name and detail and sorts them by relevance
func FuzzySort(nodes []*domain.OutlineNode, query string) []SearchResult {
	scored := make([]SearchResult, 0, len(nodes))

	for _, n := range nodes {
		best := max(FuzzyScore(n.ID, query), FuzzyScore(n.Name, query), FuzzyScore(n.Detail, query))
		if best > 0 {
			scored = append(scored, SearchResult{Node: n, Score: best})
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	return scored
}
