package commands

import (
	"context"
	"sort"
	"strings"

	"botree/internal/domain"
)

// FindResult is an object matching a query with its relevance score
type FindResult struct {
	Object *domain.Object
	Path   []string
	Score  int
}

// FindObjectsCommand searches the graph with fuzzy matching on ids,
// classes and property values
type FindObjectsCommand struct {
	graph *domain.Graph
	Query string
	Limit int // 0 for no limit
}

// NewFindObjectsCommand creates a new FindObjectsCommand
func NewFindObjectsCommand(graph *domain.Graph, query string) *FindObjectsCommand {
	return &FindObjectsCommand{
		graph: graph,
		Query: query,
	}
}

// Execute runs the find command and returns scored, sorted results
func (c *FindObjectsCommand) Execute(ctx context.Context) ([]FindResult, error) {
	if len(strings.TrimSpace(c.Query)) < 2 {
		return nil, nil
	}

	var results []FindResult
	var path []string
	c.graph.Walk(func(obj *domain.Object, depth int) bool {
		path = append(path[:depth], obj.String())

		best := max(FuzzyScore(obj.ID, c.Query), FuzzyScore(obj.Class, c.Query))
		for _, p := range obj.Properties() {
			best = max(best, FuzzyScore(p.Value, c.Query))
		}
		if best > 0 {
			results = append(results, FindResult{
				Object: obj,
				Path:   append([]string(nil), path...),
				Score:  best,
			})
		}
		return true
	})

	// Sort by score descending, stable on walk order
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if c.Limit > 0 && len(results) > c.Limit {
		results = results[:c.Limit]
	}
	return results, nil
}

// FuzzyScore calculates a relevance score for how well target matches query
func FuzzyScore(target, query string) int {
	target = strings.ToLower(target)
	query = strings.ToLower(query)

	if len(query) == 0 {
		return 0
	}

	// Exact substring match first (highest priority)
	if strings.Contains(target, query) {
		score := 100
		if strings.HasPrefix(target, query) {
			score += 50
		}
		return score
	}

	// Fuzzy match: chars appear in order
	t, q := []rune(target), []rune(query)
	score, qi, prev := 0, 0, -1
	for i := 0; i < len(t) && qi < len(q); i++ {
		if t[i] != q[qi] {
			continue
		}
		if prev == i-1 {
			score += 10 // consecutive
		}
		if i == 0 {
			score += 15
		} else if t[i-1] == ' ' || t[i-1] == '-' || t[i-1] == '.' {
			score += 10 // word start
		}
		score++
		prev = i
		qi++
	}

	if qi == len(q) {
		return score
	}
	return 0
}
