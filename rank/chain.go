package rank

import (
	"strings"

	"github.com/poiesic/booksearch/core"
)

// Chain returns the hierarchy chain of a location path, most specific first
// and the root "" last. Chain("a.b.c") is ["a.b.c", "a.b", "a", ""].
func Chain(path string) []string {
	if path == "" {
		return []string{""}
	}
	segments := strings.Split(path, core.LevelSeparator)
	chain := make([]string, 0, len(segments)+1)
	for i := len(segments); i > 0; i-- {
		chain = append(chain, strings.Join(segments[:i], core.LevelSeparator))
	}
	return append(chain, "")
}

// Weighted is a result paired with its proximity weight.
type Weighted struct {
	Result core.RawResult
	Weight int
}

// Weight returns the index of the first chain entry that level contains,
// or len(chain) when none does.
func Weight(level string, chain []string) int {
	for i, prefix := range chain {
		if strings.Contains(level, prefix) {
			return i
		}
	}
	return len(chain)
}

// Weigh computes the weight of every result against chain, in input order.
func Weigh(results []core.RawResult, chain []string) []Weighted {
	weighted := make([]Weighted, len(results))
	for i, result := range results {
		weighted[i] = Weighted{
			Result: result,
			Weight: Weight(result.Level, chain),
		}
	}
	return weighted
}
