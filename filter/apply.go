package filter

import (
	"strings"

	"github.com/matija2209/alexa-maxa-reviews-sdk/reviews"
)

var defaultCompiler = NewExprCompiler(WithCache(64))

// Parse compiles expression with the shared compiler. An empty expression
// yields a filter that matches every review.
func Parse(expression string) (Filter, error) {
	if strings.TrimSpace(expression) == "" {
		return matchAll{}, nil
	}
	return defaultCompiler.Compile(expression)
}

// Apply returns the reviews that match f, preserving order.
func Apply(f Filter, items []reviews.Review) []reviews.Review {
	matches := make([]reviews.Review, 0, len(items))
	for _, r := range items {
		if f.Evaluate(r) {
			matches = append(matches, r)
		}
	}
	return matches
}

type matchAll struct{}

func (matchAll) Evaluate(reviews.Review) bool { return true }
