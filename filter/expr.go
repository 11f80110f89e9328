package filter

import (
	"maps"
	"strings"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/matija2209/alexa-maxa-reviews-sdk/reviews"
)

// exprFilter implements CompiledFilter using the expr language
type exprFilter struct {
	expression string
	program    *vm.Program
	helpers    map[string]any
}

// ExprCompilerOption configures an expr compiler
type ExprCompilerOption func(*exprCompiler)

// WithCache enables filter caching with the specified size
func WithCache(size int) ExprCompilerOption {
	return func(c *exprCompiler) {
		if size > 0 {
			c.cache = newLRUCache[*exprFilter](size)
		}
	}
}

// WithCustomFunctions adds custom helper functions
func WithCustomFunctions(funcs map[string]any) ExprCompilerOption {
	return func(c *exprCompiler) {
		maps.Copy(c.helperFuncs, funcs)
	}
}

// WithClock sets the reference time used by the date helpers
func WithClock(now func() time.Time) ExprCompilerOption {
	return func(c *exprCompiler) {
		c.now = now
	}
}

// NewExprCompiler creates a new expr-based filter compiler
func NewExprCompiler(opts ...ExprCompilerOption) CachingCompiler {
	c := &exprCompiler{
		helperFuncs: make(map[string]any, 8),
		now:         time.Now,
	}

	for _, opt := range opts {
		opt(c)
	}

	builtins := createHelperFunctions(c.now)
	// Custom functions win over the built-in helpers
	maps.Copy(builtins, c.helperFuncs)
	c.helperFuncs = builtins

	return c
}

type exprCompiler struct {
	helperFuncs map[string]any
	now         func() time.Time
	cache       *lruCache[*exprFilter]
}

// Compile compiles an expression into an executable filter
func (c *exprCompiler) Compile(expression string) (CompiledFilter, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "empty expression",
		}
	}

	if c.cache != nil {
		if cached, ok := c.cache.Get(expression); ok {
			return cached, nil
		}
	}

	// Compiling against a zero review type-checks field access and helper calls
	program, err := expr.Compile(expression,
		expr.Env(createEnvironment(reviews.Review{}, c.helperFuncs)),
		expr.AsBool(),
	)
	if err != nil {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "failed to compile expression",
			Err:        err,
		}
	}

	filter := &exprFilter{
		expression: expression,
		program:    program,
		helpers:    c.helperFuncs,
	}

	if c.cache != nil {
		c.cache.Put(expression, filter)
	}

	return filter, nil
}

// Clear removes all cached filters
func (c *exprCompiler) Clear() {
	if c.cache != nil {
		c.cache.Clear()
	}
}

// Size returns the number of cached filters
func (c *exprCompiler) Size() int {
	if c.cache != nil {
		return c.cache.Size()
	}
	return 0
}

// Evaluate reports whether the review matches. Runtime failures count as no match.
func (f *exprFilter) Evaluate(review reviews.Review) bool {
	ok, err := f.Match(review)
	return err == nil && ok
}

// Match evaluates the filter and reports runtime failures.
func (f *exprFilter) Match(review reviews.Review) (bool, error) {
	result, err := expr.Run(f.program, createEnvironment(review, f.helpers))
	if err != nil {
		return false, &EvaluationError{Expression: f.expression, ReviewID: review.ID, Err: err}
	}
	// AsBool guarantees the type
	return result.(bool), nil
}

// Expression returns the original expression
func (f *exprFilter) Expression() string {
	return f.expression
}

// createHelperFunctions builds the helpers available to every expression.
// expr already provides lower, upper, now and the contains/startsWith/endsWith operators.
func createHelperFunctions(now func() time.Time) map[string]any {
	return map[string]any{
		"daysSince": func(t time.Time) int {
			return int(now().Sub(t).Hours() / 24)
		},
		"hoursSince": func(t time.Time) int {
			return int(now().Sub(t).Hours())
		},
		"daysAgo": func(days int) time.Time {
			return now().AddDate(0, 0, -days)
		},
		"parseDate": func(dateStr string) time.Time {
			t, _ := time.Parse("2006-01-02", dateStr)
			return t
		},
		"icontains": func(str, substr string) bool {
			return strings.Contains(strings.ToLower(str), strings.ToLower(substr))
		},
		"wordCount": func(str string) int {
			return len(strings.Fields(str))
		},
	}
}

// createEnvironment exposes the review fields and helpers to an expression
func createEnvironment(review reviews.Review, helpers map[string]any) map[string]any {
	env := make(map[string]any, len(helpers)+13)
	maps.Copy(env, helpers)

	env["Review"] = review
	env["ID"] = review.ID
	env["ProductID"] = review.ProductID
	env["Rating"] = review.Rating
	env["Title"] = review.Title
	env["Description"] = review.Description
	env["CustomerName"] = review.CustomerName
	env["CustomerEmail"] = review.CustomerEmail
	env["CustomerID"] = review.CustomerID
	env["IsApproved"] = review.IsApproved
	env["SubmittedAt"] = review.SubmittedAt.Time
	env["CreatedAt"] = review.CreatedAt.Time
	env["UpdatedAt"] = review.UpdatedAt.Time

	return env
}
