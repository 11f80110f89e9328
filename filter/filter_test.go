package filter

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matija2209/alexa-maxa-reviews-sdk/reviews"
)

var fixedNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func testReview() reviews.Review {
	return reviews.Review{
		ID:           "rev-1",
		ProductID:    "prod-1",
		Rating:       4,
		Title:        "Great Blender",
		Description:  "Works great for smoothies and soups",
		CustomerName: "Jane Doe",
		CustomerID:   "cust-9",
		IsApproved:   false,
		SubmittedAt:  reviews.NewTimestamp(fixedNow.AddDate(0, 0, -3)),
	}
}

func TestCompile(t *testing.T) {
	tests := []struct {
		name        string
		expression  string
		wantErr     bool
		errContains string
	}{
		{
			name:       "valid expression",
			expression: `Rating >= 4`,
		},
		{
			name:        "empty expression",
			expression:  "   ",
			wantErr:     true,
			errContains: "empty expression",
		},
		{
			name:       "invalid syntax",
			expression: `icontains(Title, "unclosed`,
			wantErr:    true,
		},
		{
			name:       "unknown field",
			expression: `Stars > 3`,
			wantErr:    true,
		},
		{
			name:       "type mismatch",
			expression: `Rating == "five"`,
			wantErr:    true,
		},
		{
			name:       "not boolean",
			expression: `Rating + 1`,
			wantErr:    true,
		},
		{
			name:       "complex expression",
			expression: `Rating >= 4 && !IsApproved && icontains(Description, "great") && daysSince(SubmittedAt) < 7`,
		},
	}

	compiler := NewExprCompiler()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filter, err := compiler.Compile(tt.expression)

			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error but got none")
				}
				var compErr *CompilationError
				if !errors.As(err, &compErr) {
					t.Errorf("expected *CompilationError, got %T", err)
				}
				if tt.errContains != "" && !strings.Contains(err.Error(), tt.errContains) {
					t.Errorf("error %q does not contain %q", err.Error(), tt.errContains)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if filter.Expression() != strings.TrimSpace(tt.expression) {
				t.Errorf("Expression() = %q", filter.Expression())
			}
		})
	}
}

func TestEvaluate(t *testing.T) {
	review := testReview()

	tests := []struct {
		expression string
		want       bool
	}{
		{`Rating == 4`, true},
		{`Rating > 4`, false},
		{`!IsApproved`, true},
		{`ProductID == "prod-1" && CustomerName startsWith "Jane"`, true},
		{`icontains(Title, "BLENDER")`, true},
		{`Description contains "smoothies"`, true},
		{`lower(Title) == "great blender"`, true},
		{`daysSince(SubmittedAt) == 3`, true},
		{`SubmittedAt > daysAgo(7)`, true},
		{`SubmittedAt < parseDate("2025-01-01")`, false},
		{`wordCount(Description) >= 5`, true},
		{`Review.Rating >= 4`, true},
		{`CustomerID == "cust-9"`, true},
		{`CustomerID == ""`, false},
	}

	compiler := NewExprCompiler(WithClock(func() time.Time { return fixedNow }))
	for _, tt := range tests {
		t.Run(tt.expression, func(t *testing.T) {
			filter, err := compiler.Compile(tt.expression)
			require.NoError(t, err)
			assert.Equal(t, tt.want, filter.Evaluate(review))
		})
	}
}

func TestCustomFunctions(t *testing.T) {
	compiler := NewExprCompiler(WithCustomFunctions(map[string]any{
		"isVerified": func(email string) bool { return strings.HasSuffix(email, "@example.com") },
	}))

	filter, err := compiler.Compile(`isVerified(CustomerEmail)`)
	require.NoError(t, err)

	review := testReview()
	assert.False(t, filter.Evaluate(review))
	review.CustomerEmail = "jane@example.com"
	assert.True(t, filter.Evaluate(review))
}

func TestCompilerCache(t *testing.T) {
	compiler := NewExprCompiler(WithCache(2))

	first, err := compiler.Compile("Rating > 1")
	require.NoError(t, err)
	again, err := compiler.Compile(" Rating > 1 ")
	require.NoError(t, err)
	assert.Same(t, first, again)
	assert.Equal(t, 1, compiler.Size())

	_, err = compiler.Compile("Rating > 2")
	require.NoError(t, err)
	_, err = compiler.Compile("Rating > 3")
	require.NoError(t, err)
	assert.Equal(t, 2, compiler.Size())

	// The oldest entry was evicted
	evicted, err := compiler.Compile("Rating > 1")
	require.NoError(t, err)
	assert.NotSame(t, first, evicted)

	compiler.Clear()
	assert.Equal(t, 0, compiler.Size())
}

func TestNoCache(t *testing.T) {
	compiler := NewExprCompiler()
	_, err := compiler.Compile("IsApproved")
	require.NoError(t, err)
	assert.Equal(t, 0, compiler.Size())
}

func TestApply(t *testing.T) {
	items := []reviews.Review{
		{ID: "a", Rating: 5, IsApproved: true},
		{ID: "b", Rating: 2, IsApproved: true},
		{ID: "c", Rating: 4, IsApproved: false},
		{ID: "d", Rating: 1, IsApproved: false},
	}

	t.Run("expression", func(t *testing.T) {
		f, err := Parse("Rating >= 4")
		require.NoError(t, err)
		got := Apply(f, items)
		assert.Equal(t, []string{"a", "c"}, ids(got))
	})

	t.Run("empty matches all", func(t *testing.T) {
		f, err := Parse("")
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b", "c", "d"}, ids(Apply(f, items)))
	})

	t.Run("no input", func(t *testing.T) {
		f, err := Parse("IsApproved")
		require.NoError(t, err)
		assert.Empty(t, Apply(f, nil))
	})
}

func TestMatchReportsRuntimeErrors(t *testing.T) {
	compiler := NewExprCompiler(WithCustomFunctions(map[string]any{
		"explode": func(s string) bool { panic("boom") },
	}))
	filter, err := compiler.Compile(`explode(Title)`)
	require.NoError(t, err)

	ef, ok := filter.(*exprFilter)
	require.True(t, ok)

	_, err = ef.Match(testReview())
	var evalErr *EvaluationError
	require.ErrorAs(t, err, &evalErr)
	assert.Equal(t, "rev-1", evalErr.ReviewID)
	assert.False(t, filter.Evaluate(testReview()))
}

func ids(items []reviews.Review) []string {
	out := make([]string, len(items))
	for i, r := range items {
		out[i] = r.ID
	}
	return out
}
