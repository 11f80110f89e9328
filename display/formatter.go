// Package display renders reviews and SDK errors for the terminal.
package display

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/matija2209/alexa-maxa-reviews-sdk/reviews"
)

const dateFormat = "2006-01-02 15:04"

// FormatOptions controls the level of detail in the output
type FormatOptions struct {
	ShowDetails bool
	Color       bool
}

// ConsoleFormatter provides console output formatting for reviews
type ConsoleFormatter struct {
	opts FormatOptions
	p    palette
}

// NewConsoleFormatter creates a new console formatter
func NewConsoleFormatter(opts FormatOptions) *ConsoleFormatter {
	return &ConsoleFormatter{opts: opts, p: palette{enabled: opts.Color}}
}

// FormatReviewList formats one page of reviews
func (f *ConsoleFormatter) FormatReviewList(list reviews.ReviewList) string {
	if len(list.Reviews) == 0 {
		return "No reviews found"
	}

	var sb strings.Builder

	sb.WriteString("\nReview")
	if len(list.Reviews) != 1 {
		sb.WriteString("s")
	}
	fmt.Fprintf(&sb, " (%d of %d, page %d/%d):\n\n",
		len(list.Reviews), list.TotalCount, list.CurrentPage, max(list.TotalPages, 1))

	for i, review := range list.Reviews {
		isLast := i == len(list.Reviews)-1
		f.formatReview(&sb, review, isLast)

		if !isLast {
			sb.WriteString("│\n")
		}
	}

	sb.WriteString("\n")
	return sb.String()
}

// FormatReview formats a single review with all of its fields
func (f *ConsoleFormatter) FormatReview(review reviews.Review) string {
	var sb strings.Builder
	sb.WriteString("\n")

	single := *f
	single.opts.ShowDetails = true
	single.formatReview(&sb, review, true)

	sb.WriteString("\n")
	return sb.String()
}

func (f *ConsoleFormatter) formatReview(sb *strings.Builder, review reviews.Review, isLast bool) {
	prefix := "├"
	indent := "│   "
	if isLast {
		prefix = "╰"
		indent = "    "
	}

	title := review.Title
	if title == "" {
		title = "(untitled)"
	}
	fmt.Fprintf(sb, "%s── %s %s %s\n", prefix, f.p.yellow(Stars(review.Rating)), f.p.bold(title), f.status(review.IsApproved))

	fmt.Fprintf(sb, "%sID: %s | Product: %s\n", indent, review.ID, review.ProductID)

	customer := review.CustomerName
	if review.CustomerEmail != "" && f.opts.ShowDetails {
		customer += " <" + review.CustomerEmail + ">"
	}
	fmt.Fprintf(sb, "%sBy: %s\n", indent, customer)

	if review.Description != "" {
		desc := review.Description
		if !f.opts.ShowDetails {
			desc = truncate(desc, 80)
		}
		fmt.Fprintf(sb, "%s%s\n", indent, desc)
	}

	if !f.opts.ShowDetails {
		return
	}

	var dateParts []string
	switch {
	case !review.SubmittedAt.IsZero():
		dateParts = append(dateParts, "Submitted: "+review.SubmittedAt.Format(dateFormat))
	case review.SubmittedAt.Raw != "":
		dateParts = append(dateParts, "Submitted: "+review.SubmittedAt.Raw)
	}
	if !review.UpdatedAt.IsZero() && !review.UpdatedAt.Equal(review.SubmittedAt.Time) {
		dateParts = append(dateParts, "Updated: "+review.UpdatedAt.Format(dateFormat))
	}
	if len(dateParts) > 0 {
		fmt.Fprintf(sb, "%s%s\n", indent, f.p.dim(strings.Join(dateParts, " | ")))
	}
}

func (f *ConsoleFormatter) status(approved bool) string {
	if approved {
		return f.p.green("[APPROVED]")
	}
	return f.p.yellow("[PENDING]")
}

// FormatBatchResult summarises a batch approve or delete
func (f *ConsoleFormatter) FormatBatchResult(action string, result reviews.BatchResult) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "\n%s %d of %d review(s)\n", action, len(result.Succeeded), result.Requested)

	if !result.HasFailures() {
		return sb.String()
	}

	fmt.Fprintf(&sb, "\n%s (%d):\n", f.p.red("Failed"), len(result.Failed))
	for i, failure := range result.Failed {
		prefix := "├"
		if i == len(result.Failed)-1 {
			prefix = "╰"
		}
		fmt.Fprintf(&sb, "%s── %s: %s\n", prefix, failure.ReviewID, describe(failure.Err))
	}
	return sb.String()
}

// FormatError renders an SDK error for the terminal. Other errors are printed as is.
func (f *ConsoleFormatter) FormatError(err error) string {
	var apiErr *reviews.Error
	if !errors.As(err, &apiErr) {
		return f.p.red("Error: ") + err.Error()
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %s\n", f.p.red("Error:"), apiErr.Message)

	code := string(apiErr.Code)
	if apiErr.StatusCode > 0 {
		code += fmt.Sprintf(" (HTTP %d)", apiErr.StatusCode)
	}
	if apiErr.Details == "" {
		fmt.Fprintf(&sb, "╰── Code: %s", code)
		return sb.String()
	}
	fmt.Fprintf(&sb, "├── Code: %s\n", code)
	fmt.Fprintf(&sb, "╰── %s", apiErr.Details)
	return sb.String()
}

// Stars renders a rating as five filled or empty stars, rounding fractions
func Stars(rating float64) string {
	n := min(max(int(math.Round(rating)), 0), 5)
	return strings.Repeat("★", n) + strings.Repeat("☆", 5-n)
}

func describe(err error) string {
	var apiErr *reviews.Error
	if errors.As(err, &apiErr) {
		return fmt.Sprintf("%s (%s)", apiErr.Message, apiErr.Code)
	}
	return err.Error()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
