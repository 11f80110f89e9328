package fakeapi

import (
	"fmt"
	"time"

	"github.com/matija2209/alexa-maxa-reviews-sdk/reviews"
)

// SampleReviews builds n reviews spread over two products, one hour apart
// starting at base. Every third review is left pending.
func SampleReviews(base time.Time, n int) []reviews.Review {
	items := make([]reviews.Review, 0, n)
	for i := range n {
		at := base.Add(time.Duration(i) * time.Hour).UTC()
		items = append(items, reviews.Review{
			ID:           fmt.Sprintf("rev-%03d", i+1),
			ProductID:    fmt.Sprintf("prod-%d", i%2+1),
			Rating:       float64(i%5 + 1),
			Title:        fmt.Sprintf("Review %d", i+1),
			Description:  fmt.Sprintf("Sample review number %d", i+1),
			CustomerName: fmt.Sprintf("Customer %d", i+1),
			IsApproved:   i%3 != 2,
			SubmittedAt:  reviews.NewTimestamp(at),
			CreatedAt:    reviews.NewTimestamp(at),
			UpdatedAt:    reviews.NewTimestamp(at),
		})
	}
	return items
}
