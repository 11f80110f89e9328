package reviews

import (
	"context"
)

// API defines the reviews operations. *Client implements it.
type API interface {
	// GetByProduct lists approved reviews of a product
	GetByProduct(ctx context.Context, productID string, filters Filters) (*ReviewsResponse, error)

	// GetByID fetches a single review
	GetByID(ctx context.Context, reviewID string) (*ReviewResponse, error)

	// Create submits a new review
	Create(ctx context.Context, input CreateReviewInput) (*ReviewResponse, error)

	// Update changes fields of an existing review
	Update(ctx context.Context, reviewID string, input UpdateReviewInput) (*ReviewResponse, error)

	// Delete removes a review
	Delete(ctx context.Context, reviewID string) (*DeleteResponse, error)

	// Approve approves a pending review
	Approve(ctx context.Context, reviewID string) (*ReviewResponse, error)

	// GetAll lists all reviews for admin views
	GetAll(ctx context.Context, filters Filters) (*ReviewsResponse, error)

	// GetPending lists reviews awaiting approval
	GetPending(ctx context.Context, filters Filters) (*ReviewsResponse, error)
}
