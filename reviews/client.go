package reviews

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// DefaultTimeout is used when Config.Timeout is zero.
const DefaultTimeout = 30 * time.Second

const reviewsPath = "/api/v1/reviews"

// Config holds the connection settings of a Client.
type Config struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration // zero means DefaultTimeout
}

// Client is a reviews API client. It is immutable after construction and safe
// for concurrent use.
type Client struct {
	apiKey     string
	baseURL    string
	timeout    time.Duration
	headers    http.Header
	httpClient *http.Client
	logger     zerolog.Logger
	metrics    *Metrics
}

var _ API = (*Client)(nil)

// NewClient validates cfg and creates a new Client.
func NewClient(cfg Config, opts ...Option) (*Client, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	c := &Client{
		apiKey:     cfg.APIKey,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		timeout:    timeout,
		headers:    make(http.Header),
		httpClient: &http.Client{},
		logger:     zerolog.Nop(),
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// Timeout returns the per-call timeout
func (c *Client) Timeout() time.Duration {
	return c.timeout
}

// BaseURL returns the normalized base URL
func (c *Client) BaseURL() string {
	return c.baseURL
}

// GetByProduct lists approved reviews of a product.
func (c *Client) GetByProduct(ctx context.Context, productID string, filters Filters) (*ReviewsResponse, error) {
	if productID == "" {
		return nil, validationError("Product ID is required", "Please provide a valid product ID")
	}

	params := listParams(filters, defaultProductLimit)
	params.Set("productId", productID)
	params.Set("isApproved", "true")
	setRatingFilter(params, filters.Rating)

	return do[ReviewsResponse](ctx, c, "get_by_product", reviewsPath+"?"+params.Encode(), RequestOptions{})
}

// GetByID fetches a single review.
func (c *Client) GetByID(ctx context.Context, reviewID string) (*ReviewResponse, error) {
	if reviewID == "" {
		return nil, reviewIDRequired()
	}

	return do[ReviewResponse](ctx, c, "get_by_id", reviewPath(reviewID), RequestOptions{})
}

// Create submits a new review. ProductID, CustomerName and Rating are required
// and checked in that order.
func (c *Client) Create(ctx context.Context, input CreateReviewInput) (*ReviewResponse, error) {
	if input.ProductID == "" {
		return nil, validationError("Product ID is required", "Please provide a valid product ID")
	}
	if input.CustomerName == "" {
		return nil, validationError("Customer name is required", "Please provide a customer name")
	}
	if input.Rating == 0 {
		return nil, validationError("Rating is required", "Please provide a rating")
	}

	body := CreateReviewRequest{
		ProductID:     input.ProductID,
		ProductHandle: input.ProductHandle,
		Rating:        input.Rating,
		Title:         input.Title,
		CustomerName:  input.CustomerName,
		CustomerEmail: input.CustomerEmail,
		Description:   input.Description,
		Intent:        IntentCreate,
	}

	return do[ReviewResponse](ctx, c, "create", reviewsPath, RequestOptions{
		Method: http.MethodPost,
		Body:   body,
	})
}

// Update changes the given fields of a review.
func (c *Client) Update(ctx context.Context, reviewID string, input UpdateReviewInput) (*ReviewResponse, error) {
	if reviewID == "" {
		return nil, reviewIDRequired()
	}
	if input.IsEmpty() {
		return nil, validationError("Update data is required", "Please provide at least one field to update")
	}

	body := UpdateReviewRequest{
		Rating:      input.Rating,
		Title:       input.Title,
		Description: input.Description,
		Intent:      IntentUpdate,
	}

	return do[ReviewResponse](ctx, c, "update", reviewPath(reviewID), RequestOptions{
		Method: http.MethodPatch,
		Body:   body,
	})
}

// Delete removes a review.
func (c *Client) Delete(ctx context.Context, reviewID string) (*DeleteResponse, error) {
	if reviewID == "" {
		return nil, reviewIDRequired()
	}

	return do[DeleteResponse](ctx, c, "delete", reviewPath(reviewID), RequestOptions{
		Method: http.MethodDelete,
		Body:   IntentRequest{Intent: IntentDelete},
	})
}

// Approve marks a review as approved. This is an admin operation.
func (c *Client) Approve(ctx context.Context, reviewID string) (*ReviewResponse, error) {
	if reviewID == "" {
		return nil, reviewIDRequired()
	}

	return do[ReviewResponse](ctx, c, "approve", reviewPath(reviewID)+"/approve", RequestOptions{
		Method: http.MethodPost,
		Body:   IntentRequest{Intent: IntentApprove},
	})
}

// GetAll lists reviews regardless of approval state. This is an admin operation.
func (c *Client) GetAll(ctx context.Context, filters Filters) (*ReviewsResponse, error) {
	params := listParams(filters, defaultAdminLimit)
	setRatingFilter(params, filters.Rating)

	return do[ReviewsResponse](ctx, c, "get_all", reviewsPath+"/admin?"+params.Encode(), RequestOptions{})
}

// GetPending lists reviews awaiting approval. The rating filter is not applied.
func (c *Client) GetPending(ctx context.Context, filters Filters) (*ReviewsResponse, error) {
	params := listParams(filters, defaultAdminLimit)
	params.Set("isApproved", "false")

	return do[ReviewsResponse](ctx, c, "get_pending", reviewsPath+"?"+params.Encode(), RequestOptions{})
}

func reviewPath(reviewID string) string {
	return reviewsPath + "/" + url.PathEscape(reviewID)
}

func reviewIDRequired() *Error {
	return validationError("Review ID is required", "Please provide a valid review ID")
}
