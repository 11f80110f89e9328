package reviews

import (
	"bytes"
	"encoding/json"
	"time"
)

// Intent names the semantic write operation carried in every write body.
type Intent string

const (
	IntentCreate  Intent = "create"
	IntentUpdate  Intent = "update"
	IntentDelete  Intent = "delete"
	IntentApprove Intent = "approve"
)

// SortField is a field reviews can be sorted by
type SortField string

const (
	SortBySubmittedAt SortField = "submittedAt"
	SortByRating      SortField = "rating"
)

// SortOrder is the direction of a sort
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// RatingAll disables the rating filter.
const RatingAll = 0

// Filters narrows list operations. Zero values fall back to the defaults of each operation.
type Filters struct {
	Rating    int // exact rating; RatingAll for no filter
	SortBy    SortField
	SortOrder SortOrder
	Page      int // 1-based
	Limit     int
}

// Review is a review as returned by the reviews service. Rating is numeric on
// the wire and may carry a fraction.
type Review struct {
	ID            string    `json:"id"`
	ProductID     string    `json:"productId"`
	Rating        float64   `json:"rating"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	CustomerName  string    `json:"customerName"`
	CustomerEmail string    `json:"customerEmail,omitempty"`
	CustomerID    string    `json:"customerId,omitempty"`
	IsApproved    bool      `json:"isApproved"`
	SubmittedAt   Timestamp `json:"submittedAt"`
	CreatedAt     Timestamp `json:"createdAt"`
	UpdatedAt     Timestamp `json:"updatedAt"`
}

// CreateReviewInput holds the fields of a new review.
type CreateReviewInput struct {
	ProductID     string
	ProductHandle string
	Rating        int
	Title         string
	CustomerName  string
	CustomerEmail string
	Description   string
}

// UpdateReviewInput holds the fields to change. Nil fields are left untouched.
type UpdateReviewInput struct {
	Rating      *int
	Title       *string
	Description *string
}

// IsEmpty reports whether no field would be updated
func (u UpdateReviewInput) IsEmpty() bool {
	return u.Rating == nil && isBlank(u.Title) && isBlank(u.Description)
}

func isBlank(s *string) bool {
	return s == nil || *s == ""
}

// CreateReviewRequest is the wire body for creating a review. Rating travels as a string.
type CreateReviewRequest struct {
	ProductID     string `json:"productId"`
	ProductHandle string `json:"productHandle"`
	Rating        int    `json:"rating,string"`
	Title         string `json:"title,omitempty"`
	CustomerName  string `json:"customerName"`
	CustomerEmail string `json:"customerEmail,omitempty"`
	Description   string `json:"description"`
	Intent        Intent `json:"intent"`
}

// UpdateReviewRequest is the wire body for updating a review.
type UpdateReviewRequest struct {
	Rating      *int    `json:"rating,omitempty,string"`
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Intent      Intent  `json:"intent"`
}

// IntentRequest is the wire body for writes without payload (delete, approve).
type IntentRequest struct {
	Intent Intent `json:"intent"`
}

// ReviewList is the data of a list response
type ReviewList struct {
	Reviews     []Review `json:"reviews"`
	TotalCount  int      `json:"totalCount"`
	TotalPages  int      `json:"totalPages"`
	CurrentPage int      `json:"currentPage"`
}

// ReviewsResponse is the envelope of list operations
type ReviewsResponse struct {
	Success   bool       `json:"success"`
	Data      ReviewList `json:"data"`
	Timestamp Timestamp  `json:"timestamp"`
}

// SingleReview is the data of a single-review response
type SingleReview struct {
	Review Review `json:"review"`
}

// ReviewResponse is the envelope of single-review operations
type ReviewResponse struct {
	Success   bool         `json:"success"`
	Data      SingleReview `json:"data"`
	Timestamp Timestamp    `json:"timestamp"`
}

// DeleteResult is the data of a delete response
type DeleteResult struct {
	Deleted  bool   `json:"deleted"`
	ReviewID string `json:"reviewId"`
}

// DeleteResponse is the envelope of the delete operation
type DeleteResponse struct {
	Success   bool         `json:"success"`
	Data      DeleteResult `json:"data"`
	Timestamp Timestamp    `json:"timestamp"`
}

// APIErrorBody is the error object of a failure envelope.
type APIErrorBody struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Details   string `json:"details,omitempty"`
	Timestamp string `json:"timestamp"`
	Path      string `json:"path"`
}

// ErrorResponse is the failure envelope
type ErrorResponse struct {
	Error APIErrorBody `json:"error"`
}

// timestampLayouts are tried in order when decoding a Timestamp.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Timestamp is a service timestamp. Values in an unknown layout keep their raw
// text in Raw and leave Time zero instead of failing the whole response.
type Timestamp struct {
	time.Time
	Raw string
}

// NewTimestamp wraps t
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t}
}

// UnmarshalJSON never fails. Anything that is not a string in a known layout is kept in Raw.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*t = Timestamp{}
		return nil
	}

	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		*t = Timestamp{Raw: string(data)}
		return nil
	}

	*t = Timestamp{Raw: raw}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return nil
}

// MarshalJSON writes RFC 3339, or the raw text when it could not be parsed.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.Time.IsZero() && t.Raw != "" {
		return json.Marshal(t.Raw)
	}
	return json.Marshal(t.Time.Format(time.RFC3339Nano))
}
