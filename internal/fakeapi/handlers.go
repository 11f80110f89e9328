package fakeapi

import (
	"cmp"
	"errors"
	"net/http"
	"slices"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/matija2209/alexa-maxa-reviews-sdk/reviews"
)

type createBody struct {
	ProductID     string `json:"productId" validate:"required"`
	ProductHandle string `json:"productHandle"`
	Rating        string `json:"rating" validate:"required,numeric"`
	Title         string `json:"title" validate:"max=200"`
	CustomerName  string `json:"customerName" validate:"required,max=100"`
	CustomerEmail string `json:"customerEmail" validate:"omitempty,email"`
	Description   string `json:"description" validate:"max=5000"`
	Intent        string `json:"intent" validate:"required,eq=create"`
}

type updateBody struct {
	Rating      *string `json:"rating" validate:"omitempty,numeric"`
	Title       *string `json:"title" validate:"omitempty,max=200"`
	Description *string `json:"description" validate:"omitempty,max=5000"`
	Intent      string  `json:"intent" validate:"required,eq=update"`
}

type intentBody struct {
	Intent string `json:"intent" validate:"required"`
}

type listQuery struct {
	productID   string
	isApproved  *bool
	exactRating int
	sortBy      reviews.SortField
	sortOrder   reviews.SortOrder
	page        int
	limit       int
}

func (s *Server) listReviews(c *gin.Context) {
	s.list(c, 5)
}

func (s *Server) listAdminReviews(c *gin.Context) {
	s.list(c, 10)
}

func (s *Server) list(c *gin.Context, defaultLimit int) {
	q, ok := s.parseListQuery(c, defaultLimit)
	if !ok {
		return
	}

	s.mu.RLock()
	matches := make([]reviews.Review, 0, len(s.reviews))
	for _, r := range s.reviews {
		if q.productID != "" && r.ProductID != q.productID {
			continue
		}
		if q.isApproved != nil && r.IsApproved != *q.isApproved {
			continue
		}
		if q.exactRating != 0 && r.Rating != float64(q.exactRating) {
			continue
		}
		matches = append(matches, r)
	}
	s.mu.RUnlock()

	slices.SortFunc(matches, func(a, b reviews.Review) int {
		var order int
		if q.sortBy == reviews.SortByRating {
			order = cmp.Compare(a.Rating, b.Rating)
		} else {
			order = a.SubmittedAt.Compare(b.SubmittedAt.Time)
		}
		if order == 0 {
			order = cmp.Compare(a.ID, b.ID)
		}
		if q.sortOrder == reviews.SortDesc {
			order = -order
		}
		return order
	})

	total := len(matches)
	totalPages := (total + q.limit - 1) / q.limit
	start := min((q.page-1)*q.limit, total)
	end := min(start+q.limit, total)

	s.respond(c, http.StatusOK, reviews.ReviewList{
		Reviews:     matches[start:end],
		TotalCount:  total,
		TotalPages:  totalPages,
		CurrentPage: q.page,
	})
}

func (s *Server) parseListQuery(c *gin.Context, defaultLimit int) (listQuery, bool) {
	q := listQuery{
		productID: c.Query("productId"),
		sortBy:    reviews.SortField(c.DefaultQuery("sortBy", string(reviews.SortBySubmittedAt))),
		sortOrder: reviews.SortOrder(c.DefaultQuery("sortOrder", string(reviews.SortDesc))),
	}

	var err error
	if q.page, err = strconv.Atoi(c.DefaultQuery("page", "1")); err != nil || q.page < 1 {
		s.abortWithError(c, http.StatusBadRequest, "INVALID_QUERY", "page must be a positive integer")
		return q, false
	}
	if q.limit, err = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultLimit))); err != nil || q.limit < 1 || q.limit > 100 {
		s.abortWithError(c, http.StatusBadRequest, "INVALID_QUERY", "limit must be between 1 and 100")
		return q, false
	}
	if raw, ok := c.GetQuery("exactRating"); ok {
		if q.exactRating, err = strconv.Atoi(raw); err != nil || q.exactRating < 1 || q.exactRating > 5 {
			s.abortWithError(c, http.StatusBadRequest, "INVALID_QUERY", "exactRating must be between 1 and 5")
			return q, false
		}
	}
	if raw, ok := c.GetQuery("isApproved"); ok {
		approved, err := strconv.ParseBool(raw)
		if err != nil {
			s.abortWithError(c, http.StatusBadRequest, "INVALID_QUERY", "isApproved must be true or false")
			return q, false
		}
		q.isApproved = &approved
	}
	if q.sortBy != reviews.SortBySubmittedAt && q.sortBy != reviews.SortByRating {
		s.abortWithError(c, http.StatusBadRequest, "INVALID_QUERY", "sortBy must be submittedAt or rating")
		return q, false
	}
	if q.sortOrder != reviews.SortAsc && q.sortOrder != reviews.SortDesc {
		s.abortWithError(c, http.StatusBadRequest, "INVALID_QUERY", "sortOrder must be asc or desc")
		return q, false
	}

	return q, true
}

func (s *Server) getReview(c *gin.Context) {
	review, ok := s.lookup(c)
	if !ok {
		return
	}
	s.respond(c, http.StatusOK, reviews.SingleReview{Review: review})
}

func (s *Server) createReview(c *gin.Context) {
	var body createBody
	if !s.bind(c, &body) {
		return
	}

	rating, ok := s.parseRating(c, body.Rating)
	if !ok {
		return
	}

	now := reviews.NewTimestamp(s.now().UTC())
	review := reviews.Review{
		ID:            uuid.NewString(),
		ProductID:     body.ProductID,
		Rating:        float64(rating),
		Title:         body.Title,
		Description:   body.Description,
		CustomerName:  body.CustomerName,
		CustomerEmail: body.CustomerEmail,
		SubmittedAt:   now,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	s.mu.Lock()
	s.reviews[review.ID] = review
	s.mu.Unlock()

	s.respond(c, http.StatusCreated, reviews.SingleReview{Review: review})
}

func (s *Server) updateReview(c *gin.Context) {
	var body updateBody
	if !s.bind(c, &body) {
		return
	}

	var rating int
	if body.Rating != nil {
		var ok bool
		if rating, ok = s.parseRating(c, *body.Rating); !ok {
			return
		}
	}

	s.mu.Lock()
	review, exists := s.reviews[c.Param("id")]
	if exists {
		if body.Rating != nil {
			review.Rating = float64(rating)
		}
		if body.Title != nil {
			review.Title = *body.Title
		}
		if body.Description != nil {
			review.Description = *body.Description
		}
		review.UpdatedAt = reviews.NewTimestamp(s.now().UTC())
		s.reviews[review.ID] = review
	}
	s.mu.Unlock()

	if !exists {
		s.notFound(c)
		return
	}
	s.respond(c, http.StatusOK, reviews.SingleReview{Review: review})
}

func (s *Server) deleteReview(c *gin.Context) {
	if !s.checkIntent(c, reviews.IntentDelete) {
		return
	}

	id := c.Param("id")
	s.mu.Lock()
	_, exists := s.reviews[id]
	delete(s.reviews, id)
	s.mu.Unlock()

	if !exists {
		s.notFound(c)
		return
	}
	s.respond(c, http.StatusOK, reviews.DeleteResult{Deleted: true, ReviewID: id})
}

func (s *Server) approveReview(c *gin.Context) {
	if !s.checkIntent(c, reviews.IntentApprove) {
		return
	}

	s.mu.Lock()
	review, exists := s.reviews[c.Param("id")]
	alreadyApproved := exists && review.IsApproved
	if exists && !alreadyApproved {
		review.IsApproved = true
		review.UpdatedAt = reviews.NewTimestamp(s.now().UTC())
		s.reviews[review.ID] = review
	}
	s.mu.Unlock()

	switch {
	case !exists:
		s.notFound(c)
	case alreadyApproved:
		s.abortWithError(c, http.StatusConflict, "ALREADY_APPROVED", "Review is already approved")
	default:
		s.respond(c, http.StatusOK, reviews.SingleReview{Review: review})
	}
}

func (s *Server) lookup(c *gin.Context) (reviews.Review, bool) {
	s.mu.RLock()
	review, exists := s.reviews[c.Param("id")]
	s.mu.RUnlock()

	if !exists {
		s.notFound(c)
	}
	return review, exists
}

func (s *Server) notFound(c *gin.Context) {
	s.abortWithError(c, http.StatusNotFound, "NOT_FOUND", "Review "+c.Param("id")+" not found")
}

func (s *Server) bind(c *gin.Context, body any) bool {
	if err := c.ShouldBindJSON(body); err != nil {
		s.abortWithError(c, http.StatusBadRequest, "INVALID_BODY", "Invalid request body")
		return false
	}
	if err := s.validator.Struct(body); err != nil {
		s.abortWithError(c, http.StatusBadRequest, "VALIDATION_FAILED", formatValidationError(err))
		return false
	}
	return true
}

func (s *Server) checkIntent(c *gin.Context, want reviews.Intent) bool {
	var body intentBody
	if !s.bind(c, &body) {
		return false
	}
	if body.Intent != string(want) {
		s.abortWithError(c, http.StatusBadRequest, "INVALID_INTENT", "Expected intent "+string(want))
		return false
	}
	return true
}

func (s *Server) parseRating(c *gin.Context, raw string) (int, bool) {
	rating, err := strconv.Atoi(raw)
	if err != nil || rating < 1 || rating > 5 {
		s.abortWithError(c, http.StatusBadRequest, "VALIDATION_FAILED", "rating must be between 1 and 5")
		return 0, false
	}
	return rating, true
}

func formatValidationError(err error) string {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		for _, fieldError := range validationErrors {
			return fieldError.Field() + " is " + fieldError.Tag()
		}
	}
	return "Validation failed"
}
