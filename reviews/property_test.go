package reviews

import (
	"encoding/json"
	"net/http"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestClassifyResponse_Property(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		status := rapid.IntRange(300, 599).Draw(t, "status")
		message := rapid.StringMatching(`[a-zA-Z ]{0,40}`).Draw(t, "message")

		body, _ := json.Marshal(map[string]any{"error": map[string]any{"message": message}})
		err := classifyResponse(status, body)

		// Status and a non-empty code are always attached
		assert.Equal(t, status, err.StatusCode)
		assert.NotEmpty(t, err.Code)
		assert.NotEmpty(t, err.Message)

		if message != "" {
			assert.Equal(t, message, err.Details)
		} else {
			assert.NotEmpty(t, err.Details)
		}

		if status >= http.StatusInternalServerError {
			assert.Equal(t, CodeServer, err.Code)
		}
		switch status {
		case 400, 401, 403, 404, 409, 429:
			assert.NotEqual(t, CodeHTTP, err.Code)
		default:
			if status < 500 {
				assert.Equal(t, CodeHTTP, err.Code)
			}
		}
	})
}

func TestListParams_Property(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		filters := Filters{
			Rating:    rapid.IntRange(0, 5).Draw(t, "rating"),
			Page:      rapid.IntRange(0, 100).Draw(t, "page"),
			Limit:     rapid.IntRange(0, 100).Draw(t, "limit"),
			SortBy:    rapid.SampledFrom([]SortField{"", SortBySubmittedAt, SortByRating}).Draw(t, "sortBy"),
			SortOrder: rapid.SampledFrom([]SortOrder{"", SortAsc, SortDesc}).Draw(t, "sortOrder"),
		}
		defaultLimit := rapid.SampledFrom([]int{defaultProductLimit, defaultAdminLimit}).Draw(t, "defaultLimit")

		params := listParams(filters, defaultLimit)
		setRatingFilter(params, filters.Rating)

		page, err := strconv.Atoi(params.Get("page"))
		assert.NoError(t, err)
		assert.GreaterOrEqual(t, page, 1)

		limit, err := strconv.Atoi(params.Get("limit"))
		assert.NoError(t, err)
		if filters.Limit == 0 {
			assert.Equal(t, defaultLimit, limit)
		} else {
			assert.Equal(t, filters.Limit, limit)
		}

		assert.NotEmpty(t, params.Get("sortBy"))
		assert.NotEmpty(t, params.Get("sortOrder"))
		assert.Equal(t, filters.Rating != RatingAll, params.Has("exactRating"))
		assert.False(t, params.Has("isApproved"))
	})
}
