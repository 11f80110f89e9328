package reviews

import (
	"net/url"
	"strconv"
)

const (
	defaultProductLimit = 5
	defaultAdminLimit   = 10
)

// listParams builds the paging and sorting parameters shared by all list operations.
func listParams(filters Filters, defaultLimit int) url.Values {
	page := filters.Page
	if page == 0 {
		page = 1
	}
	limit := filters.Limit
	if limit == 0 {
		limit = defaultLimit
	}
	sortBy := filters.SortBy
	if sortBy == "" {
		sortBy = SortBySubmittedAt
	}
	sortOrder := filters.SortOrder
	if sortOrder == "" {
		sortOrder = SortDesc
	}

	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	params.Set("limit", strconv.Itoa(limit))
	params.Set("sortBy", string(sortBy))
	params.Set("sortOrder", string(sortOrder))
	return params
}

func setRatingFilter(params url.Values, rating int) {
	if rating != RatingAll {
		params.Set("exactRating", strconv.Itoa(rating))
	}
}
