// Cinegraph - Movie Graph Analytics and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package ratings

import (
	"sort"

	"github.com/tomtom215/cinegraph/internal/models"
)

// Matrix maps user ID to item ID to rating.
type Matrix map[int64]map[int64]float64

// NewMatrix builds a matrix from rating records.
func NewMatrix(records []models.Rating) Matrix {
	m := make(Matrix)
	for _, r := range records {
		row, ok := m[r.UserID]
		if !ok {
			row = make(map[int64]float64)
			m[r.UserID] = row
		}
		row[r.ItemID] = r.Rating
	}
	return m
}

// Users returns the user IDs in ascending order.
func (m Matrix) Users() []int64 {
	users := make([]int64, 0, len(m))
	for id := range m {
		users = append(users, id)
	}
	sort.Slice(users, func(i, j int) bool { return users[i] < users[j] })
	return users
}

// Items returns the distinct item IDs across all users in ascending order.
func (m Matrix) Items() []int64 {
	seen := make(map[int64]struct{})
	for _, row := range m {
		for item := range row {
			seen[item] = struct{}{}
		}
	}
	items := make([]int64, 0, len(seen))
	for id := range seen {
		items = append(items, id)
	}
	sort.Slice(items, func(i, j int) bool { return items[i] < items[j] })
	return items
}

// Rating returns the rating of item by user.
func (m Matrix) Rating(user, item int64) (float64, bool) {
	r, ok := m[user][item]
	return r, ok
}

// Len returns the number of ratings in the matrix.
func (m Matrix) Len() int {
	n := 0
	for _, row := range m {
		n += len(row)
	}
	return n
}
