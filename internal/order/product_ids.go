package order

import (
	"fmt"
	"strconv"
	"strings"
)

// ProductIDsDelimiter separates ids in the orders.product_ids column.
const ProductIDsDelimiter = ","

// FormatProductIDs serializes ids in order, e.g. []int64{1, 2} -> "1,2".
// ParseProductIDs is its inverse.
func FormatProductIDs(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ProductIDsDelimiter)
}

// ParseProductIDs reads a value written by FormatProductIDs. The empty string
// yields an empty slice.
func ParseProductIDs(s string) ([]int64, error) {
	if s == "" {
		return []int64{}, nil
	}

	parts := strings.Split(s, ProductIDsDelimiter)
	ids := make([]int64, 0, len(parts))
	for _, p := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse product id %q: %w", p, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
