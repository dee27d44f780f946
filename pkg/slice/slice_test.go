// Copyright (c) 2026 Kinora. All rights reserved.

package slice_test

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kinora/kinora/pkg/slice"
)

/*
TestSlice_Map verifies element-wise transformation.
*/
func TestSlice_Map(t *testing.T) {
	input := []int{1, 2, 3}
	result := slice.Map(input, strconv.Itoa)
	assert.Equal(t, []string{"1", "2", "3"}, result)

	assert.Nil(t, slice.Map(nil, strconv.Itoa))
}

/*
TestSlice_Filter verifies predicate-based selection.
*/
func TestSlice_Filter(t *testing.T) {
	input := []int{1, 2, 3, 4}
	result := slice.Filter(input, func(v int) bool { return v%2 == 0 })
	assert.Equal(t, []int{2, 4}, result)
}

/*
TestSlice_Unique verifies duplicate collapsing with first-occurrence order.
*/
func TestSlice_Unique(t *testing.T) {
	assert.Equal(t, []int64{3, 1, 2}, slice.Unique([]int64{3, 1, 3, 2, 1}))
	assert.Nil(t, slice.Unique[int](nil))
}

/*
TestSlice_UniqueBy verifies key-based deduplication keeps the first value
per key.
*/
func TestSlice_UniqueBy(t *testing.T) {
	type item struct {
		ID   int
		Name string
	}

	input := []item{{1, "first"}, {2, "second"}, {1, "duplicate"}}
	result := slice.UniqueBy(input, func(i item) int { return i.ID })

	assert.Equal(t, []item{{1, "first"}, {2, "second"}}, result)
}
