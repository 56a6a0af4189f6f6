package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUniqueIDs(t *testing.T) {
	assert.Equal(t, []uint{1, 3, 7}, uniqueIDs([]uint{7, 3, 0, 1, 3, 7}))
	assert.Empty(t, uniqueIDs(nil))
	assert.Empty(t, uniqueIDs([]uint{0, 0}))
}

func TestDiffIDs(t *testing.T) {
	tests := []struct {
		name       string
		current    []uint
		desired    []uint
		wantAdd    []uint
		wantRemove []uint
	}{
		{name: "empty to set", current: nil, desired: []uint{1, 2}, wantAdd: []uint{1, 2}},
		{name: "set to empty", current: []uint{1, 2}, desired: nil, wantRemove: []uint{1, 2}},
		{name: "unchanged", current: []uint{1, 2}, desired: []uint{1, 2}},
		{name: "swap", current: []uint{1, 2}, desired: []uint{2, 3}, wantAdd: []uint{3}, wantRemove: []uint{1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toAdd, toRemove := diffIDs(tt.current, tt.desired)
			assert.Equal(t, tt.wantAdd, toAdd)
			assert.Equal(t, tt.wantRemove, toRemove)
		})
	}
}
