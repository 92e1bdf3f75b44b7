package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIndexRepness(t *testing.T) {
	repness := map[string][]RepnessEntry{
		"0": {
			{Tid: 3, RepfulFor: "agree"},
			{Tid: 8, RepfulFor: "disagree"},
			{Tid: 1, RepfulFor: "agree"},
		},
		"1": {
			{Tid: 4, RepfulFor: "agree"},
		},
		"2": {
			{Tid: 6, RepfulFor: "neutral"},
		},
		"x": {
			{Tid: 9, RepfulFor: "agree"},
		},
	}

	got := IndexRepness(repness)

	assert.Equal(t, map[int][]int{0: {3, 1}, 1: {4}}, got.Agree)
	assert.Equal(t, map[int][]int{0: {8}}, got.Disagree)

	_, ok := got.Disagree[1]
	assert.False(t, ok, "group without disagree entries must have no key")
	_, ok = got.Agree[2]
	assert.False(t, ok)
}

func TestIndexRepness_Nil(t *testing.T) {
	got := IndexRepness(nil)
	assert.Empty(t, got.Agree)
	assert.Empty(t, got.Disagree)
}
