package main

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptStringTriState(t *testing.T) {
	type body struct {
		Name OptString `json:"name"`
	}

	var absent body
	require.NoError(t, json.Unmarshal([]byte(`{}`), &absent))
	assert.False(t, absent.Name.Set)

	var null body
	require.NoError(t, json.Unmarshal([]byte(`{"name":null}`), &null))
	assert.True(t, null.Name.Set)
	assert.Equal(t, "", null.Name.Value)

	var set body
	require.NoError(t, json.Unmarshal([]byte(`{"name":"Ada"}`), &set))
	assert.True(t, set.Name.Set)
	assert.Equal(t, "Ada", set.Name.Value)

	dst := "untouched"
	absent.Name.Apply(&dst)
	assert.Equal(t, "untouched", dst)
	set.Name.Apply(&dst)
	assert.Equal(t, "Ada", dst)
	null.Name.Apply(&dst)
	assert.Equal(t, "", dst)
}

func TestOptBoolTriState(t *testing.T) {
	type body struct {
		Flag OptBool `json:"flag"`
	}

	var absent body
	require.NoError(t, json.Unmarshal([]byte(`{}`), &absent))
	assert.False(t, absent.Flag.Set)

	var set body
	require.NoError(t, json.Unmarshal([]byte(`{"flag":true}`), &set))
	assert.True(t, set.Flag.Set)
	assert.True(t, set.Flag.Value)

	var null body
	require.NoError(t, json.Unmarshal([]byte(`{"flag":null}`), &null))
	assert.True(t, null.Flag.Set)
	assert.False(t, null.Flag.Value)
}

func TestOptStringsTriState(t *testing.T) {
	type body struct {
		Images OptStrings `json:"remaining_images"`
	}

	var absent body
	require.NoError(t, json.Unmarshal([]byte(`{}`), &absent))
	assert.False(t, absent.Images.Set)

	var empty body
	require.NoError(t, json.Unmarshal([]byte(`{"remaining_images":[]}`), &empty))
	assert.True(t, empty.Images.Set)
	assert.Empty(t, empty.Images.Value)

	var set body
	require.NoError(t, json.Unmarshal([]byte(`{"remaining_images":["a.jpg","b.jpg"]}`), &set))
	assert.True(t, set.Images.Set)
	assert.Equal(t, []string{"a.jpg", "b.jpg"}, set.Images.Value)

	var null body
	require.NoError(t, json.Unmarshal([]byte(`{"remaining_images":null}`), &null))
	assert.True(t, null.Images.Set)
	assert.Nil(t, null.Images.Value)
}
