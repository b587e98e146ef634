package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePhone(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"(555) 123-4567", "+15551234567"},
		{"+44 20 7946 0958", "+442079460958"},
		{"555.123.4567", "+15551234567"},
		{"  +1 555 123 4567  ", "+15551234567"},
		{"ext. only", ""},
		{"+", ""},
		{"", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, normalizePhone(tc.in, "+1"), "input %q", tc.in)
	}
}

func TestSplitLines(t *testing.T) {
	got := splitLines("a@x.com\r\n\n  b@x.com  \n\n")
	assert.Equal(t, []string{"a@x.com", "b@x.com"}, got)

	assert.Nil(t, splitLines(""))
	assert.Nil(t, splitLines("\n\n  \n"))
}

func TestDedupExact(t *testing.T) {
	got := dedupExact([]string{"a@x.com", "a@x.com", "b@x.com", "a@x.com"})
	assert.Equal(t, []string{"a@x.com", "b@x.com"}, got)

	// case differs, so both survive; store-level checks decide later
	got = dedupExact([]string{"A@x.com", "a@x.com"})
	assert.Equal(t, []string{"A@x.com", "a@x.com"}, got)
}
