package services

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAddressVariationsLadder(t *testing.T) {
	got := AddressVariations("123 Main St, Suite 4, Springfield, IL 62704")

	want := []string{
		"123 Main St, Suite 4, Springfield, IL 62704",
		"123 Main St, Springfield, IL 62704",
		"123 Main Street, Suite 4, Springfield, IL 62704",
		"123 Main Street, Springfield, IL 62704",
		"123 Main St, Suite 4, Springfield, IL 62704, USA",
		"123 Main St, Springfield, IL 62704, USA",
		"123 Main St, Springfield, IL",
	}
	require.Equal(t, want, got)
}

func TestAddressVariationsFirstIsTrimmedInput(t *testing.T) {
	got := AddressVariations("  12 Oak St  ")

	require.NotEmpty(t, got)
	require.Equal(t, "12 Oak St", got[0])
}

func TestAddressVariationsDeduplicates(t *testing.T) {
	// An address with nothing to strip collapses to very few variations.
	got := AddressVariations("Firehouse")

	require.Equal(t, []string{"Firehouse", "Firehouse, USA"}, got)

	seen := make(map[string]struct{})
	for _, v := range got {
		_, dup := seen[v]
		require.False(t, dup, "duplicate variation %q", v)
		seen[v] = struct{}{}
	}
}

func TestAddressVariationsEmptyInput(t *testing.T) {
	require.Equal(t, []string{""}, AddressVariations(""))
	require.Equal(t, []string{""}, AddressVariations("   "))
}

func TestAddressVariationsExpandsDirectionals(t *testing.T) {
	got := AddressVariations("400 N 5th Ave")

	require.Contains(t, got, "400 North 5th Avenue")
}

func TestNormalizeAddress(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"12 Oak St", "12 Oak Street"},
		{"12 Oak St.", "12 Oak Street"},
		{"7 W Elm Blvd", "7 West Elm Boulevard"},
		{"  9   Pine   Rd  ", "9 Pine Road"},
		{"", ""},
	}

	for _, tc := range cases {
		require.Equal(t, tc.want, normalizeAddress(tc.in), "input %q", tc.in)
	}
}
