package models

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTotalVotes(t *testing.T) {
	require := require.New(t)
	require.Equal(0, TotalVotes(nil))
	require.Equal(0, TotalVotes([]PollOption{{VoteCount: 0}, {VoteCount: 0}}))
	require.Equal(7, TotalVotes([]PollOption{{VoteCount: 3}, {VoteCount: 0}, {VoteCount: 4}}))
}

func TestPercentage(t *testing.T) {
	require := require.New(t)

	// No votes at all means 0, not a division by zero
	require.Equal(0, Percentage(0, 0))

	require.Equal(100, Percentage(1, 1))
	require.Equal(50, Percentage(1, 2))
	require.Equal(33, Percentage(1, 3))
	require.Equal(67, Percentage(2, 3))

	// Half-up rounding
	require.Equal(13, Percentage(1, 8))
	require.Equal(38, Percentage(3, 8))

	// Percentages of [1,1,1] sum to 99, which is accepted
	sum := 0
	for i := 0; i < 3; i++ {
		sum += Percentage(1, 3)
	}
	require.Equal(99, sum)
}

func TestValidatePoll(t *testing.T) {
	require := require.New(t)

	valid := PollReq{
		Title:   "  Best color  ",
		Tag:     "colors",
		Options: []string{" Red ", "Blue"},
	}
	norm, err := valid.Validate()
	require.NoError(err)
	require.Equal("Best color", norm.Title)
	require.Equal("colors", norm.Tag)
	require.Equal([]string{"Red", "Blue"}, norm.Options)

	noTag, err := PollReq{Title: "Best color", Options: []string{"Red", "Blue"}}.Validate()
	require.NoError(err)
	require.Equal("", noTag.Tag)

	invalid := []PollReq{
		{Title: "", Options: []string{"Red", "Blue"}},
		{Title: "   ", Options: []string{"Red", "Blue"}},
		{Title: strings.Repeat("x", LimitMaxTitleLen+1), Options: []string{"Red", "Blue"}},
		{Title: "Best color", Options: []string{"Red"}},
		{Title: "Best color", Options: []string{"a", "b", "c", "d", "e", "f", "g"}},
		{Title: "Best color", Options: []string{"Red", "  "}},
		{Title: "Best color", Options: []string{"Red", "Red "}},
		{Title: "Best color", Options: []string{"Red", strings.Repeat("x", LimitMaxOptionLen+1)}},
		{Title: "Best color", Tag: strings.Repeat("x", LimitMaxTagLen+1), Options: []string{"Red", "Blue"}},
	}
	for _, req := range invalid {
		_, err := req.Validate()
		require.Error(err, "Validate(%+v) should fail", req)
		verr, ok := err.(*ValidationError)
		require.True(ok)
		require.NotEmpty(verr.Fields)
	}
}

func TestValidateComment(t *testing.T) {
	require := require.New(t)

	content, err := ValidateComment("  I prefer red  ")
	require.NoError(err)
	require.Equal("I prefer red", content)

	_, err = ValidateComment("   ")
	require.Error(err)
}
