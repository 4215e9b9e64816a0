package models

import (
	"database/sql"
	"math"
	"strings"
	"time"
)

const (
	LimitMaxTitleLen  = 128
	LimitMaxOptionLen = 128
	LimitMaxTagLen    = 32
	LimitMinOptions   = 2
	LimitMaxOptions   = 6
)

type Poll struct {
	ID        int
	CreatorID int `db:"creator_id"`
	Title     string
	Tag       sql.NullString
	CreatedAt time.Time `db:"created_at"`
}

type PollOption struct {
	ID        int
	PollID    int `db:"poll_id"`
	Name      string
	VoteCount int `db:"vote_count"`
}

// PollReq is the data needed to create a poll, before validation.
type PollReq struct {
	Title   string   `json:"title"`
	Tag     string   `json:"tag"`
	Options []string `json:"options"`
}

// Validate checks the request and returns it in normalized form (trimmed
// title, tag and options). All field errors are gathered, not just the first.
func (req PollReq) Validate() (PollReq, error) {
	verr := ValidationError{}
	norm := PollReq{
		Title: strings.TrimSpace(req.Title),
		Tag:   strings.TrimSpace(req.Tag),
	}

	if norm.Title == "" {
		verr.Add("title", "must not be blank")
	} else if len(norm.Title) > LimitMaxTitleLen {
		verr.Add("title", "too long")
	}
	if req.Tag != "" && norm.Tag == "" {
		verr.Add("tag", "must not be blank")
	}
	if len(norm.Tag) > LimitMaxTagLen {
		verr.Add("tag", "too long")
	}

	if len(req.Options) < LimitMinOptions || len(req.Options) > LimitMaxOptions {
		verr.Add("options", "a poll needs between 2 and 6 options")
	}
	seen := map[string]bool{}
	for _, opt := range req.Options {
		opt = strings.TrimSpace(opt)
		switch {
		case opt == "":
			verr.Add("options", "options must not be blank")
		case len(opt) > LimitMaxOptionLen:
			verr.Add("options", "option too long")
		case seen[opt]:
			verr.Add("options", "options must be distinct")
		default:
			norm.Options = append(norm.Options, opt)
		}
		seen[opt] = true
	}

	if len(verr.Fields) > 0 {
		return norm, &verr
	}
	return norm, nil
}

// TotalVotes sums the materialized per-option counters. Every read derives
// the total from current rows; there is no stored total to trust.
func TotalVotes(options []PollOption) int {
	total := 0
	for _, opt := range options {
		total += opt.VoteCount
	}
	return total
}

// Percentage returns the share of votes as a whole number, rounded half-up.
// Percentages across a poll's options need not sum to 100 (e.g. votes
// [1,1,1] yield [33,33,33]); that is accepted behavior.
func Percentage(votes, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(votes) / float64(total)))
}

type PollOptionView struct {
	ID         int      `json:"id"`
	Name       string   `json:"name"`
	Votes      int      `json:"votes"`
	Voters     []string `json:"voters"`
	Percentage int      `json:"percentage"`
}

type PollView struct {
	ID          int              `json:"id"`
	Creator     string           `json:"creator"`
	Title       string           `json:"title"`
	Tag         *string          `json:"tag"`
	Options     []PollOptionView `json:"options"`
	TotalVotes  int              `json:"totalVotes"`
	Voters      []string         `json:"voters"`
	NumComments int              `json:"numComments"`
	Timestamp   time.Time        `json:"timestamp"`
}

type PollSort string

const (
	SortNone      PollSort = ""
	SortNewest    PollSort = "new"
	SortMostVotes PollSort = "top"
)
