package models

// Vote is an edge between a voter and the option they picked. Edges are
// append-only: they are never updated, only removed when their poll or voter
// is deleted. PollID repeats the option's poll so storage can enforce one
// vote per (voter, poll) pair.
type Vote struct {
	VoterID  int `db:"voter_id"`
	OptionID int `db:"option_id"`
	PollID   int `db:"poll_id"`
}
