package db

import (
	"context"
	"database/sql"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/pgxscan"
	"github.com/jackc/pgx/v4"
	"gitlab.com/davrev/openpoll/internal/models"
)

// totalVotesExpr is the storage-side counterpart of models.TotalVotes: both
// fold vote_count over a poll's options, so sorting by this expression sorts
// by the same aggregate the calculator reports.
const totalVotesExpr = "(SELECT COALESCE(SUM(vote_count), 0) FROM poll_options WHERE poll_options.poll_id = polls.id)"

// CreatePoll validates the request and inserts the poll together with its
// initial options in one transaction. A poll with fewer than 2 options never
// becomes visible.
func (sdb *SharedDB) CreatePoll(ctx context.Context, uH UserH, req models.PollReq) (*PollH, error) {
	req, err := req.Validate()
	if err != nil {
		return nil, err
	}

	var pollID int
	err = execTx(ctx, sdb.db, func(ctx context.Context, tx DBTX) error {
		tag := sql.NullString{String: req.Tag, Valid: req.Tag != ""}
		insert, args, _ := psql.
			Insert("polls").
			Columns("creator_id", "title", "tag").
			Values(uH.id, req.Title, tag).
			Suffix("RETURNING id").
			ToSql()

		row := tx.QueryRow(ctx, insert, args...)
		err := row.Scan(&pollID)
		if err != nil {
			return err
		}

		for _, name := range req.Options {
			insert, args, _ := psql.
				Insert("poll_options").
				Columns("poll_id", "name").
				Values(pollID, name).
				ToSql()
			_, err := tx.Exec(ctx, insert, args...)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &PollH{
		id:       pollID,
		perms:    pollPerms{Delete: true},
		sharedDB: sdb.db,
	}, nil
}

// GetPollH returns a handle on an existing poll. The Delete capability is
// granted only to the poll's creator.
func (sdb *SharedDB) GetPollH(ctx context.Context, pollID int, uH *UserH) (*PollH, error) {
	var creatorID int
	row := sdb.db.QueryRow(ctx, "SELECT creator_id FROM polls WHERE id = $1", pollID)
	err := row.Scan(&creatorID)
	if err == pgx.ErrNoRows {
		return nil, models.ErrPollNotFound
	} else if err != nil {
		return nil, err
	}

	perms := pollPerms{}
	if uH != nil && uH.id == creatorID {
		perms.Delete = true
	}
	return &PollH{id: pollID, perms: perms, sharedDB: sdb.db}, nil
}

// ListPolls returns poll aggregates, optionally filtered by tag. Sorting by
// most votes recomputes the aggregate storage-side (totalVotesExpr) instead
// of trusting any cached total; ties break on ascending id. Newest sorts on
// creation time, ties on descending id.
func (sdb *SharedDB) ListPolls(ctx context.Context, tag string, sort models.PollSort) ([]models.PollView, error) {
	query := psql.Select("id").From("polls")
	if tag != "" {
		query = query.Where(sq.Eq{"tag": tag})
	}
	switch sort {
	case models.SortNewest:
		query = query.OrderBy("created_at DESC", "id DESC")
	case models.SortMostVotes:
		query = query.OrderBy(totalVotesExpr+" DESC", "id ASC")
	}

	sql, args, _ := query.ToSql()
	var ids []int
	err := pgxscan.Select(ctx, sdb.db, &ids, sql, args...)
	if err != nil {
		return nil, err
	}
	return readPollViews(ctx, sdb.db, ids)
}

func readPollViews(ctx context.Context, db DBTX, ids []int) ([]models.PollView, error) {
	views := make([]models.PollView, 0, len(ids))
	for _, id := range ids {
		view, err := readPollView(ctx, db, id)
		if err != nil {
			return nil, err
		}
		views = append(views, *view)
	}
	return views, nil
}

// readPollView assembles the full poll aggregate from current rows: options
// with counters and voter lists, the derived total and percentages, and the
// comment count.
func readPollView(ctx context.Context, db DBTX, pollID int) (*models.PollView, error) {
	query, args, _ := psql.
		Select("polls.id", "polls.creator_id", "polls.title", "polls.tag", "polls.created_at", "users.username AS creator").
		From("polls").
		Join("users ON users.id = polls.creator_id").
		Where(sq.Eq{"polls.id": pollID}).
		ToSql()

	var header struct {
		models.Poll
		Creator string
	}
	err := pgxscan.Get(ctx, db, &header, query, args...)
	if pgxscan.NotFound(err) {
		return nil, models.ErrPollNotFound
	} else if err != nil {
		return nil, err
	}

	query, args, _ = psql.
		Select("id", "poll_id", "name", "vote_count").
		From("poll_options").
		Where(sq.Eq{"poll_id": pollID}).
		OrderBy("id").
		ToSql()

	var options []models.PollOption
	err = pgxscan.Select(ctx, db, &options, query, args...)
	if err != nil {
		return nil, err
	}

	query, args, _ = psql.
		Select("votes.option_id", "users.username").
		From("votes").
		Join("users ON users.id = votes.voter_id").
		Where(sq.Eq{"votes.poll_id": pollID}).
		OrderBy("users.username").
		ToSql()

	var edges []struct {
		OptionID int `db:"option_id"`
		Username string
	}
	err = pgxscan.Select(ctx, db, &edges, query, args...)
	if err != nil {
		return nil, err
	}
	votersByOption := map[int][]string{}
	voters := []string{}
	for _, edge := range edges {
		votersByOption[edge.OptionID] = append(votersByOption[edge.OptionID], edge.Username)
		voters = append(voters, edge.Username)
	}

	query, args, _ = psql.
		Select("COUNT(*)").
		From("comments").
		Where(sq.Eq{"poll_id": pollID}).
		ToSql()
	numComments := 0
	row := db.QueryRow(ctx, query, args...)
	err = row.Scan(&numComments)
	if err != nil {
		return nil, err
	}

	total := models.TotalVotes(options)
	optionViews := make([]models.PollOptionView, len(options))
	for i, opt := range options {
		optionVoters := votersByOption[opt.ID]
		if optionVoters == nil {
			optionVoters = []string{}
		}
		optionViews[i] = models.PollOptionView{
			ID:         opt.ID,
			Name:       opt.Name,
			Votes:      opt.VoteCount,
			Voters:     optionVoters,
			Percentage: models.Percentage(opt.VoteCount, total),
		}
	}

	view := &models.PollView{
		ID:          header.ID,
		Creator:     header.Creator,
		Title:       header.Title,
		Options:     optionViews,
		TotalVotes:  total,
		Voters:      voters,
		NumComments: numComments,
		Timestamp:   header.CreatedAt,
	}
	if header.Tag.Valid {
		view.Tag = &header.Tag.String
	}
	return view, nil
}
