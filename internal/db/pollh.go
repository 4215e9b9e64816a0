package db

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/pgxscan"
	"github.com/jackc/pgx/v4"
	"gitlab.com/davrev/openpoll/internal/models"
)

type pollPerms struct {
	Delete bool
}

// PollH is a handle on one existing poll.
type PollH struct {
	id       int
	perms    pollPerms
	sharedDB DBTX
}

func (h PollH) ID() int {
	return h.id
}

func (h PollH) Read(ctx context.Context) (*models.PollView, error) {
	return readPollView(ctx, h.sharedDB, h.id)
}

// CastVote records one vote by uH for the given option and bumps that
// option's counter, atomically. The votes primary key on (voter_id, poll_id)
// closes the check-then-insert race: when two votes for the same voter and
// poll run concurrently, the storage engine admits exactly one insert and
// the loser surfaces as ErrAlreadyVoted with no writes applied.
func (h PollH) CastVote(ctx context.Context, uH UserH, optionID int) (*models.PollView, error) {
	err := execTx(ctx, h.sharedDB, func(ctx context.Context, tx DBTX) error {
		// The option must belong to this poll
		row := tx.QueryRow(ctx,
			"SELECT 1 FROM poll_options WHERE id = $1 AND poll_id = $2",
			optionID, h.id)
		var one int
		err := row.Scan(&one)
		if err == pgx.ErrNoRows {
			return models.ErrInvalidOption
		} else if err != nil {
			return err
		}

		vote := models.Vote{VoterID: uH.id, OptionID: optionID, PollID: h.id}
		insert, args, _ := psql.
			Insert("votes").
			Columns("voter_id", "option_id", "poll_id").
			Values(vote.VoterID, vote.OptionID, vote.PollID).
			ToSql()
		_, err = tx.Exec(ctx, insert, args...)
		if err != nil {
			return translateConstraint(err)
		}

		_, err = tx.Exec(ctx,
			"UPDATE poll_options SET vote_count = vote_count + 1 WHERE id = $1",
			optionID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return h.Read(ctx)
}

// Delete removes the poll and every row that depends on it in one
// transaction, so readers never observe a partially deleted poll.
func (h PollH) Delete(ctx context.Context) error {
	if !h.perms.Delete {
		return models.ErrNotAuthorized
	}
	return execTx(ctx, h.sharedDB, func(ctx context.Context, tx DBTX) error {
		for _, sql := range []string{
			"DELETE FROM votes WHERE poll_id = $1",
			"DELETE FROM comments WHERE poll_id = $1",
			"DELETE FROM poll_options WHERE poll_id = $1",
			"DELETE FROM polls WHERE id = $1",
		} {
			if _, err := tx.Exec(ctx, sql, h.id); err != nil {
				return err
			}
		}
		return nil
	})
}

var selectCommentWithCreator = psql.
	Select(
		"comments.id",
		"comments.poll_id",
		"comments.content",
		"comments.created_at AS timestamp",
		"users.username AS creator",
	).
	From("comments").
	Join("users ON users.id = comments.creator_id")

func (h PollH) CreateComment(ctx context.Context, uH UserH, content string) (*models.CommentView, error) {
	content, err := models.ValidateComment(content)
	if err != nil {
		return nil, err
	}

	insert, args, _ := psql.
		Insert("comments").
		Columns("poll_id", "creator_id", "content").
		Values(h.id, uH.id, content).
		Suffix("RETURNING id").
		ToSql()

	var commentID int
	row := h.sharedDB.QueryRow(ctx, insert, args...)
	err = row.Scan(&commentID)
	if err != nil {
		return nil, err
	}

	query, args, _ := selectCommentWithCreator.
		Where(sq.Eq{"comments.id": commentID}).
		ToSql()
	var comment models.CommentView
	err = pgxscan.Get(ctx, h.sharedDB, &comment, query, args...)
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// ListComments returns the poll's comments, newest first.
func (h PollH) ListComments(ctx context.Context) ([]models.CommentView, error) {
	query, args, _ := selectCommentWithCreator.
		Where(sq.Eq{"comments.poll_id": h.id}).
		OrderBy("comments.created_at DESC", "comments.id DESC").
		ToSql()

	comments := []models.CommentView{}
	err := pgxscan.Select(ctx, h.sharedDB, &comments, query, args...)
	if err != nil {
		return nil, err
	}
	return comments, nil
}
