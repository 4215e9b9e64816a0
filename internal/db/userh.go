package db

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/pgxscan"
	"gitlab.com/davrev/openpoll/internal/models"
)

type userPerms struct {
	Read   bool
	Delete bool
}

// UserH is a handle on an authenticated user. Its Delete capability only
// ever applies to that same user.
type UserH struct {
	id       int
	perms    userPerms
	sharedDB DBTX
}

func (h UserH) ID() int {
	return h.id
}

func (h UserH) Read(ctx context.Context) (*models.UserView, error) {
	if !h.perms.Read {
		return nil, models.ErrNotAuthorized
	}
	return readUser(ctx, h.sharedDB, sq.Eq{"id": h.id})
}

// Delete removes the user and everything that exists only because of them:
// their polls (with options, votes and comments), their comments on any
// poll, and their vote edges on any poll. Removing a vote edge on a poll
// that survives also decrements the target option's counter, keeping
// vote_count equal to the number of remaining edges.
func (h UserH) Delete(ctx context.Context) error {
	if !h.perms.Delete {
		return models.ErrNotAuthorized
	}
	return execTx(ctx, h.sharedDB, func(ctx context.Context, tx DBTX) error {
		// Give back the votes this user cast. Options of the user's own
		// polls may be decremented too; they are dropped below anyway.
		_, err := tx.Exec(ctx,
			`UPDATE poll_options SET vote_count = vote_count - 1
			 WHERE id IN (SELECT option_id FROM votes WHERE voter_id = $1)`,
			h.id)
		if err != nil {
			return err
		}
		_, err = tx.Exec(ctx, "DELETE FROM votes WHERE voter_id = $1", h.id)
		if err != nil {
			return err
		}

		// Cascade every poll the user created.
		ownPolls := "(SELECT id FROM polls WHERE creator_id = $1)"
		for _, sql := range []string{
			"DELETE FROM votes WHERE poll_id IN " + ownPolls,
			"DELETE FROM comments WHERE poll_id IN " + ownPolls,
			"DELETE FROM poll_options WHERE poll_id IN " + ownPolls,
			"DELETE FROM polls WHERE creator_id = $1",
			"DELETE FROM comments WHERE creator_id = $1",
			"DELETE FROM tokens WHERE user_id = $1",
			"DELETE FROM users WHERE id = $1",
		} {
			if _, err := tx.Exec(ctx, sql, h.id); err != nil {
				return err
			}
		}
		return nil
	})
}

func readUser(ctx context.Context, db DBTX, pred sq.Eq) (*models.UserView, error) {
	sql, args, _ := psql.
		Select("id", "username", "created_at").
		From("users").
		Where(pred).
		ToSql()

	var user models.User
	err := pgxscan.Get(ctx, db, &user, sql, args...)
	if pgxscan.NotFound(err) {
		return nil, models.ErrUserNotFound
	} else if err != nil {
		return nil, err
	}
	view := user.View()
	return &view, nil
}

// ReadUser returns the public profile for a username.
func (sdb *SharedDB) ReadUser(ctx context.Context, username string) (*models.UserView, error) {
	return readUser(ctx, sdb.db, sq.Eq{"username": username})
}

// ListUserPolls returns a user's polls, newest first.
func (sdb *SharedDB) ListUserPolls(ctx context.Context, username string) ([]models.PollView, error) {
	user, err := sdb.ReadUser(ctx, username)
	if err != nil {
		return nil, err
	}

	sql, args, _ := psql.
		Select("id").
		From("polls").
		Where(sq.Eq{"creator_id": user.ID}).
		OrderBy("created_at DESC", "id DESC").
		ToSql()

	var ids []int
	err = pgxscan.Select(ctx, sdb.db, &ids, sql, args...)
	if err != nil {
		return nil, err
	}
	return readPollViews(ctx, sdb.db, ids)
}

// ListUserComments returns a user's comments across all polls, newest first.
func (sdb *SharedDB) ListUserComments(ctx context.Context, username string) ([]models.CommentView, error) {
	user, err := sdb.ReadUser(ctx, username)
	if err != nil {
		return nil, err
	}

	sql, args, _ := selectCommentWithCreator.
		Where(sq.Eq{"comments.creator_id": user.ID}).
		OrderBy("comments.created_at DESC", "comments.id DESC").
		ToSql()

	comments := []models.CommentView{}
	err = pgxscan.Select(ctx, sdb.db, &comments, sql, args...)
	if err != nil {
		return nil, err
	}
	return comments, nil
}
