package db

import (
	"context"

	"github.com/jackc/pgx/v4"
	"gitlab.com/davrev/openpoll/internal/models"
)

type commentPerms struct {
	Delete bool
}

// CommentH is a handle on one existing comment.
type CommentH struct {
	id       int
	perms    commentPerms
	sharedDB DBTX
}

// GetCommentH returns a handle on an existing comment. The Delete capability
// is granted only to the comment's author.
func (sdb *SharedDB) GetCommentH(ctx context.Context, commentID int, uH *UserH) (*CommentH, error) {
	var creatorID int
	row := sdb.db.QueryRow(ctx, "SELECT creator_id FROM comments WHERE id = $1", commentID)
	err := row.Scan(&creatorID)
	if err == pgx.ErrNoRows {
		return nil, models.ErrCommentNotFound
	} else if err != nil {
		return nil, err
	}

	perms := commentPerms{}
	if uH != nil && uH.id == creatorID {
		perms.Delete = true
	}
	return &CommentH{id: commentID, perms: perms, sharedDB: sdb.db}, nil
}

func (h CommentH) Delete(ctx context.Context) error {
	if !h.perms.Delete {
		return models.ErrNotAuthorized
	}
	_, err := h.sharedDB.Exec(ctx, "DELETE FROM comments WHERE id = $1", h.id)
	return err
}
