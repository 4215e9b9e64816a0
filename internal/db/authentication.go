package db

import (
	"context"
	"regexp"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/pgxscan"
	"github.com/jackc/pgx/v4"
	"gitlab.com/davrev/openpoll/internal/models"
	"gitlab.com/davrev/openpoll/internal/utils"
	"golang.org/x/crypto/bcrypt"
)

var usernameRegexp = regexp.MustCompile(`^\w{1,32}$`)

func (sdb *SharedDB) CreateUser(ctx context.Context, username string, passwd string) (*UserH, error) {
	if !usernameRegexp.MatchString(username) {
		verr := models.ValidationError{}
		verr.Add("username", "must be 1-32 word characters")
		return nil, &verr
	}
	if passwd == "" {
		verr := models.ValidationError{}
		verr.Add("password", "must not be blank")
		return nil, &verr
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(passwd), sdb.bcryptCost)
	if err != nil {
		return nil, err
	}

	sql, args, _ := psql.
		Insert("users").
		Columns("username", "passwd_hash").
		Values(username, hash).
		Suffix("RETURNING id").
		ToSql()

	var userID int
	row := sdb.db.QueryRow(ctx, sql, args...)
	err = row.Scan(&userID)
	if err != nil {
		return nil, translateConstraint(err)
	}

	uH := &UserH{
		id:       userID,
		perms:    userPerms{Read: true, Delete: true},
		sharedDB: sdb.db,
	}
	return uH, nil
}

// Login verifies basic credentials and issues a new opaque bearer token.
func (sdb *SharedDB) Login(ctx context.Context, username string, passwd string) (token string, err error) {
	sql, args, _ := psql.
		Select("id", "passwd_hash").
		From("users").
		Where(sq.Eq{"username": username}).
		ToSql()

	var data struct {
		ID         int
		PasswdHash string
	}
	err = pgxscan.Get(ctx, sdb.db, &data, sql, args...)
	if pgxscan.NotFound(err) {
		return "", models.ErrInvalidCredentials
	} else if err != nil {
		return "", err
	}
	compareErr := bcrypt.CompareHashAndPassword([]byte(data.PasswdHash), []byte(passwd))
	if compareErr != nil {
		return "", models.ErrInvalidCredentials
	}

	// Insert a new token
	token = utils.GenToken(TokenLen)
	sql, args, _ = psql.
		Insert("tokens").
		Columns("user_id", "token").
		Values(data.ID, token).
		ToSql()

	_, err = sdb.db.Exec(ctx, sql, args...)
	if err != nil {
		return "", err
	}
	return token, nil
}

func (sdb *SharedDB) Signout(ctx context.Context, token string) error {
	_, err := sdb.db.Exec(ctx, "DELETE FROM tokens WHERE tokens.token = $1", token)
	if err != nil {
		return err
	}
	return nil
}

// GetUserH resolves a bearer token to a handle on the authenticated user.
func (sdb *SharedDB) GetUserH(ctx context.Context, token string) (UserH, error) {
	sql, args, _ := psql.
		Select("user_id").
		From("tokens").
		Where(sq.Eq{"token": token}).
		ToSql()

	uH := UserH{
		sharedDB: sdb.db,
		perms: userPerms{
			Read:   true,
			Delete: true,
		},
	}
	row := sdb.db.QueryRow(ctx, sql, args...)
	err := row.Scan(&uH.id)
	if err == pgx.ErrNoRows {
		return uH, models.ErrInvalidCredentials
	}
	if err != nil {
		return uH, err
	}
	return uH, nil
}
