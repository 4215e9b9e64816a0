package routes

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"gitlab.com/davrev/openpoll/internal/models"
)

func TestMapDomainErr(t *testing.T) {
	require := require.New(t)

	cases := []struct {
		err    error
		status int
	}{
		{models.ErrPollNotFound, http.StatusNotFound},
		{models.ErrUserNotFound, http.StatusNotFound},
		{models.ErrCommentNotFound, http.StatusNotFound},
		{models.ErrInvalidOption, http.StatusBadRequest},
		{models.ErrAlreadyVoted, http.StatusConflict},
		{models.ErrUsernameTaken, http.StatusConflict},
		{models.ErrNotAuthorized, http.StatusForbidden},
		{models.ErrInvalidCredentials, http.StatusUnauthorized},
		{errors.New("connection refused"), http.StatusInternalServerError},
	}
	for _, c := range cases {
		appErr := mapDomainErr(c.err)
		require.Equal(c.status, appErr.Status(), "mapDomainErr(%v)", c.err)
	}

	verr := &models.ValidationError{}
	verr.Add("title", "must not be blank")
	appErr := mapDomainErr(verr)
	require.Equal(http.StatusBadRequest, appErr.Status())
	require.Contains(appErr.Description(), "title")
}

func TestAppHandlerErrorBody(t *testing.T) {
	require := require.New(t)
	routes := &Routes{}

	handler := routes.AppHandler(func(w http.ResponseWriter, r *http.Request) AppError {
		return &ErrNotFound{Thing: "poll"}
	})

	r := httptest.NewRequest("GET", "/polls/42", nil)
	w := httptest.NewRecorder()
	handler(w, r)

	require.Equal(http.StatusNotFound, w.Code)
	require.Equal("application/json", w.Header().Get("Content-Type"))

	var body ErrorBody
	require.NoError(json.NewDecoder(w.Body).Decode(&body))
	require.Equal(404, body.Code)
	require.Equal("Not Found", body.Message)
	require.Equal("No poll was found", body.Description)
}

func TestEnforceCtx(t *testing.T) {
	require := require.New(t)
	routes := &Routes{}

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	protected := routes.EnforceCtx(UserHCtxKey)(next)

	r := httptest.NewRequest("DELETE", "/polls/1", nil)
	w := httptest.NewRecorder()
	protected.ServeHTTP(w, r)
	require.Equal(http.StatusUnauthorized, w.Code)
}
