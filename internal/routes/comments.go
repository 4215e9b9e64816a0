package routes

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"gitlab.com/davrev/openpoll/internal/db"
)

func (routes *Routes) CommentRouter(r chi.Router) {
	r.With(routes.EnforceCtx(UserHCtxKey)).Delete("/{commentID}", routes.AppHandler(routes.DeleteComment))
}

func (routes *Routes) DeleteComment(w http.ResponseWriter, r *http.Request) AppError {
	userH := r.Context().Value(UserHCtxKey).(*db.UserH)

	id, err := strconv.Atoi(chi.URLParam(r, "commentID"))
	if err != nil {
		return &ErrNotFound{Cause: err, Thing: "comment"}
	}
	commentH, err := routes.db.GetCommentH(r.Context(), id, userH)
	if err != nil {
		return mapDomainErr(err)
	}
	if err := commentH.Delete(r.Context()); err != nil {
		return mapDomainErr(err)
	}
	respondJSON(w, http.StatusNoContent, nil)
	return nil
}
