package routes

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"gitlab.com/davrev/openpoll/internal/db"
)

func (routes *Routes) UserRouter(r chi.Router) {
	r.Post("/", routes.AppHandler(routes.PostUser))
	r.With(routes.EnforceCtx(UserHCtxKey)).Get("/self", routes.AppHandler(routes.GetSelf))
	r.Get("/{username}", routes.AppHandler(routes.GetUser))
	r.Get("/{username}/polls", routes.AppHandler(routes.GetUserPolls))
	r.Get("/{username}/comments", routes.AppHandler(routes.GetUserComments))
	r.With(routes.EnforceCtx(UserHCtxKey)).Delete("/{username}", routes.AppHandler(routes.DeleteUser))
}

func (routes *Routes) PostUser(w http.ResponseWriter, r *http.Request) AppError {
	req := struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}{}
	if err := parseJSONBody(r, &req); err != nil {
		return &ErrBadRequest{Cause: err, Message: "Invalid JSON body"}
	}

	userH, err := routes.db.CreateUser(r.Context(), req.Username, req.Password)
	if err != nil {
		return mapDomainErr(err)
	}
	user, err := userH.Read(r.Context())
	if err != nil {
		return &ErrInternal{Cause: err}
	}

	w.Header().Set("Location", fmt.Sprintf("/users/%s", user.Username))
	respondJSON(w, http.StatusCreated, user)
	return nil
}

func (routes *Routes) GetSelf(w http.ResponseWriter, r *http.Request) AppError {
	userH := r.Context().Value(UserHCtxKey).(*db.UserH)
	user, err := userH.Read(r.Context())
	if err != nil {
		return mapDomainErr(err)
	}
	respondJSON(w, http.StatusOK, user)
	return nil
}

func (routes *Routes) GetUser(w http.ResponseWriter, r *http.Request) AppError {
	user, err := routes.db.ReadUser(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		return mapDomainErr(err)
	}
	respondJSON(w, http.StatusOK, user)
	return nil
}

func (routes *Routes) GetUserPolls(w http.ResponseWriter, r *http.Request) AppError {
	polls, err := routes.db.ListUserPolls(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		return mapDomainErr(err)
	}
	respondJSON(w, http.StatusOK, polls)
	return nil
}

func (routes *Routes) GetUserComments(w http.ResponseWriter, r *http.Request) AppError {
	comments, err := routes.db.ListUserComments(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		return mapDomainErr(err)
	}
	respondJSON(w, http.StatusOK, comments)
	return nil
}

// DeleteUser removes the target user and cascades everything they own. Only
// the user themselves may do it.
func (routes *Routes) DeleteUser(w http.ResponseWriter, r *http.Request) AppError {
	userH := r.Context().Value(UserHCtxKey).(*db.UserH)

	target, err := routes.db.ReadUser(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		return mapDomainErr(err)
	}
	if target.ID != userH.ID() {
		return &ErrForbidden{}
	}
	if err := userH.Delete(r.Context()); err != nil {
		return mapDomainErr(err)
	}
	respondJSON(w, http.StatusNoContent, nil)
	return nil
}
