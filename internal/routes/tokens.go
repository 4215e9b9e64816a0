package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (routes *Routes) TokenRouter(r chi.Router) {
	r.Post("/", routes.AppHandler(routes.PostToken))
	r.With(routes.EnforceCtx(TokenCtxKey)).Delete("/", routes.AppHandler(routes.DeleteToken))
}

// PostToken exchanges basic credentials for a bearer token.
func (routes *Routes) PostToken(w http.ResponseWriter, r *http.Request) AppError {
	username, password, ok := r.BasicAuth()
	if !ok {
		return &ErrUnauthorized{}
	}

	token, err := routes.db.Login(r.Context(), username, password)
	if err != nil {
		return mapDomainErr(err)
	}

	respondJSON(w, http.StatusOK, struct {
		AccessToken string `json:"accessToken"`
	}{AccessToken: token})
	return nil
}

// DeleteToken invalidates the token used to authenticate this request.
func (routes *Routes) DeleteToken(w http.ResponseWriter, r *http.Request) AppError {
	token := r.Context().Value(TokenCtxKey).(string)
	if err := routes.db.Signout(r.Context(), token); err != nil {
		return &ErrInternal{Cause: err}
	}
	respondJSON(w, http.StatusNoContent, nil)
	return nil
}
