package routes

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"gitlab.com/davrev/openpoll/internal/db"
	"gitlab.com/davrev/openpoll/internal/models"
)

func (routes *Routes) PollRouter(r chi.Router) {
	r.Get("/", routes.AppHandler(routes.GetPolls))
	r.With(routes.EnforceCtx(UserHCtxKey)).Post("/", routes.AppHandler(routes.PostPoll))

	r.Route("/{pollID}", func(r chi.Router) {
		r.Get("/", routes.AppHandler(routes.GetPoll))
		r.Get("/comments", routes.AppHandler(routes.GetComments))

		protected := r.With(routes.EnforceCtx(UserHCtxKey))
		protected.Patch("/vote", routes.AppHandler(routes.PatchVote))
		protected.Delete("/", routes.AppHandler(routes.DeletePoll))
		protected.Post("/comments", routes.AppHandler(routes.PostComment))
	})
}

func pollID(r *http.Request) (int, AppError) {
	id, err := strconv.Atoi(chi.URLParam(r, "pollID"))
	if err != nil {
		return 0, &ErrNotFound{Cause: err, Thing: "poll"}
	}
	return id, nil
}

func (routes *Routes) PostPoll(w http.ResponseWriter, r *http.Request) AppError {
	userH := r.Context().Value(UserHCtxKey).(*db.UserH)

	req := models.PollReq{}
	if err := parseJSONBody(r, &req); err != nil {
		return &ErrBadRequest{Cause: err, Message: "Invalid JSON body"}
	}

	pollH, err := routes.db.CreatePoll(r.Context(), *userH, req)
	if err != nil {
		return mapDomainErr(err)
	}
	poll, err := pollH.Read(r.Context())
	if err != nil {
		return &ErrInternal{Cause: err}
	}

	w.Header().Set("Location", fmt.Sprintf("/polls/%d", poll.ID))
	respondJSON(w, http.StatusCreated, poll)
	return nil
}

func (routes *Routes) GetPolls(w http.ResponseWriter, r *http.Request) AppError {
	tag := r.URL.Query().Get("tag")
	sort := models.PollSort(r.URL.Query().Get("sort"))

	polls, err := routes.db.ListPolls(r.Context(), tag, sort)
	if err != nil {
		return &ErrInternal{Cause: err}
	}
	respondJSON(w, http.StatusOK, polls)
	return nil
}

func (routes *Routes) GetPoll(w http.ResponseWriter, r *http.Request) AppError {
	id, appErr := pollID(r)
	if appErr != nil {
		return appErr
	}
	pollH, err := routes.db.GetPollH(r.Context(), id, nil)
	if err != nil {
		return mapDomainErr(err)
	}
	poll, err := pollH.Read(r.Context())
	if err != nil {
		return mapDomainErr(err)
	}
	respondJSON(w, http.StatusOK, poll)
	return nil
}

func (routes *Routes) PatchVote(w http.ResponseWriter, r *http.Request) AppError {
	userH := r.Context().Value(UserHCtxKey).(*db.UserH)

	id, appErr := pollID(r)
	if appErr != nil {
		return appErr
	}

	req := struct {
		OptionID int `json:"optionId"`
	}{}
	if err := parseJSONBody(r, &req); err != nil {
		return &ErrBadRequest{Cause: err, Message: "Invalid JSON body"}
	}

	pollH, err := routes.db.GetPollH(r.Context(), id, userH)
	if err != nil {
		return mapDomainErr(err)
	}
	poll, err := pollH.CastVote(r.Context(), *userH, req.OptionID)
	if err != nil {
		return mapDomainErr(err)
	}
	respondJSON(w, http.StatusOK, poll)
	return nil
}

func (routes *Routes) DeletePoll(w http.ResponseWriter, r *http.Request) AppError {
	userH := r.Context().Value(UserHCtxKey).(*db.UserH)

	id, appErr := pollID(r)
	if appErr != nil {
		return appErr
	}
	pollH, err := routes.db.GetPollH(r.Context(), id, userH)
	if err != nil {
		return mapDomainErr(err)
	}
	if err := pollH.Delete(r.Context()); err != nil {
		return mapDomainErr(err)
	}
	respondJSON(w, http.StatusNoContent, nil)
	return nil
}

func (routes *Routes) PostComment(w http.ResponseWriter, r *http.Request) AppError {
	userH := r.Context().Value(UserHCtxKey).(*db.UserH)

	id, appErr := pollID(r)
	if appErr != nil {
		return appErr
	}

	req := struct {
		Content string `json:"content"`
	}{}
	if err := parseJSONBody(r, &req); err != nil {
		return &ErrBadRequest{Cause: err, Message: "Invalid JSON body"}
	}

	pollH, err := routes.db.GetPollH(r.Context(), id, userH)
	if err != nil {
		return mapDomainErr(err)
	}
	comment, err := pollH.CreateComment(r.Context(), *userH, req.Content)
	if err != nil {
		return mapDomainErr(err)
	}
	respondJSON(w, http.StatusCreated, comment)
	return nil
}

func (routes *Routes) GetComments(w http.ResponseWriter, r *http.Request) AppError {
	id, appErr := pollID(r)
	if appErr != nil {
		return appErr
	}
	pollH, err := routes.db.GetPollH(r.Context(), id, nil)
	if err != nil {
		return mapDomainErr(err)
	}
	comments, err := pollH.ListComments(r.Context())
	if err != nil {
		return mapDomainErr(err)
	}
	respondJSON(w, http.StatusOK, comments)
	return nil
}
