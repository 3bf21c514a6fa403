package handler

import (
	"encoding/json"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/msKim92/wiselife-project/internal/api/middleware"
	"github.com/msKim92/wiselife-project/internal/app/service"
	"github.com/msKim92/wiselife-project/internal/common"
	"github.com/msKim92/wiselife-project/internal/domain/model"
)

const maxMultipartMemory = 32 << 20 // 32 MiB

type ChallengeHandler struct {
	challengeService *service.ChallengeService
	memberService    *service.MemberService
}

func NewChallengeHandler(cs *service.ChallengeService, ms *service.MemberService) *ChallengeHandler {
	return &ChallengeHandler{challengeService: cs, memberService: ms}
}

func (h *ChallengeHandler) RegisterRoutes(r chi.Router) {
	// Static segments before the id wildcard so /titles and /search
	// don't get swallowed.
	r.Get("/titles", h.getAllChallengeTitles)
	r.Get("/search", h.searchChallenges)
	r.Get("/all/{category-id}", h.getAllChallengesInCategory)

	r.With(middleware.OptionalAuthenticator).Get("/{challenge-id}", h.getChallenge)

	r.Group(func(authed chi.Router) {
		authed.Use(middleware.Authenticator)
		authed.Post("/", h.postChallenge)
		authed.Patch("/{challenge-id}", h.patchChallenge)
		authed.Post("/participate/{challengeId}", h.participateChallenge)
		authed.Patch("/cert/{challenge-id}", h.patchCertImage)
		authed.Delete("/{challenge-id}", h.deleteChallenge)
	})
}

func (h *ChallengeHandler) postChallenge(w http.ResponseWriter, r *http.Request) {
	member, ok := h.resolveCaller(w, r)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid multipart form: "+err.Error())
		return
	}
	var req service.CreateChallengeRequest
	if err := json.Unmarshal([]byte(r.FormValue("post")), &req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid post data: "+err.Error())
		return
	}

	challenge, err := h.challengeService.CreateChallenge(r.Context(), member, req, formFile(r, "rep"), r.MultipartForm.File["example"])
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, common.SingleResponse{Data: model.NewChallengeSummary(challenge)})
}

func (h *ChallengeHandler) patchChallenge(w http.ResponseWriter, r *http.Request) {
	challengeID, ok := parsePositiveID(w, r, "challenge-id")
	if !ok {
		return
	}
	member, ok := h.resolveCaller(w, r)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid multipart form: "+err.Error())
		return
	}
	var req service.PatchChallengeRequest
	if err := json.Unmarshal([]byte(r.FormValue("patch")), &req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid patch data: "+err.Error())
		return
	}

	challenge, err := h.challengeService.UpdateChallenge(r.Context(), member, challengeID, req, r.MultipartForm.File["example"], formFile(r, "rep"))
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, common.SingleResponse{Data: model.NewChallengeSummary(challenge)})
}

func (h *ChallengeHandler) participateChallenge(w http.ResponseWriter, r *http.Request) {
	challengeID, ok := parsePositiveID(w, r, "challengeId")
	if !ok {
		return
	}
	member, ok := h.resolveCaller(w, r)
	if !ok {
		return
	}

	challenge, err := h.challengeService.FindChallengeByID(r.Context(), challengeID)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	participation, err := h.challengeService.ParticipateChallenge(r.Context(), challenge, member)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}

	view := model.ComposeChallengeView(challenge, participation, time.Now())
	common.RespondWithJSON(w, http.StatusCreated, common.SingleResponse{Data: view.Payload()})
}

func (h *ChallengeHandler) patchCertImage(w http.ResponseWriter, r *http.Request) {
	challengeID, ok := parsePositiveID(w, r, "challenge-id")
	if !ok {
		return
	}
	member, ok := h.resolveCaller(w, r)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid multipart form: "+err.Error())
		return
	}

	challenge, participation, err := h.challengeService.UpdateCertImage(r.Context(), challengeID, member, formFile(r, "cert"))
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}

	view := model.ComposeChallengeView(challenge, participation, time.Now())
	common.RespondWithJSON(w, http.StatusCreated, common.SingleResponse{Data: view.Payload()})
}

// getChallenge is visibility-gated: anonymous callers and non-participants
// get the summary shape, a participating caller gets the detail shape with
// only their own certification data.
func (h *ChallengeHandler) getChallenge(w http.ResponseWriter, r *http.Request) {
	challengeID, ok := parsePositiveID(w, r, "challenge-id")
	if !ok {
		return
	}

	challenge, err := h.challengeService.FindChallengeByID(r.Context(), challengeID)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	challenge, err = h.challengeService.UpdateViewCount(r.Context(), challenge)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}

	var participation *model.MemberChallenge
	if memberID, authed := middleware.GetMemberIDFromContext(r.Context()); authed {
		participation, err = h.challengeService.FindParticipation(r.Context(), challengeID, memberID)
		if err != nil {
			common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
			return
		}
	}

	view := model.ComposeChallengeView(challenge, participation, time.Now())
	common.RespondWithJSON(w, http.StatusOK, common.SingleResponse{Data: view.Payload()})
}

func (h *ChallengeHandler) deleteChallenge(w http.ResponseWriter, r *http.Request) {
	challengeID, ok := parsePositiveID(w, r, "challenge-id")
	if !ok {
		return
	}
	member, ok := h.resolveCaller(w, r)
	if !ok {
		return
	}

	if err := h.challengeService.DeleteChallenge(r.Context(), challengeID, member); err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ChallengeHandler) getAllChallengesInCategory(w http.ResponseWriter, r *http.Request) {
	categoryID, err := strconv.ParseInt(chi.URLParam(r, "category-id"), 10, 64)
	if err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid category id")
		return
	}
	page, size, ok := parsePaging(w, r)
	if !ok {
		return
	}
	sortBy := r.URL.Query().Get("sort-by")

	challenges, total, err := h.challengeService.GetAllChallengesInCategory(r.Context(), categoryID, page, size, sortBy)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, common.MultiResponse{
		Data:     model.NewChallengeSummaryList(challenges),
		PageInfo: common.NewPageInfo(page, size, total),
	})
}

func (h *ChallengeHandler) searchChallenges(w http.ResponseWriter, r *http.Request) {
	if !r.URL.Query().Has("searchTitle") {
		common.RespondWithError(w, http.StatusBadRequest, "searchTitle parameter is required")
		return
	}
	searchTitle := r.URL.Query().Get("searchTitle")
	page, size, ok := parsePaging(w, r)
	if !ok {
		return
	}
	sortBy := r.URL.Query().Get("sort-by")

	challenges, total, err := h.challengeService.SearchChallengesByChallengeTitle(r.Context(), searchTitle, page, size, sortBy)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, common.MultiResponse{
		Data:     model.NewChallengeSummaryList(challenges),
		PageInfo: common.NewPageInfo(page, size, total),
	})
}

func (h *ChallengeHandler) getAllChallengeTitles(w http.ResponseWriter, r *http.Request) {
	titles, err := h.challengeService.GetAllChallenges(r.Context())
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, common.SingleResponse{Data: titles})
}

// resolveCaller turns the authenticated member id into a Member via the
// member directory. Writes the error response itself on failure.
func (h *ChallengeHandler) resolveCaller(w http.ResponseWriter, r *http.Request) (*model.Member, bool) {
	memberID, ok := middleware.GetMemberIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing member context")
		return nil, false
	}
	member, err := h.memberService.ResolveMember(r.Context(), memberID)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return nil, false
	}
	return member, true
}

func parsePositiveID(w http.ResponseWriter, r *http.Request, param string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, param), 10, 64)
	if err != nil || id <= 0 {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid "+param)
		return 0, false
	}
	return id, true
}

func parsePaging(w http.ResponseWriter, r *http.Request) (page, size int, ok bool) {
	page, okPage := parsePositiveQuery(r, "page", 1)
	size, okSize := parsePositiveQuery(r, "size", 10)
	if !okPage || !okSize {
		common.RespondWithError(w, http.StatusBadRequest, "page and size must be positive integers")
		return 0, 0, false
	}
	return page, size, true
}

func parsePositiveQuery(r *http.Request, name string, fallback int) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, true
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return 0, false
	}
	return value, true
}

func formFile(r *http.Request, part string) *multipart.FileHeader {
	if r.MultipartForm == nil {
		return nil
	}
	files := r.MultipartForm.File[part]
	if len(files) == 0 {
		return nil
	}
	return files[0]
}
