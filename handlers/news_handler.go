package handlers

import (
	"net/http"
	"strconv"

	"github.com/asopadel/padel-system/middleware"
	"github.com/asopadel/padel-system/services"
)

type NewsHandler struct {
	newsService services.NewsService
}

func NewNewsHandler(newsService services.NewsService) *NewsHandler {
	return &NewsHandler{newsService: newsService}
}

func (h *NewsHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, err := middleware.ClaimsFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, err.Error())
		return
	}
	var input services.NewsInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, err)
		return
	}
	input.AuthorID = &claims.UserID

	post, err := h.newsService.Create(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusCreated, jsonResponse{"news": post}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *NewsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		badRequestResponse(w, err)
		return
	}
	post, err := h.newsService.GetByID(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"news": post}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *NewsHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	posts, err := h.newsService.ListLatest(r.Context(), limit)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"news": posts}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *NewsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		badRequestResponse(w, err)
		return
	}
	var input services.NewsInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, err)
		return
	}
	post, err := h.newsService.Update(r.Context(), id, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"news": post}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *NewsHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		badRequestResponse(w, err)
		return
	}
	if err := r.ParseMultipartForm(maxPhotoUploadBytes); err != nil {
		badRequestResponse(w, err)
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		badRequestResponse(w, err)
		return
	}
	defer file.Close()

	post, err := h.newsService.UploadImage(r.Context(), id, file, header)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"news": post}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *NewsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		badRequestResponse(w, err)
		return
	}
	if err := h.newsService.Delete(r.Context(), id); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *NewsHandler) CreateHero(w http.ResponseWriter, r *http.Request) {
	var input services.HeroInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, err)
		return
	}
	hero, err := h.newsService.CreateHero(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusCreated, jsonResponse{"hero": hero}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *NewsHandler) ActiveHero(w http.ResponseWriter, r *http.Request) {
	hero, err := h.newsService.ActiveHero(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"hero": hero}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *NewsHandler) ActivateHero(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		badRequestResponse(w, err)
		return
	}
	if err := h.newsService.ActivateHero(r.Context(), id); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"message": "hero activated"}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
