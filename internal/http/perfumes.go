package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"perfume-catalog/internal/domain"
	"perfume-catalog/internal/service"
)

func (h *Handler) listPerfumes(c *gin.Context) {
	q := domain.NewListQuery()
	var err error
	if q.Skip, err = intQuery(c, "skip", q.Skip); err != nil {
		h.writeError(c, err)
		return
	}
	if q.Limit, err = intQuery(c, "limit", q.Limit); err != nil {
		h.writeError(c, err)
		return
	}
	q.Search = c.Query("search")
	q.Gender = c.Query("gender")
	q.Season = c.Query("season")
	q.SortBy = domain.SortBy(c.DefaultQuery("sort_by", string(domain.SortPopularity)))

	perfumes, err := h.perfumes.List(c.Request.Context(), q)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, perfumesToResponse(perfumes))
}

func (h *Handler) suggestPerfumes(c *gin.Context) {
	limit, err := intQuery(c, "limit", domain.DefaultSuggestionLimit)
	if err != nil {
		h.writeError(c, err)
		return
	}

	perfumes, err := h.perfumes.Suggest(c.Request.Context(), domain.SuggestionQuery{Q: c.Query("q"), Limit: limit})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, perfumesToResponse(perfumes))
}

func (h *Handler) getPerfume(c *gin.Context) {
	perfume, err := h.perfumes.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, perfumeToResponse(*perfume))
}

func (h *Handler) createPerfume(c *gin.Context) {
	var req createPerfumeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	perfume, err := h.perfumes.Create(c.Request.Context(), req.toDomain())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, perfumeToResponse(*perfume))
}

func (h *Handler) updatePerfume(c *gin.Context) {
	var req updatePerfumeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	perfume, err := h.perfumes.Update(c.Request.Context(), c.Param("id"), req.toPatch())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, perfumeToResponse(*perfume))
}

func (h *Handler) deletePerfume(c *gin.Context) {
	if err := h.perfumes.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) uploadImage(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, service.MaxImageSize+1<<20)

	header, err := c.FormFile("image")
	if err != nil {
		badRequest(c, "multipart field image is required")
		return
	}
	file, err := header.Open()
	if err != nil {
		h.writeError(c, err)
		return
	}
	defer file.Close()

	perfume, err := h.perfumes.AttachImage(c.Request.Context(), c.Param("id"), service.ImageUpload{
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        file,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, perfumeToResponse(*perfume))
}

func intQuery(c *gin.Context, key string, def int) (int, error) {
	raw, ok := c.GetQuery(key)
	if !ok {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, domain.Invalid(key, "must be an integer")
	}
	return v, nil
}
