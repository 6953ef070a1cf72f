package handler

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gogotex/docstore/internal/document"
	"github.com/gogotex/docstore/internal/document/service"
	"github.com/gogotex/docstore/pkg/logger"
)

func RegisterDocumentRoutes(r *gin.Engine, svc service.Service) {
	h := &documentHandler{svc: svc}
	r.POST("/api/documents", h.save)
	r.PUT("/api/documents/:id", h.saveWithID)
	r.GET("/api/documents/:id", h.findByID)
	r.GET("/api/documents", h.searchQuery)
	r.POST("/api/documents/search", h.searchBody)
	r.POST("/api/documents/export", h.export)
}

type documentHandler struct {
	svc service.Service
}

func (h *documentHandler) save(c *gin.Context) {
	var d document.Document
	if err := c.ShouldBindJSON(&d); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	status := http.StatusOK
	if d.ID == "" {
		status = http.StatusCreated
	}
	h.store(c, d, status)
}

func (h *documentHandler) saveWithID(c *gin.Context) {
	id := c.Param("id")
	var d document.Document
	if err := c.ShouldBindJSON(&d); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if d.ID != "" && d.ID != id {
		c.JSON(http.StatusBadRequest, gin.H{"error": "body id does not match path id"})
		return
	}
	d.ID = id
	h.store(c, d, http.StatusOK)
}

func (h *documentHandler) store(c *gin.Context, d document.Document, status int) {
	saved, err := h.svc.Save(c.Request.Context(), d)
	if err != nil {
		internalError(c, err)
		return
	}
	c.JSON(status, saved)
}

func (h *documentHandler) findByID(c *gin.Context) {
	d, err := h.svc.FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		internalError(c, err)
		return
	}
	if d == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, d)
}

// searchQuery accepts repeatable titlePrefix, contains and authorId
// parameters plus RFC3339 createdFrom/createdTo.
func (h *documentHandler) searchQuery(c *gin.Context) {
	req := document.SearchRequest{
		TitlePrefixes:    c.QueryArray("titlePrefix"),
		ContainsContents: c.QueryArray("contains"),
		AuthorIDs:        c.QueryArray("authorId"),
	}
	var err error
	if req.CreatedFrom, err = queryTime(c, "createdFrom"); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.CreatedTo, err = queryTime(c, "createdTo"); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.search(c, req)
}

func (h *documentHandler) searchBody(c *gin.Context) {
	req, ok := bindSearch(c)
	if !ok {
		return
	}
	h.search(c, req)
}

func (h *documentHandler) search(c *gin.Context, req document.SearchRequest) {
	docs, err := h.svc.Search(c.Request.Context(), req)
	if err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, docs)
}

func (h *documentHandler) export(c *gin.Context) {
	req, ok := bindSearch(c)
	if !ok {
		return
	}
	res, err := h.svc.Export(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrExportDisabled) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
			return
		}
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// bindSearch decodes an optional JSON SearchRequest; an empty body means no criteria.
// A chunked request has no declared length, so an empty one only shows up as io.EOF.
func bindSearch(c *gin.Context) (document.SearchRequest, bool) {
	var req document.SearchRequest
	if c.Request.ContentLength == 0 {
		return req, true
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		if errors.Is(err, io.EOF) {
			return document.SearchRequest{}, true
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return req, false
	}
	return req, true
}

func queryTime(c *gin.Context, key string) (*time.Time, error) {
	v := c.Query(key)
	if v == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func internalError(c *gin.Context, err error) {
	logger.Errorf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}
