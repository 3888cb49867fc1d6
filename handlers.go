// handlers.go - REST handlers shared by both content collections
package main

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

type contentHandlers struct {
	col   *Collection
	label string // for error messages: "design", "practice model"
}

// listPublic serves the visible records. When the store is down it degrades
// to the curated default set so the public pages keep rendering.
func (h *contentHandlers) listPublic(c *gin.Context) {
	recs, err := h.col.Visible()
	if err != nil {
		log.Printf("Failed to fetch %ss: %v", h.label, err)
		c.JSON(http.StatusOK, cloneAll(h.col.cfg.defaults))
		return
	}
	c.JSON(http.StatusOK, recs)
}

// listAdmin serves every record, soft-hidden ones included.
func (h *contentHandlers) listAdmin(c *gin.Context) {
	recs, err := h.col.All()
	if err != nil {
		log.Printf("Failed to fetch %ss for admin: %v", h.label, err)
		c.JSON(http.StatusInternalServerError, []Record{})
		return
	}
	c.JSON(http.StatusOK, recs)
}

func (h *contentHandlers) getOne(c *gin.Context) {
	rec, err := h.col.Get(c.Param("id"))
	if errors.Is(err, errNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": h.label + " not found"})
		return
	}
	if err != nil {
		log.Printf("Failed to fetch %s: %v", h.label, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch " + h.label})
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (h *contentHandlers) create(c *gin.Context) {
	var fields Record
	if err := c.ShouldBindJSON(&fields); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	rec, err := h.col.Create(fields)
	if err != nil {
		log.Printf("Failed to create %s: %v", h.label, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create " + h.label})
		return
	}
	c.JSON(http.StatusCreated, rec)
}

func (h *contentHandlers) update(c *gin.Context) {
	var fields Record
	if err := c.ShouldBindJSON(&fields); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	rec, err := h.col.Update(c.Param("id"), fields)
	if errors.Is(err, errNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": h.label + " not found"})
		return
	}
	if err != nil {
		log.Printf("Failed to update %s: %v", h.label, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update " + h.label})
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (h *contentHandlers) delete(c *gin.Context) {
	err := h.col.Delete(c.Param("id"))
	if errors.Is(err, errNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": h.label + " not found"})
		return
	}
	if err != nil {
		log.Printf("Failed to delete %s: %v", h.label, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete " + h.label})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *contentHandlers) reset(c *gin.Context) {
	recs, err := h.col.ResetToDefaults()
	if err != nil {
		log.Printf("Failed to reset %ss: %v", h.label, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reset " + h.label + "s"})
		return
	}
	c.JSON(http.StatusOK, recs)
}

type reorderRequest struct {
	OrderedIds []string `json:"orderedIds"`
}

// reorder persists a client-supplied top-to-bottom order by rewriting each
// record's order field. On failure the dashboard re-fetches the list and
// drops its optimistic local ordering.
func (h *contentHandlers) reorder(c *gin.Context) {
	var req reorderRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.OrderedIds == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "orderedIds array is required"})
		return
	}
	count, err := h.col.Reorder(req.OrderedIds)
	if err != nil {
		log.Printf("Failed to reorder %ss: %v", h.label, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reorder " + h.label + "s"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "count": count})
}
