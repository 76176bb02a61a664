package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Lazypopo/Shift-Schedule-Webapp/pkg/models"
	"github.com/Lazypopo/Shift-Schedule-Webapp/pkg/roster"
)

// ListRoster returns every person ordered by name
func (h *Handler) ListRoster(c *gin.Context) {
	people, err := h.Store.Snapshot(c.Request.Context())
	if err != nil {
		h.Log.WithError(err).Error("Could not read roster")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not read roster"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"roster": people, "count": len(people)})
}

// UpsertPerson creates a person or updates an existing one's attributes
func (h *Handler) UpsertPerson(c *gin.Context) {
	var input models.PersonInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	p, err := input.ToPerson(h.DefaultMaxLoad)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.Store.Upsert(c.Request.Context(), p); err != nil {
		if errors.Is(err, roster.ErrInvalidPerson) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.Log.WithError(err).WithField("person", p.Name).Error("Could not save person")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not save person"})
		return
	}

	saved, err := h.Store.Get(c.Request.Context(), p.Name)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not read person"})
		return
	}
	c.JSON(http.StatusOK, saved)
}

type namesRequest struct {
	Names []string `json:"names"`
}

// DeletePersons removes the named persons
func (h *Handler) DeletePersons(c *gin.Context) {
	var req namesRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.Names) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "names is required"})
		return
	}

	n, err := h.Store.Delete(c.Request.Context(), req.Names)
	if err != nil {
		h.Log.WithError(err).Error("Could not delete persons")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not delete persons"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": n})
}

// ResetLoad zeroes the load of the named persons, or of everyone when the
// body is empty or carries no names field
func (h *Handler) ResetLoad(c *gin.Context) {
	var req namesRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	if err := h.Store.ResetLoad(c.Request.Context(), req.Names); err != nil {
		h.Log.WithError(err).Error("Could not reset load")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not reset load"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Load reset"})
}

// SeedDemo loads the demo roster
func (h *Handler) SeedDemo(c *gin.Context) {
	n, err := roster.Seed(c.Request.Context(), h.Store, roster.DemoRoster(), h.DefaultMaxLoad)
	if err != nil {
		h.Log.WithError(err).Error("Could not seed roster")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not seed roster"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"seeded": n})
}

// IncrementLoad adjusts one person's load by hand
func (h *Handler) IncrementLoad(c *gin.Context) {
	var req struct {
		Delta *int `json:"delta" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "delta is required"})
		return
	}

	name := c.Param("name")
	err := h.Store.IncrementLoad(c.Request.Context(), name, *req.Delta)
	if errors.Is(err, roster.ErrPersonNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Person not found"})
		return
	}
	if err != nil {
		h.Log.WithError(err).WithField("person", name).Error("Could not update load")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not update load"})
		return
	}

	p, err := h.Store.Get(c.Request.Context(), name)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not read person"})
		return
	}
	c.JSON(http.StatusOK, p)
}
