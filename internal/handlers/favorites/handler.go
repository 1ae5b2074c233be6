package favorites

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Nazarious-ucu/city-weather/internal/models"
)

type favoritesStore interface {
	List() []models.Location
	Add(ctx context.Context, loc models.Location) ([]models.Location, error)
	Remove(ctx context.Context, id string) ([]models.Location, error)
	Toggle(ctx context.Context, loc models.Location) (bool, error)
}

type writeObserver interface {
	ObserveFavoriteWrite(operation string, err error)
}

type Handler struct {
	store    favoritesStore
	observer writeObserver
}

func NewHandler(store favoritesStore, observer writeObserver) *Handler {
	return &Handler{store: store, observer: observer}
}

func (h *Handler) List(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.List())
}

func (h *Handler) Add(c *gin.Context) {
	loc, ok := bindLocation(c)
	if !ok {
		return
	}

	list, err := h.store.Add(c.Request.Context(), loc)
	h.observe("add", err)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, list)
}

func (h *Handler) Remove(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required"})
		return
	}

	list, err := h.store.Remove(c.Request.Context(), id)
	h.observe("remove", err)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, list)
}

func (h *Handler) Toggle(c *gin.Context) {
	loc, ok := bindLocation(c)
	if !ok {
		return
	}

	favorite, err := h.store.Toggle(c.Request.Context(), loc)
	h.observe("toggle", err)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"favorite": favorite, "favorites": h.store.List()})
}

func bindLocation(c *gin.Context) (models.Location, bool) {
	var loc models.Location
	if err := c.ShouldBindJSON(&loc); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return models.Location{}, false
	}
	if err := loc.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return models.Location{}, false
	}
	return loc, true
}

func (h *Handler) observe(operation string, err error) {
	if h.observer != nil {
		h.observer.ObserveFavoriteWrite(operation, err)
	}
}
