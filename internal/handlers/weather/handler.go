package weather

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Nazarious-ucu/city-weather/internal/models"
	serviceWeather "github.com/Nazarious-ucu/city-weather/internal/services/weather"
)

const timeoutDuration = 10 * time.Second

type resolver interface {
	Resolve(ctx context.Context, query string) (serviceWeather.Resolution, error)
}

type favoriteChecker interface {
	Contains(id string) bool
}

type resolutionObserver interface {
	ObserveResolution(outcome string)
}

type Response struct {
	Location  models.Location        `json:"location"`
	ShortName string                 `json:"short_name"`
	Weather   models.WeatherSnapshot `json:"weather"`
	Condition models.Condition       `json:"condition"`
	Favorite  bool                   `json:"favorite"`
}

type Handler struct {
	resolver  resolver
	favorites favoriteChecker
	observer  resolutionObserver
}

func NewHandler(r resolver, favorites favoriteChecker, observer resolutionObserver) *Handler {
	return &Handler{resolver: r, favorites: favorites, observer: observer}
}

func (h *Handler) GetWeather(c *gin.Context) {
	city := strings.TrimSpace(c.Query("city"))
	if city == "" {
		h.observe("invalid")
		c.JSON(http.StatusBadRequest, gin.H{"error": "city query parameter is required"})
		return
	}
	ctxWithTimeout, cancel := context.WithTimeout(c.Request.Context(), timeoutDuration)
	defer cancel()

	res, err := h.resolver.Resolve(ctxWithTimeout, city)
	if err != nil {
		h.writeError(c, err)
		return
	}

	h.observe("ok")
	c.JSON(http.StatusOK, Response{
		Location:  res.Location,
		ShortName: res.Location.ShortName(),
		Weather:   res.Weather,
		Condition: res.Condition,
		Favorite:  h.favorites.Contains(res.Location.ID),
	})
}

func (h *Handler) writeError(c *gin.Context, err error) {
	if errors.Is(err, serviceWeather.ErrCityNotFound) {
		h.observe("not_found")
		c.JSON(http.StatusNotFound, gin.H{"error": "City not found"})
		return
	}
	if errors.Is(err, serviceWeather.ErrEmptyQuery) {
		h.observe("invalid")
		c.JSON(http.StatusBadRequest, gin.H{"error": "city query parameter is required"})
		return
	}
	if step, ok := serviceWeather.IsLookupFailure(err); ok {
		h.observe("lookup_failed_" + string(step))
		c.JSON(http.StatusBadGateway, gin.H{"error": "weather lookup failed", "step": string(step)})
		return
	}

	h.observe("error")
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

func (h *Handler) observe(outcome string) {
	if h.observer != nil {
		h.observer.ObserveResolution(outcome)
	}
}
