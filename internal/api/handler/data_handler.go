package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/avelarq/neo-tracker/internal/api/dto"
	"github.com/avelarq/neo-tracker/internal/catalog"
)

// IngestData handles POST /data
// Loads the configured close-approach CSV into the catalog.
func (h *DataHandler) IngestData(c *gin.Context) {
	count, err := h.ingestor.LoadCSV(c.Request.Context())
	if err != nil {
		h.logger.Error("Catalog ingestion failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to load catalog data",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "catalog loaded",
		"records": count,
	})
}

// GetData handles GET /data
func (h *DataHandler) GetData(c *gin.Context) {
	records, err := catalog.All(c.Request.Context(), h.catalog)
	if err != nil {
		h.logger.Error("Failed to read catalog", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to read catalog",
		})
		return
	}

	c.JSON(http.StatusOK, records)
}

// DeleteData handles DELETE /data
func (h *DataHandler) DeleteData(c *gin.Context) {
	if err := h.catalog.Flush(c.Request.Context()); err != nil {
		h.logger.Error("Failed to flush catalog", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to flush catalog",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "catalog flushed",
	})
}

// GetDates handles GET /data/date
func (h *DataHandler) GetDates(c *gin.Context) {
	keys, err := h.catalog.Keys(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list catalog keys", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to list catalog keys",
		})
		return
	}

	if keys == nil {
		keys = []string{}
	}

	c.JSON(http.StatusOK, keys)
}

// GetDataByYear handles GET /data/years/:year
func (h *DataHandler) GetDataByYear(c *gin.Context) {
	year := c.Param("year")
	if _, err := strconv.Atoi(year); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "year must be numeric",
		})
		return
	}

	records, err := catalog.ByYear(c.Request.Context(), h.catalog, year)
	if err != nil {
		h.logger.Error("Failed to query catalog by year", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to query catalog",
		})
		return
	}

	c.JSON(http.StatusOK, records)
}

// GetDistances handles GET /data/distance
// Optional min/max query parameters bound the distance in AU.
func (h *DataHandler) GetDistances(c *gin.Context) {
	var req dto.RangeQueryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "min and max must be numeric",
		})
		return
	}

	results, err := catalog.ByDistance(c.Request.Context(), h.catalog, req.Min, req.Max)
	if err != nil {
		h.logger.Error("Failed to query distances", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to query catalog",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count":   len(results),
		"results": results,
	})
}

// GetVelocities handles GET /data/velocity
// Requires min and max relative velocity in km/s.
func (h *DataHandler) GetVelocities(c *gin.Context) {
	var req dto.RangeQueryRequest
	if err := c.ShouldBindQuery(&req); err != nil || req.Min == nil || req.Max == nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "numeric min and max velocities are required",
		})
		return
	}

	if *req.Min > *req.Max {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "min velocity must not exceed max velocity",
		})
		return
	}

	records, err := catalog.ByVelocity(c.Request.Context(), h.catalog, *req.Min, *req.Max)
	if err != nil {
		h.logger.Error("Failed to query velocities", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to query catalog",
		})
		return
	}

	c.JSON(http.StatusOK, records)
}

// GetByMaxDiameter handles GET /data/max-diam/:max
func (h *DataHandler) GetByMaxDiameter(c *gin.Context) {
	bound, err := strconv.ParseFloat(c.Param("max"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "max diameter must be numeric",
		})
		return
	}

	records, err := catalog.ByMaxDiameter(c.Request.Context(), h.catalog, bound)
	if err != nil {
		h.logger.Error("Failed to query diameters", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to query catalog",
		})
		return
	}

	c.JSON(http.StatusOK, records)
}

// GetBiggest handles GET /data/biggest/:count
// Returns the count largest objects by absolute magnitude.
func (h *DataHandler) GetBiggest(c *gin.Context) {
	count, err := strconv.Atoi(c.Param("count"))
	if err != nil || count < 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "count must be a non-negative integer",
		})
		return
	}

	records, err := catalog.Brightest(c.Request.Context(), h.catalog, count)
	if err != nil {
		h.logger.Error("Failed to rank catalog", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to query catalog",
		})
		return
	}

	c.JSON(http.StatusOK, records)
}

// GetUpcoming handles GET /now/:count
// Returns the count soonest future close approaches.
func (h *DataHandler) GetUpcoming(c *gin.Context) {
	count, err := strconv.Atoi(c.Param("count"))
	if err != nil || count < 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "count must be a non-negative integer",
		})
		return
	}

	records, err := catalog.Upcoming(c.Request.Context(), h.catalog, time.Now().UTC(), count)
	if err != nil {
		h.logger.Error("Failed to query upcoming approaches", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to query catalog",
		})
		return
	}

	c.JSON(http.StatusOK, records)
}
