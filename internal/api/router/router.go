package router

import (
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"

	"github.com/avelarq/neo-tracker/internal/api/handler"
)

// SetupRouter configures and returns the Gin router with all routes
func SetupRouter(deps *handler.Dependencies) *gin.Engine {
	r := gin.New()

	// Middleware
	r.Use(gin.Recovery())
	r.Use(LoggerMiddleware(deps.Logger))
	r.Use(CORSMiddleware())

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "neo-tracker-api",
		})
	})

	// Route listing, for discoverability
	r.GET("/help", func(c *gin.Context) {
		routes := make([]string, 0, len(r.Routes()))
		for _, route := range r.Routes() {
			routes = append(routes, route.Method+" "+route.Path)
		}
		sort.Strings(routes)
		c.JSON(http.StatusOK, gin.H{"routes": routes})
	})

	jobHandler := handler.NewJobHandler(deps)
	dataHandler := handler.NewDataHandler(deps)

	data := r.Group("/data")
	{
		data.POST("", dataHandler.IngestData)
		data.GET("", dataHandler.GetData)
		data.DELETE("", dataHandler.DeleteData)

		data.GET("/date", dataHandler.GetDates)
		data.GET("/years/:year", dataHandler.GetDataByYear)
		data.GET("/distance", dataHandler.GetDistances)
		data.GET("/velocity", dataHandler.GetVelocities)
		data.GET("/max-diam/:max", dataHandler.GetByMaxDiameter)
		data.GET("/biggest/:count", dataHandler.GetBiggest)
	}

	r.GET("/now/:count", dataHandler.GetUpcoming)

	jobsGroup := r.Group("/jobs")
	{
		jobsGroup.POST("", jobHandler.CreateJob)
		jobsGroup.GET("", jobHandler.ListJobs)
		jobsGroup.GET("/:job_id", jobHandler.GetJob)
	}

	r.GET("/results/:job_id", jobHandler.GetResult)

	return r
}
