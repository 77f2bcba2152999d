// Package api provides the REST API server for midi2beep
package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/dottspace12/midi2beep/pkg/converter"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title MIDI2Beep API
// @version 1.0
// @description API for converting MIDI files into beep command scripts
// @host localhost:8080
// @BasePath /api/v1

// StartServer starts the API server on the specified port
func StartServer(port int) error {
	return newRouter().Run(fmt.Sprintf(":%d", port))
}

func newRouter() *gin.Engine {
	r := gin.Default()

	// CORS middleware
	r.Use(corsMiddleware())

	// Health check
	r.GET("/health", healthCheck)

	// API v1 routes
	v1 := r.Group("/api/v1")
	{
		v1.GET("/health", healthCheck)
		v1.POST("/convert", handleConvert)
		v1.GET("/policies", listPolicies)
	}

	// Swagger docs
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// healthCheck godoc
// @Summary Health check endpoint
// @Description Returns the health status of the API
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "midi2beep",
	})
}

// listPolicies godoc
// @Summary List overlap resolution policies
// @Description Returns the supported policies for collapsing simultaneous notes
// @Tags info
// @Produce json
// @Success 200 {object} map[string][]string
// @Router /api/v1/policies [get]
func listPolicies(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"policies": converter.PolicyNames(),
		"default":  converter.PolicyHighest.String(),
	})
}

// handleConvert godoc
// @Summary Convert a MIDI file to a beep script
// @Description Upload a MIDI file and receive an executable beep script
// @Tags convert
// @Accept multipart/form-data
// @Produce text/plain
// @Param file formData file true "MIDI file to convert"
// @Param policy query string false "Overlap policy: highest, lowest or average (default: highest)"
// @Success 200 {file} binary
// @Failure 400 {object} map[string]string
// @Router /api/v1/convert [post]
func handleConvert(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read file"})
		return
	}

	policy, err := converter.ParsePolicy(c.DefaultQuery("policy", "highest"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	conv, err := converter.New(policy)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := conv.Convert(data)
	if err != nil {
		if errors.Is(err, converter.ErrNoSoundableEvents) {
			c.JSON(http.StatusOK, gin.H{
				"warning":  "input contains no note events, nothing to play",
				"segments": 0,
			})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	script, err := converter.RenderScript(result.Segments)
	if err != nil {
		// Note events that never sustain produce a valid but empty result.
		if errors.Is(err, converter.ErrEmptySequence) {
			c.JSON(http.StatusOK, gin.H{
				"warning":  "input contains no note events, nothing to play",
				"segments": 0,
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	outputName := strings.TrimSuffix(header.Filename, filepath.Ext(header.Filename)) + ".sh"
	if outputName == ".sh" {
		outputName = "converted.sh"
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", outputName))
	c.Data(http.StatusOK, "text/x-shellscript", []byte(script))
}
