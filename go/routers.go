// Package catalogserver exposes the pet catalog over HTTP with gin.
package catalogserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Route is the information for every URI.
type Route struct {
	// Name is the name of this Route.
	Name string
	// Method is the string for the HTTP method. ex) GET, POST etc..
	Method string
	// Pattern is the pattern of the URI.
	Pattern string
	// HandlerFunc is the handler function of this route.
	HandlerFunc gin.HandlerFunc
}

// ApiHandleFunctions groups the API implementations served by the router.
type ApiHandleFunctions struct {
	PetAPI PetAPI
}

// NewRouter returns a new router with recovery, request ids and session extraction.
func NewRouter(handleFunctions ApiHandleFunctions) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	return NewRouterWithGinEngine(router, handleFunctions)
}

// NewRouterWithGinEngine adds the catalog routes to an existing engine.
func NewRouterWithGinEngine(router *gin.Engine, handleFunctions ApiHandleFunctions) *gin.Engine {
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	v1 := router.Group("/v1", RequestID(), SessionFromHeaders())
	for _, route := range getRoutes(handleFunctions) {
		if route.HandlerFunc == nil {
			route.HandlerFunc = DefaultHandleFunc
		}
		switch route.Method {
		case http.MethodGet:
			v1.GET(route.Pattern, route.HandlerFunc)
		case http.MethodPost:
			v1.POST(route.Pattern, route.HandlerFunc)
		case http.MethodPatch:
			v1.PATCH(route.Pattern, route.HandlerFunc)
		case http.MethodDelete:
			v1.DELETE(route.Pattern, route.HandlerFunc)
		}
	}
	return router
}

// DefaultHandleFunc answers routes that have no implementation.
func DefaultHandleFunc(c *gin.Context) {
	c.String(http.StatusNotImplemented, "501 not implemented")
}

func getRoutes(handleFunctions ApiHandleFunctions) []Route {
	return []Route{
		{"SearchPets", http.MethodGet, "/pets", handleFunctions.PetAPI.SearchPets},
		{"AddPet", http.MethodPost, "/pets", handleFunctions.PetAPI.AddPet},
		{"RefreshPets", http.MethodPost, "/pets/refresh", handleFunctions.PetAPI.RefreshPets},
		{"GetPetById", http.MethodGet, "/pets/:petId", handleFunctions.PetAPI.GetPetById},
		{"UpdatePet", http.MethodPatch, "/pets/:petId", handleFunctions.PetAPI.UpdatePet},
		{"DeletePet", http.MethodDelete, "/pets/:petId", handleFunctions.PetAPI.DeletePet},
		{"AdoptPet", http.MethodPost, "/pets/:petId/adopt", handleFunctions.PetAPI.AdoptPet},
	}
}
