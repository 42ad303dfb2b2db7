package router

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/talent-catalog/internal/handler"
)

func registerAdminRoutes(g *echo.Group, h *handler.Handlers) {
	country := g.Group("/country")
	country.GET("", handler.Handle(h.Country.List, http.StatusOK))
	country.POST("/search", handler.Handle(h.Country.Search, http.StatusOK))
	country.GET("/:id", handler.Handle(h.Country.Get, http.StatusOK))
	country.POST("", handler.Handle(h.Country.Create, http.StatusCreated))
	country.PUT("/:id", handler.Handle(h.Country.Update, http.StatusOK))
	country.DELETE("/:id", handler.HandleNoContent(h.Country.Delete, http.StatusNoContent))

	user := g.Group("/user")
	user.POST("/search", handler.Handle(h.User.Search, http.StatusOK))
	user.GET("/:id", handler.Handle(h.User.Get, http.StatusOK))
	user.POST("", handler.Handle(h.User.Create, http.StatusCreated))
	user.PUT("/:id", handler.Handle(h.User.Update, http.StatusOK))

	partner := g.Group("/partner")
	partner.GET("", handler.Handle(h.Partner.List, http.StatusOK))
	partner.POST("/search", handler.Handle(h.Partner.Search, http.StatusOK))
	partner.GET("/:id", handler.Handle(h.Partner.Get, http.StatusOK))
	partner.POST("", handler.Handle(h.Partner.Create, http.StatusCreated))
	partner.PUT("/:id", handler.Handle(h.Partner.Update, http.StatusOK))

	savedList := g.Group("/saved-list")
	savedList.POST("/search", handler.Handle(h.SavedList.Search, http.StatusOK))
	savedList.GET("/:id", handler.Handle(h.SavedList.Get, http.StatusOK))
	savedList.POST("", handler.Handle(h.SavedList.Create, http.StatusCreated))
	savedList.PUT("/:id", handler.Handle(h.SavedList.Update, http.StatusOK))
	savedList.PUT("/:id/export-columns", handler.Handle(h.SavedList.SetExportColumns, http.StatusOK))
	savedList.DELETE("/:id", handler.HandleNoContent(h.SavedList.Delete, http.StatusNoContent))

	candidate := g.Group("/candidate")
	candidate.POST("/search", handler.Handle(h.Candidate.Search, http.StatusOK))
	candidate.GET("/:id", handler.Handle(h.Candidate.Get, http.StatusOK))
	candidate.GET("/number/:number", handler.Handle(h.Candidate.GetByNumber, http.StatusOK))

	g.GET("/visa-pathway/:id", handler.Handle(h.VisaPathway.Get, http.StatusOK))
}
