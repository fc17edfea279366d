package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Catalog endpoints read through the wizard's reference-data cache.

func (s *Server) GetCategories(ctx echo.Context) error {
	w, err := s.wizard(ctx)
	if err != nil {
		return writeError(ctx, err)
	}
	categories, err := w.Categories(ctx.Request().Context())
	if err != nil {
		return writeError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, categories)
}

func (s *Server) GetPriceListItems(ctx echo.Context) error {
	categoryID, err := pathUUID(ctx, "categoryId")
	if err != nil {
		return writeError(ctx, err)
	}
	w, err := s.wizard(ctx)
	if err != nil {
		return writeError(ctx, err)
	}
	items, err := w.PriceListItems(ctx.Request().Context(), categoryID)
	if err != nil {
		return writeError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, items)
}

func (s *Server) GetMaterials(ctx echo.Context) error {
	w, err := s.wizard(ctx)
	if err != nil {
		return writeError(ctx, err)
	}
	materials, err := w.Materials(ctx.Request().Context(), ctx.QueryParam("categoryCode"))
	if err != nil {
		return writeError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, materials)
}

func (s *Server) GetColors(ctx echo.Context) error {
	w, err := s.wizard(ctx)
	if err != nil {
		return writeError(ctx, err)
	}
	colors, err := w.Colors(ctx.Request().Context())
	if err != nil {
		return writeError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, colors)
}
