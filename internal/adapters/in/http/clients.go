package http

import (
	"net/http"
	"strconv"

	"orderwizard/internal/core/application/intake"
	"orderwizard/internal/core/domain/model/client"
	"orderwizard/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// SearchClients handles GET /api/v1/wizard/sessions/:id/clients?term=&page=&size=.
func (s *Server) SearchClients(ctx echo.Context) error {
	page, size, err := pageParams(ctx)
	if err != nil {
		return writeError(ctx, err)
	}
	w, err := s.wizard(ctx)
	if err != nil {
		return writeError(ctx, err)
	}

	found, err := w.SearchClients(ctx.Request().Context(), ctx.QueryParam("term"), page, size)
	if err != nil {
		return writeError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, found)
}

// SetClientDraft handles PUT /api/v1/wizard/sessions/:id/client-draft.
func (s *Server) SetClientDraft(ctx echo.Context) error {
	var draft client.Draft
	if err := ctx.Bind(&draft); err != nil {
		return writeError(ctx, errs.NewValueIsInvalidErrorWithCause("request", err))
	}
	w, err := s.wizard(ctx)
	if err != nil {
		return writeError(ctx, err)
	}
	r, err := w.SetClientDraft(draft)
	return writeResult(ctx, w, r, err)
}

// CreateClient handles POST /api/v1/wizard/sessions/:id/clients: the pending draft
// is created in the directory and selected.
func (s *Server) CreateClient(ctx echo.Context) error {
	w, err := s.wizard(ctx)
	if err != nil {
		return writeError(ctx, err)
	}
	if _, err = w.CreateClient(ctx.Request().Context()); err != nil {
		return writeError(ctx, err)
	}
	return ctx.JSON(http.StatusCreated, w.Snapshot())
}

func (s *Server) SelectClient(ctx echo.Context) error {
	var req selectClientRequest
	if err := bind(ctx, &req); err != nil {
		return writeError(ctx, err)
	}
	if err := req.ClientID.Validate(); err != nil {
		return writeError(ctx, errs.NewValueIsRequiredErrorWithCause("clientId", err))
	}
	return s.withWizard(ctx, func(w *intake.Wizard) error {
		return w.SelectClient(ctx.Request().Context(), req.ClientID)
	})
}

func (s *Server) ListBranches(ctx echo.Context) error {
	w, err := s.wizard(ctx)
	if err != nil {
		return writeError(ctx, err)
	}
	branches, err := w.ListBranches(ctx.Request().Context())
	if err != nil {
		return writeError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, branches)
}

func (s *Server) SelectBranch(ctx echo.Context) error {
	var req selectBranchRequest
	if err := bind(ctx, &req); err != nil {
		return writeError(ctx, err)
	}
	if err := req.BranchID.Validate(); err != nil {
		return writeError(ctx, errs.NewValueIsRequiredErrorWithCause("branchId", err))
	}
	return s.withWizard(ctx, func(w *intake.Wizard) error {
		return w.SelectBranch(ctx.Request().Context(), req.BranchID)
	})
}

func pageParams(ctx echo.Context) (int, int, error) {
	page, size := 0, defaultPageSize
	if p := ctx.QueryParam("page"); p != "" {
		v, err := strconv.Atoi(p)
		if err != nil || v < 0 {
			return 0, 0, errs.NewValueIsInvalidError("page")
		}
		page = v
	}
	if sz := ctx.QueryParam("size"); sz != "" {
		v, err := strconv.Atoi(sz)
		if err != nil || v < 1 || v > maxPageSize {
			return 0, 0, errs.NewValueIsOutOfRangeError("size", sz, 1, maxPageSize)
		}
		size = v
	}
	return page, size, nil
}
