package http

import (
	"context"
	"net/http"

	"orderwizard/internal/core/application/intake"
	"orderwizard/internal/core/application/usecases/queries"
	"orderwizard/internal/core/domain/model/kernel"
	"orderwizard/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// SessionRegistry is the part of intake.SessionManager the API drives.
type SessionRegistry interface {
	Start(ctx context.Context) (*intake.Wizard, error)
	Get(ctx context.Context, id kernel.UUID) (*intake.Wizard, error)
	Close(ctx context.Context, id kernel.UUID) error
}

type ActiveSessionsHandler interface {
	Handle(ctx context.Context, query queries.GetActiveSessionsQuery) ([]queries.GetActiveSessionsQueryResponse, error)
}

// Server exposes the order wizard over HTTP. Every mutating call answers with the
// wizard snapshot so the client never has to merge partial state.
type Server struct {
	sessions SessionRegistry

	getActiveSessionsHandler ActiveSessionsHandler
}

func NewServer(sessions SessionRegistry, getActiveSessionsHandler ActiveSessionsHandler) *Server {
	return &Server{
		sessions:                 sessions,
		getActiveSessionsHandler: getActiveSessionsHandler,
	}
}

// Register mounts the wizard API under /api/v1.
func (s *Server) Register(e *echo.Echo) {
	g := e.Group("/api/v1/wizard/sessions")

	g.POST("", s.StartSession)
	g.GET("", s.GetActiveSessions)
	g.GET("/:id", s.GetSession)
	g.DELETE("/:id", s.CloseSession)

	g.POST("/:id/complete", s.CompleteStage)
	g.POST("/:id/back", s.GoBack)
	g.POST("/:id/reset", s.Reset)
	g.POST("/:id/submit", s.Submit)

	g.GET("/:id/clients", s.SearchClients)
	g.POST("/:id/clients", s.CreateClient)
	g.PUT("/:id/client-draft", s.SetClientDraft)
	g.POST("/:id/client", s.SelectClient)
	g.GET("/:id/branches", s.ListBranches)
	g.POST("/:id/branch", s.SelectBranch)

	g.GET("/:id/catalog/categories", s.GetCategories)
	g.GET("/:id/catalog/categories/:categoryId/items", s.GetPriceListItems)
	g.GET("/:id/catalog/materials", s.GetMaterials)
	g.GET("/:id/catalog/colors", s.GetColors)

	g.POST("/:id/items", s.StartNewItem)
	g.POST("/:id/items/:itemId/edit", s.EditItem)
	g.POST("/:id/items/:itemId/duplicate", s.DuplicateItem)
	g.DELETE("/:id/items/:itemId", s.RemoveItem)

	g.POST("/:id/item/commit", s.CommitItem)
	g.POST("/:id/item/cancel", s.CancelItem)
	g.POST("/:id/item/next", s.NextSubstep)
	g.POST("/:id/item/previous", s.PreviousSubstep)
	g.PUT("/:id/item/basic-info", s.SetBasicInfo)
	g.PUT("/:id/item/characteristics", s.SetCharacteristics)
	g.PUT("/:id/item/defects-stains", s.SetDefectsStains)
	g.POST("/:id/item/pricing", s.CalculatePricing)
	g.POST("/:id/item/photos", s.AddPhoto)
	g.PUT("/:id/item/photos/:photoId", s.MarkPhotoUploaded)
	g.DELETE("/:id/item/photos/:photoId", s.RemovePhoto)

	g.PUT("/:id/parameters/urgency", s.SetUrgency)
	g.PUT("/:id/parameters/completion-date", s.SetCompletionDate)
	g.PUT("/:id/parameters/discount", s.SetDiscount)
	g.PUT("/:id/parameters/payment-method", s.SetPaymentMethod)
	g.PUT("/:id/parameters/prepayment", s.SetPrepayment)
	g.PUT("/:id/parameters/additional-info", s.SetAdditionalInfo)
}

// StartSession handles POST /api/v1/wizard/sessions.
func (s *Server) StartSession(ctx echo.Context) error {
	w, err := s.sessions.Start(ctx.Request().Context())
	if err != nil {
		return writeError(ctx, err)
	}
	return ctx.JSON(http.StatusCreated, w.Snapshot())
}

// GetActiveSessions handles GET /api/v1/wizard/sessions.
func (s *Server) GetActiveSessions(ctx echo.Context) error {
	sessions, err := s.getActiveSessionsHandler.Handle(ctx.Request().Context(), queries.NewGetActiveSessionsQuery())
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, Error{
			Code:    http.StatusInternalServerError,
			Message: "Failed to retrieve sessions",
		})
	}
	return ctx.JSON(http.StatusOK, sessions)
}

func (s *Server) GetSession(ctx echo.Context) error {
	w, err := s.wizard(ctx)
	if err != nil {
		return writeError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, w.Snapshot())
}

// CloseSession handles DELETE /api/v1/wizard/sessions/:id.
func (s *Server) CloseSession(ctx echo.Context) error {
	id, err := pathUUID(ctx, "id")
	if err != nil {
		return writeError(ctx, err)
	}
	if err = s.sessions.Close(ctx.Request().Context(), id); err != nil {
		return writeError(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (s *Server) wizard(ctx echo.Context) (*intake.Wizard, error) {
	id, err := pathUUID(ctx, "id")
	if err != nil {
		return nil, err
	}
	return s.sessions.Get(ctx.Request().Context(), id)
}

// withWizard runs op against the wizard of the request and answers with its snapshot.
func (s *Server) withWizard(ctx echo.Context, op func(w *intake.Wizard) error) error {
	w, err := s.wizard(ctx)
	if err != nil {
		return writeError(ctx, err)
	}
	if err = op(w); err != nil {
		return writeError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, w.Snapshot())
}

func pathUUID(ctx echo.Context, name string) (kernel.UUID, error) {
	id, err := kernel.UUIDFromString(ctx.Param(name))
	if err != nil {
		return kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause(name, err)
	}
	return id, nil
}
