package http

import (
	"net/http"

	"orderwizard/internal/core/application/intake"
	"orderwizard/internal/core/domain/model/item"
	"orderwizard/internal/core/domain/validation"
	"orderwizard/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// StartNewItem handles POST /api/v1/wizard/sessions/:id/items: an empty item is opened
// on its first substep.
func (s *Server) StartNewItem(ctx echo.Context) error {
	w, err := s.wizard(ctx)
	if err != nil {
		return writeError(ctx, err)
	}
	id, err := w.StartNewItem()
	if err != nil {
		return writeError(ctx, err)
	}
	return ctx.JSON(http.StatusCreated, createdItemResponse{ItemID: id, Snapshot: w.Snapshot()})
}

func (s *Server) EditItem(ctx echo.Context) error {
	id, err := pathUUID(ctx, "itemId")
	if err != nil {
		return writeError(ctx, err)
	}
	return s.withWizard(ctx, func(w *intake.Wizard) error {
		return w.EditItem(id)
	})
}

func (s *Server) DuplicateItem(ctx echo.Context) error {
	id, err := pathUUID(ctx, "itemId")
	if err != nil {
		return writeError(ctx, err)
	}
	w, err := s.wizard(ctx)
	if err != nil {
		return writeError(ctx, err)
	}
	dup, err := w.DuplicateItem(id)
	if err != nil {
		return writeError(ctx, err)
	}
	return ctx.JSON(http.StatusCreated, createdItemResponse{ItemID: dup.ID(), Snapshot: w.Snapshot()})
}

func (s *Server) RemoveItem(ctx echo.Context) error {
	id, err := pathUUID(ctx, "itemId")
	if err != nil {
		return writeError(ctx, err)
	}
	return s.withWizard(ctx, func(w *intake.Wizard) error {
		return w.RemoveItem(id)
	})
}

func (s *Server) CommitItem(ctx echo.Context) error {
	return s.withWizard(ctx, func(w *intake.Wizard) error {
		_, err := w.CommitItem()
		return err
	})
}

func (s *Server) CancelItem(ctx echo.Context) error {
	return s.withWizard(ctx, func(w *intake.Wizard) error {
		return w.CancelItem()
	})
}

func (s *Server) NextSubstep(ctx echo.Context) error {
	return s.withWizard(ctx, func(w *intake.Wizard) error {
		_, err := w.NextSubstep()
		return err
	})
}

func (s *Server) PreviousSubstep(ctx echo.Context) error {
	return s.withWizard(ctx, func(w *intake.Wizard) error {
		_, err := w.PreviousSubstep()
		return err
	})
}

func (s *Server) SetBasicInfo(ctx echo.Context) error {
	var info item.BasicInfo
	return s.step(ctx, &info, func(w *intake.Wizard) (validation.Result, error) {
		return w.SetBasicInfo(ctx.Request().Context(), info)
	})
}

func (s *Server) SetCharacteristics(ctx echo.Context) error {
	var c item.Characteristics
	return s.step(ctx, &c, func(w *intake.Wizard) (validation.Result, error) {
		return w.SetCharacteristics(c)
	})
}

func (s *Server) SetDefectsStains(ctx echo.Context) error {
	var ds item.DefectsStains
	return s.step(ctx, &ds, func(w *intake.Wizard) (validation.Result, error) {
		return w.SetDefectsStains(ds)
	})
}

// CalculatePricing handles POST /api/v1/wizard/sessions/:id/item/pricing.
func (s *Server) CalculatePricing(ctx echo.Context) error {
	var req pricingRequest
	if err := bind(ctx, &req); err != nil {
		return writeError(ctx, err)
	}
	return s.withWizard(ctx, func(w *intake.Wizard) error {
		_, err := w.CalculatePricing(ctx.Request().Context(), req.Modifiers)
		return err
	})
}

// AddPhoto handles POST /api/v1/wizard/sessions/:id/item/photos. Only metadata is
// recorded here; the file goes to storage and is confirmed with MarkPhotoUploaded.
func (s *Server) AddPhoto(ctx echo.Context) error {
	var req photoRequest
	if err := bind(ctx, &req); err != nil {
		return writeError(ctx, err)
	}
	w, err := s.wizard(ctx)
	if err != nil {
		return writeError(ctx, err)
	}
	r, err := w.AddPhoto(item.Photo{
		FileName:    req.FileName,
		ContentType: req.ContentType,
		Size:        req.Size,
	})
	return writeResult(ctx, w, r, err)
}

func (s *Server) MarkPhotoUploaded(ctx echo.Context) error {
	id, err := pathUUID(ctx, "photoId")
	if err != nil {
		return writeError(ctx, err)
	}
	var req photoUploadedRequest
	if err = bind(ctx, &req); err != nil {
		return writeError(ctx, err)
	}
	return s.withWizard(ctx, func(w *intake.Wizard) error {
		return w.MarkPhotoUploaded(id, req.URL)
	})
}

func (s *Server) RemovePhoto(ctx echo.Context) error {
	id, err := pathUUID(ctx, "photoId")
	if err != nil {
		return writeError(ctx, err)
	}
	return s.withWizard(ctx, func(w *intake.Wizard) error {
		return w.RemovePhoto(id)
	})
}

// step binds a substep payload and applies it. Domain validation is left to the
// wizard so the full result reaches the client.
func (s *Server) step(
	ctx echo.Context,
	payload any,
	apply func(w *intake.Wizard) (validation.Result, error),
) error {
	if err := ctx.Bind(payload); err != nil {
		return writeError(ctx, errs.NewValueIsInvalidErrorWithCause("request", err))
	}
	w, err := s.wizard(ctx)
	if err != nil {
		return writeError(ctx, err)
	}
	r, err := apply(w)
	return writeResult(ctx, w, r, err)
}
