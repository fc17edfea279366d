package ports

import (
	"context"
	"time"

	"orderwizard/internal/core/domain/model/branch"
	"orderwizard/internal/core/domain/model/catalog"
	"orderwizard/internal/core/domain/model/client"
	"orderwizard/internal/core/domain/model/item"
	"orderwizard/internal/core/domain/model/kernel"
	"orderwizard/internal/core/domain/model/order"
	"orderwizard/internal/core/domain/model/wizard"

	"github.com/shopspring/decimal"
)

// Gateway implementations report transport failures as errs.RemoteUnavailableError,
// duplicates as errs.ConflictError, unknown sessions as errs.FatalSessionError and
// missing records as errs.ObjectNotFoundError.

type ClientDirectory interface {
	Search(ctx context.Context, term string, page, size int) ([]client.Summary, error)
	Create(ctx context.Context, draft client.Draft) (client.Summary, error)
	Update(ctx context.Context, id kernel.UUID, draft client.Draft) (client.Summary, error)
	GetByPhone(ctx context.Context, phone string) (client.Summary, error)
	GetByID(ctx context.Context, id kernel.UUID) (client.Summary, error)
}

type BranchDirectory interface {
	ListForSession(ctx context.Context, sessionID kernel.UUID) ([]branch.Branch, error)
	Select(ctx context.Context, sessionID, branchID kernel.UUID) error
	GenerateReceiptNumber(ctx context.Context, sessionID kernel.UUID, branchCode string) (string, error)
}

type PriceList interface {
	GetCategories(ctx context.Context, activeOnly bool) ([]catalog.Category, error)
	GetItemsByCategory(ctx context.Context, categoryID kernel.UUID) ([]catalog.PriceListItem, error)
	GetItem(ctx context.Context, id kernel.UUID) (catalog.PriceListItem, error)
}

// ReferenceData serves the lists of the characteristics substep.
type ReferenceData interface {
	Materials(ctx context.Context, categoryCode string) ([]catalog.Material, error)
	Colors(ctx context.Context) ([]catalog.Color, error)
}

// PriceLine is one item sent to the pricing calculator.
type PriceLine struct {
	PriceListItemID kernel.UUID
	Quantity        decimal.Decimal
	Modifiers       []item.Modifier
}

type PriceQuote struct {
	Base  decimal.Decimal
	Final decimal.Decimal
}

type PricingCalculator interface {
	CalculateBasePrice(ctx context.Context, priceListItemID kernel.UUID, quantity decimal.Decimal) (decimal.Decimal, error)
	CalculateFinalPrice(ctx context.Context, lines []PriceLine) (PriceQuote, error)
}

type DiscountLine struct {
	ItemID kernel.UUID
	Amount decimal.Decimal
}

type DiscountRequest struct {
	SessionID kernel.UUID
	Type      order.DiscountType
	Percent   decimal.Decimal
	Amount    decimal.Decimal
	Items     []DiscountLine
}

type DiscountQuote struct {
	Amount            decimal.Decimal
	ApplicableItemIDs []kernel.UUID
}

type DiscountService interface {
	Apply(ctx context.Context, req DiscountRequest) (DiscountQuote, error)
}

// CompletionDateService is advisory; the local floor is authoritative when it fails.
type CompletionDateService interface {
	Calculate(ctx context.Context, categoryIDs []kernel.UUID, urgency order.Urgency) (time.Time, error)
}

// PaymentService is advisory; the local balance is authoritative when it fails.
type PaymentService interface {
	Calculate(
		ctx context.Context,
		sessionID kernel.UUID,
		method order.PaymentMethod,
		prepayment decimal.Decimal,
	) (order.Payment, error)
}

// OrderSessionService is the backend side of a wizard session.
type OrderSessionService interface {
	Start(ctx context.Context) (kernel.UUID, error)
	SelectClient(ctx context.Context, sessionID, clientID kernel.UUID) error
	CompleteStage(ctx context.Context, sessionID kernel.UUID, stage wizard.Stage) error
	Close(ctx context.Context, sessionID kernel.UUID) error
}

type OrderSubmission interface {
	Create(ctx context.Context, submission order.Submission) (kernel.UUID, error)
}

// Gateways bundles every collaborator a wizard needs.
type Gateways struct {
	Clients        ClientDirectory
	Branches       BranchDirectory
	PriceList      PriceList
	ReferenceData  ReferenceData
	Pricing        PricingCalculator
	Discounts      DiscountService
	CompletionDate CompletionDateService
	Payments       PaymentService
	Sessions       OrderSessionService
	Orders         OrderSubmission
}
