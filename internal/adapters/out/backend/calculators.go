package backend

import (
	"context"
	"net/http"
	"time"

	"orderwizard/internal/core/domain/model/item"
	"orderwizard/internal/core/domain/model/kernel"
	"orderwizard/internal/core/domain/model/order"
	"orderwizard/internal/core/ports"

	"github.com/shopspring/decimal"
)

type pricingService struct{ c *Client }

func (s pricingService) CalculateBasePrice(
	ctx context.Context,
	priceListItemID kernel.UUID,
	quantity decimal.Decimal,
) (decimal.Decimal, error) {
	var res struct {
		BasePrice decimal.Decimal `json:"basePrice"`
	}
	err := s.c.do(ctx, call{
		op:     "pricing.base",
		method: http.MethodPost,
		path:   "/api/pricing/base",
		body: map[string]any{
			"priceListItemId": priceListItemID,
			"quantity":        quantity,
		},
		param: "priceListItemId",
		id:    priceListItemID.String(),
	}, &res)
	return res.BasePrice, err
}

type priceLineDTO struct {
	PriceListItemID kernel.UUID     `json:"priceListItemId"`
	Quantity        decimal.Decimal `json:"quantity"`
	Modifiers       []item.Modifier `json:"modifiers,omitempty"`
}

func (s pricingService) CalculateFinalPrice(ctx context.Context, lines []ports.PriceLine) (ports.PriceQuote, error) {
	req := struct {
		Items []priceLineDTO `json:"items"`
	}{Items: make([]priceLineDTO, 0, len(lines))}
	for _, l := range lines {
		req.Items = append(req.Items, priceLineDTO(l))
	}

	var res struct {
		BaseTotal  decimal.Decimal `json:"baseTotal"`
		FinalTotal decimal.Decimal `json:"finalTotal"`
	}
	err := s.c.do(ctx, call{
		op:     "pricing.calculate",
		method: http.MethodPost,
		path:   "/api/pricing/calculate",
		body:   req,
	}, &res)
	return ports.PriceQuote{Base: res.BaseTotal, Final: res.FinalTotal}, err
}

type discountService struct{ c *Client }

type discountRequestDTO struct {
	Type    order.DiscountType `json:"discountType"`
	Percent decimal.Decimal    `json:"percent"`
	Amount  decimal.Decimal    `json:"amount"`
	Items   []discountLineDTO  `json:"items"`
}

type discountLineDTO struct {
	ItemID kernel.UUID     `json:"itemId"`
	Amount decimal.Decimal `json:"amount"`
}

func (s discountService) Apply(ctx context.Context, req ports.DiscountRequest) (ports.DiscountQuote, error) {
	body := discountRequestDTO{Type: req.Type, Percent: req.Percent, Amount: req.Amount}
	for _, l := range req.Items {
		body.Items = append(body.Items, discountLineDTO(l))
	}

	var res struct {
		DiscountAmount    decimal.Decimal `json:"discountAmount"`
		ApplicableItemIDs []kernel.UUID   `json:"applicableItemIds"`
	}
	err := s.c.do(ctx, call{
		op:      "discounts.apply",
		method:  http.MethodPost,
		path:    sessionPath(req.SessionID, "discount"),
		body:    body,
		session: req.SessionID,
	}, &res)
	return ports.DiscountQuote{Amount: res.DiscountAmount, ApplicableItemIDs: res.ApplicableItemIDs}, err
}

type completionDateService struct{ c *Client }

func (s completionDateService) Calculate(
	ctx context.Context,
	categoryIDs []kernel.UUID,
	urgency order.Urgency,
) (time.Time, error) {
	var res struct {
		CompletionDate time.Time `json:"completionDate"`
	}
	err := s.c.do(ctx, call{
		op:     "completion_date.calculate",
		method: http.MethodPost,
		path:   "/api/order-wizard/completion-date",
		body: map[string]any{
			"categoryIds":  categoryIDs,
			"urgencyLevel": urgency,
		},
	}, &res)
	return res.CompletionDate, err
}

type paymentService struct{ c *Client }

func (s paymentService) Calculate(
	ctx context.Context,
	sessionID kernel.UUID,
	method order.PaymentMethod,
	prepayment decimal.Decimal,
) (order.Payment, error) {
	var res order.Payment
	err := s.c.do(ctx, call{
		op:     "payments.calculate",
		method: http.MethodPost,
		path:   sessionPath(sessionID, "payment"),
		body: map[string]any{
			"paymentMethod":    method,
			"prepaymentAmount": prepayment,
		},
		session: sessionID,
	}, &res)
	return res, err
}
