package backend

import (
	"context"
	"net/http"
	"time"

	"orderwizard/internal/core/domain/model/item"
	"orderwizard/internal/core/domain/model/kernel"
	"orderwizard/internal/core/domain/model/order"
	"orderwizard/internal/core/domain/model/wizard"

	"github.com/shopspring/decimal"
)

// sessionService is the backend side of a wizard session.
type sessionService struct{ c *Client }

func (s sessionService) Start(ctx context.Context) (kernel.UUID, error) {
	var res struct {
		SessionID kernel.UUID `json:"sessionId"`
	}
	err := s.c.do(ctx, call{
		op:     "sessions.start",
		method: http.MethodPost,
		path:   "/api/order-wizard/sessions",
	}, &res)
	if err != nil {
		return kernel.UUID{}, err
	}
	if err = res.SessionID.Validate(); err != nil {
		return kernel.UUID{}, err
	}
	return res.SessionID, nil
}

func (s sessionService) SelectClient(ctx context.Context, sessionID, clientID kernel.UUID) error {
	return s.c.do(ctx, call{
		op:      "sessions.select_client",
		method:  http.MethodPost,
		path:    sessionPath(sessionID, "client"),
		body:    map[string]kernel.UUID{"clientId": clientID},
		session: sessionID,
	}, nil)
}

func (s sessionService) CompleteStage(ctx context.Context, sessionID kernel.UUID, stage wizard.Stage) error {
	return s.c.do(ctx, call{
		op:      "sessions.complete_stage",
		method:  http.MethodPost,
		path:    sessionPath(sessionID, "stages", stage.String(), "complete"),
		session: sessionID,
	}, nil)
}

func (s sessionService) Close(ctx context.Context, sessionID kernel.UUID) error {
	return s.c.do(ctx, call{
		op:      "sessions.close",
		method:  http.MethodDelete,
		path:    sessionPath(sessionID),
		session: sessionID,
	}, nil)
}

type orderService struct{ c *Client }

type itemDTO struct {
	ID              kernel.UUID           `json:"id"`
	BasicInfo       *item.BasicInfo       `json:"basicInfo,omitempty"`
	Characteristics *item.Characteristics `json:"characteristics,omitempty"`
	DefectsStains   *item.DefectsStains   `json:"defectsStains,omitempty"`
	Pricing         *item.Pricing         `json:"pricing,omitempty"`
	PhotoURLs       []string              `json:"photoUrls,omitempty"`
}

type discountDTO struct {
	Type          order.DiscountType `json:"discountType"`
	CustomPercent *decimal.Decimal   `json:"customPercent,omitempty"`
	CustomAmount  *decimal.Decimal   `json:"customAmount,omitempty"`
	Exclusions    []kernel.UUID      `json:"exclusions,omitempty"`
	Amount        decimal.Decimal    `json:"amount"`
}

type submissionDTO struct {
	SessionID      kernel.UUID          `json:"sessionId"`
	ClientID       kernel.UUID          `json:"clientId"`
	BranchID       kernel.UUID          `json:"branchId"`
	ReceiptNumber  string               `json:"receiptNumber"`
	UniqueLabel    string               `json:"uniqueLabel,omitempty"`
	Items          []itemDTO            `json:"items"`
	UrgencyLevel   order.Urgency        `json:"urgencyLevel"`
	CompletionDate time.Time            `json:"completionDate"`
	Discount       discountDTO          `json:"discount"`
	Payment        order.Payment        `json:"payment"`
	Info           order.AdditionalInfo `json:"additionalInfo"`
	Signature      string               `json:"signature,omitempty"`
	TermsAccepted  bool                 `json:"termsAccepted"`
	Total          decimal.Decimal      `json:"total"`
}

func newSubmissionDTO(s order.Submission) submissionDTO {
	dto := submissionDTO{
		SessionID:      s.SessionID,
		ClientID:       s.Client.ID,
		BranchID:       s.Branch.ID,
		ReceiptNumber:  s.ReceiptNumber,
		UniqueLabel:    s.UniqueLabel,
		Items:          make([]itemDTO, 0, len(s.Items)),
		UrgencyLevel:   s.Execution.Urgency,
		CompletionDate: s.Execution.CompletionDate,
		Discount: discountDTO{
			Type:       s.Discount.Type(),
			Exclusions: s.Discount.Exclusions(),
			Amount:     s.DiscountAmount,
		},
		Payment:       s.Payment,
		Info:          s.Info,
		Signature:     s.Signature,
		TermsAccepted: s.TermsAccepted,
		Total:         s.Total(),
	}
	if p, ok := s.Discount.CustomPercent(); ok {
		dto.Discount.CustomPercent = &p
	}
	if a, ok := s.Discount.CustomAmount(); ok {
		dto.Discount.CustomAmount = &a
	}
	for _, d := range s.Items {
		dto.Items = append(dto.Items, newItemDTO(d))
	}
	return dto
}

func newItemDTO(d *item.Draft) itemDTO {
	dto := itemDTO{ID: d.ID()}
	if b, ok := d.BasicInfo(); ok {
		dto.BasicInfo = &b
	}
	if c, ok := d.Characteristics(); ok {
		dto.Characteristics = &c
	}
	if ds, ok := d.DefectsStains(); ok {
		dto.DefectsStains = &ds
	}
	if p, ok := d.Pricing(); ok {
		dto.Pricing = &p
	}
	for _, ph := range d.Photos().Uploaded {
		dto.PhotoURLs = append(dto.PhotoURLs, ph.URL)
	}
	return dto
}

func (s orderService) Create(ctx context.Context, sub order.Submission) (kernel.UUID, error) {
	var res struct {
		OrderID kernel.UUID `json:"orderId"`
	}
	err := s.c.do(ctx, call{
		op:      "orders.create",
		method:  http.MethodPost,
		path:    "/api/orders",
		body:    newSubmissionDTO(sub),
		session: sub.SessionID,
	}, &res)
	return res.OrderID, err
}
