package intake

import (
	"time"

	"orderwizard/internal/core/domain/model/branch"
	"orderwizard/internal/core/domain/model/client"
	"orderwizard/internal/core/domain/model/item"
	"orderwizard/internal/core/domain/model/kernel"
	"orderwizard/internal/core/domain/model/order"
	wzd "orderwizard/internal/core/domain/model/wizard"
	"orderwizard/internal/core/domain/validation"

	"github.com/shopspring/decimal"
)

// Snapshot is a consistent read model of a wizard, taken under its lock.
type Snapshot struct {
	SessionID     kernel.UUID                  `json:"sessionId"`
	Stage         string                       `json:"stage"`
	Substep       string                       `json:"substep,omitempty"`
	Epoch         uint64                       `json:"epoch"`
	CanAdvance    bool                         `json:"canAdvance"`
	CanGoBack     bool                         `json:"canGoBack"`
	Available     map[string]bool              `json:"available"`
	StageResults  map[string]validation.Result `json:"stageResults"`
	Client        *client.Summary              `json:"client,omitempty"`
	ClientDraft   *client.Draft                `json:"clientDraft,omitempty"`
	Branch        *branch.Branch               `json:"branch,omitempty"`
	ReceiptNumber string                       `json:"receiptNumber,omitempty"`
	Items         []ItemView                   `json:"items"`
	ItemsTotal    decimal.Decimal              `json:"itemsTotal"`
	OpenItem      *ItemView                    `json:"openItem,omitempty"`
	Editing       bool                         `json:"editing"`
	Parameters    ParametersView               `json:"parameters"`
	OrderID       *kernel.UUID                 `json:"orderId,omitempty"`
	Closed        bool                         `json:"closed"`
}

// ItemView is the serializable form of an item draft.
type ItemView struct {
	ID              kernel.UUID           `json:"id"`
	DisplayName     string                `json:"displayName"`
	BasicInfo       *item.BasicInfo       `json:"basicInfo,omitempty"`
	Characteristics *item.Characteristics `json:"characteristics,omitempty"`
	DefectsStains   *item.DefectsStains   `json:"defectsStains,omitempty"`
	Pricing         *item.Pricing         `json:"pricing,omitempty"`
	Photos          item.Photos           `json:"photos"`
	Total           decimal.Decimal       `json:"total"`
	CreatedAt       time.Time             `json:"createdAt"`
	UpdatedAt       time.Time             `json:"updatedAt"`
}

func newItemView(d *item.Draft) ItemView {
	v := ItemView{
		ID:          d.ID(),
		DisplayName: d.DisplayName(),
		Photos:      d.Photos(),
		Total:       d.Total(),
		CreatedAt:   d.CreatedAt(),
		UpdatedAt:   d.UpdatedAt(),
	}
	if b, ok := d.BasicInfo(); ok {
		v.BasicInfo = &b
	}
	if c, ok := d.Characteristics(); ok {
		v.Characteristics = &c
	}
	if ds, ok := d.DefectsStains(); ok {
		v.DefectsStains = &ds
	}
	if p, ok := d.Pricing(); ok {
		v.Pricing = &p
	}
	return v
}

// DiscountView is the serializable form of the order discount and its eligibility.
type DiscountView struct {
	Type          order.DiscountType `json:"discountType"`
	Percent       decimal.Decimal    `json:"percent"`
	CustomPercent *decimal.Decimal   `json:"customPercent,omitempty"`
	CustomAmount  *decimal.Decimal   `json:"customAmount,omitempty"`
	Exclusions    []kernel.UUID      `json:"exclusions,omitempty"`
	Amount        decimal.Decimal    `json:"amount"`
	CanApply      bool               `json:"canApply"`
	Warning       string             `json:"warning,omitempty"`
	Reason        string             `json:"reason,omitempty"`
}

// ParametersView is the serializable form of the order parameters stage.
type ParametersView struct {
	Execution      order.ExecutionParameters `json:"execution"`
	FloorReason    string                    `json:"floorReason"`
	Discount       DiscountView              `json:"discount"`
	Payment        order.Payment             `json:"payment"`
	PaymentError   string                    `json:"paymentError,omitempty"`
	Info           order.AdditionalInfo      `json:"additionalInfo"`
	RemoteDate     *time.Time                `json:"remoteCompletionDate,omitempty"`
	RemotePayment  *order.Payment            `json:"remotePayment,omitempty"`
	RemoteDiscount *decimal.Decimal          `json:"remoteDiscountAmount,omitempty"`
	Recalculations int                       `json:"recalculations"`
}

// Snapshot returns the current state of the wizard.
func (w *Wizard) Snapshot() Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()

	s := Snapshot{
		SessionID:    w.session.ID(),
		Stage:        w.session.Stage().String(),
		Epoch:        w.session.Epoch(),
		CanAdvance:   !w.closed && w.navigator.CanAdvance(),
		CanGoBack:    !w.closed && w.navigator.CanGoBack(),
		Available:    make(map[string]bool),
		StageResults: make(map[string]validation.Result),
		ItemsTotal:   w.items.TotalAmount(),
		Editing:      w.items.IsEditing(),
		Parameters:   w.parametersView(),
		Closed:       w.closed,
	}
	if sub := w.session.Substep(); sub != wzd.NoSubstep {
		s.Substep = sub.String()
	}
	for _, st := range wzd.EditableStages() {
		s.Available[st.String()] = w.navigator.IsAvailable(st)
		s.StageResults[st.String()] = w.navigator.Check(st)
	}

	if c, ok := w.clientSel.Existing(); ok {
		s.Client = &c
	}
	if d, ok := w.clientSel.Draft(); ok {
		s.ClientDraft = &d
	}
	if b, ok := w.branchSel.Branch(); ok {
		s.Branch = &b
		s.ReceiptNumber = w.branchSel.ReceiptNumber()
	}

	items := w.items.Items()
	s.Items = make([]ItemView, 0, len(items))
	for _, d := range items {
		s.Items = append(s.Items, newItemView(d))
	}
	if d, ok := w.items.OpenDraft(); ok {
		v := newItemView(d)
		s.OpenItem = &v
	}
	if !w.orderID.IsZero() {
		id := w.orderID
		s.OrderID = &id
	}
	return s
}

func (w *Wizard) parametersView() ParametersView {
	p := w.orderParameters()
	v := ParametersView{
		Execution:   p.Execution,
		FloorReason: string(p.FloorReason),
		Discount: DiscountView{
			Type:       p.Discount.Type(),
			Percent:    p.Discount.Percent(),
			Exclusions: p.Discount.Exclusions(),
			Amount:     p.DiscountAmount,
			CanApply:   p.Eligibility.CanApply,
			Warning:    p.Eligibility.Warning,
			Reason:     p.Eligibility.Reason,
		},
		Payment:        p.Payment,
		Info:           p.Info,
		RemotePayment:  p.Refinements.Payment,
		Recalculations: w.params.recalculations,
	}
	if cp, ok := p.Discount.CustomPercent(); ok {
		v.Discount.CustomPercent = &cp
	}
	if ca, ok := p.Discount.CustomAmount(); ok {
		v.Discount.CustomAmount = &ca
	}
	if p.PaymentError != nil {
		v.PaymentError = p.PaymentError.Error()
	}
	if !p.Refinements.CompletionDate.IsZero() {
		d := p.Refinements.CompletionDate
		v.RemoteDate = &d
	}
	if p.Refinements.Discount != nil {
		a := p.Refinements.Discount.Amount
		v.RemoteDiscount = &a
	}
	return v
}
