package intake_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"orderwizard/internal/core/application/intake"
	"orderwizard/internal/core/domain/model/branch"
	"orderwizard/internal/core/domain/model/catalog"
	"orderwizard/internal/core/domain/model/client"
	"orderwizard/internal/core/domain/model/item"
	"orderwizard/internal/core/domain/model/kernel"
	"orderwizard/internal/core/domain/model/order"
	wzd "orderwizard/internal/core/domain/model/wizard"
	"orderwizard/internal/core/ports"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type clientsMock struct{ mock.Mock }

func (m *clientsMock) Search(ctx context.Context, term string, page, size int) ([]client.Summary, error) {
	args := m.Called(ctx, term, page, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]client.Summary), args.Error(1)
}

func (m *clientsMock) Create(ctx context.Context, d client.Draft) (client.Summary, error) {
	args := m.Called(ctx, d)
	return args.Get(0).(client.Summary), args.Error(1)
}

func (m *clientsMock) Update(ctx context.Context, id kernel.UUID, d client.Draft) (client.Summary, error) {
	args := m.Called(ctx, id, d)
	return args.Get(0).(client.Summary), args.Error(1)
}

func (m *clientsMock) GetByPhone(ctx context.Context, phone string) (client.Summary, error) {
	args := m.Called(ctx, phone)
	return args.Get(0).(client.Summary), args.Error(1)
}

func (m *clientsMock) GetByID(ctx context.Context, id kernel.UUID) (client.Summary, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(client.Summary), args.Error(1)
}

type branchesMock struct{ mock.Mock }

func (m *branchesMock) ListForSession(ctx context.Context, sessionID kernel.UUID) ([]branch.Branch, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]branch.Branch), args.Error(1)
}

func (m *branchesMock) Select(ctx context.Context, sessionID, branchID kernel.UUID) error {
	return m.Called(ctx, sessionID, branchID).Error(0)
}

func (m *branchesMock) GenerateReceiptNumber(ctx context.Context, sessionID kernel.UUID, code string) (string, error) {
	args := m.Called(ctx, sessionID, code)
	return args.String(0), args.Error(1)
}

type pricingMock struct{ mock.Mock }

func (m *pricingMock) CalculateBasePrice(ctx context.Context, id kernel.UUID, qty decimal.Decimal) (decimal.Decimal, error) {
	args := m.Called(ctx, id, qty)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *pricingMock) CalculateFinalPrice(ctx context.Context, lines []ports.PriceLine) (ports.PriceQuote, error) {
	args := m.Called(ctx, lines)
	return args.Get(0).(ports.PriceQuote), args.Error(1)
}

type sessionsMock struct{ mock.Mock }

func (m *sessionsMock) Start(ctx context.Context) (kernel.UUID, error) {
	args := m.Called(ctx)
	return args.Get(0).(kernel.UUID), args.Error(1)
}

func (m *sessionsMock) SelectClient(ctx context.Context, sessionID, clientID kernel.UUID) error {
	return m.Called(ctx, sessionID, clientID).Error(0)
}

func (m *sessionsMock) CompleteStage(ctx context.Context, sessionID kernel.UUID, stage wzd.Stage) error {
	return m.Called(ctx, sessionID, stage).Error(0)
}

func (m *sessionsMock) Close(ctx context.Context, sessionID kernel.UUID) error {
	return m.Called(ctx, sessionID).Error(0)
}

type priceListMock struct{ mock.Mock }

func (m *priceListMock) GetCategories(ctx context.Context, activeOnly bool) ([]catalog.Category, error) {
	args := m.Called(ctx, activeOnly)
	return args.Get(0).([]catalog.Category), args.Error(1)
}

func (m *priceListMock) GetItemsByCategory(ctx context.Context, categoryID kernel.UUID) ([]catalog.PriceListItem, error) {
	args := m.Called(ctx, categoryID)
	return args.Get(0).([]catalog.PriceListItem), args.Error(1)
}

func (m *priceListMock) GetItem(ctx context.Context, id kernel.UUID) (catalog.PriceListItem, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(catalog.PriceListItem), args.Error(1)
}

type ordersMock struct{ mock.Mock }

func (m *ordersMock) Create(ctx context.Context, s order.Submission) (kernel.UUID, error) {
	args := m.Called(ctx, s)
	return args.Get(0).(kernel.UUID), args.Error(1)
}

type completionMock struct{ mock.Mock }

func (m *completionMock) Calculate(ctx context.Context, ids []kernel.UUID, u order.Urgency) (time.Time, error) {
	args := m.Called(ctx, ids, u)
	return args.Get(0).(time.Time), args.Error(1)
}

type paymentsMock struct{ mock.Mock }

func (m *paymentsMock) Calculate(
	ctx context.Context,
	sessionID kernel.UUID,
	method order.PaymentMethod,
	prepayment decimal.Decimal,
) (order.Payment, error) {
	args := m.Called(ctx, sessionID, method, prepayment)
	return args.Get(0).(order.Payment), args.Error(1)
}

type discountsMock struct{ mock.Mock }

func (m *discountsMock) Apply(ctx context.Context, req ports.DiscountRequest) (ports.DiscountQuote, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(ports.DiscountQuote), args.Error(1)
}

// recorder collects published events.
type recorder struct {
	mu     sync.Mutex
	events []ports.Event
}

func newRecorder() *recorder {
	return &recorder{}
}

func (r *recorder) Publish(_ context.Context, e ports.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) types() []ports.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]ports.EventType, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

func (r *recorder) find(eventType ports.EventType) (ports.Event, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.events {
		if e.Type == eventType {
			return e, true
		}
	}
	return ports.Event{}, false
}

// await waits for the first event of the given type.
func (r *recorder) await(t *testing.T, eventType ports.EventType) ports.Event {
	t.Helper()
	var found ports.Event
	require.Eventually(t, func() bool {
		var ok bool
		found, ok = r.find(eventType)
		return ok
	}, 2*time.Second, 5*time.Millisecond, "no %s event published", eventType)
	return found
}

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

var start = time.Date(2026, 4, 6, 10, 0, 0, 0, time.UTC)

type fixture struct {
	w         *intake.Wizard
	id        kernel.UUID
	clock     *testClock
	clients   *clientsMock
	branches  *branchesMock
	priceList *priceListMock
	pricing   *pricingMock
	sessions  *sessionsMock
	orders    *ordersMock
	events    *recorder
}

func newFixture(t *testing.T, configure ...func(*ports.Gateways)) *fixture {
	t.Helper()

	f := &fixture{
		id:        kernel.NewUUID(),
		clock:     &testClock{now: start},
		clients:   new(clientsMock),
		branches:  new(branchesMock),
		priceList: new(priceListMock),
		pricing:   new(pricingMock),
		sessions:  new(sessionsMock),
		orders:    new(ordersMock),
		events:    newRecorder(),
	}
	f.priceList.On("GetCategories", mock.Anything, mock.Anything).Return(testCategories, nil).Maybe()
	gw := ports.Gateways{
		Clients:   f.clients,
		Branches:  f.branches,
		PriceList: f.priceList,
		Pricing:   f.pricing,
		Sessions:  f.sessions,
		Orders:    f.orders,
	}
	for _, c := range configure {
		c(&gw)
	}

	session, err := wzd.NewSession(f.id, start)
	require.NoError(t, err)

	f.w, err = intake.NewWizard(session, intake.Deps{
		Gateways: gw,
		Events:   f.events,
		Clock:    f.clock,
	})
	require.NoError(t, err)
	return f
}

var (
	testClient = client.Summary{ID: kernel.NewUUID(), LastName: "Шевченко", FirstName: "Олена", Phone: "+380501112233"}
	testBranch = branch.Branch{ID: kernel.NewUUID(), Code: "KV01", Name: "Київ Центр", Address: "Хрещатик 1", Active: true}
)

// toItems walks stage 1 with a selected client and branch.
func (f *fixture) toItems(t *testing.T) {
	t.Helper()
	ctx := t.Context()

	f.clients.On("GetByID", mock.Anything, testClient.ID).Return(testClient, nil).Once()
	f.sessions.On("SelectClient", mock.Anything, f.id, testClient.ID).Return(nil).Once()
	require.NoError(t, f.w.SelectClient(ctx, testClient.ID))

	f.branches.On("ListForSession", mock.Anything, f.id).Return([]branch.Branch{testBranch}, nil).Once()
	f.branches.On("Select", mock.Anything, f.id, testBranch.ID).Return(nil).Once()
	f.branches.On("GenerateReceiptNumber", mock.Anything, f.id, "KV01").Return("KV01-000123", nil).Once()
	require.NoError(t, f.w.SelectBranch(ctx, testBranch.ID))

	f.sessions.On("CompleteStage", mock.Anything, f.id, wzd.ClientAndBranch).Return(nil).Once()
	require.NoError(t, f.w.CompleteStage(ctx))
	require.Equal(t, wzd.Items, f.w.Session().Stage())
}

var (
	clothing = catalog.Category{ID: kernel.NewUUID(), Code: "CLOTHING", Name: "Одяг", Active: true}
	leather  = catalog.Category{ID: kernel.NewUUID(), Code: "LEATHER", Name: "Шкіряні вироби", Active: true}
	ironing  = catalog.Category{ID: kernel.NewUUID(), Code: "IRONING", Name: "Прасування", Active: true}

	testCategories = []catalog.Category{clothing, leather, ironing}
)

type itemSpec struct {
	category      catalog.Category
	name, service string
	price         int64
}

// basicInfo registers a price-list entry for s and returns the record an
// operator would send for it.
func (f *fixture) basicInfo(s itemSpec) item.BasicInfo {
	entry := catalog.PriceListItem{
		ID:            kernel.NewUUID(),
		CategoryID:    s.category.ID,
		Name:          s.name,
		UnitOfMeasure: item.UnitPiece,
		BasePrice:     decimal.NewFromInt(s.price),
		Active:        true,
	}
	f.priceList.On("GetItem", mock.Anything, entry.ID).Return(entry, nil).Maybe()

	return item.BasicInfo{
		CategoryID:      s.category.ID,
		CategoryCode:    s.category.Code,
		CategoryName:    s.category.Name,
		PriceListItemID: entry.ID,
		ItemName:        s.name,
		ServiceType:     s.service,
		Quantity:        decimal.NewFromInt(1),
		UnitOfMeasure:   item.UnitPiece,
		UnitPrice:       decimal.NewFromInt(s.price),
	}
}

// addItem authors and commits one item priced by the remote calculator.
func (f *fixture) addItem(t *testing.T, s itemSpec) *item.Draft {
	t.Helper()

	_, err := f.w.StartNewItem()
	require.NoError(t, err)

	info := f.basicInfo(s)
	_, err = f.w.SetBasicInfo(t.Context(), info)
	require.NoError(t, err)

	price := decimal.NewFromInt(s.price)
	f.pricing.On("CalculateBasePrice", mock.Anything, info.PriceListItemID, info.Quantity).Return(price, nil).Once()
	f.pricing.On("CalculateFinalPrice", mock.Anything, mock.Anything).
		Return(ports.PriceQuote{Base: price, Final: price}, nil).Once()
	_, err = f.w.CalculatePricing(t.Context(), nil)
	require.NoError(t, err)

	d, err := f.w.CommitItem()
	require.NoError(t, err)
	return d
}

// toOrderParameters walks to stage 3 with the given items.
func (f *fixture) toOrderParameters(t *testing.T, items ...itemSpec) []*item.Draft {
	t.Helper()
	f.toItems(t)

	drafts := make([]*item.Draft, 0, len(items))
	for _, s := range items {
		drafts = append(drafts, f.addItem(t, s))
	}

	f.sessions.On("CompleteStage", mock.Anything, f.id, wzd.Items).Return(nil).Once()
	require.NoError(t, f.w.CompleteStage(t.Context()))
	require.Equal(t, wzd.OrderParameters, f.w.Session().Stage())
	return drafts
}

var (
	suit   = itemSpec{category: clothing, name: "Костюм", service: "Хімчистка", price: 1000}
	coat   = itemSpec{category: leather, name: "Куртка", service: "Хімчистка", price: 2500}
	shirts = itemSpec{category: ironing, name: "Сорочка", service: "Прасування", price: 300}
)
