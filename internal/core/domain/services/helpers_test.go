package services_test

import (
	"testing"
	"time"

	"orderwizard/internal/core/domain/model/item"
	"orderwizard/internal/core/domain/model/kernel"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)

type itemSpec struct {
	code, category, name, service string
	price                         int64
}

func newItem(t *testing.T, s itemSpec) *item.Draft {
	t.Helper()
	d, err := item.NewDraft(kernel.NewUUID(), now)
	require.NoError(t, err)

	d.SetBasicInfo(item.BasicInfo{
		CategoryID:      kernel.NewUUID(),
		CategoryCode:    s.code,
		CategoryName:    s.category,
		PriceListItemID: kernel.NewUUID(),
		ItemName:        s.name,
		ServiceType:     s.service,
		Quantity:        decimal.NewFromInt(1),
		UnitOfMeasure:   item.UnitPiece,
		UnitPrice:       decimal.NewFromInt(s.price),
	}, now)
	if s.price > 0 {
		require.NoError(t, d.SetPricing(item.Pricing{
			BasePrice:  decimal.NewFromInt(s.price),
			FinalPrice: decimal.NewFromInt(s.price),
		}, now))
	}
	return d
}
