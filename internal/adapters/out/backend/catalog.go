package backend

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"orderwizard/internal/core/domain/model/catalog"
	"orderwizard/internal/core/domain/model/kernel"
)

// catalogService serves the price list and the characteristics reference lists.
type catalogService struct{ c *Client }

func (s catalogService) GetCategories(ctx context.Context, activeOnly bool) ([]catalog.Category, error) {
	var res []catalog.Category
	err := s.c.do(ctx, call{
		op:     "price_list.categories",
		method: http.MethodGet,
		path:   "/api/price-list/categories",
		query:  url.Values{"activeOnly": {strconv.FormatBool(activeOnly)}},
	}, &res)
	return res, err
}

func (s catalogService) GetItemsByCategory(ctx context.Context, categoryID kernel.UUID) ([]catalog.PriceListItem, error) {
	var res []catalog.PriceListItem
	err := s.c.do(ctx, call{
		op:     "price_list.items",
		method: http.MethodGet,
		path:   "/api/price-list/categories/" + categoryID.String() + "/items",
		param:  "categoryId",
		id:     categoryID.String(),
	}, &res)
	return res, err
}

func (s catalogService) GetItem(ctx context.Context, id kernel.UUID) (catalog.PriceListItem, error) {
	var res catalog.PriceListItem
	err := s.c.do(ctx, call{
		op:     "price_list.item",
		method: http.MethodGet,
		path:   "/api/price-list/items/" + id.String(),
		param:  "priceListItemId",
		id:     id.String(),
	}, &res)
	return res, err
}

func (s catalogService) Materials(ctx context.Context, categoryCode string) ([]catalog.Material, error) {
	var res []catalog.Material
	err := s.c.do(ctx, call{
		op:     "reference.materials",
		method: http.MethodGet,
		path:   "/api/reference/materials",
		query:  url.Values{"categoryCode": {categoryCode}},
	}, &res)
	return res, err
}

func (s catalogService) Colors(ctx context.Context) ([]catalog.Color, error) {
	var res []catalog.Color
	err := s.c.do(ctx, call{
		op:     "reference.colors",
		method: http.MethodGet,
		path:   "/api/reference/colors",
	}, &res)
	return res, err
}
