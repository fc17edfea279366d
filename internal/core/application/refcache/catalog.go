package refcache

import (
	"context"
	"time"

	"orderwizard/internal/core/domain/model/catalog"
	"orderwizard/internal/core/domain/model/kernel"
	"orderwizard/internal/core/ports"
)

// TTLs are the lifetimes of each reference-data domain.
type TTLs struct {
	Categories time.Duration
	PriceList  time.Duration
	Materials  time.Duration
	Colors     time.Duration
}

// DefaultTTLs keeps prices for minutes and near-static lists for hours.
func DefaultTTLs() TTLs {
	return TTLs{
		Categories: time.Hour,
		PriceList:  5 * time.Minute,
		Materials:  2 * time.Hour,
		Colors:     2 * time.Hour,
	}
}

var (
	_ ports.PriceList     = (*Catalog)(nil)
	_ ports.ReferenceData = (*Catalog)(nil)
)

// Catalog is a read-through cache in front of the price list and reference data services.
// Each wizard owns one Catalog; it is never shared between sessions.
type Catalog struct {
	priceList ports.PriceList
	refData   ports.ReferenceData

	categories *Cache[bool, []catalog.Category]
	items      *Cache[kernel.UUID, []catalog.PriceListItem]
	item       *Cache[kernel.UUID, catalog.PriceListItem]
	materials  *Cache[string, []catalog.Material]
	colors     *Cache[struct{}, []catalog.Color]
}

func NewCatalog(priceList ports.PriceList, refData ports.ReferenceData, ttls TTLs, clock kernel.Clock) *Catalog {
	return &Catalog{
		priceList:  priceList,
		refData:    refData,
		categories: New[bool, []catalog.Category]("categories", ttls.Categories, clock),
		items:      New[kernel.UUID, []catalog.PriceListItem]("price_list", ttls.PriceList, clock),
		item:       New[kernel.UUID, catalog.PriceListItem]("price_list_item", ttls.PriceList, clock),
		materials:  New[string, []catalog.Material]("materials", ttls.Materials, clock),
		colors:     New[struct{}, []catalog.Color]("colors", ttls.Colors, clock),
	}
}

func (c *Catalog) GetCategories(ctx context.Context, activeOnly bool) ([]catalog.Category, error) {
	return c.categories.Get(ctx, activeOnly, func(ctx context.Context) ([]catalog.Category, error) {
		return c.priceList.GetCategories(ctx, activeOnly)
	})
}

func (c *Catalog) GetItemsByCategory(ctx context.Context, categoryID kernel.UUID) ([]catalog.PriceListItem, error) {
	return c.items.Get(ctx, categoryID, func(ctx context.Context) ([]catalog.PriceListItem, error) {
		return c.priceList.GetItemsByCategory(ctx, categoryID)
	})
}

func (c *Catalog) GetItem(ctx context.Context, id kernel.UUID) (catalog.PriceListItem, error) {
	return c.item.Get(ctx, id, func(ctx context.Context) (catalog.PriceListItem, error) {
		return c.priceList.GetItem(ctx, id)
	})
}

func (c *Catalog) Materials(ctx context.Context, categoryCode string) ([]catalog.Material, error) {
	return c.materials.Get(ctx, categoryCode, func(ctx context.Context) ([]catalog.Material, error) {
		return c.refData.Materials(ctx, categoryCode)
	})
}

func (c *Catalog) Colors(ctx context.Context) ([]catalog.Color, error) {
	return c.colors.Get(ctx, struct{}{}, func(ctx context.Context) ([]catalog.Color, error) {
		return c.refData.Colors(ctx)
	})
}

// InvalidateAll clears every domain. Called on wizard reset.
func (c *Catalog) InvalidateAll() {
	c.categories.InvalidateAll()
	c.items.InvalidateAll()
	c.item.InvalidateAll()
	c.materials.InvalidateAll()
	c.colors.InvalidateAll()
}

// Purge drops expired entries of every domain.
func (c *Catalog) Purge() int {
	return c.categories.Purge() + c.items.Purge() + c.item.Purge() + c.materials.Purge() + c.colors.Purge()
}
