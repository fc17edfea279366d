package item_test

import (
	"testing"

	"orderwizard/internal/core/domain/model/item"
	"orderwizard/internal/core/domain/model/kernel"
	"orderwizard/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestList_AddKeepsOrderAndUniqueness(t *testing.T) {
	var l item.List
	a := pricedDraft(t, "Одяг", 100)
	b := pricedDraft(t, "Взуття", 250)

	require.NoError(t, l.Add(a))
	require.NoError(t, l.Add(b))
	require.ErrorIs(t, l.Add(a), errs.ErrValueIsInvalid)

	items := l.Items()
	require.Len(t, items, 2)
	assert.True(t, items[0].ID().IsEqual(a.ID()))
	assert.True(t, items[1].ID().IsEqual(b.ID()))
	assert.True(t, l.TotalAmount().Equal(decimal.NewFromInt(350)))
	assert.True(t, l.IsSubmittable())
}

func TestList_RemoveAndGet(t *testing.T) {
	var l item.List
	a := pricedDraft(t, "Одяг", 100)
	require.NoError(t, l.Add(a))

	got, err := l.Get(a.ID())
	require.NoError(t, err)
	assert.True(t, got.ID().IsEqual(a.ID()))

	removed, err := l.Remove(a.ID())
	require.NoError(t, err)
	assert.Same(t, a, removed)
	assert.True(t, l.IsEmpty())
	assert.True(t, l.TotalAmount().IsZero())

	_, err = l.Remove(a.ID())
	require.ErrorIs(t, err, errs.ErrObjectNotFound)
	_, err = l.Get(kernel.NewUUID())
	require.ErrorIs(t, err, errs.ErrObjectNotFound)
}

func TestList_EmptyIsNotSubmittable(t *testing.T) {
	var l item.List
	assert.False(t, l.IsSubmittable())

	unpriced, err := item.NewDraft(kernel.NewUUID(), t0)
	require.NoError(t, err)
	unpriced.SetBasicInfo(basicInfo("Одяг"), t0)
	require.NoError(t, l.Add(unpriced))
	assert.False(t, l.IsSubmittable())
}

func TestList_RemoveThenCommitRestoresCount(t *testing.T) {
	var l item.List
	for range 3 {
		require.NoError(t, l.Add(pricedDraft(t, "Одяг", 100)))
	}
	before := l.Len()
	id := l.Items()[1].ID()

	d, err := l.Remove(id)
	require.NoError(t, err)
	require.NoError(t, d.CanCommit())
	require.NoError(t, l.Add(d))

	assert.Equal(t, before, l.Len())
}

func TestList_InsertAtClampsPosition(t *testing.T) {
	var l item.List
	a := pricedDraft(t, "Одяг", 100)
	b := pricedDraft(t, "Одяг", 100)
	c := pricedDraft(t, "Одяг", 100)

	require.NoError(t, l.Add(a))
	require.NoError(t, l.InsertAt(0, b))
	require.NoError(t, l.InsertAt(99, c))

	assert.Equal(t, 0, l.IndexOf(b.ID()))
	assert.Equal(t, 1, l.IndexOf(a.ID()))
	assert.Equal(t, 2, l.IndexOf(c.ID()))
	require.ErrorIs(t, l.InsertAt(1, a), errs.ErrValueIsInvalid)
}
