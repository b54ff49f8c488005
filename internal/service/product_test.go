package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/al3-rom/wannago/internal/domain"
)

type productFixtures struct {
	svc      *ProductService
	offerSvc *OfferService
	products *fakeProductRepo
	offers   *fakeOfferRepo
	blocks   *fakeBlockRepo
}

func newProductFixtures() productFixtures {
	products := newFakeProductRepo()
	offers := newFakeOfferRepo(products)
	blocks := newFakeBlockRepo()
	gate := NewGate(blocks)

	return productFixtures{
		svc:      NewProductService(products, offers, blocks, gate),
		offerSvc: NewOfferService(offers, products, blocks, gate),
		products: products,
		offers:   offers,
		blocks:   blocks,
	}
}

func TestProductCreate(t *testing.T) {
	fx := newProductFixtures()
	ctx := context.Background()

	seller := wannerUser(1)

	product, err := fx.svc.Create(ctx, seller, domain.Product{
		Title: "old couch",
		Price: 80,
	})
	require.NoError(t, err)
	assert.Equal(t, seller.ID, product.SellerID)

	_, err = fx.svc.Create(ctx, domain.User{ID: 2, Role: domain.RoleModerator}, domain.Product{Title: "x", Price: 1})
	assert.ErrorIs(t, err, ErrForbidden, "only wanners sell")
}

func TestProductUpdateGuards(t *testing.T) {
	fx := newProductFixtures()
	ctx := context.Background()

	seller := wannerUser(1)
	buyer := wannerUser(2)
	product := fx.products.add(seller.ID, 100)

	_, err := fx.svc.Update(ctx, buyer, domain.Product{ID: product.ID, Title: "mine now", Price: 1})
	assert.ErrorIs(t, err, ErrForbidden)

	updated, err := fx.svc.Update(ctx, seller, domain.Product{ID: product.ID, Title: "better title", Price: 90})
	require.NoError(t, err)
	assert.Equal(t, "better title", updated.Title)

	offer, err := fx.offerSvc.Submit(ctx, buyer, product.ID, 95)
	require.NoError(t, err)
	_, err = fx.offerSvc.Accept(ctx, seller, offer.ID, "")
	require.NoError(t, err)

	_, err = fx.svc.Update(ctx, seller, domain.Product{ID: product.ID, Title: "too late", Price: 10})
	assert.ErrorIs(t, err, ErrProductSold)
	assert.ErrorIs(t, fx.svc.Delete(ctx, seller, product.ID), ErrProductSold)
}

func TestProductGetBlockedVisibility(t *testing.T) {
	fx := newProductFixtures()
	ctx := context.Background()

	seller := wannerUser(1)
	viewer := wannerUser(2)
	moderator := domain.User{ID: 3, Role: domain.RoleModerator}
	product := fx.products.add(seller.ID, 100)

	_, err := fx.blocks.BlockProduct(ctx, domain.BlockedProduct{ProductID: product.ID, ModeratorID: moderator.ID})
	require.NoError(t, err)

	_, err = fx.svc.Get(ctx, viewer, product.ID)
	assert.ErrorIs(t, err, ErrBlocked)

	got, err := fx.svc.Get(ctx, moderator, product.ID)
	require.NoError(t, err)
	assert.True(t, got.Blocked)

	got, err = fx.svc.Get(ctx, seller, product.ID)
	require.NoError(t, err)
	assert.True(t, got.Blocked, "the owner sees their own blocked product")
}
