package dao

import (
	"context"
	"fmt"
	"log"
	"os"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var testDB *gorm.DB

func TestMain(m *testing.M) {
	pool, err := dockertest.NewPool("")
	if err != nil {
		log.Printf("skipping dao tests, docker unavailable: %v", err)
		os.Exit(0)
	}
	if err := pool.Client.Ping(); err != nil {
		log.Printf("skipping dao tests, docker unavailable: %v", err)
		os.Exit(0)
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16-alpine",
		Env: []string{
			"POSTGRES_USER=test",
			"POSTGRES_PASSWORD=test",
			"POSTGRES_DB=wannago_test",
		},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		log.Fatalf("could not start postgres container: %v", err)
	}

	dsn := fmt.Sprintf(
		"host=localhost port=%s user=test password=test dbname=wannago_test sslmode=disable",
		resource.GetPort("5432/tcp"),
	)

	pool.MaxWait = 60 * time.Second
	if err := pool.Retry(func() error {
		db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
			Logger: gormlogger.Default.LogMode(gormlogger.Silent),
		})
		if err != nil {
			return err
		}

		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		if err := sqlDB.Ping(); err != nil {
			return err
		}

		testDB = db

		return nil
	}); err != nil {
		log.Fatalf("could not connect to postgres container: %v", err)
	}

	if err := InitTables(testDB); err != nil {
		log.Fatalf("could not migrate tables: %v", err)
	}

	code := m.Run()

	if err := pool.Purge(resource); err != nil {
		log.Printf("could not purge postgres container: %v", err)
	}

	os.Exit(code)
}

func resetTables(t *testing.T) {
	t.Helper()

	for _, table := range []string{
		"blocked_products", "blocked_users",
		"accepted_offers", "offers", "products", "categories", "users",
	} {
		require.NoError(t, testDB.Exec("DELETE FROM "+table).Error)
	}
}

type market struct {
	seller  User
	buyer   User
	rival   User
	product Product
}

func seedMarket(t *testing.T) market {
	t.Helper()

	users := NewUserDAO(testDB)
	products := NewProductDAO(testDB)
	ctx := context.Background()

	newUser := func(email string) User {
		user, err := users.Insert(ctx, User{
			Email:    email,
			Password: "hash",
			Name:     email,
			Role:     "wanner",
			Verified: true,
		})
		require.NoError(t, err)
		return user
	}

	seller := newUser("seller@example.com")
	buyer := newUser("buyer@example.com")
	rival := newUser("rival@example.com")

	category := Category{Name: "Other"}
	require.NoError(t, testDB.Create(&category).Error)

	product, err := products.Insert(ctx, Product{
		Title:       "old bike",
		Description: "ridden once",
		Price:       100,
		CategoryID:  category.ID,
		SellerID:    seller.ID,
	})
	require.NoError(t, err)

	return market{seller: seller, buyer: buyer, rival: rival, product: product}
}

func TestOfferInsertDuplicate(t *testing.T) {
	resetTables(t)
	m := seedMarket(t)
	offers := NewOfferDAO(testDB)
	ctx := context.Background()

	_, err := offers.Insert(ctx, Offer{ProductID: m.product.ID, BuyerID: m.buyer.ID, Price: 90, Active: true})
	require.NoError(t, err)

	_, err = offers.Insert(ctx, Offer{ProductID: m.product.ID, BuyerID: m.buyer.ID, Price: 95, Active: true})
	assert.ErrorIs(t, err, ErrDuplicateOffer)

	// A different buyer on the same product is fine.
	_, err = offers.Insert(ctx, Offer{ProductID: m.product.ID, BuyerID: m.rival.ID, Price: 95, Active: true})
	assert.NoError(t, err)
}

func TestOfferAcceptAndRevert(t *testing.T) {
	resetTables(t)
	m := seedMarket(t)
	offers := NewOfferDAO(testDB)
	ctx := context.Background()

	first, err := offers.Insert(ctx, Offer{ProductID: m.product.ID, BuyerID: m.buyer.ID, Price: 100, Active: true})
	require.NoError(t, err)
	second, err := offers.Insert(ctx, Offer{ProductID: m.product.ID, BuyerID: m.rival.ID, Price: 120, Active: true})
	require.NoError(t, err)

	_, err = offers.Accept(ctx, AcceptedOffer{OfferID: first.ID, ProductID: m.product.ID, Instructions: "meet at noon"})
	require.NoError(t, err)

	// Every offer on the product goes inactive, the accepted one included.
	var active int64
	require.NoError(t, testDB.Model(&Offer{}).
		Where("product_id = ? AND active", m.product.ID).
		Count(&active).Error)
	assert.Zero(t, active)

	sold, err := offers.ProductSold(ctx, m.product.ID)
	require.NoError(t, err)
	assert.True(t, sold)

	// The unique product_id index refuses a second sale.
	_, err = offers.Accept(ctx, AcceptedOffer{OfferID: second.ID, ProductID: m.product.ID})
	assert.ErrorIs(t, err, ErrOfferAlreadyAccepted)

	require.NoError(t, offers.Revert(ctx, AcceptedOffer{OfferID: first.ID, ProductID: m.product.ID}))

	require.NoError(t, testDB.Model(&Offer{}).
		Where("product_id = ? AND active", m.product.ID).
		Count(&active).Error)
	assert.EqualValues(t, 2, active)

	assert.ErrorIs(t,
		offers.Revert(ctx, AcceptedOffer{OfferID: first.ID, ProductID: m.product.ID}),
		ErrAcceptedOfferNotFound)

	// The product can now sell to the other offer.
	_, err = offers.Accept(ctx, AcceptedOffer{OfferID: second.ID, ProductID: m.product.ID})
	assert.NoError(t, err)
}

func TestBlockUserPurgesPendingOffers(t *testing.T) {
	resetTables(t)
	m := seedMarket(t)
	offers := NewOfferDAO(testDB)
	blocks := NewBlockDAO(testDB)
	products := NewProductDAO(testDB)
	ctx := context.Background()

	category := Category{Name: "Books"}
	require.NoError(t, testDB.Create(&category).Error)
	other, err := products.Insert(ctx, Product{
		Title:       "paperback",
		Description: "dog-eared",
		Price:       5,
		CategoryID:  category.ID,
		SellerID:    m.rival.ID,
	})
	require.NoError(t, err)

	accepted, err := offers.Insert(ctx, Offer{ProductID: m.product.ID, BuyerID: m.buyer.ID, Price: 100, Active: true})
	require.NoError(t, err)
	_, err = offers.Accept(ctx, AcceptedOffer{OfferID: accepted.ID, ProductID: m.product.ID})
	require.NoError(t, err)

	pending, err := offers.Insert(ctx, Offer{ProductID: other.ID, BuyerID: m.buyer.ID, Price: 4, Active: true})
	require.NoError(t, err)

	_, err = blocks.BlockUser(ctx, BlockedUser{UserID: m.buyer.ID, ModeratorID: m.seller.ID, Reason: "spam"})
	require.NoError(t, err)

	// The pending offer is gone, the settled sale survives.
	_, err = offers.FindByID(ctx, pending.ID)
	assert.ErrorIs(t, err, ErrOfferNotFound)
	_, err = offers.FindByID(ctx, accepted.ID)
	assert.NoError(t, err)
	_, err = offers.FindAccepted(ctx, accepted.ID)
	assert.NoError(t, err)

	_, err = blocks.BlockUser(ctx, BlockedUser{UserID: m.buyer.ID, ModeratorID: m.seller.ID, Reason: "again"})
	assert.ErrorIs(t, err, ErrUserAlreadyBlocked)
}

func TestBalanceSums(t *testing.T) {
	resetTables(t)
	m := seedMarket(t)
	offers := NewOfferDAO(testDB)
	products := NewProductDAO(testDB)
	ctx := context.Background()

	sale, err := offers.Insert(ctx, Offer{ProductID: m.product.ID, BuyerID: m.buyer.ID, Price: 110, Active: true})
	require.NoError(t, err)
	_, err = offers.Accept(ctx, AcceptedOffer{OfferID: sale.ID, ProductID: m.product.ID})
	require.NoError(t, err)

	var category Category
	require.NoError(t, testDB.First(&category).Error)
	resale, err := products.Insert(ctx, Product{
		Title:       "lamp",
		Description: "works",
		Price:       30,
		CategoryID:  category.ID,
		SellerID:    m.buyer.ID,
	})
	require.NoError(t, err)
	purchase, err := offers.Insert(ctx, Offer{ProductID: resale.ID, BuyerID: m.rival.ID, Price: 25, Active: true})
	require.NoError(t, err)
	_, err = offers.Accept(ctx, AcceptedOffer{OfferID: purchase.ID, ProductID: resale.ID})
	require.NoError(t, err)

	sales, err := offers.SumAcceptedSales(ctx, m.buyer.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 25, sales)

	purchases, err := offers.SumAcceptedPurchases(ctx, m.buyer.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 110, purchases)
}
