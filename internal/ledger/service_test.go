package ledger

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/minimart-pos/minimart-pos/internal/catalog"
	"github.com/minimart-pos/minimart-pos/internal/shared"
)

type memoryRepo struct {
	stocks         map[string]Stock
	movements      []Movement
	nextStockID    int64
	nextMovementID int64
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{stocks: make(map[string]Stock)}
}

func stockKey(productID, locationID int64) string {
	return fmt.Sprintf("%d:%d", productID, locationID)
}

func (r *memoryRepo) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	shadow := &memoryRepo{
		stocks:         make(map[string]Stock, len(r.stocks)),
		movements:      append([]Movement(nil), r.movements...),
		nextStockID:    r.nextStockID,
		nextMovementID: r.nextMovementID,
	}
	for k, v := range r.stocks {
		shadow.stocks[k] = v
	}
	if err := fn(ctx, &memoryTx{repo: shadow}); err != nil {
		return err
	}
	*r = *shadow
	return nil
}

func (r *memoryRepo) ListStocks(ctx context.Context, productID, locationID *int64) ([]Stock, error) {
	out := make([]Stock, 0)
	for _, stock := range r.stocks {
		if productID != nil && stock.ProductID != *productID {
			continue
		}
		if locationID != nil && stock.LocationID != *locationID {
			continue
		}
		out = append(out, stock)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memoryRepo) ListMovements(ctx context.Context, productID *int64, from, to time.Time) ([]Movement, error) {
	out := make([]Movement, 0)
	for _, m := range r.movements {
		if productID != nil && m.ProductID != *productID {
			continue
		}
		if m.CreatedAt.Before(from) || !m.CreatedAt.Before(to) {
			continue
		}
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

type memoryTx struct {
	repo *memoryRepo
}

func (tx *memoryTx) GetStockForUpdate(ctx context.Context, productID, locationID int64) (Stock, error) {
	if stock, ok := tx.repo.stocks[stockKey(productID, locationID)]; ok {
		return stock, nil
	}
	return Stock{}, ErrStockNotFound
}

func (tx *memoryTx) SaveStock(ctx context.Context, stock Stock) (Stock, error) {
	if stock.ID == 0 {
		tx.repo.nextStockID++
		stock.ID = tx.repo.nextStockID
	}
	tx.repo.stocks[stockKey(stock.ProductID, stock.LocationID)] = stock
	return stock, nil
}

func (tx *memoryTx) InsertMovement(ctx context.Context, movement Movement) (Movement, error) {
	tx.repo.nextMovementID++
	movement.ID = tx.repo.nextMovementID
	tx.repo.movements = append(tx.repo.movements, movement)
	return movement, nil
}

type catalogStub struct {
	products  map[int64]catalog.Product
	locations map[int64]catalog.Location
}

func newCatalogStub() *catalogStub {
	return &catalogStub{
		products: map[int64]catalog.Product{
			1: {ID: 1, Name: "Espresso Beans", SKU: "SKU-1", Price: 12.50, CostPrice: 7.00},
			2: {ID: 2, Name: "Oat Milk", SKU: "SKU-2", Price: 3.20, CostPrice: 2.10},
		},
		locations: map[int64]catalog.Location{
			1: {ID: 1, Name: "Main Street"},
			2: {ID: 2, Name: "Harbor"},
		},
	}
}

func (c *catalogStub) GetProduct(ctx context.Context, id int64) (catalog.Product, error) {
	if p, ok := c.products[id]; ok {
		return p, nil
	}
	return catalog.Product{}, shared.ErrNotFound
}

func (c *catalogStub) ListProducts(ctx context.Context) ([]catalog.Product, error) {
	out := make([]catalog.Product, 0, len(c.products))
	for _, p := range c.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (c *catalogStub) GetLocation(ctx context.Context, id int64) (catalog.Location, error) {
	if l, ok := c.locations[id]; ok {
		return l, nil
	}
	return catalog.Location{}, shared.ErrNotFound
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

var testNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func newTestService(repo *memoryRepo) *Service {
	return NewService(repo, newCatalogStub(), nil, nil, fixedClock(testNow))
}

func TestPostSignTable(t *testing.T) {
	cases := []struct {
		movementType MovementType
		want         int
	}{
		{MovementPurchase, 10},
		{MovementReceive, 10},
		{MovementReturn, 10},
		{MovementAdjustment, 10},
	}
	for _, tc := range cases {
		t.Run(string(tc.movementType), func(t *testing.T) {
			repo := newMemoryRepo()
			svc := newTestService(repo)
			movement, quantity, err := svc.Post(context.Background(), Posting{ProductID: 1, LocationID: 1, Type: tc.movementType, Quantity: 10})
			require.NoError(t, err)
			require.Equal(t, tc.want, quantity)
			require.Equal(t, tc.want, movement.QuantityChange)
		})
	}
}

func TestPostSaleAndTransferSubtract(t *testing.T) {
	for _, movementType := range []MovementType{MovementSale, MovementTransfer} {
		t.Run(string(movementType), func(t *testing.T) {
			repo := newMemoryRepo()
			svc := newTestService(repo)
			_, _, err := svc.Post(context.Background(), Posting{ProductID: 1, LocationID: 1, Type: MovementPurchase, Quantity: 10})
			require.NoError(t, err)

			movement, quantity, err := svc.Post(context.Background(), Posting{ProductID: 1, LocationID: 1, Type: movementType, Quantity: 4})
			require.NoError(t, err)
			require.Equal(t, 6, quantity)
			require.Equal(t, -4, movement.QuantityChange)
		})
	}
}

func TestPostDefaultsToAdjustment(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo)
	movement, quantity, err := svc.Post(context.Background(), Posting{ProductID: 1, LocationID: 1, Quantity: 3})
	require.NoError(t, err)
	require.Equal(t, MovementAdjustment, movement.Type)
	require.Equal(t, 3, quantity)
}

func TestPostGeneratesReferenceWhenMissing(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo)

	movement, _, err := svc.Post(context.Background(), Posting{ProductID: 1, LocationID: 1, Quantity: 3})
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(movement.Reference, "ADJ-"))

	movement, _, err = svc.Post(context.Background(), Posting{ProductID: 1, LocationID: 1, Quantity: 1, Reference: "COUNT-42"})
	require.NoError(t, err)
	require.Equal(t, "COUNT-42", movement.Reference)
}

func TestPostRejectsNonPositiveQuantity(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo)
	_, _, err := svc.Post(context.Background(), Posting{ProductID: 1, LocationID: 1, Quantity: 0})
	require.ErrorIs(t, err, shared.ErrValidation)
	_, _, err = svc.Post(context.Background(), Posting{ProductID: 1, LocationID: 1, Quantity: -2})
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestPostRejectsUnknownTarget(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo)
	_, _, err := svc.Post(context.Background(), Posting{ProductID: 99, LocationID: 1, Quantity: 1})
	require.ErrorIs(t, err, shared.ErrNotFound)
	_, _, err = svc.Post(context.Background(), Posting{ProductID: 1, LocationID: 99, Quantity: 1})
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestPostInsufficientStockWritesNothing(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo)
	_, _, err := svc.Post(context.Background(), Posting{ProductID: 1, LocationID: 1, Type: MovementSale, Quantity: 1})
	require.ErrorIs(t, err, shared.ErrInsufficientStock)
	require.Empty(t, repo.movements)
	require.Empty(t, repo.stocks)
}

func TestReconciliationInvariant(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	postings := []Posting{
		{ProductID: 1, LocationID: 1, Type: MovementPurchase, Quantity: 50},
		{ProductID: 1, LocationID: 1, Type: MovementSale, Quantity: 5},
		{ProductID: 1, LocationID: 1, Type: MovementReturn, Quantity: 5},
		{ProductID: 1, LocationID: 1, Type: MovementTransfer, Quantity: 8},
		{ProductID: 1, LocationID: 1, Type: MovementReceive, Quantity: 3},
	}
	for _, p := range postings {
		_, _, err := svc.Post(ctx, p)
		require.NoError(t, err)
	}

	sum := 0
	for _, m := range repo.movements {
		sum += m.QuantityChange
	}
	stock := repo.stocks[stockKey(1, 1)]
	require.Equal(t, sum, stock.Quantity)
	require.Equal(t, 45, stock.Quantity)
}

func TestLevelsWithLocationIncludesZeroRows(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	_, _, err := svc.Post(ctx, Posting{ProductID: 1, LocationID: 1, Type: MovementPurchase, Quantity: 7})
	require.NoError(t, err)

	locationID := int64(1)
	levels, err := svc.Levels(ctx, nil, &locationID)
	require.NoError(t, err)
	require.Len(t, levels, 2)

	byProduct := make(map[int64]StockLevel)
	for _, level := range levels {
		byProduct[level.ProductID] = level
	}
	require.Equal(t, 7, byProduct[1].Quantity)
	require.NotNil(t, byProduct[1].StockID)
	require.Equal(t, 0, byProduct[2].Quantity)
	require.Nil(t, byProduct[2].StockID)
}

func TestLevelsProductWithoutStockYieldsZeroRow(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo)

	productID := int64(2)
	levels, err := svc.Levels(context.Background(), &productID, nil)
	require.NoError(t, err)
	require.Len(t, levels, 1)
	require.Equal(t, int64(2), levels[0].ProductID)
	require.Equal(t, 0, levels[0].Quantity)
	require.Nil(t, levels[0].StockID)
}

func TestMovementsRejectsInvertedRange(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo)

	_, err := svc.Movements(context.Background(), MovementFilter{
		From: testNow,
		To:   testNow.AddDate(0, 0, -1),
	})
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestMovementsDefaultThirtyDayWindow(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	_, _, err := svc.Post(ctx, Posting{ProductID: 1, LocationID: 1, Type: MovementPurchase, Quantity: 2})
	require.NoError(t, err)
	repo.movements = append(repo.movements, Movement{
		ID: 99, ProductID: 1, LocationID: 1, Type: MovementPurchase,
		QuantityChange: 1, CreatedAt: testNow.AddDate(0, 0, -45),
	})

	movements, err := svc.Movements(ctx, MovementFilter{})
	require.NoError(t, err)
	require.Len(t, movements, 1)
	require.Equal(t, 2, movements[0].QuantityChange)
}
