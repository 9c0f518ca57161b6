package reports

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/minimart-pos/minimart-pos/internal/shared"
)

var testNow = time.Date(2024, 6, 15, 14, 0, 0, 0, time.UTC)

func day(d int) time.Time {
	return time.Date(2024, 6, d, 0, 0, 0, 0, time.UTC)
}

type stubRepo struct {
	orders    []PaidOrderRow
	lines     []OrderLineRow
	stock     []StockSummaryRow
	purchases []PurchaseLineRow
	expenses  []ExpenseRow

	purchasesUntil time.Time
}

func (r *stubRepo) ListPaidOrders(ctx context.Context, from, to time.Time, locationID *int64) ([]PaidOrderRow, error) {
	out := make([]PaidOrderRow, 0)
	for _, row := range r.orders {
		if row.OrderDate.Before(from) || !row.OrderDate.Before(to) {
			continue
		}
		out = append(out, row)
	}
	return out, nil
}

func (r *stubRepo) ListPaidOrderLines(ctx context.Context, from, to time.Time, locationID *int64) ([]OrderLineRow, error) {
	return r.lines, nil
}

func (r *stubRepo) ListStockSummaries(ctx context.Context) ([]StockSummaryRow, error) {
	return r.stock, nil
}

func (r *stubRepo) ListPurchaseLines(ctx context.Context, until time.Time, locationID *int64) ([]PurchaseLineRow, error) {
	r.purchasesUntil = until
	return r.purchases, nil
}

func (r *stubRepo) ListExpenses(ctx context.Context, from, to time.Time, locationID *int64) ([]ExpenseRow, error) {
	return r.expenses, nil
}

func newTestService(repo *stubRepo) *Service {
	return NewService(repo, nil, func() time.Time { return testNow })
}

func TestDailySalesZeroFillsBuckets(t *testing.T) {
	repo := &stubRepo{
		orders: []PaidOrderRow{
			{OrderDate: day(10).Add(9 * time.Hour), Total: 40.00},
			{OrderDate: day(10).Add(17 * time.Hour), Total: 20.00},
			{OrderDate: day(12).Add(11 * time.Hour), Total: 15.50},
		},
	}
	svc := newTestService(repo)

	summary, err := svc.DailySales(context.Background(), day(10), day(13), nil)
	require.NoError(t, err)
	require.Equal(t, day(10), summary.StartDate)
	require.Equal(t, day(13), summary.EndDate)
	require.Len(t, summary.Days, 4)

	require.Equal(t, 60.00, summary.Days[0].TotalSales)
	require.Equal(t, 2, summary.Days[0].OrderCount)
	require.Equal(t, 30.00, summary.Days[0].AverageOrderValue)
	require.Equal(t, 0.00, summary.Days[1].TotalSales)
	require.Equal(t, 0, summary.Days[1].OrderCount)
	require.Equal(t, 0.00, summary.Days[1].AverageOrderValue)
	require.Equal(t, 15.50, summary.Days[2].TotalSales)
	require.Equal(t, 15.50, summary.Days[2].AverageOrderValue)
	require.Equal(t, 0, summary.Days[3].OrderCount)

	require.Equal(t, 75.50, summary.TotalSales)
	require.Equal(t, 3, summary.OrderCount)
	require.Equal(t, 25.17, summary.AverageOrderValue)
}

func TestDailySalesDefaultsToTrailingWeek(t *testing.T) {
	repo := &stubRepo{}
	svc := newTestService(repo)

	summary, err := svc.DailySales(context.Background(), time.Time{}, time.Time{}, nil)
	require.NoError(t, err)
	require.Equal(t, day(9), summary.StartDate)
	require.Equal(t, day(15), summary.EndDate)
	require.Len(t, summary.Days, 7)
	require.Equal(t, 0.00, summary.AverageOrderValue)
}

func TestDailySalesRejectsInvertedRange(t *testing.T) {
	svc := newTestService(&stubRepo{})

	_, err := svc.DailySales(context.Background(), day(15), day(10), nil)
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestTopProductsOrderingAndLimit(t *testing.T) {
	repo := &stubRepo{
		lines: []OrderLineRow{
			{ProductID: 1, ProductName: "Espresso Beans", Quantity: 3, Price: 12.50},
			{ProductID: 1, ProductName: "Espresso Beans", Quantity: 2, Price: 12.50},
			{ProductID: 2, ProductName: "Oat Milk", Quantity: 5, Price: 3.20},
			{ProductID: 3, ProductName: "Filter Papers", Quantity: 5, Price: 3.20},
			{ProductID: 4, ProductName: "Mug", Quantity: 1, Price: 8.00},
		},
	}
	svc := newTestService(repo)

	top, err := svc.TopProducts(context.Background(), day(1), day(15), 3, nil)
	require.NoError(t, err)
	require.Len(t, top, 3)

	// 1 and 2 and 3 all sold five units; Espresso Beans wins on sales value,
	// then the 16.00 tie breaks on name.
	require.Equal(t, int64(1), top[0].ProductID)
	require.Equal(t, 62.50, top[0].TotalSales)
	require.Equal(t, "Filter Papers", top[1].ProductName)
	require.Equal(t, "Oat Milk", top[2].ProductName)
}

func TestTopProductsLimitDefaultsToFive(t *testing.T) {
	lines := make([]OrderLineRow, 0, 8)
	names := []string{"A", "B", "C", "D", "E", "F", "G", "H"}
	for i, name := range names {
		lines = append(lines, OrderLineRow{
			ProductID:   int64(i + 1),
			ProductName: name,
			Quantity:    len(names) - i,
			Price:       1.00,
		})
	}
	svc := newTestService(&stubRepo{lines: lines})

	top, err := svc.TopProducts(context.Background(), day(1), day(15), 0, nil)
	require.NoError(t, err)
	require.Len(t, top, 5)
	require.Equal(t, "A", top[0].ProductName)
}

func TestInventoryValuesAndSorts(t *testing.T) {
	repo := &stubRepo{
		stock: []StockSummaryRow{
			{ProductID: 1, ProductName: "Espresso Beans", SKU: "SKU-1", Quantity: 4, SalePrice: 12.50},
			{ProductID: 2, ProductName: "Oat Milk", SKU: "SKU-2", Quantity: 30, SalePrice: 3.20},
			{ProductID: 3, ProductName: "Filter Papers", SKU: "SKU-3", Quantity: 10, SalePrice: 5.00},
			{ProductID: 4, ProductName: "Decaf Beans", SKU: "SKU-4", Quantity: 4, SalePrice: 12.50},
		},
	}
	svc := newTestService(repo)

	report, err := svc.Inventory(context.Background())
	require.NoError(t, err)
	require.Equal(t, 48, report.TotalQuantity)
	require.Equal(t, 246.00, report.TotalValue)

	require.Equal(t, "Oat Milk", report.Items[0].ProductName)
	require.Equal(t, 96.00, report.Items[0].StockValue)
	require.Equal(t, "Decaf Beans", report.Items[1].ProductName)
	require.Equal(t, "Espresso Beans", report.Items[2].ProductName)
	require.Equal(t, "Filter Papers", report.Items[3].ProductName)
}

func TestProfitAndLossWeightedAverageCost(t *testing.T) {
	repo := &stubRepo{
		orders: []PaidOrderRow{
			{OrderDate: day(10), Total: 122.00, Discount: 3.00},
		},
		lines: []OrderLineRow{
			{ProductID: 1, ProductName: "Espresso Beans", Quantity: 10, Price: 12.50},
		},
		purchases: []PurchaseLineRow{
			{ProductID: 1, Quantity: 10, Price: 6.00},
			{ProductID: 1, Quantity: 30, Price: 8.00},
		},
		stock: []StockSummaryRow{
			{ProductID: 1, ProductName: "Espresso Beans", CostPrice: 7.00},
		},
	}
	svc := newTestService(repo)

	statement, err := svc.ProfitAndLoss(context.Background(), day(1), day(15), nil)
	require.NoError(t, err)

	// Weighted-average unit cost: (10*6 + 30*8) / 40 = 7.50.
	require.Equal(t, 122.00, statement.Revenue)
	require.Equal(t, 3.00, statement.Discounts)
	require.Equal(t, 75.00, statement.CostOfGoods)
	require.Equal(t, 47.00, statement.GrossProfit)
	require.Equal(t, 47.00, statement.NetProfit)

	require.Len(t, statement.Products, 1)
	require.Equal(t, 125.00, statement.Products[0].Revenue)
	require.Equal(t, 75.00, statement.Products[0].Cost)
	require.Equal(t, 50.00, statement.Products[0].Profit)

	// Cost history is cut off at the end of the range, exclusive.
	require.Equal(t, day(16), repo.purchasesUntil)
}

func TestProfitAndLossFallsBackToCatalogCost(t *testing.T) {
	repo := &stubRepo{
		orders: []PaidOrderRow{{OrderDate: day(10), Total: 25.00}},
		lines: []OrderLineRow{
			{ProductID: 2, ProductName: "Oat Milk", Quantity: 5, Price: 5.00},
		},
		stock: []StockSummaryRow{
			{ProductID: 2, ProductName: "Oat Milk", CostPrice: 2.10},
		},
	}
	svc := newTestService(repo)

	statement, err := svc.ProfitAndLoss(context.Background(), day(1), day(15), nil)
	require.NoError(t, err)
	require.Equal(t, 10.50, statement.CostOfGoods)
	require.Equal(t, 14.50, statement.GrossProfit)
}

func TestProfitAndLossGroupsExpenses(t *testing.T) {
	repo := &stubRepo{
		expenses: []ExpenseRow{
			{Category: "RENT", Amount: 500.00},
			{Category: "UTILITIES", Amount: 120.00},
			{Category: "UTILITIES", Amount: 80.00},
			{Category: "SUPPLIES", Amount: 200.00},
		},
	}
	svc := newTestService(repo)

	statement, err := svc.ProfitAndLoss(context.Background(), day(1), day(15), nil)
	require.NoError(t, err)
	require.Equal(t, 900.00, statement.TotalExpenses)
	require.Equal(t, -900.00, statement.NetProfit)

	require.Len(t, statement.Expenses, 3)
	require.Equal(t, "RENT", statement.Expenses[0].Category)
	require.Equal(t, "SUPPLIES", statement.Expenses[1].Category)
	require.Equal(t, 200.00, statement.Expenses[2].Total)
}

func TestProfitAndLossProductsSortByRevenue(t *testing.T) {
	// Margins must not influence the ordering: the low-margin big seller
	// outranks the high-margin small one.
	repo := &stubRepo{
		lines: []OrderLineRow{
			{ProductID: 1, ProductName: "Espresso Beans", Quantity: 10, Price: 10.00},
			{ProductID: 2, ProductName: "Oat Milk", Quantity: 10, Price: 5.00},
		},
		stock: []StockSummaryRow{
			{ProductID: 1, ProductName: "Espresso Beans", CostPrice: 9.00},
			{ProductID: 2, ProductName: "Oat Milk", CostPrice: 1.00},
		},
	}
	svc := newTestService(repo)

	statement, err := svc.ProfitAndLoss(context.Background(), day(1), day(15), nil)
	require.NoError(t, err)
	require.Len(t, statement.Products, 2)
	require.Equal(t, "Espresso Beans", statement.Products[0].ProductName)
	require.Equal(t, 100.00, statement.Products[0].Revenue)
	require.Equal(t, 10.00, statement.Products[0].Profit)
	require.Equal(t, "Oat Milk", statement.Products[1].ProductName)
	require.Equal(t, 40.00, statement.Products[1].Profit)
}

func TestProfitAndLossExpenseTieBreaksOnCategory(t *testing.T) {
	repo := &stubRepo{
		expenses: []ExpenseRow{
			{Category: "UTILITIES", Amount: 100.00},
			{Category: "RENT", Amount: 100.00},
		},
	}
	svc := newTestService(repo)

	statement, err := svc.ProfitAndLoss(context.Background(), day(1), day(15), nil)
	require.NoError(t, err)
	require.Equal(t, "RENT", statement.Expenses[0].Category)
	require.Equal(t, "UTILITIES", statement.Expenses[1].Category)
}
