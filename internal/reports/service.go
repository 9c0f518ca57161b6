package reports

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/minimart-pos/minimart-pos/internal/shared"
)

const defaultTopLimit = 5

// RepositoryPort abstracts the read-only report queries.
type RepositoryPort interface {
	ListPaidOrders(ctx context.Context, from, to time.Time, locationID *int64) ([]PaidOrderRow, error)
	ListPaidOrderLines(ctx context.Context, from, to time.Time, locationID *int64) ([]OrderLineRow, error)
	ListStockSummaries(ctx context.Context) ([]StockSummaryRow, error)
	ListPurchaseLines(ctx context.Context, until time.Time, locationID *int64) ([]PurchaseLineRow, error)
	ListExpenses(ctx context.Context, from, to time.Time, locationID *int64) ([]ExpenseRow, error)
}

// Service aggregates orders, stock and expenses into report views. It never
// writes; invalidation happens on the write side via Cache.Bump.
type Service struct {
	repo  RepositoryPort
	cache *Cache
	now   func() time.Time
}

// NewService builds Service. A nil cache disables caching, a nil clock
// defaults to time.Now.
func NewService(repo RepositoryPort, cache *Cache, clock func() time.Time) *Service {
	if clock == nil {
		clock = time.Now
	}
	return &Service{repo: repo, cache: cache, now: clock}
}

// dayRange resolves an inclusive day range with the given trailing default.
func (s *Service) dayRange(start, end time.Time, defaultSpan func(end time.Time) time.Time) (time.Time, time.Time, error) {
	endDay := shared.OrDay(end, s.now())
	startDay := start
	if startDay.IsZero() {
		startDay = defaultSpan(endDay)
	}
	startDay = shared.Day(startDay)
	if endDay.Before(startDay) {
		return time.Time{}, time.Time{}, fmt.Errorf("reports: end date cannot be before start date: %w", shared.ErrValidation)
	}
	return startDay, endDay, nil
}

// DailySales sums paid orders per calendar day over an inclusive range
// defaulting to the trailing seven days ending today. Days without orders
// appear as zero buckets.
func (s *Service) DailySales(ctx context.Context, start, end time.Time, locationID *int64) (DailySalesSummary, error) {
	startDay, endDay, err := s.dayRange(start, end, func(end time.Time) time.Time {
		return end.AddDate(0, 0, -6)
	})
	if err != nil {
		return DailySalesSummary{}, err
	}

	var summary DailySalesSummary
	key, err := s.cache.BuildKey(ctx, keyDailySales(startDay, endDay, locationID))
	if err != nil {
		return DailySalesSummary{}, err
	}
	err = s.cache.FetchJSON(ctx, key, &summary, func(ctx context.Context) (interface{}, error) {
		return s.buildDailySales(ctx, startDay, endDay, locationID)
	})
	return summary, err
}

func (s *Service) buildDailySales(ctx context.Context, startDay, endDay time.Time, locationID *int64) (DailySalesSummary, error) {
	from, to := shared.DayRange(startDay, endDay)
	orders, err := s.repo.ListPaidOrders(ctx, from, to, locationID)
	if err != nil {
		return DailySalesSummary{}, err
	}

	buckets := make(map[time.Time]*DailySalesBucket)
	days := make([]DailySalesBucket, 0)
	for day := startDay; !day.After(endDay); day = day.AddDate(0, 0, 1) {
		days = append(days, DailySalesBucket{Date: day})
	}
	for i := range days {
		buckets[days[i].Date] = &days[i]
	}

	summary := DailySalesSummary{StartDate: startDay, EndDate: endDay}
	for _, order := range orders {
		bucket, ok := buckets[shared.Day(order.OrderDate)]
		if !ok {
			continue
		}
		bucket.OrderCount++
		bucket.TotalSales += order.Total
		summary.OrderCount++
		summary.TotalSales += order.Total
	}
	for i := range days {
		days[i].TotalSales = shared.Round2(days[i].TotalSales)
		if days[i].OrderCount > 0 {
			days[i].AverageOrderValue = shared.Round2(days[i].TotalSales / float64(days[i].OrderCount))
		}
	}
	summary.TotalSales = shared.Round2(summary.TotalSales)
	if summary.OrderCount > 0 {
		summary.AverageOrderValue = shared.Round2(summary.TotalSales / float64(summary.OrderCount))
	}
	summary.Days = days
	return summary, nil
}

// TopProducts ranks products by paid sales over an inclusive range
// defaulting to the trailing month ending today. A limit of zero or less
// falls back to five.
func (s *Service) TopProducts(ctx context.Context, start, end time.Time, limit int, locationID *int64) ([]TopProduct, error) {
	startDay, endDay, err := s.dayRange(start, end, func(end time.Time) time.Time {
		return end.AddDate(0, -1, 0)
	})
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultTopLimit
	}

	var top []TopProduct
	key, err := s.cache.BuildKey(ctx, keyTopProducts(startDay, endDay, limit, locationID))
	if err != nil {
		return nil, err
	}
	err = s.cache.FetchJSON(ctx, key, &top, func(ctx context.Context) (interface{}, error) {
		return s.buildTopProducts(ctx, startDay, endDay, limit, locationID)
	})
	return top, err
}

func (s *Service) buildTopProducts(ctx context.Context, startDay, endDay time.Time, limit int, locationID *int64) ([]TopProduct, error) {
	from, to := shared.DayRange(startDay, endDay)
	lines, err := s.repo.ListPaidOrderLines(ctx, from, to, locationID)
	if err != nil {
		return nil, err
	}

	byProduct := make(map[int64]*TopProduct)
	for _, line := range lines {
		entry, ok := byProduct[line.ProductID]
		if !ok {
			entry = &TopProduct{ProductID: line.ProductID, ProductName: line.ProductName}
			byProduct[line.ProductID] = entry
		}
		entry.QuantitySold += line.Quantity
		entry.TotalSales += line.Price * float64(line.Quantity)
	}

	top := make([]TopProduct, 0, len(byProduct))
	for _, entry := range byProduct {
		entry.TotalSales = shared.Round2(entry.TotalSales)
		top = append(top, *entry)
	}
	sort.Slice(top, func(i, j int) bool {
		if top[i].QuantitySold != top[j].QuantitySold {
			return top[i].QuantitySold > top[j].QuantitySold
		}
		if top[i].TotalSales != top[j].TotalSales {
			return top[i].TotalSales > top[j].TotalSales
		}
		return top[i].ProductName < top[j].ProductName
	})
	if len(top) > limit {
		top = top[:limit]
	}
	return top, nil
}

// Inventory values current stock per product across all locations at the
// current sale price.
func (s *Service) Inventory(ctx context.Context) (InventoryReport, error) {
	var report InventoryReport
	key, err := s.cache.BuildKey(ctx, keyInventory())
	if err != nil {
		return InventoryReport{}, err
	}
	err = s.cache.FetchJSON(ctx, key, &report, func(ctx context.Context) (interface{}, error) {
		return s.buildInventory(ctx)
	})
	return report, err
}

func (s *Service) buildInventory(ctx context.Context) (InventoryReport, error) {
	summaries, err := s.repo.ListStockSummaries(ctx)
	if err != nil {
		return InventoryReport{}, err
	}

	report := InventoryReport{Items: make([]InventoryItem, 0, len(summaries))}
	for _, row := range summaries {
		value := shared.Round2(row.SalePrice * float64(row.Quantity))
		report.Items = append(report.Items, InventoryItem{
			ProductID:   row.ProductID,
			ProductName: row.ProductName,
			SKU:         row.SKU,
			Quantity:    row.Quantity,
			UnitPrice:   row.SalePrice,
			StockValue:  value,
		})
		report.TotalValue += value
		report.TotalQuantity += row.Quantity
	}
	sort.Slice(report.Items, func(i, j int) bool {
		if report.Items[i].StockValue != report.Items[j].StockValue {
			return report.Items[i].StockValue > report.Items[j].StockValue
		}
		return report.Items[i].ProductName < report.Items[j].ProductName
	})
	report.TotalValue = shared.Round2(report.TotalValue)
	return report, nil
}

// ProfitAndLoss builds the statement for an inclusive range defaulting to
// the trailing month ending today. Cost of goods uses the weighted-average
// unit cost from purchase lines dated on or before the range end, falling
// back to the product's catalog cost price when no purchase history exists.
func (s *Service) ProfitAndLoss(ctx context.Context, start, end time.Time, locationID *int64) (ProfitAndLoss, error) {
	startDay, endDay, err := s.dayRange(start, end, func(end time.Time) time.Time {
		return end.AddDate(0, -1, 0)
	})
	if err != nil {
		return ProfitAndLoss{}, err
	}

	var statement ProfitAndLoss
	key, err := s.cache.BuildKey(ctx, keyProfitLoss(startDay, endDay, locationID))
	if err != nil {
		return ProfitAndLoss{}, err
	}
	err = s.cache.FetchJSON(ctx, key, &statement, func(ctx context.Context) (interface{}, error) {
		return s.buildProfitAndLoss(ctx, startDay, endDay, locationID)
	})
	return statement, err
}

func (s *Service) buildProfitAndLoss(ctx context.Context, startDay, endDay time.Time, locationID *int64) (ProfitAndLoss, error) {
	from, to := shared.DayRange(startDay, endDay)

	orders, err := s.repo.ListPaidOrders(ctx, from, to, locationID)
	if err != nil {
		return ProfitAndLoss{}, err
	}
	lines, err := s.repo.ListPaidOrderLines(ctx, from, to, locationID)
	if err != nil {
		return ProfitAndLoss{}, err
	}
	purchases, err := s.repo.ListPurchaseLines(ctx, to, locationID)
	if err != nil {
		return ProfitAndLoss{}, err
	}
	expenseRows, err := s.repo.ListExpenses(ctx, from, to, locationID)
	if err != nil {
		return ProfitAndLoss{}, err
	}
	summaries, err := s.repo.ListStockSummaries(ctx)
	if err != nil {
		return ProfitAndLoss{}, err
	}

	statement := ProfitAndLoss{StartDate: startDay, EndDate: endDay}
	for _, order := range orders {
		statement.Revenue += order.Total
		statement.Discounts += order.Discount
	}

	type costBasis struct {
		quantity int
		amount   float64
	}
	purchased := make(map[int64]*costBasis)
	for _, line := range purchases {
		if line.Quantity <= 0 {
			continue
		}
		basis, ok := purchased[line.ProductID]
		if !ok {
			basis = &costBasis{}
			purchased[line.ProductID] = basis
		}
		basis.quantity += line.Quantity
		basis.amount += line.Price * float64(line.Quantity)
	}
	catalogCost := make(map[int64]float64, len(summaries))
	for _, row := range summaries {
		catalogCost[row.ProductID] = row.CostPrice
	}
	unitCost := func(productID int64) float64 {
		if basis, ok := purchased[productID]; ok && basis.quantity > 0 {
			return basis.amount / float64(basis.quantity)
		}
		return catalogCost[productID]
	}

	byProduct := make(map[int64]*ProductProfit)
	for _, line := range lines {
		entry, ok := byProduct[line.ProductID]
		if !ok {
			entry = &ProductProfit{ProductID: line.ProductID, ProductName: line.ProductName}
			byProduct[line.ProductID] = entry
		}
		entry.QuantitySold += line.Quantity
		entry.Revenue += line.Price * float64(line.Quantity)
		entry.Cost += unitCost(line.ProductID) * float64(line.Quantity)
	}
	statement.Products = make([]ProductProfit, 0, len(byProduct))
	for _, entry := range byProduct {
		entry.Revenue = shared.Round2(entry.Revenue)
		entry.Cost = shared.Round2(entry.Cost)
		entry.Profit = shared.Round2(entry.Revenue - entry.Cost)
		statement.CostOfGoods += entry.Cost
		statement.Products = append(statement.Products, *entry)
	}
	sort.Slice(statement.Products, func(i, j int) bool {
		if statement.Products[i].Revenue != statement.Products[j].Revenue {
			return statement.Products[i].Revenue > statement.Products[j].Revenue
		}
		return statement.Products[i].ProductName < statement.Products[j].ProductName
	})

	byCategory := make(map[string]float64)
	for _, row := range expenseRows {
		byCategory[row.Category] += row.Amount
		statement.TotalExpenses += row.Amount
	}
	statement.Expenses = make([]ExpenseCategoryTotal, 0, len(byCategory))
	for category, total := range byCategory {
		statement.Expenses = append(statement.Expenses, ExpenseCategoryTotal{
			Category: category,
			Total:    shared.Round2(total),
		})
	}
	sort.Slice(statement.Expenses, func(i, j int) bool {
		if statement.Expenses[i].Total != statement.Expenses[j].Total {
			return statement.Expenses[i].Total > statement.Expenses[j].Total
		}
		return statement.Expenses[i].Category < statement.Expenses[j].Category
	})

	statement.Revenue = shared.Round2(statement.Revenue)
	statement.Discounts = shared.Round2(statement.Discounts)
	statement.CostOfGoods = shared.Round2(statement.CostOfGoods)
	statement.GrossProfit = shared.Round2(statement.Revenue - statement.CostOfGoods)
	statement.TotalExpenses = shared.Round2(statement.TotalExpenses)
	statement.NetProfit = shared.Round2(statement.GrossProfit - statement.TotalExpenses)
	return statement, nil
}
