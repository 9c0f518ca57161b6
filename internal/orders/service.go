package orders

import (
	"context"
	"fmt"
	"sort"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/minimart-pos/minimart-pos/internal/catalog"
	"github.com/minimart-pos/minimart-pos/internal/ledger"
	"github.com/minimart-pos/minimart-pos/internal/shared"
	"github.com/minimart-pos/minimart-pos/internal/users"
)

const orderReferencePrefix = "ORDER-"

// TxRepository exposes the transactional order operations together with the
// ledger primitives, so a status transition and its movements commit as one
// unit of work.
type TxRepository interface {
	InsertOrder(ctx context.Context, order Order) (int64, error)
	InsertDetail(ctx context.Context, detail Detail) (Detail, error)
	UpdateStatus(ctx context.Context, orderID int64, status PaymentStatus) error
	ledger.TxRepository
}

// RepositoryPort abstracts repository usage for service.
type RepositoryPort interface {
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
	Get(ctx context.Context, id int64) (Order, error)
	List(ctx context.Context) ([]Order, error)
	ListByShift(ctx context.Context, shift users.Shift, from, to time.Time) ([]ShiftOrder, error)
}

// CatalogPort resolves products, locations and customers.
type CatalogPort interface {
	GetProduct(ctx context.Context, id int64) (catalog.Product, error)
	GetLocation(ctx context.Context, id int64) (catalog.Location, error)
	GetCustomer(ctx context.Context, id int64) (catalog.Customer, error)
}

// UserPort resolves cashier accounts.
type UserPort interface {
	Get(ctx context.Context, id int64) (users.User, error)
}

// AuditPort abstracts activity logging.
type AuditPort interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// CacheBumper invalidates report caches after a write.
type CacheBumper interface {
	Bump(ctx context.Context) error
}

// Service owns order creation, pricing and the payment-status state machine
// with its ledger side effects.
type Service struct {
	repo    RepositoryPort
	catalog CatalogPort
	users   UserPort
	audit   AuditPort
	reports CacheBumper
	now     func() time.Time
}

// NewService builds Service. A nil clock defaults to time.Now.
func NewService(repo RepositoryPort, cat CatalogPort, userPort UserPort, audit AuditPort, reports CacheBumper, clock func() time.Time) *Service {
	if clock == nil {
		clock = time.Now
	}
	return &Service{repo: repo, catalog: cat, users: userPort, audit: audit, reports: reports, now: clock}
}

// Create persists the order aggregate. When the caller supplies an initial
// PAID status the sale movements post inside the same transaction; this is
// the only case where creation and a transition combine.
func (s *Service) Create(ctx context.Context, input CreateOrderInput) (Order, error) {
	if len(input.Lines) == 0 {
		return Order{}, fmt.Errorf("orders: order must contain at least one line: %w", shared.ErrValidation)
	}
	if input.Discount < 0 {
		return Order{}, fmt.Errorf("orders: discount must be >= 0: %w", shared.ErrValidation)
	}
	status := input.Status
	if status == "" {
		status = StatusPending
	}
	if !status.Valid() {
		return Order{}, fmt.Errorf("orders: unknown payment status %q: %w", input.Status, shared.ErrValidation)
	}

	if _, err := s.users.Get(ctx, input.UserID); err != nil {
		return Order{}, err
	}
	if _, err := s.catalog.GetLocation(ctx, input.LocationID); err != nil {
		return Order{}, err
	}
	if input.CustomerID != nil {
		if _, err := s.catalog.GetCustomer(ctx, *input.CustomerID); err != nil {
			return Order{}, err
		}
	}

	orderDate := input.OrderDate
	if orderDate.IsZero() {
		orderDate = s.now()
	}

	details := make([]Detail, 0, len(input.Lines))
	totalLines := make([]shared.Line, 0, len(input.Lines))
	for _, line := range input.Lines {
		product, err := s.catalog.GetProduct(ctx, line.ProductID)
		if err != nil {
			return Order{}, err
		}
		price := product.Price
		if line.Price != nil {
			price = *line.Price
		}
		details = append(details, Detail{
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    line.Quantity,
			Price:       price,
		})
		totalLines = append(totalLines, shared.Line{Price: price, Quantity: line.Quantity})
	}

	order := Order{
		UserID:     input.UserID,
		CustomerID: input.CustomerID,
		LocationID: input.LocationID,
		Discount:   input.Discount,
		Total:      shared.OrderTotal(totalLines, input.Discount),
		Status:     status,
		OrderDate:  orderDate,
	}

	var orderID int64
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		id, err := tx.InsertOrder(ctx, order)
		if err != nil {
			return err
		}
		orderID = id
		for i := range details {
			details[i].OrderID = id
			saved, err := tx.InsertDetail(ctx, details[i])
			if err != nil {
				return err
			}
			details[i] = saved
		}
		if status == StatusPaid {
			if err := s.postSales(ctx, tx, id, order.LocationID, details); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return Order{}, err
	}

	s.recordAudit(ctx, "order:create", orderID, map[string]any{"total": order.Total, "status": string(status)})
	s.bump(ctx)
	return s.repo.Get(ctx, orderID)
}

// Get loads one order with its details.
func (s *Service) Get(ctx context.Context, id int64) (Order, error) {
	return s.repo.Get(ctx, id)
}

// List returns all orders.
func (s *Service) List(ctx context.Context) ([]Order, error) {
	return s.repo.List(ctx)
}

// UpdatePaymentStatus drives the state machine. Same-status calls are no-ops;
// CANCELLED is terminal; PENDING→PAID posts one SALE per line all-or-nothing;
// PAID→CANCELLED posts one RETURN per line; PENDING→CANCELLED posts nothing.
func (s *Service) UpdatePaymentStatus(ctx context.Context, orderID int64, status PaymentStatus) (Order, error) {
	if !status.Valid() {
		return Order{}, fmt.Errorf("orders: unknown payment status %q: %w", status, shared.ErrValidation)
	}
	order, err := s.repo.Get(ctx, orderID)
	if err != nil {
		return Order{}, err
	}

	previous := order.Status
	if previous == status {
		return order, nil
	}
	if previous == StatusCancelled {
		return Order{}, fmt.Errorf("orders: cannot update a cancelled order: %w", shared.ErrValidation)
	}
	if !CanTransition(previous, status) {
		return Order{}, fmt.Errorf("orders: transition %s -> %s not allowed: %w", previous, status, shared.ErrValidation)
	}

	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		if err := tx.UpdateStatus(ctx, orderID, status); err != nil {
			return err
		}
		switch {
		case previous != StatusPaid && status == StatusPaid:
			return s.postSales(ctx, tx, orderID, order.LocationID, order.Details)
		case previous == StatusPaid && status == StatusCancelled:
			return s.postReturns(ctx, tx, orderID, order.LocationID, order.Details)
		}
		return nil
	})
	if err != nil {
		return Order{}, err
	}

	s.recordAudit(ctx, "order:status", orderID, map[string]any{"from": string(previous), "to": string(status)})
	s.bump(ctx)
	return s.repo.Get(ctx, orderID)
}

// Delete cancels the order; already-cancelled orders come back unchanged with
// no new movements.
func (s *Service) Delete(ctx context.Context, orderID int64) (Order, error) {
	order, err := s.repo.Get(ctx, orderID)
	if err != nil {
		return Order{}, err
	}
	if order.Status == StatusCancelled {
		return order, nil
	}
	return s.UpdatePaymentStatus(ctx, orderID, StatusCancelled)
}

// postSales posts one SALE movement per line. Any insufficient line aborts
// the surrounding transaction, so no movement of the batch survives.
func (s *Service) postSales(ctx context.Context, tx TxRepository, orderID, locationID int64, details []Detail) error {
	now := s.now()
	for _, detail := range details {
		if detail.Quantity <= 0 {
			continue
		}
		id := orderID
		_, _, err := ledger.Apply(ctx, tx, ledger.Posting{
			ProductID:  detail.ProductID,
			LocationID: locationID,
			Type:       ledger.MovementSale,
			Quantity:   detail.Quantity,
			Reference:  fmt.Sprintf("%s%d", orderReferencePrefix, orderID),
			Note:       "Order paid",
			OrderID:    &id,
		}, now)
		if err != nil {
			return err
		}
	}
	return nil
}

// postReturns restores stock for every line; additive, so it cannot fail on
// stock and creates missing stock rows on the way.
func (s *Service) postReturns(ctx context.Context, tx TxRepository, orderID, locationID int64, details []Detail) error {
	now := s.now()
	for _, detail := range details {
		if detail.Quantity <= 0 {
			continue
		}
		id := orderID
		_, _, err := ledger.Apply(ctx, tx, ledger.Posting{
			ProductID:  detail.ProductID,
			LocationID: locationID,
			Type:       ledger.MovementReturn,
			Quantity:   detail.Quantity,
			Reference:  fmt.Sprintf("%s%d", orderReferencePrefix, orderID),
			Note:       "Order cancelled",
			OrderID:    &id,
		}, now)
		if err != nil {
			return err
		}
	}
	return nil
}

// ShiftReport summarises one calendar day (default today) for one shift.
func (s *Service) ShiftReport(ctx context.Context, shift users.Shift, date time.Time) (ShiftReport, error) {
	if !shift.Valid() {
		return ShiftReport{}, fmt.Errorf("orders: unknown shift %q: %w", shift, shared.ErrValidation)
	}
	day := shared.OrDay(date, s.now())
	from, to := shared.DayRange(day, day)

	scoped, err := s.repo.ListByShift(ctx, shift, from, to)
	if err != nil {
		return ShiftReport{}, err
	}

	report := ShiftReport{Shift: shift, Date: day}
	var totalSales float64
	byCashier := make(map[int64]*CashierSummary)
	for _, order := range scoped {
		switch order.Status {
		case StatusPaid:
			report.PaidOrders++
			totalSales += order.Total
		case StatusPending:
			report.PendingOrders++
		case StatusCancelled:
			report.CancelledOrders++
		}
		summary, ok := byCashier[order.UserID]
		if !ok {
			summary = &CashierSummary{CashierID: order.UserID, CashierName: order.CashierName}
			byCashier[order.UserID] = summary
		}
		summary.OrderCount++
		if order.Status == StatusPaid {
			summary.TotalSales += order.Total
		}
	}
	report.TotalSales = shared.Round2(totalSales)

	summaries := make([]CashierSummary, 0, len(byCashier))
	for _, summary := range byCashier {
		summary.TotalSales = shared.Round2(summary.TotalSales)
		summaries = append(summaries, *summary)
	}
	collator := collate.New(language.English, collate.IgnoreCase)
	sort.Slice(summaries, func(i, j int) bool {
		return collator.CompareString(summaries[i].CashierName, summaries[j].CashierName) < 0
	})
	report.CashierSummaries = summaries
	return report, nil
}

func (s *Service) recordAudit(ctx context.Context, action string, orderID int64, meta map[string]any) {
	if s.audit == nil {
		return
	}
	_ = s.audit.Record(ctx, shared.AuditLog{
		Action:   action,
		Entity:   "order",
		EntityID: fmt.Sprintf("%d", orderID),
		Meta:     meta,
	})
}

func (s *Service) bump(ctx context.Context) {
	if s.reports == nil {
		return
	}
	_ = s.reports.Bump(ctx)
}
