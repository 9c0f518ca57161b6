package purchasing

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/minimart-pos/minimart-pos/internal/catalog"
	"github.com/minimart-pos/minimart-pos/internal/ledger"
	"github.com/minimart-pos/minimart-pos/internal/shared"
)

const purchaseReferencePrefix = "PO-"

// TxRepository exposes the transactional purchase operations together with
// the ledger primitives.
type TxRepository interface {
	InsertPurchaseOrder(ctx context.Context, po PurchaseOrder) (int64, error)
	InsertDetail(ctx context.Context, detail Detail) (Detail, error)
	ledger.TxRepository
}

// RepositoryPort abstracts repository usage for service.
type RepositoryPort interface {
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
	Get(ctx context.Context, id int64) (PurchaseOrder, error)
	ListByDateRange(ctx context.Context, from, to time.Time) ([]PurchaseOrder, error)
}

// CatalogPort resolves products, locations and suppliers.
type CatalogPort interface {
	GetProduct(ctx context.Context, id int64) (catalog.Product, error)
	GetLocation(ctx context.Context, id int64) (catalog.Location, error)
	GetSupplier(ctx context.Context, id int64) (catalog.Supplier, error)
}

// AuditPort abstracts activity logging.
type AuditPort interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// CacheBumper invalidates report caches after a write.
type CacheBumper interface {
	Bump(ctx context.Context) error
}

// Service records supplier purchases and their stock increases.
type Service struct {
	repo    RepositoryPort
	catalog CatalogPort
	audit   AuditPort
	reports CacheBumper
	now     func() time.Time
}

// NewService builds Service. A nil clock defaults to time.Now.
func NewService(repo RepositoryPort, cat CatalogPort, audit AuditPort, reports CacheBumper, clock func() time.Time) *Service {
	if clock == nil {
		clock = time.Now
	}
	return &Service{repo: repo, catalog: cat, audit: audit, reports: reports, now: clock}
}

// Create persists the purchase order and posts one PURCHASE movement per
// line with quantity > 0, all in one transaction.
func (s *Service) Create(ctx context.Context, input CreateInput) (PurchaseOrder, error) {
	if len(input.Lines) == 0 {
		return PurchaseOrder{}, fmt.Errorf("purchasing: purchase order must include at least one line: %w", shared.ErrValidation)
	}
	if _, err := s.catalog.GetLocation(ctx, input.LocationID); err != nil {
		return PurchaseOrder{}, err
	}
	if input.SupplierID != nil {
		if _, err := s.catalog.GetSupplier(ctx, *input.SupplierID); err != nil {
			return PurchaseOrder{}, err
		}
	}

	orderDate := input.OrderDate
	if orderDate.IsZero() {
		orderDate = s.now()
	}

	details := make([]Detail, 0, len(input.Lines))
	sum := decimal.Zero
	for _, line := range input.Lines {
		product, err := s.catalog.GetProduct(ctx, line.ProductID)
		if err != nil {
			return PurchaseOrder{}, err
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
		sum = sum.Add(decimal.NewFromFloat(price).Mul(decimal.NewFromInt(int64(line.Quantity))))
	}

	total := sum.InexactFloat64()
	if input.Total != nil {
		total = *input.Total
	}

	po := PurchaseOrder{
		SupplierID: input.SupplierID,
		LocationID: input.LocationID,
		Total:      total,
		OrderDate:  orderDate,
	}

	var poID int64
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		id, err := tx.InsertPurchaseOrder(ctx, po)
		if err != nil {
			return err
		}
		poID = id
		now := s.now()
		for i := range details {
			details[i].PurchaseOrderID = id
			saved, err := tx.InsertDetail(ctx, details[i])
			if err != nil {
				return err
			}
			details[i] = saved
			if details[i].Quantity <= 0 {
				continue
			}
			_, _, err = ledger.Apply(ctx, tx, ledger.Posting{
				ProductID:  details[i].ProductID,
				LocationID: po.LocationID,
				Type:       ledger.MovementPurchase,
				Quantity:   details[i].Quantity,
				Reference:  fmt.Sprintf("%s%d", purchaseReferencePrefix, id),
				Note:       fmt.Sprintf("Purchase order %d", id),
			}, now)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return PurchaseOrder{}, err
	}

	if s.audit != nil {
		_ = s.audit.Record(ctx, shared.AuditLog{
			Action:   "purchase:create",
			Entity:   "purchase_order",
			EntityID: fmt.Sprintf("%d", poID),
			Meta:     map[string]any{"total": total, "lines": len(details)},
		})
	}
	if s.reports != nil {
		_ = s.reports.Bump(ctx)
	}
	return s.repo.Get(ctx, poID)
}

// Get loads one purchase order with its details.
func (s *Service) Get(ctx context.Context, id int64) (PurchaseOrder, error) {
	return s.repo.Get(ctx, id)
}

// List returns purchase orders within an inclusive day range defaulting to
// the trailing month ending today.
func (s *Service) List(ctx context.Context, start, end time.Time) ([]PurchaseOrder, error) {
	endDay := shared.OrDay(end, s.now())
	startDay := start
	if startDay.IsZero() {
		startDay = endDay.AddDate(0, -1, 0)
	}
	startDay = shared.Day(startDay)
	if endDay.Before(startDay) {
		return nil, fmt.Errorf("purchasing: end date cannot be before start date: %w", shared.ErrValidation)
	}
	from, to := shared.DayRange(startDay, endDay)
	return s.repo.ListByDateRange(ctx, from, to)
}
