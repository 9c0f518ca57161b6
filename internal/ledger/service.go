package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/minimart-pos/minimart-pos/internal/catalog"
	"github.com/minimart-pos/minimart-pos/internal/shared"
)

// TxRepository exposes the transactional stock operations. All three calls of
// one posting must run inside the same transaction.
type TxRepository interface {
	GetStockForUpdate(ctx context.Context, productID, locationID int64) (Stock, error)
	SaveStock(ctx context.Context, stock Stock) (Stock, error)
	InsertMovement(ctx context.Context, movement Movement) (Movement, error)
}

// RepositoryPort abstracts repository usage for service.
type RepositoryPort interface {
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
	ListStocks(ctx context.Context, productID, locationID *int64) ([]Stock, error)
	ListMovements(ctx context.Context, productID *int64, from, to time.Time) ([]Movement, error)
}

// CatalogPort resolves the products and locations a posting references.
type CatalogPort interface {
	GetProduct(ctx context.Context, id int64) (catalog.Product, error)
	ListProducts(ctx context.Context) ([]catalog.Product, error)
	GetLocation(ctx context.Context, id int64) (catalog.Location, error)
}

// AuditPort abstracts activity logging.
type AuditPort interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// CacheBumper invalidates report caches after a write.
type CacheBumper interface {
	Bump(ctx context.Context) error
}

// Service is the sole authority over stock quantities and their audit trail.
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

// Apply executes one posting against a transactional repository: read the
// stock row (creating it lazily), validate the resulting quantity, write the
// row and append the movement. Callers owning a wider transaction (order
// transitions, purchase intake) reuse it so multi-line changes stay atomic.
func Apply(ctx context.Context, tx TxRepository, p Posting, now time.Time) (Movement, int, error) {
	if p.Quantity <= 0 {
		return Movement{}, 0, fmt.Errorf("ledger: quantity must be greater than zero: %w", shared.ErrValidation)
	}
	if !p.Type.Valid() {
		return Movement{}, 0, fmt.Errorf("ledger: unknown movement type %q: %w", p.Type, shared.ErrValidation)
	}

	stock, err := tx.GetStockForUpdate(ctx, p.ProductID, p.LocationID)
	if err != nil {
		if !errors.Is(err, ErrStockNotFound) {
			return Movement{}, 0, err
		}
		stock = Stock{ProductID: p.ProductID, LocationID: p.LocationID}
	}

	change := p.Type.Sign() * p.Quantity
	newQuantity := stock.Quantity + change
	if newQuantity < 0 {
		return Movement{}, 0, fmt.Errorf("%w: product %d at location %d", shared.ErrInsufficientStock, p.ProductID, p.LocationID)
	}

	stock.Quantity = newQuantity
	stock.LastUpdated = now
	if _, err := tx.SaveStock(ctx, stock); err != nil {
		return Movement{}, 0, err
	}

	movement := Movement{
		ProductID:      p.ProductID,
		LocationID:     p.LocationID,
		OrderID:        p.OrderID,
		Type:           p.Type,
		QuantityChange: change,
		Reference:      p.Reference,
		Note:           p.Note,
		CreatedAt:      now,
	}
	movement, err = tx.InsertMovement(ctx, movement)
	if err != nil {
		return Movement{}, 0, err
	}
	return movement, newQuantity, nil
}

// Post records a single stock adjustment. The movement type defaults to
// ADJUSTMENT when empty, and a missing reference gets a generated token so
// every manual change stays traceable. Product and location must exist; a
// resulting negative quantity aborts the posting with nothing written.
func (s *Service) Post(ctx context.Context, p Posting) (Movement, int, error) {
	if p.Type == "" {
		p.Type = MovementAdjustment
	}
	if p.Reference == "" {
		p.Reference = fmt.Sprintf("ADJ-%s", uuid.NewString())
	}
	if p.Quantity <= 0 {
		return Movement{}, 0, fmt.Errorf("ledger: quantity must be greater than zero: %w", shared.ErrValidation)
	}
	product, err := s.catalog.GetProduct(ctx, p.ProductID)
	if err != nil {
		return Movement{}, 0, err
	}
	location, err := s.catalog.GetLocation(ctx, p.LocationID)
	if err != nil {
		return Movement{}, 0, err
	}

	var (
		movement    Movement
		newQuantity int
	)
	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		movement, newQuantity, err = Apply(ctx, tx, p, s.now())
		return err
	})
	if err != nil {
		return Movement{}, 0, err
	}

	if s.audit != nil {
		_ = s.audit.Record(ctx, shared.AuditLog{
			Action:   fmt.Sprintf("ledger:%s", p.Type),
			Entity:   "stock_movement",
			EntityID: fmt.Sprintf("%d", movement.ID),
			Meta: map[string]any{
				"product":  product.Name,
				"location": location.Name,
				"change":   movement.QuantityChange,
			},
		})
	}
	if s.reports != nil {
		_ = s.reports.Bump(ctx)
	}
	return movement, newQuantity, nil
}

// Levels reports stock coverage. With a location filter every product in
// scope yields a row, zero-quantity rows included, so callers see complete
// coverage rather than only existing stock rows.
func (s *Service) Levels(ctx context.Context, productID, locationID *int64) ([]StockLevel, error) {
	if locationID != nil {
		location, err := s.catalog.GetLocation(ctx, *locationID)
		if err != nil {
			return nil, err
		}

		var scope []catalog.Product
		if productID != nil {
			product, err := s.catalog.GetProduct(ctx, *productID)
			if err != nil {
				return nil, err
			}
			scope = []catalog.Product{product}
		} else {
			scope, err = s.catalog.ListProducts(ctx)
			if err != nil {
				return nil, err
			}
		}

		stocks, err := s.repo.ListStocks(ctx, nil, locationID)
		if err != nil {
			return nil, err
		}
		byProduct := make(map[int64]Stock, len(stocks))
		for _, stock := range stocks {
			byProduct[stock.ProductID] = stock
		}

		levels := make([]StockLevel, 0, len(scope))
		for _, product := range scope {
			level := StockLevel{
				ProductID:    product.ID,
				ProductName:  product.Name,
				SKU:          product.SKU,
				CategoryName: product.CategoryName,
				LocationID:   locationID,
				LocationName: location.Name,
			}
			if stock, ok := byProduct[product.ID]; ok {
				id := stock.ID
				updated := stock.LastUpdated
				level.StockID = &id
				level.Quantity = stock.Quantity
				level.LastUpdated = &updated
			}
			levels = append(levels, level)
		}
		return levels, nil
	}

	stocks, err := s.repo.ListStocks(ctx, productID, nil)
	if err != nil {
		return nil, err
	}
	if productID != nil && len(stocks) == 0 {
		product, err := s.catalog.GetProduct(ctx, *productID)
		if err != nil {
			return nil, err
		}
		return []StockLevel{{
			ProductID:    product.ID,
			ProductName:  product.Name,
			SKU:          product.SKU,
			CategoryName: product.CategoryName,
		}}, nil
	}

	levels := make([]StockLevel, 0, len(stocks))
	for _, stock := range stocks {
		product, err := s.catalog.GetProduct(ctx, stock.ProductID)
		if err != nil {
			return nil, err
		}
		location, err := s.catalog.GetLocation(ctx, stock.LocationID)
		if err != nil {
			return nil, err
		}
		id := stock.ID
		locID := stock.LocationID
		updated := stock.LastUpdated
		levels = append(levels, StockLevel{
			StockID:      &id,
			ProductID:    product.ID,
			ProductName:  product.Name,
			SKU:          product.SKU,
			CategoryName: product.CategoryName,
			LocationID:   &locID,
			LocationName: location.Name,
			Quantity:     stock.Quantity,
			LastUpdated:  &updated,
		})
	}
	return levels, nil
}

// Movements lists ledger entries ordered by createdAt descending. An unset
// range defaults to the trailing 30 days ending today; the end day is
// inclusive (expanded to the next midnight).
func (s *Service) Movements(ctx context.Context, filter MovementFilter) ([]Movement, error) {
	end := shared.OrDay(filter.To, s.now())
	start := filter.From
	if start.IsZero() {
		start = end.AddDate(0, 0, -30)
	}
	start = shared.Day(start)
	if end.Before(start) {
		return nil, fmt.Errorf("ledger: end date cannot be before start date: %w", shared.ErrValidation)
	}
	from, to := shared.DayRange(start, end)
	return s.repo.ListMovements(ctx, filter.ProductID, from, to)
}
