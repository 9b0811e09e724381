package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"sales-ledger/internal/models"

	"github.com/shopspring/decimal"
)

// MemoryStore is an in-memory implementation of InventoryStore,
// LedgerStore and TxManager, used by unit tests and local runs without
// a database. WithTransaction takes the write lock for the whole unit
// and restores a snapshot on failure, so rollback behaves like the
// database implementation.
type MemoryStore struct {
	mu            sync.RWMutex
	nextProductID int64
	nextTxID      int64
	nextItemID    int64
	products      map[int64]models.Product
	transactions  map[int64]models.Transaction
	items         []models.TransactionItem
}

var (
	_ InventoryStore = (*MemoryStore)(nil)
	_ LedgerStore    = (*MemoryStore)(nil)
	_ TxManager      = (*MemoryStore)(nil)
)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		nextProductID: 1,
		nextTxID:      1,
		nextItemID:    1,
		products:      make(map[int64]models.Product),
		transactions:  make(map[int64]models.Transaction),
	}
}

// in-transaction marker; repositories skip their own locks inside a unit
type memTxKey struct{}

func inTx(ctx context.Context) bool {
	v, ok := ctx.Value(memTxKey{}).(bool)
	return ok && v
}

func (m *MemoryStore) rlock(ctx context.Context) {
	if !inTx(ctx) {
		m.mu.RLock()
	}
}

func (m *MemoryStore) runlock(ctx context.Context) {
	if !inTx(ctx) {
		m.mu.RUnlock()
	}
}

func (m *MemoryStore) wlock(ctx context.Context) {
	if !inTx(ctx) {
		m.mu.Lock()
	}
}

func (m *MemoryStore) wunlock(ctx context.Context) {
	if !inTx(ctx) {
		m.mu.Unlock()
	}
}

type memSnapshot struct {
	nextProductID int64
	nextTxID      int64
	nextItemID    int64
	products      map[int64]models.Product
	transactions  map[int64]models.Transaction
	items         []models.TransactionItem
}

func (m *MemoryStore) snapshot() memSnapshot {
	products := make(map[int64]models.Product, len(m.products))
	for id, p := range m.products {
		products[id] = p
	}
	transactions := make(map[int64]models.Transaction, len(m.transactions))
	for id, t := range m.transactions {
		transactions[id] = t
	}
	items := make([]models.TransactionItem, len(m.items))
	copy(items, m.items)
	return memSnapshot{
		nextProductID: m.nextProductID,
		nextTxID:      m.nextTxID,
		nextItemID:    m.nextItemID,
		products:      products,
		transactions:  transactions,
		items:         items,
	}
}

func (m *MemoryStore) restore(snap memSnapshot) {
	m.nextProductID = snap.nextProductID
	m.nextTxID = snap.nextTxID
	m.nextItemID = snap.nextItemID
	m.products = snap.products
	m.transactions = snap.transactions
	m.items = snap.items
}

// WithTransaction emulates a database transaction: exclusive access for
// the duration of fn, full state restore if fn fails.
func (m *MemoryStore) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if inTx(ctx) {
		return fn(ctx)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	snap := m.snapshot()
	if err := fn(context.WithValue(ctx, memTxKey{}, true)); err != nil {
		m.restore(snap)
		return err
	}
	return nil
}

// InventoryStore implementation

func (m *MemoryStore) CreateProduct(ctx context.Context, p *models.Product) error {
	m.wlock(ctx)
	defer m.wunlock(ctx)

	p.ID = m.nextProductID
	m.nextProductID++
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	m.products[p.ID] = *p
	return nil
}

func (m *MemoryStore) GetProductByID(ctx context.Context, id int64) (*models.Product, error) {
	m.rlock(ctx)
	defer m.runlock(ctx)

	p, ok := m.products[id]
	if !ok {
		return nil, fmt.Errorf("product %d: %w", id, ErrNotFound)
	}
	cp := p
	return &cp, nil
}

// GetProductForUpdate is GetProductByID here: the unit's exclusive lock
// already serializes concurrent decrements.
func (m *MemoryStore) GetProductForUpdate(ctx context.Context, id int64) (*models.Product, error) {
	return m.GetProductByID(ctx, id)
}

func (m *MemoryStore) SetProductQuantity(ctx context.Context, id int64, quantity int) error {
	m.wlock(ctx)
	defer m.wunlock(ctx)

	p, ok := m.products[id]
	if !ok {
		return fmt.Errorf("product %d: %w", id, ErrNotFound)
	}
	p.Quantity = quantity
	m.products[id] = p
	return nil
}

func (m *MemoryStore) ListProductsByUser(ctx context.Context, userID int64) ([]models.Product, error) {
	m.rlock(ctx)
	defer m.runlock(ctx)

	out := make([]models.Product, 0)
	for _, p := range m.products {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	sortProductsNewestFirst(out)
	return out, nil
}

func (m *MemoryStore) SearchProductsByUser(ctx context.Context, userID int64, query string) ([]models.Product, error) {
	m.rlock(ctx)
	defer m.runlock(ctx)

	q := strings.ToLower(query)
	out := make([]models.Product, 0)
	for _, p := range m.products {
		if p.UserID == userID && strings.Contains(strings.ToLower(p.Name), q) {
			out = append(out, p)
		}
	}
	sortProductsNewestFirst(out)
	return out, nil
}

func sortProductsNewestFirst(products []models.Product) {
	sort.Slice(products, func(i, j int) bool {
		if !products[i].CreatedAt.Equal(products[j].CreatedAt) {
			return products[i].CreatedAt.After(products[j].CreatedAt)
		}
		return products[i].ID > products[j].ID
	})
}

// LedgerStore implementation

func (m *MemoryStore) CreateTransaction(ctx context.Context, t *models.Transaction) error {
	m.wlock(ctx)
	defer m.wunlock(ctx)

	t.ID = m.nextTxID
	m.nextTxID++
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	m.transactions[t.ID] = models.Transaction{ID: t.ID, CreatedAt: t.CreatedAt}
	return nil
}

func (m *MemoryStore) CreateTransactionItem(ctx context.Context, item *models.TransactionItem) error {
	m.wlock(ctx)
	defer m.wunlock(ctx)

	if _, ok := m.transactions[item.TransactionID]; !ok {
		return fmt.Errorf("transaction %d: %w", item.TransactionID, ErrNotFound)
	}
	if _, ok := m.products[item.ProductID]; !ok {
		return fmt.Errorf("product %d: %w", item.ProductID, ErrNotFound)
	}
	item.ID = m.nextItemID
	m.nextItemID++
	// persist only the ledger columns; product fields are joined on read
	m.items = append(m.items, models.TransactionItem{
		ID:                 item.ID,
		TransactionID:      item.TransactionID,
		ProductID:          item.ProductID,
		Quantity:           item.Quantity,
		PriceAtTransaction: item.PriceAtTransaction,
	})
	return nil
}

func (m *MemoryStore) GetTransactionsByOwner(ctx context.Context, ownerID int64) ([]models.Transaction, error) {
	m.rlock(ctx)
	defer m.runlock(ctx)

	seen := make(map[int64]bool)
	out := make([]models.Transaction, 0)
	for _, item := range m.items {
		p, ok := m.products[item.ProductID]
		if !ok || p.UserID != ownerID || seen[item.TransactionID] {
			continue
		}
		seen[item.TransactionID] = true
		out = append(out, m.transactions[item.TransactionID])
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (m *MemoryStore) GetTransactionItems(ctx context.Context, transactionID int64) ([]models.TransactionItem, error) {
	m.rlock(ctx)
	defer m.runlock(ctx)

	out := make([]models.TransactionItem, 0)
	for _, item := range m.items {
		if item.TransactionID != transactionID {
			continue
		}
		if p, ok := m.products[item.ProductID]; ok {
			item.ProductName = p.Name
			item.ProductImageRef = p.ImageRef
		}
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemoryStore) MonthlyRevenueByOwner(ctx context.Context, ownerID int64) ([]models.MonthlyRevenue, error) {
	m.rlock(ctx)
	defer m.runlock(ctx)

	byMonth := make(map[string]decimal.Decimal)
	for _, item := range m.items {
		p, ok := m.products[item.ProductID]
		if !ok || p.UserID != ownerID {
			continue
		}
		t, ok := m.transactions[item.TransactionID]
		if !ok {
			continue
		}
		month := t.CreatedAt.Format("2006-01")
		byMonth[month] = byMonth[month].Add(item.Subtotal())
	}

	out := make([]models.MonthlyRevenue, 0, len(byMonth))
	for month, revenue := range byMonth {
		out = append(out, models.MonthlyRevenue{Month: month, Revenue: revenue})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out, nil
}
