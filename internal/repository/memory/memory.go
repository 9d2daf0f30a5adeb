// Package memory is an in-process implementation of the repository
// interfaces. It enforces the same unique and foreign-key rules as the
// Postgres schema and is selected with DATABASE_URL=memory.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"heavysync/internal/model"
	"heavysync/internal/repository"

	"github.com/google/uuid"
)

type DB struct {
	mu         sync.RWMutex
	now        func() time.Time
	last       time.Time
	users      map[uuid.UUID]model.User
	suppliers  map[uuid.UUID]model.Supplier
	parts      map[uuid.UUID]model.Part
	orders     map[uuid.UUID]model.PurchaseOrder
	quotations map[uuid.UUID]model.Quotation
}

func New() *DB {
	return &DB{
		now:        time.Now,
		users:      make(map[uuid.UUID]model.User),
		suppliers:  make(map[uuid.UUID]model.Supplier),
		parts:      make(map[uuid.UUID]model.Part),
		orders:     make(map[uuid.UUID]model.PurchaseOrder),
		quotations: make(map[uuid.UUID]model.Quotation),
	}
}

// NewStore returns a Store backed by a fresh in-memory database.
func NewStore() *repository.Store {
	return New().Store()
}

func (db *DB) Store() *repository.Store {
	return &repository.Store{
		Users:          &userRepo{db},
		Suppliers:      &supplierRepo{db},
		Parts:          &partRepo{db},
		PurchaseOrders: &purchaseOrderRepo{db},
		Quotations:     &quotationRepo{db},
	}
}

// stamp sets audit times. Times are strictly increasing so listings keep
// insertion order even when the clock does not advance between writes.
func (db *DB) stamp(base *model.BaseModel, creating bool) {
	now := db.now().UTC()
	if !now.After(db.last) {
		now = db.last.Add(time.Microsecond)
	}
	db.last = now
	if creating {
		base.EnsureID()
		base.CreatedAt = now
	}
	base.UpdatedAt = now
}

func sortByCreated[T any](items []T, created func(T) time.Time) {
	sort.SliceStable(items, func(i, j int) bool {
		return created(items[i]).Before(created(items[j]))
	})
}

// ---- users ----

type userRepo struct{ db *DB }

func (r *userRepo) Create(ctx context.Context, user *model.User) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, u := range r.db.users {
		if u.Username == user.Username || u.Email == user.Email {
			return repository.ErrDuplicate
		}
	}
	r.db.stamp(&user.BaseModel, true)
	r.db.users[user.ID] = *user
	return nil
}

func (r *userRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	u, ok := r.db.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (r *userRepo) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	for _, u := range r.db.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *userRepo) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	for _, u := range r.db.users {
		if u.Username == username || (email != "" && u.Email == email) {
			return true, nil
		}
	}
	return false, nil
}

func (r *userRepo) Update(ctx context.Context, user *model.User) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.users[user.ID]; !ok {
		return repository.ErrNotFound
	}
	for id, u := range r.db.users {
		if id != user.ID && (u.Username == user.Username || u.Email == user.Email) {
			return repository.ErrDuplicate
		}
	}
	r.db.stamp(&user.BaseModel, false)
	r.db.users[user.ID] = *user
	return nil
}

func (r *userRepo) UpdatePassword(ctx context.Context, id uuid.UUID, hashedPassword string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	u, ok := r.db.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.Password = hashedPassword
	r.db.stamp(&u.BaseModel, false)
	r.db.users[id] = u
	return nil
}

func (r *userRepo) Count(ctx context.Context) (int64, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	return int64(len(r.db.users)), nil
}

// ---- suppliers ----

type supplierRepo struct{ db *DB }

func (r *supplierRepo) Create(ctx context.Context, supplier *model.Supplier) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if r.db.supplierEmailTaken(supplier.ContactEmail, uuid.Nil) {
		return repository.ErrDuplicate
	}
	r.db.stamp(&supplier.BaseModel, true)
	r.db.suppliers[supplier.ID] = *supplier
	return nil
}

func (r *supplierRepo) FindAll(ctx context.Context) ([]model.Supplier, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	out := make([]model.Supplier, 0, len(r.db.suppliers))
	for _, s := range r.db.suppliers {
		out = append(out, s)
	}
	sortByCreated(out, func(s model.Supplier) time.Time { return s.CreatedAt })
	return out, nil
}

func (r *supplierRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Supplier, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	s, ok := r.db.suppliers[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &s, nil
}

func (r *supplierRepo) ExistsByEmail(ctx context.Context, email string, excludeID uuid.UUID) (bool, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	return r.db.supplierEmailTaken(email, excludeID), nil
}

func (r *supplierRepo) Update(ctx context.Context, supplier *model.Supplier) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.suppliers[supplier.ID]; !ok {
		return repository.ErrNotFound
	}
	if r.db.supplierEmailTaken(supplier.ContactEmail, supplier.ID) {
		return repository.ErrDuplicate
	}
	r.db.stamp(&supplier.BaseModel, false)
	r.db.suppliers[supplier.ID] = *supplier
	return nil
}

func (r *supplierRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.suppliers[id]; !ok {
		return repository.ErrNotFound
	}
	if r.db.supplierReferenced(id) {
		return repository.ErrReferenced
	}
	delete(r.db.suppliers, id)
	return nil
}

func (db *DB) supplierEmailTaken(email string, excludeID uuid.UUID) bool {
	for id, s := range db.suppliers {
		if id != excludeID && s.ContactEmail == email {
			return true
		}
	}
	return false
}

func (db *DB) supplierReferenced(id uuid.UUID) bool {
	for _, po := range db.orders {
		if po.SupplierID == id {
			return true
		}
	}
	for _, p := range db.parts {
		if p.SupplierID != nil && *p.SupplierID == id {
			return true
		}
	}
	for _, q := range db.quotations {
		for _, qs := range q.Suppliers {
			if qs.SupplierID == id {
				return true
			}
		}
	}
	return false
}

// ---- parts ----

type partRepo struct{ db *DB }

func (r *partRepo) Create(ctx context.Context, part *model.Part) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if r.db.partCodeTaken(part.Code, uuid.Nil) {
		return repository.ErrDuplicate
	}
	if !r.db.supplierExists(part.SupplierID) {
		return repository.ErrReferenced
	}
	r.db.stamp(&part.BaseModel, true)
	stored := *part
	stored.Supplier = nil
	r.db.parts[part.ID] = stored
	return nil
}

func (r *partRepo) FindAll(ctx context.Context) ([]model.Part, error) {
	return r.filter(func(model.Part) bool { return true }), nil
}

func (r *partRepo) FindByCategory(ctx context.Context, categoryID string) ([]model.Part, error) {
	return r.filter(func(p model.Part) bool { return p.CategoryID == categoryID }), nil
}

func (r *partRepo) filter(keep func(model.Part) bool) []model.Part {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	out := make([]model.Part, 0)
	for _, p := range r.db.parts {
		if keep(p) {
			out = append(out, r.db.withSupplier(p))
		}
	}
	sortByCreated(out, func(p model.Part) time.Time { return p.CreatedAt })
	return out
}

func (r *partRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Part, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	p, ok := r.db.parts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	p = r.db.withSupplier(p)
	return &p, nil
}

func (r *partRepo) ExistsByCode(ctx context.Context, code string, excludeID uuid.UUID) (bool, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	return r.db.partCodeTaken(code, excludeID), nil
}

func (r *partRepo) Update(ctx context.Context, part *model.Part) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.parts[part.ID]; !ok {
		return repository.ErrNotFound
	}
	if r.db.partCodeTaken(part.Code, part.ID) {
		return repository.ErrDuplicate
	}
	if !r.db.supplierExists(part.SupplierID) {
		return repository.ErrReferenced
	}
	r.db.stamp(&part.BaseModel, false)
	stored := *part
	stored.Supplier = nil
	r.db.parts[part.ID] = stored
	return nil
}

func (r *partRepo) UpdateQuantity(ctx context.Context, id uuid.UUID, quantity int, updatedBy string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	p, ok := r.db.parts[id]
	if !ok {
		return repository.ErrNotFound
	}
	p.Quantity = quantity
	p.UpdatedBy = updatedBy
	r.db.stamp(&p.BaseModel, false)
	r.db.parts[id] = p
	return nil
}

func (r *partRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.parts[id]; !ok {
		return repository.ErrNotFound
	}
	for _, q := range r.db.quotations {
		if q.PartID == id {
			return repository.ErrReferenced
		}
	}
	delete(r.db.parts, id)
	return nil
}

func (db *DB) partCodeTaken(code string, excludeID uuid.UUID) bool {
	for id, p := range db.parts {
		if id != excludeID && p.Code == code {
			return true
		}
	}
	return false
}

func (db *DB) supplierExists(id *uuid.UUID) bool {
	if id == nil {
		return true
	}
	_, ok := db.suppliers[*id]
	return ok
}

func (db *DB) withSupplier(p model.Part) model.Part {
	if p.SupplierID != nil {
		if s, ok := db.suppliers[*p.SupplierID]; ok {
			p.Supplier = &s
		}
	}
	return p
}

// ---- purchase orders ----

type purchaseOrderRepo struct{ db *DB }

func (r *purchaseOrderRepo) Create(ctx context.Context, po *model.PurchaseOrder) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.suppliers[po.SupplierID]; !ok {
		return repository.ErrReferenced
	}
	r.db.stamp(&po.BaseModel, true)
	po.SetItems(assignItemIDs(po.Items))
	r.db.orders[po.ID] = copyOrder(*po)
	return nil
}

func (r *purchaseOrderRepo) FindAll(ctx context.Context) ([]model.PurchaseOrder, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	out := make([]model.PurchaseOrder, 0, len(r.db.orders))
	for _, po := range r.db.orders {
		out = append(out, r.db.expandOrder(po))
	}
	sortByCreated(out, func(po model.PurchaseOrder) time.Time { return po.CreatedAt })
	return out, nil
}

func (r *purchaseOrderRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.PurchaseOrder, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	po, ok := r.db.orders[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	po = r.db.expandOrder(po)
	return &po, nil
}

func (r *purchaseOrderRepo) Update(ctx context.Context, po *model.PurchaseOrder, replaceItems bool) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	existing, ok := r.db.orders[po.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if _, ok := r.db.suppliers[po.SupplierID]; !ok {
		return repository.ErrReferenced
	}
	if replaceItems {
		po.SetItems(assignItemIDs(po.Items))
	} else {
		po.Items = existing.Items
	}
	r.db.stamp(&po.BaseModel, false)
	r.db.orders[po.ID] = copyOrder(*po)
	return nil
}

func (r *purchaseOrderRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.orders[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.db.orders, id)
	return nil
}

func (db *DB) expandOrder(po model.PurchaseOrder) model.PurchaseOrder {
	po = copyOrder(po)
	if s, ok := db.suppliers[po.SupplierID]; ok {
		po.Supplier = &model.Supplier{
			BaseModel:    model.BaseModel{ID: s.ID},
			Name:         s.Name,
			ContactEmail: s.ContactEmail,
			ContactPhone: s.ContactPhone,
		}
	}
	return po
}

func copyOrder(po model.PurchaseOrder) model.PurchaseOrder {
	po.Supplier = nil
	po.Items = append([]model.PurchaseOrderItem(nil), po.Items...)
	return po
}

func assignItemIDs(items []model.PurchaseOrderItem) []model.PurchaseOrderItem {
	for i := range items {
		items[i].ID = uuid.New()
	}
	return items
}

// ---- quotations ----

type quotationRepo struct{ db *DB }

func (r *quotationRepo) Create(ctx context.Context, q *model.Quotation) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.parts[q.PartID]; !ok {
		return repository.ErrReferenced
	}
	r.db.stamp(&q.BaseModel, true)
	for i := range q.Suppliers {
		id := q.Suppliers[i].SupplierID
		if _, ok := r.db.suppliers[id]; !ok {
			return repository.ErrReferenced
		}
		q.Suppliers[i].ID = uuid.New()
		q.Suppliers[i].QuotationID = q.ID
	}
	r.db.quotations[q.ID] = copyQuotation(*q)
	return nil
}

func (r *quotationRepo) FindAll(ctx context.Context) ([]model.Quotation, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	out := make([]model.Quotation, 0, len(r.db.quotations))
	for _, q := range r.db.quotations {
		out = append(out, r.db.expandQuotation(q))
	}
	sortByCreated(out, func(q model.Quotation) time.Time { return q.CreatedAt })
	return out, nil
}

func (r *quotationRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Quotation, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	q, ok := r.db.quotations[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	q = r.db.expandQuotation(q)
	return &q, nil
}

func (r *quotationRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status model.QuotationStatus, updatedBy string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	q, ok := r.db.quotations[id]
	if !ok {
		return repository.ErrNotFound
	}
	q.Status = status
	q.UpdatedBy = updatedBy
	r.db.stamp(&q.BaseModel, false)
	r.db.quotations[id] = q
	return nil
}

func (r *quotationRepo) UpdateQuote(ctx context.Context, quote *model.QuotationSupplier) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	q, ok := r.db.quotations[quote.QuotationID]
	if !ok {
		return repository.ErrNotFound
	}
	q = copyQuotation(q)
	entry, ok := q.Quote(quote.SupplierID)
	if !ok {
		return repository.ErrNotFound
	}
	entry.QuotedPrice = quote.QuotedPrice
	entry.DeliveryDays = quote.DeliveryDays
	entry.Status = quote.Status
	entry.Notes = quote.Notes
	r.db.stamp(&q.BaseModel, false)
	r.db.quotations[q.ID] = q
	return nil
}

func (r *quotationRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.quotations[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.db.quotations, id)
	return nil
}

func (db *DB) expandQuotation(q model.Quotation) model.Quotation {
	q = copyQuotation(q)
	for i := range q.Suppliers {
		if s, ok := db.suppliers[q.Suppliers[i].SupplierID]; ok {
			q.Suppliers[i].Supplier = &s
			q.Suppliers[i].FillName()
		}
	}
	return q
}

func copyQuotation(q model.Quotation) model.Quotation {
	q.Part = nil
	suppliers := make([]model.QuotationSupplier, len(q.Suppliers))
	for i, qs := range q.Suppliers {
		qs.Supplier = nil
		if qs.QuotedPrice != nil {
			price := *qs.QuotedPrice
			qs.QuotedPrice = &price
		}
		if qs.DeliveryDays != nil {
			days := *qs.DeliveryDays
			qs.DeliveryDays = &days
		}
		suppliers[i] = qs
	}
	q.Suppliers = suppliers
	return q
}
