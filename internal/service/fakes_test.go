package service

import (
	"context"
	"sync"
	"time"

	"perfumeshop-be/internal/apperr"
	"perfumeshop-be/internal/entity"
	"perfumeshop-be/internal/repository/contract"
	"perfumeshop-be/internal/repository/specification"
	"perfumeshop-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

// In-memory repository doubles backing the service tests. They mimic the
// conditional-update semantics of the real implementations, including the
// RowsAffected-style failure of the ledger operations.

type fakeState struct {
	mu sync.Mutex

	products map[uuid.UUID]*entity.Product
	users    map[uuid.UUID]*entity.User
	orders   map[uuid.UUID]*entity.Order
	payments []*entity.Payment
	refunds  map[uuid.UUID]*entity.Refund
	carts    map[uuid.UUID]*entity.Cart

	debitCalls   int
	creditCalls  int
	releaseCalls map[uuid.UUID]int
}

func newFakeState() *fakeState {
	return &fakeState{
		products:     make(map[uuid.UUID]*entity.Product),
		users:        make(map[uuid.UUID]*entity.User),
		orders:       make(map[uuid.UUID]*entity.Order),
		refunds:      make(map[uuid.UUID]*entity.Refund),
		carts:        make(map[uuid.UUID]*entity.Cart),
		releaseCalls: make(map[uuid.UUID]int),
	}
}

func (s *fakeState) addProduct(name string, price, stock int) *entity.Product {
	p := &entity.Product{Id: uuid.New(), Name: name, SellPrice: price, StockQuantity: stock}
	s.products[p.Id] = p
	return p
}

func (s *fakeState) addUser(mileage int) *entity.User {
	u := &entity.User{Id: uuid.New(), UserName: "tester", Phone: "01000000000", Mileage: mileage}
	s.users[u.Id] = u
	return u
}

// --- unit of work ---

type fakeUow struct {
	state *fakeState
}

type fakeFactory struct {
	state *fakeState
}

func newFakeFactory() *fakeFactory {
	return &fakeFactory{state: newFakeState()}
}

func (f *fakeFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &fakeUow{state: f.state}
}

// The fakes do not simulate rollback; tests only exercise paths whose
// writes either all apply or stop at the first failed ledger call.
func (u *fakeUow) Begin(ctx context.Context) error { return nil }
func (u *fakeUow) Commit() error                   { return nil }
func (u *fakeUow) Rollback() error                 { return nil }

func (u *fakeUow) ProductRepository() contract.ProductRepository {
	return &fakeProductRepo{state: u.state}
}
func (u *fakeUow) UserRepository() contract.UserRepository {
	return &fakeUserRepo{state: u.state}
}
func (u *fakeUow) OrderRepository() contract.OrderRepository {
	return &fakeOrderRepo{state: u.state}
}
func (u *fakeUow) PaymentRepository() contract.PaymentRepository {
	return &fakePaymentRepo{state: u.state}
}
func (u *fakeUow) RefundRepository() contract.RefundRepository {
	return &fakeRefundRepo{state: u.state}
}
func (u *fakeUow) CartRepository() contract.CartRepository {
	return &fakeCartRepo{state: u.state}
}

func idFromSpecs(specs []specification.Specification) (uuid.UUID, bool) {
	for _, s := range specs {
		if byId, ok := s.(specification.ByID); ok {
			return byId.ID, true
		}
	}
	return uuid.Nil, false
}

// --- products ---

type fakeProductRepo struct {
	state *fakeState
}

func (r *fakeProductRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Product, error) {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	if id, ok := idFromSpecs(specs); ok {
		if p, found := r.state.products[id]; found {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeProductRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Product, error) {
	return nil, nil
}

func (r *fakeProductRepo) ReserveStock(ctx context.Context, productId uuid.UUID, qty int) error {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	p, found := r.state.products[productId]
	if !found || p.StockQuantity < qty {
		return apperr.ErrInsufficientStock
	}
	p.StockQuantity -= qty
	return nil
}

func (r *fakeProductRepo) ReleaseStock(ctx context.Context, productId uuid.UUID, qty int) error {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	if p, found := r.state.products[productId]; found {
		p.StockQuantity += qty
		r.state.releaseCalls[productId]++
	}
	return nil
}

// --- users ---

type fakeUserRepo struct {
	state *fakeState
}

func (r *fakeUserRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error) {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	if id, ok := idFromSpecs(specs); ok {
		if u, found := r.state.users[id]; found {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) DebitMileage(ctx context.Context, userId uuid.UUID, amount int) error {
	if amount == 0 {
		return nil
	}
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	u, found := r.state.users[userId]
	if !found || u.Mileage < amount {
		return apperr.ErrInsufficientBalance
	}
	u.Mileage -= amount
	r.state.debitCalls++
	return nil
}

func (r *fakeUserRepo) CreditMileage(ctx context.Context, userId uuid.UUID, amount int) error {
	if amount == 0 {
		return nil
	}
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	if u, found := r.state.users[userId]; found {
		u.Mileage += amount
		r.state.creditCalls++
	}
	return nil
}

// --- orders ---

type fakeOrderRepo struct {
	state *fakeState
}

func copyOrder(o *entity.Order) *entity.Order {
	cp := *o
	cp.Lines = append([]entity.OrderLine(nil), o.Lines...)
	return &cp
}

func (r *fakeOrderRepo) Create(ctx context.Context, order *entity.Order) error {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	r.state.orders[order.Id] = copyOrder(order)
	return nil
}

func (r *fakeOrderRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Order, error) {
	return r.FindOneWithLines(ctx, func() uuid.UUID {
		id, _ := idFromSpecs(specs)
		return id
	}())
}

func (r *fakeOrderRepo) FindOneWithLines(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	if o, found := r.state.orders[id]; found {
		return copyOrder(o), nil
	}
	return nil, nil
}

func (r *fakeOrderRepo) FindAllWithLines(ctx context.Context, specs ...specification.Specification) ([]*entity.Order, error) {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	var owner *uuid.UUID
	for _, s := range specs {
		if ob, ok := s.(specification.OwnedBy); ok {
			id := ob.UserID
			owner = &id
		}
	}
	var out []*entity.Order
	for _, o := range r.state.orders {
		if owner == nil || o.UserId == *owner {
			out = append(out, copyOrder(o))
		}
	}
	return out, nil
}

func (r *fakeOrderRepo) Update(ctx context.Context, order *entity.Order) error {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	if o, found := r.state.orders[order.Id]; found {
		o.UsedPoint = order.UsedPoint
		o.TotalAmount = order.TotalAmount
		o.Status = order.Status
		o.DeliveryStatus = order.DeliveryStatus
	}
	return nil
}

func (r *fakeOrderRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.OrderStatus) error {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	if o, found := r.state.orders[id]; found {
		o.Status = status
	}
	return nil
}

func (r *fakeOrderRepo) FindLine(ctx context.Context, lineId uuid.UUID) (*entity.OrderLine, error) {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	for _, o := range r.state.orders {
		for i := range o.Lines {
			if o.Lines[i].Id == lineId {
				cp := o.Lines[i]
				return &cp, nil
			}
		}
	}
	return nil, nil
}

func (r *fakeOrderRepo) ConfirmLineQuantities(ctx context.Context, orderId uuid.UUID) error {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	if o, found := r.state.orders[orderId]; found {
		for i := range o.Lines {
			o.Lines[i].ConfirmedQuantity = o.Lines[i].Quantity
		}
	}
	return nil
}

func (r *fakeOrderRepo) AdjustLineConfirmedQuantity(ctx context.Context, lineId uuid.UUID, delta int) error {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	for _, o := range r.state.orders {
		for i := range o.Lines {
			if o.Lines[i].Id == lineId {
				o.Lines[i].ConfirmedQuantity += delta
			}
		}
	}
	return nil
}

func (r *fakeOrderRepo) AdvanceToDelivered(ctx context.Context, orderedBefore time.Time) (int64, error) {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	var n int64
	for _, o := range r.state.orders {
		if o.Status == entity.OrderStatusPaid && o.DeliveryStatus == entity.DeliveryStatusOrdered && o.CreatedAt.Before(orderedBefore) {
			o.DeliveryStatus = entity.DeliveryStatusDelivered
			n++
		}
	}
	return n, nil
}

func (r *fakeOrderRepo) AdvanceToShipping(ctx context.Context, orderedAfter, orderedBefore time.Time) (int64, error) {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	var n int64
	for _, o := range r.state.orders {
		if o.Status == entity.OrderStatusPaid && o.DeliveryStatus == entity.DeliveryStatusOrdered &&
			!o.CreatedAt.Before(orderedAfter) && o.CreatedAt.Before(orderedBefore) {
			o.DeliveryStatus = entity.DeliveryStatusShipping
			n++
		}
	}
	return n, nil
}

func (r *fakeOrderRepo) FindStalePendingIds(ctx context.Context, cutoff time.Time) ([]uuid.UUID, error) {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	var ids []uuid.UUID
	for _, o := range r.state.orders {
		if o.Status == entity.OrderStatusPending && o.CreatedAt.Before(cutoff) {
			ids = append(ids, o.Id)
		}
	}
	return ids, nil
}

// --- payments ---

type fakePaymentRepo struct {
	state *fakeState
}

func (r *fakePaymentRepo) Create(ctx context.Context, payment *entity.Payment) error {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	cp := *payment
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = time.Now()
	}
	r.state.payments = append(r.state.payments, &cp)
	return nil
}

func (r *fakePaymentRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Payment, error) {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	if id, ok := idFromSpecs(specs); ok {
		for _, p := range r.state.payments {
			if p.Id == id {
				cp := *p
				return &cp, nil
			}
		}
	}
	return nil, nil
}

func (r *fakePaymentRepo) FindLatestByOrderId(ctx context.Context, orderId uuid.UUID) (*entity.Payment, error) {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	var latest *entity.Payment
	for _, p := range r.state.payments {
		if p.OrderId != orderId {
			continue
		}
		if latest == nil || p.CreatedAt.After(latest.CreatedAt) {
			latest = p
		}
	}
	if latest == nil {
		return nil, nil
	}
	cp := *latest
	return &cp, nil
}

func (r *fakePaymentRepo) Update(ctx context.Context, payment *entity.Payment) error {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	for _, p := range r.state.payments {
		if p.Id == payment.Id {
			p.Status = payment.Status
			p.Aid = payment.Aid
			p.ApprovedAt = payment.ApprovedAt
		}
	}
	return nil
}

// --- refunds ---

type fakeRefundRepo struct {
	state *fakeState
}

func copyRefund(r *entity.Refund) *entity.Refund {
	cp := *r
	cp.Lines = append([]entity.RefundLine(nil), r.Lines...)
	return &cp
}

func (r *fakeRefundRepo) Create(ctx context.Context, refund *entity.Refund) error {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	r.state.refunds[refund.Id] = copyRefund(refund)
	return nil
}

func (r *fakeRefundRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Refund, error) {
	id, _ := idFromSpecs(specs)
	return r.FindOneWithLines(ctx, id)
}

func (r *fakeRefundRepo) FindOneWithLines(ctx context.Context, id uuid.UUID) (*entity.Refund, error) {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	if rf, found := r.state.refunds[id]; found {
		return copyRefund(rf), nil
	}
	return nil, nil
}

func (r *fakeRefundRepo) FindAllWithLines(ctx context.Context, specs ...specification.Specification) ([]*entity.Refund, error) {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	var owner *uuid.UUID
	status := ""
	limit, offset := 0, 0
	for _, s := range specs {
		switch sp := s.(type) {
		case specification.OwnedBy:
			id := sp.UserID
			owner = &id
		case specification.StatusIs:
			status = sp.Status
		case specification.Pagination:
			limit, offset = sp.Limit, sp.Offset
		}
	}
	var out []*entity.Refund
	for _, rf := range r.state.refunds {
		if owner != nil && rf.UserId != *owner {
			continue
		}
		if status != "" && string(rf.Status) != status {
			continue
		}
		out = append(out, copyRefund(rf))
	}
	if offset > 0 {
		if offset > len(out) {
			offset = len(out)
		}
		out = out[offset:]
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeRefundRepo) ExistsByOrderAndStatus(ctx context.Context, orderId uuid.UUID, status entity.RefundStatus) (bool, error) {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	for _, rf := range r.state.refunds {
		if rf.OrderId == orderId && rf.Status == status {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeRefundRepo) SumRefundMileageByOrder(ctx context.Context, orderId uuid.UUID) (int, error) {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	total := 0
	for _, rf := range r.state.refunds {
		if rf.OrderId == orderId && rf.Status == entity.RefundStatusApproved {
			total += rf.RefundMileage
		}
	}
	return total, nil
}

func (r *fakeRefundRepo) Update(ctx context.Context, refund *entity.Refund) error {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	if rf, found := r.state.refunds[refund.Id]; found {
		rf.Status = refund.Status
		rf.RejectedReason = refund.RejectedReason
		rf.TotalRefundAmount = refund.TotalRefundAmount
		rf.RefundMileage = refund.RefundMileage
		rf.PgRefundId = refund.PgRefundId
	}
	return nil
}

func (r *fakeRefundRepo) UpdateLine(ctx context.Context, line *entity.RefundLine) error {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	for _, rf := range r.state.refunds {
		for i := range rf.Lines {
			if rf.Lines[i].Id == line.Id {
				rf.Lines[i].ApprovedQty = line.ApprovedQty
				rf.Lines[i].LineRefundAmount = line.LineRefundAmount
			}
		}
	}
	return nil
}

// --- carts ---

type fakeCartRepo struct {
	state *fakeState
}

func (r *fakeCartRepo) FindOrCreateByUser(ctx context.Context, userId uuid.UUID) (*entity.Cart, error) {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	for _, c := range r.state.carts {
		if c.UserId == userId {
			return c, nil
		}
	}
	c := &entity.Cart{Id: uuid.New(), UserId: userId}
	r.state.carts[c.Id] = c
	return c, nil
}

func (r *fakeCartRepo) FindByUserWithLines(ctx context.Context, userId uuid.UUID) (*entity.Cart, error) {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	for _, c := range r.state.carts {
		if c.UserId == userId {
			cp := *c
			cp.Lines = append([]entity.CartLine(nil), c.Lines...)
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeCartRepo) AddLine(ctx context.Context, cartId, productId uuid.UUID, qty int) error {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	c, found := r.state.carts[cartId]
	if !found {
		return nil
	}
	for i := range c.Lines {
		if c.Lines[i].ProductId == productId {
			c.Lines[i].Quantity += qty
			return nil
		}
	}
	line := entity.CartLine{Id: uuid.New(), CartId: cartId, ProductId: productId, Quantity: qty, CartUserId: c.UserId}
	if p, ok := r.state.products[productId]; ok {
		line.ProductName = p.Name
		line.UnitPrice = p.SellPrice
		line.Stock = p.StockQuantity
	}
	c.Lines = append(c.Lines, line)
	return nil
}

func (r *fakeCartRepo) FindLines(ctx context.Context, lineIds []uuid.UUID) ([]*entity.CartLine, error) {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	wanted := make(map[uuid.UUID]bool, len(lineIds))
	for _, id := range lineIds {
		wanted[id] = true
	}
	var out []*entity.CartLine
	for _, c := range r.state.carts {
		for i := range c.Lines {
			if wanted[c.Lines[i].Id] {
				cp := c.Lines[i]
				if p, ok := r.state.products[cp.ProductId]; ok {
					cp.ProductName = p.Name
					cp.UnitPrice = p.SellPrice
					cp.Stock = p.StockQuantity
				}
				out = append(out, &cp)
			}
		}
	}
	return out, nil
}

func (r *fakeCartRepo) DeleteLinesOwnedBy(ctx context.Context, lineIds []uuid.UUID, userId uuid.UUID) (int64, error) {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	wanted := make(map[uuid.UUID]bool, len(lineIds))
	for _, id := range lineIds {
		wanted[id] = true
	}
	var removed int64
	for _, c := range r.state.carts {
		if c.UserId != userId {
			continue
		}
		var kept []entity.CartLine
		for _, l := range c.Lines {
			if wanted[l.Id] {
				removed++
				continue
			}
			kept = append(kept, l)
		}
		c.Lines = kept
	}
	return removed, nil
}

func (r *fakeCartRepo) DeleteLines(ctx context.Context, lineIds []uuid.UUID) error {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	wanted := make(map[uuid.UUID]bool, len(lineIds))
	for _, id := range lineIds {
		wanted[id] = true
	}
	for _, c := range r.state.carts {
		var kept []entity.CartLine
		for _, l := range c.Lines {
			if !wanted[l.Id] {
				kept = append(kept, l)
			}
		}
		c.Lines = kept
	}
	return nil
}
