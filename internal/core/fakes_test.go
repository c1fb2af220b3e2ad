package core

import (
	"context"
	"fmt"
	"sort"
	"time"

	"solarify-backend-go/internal/db"
	"solarify-backend-go/internal/models"
)

// In-memory repository fakes shared by the service tests. They mirror the
// Firestore implementations' contracts: ErrNotFound on missing documents,
// generated IDs on create, newest-first listings.

type fakeUserRepo struct {
	users map[string]*models.User
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[string]*models.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	c := *u
	return &c, nil
}

func (r *fakeUserRepo) Create(_ context.Context, u *models.User) error {
	if _, ok := r.users[u.ID]; ok {
		return fmt.Errorf("user %s already exists", u.ID)
	}
	c := *u
	r.users[u.ID] = &c
	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, u *models.User) error {
	if _, ok := r.users[u.ID]; !ok {
		return db.ErrNotFound
	}
	c := *u
	r.users[u.ID] = &c
	return nil
}

type fakeRFQRepo struct {
	rfqs map[string]*models.RFQ
	seq  int
}

func newFakeRFQRepo() *fakeRFQRepo {
	return &fakeRFQRepo{rfqs: make(map[string]*models.RFQ)}
}

func (r *fakeRFQRepo) Create(_ context.Context, rfq *models.RFQ) (string, error) {
	r.seq++
	rfq.ID = fmt.Sprintf("rfq-%d", r.seq)
	c := *rfq
	r.rfqs[rfq.ID] = &c
	return rfq.ID, nil
}

func (r *fakeRFQRepo) GetByID(_ context.Context, id string) (*models.RFQ, error) {
	rfq, ok := r.rfqs[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	c := *rfq
	return &c, nil
}

func (r *fakeRFQRepo) Update(_ context.Context, rfq *models.RFQ) error {
	if _, ok := r.rfqs[rfq.ID]; !ok {
		return db.ErrNotFound
	}
	c := *rfq
	r.rfqs[rfq.ID] = &c
	return nil
}

func (r *fakeRFQRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.rfqs[id]; !ok {
		return db.ErrNotFound
	}
	delete(r.rfqs, id)
	return nil
}

func (r *fakeRFQRepo) ListByHomeowner(_ context.Context, homeownerID string) ([]*models.RFQ, error) {
	var out []*models.RFQ
	for _, rfq := range r.rfqs {
		if rfq.HomeownerID == homeownerID {
			c := *rfq
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeRFQRepo) ListPendingForInstaller(_ context.Context, installerID string, sortByBudget bool) ([]*models.RFQ, error) {
	var out []*models.RFQ
	for _, rfq := range r.rfqs {
		if rfq.Status == models.RFQStatusPending && rfq.SentToInstaller(installerID) && !rfq.DeclinedByInstaller(installerID) {
			c := *rfq
			out = append(out, &c)
		}
	}
	if sortByBudget {
		sort.Slice(out, func(i, j int) bool { return out[i].BudgetMaxUSD > out[j].BudgetMaxUSD })
	} else {
		sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	}
	return out, nil
}

func (r *fakeRFQRepo) CountByHomeowner(_ context.Context, homeownerID string) (int, error) {
	count := 0
	for _, rfq := range r.rfqs {
		if rfq.HomeownerID == homeownerID {
			count++
		}
	}
	return count, nil
}

type fakeQuoteRepo struct {
	quotes map[string]*models.Quote
	seq    int
}

func newFakeQuoteRepo() *fakeQuoteRepo {
	return &fakeQuoteRepo{quotes: make(map[string]*models.Quote)}
}

func (r *fakeQuoteRepo) Create(_ context.Context, q *models.Quote) (string, error) {
	r.seq++
	q.ID = fmt.Sprintf("quote-%d", r.seq)
	c := *q
	r.quotes[q.ID] = &c
	return q.ID, nil
}

func (r *fakeQuoteRepo) GetByID(_ context.Context, id string) (*models.Quote, error) {
	q, ok := r.quotes[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	c := *q
	return &c, nil
}

func (r *fakeQuoteRepo) Update(_ context.Context, q *models.Quote) error {
	if _, ok := r.quotes[q.ID]; !ok {
		return db.ErrNotFound
	}
	c := *q
	r.quotes[q.ID] = &c
	return nil
}

func (r *fakeQuoteRepo) ListByRFQ(_ context.Context, rfqID string) ([]*models.Quote, error) {
	var out []*models.Quote
	for _, q := range r.quotes {
		if q.RFQID == rfqID {
			c := *q
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeQuoteRepo) ListByInstaller(_ context.Context, installerID string) ([]*models.Quote, error) {
	var out []*models.Quote
	for _, q := range r.quotes {
		if q.InstallerID == installerID {
			c := *q
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type fakeProductRepo struct {
	products map[string]*models.Product
	seq      int
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: make(map[string]*models.Product)}
}

func (r *fakeProductRepo) Create(_ context.Context, p *models.Product) (string, error) {
	r.seq++
	p.ID = fmt.Sprintf("product-%d", r.seq)
	c := *p
	r.products[p.ID] = &c
	return p.ID, nil
}

func (r *fakeProductRepo) GetByID(_ context.Context, id string) (*models.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	c := *p
	return &c, nil
}

func (r *fakeProductRepo) Update(_ context.Context, p *models.Product) error {
	if _, ok := r.products[p.ID]; !ok {
		return db.ErrNotFound
	}
	c := *p
	r.products[p.ID] = &c
	return nil
}

func (r *fakeProductRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.products[id]; !ok {
		return db.ErrNotFound
	}
	delete(r.products, id)
	return nil
}

func (r *fakeProductRepo) List(_ context.Context, filter db.ProductFilter) ([]*models.Product, error) {
	var out []*models.Product
	for _, p := range r.products {
		if filter.SupplierID != "" && p.SupplierID != filter.SupplierID {
			continue
		}
		if filter.Category != "" && p.Category != filter.Category {
			continue
		}
		c := *p
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (r *fakeProductRepo) CountBySupplier(_ context.Context, supplierID string) (int, error) {
	count := 0
	for _, p := range r.products {
		if p.SupplierID == supplierID {
			count++
		}
	}
	return count, nil
}

type fakeOrderRepo struct {
	orders   map[string]*models.Order
	products *fakeProductRepo
	seq      int
}

func newFakeOrderRepo(products *fakeProductRepo) *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[string]*models.Order), products: products}
}

func (r *fakeOrderRepo) Create(_ context.Context, o *models.Order) (string, error) {
	r.seq++
	o.ID = fmt.Sprintf("order-%d", r.seq)
	c := *o
	r.orders[o.ID] = &c
	return o.ID, nil
}

func (r *fakeOrderRepo) GetByID(_ context.Context, id string) (*models.Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	c := *o
	return &c, nil
}

func (r *fakeOrderRepo) Update(_ context.Context, o *models.Order) error {
	if _, ok := r.orders[o.ID]; !ok {
		return db.ErrNotFound
	}
	c := *o
	r.orders[o.ID] = &c
	return nil
}

func (r *fakeOrderRepo) ListByBuyer(_ context.Context, buyerID string) ([]*models.Order, error) {
	var out []*models.Order
	for _, o := range r.orders {
		if o.BuyerID == buyerID {
			c := *o
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *fakeOrderRepo) ListBySupplier(_ context.Context, supplierID string) ([]*models.Order, error) {
	var out []*models.Order
	for _, o := range r.orders {
		if o.SupplierID == supplierID {
			c := *o
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *fakeOrderRepo) ConfirmWithStock(_ context.Context, order *models.Order) error {
	stored, ok := r.orders[order.ID]
	if !ok {
		return db.ErrNotFound
	}
	for _, item := range order.Items {
		p, ok := r.products.products[item.ProductID]
		if !ok {
			return db.ErrNotFound
		}
		if p.StockQuantity < item.Quantity {
			return fmt.Errorf("product '%s': %w", item.ProductID, db.ErrInsufficientStock)
		}
	}
	for _, item := range order.Items {
		r.products.products[item.ProductID].StockQuantity -= item.Quantity
	}
	stored.Status = models.OrderStatusConfirmed
	order.Status = models.OrderStatusConfirmed
	return nil
}

func (r *fakeOrderRepo) CancelWithStockRestore(_ context.Context, order *models.Order, restock bool) error {
	stored, ok := r.orders[order.ID]
	if !ok {
		return db.ErrNotFound
	}
	if restock {
		for _, item := range order.Items {
			if p, ok := r.products.products[item.ProductID]; ok {
				p.StockQuantity += item.Quantity
			}
		}
	}
	stored.Status = models.OrderStatusCancelled
	order.Status = models.OrderStatusCancelled
	return nil
}

type fakeReviewRepo struct {
	reviews map[string]*models.Review
	seq     int
}

func newFakeReviewRepo() *fakeReviewRepo {
	return &fakeReviewRepo{reviews: make(map[string]*models.Review)}
}

func (r *fakeReviewRepo) Create(_ context.Context, review *models.Review) (string, error) {
	r.seq++
	review.ID = fmt.Sprintf("review-%d", r.seq)
	c := *review
	r.reviews[review.ID] = &c
	return review.ID, nil
}

func (r *fakeReviewRepo) GetByReviewerAndTarget(_ context.Context, reviewerID string, targetType models.ReviewTarget, targetID string) (*models.Review, error) {
	for _, review := range r.reviews {
		if review.ReviewerID == reviewerID && review.TargetType == targetType && review.TargetID == targetID {
			c := *review
			return &c, nil
		}
	}
	return nil, db.ErrNotFound
}

func (r *fakeReviewRepo) ListByTarget(_ context.Context, targetType models.ReviewTarget, targetID string) ([]*models.Review, error) {
	var out []*models.Review
	for _, review := range r.reviews {
		if review.TargetType == targetType && review.TargetID == targetID {
			c := *review
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type fakePromotionRepo struct {
	promos map[string]*models.Promotion
	seq    int
}

func newFakePromotionRepo() *fakePromotionRepo {
	return &fakePromotionRepo{promos: make(map[string]*models.Promotion)}
}

func (r *fakePromotionRepo) Create(_ context.Context, p *models.Promotion) (string, error) {
	r.seq++
	p.ID = fmt.Sprintf("promo-%d", r.seq)
	c := *p
	r.promos[p.ID] = &c
	return p.ID, nil
}

func (r *fakePromotionRepo) GetByID(_ context.Context, id string) (*models.Promotion, error) {
	p, ok := r.promos[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	c := *p
	return &c, nil
}

func (r *fakePromotionRepo) Update(_ context.Context, p *models.Promotion) error {
	if _, ok := r.promos[p.ID]; !ok {
		return db.ErrNotFound
	}
	c := *p
	r.promos[p.ID] = &c
	return nil
}

func (r *fakePromotionRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.promos[id]; !ok {
		return db.ErrNotFound
	}
	delete(r.promos, id)
	return nil
}

func (r *fakePromotionRepo) ListBySupplier(_ context.Context, supplierID string) ([]*models.Promotion, error) {
	var out []*models.Promotion
	for _, p := range r.promos {
		if p.SupplierID == supplierID {
			c := *p
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakePromotionRepo) ListActive(_ context.Context, now time.Time, supplierID string) ([]*models.Promotion, error) {
	var out []*models.Promotion
	for _, p := range r.promos {
		if supplierID != "" && p.SupplierID != supplierID {
			continue
		}
		if p.ActiveAt(now) {
			c := *p
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type fakeContactRepo struct {
	messages []*models.ContactMessage
}

func (r *fakeContactRepo) Save(_ context.Context, msg *models.ContactMessage) (string, error) {
	c := *msg
	r.messages = append(r.messages, &c)
	return fmt.Sprintf("msg-%d", len(r.messages)), nil
}

// Shared test fixtures.

func homeowner(id string) *models.User {
	return &models.User{ID: id, Email: id + "@example.com", Role: models.RoleHomeowner}
}

func installer(id string) *models.User {
	return &models.User{ID: id, Email: id + "@example.com", Role: models.RoleInstaller, CompanyName: id + " Solar"}
}

func supplier(id string) *models.User {
	return &models.User{ID: id, Email: id + "@example.com", Role: models.RoleSupplier, CompanyName: id + " Supply"}
}
