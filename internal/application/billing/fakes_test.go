package billing

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/crediario/backend/internal/domain/billing"
	"github.com/crediario/backend/internal/domain/partner"
	"github.com/crediario/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// In-memory repositories backing the service tests. They store copies so a
// mutation on a loaded aggregate only takes effect after Save, the same
// observable behavior a real store gives.

type fakeCustomerRepo struct {
	mu        sync.Mutex
	customers map[uuid.UUID]partner.Customer
}

func newFakeCustomerRepo() *fakeCustomerRepo {
	return &fakeCustomerRepo{customers: make(map[uuid.UUID]partner.Customer)}
}

func (r *fakeCustomerRepo) FindByID(_ context.Context, id uuid.UUID) (*partner.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.customers[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := c
	return &copied, nil
}

func (r *fakeCustomerRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*partner.Customer, error) {
	return r.FindByID(ctx, id)
}

func (r *fakeCustomerRepo) FindByPhone(_ context.Context, phone string) (*partner.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.customers {
		if c.Phone == phone {
			copied := c
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeCustomerRepo) FindAll(_ context.Context, filter shared.Filter) (*shared.Paginated[partner.Customer], error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	items := make([]partner.Customer, 0, len(r.customers))
	for _, c := range r.customers {
		items = append(items, c)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	return shared.NewPaginated(items, int64(len(items)), filter.Page, filter.PageSize), nil
}

func (r *fakeCustomerRepo) Save(_ context.Context, customer *partner.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.customers[customer.ID] = *customer
	return nil
}

func (r *fakeCustomerRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.customers, id)
	return nil
}

type fakeInvoiceRepo struct {
	mu       sync.Mutex
	invoices map[uuid.UUID]billing.Invoice
}

func newFakeInvoiceRepo() *fakeInvoiceRepo {
	return &fakeInvoiceRepo{invoices: make(map[uuid.UUID]billing.Invoice)}
}

func copyInvoice(inv billing.Invoice) billing.Invoice {
	items := make([]billing.LineItem, len(inv.Items))
	copy(items, inv.Items)
	inv.Items = items
	return inv
}

func (r *fakeInvoiceRepo) FindByID(_ context.Context, id uuid.UUID) (*billing.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	inv, ok := r.invoices[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := copyInvoice(inv)
	return &copied, nil
}

func (r *fakeInvoiceRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*billing.Invoice, error) {
	return r.FindByID(ctx, id)
}

func (r *fakeInvoiceRepo) FindByCustomer(_ context.Context, customerID uuid.UUID, filter shared.Filter) (*shared.Paginated[billing.Invoice], error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	items := make([]billing.Invoice, 0)
	for _, inv := range r.invoices {
		if inv.CustomerID == customerID {
			items = append(items, copyInvoice(inv))
		}
	}
	return shared.NewPaginated(items, int64(len(items)), filter.Page, filter.PageSize), nil
}

func (r *fakeInvoiceRepo) FindAll(_ context.Context, filter shared.Filter) (*shared.Paginated[billing.Invoice], error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	items := make([]billing.Invoice, 0, len(r.invoices))
	for _, inv := range r.invoices {
		items = append(items, copyInvoice(inv))
	}
	return shared.NewPaginated(items, int64(len(items)), filter.Page, filter.PageSize), nil
}

func (r *fakeInvoiceRepo) FindDueOn(_ context.Context, day time.Time, statuses []billing.InvoiceStatus) ([]*billing.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	y, m, d := day.Date()
	var out []*billing.Invoice
	for _, inv := range r.invoices {
		if inv.DueDate == nil {
			continue
		}
		dy, dm, dd := inv.DueDate.Date()
		if dy != y || dm != m || dd != d {
			continue
		}
		for _, st := range statuses {
			if inv.Status == st {
				copied := copyInvoice(inv)
				out = append(out, &copied)
				break
			}
		}
	}
	return out, nil
}

func (r *fakeInvoiceRepo) Save(_ context.Context, invoice *billing.Invoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.invoices[invoice.ID] = copyInvoice(*invoice)
	return nil
}

func (r *fakeInvoiceRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.invoices, id)
	return nil
}

type fakePaymentRepo struct {
	mu       sync.Mutex
	payments map[uuid.UUID]billing.Payment
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{payments: make(map[uuid.UUID]billing.Payment)}
}

func (r *fakePaymentRepo) FindByID(_ context.Context, id uuid.UUID) (*billing.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.payments[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := p
	return &copied, nil
}

func (r *fakePaymentRepo) FindByInvoice(_ context.Context, invoiceID uuid.UUID) ([]*billing.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*billing.Payment
	for _, p := range r.payments {
		if p.InvoiceID != nil && *p.InvoiceID == invoiceID {
			copied := p
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakePaymentRepo) FindByCustomer(_ context.Context, customerID uuid.UUID, filter shared.Filter) (*shared.Paginated[billing.Payment], error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	items := make([]billing.Payment, 0)
	for _, p := range r.payments {
		if p.CustomerID == customerID {
			items = append(items, p)
		}
	}
	return shared.NewPaginated(items, int64(len(items)), filter.Page, filter.PageSize), nil
}

func (r *fakePaymentRepo) SumByInvoice(_ context.Context, invoiceID uuid.UUID) (decimal.Decimal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sum := decimal.Zero
	for _, p := range r.payments {
		if p.InvoiceID != nil && *p.InvoiceID == invoiceID {
			sum = sum.Add(p.Amount)
		}
	}
	return sum, nil
}

func (r *fakePaymentRepo) SumByCustomer(_ context.Context, customerID uuid.UUID) (decimal.Decimal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sum := decimal.Zero
	for _, p := range r.payments {
		if p.CustomerID == customerID {
			sum = sum.Add(p.Amount)
		}
	}
	return sum, nil
}

func (r *fakePaymentRepo) UnlinkInvoice(_ context.Context, invoiceID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, p := range r.payments {
		if p.InvoiceID != nil && *p.InvoiceID == invoiceID {
			p.InvoiceID = nil
			r.payments[id] = p
		}
	}
	return nil
}

func (r *fakePaymentRepo) Save(_ context.Context, payment *billing.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.payments[payment.ID] = *payment
	return nil
}

func (r *fakePaymentRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.payments, id)
	return nil
}

type fakeNotificationRepo struct {
	mu            sync.Mutex
	notifications map[uuid.UUID]billing.Notification
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{notifications: make(map[uuid.UUID]billing.Notification)}
}

func (r *fakeNotificationRepo) FindByID(_ context.Context, id uuid.UUID) (*billing.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.notifications[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := n
	return &copied, nil
}

func (r *fakeNotificationRepo) FindPending(_ context.Context, before time.Time, limit int) ([]*billing.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*billing.Notification
	for _, n := range r.notifications {
		retryable := n.Status == billing.NotificationStatusPending ||
			(n.Status == billing.NotificationStatusFailed && n.Attempts < billing.MaxDeliveryAttempts)
		if !retryable || n.ScheduledFor.After(before) {
			continue
		}
		copied := n
		out = append(out, &copied)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (r *fakeNotificationRepo) FindByInvoice(_ context.Context, invoiceID uuid.UUID) ([]*billing.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*billing.Notification
	for _, n := range r.notifications {
		if n.InvoiceID != nil && *n.InvoiceID == invoiceID {
			copied := n
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeNotificationRepo) ExistsForKey(_ context.Context, invoiceID uuid.UUID, notifType billing.NotificationType, day time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	y, m, d := day.Date()
	for _, n := range r.notifications {
		ny, nm, nd := n.ScheduledFor.Date()
		if n.InvoiceID != nil && *n.InvoiceID == invoiceID && n.Type == notifType && ny == y && nm == m && nd == d {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeNotificationRepo) Save(_ context.Context, notification *billing.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notifications[notification.ID] = *notification
	return nil
}

type fakeAttachmentRepo struct {
	mu          sync.Mutex
	attachments map[uuid.UUID]billing.Attachment
}

func newFakeAttachmentRepo() *fakeAttachmentRepo {
	return &fakeAttachmentRepo{attachments: make(map[uuid.UUID]billing.Attachment)}
}

func (r *fakeAttachmentRepo) FindByID(_ context.Context, id uuid.UUID) (*billing.Attachment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.attachments[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := a
	return &copied, nil
}

func (r *fakeAttachmentRepo) FindByInvoice(_ context.Context, invoiceID uuid.UUID) ([]*billing.Attachment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*billing.Attachment
	for _, a := range r.attachments {
		if a.InvoiceID == invoiceID {
			copied := a
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeAttachmentRepo) Save(_ context.Context, attachment *billing.Attachment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.attachments[attachment.ID] = *attachment
	return nil
}

func (r *fakeAttachmentRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.attachments, id)
	return nil
}

// testEnv bundles the fakes with a no-op scope and the services under test
type testEnv struct {
	customers     *fakeCustomerRepo
	invoices      *fakeInvoiceRepo
	payments      *fakePaymentRepo
	notifications *fakeNotificationRepo
	attachments   *fakeAttachmentRepo
	scope         *NoOpTransactionScope
}

func newTestEnv() *testEnv {
	env := &testEnv{
		customers:     newFakeCustomerRepo(),
		invoices:      newFakeInvoiceRepo(),
		payments:      newFakePaymentRepo(),
		notifications: newFakeNotificationRepo(),
		attachments:   newFakeAttachmentRepo(),
	}
	env.scope = NewNoOpTransactionScope(env.customers, env.invoices, env.payments, env.notifications, env.attachments)
	return env
}

func (e *testEnv) addCustomer(name string, limit *decimal.Decimal) *partner.Customer {
	customer, err := partner.NewCustomer(name)
	if err != nil {
		panic(err)
	}
	if limit != nil {
		if err := customer.SetCreditLimit(limit); err != nil {
			panic(err)
		}
	}
	if err := e.customers.Save(context.Background(), customer); err != nil {
		panic(err)
	}
	return customer
}
