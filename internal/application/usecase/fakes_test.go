// internal/application/usecase/fakes_test.go
package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	cartdom "bloomstead/internal/domain/cart"
	orderdom "bloomstead/internal/domain/order"
	"bloomstead/internal/domain/product"
	"bloomstead/internal/domain/syncqueue"

	"bloomstead/internal/application/notify"
)

var errUnavailable = errors.New("store unavailable")

// fixedClock makes timestamp-based order ids deterministic.
type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

// recordingNotifier captures emitted events for assertions.
type recordingNotifier struct {
	mu     sync.Mutex
	events []notify.Event
}

func (n *recordingNotifier) Notify(ev notify.Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, ev)
}

func (n *recordingNotifier) kinds() []notify.Kind {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]notify.Kind, 0, len(n.events))
	for _, ev := range n.events {
		out = append(out, ev.Kind)
	}
	return out
}

// fakeCartStore is an in-memory cart.Store.
type fakeCartStore struct {
	items  []cartdom.LineItem
	saves  int
	failOn error
}

func (s *fakeCartStore) Load(ctx context.Context) ([]cartdom.LineItem, error) {
	if s.failOn != nil {
		return nil, s.failOn
	}
	out := make([]cartdom.LineItem, len(s.items))
	copy(out, s.items)
	return out, nil
}

func (s *fakeCartStore) Save(ctx context.Context, items []cartdom.LineItem) error {
	if s.failOn != nil {
		return s.failOn
	}
	s.items = make([]cartdom.LineItem, len(items))
	copy(s.items, items)
	s.saves++
	return nil
}

func (s *fakeCartStore) Clear(ctx context.Context) error {
	if s.failOn != nil {
		return s.failOn
	}
	s.items = nil
	return nil
}

// fakeMirror is an in-memory product.MirrorStore.
type fakeMirror struct {
	entries  map[string]product.LedgerEntry
	products []product.Product
	failGet  error
}

func newFakeMirror() *fakeMirror {
	return &fakeMirror{entries: map[string]product.LedgerEntry{}}
}

func (m *fakeMirror) Get(ctx context.Context, productID string) (product.LedgerEntry, bool, error) {
	if m.failGet != nil {
		return product.LedgerEntry{}, false, m.failGet
	}
	e, ok := m.entries[productID]
	return e, ok, nil
}

func (m *fakeMirror) Put(ctx context.Context, productID string, e product.LedgerEntry) error {
	m.entries[productID] = e
	return nil
}

func (m *fakeMirror) PutAll(ctx context.Context, products []product.Product) error {
	m.entries = map[string]product.LedgerEntry{}
	m.products = products
	for _, p := range products {
		m.entries[p.ID] = p.Inventory
	}
	return nil
}

func (m *fakeMirror) All(ctx context.Context) ([]product.Product, error) {
	return m.products, nil
}

// fakeRemoteLedger is an in-memory product.RemoteStore with a failure switch.
type fakeRemoteLedger struct {
	entries  map[string]product.LedgerEntry
	catalog  []product.Product
	down     bool
	writes   int
	lastID   string
	lastSeen product.LedgerPatch
}

func newFakeRemoteLedger() *fakeRemoteLedger {
	return &fakeRemoteLedger{entries: map[string]product.LedgerEntry{}}
}

func (r *fakeRemoteLedger) Read(ctx context.Context, productID string) (product.LedgerEntry, error) {
	if r.down {
		return product.LedgerEntry{}, errUnavailable
	}
	e, ok := r.entries[productID]
	if !ok {
		return product.LedgerEntry{}, product.ErrNotFound
	}
	return e, nil
}

func (r *fakeRemoteLedger) Write(ctx context.Context, productID string, patch product.LedgerPatch) error {
	if r.down {
		return errUnavailable
	}
	r.writes++
	r.lastID = productID
	r.lastSeen = patch
	r.entries[productID] = patch.Apply(r.entries[productID])
	return nil
}

func (r *fakeRemoteLedger) ReadAll(ctx context.Context) ([]product.Product, error) {
	if r.down {
		return nil, errUnavailable
	}
	return r.catalog, nil
}

// fakeQueue is an in-memory syncqueue.Store with the same latest-write-wins
// replacement the sqlite store gets from its primary key.
type fakeQueue struct {
	entries []syncqueue.Entry
}

func (q *fakeQueue) Enqueue(ctx context.Context, e syncqueue.Entry) error {
	q.entries = syncqueue.Merge(q.entries, e)
	return nil
}

func (q *fakeQueue) All(ctx context.Context) ([]syncqueue.Entry, error) {
	out := make([]syncqueue.Entry, len(q.entries))
	copy(out, q.entries)
	return out, nil
}

func (q *fakeQueue) Remove(ctx context.Context, productID string) error {
	kept := q.entries[:0]
	for _, e := range q.entries {
		if e.ProductID != productID {
			kept = append(kept, e)
		}
	}
	q.entries = kept
	return nil
}

// fakeOrderStore is an in-memory orderdom.RemoteStore.
type fakeOrderStore struct {
	orders  map[string]orderdom.Order
	down    bool
	creates int
}

func newFakeOrderStore() *fakeOrderStore {
	return &fakeOrderStore{orders: map[string]orderdom.Order{}}
}

func (r *fakeOrderStore) Create(ctx context.Context, o orderdom.Order) error {
	if r.down {
		return errUnavailable
	}
	r.creates++
	r.orders[o.ID] = o
	return nil
}

func (r *fakeOrderStore) GetByID(ctx context.Context, id string) (orderdom.Order, error) {
	if r.down {
		return orderdom.Order{}, errUnavailable
	}
	o, ok := r.orders[id]
	if !ok {
		return orderdom.Order{}, orderdom.ErrNotFound
	}
	return o, nil
}

func (r *fakeOrderStore) List(ctx context.Context) ([]orderdom.Order, error) {
	if r.down {
		return nil, errUnavailable
	}
	out := make([]orderdom.Order, 0, len(r.orders))
	for _, o := range r.orders {
		out = append(out, o)
	}
	return out, nil
}

func (r *fakeOrderStore) SetStatus(ctx context.Context, id string, s orderdom.Status) error {
	if r.down {
		return errUnavailable
	}
	o, ok := r.orders[id]
	if !ok {
		return orderdom.ErrNotFound
	}
	o.Status = s
	r.orders[id] = o
	return nil
}

func (r *fakeOrderStore) SetEmailFlags(ctx context.Context, id string, emailSent, invoiceEmailSent *bool) error {
	if r.down {
		return errUnavailable
	}
	o, ok := r.orders[id]
	if !ok {
		return orderdom.ErrNotFound
	}
	if emailSent != nil {
		o.EmailSent = *emailSent
	}
	if invoiceEmailSent != nil {
		o.InvoiceEmailSent = *invoiceEmailSent
	}
	r.orders[id] = o
	return nil
}

// fakeFallbackStore is an in-memory orderdom.FallbackStore.
type fakeFallbackStore struct {
	orders map[string]orderdom.Order
	down   bool
}

func newFakeFallbackStore() *fakeFallbackStore {
	return &fakeFallbackStore{orders: map[string]orderdom.Order{}}
}

func (f *fakeFallbackStore) Save(ctx context.Context, o orderdom.Order) error {
	if f.down {
		return errUnavailable
	}
	f.orders[o.ID] = o
	return nil
}

func (f *fakeFallbackStore) List(ctx context.Context) ([]orderdom.Order, error) {
	if f.down {
		return nil, errUnavailable
	}
	out := make([]orderdom.Order, 0, len(f.orders))
	for _, o := range f.orders {
		out = append(out, o)
	}
	return out, nil
}

func (f *fakeFallbackStore) Delete(ctx context.Context, id string) error {
	delete(f.orders, id)
	return nil
}

// fakeMailer records sends; individual methods can be failed independently.
type fakeMailer struct {
	confirmations []string
	invoices      []string
	certificates  []string
	failConfirm   error
	failInvoice   error
	failCert      error
}

func (m *fakeMailer) SendOrderConfirmation(ctx context.Context, o orderdom.Order) error {
	if m.failConfirm != nil {
		return m.failConfirm
	}
	m.confirmations = append(m.confirmations, o.ID)
	return nil
}

func (m *fakeMailer) SendInvoice(ctx context.Context, o orderdom.Order) error {
	if m.failInvoice != nil {
		return m.failInvoice
	}
	m.invoices = append(m.invoices, o.ID)
	return nil
}

func (m *fakeMailer) SendGiftCertificate(ctx context.Context, recipient, code string, amount float64) error {
	if m.failCert != nil {
		return m.failCert
	}
	m.certificates = append(m.certificates, recipient)
	return nil
}

// fakeGuard allows one token.
type fakeGuard struct{ token string }

func (g fakeGuard) VerifyAdmin(ctx context.Context, idToken string) error {
	if idToken != g.token {
		return errors.New("claim missing")
	}
	return nil
}

// fakeExporter records the last upload.
type fakeExporter struct {
	name string
	data []byte
}

func (e *fakeExporter) Upload(ctx context.Context, name string, data []byte) (string, error) {
	e.name = name
	e.data = data
	return "gs://test-bucket/exports/" + name, nil
}
