package order

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"sync"
	"time"
)

// Change names the mutation that produced an order snapshot.
type Change string

const (
	ChangeCreated         Change = "created"
	ChangeStatus          Change = "status_changed"
	ChangePaymentVerified Change = "payment_verified"
	ChangeDriverLocation  Change = "driver_location_updated"
)

// Slot is a single keyed storage cell holding the serialized order list.
// Load returns (nil, nil) when nothing has been stored yet.
type Slot interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, data []byte) error
}

// Notifier delivers an order snapshot to an external endpoint.
type Notifier interface {
	Notify(ctx context.Context, o Order) error
}

// Publisher emits lifecycle events for every committed mutation.
type Publisher interface {
	Publish(ctx context.Context, change Change, o Order) error
}

// Observer is told how each asynchronous side effect ended.
// sink is "webhook" or "events"; err is nil on success.
type Observer interface {
	Observe(sink string, change Change, orderID string, elapsed time.Duration, err error)
}

type Options struct {
	Notifier  Notifier
	Publisher Publisher
	Observer  Observer
	Logger    *log.Logger
	Now       func() time.Time
	NewID     func() string
}

type Store struct {
	slot      Slot
	notifier  Notifier
	publisher Publisher
	observer  Observer
	logger    *log.Logger
	now       func() time.Time
	newID     func() string

	mu     sync.RWMutex
	orders []Order // most recent first

	inflight sync.WaitGroup
	webhooks *deliveryQueue
	events   *deliveryQueue
}

// NewStore loads the slot once. A missing or unreadable snapshot starts an
// empty history; only a failing backend is returned as an error.
func NewStore(ctx context.Context, slot Slot, opts Options) (*Store, error) {
	s := &Store{
		slot:      slot,
		notifier:  opts.Notifier,
		publisher: opts.Publisher,
		observer:  opts.Observer,
		logger:    opts.Logger,
		now:       opts.Now,
		newID:     opts.NewID,
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard, "", 0)
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.newID == nil {
		s.newID = NewID
	}
	if s.observer == nil {
		s.observer = logObserver{logger: s.logger}
	}
	s.webhooks = newDeliveryQueue(&s.inflight)
	s.events = newDeliveryQueue(&s.inflight)

	data, err := slot.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load orders: %w", err)
	}
	if len(data) > 0 {
		var orders []Order
		if err := json.Unmarshal(data, &orders); err != nil {
			s.logger.Printf("order snapshot unreadable, starting with empty history: %v", err)
		} else {
			s.orders = orders
		}
	}
	s.logger.Printf("loaded %d orders", len(s.orders))
	return s, nil
}

func (s *Store) Create(ctx context.Context, d Draft) (Order, error) {
	if err := d.Validate(); err != nil {
		return Order{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	status, verified := initialStatus(d.PaymentMethod)
	o := Order{
		ID:                s.uniqueID(),
		Items:             d.Items,
		TotalAmount:       d.TotalAmount,
		DeliveryFee:       d.DeliveryFee,
		DeliveryAddress:   d.DeliveryAddress,
		GpsCoordinates:    d.GpsCoordinates,
		Distance:          d.Distance,
		PaymentMethod:     d.PaymentMethod,
		Status:            status,
		OrderDate:         now,
		CustomerInfo:      d.CustomerInfo,
		DeliveryTime:      d.DeliveryTime,
		EstimatedDelivery: now.Add(deliveryWindow),
		PaymentVerified:   verified,
	}
	o = o.Clone()

	next := make([]Order, 0, len(s.orders)+1)
	next = append(next, o)
	next = append(next, s.orders...)
	if err := s.persist(ctx, next); err != nil {
		return Order{}, err
	}
	s.orders = next

	s.dispatch(ctx, ChangeCreated, o, true)
	return o.Clone(), nil
}

// UpdateStatus is rejected from payment_verification, which only
// VerifyPayment may leave, and from the terminal statuses.
func (s *Store) UpdateStatus(ctx context.Context, id string, status Status) (Order, error) {
	if _, err := ParseStatus(string(status)); err != nil {
		return Order{}, err
	}
	return s.mutate(ctx, id, ChangeStatus, func(o *Order) (bool, error) {
		if o.Status == StatusPaymentVerification || o.Status.Terminal() {
			return false, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Status, status)
		}
		o.Status = status
		return status == StatusCompleted, nil
	})
}

func (s *Store) VerifyPayment(ctx context.Context, id string) (Order, error) {
	return s.mutate(ctx, id, ChangePaymentVerified, func(o *Order) (bool, error) {
		if o.Status.Terminal() {
			return false, fmt.Errorf("%w: cannot verify payment of %s order", ErrInvalidTransition, o.Status)
		}
		o.Status = StatusProcessing
		o.PaymentVerified = true
		return true, nil
	})
}

func (s *Store) UpdateDriverLocation(ctx context.Context, id string, lat, lon float64) (Order, error) {
	if !ValidCoordinates(lat, lon) {
		return Order{}, fmt.Errorf("%w: %v, %v", ErrInvalidLocation, lat, lon)
	}
	return s.mutate(ctx, id, ChangeDriverLocation, func(o *Order) (bool, error) {
		ts := s.now()
		if o.DriverLocation != nil && o.DriverLocation.LastUpdated.After(ts) {
			ts = o.DriverLocation.LastUpdated
		}
		o.DriverLocation = &DriverLocation{Latitude: lat, Longitude: lon, LastUpdated: ts}
		return true, nil
	})
}

func (s *Store) GetByID(ctx context.Context, id string) (Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.indexOf(id)
	if idx < 0 {
		s.logger.Printf("get order %s: not found among %d orders", id, len(s.orders))
		return Order{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return s.orders[idx].Clone(), nil
}

// List returns every order, most recent first.
func (s *Store) List(ctx context.Context) ([]Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Order, len(s.orders))
	for i, o := range s.orders {
		out[i] = o.Clone()
	}
	return out, nil
}

// Wait blocks until every side effect already queued has finished.
func (s *Store) Wait() {
	s.inflight.Wait()
}

// mutate applies fn to a copy of the order, persists the new list and only
// then swaps it in. fn reports whether the webhook should fire.
func (s *Store) mutate(ctx context.Context, id string, change Change, fn func(o *Order) (bool, error)) (Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return Order{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	updated := s.orders[idx].Clone()
	webhook, err := fn(&updated)
	if err != nil {
		return Order{}, err
	}

	next := make([]Order, len(s.orders))
	copy(next, s.orders)
	next[idx] = updated
	if err := s.persist(ctx, next); err != nil {
		return Order{}, err
	}
	s.orders = next

	s.dispatch(ctx, change, updated, webhook)
	return updated.Clone(), nil
}

func (s *Store) persist(ctx context.Context, orders []Order) error {
	data, err := json.Marshal(orders)
	if err != nil {
		return fmt.Errorf("marshal orders: %w", err)
	}
	if err := s.slot.Save(ctx, data); err != nil {
		return fmt.Errorf("save orders: %w", err)
	}
	return nil
}

func (s *Store) indexOf(id string) int {
	for i := range s.orders {
		if s.orders[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) uniqueID() string {
	for {
		id := s.newID()
		if s.indexOf(id) < 0 {
			return id
		}
	}
}

// dispatch queues side effects behind earlier ones. Callers hold s.mu, so
// each sink sees snapshots in commit order. The detached context keeps
// request values such as the correlation id but not the caller's deadline.
func (s *Store) dispatch(ctx context.Context, change Change, o Order, webhook bool) {
	bg := context.WithoutCancel(ctx)

	if webhook && s.notifier != nil {
		snapshot := o.Clone()
		s.webhooks.push(func() {
			start := time.Now()
			err := s.notifier.Notify(bg, snapshot)
			s.observer.Observe("webhook", change, snapshot.ID, time.Since(start), err)
		})
	}

	if s.publisher != nil {
		snapshot := o.Clone()
		s.events.push(func() {
			start := time.Now()
			err := s.publisher.Publish(bg, change, snapshot)
			s.observer.Observe("events", change, snapshot.ID, time.Since(start), err)
		})
	}
}

type logObserver struct {
	logger *log.Logger
}

func (l logObserver) Observe(sink string, change Change, orderID string, elapsed time.Duration, err error) {
	if err != nil {
		l.logger.Printf("%s %s for order %s failed after %s: %v", sink, change, orderID, elapsed, err)
		return
	}
	l.logger.Printf("%s %s for order %s sent in %s", sink, change, orderID, elapsed)
}

// LogObserver reports notification outcomes to logger.
func LogObserver(logger *log.Logger) Observer {
	return logObserver{logger: logger}
}
