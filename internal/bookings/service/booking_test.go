package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	bookingserrors "pujari/internal/bookings/errors"
	"pujari/internal/bookings/validator"
	"pujari/internal/events"
	priesterrors "pujari/internal/priests/errors"
	"pujari/pkg/config"
	mongotx "pujari/pkg/db/mongo"
	apperrors "pujari/pkg/errors"
	"pujari/pkg/logger"
	"pujari/pkg/model"
)

type mockBookingRepository struct {
	createFunc           func(ctx context.Context, booking *model.Booking) error
	findByIDFunc         func(ctx context.Context, id string) (*model.Booking, error)
	findActiveFunc       func(ctx context.Context, priestID, date string) ([]*model.Booking, error)
	findByDevoteeFunc    func(ctx context.Context, devoteeID, status string, limit int, skip int64) ([]*model.Booking, error)
	countByDevoteeFunc   func(ctx context.Context, devoteeID, status string) (int64, error)
	findByPriestFunc     func(ctx context.Context, priestID, status string, limit int, skip int64) ([]*model.Booking, error)
	countByPriestFunc    func(ctx context.Context, priestID, status string) (int64, error)
	transitionStatusFunc func(ctx context.Context, id string, from []string, set bson.M) error
	markRefundedFunc     func(ctx context.Context, id string) error
}

func (m *mockBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	return m.createFunc(ctx, booking)
}

func (m *mockBookingRepository) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	return m.findByIDFunc(ctx, id)
}

func (m *mockBookingRepository) FindActiveByPriestAndDate(ctx context.Context, priestID, date string) ([]*model.Booking, error) {
	if m.findActiveFunc != nil {
		return m.findActiveFunc(ctx, priestID, date)
	}
	return nil, nil
}

func (m *mockBookingRepository) FindByDevotee(ctx context.Context, devoteeID, status string, limit int, skip int64) ([]*model.Booking, error) {
	return m.findByDevoteeFunc(ctx, devoteeID, status, limit, skip)
}

func (m *mockBookingRepository) CountByDevotee(ctx context.Context, devoteeID, status string) (int64, error) {
	return m.countByDevoteeFunc(ctx, devoteeID, status)
}

func (m *mockBookingRepository) FindByPriest(ctx context.Context, priestID, status string, limit int, skip int64) ([]*model.Booking, error) {
	return m.findByPriestFunc(ctx, priestID, status, limit, skip)
}

func (m *mockBookingRepository) CountByPriest(ctx context.Context, priestID, status string) (int64, error) {
	return m.countByPriestFunc(ctx, priestID, status)
}

func (m *mockBookingRepository) TransitionStatus(ctx context.Context, id string, from []string, set bson.M) error {
	return m.transitionStatusFunc(ctx, id, from, set)
}

func (m *mockBookingRepository) MarkRefunded(ctx context.Context, id string) error {
	return m.markRefundedFunc(ctx, id)
}

func (m *mockBookingRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(ctx)
}

type mockTransactionRepository struct {
	insertFunc          func(ctx context.Context, txn *model.Transaction) error
	findByPaymentIDFunc func(ctx context.Context, paymentID string) (*model.Transaction, error)
	findByBookingFunc   func(ctx context.Context, bookingID string) ([]*model.Transaction, error)
}

func (m *mockTransactionRepository) Insert(ctx context.Context, txn *model.Transaction) error {
	if m.insertFunc != nil {
		return m.insertFunc(ctx, txn)
	}
	return nil
}

func (m *mockTransactionRepository) FindByPaymentID(ctx context.Context, paymentID string) (*model.Transaction, error) {
	if m.findByPaymentIDFunc != nil {
		return m.findByPaymentIDFunc(ctx, paymentID)
	}
	return nil, bookingserrors.ErrNotFound
}

func (m *mockTransactionRepository) FindByBooking(ctx context.Context, bookingID string) ([]*model.Transaction, error) {
	if m.findByBookingFunc != nil {
		return m.findByBookingFunc(ctx, bookingID)
	}
	return nil, nil
}

type mockSlotLockRepository struct {
	acquireFunc func(ctx context.Context, key string, ttl time.Duration) error
	released    []string
}

func (m *mockSlotLockRepository) Acquire(ctx context.Context, key string, ttl time.Duration) error {
	if m.acquireFunc != nil {
		return m.acquireFunc(ctx, key, ttl)
	}
	return nil
}

func (m *mockSlotLockRepository) Release(ctx context.Context, key string) error {
	m.released = append(m.released, key)
	return nil
}

type mockPriestCatalog struct {
	findByIDFunc  func(ctx context.Context, id string) (*model.PriestProfile, error)
	incrementFunc func(ctx context.Context, id string) error
	increments    int
}

func (m *mockPriestCatalog) FindByID(ctx context.Context, id string) (*model.PriestProfile, error) {
	return m.findByIDFunc(ctx, id)
}

func (m *mockPriestCatalog) IncrementCeremonyCount(ctx context.Context, id string) error {
	m.increments++
	if m.incrementFunc != nil {
		return m.incrementFunc(ctx, id)
	}
	return nil
}

type mockSlotChecker struct {
	freeFunc func(ctx context.Context, priestID, date, startTime, endTime string) (bool, error)
}

func (m *mockSlotChecker) IsSlotFree(ctx context.Context, priestID, date, startTime, endTime string) (bool, error) {
	if m.freeFunc != nil {
		return m.freeFunc(ctx, priestID, date, startTime, endTime)
	}
	return true, nil
}

type recordingPublisher struct {
	events []events.Event
}

func (p *recordingPublisher) Publish(ctx context.Context, event events.Event) error {
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) types() []events.Type {
	var out []events.Type
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

const (
	priestID  = "662f000000000000000000aa"
	devoteeID = "662f000000000000000000cc"
	bookingID = "662f000000000000000000dd"
)

func testConfig() *config.Config {
	return &config.Config{
		DefaultTimeZone: "Asia/Kolkata",
		SlotLockTTL:     10 * time.Second,
		Log: logger.New(logger.Config{
			Level:   "error",
			Format:  logger.JSON,
			Service: "test",
		}),
	}
}

type fixture struct {
	repo      *mockBookingRepository
	txns      *mockTransactionRepository
	locks     *mockSlotLockRepository
	priests   *mockPriestCatalog
	slots     *mockSlotChecker
	publisher *recordingPublisher
	svc       *bookingService
}

func newFixture() *fixture {
	f := &fixture{
		repo:  &mockBookingRepository{},
		txns:  &mockTransactionRepository{},
		locks: &mockSlotLockRepository{},
		priests: &mockPriestCatalog{
			findByIDFunc: func(ctx context.Context, id string) (*model.PriestProfile, error) {
				return testPriest(), nil
			},
		},
		slots:     &mockSlotChecker{},
		publisher: &recordingPublisher{},
	}
	cfg := testConfig()
	f.svc = NewBookingService(
		f.repo, f.txns, f.locks, f.priests, f.slots,
		validator.NewBookingValidator(cfg.Log),
		f.publisher, cfg,
	).(*bookingService)
	f.svc.now = func() time.Time {
		return time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	}
	return f
}

func testPriest() *model.PriestProfile {
	return &model.PriestProfile{
		ID:         priestID,
		TimeZone:   "Asia/Kolkata",
		Ceremonies: []string{"griha pravesh"},
		PriceList:  map[string]int64{"griha pravesh": 15000},
	}
}

func newBookingRequest() *model.Booking {
	return &model.Booking{
		DevoteeID:    devoteeID,
		PriestID:     priestID,
		CeremonyType: "griha pravesh",
		Date:         "2025-06-02",
		StartTime:    "10:00",
		EndTime:      "12:00",
		Location: model.Location{
			Address: "12 Assi Ghat Road",
			City:    "Varanasi",
		},
	}
}

func TestCreate_SnapshotsPricingAndZone(t *testing.T) {
	f := newFixture()
	var stored *model.Booking
	f.repo.createFunc = func(ctx context.Context, booking *model.Booking) error {
		booking.ID = bookingID
		stored = booking
		return nil
	}

	booking := newBookingRequest()
	if err := f.svc.Create(context.Background(), booking); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if stored == nil {
		t.Fatal("expected Create to reach the repository")
	}
	if stored.BasePrice != 15000 || stored.PlatformFee != 750 || stored.TotalAmount != 15750 {
		t.Errorf("pricing snapshot = %d/%d/%d, want 15000/750/15750",
			stored.BasePrice, stored.PlatformFee, stored.TotalAmount)
	}
	if stored.Status != model.StatusPending || stored.PaymentStatus != model.PaymentPending {
		t.Errorf("new booking status = %s/%s", stored.Status, stored.PaymentStatus)
	}
	if stored.TimeZone != "Asia/Kolkata" {
		t.Errorf("time_zone = %q", stored.TimeZone)
	}
	if len(f.locks.released) != 1 {
		t.Errorf("slot lock released %d times, want 1", len(f.locks.released))
	}
	if len(f.publisher.events) != 1 || f.publisher.events[0].Type != events.BookingCreated {
		t.Errorf("published events = %v", f.publisher.types())
	}
}

func TestCreate_UnofferedCeremony(t *testing.T) {
	f := newFixture()
	f.repo.createFunc = func(ctx context.Context, booking *model.Booking) error {
		t.Error("Create must not be called")
		return nil
	}

	booking := newBookingRequest()
	booking.CeremonyType = "upanayana"
	err := f.svc.Create(context.Background(), booking)
	appErr := apperrors.AsAppError(err)
	if appErr.Code != apperrors.CodeValidation {
		t.Errorf("expected validation error, got: %v", err)
	}
}

func TestCreate_SlotTaken(t *testing.T) {
	f := newFixture()
	f.slots.freeFunc = func(ctx context.Context, priestID, date, startTime, endTime string) (bool, error) {
		return false, nil
	}
	f.repo.createFunc = func(ctx context.Context, booking *model.Booking) error {
		t.Error("Create must not be called for an occupied slot")
		return nil
	}

	err := f.svc.Create(context.Background(), newBookingRequest())
	appErr := apperrors.AsAppError(err)
	if appErr.Code != apperrors.CodeSlotConflict {
		t.Errorf("expected slot conflict, got: %v", err)
	}
}

func TestCreate_OverlappingSlotsContendForOneLock(t *testing.T) {
	f := newFixture()
	f.repo.createFunc = func(ctx context.Context, booking *model.Booking) error {
		return nil
	}
	var keys []string
	f.locks.acquireFunc = func(ctx context.Context, key string, ttl time.Duration) error {
		keys = append(keys, key)
		return nil
	}

	first := newBookingRequest()
	if err := f.svc.Create(context.Background(), first); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Different start time, overlapping interval. Both writers must take
	// the same lock or neither serializes the other.
	second := newBookingRequest()
	second.StartTime = "11:00"
	second.EndTime = "13:00"
	if err := f.svc.Create(context.Background(), second); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(keys) != 2 {
		t.Fatalf("lock acquired %d times, want 2", len(keys))
	}
	if keys[0] != keys[1] {
		t.Errorf("lock keys differ: %q vs %q", keys[0], keys[1])
	}
}

func TestCreate_PriestLookupErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
	}{
		{"unknown priest", priesterrors.ErrNotFound, apperrors.CodeNotFound},
		{"malformed id", priesterrors.ErrInvalidID, apperrors.CodeInvalidInput},
		{"repository failure", errors.New("connection reset"), apperrors.CodeInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			f.priests.findByIDFunc = func(ctx context.Context, id string) (*model.PriestProfile, error) {
				return nil, tt.err
			}
			f.repo.createFunc = func(ctx context.Context, booking *model.Booking) error {
				t.Error("Create must not be called")
				return nil
			}

			err := f.svc.Create(context.Background(), newBookingRequest())
			appErr := apperrors.AsAppError(err)
			if appErr.Code != tt.wantCode {
				t.Errorf("code = %s, want %s (err: %v)", appErr.Code, tt.wantCode, err)
			}
		})
	}
}

func TestCreate_LockHeldByConcurrentRequest(t *testing.T) {
	f := newFixture()
	f.locks.acquireFunc = func(ctx context.Context, key string, ttl time.Duration) error {
		return bookingserrors.ErrLockHeld
	}
	f.repo.createFunc = func(ctx context.Context, booking *model.Booking) error {
		t.Error("Create must not be called while the lock is held")
		return nil
	}

	err := f.svc.Create(context.Background(), newBookingRequest())
	appErr := apperrors.AsAppError(err)
	if appErr.Code != apperrors.CodeSlotConflict {
		t.Errorf("expected slot conflict, got: %v", err)
	}
}

func TestCreate_RecheckInsideTransaction(t *testing.T) {
	f := newFixture()
	calls := 0
	f.slots.freeFunc = func(ctx context.Context, priestID, date, startTime, endTime string) (bool, error) {
		calls++
		// Free at first glance, taken by the time the transaction re-checks.
		return calls == 1, nil
	}
	f.repo.createFunc = func(ctx context.Context, booking *model.Booking) error {
		t.Error("Create must not be called when the re-check fails")
		return nil
	}

	err := f.svc.Create(context.Background(), newBookingRequest())
	appErr := apperrors.AsAppError(err)
	if appErr.Code != apperrors.CodeSlotConflict {
		t.Errorf("expected slot conflict from re-check, got: %v", err)
	}
	if calls != 2 {
		t.Errorf("IsSlotFree called %d times, want 2", calls)
	}
}

func TestCreate_PastBookingRejected(t *testing.T) {
	f := newFixture()
	f.svc.now = func() time.Time {
		return time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	}
	f.repo.createFunc = func(ctx context.Context, booking *model.Booking) error {
		t.Error("Create must not be called for a past booking")
		return nil
	}

	err := f.svc.Create(context.Background(), newBookingRequest())
	if err == nil {
		t.Fatal("expected error for booking in the past")
	}
}

func TestConfirm_RequiresCompletedPayment(t *testing.T) {
	f := newFixture()
	f.repo.findByIDFunc = func(ctx context.Context, id string) (*model.Booking, error) {
		return &model.Booking{ID: bookingID, Status: model.StatusPending, PaymentStatus: model.PaymentPending}, nil
	}
	f.repo.transitionStatusFunc = func(ctx context.Context, id string, from []string, set bson.M) error {
		t.Error("TransitionStatus must not be called before payment")
		return nil
	}

	err := f.svc.Confirm(context.Background(), bookingID)
	appErr := apperrors.AsAppError(err)
	if appErr.Code != apperrors.CodeConflict {
		t.Errorf("expected conflict, got: %v", err)
	}
}

func TestConfirm_FromPending(t *testing.T) {
	f := newFixture()
	f.repo.findByIDFunc = func(ctx context.Context, id string) (*model.Booking, error) {
		return &model.Booking{
			ID: bookingID, PriestID: priestID, DevoteeID: devoteeID,
			Status: model.StatusPending, PaymentStatus: model.PaymentCompleted,
		}, nil
	}
	var gotFrom []string
	f.repo.transitionStatusFunc = func(ctx context.Context, id string, from []string, set bson.M) error {
		gotFrom = from
		if set["status"] != model.StatusConfirmed {
			t.Errorf("set status = %v", set["status"])
		}
		return nil
	}

	if err := f.svc.Confirm(context.Background(), bookingID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(gotFrom) != 1 || gotFrom[0] != model.StatusPending {
		t.Errorf("transition guard = %v, want [pending]", gotFrom)
	}
}

func TestCancel_AfterCancelConfirmFails(t *testing.T) {
	f := newFixture()
	status := model.StatusPending
	f.repo.findByIDFunc = func(ctx context.Context, id string) (*model.Booking, error) {
		return &model.Booking{
			ID: bookingID, PriestID: priestID, DevoteeID: devoteeID,
			Status: status, PaymentStatus: model.PaymentCompleted, TotalAmount: 15750,
		}, nil
	}
	f.repo.transitionStatusFunc = func(ctx context.Context, id string, from []string, set bson.M) error {
		for _, allowed := range from {
			if allowed == status {
				if s, ok := set["status"].(string); ok {
					status = s
				}
				return nil
			}
		}
		return bookingserrors.ErrNoTransition
	}

	if err := f.svc.Cancel(context.Background(), bookingID, "change of plans"); err != nil {
		t.Fatalf("unexpected cancel error: %v", err)
	}
	if status != model.StatusCancelled {
		t.Fatalf("status = %s", status)
	}

	err := f.svc.Confirm(context.Background(), bookingID)
	appErr := apperrors.AsAppError(err)
	if appErr.Code != apperrors.CodeInvalidTransition {
		t.Errorf("expected invalid transition, got: %v", err)
	}
}

func TestCancel_PaidBookingRefunds(t *testing.T) {
	f := newFixture()
	f.repo.findByIDFunc = func(ctx context.Context, id string) (*model.Booking, error) {
		return &model.Booking{
			ID: bookingID, PriestID: priestID, DevoteeID: devoteeID,
			Status: model.StatusConfirmed, PaymentStatus: model.PaymentCompleted,
			PaymentMethod: model.MethodUPI, TotalAmount: 15750,
		}, nil
	}
	var set bson.M
	f.repo.transitionStatusFunc = func(ctx context.Context, id string, from []string, s bson.M) error {
		set = s
		return nil
	}
	var refund *model.Transaction
	f.txns.insertFunc = func(ctx context.Context, txn *model.Transaction) error {
		refund = txn
		return nil
	}

	if err := f.svc.Cancel(context.Background(), bookingID, "priest unavailable"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if set["payment_status"] != model.PaymentRefunded {
		t.Errorf("payment_status in set = %v, want refunded", set["payment_status"])
	}
	if refund == nil || refund.Type != model.TransactionRefund || refund.Amount != 15750 {
		t.Errorf("refund transaction = %+v", refund)
	}
	types := f.publisher.types()
	if len(types) != 2 || types[0] != events.BookingCancelled || types[1] != events.PaymentRefunded {
		t.Errorf("published events = %v", types)
	}
}

func TestCancel_PaymentDuringCancelStillRefunds(t *testing.T) {
	f := newFixture()
	// The payment callback commits after the caller's read but before the
	// cancellation transaction. The in-transaction read must see it.
	reads := 0
	f.repo.findByIDFunc = func(ctx context.Context, id string) (*model.Booking, error) {
		reads++
		booking := &model.Booking{
			ID: bookingID, PriestID: priestID, DevoteeID: devoteeID,
			Status: model.StatusPending, PaymentStatus: model.PaymentPending,
		}
		if reads > 1 {
			booking.Status = model.StatusConfirmed
			booking.PaymentStatus = model.PaymentCompleted
			booking.PaymentMethod = model.MethodUPI
			booking.TotalAmount = 15750
		}
		return booking, nil
	}
	var set bson.M
	f.repo.transitionStatusFunc = func(ctx context.Context, id string, from []string, s bson.M) error {
		set = s
		return nil
	}
	var refund *model.Transaction
	f.txns.insertFunc = func(ctx context.Context, txn *model.Transaction) error {
		refund = txn
		return nil
	}

	if err := f.svc.Cancel(context.Background(), bookingID, "change of plans"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if reads < 2 {
		t.Fatal("refund decision must come from a read inside the transaction")
	}
	if set["payment_status"] != model.PaymentRefunded {
		t.Errorf("payment_status in set = %v, want refunded", set["payment_status"])
	}
	if refund == nil || refund.Type != model.TransactionRefund || refund.Amount != 15750 {
		t.Errorf("refund transaction = %+v", refund)
	}
	types := f.publisher.types()
	if len(types) != 2 || types[1] != events.PaymentRefunded {
		t.Errorf("published events = %v", types)
	}
	if len(f.publisher.events) == 2 && f.publisher.events[1].Amount != 15750 {
		t.Errorf("refund event amount = %d, want 15750", f.publisher.events[1].Amount)
	}
}

func TestCancel_UnpaidBookingSkipsRefund(t *testing.T) {
	f := newFixture()
	f.repo.findByIDFunc = func(ctx context.Context, id string) (*model.Booking, error) {
		return &model.Booking{
			ID: bookingID, PriestID: priestID, DevoteeID: devoteeID,
			Status: model.StatusPending, PaymentStatus: model.PaymentPending,
		}, nil
	}
	f.repo.transitionStatusFunc = func(ctx context.Context, id string, from []string, set bson.M) error {
		if _, ok := set["payment_status"]; ok {
			t.Error("unpaid cancellation must not touch payment_status")
		}
		return nil
	}
	f.txns.insertFunc = func(ctx context.Context, txn *model.Transaction) error {
		t.Error("no refund transaction expected for an unpaid booking")
		return nil
	}

	if err := f.svc.Cancel(context.Background(), bookingID, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestComplete_CreditsCeremonyCount(t *testing.T) {
	f := newFixture()
	f.repo.findByIDFunc = func(ctx context.Context, id string) (*model.Booking, error) {
		return &model.Booking{
			ID: bookingID, PriestID: priestID, DevoteeID: devoteeID,
			Status: model.StatusConfirmed, PaymentStatus: model.PaymentCompleted,
		}, nil
	}
	f.repo.transitionStatusFunc = func(ctx context.Context, id string, from []string, set bson.M) error {
		if set["status"] != model.StatusCompleted {
			t.Errorf("set status = %v", set["status"])
		}
		if _, ok := set["completed_at"]; !ok {
			t.Error("completed_at must be recorded")
		}
		return nil
	}

	if err := f.svc.Complete(context.Background(), bookingID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.priests.increments != 1 {
		t.Errorf("ceremony count incremented %d times, want 1", f.priests.increments)
	}
}

func TestComplete_BeforeConfirmFails(t *testing.T) {
	f := newFixture()
	f.repo.findByIDFunc = func(ctx context.Context, id string) (*model.Booking, error) {
		return &model.Booking{ID: bookingID, PriestID: priestID, Status: model.StatusPending}, nil
	}
	f.repo.transitionStatusFunc = func(ctx context.Context, id string, from []string, set bson.M) error {
		return bookingserrors.ErrNoTransition
	}

	err := f.svc.Complete(context.Background(), bookingID)
	appErr := apperrors.AsAppError(err)
	if appErr.Code != apperrors.CodeInvalidTransition {
		t.Errorf("expected invalid transition, got: %v", err)
	}
	if f.priests.increments != 0 {
		t.Errorf("ceremony count must not change on a failed transition, got %d", f.priests.increments)
	}
}

func TestComplete_DoubleCompleteFails(t *testing.T) {
	f := newFixture()
	status := model.StatusConfirmed
	f.repo.findByIDFunc = func(ctx context.Context, id string) (*model.Booking, error) {
		return &model.Booking{ID: bookingID, PriestID: priestID, Status: status}, nil
	}
	f.repo.transitionStatusFunc = func(ctx context.Context, id string, from []string, set bson.M) error {
		if status != model.StatusConfirmed {
			return bookingserrors.ErrNoTransition
		}
		status = model.StatusCompleted
		return nil
	}

	if err := f.svc.Complete(context.Background(), bookingID); err != nil {
		t.Fatalf("first complete failed: %v", err)
	}
	err := f.svc.Complete(context.Background(), bookingID)
	appErr := apperrors.AsAppError(err)
	if appErr.Code != apperrors.CodeInvalidTransition {
		t.Errorf("expected invalid transition on second complete, got: %v", err)
	}
	if f.priests.increments != 1 {
		t.Errorf("ceremony count incremented %d times, want exactly 1", f.priests.increments)
	}
}

func TestGetByID_DerivesViewFields(t *testing.T) {
	f := newFixture()
	f.repo.findByIDFunc = func(ctx context.Context, id string) (*model.Booking, error) {
		return &model.Booking{
			ID: bookingID, Status: model.StatusConfirmed,
			Date: "2025-06-03", StartTime: "10:00", EndTime: "12:00",
			TimeZone: "Asia/Kolkata",
		}, nil
	}

	view, err := f.svc.GetByID(context.Background(), bookingID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !view.IsUpcoming {
		t.Error("booking a day out must be upcoming")
	}
	if !view.CanCancel {
		t.Error("booking a day out must be cancellable")
	}
}
