package services

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studyhall/studyhall-api/internal/models"
	"github.com/studyhall/studyhall-api/internal/store"
	"github.com/studyhall/studyhall-api/internal/store/memstore"
)

const testPaymentSecret = "test_secret"

func newPaymentFixture(t *testing.T) (*PaymentService, *memstore.Store) {
	t.Helper()
	st := memstore.New()
	notifier := NewNotificationService(st, st, &fakePush{}, &fakeEmail{}, testLogger())
	svc := NewPaymentService(st, notifier, testPaymentSecret, testLogger())
	return svc, st
}

func signPayment(orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(testPaymentSecret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func seedCourse(t *testing.T, st *memstore.Store) *models.Course {
	t.Helper()
	c := &models.Course{
		ID:       "c1",
		Title:    "Distributed Systems",
		Price:    49900,
		Currency: "INR",
		Modules: []models.CourseModule{
			{Title: "Consensus"}, {Title: "Replication"}, {Title: "Sharding"},
		},
		Published: true,
	}
	require.NoError(t, st.InsertCourse(context.Background(), c))
	return c
}

func TestCreateOrderRecordsCoursePrice(t *testing.T) {
	svc, st := newPaymentFixture(t)
	course := seedCourse(t, st)
	seedUser(t, st, models.User{ID: "u1", Email: "u1@example.com"})

	order, err := svc.CreateOrder(context.Background(), "u1", course.ID)
	require.NoError(t, err)

	assert.Equal(t, course.Price, order.Amount)
	assert.Equal(t, "INR", order.Currency)
	assert.Equal(t, models.OrderCreated, order.Status)
	assert.Contains(t, order.Receipt, "rcpt_")
}

func TestCreateOrderRejectsExistingEnrollment(t *testing.T) {
	svc, st := newPaymentFixture(t)
	course := seedCourse(t, st)
	require.NoError(t, st.InsertEnrollment(context.Background(), &models.Enrollment{
		ID: "e1", UserID: "u1", CourseID: course.ID, Status: "active",
	}))

	_, err := svc.CreateOrder(context.Background(), "u1", course.ID)
	assert.ErrorIs(t, err, ErrAlreadyEnrolled)
}

func TestVerifyPaymentEnrollsUser(t *testing.T) {
	svc, st := newPaymentFixture(t)
	course := seedCourse(t, st)
	seedUser(t, st, models.User{ID: "u1", Email: "u1@example.com"})

	order, err := svc.CreateOrder(context.Background(), "u1", course.ID)
	require.NoError(t, err)

	enrollment, err := svc.VerifyPayment(context.Background(), "u1", models.VerifyPaymentRequest{
		OrderID:   order.ID,
		PaymentID: "pay_123",
		Signature: signPayment(order.ID, "pay_123"),
	})
	require.NoError(t, err)

	assert.Equal(t, course.ID, enrollment.CourseID)
	assert.Equal(t, 3, enrollment.ModulesTotal)
	assert.Equal(t, "active", enrollment.Status)

	paid, err := st.GetOrder(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderPaid, paid.Status)
	require.NotNil(t, paid.PaidAt)

	// Enrollment confirmation notification.
	list, err := st.ListNotificationsByUser(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, models.TypePayment, list[0].Type)
}

func TestVerifyPaymentRejectsBadSignature(t *testing.T) {
	svc, st := newPaymentFixture(t)
	course := seedCourse(t, st)
	seedUser(t, st, models.User{ID: "u1", Email: "u1@example.com"})

	order, err := svc.CreateOrder(context.Background(), "u1", course.ID)
	require.NoError(t, err)

	_, err = svc.VerifyPayment(context.Background(), "u1", models.VerifyPaymentRequest{
		OrderID:   order.ID,
		PaymentID: "pay_123",
		Signature: "deadbeef",
	})
	assert.ErrorIs(t, err, ErrInvalidSignature)

	got, err := st.GetOrder(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderCreated, got.Status)

	_, err = st.GetEnrollment(context.Background(), "u1", course.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestVerifyPaymentRejectsForeignOrder(t *testing.T) {
	svc, st := newPaymentFixture(t)
	course := seedCourse(t, st)
	seedUser(t, st, models.User{ID: "u1", Email: "u1@example.com"})

	order, err := svc.CreateOrder(context.Background(), "u1", course.ID)
	require.NoError(t, err)

	_, err = svc.VerifyPayment(context.Background(), "u2", models.VerifyPaymentRequest{
		OrderID:   order.ID,
		PaymentID: "pay_123",
		Signature: signPayment(order.ID, "pay_123"),
	})
	assert.ErrorIs(t, err, store.ErrNotFound)
}
