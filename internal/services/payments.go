package services

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/studyhall/studyhall-api/internal/models"
	"github.com/studyhall/studyhall-api/internal/store"
)

var (
	ErrInvalidSignature = errors.New("invalid payment signature")
	ErrAlreadyEnrolled  = errors.New("already enrolled in this course")
)

// PaymentService records gateway orders and verifies payment signatures.
// The gateway checkout itself runs client-side and is opaque to this server.
type PaymentService struct {
	courses  store.CourseStore
	notifier *NotificationService
	secret   string
	log      zerolog.Logger
	now      func() time.Time
}

func NewPaymentService(courses store.CourseStore, notifier *NotificationService, secret string, log zerolog.Logger) *PaymentService {
	return &PaymentService{
		courses:  courses,
		notifier: notifier,
		secret:   secret,
		log:      log.With().Str("component", "payments").Logger(),
		now:      time.Now,
	}
}

// CreateOrder records a pending order for the course's price.
func (s *PaymentService) CreateOrder(ctx context.Context, userID, courseID string) (*models.PaymentOrder, error) {
	course, err := s.courses.GetCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}

	if _, err := s.courses.GetEnrollment(ctx, userID, courseID); err == nil {
		return nil, ErrAlreadyEnrolled
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	now := s.now()
	order := &models.PaymentOrder{
		ID:        uuid.NewString(),
		UserID:    userID,
		CourseID:  courseID,
		Amount:    course.Price,
		Currency:  course.Currency,
		Receipt:   fmt.Sprintf("rcpt_%d", now.UnixMilli()),
		Status:    models.OrderCreated,
		CreatedAt: now,
	}
	if err := s.courses.InsertOrder(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// VerifyPayment checks the gateway signature (HMAC-SHA256 over
// "<orderID>|<paymentID>"), marks the order paid and enrolls the user.
func (s *PaymentService) VerifyPayment(ctx context.Context, userID string, req models.VerifyPaymentRequest) (*models.Enrollment, error) {
	order, err := s.courses.GetOrder(ctx, req.OrderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, store.ErrNotFound
	}

	if !s.signatureValid(req.OrderID, req.PaymentID, req.Signature) {
		return nil, ErrInvalidSignature
	}

	now := s.now()
	if err := s.courses.MarkOrderPaid(ctx, order.ID, now); err != nil {
		return nil, err
	}

	course, err := s.courses.GetCourse(ctx, order.CourseID)
	if err != nil {
		return nil, err
	}

	enrollment := &models.Enrollment{
		ID:           uuid.NewString(),
		UserID:       userID,
		CourseID:     order.CourseID,
		ModulesTotal: len(course.Modules),
		Status:       "active",
		EnrolledAt:   now,
	}
	if err := s.courses.InsertEnrollment(ctx, enrollment); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, ErrAlreadyEnrolled
		}
		return nil, err
	}

	if s.notifier != nil {
		_, err := s.notifier.Send(ctx, models.SendNotificationRequest{
			UserID:   userID,
			Type:     models.TypePayment,
			Title:    "Payment successful",
			Body:     fmt.Sprintf("You are now enrolled in %s.", course.Title),
			Data:     map[string]string{"courseId": course.ID, "orderId": order.ID},
			Priority: models.PriorityHigh,
		})
		if err != nil {
			s.log.Warn().Err(err).Str("order", order.ID).Msg("payment notification failed")
		}
	}

	return enrollment, nil
}

func (s *PaymentService) signatureValid(orderID, paymentID, signature string) bool {
	mac := hmac.New(sha256.New, []byte(s.secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
