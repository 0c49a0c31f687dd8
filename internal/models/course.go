package models

import (
	"time"
)

type CourseModule struct {
	Title   string `json:"title" bson:"title"`
	Summary string `json:"summary,omitempty" bson:"summary,omitempty"`
}

type Course struct {
	ID          string         `json:"id" bson:"_id"`
	Title       string         `json:"title" bson:"title"`
	Description string         `json:"description" bson:"description"`
	Price       int64          `json:"price" bson:"price"` // minor units
	Currency    string         `json:"currency" bson:"currency"`
	Modules     []CourseModule `json:"modules" bson:"modules"`
	Published   bool           `json:"published" bson:"published"`
	CreatedAt   time.Time      `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt" bson:"updatedAt"`
}

type Enrollment struct {
	ID           string    `json:"id" bson:"_id"`
	UserID       string    `json:"userId" bson:"userId"`
	CourseID     string    `json:"courseId" bson:"courseId"`
	ModulesTotal int       `json:"modulesTotal" bson:"modulesTotal"`
	Status       string    `json:"status" bson:"status"` // active, completed
	EnrolledAt   time.Time `json:"enrolledAt" bson:"enrolledAt"`
}

type OrderStatus string

const (
	OrderCreated OrderStatus = "created"
	OrderPaid    OrderStatus = "paid"
	OrderFailed  OrderStatus = "failed"
)

// PaymentOrder mirrors the gateway order; signature verification happens
// server-side, the gateway checkout itself is an opaque collaborator.
type PaymentOrder struct {
	ID             string      `json:"id" bson:"_id"`
	UserID         string      `json:"userId" bson:"userId"`
	CourseID       string      `json:"courseId" bson:"courseId"`
	Amount         int64       `json:"amount" bson:"amount"`
	Currency       string      `json:"currency" bson:"currency"`
	Receipt        string      `json:"receipt" bson:"receipt"`
	GatewayOrderID string      `json:"gatewayOrderId" bson:"gatewayOrderId"`
	Status         OrderStatus `json:"status" bson:"status"`
	CreatedAt      time.Time   `json:"createdAt" bson:"createdAt"`
	PaidAt         *time.Time  `json:"paidAt,omitempty" bson:"paidAt,omitempty"`
}

// Payment DTOs
type CreateOrderRequest struct {
	CourseID string `json:"courseId" validate:"required"`
}

type VerifyPaymentRequest struct {
	OrderID   string `json:"orderId" validate:"required"`
	PaymentID string `json:"paymentId" validate:"required"`
	Signature string `json:"signature" validate:"required"`
}
