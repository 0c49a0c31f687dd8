package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/studyhall/studyhall-api/internal/models"
	"github.com/studyhall/studyhall-api/internal/store"
)

func (s *Store) InsertCourse(ctx context.Context, c *models.Course) error {
	_, err := s.collection(colCourses).InsertOne(ctx, c)
	if err != nil {
		return fmt.Errorf("insert course: %w", err)
	}
	return nil
}

func (s *Store) GetCourse(ctx context.Context, id string) (*models.Course, error) {
	var c models.Course
	err := s.collection(colCourses).FindOne(ctx, bson.M{"_id": id}).Decode(&c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get course: %w", err)
	}
	return &c, nil
}

func (s *Store) ListCourses(ctx context.Context, publishedOnly bool) ([]models.Course, error) {
	filter := bson.M{}
	if publishedOnly {
		filter["published"] = true
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.collection(colCourses).Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	var list []models.Course
	if err := cursor.All(ctx, &list); err != nil {
		return nil, fmt.Errorf("decode courses: %w", err)
	}
	return list, nil
}

func (s *Store) InsertEnrollment(ctx context.Context, e *models.Enrollment) error {
	_, err := s.collection(colEnrollments).InsertOne(ctx, e)
	if mongo.IsDuplicateKeyError(err) {
		return store.ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("insert enrollment: %w", err)
	}
	return nil
}

func (s *Store) GetEnrollment(ctx context.Context, userID, courseID string) (*models.Enrollment, error) {
	var e models.Enrollment
	filter := bson.M{"userId": userID, "courseId": courseID}
	err := s.collection(colEnrollments).FindOne(ctx, filter).Decode(&e)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get enrollment: %w", err)
	}
	return &e, nil
}

func (s *Store) ListEnrollments(ctx context.Context, userID string) ([]models.Enrollment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "enrolledAt", Value: -1}})
	cursor, err := s.collection(colEnrollments).Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list enrollments: %w", err)
	}
	var list []models.Enrollment
	if err := cursor.All(ctx, &list); err != nil {
		return nil, fmt.Errorf("decode enrollments: %w", err)
	}
	return list, nil
}

func (s *Store) InsertOrder(ctx context.Context, o *models.PaymentOrder) error {
	_, err := s.collection(colPaymentOrders).InsertOne(ctx, o)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

func (s *Store) GetOrder(ctx context.Context, id string) (*models.PaymentOrder, error) {
	var o models.PaymentOrder
	err := s.collection(colPaymentOrders).FindOne(ctx, bson.M{"_id": id}).Decode(&o)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	return &o, nil
}

func (s *Store) MarkOrderPaid(ctx context.Context, id string, at time.Time) error {
	res, err := s.collection(colPaymentOrders).UpdateByID(ctx, id, bson.M{
		"$set": bson.M{"status": models.OrderPaid, "paidAt": at},
	})
	if err != nil {
		return fmt.Errorf("mark order paid: %w", err)
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}
