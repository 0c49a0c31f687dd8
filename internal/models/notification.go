package models

import (
	"time"
)

// NotificationType is the closed set of notification kinds the platform emits.
type NotificationType string

const (
	TypeCourseUpdate  NotificationType = "course_update"
	TypeNewContent    NotificationType = "new_content"
	TypeLiveClass     NotificationType = "live_class"
	TypeStudyReminder NotificationType = "study_reminder"
	TypeForumReply    NotificationType = "forum_reply"
	TypeRoomInvite    NotificationType = "room_invite"
	TypeWikiReview    NotificationType = "wiki_review"
	TypeAchievement   NotificationType = "achievement"
	TypePayment       NotificationType = "payment"
	TypeSystem        NotificationType = "system"
)

// expirationHours is advisory retention per type; nothing sweeps expired
// records, consumers filter on ExpiresAt themselves.
var expirationHours = map[NotificationType]int{
	TypeCourseUpdate:  168,
	TypeNewContent:    168,
	TypeLiveClass:     24,
	TypeStudyReminder: 24,
	TypeForumReply:    72,
	TypeRoomInvite:    48,
	TypeWikiReview:    168,
	TypeAchievement:   720,
	TypePayment:       720,
	TypeSystem:        720,
}

func (t NotificationType) Valid() bool {
	_, ok := expirationHours[t]
	return ok
}

// ExpirationFrom returns the advisory expiry for a notification of this type
// created at the given time. Unknown types fall back to the system retention.
func (t NotificationType) ExpirationFrom(now time.Time) time.Time {
	hours, ok := expirationHours[t]
	if !ok {
		hours = expirationHours[TypeSystem]
	}
	return now.Add(time.Duration(hours) * time.Hour)
}

type NotificationPriority string

const (
	PriorityLow    NotificationPriority = "low"
	PriorityNormal NotificationPriority = "normal"
	PriorityHigh   NotificationPriority = "high"
	PriorityUrgent NotificationPriority = "urgent"
)

// DeliveryMethod is a channel a notification went out on.
type DeliveryMethod string

const (
	MethodPush  DeliveryMethod = "push"
	MethodEmail DeliveryMethod = "email"
)

type Notification struct {
	ID          string               `json:"id" bson:"_id"`
	UserID      string               `json:"userId" bson:"userId"`
	Type        NotificationType     `json:"type" bson:"type"`
	Title       string               `json:"title" bson:"title"`
	Body        string               `json:"body" bson:"body"`
	Data        map[string]string    `json:"data,omitempty" bson:"data,omitempty"`
	Priority    NotificationPriority `json:"priority" bson:"priority"`
	Read        bool                 `json:"read" bson:"read"`
	Clicked     bool                 `json:"clicked" bson:"clicked"`
	SentMethods []DeliveryMethod     `json:"sentMethods" bson:"sentMethods"`
	CreatedAt   time.Time            `json:"createdAt" bson:"createdAt"`
	ReadAt      *time.Time           `json:"readAt,omitempty" bson:"readAt,omitempty"`
	ClickedAt   *time.Time           `json:"clickedAt,omitempty" bson:"clickedAt,omitempty"`
	ExpiresAt   time.Time            `json:"expiresAt" bson:"expiresAt"`
}

type DigestFrequency string

const (
	DigestDaily   DigestFrequency = "daily"
	DigestWeekly  DigestFrequency = "weekly"
	DigestMonthly DigestFrequency = "monthly"
	DigestNever   DigestFrequency = "never"
)

// QuietHours suppresses push delivery inside the configured window.
// Start and End are "HH:MM" strings; a Start later than End spans midnight.
type QuietHours struct {
	Enabled bool   `json:"enabled" bson:"enabled"`
	Start   string `json:"start" bson:"start"`
	End     string `json:"end" bson:"end"`
}

// TypePreference is the per-type channel override.
type TypePreference struct {
	Push     bool                 `json:"push" bson:"push"`
	Email    bool                 `json:"email" bson:"email"`
	Priority NotificationPriority `json:"priority" bson:"priority"`
}

type NotificationPreferences struct {
	Enabled         bool                                `json:"enabled" bson:"enabled"`
	PushEnabled     bool                                `json:"pushEnabled" bson:"pushEnabled"`
	EmailEnabled    bool                                `json:"emailEnabled" bson:"emailEnabled"`
	DigestFrequency DigestFrequency                     `json:"digestFrequency" bson:"digestFrequency"`
	QuietHours      QuietHours                          `json:"quietHours" bson:"quietHours"`
	Types           map[NotificationType]TypePreference `json:"types" bson:"types"`
}

// DefaultPreferences materializes the hard-coded defaults used when a user
// has never saved preferences.
func DefaultPreferences() *NotificationPreferences {
	types := make(map[NotificationType]TypePreference, len(expirationHours))
	for t := range expirationHours {
		types[t] = TypePreference{Push: true, Email: true, Priority: PriorityNormal}
	}
	types[TypeStudyReminder] = TypePreference{Push: true, Email: false, Priority: PriorityLow}
	types[TypeLiveClass] = TypePreference{Push: true, Email: true, Priority: PriorityHigh}
	return &NotificationPreferences{
		Enabled:         true,
		PushEnabled:     true,
		EmailEnabled:    true,
		DigestFrequency: DigestWeekly,
		QuietHours:      QuietHours{Enabled: false, Start: "22:00", End: "08:00"},
		Types:           types,
	}
}

// Notification DTOs
type SendNotificationRequest struct {
	UserID   string               `json:"userId" validate:"required"`
	Type     NotificationType     `json:"type" validate:"required"`
	Title    string               `json:"title" validate:"required"`
	Body     string               `json:"body"`
	Data     map[string]string    `json:"data"`
	Priority NotificationPriority `json:"priority"`
}

type SendNotificationResult struct {
	Success        bool             `json:"success"`
	Blocked        bool             `json:"blocked,omitempty"`
	NotificationID string           `json:"notificationId,omitempty"`
	SentMethods    []DeliveryMethod `json:"sentMethods"`
}

type NotificationStats struct {
	Total   int `json:"total"`
	Unread  int `json:"unread"`
	Clicked int `json:"clicked"`
	Expired int `json:"expired"`
}
