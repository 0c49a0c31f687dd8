package models

import (
	"time"
)

type RoomType string

const (
	RoomStudyGroup RoomType = "study_group"
	RoomExamPrep   RoomType = "exam_prep"
	RoomProject    RoomType = "project"
	RoomTutoring   RoomType = "tutoring"
)

type RoomPrivacy string

const (
	RoomPublic     RoomPrivacy = "public"
	RoomPrivate    RoomPrivacy = "private"
	RoomInviteOnly RoomPrivacy = "invite_only"
)

type RoomTools struct {
	Whiteboard      bool `json:"whiteboard" bson:"whiteboard"`
	SharedDocuments bool `json:"sharedDocuments" bson:"sharedDocuments"`
	ScreenShare     bool `json:"screenShare" bson:"screenShare"`
	VoiceChat       bool `json:"voiceChat" bson:"voiceChat"`
	VideoChat       bool `json:"videoChat" bson:"videoChat"`
}

type StudyRoom struct {
	ID              string      `json:"id" bson:"_id"`
	Name            string      `json:"name" bson:"name"`
	Topic           string      `json:"topic,omitempty" bson:"topic,omitempty"`
	HostID          string      `json:"hostId" bson:"hostId"`
	Participants    []string    `json:"participants" bson:"participants"`
	MaxParticipants int         `json:"maxParticipants" bson:"maxParticipants"`
	RoomType        RoomType    `json:"roomType" bson:"roomType"`
	Privacy         RoomPrivacy `json:"privacy" bson:"privacy"`
	Tools           RoomTools   `json:"tools" bson:"tools"`
	IsActive        bool        `json:"isActive" bson:"isActive"`
	CreatedAt       time.Time   `json:"createdAt" bson:"createdAt"`
	ClosedAt        *time.Time  `json:"closedAt,omitempty" bson:"closedAt,omitempty"`
}

type Point struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

type WhiteboardElement struct {
	Type        string  `json:"type" bson:"type"` // path, line, rect, text
	Points      []Point `json:"points" bson:"points"`
	Color       string  `json:"color" bson:"color"`
	StrokeWidth float64 `json:"strokeWidth" bson:"strokeWidth"`
	Text        string  `json:"text,omitempty" bson:"text,omitempty"`
	Timestamp   int64   `json:"timestamp" bson:"timestamp"`
}

// Whiteboard holds one board per room, keyed by room ID. The whole Elements
// array is replaced on every persist; last writer wins.
type Whiteboard struct {
	RoomID       string              `json:"roomId" bson:"_id"`
	Elements     []WhiteboardElement `json:"elements" bson:"elements"`
	LastModified time.Time           `json:"lastModified" bson:"lastModified"`
	ModifiedBy   string              `json:"modifiedBy" bson:"modifiedBy"`
}

type SharedDocument struct {
	ID            string    `json:"id" bson:"_id"`
	RoomID        string    `json:"roomId" bson:"roomId"`
	Title         string    `json:"title" bson:"title"`
	Content       string    `json:"content" bson:"content"`
	Version       int       `json:"version" bson:"version"`
	Collaborators []string  `json:"collaborators" bson:"collaborators"`
	IsLocked      bool      `json:"isLocked" bson:"isLocked"`
	CreatedAt     time.Time `json:"createdAt" bson:"createdAt"`
	LastModified  time.Time `json:"lastModified" bson:"lastModified"`
	ModifiedBy    string    `json:"modifiedBy" bson:"modifiedBy"`
}

type RoomMessage struct {
	ID        string    `json:"id" bson:"_id"`
	RoomID    string    `json:"roomId" bson:"roomId"`
	UserID    string    `json:"userId" bson:"userId"`
	Message   string    `json:"message" bson:"message"`
	Type      string    `json:"type" bson:"type"` // text, system
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
}

type RoomActivity struct {
	ID        string    `json:"id" bson:"_id"`
	RoomID    string    `json:"roomId" bson:"roomId"`
	UserID    string    `json:"userId" bson:"userId"`
	Action    string    `json:"action" bson:"action"` // joined, left, whiteboard_saved, document_saved
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
}

// Room DTOs
type CreateRoomRequest struct {
	Name            string      `json:"name" validate:"required"`
	Topic           string      `json:"topic"`
	MaxParticipants int         `json:"maxParticipants"`
	RoomType        RoomType    `json:"roomType"`
	Privacy         RoomPrivacy `json:"privacy"`
	Tools           RoomTools   `json:"tools"`
}

type SaveWhiteboardRequest struct {
	Elements []WhiteboardElement `json:"elements"`
}

type CreateDocumentRequest struct {
	Title string `json:"title" validate:"required"`
}

type SaveDocumentRequest struct {
	Title   *string `json:"title"`
	Content string  `json:"content"`
}

type PostMessageRequest struct {
	Message string `json:"message" validate:"required"`
}
