package models

import "time"

type Sender string

const (
	SenderUser       Sender = "user"
	SenderBot        Sender = "bot"
	SenderPharmacist Sender = "pharmacist"
)

// ChatState tracks where a conversation currently is. The widget being
// closed maps to StateIdle; history survives the transition so reopening
// resumes the same conversation.
type ChatState string

const (
	StateIdle                   ChatState = "idle"
	StateBotConversing          ChatState = "bot_conversing"
	StateConnectingToPharmacist ChatState = "connecting_to_pharmacist"
	StatePharmacistConnected    ChatState = "pharmacist_connected"
)

type Intent string

const (
	IntentGreeting          Intent = "greeting"
	IntentPrescriptionQuery Intent = "prescription_query"
	IntentProductQuery      Intent = "product_query"
	IntentPharmacistRequest Intent = "pharmacist_request"
	IntentFarewell          Intent = "farewell"
	IntentUnknown           Intent = "unknown"
)

type ChatMessage struct {
	ID        int64             `json:"id"`
	Content   string            `json:"content"`
	Sender    Sender            `json:"sender"`
	Timestamp time.Time         `json:"timestamp"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

type Pharmacist struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Specialty string `json:"specialty"`
}

// Wire actions exchanged with the chat widget.
const (
	ChatActionConnectPharmacist   = "connectPharmacist"
	ChatActionPharmacistConnected = "pharmacistConnected"
	ChatActionPharmacistLeft      = "pharmacistLeft"
)

type ChatRequest struct {
	SessionID string `json:"session_id,omitempty"`
	Message   string `json:"message" validate:"required,max=2000"`
	Action    string `json:"action,omitempty"`
}

type ChatResponse struct {
	SessionID string      `json:"session_id"`
	Message   string      `json:"message"`
	Timestamp time.Time   `json:"timestamp"`
	Action    string      `json:"action,omitempty"`
	Data      *Pharmacist `json:"data,omitempty"`
}
