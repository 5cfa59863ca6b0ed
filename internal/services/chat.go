package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/medikart/pharmacy-storefront/internal/errors"
	"github.com/medikart/pharmacy-storefront/internal/models"
	"github.com/microcosm-cc/bluemonday"
)

const chatFallbackMessage = "I'm sorry, something went wrong on my end. Please try again in a moment."

// ChatService drives the support-chat state machine:
//
//	Idle -> BotConversing -> ConnectingToPharmacist -> PharmacistConnected -> BotConversing
//
// Conversations are kept in memory per session. Closing the widget moves a
// session back to Idle but keeps its history, so reopening resumes the same
// conversation.
type ChatService struct {
	responder    BotResponder
	sanitizer    *bluemonday.Policy
	connectDelay time.Duration
	pharmacist   models.Pharmacist

	mu       sync.Mutex
	sessions map[string]*conversation
}

type conversation struct {
	mu         sync.Mutex
	state      models.ChatState
	messages   []models.ChatMessage
	nextID     int64
	typing     bool
	pharmacist *models.Pharmacist
}

func NewChatService(responder BotResponder, connectDelay time.Duration, pharmacistName, pharmacistSpecialty string) *ChatService {
	return &ChatService{
		responder:    responder,
		sanitizer:    bluemonday.StrictPolicy(),
		connectDelay: connectDelay,
		pharmacist: models.Pharmacist{
			Name:      pharmacistName,
			Specialty: pharmacistSpecialty,
		},
		sessions: make(map[string]*conversation),
	}
}

// Open starts or resumes a conversation. A new session gets a generated id
// and a single welcome message from the bot; an existing one just moves out
// of Idle with its history intact.
func (s *ChatService) Open(sessionID string) (string, []models.ChatMessage) {

	s.mu.Lock()

	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	conv, ok := s.sessions[sessionID]
	if !ok {
		conv = &conversation{state: models.StateIdle}
		s.sessions[sessionID] = conv
	}

	s.mu.Unlock()

	conv.mu.Lock()
	defer conv.mu.Unlock()

	if conv.state == models.StateIdle {
		conv.state = models.StateBotConversing
	}

	if len(conv.messages) == 0 {
		conv.appendLocked("Hi! I'm the MediKart assistant. Ask me about products or prescriptions, or say 'pharmacist' to talk to a real person.", models.SenderBot, nil)
	}

	return sessionID, conv.copyMessagesLocked()
}

// Send appends the user's message and produces the reply for the current
// state. The typing flag is set before dispatching and cleared on every exit
// path, including failures.
func (s *ChatService) Send(ctx context.Context, sessionID, text string) (*models.ChatResponse, error) {

	conv, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	conv.mu.Lock()
	defer conv.mu.Unlock()

	if conv.state == models.StateIdle {
		return nil, errors.BadRequestError("Chat session is not open")
	}

	clean := strings.TrimSpace(s.sanitizer.Sanitize(text))
	if clean == "" {
		return nil, errors.ValidationError("Message must not be empty")
	}

	conv.appendLocked(clean, models.SenderUser, nil)
	conv.typing = true
	defer func() { conv.typing = false }()

	if conv.state == models.StatePharmacistConnected {
		return s.pharmacistTurnLocked(sessionID, conv, clean), nil
	}

	reply, err := s.responder.Respond(ctx, clean)
	if err != nil {
		msg := conv.appendLocked(chatFallbackMessage, models.SenderBot, nil)

		return &models.ChatResponse{
			SessionID: sessionID,
			Message:   msg.Content,
			Timestamp: msg.Timestamp,
		}, nil
	}

	if reply.Handoff {
		return s.connectPharmacistLocked(sessionID, conv, reply.Message), nil
	}

	msg := conv.appendLocked(reply.Message, models.SenderBot, nil)

	return &models.ChatResponse{
		SessionID: sessionID,
		Message:   msg.Content,
		Timestamp: msg.Timestamp,
	}, nil
}

// connectPharmacistLocked runs the handoff: transitional bot message,
// ConnectingToPharmacist, simulated delay, then PharmacistConnected with a
// greeting tagged with the pharmacist's identity.
func (s *ChatService) connectPharmacistLocked(sessionID string, conv *conversation, transitional string) *models.ChatResponse {

	conv.appendLocked(transitional, models.SenderBot, nil)
	conv.state = models.StateConnectingToPharmacist

	if s.connectDelay > 0 {
		time.Sleep(s.connectDelay)
	}

	pharmacist := s.pharmacist
	pharmacist.ID = uuid.NewString()

	conv.state = models.StatePharmacistConnected
	conv.pharmacist = &pharmacist

	greeting := "Hello, I'm " + pharmacist.Name + ", " + pharmacist.Specialty + ". What can I help you with today?"
	msg := conv.appendLocked(greeting, models.SenderPharmacist, map[string]string{
		"pharmacist_id":   pharmacist.ID,
		"pharmacist_name": pharmacist.Name,
	})

	return &models.ChatResponse{
		SessionID: sessionID,
		Message:   msg.Content,
		Timestamp: msg.Timestamp,
		Action:    models.ChatActionPharmacistConnected,
		Data:      &pharmacist,
	}
}

// pharmacistTurnLocked produces the simulated pharmacist reply. A farewell
// ends the pharmacist session after the closing message is appended.
func (s *ChatService) pharmacistTurnLocked(sessionID string, conv *conversation, text string) *models.ChatResponse {

	reply, farewell := pharmacistReply(text)

	var metadata map[string]string
	if conv.pharmacist != nil {
		metadata = map[string]string{
			"pharmacist_id":   conv.pharmacist.ID,
			"pharmacist_name": conv.pharmacist.Name,
		}
	}

	msg := conv.appendLocked(reply, models.SenderPharmacist, metadata)

	resp := &models.ChatResponse{
		SessionID: sessionID,
		Message:   msg.Content,
		Timestamp: msg.Timestamp,
	}

	if farewell {
		conv.state = models.StateBotConversing
		conv.pharmacist = nil
		resp.Action = models.ChatActionPharmacistLeft
	}

	return resp
}

// ConnectPharmacist is the widget's explicit connect action: the same handoff
// a pharmacist-intent message triggers, without a user message.
func (s *ChatService) ConnectPharmacist(sessionID string) (*models.ChatResponse, error) {

	conv, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	conv.mu.Lock()
	defer conv.mu.Unlock()

	if conv.state == models.StateIdle {
		return nil, errors.BadRequestError("Chat session is not open")
	}

	if conv.state == models.StatePharmacistConnected || conv.state == models.StateConnectingToPharmacist {
		return nil, errors.BadRequestError("A pharmacist is already connected")
	}

	conv.typing = true
	defer func() { conv.typing = false }()

	return s.connectPharmacistLocked(sessionID, conv, handoffMessage), nil
}

// EndPharmacistChat is the explicit "end chat" action: the pharmacist session
// ends immediately and the bot takes over again. History is preserved.
func (s *ChatService) EndPharmacistChat(sessionID string) (*models.ChatResponse, error) {

	conv, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	conv.mu.Lock()
	defer conv.mu.Unlock()

	if conv.state != models.StatePharmacistConnected && conv.state != models.StateConnectingToPharmacist {
		return nil, errors.BadRequestError("No pharmacist session to end")
	}

	conv.state = models.StateBotConversing
	conv.pharmacist = nil

	msg := conv.appendLocked("The pharmacist has left the chat. I'm back to help with anything else!", models.SenderBot, nil)

	return &models.ChatResponse{
		SessionID: sessionID,
		Message:   msg.Content,
		Timestamp: msg.Timestamp,
		Action:    models.ChatActionPharmacistLeft,
	}, nil
}

// Close maps the widget closing: any state back to Idle, history retained.
func (s *ChatService) Close(sessionID string) error {

	conv, err := s.session(sessionID)
	if err != nil {
		return err
	}

	conv.mu.Lock()
	defer conv.mu.Unlock()

	conv.state = models.StateIdle
	conv.pharmacist = nil

	return nil
}

func (s *ChatService) State(sessionID string) (models.ChatState, error) {

	conv, err := s.session(sessionID)
	if err != nil {
		return "", err
	}

	conv.mu.Lock()
	defer conv.mu.Unlock()

	return conv.state, nil
}

func (s *ChatService) Messages(sessionID string) ([]models.ChatMessage, error) {

	conv, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	conv.mu.Lock()
	defer conv.mu.Unlock()

	return conv.copyMessagesLocked(), nil
}

// ConnectedPharmacist returns the active pharmacist, nil when none.
func (s *ChatService) ConnectedPharmacist(sessionID string) (*models.Pharmacist, error) {

	conv, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	conv.mu.Lock()
	defer conv.mu.Unlock()

	if conv.pharmacist == nil {
		return nil, nil
	}

	pharmacist := *conv.pharmacist

	return &pharmacist, nil
}

func (s *ChatService) IsTyping(sessionID string) (bool, error) {

	conv, err := s.session(sessionID)
	if err != nil {
		return false, err
	}

	conv.mu.Lock()
	defer conv.mu.Unlock()

	return conv.typing, nil
}

func (s *ChatService) session(sessionID string) (*conversation, error) {

	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.sessions[sessionID]
	if !ok {
		return nil, errors.NotFoundError("Chat session not found")
	}

	return conv, nil
}

func (c *conversation) appendLocked(content string, sender models.Sender, metadata map[string]string) models.ChatMessage {

	c.nextID++

	msg := models.ChatMessage{
		ID:        c.nextID,
		Content:   content,
		Sender:    sender,
		Timestamp: time.Now(),
		Metadata:  metadata,
	}

	c.messages = append(c.messages, msg)

	return msg
}

func (c *conversation) copyMessagesLocked() []models.ChatMessage {

	messages := make([]models.ChatMessage, len(c.messages))
	copy(messages, c.messages)

	return messages
}
