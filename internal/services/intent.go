package service

import (
	"context"
	"strings"

	"github.com/medikart/pharmacy-storefront/internal/models"
)

// ClassifyIntent is the pure keyword classifier behind the support bot. It is
// deliberately separate from the conversation state machine so the rules can
// be tested without conversational side effects.
func ClassifyIntent(text string) models.Intent {

	normalized := strings.ToLower(text)

	contains := func(keywords ...string) bool {
		for _, kw := range keywords {
			if strings.Contains(normalized, kw) {
				return true
			}
		}

		return false
	}

	switch {
	case contains("pharmacist", "live support", "real person", "speak to someone", "talk to a human", "human agent"):
		return models.IntentPharmacistRequest
	case contains("bye", "goodbye", "see you", "that's all", "thank you, bye"):
		return models.IntentFarewell
	case contains("prescription", "refill", "my rx", "doctor's note"):
		return models.IntentPrescriptionQuery
	case contains("price", "in stock", "available", "delivery", "shipping", "order status"):
		return models.IntentProductQuery
	case contains("hello", "hi ", "hey", "good morning", "good afternoon", "good evening") || normalized == "hi":
		return models.IntentGreeting
	default:
		return models.IntentUnknown
	}
}

// BotReply is what the responder hands back: either a plain message or a
// handoff signal asking the state machine to connect a pharmacist.
type BotReply struct {
	Message string
	Handoff bool
}

// BotResponder produces the bot side of the conversation. The rule-based
// implementation below is the default; an LLM-backed one can be swapped in
// behind the same interface.
type BotResponder interface {
	Respond(ctx context.Context, message string) (*BotReply, error)
}

const handoffMessage = "Of course! Let me connect you with one of our licensed pharmacists."

type ruleBasedResponder struct{}

func NewRuleBasedResponder() BotResponder {
	return &ruleBasedResponder{}
}

func (r *ruleBasedResponder) Respond(_ context.Context, message string) (*BotReply, error) {

	switch ClassifyIntent(message) {
	case models.IntentPharmacistRequest:
		return &BotReply{
			Message: handoffMessage,
			Handoff: true,
		}, nil
	case models.IntentGreeting:
		return &BotReply{Message: "Hello! Welcome to MediKart Pharmacy. How can I help you today?"}, nil
	case models.IntentPrescriptionQuery:
		return &BotReply{Message: "For prescription medicines, please upload your prescription at checkout. A pharmacist will verify it before your order ships."}, nil
	case models.IntentProductQuery:
		return &BotReply{Message: "You can browse our full catalog on the products page. Stock and prices shown there are always current."}, nil
	case models.IntentFarewell:
		return &BotReply{Message: "Thank you for visiting MediKart Pharmacy. Take care!"}, nil
	default:
		return &BotReply{Message: "I'm not sure I understood that. You can ask me about products, prescriptions, or say 'pharmacist' to talk to a real person."}, nil
	}
}

// pharmacistReply simulates the connected pharmacist's side of the chat with
// simple keyword matching over common medication questions.
func pharmacistReply(message string) (reply string, farewell bool) {

	normalized := strings.ToLower(message)

	contains := func(keywords ...string) bool {
		for _, kw := range keywords {
			if strings.Contains(normalized, kw) {
				return true
			}
		}

		return false
	}

	switch {
	case contains("bye", "goodbye", "thanks", "thank you", "that's all"):
		return "You're very welcome! Feel free to reach out anytime you have questions about your medications. Take care!", true
	case contains("side effect", "side-effect", "adverse"):
		return "Common side effects vary by medication. Could you tell me which medicine you're asking about? I'll go over what to watch for and when to contact your doctor.", false
	case contains("dosage", "dose", "how much", "how often"):
		return "Dosage depends on the specific medication, your age and your condition. Always follow the label or your prescriber's instructions. Which medicine are you asking about?", false
	case contains("interaction", "together", "combine", "mix"):
		return "Drug interactions can be serious. Please list all the medications and supplements you're taking and I'll check them for known interactions.", false
	case contains("alternative", "generic", "substitute", "cheaper"):
		return "There are often generic equivalents with the same active ingredient at a lower price. Tell me the medication and I'll look up the alternatives we stock.", false
	default:
		return "That's a good question. Based on what you've described, I'd recommend discussing the specifics with your prescriber as well. Is there a particular medication I can look up for you?", false
	}
}
