package services

import (
	"fmt"
	"strings"

	"github.com/bharatwheels/partner-backend/internal/storage"
)

// ChatbotService answers support questions by keyword matching. No NLP, no
// session state: the first rule whose keywords all appear in the message wins.
type ChatbotService struct {
	store storage.Store
	rules []chatRule
}

type chatRule struct {
	keywords []string
	reply    func(c *ChatbotService) string
}

func staticReply(text string) func(*ChatbotService) string {
	return func(*ChatbotService) string { return text }
}

// NewChatbotService creates the chatbot with its rule table.
func NewChatbotService(store storage.Store) *ChatbotService {
	c := &ChatbotService{store: store}
	c.rules = []chatRule{
		{[]string{"post", "booking"}, staticReply(
			"To post a booking, go to Post Booking, fill in the trip cities, vehicle type and amount, and submit. Partners in your route will see it immediately.")},
		{[]string{"post", "vehicle"}, staticReply(
			"To list your car, open Post Vehicle and enter the registration number, city and rate per km. Your listing stays active until you close it.")},
		{[]string{"otp"}, staticReply(
			"OTPs are valid for 10 minutes. If yours expired, tap Resend OTP to get a fresh code.")},
		{[]string{"score"}, staticReply(
			"Your partner score (300-900) is computed from your star-rating distribution once you have at least 5 reviews. More 5-star reviews raise it; 1-star reviews above 20% pull it down.")},
		{[]string{"wallet"}, staticReply(
			"Your wallet shows every credit and debit as a ledger entry. Balance updates instantly when a transaction is applied.")},
		{[]string{"verify"}, staticReply(
			"Submit your Aadhaar, driving licence or DigiLocker reference under Profile > Verification. Our team reviews documents within 24 hours.")},
		{[]string{"cancel"}, staticReply(
			"Only active postings can be cancelled. Once a booking is assigned, close it with a reason instead.")},
		{[]string{"available"}, func(c *ChatbotService) string {
			vehicles, err := c.store.ListVehicles(&storage.ListFilter{Limit: 1000})
			if err != nil {
				return "I could not fetch vehicle availability right now. Please try again."
			}
			return fmt.Sprintf("There are %d active vehicle listings right now. Browse them under Find Vehicles.", len(vehicles))
		}},
		{[]string{"contact"}, staticReply(
			"You can reach our support team at support@bharatwheels.in or on WhatsApp at +91 98765 00000.")},
		{[]string{"hello"}, staticReply(
			"Hello! Ask me about posting bookings or vehicles, OTP login, your partner score, wallet or verification.")},
		{[]string{"hi"}, staticReply(
			"Hi there! Ask me about posting bookings or vehicles, OTP login, your partner score, wallet or verification.")},
	}
	return c
}

// Reply returns the canned answer for the first matching rule, or the
// fallback prompt.
func (c *ChatbotService) Reply(message string) string {
	msg := strings.ToLower(message)
	for _, rule := range c.rules {
		if matchesAll(msg, rule.keywords) {
			return rule.reply(c)
		}
	}
	return "Sorry, I didn't get that. Try asking about bookings, vehicles, OTP, partner score, wallet or verification - or type 'contact' to reach support."
}

func matchesAll(msg string, keywords []string) bool {
	for _, kw := range keywords {
		if !strings.Contains(msg, kw) {
			return false
		}
	}
	return true
}
