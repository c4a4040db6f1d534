package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bharatwheels/partner-backend/internal/models"
	"github.com/bharatwheels/partner-backend/internal/storage"
)

func TestChatbotKeywordMatching(t *testing.T) {
	bot := NewChatbotService(storage.NewMemoryStore())

	assert.Contains(t, bot.Reply("How do I post a booking?"), "Post Booking")
	assert.Contains(t, bot.Reply("my OTP is not working"), "10 minutes")
	assert.Contains(t, bot.Reply("what is my partner SCORE"), "300-900")
	assert.Contains(t, bot.Reply("wallet balance?"), "ledger")
}

func TestChatbotCaseInsensitive(t *testing.T) {
	bot := NewChatbotService(storage.NewMemoryStore())
	assert.Equal(t, bot.Reply("OTP expired"), bot.Reply("otp expired"))
}

func TestChatbotFallback(t *testing.T) {
	bot := NewChatbotService(storage.NewMemoryStore())
	assert.Contains(t, bot.Reply("qwertyuiop"), "didn't get that")
}

func TestChatbotVehicleAvailabilityCount(t *testing.T) {
	store := storage.NewMemoryStore()
	owner, err := store.CreateUser(&models.User{Name: "Meera", Mobile: "9000000001"})
	require.NoError(t, err)
	_, err = store.CreateVehicle(&models.Vehicle{PostedBy: owner.UserID, City: "Pune", VehicleType: "sedan"})
	require.NoError(t, err)

	bot := NewChatbotService(store)
	assert.Contains(t, bot.Reply("any cars available?"), "1 active vehicle")
}
