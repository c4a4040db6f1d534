package storage

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bharatwheels/partner-backend/internal/models"
)

// MemoryStore holds all data in memory. Used by tests and by local runs with
// USE_MEMORY_STORE=true.
type MemoryStore struct {
	mu sync.RWMutex

	users         map[string]*models.User // keyed by UserID
	bookings      map[string]*models.Booking
	vehicles      map[string]*models.Vehicle
	reviews       []*models.Review
	transactions  []*models.Transaction
	verifications map[string]*models.Verification

	userCounter    int
	bookingCounter int
	vehicleCounter int
	reviewCounter  uint
	verCounter     int
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:         make(map[string]*models.User),
		bookings:      make(map[string]*models.Booking),
		vehicles:      make(map[string]*models.Vehicle),
		verifications: make(map[string]*models.Verification),
	}
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

// ---------- Users ----------

func (m *MemoryStore) CreateUser(user *models.User) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	user.Mobile = models.NormalizeMobile(user.Mobile)
	for _, u := range m.users {
		if u.Mobile == user.Mobile {
			return nil, ErrDuplicateMobile
		}
	}

	if user.UserID == "" {
		m.userCounter++
		user.UserID = fmt.Sprintf("%s%06d", models.UserIDPrefix, m.userCounter)
	}
	if user.Role == "" {
		user.Role = models.RoleUser
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt

	m.users[user.UserID] = user
	return user, nil
}

func (m *MemoryStore) GetUserByID(userID string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	user, ok := m.users[userID]
	if !ok {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (m *MemoryStore) GetUserByMobile(mobile string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	mobile = models.NormalizeMobile(mobile)
	for _, u := range m.users {
		if u.Mobile == mobile {
			return u, nil
		}
	}
	return nil, ErrUserNotFound
}

func (m *MemoryStore) UpdateUser(user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[user.UserID]; !ok {
		return ErrUserNotFound
	}
	user.UpdatedAt = time.Now()
	m.users[user.UserID] = user
	return nil
}

func (m *MemoryStore) DeleteUser(userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[userID]; !ok {
		return ErrUserNotFound
	}
	delete(m.users, userID)
	return nil
}

func (m *MemoryStore) SearchUsers(query string, limit int) ([]*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if limit < 1 || limit > 50 {
		limit = 20
	}
	var results []*models.User
	for _, u := range m.users {
		if u.IsSuspended {
			continue
		}
		if containsFold(u.Name, query) || containsFold(u.BusinessName, query) || containsFold(u.City, query) {
			results = append(results, u)
			if len(results) >= limit {
				break
			}
		}
	}
	return results, nil
}

// ---------- Bookings ----------

func (m *MemoryStore) CreateBooking(booking *models.Booking) (*models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if booking.BookingID == "" {
		m.bookingCounter++
		booking.BookingID = fmt.Sprintf("%s%06d", models.BookingIDPrefix, m.bookingCounter)
	}
	if _, exists := m.bookings[booking.BookingID]; exists {
		return nil, ErrDuplicateID
	}
	if booking.Status == "" {
		booking.Status = models.BookingStatusActive
	}
	booking.CreatedAt = time.Now()
	booking.UpdatedAt = booking.CreatedAt

	m.bookings[booking.BookingID] = booking
	return booking, nil
}

func (m *MemoryStore) GetBooking(bookingID string) (*models.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	booking, ok := m.bookings[bookingID]
	if !ok {
		return nil, ErrBookingNotFound
	}
	return booking, nil
}

func (m *MemoryStore) ListBookings(filter *ListFilter) ([]*models.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	filter.Normalize()
	var results []*models.Booking
	for _, b := range m.bookings {
		if filter.Status != "" && b.Status != filter.Status {
			continue
		}
		if filter.FromCity != "" && !containsFold(b.FromCity, filter.FromCity) {
			continue
		}
		if filter.ToCity != "" && !containsFold(b.ToCity, filter.ToCity) {
			continue
		}
		if filter.VehicleType != "" && !containsFold(b.VehicleType, filter.VehicleType) {
			continue
		}
		if filter.PostedBy != "" && b.PostedBy != filter.PostedBy {
			continue
		}
		results = append(results, b)
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].CreatedAt.After(results[j].CreatedAt)
	})
	return paginate(results, filter.Offset(), filter.Limit), nil
}

func (m *MemoryStore) UpdateBooking(booking *models.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.bookings[booking.BookingID]; !ok {
		return ErrBookingNotFound
	}
	booking.UpdatedAt = time.Now()
	m.bookings[booking.BookingID] = booking
	return nil
}

func (m *MemoryStore) DeleteBooking(bookingID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.bookings[bookingID]; !ok {
		return ErrBookingNotFound
	}
	delete(m.bookings, bookingID)
	return nil
}

func (m *MemoryStore) AddBookingComment(comment *models.BookingComment) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	booking, ok := m.bookings[comment.BookingID]
	if !ok {
		return ErrBookingNotFound
	}
	comment.CreatedAt = time.Now()
	booking.Comments = append(booking.Comments, *comment)
	return nil
}

// ---------- Vehicles ----------

func (m *MemoryStore) CreateVehicle(vehicle *models.Vehicle) (*models.Vehicle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if vehicle.VehicleID == "" {
		m.vehicleCounter++
		vehicle.VehicleID = fmt.Sprintf("%s%06d", models.VehicleIDPrefix, m.vehicleCounter)
	}
	if _, exists := m.vehicles[vehicle.VehicleID]; exists {
		return nil, ErrDuplicateID
	}
	if vehicle.Status == "" {
		vehicle.Status = models.VehicleStatusActive
	}
	vehicle.RegistrationNo = strings.ToUpper(strings.ReplaceAll(vehicle.RegistrationNo, " ", ""))
	vehicle.CreatedAt = time.Now()
	vehicle.UpdatedAt = vehicle.CreatedAt

	m.vehicles[vehicle.VehicleID] = vehicle
	return vehicle, nil
}

func (m *MemoryStore) GetVehicle(vehicleID string) (*models.Vehicle, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	vehicle, ok := m.vehicles[vehicleID]
	if !ok {
		return nil, ErrVehicleNotFound
	}
	return vehicle, nil
}

func (m *MemoryStore) ListVehicles(filter *ListFilter) ([]*models.Vehicle, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	filter.Normalize()
	var results []*models.Vehicle
	for _, v := range m.vehicles {
		if filter.Status != "" && v.Status != filter.Status {
			continue
		}
		if filter.City != "" && !containsFold(v.City, filter.City) {
			continue
		}
		if filter.VehicleType != "" && !containsFold(v.VehicleType, filter.VehicleType) {
			continue
		}
		if filter.PostedBy != "" && v.PostedBy != filter.PostedBy {
			continue
		}
		results = append(results, v)
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].CreatedAt.After(results[j].CreatedAt)
	})
	return paginate(results, filter.Offset(), filter.Limit), nil
}

func (m *MemoryStore) UpdateVehicle(vehicle *models.Vehicle) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.vehicles[vehicle.VehicleID]; !ok {
		return ErrVehicleNotFound
	}
	vehicle.UpdatedAt = time.Now()
	m.vehicles[vehicle.VehicleID] = vehicle
	return nil
}

func (m *MemoryStore) DeleteVehicle(vehicleID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.vehicles[vehicleID]; !ok {
		return ErrVehicleNotFound
	}
	delete(m.vehicles, vehicleID)
	return nil
}

func (m *MemoryStore) AddVehicleComment(comment *models.VehicleComment) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	vehicle, ok := m.vehicles[comment.VehicleID]
	if !ok {
		return ErrVehicleNotFound
	}
	comment.CreatedAt = time.Now()
	vehicle.Comments = append(vehicle.Comments, *comment)
	return nil
}

// ---------- Reviews ----------

func (m *MemoryStore) CreateReview(review *models.Review) (*models.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.reviewCounter++
	review.ID = m.reviewCounter
	review.CreatedAt = time.Now()
	m.reviews = append(m.reviews, review)
	return review, nil
}

func (m *MemoryStore) GetReviewByPair(reviewerID, reviewedID string) (*models.Review, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, r := range m.reviews {
		if r.ReviewerID == reviewerID && r.ReviewedID == reviewedID {
			return r, nil
		}
	}
	return nil, ErrReviewNotFound
}

func (m *MemoryStore) ListReviewsFor(userID string, page, limit int) ([]*models.Review, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	var results []*models.Review
	for _, r := range m.reviews {
		if r.ReviewedID == userID {
			results = append(results, r)
		}
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].CreatedAt.After(results[j].CreatedAt)
	})
	return paginate(results, (page-1)*limit, limit), nil
}

func (m *MemoryStore) GetRatingSummary(userID string) (*models.RatingSummary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	summary := &models.RatingSummary{
		UserID: userID,
		Counts: map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0},
	}
	sum := 0
	for _, r := range m.reviews {
		if r.ReviewedID != userID {
			continue
		}
		summary.Counts[r.Rating]++
		summary.Total++
		sum += r.Rating
	}
	if summary.Total > 0 {
		summary.Average = float64(sum) / float64(summary.Total)
	}
	return summary, nil
}

// ---------- Wallet ----------

func (m *MemoryStore) ApplyTransaction(txn *models.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.users[txn.UserID]
	if !ok {
		return ErrUserNotFound
	}

	switch txn.Type {
	case models.TransactionCredit:
		txn.BalanceAfter = user.WalletBalance + txn.Amount
	case models.TransactionDebit:
		if user.WalletBalance < txn.Amount {
			return ErrInsufficientBalance
		}
		txn.BalanceAfter = user.WalletBalance - txn.Amount
	default:
		return fmt.Errorf("unknown transaction type: %s", txn.Type)
	}

	if txn.TransactionID == "" {
		txn.TransactionID = fmt.Sprintf("TXN-%d", time.Now().UnixNano())
	}
	txn.CreatedAt = time.Now()
	m.transactions = append(m.transactions, txn)
	user.WalletBalance = txn.BalanceAfter
	return nil
}

func (m *MemoryStore) ListTransactions(userID string, page, limit int) ([]*models.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	var results []*models.Transaction
	for _, t := range m.transactions {
		if t.UserID == userID {
			results = append(results, t)
		}
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].CreatedAt.After(results[j].CreatedAt)
	})
	return paginate(results, (page-1)*limit, limit), nil
}

// ---------- Verifications ----------

func (m *MemoryStore) CreateVerification(v *models.Verification) (*models.Verification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if v.VerificationID == "" {
		m.verCounter++
		v.VerificationID = fmt.Sprintf("VER%06d", m.verCounter)
	}
	if v.Status == "" {
		v.Status = models.VerificationPending
	}
	v.CreatedAt = time.Now()
	m.verifications[v.VerificationID] = v
	return v, nil
}

func (m *MemoryStore) GetVerification(verificationID string) (*models.Verification, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.verifications[verificationID]
	if !ok {
		return nil, ErrVerificationNotFound
	}
	return v, nil
}

func (m *MemoryStore) ListVerificationsByUser(userID string) ([]*models.Verification, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var results []*models.Verification
	for _, v := range m.verifications {
		if v.UserID == userID {
			results = append(results, v)
		}
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].CreatedAt.After(results[j].CreatedAt)
	})
	return results, nil
}

func (m *MemoryStore) ListPendingVerifications() ([]*models.Verification, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var results []*models.Verification
	for _, v := range m.verifications {
		if v.Status == models.VerificationPending {
			results = append(results, v)
		}
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].CreatedAt.Before(results[j].CreatedAt)
	})
	return results, nil
}

func (m *MemoryStore) UpdateVerification(v *models.Verification) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.verifications[v.VerificationID]; !ok {
		return ErrVerificationNotFound
	}
	m.verifications[v.VerificationID] = v
	return nil
}

// ---------- Housekeeping ----------

func (m *MemoryStore) ClearExpiredOTPs() (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var cleared int64
	now := time.Now()
	for _, u := range m.users {
		if u.OTPCode != "" && u.OTPExpiresAt != nil && now.After(*u.OTPExpiresAt) {
			u.ClearOTP()
			cleared++
		}
	}
	return cleared, nil
}

// Ping always succeeds; the data is in-process.
func (m *MemoryStore) Ping() error {
	return nil
}

func paginate[T any](items []T, offset, limit int) []T {
	if offset >= len(items) {
		return nil
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}
