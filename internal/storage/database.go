package storage

import (
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/bharatwheels/partner-backend/internal/models"
)

// DatabaseStore implements Store on top of GORM/PostgreSQL.
type DatabaseStore struct {
	db *gorm.DB
}

// NewDatabaseStore creates a database-backed store.
func NewDatabaseStore(db *gorm.DB) *DatabaseStore {
	return &DatabaseStore{db: db}
}

func isDuplicateKey(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey) ||
		strings.Contains(err.Error(), "duplicate key") ||
		strings.Contains(err.Error(), "23505")
}

// ---------- Users ----------

func (s *DatabaseStore) CreateUser(user *models.User) (*models.User, error) {
	// Pre-check gives the friendlier error; the unique index is the backstop.
	if existing, _ := s.GetUserByMobile(user.Mobile); existing != nil {
		return nil, ErrDuplicateMobile
	}
	if err := s.db.Create(user).Error; err != nil {
		if isDuplicateKey(err) {
			return nil, ErrDuplicateMobile
		}
		return nil, err
	}
	return user, nil
}

func (s *DatabaseStore) GetUserByID(userID string) (*models.User, error) {
	var user models.User
	err := s.db.Where("user_id = ?", userID).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *DatabaseStore) GetUserByMobile(mobile string) (*models.User, error) {
	var user models.User
	err := s.db.Where("mobile = ?", models.NormalizeMobile(mobile)).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *DatabaseStore) UpdateUser(user *models.User) error {
	return s.db.Save(user).Error
}

func (s *DatabaseStore) DeleteUser(userID string) error {
	res := s.db.Where("user_id = ?", userID).Delete(&models.User{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (s *DatabaseStore) SearchUsers(query string, limit int) ([]*models.User, error) {
	if limit < 1 || limit > 50 {
		limit = 20
	}
	var users []*models.User
	like := "%" + query + "%"
	err := s.db.
		Where("is_suspended = false").
		Where("name ILIKE ? OR business_name ILIKE ? OR city ILIKE ?", like, like, like).
		Limit(limit).
		Find(&users).Error
	return users, err
}

// ---------- Bookings ----------

// CreateBooking inserts with a bounded retry: the sequential ID computed in
// the BeforeCreate hook can collide under concurrent inserts, in which case
// the unique index rejects the row and we recompute. After three attempts the
// final insert uses a forced timestamp+random ID.
func (s *DatabaseStore) CreateBooking(booking *models.Booking) (*models.Booking, error) {
	for attempt := 1; attempt <= 3; attempt++ {
		err := s.db.Create(booking).Error
		if err == nil {
			return booking, nil
		}
		if !isDuplicateKey(err) {
			return nil, err
		}
		logrus.WithFields(logrus.Fields{
			"attempt":    attempt,
			"booking_id": booking.BookingID,
		}).Warn("booking id collision, retrying")
		booking.BookingID = ""
	}
	booking.BookingID = models.ForcedUniqueID(models.BookingIDPrefix)
	if err := s.db.Create(booking).Error; err != nil {
		return nil, err
	}
	return booking, nil
}

func (s *DatabaseStore) GetBooking(bookingID string) (*models.Booking, error) {
	var booking models.Booking
	err := s.db.Preload("Comments").Where("booking_id = ?", bookingID).First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &booking, nil
}

func (s *DatabaseStore) ListBookings(filter *ListFilter) ([]*models.Booking, error) {
	filter.Normalize()
	q := s.db.Model(&models.Booking{})
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.FromCity != "" {
		q = q.Where("from_city ILIKE ?", "%"+filter.FromCity+"%")
	}
	if filter.ToCity != "" {
		q = q.Where("to_city ILIKE ?", "%"+filter.ToCity+"%")
	}
	if filter.VehicleType != "" {
		q = q.Where("vehicle_type ILIKE ?", "%"+filter.VehicleType+"%")
	}
	if filter.PostedBy != "" {
		q = q.Where("posted_by = ?", filter.PostedBy)
	}
	var bookings []*models.Booking
	err := q.Order("created_at DESC").
		Offset(filter.Offset()).
		Limit(filter.Limit).
		Find(&bookings).Error
	return bookings, err
}

func (s *DatabaseStore) UpdateBooking(booking *models.Booking) error {
	return s.db.Save(booking).Error
}

func (s *DatabaseStore) DeleteBooking(bookingID string) error {
	res := s.db.Where("booking_id = ?", bookingID).Delete(&models.Booking{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrBookingNotFound
	}
	return nil
}

func (s *DatabaseStore) AddBookingComment(comment *models.BookingComment) error {
	return s.db.Create(comment).Error
}

// ---------- Vehicles ----------

func (s *DatabaseStore) CreateVehicle(vehicle *models.Vehicle) (*models.Vehicle, error) {
	if err := s.db.Create(vehicle).Error; err != nil {
		if isDuplicateKey(err) {
			return nil, ErrDuplicateID
		}
		return nil, err
	}
	return vehicle, nil
}

func (s *DatabaseStore) GetVehicle(vehicleID string) (*models.Vehicle, error) {
	var vehicle models.Vehicle
	err := s.db.Preload("Comments").Where("vehicle_id = ?", vehicleID).First(&vehicle).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVehicleNotFound
		}
		return nil, err
	}
	return &vehicle, nil
}

func (s *DatabaseStore) ListVehicles(filter *ListFilter) ([]*models.Vehicle, error) {
	filter.Normalize()
	q := s.db.Model(&models.Vehicle{})
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.City != "" {
		q = q.Where("city ILIKE ?", "%"+filter.City+"%")
	}
	if filter.VehicleType != "" {
		q = q.Where("vehicle_type ILIKE ?", "%"+filter.VehicleType+"%")
	}
	if filter.PostedBy != "" {
		q = q.Where("posted_by = ?", filter.PostedBy)
	}
	var vehicles []*models.Vehicle
	err := q.Order("created_at DESC").
		Offset(filter.Offset()).
		Limit(filter.Limit).
		Find(&vehicles).Error
	return vehicles, err
}

func (s *DatabaseStore) UpdateVehicle(vehicle *models.Vehicle) error {
	return s.db.Save(vehicle).Error
}

func (s *DatabaseStore) DeleteVehicle(vehicleID string) error {
	res := s.db.Where("vehicle_id = ?", vehicleID).Delete(&models.Vehicle{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrVehicleNotFound
	}
	return nil
}

func (s *DatabaseStore) AddVehicleComment(comment *models.VehicleComment) error {
	return s.db.Create(comment).Error
}

// ---------- Reviews ----------

func (s *DatabaseStore) CreateReview(review *models.Review) (*models.Review, error) {
	if err := s.db.Create(review).Error; err != nil {
		return nil, err
	}
	return review, nil
}

func (s *DatabaseStore) GetReviewByPair(reviewerID, reviewedID string) (*models.Review, error) {
	var review models.Review
	err := s.db.Where("reviewer_id = ? AND reviewed_id = ?", reviewerID, reviewedID).First(&review).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	return &review, nil
}

func (s *DatabaseStore) ListReviewsFor(userID string, page, limit int) ([]*models.Review, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	var reviews []*models.Review
	err := s.db.Where("reviewed_id = ?", userID).
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&reviews).Error
	return reviews, err
}

func (s *DatabaseStore) GetRatingSummary(userID string) (*models.RatingSummary, error) {
	type row struct {
		Rating int
		Count  int
	}
	var rows []row
	err := s.db.Model(&models.Review{}).
		Select("rating, count(*) as count").
		Where("reviewed_id = ?", userID).
		Group("rating").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	summary := &models.RatingSummary{
		UserID: userID,
		Counts: map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0},
	}
	sum := 0
	for _, r := range rows {
		summary.Counts[r.Rating] = r.Count
		summary.Total += r.Count
		sum += r.Rating * r.Count
	}
	if summary.Total > 0 {
		summary.Average = float64(sum) / float64(summary.Total)
	}
	return summary, nil
}

// ---------- Wallet ----------

// ApplyTransaction writes the ledger entry and updates the user's balance.
// The two writes are sequential, matching the system's no-transaction model.
func (s *DatabaseStore) ApplyTransaction(txn *models.Transaction) error {
	user, err := s.GetUserByID(txn.UserID)
	if err != nil {
		return err
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
		return errors.New("unknown transaction type: " + txn.Type)
	}

	if err := s.db.Create(txn).Error; err != nil {
		return err
	}
	user.WalletBalance = txn.BalanceAfter
	return s.db.Model(&models.User{}).
		Where("user_id = ?", user.UserID).
		Update("wallet_balance", user.WalletBalance).Error
}

func (s *DatabaseStore) ListTransactions(userID string, page, limit int) ([]*models.Transaction, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	var txns []*models.Transaction
	err := s.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&txns).Error
	return txns, err
}

// ---------- Verifications ----------

func (s *DatabaseStore) CreateVerification(v *models.Verification) (*models.Verification, error) {
	if err := s.db.Create(v).Error; err != nil {
		return nil, err
	}
	return v, nil
}

func (s *DatabaseStore) GetVerification(verificationID string) (*models.Verification, error) {
	var v models.Verification
	err := s.db.Where("verification_id = ?", verificationID).First(&v).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVerificationNotFound
		}
		return nil, err
	}
	return &v, nil
}

func (s *DatabaseStore) ListVerificationsByUser(userID string) ([]*models.Verification, error) {
	var vs []*models.Verification
	err := s.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&vs).Error
	return vs, err
}

func (s *DatabaseStore) ListPendingVerifications() ([]*models.Verification, error) {
	var vs []*models.Verification
	err := s.db.Where("status = ?", models.VerificationPending).
		Order("created_at ASC").
		Find(&vs).Error
	return vs, err
}

func (s *DatabaseStore) UpdateVerification(v *models.Verification) error {
	return s.db.Save(v).Error
}

// ---------- Housekeeping ----------

// Ping checks the underlying SQL connection.
func (s *DatabaseStore) Ping() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// ClearExpiredOTPs wipes OTP state from users whose code has lapsed.
func (s *DatabaseStore) ClearExpiredOTPs() (int64, error) {
	res := s.db.Model(&models.User{}).
		Where("otp_code <> '' AND otp_expires_at < ?", time.Now()).
		Updates(map[string]interface{}{
			"otp_code":         "",
			"otp_expires_at":   nil,
			"otp_attempts":     0,
			"otp_last_sent_at": nil,
		})
	return res.RowsAffected, res.Error
}
