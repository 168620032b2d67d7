package booking

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"liveroom/internal/database"
	"liveroom/internal/domain"
)

// statuses that release a host's window: both cancellation branches end
// here (ineligible -> cancelled, eligible/refund -> refunded).
var releasedStatuses = []domain.BookingStatus{domain.BookingCancelled, domain.BookingRefunded}

// lockHostSchedule takes the per-host lock that serializes every
// mutation of that host's booking set. The anchor row is created
// lazily on first use.
func lockHostSchedule(tx *gorm.DB, hostID int64) error {
	var sched domain.HostSchedule
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("host_id = ?", hostID).First(&sched).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	sched = domain.HostSchedule{HostID: hostID}
	if err := tx.Create(&sched).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Where("host_id = ?", hostID).First(&sched).Error
		}
		return err
	}
	return nil
}

func getBooking(tx *gorm.DB, id int64) (*domain.Booking, error) {
	var b domain.Booking
	if err := tx.First(&b, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

func getBookingForUpdate(tx *gorm.DB, id int64) (*domain.Booking, error) {
	var b domain.Booking
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&b, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

func getBookingByReference(tx *gorm.DB, ref string) (*domain.Booking, error) {
	var b domain.Booking
	err := tx.Where("payment_reference = ?", ref).First(&b).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &b, nil
}

// hasSameStart reports whether the requester already holds a live
// booking at exactly this start time, with any host.
func hasSameStart(tx *gorm.DB, userID int64, b *domain.Booking) (bool, error) {
	var cnt int64
	err := tx.Model(&domain.Booking{}).
		Where("user_id = ? AND scheduled_at = ?", userID, b.ScheduledAt).
		Where("status NOT IN ?", releasedStatuses).
		Count(&cnt).Error
	return cnt > 0, err
}

// hasOverlap applies the half-open window test against the host's live
// bookings: existing.start < new.end AND existing.end > new.start.
func hasOverlap(tx *gorm.DB, hostID int64, b *domain.Booking) (bool, error) {
	var cnt int64
	err := tx.Model(&domain.Booking{}).
		Where("host_id = ?", hostID).
		Where("status NOT IN ?", releasedStatuses).
		Where("scheduled_at < ? AND ends_at > ?", b.EndsAt, b.ScheduledAt).
		Count(&cnt).Error
	return cnt > 0, err
}

func getRefund(tx *gorm.DB, id int64) (*domain.Refund, error) {
	var r domain.Refund
	if err := tx.First(&r, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRefundNotFound
		}
		return nil, err
	}
	return &r, nil
}

// getRefundForUpdate locks the refund row so concurrent resolutions
// serialize on it; only one of them observes an unresolved status.
func getRefundForUpdate(tx *gorm.DB, id int64) (*domain.Refund, error) {
	var r domain.Refund
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&r, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRefundNotFound
		}
		return nil, err
	}
	return &r, nil
}
