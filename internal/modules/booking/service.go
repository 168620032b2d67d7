package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"liveroom/internal/database"
	"liveroom/internal/domain"
	"liveroom/internal/modules/pricing"
	"liveroom/internal/pkg/rtctoken"
)

const (
	// Cancellation keeps the payment refundable up to this long before
	// the scheduled start.
	cancelRefundWindow = 15 * time.Minute

	// A refund may still be requested this long after the scheduled
	// start for bookings that are no longer pending. Distinct from the
	// cancellation window above on purpose.
	refundRequestWindow = 15 * time.Minute
)

type Service struct {
	db           *gorm.DB
	rates        RateSource
	tokens       TokenIssuer
	notifs       NotificationSender
	window       WindowPolicy
	availability AvailabilityReleaser

	lockWait time.Duration
	tokenTTL time.Duration
	loggerf  func(format string, args ...any)
	now      func() time.Time
}

func NewService(
	db *gorm.DB,
	rates RateSource,
	tokens TokenIssuer,
	notifs NotificationSender,
	window WindowPolicy,
	availability AvailabilityReleaser,
	lockWait, tokenTTL time.Duration,
	loggerf func(format string, args ...any),
) *Service {
	if loggerf == nil {
		loggerf = func(string, ...any) {}
	}
	return &Service{
		db:           db,
		rates:        rates,
		tokens:       tokens,
		notifs:       notifs,
		window:       window,
		availability: availability,
		lockWait:     lockWait,
		tokenTTL:     tokenTTL,
		loggerf:      loggerf,
		now:          time.Now,
	}
}

type CreateBookingRequest struct {
	UserID          int64
	HostID          int64
	DurationMinutes int
	ScheduledAt     time.Time
	PaymentMethod   string
	PaymentStatus   domain.PaymentStatus
}

type CreateBookingResult struct {
	Booking     *domain.Booking
	HostToken   string
	ViewerToken string
}

// Create validates cheaply before touching the store, quotes the price,
// then inserts under the host schedule lock so the same-start and
// overlap checks are race-free. Channel binding and credentials are
// post-commit side effects.
func (s *Service) Create(ctx context.Context, req CreateBookingRequest) (*CreateBookingResult, error) {
	if !domain.ValidShowDuration(req.DurationMinutes) {
		return nil, ErrInvalidDuration
	}
	now := s.now()
	if !req.ScheduledAt.After(now) {
		return nil, ErrPastStart
	}
	if !s.window.IsAllowed(req.ScheduledAt) {
		return nil, ErrOutsideWindow
	}
	if req.PaymentStatus == "" {
		req.PaymentStatus = domain.PaymentPending
	}
	if !domain.ValidPaymentStatus(req.PaymentStatus) {
		return nil, ErrInvalidPaymentStatus
	}

	quote, err := s.rates.Quote(ctx, req.HostID, req.DurationMinutes)
	if err != nil {
		if errors.Is(err, pricing.ErrInvalidDuration) {
			return nil, ErrInvalidDuration
		}
		return nil, err
	}

	b := &domain.Booking{
		UserID:            req.UserID,
		HostID:            req.HostID,
		DurationMinutes:   req.DurationMinutes,
		Price:             quote.Price,
		ScheduledAt:       req.ScheduledAt.UTC(),
		EndsAt:            req.ScheduledAt.UTC().Add(time.Duration(req.DurationMinutes) * time.Minute),
		PaymentMethod:     req.PaymentMethod,
		Status:            domain.BookingPending,
		PaymentStatus:     req.PaymentStatus,
		HostEarnings:      quote.HostEarnings,
		PlatformFee:       quote.PlatformFee,
		CommissionPercent: quote.CommissionPercent,
	}

	err = database.RunInTx(ctx, s.db, s.lockWait, func(tx *gorm.DB) error {
		if err := lockHostSchedule(tx, req.HostID); err != nil {
			return err
		}

		dup, err := hasSameStart(tx, req.UserID, b)
		if err != nil {
			return err
		}
		if dup {
			return ErrDuplicateSlot
		}

		overlap, err := hasOverlap(tx, req.HostID, b)
		if err != nil {
			return err
		}
		if overlap {
			return ErrOverlap
		}

		return tx.Create(b).Error
	})
	if err != nil {
		return nil, err
	}

	result := &CreateBookingResult{Booking: b}

	database.PostCommit(s.loggerf, "booking.create.channel", func() error {
		channel := fmt.Sprintf("show-%d-%s", b.ID, uuid.NewString()[:8])
		if err := s.db.WithContext(ctx).Create(&domain.RTCChannel{
			Name:            channel,
			MaxParticipants: 2,
			IsActive:        true,
		}).Error; err != nil {
			return err
		}
		if err := s.db.WithContext(ctx).Model(&domain.Booking{}).
			Where("id = ?", b.ID).
			Update("channel_name", channel).Error; err != nil {
			return err
		}
		b.ChannelName = channel

		hostToken, err := s.tokens.Issue(channel, b.HostID, rtctoken.RoleModerator, s.tokenTTL)
		if err != nil {
			return err
		}
		viewerToken, err := s.tokens.Issue(channel, b.UserID, rtctoken.RoleViewer, s.tokenTTL)
		if err != nil {
			return err
		}
		result.HostToken = hostToken
		result.ViewerToken = viewerToken
		return nil
	})

	database.PostCommit(s.loggerf, "booking.create.notify", func() error {
		return s.notifs.Notify(ctx, b.HostID, domain.NotifBookingCreated, map[string]any{
			"booking_id":   b.ID,
			"scheduled_at": b.ScheduledAt,
		})
	})

	return result, nil
}

// UpdatePaymentStatus reconciles an asynchronous payment event. When an
// external reference is supplied and some booking already carries it,
// the call is a replay: the stored booking is returned unchanged.
func (s *Service) UpdatePaymentStatus(ctx context.Context, bookingID int64, newStatus domain.PaymentStatus, externalRef *string) (*domain.Booking, error) {
	if !domain.ValidPaymentStatus(newStatus) {
		return nil, ErrInvalidPaymentStatus
	}

	var out *domain.Booking
	err := database.RunInTx(ctx, s.db, s.lockWait, func(tx *gorm.DB) error {
		if externalRef != nil && *externalRef != "" {
			existing, err := getBookingByReference(tx, *externalRef)
			if err != nil {
				return err
			}
			if existing != nil {
				out = existing
				return nil
			}
		}

		b, err := getBookingForUpdate(tx, bookingID)
		if err != nil {
			return err
		}

		updates := map[string]any{"payment_status": newStatus}
		if externalRef != nil && *externalRef != "" {
			b.PaymentReference = externalRef
			updates["payment_reference"] = *externalRef
		}
		if newStatus == domain.PaymentPaid && b.Status == domain.BookingPending {
			b.Status = domain.BookingConfirmed
			updates["status"] = domain.BookingConfirmed
		}
		b.PaymentStatus = newStatus

		if err := tx.Model(&domain.Booking{}).Where("id = ?", b.ID).Updates(updates).Error; err != nil {
			// A racing replay may have claimed the reference between our
			// lookup and this write; fall back to the stored row.
			if database.IsUniqueViolation(err) && externalRef != nil {
				existing, lookupErr := getBookingByReference(tx, *externalRef)
				if lookupErr == nil && existing != nil {
					out = existing
					return nil
				}
			}
			return err
		}
		out = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Cancel terminates a non-terminal booking. A paid booking cancelled at
// least cancelRefundWindow before start (or by an admin) is refunded in
// full; a later cancellation forfeits the payment.
func (s *Service) Cancel(ctx context.Context, bookingID int64, reason string, isAdmin bool) (*domain.Booking, error) {
	var b *domain.Booking

	err := database.RunInTx(ctx, s.db, s.lockWait, func(tx *gorm.DB) error {
		var err error
		b, err = getBooking(tx, bookingID)
		if err != nil {
			return err
		}
		if err := lockHostSchedule(tx, b.HostID); err != nil {
			return err
		}
		b, err = getBookingForUpdate(tx, bookingID)
		if err != nil {
			return err
		}
		if b.Status.IsTerminal() {
			return ErrAlreadyTerminal
		}

		now := s.now()
		eligible := isAdmin || !b.ScheduledAt.Before(now.Add(cancelRefundWindow))

		b.Status = domain.BookingCancelled
		b.CancelledAt = &now
		b.CancellationReason = reason

		if b.PaymentStatus == domain.PaymentPaid {
			if eligible {
				b.Status = domain.BookingRefunded
				b.PaymentStatus = domain.PaymentRefunded
				refund := &domain.Refund{
					BookingID:   b.ID,
					Amount:      b.Price,
					Reason:      reason,
					Status:      domain.RefundCompleted,
					ProcessedAt: &now,
				}
				if err := tx.Create(refund).Error; err != nil {
					return err
				}
			} else {
				b.PaymentStatus = domain.PaymentFailed
			}
		}

		return tx.Model(&domain.Booking{}).Where("id = ?", b.ID).Updates(map[string]any{
			"status":              b.Status,
			"payment_status":      b.PaymentStatus,
			"cancelled_at":        b.CancelledAt,
			"cancellation_reason": b.CancellationReason,
		}).Error
	})
	if err != nil {
		return nil, err
	}

	if b.AvailabilityRef != "" {
		database.PostCommit(s.loggerf, "booking.cancel.release_slot", func() error {
			return s.availability.Release(ctx, b.AvailabilityRef)
		})
	}
	database.PostCommit(s.loggerf, "booking.cancel.notify", func() error {
		return s.notifs.Notify(ctx, b.HostID, domain.NotifBookingCancelled, map[string]any{
			"booking_id": b.ID,
			"reason":     reason,
		})
	})

	return b, nil
}

// Complete marks a paid booking as finished and writes the append-only
// earnings ledger row. Re-completing is a no-op returning the stored
// booking.
func (s *Service) Complete(ctx context.Context, bookingID int64) (*domain.Booking, error) {
	var b *domain.Booking

	err := database.RunInTx(ctx, s.db, s.lockWait, func(tx *gorm.DB) error {
		var err error
		b, err = getBooking(tx, bookingID)
		if err != nil {
			return err
		}
		if b.Status == domain.BookingCompleted {
			return nil
		}

		if err := lockHostSchedule(tx, b.HostID); err != nil {
			return err
		}
		// The pre-lock read only located the host; a cancellation may
		// commit between it and the lock, so every precondition is
		// decided on the row read under the lock.
		b, err = getBookingForUpdate(tx, bookingID)
		if err != nil {
			return err
		}
		if b.Status == domain.BookingCompleted {
			return nil
		}
		if b.Status == domain.BookingCancelled || b.Status == domain.BookingRefunded {
			return ErrAlreadyTerminal
		}
		if b.PaymentStatus != domain.PaymentPaid {
			return ErrNotPaid
		}

		now := s.now()
		b.Status = domain.BookingCompleted
		b.ShowEndedAt = &now
		if err := tx.Model(&domain.Booking{}).Where("id = ?", b.ID).Updates(map[string]any{
			"status":        domain.BookingCompleted,
			"show_ended_at": b.ShowEndedAt,
		}).Error; err != nil {
			return err
		}

		return tx.Create(&domain.HostEarning{
			BookingID:         b.ID,
			HostID:            b.HostID,
			GrossAmount:       b.Price,
			CommissionPercent: b.CommissionPercent,
			NetEarnings:       b.HostEarnings,
			PlatformFee:       b.PlatformFee,
		}).Error
	})
	if err != nil {
		return nil, err
	}

	database.PostCommit(s.loggerf, "booking.complete.notify", func() error {
		return s.notifs.Notify(ctx, b.HostID, domain.NotifBookingCompleted, map[string]any{
			"booking_id": b.ID,
			"earnings":   b.HostEarnings,
		})
	})

	return b, nil
}

// SubmitFeedback records the requester's one-shot rating of a completed
// show and mirrors it onto the booking row. Precondition order is part
// of the contract: the first failing check is what the caller sees.
func (s *Service) SubmitFeedback(ctx context.Context, bookingID, userID int64, rating int, comments string) (*domain.ShowFeedback, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}

	var fb *domain.ShowFeedback
	var hostID int64

	err := database.RunInTx(ctx, s.db, s.lockWait, func(tx *gorm.DB) error {
		b, err := getBookingForUpdate(tx, bookingID)
		if err != nil {
			return err
		}
		if b.Status != domain.BookingCompleted {
			return ErrNotCompleted
		}
		if b.UserID != userID {
			return ErrForbidden
		}
		if b.Rating != nil {
			return ErrAlreadyRated
		}
		hostID = b.HostID

		fb = &domain.ShowFeedback{
			BookingID: bookingID,
			UserID:    userID,
			Rating:    rating,
			Comments:  comments,
		}
		if err := tx.Create(fb).Error; err != nil {
			return err
		}

		return tx.Model(&domain.Booking{}).Where("id = ?", bookingID).Updates(map[string]any{
			"rating":   rating,
			"feedback": comments,
		}).Error
	})
	if err != nil {
		return nil, err
	}

	database.PostCommit(s.loggerf, "booking.feedback.notify", func() error {
		return s.notifs.Notify(ctx, hostID, domain.NotifFeedbackReceived, map[string]any{
			"booking_id": bookingID,
			"rating":     rating,
		})
	})

	return fb, nil
}

// RequestRefund opens a pending refund for the original requester. A
// booking that has moved past pending stays requestable only within
// refundRequestWindow after its scheduled start. Does not touch booking
// or payment state.
func (s *Service) RequestRefund(ctx context.Context, bookingID, userID int64, reason string) (*domain.Refund, error) {
	var refund *domain.Refund
	var hostID int64

	err := database.RunInTx(ctx, s.db, s.lockWait, func(tx *gorm.DB) error {
		b, err := getBooking(tx, bookingID)
		if err != nil {
			return err
		}
		if b.UserID != userID {
			return ErrForbidden
		}
		if b.Status == domain.BookingCancelled || b.Status == domain.BookingRefunded {
			return ErrAlreadyTerminal
		}
		if b.Status != domain.BookingPending && s.now().After(b.ScheduledAt.Add(refundRequestWindow)) {
			return ErrRefundWindowClosed
		}
		hostID = b.HostID

		refund = &domain.Refund{
			BookingID: bookingID,
			Amount:    b.Price,
			Reason:    reason,
			Status:    domain.RefundPending,
		}
		return tx.Create(refund).Error
	})
	if err != nil {
		return nil, err
	}

	database.PostCommit(s.loggerf, "booking.refund_request.notify", func() error {
		return s.notifs.Notify(ctx, hostID, domain.NotifRefundRequested, map[string]any{
			"booking_id": bookingID,
			"refund_id":  refund.ID,
		})
	})

	return refund, nil
}

// ProcessRefund resolves a pending refund. Approval flips the booking
// and its payment to refunded in the same transaction that closes the
// refund; rejection closes the refund with no other effect.
func (s *Service) ProcessRefund(ctx context.Context, refundID int64, decision domain.RefundStatus, processedBy int64) (*domain.Refund, error) {
	if decision != domain.RefundApproved && decision != domain.RefundRejected {
		return nil, ErrInvalidDecision
	}

	var refund *domain.Refund
	var notifyUser int64

	err := database.RunInTx(ctx, s.db, s.lockWait, func(tx *gorm.DB) error {
		var err error
		refund, err = getRefundForUpdate(tx, refundID)
		if err != nil {
			return err
		}
		if refund.Status.Resolved() {
			return ErrRefundResolved
		}

		b, err := getBooking(tx, refund.BookingID)
		if err != nil {
			return err
		}
		notifyUser = b.UserID

		now := s.now()
		refund.ProcessedBy = &processedBy
		refund.ProcessedAt = &now

		if decision == domain.RefundRejected {
			refund.Status = domain.RefundRejected
			return tx.Model(&domain.Refund{}).Where("id = ?", refund.ID).Updates(map[string]any{
				"status":       refund.Status,
				"processed_by": processedBy,
				"processed_at": now,
			}).Error
		}

		if err := lockHostSchedule(tx, b.HostID); err != nil {
			return err
		}
		// Re-read under the lock: the booking may have completed or been
		// cancelled since the refund was requested, and a terminal
		// booking must never be dragged back to refunded.
		b, err = getBookingForUpdate(tx, b.ID)
		if err != nil {
			return err
		}
		if b.Status.IsTerminal() {
			return ErrAlreadyTerminal
		}
		if err := tx.Model(&domain.Booking{}).Where("id = ?", b.ID).Updates(map[string]any{
			"status":         domain.BookingRefunded,
			"payment_status": domain.PaymentRefunded,
		}).Error; err != nil {
			return err
		}

		refund.Status = domain.RefundCompleted
		return tx.Model(&domain.Refund{}).Where("id = ?", refund.ID).Updates(map[string]any{
			"status":       refund.Status,
			"processed_by": processedBy,
			"processed_at": now,
		}).Error
	})
	if err != nil {
		return nil, err
	}

	database.PostCommit(s.loggerf, "booking.refund.notify", func() error {
		return s.notifs.Notify(ctx, notifyUser, domain.NotifRefundResolved, map[string]any{
			"refund_id": refund.ID,
			"status":    refund.Status,
		})
	})

	return refund, nil
}

func (s *Service) GetByID(ctx context.Context, bookingID int64) (*domain.Booking, error) {
	return getBooking(s.db.WithContext(ctx), bookingID)
}

func (s *Service) ListForUser(ctx context.Context, userID int64) ([]domain.Booking, error) {
	var out []domain.Booking
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("scheduled_at DESC").
		Find(&out).Error
	return out, err
}

func (s *Service) ListForHost(ctx context.Context, hostID int64) ([]domain.Booking, error) {
	var out []domain.Booking
	err := s.db.WithContext(ctx).
		Where("host_id = ?", hostID).
		Order("scheduled_at DESC").
		Find(&out).Error
	return out, err
}
