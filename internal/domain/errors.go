package domain

import "errors"

var (
	ErrInvalidTicketType = errors.New("invalid ticket type")
	ErrAttendeeNotFound  = errors.New("attendee not found")
	ErrAlreadyPaid       = errors.New("attendee has already paid")
	ErrProvider          = errors.New("payment provider error")
	ErrInvalidSignature  = errors.New("invalid payment signature")

	ErrCouponNotFound  = errors.New("coupon not found")
	ErrCouponInactive  = errors.New("coupon is no longer active")
	ErrCouponExpired   = errors.New("coupon has expired")
	ErrCouponExhausted = errors.New("coupon has reached its usage limit")

	ErrMissingAbandonReason = errors.New("abandon reason is required")
)
