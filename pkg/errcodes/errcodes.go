package errcodes

import "git.appkode.ru/pub/go/failure"

const (
	InternalServerError failure.ErrorCode = "InternalServerError"
	TimeoutExceeded     failure.ErrorCode = "TimeoutExceeded"
	Forbidden           failure.ErrorCode = "Forbidden"
	ValidationError     failure.ErrorCode = "ValidationError"
	NotFound            failure.ErrorCode = "NotFound"
	Conflict            failure.ErrorCode = "Conflict"

	// Коды движка переговоров по сделкам
	DealNotFound           failure.ErrorCode = "DealNotFound"
	ProfileNotFound        failure.ErrorCode = "ProfileNotFound"
	InvalidDealID          failure.ErrorCode = "InvalidDealID"
	InvalidProfileID       failure.ErrorCode = "InvalidProfileID"
	InvalidFee             failure.ErrorCode = "InvalidFee"
	InvalidCurrency        failure.ErrorCode = "InvalidCurrency"
	InvalidEventDate       failure.ErrorCode = "InvalidEventDate"
	InvalidTimeWindow      failure.ErrorCode = "InvalidTimeWindow"
	InvalidLocation        failure.ErrorCode = "InvalidLocation"
	InvalidVenueName       failure.ErrorCode = "InvalidVenueName"
	InvalidExtras          failure.ErrorCode = "InvalidExtras"
	InvalidPerformanceType failure.ErrorCode = "InvalidPerformanceType"
	InvalidRolePairing     failure.ErrorCode = "InvalidRolePairing"
	DeclineReasonRequired  failure.ErrorCode = "DeclineReasonRequired"
	DealAlreadyResolved    failure.ErrorCode = "DealAlreadyResolved"
	NotYourTurnToRespond   failure.ErrorCode = "NotYourTurnToRespond"
	NotDealParticipant     failure.ErrorCode = "NotDealParticipant"
	DeleteNotAllowed       failure.ErrorCode = "DeleteNotAllowed"
	InvalidCounterOffer    failure.ErrorCode = "InvalidCounterOffer"
)
