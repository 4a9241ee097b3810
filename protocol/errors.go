package protocol

import "errors"

var (
	ErrRadioDisabled   = errors.New("radio disabled")
	ErrBusy            = errors.New("tx/rx cycle pending")
	ErrInvalidPayload  = errors.New("invalid payload size")
	ErrRecordTooLarge  = errors.New("record does not fit in durable memory")
	ErrInvalidSession  = errors.New("invalid session record")
	ErrInvalidKey      = errors.New("invalid key length")
	ErrInvalidDataRate = errors.New("invalid spreading factor (valid range: 7-12)")
)
