package chat

import "errors"

// Ошибки операций чата. Все они локальные: уходят только в ack
// отправившему соединению и никогда не рассылаются в комнату.
var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrUsernameInUse      = errors.New("username is in use")
	ErrAlreadyJoined      = errors.New("connection has already joined a room")
	ErrNotJoined          = errors.New("join a room first")
	ErrEmptyMessage       = errors.New("message is empty")
	ErrMessageTooLong     = errors.New("message is too long")
	ErrProfane            = errors.New("profanity is not allowed")
	ErrInvalidCoordinates = errors.New("invalid coordinates")
)
