package chat

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Frame — JSON-кадр, которым клиент и сервер обмениваются по WebSocket.
//
//	входящий: {"event": "join", "id": 1, "data": {"username": "...", "room": "..."}}
//	исходящий: {"event": "message", "data": {...}}
//	ack:       {"event": "ack", "id": 1, "error": "..."}
type Frame struct {
	Event string          `json:"event"`
	ID    int64           `json:"id,omitempty"`
	Data  json.RawMessage `json:"data,omitempty"`
	Error string          `json:"error,omitempty"`
}

// outboundFrame — то же, что Frame, но с произвольными данными для записи
type outboundFrame struct {
	Event string `json:"event"`
	ID    int64  `json:"id,omitempty"`
	Data  any    `json:"data,omitempty"`
	Error string `json:"error,omitempty"`
}

// Inbound — входящее событие, уже разобранное и типизированное.
// До ядра доходит только такое представление.
type Inbound struct {
	ID        int64
	Kind      string
	Username  string
	Room      string
	Text      string
	Latitude  float64
	Longitude float64
}

// Ack — результат операции для отправившего соединения; пустой Error — успех.
type Ack struct {
	ID    int64
	Error string
}

type joinPayload struct {
	Username string `json:"username"`
	Room     string `json:"room"`
}

type messagePayload struct {
	Text string `json:"text"`
}

type locationPayload struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// ParseInbound разбирает сырой кадр. Любая некорректная форма — ErrInvalidInput.
// ID возвращается даже при ошибке, если его удалось прочитать, чтобы ack дошёл по адресу.
func ParseInbound(raw []byte) (Inbound, error) {
	var frame Frame
	if err := json.Unmarshal(raw, &frame); err != nil {
		return Inbound{}, fmt.Errorf("%w: malformed frame", ErrInvalidInput)
	}

	in := Inbound{ID: frame.ID, Kind: frame.Event}
	switch frame.Event {
	case EventJoin:
		var p joinPayload
		if err := decodeData(frame.Data, &p); err != nil {
			return in, err
		}
		in.Username, in.Room = p.Username, p.Room

	case EventSendMessage:
		// клиент может прислать как {"text": "..."}, так и просто строку
		var text string
		if err := json.Unmarshal(frame.Data, &text); err == nil {
			in.Text = text
			break
		}
		var p messagePayload
		if err := decodeData(frame.Data, &p); err != nil {
			return in, err
		}
		in.Text = p.Text

	case EventSendLocation:
		var p locationPayload
		if err := decodeData(frame.Data, &p); err != nil {
			return in, err
		}
		if p.Latitude == nil || p.Longitude == nil {
			return in, fmt.Errorf("%w: latitude and longitude are required", ErrInvalidInput)
		}
		in.Latitude, in.Longitude = *p.Latitude, *p.Longitude

	case EventDisconnect:

	default:
		return in, fmt.Errorf("%w: unknown event %q", ErrInvalidInput, frame.Event)
	}
	return in, nil
}

func decodeData(data json.RawMessage, v any) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '{' {
		return fmt.Errorf("%w: payload must be an object", ErrInvalidInput)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: malformed payload", ErrInvalidInput)
	}
	return nil
}
