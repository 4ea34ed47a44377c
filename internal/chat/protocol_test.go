package chat_test

import (
	"testing"

	"github.com/go-portfolio/room-chat/internal/chat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInbound(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want chat.Inbound
	}{
		{
			name: "join",
			raw:  `{"event":"join","id":1,"data":{"username":"alice","room":"lobby"}}`,
			want: chat.Inbound{ID: 1, Kind: chat.EventJoin, Username: "alice", Room: "lobby"},
		},
		{
			name: "message as object",
			raw:  `{"event":"sendMessage","id":2,"data":{"text":"hi"}}`,
			want: chat.Inbound{ID: 2, Kind: chat.EventSendMessage, Text: "hi"},
		},
		{
			name: "message as string",
			raw:  `{"event":"sendMessage","id":3,"data":"hi"}`,
			want: chat.Inbound{ID: 3, Kind: chat.EventSendMessage, Text: "hi"},
		},
		{
			name: "location",
			raw:  `{"event":"sendLocation","id":4,"data":{"latitude":51.5,"longitude":-0.12}}`,
			want: chat.Inbound{ID: 4, Kind: chat.EventSendLocation, Latitude: 51.5, Longitude: -0.12},
		},
		{
			name: "disconnect",
			raw:  `{"event":"disconnect"}`,
			want: chat.Inbound{Kind: chat.EventDisconnect},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := chat.ParseInbound([]byte(tt.raw))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseInboundInvalid(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		wantID int64
	}{
		{"not json", `hello`, 0},
		{"unknown event", `{"event":"dance","id":5}`, 5},
		{"join without data", `{"event":"join","id":6}`, 6},
		{"join data is array", `{"event":"join","id":7,"data":["alice","lobby"]}`, 7},
		{"message data is number", `{"event":"sendMessage","id":8,"data":42}`, 8},
		{"location without longitude", `{"event":"sendLocation","id":9,"data":{"latitude":1}}`, 9},
		{"location as strings", `{"event":"sendLocation","id":10,"data":{"latitude":"1","longitude":"2"}}`, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := chat.ParseInbound([]byte(tt.raw))
			assert.ErrorIs(t, err, chat.ErrInvalidInput)
			// id сохраняется, чтобы ack с ошибкой дошёл до нужного запроса
			assert.Equal(t, tt.wantID, got.ID)
		})
	}
}
