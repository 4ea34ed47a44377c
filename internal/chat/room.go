package chat

import "strings"

// Комната не хранится отдельно: это множество пользователей с одинаковым
// нормализованным ключом комнаты. Пустая комната просто исчезает из выборок.

// Member — строка ростера
type Member struct {
	Username string `json:"username"`
}

// RoomData — снимок ростера комнаты, рассылается при каждом входе/выходе.
type RoomData struct {
	Room  string   `json:"room"`
	Users []Member `json:"users"`
}

// RoomSummary — комната и число участников (для /api/rooms)
type RoomSummary struct {
	Name    string `json:"name"`
	Members int    `json:"members"`
}

// normalize приводит имя пользователя или комнаты к ключу сравнения:
// без пробелов по краям и без учёта регистра.
func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// newRoomData строит ростер из снимка реестра.
// Имя комнаты берётся у самого раннего участника, чтобы у всех было одинаковое написание.
func newRoomData(users []User) RoomData {
	data := RoomData{Users: make([]Member, 0, len(users))}
	if len(users) > 0 {
		data.Room = users[0].Room
	}
	for _, u := range users {
		data.Users = append(data.Users, Member{Username: u.Username})
	}
	return data
}
