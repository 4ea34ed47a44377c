package chat

import (
	"sort"
	"strings"
	"sync"
)

// memberKey — нормализованная пара (комната, имя), по которой проверяется уникальность.
type memberKey struct {
	room     string
	username string
}

// Registry — единственное разделяемое состояние чата: кто из соединений
// в какой комнате и под каким именем. Живёт столько же, сколько процесс.
//
// Все операции атомарны относительно друг друга (один RWMutex),
// поэтому читатель никогда не увидит "наполовину добавленного" пользователя,
// а из двух одновременных входов с одинаковым ключом выигрывает ровно один.
type Registry struct {
	mu    sync.RWMutex
	users map[string]User      // connID -> User
	names map[memberKey]string // (комната, имя) -> connID
	rooms map[string][]string  // ключ комнаты -> connID в порядке входа
}

// NewRegistry создаёт пустой реестр.
func NewRegistry() *Registry {
	return &Registry{
		users: make(map[string]User),
		names: make(map[memberKey]string),
		rooms: make(map[string][]string),
	}
}

// Insert добавляет пользователя для соединения connID.
// Имя и комната обрезаются по краям; для сравнения используется нормализованный ключ.
// Возвращает ErrUsernameInUse, если такое имя в комнате уже занято,
// и ErrAlreadyJoined, если у соединения уже есть пользователь.
func (r *Registry) Insert(connID, username, room string) (User, error) {
	user := User{
		ConnID:   connID,
		Username: strings.TrimSpace(username),
		Room:     strings.TrimSpace(room),
	}
	key := memberKey{room: normalize(room), username: normalize(username)}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.users[connID]; exists {
		return User{}, ErrAlreadyJoined
	}
	if _, taken := r.names[key]; taken {
		return User{}, ErrUsernameInUse
	}

	r.users[connID] = user
	r.names[key] = connID
	r.rooms[key.room] = append(r.rooms[key.room], connID)
	return user, nil
}

// Remove удаляет и возвращает пользователя соединения.
// Повторный вызов и вызов для соединения, которое не входило в комнату, — no-op.
func (r *Registry) Remove(connID string) (User, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[connID]
	if !ok {
		return User{}, false
	}

	roomKey := normalize(user.Room)
	delete(r.users, connID)
	delete(r.names, memberKey{room: roomKey, username: normalize(user.Username)})

	members := r.rooms[roomKey]
	for i, id := range members {
		if id == connID {
			members = append(members[:i], members[i+1:]...)
			break
		}
	}
	if len(members) == 0 {
		delete(r.rooms, roomKey)
	} else {
		r.rooms[roomKey] = members
	}
	return user, true
}

// Get — точечный поиск без побочных эффектов
func (r *Registry) Get(connID string) (User, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.users[connID]
	return user, ok
}

// ListUsers возвращает участников комнаты в порядке входа.
// Для пустой комнаты — пустой срез, не nil.
func (r *Registry) ListUsers(room string) []User {
	r.mu.RLock()
	defer r.mu.RUnlock()

	members := r.rooms[normalize(room)]
	users := make([]User, 0, len(members))
	for _, id := range members {
		users = append(users, r.users[id])
	}
	return users
}

// Rooms возвращает непустые комнаты, отсортированные по имени.
func (r *Registry) Rooms() []RoomSummary {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rooms := make([]RoomSummary, 0, len(r.rooms))
	for _, members := range r.rooms {
		rooms = append(rooms, RoomSummary{
			Name:    r.users[members[0]].Room,
			Members: len(members),
		})
	}
	sort.Slice(rooms, func(i, j int) bool { return normalize(rooms[i].Name) < normalize(rooms[j].Name) })
	return rooms
}

// Len — число пользователей во всех комнатах
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.users)
}
