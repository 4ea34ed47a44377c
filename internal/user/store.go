package user

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
)

// MaxUsernameLength — максимальная длина имени аккаунта
const MaxUsernameLength = 24

// ErrUserExists возвращается при регистрации занятого имени
var ErrUserExists = errors.New("username already exists")

// UserStore — хранилище аккаунтов. Реализации: MemoryStore и PostgresStore.
type UserStore interface {
	Register(username, password string) error
	Authenticate(username, password string) bool
	Close() error
}

// validate проверяет логин и пароль и возвращает логин без пробелов по краям
func validate(username, password string) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return "", fmt.Errorf("username and password are required")
	}
	if utf8.RuneCountInString(username) > MaxUsernameLength {
		return "", fmt.Errorf("username too long (max %d)", MaxUsernameLength)
	}
	return username, nil
}

// MemoryStore — in-memory хранилище аккаунтов.
// Используется, когда DATABASE_URL не задан; всё теряется при перезапуске.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]string // lower(username) -> bcrypt hash пароля
}

var _ UserStore = (*MemoryStore)(nil)

// NewMemoryStore создаёт пустое хранилище
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]string)}
}

// Register регистрирует нового пользователя.
// Имена сравниваются без учёта регистра.
func (s *MemoryStore) Register(username, password string) error {
	username, err := validate(username, password)
	if err != nil {
		return err
	}
	key := strings.ToLower(username)

	// хэшируем до захвата блокировки: bcrypt медленный
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.data[key]; exists {
		return ErrUserExists
	}
	s.data[key] = string(hash)
	return nil
}

// Authenticate проверяет логин и пароль
func (s *MemoryStore) Authenticate(username, password string) bool {
	s.mu.RLock()
	hash, ok := s.data[strings.ToLower(strings.TrimSpace(username))]
	s.mu.RUnlock()
	if !ok {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func (s *MemoryStore) Close() error { return nil }
