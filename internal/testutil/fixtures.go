package testutil

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/jmin/block-battle/internal/domain"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserBuilder creates test users with a builder pattern
type UserBuilder struct {
	userID   string
	name     string
	password string
}

// NewUserBuilder creates a new UserBuilder with default values
func NewUserBuilder() *UserBuilder {
	return &UserBuilder{
		userID:   fmt.Sprintf("user%s", randomHex(6)),
		name:     "Player",
		password: "testPass123!",
	}
}

// WithUserID sets the login id
func (b *UserBuilder) WithUserID(id string) *UserBuilder {
	b.userID = id
	return b
}

// WithName sets the display name
func (b *UserBuilder) WithName(name string) *UserBuilder {
	b.name = name
	return b
}

// WithPassword sets the password
func (b *UserBuilder) WithPassword(password string) *UserBuilder {
	b.password = password
	return b
}

// Build creates the user in the database and returns the user with the raw password
func (b *UserBuilder) Build(t *testing.T, db *gorm.DB) (*domain.User, string) {
	t.Helper()

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(b.password), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &domain.User{
		UserID:       b.userID,
		Name:         b.name,
		PasswordHash: string(hashedPassword),
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	return user, b.password
}

// AuthResponse matches the API auth response
type AuthResponse struct {
	UserID       string `json:"user_id"`
	Name         string `json:"name"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// BuildAndAuthenticate creates a user via API and returns the user and access token
func (b *UserBuilder) BuildAndAuthenticate(t *testing.T, ts *TestServer) (*domain.User, string) {
	t.Helper()

	reqBody := map[string]string{
		"user_id":          b.userID,
		"name":             b.name,
		"password":         b.password,
		"password_confirm": b.password,
	}
	body, _ := json.Marshal(reqBody)

	resp, err := http.Post(ts.APIURL("/auth/register"), "application/json", bytes.NewBuffer(body))
	if err != nil {
		t.Fatalf("failed to register user: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("unexpected status code: %d", resp.StatusCode)
	}

	var authResp AuthResponse
	if err := json.NewDecoder(resp.Body).Decode(&authResp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	user := &domain.User{
		UserID: authResp.UserID,
		Name:   authResp.Name,
	}

	return user, authResp.AccessToken
}

// RoomBuilder creates test rooms with a builder pattern
type RoomBuilder struct {
	host     *domain.User
	status   domain.RoomStatus
	duration int
	guests   []*domain.User
}

// NewRoomBuilder creates a new RoomBuilder with default values
func NewRoomBuilder() *RoomBuilder {
	return &RoomBuilder{
		status:   domain.RoomStatusWaiting,
		duration: 60,
	}
}

// WithHost sets the room host
func (b *RoomBuilder) WithHost(user *domain.User) *RoomBuilder {
	b.host = user
	return b
}

// WithStatus sets the room status
func (b *RoomBuilder) WithStatus(status domain.RoomStatus) *RoomBuilder {
	b.status = status
	return b
}

// WithDuration sets the match duration in seconds
func (b *RoomBuilder) WithDuration(seconds int) *RoomBuilder {
	b.duration = seconds
	return b
}

// WithGuest adds an extra roster member
func (b *RoomBuilder) WithGuest(user *domain.User) *RoomBuilder {
	b.guests = append(b.guests, user)
	return b
}

// Build creates the room in the database with the host enrolled
func (b *RoomBuilder) Build(t *testing.T, db *gorm.DB) *domain.Room {
	t.Helper()

	if b.host == nil {
		user, _ := NewUserBuilder().Build(t, db)
		b.host = user
	}

	now := time.Now()
	roster := []domain.Participant{
		{UserID: b.host.UserID, Name: b.host.Name, JoinedAt: now},
	}
	for _, guest := range b.guests {
		roster = append(roster, domain.Participant{
			UserID:   guest.UserID,
			Name:     guest.Name,
			JoinedAt: now,
		})
	}

	room := &domain.Room{
		RoomID:          randomHex(4),
		HostUserID:      b.host.UserID,
		HostName:        b.host.Name,
		Status:          b.status,
		DurationSeconds: b.duration,
		CreatedAt:       now,
	}
	if err := room.SetRoster(roster); err != nil {
		t.Fatalf("failed to set roster: %v", err)
	}
	if b.status == domain.RoomStatusPlaying {
		room.GameStartTime = &now
	}

	if err := db.Create(room).Error; err != nil {
		t.Fatalf("failed to create room: %v", err)
	}

	return room
}

func randomHex(n int) string {
	buf := make([]byte, n)
	rand.Read(buf)
	return hex.EncodeToString(buf)
}

// CreateAuthenticatedRequest creates an HTTP request with auth token
func CreateAuthenticatedRequest(t *testing.T, method, url string, body interface{}, token string) *http.Request {
	t.Helper()

	var bodyReader *bytes.Buffer
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		bodyReader = bytes.NewBuffer(jsonBody)
	} else {
		bodyReader = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequestWithContext(context.Background(), method, url, bodyReader)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return req
}
