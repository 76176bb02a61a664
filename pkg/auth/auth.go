package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/Lazypopo/Shift-Schedule-Webapp/pkg/database"
)

var (
	ErrInvalidToken      = errors.New("invalid token")
	ErrInvalidKeyFormat  = errors.New("invalid key format")
	ErrInvalidSignature  = errors.New("invalid signature")
	ErrInvalidCredential = errors.New("invalid credentials")
)

var jwtAlgorithm = jwt.SigningMethodHS256

// DefaultBcryptCost is used for admin password hashes
const DefaultBcryptCost = 14

// Claims represents the JWT claims
type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Authenticator issues admin tokens and signs API keys
type Authenticator struct {
	jwtSecret  []byte
	apiSecret  []byte
	TokenTTL   time.Duration
	BcryptCost int
}

// New creates an Authenticator from the JWT and API master secrets
func New(jwtSecret, apiMasterSecret string) *Authenticator {
	return &Authenticator{
		jwtSecret:  []byte(jwtSecret),
		apiSecret:  []byte(apiMasterSecret),
		TokenTTL:   24 * time.Hour,
		BcryptCost: DefaultBcryptCost,
	}
}

// HashPassword hashes a password using bcrypt
func (a *Authenticator) HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), a.BcryptCost)
	return string(bytes), err
}

// CheckPasswordHash compares a password with its hash
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// CreateToken creates a new JWT token for an admin
func (a *Authenticator) CreateToken(username string) (string, error) {
	claims := &Claims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(a.TokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwtAlgorithm, claims)
	return token.SignedString(a.jwtSecret)
}

// VerifyToken verifies a JWT token and returns its claims
func (a *Authenticator) VerifyToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwtAlgorithm {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return a.jwtSecret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Login checks the credentials of a master user and returns a token
func (a *Authenticator) Login(db *gorm.DB, username, password string) (string, error) {
	var user database.MasterUser
	if err := db.Where("username = ?", username).First(&user).Error; err != nil {
		return "", ErrInvalidCredential
	}
	if !CheckPasswordHash(password, user.PasswordHash) {
		return "", ErrInvalidCredential
	}
	return a.CreateToken(user.Username)
}

// EnsureAdminExists creates the given admin when no master user exists yet.
// It reports whether a user was created.
func (a *Authenticator) EnsureAdminExists(db *gorm.DB, username, password string) (bool, error) {
	var count int64
	if err := db.Model(&database.MasterUser{}).Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}

	hash, err := a.HashPassword(password)
	if err != nil {
		return false, err
	}
	user := database.MasterUser{
		Username:     username,
		PasswordHash: hash,
	}
	if err := db.Create(&user).Error; err != nil {
		return false, err
	}
	return true, nil
}

func (a *Authenticator) sign(userID string) string {
	h := hmac.New(sha256.New, a.apiSecret)
	h.Write([]byte(userID))
	return hex.EncodeToString(h.Sum(nil))
}

// GenerateAPIKey creates a signed API key "<userID>.<hex HMAC-SHA256>"
func (a *Authenticator) GenerateAPIKey(userID string) string {
	return userID + "." + a.sign(userID)
}

// VerifyAPIKey validates an HMAC-signed API key and returns its user ID
func (a *Authenticator) VerifyAPIKey(key string) (string, error) {
	idx := strings.LastIndex(key, ".")
	if idx <= 0 || idx == len(key)-1 {
		return "", ErrInvalidKeyFormat
	}
	userID, provided := key[:idx], key[idx+1:]

	// constant-time comparison
	if !hmac.Equal([]byte(provided), []byte(a.sign(userID))) {
		return "", ErrInvalidSignature
	}
	return userID, nil
}

// KeyPreview masks a key for listings
func KeyPreview(key string) string {
	if len(key) > 8 {
		return key[:3] + "..." + key[len(key)-4:]
	}
	return "****"
}
