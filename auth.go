package main

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

const (
	pairTokenExpiry     = 12 * time.Hour
	bcryptCost          = bcrypt.DefaultCost
	maxPasscodeLen      = 32
	passcodeRateWindow  = 60 * time.Second
	maxPasscodeAttempts = 5
	settingJWTSecret    = "jwt_secret"
)

var (
	ErrInvalidToken = errors.New("invalid pairing token")
	ErrBadPasscode  = errors.New("wrong passcode")
	ErrRateLimited  = errors.New("too many attempts, try again later")
)

// Auth issues controller pairing tokens and checks room passcodes
type Auth struct {
	log       zerolog.Logger
	jwtSecret []byte

	// passcode attempts per IP
	rateMu  sync.Mutex
	rateMap map[string]*rateEntry
	now     func() time.Time
}

type rateEntry struct {
	Count   int
	ResetAt time.Time
}

type pairClaims struct {
	Room string `json:"room"`
	jwt.RegisteredClaims
}

// NewAuth creates a new Auth handler. db may be nil, in which case the
// signing secret lives only as long as the process.
func NewAuth(db *DB, log zerolog.Logger) (*Auth, error) {
	secret, err := loadOrCreateSecret(db, log)
	if err != nil {
		return nil, err
	}
	return &Auth{
		log:       log,
		jwtSecret: secret,
		rateMap:   make(map[string]*rateEntry),
		now:       time.Now,
	}, nil
}

// loadOrCreateSecret loads the JWT secret from the database, or generates
// and persists a new one if none exists.
func loadOrCreateSecret(db *DB, log zerolog.Logger) ([]byte, error) {
	if db != nil {
		if h := db.GetSetting(settingJWTSecret); h != "" {
			if b, err := hex.DecodeString(h); err == nil && len(b) == 32 {
				return b, nil
			}
			log.Warn().Msg("stored JWT secret is malformed, generating a new one")
		}
	}
	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		return nil, fmt.Errorf("generating JWT secret: %w", err)
	}
	if db != nil {
		if err := db.SetSetting(settingJWTSecret, hex.EncodeToString(secret)); err != nil {
			log.Warn().Err(err).Msg("could not persist JWT secret")
		}
	}
	return secret, nil
}

// IssuePairToken signs a token that lets a controller attach to roomID
func (a *Auth) IssuePairToken(roomID string) (string, error) {
	now := a.now()
	claims := pairClaims{
		Room: roomID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(pairTokenExpiry)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := token.SignedString(a.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("signing pair token: %w", err)
	}
	return s, nil
}

// ValidatePairToken checks that tokenStr is a live token for roomID
func (a *Auth) ValidatePairToken(tokenStr, roomID string) error {
	var claims pairClaims
	token, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (interface{}, error) {
		return a.jwtSecret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(a.now),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || claims.Room != roomID {
		return ErrInvalidToken
	}
	return nil
}

// HashPasscode hashes a room passcode. An empty passcode yields "".
func HashPasscode(pass string) (string, error) {
	if pass == "" {
		return "", nil
	}
	if len(pass) > maxPasscodeLen {
		return "", fmt.Errorf("passcode must be at most %d characters", maxPasscodeLen)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(pass), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hashing passcode: %w", err)
	}
	return string(hash), nil
}

// CheckPasscode verifies pass against hash for a join from ip. Rooms
// without a passcode accept anything.
func (a *Auth) CheckPasscode(hash, pass, ip string) error {
	if hash == "" {
		return nil
	}
	if !a.checkRate(ip) {
		return ErrRateLimited
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(pass)); err != nil {
		return ErrBadPasscode
	}
	return nil
}

func (a *Auth) checkRate(ip string) bool {
	a.rateMu.Lock()
	defer a.rateMu.Unlock()

	now := a.now()
	entry, ok := a.rateMap[ip]
	if !ok || now.After(entry.ResetAt) {
		a.pruneRates(now)
		a.rateMap[ip] = &rateEntry{Count: 1, ResetAt: now.Add(passcodeRateWindow)}
		return true
	}
	entry.Count++
	return entry.Count <= maxPasscodeAttempts
}

// pruneRates drops entries whose window has closed. rateMu must be held.
func (a *Auth) pruneRates(now time.Time) {
	for ip, e := range a.rateMap {
		if now.After(e.ResetAt) {
			delete(a.rateMap, ip)
		}
	}
}
