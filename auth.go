package main

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"regexp"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"caseiq/models"
)

var (
	emailRE   = regexp.MustCompile(`^[\w.+-]+@[\w.-]+\.\w+$`)
	upperRE   = regexp.MustCompile(`[A-Z]`)
	lowerRE   = regexp.MustCompile(`[a-z]`)
	digitRE   = regexp.MustCompile(`\d`)
	specialRE = regexp.MustCompile(`[!@#$%^&*(),.?":{}|<>]`)
)

func validEmail(email string) bool {
	return emailRE.MatchString(email)
}

// validPassword enforces the account password policy: at least 8 characters
// with upper, lower, digit, and special character.
func validPassword(pw string) bool {
	return len(pw) >= 8 &&
		upperRE.MatchString(pw) &&
		lowerRE.MatchString(pw) &&
		digitRE.MatchString(pw) &&
		specialRE.MatchString(pw)
}

func hashPassword(pw string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
}

func checkPassword(hash []byte, pw string) bool {
	return bcrypt.CompareHashAndPassword(hash, []byte(pw)) == nil
}

// mintToken signs a bearer token whose subject is the user's email. Role is
// deliberately not baked in: the guard re-derives role and ownership from
// the database on every request.
func mintToken(user models.User) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": user.Email,
		"exp": time.Now().Add(cfg.TokenTTL).Unix(),
	})
	return token.SignedString(cfg.JWTSecret)
}

// parseToken validates signature and expiry and returns the subject email.
func parseToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrInvalidKeyType
		}
		return cfg.JWTSecret, nil
	})
	if err != nil || !token.Valid {
		return "", fmt.Errorf("invalid token")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("invalid claims")
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return "", fmt.Errorf("missing subject")
	}
	return sub, nil
}

// createResetToken stores a hashed single-use reset token valid for one hour
// and returns the raw token for the reset link.
func createResetToken(email string) (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	raw := hex.EncodeToString(b)
	h := sha256.Sum256([]byte(raw))
	rt := models.ResetToken{
		Email:     email,
		Token:     hex.EncodeToString(h[:]),
		ExpiresAt: time.Now().Add(time.Hour),
	}
	if err := db.Create(&rt).Error; err != nil {
		return "", err
	}
	return raw, nil
}

// findResetToken resolves a raw token to its unused, unexpired row.
func findResetToken(raw string) (*models.ResetToken, error) {
	h := sha256.Sum256([]byte(raw))
	var rt models.ResetToken
	err := db.Where("token = ? AND used = ? AND expires_at > ?",
		hex.EncodeToString(h[:]), false, time.Now()).First(&rt).Error
	if err != nil {
		return nil, err
	}
	return &rt, nil
}
