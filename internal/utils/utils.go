package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/techizeBuilder/sunrise-production-api/internal/models"
)

// ReadJSON decodes a request body into data, enforcing a single JSON value
func ReadJSON(w http.ResponseWriter, r *http.Request, data interface{}) error {
	maxBytes := 1048576 // 1MB
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxBytes))

	dec := json.NewDecoder(r.Body)
	err := dec.Decode(data)
	if err != nil {
		return err
	}

	err = dec.Decode(&struct{}{})
	if err != io.EOF {
		return errors.New("body must only have a single JSON value")
	}
	return nil
}

// WriteJSON writes data to the response as JSON with the given status code
func WriteJSON(w http.ResponseWriter, status int, data interface{}, headers ...http.Header) error {
	out, err := json.Marshal(data)
	if err != nil {
		return err
	}

	if len(headers) > 0 {
		for key, value := range headers[0] {
			w.Header()[key] = value
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(out)
	return err
}

// BadRequest sends a JSON response with status http.StatusBadRequest
func BadRequest(w http.ResponseWriter, err error) error {
	var payload models.Response
	payload.Error = true
	payload.Status = "failed"
	payload.Message = err.Error()

	return WriteJSON(w, http.StatusBadRequest, payload)
}

// GetCompanyID reads the company scope from the X-Company-ID header.
// Returns 0 when the header is missing or malformed; company-scoped
// handlers must treat 0 as a hard failure, never as "all companies".
func GetCompanyID(r *http.Request) int64 {
	companyIDStr := r.Header.Get("X-Company-ID")
	if companyIDStr == "" {
		return 0
	}
	companyID, err := strconv.ParseInt(companyIDStr, 10, 64)
	if err != nil {
		return 0
	}
	return companyID
}

type contextKey string

// UserContextKey is where the auth middleware stores the verified token claims
const UserContextKey contextKey = "user"

// GetActorID reads the signed-in user's id from the request context.
// Returns 0 for unauthenticated requests.
func GetActorID(r *http.Request) int64 {
	claims, ok := r.Context().Value(UserContextKey).(jwt.MapClaims)
	if !ok {
		return 0
	}
	id, ok := claims["id"].(float64)
	if !ok {
		return 0
	}
	return int64(id)
}

// ParseDate parses a YYYY-MM-DD query value
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return d, nil
}

// GenerateJWT creates a signed token for the given user claims
func GenerateJWT(user models.JWT, cfg models.JWTConfig) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"id":         user.ID,
		"name":       user.Name,
		"username":   user.Username,
		"role":       user.Role,
		"company_id": user.CompanyID,
		"iss":        cfg.Issuer,
		"aud":        cfg.Audience,
		"iat":        now.Unix(),
		"exp":        now.Add(cfg.Expiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.SecretKey))
}

// VerifyJWT parses and validates a token string, returning its claims
func VerifyJWT(tokenStr string, cfg models.JWTConfig) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(cfg.SecretKey), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// HashPassword hashes a plain text password using bcrypt
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPassword compares a plain text password with a bcrypt hash
func CheckPassword(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
