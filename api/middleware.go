package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/techizeBuilder/sunrise-production-api/internal/utils"
)

// RequestID tags every request with an id, echoed in the response so
// client reports can be matched against server logs
func (app *application) RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", requestID)
		next.ServeHTTP(w, r)
	})
}

// Logger logs every request with method, path and duration
func (app *application) Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		app.infoLog.Printf("%s %s %s (%s)", r.Method, r.URL.Path, r.RemoteAddr, time.Since(start))
	})
}

// Authenticate verifies the Bearer token and stores its claims on the
// request context for downstream handlers
func (app *application) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			utils.WriteJSON(w, http.StatusUnauthorized, map[string]interface{}{
				"error":   true,
				"message": "Missing or invalid Authorization header",
			})
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := utils.VerifyJWT(tokenStr, app.config.JWT)
		if err != nil {
			app.errorLog.Println("Authenticate: invalid token:", err)
			utils.WriteJSON(w, http.StatusUnauthorized, map[string]interface{}{
				"error":   true,
				"message": "Invalid or expired token",
			})
			return
		}

		ctx := context.WithValue(r.Context(), utils.UserContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
