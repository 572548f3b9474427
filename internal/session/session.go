package session

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
)

// Session keys used by the auth handlers, middleware, and renderer.
const (
	// KeyUserID holds the signed-in user's id.
	KeyUserID = "user_id"
	// KeyFlash holds a one-shot notification message.
	KeyFlash = "flash"
	// KeyFlashType holds the notification's severity class.
	KeyFlashType = "flash_type"
)

// New creates a new session manager backed by the SQLite sessions table.
// The cookie session only carries the user id; the authoritative record
// lives in the user-roster storage key.
func New(db *sql.DB, isDev bool) *scs.SessionManager {
	sm := scs.New()
	sm.Store = sqlite3store.New(db)

	sm.Lifetime = 24 * time.Hour
	sm.Cookie.HttpOnly = true
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Secure = !isDev // Secure cookies in production only

	return sm
}
