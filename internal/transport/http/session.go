package http

import (
	"crypto/sha256"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"

	"github.com/TransferDaily/internal/infra/auth"
)

const (
	cookieName = "td_admin"

	keySessionID        = "sid"
	keyChallengeName    = "challenge_name"
	keyChallengeSession = "challenge_session"
	keyChallengeUser    = "challenge_user"

	flashError = "error"
)

// sessionStore wraps the signed, encrypted admin cookie. The cookie only
// carries the server-side session id, a pending login challenge and flashes.
type sessionStore struct {
	store *sessions.CookieStore
}

func newSessionStore(secret string, ttl time.Duration, secure bool) *sessionStore {
	var hashKey, blockKey []byte
	if secret == "" {
		slog.Warn("SESSION_SECRET not set, admin sessions will not survive a restart")
		hashKey = securecookie.GenerateRandomKey(64)
		blockKey = securecookie.GenerateRandomKey(32)
	} else {
		h := sha256.Sum256([]byte("hash:" + secret))
		b := sha256.Sum256([]byte("block:" + secret))
		hashKey, blockKey = h[:], b[:]
	}

	store := sessions.NewCookieStore(hashKey, blockKey)
	store.Options = &sessions.Options{
		Path:     "/admin",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &sessionStore{store: store}
}

// get never fails: an unreadable cookie yields a fresh session.
func (s *sessionStore) get(r *http.Request) *sessions.Session {
	sess, err := s.store.Get(r, cookieName)
	if err != nil {
		slog.Debug("Discarding unreadable admin cookie", "error", err)
	}
	return sess
}

func (s *sessionStore) save(w http.ResponseWriter, r *http.Request, sess *sessions.Session) {
	if err := sess.Save(r, w); err != nil {
		slog.Error("Failed to save admin cookie", "error", err)
	}
}

func (s *sessionStore) sessionID(r *http.Request) string {
	id, _ := s.get(r).Values[keySessionID].(string)
	return id
}

func (s *sessionStore) setSessionID(w http.ResponseWriter, r *http.Request, id string) {
	sess := s.get(r)
	sess.Values[keySessionID] = id
	delete(sess.Values, keyChallengeName)
	delete(sess.Values, keyChallengeSession)
	delete(sess.Values, keyChallengeUser)
	s.save(w, r, sess)
}

func (s *sessionStore) setChallenge(w http.ResponseWriter, r *http.Request, ch auth.Challenge) {
	sess := s.get(r)
	sess.Values[keyChallengeName] = ch.Name
	sess.Values[keyChallengeSession] = ch.Session
	sess.Values[keyChallengeUser] = ch.Username
	s.save(w, r, sess)
}

func (s *sessionStore) challenge(r *http.Request) (auth.Challenge, bool) {
	sess := s.get(r)
	name, _ := sess.Values[keyChallengeName].(string)
	session, _ := sess.Values[keyChallengeSession].(string)
	user, _ := sess.Values[keyChallengeUser].(string)
	if name == "" || session == "" {
		return auth.Challenge{}, false
	}
	return auth.Challenge{Name: name, Session: session, Username: user}, true
}

func (s *sessionStore) clear(w http.ResponseWriter, r *http.Request) {
	sess := s.get(r)
	sess.Values = map[interface{}]interface{}{}
	sess.Options.MaxAge = -1
	s.save(w, r, sess)
}

func (s *sessionStore) notice(w http.ResponseWriter, r *http.Request, msg string) {
	sess := s.get(r)
	sess.AddFlash(msg)
	s.save(w, r, sess)
}

func (s *sessionStore) error(w http.ResponseWriter, r *http.Request, msg string) {
	sess := s.get(r)
	sess.AddFlash(msg, flashError)
	s.save(w, r, sess)
}

// flashes pops the pending notices and errors.
func (s *sessionStore) flashes(w http.ResponseWriter, r *http.Request) (notices, errs []string) {
	sess := s.get(r)
	for _, f := range sess.Flashes() {
		if msg, ok := f.(string); ok {
			notices = append(notices, msg)
		}
	}
	for _, f := range sess.Flashes(flashError) {
		if msg, ok := f.(string); ok {
			errs = append(errs, msg)
		}
	}
	if len(notices) > 0 || len(errs) > 0 {
		s.save(w, r, sess)
	}
	return notices, errs
}
