package server

import (
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"github.com/shouni/vibe-ui-kit/pkg/controller"
	"github.com/shouni/vibe-ui-kit/pkg/generator"
)

const sessionCookie = "vibe_session"

// session はブラウザ1つ分の Controller と生成レート制限を保持します。
type session struct {
	id      string
	ctrl    *controller.Controller
	limiter *rate.Limiter
}

// sessionStore は Cookie の ID から session を引きます。
// 一定時間操作のないセッションは破棄され、実行中の生成結果は捨てられます。
type sessionStore struct {
	mu    sync.Mutex
	items *cache.Cache
	ttl   time.Duration
	gen   generator.Generator
	limit rate.Limit
	burst int
}

func newSessionStore(gen generator.Generator, ttl time.Duration, perMinute, burst int) *sessionStore {
	limit := rate.Inf
	if perMinute > 0 {
		limit = rate.Limit(float64(perMinute) / time.Minute.Seconds())
	}
	if burst <= 0 {
		burst = 1
	}
	return &sessionStore{
		items: cache.New(ttl, ttl/2),
		ttl:   ttl,
		gen:   gen,
		limit: limit,
		burst: burst,
	}
}

// get は既存のセッションを返し、無ければ作成します。
// 取得のたびに有効期限を延長します。
func (s *sessionStore) get(id string) (*session, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id != "" {
		if v, ok := s.items.Get(id); ok {
			if sess, ok := v.(*session); ok {
				s.items.Set(id, sess, s.ttl)
				return sess, false, nil
			}
		}
	}

	ctrl, err := controller.New(s.gen)
	if err != nil {
		return nil, false, fmt.Errorf("コントローラーの作成に失敗しました: %w", err)
	}
	sess := &session{
		id:      uuid.NewString(),
		ctrl:    ctrl,
		limiter: rate.NewLimiter(s.limit, s.burst),
	}
	s.items.Set(sess.id, sess, s.ttl)
	slog.Debug("新しいセッションを作成しました", "session", sess.id)
	return sess, true, nil
}

func (s *sessionStore) count() int {
	return s.items.ItemCount()
}

// sessionFrom はリクエストの Cookie からセッションを解決し、必要なら Cookie を発行します。
func (s *Server) sessionFrom(w http.ResponseWriter, r *http.Request) (*session, error) {
	var id string
	if c, err := r.Cookie(sessionCookie); err == nil {
		id = c.Value
	}
	sess, created, err := s.sessions.get(id)
	if err != nil {
		return nil, err
	}
	if created {
		http.SetCookie(w, &http.Cookie{
			Name:     sessionCookie,
			Value:    sess.id,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
	return sess, nil
}
