package middlewarectx

import (
	"net/http"
	"sync"

	"github.com/go-chi/render"
	"golang.org/x/time/rate"

	"github.com/magabrotheeeer/gym-storefront/internal/http/response"
)

// RateLimitMiddleware возвращает middleware, ограничивающий частоту запросов
// по адресу клиента. Лимитеры хранятся в памяти процесса, поэтому
// ограничение действует в пределах одного инстанса.
func RateLimitMiddleware(rps rate.Limit, burst int) func(http.Handler) http.Handler {
	var mu sync.Mutex
	limiters := make(map[string]*rate.Limiter)

	getLimiter := func(addr string) *rate.Limiter {
		mu.Lock()
		defer mu.Unlock()
		limiter, ok := limiters[addr]
		if !ok {
			limiter = rate.NewLimiter(rps, burst)
			limiters[addr] = limiter
		}
		return limiter
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !getLimiter(r.RemoteAddr).Allow() {
				render.Status(r, http.StatusTooManyRequests)
				render.JSON(w, r, response.Error("too many requests"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
