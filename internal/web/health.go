package web

import (
	"context"
	"net/http"
	"time"

	"github.com/2beens/quotegen/pkg"

	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"
)

const healthPingTimeout = 2 * time.Second

type healthPinger interface {
	Ping(ctx context.Context) *redis.StatusCmd
}

func (handler *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if handler.redis == nil {
		pkg.WriteTextResponseOK(w, "ok")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), healthPingTimeout)
	defer cancel()

	if err := handler.redis.Ping(ctx).Err(); err != nil {
		log.Errorf("health: redis ping: %s", err)
		pkg.WriteResponse(w, pkg.ContentType.Text, "redis unavailable", http.StatusServiceUnavailable)
		return
	}

	pkg.WriteTextResponseOK(w, "ok")
}
