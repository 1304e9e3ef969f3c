package gateway

import (
	"net/http"
	"strings"
	"time"

	vgcontext "code.swapex.io/swapex/libs/context"
	libhttp "code.swapex.io/swapex/libs/http"
	"code.swapex.io/swapex/logging"
	"code.swapex.io/swapex/metrics"

	"github.com/julienschmidt/httprouter"
)

// RemoteAddrMiddleware stores the address of the client in the request
// context, X-Forwarded-For taking precedence when set by a proxy.
func RemoteAddrMiddleware(log *logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := libhttp.RemoteAddr(r)
		if len(ip) == 0 {
			log.Warn("Remote address is not IP:port format in middleware",
				logging.String("remote-addr", r.RemoteAddr))
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(vgcontext.WithRemoteIPAddr(r.Context(), ip)))
	})
}

func MetricCollectionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)

		metrics.APIRequestAndTimeREST(endpointName(r.URL.Path), time.Since(start).Seconds())
	})
}

// endpointName trims a path down to its first two segments after the api
// prefix so parties and heights do not explode the metric labels.
func endpointName(path string) string {
	path = strings.TrimPrefix(strings.TrimPrefix(path, apiPrefix), "/")
	parts := strings.SplitN(path, "/", 3)
	if len(parts) > 2 {
		parts = parts[:2]
	}
	return strings.Join(parts, "/")
}

// rateLimited only lets a client through once per cool down for the
// given route.
func (s *Server) rateLimited(route string, next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		ip, err := vgcontext.RemoteIPAddrFromContext(r.Context())
		if err != nil {
			ip = libhttp.RemoteAddr(r)
		}
		if err := s.rateLimit.NewRequest(route, ip); err != nil {
			s.log.Debug("request rate-limited",
				logging.String("route", route),
				logging.String("ip", ip),
			)
			writeError(w, err, http.StatusTooManyRequests)
			return
		}
		next(w, r, ps)
	}
}
