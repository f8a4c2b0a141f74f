package api

import (
	"net/http"
	"time"

	"github.com/FavorLabs/chainlens/pkg/jsonhttp"
	"github.com/google/uuid"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
)

func (s *Service) setupRouting(o Options) {
	router := mux.NewRouter()
	router.NotFoundHandler = http.HandlerFunc(jsonhttp.NotFoundHandler)

	handle := func(path, route string, h http.HandlerFunc) {
		router.Handle(path, jsonhttp.MethodHandler{
			"GET": s.instrument(route, h),
		})
	}

	handle("/health", "health", s.healthHandler)
	handle("/readiness", "readiness", s.readinessHandler)

	handle("/chain/header", "header", s.headerHandler)
	handle("/chain/blocks/{number:[0-9]+}/hash", "block-hash", s.blockHashHandler)
	handle("/chain/blocks/{hash}", "block", s.blockHandler)
	handle("/chain/blocks/{hash}/events", "events", s.eventsHandler)
	handle("/chain/blocks/{hash}/author", "author", s.authorHandler)
	handle("/staking/{controller}/stash", "stash", s.stashHandler)
	handle("/staking/{account}/guarantee", "guarantee", s.guaranteeHandler)

	handle("/market/merchants/{account}", "merchant", s.merchantHandler)
	handle("/market/pledges/{account}", "pledge", s.pledgeHandler)
	handle("/market/orders/{hash}", "order", s.orderHandler)
	handle("/swork/{account}/work-report", "work-report", s.workReportHandler)
	handle("/pallets/{pallet}/version", "pallet-version", s.palletVersionHandler)

	handle("/types", "types", s.typesHandler)
	handle("/types/{name}", "type", s.typeHandler)
	handle("/types/{name}/decode", "type-decode", s.typeDecodeHandler)

	router.Handle("/metrics", promhttp.HandlerFor(s.metricsRegistry, promhttp.HandlerOpts{}))

	var h http.Handler = router
	h = handlers.CompressHandler(h)
	if len(o.CORSAllowedOrigins) > 0 {
		h = cors.New(cors.Options{
			AllowedOrigins: o.CORSAllowedOrigins,
			AllowedMethods: []string{http.MethodGet},
			MaxAge:         3600,
		}).Handler(h)
	}
	s.Handler = s.requestLogger(h)
}

type statusRecorder struct {
	http.ResponseWriter
	code int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.code = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Service) instrument(route string, h http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, code: http.StatusOK}
		h(rec, r)
		s.metrics.observe(route, rec.code, time.Since(start).Seconds())
	})
}

func (s *Service) requestLogger(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		w.Header().Set("X-Request-Id", id)
		start := time.Now()
		h.ServeHTTP(w, r)
		s.logger.WithFields(logrus.Fields{
			"request": id,
			"method":  r.Method,
			"uri":     r.RequestURI,
			"took":    time.Since(start).String(),
		}).Debug("api access")
	})
}
