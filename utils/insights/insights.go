package insights

import (
	"fmt"
	"net/http"
	"time"

	"newswire/models/constants"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Probes interface {
	ListenAndServe()
}

type Impl struct {
	port   int
	checks []func() bool
}

// NewProbes builds liveness/readiness endpoints; readiness fails when any
// registered check returns false.
func NewProbes(checks ...func() bool) *Impl {
	return &Impl{
		port:   viper.GetInt(constants.ProbePort),
		checks: checks,
	}
}

func (probes *Impl) ListenAndServe() {
	mux := http.NewServeMux()
	mux.HandleFunc("/liveness", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/readiness", func(w http.ResponseWriter, _ *http.Request) {
		for _, check := range probes.checks {
			if !check() {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", probes.port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info().Msgf("Probes listening on port %d", probes.port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("Probe server stopped")
		}
	}()
}
