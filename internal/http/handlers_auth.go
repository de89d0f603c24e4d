package httpapi

import (
	"net/http"

	"github.com/example/mediride/internal/apiclient"
	"github.com/example/mediride/internal/demo"
	"github.com/example/mediride/internal/observability"
)

// Auth endpoints are pure passthrough: token issuance and validation are
// entirely the backend's concern.

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req apiclient.LoginRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, err)
		return
	}
	sess, err := s.Backend.Login(r.Context(), req)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, sess)
}

func (s *Server) handleTokenRefresh(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Refresh string `json:"refresh"`
	}
	if err := decodeBody(r, &req); err != nil {
		respondError(w, err)
		return
	}
	access, err := s.Backend.RefreshToken(r.Context(), req.Refresh)
	if err != nil {
		observability.TokenRefresh.WithLabelValues("failure").Inc()
		respondError(w, err)
		return
	}
	observability.TokenRefresh.WithLabelValues("success").Inc()
	respondJSON(w, http.StatusOK, map[string]string{"access": access})
}

func (s *Server) handleHospitals(w http.ResponseWriter, r *http.Request) {
	hospitals, err := s.Directory.Hospitals(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		if s.demoFallback && isTransportFailure(err) {
			observability.DemoFallback.Inc()
			respondJSON(w, http.StatusOK, map[string]any{"source": demo.SourceDemo, "hospitals": demo.Hospitals()})
			return
		}
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"source": demo.SourceLive, "hospitals": hospitals})
}

func (s *Server) handleDoctors(w http.ResponseWriter, r *http.Request) {
	doctors, err := s.Directory.Doctors(r.Context(), r.URL.Query().Get("specialty"))
	if err != nil {
		if s.demoFallback && isTransportFailure(err) {
			observability.DemoFallback.Inc()
			respondJSON(w, http.StatusOK, map[string]any{"source": demo.SourceDemo, "doctors": demo.Doctors()})
			return
		}
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"source": demo.SourceLive, "doctors": doctors})
}
