package api

import (
	"net/http"

	"github.com/FavorLabs/chainlens"
	"github.com/FavorLabs/chainlens/pkg/jsonhttp"
)

type StatusResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

func (s *Service) healthHandler(w http.ResponseWriter, r *http.Request) {
	jsonhttp.OK(w, StatusResponse{
		Status:  "ok",
		Version: chainlens.Version,
	})
}

func (s *Service) readinessHandler(w http.ResponseWriter, r *http.Request) {
	if !s.chain.IsReady() {
		jsonhttp.ServiceUnavailable(w, StatusResponse{
			Status:  "connecting",
			Version: chainlens.Version,
		})
		return
	}
	jsonhttp.OK(w, StatusResponse{
		Status:  "ok",
		Version: chainlens.Version,
	})
}
