package handlers

import (
	"net/http"

	"github.com/Noyllopa/LiquidNewtab/internal/httpserver/deps"
)

type backgroundResponse struct {
	CustomBg string `json:"customBg"`
}

func UploadBackground(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, err := readUpload(w, r, d.Background.MaxUploadBytes())
		if err != nil {
			if !writeUploadError(w, err) {
				writeError(w, r, d, err)
			}
			return
		}
		url, err := d.Background.SetFromUpload(r.Context(), data)
		if err != nil {
			writeError(w, r, d, err)
			return
		}
		writeJSON(w, http.StatusOK, backgroundResponse{CustomBg: url})
	}
}

func RandomBackground(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		url, err := d.Background.SetRandom(r.Context())
		if err != nil {
			writeError(w, r, d, err)
			return
		}
		writeJSON(w, http.StatusOK, backgroundResponse{CustomBg: url})
	}
}

func ResetBackground(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := d.Background.Reset(r.Context()); err != nil {
			writeError(w, r, d, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
