package handlers

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/Noyllopa/LiquidNewtab/internal/httpserver/deps"
	"github.com/Noyllopa/LiquidNewtab/internal/transfer"
)

// maxImportBytes bounds an import file; favicons and a background make
// exports a few megabytes at most.
const maxImportBytes = 64 << 20

func Export(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var buf bytes.Buffer
		if err := d.Transfer.Export(r.Context(), &buf); err != nil {
			writeError(w, r, d, err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", transfer.Filename))
		w.Header().Set("Cache-Control", "no-store")
		_, _ = buf.WriteTo(w)
	}
}

func Import(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, err := readUpload(w, r, maxImportBytes)
		if err != nil {
			if !writeUploadError(w, err) {
				writeError(w, r, d, err)
			}
			return
		}
		report, err := d.Transfer.Import(r.Context(), bytes.NewReader(data))
		if err != nil {
			writeError(w, r, d, err)
			return
		}
		writeJSON(w, http.StatusOK, report)
	}
}
