package httpapi

import (
	"io"
	"net/http"
	"sort"

	"github.com/gorilla/mux"

	svcerrors "github.com/R3E-Network/korechain_gateway/internal/errors"
	"github.com/R3E-Network/korechain_gateway/internal/httputil"
	"github.com/R3E-Network/korechain_gateway/internal/importer"
	"github.com/R3E-Network/korechain_gateway/internal/ledger"
)

// importField is the multipart field holding an uploaded CSV file.
const importField = "file"

func (h *handler) health(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// operationInfo describes one catalog entry in GET /operations.
type operationInfo struct {
	Key      string `json:"key"`
	Module   string `json:"module"`
	Function string `json:"function"`
	Mode     string `json:"mode"`
}

func (h *handler) operations(w http.ResponseWriter, _ *http.Request) {
	descs := h.dispatcher.Catalog().Descriptors()
	out := make([]operationInfo, 0, len(descs))
	for _, d := range descs {
		out = append(out, operationInfo{
			Key:      string(d.Key),
			Module:   d.Module,
			Function: d.Function,
			Mode:     string(d.Mode),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	httputil.WriteJSON(w, http.StatusOK, out)
}

func (h *handler) main(w http.ResponseWriter, r *http.Request) {
	body, err := httputil.DecodeJSON(r.Body)
	if err != nil {
		h.badBody(w, r, err)
		return
	}
	writeResult(w, h.dispatcher.Handle(r.Context(), body))
}

func (h *handler) operation(w http.ResponseWriter, r *http.Request) {
	body, err := httputil.DecodeJSON(r.Body)
	if err != nil {
		h.badBody(w, r, err)
		return
	}
	writeResult(w, h.dispatcher.Execute(r.Context(), mux.Vars(r)["operation"], body))
}

func (h *handler) importFile(kind importer.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, httputil.MaxBodyBytes)

		var file io.Reader
		upload, _, err := r.FormFile(importField)
		if err == nil {
			defer upload.Close()
			file = upload
		} else {
			h.log.WithContext(r.Context()).WithError(err).Debug("no import file in request")
		}
		writeResult(w, h.importer.Import(r.Context(), kind, file))
	}
}

func (h *handler) saveKoreContract(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, httputil.MaxBodyBytes))
	if err != nil {
		h.badBody(w, r, err)
		return
	}
	writeResult(w, h.korecontract.Save(r.Context(), body))
}

func (h *handler) badBody(w http.ResponseWriter, r *http.Request, err error) {
	h.log.WithContext(r.Context()).WithError(err).Info("unreadable request body")
	httputil.WriteMessage(w, http.StatusBadRequest, svcerrors.MsgInvalidInput)
}

// writeResult responds with a ledger result: its status is the HTTP status
// and its data the body.
func writeResult(w http.ResponseWriter, res ledger.Result) {
	data := res.Data
	if data == nil {
		data = map[string]interface{}{}
	}
	httputil.WriteJSON(w, res.Status, data)
}
