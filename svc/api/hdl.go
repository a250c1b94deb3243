package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/hlog"

	"slugbin/cfg"
	"slugbin/pkg/domain"
	"slugbin/svc/auth"
	"slugbin/svc/codec"
	"slugbin/svc/svc"
	"slugbin/svc/util"
)

type Hdl struct {
	paste *svc.Paste
	cfg   *cfg.Cfg
}

type CreateReq struct {
	Text       string `json:"text"`
	Slug       string `json:"slug,omitempty"`
	Password   string `json:"password,omitempty"`
	Expiration string `json:"expiration,omitempty"`
}
type CreateResp struct {
	Success             bool    `json:"success"`
	Slug                string  `json:"slug"`
	ExpirationInSeconds *int64  `json:"expirationInSeconds"`
	FormattedExpiration *string `json:"formattedExpiration"`
}
type ViewResp struct {
	Text             string          `json:"text"`
	Metadata         domain.Metadata `json:"metadata"`
	SecondsRemaining *int64          `json:"secondsRemaining,omitempty"`
}
type DeleteReq struct {
	Slug string `json:"slug"`
}

func (h *Hdl) CreatePaste(w http.ResponseWriter, r *http.Request) {
	log := hlog.FromRequest(r)
	requestID := util.GetRequestID(r.Context())

	var req CreateReq
	if !h.decodeBody(w, r, &req) {
		return
	}
	params := domain.CreateParams{
		Slug:       req.Slug,
		Text:       req.Text,
		Expiration: req.Expiration,
		Password:   req.Password,
		Timezone:   r.Header.Get("X-Timezone"),
	}
	res, err := h.paste.Create(r.Context(), params)
	if err != nil {
		log.Warn().Err(err).Str("slug", req.Slug).Str("text", util.RedactText(req.Text)).Msg("create failed")
		writeErr(w, err, requestID)
		return
	}
	log.Info().
		Str("slug", res.Slug).
		Bool("password_protected", req.Password != "").
		Bool("expiring", res.ExpirationInSeconds != nil).
		Msg("paste created")
	json.NewEncoder(w).Encode(CreateResp{
		Success:             true,
		Slug:                res.Slug,
		ExpirationInSeconds: res.ExpirationInSeconds,
		FormattedExpiration: res.FormattedExpiration,
	})
}

func (h *Hdl) ViewPaste(w http.ResponseWriter, r *http.Request) {
	log := hlog.FromRequest(r)
	requestID := util.GetRequestID(r.Context())
	id := chi.URLParam(r, "slug")
	if id == "" {
		id = r.URL.Query().Get("slug")
	}
	if id == "" {
		writeErr(w, domain.ErrSlugRequired, requestID)
		return
	}
	res, err := h.paste.Read(r.Context(), id, auth.PasteCredential(r))
	if err != nil {
		log.Warn().Err(err).Str("slug", id).Msg("read failed")
		writeErr(w, err, requestID)
		return
	}
	log.Info().Str("slug", id).Msg("paste retrieved")
	json.NewEncoder(w).Encode(ViewResp{
		Text:             res.Text,
		Metadata:         res.Metadata,
		SecondsRemaining: res.SecondsRemaining,
	})
}

// ViewOrList serves both forms of /view: with a slug query parameter
// it is a single-paste read gated only by the paste password, without
// one it is the API-key enumeration.
func (h *Hdl) ViewOrList(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("slug") != "" {
		h.ViewPaste(w, r)
		return
	}
	if err := h.paste.Guard().CheckAPIAuth(r.Header.Get("Authorization")); err != nil {
		requestID := util.GetRequestID(r.Context())
		util.Warn().
			Str("path", r.URL.Path).
			Str("credential", util.RedactCredential(r.Header.Get("Authorization"))).
			Msg("api auth rejected")
		writeErr(w, domain.ErrUnauthorized, requestID)
		return
	}
	h.ListPastes(w, r)
}

func (h *Hdl) ListPastes(w http.ResponseWriter, r *http.Request) {
	log := hlog.FromRequest(r)
	requestID := util.GetRequestID(r.Context())
	entries, err := h.paste.List(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("list failed")
		writeErr(w, err, requestID)
		return
	}
	log.Info().Int("count", len(entries)).Msg("pastes listed")
	json.NewEncoder(w).Encode(entries)
}

func (h *Hdl) DeletePaste(w http.ResponseWriter, r *http.Request) {
	log := hlog.FromRequest(r)
	requestID := util.GetRequestID(r.Context())

	var req DeleteReq
	if !h.decodeBody(w, r, &req) {
		return
	}
	if req.Slug == "" {
		writeErr(w, domain.ErrSlugRequired, requestID)
		return
	}
	if err := h.paste.Delete(r.Context(), req.Slug); err != nil {
		log.Error().Err(err).Str("slug", req.Slug).Msg("delete failed")
		writeErr(w, err, requestID)
		return
	}
	log.Info().Str("slug", req.Slug).Msg("paste deleted")
	json.NewEncoder(w).Encode(map[string]bool{"success": true})
}

// AuthCheck exists so clients can validate an API key without side
// effects; the middleware has already done the actual check.
func (h *Hdl) AuthCheck(w http.ResponseWriter, r *http.Request) {
	json.NewEncoder(w).Encode(map[string]bool{"success": true})
}

// RawPaste is the public plain-text view, gated the same way as the
// API read.
func (h *Hdl) RawPaste(w http.ResponseWriter, r *http.Request) {
	log := hlog.FromRequest(r)
	id := chi.URLParam(r, "slug")
	res, err := h.paste.Read(r.Context(), id, auth.PasteCredential(r))
	if err != nil {
		log.Warn().Err(err).Str("slug", id).Msg("public read failed")
		status := domain.Status(err)
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(status)
		io.WriteString(w, domain.ToResp(err).Error.Msg+"\n")
		return
	}
	log.Info().Str("slug", id).Msg("paste served")
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, res.Text)
}

// decodeBody reads a JSON body with the size cap applied and smart
// quotes normalized before parsing. Returns false after writing the
// error response.
func (h *Hdl) decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	requestID := util.GetRequestID(r.Context())
	r.Body = http.MaxBytesReader(w, r.Body, h.cfg.MaxPasteSize*2)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		hlog.FromRequest(r).Warn().Err(err).Msg("body read failed")
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeErr(w, domain.ErrPasteTooLarge, requestID)
		} else {
			writeErr(w, domain.ErrInvalidRequest, requestID)
		}
		return false
	}
	body = codec.NormalizeQuotes(body)
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		hlog.FromRequest(r).Warn().Err(err).Msg("invalid request body")
		writeErr(w, domain.ErrInvalidRequest, requestID)
		return false
	}
	return true
}

func writeErr(w http.ResponseWriter, err error, requestID string) {
	statusCode := domain.Status(err)
	errorMsg := domain.ToResp(err).Error.Msg
	if statusCode >= 500 {
		errorMsg = "internal server error"
		util.Error().
			Err(err).
			Str("request_id", requestID).
			Msg("internal error with detailed info")
	}
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]string{
		"error":      errorMsg,
		"request_id": requestID,
	})
}
