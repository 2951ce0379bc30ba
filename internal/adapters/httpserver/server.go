package httpserver

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/phenrril/variantstudio/internal/adapters/export/xlsx"
	"github.com/phenrril/variantstudio/internal/adapters/storage/localfs"
	"github.com/phenrril/variantstudio/internal/domain"
	"github.com/phenrril/variantstudio/internal/usecase"
)

type Server struct {
	mux        *http.ServeMux
	variants   *usecase.VariantUC
	uploadsDir string
	maxUpload  int64
}

func New(uc *usecase.VariantUC, uploadsDir string, maxUploadMB int) http.Handler {
	if maxUploadMB <= 0 {
		maxUploadMB = 25
	}
	s := &Server{
		mux:        http.NewServeMux(),
		variants:   uc,
		uploadsDir: uploadsDir,
		maxUpload:  int64(maxUploadMB) << 20,
	}
	s.routes()
	return Chain(s.mux,
		RequestID,
		Recovery,
		Logging,
	)
}

func (s *Server) routes() {
	s.mux.Handle(localfs.URLPrefix, http.StripPrefix(localfs.URLPrefix, http.FileServer(http.Dir(s.uploadsDir))))

	s.mux.HandleFunc("/api/field-types", s.apiFieldTypes)
	s.mux.HandleFunc("/api/products/", s.apiProduct)
	s.mux.HandleFunc("/api/differentiators", s.apiDifferentiators)
	s.mux.HandleFunc("/api/duplicates", s.apiDuplicates)
	s.mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, map[string]any{"status": "ok"})
	})
}

type fieldTypeDTO struct {
	Type     domain.FieldType `json:"type"`
	Label    string           `json:"label"`
	UnitType domain.UnitType  `json:"unitType,omitempty"`
	Units    []domain.Unit    `json:"units,omitempty"`
}

func (s *Server) apiFieldTypes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method", 405)
		return
	}
	var items []fieldTypeDTO
	for _, ft := range domain.FieldTypes() {
		c := domain.CatalogFor(ft)
		items = append(items, fieldTypeDTO{Type: ft, Label: ft.Label(), UnitType: c.Type(), Units: c.Units()})
	}
	catalogs := map[domain.UnitType][]domain.Unit{}
	for _, ut := range domain.UnitTypes() {
		c, _ := domain.CatalogForUnitType(ut)
		catalogs[ut] = c.Units()
	}
	writeJSON(w, 200, map[string]any{"items": items, "unitCatalogs": catalogs})
}

// apiProduct serves /api/products/{id}/variants[.xlsx][/{sku}[/clone|/images]].
func (s *Server) apiProduct(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/products/"), "/"), "/")
	if len(parts) < 2 || strings.TrimSpace(parts[0]) == "" {
		http.Error(w, "path", 404)
		return
	}
	productID := parts[0]
	switch {
	case len(parts) == 2 && parts[1] == "variants.xlsx":
		s.apiExport(w, r, productID)
	case parts[1] != "variants":
		http.Error(w, "path", 404)
	case len(parts) == 2:
		s.apiVariants(w, r, productID)
	case len(parts) == 3:
		s.apiVariant(w, r, productID, parts[2])
	case len(parts) == 4 && parts[3] == "clone":
		s.apiVariantClone(w, r, productID, parts[2])
	case len(parts) == 4 && parts[3] == "images":
		s.apiVariantImages(w, r, productID, parts[2])
	default:
		http.Error(w, "path", 404)
	}
}

func (s *Server) apiVariants(w http.ResponseWriter, r *http.Request, productID string) {
	ws, err := s.variants.Open(r.Context(), productID)
	if err != nil {
		writeError(w, err)
		return
	}
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, 200, map[string]any{
			"items":           ws.Variants(),
			"differentiators": ws.Summary(),
		})
	case http.MethodPost:
		var v domain.Variant
		if err := json.NewDecoder(r.Body).Decode(&v); err != nil {
			writeJSON(w, 400, map[string]any{"status": "error", "message": "invalid json: " + err.Error()})
			return
		}
		if err := validVariant(v); err != nil {
			writeError(w, err)
			return
		}
		saved, dup, err := ws.Create(r.Context(), v)
		if err != nil && !errors.Is(err, usecase.ErrSummaryNotSaved) {
			writeError(w, err)
			return
		}
		writeJSON(w, 201, withWarning(map[string]any{
			"variant":         saved,
			"duplicate":       dup,
			"differentiators": ws.Summary(),
		}, err))
	default:
		http.Error(w, "method", 405)
	}
}

func (s *Server) apiVariant(w http.ResponseWriter, r *http.Request, productID, sku string) {
	ws, err := s.variants.Open(r.Context(), productID)
	if err != nil {
		writeError(w, err)
		return
	}
	switch r.Method {
	case http.MethodPut:
		var v domain.Variant
		if err := json.NewDecoder(r.Body).Decode(&v); err != nil {
			writeJSON(w, 400, map[string]any{"status": "error", "message": "invalid json: " + err.Error()})
			return
		}
		if err := validVariant(v); err != nil {
			writeError(w, err)
			return
		}
		saved, dup, err := ws.Update(r.Context(), sku, v)
		if err != nil && !errors.Is(err, usecase.ErrSummaryNotSaved) {
			writeError(w, err)
			return
		}
		writeJSON(w, 200, withWarning(map[string]any{
			"variant":         saved,
			"duplicate":       dup,
			"differentiators": ws.Summary(),
		}, err))
	case http.MethodDelete:
		err := ws.DeleteBySKU(r.Context(), sku)
		if err != nil && !errors.Is(err, usecase.ErrSummaryNotSaved) {
			writeError(w, err)
			return
		}
		writeJSON(w, 200, withWarning(map[string]any{"status": "ok", "differentiators": ws.Summary()}, err))
	default:
		http.Error(w, "method", 405)
	}
}

func (s *Server) apiVariantClone(w http.ResponseWriter, r *http.Request, productID, sku string) {
	if r.Method != http.MethodPost {
		http.Error(w, "method", 405)
		return
	}
	ws, err := s.variants.Open(r.Context(), productID)
	if err != nil {
		writeError(w, err)
		return
	}
	c, err := ws.CloneBySKU(r.Context(), sku)
	if err != nil && !errors.Is(err, usecase.ErrSummaryNotSaved) {
		writeError(w, err)
		return
	}
	writeJSON(w, 201, withWarning(map[string]any{"variant": c, "differentiators": ws.Summary()}, err))
}

func (s *Server) apiVariantImages(w http.ResponseWriter, r *http.Request, productID, sku string) {
	if r.Method != http.MethodPost {
		http.Error(w, "method", 405)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
	if err := r.ParseMultipartForm(s.maxUpload); err != nil {
		http.Error(w, "multipart", 400)
		return
	}
	var files []usecase.Upload
	for _, fh := range r.MultipartForm.File["images"] {
		f, err := fh.Open()
		if err != nil {
			http.Error(w, "file", 400)
			return
		}
		var buf bytes.Buffer
		_, err = io.Copy(&buf, f)
		f.Close()
		if err != nil {
			http.Error(w, "file", 400)
			return
		}
		files = append(files, usecase.Upload{Filename: fh.Filename, Data: buf.Bytes()})
	}
	if len(files) == 0 {
		http.Error(w, "images", 400)
		return
	}

	ws, err := s.variants.Open(r.Context(), productID)
	if err != nil {
		writeError(w, err)
		return
	}
	v, urls, err := ws.UploadImagesBySKU(r.Context(), sku, files)
	if err != nil && !errors.Is(err, usecase.ErrSummaryNotSaved) {
		writeError(w, err)
		return
	}
	writeJSON(w, 200, withWarning(map[string]any{"status": "ok", "urls": urls, "variant": v}, err))
}

func (s *Server) apiExport(w http.ResponseWriter, r *http.Request, productID string) {
	if r.Method != http.MethodGet {
		http.Error(w, "method", 405)
		return
	}
	ws, err := s.variants.Open(r.Context(), productID)
	if err != nil {
		writeError(w, err)
		return
	}
	var buf bytes.Buffer
	if err := xlsx.WriteVariants(&buf, ws.Variants()); err != nil {
		log.Error().Err(err).Str("product", productID).Msg("export variants")
		http.Error(w, "export", 500)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s-variants.xlsx", productID))
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) apiDifferentiators(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method", 405)
		return
	}
	var req struct {
		Variants []domain.Variant `json:"variants"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, 400, map[string]any{"status": "error", "message": "invalid json: " + err.Error()})
		return
	}
	d := usecase.ComputeDifferentiators(req.Variants)
	writeJSON(w, 200, map[string]any{
		"attributes": d.Attributes,
		"values":     d.Values,
		"labels":     usecase.DifferentiatorLabels(req.Variants, d),
	})
}

func (s *Server) apiDuplicates(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method", 405)
		return
	}
	var req struct {
		Candidate domain.Variant   `json:"candidate"`
		Index     *int             `json:"index"`
		Variants  []domain.Variant `json:"variants"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, 400, map[string]any{"status": "error", "message": "invalid json: " + err.Error()})
		return
	}
	idx := -1
	if req.Index != nil {
		idx = *req.Index
	}
	matches := usecase.DuplicateIndexes(req.Candidate, idx, req.Variants)
	if matches == nil {
		matches = []int{}
	}
	writeJSON(w, 200, map[string]any{"duplicate": len(matches) > 0, "matches": matches})
}

// validVariant rejects submitted data the workspace would otherwise treat as
// a caller bug.
func validVariant(v domain.Variant) error {
	if v.Price < 0 || v.CostPrice < 0 {
		return fmt.Errorf("%w: negative price", domain.ErrInvalidValue)
	}
	seen := map[string]struct{}{}
	for _, g := range v.AttributeGroups {
		for _, id := range append([]string{g.ID}, attributeIDs(g)...) {
			if id == "" {
				continue
			}
			if _, dup := seen[id]; dup {
				return fmt.Errorf("%w: id %q used twice", domain.ErrInvalidValue, id)
			}
			seen[id] = struct{}{}
		}
	}
	return nil
}

func attributeIDs(g domain.AttributeGroup) []string {
	out := make([]string, 0, len(g.Attributes))
	for _, a := range g.Attributes {
		out = append(out, a.ID)
	}
	return out
}

func statusFor(err error) int {
	var ref *domain.ReferenceError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return 404
	case errors.Is(err, domain.ErrBusy),
		errors.Is(err, domain.ErrSavedVariant),
		errors.Is(err, domain.ErrUnsavedVariant):
		return 409
	case errors.Is(err, domain.ErrTooManyImages):
		return 422
	case errors.Is(err, domain.ErrInvalidValue),
		errors.Is(err, domain.ErrUnknownFieldType),
		errors.As(err, &ref):
		return 400
	}
	return 500
}

// withWarning attaches err to a success body. It is only passed errors that
// leave the variant change itself persisted.
func withWarning(body map[string]any, err error) map[string]any {
	if err != nil {
		body["warning"] = err.Error()
	}
	return body
}

func writeError(w http.ResponseWriter, err error) {
	code := statusFor(err)
	if code == 500 {
		log.Error().Err(err).Msg("request failed")
	}
	writeJSON(w, code, map[string]any{"status": "error", "message": err.Error()})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
