package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/sheetcheck/internal/columns"
	"github.com/JonMunkholm/sheetcheck/internal/consistency"
	"github.com/JonMunkholm/sheetcheck/internal/core"
	"github.com/JonMunkholm/sheetcheck/internal/delimiter"
	"github.com/JonMunkholm/sheetcheck/internal/table"
	"github.com/JonMunkholm/sheetcheck/internal/taxonomy"
	"github.com/JonMunkholm/sheetcheck/internal/web/templates"
)

const (
	// multipartMemory is how much of a form is kept in memory before
	// spilling file parts to disk.
	multipartMemory = 32 << 20

	// formOverhead allows for multipart boundaries and the text fields on
	// top of the file itself.
	formOverhead = 1 << 20

	maxJSONBody = 4 << 20
)

type uploadResponse struct {
	Message  string         `json:"message"`
	Analysis *core.Analysis `json:"analysis"`
}

type delimiterResponse struct {
	FileName   string                        `json:"file_name"`
	Delimiters map[string]*delimiter.Profile `json:"delimiters"`
}

type validateRequest struct {
	Rows []consistency.Pair `json:"rows"`
}

type validateResponse struct {
	TotalRows        int   `json:"total_rows"`
	LocationMismatch []int `json:"location_mismatch"`
	RegionMismatches []int `json:"region_mismatches"`
}

type taxonomyResponse struct {
	Countries    map[taxonomy.Region][]string `json:"countries"`
	Cities       map[taxonomy.Region][]string `json:"cities"`
	Worldwide    []string                     `json:"worldwide"`
	RegionLabels []string                     `json:"region_labels"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, s.service.Status())
}

func (s *Server) handleTaxonomy(w http.ResponseWriter, r *http.Request) {
	resp := taxonomyResponse{
		Countries:    make(map[taxonomy.Region][]string, len(taxonomy.Regions)),
		Cities:       make(map[taxonomy.Region][]string),
		Worldwide:    taxonomy.WorldwideMarkers(),
		RegionLabels: taxonomy.RegionLabels,
	}
	for _, reg := range taxonomy.Regions {
		resp.Countries[reg] = taxonomy.Countries(reg)
		if c := taxonomy.Cities(reg); len(c) > 0 {
			resp.Cities[reg] = c
		}
	}
	writeJSON(w, r, http.StatusOK, resp)
}

// handleUpload analyzes a multipart upload: file, and optionally sheet,
// location_column and regional_column.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	a, err := s.analyzeForm(w, r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, uploadResponse{
		Message:  "File uploaded and analyzed successfully",
		Analysis: a,
	})
}

// handleReport is handleUpload for browsers: the result is an HTML page.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	a, err := s.analyzeForm(w, r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templates.Report(a).Render(r.Context(), w); err != nil {
		s.respondError(w, r, err)
	}
}

func (s *Server) handleDelimiters(w http.ResponseWriter, r *http.Request) {
	file, header, opts, err := s.readUpload(w, r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	defer file.Close()

	profiles, err := s.service.Profiles(withOrigin(r), header.Filename, file, header.Size, opts)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, delimiterResponse{FileName: header.Filename, Delimiters: profiles})
}

// handleValidate checks location/region pairs sent as JSON.
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	var req validateRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		s.respondError(w, r, badJSON(err))
		return
	}

	regions := make([]table.Cell, len(req.Rows))
	for i, p := range req.Rows {
		regions[i] = table.Text(p.Region)
	}
	writeJSON(w, r, http.StatusOK, validateResponse{
		TotalRows:        len(req.Rows),
		LocationMismatch: consistency.Validate(req.Rows),
		RegionMismatches: consistency.CheckRegionLabels(regions),
	})
}

// handleSource analyzes a database table. Column names come from the
// location_column and regional_column query parameters.
func (s *Server) handleSource(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts := core.Options{Columns: columns.Names{
		Location: strings.TrimSpace(q.Get("location_column")),
		Region:   strings.TrimSpace(q.Get("regional_column")),
	}}

	a, err := s.service.AnalyzeSource(withOrigin(r), chi.URLParam(r, "table"), opts)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, uploadResponse{
		Message:  "Table analyzed successfully",
		Analysis: a,
	})
}

func (s *Server) analyzeForm(w http.ResponseWriter, r *http.Request) (*core.Analysis, error) {
	file, header, opts, err := s.readUpload(w, r)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return s.service.AnalyzeUpload(withOrigin(r), header.Filename, file, header.Size, opts)
}

// readUpload parses the multipart form. The caller closes the file.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (multipart.File, *multipart.FileHeader, core.Options, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Upload.MaxFileSize+formOverhead)

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) || strings.Contains(err.Error(), "request body too large") {
			return nil, nil, core.Options{}, fmt.Errorf("%w: %v", core.ErrFileTooLarge, err)
		}
		return nil, nil, core.Options{}, fmt.Errorf("%w: %v", core.ErrNoFile, err)
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, nil, core.Options{}, fmt.Errorf("%w: %v", core.ErrNoFile, err)
	}

	opts := core.Options{
		Sheet: strings.TrimSpace(r.FormValue("sheet")),
		Columns: columns.Names{
			Location: strings.TrimSpace(r.FormValue("location_column")),
			Region:   strings.TrimSpace(r.FormValue("regional_column")),
		},
	}
	return file, header, opts, nil
}

// badJSON wraps a decode failure with its own user message.
func badJSON(err error) error {
	return &core.UserError{
		Technical: err,
		User: core.UserMessage{
			Message: "Request body is not valid JSON",
			Action:  `Send {"rows": [{"location": "...", "region": "..."}]}`,
			Code:    "REQ001",
		},
	}
}
