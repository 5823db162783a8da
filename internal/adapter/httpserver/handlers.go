package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"

	"github.com/fairyhunter13/ai-skill-screener/internal/config"
	"github.com/fairyhunter13/ai-skill-screener/internal/domain"
	"github.com/fairyhunter13/ai-skill-screener/internal/skills"
	"github.com/fairyhunter13/ai-skill-screener/internal/usecase"
)

// DefaultTopN is the per-list cap applied when a rank request omits top_n.
const DefaultTopN = 10

// multipartOverhead is the allowance for form fields and part headers on
// top of the file size limit.
const multipartOverhead = 1 << 20

// Server aggregates handlers dependencies.
type Server struct {
	Cfg           config.Config
	Screen        usecase.ScreenService
	Rank          usecase.RankService
	Catalog       *skills.Catalog
	DatasetCheck  func(ctx context.Context) error
	DBCheck       func(ctx context.Context) error
	RedisCheck    func(ctx context.Context) error
	TikaCheck     func(ctx context.Context) error
	EmbedderCheck func(ctx context.Context) error
}

// NewServer constructs an HTTP server with the use cases wired. Readiness
// checks are optional and set on the returned value.
func NewServer(cfg config.Config, screen usecase.ScreenService, rank usecase.RankService, catalog *skills.Catalog) *Server {
	return &Server{Cfg: cfg, Screen: screen, Rank: rank, Catalog: catalog}
}

// allowedExt enforces an allowlist for uploads: .txt, .pdf, .docx
func allowedExt(name string) bool {
	n := strings.ToLower(name)
	return strings.HasSuffix(n, ".txt") || strings.HasSuffix(n, ".pdf") || strings.HasSuffix(n, ".docx")
}

func allowedMIMEFor(m string, filename string) bool {
	m = strings.ToLower(m)
	// For .txt files, accept any text/* including text/html as some detectors misclassify rich text
	if strings.HasSuffix(strings.ToLower(filename), ".txt") {
		if strings.HasPrefix(m, "text/") {
			return true
		}
	}
	if strings.HasPrefix(m, "text/plain") { // allow parameters such as charset
		return true
	}
	// mimetype reports DOCX as a zip when the content types part is not first
	if strings.HasSuffix(strings.ToLower(filename), ".docx") && m == "application/zip" {
		return true
	}
	return m == "application/pdf" || m == "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
}

// notAcceptable rejects requests whose Accept header excludes JSON.
func notAcceptable(w http.ResponseWriter, r *http.Request, alsoCSV bool) bool {
	a := r.Header.Get("Accept")
	if a == "" || a == "*/*" || strings.Contains(a, "application/json") {
		return false
	}
	if alsoCSV && strings.Contains(a, "text/csv") {
		return false
	}
	writeStatus(w, http.StatusNotAcceptable, "INVALID_ARGUMENT", "not acceptable", map[string]any{"accept": a})
	return true
}

func isTooLarge(err error) bool {
	var mbe *http.MaxBytesError
	if errors.As(err, &mbe) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "too large")
}

// readUpload parses the multipart body and returns the named file. It writes
// the error response itself and reports false on failure.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request, field string) (*multipart.FileHeader, []byte, bool) {
	maxBytes := s.Cfg.MaxUploadBytes()
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes+multipartOverhead)
	if err := r.ParseMultipartForm(maxBytes + multipartOverhead); err != nil {
		if isTooLarge(err) {
			writeStatus(w, http.StatusRequestEntityTooLarge, "INVALID_ARGUMENT", "payload too large", map[string]any{"max_mb": s.Cfg.MaxUploadMB})
			return nil, nil, false
		}
		writeError(w, r, fmt.Errorf("%w: %v", domain.ErrInvalidArgument, err), nil)
		return nil, nil, false
	}
	f, h, err := r.FormFile(field)
	if err != nil {
		writeError(w, r, fmt.Errorf("%w: %s file required", domain.ErrInvalidArgument, field), map[string]string{"field": field})
		return nil, nil, false
	}
	defer func() { _ = f.Close() }()
	data, err := io.ReadAll(io.LimitReader(f, maxBytes+1))
	if err != nil {
		writeError(w, r, fmt.Errorf("%w: %s read: %v", domain.ErrInvalidArgument, field, err), nil)
		return nil, nil, false
	}
	if int64(len(data)) > maxBytes {
		writeStatus(w, http.StatusRequestEntityTooLarge, "INVALID_ARGUMENT", "payload too large", map[string]any{"max_mb": s.Cfg.MaxUploadMB})
		return nil, nil, false
	}
	return h, data, true
}

// checkMedia enforces the extension allowlist and sniffs the content.
func checkMedia(w http.ResponseWriter, h *multipart.FileHeader, data []byte, exts ...string) bool {
	ext := strings.ToLower(filepath.Ext(h.Filename))
	okExt := allowedExt(h.Filename)
	if len(exts) > 0 {
		okExt = false
		for _, e := range exts {
			okExt = okExt || ext == e
		}
	}
	if !okExt {
		writeStatus(w, http.StatusUnsupportedMediaType, "INVALID_ARGUMENT", "unsupported media type (extension)", map[string]any{"filename": h.Filename})
		return false
	}
	m := mimetype.Detect(data)
	if !allowedMIMEFor(m.String(), h.Filename) {
		writeStatus(w, http.StatusUnsupportedMediaType, "INVALID_ARGUMENT", "unsupported media type (content)", map[string]any{"mime": m.String(), "filename": h.Filename})
		return false
	}
	return true
}

type screenResponse struct {
	ID                string   `json:"id"`
	JobRole           string   `json:"jobRole"`
	MatchScore        float64  `json:"matchScore"`
	TechSkillsFound   []string `json:"techSkillsFound"`
	SoftSkillsFound   []string `json:"softSkillsFound"`
	MissingTechSkills []string `json:"missingTechSkills"`
	MissingSoftSkills []string `json:"missingSoftSkills"`
	Recommendation    string   `json:"recommendation"`
	Pages             int      `json:"pages"`
	PagesFailed       int      `json:"pagesFailed"`
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// ScreenHandler screens an uploaded resume against a reference role.
func (s *Server) ScreenHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if notAcceptable(w, r, false) {
			return
		}
		if !strings.Contains(r.Header.Get("Content-Type"), "multipart/form-data") {
			writeError(w, r, fmt.Errorf("%w: content-type must be multipart/form-data", domain.ErrInvalidArgument), nil)
			return
		}
		h, data, ok := s.readUpload(w, r, "file")
		if !ok {
			return
		}
		role := SanitizeString(r.FormValue("job_role"))
		if role == "" {
			writeError(w, r, fmt.Errorf("%w: job_role required", domain.ErrInvalidArgument), map[string]string{"field": "job_role"})
			return
		}
		if !checkMedia(w, h, data) {
			return
		}

		rep, err := s.Screen.ScreenUpload(r.Context(), h.Filename, data, role)
		if err != nil {
			writeError(w, r, fmt.Errorf("screen: %w", err), map[string]string{"job_role": role})
			return
		}
		res := rep.Result
		writeJSON(w, http.StatusOK, screenResponse{
			ID:                rep.ID,
			JobRole:           role,
			MatchScore:        res.MatchScore,
			TechSkillsFound:   nonNil(res.TechFound),
			SoftSkillsFound:   nonNil(res.SoftFound),
			MissingTechSkills: nonNil(res.MissingTech),
			MissingSoftSkills: nonNil(res.MissingSoft),
			Recommendation:    res.Recommendation,
			Pages:             rep.Pages,
			PagesFailed:       rep.PagesFailed,
		})
	}
}

type rankedSkill struct {
	Skill    string     `json:"skill"`
	Score    float64    `json:"score"`
	Priority skills.Tier `json:"priority"`
}

type rankTotals struct {
	Total     int `json:"total"`
	Technical int `json:"technical"`
	Soft      int `json:"soft"`
}

type rankResponse struct {
	ID         string           `json:"id"`
	Threshold  float64          `json:"threshold"`
	TopN       int              `json:"topN"`
	TechSkills []rankedSkill    `json:"techSkills"`
	SoftSkills []rankedSkill    `json:"softSkills"`
	Breakdown  skills.Breakdown `json:"breakdown"`
	Totals     rankTotals       `json:"totals"`
}

func toRanked(list []domain.ScoredSkill, p skills.Policy) []rankedSkill {
	out := make([]rankedSkill, 0, len(list))
	for _, sk := range list {
		out = append(out, rankedSkill{Skill: sk.Skill, Score: sk.Score, Priority: p.Tier(sk.Score)})
	}
	return out
}

// rankInput reads the description, threshold and top_n from either a JSON
// body or a multipart form carrying a .txt file.
func (s *Server) rankInput(w http.ResponseWriter, r *http.Request) (string, float64, int, bool) {
	defThreshold := s.Rank.Policy().Threshold
	ct := r.Header.Get("Content-Type")
	if strings.Contains(ct, "multipart/form-data") {
		h, data, ok := s.readUpload(w, r, "file")
		if !ok {
			return "", 0, 0, false
		}
		if !checkMedia(w, h, data, ".txt") {
			return "", 0, 0, false
		}
		th, n, vr := ParseRankParams(r.FormValue("threshold"), r.FormValue("top_n"), defThreshold)
		if !vr.Valid {
			writeError(w, r, fmt.Errorf("%w: validation failed", domain.ErrInvalidArgument), vr.Errors)
			return "", 0, 0, false
		}
		return usecase.DescriptionText(data), th, n, true
	}
	if !strings.Contains(ct, "application/json") {
		writeError(w, r, fmt.Errorf("%w: content-type must be application/json or multipart/form-data", domain.ErrInvalidArgument), nil)
		return "", 0, 0, false
	}
	r.Body = http.MaxBytesReader(w, r.Body, s.Cfg.MaxUploadBytes())
	var req rankRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if isTooLarge(err) {
			writeStatus(w, http.StatusRequestEntityTooLarge, "INVALID_ARGUMENT", "payload too large", map[string]any{"max_mb": s.Cfg.MaxUploadMB})
			return "", 0, 0, false
		}
		writeError(w, r, fmt.Errorf("%w: invalid json", domain.ErrInvalidArgument), nil)
		return "", 0, 0, false
	}
	if verrs, ok := validateStruct(req); !ok {
		writeError(w, r, fmt.Errorf("%w: validation failed", domain.ErrInvalidArgument), verrs)
		return "", 0, 0, false
	}
	th, n := defThreshold, DefaultTopN
	if req.Threshold != nil {
		th = *req.Threshold
	}
	if req.TopN != nil {
		n = *req.TopN
	}
	return req.Description, th, n, true
}

// RankHandler ranks the skills mentioned in a job description. With
// ?format=csv the ranking is returned as a CSV export.
func (s *Server) RankHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		asCSV := strings.EqualFold(r.URL.Query().Get("format"), "csv")
		if notAcceptable(w, r, asCSV) {
			return
		}
		desc, th, n, ok := s.rankInput(w, r)
		if !ok {
			return
		}
		rep, err := s.Rank.Rank(r.Context(), desc, th, n)
		if err != nil {
			writeError(w, r, fmt.Errorf("rank: %w", err), nil)
			return
		}
		p := s.Rank.Policy()
		if asCSV {
			writeRankCSV(w, rep.Ranked, p)
			return
		}
		writeJSON(w, http.StatusOK, rankResponse{
			ID:         rep.ID,
			Threshold:  th,
			TopN:       n,
			TechSkills: toRanked(rep.Ranked.Technical, p),
			SoftSkills: toRanked(rep.Ranked.Soft, p),
			Breakdown:  rep.Breakdown,
			Totals: rankTotals{
				Total:     rep.Total(),
				Technical: len(rep.Ranked.Technical),
				Soft:      len(rep.Ranked.Soft),
			},
		})
	}
}

func writeRankCSV(w http.ResponseWriter, ranked domain.RankedSkills, p skills.Policy) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="mandatory_skills_prioritized.csv"`)
	w.WriteHeader(http.StatusOK)
	_ = usecase.WriteRankCSV(w, ranked, p)
}

// RolesHandler lists reference role titles containing ?q=.
func (s *Server) RolesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if notAcceptable(w, r, false) {
			return
		}
		q := SanitizeString(r.URL.Query().Get("q"))
		if vr := ValidateSearchQuery(q); !vr.Valid {
			writeError(w, r, fmt.Errorf("%w: invalid query", domain.ErrInvalidArgument), vr.Errors)
			return
		}
		titles := s.Catalog.Titles(q)
		writeJSON(w, http.StatusOK, map[string]any{"query": q, "roles": nonNil(titles), "count": len(titles)})
	}
}

// VocabularyHandler returns the skill vocabulary and its sizes.
func (s *Server) VocabularyHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if notAcceptable(w, r, false) {
			return
		}
		v := s.Catalog.Vocabulary()
		writeJSON(w, http.StatusOK, map[string]any{
			"technical": nonNil(v.Technical),
			"soft":      nonNil(v.Soft),
			"counts":    map[string]int{"technical": len(v.Technical), "soft": len(v.Soft), "roles": s.Catalog.Len()},
		})
	}
}

// ReadyzHandler returns a readiness handler that probes the dataset and
// every configured backend.
func (s *Server) ReadyzHandler() http.HandlerFunc {
	type check struct {
		Name    string `json:"name"`
		OK      bool   `json:"ok"`
		Details string `json:"details,omitempty"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		probes := []struct {
			name string
			fn   func(context.Context) error
		}{
			{"dataset", s.DatasetCheck},
			{"db", s.DBCheck},
			{"redis", s.RedisCheck},
			{"tika", s.TikaCheck},
			{"embedder", s.EmbedderCheck},
		}
		checks := make([]check, 0, len(probes))
		ok := true
		for _, p := range probes {
			if p.fn == nil {
				continue
			}
			if err := p.fn(ctx); err != nil {
				ok = false
				checks = append(checks, check{Name: p.name, OK: false, Details: err.Error()})
				continue
			}
			checks = append(checks, check{Name: p.name, OK: true})
		}
		st := http.StatusOK
		if !ok {
			st = http.StatusServiceUnavailable
		}
		writeJSON(w, st, map[string]any{"checks": checks})
	}
}

// OpenAPIServe serves api/openapi.yaml if present.
func (s *Server) OpenAPIServe() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b, err := os.ReadFile("api/openapi.yaml")
		if err != nil {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/yaml; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(b)
	}
}
