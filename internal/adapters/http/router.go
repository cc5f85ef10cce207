package httpadapter

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/kirillkom/resume-analyzer/internal/config"
	"github.com/kirillkom/resume-analyzer/internal/core/domain"
	"github.com/kirillkom/resume-analyzer/internal/core/ports"
	"github.com/kirillkom/resume-analyzer/internal/observability/metrics"
)

// multipartOverhead leaves room for boundaries and form fields on top of
// the file size limit.
const multipartOverhead = 64 << 10

// ModelInfo is implemented by analyzers that know which scoring model they
// loaded.
type ModelInfo interface {
	ModelLoaded() bool
	ModelName() string
}

type Router struct {
	analyzer ports.ResumeAnalyzer
	ingestor ports.ResumeIngestor
	analyses ports.AnalysisReader
	metrics  *metrics.HTTPServerMetrics
	logger   *slog.Logger

	maxUploadBytes   int64
	rateLimitRPS     float64
	rateLimitBurst   int
	maxInFlight      int
	backpressureWait time.Duration
}

type RouterOption func(*Router)

func WithMetrics(m *metrics.HTTPServerMetrics) RouterOption {
	return func(rt *Router) {
		rt.metrics = m
	}
}

func WithLogger(logger *slog.Logger) RouterOption {
	return func(rt *Router) {
		if logger != nil {
			rt.logger = logger
		}
	}
}

func NewRouter(
	cfg config.Config,
	analyzer ports.ResumeAnalyzer,
	ingestor ports.ResumeIngestor,
	analyses ports.AnalysisReader,
	opts ...RouterOption,
) *Router {
	maxUpload := cfg.MaxUploadBytes()
	if maxUpload <= 0 {
		maxUpload = 10 << 20
	}
	rt := &Router{
		analyzer:         analyzer,
		ingestor:         ingestor,
		analyses:         analyses,
		logger:           slog.Default(),
		maxUploadBytes:   maxUpload,
		rateLimitRPS:     cfg.APIRateLimitRPS,
		rateLimitBurst:   cfg.APIRateLimitBurst,
		maxInFlight:      cfg.APIMaxInFlight,
		backpressureWait: time.Duration(cfg.APIBackpressureWaitMS) * time.Millisecond,
	}
	for _, opt := range opts {
		opt(rt)
	}
	return rt
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", rt.healthz)
	mux.HandleFunc("POST /v1/analyze", rt.analyzeResume)
	mux.HandleFunc("POST /v1/resumes", rt.uploadResume)
	mux.HandleFunc("GET /v1/resumes/{id}", rt.getAnalysisByID)
	mux.HandleFunc("GET /openapi.json", rt.openAPI)

	var rejections rejectionRecorder
	var handler http.Handler = mux
	if rt.metrics != nil {
		mux.Handle("GET /metrics", rt.metrics.Handler())
		rejections = rt.metrics
	}

	handler = backpressureMiddleware(handler, rt.maxInFlight, rt.backpressureWait, rejections)
	handler = rateLimitMiddleware(handler, rt.rateLimitRPS, rt.rateLimitBurst, rejections)
	if rt.metrics != nil {
		handler = rt.metrics.Middleware(handler)
	}
	handler = accessLogMiddleware(rt.logger, handler)
	return requestIDMiddleware(handler)
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	resp := map[string]any{"status": "ok", "model_loaded": false}
	if info, ok := rt.analyzer.(ModelInfo); ok {
		resp["model_loaded"] = info.ModelLoaded()
		if name := info.ModelName(); name != "" {
			resp["model_name"] = name
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (rt *Router) analyzeResume(w http.ResponseWriter, r *http.Request) {
	upload, data, err := rt.readUpload(w, r)
	if err != nil {
		rt.writeError(w, r, err)
		return
	}

	result, err := rt.analyzer.Analyze(r.Context(), domain.AnalyzeRequest{
		Document: domain.RawDocument{
			Filename:    upload.Filename,
			ContentType: upload.MimeType,
			Data:        data,
		},
		JobRole: upload.JobRole,
		UseLLM:  upload.UseLLM,
	})
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (rt *Router) uploadResume(w http.ResponseWriter, r *http.Request) {
	upload, data, err := rt.readUpload(w, r)
	if err != nil {
		rt.writeError(w, r, err)
		return
	}

	analysis, err := rt.ingestor.Upload(r.Context(), upload, bytes.NewReader(data))
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusAccepted, analysis)
}

func (rt *Router) getAnalysisByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		rt.writeError(w, r, domain.WrapError(domain.ErrInvalidInput, "get analysis", errors.New("analysis id is required")))
		return
	}

	analysis, err := rt.analyses.GetByID(r.Context(), id)
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, analysis)
}

func (rt *Router) openAPI(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(openAPIDocument)
}

// readUpload reads the multipart "file" field and the optional job_role and
// use_llm fields.
func (rt *Router) readUpload(w http.ResponseWriter, r *http.Request) (domain.UploadRequest, []byte, error) {
	const op = "read upload"
	r.Body = http.MaxBytesReader(w, r.Body, rt.maxUploadBytes+multipartOverhead)

	file, header, err := r.FormFile("file")
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return domain.UploadRequest{}, nil, err
		}
		return domain.UploadRequest{}, nil, domain.WrapError(domain.ErrInvalidInput, op, errors.New("multipart field 'file' is required"))
	}
	defer file.Close()

	if header.Size > rt.maxUploadBytes {
		return domain.UploadRequest{}, nil, &http.MaxBytesError{Limit: rt.maxUploadBytes}
	}
	data, err := io.ReadAll(io.LimitReader(file, rt.maxUploadBytes+1))
	if err != nil {
		return domain.UploadRequest{}, nil, fmt.Errorf("%s: %w", op, err)
	}
	if int64(len(data)) > rt.maxUploadBytes {
		return domain.UploadRequest{}, nil, &http.MaxBytesError{Limit: rt.maxUploadBytes}
	}
	if len(data) == 0 {
		return domain.UploadRequest{}, nil, domain.WrapError(domain.ErrEmptyDocument, op, fmt.Errorf("file %q is empty", header.Filename))
	}

	useLLM := false
	if raw := strings.TrimSpace(r.FormValue("use_llm")); raw != "" {
		useLLM, err = strconv.ParseBool(raw)
		if err != nil {
			return domain.UploadRequest{}, nil, domain.WrapError(domain.ErrInvalidInput, op, fmt.Errorf("use_llm must be a boolean, got %q", raw))
		}
	}

	return domain.UploadRequest{
		Filename: header.Filename,
		MimeType: header.Header.Get("Content-Type"),
		JobRole:  strings.TrimSpace(r.FormValue("job_role")),
		UseLLM:   useLLM,
	}, data, nil
}

func (rt *Router) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := mapErrorToHTTPStatus(err)
	message := err.Error()
	if status == http.StatusRequestEntityTooLarge {
		message = fmt.Sprintf("upload exceeds %d bytes", rt.maxUploadBytes)
	}
	if status >= http.StatusInternalServerError {
		rt.logger.Error("request_failed",
			"request_id", requestIDFromContext(r.Context()),
			"path", r.URL.Path,
			"error", err,
		)
	}
	writeJSON(w, status, map[string]string{
		"error":      message,
		"request_id": requestIDFromContext(r.Context()),
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
