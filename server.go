package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"autodeck/common"
	"autodeck/pipelines/deck"
)

type JobStatus struct {
	ID          string     `json:"id"`
	Status      string     `json:"status"`
	OutputPath  string     `json:"output_path,omitempty"`
	PreviewPath string     `json:"preview_path,omitempty"`
	SlidesBuilt int        `json:"slides_built,omitempty"`
	Error       string     `json:"error,omitempty"`
	StartedAt   time.Time  `json:"started_at"`
	DoneAt      *time.Time `json:"done_at,omitempty"`
}

type WorkerPool struct {
	jobs       chan *Job
	results    map[string]*JobStatus
	mu         sync.RWMutex
	wg         sync.WaitGroup
	numWorkers int
}

type Job struct {
	ID      string
	Request common.PresentationRequest
	Config  common.PipelineConfig
}

func NewWorkerPool(numWorkers int, bufferSize int) *WorkerPool {
	pool := &WorkerPool{
		jobs:       make(chan *Job, bufferSize),
		results:    make(map[string]*JobStatus),
		numWorkers: numWorkers,
	}
	pool.Start()
	return pool
}

func (p *WorkerPool) Start() {
	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
	log.Printf("Started %d workers", p.numWorkers)
}

func (p *WorkerPool) worker(id int) {
	defer p.wg.Done()
	for job := range p.jobs {
		log.Printf("[Worker %d] Processing job %s (%d input files)", id, job.ID, len(job.Request.Inputs))
		p.processJob(job)
	}
	log.Printf("[Worker %d] Shutting down", id)
}

func (p *WorkerPool) processJob(job *Job) {
	p.updateStatus(job.ID, "processing", "", nil)

	result, err := deck.Run(job.Request, job.Config)
	if err != nil {
		p.updateStatus(job.ID, "failed", err.Error(), nil)
		log.Printf("[Job %s] Failed: %v", job.ID, err)
	} else {
		p.updateStatus(job.ID, "completed", "", &result)
		log.Printf("[Job %s] Completed successfully", job.ID)
	}
}

func (p *WorkerPool) updateStatus(jobID, status, errMsg string, result *common.AssemblyResult) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if job, exists := p.results[jobID]; exists {
		job.Status = status
		job.Error = errMsg
		if result != nil {
			job.OutputPath = result.OutputPath
			job.PreviewPath = result.PreviewPath
			job.SlidesBuilt = result.SlidesBuilt
		}
		if status == "completed" || status == "failed" {
			now := time.Now()
			job.DoneAt = &now
		}
	}
}

func (p *WorkerPool) Submit(job *Job) {
	p.mu.Lock()
	p.results[job.ID] = &JobStatus{
		ID:        job.ID,
		Status:    "queued",
		StartedAt: time.Now(),
	}
	p.mu.Unlock()

	p.jobs <- job
}

func (p *WorkerPool) GetStatus(jobID string) (*JobStatus, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	status, ok := p.results[jobID]
	return status, ok
}

func (p *WorkerPool) Shutdown() {
	close(p.jobs)
	p.wg.Wait()
}

type Server struct {
	pool      *WorkerPool
	config    common.PipelineConfig
	uploadDir string
	outputDir string
}

func NewServer(numWorkers int, config common.PipelineConfig) *Server {
	uploadDir := "./uploads"
	os.MkdirAll(uploadDir, 0755)

	return &Server{
		pool:      NewWorkerPool(numWorkers, 100),
		config:    config,
		uploadDir: uploadDir,
		outputDir: "./output",
	}
}

// handleUpload accepts one or more source files in the "files" multipart
// field plus optional form fields: instructions, duration, style (repeated
// key=value), llm, image_backend.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := r.ParseMultipartForm(100 << 20); err != nil {
		http.Error(w, "Failed to parse upload: "+err.Error(), http.StatusBadRequest)
		return
	}
	if r.MultipartForm == nil || len(r.MultipartForm.File["files"]) == 0 {
		http.Error(w, "No files uploaded; use the 'files' form field", http.StatusBadRequest)
		return
	}

	jobID := uuid.NewString()
	jobDir := filepath.Join(s.uploadDir, jobID)
	if err := os.MkdirAll(jobDir, 0755); err != nil {
		http.Error(w, "Failed to create upload dir: "+err.Error(), http.StatusInternalServerError)
		return
	}

	var inputs []string
	for _, header := range r.MultipartForm.File["files"] {
		file, err := header.Open()
		if err != nil {
			http.Error(w, "Failed to read upload: "+err.Error(), http.StatusBadRequest)
			return
		}
		dstPath := filepath.Join(jobDir, filepath.Base(header.Filename))
		dst, err := os.Create(dstPath)
		if err != nil {
			file.Close()
			http.Error(w, "Failed to save file: "+err.Error(), http.StatusInternalServerError)
			return
		}
		_, err = io.Copy(dst, file)
		dst.Close()
		file.Close()
		if err != nil {
			http.Error(w, "Failed to save file: "+err.Error(), http.StatusInternalServerError)
			return
		}
		inputs = append(inputs, dstPath)
	}

	duration := 0
	if v := r.FormValue("duration"); v != "" {
		d, err := strconv.Atoi(v)
		if err != nil || d < 0 {
			http.Error(w, "duration must be a non-negative integer", http.StatusBadRequest)
			return
		}
		duration = d
	}

	styles := map[string]string{}
	for _, pair := range r.MultipartForm.Value["style"] {
		key, val, ok := strings.Cut(pair, "=")
		if !ok {
			http.Error(w, "style must be key=value, got "+pair, http.StatusBadRequest)
			return
		}
		styles[strings.TrimSpace(key)] = strings.TrimSpace(val)
	}

	job := &Job{
		ID: jobID,
		Request: common.PresentationRequest{
			Inputs:          inputs,
			Instructions:    r.FormValue("instructions"),
			DurationMinutes: duration,
			StylePrefs:      styles,
			OutputPath:      filepath.Join(s.outputDir, jobID, "presentation.pptx"),
			UseLLM:          r.FormValue("llm") == "true",
			LLMProvider:     r.FormValue("llm_provider"),
			ImageBackend:    r.FormValue("image_backend"),
		},
		Config: s.config,
	}

	s.pool.Submit(job)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"job_id":  jobID,
		"status":  "queued",
		"message": fmt.Sprintf("%d file(s) uploaded and queued for processing", len(inputs)),
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	jobID := r.URL.Query().Get("id")
	if jobID == "" {
		http.Error(w, "Missing job id", http.StatusBadRequest)
		return
	}

	status, ok := s.pool.GetStatus(jobID)
	if !ok {
		http.Error(w, "Job not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(status)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":      "ok",
		"workers":     s.pool.numWorkers,
		"goroutines":  runtime.NumGoroutine(),
		"queued_jobs": len(s.pool.jobs),
	})
}

func (s *Server) catchAllHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodPost {
		s.handleUpload(w, r)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"message": "Presentation Generation Server",
		"usage":   "POST any route with 'files' form field. Optional fields: instructions, duration, style=key=value",
		"status":  "GET /status?id=<job_id>",
		"health":  "GET /health",
	})
}

func (s *Server) Shutdown(ctx context.Context) {
	s.pool.Shutdown()
}

func StartServer(addr string, numWorkers int, config common.PipelineConfig) {
	server := NewServer(numWorkers, config)

	mux := http.NewServeMux()
	mux.HandleFunc("/health", server.handleHealth)
	mux.HandleFunc("/status", server.handleStatus)
	mux.HandleFunc("/", server.catchAllHandler)

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  5 * time.Minute,
		WriteTimeout: 5 * time.Minute,
	}

	log.Printf("Server starting on %s with %d workers", addr, numWorkers)
	log.Printf("POST to any route with 'files' form field to generate a deck")

	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Server failed: %v", err)
	}
}
