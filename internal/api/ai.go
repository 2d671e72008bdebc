package api

import (
	"net/http"

	"quant_trader/internal/ai"
	"quant_trader/internal/models"

	"github.com/gorilla/mux"
)

type analysisResponse struct {
	Status   string                 `json:"status,omitempty"`
	Prompt   string                 `json:"prompt,omitempty"`
	Analysis *models.AnalysisResult `json:"analysis"`
	Mode     models.TradingMode     `json:"mode"`
	Symbol   string                 `json:"symbol"`
}

func (s *Server) analyze(w http.ResponseWriter, r *http.Request) (string, *models.QuantitativePrompt, *models.AnalysisResult, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var p models.QuantitativePrompt
	if err := decodeJSON(r, &p); err != nil {
		writeServiceError(w, r, err)
		return "", nil, nil, false
	}
	if err := ai.ValidatePrompt(p); err != nil {
		writeServiceError(w, r, err)
		return "", nil, nil, false
	}
	p.Mode, _ = models.ParseMode(string(p.Mode))

	text, res, err := s.analyzer.AnalyzeWithPrompt(r.Context(), p)
	if err != nil {
		writeServiceError(w, r, err)
		return "", nil, nil, false
	}
	return text, &p, res, true
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	_, p, res, ok := s.analyze(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, analysisResponse{
		Status:   "success",
		Analysis: res,
		Mode:     p.Mode,
		Symbol:   p.Symbol,
	})
}

func (s *Server) handleGeneratePrompt(w http.ResponseWriter, r *http.Request) {
	text, p, res, ok := s.analyze(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, analysisResponse{
		Prompt:   text,
		Analysis: res,
		Mode:     p.Mode,
		Symbol:   p.Symbol,
	})
}

func (s *Server) handleAIHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handlePromptTemplate(w http.ResponseWriter, r *http.Request) {
	mode, _ := models.ParseMode(mux.Vars(r)["mode"])
	tmpl, err := ai.Template(mode)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"template": tmpl})
}
