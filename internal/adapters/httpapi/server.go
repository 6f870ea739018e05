package httpapi

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sentryline/fraud-triage/internal/application"
	"github.com/sentryline/fraud-triage/internal/domain"
)

// Server exposes the triage pipeline over a JSON HTTP surface
type Server struct {
	service *application.TriageService
	logger  *slog.Logger
}

func New(service *application.TriageService, logger *slog.Logger) *Server {
	return &Server{service: service, logger: logger}
}

// Routes mounts all check endpoints on a chi router
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1/check", func(r chi.Router) {
		r.Post("/url", s.handleCheckURL)
		r.Post("/sms", s.handleCheckSMS)
		r.Post("/phone", s.handleCheckPhone)
		r.Post("/sender", s.handleCheckSender)
		r.Post("/social", s.handleCheckSocial)
		r.Post("/transaction", s.handleCheckTransaction)
		r.Post("/media", s.handleCheckMedia)
	})
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type checkURLRequest struct {
	URL string `json:"url"`
}

func (s *Server) handleCheckURL(w http.ResponseWriter, r *http.Request) {
	var req checkURLRequest
	if !s.decode(w, r, &req) {
		return
	}
	verdict, err := s.service.CheckURL(r.Context(), req.URL)
	s.respond(w, verdict, err)
}

type checkSMSRequest struct {
	Sender string `json:"sender"`
	Body   string `json:"body"`
}

func (s *Server) handleCheckSMS(w http.ResponseWriter, r *http.Request) {
	var req checkSMSRequest
	if !s.decode(w, r, &req) {
		return
	}
	verdict, err := s.service.CheckSMS(r.Context(), req.Sender, req.Body)
	s.respond(w, verdict, err)
}

type checkPhoneRequest struct {
	Number string `json:"number"`
	Region string `json:"region"`
}

func (s *Server) handleCheckPhone(w http.ResponseWriter, r *http.Request) {
	var req checkPhoneRequest
	if !s.decode(w, r, &req) {
		return
	}
	verdict, err := s.service.CheckPhone(r.Context(), req.Number, req.Region)
	s.respond(w, verdict, err)
}

type checkSenderRequest struct {
	SenderID string `json:"sender_id"`
}

func (s *Server) handleCheckSender(w http.ResponseWriter, r *http.Request) {
	var req checkSenderRequest
	if !s.decode(w, r, &req) {
		return
	}
	verdict, err := s.service.CheckSender(r.Context(), req.SenderID)
	s.respond(w, verdict, err)
}

func (s *Server) handleCheckSocial(w http.ResponseWriter, r *http.Request) {
	var req domain.SocialSignals
	if !s.decode(w, r, &req) {
		return
	}
	verdict, err := s.service.CheckSocial(r.Context(), req)
	s.respond(w, verdict, err)
}

type checkTransactionRequest struct {
	ID            string                  `json:"id"`
	Amount        decimal.Decimal         `json:"amount"`
	Currency      string                  `json:"currency"`
	MerchantID    string                  `json:"merchant_id"`
	MerchantTrust *int                    `json:"merchant_trust,omitempty"`
	Telemetry     *domain.DeviceTelemetry `json:"telemetry,omitempty"`
}

func (s *Server) handleCheckTransaction(w http.ResponseWriter, r *http.Request) {
	var req checkTransactionRequest
	if !s.decode(w, r, &req) {
		return
	}
	txID, err := uuid.Parse(req.ID)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "id must be a UUID")
		return
	}
	verdict, err := s.service.CheckTransaction(r.Context(), domain.Transaction{
		ID:            txID,
		Amount:        req.Amount,
		Currency:      req.Currency,
		MerchantID:    req.MerchantID,
		MerchantTrust: req.MerchantTrust,
		Telemetry:     req.Telemetry,
	})
	s.respond(w, verdict, err)
}

type checkMediaRequest struct {
	Payload  string `json:"payload"` // base64
	Encoding string `json:"encoding"`
	Type     string `json:"type"`
}

func (s *Server) handleCheckMedia(w http.ResponseWriter, r *http.Request) {
	var req checkMediaRequest
	if !s.decode(w, r, &req) {
		return
	}
	payload, err := base64.StdEncoding.DecodeString(req.Payload)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "payload must be base64")
		return
	}
	verdict, err := s.service.AnalyzeMedia(r.Context(), payload, req.Encoding, req.Type)
	s.respond(w, verdict, err)
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		s.writeError(w, http.StatusBadRequest, "malformed JSON body")
		return false
	}
	return true
}

func (s *Server) respond(w http.ResponseWriter, verdict *domain.Verdict, err error) {
	if err != nil {
		if errors.Is(err, application.ErrInvalidInput) {
			s.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.logger.Error("check failed", "error", err)
		s.writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	s.writeJSON(w, http.StatusOK, verdict)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}
