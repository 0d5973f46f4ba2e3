package server

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/prepdeck/prepctl/internal/speech"
)

func (s *Server) handleTranscribe(w http.ResponseWriter, r *http.Request) {
	if s.opts.Transcriber == nil {
		writeError(w, http.StatusServiceUnavailable, "transcription is not configured", "NOT_CONFIGURED")
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxUpload)
	if err := r.ParseMultipartForm(maxUpload); err != nil {
		writeError(w, http.StatusBadRequest, "expected multipart form with an audio file", "BAD_REQUEST")
		return
	}
	file, hdr, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file is required", "BAD_REQUEST")
		return
	}
	defer file.Close()

	text, err := s.opts.Transcriber.Transcribe(r.Context(), file, hdr.Filename)
	if err != nil {
		s.log.Error("transcribe failed", zap.String("request_id", RequestID(r.Context())), zap.Error(err))
		writeError(w, http.StatusBadGateway, "transcription failed", "UPSTREAM_ERROR")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"text": text})
}

type speechRequest struct {
	Text  string `json:"text"`
	Voice string `json:"voice"`
}

func (s *Server) handleSpeech(w http.ResponseWriter, r *http.Request) {
	if s.opts.Synthesizer == nil {
		writeError(w, http.StatusServiceUnavailable, "speech synthesis is not configured", "NOT_CONFIGURED")
		return
	}
	var req speechRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<16)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body", "BAD_REQUEST")
		return
	}
	if req.Voice != "" && !speech.ValidVoice(req.Voice) {
		writeError(w, http.StatusBadRequest, "unknown voice", "BAD_REQUEST")
		return
	}

	audio, ct, err := s.opts.Synthesizer.Synthesize(r.Context(), req.Text, req.Voice)
	if errors.Is(err, speech.ErrEmptyText) {
		writeError(w, http.StatusBadRequest, "text is required", "BAD_REQUEST")
		return
	}
	if err != nil {
		s.log.Error("synthesize failed", zap.String("request_id", RequestID(r.Context())), zap.Error(err))
		writeError(w, http.StatusBadGateway, "speech synthesis failed", "UPSTREAM_ERROR")
		return
	}
	defer audio.Close()

	w.Header().Set("Content-Type", ct)
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, audio); err != nil {
		s.log.Warn("audio stream interrupted", zap.String("request_id", RequestID(r.Context())), zap.Error(err))
	}
}

type verifyPaymentRequest struct {
	OrderID   string `json:"orderId"`
	PaymentID string `json:"paymentId"`
	Signature string `json:"signature"`
}

func (s *Server) handleVerifyPayment(w http.ResponseWriter, r *http.Request) {
	if s.opts.PaymentSecret == "" {
		writeError(w, http.StatusServiceUnavailable, "payments are not configured", "NOT_CONFIGURED")
		return
	}
	var req verifyPaymentRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<14)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body", "BAD_REQUEST")
		return
	}
	if req.OrderID == "" || req.PaymentID == "" || req.Signature == "" {
		writeError(w, http.StatusBadRequest, "orderId, paymentId and signature are required", "BAD_REQUEST")
		return
	}
	valid := VerifySignature(s.opts.PaymentSecret, req.OrderID, req.PaymentID, req.Signature)
	if !valid {
		s.log.Warn("payment signature mismatch",
			zap.String("request_id", RequestID(r.Context())),
			zap.String("order_id", req.OrderID))
	}
	writeJSON(w, http.StatusOK, map[string]bool{"valid": valid})
}

// Sign returns the hex HMAC-SHA256 of "orderID|paymentID" under secret, the
// signature format checkout callbacks carry.
func Sign(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature checks a checkout signature in constant time.
func VerifySignature(secret, orderID, paymentID, signature string) bool {
	want := Sign(secret, orderID, paymentID)
	return hmac.Equal([]byte(want), []byte(signature))
}
