// Package webhook реализует HTTP-обработчик платёжных событий провайдера.
//
// Handler проверяет подпись X-Api-Signature, разбирает payload
// и передаёт событие с внешней ссылкой заказа в бизнес-логику.
package webhook

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/magabrotheeeer/gym-storefront/internal/lib/sl"
)

// Service описывает интерфейс обработки платёжного события.
type Service interface {
	ProcessPaymentEvent(ctx context.Context, event, reference string) error
}

// Handler управляет HTTP-запросами webhook платёжного провайдера.
type Handler struct {
	log           *slog.Logger
	service       Service
	webhookSecret string // Секрет для проверки подписи
}

// New создает новый Handler с переданными логгером, сервисом и секретом.
func New(log *slog.Logger, service Service, secret string) *Handler {
	return &Handler{
		log:           log,
		service:       service,
		webhookSecret: secret,
	}
}

// Payload тело платёжного события провайдера.
type Payload struct {
	Event  string `json:"event"`
	Object struct {
		ID                string `json:"id"`     // payment ID
		Status            string `json:"status"` // статус платежа
		ExternalReference string `json:"external_reference"`
		Amount            struct {
			Value    string `json:"value"`
			Currency string `json:"currency"`
		} `json:"amount"`
		Metadata map[string]string `json:"metadata"`
	} `json:"object"`
}

// Проверка подписи webhook (X-Api-Signature)
func (h *Handler) verifySignature(secret string, body []byte, signature string) bool {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expectedSig := base64.StdEncoding.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expectedSig), []byte(signature))
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.order.webhook"
	log := h.log.With(slog.String("op", op))

	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.Error("failed to read webhook body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	signature := r.Header.Get("X-Api-Signature")
	if signature == "" || !h.verifySignature(h.webhookSecret, body, signature) {
		log.Error("invalid or missing webhook signature")
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	var payload Payload
	if err := json.Unmarshal(body, &payload); err != nil {
		log.Error("failed to unmarshal webhook payload", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	const (
		PaymentSucceeded = "payment.succeeded"
		PaymentCanceled  = "payment.canceled"
	)

	switch strings.ToLower(payload.Event) {
	case PaymentSucceeded, PaymentCanceled:
		if payload.Object.ExternalReference == "" {
			log.Error("webhook payload without external reference")
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if err := h.service.ProcessPaymentEvent(r.Context(), strings.ToLower(payload.Event), payload.Object.ExternalReference); err != nil {
			log.Error("failed to process webhook event", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
	default:
		log.Info("ignored webhook event", slog.String("event", payload.Event))
	}

	log.Info("webhook processed successfully",
		slog.String("event", payload.Event),
		slog.String("reference", payload.Object.ExternalReference))
	w.WriteHeader(http.StatusOK)
}
