package server

import (
	"net/http"
	"strings"

	"github.com/twilio/twilio-go/client"
	"github.com/twilio/twilio-go/twiml"
	"go.uber.org/zap"

	"github.com/xhad/formbot/pkg/dispatch"
)

const signatureHeader = "X-Twilio-Signature"

func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form body", http.StatusBadRequest)
		return
	}

	if s.config.ValidateSignature && !s.validSignature(r) {
		zap.L().Warn("rejected webhook with invalid signature",
			zap.String("remote", r.RemoteAddr),
			zap.String("request_id", requestID(r)))
		http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
		return
	}

	event := dispatch.Event{
		Body:             r.PostForm.Get("Body"),
		MediaURL:         r.PostForm.Get("MediaUrl0"),
		MediaContentType: r.PostForm.Get("MediaContentType0"),
	}

	replies, err := s.handler.Handle(r.Context(), event)
	if err != nil {
		zap.L().Error("failed to handle message",
			zap.Error(err),
			zap.String("request_id", requestID(r)))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	body, err := renderTwiML(replies)
	if err != nil {
		zap.L().Error("failed to render reply", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/xml")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(body))
}

// renderTwiML builds a messaging response with one <Message> per reply.
func renderTwiML(replies []string) (string, error) {
	elements := make([]twiml.Element, 0, len(replies))
	for _, reply := range replies {
		elements = append(elements, &twiml.MessagingMessage{Body: reply})
	}
	return twiml.Messages(elements)
}

func (s *Server) validSignature(r *http.Request) bool {
	signature := r.Header.Get(signatureHeader)
	if signature == "" {
		return false
	}

	params := make(map[string]string, len(r.PostForm))
	for key := range r.PostForm {
		params[key] = r.PostForm.Get(key)
	}

	url := strings.TrimRight(s.config.PublicURL, "/") + r.URL.RequestURI()
	validator := client.NewRequestValidator(s.config.AuthToken)
	return validator.Validate(url, params, signature)
}
