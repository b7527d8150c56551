package http

import (
	"net/http"

	"github.com/cmlabs-hris/employee-directory/internal/handler/http/response"
	"github.com/cmlabs-hris/employee-directory/internal/pkg/i18n"
)

type I18nHandler interface {
	GetLanguage(w http.ResponseWriter, r *http.Request)
	SetLanguage(w http.ResponseWriter, r *http.Request)
	Translate(w http.ResponseWriter, r *http.Request)
}

type LanguageResponse struct {
	Language  string   `json:"language"`
	Available []string `json:"available"`
}

type SetLanguageRequest struct {
	Language string `json:"language"`
}

type TranslationResponse struct {
	Key      string `json:"key"`
	Language string `json:"language"`
	Text     string `json:"text"`
}

type i18nHandlerImpl struct {
	i18n *i18n.Service
}

func NewI18nHandler(i18nService *i18n.Service) I18nHandler {
	return &i18nHandlerImpl{i18n: i18nService}
}

func (h *i18nHandlerImpl) languageResponse() LanguageResponse {
	return LanguageResponse{
		Language:  h.i18n.CurrentLanguage(),
		Available: h.i18n.Languages(),
	}
}

// GetLanguage implements I18nHandler
func (h *i18nHandlerImpl) GetLanguage(w http.ResponseWriter, r *http.Request) {
	response.Success(w, h.languageResponse())
}

// SetLanguage implements I18nHandler. Open list view streams are told about the change.
func (h *i18nHandlerImpl) SetLanguage(w http.ResponseWriter, r *http.Request) {
	var req SetLanguageRequest
	if !decode(w, r, &req) {
		return
	}

	if !h.i18n.SetLanguage(req.Language) {
		response.BadRequest(w, "Unsupported language", map[string]string{"language": req.Language})
		return
	}
	response.Success(w, h.languageResponse())
}

// Translate implements I18nHandler
func (h *i18nHandlerImpl) Translate(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	if key == "" {
		response.BadRequest(w, "Query parameter 'key' is required", nil)
		return
	}

	lang := r.URL.Query().Get("lang")
	if lang == "" {
		lang = h.i18n.CurrentLanguage()
	}

	response.Success(w, TranslationResponse{
		Key:      key,
		Language: lang,
		Text:     h.i18n.TranslateIn(lang, key, nil),
	})
}
