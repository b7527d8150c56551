// Package i18n serves the English and Turkish UI catalogs and tracks the current language.
package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	goi18n "github.com/iota-uz/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var locales embed.FS

const DefaultLanguage = "en"

// Service looks up dotted message keys ("list.title") in the current language.
type Service struct {
	bundle     *goi18n.Bundle
	localizers map[string]*goi18n.Localizer

	mu   sync.RWMutex
	lang string

	listenersMu sync.Mutex
	listeners   map[uint64]func(lang string)
	nextToken   uint64
}

// NewService loads the embedded catalogs. An unsupported lang falls back to English.
func NewService(lang string) (*Service, error) {
	bundle := goi18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	files, err := locales.ReadDir("locales")
	if err != nil {
		return nil, fmt.Errorf("read locales: %w", err)
	}

	s := &Service{
		bundle:     bundle,
		localizers: make(map[string]*goi18n.Localizer),
		listeners:  make(map[uint64]func(string)),
	}
	for _, f := range files {
		data, err := locales.ReadFile("locales/" + f.Name())
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", f.Name(), err)
		}
		mf, err := bundle.ParseMessageFileBytes(data, f.Name())
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", f.Name(), err)
		}
		tag := mf.Tag.String()
		s.localizers[tag] = goi18n.NewLocalizer(bundle, tag)
	}

	s.lang = DefaultLanguage
	s.SetLanguage(lang)
	return s, nil
}

// Languages returns the supported language codes, sorted.
func (s *Service) Languages() []string {
	langs := make([]string, 0, len(s.localizers))
	for lang := range s.localizers {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs
}

func (s *Service) CurrentLanguage() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lang
}

// SetLanguage switches the current language and notifies subscribers. Unsupported languages
// are ignored and false is returned.
func (s *Service) SetLanguage(lang string) bool {
	if _, ok := s.localizers[lang]; !ok {
		return false
	}

	s.mu.Lock()
	changed := s.lang != lang
	s.lang = lang
	s.mu.Unlock()

	if changed {
		s.notify(lang)
	}
	return true
}

// Translate returns the message for key in the current language, or key itself when no
// catalog has it.
func (s *Service) Translate(key string) string {
	return s.TranslateIn(s.CurrentLanguage(), key, nil)
}

// TranslateWith fills template fields such as {{.Name}}.
func (s *Service) TranslateWith(key string, data map[string]interface{}) string {
	return s.TranslateIn(s.CurrentLanguage(), key, data)
}

func (s *Service) TranslateIn(lang, key string, data map[string]interface{}) string {
	localizer, ok := s.localizers[lang]
	if !ok {
		localizer = s.localizers[DefaultLanguage]
	}
	msg, err := localizer.Localize(&goi18n.LocalizeConfig{
		MessageID:    key,
		TemplateData: data,
	})
	if err != nil || msg == "" {
		return key
	}
	return msg
}

// Subscribe registers fn for language changes and returns its removal handle.
func (s *Service) Subscribe(fn func(lang string)) func() {
	s.listenersMu.Lock()
	s.nextToken++
	token := s.nextToken
	s.listeners[token] = fn
	s.listenersMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.listenersMu.Lock()
			delete(s.listeners, token)
			s.listenersMu.Unlock()
		})
	}
}

func (s *Service) notify(lang string) {
	s.listenersMu.Lock()
	active := make([]func(string), 0, len(s.listeners))
	for _, fn := range s.listeners {
		active = append(active, fn)
	}
	s.listenersMu.Unlock()

	for _, fn := range active {
		fn(lang)
	}
}
