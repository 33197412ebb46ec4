package server

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/AbhiramValmeekam/adam-project/internal/avatar"
	"github.com/AbhiramValmeekam/adam-project/internal/cache"
	"github.com/AbhiramValmeekam/adam-project/internal/observe"
	"github.com/AbhiramValmeekam/adam-project/pkg/provider/stt"
	"github.com/AbhiramValmeekam/adam-project/pkg/types"
)

const (
	msgInvalidBody   = "Invalid request body"
	msgAvatarFailed  = "Failed to generate avatar response"
	msgSTTDisabled   = "Speech recognition is not configured"
	msgImagesOff     = "Image search is not configured"
	defaultAudioMIME = "audio/webm"
)

// builtinVoices is served when no TTS catalogue is available.
var builtinVoices = []types.VoiceProfile{
	{ID: "default", Name: "Default Voice"},
	{ID: "male", Name: "Male Voice"},
	{ID: "female", Name: "Female Voice"},
}

type ttsRequest struct {
	Message  string `json:"message"`
	Language string `json:"language"`
}

type stsRequest struct {
	Audio    string `json:"audio"`
	MimeType string `json:"mimeType"`
	Language string `json:"language"`
}

type imagesRequest struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("Avatar Backend is running"))
}

func (s *Server) handleVoices(w http.ResponseWriter, r *http.Request) {
	if s.voices != nil {
		voices, err := s.voices.ListVoices(r.Context())
		if err == nil && len(voices) > 0 {
			writeJSON(w, http.StatusOK, voices)
			return
		}
		observe.Logger(r.Context()).Warn("voice catalogue unavailable, serving built-in list", "err", err)
	}
	writeJSON(w, http.StatusOK, builtinVoices)
}

func (s *Server) handleTTS(w http.ResponseWriter, r *http.Request) {
	var req ttsRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}
	s.serveReply(w, r, req.Message, s.language(req.Language))
}

func (s *Server) handleSTS(w http.ResponseWriter, r *http.Request) {
	if s.stt == nil {
		writeError(w, http.StatusNotImplemented, msgSTTDisabled)
		return
	}
	var req stsRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}
	audio, err := base64.StdEncoding.DecodeString(req.Audio)
	if err != nil || len(audio) == 0 {
		writeError(w, http.StatusBadRequest, "Audio must be non-empty base64")
		return
	}
	mime := req.MimeType
	if mime == "" {
		mime = defaultAudioMIME
	}
	lang := s.language(req.Language)

	text, err := s.stt.Transcribe(r.Context(), audio, stt.Config{MimeType: mime, Language: lang.Code()})
	if err != nil {
		observe.Logger(r.Context()).Error("transcription failed", "err", err)
		writeError(w, http.StatusInternalServerError, msgAvatarFailed)
		return
	}
	observe.Logger(r.Context()).Debug("audio transcribed", "chars", len(text))
	s.serveReply(w, r, text, lang)
}

func (s *Server) serveReply(w http.ResponseWriter, r *http.Request, question string, lang avatar.Language) {
	resp, err := s.reply(r.Context(), question, lang)
	if err != nil {
		observe.Logger(r.Context()).Error("avatar reply failed", "err", err)
		writeError(w, http.StatusInternalServerError, msgAvatarFailed)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// reply returns the voiced reply for question, from cache when possible.
// Only replies whose outcome is cacheable are stored.
func (s *Server) reply(ctx context.Context, question string, lang avatar.Language) (*avatar.Response, error) {
	log := observe.Logger(ctx)
	useCache := s.cache != nil && strings.TrimSpace(question) != ""
	key := cache.Key(question, string(lang))

	if useCache {
		b, err := s.cache.Get(ctx, key)
		switch {
		case err == nil:
			var cached avatar.Response
			if jerr := json.Unmarshal(b, &cached); jerr == nil {
				s.metrics.RecordCacheLookup(ctx, true)
				log.Debug("serving cached reply", "key", key)
				return &cached, nil
			}
			log.Warn("dropping undecodable cache entry", "key", key)
		case !errors.Is(err, cache.ErrMiss):
			log.Warn("cache lookup failed", "err", err)
		}
		s.metrics.RecordCacheLookup(ctx, false)
	}

	resp, err := s.responder.Respond(ctx, question, lang)
	if err != nil {
		return nil, err
	}
	if s.speech != nil {
		if err := s.speech.Voice(ctx, resp.Messages, s.voice, lang.Code()); err != nil {
			return nil, err
		}
	}

	if useCache && resp.Outcome.Cacheable() {
		b, err := json.Marshal(resp)
		if err == nil {
			err = s.cache.Set(ctx, key, b)
		}
		if err != nil {
			log.Warn("cache store failed", "err", err)
		}
	}
	return resp, nil
}

func (s *Server) handleImages(w http.ResponseWriter, r *http.Request) {
	if s.images == nil {
		writeError(w, http.StatusNotImplemented, msgImagesOff)
		return
	}
	var req imagesRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}
	// An empty question still yields a full placeholder set.
	writeJSON(w, http.StatusOK, s.images.Run(r.Context(), req.Question, req.Answer))
}
