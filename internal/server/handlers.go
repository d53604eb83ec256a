package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/masmgr/branchdiff-go/internal/annotation"
	"github.com/masmgr/branchdiff-go/internal/git"
	"github.com/masmgr/branchdiff-go/internal/logging"
)

func (s *Server) registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/favicon.ico", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("/ignored-commits", s.handleIgnoredCommits)
	mux.HandleFunc("/ignore-commit", s.handleIgnoreCommit)
	mux.HandleFunc("/commit-remarks", s.handleCommitRemarks)
	mux.HandleFunc("/git/show", s.handleGitShow)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		writeError(w, http.StatusNotFound, "not found: "+r.URL.Path)
		return
	}
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}

	page := s.currentPage()
	if page == nil {
		writeError(w, http.StatusNotFound, "no comparison has been generated yet")
		return
	}
	html, err := page()
	if err != nil {
		logging.FromContext(r.Context()).Error().Err(err).Msg("render timeline")
		writeError(w, http.StatusInternalServerError, "failed to render timeline")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, html)
}

type ignoredCommitsBody struct {
	IgnoredCommits []annotation.IgnoredCommit `json:"ignoredCommits"`
}

type commitRemarksBody struct {
	CommitRemarks []annotation.Remark `json:"commitRemarks"`
}

type successBody struct {
	Success bool `json:"success"`
}

type savedRemarksBody struct {
	Success       bool                `json:"success"`
	Count         int                 `json:"count"`
	CommitRemarks []annotation.Remark `json:"commitRemarks"`
}

type commitDetailBody struct {
	Success bool              `json:"success"`
	Data    *git.CommitDetail `json:"data"`
}

func (s *Server) handleIgnoredCommits(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}

	list, err := s.store.LoadIgnored()
	if err != nil {
		logging.FromContext(r.Context()).Error().Err(err).Msg("load ignored commits")
		writeError(w, http.StatusInternalServerError, "failed to read ignored commits")
		return
	}
	writeJSON(w, http.StatusOK, ignoredCommitsBody{IgnoredCommits: list})
}

// handleIgnoreCommit replaces the whole ignore list with the posted one.
func (s *Server) handleIgnoreCommit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}

	body, err := s.readBody(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	list, err := annotation.DecodeIgnored(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid ignoredCommits: "+err.Error())
		return
	}
	if err := s.store.SaveIgnored(list); err != nil {
		logging.FromContext(r.Context()).Error().Err(err).Msg("save ignored commits")
		writeError(w, http.StatusInternalServerError, "failed to save ignored commits")
		return
	}

	logging.FromContext(r.Context()).Debug().Int("count", len(list)).Msg("ignored commits saved")
	writeJSON(w, http.StatusOK, successBody{Success: true})
}

func (s *Server) handleCommitRemarks(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		list, err := s.store.LoadRemarks()
		if err != nil {
			logging.FromContext(r.Context()).Error().Err(err).Msg("load remarks")
			writeError(w, http.StatusInternalServerError, "failed to read commit remarks")
			return
		}
		writeJSON(w, http.StatusOK, commitRemarksBody{CommitRemarks: list})

	case http.MethodPost:
		body, err := s.readBody(w, r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		var payload struct {
			CommitRemarks json.RawMessage `json:"commitRemarks"`
		}
		if err := json.Unmarshal(body, &payload); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
			return
		}
		list, err := annotation.DecodeRemarks(payload.CommitRemarks, time.Now())
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid commitRemarks: "+err.Error())
			return
		}
		saved, err := s.store.SaveRemarks(list)
		if err != nil {
			logging.FromContext(r.Context()).Error().Err(err).Msg("save remarks")
			writeError(w, http.StatusInternalServerError, "failed to save commit remarks")
			return
		}
		writeJSON(w, http.StatusOK, savedRemarksBody{Success: true, Count: len(saved), CommitRemarks: saved})

	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPost)
	}
}

func (s *Server) handleGitShow(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}

	hash := strings.TrimSpace(r.URL.Query().Get("hash"))
	if hash == "" {
		writeError(w, http.StatusBadRequest, "missing hash parameter")
		return
	}
	if err := git.ValidateHash(hash); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	log := logging.FromContext(r.Context())
	if cached, ok := s.diffs.Get(hash); ok {
		log.Debug().Str("hash", hash).Msg("diff cache hit")
		writeJSON(w, http.StatusOK, commitDetailBody{Success: true, Data: cached.(*git.CommitDetail)})
		return
	}

	detail, err := s.show(r.Context(), s.config.RepoPath, hash)
	switch {
	case errors.Is(err, git.ErrInvalidHash):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, git.ErrCommitNotFound):
		writeError(w, http.StatusNotFound, err.Error())
		return
	case err != nil:
		log.Error().Err(err).Str("hash", hash).Msg("git show failed")
		writeError(w, http.StatusInternalServerError, "failed to load commit "+hash)
		return
	}

	s.diffs.SetDefault(hash, detail)
	writeJSON(w, http.StatusOK, commitDetailBody{Success: true, Data: detail})
}

func (s *Server) readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.config.MaxBodyBytes))
	if err != nil {
		return nil, errors.New("failed to read request body: " + err.Error())
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		return nil, errors.New("request body is empty")
	}
	return body, nil
}
