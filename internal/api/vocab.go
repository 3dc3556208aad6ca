package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/oneiros-project/oneiros/internal/apperr"
	"github.com/oneiros-project/oneiros/internal/brain"
	"github.com/oneiros-project/oneiros/internal/model"
)

// vocabView is the wire shape shared by all five vocabulary resources;
// each kind's typed Name wrapper collapses to a plain string on the
// wire, so one view serves persona/texture/level/sensation/nature
// alike.
type vocabView struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Prompt      string `json:"prompt"`
}

// vocabResource binds the generic list/get/set/delete handlers to one
// of the five vocabulary tables.
type vocabResource struct {
	path         string
	kind         string
	setEvent     string
	removedEvent string
	list         func(*brain.Store) ([]vocabView, error)
	get          func(*brain.Store, string) (vocabView, error)
	exists       func(*brain.Store, string) (bool, error)
}

func registerVocabRoutes(r chi.Router, s *Server) {
	for _, res := range vocabResources() {
		res := res
		r.Get("/"+res.path, s.handleVocabList(res))
		r.Get("/"+res.path+"/{key}", s.handleVocabGet(res))
		r.Put("/"+res.path, s.handleVocabSet(res))
		r.Delete("/"+res.path+"/{key}", s.handleVocabDelete(res))
	}
}

func vocabResources() []vocabResource {
	return []vocabResource{
		{
			path: "personas", kind: "persona",
			setEvent: model.EventPersonaSet, removedEvent: model.EventPersonaRemoved,
			list: func(b *brain.Store) ([]vocabView, error) {
				rows, err := b.ListPersonas()
				return toVocabViews(rows, func(p model.Persona) vocabView {
					return vocabView{Name: p.Name.String(), Description: p.Description, Prompt: p.Prompt}
				}), err
			},
			get: func(b *brain.Store, name string) (vocabView, error) {
				p, err := b.GetPersona(model.PersonaName(name))
				return vocabView{Name: p.Name.String(), Description: p.Description, Prompt: p.Prompt}, err
			},
			exists: func(b *brain.Store, name string) (bool, error) { return b.VocabExists("personas", name) },
		},
		{
			path: "textures", kind: "texture",
			setEvent: model.EventTextureSet, removedEvent: model.EventTextureRemoved,
			list: func(b *brain.Store) ([]vocabView, error) {
				rows, err := b.ListTextures()
				return toVocabViews(rows, func(t model.Texture) vocabView {
					return vocabView{Name: t.Name.String(), Description: t.Description, Prompt: t.Prompt}
				}), err
			},
			get: func(b *brain.Store, name string) (vocabView, error) {
				t, err := b.GetTexture(model.TextureName(name))
				return vocabView{Name: t.Name.String(), Description: t.Description, Prompt: t.Prompt}, err
			},
			exists: func(b *brain.Store, name string) (bool, error) { return b.VocabExists("textures", name) },
		},
		{
			path: "levels", kind: "level",
			setEvent: model.EventLevelSet, removedEvent: model.EventLevelRemoved,
			list: func(b *brain.Store) ([]vocabView, error) {
				rows, err := b.ListLevels()
				return toVocabViews(rows, func(l model.Level) vocabView {
					return vocabView{Name: l.Name.String(), Description: l.Description, Prompt: l.Prompt}
				}), err
			},
			get: func(b *brain.Store, name string) (vocabView, error) {
				l, err := b.GetLevel(model.LevelName(name))
				return vocabView{Name: l.Name.String(), Description: l.Description, Prompt: l.Prompt}, err
			},
			exists: func(b *brain.Store, name string) (bool, error) { return b.VocabExists("levels", name) },
		},
		{
			path: "sensations", kind: "sensation",
			setEvent: model.EventSensationSet, removedEvent: model.EventSensationRemoved,
			list: func(b *brain.Store) ([]vocabView, error) {
				rows, err := b.ListSensations()
				return toVocabViews(rows, func(v model.Sensation) vocabView {
					return vocabView{Name: v.Name.String(), Description: v.Description, Prompt: v.Prompt}
				}), err
			},
			get: func(b *brain.Store, name string) (vocabView, error) {
				v, err := b.GetSensation(model.SensationName(name))
				return vocabView{Name: v.Name.String(), Description: v.Description, Prompt: v.Prompt}, err
			},
			exists: func(b *brain.Store, name string) (bool, error) { return b.VocabExists("sensations", name) },
		},
		{
			path: "natures", kind: "nature",
			setEvent: model.EventNatureSet, removedEvent: model.EventNatureRemoved,
			list: func(b *brain.Store) ([]vocabView, error) {
				rows, err := b.ListNatures()
				return toVocabViews(rows, func(n model.Nature) vocabView {
					return vocabView{Name: n.Name.String(), Description: n.Description, Prompt: n.Prompt}
				}), err
			},
			get: func(b *brain.Store, name string) (vocabView, error) {
				n, err := b.GetNature(model.NatureName(name))
				return vocabView{Name: n.Name.String(), Description: n.Description, Prompt: n.Prompt}, err
			},
			exists: func(b *brain.Store, name string) (bool, error) { return b.VocabExists("natures", name) },
		},
	}
}

func toVocabViews[T any](rows []T, convert func(T) vocabView) []vocabView {
	out := make([]vocabView, len(rows))
	for i, row := range rows {
		out[i] = convert(row)
	}
	return out
}

func (s *Server) handleVocabList(res vocabResource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ac, _ := authFromContext(r.Context())
		rows, err := res.list(ac.Store)
		if err != nil {
			writeError(w, apperr.Internal(err))
			return
		}
		writeJSON(w, http.StatusOK, rows)
	}
}

func (s *Server) handleVocabGet(res vocabResource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ac, _ := authFromContext(r.Context())
		name := chi.URLParam(r, "key")
		v, err := res.get(ac.Store, name)
		if err == brain.ErrNotFound {
			writeError(w, apperr.NotFound(res.kind, name))
			return
		}
		if err != nil {
			writeError(w, apperr.Internal(err))
			return
		}
		writeJSON(w, http.StatusOK, v)
	}
}

func (s *Server) handleVocabSet(res vocabResource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ac, _ := authFromContext(r.Context())
		var v vocabView
		if err := decodeJSON(r, &v); err != nil {
			writeError(w, err)
			return
		}
		if v.Name == "" {
			writeError(w, apperr.BadRequest("%s name is required", res.kind))
			return
		}
		if _, _, err := s.appendEvent(ac, res.setEvent, v); err != nil {
			writeError(w, apperr.Internal(err))
			return
		}
		writeJSON(w, http.StatusOK, v)
	}
}

func (s *Server) handleVocabDelete(res vocabResource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ac, _ := authFromContext(r.Context())
		name := chi.URLParam(r, "key")
		payload := struct {
			Name string `json:"name"`
		}{Name: name}
		// Removal is idempotent: deleting a non-existent vocabulary entry
		// succeeds, matching the round-trip law for remove-of-absent.
		if _, _, err := s.appendEvent(ac, res.removedEvent, payload); err != nil {
			writeError(w, apperr.Internal(err))
			return
		}
		w.WriteHeader(http.StatusOK)
	}
}
