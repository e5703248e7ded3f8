package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/AdamBeresnev/silat-bracket/internal/bracket"
	"github.com/AdamBeresnev/silat-bracket/internal/httputil"
	"github.com/AdamBeresnev/silat-bracket/internal/middleware"
	"github.com/AdamBeresnev/silat-bracket/internal/service"
	"github.com/AdamBeresnev/silat-bracket/views"
	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

const maxImportSize = 4 << 20

type participantInput struct {
	Name   *string `json:"name"`
	Seed   *int    `json:"seed"`
	Avatar *string `json:"avatar"`
}

type bulkInput struct {
	Names []string `json:"names"`
	Text  string   `json:"text"`
}

type detailsInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type scheduleInput struct {
	RoundID       string    `json:"roundId"`
	ScheduledTime time.Time `json:"scheduledTime"`
}

type byeInput struct {
	RoundID string `json:"roundId"`
}

type athletesInput struct {
	IDs []string `json:"ids"`
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func newRouter(sessionManager *scs.SessionManager, brackets *service.BracketService, allowedOrigins []string) http.Handler {
	editor := middleware.NewEditor(sessionManager)
	store := brackets.Store()

	r := chi.NewRouter()

	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(sessionManager.LoadAndSave)
	r.Use(editor.LoadActiveBracket)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query().Get("q")
		views.Render(w, r, views.Index(store.Search(q), q))
	})

	r.Get("/brackets/{id}", func(w http.ResponseWriter, r *http.Request) {
		data, err := brackets.GetBracketData(chi.URLParam(r, "id"))
		if err != nil {
			httputil.Error(w, "Failed to get bracket", err)
			return
		}
		views.Render(w, r, views.BracketView(views.PrepareBracketData(data.Bracket, data.NextMatchID)))
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   allowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type"},
			ExposedHeaders:   []string{"Content-Disposition"},
			AllowCredentials: true,
			MaxAge:           300,
		}))

		r.Get("/athletes", func(w http.ResponseWriter, r *http.Request) {
			athletes, err := brackets.ListAthletes(r.Context())
			if err != nil {
				httputil.InternalServerError(w, "Failed to list athletes", err)
				return
			}
			httputil.JSON(w, http.StatusOK, athletes)
		})

		r.Route("/draft", func(r chi.Router) {
			r.Get("/", func(w http.ResponseWriter, r *http.Request) {
				reg, err := editor.Draft(r.Context())
				if err != nil {
					httputil.InternalServerError(w, "Failed to load draft", err)
					return
				}
				httputil.JSON(w, http.StatusOK, reg.Participants())
			})

			r.Delete("/", func(w http.ResponseWriter, r *http.Request) {
				editor.ClearDraft(r.Context())
				w.WriteHeader(http.StatusNoContent)
			})

			r.Post("/participants", withDraft(editor, func(w http.ResponseWriter, r *http.Request, reg *bracket.Registry) (any, error) {
				var in participantInput
				if err := decodeJSON(r, &in); err != nil {
					return nil, &bracket.ValidationError{Msg: "invalid participant payload", Err: err}
				}
				name := ""
				if in.Name != nil {
					name = *in.Name
				}
				return reg.Add(name, in.Seed)
			}))

			r.Post("/participants/bulk", withDraft(editor, func(w http.ResponseWriter, r *http.Request, reg *bracket.Registry) (any, error) {
				var in bulkInput
				if err := decodeJSON(r, &in); err != nil {
					return nil, &bracket.ValidationError{Msg: "invalid bulk payload", Err: err}
				}
				names := in.Names
				if in.Text != "" {
					names = append(names, bracket.ParseBulkNames(in.Text)...)
				}
				return reg.AddBulk(names)
			}))

			r.Patch("/participants/{pid}", withDraft(editor, func(w http.ResponseWriter, r *http.Request, reg *bracket.Registry) (any, error) {
				var in participantInput
				if err := decodeJSON(r, &in); err != nil {
					return nil, &bracket.ValidationError{Msg: "invalid participant payload", Err: err}
				}
				return reg.Update(chi.URLParam(r, "pid"), bracket.ParticipantPatch{
					Name:   in.Name,
					Seed:   in.Seed,
					Avatar: in.Avatar,
				})
			}))

			r.Delete("/participants/{pid}", withDraft(editor, func(w http.ResponseWriter, r *http.Request, reg *bracket.Registry) (any, error) {
				reg.Remove(chi.URLParam(r, "pid"))
				return reg.Participants(), nil
			}))

			r.Post("/randomize", withDraft(editor, func(w http.ResponseWriter, r *http.Request, reg *bracket.Registry) (any, error) {
				if err := reg.Randomize(); err != nil {
					return nil, err
				}
				return reg.Participants(), nil
			}))

			r.Post("/athletes", withDraft(editor, func(w http.ResponseWriter, r *http.Request, reg *bracket.Registry) (any, error) {
				var in athletesInput
				if err := decodeJSON(r, &in); err != nil {
					return nil, &bracket.ValidationError{Msg: "invalid athlete selection", Err: err}
				}
				return brackets.AddAthletes(r.Context(), reg, in.IDs)
			}))
		})

		r.Route("/brackets", func(r chi.Router) {
			r.Get("/", func(w http.ResponseWriter, r *http.Request) {
				httputil.JSON(w, http.StatusOK, store.Search(r.URL.Query().Get("q")))
			})

			r.Post("/", func(w http.ResponseWriter, r *http.Request) {
				var in service.CreateInput
				if err := decodeJSON(r, &in); err != nil {
					httputil.BadRequest(w, "Invalid bracket payload", err)
					return
				}
				reg, err := editor.Draft(r.Context())
				if err != nil {
					httputil.InternalServerError(w, "Failed to load draft", err)
					return
				}

				b, err := brackets.CreateFromRegistry(r.Context(), reg, in)
				if err != nil {
					httputil.Error(w, "Failed to create bracket", err)
					return
				}
				editor.ClearDraft(r.Context())
				editor.SetActiveBracket(r.Context(), b.ID)
				httputil.JSON(w, http.StatusCreated, b)
			})

			r.Post("/import", func(w http.ResponseWriter, r *http.Request) {
				body, err := io.ReadAll(io.LimitReader(r.Body, maxImportSize))
				if err != nil {
					httputil.BadRequest(w, "Failed to read import", err)
					return
				}
				b, err := store.Import(r.Context(), string(body))
				if err != nil {
					httputil.Error(w, "Failed to import bracket", err)
					return
				}
				httputil.JSON(w, http.StatusCreated, b)
			})

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", func(w http.ResponseWriter, r *http.Request) {
					b, err := store.Get(chi.URLParam(r, "id"))
					if err != nil {
						httputil.Error(w, "Failed to get bracket", err)
						return
					}
					httputil.JSON(w, http.StatusOK, b)
				})

				r.Patch("/", func(w http.ResponseWriter, r *http.Request) {
					var in detailsInput
					if err := decodeJSON(r, &in); err != nil {
						httputil.BadRequest(w, "Invalid details payload", err)
						return
					}
					b, err := store.UpdateDetails(r.Context(), chi.URLParam(r, "id"), in.Name, in.Description)
					if err != nil {
						httputil.Error(w, "Failed to update bracket", err)
						return
					}
					httputil.JSON(w, http.StatusOK, b)
				})

				r.Delete("/", func(w http.ResponseWriter, r *http.Request) {
					id := chi.URLParam(r, "id")
					if err := store.Delete(r.Context(), id); err != nil {
						httputil.Error(w, "Failed to delete bracket", err)
						return
					}
					editor.ClearActiveBracket(r.Context(), id)
					w.WriteHeader(http.StatusNoContent)
				})

				r.Post("/activate", func(w http.ResponseWriter, r *http.Request) {
					b, err := store.Get(chi.URLParam(r, "id"))
					if err != nil {
						httputil.Error(w, "Failed to activate bracket", err)
						return
					}
					editor.SetActiveBracket(r.Context(), b.ID)
					w.WriteHeader(http.StatusNoContent)
				})

				r.Post("/duplicate", func(w http.ResponseWriter, r *http.Request) {
					b, err := store.Duplicate(r.Context(), chi.URLParam(r, "id"))
					if err != nil {
						httputil.Error(w, "Failed to duplicate bracket", err)
						return
					}
					httputil.JSON(w, http.StatusCreated, b)
				})

				r.Get("/export", func(w http.ResponseWriter, r *http.Request) {
					id := chi.URLParam(r, "id")
					text, err := store.Export(id)
					if err != nil {
						httputil.Error(w, "Failed to export bracket", err)
						return
					}
					w.Header().Set("Content-Type", "application/json")
					w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "bracket-"+id+".json"))
					io.WriteString(w, text)
				})

				r.Post("/matches/{matchID}/result", func(w http.ResponseWriter, r *http.Request) {
					var res bracket.Result
					if err := decodeJSON(r, &res); err != nil {
						httputil.BadRequest(w, "Invalid result payload", err)
						return
					}
					res.MatchID = chi.URLParam(r, "matchID")

					b, err := brackets.RecordResult(r.Context(), chi.URLParam(r, "id"), res)
					if err != nil {
						httputil.Error(w, "Failed to record result", err)
						return
					}
					httputil.JSON(w, http.StatusOK, b)
				})

				r.Post("/matches/{matchID}/schedule", func(w http.ResponseWriter, r *http.Request) {
					var in scheduleInput
					if err := decodeJSON(r, &in); err != nil {
						httputil.BadRequest(w, "Invalid schedule payload", err)
						return
					}
					b, err := store.ApplySchedule(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "matchID"), in.RoundID, in.ScheduledTime)
					if err != nil {
						httputil.Error(w, "Failed to schedule match", err)
						return
					}
					httputil.JSON(w, http.StatusOK, b)
				})

				r.Post("/matches/{matchID}/bye", func(w http.ResponseWriter, r *http.Request) {
					var in byeInput
					if err := decodeJSON(r, &in); err != nil {
						httputil.BadRequest(w, "Invalid bye payload", err)
						return
					}
					b, err := store.ApplyBye(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "matchID"), in.RoundID)
					if err != nil {
						httputil.Error(w, "Failed to advance bye", err)
						return
					}
					httputil.JSON(w, http.StatusOK, b)
				})
			})
		})
	})

	return r
}

// withDraft loads the session's draft registry, runs fn against it and saves
// it back only if fn succeeded.
func withDraft(editor *middleware.Editor, fn func(http.ResponseWriter, *http.Request, *bracket.Registry) (any, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reg, err := editor.Draft(r.Context())
		if err != nil {
			httputil.InternalServerError(w, "Failed to load draft", err)
			return
		}

		out, err := fn(w, r, reg)
		if err != nil {
			httputil.Error(w, "Failed to update draft", err)
			return
		}

		if err := editor.SaveDraft(r.Context(), reg); err != nil {
			httputil.InternalServerError(w, "Failed to save draft", err)
			return
		}
		httputil.JSON(w, http.StatusOK, out)
	}
}
