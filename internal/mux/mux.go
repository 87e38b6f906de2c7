package mux

import (
	"context"
	"net/http"

	gmux "github.com/gorilla/mux"

	"sidegame-server/pkg/room"
	"sidegame-server/pkg/room/gamefactory"
)

type ctxKey int

const (
	ctxTableKey ctxKey = iota
)

// Mux handles HTTP requests
type Mux struct {
	*gmux.Router
	version   string
	pitBoss   *room.PitBoss
	tables    *room.Tables
	factories *gamefactory.Registry
}

// NewMux returns a new HTTP mux
func NewMux(version string, pitBoss *room.PitBoss, tables *room.Tables, factories *gamefactory.Registry) *Mux {
	this := &Mux{
		Router:    gmux.NewRouter(),
		version:   version,
		pitBoss:   pitBoss,
		tables:    tables,
		factories: factories,
	}

	r := this.Router
	r.Methods(http.MethodGet).Path("/health").Handler(this.getHealth())
	r.Methods(http.MethodGet).Path("/game").Handler(this.getGame())

	r.Methods(http.MethodGet).Path("/table").Handler(this.getTable())
	r.Methods(http.MethodPost).Path("/table").Handler(this.postTable())

	tr := r.PathPrefix("/table/{uuid:(?i)[a-f0-9]{8}(?:-[a-f0-9]{4}){3}-[a-f0-9]{12}}").Subrouter()
	tr.Use(this.tableMiddleware)

	tr.Methods(http.MethodGet).Path("").Handler(this.getTableUUID())
	tr.Methods(http.MethodPost).Path("/seat").Handler(this.postTableUUIDSeat())
	tr.Methods(http.MethodGet).Path("/ws").Handler(this.getTableUUIDWS())

	return this
}

func (m *Mux) tableMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uuid := gmux.Vars(r)["uuid"]
		tbl, err := m.tables.Get(uuid)
		if err != nil {
			writeMaybeNotFoundError(w, err)
			return
		}

		newCtx := context.WithValue(r.Context(), ctxTableKey, tbl)

		next.ServeHTTP(w, r.WithContext(newCtx))
	})
}
