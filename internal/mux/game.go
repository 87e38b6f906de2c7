package mux

import (
	"net/http"
	"sort"
)

func (m *Mux) getGame() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		names := m.factories.Names()
		sort.Strings(names)

		writeJSON(w, http.StatusOK, names)
	}
}
