package mux

import (
	"errors"
	"net/http"
	"regexp"
	"sort"
	"time"

	"sidegame-server/internal/util"
	"sidegame-server/pkg/room"
)

var wordChar = regexp.MustCompile(`\w`)

func (m *Mux) getTable() http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tables := m.tables.List()
		sort.Slice(tables, func(i, j int) bool {
			if tables[i].Created.Equal(tables[j].Created) {
				return tables[i].UUID < tables[j].UUID
			}

			return tables[i].Created.Before(tables[j].Created)
		})

		writeJSON(w, http.StatusOK, tables)
	})
}

type postTablePayload struct {
	Name string `json:"name"`
}

func (m *Mux) postTable() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var pp postTablePayload
		if !decodeRequest(w, r, &pp) {
			return
		}

		if !wordChar.MatchString(pp.Name) || len(pp.Name) < 3 || len(pp.Name) > 40 {
			writeJSONError(w, http.StatusBadRequest, errors.New("name must be 3-40 characters"))
			return
		}

		tbl := m.tables.Create(pp.Name, time.Now())
		writeJSON(w, http.StatusCreated, tbl)
	}
}

type getTableUUIDResponse struct {
	*room.Table
	Players []*room.Player `json:"players"`
}

func (m *Mux) getTableUUID() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tbl := r.Context().Value(ctxTableKey).(*room.Table)

		writeJSON(w, http.StatusOK, getTableUUIDResponse{
			Table:   tbl,
			Players: tbl.Players(),
		})
	})
}

type postSeatPayload struct {
	DisplayName string `json:"displayName"`
	TableStake  int    `json:"tableStake"`
}

type postSeatResponse struct {
	Player    *room.Player `json:"player"`
	SessionID string       `json:"sessionId"`
}

func (m *Mux) postTableUUIDSeat() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var pp postSeatPayload
		if !decodeRequest(w, r, &pp) {
			return
		}

		if pp.DisplayName == "" {
			pp.DisplayName = util.GetRandomName()
		}

		if !wordChar.MatchString(pp.DisplayName) || len(pp.DisplayName) > 40 {
			writeJSONError(w, http.StatusBadRequest, errors.New("displayName must be 1-40 characters"))
			return
		}

		if pp.TableStake <= 0 {
			writeJSONError(w, http.StatusBadRequest, errors.New("tableStake must be greater than zero"))
			return
		}

		tbl := r.Context().Value(ctxTableKey).(*room.Table)

		player := tbl.Join(pp.DisplayName, pp.TableStake, time.Now())
		sessionID, err := tbl.IssueSession(player.ID, time.Now())
		if err != nil {
			writeJSONError(w, http.StatusInternalServerError, err)
			return
		}

		writeJSON(w, http.StatusCreated, postSeatResponse{
			Player:    player,
			SessionID: sessionID,
		})
	})
}
