package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"reflow_oven/internal/profile"
	"reflow_oven/internal/service"
)

func newProfilesRouter(p *mockProfiles) http.Handler {
	return newTestRouter(&service.Service{
		Authorization: &mockAuth{parseID: 1},
		Profiles:      p,
	})
}

func TestProfileHandlers_ListGetAdd(t *testing.T) {
	mp := &mockProfiles{
		list:   service.ProfileList{Active: 1, Capacity: 10, Profiles: []profile.Profile{profile.SnPb, profile.PbFree}},
		detail: service.ProfileDetail{Index: 1, Profile: profile.PbFree, DurationSec: 282},
		addIdx: 2,
	}
	r := newProfilesRouter(mp)

	w := serveAuthed(r, http.MethodGet, "/api/v1/profiles", "")
	if w.Code != http.StatusOK {
		t.Fatalf("list status=%d", w.Code)
	}
	var list service.ProfileList
	if err := json.Unmarshal(w.Body.Bytes(), &list); err != nil {
		t.Fatalf("unmarshal list: %v", err)
	}
	if list.Active != 1 || len(list.Profiles) != 2 || list.Profiles[1].Name != "Pb_Free" {
		t.Fatalf("unexpected list: %+v", list)
	}

	w = serveAuthed(r, http.MethodGet, "/api/v1/profiles/1", "")
	if w.Code != http.StatusOK || mp.lastIdx != 1 {
		t.Fatalf("get status=%d idx=%d", w.Code, mp.lastIdx)
	}
	var d service.ProfileDetail
	_ = json.Unmarshal(w.Body.Bytes(), &d)
	if d.Profile.Soak.FinalTemp != 1800 || d.DurationSec != 282 {
		t.Fatalf("unexpected detail: %+v", d)
	}

	w = serveAuthed(r, http.MethodPost, "/api/v1/profiles", "")
	if w.Code != http.StatusCreated {
		t.Fatalf("add status=%d", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/api/v1/profiles/2" {
		t.Fatalf("location = %q", loc)
	}
}

func TestProfileHandlers_UpdateDeleteActivate(t *testing.T) {
	mp := &mockProfiles{}
	r := newProfilesRouter(mp)

	body, _ := json.Marshal(profile.SnPb)
	w := serveAuthed(r, http.MethodPut, "/api/v1/profiles/0", string(body))
	if w.Code != http.StatusOK {
		t.Fatalf("update status=%d, body=%s", w.Code, w.Body.String())
	}
	if mp.lastP != profile.SnPb || mp.lastIdx != 0 {
		t.Fatalf("update got idx=%d p=%+v", mp.lastIdx, mp.lastP)
	}

	if w := serveAuthed(r, http.MethodDelete, "/api/v1/profiles/3", ""); w.Code != http.StatusOK || mp.lastIdx != 3 {
		t.Fatalf("delete status=%d idx=%d", w.Code, mp.lastIdx)
	}
	if w := serveAuthed(r, http.MethodPost, "/api/v1/profiles/1/activate", ""); w.Code != http.StatusOK || mp.lastIdx != 1 {
		t.Fatalf("activate status=%d idx=%d", w.Code, mp.lastIdx)
	}
}

func TestProfileHandlers_Errors(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		method string
		path   string
		code   int
	}{
		{"non_numeric_index", nil, http.MethodGet, "/api/v1/profiles/abc", http.StatusBadRequest},
		{"bad_index", fmt.Errorf("%w: 9", profile.ErrBadIndex), http.MethodGet, "/api/v1/profiles/9", http.StatusNotFound},
		{"full", profile.ErrOverCapacity, http.MethodPost, "/api/v1/profiles", http.StatusConflict},
		{"last_profile", service.ErrLastProfile, http.MethodDelete, "/api/v1/profiles/0", http.StatusConflict},
		{"activate_bad_index", profile.ErrBadIndex, http.MethodPost, "/api/v1/profiles/5/activate", http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newProfilesRouter(&mockProfiles{err: tc.err})
			if w := serveAuthed(r, tc.method, tc.path, ""); w.Code != tc.code {
				t.Fatalf("code = %d, want %d (body=%s)", w.Code, tc.code, w.Body.String())
			}
		})
	}
}

func TestProfileHandlers_UpdateInvalid(t *testing.T) {
	mp := &mockProfiles{err: fmt.Errorf("%w: name must be 1..15 characters", profile.ErrInvalidProfile)}
	r := newProfilesRouter(mp)

	body, _ := json.Marshal(profile.SnPb)
	w := serveAuthed(r, http.MethodPut, "/api/v1/profiles/0", string(body))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if w := serveAuthed(r, http.MethodPut, "/api/v1/profiles/0", "{"); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed body, got %d", w.Code)
	}
}
