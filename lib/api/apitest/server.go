// Package apitest provides an in-memory job board backend for tests.
//
//	srv := apitest.New(t)
//	client := api.New(srv.URL)
//
// The server is seeded with two shops, seven notices, an employee and two
// employers, and records every request it receives.
package apitest

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	json "github.com/goccy/go-json"

	"github.com/pthm/shiftview/lib/api"
)

// Seeded identifiers and credentials.
const (
	ShopID          = "s1"
	EmployeeID      = "u1"
	EmployerID      = "u2"
	EmployeeToken   = "employee-token"
	EmployerToken   = "employer-token"
	OtherShopID     = "s2"
	OtherOwnerID    = "u3"
	OtherOwnerToken = "other-owner-token"
	EmployeeEmail   = "worker@example.com"
	EmployerEmail   = "owner@example.com"
	Password        = "password123"
	FirstNoticeID   = "n1"
	ApplicationID   = "a1"
	SeedNoticeSize  = 7
)

// Request is one recorded call.
type Request struct {
	Method        string
	Path          string
	Query         string
	Authorization string
	Body          string
}

type failure struct {
	status  int
	message string
}

// Server is a fake backend.
type Server struct {
	*httptest.Server

	mu           sync.Mutex
	shops        map[string]api.Shop
	notices      map[string]api.Notice
	noticeOrder  []string
	applications map[string]api.Application
	users        map[string]api.User
	tokens       map[string]string
	passwords    map[string]string
	requests     []Request
	failures     map[string]failure
	nextID       int
}

// New starts a seeded server that is closed when the test ends.
func New(t testing.TB) *Server {
	s := &Server{
		shops:        make(map[string]api.Shop),
		notices:      make(map[string]api.Notice),
		applications: make(map[string]api.Application),
		users:        make(map[string]api.User),
		tokens:       make(map[string]string),
		passwords:    make(map[string]string),
		failures:     make(map[string]failure),
	}
	s.seed()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /notices", s.listNotices)
	mux.HandleFunc("GET /shops/{shop}/notices", s.listShopNotices)
	mux.HandleFunc("GET /shops/{shop}/notices/{notice}", s.getNotice)
	mux.HandleFunc("PUT /shops/{shop}/notices/{notice}", s.updateNotice)
	mux.HandleFunc("GET /shops/{shop}/notices/{notice}/applications", s.listApplications)
	mux.HandleFunc("POST /shops/{shop}/notices/{notice}/applications", s.apply)
	mux.HandleFunc("PUT /shops/{shop}/notices/{notice}/applications/{app}", s.updateApplication)
	mux.HandleFunc("GET /users/{user}", s.getUser)
	mux.HandleFunc("POST /token", s.token)

	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body string
		if r.Body != nil {
			data, _ := io.ReadAll(r.Body)
			body = string(data)
			r.Body = io.NopCloser(strings.NewReader(body))
		}
		s.mu.Lock()
		s.requests = append(s.requests, Request{
			Method:        r.Method,
			Path:          r.URL.Path,
			Query:         r.URL.RawQuery,
			Authorization: r.Header.Get("Authorization"),
			Body:          body,
		})
		f, failing := s.failures[r.Method+" "+r.URL.Path]
		s.mu.Unlock()

		if failing {
			writeError(w, f.status, f.message)
			return
		}
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(s.Close)
	return s
}

func (s *Server) seed() {
	s.shops[ShopID] = api.Shop{
		ID:                ShopID,
		Name:              "Corner Bakery",
		Category:          "bakery",
		Address1:          "Seoul Mapo-gu",
		Address2:          "12 Bakery-ro",
		ImageURL:          "https://img.example.com/bakery.png",
		OriginalHourlyPay: 10000,
	}
	start := time.Date(2030, 1, 1, 9, 0, 0, 0, time.UTC)
	for i := 1; i <= SeedNoticeSize; i++ {
		id := "n" + strconv.Itoa(i)
		s.notices[id] = api.Notice{
			ID:          id,
			HourlyPay:   10000 + i*1000,
			StartsAt:    start.Add(time.Duration(i) * 24 * time.Hour),
			WorkHour:    4,
			Description: fmt.Sprintf("Shift %d at the **bakery**.", i),
			Shop:        s.shops[ShopID],
		}
		s.noticeOrder = append(s.noticeOrder, id)
	}

	s.users[EmployeeID] = api.User{ID: EmployeeID, Email: EmployeeEmail, Type: api.UserEmployee, Name: "Kim Worker", Phone: "010-1234-5678", Address: "Mapo-gu", Bio: "Early riser."}
	shop := s.shops[ShopID]
	s.users[EmployerID] = api.User{ID: EmployerID, Email: EmployerEmail, Type: api.UserEmployer, Name: "Lee Owner", Shop: &shop}
	s.tokens[EmployeeToken] = EmployeeID
	s.tokens[EmployerToken] = EmployerID

	s.shops[OtherShopID] = api.Shop{ID: OtherShopID, Name: "Night Cafe", Category: "cafe", Address1: "Seoul Jongno-gu", OriginalHourlyPay: 9000}
	other := s.shops[OtherShopID]
	s.users[OtherOwnerID] = api.User{ID: OtherOwnerID, Type: api.UserEmployer, Name: "Park Owner", Shop: &other}
	s.tokens[OtherOwnerToken] = OtherOwnerID
	s.passwords[EmployeeEmail] = Password
	s.passwords[EmployerEmail] = Password

	s.applications[ApplicationID] = api.Application{
		ID:        ApplicationID,
		Status:    api.StatusPending,
		CreatedAt: start,
		ShopID:    ShopID,
		NoticeID:  FirstNoticeID,
		Applicant: s.users[EmployeeID],
	}
}

// Fail makes every request to method and path answer with status and
// message until Recover is called.
func (s *Server) Fail(method, path string, status int, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[method+" "+path] = failure{status: status, message: message}
}

// Recover clears all failures set with Fail.
func (s *Server) Recover() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = make(map[string]failure)
}

// Requests returns the recorded requests.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// Count returns how many requests matched method and path.
func (s *Server) Count(method, path string) int {
	n := 0
	for _, r := range s.Requests() {
		if r.Method == method && r.Path == path {
			n++
		}
	}
	return n
}

// Notice returns the stored notice.
func (s *Server) Notice(id string) api.Notice {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.notices[id]
}

// Application returns the stored application.
func (s *Server) Application(id string) api.Application {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.applications[id]
}

// ClearNotices removes every notice.
func (s *Server) ClearNotices() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notices = make(map[string]api.Notice)
	s.noticeOrder = nil
}

func (s *Server) listNotices(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]any, 0, len(s.noticeOrder))
	for _, id := range s.noticeOrder {
		items = append(items, item(noticeJSON(s.notices[id], true)))
	}
	writeJSON(w, http.StatusOK, page(r, items))
}

func (s *Server) listShopNotices(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.shops[r.PathValue("shop")]; !ok {
		writeError(w, http.StatusNotFound, "shop not found")
		return
	}
	var items []any
	for _, id := range s.noticeOrder {
		n := s.notices[id]
		if n.Shop.ID == r.PathValue("shop") {
			items = append(items, item(noticeJSON(n, false)))
		}
	}
	writeJSON(w, http.StatusOK, page(r, items))
}

func (s *Server) getNotice(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.lookupNotice(r)
	if !ok {
		writeError(w, http.StatusNotFound, "notice not found")
		return
	}
	body := noticeJSON(n, true)
	if uid, ok := s.tokens[bearer(r)]; ok {
		var current *api.Application
		for _, a := range s.sortedApplications() {
			if a.NoticeID == n.ID && a.Applicant.ID == uid && (current == nil || a.Status != api.StatusCanceled) {
				current = &a
			}
		}
		if current != nil {
			body["currentUserApplication"] = item(applicationJSON(*current))
		}
	}
	writeJSON(w, http.StatusOK, item(body))
}

func (s *Server) updateNotice(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.ownsShop(r, r.PathValue("shop")) {
		writeError(w, http.StatusForbidden, "only the shop owner can edit notices")
		return
	}
	n, ok := s.lookupNotice(r)
	if !ok {
		writeError(w, http.StatusNotFound, "notice not found")
		return
	}
	var in api.NoticeInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	n.HourlyPay, n.StartsAt, n.WorkHour, n.Description = in.HourlyPay, in.StartsAt, in.WorkHour, in.Description
	s.notices[n.ID] = n
	writeJSON(w, http.StatusOK, item(noticeJSON(n, true)))
}

func (s *Server) listApplications(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.lookupNotice(r)
	if !ok {
		writeError(w, http.StatusNotFound, "notice not found")
		return
	}
	var items []any
	for _, a := range s.sortedApplications() {
		if a.NoticeID == n.ID {
			items = append(items, item(applicationJSON(a)))
		}
	}
	writeJSON(w, http.StatusOK, page(r, items))
}

func (s *Server) apply(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	uid, ok := s.tokens[bearer(r)]
	if !ok {
		writeError(w, http.StatusUnauthorized, "sign in required")
		return
	}
	if s.users[uid].Type != api.UserEmployee {
		writeError(w, http.StatusForbidden, "only employees can apply")
		return
	}
	n, ok := s.lookupNotice(r)
	if !ok {
		writeError(w, http.StatusNotFound, "notice not found")
		return
	}
	if n.Closed {
		writeError(w, http.StatusBadRequest, "notice is closed")
		return
	}
	for _, a := range s.applications {
		if a.NoticeID == n.ID && a.Applicant.ID == uid && a.Status != api.StatusCanceled {
			writeError(w, http.StatusConflict, "already applied")
			return
		}
	}
	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Status != api.StatusPending {
		writeError(w, http.StatusBadRequest, "status must be pending")
		return
	}
	s.nextID++
	a := api.Application{
		ID:        fmt.Sprintf("a%d", 100+s.nextID),
		Status:    api.StatusPending,
		CreatedAt: time.Now().UTC(),
		ShopID:    n.Shop.ID,
		NoticeID:  n.ID,
		Applicant: s.users[uid],
	}
	s.applications[a.ID] = a
	writeJSON(w, http.StatusCreated, item(applicationJSON(a)))
}

func (s *Server) updateApplication(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	uid, ok := s.tokens[bearer(r)]
	if !ok {
		writeError(w, http.StatusUnauthorized, "sign in required")
		return
	}
	a, ok := s.applications[r.PathValue("app")]
	if !ok || a.NoticeID != r.PathValue("notice") || a.ShopID != r.PathValue("shop") {
		writeError(w, http.StatusNotFound, "application not found")
		return
	}
	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	switch {
	case body.Status == api.StatusCanceled && uid == a.Applicant.ID:
	case (body.Status == api.StatusAccepted || body.Status == api.StatusRejected) && s.ownsShop(r, a.ShopID):
	default:
		writeError(w, http.StatusForbidden, "status change not allowed")
		return
	}
	a.Status = body.Status
	s.applications[a.ID] = a
	writeJSON(w, http.StatusOK, item(applicationJSON(a)))
}

func (s *Server) getUser(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[r.PathValue("user")]
	if !ok {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}
	writeJSON(w, http.StatusOK, item(userJSON(u)))
}

func (s *Server) token(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	if pw, ok := s.passwords[body.Email]; !ok || pw != body.Password {
		writeError(w, http.StatusNotFound, "email or password does not match")
		return
	}
	for token, uid := range s.tokens {
		if s.users[uid].Email == body.Email {
			writeJSON(w, http.StatusOK, item(map[string]any{
				"token": token,
				"user":  item(userJSON(s.users[uid])),
			}))
			return
		}
	}
	writeError(w, http.StatusNotFound, "user not found")
}

func (s *Server) lookupNotice(r *http.Request) (api.Notice, bool) {
	n, ok := s.notices[r.PathValue("notice")]
	if !ok || n.Shop.ID != r.PathValue("shop") {
		return api.Notice{}, false
	}
	return n, true
}

func (s *Server) ownsShop(r *http.Request, shopID string) bool {
	uid, ok := s.tokens[bearer(r)]
	if !ok {
		return false
	}
	u := s.users[uid]
	return u.Shop != nil && u.Shop.ID == shopID
}

func (s *Server) sortedApplications() []api.Application {
	out := make([]api.Application, 0, len(s.applications))
	for _, a := range s.applications {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func bearer(r *http.Request) string {
	return strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
}

func page(r *http.Request, items []any) map[string]any {
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		limit = 10
	}
	count := len(items)
	start := min(offset, count)
	end := min(start+limit, count)
	return map[string]any{
		"offset":  offset,
		"limit":   limit,
		"count":   count,
		"hasNext": end < count,
		"items":   append([]any{}, items[start:end]...),
	}
}

func item(v any) map[string]any {
	return map[string]any{"item": v}
}

func shopJSON(s api.Shop) map[string]any {
	return map[string]any{
		"id":                s.ID,
		"name":              s.Name,
		"category":          s.Category,
		"address1":          s.Address1,
		"address2":          s.Address2,
		"description":       s.Description,
		"imageUrl":          s.ImageURL,
		"originalHourlyPay": s.OriginalHourlyPay,
	}
}

func noticeJSON(n api.Notice, withShop bool) map[string]any {
	m := map[string]any{
		"id":          n.ID,
		"hourlyPay":   n.HourlyPay,
		"startsAt":    n.StartsAt.Format(time.RFC3339),
		"workhour":    n.WorkHour,
		"description": n.Description,
		"closed":      n.Closed,
	}
	if withShop {
		m["shop"] = map[string]any{"item": shopJSON(n.Shop), "href": "/shops/" + n.Shop.ID}
	}
	return m
}

func userJSON(u api.User) map[string]any {
	m := map[string]any{
		"id":      u.ID,
		"email":   u.Email,
		"type":    u.Type,
		"name":    u.Name,
		"phone":   u.Phone,
		"address": u.Address,
		"bio":     u.Bio,
	}
	if u.Shop != nil {
		m["shop"] = item(shopJSON(*u.Shop))
	}
	return m
}

func applicationJSON(a api.Application) map[string]any {
	return map[string]any{
		"id":        a.ID,
		"status":    a.Status,
		"createdAt": a.CreatedAt.Format(time.RFC3339),
		"user":      item(userJSON(a.Applicant)),
		"shop":      item(map[string]any{"id": a.ShopID}),
		"notice":    item(map[string]any{"id": a.NoticeID}),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}
