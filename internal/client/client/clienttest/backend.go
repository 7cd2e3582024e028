// Package clienttest provides an in-memory fake of the slidesmith backend
// for tests. It speaks the same HTTP contract as the real API.
package clienttest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/gorilla/mux"

	"github.com/slidesmith/slidesmith/internal/client/models"
)

// Route names used for hit counting and forced failures.
const (
	RouteRegister       = "register"
	RouteLogin          = "login"
	RouteMe             = "me"
	RouteDashboard      = "dashboard"
	RouteGetPres        = "get-presentation"
	RouteCreatePres     = "create-presentation"
	RouteUpdatePres     = "update-presentation"
	RouteUpdateSlide    = "update-slide"
	RouteConfigurePres  = "configure-presentation"
	RouteDownloadPres   = "download-presentation"
	RouteGetDoc         = "get-document"
	RouteCreateDoc      = "create-document"
	RouteExportDoc      = "export-document"
	RouteSaveSection    = "save-section"
	RouteRefineSection  = "refine-section"
	RouteSectionFeedbak = "section-feedback"
)

// Failure forces a route to answer with Status and Body.
type Failure struct {
	Status int
	Body   string
}

type account struct {
	user     models.User
	password string
}

// Backend is a fake API server. All exported maps may be seeded before the
// first request; use the methods afterwards.
type Backend struct {
	Server *httptest.Server

	mu            sync.Mutex
	accounts      map[string]account
	tokens        map[string]string
	Listing       models.Listing
	Presentations map[models.ID]models.Presentation
	Documents     map[models.ID]models.Document
	Feedback      map[models.ID]models.FeedbackRequest
	RefinedText   string
	hits          map[string]int
	failures      map[string]Failure
	lastAuth      string
	nextID        int
}

// NewBackend starts a fake server and closes it when the test ends.
func NewBackend(t *testing.T) *Backend {
	t.Helper()

	b := &Backend{
		accounts:      make(map[string]account),
		tokens:        make(map[string]string),
		Presentations: make(map[models.ID]models.Presentation),
		Documents:     make(map[models.ID]models.Document),
		Feedback:      make(map[models.ID]models.FeedbackRequest),
		RefinedText:   "Refined text.",
		hits:          make(map[string]int),
		failures:      make(map[string]Failure),
		nextID:        100,
	}

	r := mux.NewRouter()
	r.HandleFunc("/auth/register", b.wrap(RouteRegister, false, b.register)).Methods(http.MethodPost)
	r.HandleFunc("/auth/jwt/login", b.wrap(RouteLogin, false, b.login)).Methods(http.MethodPost)
	r.HandleFunc("/users/me", b.wrap(RouteMe, true, b.me)).Methods(http.MethodGet)
	r.HandleFunc("/api/v1/dashboard/items", b.wrap(RouteDashboard, true, b.dashboard)).Methods(http.MethodGet)

	p := r.PathPrefix("/api/v1/presentations").Subrouter()
	p.HandleFunc("/", b.wrap(RouteCreatePres, true, b.createPresentation)).Methods(http.MethodPost)
	p.HandleFunc("/{id}", b.wrap(RouteGetPres, true, b.getPresentation)).Methods(http.MethodGet)
	p.HandleFunc("/{id}", b.wrap(RouteUpdatePres, true, b.updatePresentation)).Methods(http.MethodPut)
	p.HandleFunc("/{id}/slides/{index}", b.wrap(RouteUpdateSlide, true, b.updateSlide)).Methods(http.MethodPut)
	p.HandleFunc("/{id}/configure", b.wrap(RouteConfigurePres, true, b.configurePresentation)).Methods(http.MethodPost)
	p.HandleFunc("/{id}/download", b.wrap(RouteDownloadPres, false, b.downloadPresentation)).Methods(http.MethodGet)

	d := r.PathPrefix("/api/v1/documents").Subrouter()
	d.HandleFunc("/", b.wrap(RouteCreateDoc, true, b.createDocument)).Methods(http.MethodPost)
	d.HandleFunc("/{id}", b.wrap(RouteGetDoc, true, b.getDocument)).Methods(http.MethodGet)
	d.HandleFunc("/{id}/export", b.wrap(RouteExportDoc, true, b.exportDocument)).Methods(http.MethodGet)
	d.HandleFunc("/{id}/sections/{sid}", b.wrap(RouteSaveSection, true, b.saveSection)).Methods(http.MethodPut)
	d.HandleFunc("/{id}/sections/{sid}/refine", b.wrap(RouteRefineSection, true, b.refineSection)).Methods(http.MethodPost)
	d.HandleFunc("/{id}/sections/{sid}/feedback", b.wrap(RouteSectionFeedbak, true, b.sectionFeedback)).Methods(http.MethodPost)

	b.Server = httptest.NewServer(r)
	t.Cleanup(b.Server.Close)
	return b
}

// URL is the base URL of the fake.
func (b *Backend) URL() string { return b.Server.URL }

// AddUser registers an account and returns a valid token for it.
func (b *Backend) AddUser(email, password, name string) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	b.accounts[email] = account{
		user:     models.User{ID: models.ID(fmt.Sprintf("user-%d", b.nextID)), Email: email, Name: name, IsActive: true},
		password: password,
	}
	token := fmt.Sprintf("token-%d", b.nextID)
	b.tokens[token] = email
	return token
}

// Fail forces route to answer with status and body until cleared.
func (b *Backend) Fail(route string, status int, body string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures[route] = Failure{Status: status, Body: body}
}

// Clear removes a forced failure.
func (b *Backend) Clear(route string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.failures, route)
}

// Hits returns how many requests reached route.
func (b *Backend) Hits(route string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.hits[route]
}

// TotalHits returns the number of requests across all routes.
func (b *Backend) TotalHits() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, v := range b.hits {
		n += v
	}
	return n
}

// LastAuthorization returns the Authorization header of the last request.
func (b *Backend) LastAuthorization() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastAuth
}

// Document returns the stored document.
func (b *Backend) Document(id models.ID) models.Document {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.Documents[id]
}

// Presentation returns the stored presentation.
func (b *Backend) Presentation(id models.ID) models.Presentation {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.Presentations[id]
}

func (b *Backend) wrap(route string, auth bool, h func(w http.ResponseWriter, r *http.Request)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.hits[route]++
		b.lastAuth = r.Header.Get("Authorization")
		f, forced := b.failures[route]
		b.mu.Unlock()

		if forced {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(f.Status)
			_, _ = w.Write([]byte(f.Body))
			return
		}

		if auth && b.userFor(r) == nil {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Unauthorized"})
			return
		}
		h(w, r)
	}
}

func (b *Backend) userFor(r *http.Request) *models.User {
	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	b.mu.Lock()
	defer b.mu.Unlock()
	email, ok := b.tokens[token]
	if !ok {
		return nil
	}
	u := b.accounts[email].user
	return &u
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func notFound(w http.ResponseWriter, what string) {
	writeJSON(w, http.StatusNotFound, map[string]string{"detail": what + " not found"})
}

func (b *Backend) register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"detail": []map[string]string{{"msg": "invalid body"}}})
		return
	}
	b.mu.Lock()
	_, exists := b.accounts[req.Email]
	b.mu.Unlock()
	if exists {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "REGISTER_USER_ALREADY_EXISTS"})
		return
	}
	b.AddUser(req.Email, req.Password, req.Name)
	b.mu.Lock()
	u := b.accounts[req.Email].user
	b.mu.Unlock()
	writeJSON(w, http.StatusCreated, u)
}

func (b *Backend) login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "bad form"})
		return
	}
	email, password := r.PostForm.Get("username"), r.PostForm.Get("password")

	b.mu.Lock()
	acc, ok := b.accounts[email]
	var token string
	if ok && acc.password == password {
		for tok, e := range b.tokens {
			if e == email {
				token = tok
				break
			}
		}
	}
	b.mu.Unlock()

	if token == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "LOGIN_BAD_CREDENTIALS"})
		return
	}
	writeJSON(w, http.StatusOK, models.Token{AccessToken: token, TokenType: "bearer"})
}

func (b *Backend) me(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, b.userFor(r))
}

func (b *Backend) dashboard(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	l := b.Listing
	b.mu.Unlock()
	if l.Presentations == nil {
		l.Presentations = []models.RawItem{}
	}
	if l.Projects == nil {
		l.Projects = []models.RawItem{}
	}
	writeJSON(w, http.StatusOK, l)
}

func (b *Backend) newID() models.ID {
	b.nextID++
	return models.ID(strconv.Itoa(b.nextID))
}

func (b *Backend) createPresentation(w http.ResponseWriter, r *http.Request) {
	var req models.CreatePresentationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"detail": "invalid body"})
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	p := models.Presentation{ID: b.newID(), Topic: req.Topic}
	for i := 0; i < req.NumSlides; i++ {
		p.Content = append(p.Content, models.Slide{
			Layout:  models.LayoutBullet,
			Title:   fmt.Sprintf("%s %d", req.Topic, i+1),
			Bullets: []string{"Point A", "Point B"},
		})
	}
	b.Presentations[p.ID] = p
	writeJSON(w, http.StatusOK, p)
}

func (b *Backend) getPresentation(w http.ResponseWriter, r *http.Request) {
	id := models.ID(mux.Vars(r)["id"])
	b.mu.Lock()
	p, ok := b.Presentations[id]
	b.mu.Unlock()
	if !ok {
		notFound(w, "Presentation")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (b *Backend) updatePresentation(w http.ResponseWriter, r *http.Request) {
	id := models.ID(mux.Vars(r)["id"])
	var req models.UpdatePresentationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"detail": "invalid body"})
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	p, ok := b.Presentations[id]
	if !ok {
		notFound(w, "Presentation")
		return
	}
	if req.Topic != "" {
		p.Topic = req.Topic
	}
	if req.Content != nil {
		p.Content = req.Content
	}
	b.Presentations[id] = p
	writeJSON(w, http.StatusOK, p)
}

func (b *Backend) updateSlide(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id := models.ID(vars["id"])
	var req struct {
		Title    *string   `json:"title"`
		Bullets  *[]string `json:"bullets"`
		Left     *string   `json:"left"`
		Right    *string   `json:"right"`
		ImageURL *string   `json:"image_url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"detail": "invalid body"})
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	p, ok := b.Presentations[id]
	if !ok {
		notFound(w, "Presentation")
		return
	}
	index, err := strconv.Atoi(vars["index"])
	if err != nil || index < 0 || index >= len(p.Content) {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Slide index out of range"})
		return
	}

	content := make([]models.Slide, len(p.Content))
	copy(content, p.Content)
	sl := content[index].Clone()
	if req.Title != nil {
		sl.Title = *req.Title
	}
	if req.Bullets != nil {
		sl.Bullets = *req.Bullets
	}
	if req.Left != nil {
		sl.Left = *req.Left
	}
	if req.Right != nil {
		sl.Right = *req.Right
	}
	if req.ImageURL != nil {
		sl.ImageURL = *req.ImageURL
	}
	content[index] = sl
	p.Content = content
	b.Presentations[id] = p
	writeJSON(w, http.StatusOK, p)
}

func (b *Backend) configurePresentation(w http.ResponseWriter, r *http.Request) {
	id := models.ID(mux.Vars(r)["id"])
	var req models.ThemeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"detail": "invalid body"})
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	p, ok := b.Presentations[id]
	if !ok {
		notFound(w, "Presentation")
		return
	}
	p.Configuration, _ = json.Marshal(req)
	b.Presentations[id] = p
	writeJSON(w, http.StatusOK, p)
}

func (b *Backend) downloadPresentation(w http.ResponseWriter, r *http.Request) {
	id := models.ID(mux.Vars(r)["id"])
	b.mu.Lock()
	_, ok := b.Presentations[id]
	b.mu.Unlock()
	if !ok {
		notFound(w, "Presentation")
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.presentationml.presentation")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="presentation_%s.pptx"`, id))
	_, _ = w.Write([]byte("PPTX:" + id.String()))
}

func (b *Backend) createDocument(w http.ResponseWriter, r *http.Request) {
	var req models.CreateDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"detail": "invalid body"})
		return
	}
	if req.DocType != "docx" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "doc_type must be 'docx' for this endpoint"})
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	d := models.Document{ID: b.newID(), Title: req.Title, Topic: req.Topic, DocType: req.DocType, NumPages: 1}
	for _, h := range req.Sections {
		d.Sections = append(d.Sections, models.Section{
			ID:         b.newID(),
			Title:      h.Title,
			Content:    "Generated text for " + h.Title,
			OrderIndex: h.OrderIndex,
			PageNumber: 1,
		})
	}
	d.DownloadURL = fmt.Sprintf("/api/v1/documents/%s/export", d.ID)
	b.Documents[d.ID] = d
	writeJSON(w, http.StatusOK, d)
}

func (b *Backend) getDocument(w http.ResponseWriter, r *http.Request) {
	id := models.ID(mux.Vars(r)["id"])
	b.mu.Lock()
	d, ok := b.Documents[id]
	b.mu.Unlock()
	if !ok {
		notFound(w, "Project")
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (b *Backend) exportDocument(w http.ResponseWriter, r *http.Request) {
	id := models.ID(mux.Vars(r)["id"])
	b.mu.Lock()
	_, ok := b.Documents[id]
	b.mu.Unlock()
	if !ok {
		notFound(w, "Project")
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.wordprocessingml.document")
	_, _ = w.Write([]byte("DOCX:" + id.String()))
}

// withSection runs fn on the addressed section under the lock and stores
// the result.
func (b *Backend) withSection(w http.ResponseWriter, r *http.Request, fn func(s *models.Section)) (models.Section, bool) {
	vars := mux.Vars(r)
	docID, sid := models.ID(vars["id"]), models.ID(vars["sid"])

	b.mu.Lock()
	defer b.mu.Unlock()
	d, ok := b.Documents[docID]
	if !ok {
		notFound(w, "Project")
		return models.Section{}, false
	}
	for i := range d.Sections {
		if d.Sections[i].ID == sid {
			fn(&d.Sections[i])
			b.Documents[docID] = d
			return d.Sections[i], true
		}
	}
	notFound(w, "Section")
	return models.Section{}, false
}

func (b *Backend) saveSection(w http.ResponseWriter, r *http.Request) {
	var req models.SectionUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"detail": "invalid body"})
		return
	}
	if s, ok := b.withSection(w, r, func(s *models.Section) { s.Content = req.Content }); ok {
		writeJSON(w, http.StatusOK, s)
	}
}

func (b *Backend) refineSection(w http.ResponseWriter, r *http.Request) {
	var req models.RefineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"detail": "invalid body"})
		return
	}
	b.mu.Lock()
	refined := b.RefinedText
	b.mu.Unlock()
	if s, ok := b.withSection(w, r, func(s *models.Section) { s.Content = refined }); ok {
		writeJSON(w, http.StatusOK, s)
	}
}

func (b *Backend) sectionFeedback(w http.ResponseWriter, r *http.Request) {
	var req models.FeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"detail": "invalid body"})
		return
	}
	if s, ok := b.withSection(w, r, func(s *models.Section) {
		s.Feedback = req.Feedback
		s.Comment = req.Comment
	}); ok {
		b.mu.Lock()
		b.Feedback[s.ID] = req
		b.mu.Unlock()
		writeJSON(w, http.StatusOK, s)
	}
}
