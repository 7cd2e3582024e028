package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/slidesmith/slidesmith/internal/client/models"
	"github.com/slidesmith/slidesmith/internal/common"
	"github.com/slidesmith/slidesmith/internal/logging"
	"github.com/slidesmith/slidesmith/internal/netx"
)

const (
	pathRegister      = "/auth/register"
	pathLogin         = "/auth/jwt/login"
	pathMe            = "/users/me"
	pathDashboard     = "/api/v1/dashboard/items"
	pathPresentations = "/api/v1/presentations"
	pathDocuments     = "/api/v1/documents"
)

type HTTPClient struct {
	baseURL string
	http    *http.Client
	log     logging.Logger
}

// NewHTTPClient returns a client for the API rooted at baseURL. timeout
// bounds every single request.
func NewHTTPClient(baseURL string, timeout time.Duration, log logging.Logger) (*HTTPClient, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base url %q must be http or https", baseURL)
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		log:     log.With("component", "api"),
	}, nil
}

func (c *HTTPClient) url(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.baseURL + path
}

// do sends the request and returns the response for 2xx statuses. Any
// other status is drained into an *APIError.
func (c *HTTPClient) do(ctx context.Context, method, path, token, contentType string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.url(path), body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	reqID := uuid.NewString()
	req.Header.Set(common.RequestIDHeaderName, reqID)
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set(common.AuthorizationHeaderName, "Bearer "+token)
	}

	ctx = logging.WithRequestID(ctx, reqID)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn(ctx, "request failed", "method", method, "path", path, "error", err)
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	c.log.Debug(ctx, "request done", "method", method, "path", path, "status", resp.StatusCode, "elapsed", time.Since(start))

	if !netx.IsSuccess(resp.StatusCode) {
		defer resp.Body.Close()
		return nil, &APIError{Status: resp.StatusCode, Detail: netx.ReadDetail(resp)}
	}
	return resp, nil
}

func (c *HTTPClient) doJSON(ctx context.Context, method, path, token string, in, out any) error {
	var body io.Reader
	contentType := ""
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
		contentType = "application/json"
	}

	resp, err := c.do(ctx, method, path, token, contentType, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *HTTPClient) Register(ctx context.Context, req models.RegisterRequest) (models.User, error) {
	var u models.User
	err := c.doJSON(ctx, http.MethodPost, pathRegister, "", req, &u)
	return u, err
}

// Login exchanges credentials for a bearer token using the form-encoded
// password grant.
func (c *HTTPClient) Login(ctx context.Context, email, password string) (models.Token, error) {
	form := url.Values{}
	form.Set("username", email)
	form.Set("password", password)

	resp, err := c.do(ctx, http.MethodPost, pathLogin, "", "application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
	if err != nil {
		return models.Token{}, err
	}
	defer resp.Body.Close()

	var tok models.Token
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return models.Token{}, fmt.Errorf("decode token: %w", err)
	}
	if tok.AccessToken == "" {
		return models.Token{}, errors.New("login response carried no access token")
	}
	return tok, nil
}

func (c *HTTPClient) CurrentUser(ctx context.Context, token string) (models.User, error) {
	var u models.User
	err := c.doJSON(ctx, http.MethodGet, pathMe, token, nil, &u)
	return u, err
}

func (c *HTTPClient) ListItems(ctx context.Context, token string) (models.Listing, error) {
	var l models.Listing
	err := c.doJSON(ctx, http.MethodGet, pathDashboard, token, nil, &l)
	return l, err
}

func artifactPath(kind models.Kind, id models.ID) (string, error) {
	switch kind {
	case models.KindPresentation:
		return fmt.Sprintf("%s/%s", pathPresentations, url.PathEscape(id.String())), nil
	case models.KindDocument:
		return fmt.Sprintf("%s/%s", pathDocuments, url.PathEscape(id.String())), nil
	default:
		return "", fmt.Errorf("no endpoint for kind %q", kind)
	}
}

func (c *HTTPClient) GetRaw(ctx context.Context, token string, kind models.Kind, id models.ID) (json.RawMessage, error) {
	path, err := artifactPath(kind, id)
	if err != nil {
		return nil, err
	}
	var raw json.RawMessage
	err = c.doJSON(ctx, http.MethodGet, path, token, nil, &raw)
	return raw, err
}

func (c *HTTPClient) GetPresentation(ctx context.Context, token string, id models.ID) (models.Presentation, error) {
	var p models.Presentation
	path, _ := artifactPath(models.KindPresentation, id)
	err := c.doJSON(ctx, http.MethodGet, path, token, nil, &p)
	return p, err
}

func (c *HTTPClient) CreatePresentation(ctx context.Context, token string, req models.CreatePresentationRequest) (models.Presentation, error) {
	var p models.Presentation
	err := c.doJSON(ctx, http.MethodPost, pathPresentations+"/", token, req, &p)
	return p, err
}

func (c *HTTPClient) UpdatePresentation(ctx context.Context, token string, id models.ID, req models.UpdatePresentationRequest) (models.Presentation, error) {
	var p models.Presentation
	path, _ := artifactPath(models.KindPresentation, id)
	err := c.doJSON(ctx, http.MethodPut, path, token, req, &p)
	return p, err
}

func (c *HTTPClient) UpdateSlide(ctx context.Context, token string, id models.ID, index int, req models.SlideUpdateRequest) (models.Presentation, error) {
	var p models.Presentation
	path, _ := artifactPath(models.KindPresentation, id)
	err := c.doJSON(ctx, http.MethodPut, path+"/slides/"+strconv.Itoa(index), token, req, &p)
	return p, err
}

func (c *HTTPClient) ConfigurePresentation(ctx context.Context, token string, id models.ID, req models.ThemeRequest) (models.Presentation, error) {
	var p models.Presentation
	path, _ := artifactPath(models.KindPresentation, id)
	err := c.doJSON(ctx, http.MethodPost, path+"/configure", token, req, &p)
	return p, err
}

func (c *HTTPClient) GetDocument(ctx context.Context, token string, id models.ID) (models.Document, error) {
	var d models.Document
	path, _ := artifactPath(models.KindDocument, id)
	err := c.doJSON(ctx, http.MethodGet, path, token, nil, &d)
	return d, err
}

func (c *HTTPClient) CreateDocument(ctx context.Context, token string, req models.CreateDocumentRequest) (models.Document, error) {
	var d models.Document
	err := c.doJSON(ctx, http.MethodPost, pathDocuments+"/", token, req, &d)
	return d, err
}

func sectionPath(docID, sectionID models.ID) string {
	return fmt.Sprintf("%s/%s/sections/%s", pathDocuments, url.PathEscape(docID.String()), url.PathEscape(sectionID.String()))
}

func (c *HTTPClient) SaveSection(ctx context.Context, token string, docID, sectionID models.ID, content string) (models.Section, error) {
	var s models.Section
	err := c.doJSON(ctx, http.MethodPut, sectionPath(docID, sectionID), token, models.SectionUpdateRequest{Content: content}, &s)
	return s, err
}

func (c *HTTPClient) RefineSection(ctx context.Context, token string, docID, sectionID models.ID, req models.RefineRequest) (models.Section, error) {
	var s models.Section
	err := c.doJSON(ctx, http.MethodPost, sectionPath(docID, sectionID)+"/refine", token, req, &s)
	return s, err
}

func (c *HTTPClient) SectionFeedback(ctx context.Context, token string, docID, sectionID models.ID, req models.FeedbackRequest) error {
	return c.doJSON(ctx, http.MethodPost, sectionPath(docID, sectionID)+"/feedback", token, req, nil)
}

func (c *HTTPClient) Download(ctx context.Context, token string, path string) ([]byte, string, error) {
	resp, err := c.do(ctx, http.MethodGet, path, token, "", nil)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("read download: %w", err)
	}
	return data, netx.DispositionFilename(resp.Header.Get("Content-Disposition")), nil
}
