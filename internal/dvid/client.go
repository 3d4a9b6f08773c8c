// Package dvid is a small client for the DVID endpoints marktips uses:
// label-indexed annotations, RoI point queries and skeleton key-value reads.
//
// Every request is tagged with u=<user> and app=marktips.
package dvid

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/janelia-flyem/marktips/internal/annotation"
	"github.com/janelia-flyem/marktips/internal/geom"
	"github.com/janelia-flyem/marktips/internal/httputil"
	"github.com/janelia-flyem/marktips/internal/version"
)

// StoreRequestError reports a non-success response from DVID.
type StoreRequestError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
}

func (e *StoreRequestError) Error() string {
	return fmt.Sprintf("%s %s failed\nurl: %s\nstatus code: %d\nreturned text: %s",
		e.Method, shortPath(e.URL), e.URL, e.StatusCode, e.Body)
}

func shortPath(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	return u.Path
}

// Client talks to one DVID node (server + UUID) on behalf of one user.
type Client struct {
	http   httputil.HTTPClient
	server string
	uuid   string
	user   string
	app    string
}

// NewClient creates a client for the node uuid on server. A server without a
// scheme is assumed to be plain http.
func NewClient(hc httputil.HTTPClient, server, uuid, user string) *Client {
	if hc == nil {
		hc = httputil.NewStandardClient(nil)
	}
	return &Client{
		http:   hc,
		server: httputil.EnsureScheme(server),
		uuid:   uuid,
		user:   user,
		app:    version.AppName,
	}
}

// Server returns the normalized server address.
func (c *Client) Server() string { return c.server }

// UUID returns the node the client is bound to.
func (c *Client) UUID() string { return c.uuid }

// NodeURL builds {server}/api/node/{uuid}/{instance}/{parts...}.
func (c *Client) NodeURL(instance string, parts ...string) string {
	u := c.server + "/api/node/" + url.PathEscape(c.uuid) + "/" + url.PathEscape(instance)
	for _, p := range parts {
		u += "/" + url.PathEscape(p)
	}
	return u
}

func (c *Client) tag(raw string) (string, error) {
	tagged, err := httputil.WithQuery(raw, "u", c.user)
	if err != nil {
		return "", err
	}
	return httputil.WithQuery(tagged, "app", c.app)
}

// do sends a request and returns the body of a 200 response. Any other status
// becomes a *StoreRequestError. Bare URLs are reported without the u/app tags.
func (c *Client) do(ctx context.Context, method, rawURL string, body []byte) ([]byte, int, error) {
	tagged, err := c.tag(rawURL)
	if err != nil {
		return nil, 0, err
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, tagged, reader)
	if err != nil {
		return nil, 0, fmt.Errorf("build %s request: %w", method, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("%s %s: %w", method, rawURL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, resp.StatusCode, &StoreRequestError{
			Method:     method,
			URL:        rawURL,
			StatusCode: resp.StatusCode,
			Body:       httputil.ReadErrorBody(resp.Body),
		}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read %s response: %w", rawURL, err)
	}
	return data, resp.StatusCode, nil
}

// LabelAnnotations returns the annotations in instance on the given body.
func (c *Client) LabelAnnotations(ctx context.Context, instance, body string) ([]annotation.Annotation, error) {
	data, _, err := c.do(ctx, http.MethodGet, c.NodeURL(instance, "label", body), nil)
	if err != nil {
		return nil, err
	}
	var anns []annotation.Annotation
	if len(bytes.TrimSpace(data)) == 0 {
		return anns, nil
	}
	if err := json.Unmarshal(data, &anns); err != nil {
		return nil, fmt.Errorf("decode annotations for body %s: %w", body, err)
	}
	return anns, nil
}

// PostElements writes anns to instance in a single request.
func (c *Client) PostElements(ctx context.Context, instance string, anns []annotation.Annotation) error {
	payload, err := json.Marshal(anns)
	if err != nil {
		return fmt.Errorf("encode annotations: %w", err)
	}
	_, _, err = c.do(ctx, http.MethodPost, c.NodeURL(instance, "elements"), payload)
	return err
}

// RegionExists reports whether roi names an instance on the node. DVID
// answers 400 for unknown instances; 404 is treated the same way.
func (c *Client) RegionExists(ctx context.Context, roi string) (bool, error) {
	_, status, err := c.do(ctx, http.MethodGet, c.NodeURL(roi, "info"), nil)
	if err == nil {
		return true, nil
	}
	if status == http.StatusBadRequest || status == http.StatusNotFound {
		return false, nil
	}
	return false, err
}

// PointsInRegion asks DVID which of pts lie inside roi. The result is
// parallel to pts.
func (c *Client) PointsInRegion(ctx context.Context, pts []geom.Point, roi string) ([]bool, error) {
	if len(pts) == 0 {
		return []bool{}, nil
	}
	payload, err := json.Marshal(pts)
	if err != nil {
		return nil, fmt.Errorf("encode points: %w", err)
	}
	data, _, err := c.do(ctx, http.MethodPost, c.NodeURL(roi, "ptquery"), payload)
	if err != nil {
		return nil, err
	}
	var inside []bool
	if err := json.Unmarshal(data, &inside); err != nil {
		return nil, fmt.Errorf("decode ptquery response for %s: %w", roi, err)
	}
	if len(inside) != len(pts) {
		return nil, fmt.Errorf("ptquery for %s returned %d results for %d points", roi, len(inside), len(pts))
	}
	return inside, nil
}

// Key reads a value from a keyvalue instance. A missing key is reported as
// a *StoreRequestError with status 404.
func (c *Client) Key(ctx context.Context, instance, key string) ([]byte, error) {
	data, _, err := c.do(ctx, http.MethodGet, c.NodeURL(instance, "key", key), nil)
	return data, err
}
