// Package registryclient implements the Registration API HTTP client of
// spec §4.2: a thin net/http wrapper bound to one registry's base URI,
// classifying responses into ServiceError, ClientError and NodeUnknownError
// per spec §7.
package registryclient

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/jasperpeeters/nmos-node/internal/config"
	"github.com/jasperpeeters/nmos-node/internal/nmos"
	"github.com/jasperpeeters/nmos-node/internal/nmosjson"
	"github.com/jasperpeeters/nmos-node/internal/ports"
)

// Client is a ports.RegistryClient bound to one registry's base URI. It is
// rebuilt, not mutated, whenever the synchroniser selects a different
// registry (spec §5 "Resource lifecycle").
type Client struct {
	baseURI    string
	httpClient *http.Client
	downgrader ports.Downgrader
	log        ports.Logger

	lastCreateBody []byte
}

// defaultTimeout bounds the foreground HTTP calls the synchroniser makes
// with its lock released; the spec notes these are not otherwise
// cancellable (§5 "Cancellation and timeouts").
const defaultTimeout = 10 * time.Second

// New builds a Client bound to baseURI, of the form
// "{scheme}://{host}:{port}/x-nmos/registration/{version}" (spec §4.2).
func New(baseURI string, downgrader ports.Downgrader, log ports.Logger) *Client {
	return &Client{
		baseURI:    baseURI,
		httpClient: &http.Client{Timeout: defaultTimeout},
		downgrader: downgrader,
		log:        log,
	}
}

// Factory returns a ports.RegistryClientFactory closed over shared
// dependencies, used by the engine each time it must rebuild the client
// for a newly selected registry.
func Factory(downgrader ports.Downgrader, log ports.Logger) ports.RegistryClientFactory {
	return func(baseURI string) ports.RegistryClient {
		return New(baseURI, downgrader, log)
	}
}

func (c *Client) BaseURI() string { return c.baseURI }

// registryVersion derives the target schema version from the client's own
// base URI path segment, never from settings directly - SPEC_FULL
// supplemented feature 2: a client rebuilt against a different registry
// always re-derives the version from that registry's URI.
func (c *Client) registryVersion() string {
	idx := strings.LastIndex(c.baseURI, "/")
	if idx < 0 || idx == len(c.baseURI)-1 {
		return ""
	}
	return c.baseURI[idx+1:]
}

func (c *Client) downgrade(resourceType nmos.Type, data []byte) ([]byte, error) {
	if c.downgrader == nil {
		return data, nil
	}
	return c.downgrader.Downgrade(config.AuthoringVersion, resourceType, data, c.registryVersion())
}

func (c *Client) buildBody(resourceType nmos.Type, data []byte) ([]byte, error) {
	downgraded, err := c.downgrade(resourceType, data)
	if err != nil {
		return nil, err
	}
	return nmosjson.RegistrationBody(string(resourceType), downgraded)
}

// Create POSTs a new resource, expecting 201. A 200 means the registry
// already holds the record; the caller recovers with Delete followed by a
// retry of the same body (spec §4.2, SPEC_FULL feature 3).
func (c *Client) Create(resourceType nmos.Type, data []byte) error {
	body, err := c.buildBody(resourceType, data)
	if err != nil {
		return err
	}
	c.lastCreateBody = body
	return c.post(body, http.StatusCreated, "create")
}

// RetryCreate re-POSTs the exact body the most recent Create built, used
// for the 200-on-first-create Delete-then-POST recovery (spec §4.2,
// SPEC_FULL feature 3: the retried POST reuses the same request body, not
// a freshly-marshalled one).
func (c *Client) RetryCreate() error {
	return c.post(c.lastCreateBody, http.StatusCreated, "create")
}

// Update POSTs an existing resource, expecting 200.
func (c *Client) Update(resourceType nmos.Type, data []byte) error {
	body, err := c.buildBody(resourceType, data)
	if err != nil {
		return err
	}
	return c.post(body, http.StatusOK, "update")
}

func (c *Client) post(body []byte, wantStatus int, op string) error {
	req, err := http.NewRequest(http.MethodPost, c.baseURI+"/resource", bytes.NewReader(body))
	if err != nil {
		return &ports.ServiceError{Op: op, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &ports.ServiceError{Op: op, Err: err}
	}
	defer drain(resp.Body)

	switch {
	case resp.StatusCode == wantStatus:
		return nil
	case op == "create" && resp.StatusCode == http.StatusOK:
		return &ports.AlreadyExistsError{Op: op}
	case resp.StatusCode >= 500:
		return &ports.ServiceError{Op: op, StatusCode: resp.StatusCode}
	case resp.StatusCode >= 400:
		return &ports.ClientError{Op: op, StatusCode: resp.StatusCode}
	default:
		c.log.Error(fmt.Sprintf("registryclient: unexpected status on %s", op), nil,
			ports.Field{Key: "status", Value: resp.StatusCode})
		return nil
	}
}

// Delete removes a resource, expecting 204.
func (c *Client) Delete(resourceType nmos.Type, id string) error {
	url := c.baseURI + "/resource/" + resourceType.Plural() + "/" + id
	req, err := http.NewRequest(http.MethodDelete, url, nil)
	if err != nil {
		return &ports.ServiceError{Op: "delete", Err: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &ports.ServiceError{Op: "delete", Err: err}
	}
	defer drain(resp.Body)

	switch {
	case resp.StatusCode == http.StatusNoContent:
		return nil
	case resp.StatusCode >= 500:
		return &ports.ServiceError{Op: "delete", StatusCode: resp.StatusCode}
	case resp.StatusCode >= 400:
		return &ports.ClientError{Op: "delete", StatusCode: resp.StatusCode}
	default:
		c.log.Error("registryclient: unexpected status on delete", nil,
			ports.Field{Key: "status", Value: resp.StatusCode})
		return nil
	}
}

// Heartbeat POSTs to /health/nodes/{id}, expecting 200. A 404 is reported
// as NodeUnknownError and a 5xx as ServiceError. Any other unexpected
// status is logged and treated as a successful heartbeat - SPEC_FULL
// supplemented feature 4: unlike
// create/update/delete, the heartbeat path has no event to discard, only a
// boolean outcome, so "unexpected" and "success" collapse to the same
// return value.
func (c *Client) Heartbeat(nodeID string) error {
	url := c.baseURI + "/health/nodes/" + nodeID
	req, err := http.NewRequest(http.MethodPost, url, nil)
	if err != nil {
		return &ports.ServiceError{Op: "heartbeat", Err: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &ports.ServiceError{Op: "heartbeat", Err: err}
	}
	defer drain(resp.Body)

	switch resp.StatusCode {
	case http.StatusOK:
		return nil
	case http.StatusNotFound:
		return &ports.NodeUnknownError{NodeID: nodeID}
	}

	if resp.StatusCode >= 500 {
		return &ports.ServiceError{Op: "heartbeat", StatusCode: resp.StatusCode}
	}

	c.log.Error("registryclient: unexpected heartbeat status, treating as success", nil,
		ports.Field{Key: "status", Value: resp.StatusCode},
		ports.Field{Key: "node_id", Value: nodeID})
	return nil
}

func drain(body io.ReadCloser) {
	io.Copy(io.Discard, body)
	body.Close()
}
