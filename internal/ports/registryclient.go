package ports

import "github.com/jasperpeeters/nmos-node/internal/nmos"

// RegistryClient is a thin wrapper over the Registration API HTTP surface
// bound to one registry's base URI (spec §4.2).
type RegistryClient interface {
	// BaseURI identifies the registry this client is bound to, e.g.
	// "http://reg.local:3210/x-nmos/registration/v1.2". The synchroniser
	// compares this against a candidate's URI to decide whether the client
	// must be rebuilt.
	BaseURI() string

	// Create POSTs a new resource. A 200 (rather than 201) response is
	// reported to the caller as AlreadyExistsError so the synchroniser can
	// recover via Delete-then-Create with the same body.
	Create(resourceType nmos.Type, data []byte) error

	// RetryCreate re-POSTs the exact body the most recent Create call
	// built, used for the 200-on-first-create Delete-then-POST recovery so
	// the retried request never re-derives the downgraded payload.
	RetryCreate() error

	// Update POSTs an existing resource, expecting 200.
	Update(resourceType nmos.Type, data []byte) error

	// Delete removes a resource, expecting 204.
	Delete(resourceType nmos.Type, id string) error

	// Heartbeat posts to /health/nodes/{id}, expecting 200. A 404 is
	// reported as NodeUnknownError.
	Heartbeat(nodeID string) error
}

// RegistryClientFactory builds a RegistryClient bound to a given base URI,
// used by the synchroniser whenever the selected registry changes.
type RegistryClientFactory func(baseURI string) RegistryClient

// ServiceError classifies a 5xx response, a transport failure, a timeout,
// or an inability to connect (spec §4.2, §7). The caller must pop the
// current registry from its candidate list and fail over.
type ServiceError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return "nmos: service error during " + e.Op + ": " + e.Err.Error()
	}
	return "nmos: service error during " + e.Op
}

func (e *ServiceError) Unwrap() error { return e.Err }

// ClientError classifies a 4xx response other than 404-on-heartbeat (spec
// §4.2, §7). The offending event must be logged and discarded; processing
// continues with the next event.
type ClientError struct {
	Op         string
	StatusCode int
}

func (e *ClientError) Error() string {
	return "nmos: client error during " + e.Op
}

// NodeUnknownError classifies a 404 on heartbeat (spec §4.2, §7). The
// engine must transition to initial_registration and re-register all
// resources.
type NodeUnknownError struct {
	NodeID string
}

func (e *NodeUnknownError) Error() string {
	return "nmos: registry does not recognise node " + e.NodeID
}

// AlreadyExistsError classifies a 200 (rather than the expected 201) on a
// Create call: the registry already holds a record for this resource.
// Recover with Delete followed by a retry of the same Create body (spec
// §4.2, SPEC_FULL supplemented feature 3).
type AlreadyExistsError struct {
	Op string
}

func (e *AlreadyExistsError) Error() string {
	return "nmos: " + e.Op + " already exists on registry"
}
