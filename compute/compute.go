package compute

import "github.com/StratoNode/strato/utils"

import "encoding/json"

// UserAgent tags requests and freshly created servers so they can be traced
// back to this client.
const UserAgent = "strato-go/1.0"

// Response is the structured outcome of one HTTP exchange: the status code
// and the raw body. The transport collaborator produces it; this package
// interprets it. Any status below 300 counts as success.
type Response struct {
	StatusCode int
	Body       []byte
}

func (resp *Response) OK() bool {
	return resp.StatusCode < 300
}

func (resp *Response) Decode(target interface{}) error {
	return json.Unmarshal(resp.Body, target)
}

// Requester issues one blocking HTTP exchange. Implementations own
// connection handling, authentication headers and timeouts; this package
// only builds URLs and payloads and interprets status codes. A nil body
// means no request body.
type Requester interface {
	Do(method string, url string, body interface{}) (*Response, error)
}

// Service addresses one compute endpoint through a Requester.
type Service struct {
	requester Requester
	baseURL   string
}

func MakeService(requester Requester, baseURL string) *Service {
	return &Service{
		requester: requester,
		baseURL:   baseURL,
	}
}

func (service *Service) URL(parts ...string) string {
	all := append([]string{service.baseURL}, parts...)
	return utils.URLJoin(all...)
}

// CollectionURL returns the base endpoint for the server resource type.
func (service *Service) CollectionURL() string {
	return service.URL("servers")
}

// NewServer returns a blank server entity ready for Create.
func (service *Service) NewServer() *Server {
	return &Server{
		service: service,
		Meta:    make(map[string]string),
	}
}

// ServerFromID fetches the server with the given ID from the service.
func (service *Service) ServerFromID(id string) (*Server, error) {
	server := service.NewServer()
	server.ID = id
	if err := server.Refresh(); err != nil {
		return nil, err
	}
	return server, nil
}

// ServerFromData builds a server entity from material that has already been
// fetched, for example one element of a bulk listing. No network call is
// made; matching fields are copied verbatim.
func (service *Service) ServerFromData(data map[string]interface{}) (*Server, error) {
	server := service.NewServer()
	if err := server.applyData(data); err != nil {
		return nil, err
	}
	return server, nil
}

func (service *Service) ListServers() ([]*Server, error) {
	resp, err := service.requester.Do("GET", service.URL("servers", "detail"), nil)
	if err != nil || resp == nil {
		return nil, &ErrHTTP{Op: "list servers", Err: err}
	} else if !resp.OK() {
		return nil, &ErrUnexpected{Op: "list servers", Status: resp.StatusCode, Body: string(resp.Body)}
	}

	var list serverListResponse
	if err := resp.Decode(&list); err != nil {
		return nil, &ErrUnexpected{Op: "list servers", Status: resp.StatusCode, Body: string(resp.Body)}
	}

	servers := make([]*Server, len(list.Servers))
	for i, raw := range list.Servers {
		server := service.NewServer()
		if err := server.copyFrom(raw); err != nil {
			return nil, &ErrUnexpected{Op: "list servers", Status: resp.StatusCode, Body: string(resp.Body)}
		}
		servers[i] = server
	}
	return servers, nil
}

func (service *Service) ListFlavors() ([]*Flavor, error) {
	resp, err := service.requester.Do("GET", service.URL("flavors", "detail"), nil)
	if err != nil || resp == nil {
		return nil, &ErrHTTP{Op: "list flavors", Err: err}
	} else if !resp.OK() {
		return nil, &ErrUnexpected{Op: "list flavors", Status: resp.StatusCode, Body: string(resp.Body)}
	}

	var list flavorListResponse
	if err := resp.Decode(&list); err != nil {
		return nil, &ErrUnexpected{Op: "list flavors", Status: resp.StatusCode, Body: string(resp.Body)}
	}
	return list.Flavors, nil
}

func (service *Service) ListImages() ([]*Image, error) {
	resp, err := service.requester.Do("GET", service.URL("images", "detail"), nil)
	if err != nil || resp == nil {
		return nil, &ErrHTTP{Op: "list images", Err: err}
	} else if !resp.OK() {
		return nil, &ErrUnexpected{Op: "list images", Status: resp.StatusCode, Body: string(resp.Body)}
	}

	var list imageListResponse
	if err := resp.Decode(&list); err != nil {
		return nil, &ErrUnexpected{Op: "list images", Status: resp.StatusCode, Body: string(resp.Body)}
	}
	return list.Images, nil
}

// KeyPair is an SSH keypair registered with the compute service. PrivateKey
// is only present when the service generated the pair.
type KeyPair struct {
	Name        string `json:"name"`
	PublicKey   string `json:"public_key"`
	PrivateKey  string `json:"private_key,omitempty"`
	Fingerprint string `json:"fingerprint"`
}

// CreateKeyPair asks the service to generate a keypair under the given
// name. The returned pair includes the private key, which the service does
// not retain.
func (service *Service) CreateKeyPair(name string) (*KeyPair, error) {
	return service.keyPairRequest(keyPairOpts{Name: name})
}

// ImportKeyPair registers an existing public key under the given name. The
// key is normalized to authorized_keys format first, so SSH2-formatted keys
// are accepted as well.
func (service *Service) ImportKeyPair(name string, publicKey string) (*KeyPair, error) {
	normalized, err := utils.PublicKeyToAuthorizedKeysFormat(publicKey)
	if err != nil {
		return nil, err
	}
	return service.keyPairRequest(keyPairOpts{Name: name, PublicKey: normalized})
}

func (service *Service) keyPairRequest(opts keyPairOpts) (*KeyPair, error) {
	resp, err := service.requester.Do("POST", service.URL("os-keypairs"), keyPairRequest{KeyPair: opts})
	if err != nil || resp == nil {
		return nil, &ErrHTTP{Op: "keypair", Err: err}
	} else if !resp.OK() {
		return nil, &ErrKeyPair{Name: opts.Name, Status: resp.StatusCode, Body: string(resp.Body)}
	}

	var out keyPairResponse
	if err := resp.Decode(&out); err != nil || out.KeyPair == nil {
		return nil, &ErrUnexpected{Op: "keypair", Status: resp.StatusCode, Body: string(resp.Body)}
	}
	return out.KeyPair, nil
}
