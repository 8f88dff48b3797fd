package compute

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type fakeCall struct {
	Method string
	URL    string
	Body   interface{}
}

// fakeRequester records every call and replays a queue of canned
// responses. With an empty queue it answers 200 {}.
type fakeRequester struct {
	calls     []fakeCall
	responses []*Response
	err       error
}

func (fake *fakeRequester) Do(method string, url string, body interface{}) (*Response, error) {
	fake.calls = append(fake.calls, fakeCall{Method: method, URL: url, Body: body})
	if fake.err != nil {
		return nil, fake.err
	}
	if len(fake.responses) == 0 {
		return &Response{StatusCode: 200, Body: []byte("{}")}, nil
	}
	resp := fake.responses[0]
	fake.responses = fake.responses[1:]
	return resp, nil
}

func (fake *fakeRequester) queue(status int, body string) {
	fake.responses = append(fake.responses, &Response{StatusCode: status, Body: []byte(body)})
}

func makeTestService() (*Service, *fakeRequester) {
	fake := &fakeRequester{}
	return MakeService(fake, "https://compute.example.com/v2"), fake
}

// round-trips a captured request body through JSON into a generic map
func bodyAsMap(t *testing.T, body interface{}) map[string]interface{} {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("captured body does not serialize: %v", err)
	}
	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("captured body is not a JSON object: %v", err)
	}
	return m
}

func TestServerFromData_NoNetworkCall(t *testing.T) {
	service, fake := makeTestService()
	server, err := service.ServerFromData(map[string]interface{}{
		"id":         "s9",
		"name":       "web1",
		"status":     "ACTIVE",
		"progress":   float64(60),
		"accessIPv4": "203.0.113.5",
		"addresses": map[string]interface{}{
			"public": []interface{}{
				map[string]interface{}{"version": float64(4), "addr": "203.0.113.5"},
			},
		},
		"metadata": map[string]interface{}{"role": "web"},
	})
	if err != nil {
		t.Fatalf("ServerFromData returned error: %v", err)
	}
	if len(fake.calls) != 0 {
		t.Fatalf("ServerFromData issued %d network calls", len(fake.calls))
	}
	if server.ID != "s9" || server.Name != "web1" || server.Status != "ACTIVE" {
		t.Fatalf("fields not copied: %+v", server)
	}
	if server.Progress != 60 || server.AccessIPv4 != "203.0.113.5" {
		t.Fatalf("fields not copied: %+v", server)
	}
	expected := map[string][]Address{"public": {{Version: 4, Addr: "203.0.113.5"}}}
	if diff := cmp.Diff(expected, server.Addresses); diff != "" {
		t.Fatalf("addresses mismatch (-want +got):\n%s", diff)
	}
	if server.Meta["role"] != "web" {
		t.Fatalf("metadata not copied: %v", server.Meta)
	}
}

func TestServerFromID(t *testing.T) {
	service, fake := makeTestService()
	fake.queue(200, `{"server":{"id":"42","name":"db1","status":"ACTIVE"}}`)

	server, err := service.ServerFromID("42")
	if err != nil {
		t.Fatalf("ServerFromID returned error: %v", err)
	}
	if server.ID != "42" || server.Name != "db1" || server.Status != "ACTIVE" {
		t.Fatalf("unexpected server state: %+v", server)
	}
	if len(fake.calls) != 1 {
		t.Fatalf("expected 1 call, got %d", len(fake.calls))
	}
	if fake.calls[0].Method != "GET" || fake.calls[0].URL != "https://compute.example.com/v2/servers/42" {
		t.Fatalf("unexpected request: %+v", fake.calls[0])
	}
}

func TestServerFromID_NotFound(t *testing.T) {
	service, fake := makeTestService()
	fake.queue(404, `{"itemNotFound":{"message":"no such server"}}`)

	_, err := service.ServerFromID("missing")
	var notFound *ErrNotFound
	if !errors.As(err, &notFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if notFound.ID != "missing" || notFound.Status != 404 {
		t.Fatalf("unexpected error detail: %+v", notFound)
	}
}

func TestServerFromID_OtherFailure(t *testing.T) {
	service, fake := makeTestService()
	fake.queue(503, `service unavailable`)

	_, err := service.ServerFromID("42")
	var unexpected *ErrUnexpected
	if !errors.As(err, &unexpected) {
		t.Fatalf("expected ErrUnexpected, got %v", err)
	}
	if unexpected.Status != 503 || unexpected.Body != "service unavailable" {
		t.Fatalf("unexpected error detail: %+v", unexpected)
	}
}

func TestServerURL(t *testing.T) {
	service, _ := makeTestService()

	server := service.NewServer()
	if _, err := server.URL(); err == nil {
		t.Fatalf("expected error for server without ID")
	} else {
		var noID *ErrNoID
		if !errors.As(err, &noID) {
			t.Fatalf("expected ErrNoID, got %v", err)
		}
	}

	server.ID = "42"
	url, err := server.URL("/ips/")
	if err != nil {
		t.Fatalf("URL returned error: %v", err)
	}
	if url != "https://compute.example.com/v2/servers/42/ips" {
		t.Fatalf("unexpected URL %s", url)
	}
}

func TestPrimaryAddress(t *testing.T) {
	service, _ := makeTestService()
	server := service.NewServer()
	server.AccessIPv4 = "203.0.113.5"
	server.AccessIPv6 = "2001:db8::5"

	if addr, err := server.PrimaryAddress(4); err != nil || addr != "203.0.113.5" {
		t.Fatalf("PrimaryAddress(4) = %q, %v", addr, err)
	}
	if addr, err := server.PrimaryAddress(6); err != nil || addr != "2001:db8::5" {
		t.Fatalf("PrimaryAddress(6) = %q, %v", addr, err)
	}

	_, err := server.PrimaryAddress(5)
	var invalid *ErrInvalidIPVersion
	if !errors.As(err, &invalid) {
		t.Fatalf("expected ErrInvalidIPVersion, got %v", err)
	}
}

func TestPreferredIP(t *testing.T) {
	service, _ := makeTestService()
	server := service.NewServer()
	server.Addresses = map[string][]Address{
		"private": {{Version: 4, Addr: "10.1.2.3"}},
		"public": {
			{Version: 6, Addr: "2001:db8::5"},
			{Version: 4, Addr: "203.0.113.5"},
		},
	}

	if ip := server.PreferredIP(); ip != "203.0.113.5" {
		t.Fatalf("PreferredIP = %s, expected the public IPv4", ip)
	}
	if ip := server.PreferredPrivateIP(); ip != "10.1.2.3" {
		t.Fatalf("PreferredPrivateIP = %s", ip)
	}
}

func TestCreate(t *testing.T) {
	service, fake := makeTestService()
	fake.queue(201, `{"server":{"id":"s1","status":"BUILD","adminPass":"secret1"}}`)

	server := service.NewServer()
	server.Image = &Image{Links: []Link{{Href: "I1", Rel: "self"}}}
	server.Flavor = &Flavor{Links: []Link{{Href: "F1", Rel: "self"}}}
	if err := server.Create(Params{FieldName: "n"}); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if len(fake.calls) != 1 {
		t.Fatalf("expected 1 call, got %d", len(fake.calls))
	}
	call := fake.calls[0]
	if call.Method != "POST" || call.URL != "https://compute.example.com/v2/servers" {
		t.Fatalf("unexpected request: %+v", call)
	}

	payload := bodyAsMap(t, call.Body)
	inner, ok := payload["server"].(map[string]interface{})
	if !ok {
		t.Fatalf("payload has no server object: %v", payload)
	}
	if inner["name"] != "n" || inner["imageRef"] != "I1" || inner["flavorRef"] != "F1" {
		t.Fatalf("unexpected creation payload: %v", inner)
	}
	meta, ok := inner["metadata"].(map[string]interface{})
	if !ok || meta["sdk"] != UserAgent {
		t.Fatalf("creation payload missing sdk metadata stamp: %v", inner)
	}

	if server.ID != "s1" || server.Status != "BUILD" || server.AdminPass != "secret1" {
		t.Fatalf("response fields not copied: %+v", server)
	}
}

func TestCreate_ClearsStaleIdentity(t *testing.T) {
	service, fake := makeTestService()
	fake.queue(201, `{"server":{"id":"fresh"}}`)

	server := service.NewServer()
	server.ID = "stale"
	server.Status = "ERROR"
	server.Image = &Image{ID: "img-1"}
	server.Flavor = &Flavor{ID: "flv-1"}
	if err := server.Create(nil); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if server.ID != "fresh" {
		t.Fatalf("stale ID survived: %s", server.ID)
	}
	if server.Status != "" {
		t.Fatalf("stale status survived: %s", server.Status)
	}
	// no links on image/flavor, so the bare IDs are the refs
	payload := bodyAsMap(t, fake.calls[0].Body)
	inner := payload["server"].(map[string]interface{})
	if inner["imageRef"] != "img-1" || inner["flavorRef"] != "flv-1" {
		t.Fatalf("unexpected refs: %v", inner)
	}
}

func TestCreate_Failure(t *testing.T) {
	service, fake := makeTestService()
	fake.queue(403, `quota exceeded`)

	server := service.NewServer()
	server.Image = &Image{ID: "i"}
	server.Flavor = &Flavor{ID: "f"}
	err := server.Create(Params{FieldName: "n"})
	var create *ErrCreate
	if !errors.As(err, &create) {
		t.Fatalf("expected ErrCreate, got %v", err)
	}
	if create.Status != 403 || create.Body != "quota exceeded" {
		t.Fatalf("unexpected error detail: %+v", create)
	}
}

func TestCreate_EmptyBody(t *testing.T) {
	service, fake := makeTestService()
	fake.queue(200, ``)

	server := service.NewServer()
	server.Image = &Image{ID: "i"}
	server.Flavor = &Flavor{ID: "f"}
	err := server.Create(nil)
	var unexpected *ErrUnexpected
	if !errors.As(err, &unexpected) {
		t.Fatalf("expected ErrUnexpected for empty body, got %v", err)
	}
}

func TestCreate_TransportFailure(t *testing.T) {
	service, fake := makeTestService()
	fake.err = errors.New("connection refused")

	server := service.NewServer()
	err := server.Create(nil)
	var httpErr *ErrHTTP
	if !errors.As(err, &httpErr) {
		t.Fatalf("expected ErrHTTP, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	service, fake := makeTestService()
	fake.queue(204, ``)

	server := service.NewServer()
	server.ID = "42"
	server.Status = "ACTIVE"
	if err := server.Delete(); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if fake.calls[0].Method != "DELETE" || fake.calls[0].URL != "https://compute.example.com/v2/servers/42" {
		t.Fatalf("unexpected request: %+v", fake.calls[0])
	}
	// local state is the caller's to discard
	if server.ID != "42" || server.Status != "ACTIVE" {
		t.Fatalf("Delete cleared local state: %+v", server)
	}
}

func TestDelete_Failure(t *testing.T) {
	service, fake := makeTestService()
	fake.queue(409, `locked`)

	server := service.NewServer()
	server.ID = "42"
	err := server.Delete()
	var del *ErrDelete
	if !errors.As(err, &del) {
		t.Fatalf("expected ErrDelete, got %v", err)
	}
	if del.Status != 409 || del.Body != "locked" {
		t.Fatalf("unexpected error detail: %+v", del)
	}
}

func TestUpdate_PayloadUsesMergedEntityValue(t *testing.T) {
	service, fake := makeTestService()
	fake.queue(200, `{}`)

	server := service.NewServer()
	server.ID = "42"
	server.Name = "before"
	if err := server.Update(Params{FieldName: "x"}); err != nil {
		t.Fatalf("Update returned error: %v", err)
	}

	if server.Name != "x" {
		t.Fatalf("params not merged onto entity: %s", server.Name)
	}
	call := fake.calls[0]
	if call.Method != "PUT" || call.URL != "https://compute.example.com/v2/servers/42" {
		t.Fatalf("unexpected request: %+v", call)
	}
	payload := bodyAsMap(t, call.Body)
	inner := payload["server"].(map[string]interface{})
	if len(inner) != 1 || inner["name"] != "x" {
		t.Fatalf("payload must hold exactly the updated field with the merged value: %v", inner)
	}
}

func TestUpdate_Failure(t *testing.T) {
	service, fake := makeTestService()
	fake.queue(400, `bad name`)

	server := service.NewServer()
	server.ID = "42"
	err := server.Update(Params{FieldName: "x"})
	var update *ErrUpdate
	if !errors.As(err, &update) {
		t.Fatalf("expected ErrUpdate, got %v", err)
	}
}

func TestApplyParams_UnknownFieldRejected(t *testing.T) {
	service, fake := makeTestService()

	server := service.NewServer()
	server.ID = "42"
	err := server.Update(Params{Field("bogus"): 1})
	var bad *ErrBadField
	if !errors.As(err, &bad) {
		t.Fatalf("expected ErrBadField, got %v", err)
	}
	if len(fake.calls) != 0 {
		t.Fatalf("rejected params still issued %d calls", len(fake.calls))
	}
}

func TestListAddresses(t *testing.T) {
	service, fake := makeTestService()

	// single-network response shape
	fake.queue(200, `{"network":[{"version":4,"addr":"10.0.0.1"}]}`)
	server := service.NewServer()
	server.ID = "42"
	addresses, err := server.ListAddresses("private")
	if err != nil {
		t.Fatalf("ListAddresses returned error: %v", err)
	}
	if fake.calls[0].URL != "https://compute.example.com/v2/servers/42/ips/private" {
		t.Fatalf("unexpected URL %s", fake.calls[0].URL)
	}
	expected := map[string][]Address{"private": {{Version: 4, Addr: "10.0.0.1"}}}
	if diff := cmp.Diff(expected, addresses); diff != "" {
		t.Fatalf("addresses mismatch (-want +got):\n%s", diff)
	}

	// all-networks response shape, addresses key preferred over network
	fake.queue(200, `{"addresses":{"public":[{"version":4,"addr":"203.0.113.5"}]},"network":[{"version":4,"addr":"10.0.0.1"}]}`)
	addresses, err = server.ListAddresses("")
	if err != nil {
		t.Fatalf("ListAddresses returned error: %v", err)
	}
	if fake.calls[1].URL != "https://compute.example.com/v2/servers/42/ips" {
		t.Fatalf("unexpected URL %s", fake.calls[1].URL)
	}
	expected = map[string][]Address{"public": {{Version: 4, Addr: "203.0.113.5"}}}
	if diff := cmp.Diff(expected, addresses); diff != "" {
		t.Fatalf("addresses mismatch (-want +got):\n%s", diff)
	}

	// neither key present
	fake.queue(200, `{}`)
	addresses, err = server.ListAddresses("")
	if err != nil {
		t.Fatalf("ListAddresses returned error: %v", err)
	}
	if addresses == nil || len(addresses) != 0 {
		t.Fatalf("expected empty non-nil map, got %v", addresses)
	}
}

func TestListAddresses_Failure(t *testing.T) {
	service, fake := makeTestService()
	fake.queue(500, `boom`)

	server := service.NewServer()
	server.ID = "42"
	_, err := server.ListAddresses("")
	var ips *ErrIPs
	if !errors.As(err, &ips) {
		t.Fatalf("expected ErrIPs, got %v", err)
	}
	if ips.Status != 500 || ips.Body != "boom" {
		t.Fatalf("unexpected error detail: %+v", ips)
	}
}

func TestListServers(t *testing.T) {
	service, fake := makeTestService()
	fake.queue(200, `{"servers":[{"id":"a","name":"one"},{"id":"b","name":"two","status":"ACTIVE"}]}`)

	servers, err := service.ListServers()
	if err != nil {
		t.Fatalf("ListServers returned error: %v", err)
	}
	if len(servers) != 2 {
		t.Fatalf("expected 2 servers, got %d", len(servers))
	}
	if servers[0].ID != "a" || servers[1].Status != "ACTIVE" {
		t.Fatalf("unexpected servers: %+v %+v", servers[0], servers[1])
	}
	if servers[0].Meta == nil {
		t.Fatalf("metadata must be non-nil after construction")
	}
}
