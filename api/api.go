package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/StratoNode/strato/compute"
)

const DEFAULT_TIMEOUT = 30 * time.Second

// Client is the HTTP transport collaborator behind compute.Service. It
// owns authentication headers and timeouts; it performs no retries and
// interprets nothing about status codes.
type Client struct {
	Endpoint string
	Token    string
	HTTP     *http.Client
	Log      *logrus.Logger
}

func MakeClient(endpoint string, token string) *Client {
	client := new(Client)
	client.Endpoint = endpoint
	client.Token = token
	client.HTTP = &http.Client{Timeout: DEFAULT_TIMEOUT}
	client.Log = logrus.New()
	return client
}

// MakeService wires a client to a compute.Service rooted at the client's
// endpoint.
func (client *Client) MakeService() *compute.Service {
	return compute.MakeService(client, client.Endpoint)
}

func (client *Client) Do(method string, url string, body interface{}) (*compute.Response, error) {
	// encode body, if any
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, errors.Wrap(err, "encoding request body")
		}
		reader = bytes.NewReader(data)
	}

	request, err := http.NewRequest(method, url, reader)
	if err != nil {
		return nil, errors.Wrapf(err, "building %s request for %s", method, url)
	}
	request.Header.Set("Accept", "application/json")
	request.Header.Set("User-Agent", compute.UserAgent)
	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	if client.Token != "" {
		request.Header.Set("X-Auth-Token", client.Token)
	}

	client.Log.WithFields(logrus.Fields{
		"method": method,
		"url":    url,
	}).Debug("api request")

	response, err := client.HTTP.Do(request)
	if err != nil {
		return nil, errors.Wrapf(err, "%s %s", method, url)
	}
	defer response.Body.Close()
	responseBytes, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "reading response body for %s %s", method, url)
	}

	client.Log.WithFields(logrus.Fields{
		"method": method,
		"url":    url,
		"status": response.StatusCode,
	}).Debug("api response")

	return &compute.Response{
		StatusCode: response.StatusCode,
		Body:       responseBytes,
	}, nil
}
