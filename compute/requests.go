package compute

import "encoding/json"

// requests

type createRequest struct {
	Server createOpts `json:"server"`
}

type createOpts struct {
	Name      string            `json:"name"`
	ImageRef  string            `json:"imageRef"`
	FlavorRef string            `json:"flavorRef"`
	Metadata  map[string]string `json:"metadata"`
}

type updateRequest struct {
	Server map[string]interface{} `json:"server"`
}

type keyPairRequest struct {
	KeyPair keyPairOpts `json:"keypair"`
}

type keyPairOpts struct {
	Name      string `json:"name"`
	PublicKey string `json:"public_key,omitempty"`
}

// action payloads, one top-level key each

type rebootRequest struct {
	Reboot rebootOpts `json:"reboot"`
}

type rebootOpts struct {
	Type string `json:"type"`
}

type createImageRequest struct {
	CreateImage createImageOpts `json:"createImage"`
}

type createImageOpts struct {
	Name     string            `json:"name"`
	Metadata map[string]string `json:"metadata"`
}

type resizeRequest struct {
	Resize resizeOpts `json:"resize"`
}

type resizeOpts struct {
	FlavorRef string `json:"flavorRef"`
}

type confirmResizeRequest struct {
	ConfirmResize interface{} `json:"confirmResize"`
}

type revertResizeRequest struct {
	RevertResize interface{} `json:"revertResize"`
}

type changePasswordRequest struct {
	ChangePassword changePasswordOpts `json:"changePassword"`
}

type changePasswordOpts struct {
	AdminPass string `json:"adminPass"`
}

type rebuildRequest struct {
	Rebuild rebuildOpts `json:"rebuild"`
}

type rebuildOpts struct {
	ImageRef  string `json:"imageRef"`
	AdminPass string `json:"adminPass,omitempty"`
}

type startRequest struct {
	Start interface{} `json:"os-start"`
}

type stopRequest struct {
	Stop interface{} `json:"os-stop"`
}

type rescueRequest struct {
	Rescue interface{} `json:"rescue"`
}

type unrescueRequest struct {
	Unrescue interface{} `json:"unrescue"`
}

type vncConsoleRequest struct {
	VNCConsole vncConsoleOpts `json:"os-getVNCConsole"`
}

type vncConsoleOpts struct {
	Type string `json:"type"`
}

// responses

type serverResponse struct {
	Server json.RawMessage `json:"server"`
}

type serverListResponse struct {
	Servers []json.RawMessage `json:"servers"`
}

type flavorListResponse struct {
	Flavors []*Flavor `json:"flavors"`
}

type imageListResponse struct {
	Images []*Image `json:"images"`
}

type addressesResponse struct {
	Addresses map[string][]Address `json:"addresses"`
	Network   []Address            `json:"network"`
}

type metadataResponse struct {
	Metadata map[string]string `json:"metadata"`
	Meta     map[string]string `json:"meta"`
}

type metadataRequest struct {
	Metadata map[string]string `json:"metadata"`
}

type metadataItemRequest struct {
	Meta map[string]string `json:"meta"`
}

type keyPairResponse struct {
	KeyPair *KeyPair `json:"keypair"`
}

type vncConsoleResponse struct {
	Console struct {
		Type string `json:"type"`
		URL  string `json:"url"`
	} `json:"console"`
}
