package compute

import "strings"

// Reboot types accepted by Reboot. The wire payload is upper-cased, so
// "soft" and "SOFT" are equivalent.
const (
	SoftReboot = "SOFT"
	HardReboot = "HARD"
)

// VNC console types understood by the service.
const (
	NoVNC  = "novnc"
	XVPVNC = "xvpvnc"
)

// action POSTs a payload to the server's action subresource. The payload
// serializes to exactly one top-level key naming the action.
func (server *Server) action(name string, payload interface{}) error {
	url, err := server.URL("action")
	if err != nil {
		return err
	}
	resp, err := server.service.requester.Do("POST", url, payload)
	if err != nil || resp == nil {
		return &ErrHTTP{Op: "action " + name, Err: err}
	} else if !resp.OK() {
		return &ErrAction{Name: name, Status: resp.StatusCode, Body: string(resp.Body)}
	}
	return nil
}

func (server *Server) Reboot(rebootType string) error {
	return server.action("reboot", rebootRequest{
		Reboot: rebootOpts{Type: strings.ToUpper(rebootType)},
	})
}

// CreateImage snapshots the server into a new image with the given name and
// metadata. An empty name fails before any network call.
func (server *Server) CreateImage(name string, metadata map[string]string) error {
	if name == "" {
		return &ErrImageName{}
	}
	return server.action("createImage", createImageRequest{
		CreateImage: createImageOpts{Name: name, Metadata: metadata},
	})
}

// Resize moves the server to the given flavor. The change stays pending
// until ResizeConfirm or ResizeRevert.
func (server *Server) Resize(flavor *Flavor) error {
	return server.action("resize", resizeRequest{
		Resize: resizeOpts{FlavorRef: flavor.URL()},
	})
}

// ResizeConfirm commits a pending resize, then refreshes the entity so the
// post-resize attributes are reconciled.
func (server *Server) ResizeConfirm() error {
	if err := server.action("confirmResize", confirmResizeRequest{}); err != nil {
		return err
	}
	return server.Refresh()
}

// ResizeRevert abandons a pending resize.
func (server *Server) ResizeRevert() error {
	return server.action("revertResize", revertResizeRequest{})
}

func (server *Server) SetPassword(newPassword string) error {
	return server.action("changePassword", changePasswordRequest{
		ChangePassword: changePasswordOpts{AdminPass: newPassword},
	})
}

// Rebuild reinstalls the server from the given image, optionally setting a
// new admin password.
func (server *Server) Rebuild(image *Image, adminPass string) error {
	return server.action("rebuild", rebuildRequest{
		Rebuild: rebuildOpts{ImageRef: image.URL(), AdminPass: adminPass},
	})
}

func (server *Server) Start() error {
	return server.action("os-start", startRequest{})
}

func (server *Server) Stop() error {
	return server.action("os-stop", stopRequest{})
}

func (server *Server) Rescue() error {
	return server.action("rescue", rescueRequest{})
}

func (server *Server) Unrescue() error {
	return server.action("unrescue", unrescueRequest{})
}

// GetVNC asks the service for a console URL of the given type (NoVNC when
// empty). This is the one action whose response body matters, so it goes
// through the requester directly.
func (server *Server) GetVNC(consoleType string) (string, error) {
	if consoleType == "" {
		consoleType = NoVNC
	}
	url, err := server.URL("action")
	if err != nil {
		return "", err
	}
	payload := vncConsoleRequest{VNCConsole: vncConsoleOpts{Type: consoleType}}
	resp, err := server.service.requester.Do("POST", url, payload)
	if err != nil || resp == nil {
		return "", &ErrHTTP{Op: "action os-getVNCConsole", Err: err}
	} else if !resp.OK() {
		return "", &ErrAction{Name: "os-getVNCConsole", Status: resp.StatusCode, Body: string(resp.Body)}
	}

	var out vncConsoleResponse
	if err := resp.Decode(&out); err != nil || out.Console.URL == "" {
		return "", &ErrUnexpected{Op: "action os-getVNCConsole", Status: resp.StatusCode, Body: string(resp.Body)}
	}
	return out.Console.URL, nil
}
