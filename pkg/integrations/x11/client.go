package x11

import (
	"encoding/binary"
	"strings"
	"time"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
	"github.com/pkg/errors"
)

var atomNames = []string{
	"_NET_ACTIVE_WINDOW",
	"_NET_WM_NAME",
	"_NET_WM_PID",
	"WM_NAME",
	"WM_CLASS",
	"UTF8_STRING",
}

// Client is a thin X11 protocol connection used for focused-window lookups
// and XTEST key injection.
type Client struct {
	conn  *xgb.Conn
	root  xproto.Window
	atoms map[string]xproto.Atom
}

// Dial connects to the X server named by $DISPLAY and interns the atoms the
// detector needs.
func Dial() (*Client, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to X server")
	}

	setup := xproto.Setup(conn)
	client := &Client{
		conn:  conn,
		root:  setup.DefaultScreen(conn).Root,
		atoms: make(map[string]xproto.Atom, len(atomNames)),
	}

	for _, name := range atomNames {
		reply, err := xproto.InternAtom(conn, false, uint16(len(name)), name).Reply()
		if err != nil {
			conn.Close()
			return nil, errors.Wrapf(err, "failed to intern atom %s", name)
		}
		client.atoms[name] = reply.Atom
	}

	return client, nil
}

// Close closes the connection
func (c *Client) Close() {
	c.conn.Close()
}

func (c *Client) getProperty(win xproto.Window, atom xproto.Atom, atomType xproto.Atom, length uint32) ([]byte, error) {
	reply, err := xproto.GetProperty(c.conn, false, win, atom, atomType, 0, length).Reply()
	if err != nil {
		return nil, err
	}
	return reply.Value, nil
}

func (c *Client) activeWindowFromProperty() xproto.Window {
	data, err := c.getProperty(c.root, c.atoms["_NET_ACTIVE_WINDOW"], xproto.AtomWindow, 1)
	if err != nil || len(data) < 4 {
		return 0
	}
	return xproto.Window(binary.LittleEndian.Uint32(data))
}

func (c *Client) activeWindowFromInputFocus() xproto.Window {
	reply, err := xproto.GetInputFocus(c.conn).Reply()
	if err != nil {
		return 0
	}
	return reply.Focus
}

func (c *Client) topLevelParent(win xproto.Window) xproto.Window {
	for {
		reply, err := xproto.QueryTree(c.conn, win).Reply()
		if err != nil || reply.Parent == c.root || reply.Parent == 0 {
			return win
		}
		win = reply.Parent
	}
}

func (c *Client) hasName(win xproto.Window) bool {
	data, _ := c.getProperty(win, c.atoms["_NET_WM_NAME"], c.atoms["UTF8_STRING"], 1)
	if len(data) > 0 {
		return true
	}
	data, _ = c.getProperty(win, c.atoms["WM_NAME"], xproto.AtomString, 1)
	return len(data) > 0
}

// ActiveWindow returns the focused top-level window. Window managers update
// _NET_ACTIVE_WINDOW asynchronously, so a few short retries are made before
// giving up.
func (c *Client) ActiveWindow() (xproto.Window, error) {
	for i := 0; i < 3; i++ {
		win := c.activeWindowFromProperty()
		if win != 0 && c.hasName(win) {
			return win, nil
		}

		win = c.activeWindowFromInputFocus()
		if win != 0 && win != c.root {
			top := c.topLevelParent(win)
			if top != 0 && c.hasName(top) {
				return top, nil
			}
		}

		time.Sleep(20 * time.Millisecond)
	}

	return 0, errors.New("no active x11 window")
}

// WindowName returns the window title
func (c *Client) WindowName(win xproto.Window) string {
	data, err := c.getProperty(win, c.atoms["_NET_WM_NAME"], c.atoms["UTF8_STRING"], 256)
	if err == nil && len(data) > 0 {
		return strings.TrimRight(string(data), "\x00")
	}

	data, err = c.getProperty(win, c.atoms["WM_NAME"], xproto.AtomString, 256)
	if err == nil && len(data) > 0 {
		return strings.TrimRight(string(data), "\x00")
	}

	return ""
}

// WindowClass returns the WM_CLASS instance and class names
func (c *Client) WindowClass(win xproto.Window) (instance, class string) {
	data, err := c.getProperty(win, c.atoms["WM_CLASS"], xproto.AtomString, 256)
	if err != nil {
		return "", ""
	}
	return splitWMClass(data)
}

// WindowPID returns _NET_WM_PID, or 0 when the client does not set it
func (c *Client) WindowPID(win xproto.Window) uint32 {
	data, err := c.getProperty(win, c.atoms["_NET_WM_PID"], xproto.AtomCardinal, 1)
	if err != nil || len(data) < 4 {
		return 0
	}
	return binary.LittleEndian.Uint32(data)
}

// splitWMClass splits the two NUL-terminated strings of a WM_CLASS property
func splitWMClass(data []byte) (instance, class string) {
	parts := strings.Split(strings.TrimRight(string(data), "\x00"), "\x00")
	if len(parts) >= 1 {
		instance = parts[0]
	}
	if len(parts) >= 2 {
		class = parts[1]
	}
	return instance, class
}
