package atspi

import (
	"os"

	"github.com/godbus/dbus/v5"
	"github.com/pkg/errors"
)

// dbusBus implements Bus on a private connection to the accessibility bus
type dbusBus struct {
	conn *dbus.Conn
}

// dialBus asks the session bus where the accessibility bus lives and connects
// to it. AT_SPI_BUS_ADDRESS overrides the lookup.
func dialBus() (Bus, error) {
	addr := os.Getenv("AT_SPI_BUS_ADDRESS")
	if addr == "" {
		session, err := dbus.SessionBus()
		if err != nil {
			return nil, errors.Wrap(err, "session bus unavailable")
		}

		err = session.Object(a11yBusName, a11yBusPath).Call("org.a11y.Bus.GetAddress", 0).Store(&addr)
		if err != nil {
			return nil, errors.Wrap(err, "accessibility bus address unavailable")
		}
	}

	conn, err := dbus.Connect(addr)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to connect to accessibility bus %s", addr)
	}
	return &dbusBus{conn: conn}, nil
}

func (b *dbusBus) call(ref Ref, method string, args ...interface{}) *dbus.Call {
	return b.conn.Object(ref.Name, ref.Path).Call(method, 0, args...)
}

func (b *dbusBus) Children(ref Ref) ([]Ref, error) {
	var children []Ref
	err := b.call(ref, ifaceAccessible+".GetChildren").Store(&children)
	return children, err
}

func (b *dbusBus) States(ref Ref) ([]uint32, error) {
	var states []uint32
	err := b.call(ref, ifaceAccessible+".GetState").Store(&states)
	return states, err
}

func (b *dbusBus) Selections(ref Ref) ([][2]int32, error) {
	var n int32
	if err := b.call(ref, ifaceText+".GetNSelections").Store(&n); err != nil {
		return nil, err
	}

	return readSelections(n, func(i int32) (start, end int32, err error) {
		err = b.call(ref, ifaceText+".GetSelection", i).Store(&start, &end)
		return start, end, err
	})
}

// readSelections collects n selection ranges. Some toolkits report a
// negative count when nothing is selected.
func readSelections(n int32, get func(i int32) (int32, int32, error)) ([][2]int32, error) {
	if n <= 0 {
		return nil, nil
	}

	ranges := make([][2]int32, 0, n)
	for i := int32(0); i < n; i++ {
		start, end, err := get(i)
		if err != nil {
			return nil, err
		}
		ranges = append(ranges, [2]int32{start, end})
	}
	return ranges, nil
}

func (b *dbusBus) Text(ref Ref, start, end int32) (string, error) {
	var text string
	err := b.call(ref, ifaceText+".GetText", start, end).Store(&text)
	return text, err
}

func (b *dbusBus) Close() error {
	return b.conn.Close()
}
