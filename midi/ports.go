package midi

import (
	"errors"
	"fmt"
	"strings"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
)

// ErrScanTimeout is returned when the driver does not answer a port scan
var ErrScanTimeout = errors.New("midi port scan timed out")

// DefaultScanTimeout bounds a port scan (CoreMIDI can hang)
const DefaultScanTimeout = 3 * time.Second

// Ports lists port names by direction
type Ports struct {
	In  []string
	Out []string
}

type portsResult struct {
	inPorts  []drivers.In
	outPorts []drivers.Out
}

// scan reads the driver's ports, giving up after timeout
func scan(timeout time.Duration) (portsResult, error) {
	ch := make(chan portsResult, 1)
	go func() {
		ch <- portsResult{
			inPorts:  gomidi.GetInPorts(),
			outPorts: gomidi.GetOutPorts(),
		}
	}()

	select {
	case result := <-ch:
		return result, nil
	case <-time.After(timeout):
		// on macOS: sudo killall coreaudiod midiserver
		return portsResult{}, ErrScanTimeout
	}
}

// ListPorts returns the names of all MIDI ports
func ListPorts(timeout time.Duration) (Ports, error) {
	result, err := scan(timeout)
	if err != nil {
		return Ports{}, err
	}

	var p Ports
	for _, in := range result.inPorts {
		p.In = append(p.In, in.String())
	}
	for _, out := range result.outPorts {
		p.Out = append(p.Out, out.String())
	}
	return p, nil
}

// matchPort picks the index of the port named name: an exact match first,
// then a case-insensitive substring. An empty name picks the first port.
func matchPort(names []string, name string) int {
	if len(names) == 0 {
		return -1
	}
	if name == "" {
		return 0
	}
	for i, n := range names {
		if n == name {
			return i
		}
	}
	want := strings.ToLower(name)
	for i, n := range names {
		if strings.Contains(strings.ToLower(n), want) {
			return i
		}
	}
	return -1
}

func findOutPort(name string) (drivers.Out, error) {
	result, err := scan(DefaultScanTimeout)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(result.outPorts))
	for i, p := range result.outPorts {
		names[i] = p.String()
	}
	i := matchPort(names, name)
	if i < 0 {
		return nil, fmt.Errorf("output %q: %w", name, ErrPortNotFound)
	}
	return result.outPorts[i], nil
}

func findInPort(name string) (drivers.In, error) {
	result, err := scan(DefaultScanTimeout)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(result.inPorts))
	for i, p := range result.inPorts {
		names[i] = p.String()
	}
	i := matchPort(names, name)
	if i < 0 {
		return nil, fmt.Errorf("input %q: %w", name, ErrPortNotFound)
	}
	return result.inPorts[i], nil
}
