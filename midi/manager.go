package midi

import (
	"context"
	"fmt"

	gomidi "gitlab.com/gomidi/midi/v2"
)

// GomidiSource is the PortSource backed by the registered gomidi driver.
// The driver itself is registered by the binary (e.g. rtmididrv).
type GomidiSource struct{}

// Ports lists input and output port names. Listing runs in a goroutine
// because CoreMIDI can hang; a hung scan returns ctx.Err().
func (GomidiSource) Ports(ctx context.Context) (ins, outs []string, err error) {
	type portsResult struct {
		ins  []string
		outs []string
	}

	ch := make(chan portsResult, 1)
	go func() {
		var res portsResult
		for _, p := range gomidi.GetInPorts() {
			res.ins = append(res.ins, p.String())
		}
		for _, p := range gomidi.GetOutPorts() {
			res.outs = append(res.outs, p.String())
		}
		ch <- res
	}()

	select {
	case res := <-ch:
		return res.ins, res.outs, nil
	case <-ctx.Done():
		// User needs to run: sudo killall coreaudiod midiserver
		return nil, nil, fmt.Errorf("port listing timed out: %w", ctx.Err())
	}
}

// OpenInput starts listening on the named input port
func (GomidiSource) OpenInput(name string, recv func(msg gomidi.Message, timestampms int32)) (func(), error) {
	in, err := gomidi.FindInPort(name)
	if err != nil {
		return nil, err
	}
	stop, err := gomidi.ListenTo(in, recv)
	if err != nil {
		return nil, fmt.Errorf("listen: %w", err)
	}
	return stop, nil
}

// OpenOutput opens the named output port for sending
func (GomidiSource) OpenOutput(name string) (func(gomidi.Message) error, func() error, error) {
	out, err := gomidi.FindOutPort(name)
	if err != nil {
		return nil, nil, err
	}
	send, err := gomidi.SendTo(out)
	if err != nil {
		return nil, nil, fmt.Errorf("open output: %w", err)
	}
	return send, out.Close, nil
}
