package sim

import (
	"fmt"
	"sync"

	"github.com/edwingeng/deque"
	"github.com/phroun/lilduino/hal"
	"github.com/phroun/lilduino/ir"
)

// Transmission is one recorded IR send.
type Transmission struct {
	Pin      hal.Pin
	Protocol ir.Protocol
	Value    uint64
	Bits     uint
	Repeats  uint16
}

// IR is an infrared transceiver bank. Codes handed to Inject are decoded
// by the receiver on that pin, oldest first.
type IR struct {
	mu        sync.Mutex
	queues    map[hal.Pin]deque.Deque
	sent      []Transmission
	receivers map[hal.Pin]int
	configs   map[hal.Pin]hal.ReceiverConfig
}

// NewIR creates a transceiver bank with nothing queued.
func NewIR() *IR {
	return &IR{
		queues:    make(map[hal.Pin]deque.Deque),
		receivers: make(map[hal.Pin]int),
		configs:   make(map[hal.Pin]hal.ReceiverConfig),
	}
}

func (x *IR) queue(pin hal.Pin) deque.Deque {
	q, ok := x.queues[pin]
	if !ok {
		q = deque.NewDeque()
		x.queues[pin] = q
	}
	return q
}

// Inject queues a code for the receiver on pin.
func (x *IR) Inject(pin hal.Pin, msg ir.Message) {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.queue(pin).PushBack(msg)
}

// Sent lists every transmission in order.
func (x *IR) Sent() []Transmission {
	x.mu.Lock()
	defer x.mu.Unlock()
	return append([]Transmission(nil), x.sent...)
}

// ReceiversBuilt reports how many receivers were built for pin.
func (x *IR) ReceiversBuilt(pin hal.Pin) int {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.receivers[pin]
}

// ReceiverConfig returns the settings the last receiver on pin was built with.
func (x *IR) ReceiverConfig(pin hal.Pin) (hal.ReceiverConfig, bool) {
	x.mu.Lock()
	defer x.mu.Unlock()
	cfg, ok := x.configs[pin]
	return cfg, ok
}

func (x *IR) NewSender(pin hal.Pin) (hal.IRSender, error) {
	return &irSender{bank: x, pin: pin}, nil
}

func (x *IR) NewReceiver(pin hal.Pin, cfg hal.ReceiverConfig) (hal.IRReceiver, error) {
	if cfg.BufferSize <= 0 {
		return nil, fmt.Errorf("ir: receive buffer size must be positive, got %d", cfg.BufferSize)
	}
	x.mu.Lock()
	defer x.mu.Unlock()
	x.receivers[pin]++
	x.configs[pin] = cfg
	return &irReceiver{bank: x, pin: pin}, nil
}

type irSender struct {
	bank *IR
	pin  hal.Pin
}

func (s *irSender) Send(protocol ir.Protocol, value uint64, bits uint, repeats uint16) error {
	s.bank.mu.Lock()
	defer s.bank.mu.Unlock()
	s.bank.sent = append(s.bank.sent, Transmission{
		Pin:      s.pin,
		Protocol: protocol,
		Value:    value,
		Bits:     bits,
		Repeats:  repeats,
	})
	return nil
}

type irReceiver struct {
	bank *IR
	pin  hal.Pin
}

func (r *irReceiver) Decode() (ir.Message, bool) {
	r.bank.mu.Lock()
	defer r.bank.mu.Unlock()
	q := r.bank.queue(r.pin)
	if q.Len() == 0 {
		return ir.Message{}, false
	}
	return q.PopFront().(ir.Message), true
}
