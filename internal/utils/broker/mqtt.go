// Package broker publishes JSON messages to an MQTT broker.
package broker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/gofiber/fiber/v2/log"
	"strings"
	"sync"
	"time"
)

const (
	connectTimeout = 5 * time.Second
	publishTimeout = 2 * time.Second
)

var (
	ErrNotConnected   = errors.New("mqtt not connected")
	ErrPublishTimeout = errors.New("mqtt publish timeout")
)

type (
	Observer interface {
		Connected(connected bool)
		Delivered(took time.Duration)
		Failed()
	}

	Publisher struct {
		brokerURL string
		clientID  string
		qos       byte
		observer  Observer
		client    mqtt.Client

		mu        sync.RWMutex
		connected bool
	}
)

func NewPublisher(brokerURL, clientID string, observer Observer) *Publisher {
	if !strings.Contains(brokerURL, "://") {
		brokerURL = "tcp://" + brokerURL
	}
	return &Publisher{
		brokerURL: brokerURL,
		clientID:  clientID,
		qos:       1,
		observer:  observer,
	}
}

// Connect dials the broker. Reconnects after that happen in the background.
func (p *Publisher) Connect(ctx context.Context) error {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(p.brokerURL)
	opts.SetClientID(p.clientID)
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(2 * time.Second)
	opts.SetMaxReconnectInterval(30 * time.Second)

	opts.OnConnect = func(mqtt.Client) {
		p.setConnected(true)
		log.Infof("mqtt connection established (broker %s, client %s)", p.brokerURL, p.clientID)
	}
	opts.OnConnectionLost = func(_ mqtt.Client, err error) {
		p.setConnected(false)
		log.Warnf("mqtt connection lost, will auto-reconnect: %v", err)
	}

	p.client = mqtt.NewClient(opts)

	timeout := connectTimeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = min(timeout, time.Until(deadline))
	}

	token := p.client.Connect()
	if !token.WaitTimeout(timeout) {
		return fmt.Errorf("mqtt connection timeout")
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("mqtt connection failed: %w", err)
	}
	p.setConnected(true)
	return nil
}

// PublishJSON marshals v and publishes it to topic.
func (p *Publisher) PublishJSON(ctx context.Context, topic string, v any) error {
	if !p.isConnected() {
		p.failed()
		return ErrNotConnected
	}

	payload, err := json.Marshal(v)
	if err != nil {
		p.failed()
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	timeout := publishTimeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = min(timeout, time.Until(deadline))
	}

	start := time.Now()
	token := p.client.Publish(topic, p.qos, false, payload)
	if !token.WaitTimeout(timeout) {
		p.failed()
		return ErrPublishTimeout
	}
	if err := token.Error(); err != nil {
		p.failed()
		return fmt.Errorf("publish failed: %w", err)
	}

	if p.observer != nil {
		p.observer.Delivered(time.Since(start))
	}
	log.Debugf("mqtt message published to %s (%d bytes)", topic, len(payload))
	return nil
}

func (p *Publisher) Disconnect() {
	if p.client != nil && p.client.IsConnected() {
		p.client.Disconnect(250)
		log.Info("mqtt disconnected")
	}
	p.setConnected(false)
}

func (p *Publisher) setConnected(connected bool) {
	p.mu.Lock()
	p.connected = connected
	p.mu.Unlock()
	if p.observer != nil {
		p.observer.Connected(connected)
	}
}

func (p *Publisher) isConnected() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.connected
}

func (p *Publisher) failed() {
	if p.observer != nil {
		p.observer.Failed()
	}
}
