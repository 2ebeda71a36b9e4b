package mqtt

import (
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"fmt"
	"os"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"github.com/aguerin/carnet/core/logger"
)

// Config defines the connection parameters for the odometer telemetry
// subscriber.
type Config struct {
	Enabled    bool   `json:"enabled"`
	Broker     string `json:"broker"`
	ClientID   string `json:"client_id"`
	Username   string `json:"username"`
	Password   string `json:"password"`
	Topic      string `json:"topic"`
	QoS        byte   `json:"qos"`
	UseTLS     bool   `json:"use_tls"`
	ClientCert string `json:"client_cert"`
	ClientKey  string `json:"client_key"`
	CABundle   string `json:"ca_bundle"`
}

// SetDefaults applies the default topic filter and a random client id.
func (c *Config) SetDefaults() {
	if c.Topic == "" {
		c.Topic = "carnet/fleet/+/odometer"
	}
	if c.ClientID == "" {
		c.ClientID = "carnet-" + uuid.NewString()[:8]
	}
}

// Validate checks mandatory fields when the subscriber is enabled.
func (c Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.Broker == "" {
		return fmt.Errorf("broker is required")
	}
	return nil
}

// OdometerReading is the telemetry payload vehicles publish.
type OdometerReading struct {
	VehicleID  string    `json:"vehicle_id"`
	OdometerKm int       `json:"odometer_km"`
	RecordedAt time.Time `json:"recorded_at"`
}

// ReadingHandler consumes decoded odometer readings.
type ReadingHandler interface {
	HandleOdometer(r OdometerReading)
}

// pahoClient is the slice of the Paho API the subscriber uses; tests swap
// in a mock through newMQTTClient.
type pahoClient interface {
	IsConnected() bool
	Connect() paho.Token
	Disconnect(quiesce uint)
	Subscribe(topic string, qos byte, callback paho.MessageHandler) paho.Token
}

var newMQTTClient = func(opts *paho.ClientOptions) pahoClient {
	return paho.NewClient(opts)
}

// Subscriber feeds odometer telemetry from the MQTT broker into a
// ReadingHandler.
type Subscriber struct {
	cli     pahoClient
	topic   string
	qos     byte
	handler ReadingHandler
	log     logger.Logger
}

// NewSubscriber connects to the broker and subscribes to the odometer
// topic. The subscription is re-established on every reconnect.
func NewSubscriber(cfg Config, h ReadingHandler, log logger.Logger) (*Subscriber, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	opts, err := newClientOptions(cfg)
	if err != nil {
		return nil, err
	}

	s := &Subscriber{topic: cfg.Topic, qos: cfg.QoS, handler: h, log: log}
	opts.OnConnect = func(c paho.Client) {
		log.Infof("MQTT connected")
		if token := c.Subscribe(s.topic, s.qos, s.onMessage); token.Wait() && token.Error() != nil {
			log.Errorf("subscribe error: %v", token.Error())
		}
	}
	opts.OnConnectionLost = func(_ paho.Client, err error) {
		log.Errorf("connection lost: %v", err)
	}
	opts.OnReconnecting = func(_ paho.Client, _ *paho.ClientOptions) {
		log.Warnf("reconnecting to MQTT broker")
	}

	cli := newMQTTClient(opts)
	if token := cli.Connect(); token.Wait() && token.Error() != nil {
		return nil, token.Error()
	}
	s.cli = cli
	return s, nil
}

func (s *Subscriber) onMessage(_ paho.Client, msg paho.Message) {
	var r OdometerReading
	if err := json.Unmarshal(msg.Payload(), &r); err != nil {
		s.log.Errorf("invalid odometer payload on %s: %v", msg.Topic(), err)
		return
	}
	if r.VehicleID == "" || r.OdometerKm < 0 {
		s.log.Warnf("dropping malformed reading on %s", msg.Topic())
		return
	}
	s.handler.HandleOdometer(r)
}

// Close disconnects from the broker.
func (s *Subscriber) Close() {
	if s.cli != nil && s.cli.IsConnected() {
		s.cli.Disconnect(250)
	}
}

func newClientOptions(cfg Config) (*paho.ClientOptions, error) {
	opts := paho.NewClientOptions().AddBroker(cfg.Broker).SetClientID(cfg.ClientID)
	opts.AutoReconnect = true
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}
	if cfg.UseTLS {
		tlsCfg, err := newTLSConfig(cfg)
		if err != nil {
			return nil, err
		}
		opts.SetTLSConfig(tlsCfg)
	}
	return opts, nil
}

func newTLSConfig(cfg Config) (*tls.Config, error) {
	tlsCfg := &tls.Config{MinVersion: tls.VersionTLS12}
	if cfg.CABundle != "" {
		pem, err := os.ReadFile(cfg.CABundle)
		if err != nil {
			return nil, fmt.Errorf("read ca bundle: %w", err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(pem) {
			return nil, fmt.Errorf("no certificates in %s", cfg.CABundle)
		}
		tlsCfg.RootCAs = pool
	}
	if cfg.ClientCert != "" && cfg.ClientKey != "" {
		cert, err := tls.LoadX509KeyPair(cfg.ClientCert, cfg.ClientKey)
		if err != nil {
			return nil, fmt.Errorf("load client certificate: %w", err)
		}
		tlsCfg.Certificates = []tls.Certificate{cert}
	}
	return tlsCfg, nil
}
