package mqtt

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"os"
	"testing"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/aguerin/carnet/infra/logger"
)

type captureHandler struct {
	readings []OdometerReading
}

func (c *captureHandler) HandleOdometer(r OdometerReading) {
	c.readings = append(c.readings, r)
}

func withMockClient(t *testing.T, mc *mockClient) {
	t.Helper()
	newMQTTClient = func(o *paho.ClientOptions) pahoClient { mc.opts = o; return mc }
	t.Cleanup(func() {
		newMQTTClient = func(opts *paho.ClientOptions) pahoClient { return paho.NewClient(opts) }
	})
}

func TestSubscriberSubscribesOnConnect(t *testing.T) {
	mc := &mockClient{}
	withMockClient(t, mc)

	cfg := Config{Enabled: true, Broker: "tcp://localhost:1883", QoS: 1}
	sub, err := NewSubscriber(cfg, &captureHandler{}, logger.NopLogger{})
	if err != nil {
		t.Fatalf("subscriber: %v", err)
	}
	defer sub.Close()

	if len(mc.subscribed) != 1 {
		t.Fatalf("expected one subscription, got %d", len(mc.subscribed))
	}
	if mc.subscribed[0].topic != "carnet/fleet/+/odometer" {
		t.Fatalf("unexpected topic %q", mc.subscribed[0].topic)
	}
	if mc.subscribed[0].qos != 1 {
		t.Fatalf("subscribe qos not applied")
	}
}

func TestSubscriberDeliversReadings(t *testing.T) {
	mc := &mockClient{}
	withMockClient(t, mc)

	h := &captureHandler{}
	sub, err := NewSubscriber(Config{Enabled: true, Broker: "tcp://localhost:1883"}, h, logger.NopLogger{})
	if err != nil {
		t.Fatalf("subscriber: %v", err)
	}
	defer sub.Close()

	mc.handler(nil, mockMessage{[]byte(`{"vehicle_id":"v1","odometer_km":42000,"recorded_at":"2025-03-01T10:00:00Z"}`)})
	if len(h.readings) != 1 {
		t.Fatalf("reading not delivered")
	}
	if h.readings[0].VehicleID != "v1" || h.readings[0].OdometerKm != 42000 {
		t.Fatalf("unexpected reading %+v", h.readings[0])
	}

	// Malformed payloads are dropped, not delivered.
	mc.handler(nil, mockMessage{[]byte(`not-json`)})
	mc.handler(nil, mockMessage{[]byte(`{"vehicle_id":"","odometer_km":1}`)})
	mc.handler(nil, mockMessage{[]byte(`{"vehicle_id":"v1","odometer_km":-5}`)})
	if len(h.readings) != 1 {
		t.Fatalf("malformed payload delivered")
	}
}

func TestConfigValidation(t *testing.T) {
	if err := (Config{Enabled: false}).Validate(); err != nil {
		t.Fatalf("disabled config must validate: %v", err)
	}
	if err := (Config{Enabled: true}).Validate(); err == nil {
		t.Fatalf("expected error without broker")
	}
}

func TestClientOptionsAuth(t *testing.T) {
	opts, err := newClientOptions(Config{Broker: "tcp://localhost:1883", ClientID: "id", Username: "u", Password: "p"})
	if err != nil {
		t.Fatalf("opts: %v", err)
	}
	if opts.Username != "u" || opts.Password != "p" {
		t.Fatalf("auth not set")
	}
}

// helper to generate a self-signed cert
func generateCert(t *testing.T) (certFile, keyFile, caFile string) {
	t.Helper()
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("gen key: %v", err)
	}
	tmpl := x509.Certificate{SerialNumber: big.NewInt(1), Subject: pkix.Name{CommonName: "test"}, NotBefore: time.Now(), NotAfter: time.Now().Add(time.Hour)}
	der, err := x509.CreateCertificate(rand.Reader, &tmpl, &tmpl, &priv.PublicKey, priv)
	if err != nil {
		t.Fatalf("create cert: %v", err)
	}
	certPEM := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})
	keyPEM := pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(priv)})

	dir := t.TempDir()
	certFile = dir + "/cert.pem"
	keyFile = dir + "/key.pem"
	caFile = dir + "/ca.pem"
	if err := os.WriteFile(certFile, certPEM, 0644); err != nil {
		t.Fatalf("write cert: %v", err)
	}
	if err := os.WriteFile(keyFile, keyPEM, 0644); err != nil {
		t.Fatalf("write key: %v", err)
	}
	if err := os.WriteFile(caFile, certPEM, 0644); err != nil {
		t.Fatalf("write ca: %v", err)
	}
	return
}

func TestTLSConfig(t *testing.T) {
	cert, key, ca := generateCert(t)
	tlsCfg, err := newTLSConfig(Config{UseTLS: true, ClientCert: cert, ClientKey: key, CABundle: ca})
	if err != nil {
		t.Fatalf("load tls: %v", err)
	}
	if len(tlsCfg.Certificates) == 0 {
		t.Fatalf("no certs loaded")
	}
	if tlsCfg.RootCAs == nil {
		t.Fatalf("no root CAs")
	}
}

// mockClient implements pahoClient for tests
type mockClient struct {
	opts       *paho.ClientOptions
	subscribed []struct {
		topic string
		qos   byte
	}
	handler paho.MessageHandler
}

func (m *mockClient) IsConnected() bool { return true }
func (m *mockClient) Connect() paho.Token {
	if m.opts != nil && m.opts.OnConnect != nil {
		m.opts.OnConnect(m)
	}
	return &dummyToken{}
}
func (m *mockClient) Disconnect(uint) {}
func (m *mockClient) Subscribe(topic string, qos byte, cb paho.MessageHandler) paho.Token {
	m.subscribed = append(m.subscribed, struct {
		topic string
		qos   byte
	}{topic, qos})
	m.handler = cb
	return &dummyToken{}
}
func (m *mockClient) Publish(string, byte, bool, interface{}) paho.Token { return &dummyToken{} }
func (m *mockClient) SubscribeMultiple(map[string]byte, paho.MessageHandler) paho.Token {
	return &dummyToken{}
}
func (m *mockClient) Unsubscribe(...string) paho.Token        { return &dummyToken{} }
func (m *mockClient) AddRoute(string, paho.MessageHandler)    {}
func (m *mockClient) OptionsReader() paho.ClientOptionsReader { return paho.ClientOptionsReader{} }
func (m *mockClient) IsConnectionOpen() bool                  { return true }

type dummyToken struct{ err error }

func (d dummyToken) Wait() bool                     { return true }
func (d dummyToken) WaitTimeout(time.Duration) bool { return true }
func (d dummyToken) Done() <-chan struct{}          { ch := make(chan struct{}); close(ch); return ch }
func (d dummyToken) Error() error                   { return d.err }

type mockMessage struct{ p []byte }

func (m mockMessage) Duplicate() bool   { return false }
func (m mockMessage) Qos() byte         { return 0 }
func (m mockMessage) Retained() bool    { return false }
func (m mockMessage) Topic() string     { return "" }
func (m mockMessage) MessageID() uint16 { return 0 }
func (m mockMessage) Payload() []byte   { return m.p }
func (m mockMessage) Ack()              {}
