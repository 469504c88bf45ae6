// Package mqtt streams computed charging schedules to an MQTT broker so
// they can be picked up by external dashboards.
package mqtt

import (
	"encoding/json"
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/kilianp07/gridtariff/core/model"
	"github.com/kilianp07/gridtariff/infra/logger"
)

// Config defines the connection parameters for the Paho MQTT publisher.
type Config struct {
	Enabled     bool   `json:"enabled"`
	Broker      string `json:"broker"`
	ClientID    string `json:"client_id"`
	Username    string `json:"username"`
	Password    string `json:"password"`
	TopicPrefix string `json:"topic_prefix"`
	QoS         byte   `json:"qos"`
	Retain      bool   `json:"retain"`
	TimeoutMS   int    `json:"timeout_ms"`
}

// SetDefaults fills unset fields.
func (c *Config) SetDefaults() {
	if c.ClientID == "" {
		c.ClientID = "gridtariff"
	}
	if c.TopicPrefix == "" {
		c.TopicPrefix = "gridtariff/schedule"
	}
	if c.TimeoutMS == 0 {
		c.TimeoutMS = 5000
	}
}

// Publisher sends a station's computed schedule to an external consumer.
type Publisher interface {
	PublishSchedule(modelName, stationID string, series model.LoadSeries) error
	Close()
}

type schedulePayload struct {
	Model   string          `json:"model"`
	Station string          `json:"station"`
	Entries []scheduleEntry `json:"entries"`
}

type scheduleEntry struct {
	Time    time.Time `json:"time"`
	PowerKW float64   `json:"power_kw"`
}

type pahoClient interface {
	Connect() paho.Token
	Disconnect(quiesce uint)
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
}

// newMQTTClient can be overridden in tests.
var newMQTTClient = func(opts *paho.ClientOptions) pahoClient {
	return paho.NewClient(opts)
}

// PahoPublisher implements Publisher using Eclipse Paho.
type PahoPublisher struct {
	cli     pahoClient
	cfg     Config
	log     logger.Logger
	timeout time.Duration
}

// NewPahoPublisher connects to the broker.
func NewPahoPublisher(cfg Config) (*PahoPublisher, error) {
	cfg.SetDefaults()
	opts := paho.NewClientOptions().AddBroker(cfg.Broker).SetClientID(cfg.ClientID)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}
	cli := newMQTTClient(opts)
	timeout := time.Duration(cfg.TimeoutMS) * time.Millisecond
	if token := cli.Connect(); !token.WaitTimeout(timeout) || token.Error() != nil {
		return nil, fmt.Errorf("mqtt connect %s: %v", cfg.Broker, token.Error())
	}
	return &PahoPublisher{cli: cli, cfg: cfg, log: logger.New("mqtt_publisher"), timeout: timeout}, nil
}

// PublishSchedule sends the schedule as one JSON message on
// <prefix>/<model>/<station>.
func (p *PahoPublisher) PublishSchedule(modelName, stationID string, series model.LoadSeries) error {
	payload := schedulePayload{Model: modelName, Station: stationID}
	for i, kw := range series.KW {
		payload.Entries = append(payload.Entries, scheduleEntry{Time: series.Timeline.At(i), PowerKW: kw})
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal schedule: %w", err)
	}
	topic := fmt.Sprintf("%s/%s/%s", p.cfg.TopicPrefix, modelName, stationID)
	token := p.cli.Publish(topic, p.cfg.QoS, p.cfg.Retain, data)
	if !token.WaitTimeout(p.timeout) || token.Error() != nil {
		return fmt.Errorf("publish %s: %v", topic, token.Error())
	}
	p.log.Debugf("published %d entries to %s", len(payload.Entries), topic)
	return nil
}

// Close disconnects from the broker.
func (p *PahoPublisher) Close() { p.cli.Disconnect(250) }

// MockPublisher records published schedules for tests.
type MockPublisher struct {
	Published map[string]model.LoadSeries
}

// NewMockPublisher creates a new MockPublisher.
func NewMockPublisher() *MockPublisher {
	return &MockPublisher{Published: make(map[string]model.LoadSeries)}
}

func (m *MockPublisher) PublishSchedule(modelName, stationID string, series model.LoadSeries) error {
	m.Published[modelName+"/"+stationID] = series
	return nil
}

func (m *MockPublisher) Close() {}
