package mqtt

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/kilianp07/gridtariff/core/model"
)

type fakeToken struct {
	err error
}

func (t *fakeToken) Wait() bool                     { return true }
func (t *fakeToken) WaitTimeout(time.Duration) bool { return true }
func (t *fakeToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}
func (t *fakeToken) Error() error { return t.err }

type fakeClient struct {
	connectErr error
	publishErr error

	topics   []string
	payloads [][]byte
}

func (c *fakeClient) Connect() paho.Token     { return &fakeToken{err: c.connectErr} }
func (c *fakeClient) Disconnect(quiesce uint) {}
func (c *fakeClient) Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token {
	c.topics = append(c.topics, topic)
	c.payloads = append(c.payloads, payload.([]byte))
	return &fakeToken{err: c.publishErr}
}

func withFakeClient(t *testing.T, cli *fakeClient) {
	t.Helper()
	orig := newMQTTClient
	newMQTTClient = func(opts *paho.ClientOptions) pahoClient { return cli }
	t.Cleanup(func() { newMQTTClient = orig })
}

func testSeries(t *testing.T) model.LoadSeries {
	t.Helper()
	start := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	tl, err := model.NewTimeline(start, start.Add(30*time.Minute), model.DefaultStep)
	if err != nil {
		t.Fatalf("new timeline: %v", err)
	}
	return model.LoadSeries{Timeline: tl, KW: []float64{5, 7.5}}
}

func TestPahoPublisherPublishSchedule(t *testing.T) {
	cli := &fakeClient{}
	withFakeClient(t, cli)

	pub, err := NewPahoPublisher(Config{Broker: "tcp://broker:1883"})
	if err != nil {
		t.Fatalf("new publisher: %v", err)
	}
	defer pub.Close()

	if err := pub.PublishSchedule("capacity", "st1", testSeries(t)); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if len(cli.topics) != 1 || cli.topics[0] != "gridtariff/schedule/capacity/st1" {
		t.Fatalf("topics = %v", cli.topics)
	}

	var payload struct {
		Model   string `json:"model"`
		Station string `json:"station"`
		Entries []struct {
			Time    time.Time `json:"time"`
			PowerKW float64   `json:"power_kw"`
		} `json:"entries"`
	}
	if err := json.Unmarshal(cli.payloads[0], &payload); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if payload.Model != "capacity" || payload.Station != "st1" {
		t.Errorf("payload = %+v", payload)
	}
	if len(payload.Entries) != 2 || payload.Entries[1].PowerKW != 7.5 {
		t.Errorf("entries = %+v", payload.Entries)
	}
}

func TestPahoPublisherConnectError(t *testing.T) {
	cli := &fakeClient{connectErr: errors.New("refused")}
	withFakeClient(t, cli)

	if _, err := NewPahoPublisher(Config{Broker: "tcp://broker:1883"}); err == nil {
		t.Fatal("expected connect error")
	}
}

func TestPahoPublisherPublishError(t *testing.T) {
	cli := &fakeClient{}
	withFakeClient(t, cli)

	pub, err := NewPahoPublisher(Config{Broker: "tcp://broker:1883"})
	if err != nil {
		t.Fatalf("new publisher: %v", err)
	}
	cli.publishErr = errors.New("timeout")
	if err := pub.PublishSchedule("capacity", "st1", testSeries(t)); err == nil {
		t.Fatal("expected publish error")
	}
}

func TestMockPublisher(t *testing.T) {
	m := NewMockPublisher()
	series := testSeries(t)
	if err := m.PublishSchedule("capacity", "st1", series); err != nil {
		t.Fatalf("publish: %v", err)
	}
	got, ok := m.Published["capacity/st1"]
	if !ok || len(got.KW) != 2 {
		t.Errorf("published = %+v", m.Published)
	}
}
