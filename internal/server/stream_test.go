package server_test

import (
	"context"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/gorilla/websocket"

	"github.com/san-kum/mdwatch/internal/hub"
	"github.com/san-kum/mdwatch/internal/observe"
	"github.com/san-kum/mdwatch/internal/report"
	"github.com/san-kum/mdwatch/internal/sample"
	"github.com/san-kum/mdwatch/internal/server"
	"github.com/san-kum/mdwatch/internal/sim"
)

var _ = Describe("live streaming", func() {
	var (
		h   *hub.Hub
		ts  *httptest.Server
		drv *sim.Driver
	)

	BeforeEach(func() {
		h = hub.New()

		set, err := observe.NewRegistry().NewSet("total", "temperature")
		Expect(err).NotTo(HaveOccurred())
		rep, err := report.New(200, set, h)
		Expect(err).NotTo(HaveOccurred())
		h.SetHello(rep.Labels())

		drv, err = sim.NewDriver(sim.NewHarmonicChain(8), sim.Config{
			Dt:          0.0005,
			Box:         [3]float64{5, 5, 5},
			Temperature: 300,
			Seed:        3,
		})
		Expect(err).NotTo(HaveOccurred())
		drv.AddReporter(rep)

		ts = httptest.NewServer(server.New("localhost:0", h).Handler())
	})

	AfterEach(func() {
		h.Close()
		ts.Close()
	})

	dial := func() *websocket.Conn {
		url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
		conn, _, err := websocket.DefaultDialer.Dial(url, nil)
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(func() { conn.Close() })
		return conn
	}

	readMsg := func(conn *websocket.Conn) any {
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		_, data, err := conn.ReadMessage()
		Expect(err).NotTo(HaveOccurred())
		msg, err := sample.Decode(data)
		Expect(err).NotTo(HaveOccurred())
		return msg
	}

	It("serves the chart page at the root", func() {
		resp, err := http.Get(ts.URL + "/")
		Expect(err).NotTo(HaveOccurred())
		defer resp.Body.Close()

		Expect(resp.StatusCode).To(Equal(http.StatusOK))
		Expect(resp.Header.Get("Content-Type")).To(HavePrefix("text/html"))
		body, err := io.ReadAll(resp.Body)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(body)).To(ContainSubstring("WebSocket"))
		Expect(string(body)).To(ContainSubstring("mdwatch"))
	})

	It("returns 404 for unknown paths", func() {
		resp, err := http.Get(ts.URL + "/nope")
		Expect(err).NotTo(HaveOccurred())
		resp.Body.Close()
		Expect(resp.StatusCode).To(Equal(http.StatusNotFound))
	})

	It("rejects non-GET on the upgrade endpoint", func() {
		resp, err := http.Post(ts.URL+"/ws", "text/plain", nil)
		Expect(err).NotTo(HaveOccurred())
		resp.Body.Close()
		Expect(resp.StatusCode).To(Equal(http.StatusMethodNotAllowed))
	})

	It("delivers one ordered sample per interval boundary", func() {
		conn := dial()
		Eventually(h.ClientCount).Should(Equal(1))

		Expect(drv.Run(context.Background(), 1000)).To(Succeed())

		Expect(readMsg(conn)).To(BeAssignableToTypeOf(sample.Hello{}))

		var steps []int
		for i := 0; i < 5; i++ {
			msg := readMsg(conn)
			s, ok := msg.(sample.Sample)
			Expect(ok).To(BeTrue(), "expected a sample, got %T", msg)

			steps = append(steps, s.Step)
			Expect(s.Values).To(HaveLen(2))
			Expect(s.Values).To(HaveKey("total_energy"))
			Expect(s.Values).To(HaveKey("temperature"))
			for name, v := range s.Values {
				Expect(math.IsNaN(v)).To(BeFalse(), "%s is NaN", name)
				Expect(math.IsInf(v, 0)).To(BeFalse(), "%s is infinite", name)
			}
		}
		Expect(steps).To(Equal([]int{200, 400, 600, 800, 1000}))

		// Nothing beyond the five boundary samples.
		conn.SetReadDeadline(time.Now().Add(100 * time.Millisecond))
		_, _, err := conn.ReadMessage()
		Expect(err).To(HaveOccurred())
	})

	It("gives a late joiner only samples produced after it connected", func() {
		first := dial()
		Eventually(h.ClientCount).Should(Equal(1))

		Expect(drv.Run(context.Background(), 600)).To(Succeed())

		late := dial()
		Eventually(h.ClientCount).Should(Equal(2))

		Expect(drv.Run(context.Background(), 400)).To(Succeed())

		Expect(readMsg(late)).To(BeAssignableToTypeOf(sample.Hello{}))
		s, ok := readMsg(late).(sample.Sample)
		Expect(ok).To(BeTrue())
		Expect(s.Step).To(Equal(800))
		s, ok = readMsg(late).(sample.Sample)
		Expect(ok).To(BeTrue())
		Expect(s.Step).To(Equal(1000))

		Expect(readMsg(first)).To(BeAssignableToTypeOf(sample.Hello{}))
		for _, want := range []int{200, 400, 600, 800, 1000} {
			s, ok := readMsg(first).(sample.Sample)
			Expect(ok).To(BeTrue())
			Expect(s.Step).To(Equal(want))
		}
	})

	It("keeps the simulation running with zero clients", func() {
		Expect(drv.Run(context.Background(), 1000)).To(Succeed())
		Expect(drv.Step()).To(Equal(1000))
	})
})
