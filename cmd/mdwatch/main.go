package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"

	"github.com/san-kum/mdwatch/internal/config"
	"github.com/san-kum/mdwatch/internal/hub"
	"github.com/san-kum/mdwatch/internal/observe"
	"github.com/san-kum/mdwatch/internal/report"
	"github.com/san-kum/mdwatch/internal/sample"
	"github.com/san-kum/mdwatch/internal/server"
	"github.com/san-kum/mdwatch/internal/sim"
	"github.com/san-kum/mdwatch/internal/tui"
)

var (
	configFile  string
	host        string
	port        int
	interval    int
	observables []string
	model       string
	particles   int
	dt          float64
	steps       int
	seed        int64
	box         float64
	temperature float64

	watchURL string
)

func main() {
	root := &cobra.Command{
		Use:   "mdwatch",
		Short: "stream molecular simulation observables to a live browser chart",
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run the demo simulation and serve live charts",
		RunE:  runSimulation,
	}
	runCmd.Flags().StringVarP(&configFile, "config", "c", "", "yaml config file")
	runCmd.Flags().StringVar(&host, "host", config.DefaultHost, "listen host")
	runCmd.Flags().IntVarP(&port, "port", "p", config.DefaultPort, "listen port")
	runCmd.Flags().IntVarP(&interval, "interval", "i", config.DefaultInterval, "steps between samples")
	runCmd.Flags().StringSliceVarP(&observables, "observables", "o", []string{"total", "kinetic", "potential", "temperature"}, "observables to report")
	runCmd.Flags().StringVarP(&model, "model", "m", config.DefaultModel, "demo system (lj, chain)")
	runCmd.Flags().IntVarP(&particles, "particles", "n", config.DefaultParticles, "number of particles")
	runCmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "time step (ps)")
	runCmd.Flags().IntVarP(&steps, "steps", "s", config.DefaultSteps, "number of steps")
	runCmd.Flags().Int64Var(&seed, "seed", 0, "random seed for initial velocities")
	runCmd.Flags().Float64Var(&box, "box", config.DefaultBox, "cubic box edge (nm)")
	runCmd.Flags().Float64VarP(&temperature, "temperature", "t", config.DefaultTemperature, "initial temperature (K)")

	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "follow a running reporter's stream in the terminal",
		RunE:  watchStream,
	}
	watchCmd.Flags().StringVarP(&watchURL, "url", "u", "ws://localhost:5000/ws", "reporter websocket endpoint")

	root.AddCommand(runCmd, watchCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Default()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	// CLI flags override config file values.
	if cmd.Flags().Changed("host") {
		cfg.Host = host
	}
	if cmd.Flags().Changed("port") {
		cfg.Port = port
	}
	if cmd.Flags().Changed("interval") {
		cfg.Interval = interval
	}
	if cmd.Flags().Changed("observables") {
		cfg.Observables = observables
	}
	if cmd.Flags().Changed("model") {
		cfg.Model = model
	}
	if cmd.Flags().Changed("particles") {
		cfg.Particles = particles
	}
	if cmd.Flags().Changed("dt") {
		cfg.Dt = dt
	}
	if cmd.Flags().Changed("steps") {
		cfg.Steps = steps
	}
	if cmd.Flags().Changed("seed") {
		cfg.Seed = seed
	}
	if cmd.Flags().Changed("box") {
		cfg.Box = box
	}
	if cmd.Flags().Changed("temperature") {
		cfg.Temperature = temperature
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	set, err := observe.NewRegistry().NewSet(cfg.Observables...)
	if err != nil {
		return err
	}

	h := hub.New()
	rep, err := report.New(cfg.Interval, set, h)
	if err != nil {
		return err
	}
	h.SetHello(rep.Labels())

	var sys sim.System
	switch cfg.Model {
	case "chain":
		sys = sim.NewHarmonicChain(cfg.Particles)
	default:
		sys = sim.NewLennardJones(cfg.Particles)
	}

	drv, err := sim.NewDriver(sys, sim.Config{
		Dt:          cfg.Dt,
		Box:         [3]float64{cfg.Box, cfg.Box, cfg.Box},
		Temperature: cfg.Temperature,
		Seed:        cfg.Seed,
	})
	if err != nil {
		return err
	}
	drv.AddReporter(rep)

	srv := server.New(cfg.Addr(), h)
	serveErr := make(chan error, 1)
	go func() { serveErr <- srv.Start() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("charts at http://%s\n", cfg.Addr())
	fmt.Printf("running %s with %d particles for %d steps...\n", sys.Name(), cfg.Particles, cfg.Steps)

	start := time.Now()
	runErr := drv.Run(ctx, cfg.Steps)
	switch runErr {
	case nil:
		fmt.Printf("completed %d steps in %v\n", drv.Step(), time.Since(start))
		fmt.Println("server still running, ctrl-c to exit")
		select {
		case <-ctx.Done():
		case err := <-serveErr:
			if err != nil {
				return err
			}
		}
	case context.Canceled:
		fmt.Printf("\ninterrupted at step %d\n", drv.Step())
	default:
		return runErr
	}

	shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutCtx)
}

func watchStream(cmd *cobra.Command, args []string) error {
	conn, _, err := websocket.DefaultDialer.Dial(watchURL, nil)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", watchURL, err)
	}
	defer conn.Close()

	msgs := make(chan tea.Msg, 64)
	go func() {
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				msgs <- tui.ClosedMsg{Err: err}
				return
			}
			msg, err := sample.Decode(data)
			if err != nil {
				// Malformed input is the renderer's problem to ignore.
				continue
			}
			switch v := msg.(type) {
			case sample.Hello:
				msgs <- tui.SeriesMsg(v.Series)
			case sample.Sample:
				msgs <- tui.SampleMsg(v)
			}
		}
	}()

	p := tea.NewProgram(tui.NewModel(msgs), tea.WithAltScreen())
	_, err = p.Run()
	return err
}
