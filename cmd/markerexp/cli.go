package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"markerexp/engine"
	"markerexp/logger"
	"markerexp/marker"
	"markerexp/marker/opencv"
)

// options holds the command line overrides. They are applied on top of
// the defaults, the connection cache and the config file, in that order.
type options struct {
	configFile string
	verbose    bool

	dummy      bool
	address    string
	port       int
	stimuliDir string
	trialsCSV  string
	output     string
	seed       int64
	family     string
	count      int
	windowed   bool
	width      int
	height     int
	dlp        string
}

func newRootCmd(cfg *engine.Config, opts *options) *cobra.Command {
	root := &cobra.Command{
		Use:          "markerexp",
		Short:        "Image viewing experiment with AprilTag/ArUco screen markers",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			setup := logger.InitProduction
			if opts.verbose {
				setup = logger.InitDevelopment
			}
			if err := setup(); err != nil {
				return err
			}
			return loadConfig(cmd, cfg, opts)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&opts.configFile, "config", "c", "", "YAML config file")
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")
	pf.StringVar(&opts.family, "family", "", "marker family (e.g. 36h11, 6x6_250, aruco_original)")
	pf.IntVar(&opts.count, "count", 0, "number of markers (4, 6 or 8)")
	pf.BoolVar(&opts.windowed, "windowed", false, "run in a window instead of fullscreen")
	pf.IntVar(&opts.width, "width", 0, "screen width in pixels")
	pf.IntVar(&opts.height, "height", 0, "screen height in pixels")

	root.AddCommand(newRunCmd(cfg, opts))
	root.AddCommand(newCheckCmd(cfg))
	root.AddCommand(newMarkersCmd(cfg))
	return root
}

func loadConfig(cmd *cobra.Command, cfg *engine.Config, opts *options) error {
	cfg.Address = engine.DefaultAddress()
	cfg.LoadCache(engine.CacheFile)
	if opts.configFile != "" {
		if err := cfg.LoadFile(opts.configFile); err != nil {
			return err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("family") {
		cfg.Markers.Family = opts.family
	}
	if flags.Changed("count") {
		cfg.Markers.Count = opts.count
	}
	if flags.Changed("windowed") {
		cfg.Fullscreen = !opts.windowed
	}
	if flags.Changed("width") {
		cfg.ScreenWidth = opts.width
	}
	if flags.Changed("height") {
		cfg.ScreenHeight = opts.height
	}
	if flags.Changed("dummy") {
		cfg.Dummy = opts.dummy
	}
	if flags.Changed("address") {
		cfg.Address = opts.address
	}
	if flags.Changed("port") {
		cfg.Port = opts.port
	}
	if flags.Changed("stimuli") {
		cfg.StimuliDir = opts.stimuliDir
	}
	if flags.Changed("trials") {
		cfg.TrialsCSV = opts.trialsCSV
	}
	if flags.Changed("output") {
		cfg.OutputFile = opts.output
	}
	if flags.Changed("seed") {
		cfg.Seed = opts.seed
	}
	if flags.Changed("dlp") {
		cfg.DLPDevice = opts.dlp
	}
	return nil
}

func newRunCmd(cfg *engine.Config, opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the experiment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return engine.Run(cmd.Context(), cfg, opencv.Generator{})
		},
	}
	f := cmd.Flags()
	f.BoolVar(&opts.dummy, "dummy", false, "run without an eye tracker")
	f.StringVar(&opts.address, "address", "", "companion device address")
	f.IntVar(&opts.port, "port", 0, "companion device port")
	f.StringVar(&opts.stimuliDir, "stimuli", "", "directory of stimulus images")
	f.StringVar(&opts.trialsCSV, "trials", "", "CSV trial list (image[,fixation_ms,image_ms,blank_ms])")
	f.StringVarP(&opts.output, "output", "o", "", "event log CSV")
	f.Int64Var(&opts.seed, "seed", 0, "shuffle seed (0 is random)")
	f.StringVar(&opts.dlp, "dlp", "", "DLP-IO8-G serial device for TTL triggers")
	return cmd
}

func newCheckCmd(cfg *engine.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Show the markers for a setup check",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return engine.Check(cmd.Context(), cfg, opencv.Generator{})
		},
	}
}

func newMarkersCmd(cfg *engine.Config) *cobra.Command {
	var (
		dir    string
		pixels int
	)
	cmd := &cobra.Command{
		Use:   "markers",
		Short: "Write the markers as PNG files for printing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// same ids as on screen: one per selected slot
			count := len(marker.SelectSlots([8]marker.Slot{}, cfg.Markers.Count))
			paths, err := marker.ExportPNG(opencv.Generator{}, cfg.Markers.Family, count, pixels, dir)
			for _, p := range paths {
				fmt.Fprintln(cmd.OutOrStdout(), p)
			}
			return err
		},
	}
	cmd.Flags().StringVarP(&dir, "dir", "d", "markers", "output directory")
	cmd.Flags().IntVar(&pixels, "pixels", 400, "side of each PNG in pixels")
	return cmd
}
