// Command levelsetseg runs the fast level-set segmentation engine over a
// single grayscale image and writes the resulting binary mask (and,
// optionally, a boundary overlay) to disk. Wiring style follows the
// teacher's cmd/mrislicesto3d/main.go: flag-parsed CLI arguments feeding
// a Params struct into a single pipeline call.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/blang/semver"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/manics/imagej-fastlevelset/pkg/config"
	"github.com/manics/imagej-fastlevelset/pkg/imageio"
	"github.com/manics/imagej-fastlevelset/pkg/levelset"
	"github.com/manics/imagej-fastlevelset/pkg/visualize"
)

// Version is the semantic version reported by --version, normalized by
// parsing it with blang/semver; a value that does not parse (for example
// one embedded via -ldflags) is printed unchanged.
var Version = "0.1.0-dev"

var log = logrus.New()

func init() {
	// .env is optional; ignore its absence, matching the teacher pack's
	// own godotenv.Load() usage for local development overrides.
	_ = godotenv.Load()
}

func main() {
	inputPath := flag.String("input", "", "Path to the grayscale input image")
	outputPath := flag.String("output", "segmentation.png", "Path to write the binary segmentation mask")
	configPath := flag.String("config", "", "Path to a YAML configuration file (optional)")
	roi := flag.String("roi", "", "Initialization rectangle as x0,y0,x1,y1 (default: mean-threshold auto-init)")
	overlayPath := flag.String("overlay", "", "Path to write a boundary overlay PNG (optional)")
	showVersion := flag.Bool("version", false, "Print the version and exit")
	verbose := flag.Bool("verbose", false, "Log per-iteration progress")
	flag.Parse()

	// LEVELSETSEG_CONFIG / LEVELSETSEG_INPUT (from the environment or .env)
	// supply defaults for flags left unset.
	if *configPath == "" {
		*configPath = os.Getenv("LEVELSETSEG_CONFIG")
	}
	if *inputPath == "" {
		*inputPath = os.Getenv("LEVELSETSEG_INPUT")
	}

	if *showVersion {
		v, err := semver.Parse(Version)
		if err != nil {
			fmt.Println(Version)
			return
		}
		fmt.Println(v.String())
		return
	}

	if *verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	if *inputPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.WithError(err).Fatal("failed to load configuration")
	}
	if cfg.Output.Verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	image, err := imageio.LoadRaster(*inputPath)
	if err != nil {
		log.WithError(err).Fatal("failed to load input image")
	}
	log.WithFields(logrus.Fields{"path": *inputPath, "width": image.Width, "height": image.Height}).Info("loaded image")

	mask, err := buildInitMask(image, *roi)
	if err != nil {
		log.WithError(err).Fatal("failed to build initialization mask")
	}

	method, err := cfg.Method()
	if err != nil {
		log.WithError(err).Fatal("invalid speed field method")
	}

	speedField, err := levelset.NewSpeedField(method, image, mask, cfg.HybridParams())
	if err != nil {
		log.WithError(err).Fatal("failed to construct speed field")
	}
	log.WithField("method", method.String()).Info("selected speed field")

	engine, err := levelset.NewEngine(cfg.EngineParams(), image, mask, speedField)
	if err != nil {
		log.WithError(err).Fatal("failed to construct engine")
	}

	engine.AddProgressObserver(func(completed, total int) {
		log.WithFields(logrus.Fields{"iteration": completed, "total": total}).Debug("iteration complete")
	})

	start := time.Now()
	if err := engine.Run(); err != nil {
		log.WithError(err).Fatal("segmentation failed")
	}
	log.WithField("elapsed", time.Since(start)).Info("segmentation complete")

	segmentation := engine.Segmentation()
	if err := imageio.SaveMask(boolMaskFromSegmentation(segmentation), *outputPath); err != nil {
		log.WithError(err).Fatal("failed to save segmentation")
	}
	log.WithField("path", *outputPath).Info("wrote segmentation mask")

	if *overlayPath != "" {
		lin, lout := boundaryPoints(engine)
		if err := visualize.SaveOverlay(image, lin, lout, visualize.DefaultColors(), *overlayPath); err != nil {
			log.WithError(err).Fatal("failed to save overlay")
		}
		log.WithField("path", *overlayPath).Info("wrote boundary overlay")
	}
}
