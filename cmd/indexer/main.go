package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/google/gops/agent"
	"github.com/indexd/indextree"
	"github.com/indexd/indextree/config"
	"github.com/indexd/indextree/crawler"
	"github.com/indexd/indextree/kindprobe"
	logrus "github.com/sirupsen/logrus"
)

func main() {
	// Do NOT turn on agent.ShutdownCleanup.
	// The installed signal handler below does its own graceful exit;
	// letting gops call os.Exit would skip it.
	if err := agent.Listen(agent.Options{}); err != nil {
		log.Printf("could not start gops agent: %v", err)
	}

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM)

	configPath := flag.String("config", config.DefaultPath(), "path to the indexer configuration file")
	verbose := flag.Bool("v", false, "enable debug logging")
	excludes := flag.String("exclude", "", "comma-separated ad hoc glob patterns to skip during crawling")
	concurrency := flag.Int("probe-concurrency", 8, "maximum number of concurrent filesystem stats")
	deviceRoots := flag.String("device-root", "", "comma-separated mount points to register as removable-media roots, standing in for the device collaborator of a real desktop-search daemon")
	flag.Parse()

	if *verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("could not load config from %q: %v", *configPath, err)
	}

	tree := indextree.NewTree()
	filters := indextree.NewFilters()
	prober := kindprobe.New(*concurrency)
	engine := indextree.NewEngine(tree, filters, indextree.WithKindProbe(prober.Probe))

	if err := config.Apply(cfg, tree, filters, engine); err != nil {
		log.Fatalf("could not apply config: %v", err)
	}

	tree.Events.Subscribe(indextree.LoggingSubscriber(logrus.Fields{"component": "indexer"}))

	if *deviceRoots != "" {
		for _, raw := range strings.Split(*deviceRoots, ",") {
			path, err := indextree.ParsePath(raw)
			if err != nil {
				log.Fatalf("could not parse device root %q: %v", raw, err)
			}
			tree.Add(path, indextree.Monitor|indextree.Recurse, "device")
		}
	}

	go runCommandLoop(engine, os.Stdin)

	var excludeGlobs []string
	if *excludes != "" {
		excludeGlobs = strings.Split(*excludes, ",")
	}
	walker := crawler.New(engine, excludeGlobs...)

	go func() {
		for _, root := range engine.ListRoots() {
			logrus.WithField("root", root.Path.String()).Info("crawling root")
			err := walker.Walk(root.Path, func(path indextree.Path, kind indextree.FileKind) error {
				logrus.WithFields(logrus.Fields{
					"path": path.String(),
					"kind": kind,
				}).Debug("indexed entry")
				return nil
			})
			if err != nil {
				logrus.WithError(err).WithField("root", root.Path.String()).Error("crawl failed")
			}
		}
	}()

	log.Print("awaiting a signal to exit")
	for sig := range sigc {
		log.Printf("got signal %q, exiting", sig)
		break
	}
	agent.Close()
}
