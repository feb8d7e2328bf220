// Command recordctl is an interactive console for arena controllers.
package main

import (
	"flag"
	"log"

	"github.com/golang/glog"

	"gorecord/host/config"
)

var (
	configPath = flag.String("config", "recordctl.yaml", "Configuration file")
	port       = flag.String("port", "", "Serial device, overrides the configuration")
	useSim     = flag.Bool("sim", false, "Talk to a simulated arena")
	evalOnly   = flag.Bool("e", false, "Evaluation only, no interactive shell.")
)

func main() {
	flag.Parse()
	defer glog.Flush()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if *port != "" {
		cfg.Serial.Port = *port
	}
	if *useSim {
		cfg.Sim.Enabled = true
	}

	NewShell(cfg, *configPath, !*evalOnly).Run(flag.Args()...)
}
