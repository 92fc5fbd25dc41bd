package main

import (
	"flag"
	"os"

	"github.com/golang/glog"

	"github.com/df07/go-ibl-pathtracer/web/server"
)

func main() {
	// Parse command line flags
	port := flag.Int("port", 8080, "Port to serve on")
	scenesDir := flag.String("scenes", "scenes", "Directory of YAML scene files")
	flag.Parse()
	defer glog.Flush()

	// Create and start web server
	webServer := server.NewServer(*port, *scenesDir)

	glog.Infof("IBL Path Tracer Web Server")
	glog.Infof("Visit http://localhost:%d/api/scenes to list scenes", *port)

	if err := webServer.Start(); err != nil {
		glog.Errorf("Error starting server: %v", err)
		glog.Flush()
		os.Exit(1)
	}
}
