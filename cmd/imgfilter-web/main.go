package main

import (
	"errors"
	"flag"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/sunshineplan/imgfilter"
	"github.com/sunshineplan/imgfilter/server"
	"github.com/sunshineplan/utils/log"
	"github.com/vharitonsky/iniflags"
)

var (
	addr      = flag.String("addr", ":8080", "listen address")
	uploads   = flag.String("uploads", imgfilter.DefaultInputDir, "directory for uploaded images")
	output    = flag.String("output", imgfilter.DefaultOutputDir, "directory for processed images")
	maxUpload = flag.Int64("max-upload", 32<<20, "maximum upload size in bytes")
)

var kernel imgfilter.Kernel

func init() {
	flag.TextVar(&kernel, "kernel", imgfilter.DefaultBlurKernel, "comma separated blur weights")
}

func main() {
	self, err := os.Executable()
	if err != nil {
		log.Error("Failed to get self path", "error", err)
		os.Exit(1)
	}
	iniflags.SetConfigFile(filepath.Join(filepath.Dir(self), "config.ini"))
	iniflags.SetAllowMissingConfigFile(true)
	iniflags.Parse()

	for _, dir := range []string{*uploads, *output} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Error("Failed to create directory", "path", dir, "error", err)
			os.Exit(1)
		}
	}

	p := imgfilter.NewProcessor(*uploads, *output)
	p.SetKernel(&kernel)
	s := server.New(p)
	s.MaxUpload = *maxUpload

	srv := &http.Server{
		Addr:              *addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}
	log.Info("Listening", "addr", *addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("Server stopped", "error", err)
		os.Exit(1)
	}
}
