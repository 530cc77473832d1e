package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sunshineplan/imgfilter"
	"github.com/sunshineplan/progressbar"
	"github.com/sunshineplan/utils/log"
	"github.com/vharitonsky/iniflags"
	"golang.org/x/sync/errgroup"
)

var (
	src     = flag.String("src", "", "")
	dst     = flag.String("dst", "output", "")
	force   = flag.Bool("force", false, "")
	format  = flag.String("format", "", "")
	quality = flag.Int("quality", 95, "")
	plain   = flag.Bool("plain", true, "")
	worker  = flag.Int("worker", 5, "")
	procs   = flag.Int("procs", 0, "")
	debug   = flag.Bool("debug", false, "")
	quiet   = flag.Bool("quiet", false, "")
)

var (
	operation imgfilter.Operation
	kernel    imgfilter.Kernel
)

func init() {
	flag.TextVar(&operation, "op", imgfilter.Invert, "")
	flag.TextVar(&kernel, "kernel", imgfilter.DefaultBlurKernel, "")
}

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), "Usage of %s:\n", os.Args[0])
	fmt.Println(`
  --src
		source file or directory
  --dst
		destination directory (default: output)
  --op
		operation (invert, grayscale, gaussian, default: invert)
  --kernel
		comma separated blur weights, row-major, odd square count (default: 5x5 pyramid)
  --force
		force overwrite (default: false)
  --format
		output format (ppm, jpg, jpeg, png, gif, tif, tiff and bmp are supported, default: same as source)
  --quality
		set jpeg quality (range 1-100, default: 95)
  --plain
		write ascii ppm instead of binary (default: true)
  --worker
		number of images processed at the same time (default: 5)
  --procs
		limit goroutines used per image (default: 0, no limit)
  --quiet
		hide progress (default: false)`)
}

func main() {
	self, err := os.Executable()
	if err != nil {
		log.Error("Failed to get self path", "error", err)
		os.Exit(1)
	}

	flag.Usage = usage
	iniflags.SetConfigFile(filepath.Join(filepath.Dir(self), "config.ini"))
	iniflags.SetAllowMissingConfigFile(true)
	iniflags.Parse()

	if err := run(); err != nil {
		log.Error("Failed", "error", err)
		os.Exit(1)
	}
	log.Info("Done.")
}

// newTask builds the options from flags. Encode options always apply;
// -format only replaces the output format.
func newTask() (*imgfilter.Options, error) {
	task := imgfilter.NewOptions(operation)
	task.SetKernel(&kernel)
	if *format != "" {
		if err := task.SetFormat(*format); err != nil {
			return nil, err
		}
	}
	task.Format.EncodeOption = []imgfilter.EncodeOption{imgfilter.Quality(*quality), imgfilter.PlainPPM(*plain)}
	return &task, nil
}

func run() error {
	imgfilter.SetMaxProcs(*procs)

	task, err := newTask()
	if err != nil {
		return err
	}

	srcInfo, err := os.Stat(*src)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(*dst, 0755); err != nil {
		return err
	}

	switch mode := srcInfo.Mode(); {
	case mode.IsDir():
		images := loadImages(*src)
		log.Info("Total images", "count", len(images))

		done := func() {}
		if !*quiet {
			pb := progressbar.New(len(images))
			pb.Start()
			defer pb.Wait()
			done = func() { pb.Add(1) }
		}
		var g errgroup.Group
		g.SetLimit(*worker)
		for _, image := range images {
			g.Go(func() error {
				defer done()
				rel, err := filepath.Rel(*src, image)
				if err != nil {
					log.Error("Failed to get relative path", "image", image, "error", err)
					return nil
				}
				output := outputName(task, filepath.Join(*dst, rel))
				if err := convert(task, image, output, *force); err != nil {
					if errors.Is(err, errSkip) {
						log.Info("Skip", "output", output)
					}
					return nil
				}
				if *debug {
					log.Debug("Converted", "image", image, "output", output)
				}
				return nil
			})
		}
		return g.Wait()

	case mode.IsRegular():
		output := outputName(task, filepath.Join(*dst, filepath.Base(*src)))
		if err := convert(task, *src, output, *force); err != nil {
			if errors.Is(err, errSkip) {
				return errors.New("destination already exist")
			}
			return err
		}
		return nil

	default:
		return errors.New("unknown source")
	}
}
