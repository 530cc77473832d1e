package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/sunshineplan/imgfilter"
	"github.com/sunshineplan/utils/log"
)

var supported = regexp.MustCompile(`(?i)\.(ppm|pnm|jpe?g|png|gif|tiff?|bmp|webp)$`)

func loadImages(root string) (imgs []string) {
	var message string
	var width int
	done := make(chan struct{})
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	go func() {
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				m := message
				if !*quiet {
					fmt.Fprintf(os.Stdout, "\r%s\r%s", strings.Repeat(" ", width), m)
				}
				width = len(m)
			}
		}
	}()
	var dir string
	filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() && supported.MatchString(d.Name()) {
			imgs = append(imgs, path)
		}
		if d.IsDir() {
			dir = path
		}
		message = fmt.Sprintf("Found images: %d, Scanning directory %s", len(imgs), dir)
		return nil
	})
	close(done)
	if !*quiet {
		fmt.Fprintf(os.Stdout, "\r%s\r", strings.Repeat(" ", width))
	}
	return
}

// outputName returns the output path for a source image.
// The source extension is kept unless an output format was chosen or
// the source format cannot be encoded, in which case ppm is used.
func outputName(task *imgfilter.Options, output string) string {
	if *format != "" {
		return task.ConvertExt(output)
	}
	if _, err := imgfilter.FormatFromFilename(output); err != nil {
		return output[:len(output)-len(filepath.Ext(output))] + ".ppm"
	}
	return output
}

var errSkip = errors.New("skip")

func convert(task *imgfilter.Options, image, output string, force bool) (err error) {
	if _, err = os.Stat(output); err == nil {
		if !force {
			return errSkip
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		log.Error("Failed to get FileInfo", "name", output, "error", err)
		return
	}
	path := filepath.Dir(output)
	if err = os.MkdirAll(path, 0755); err != nil {
		log.Error("Failed to create directory", "path", path, "error", err)
		return
	}
	img, err := imgfilter.Open(image)
	if err != nil {
		log.Error("Failed to open image", "image", image, "error", err)
		return
	}
	opts := *task
	if *format == "" {
		if opts.Format.Format, err = imgfilter.FormatFromFilename(output); err != nil {
			log.Error("Unsupported output format", "name", output, "error", err)
			return
		}
	}
	f, err := os.CreateTemp(path, "*.tmp")
	if err != nil {
		log.Error("Failed to create temporary file", "path", path, "error", err)
		return
	}
	defer os.Remove(f.Name())
	if err = opts.Convert(f, img); err != nil {
		f.Close()
		log.Error("Failed to convert image", "image", image, "error", err)
		return
	}
	f.Close()
	if err = os.Rename(f.Name(), output); err != nil {
		log.Error("Failed to move file", "from", f.Name(), "to", output, "error", err)
	}
	return
}
