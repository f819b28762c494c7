// Package importer drives series import: concurrent file parsing and
// mapping fanned across a bounded worker pool, followed by the serial
// volume reconstruction step.
package importer

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/jpfielding/medview.go/pkg/dicom"
	"github.com/jpfielding/medview.go/pkg/dicom/module"
	"github.com/jpfielding/medview.go/pkg/volume"
)

// Result is the boundary object handed to external collaborators: the
// domain entities, the ordered images, and the reconstructed volume.
type Result struct {
	ID         uuid.UUID
	Patient    *module.Patient
	Study      *module.Study
	Series     *module.Series
	Images     []*module.Image
	Volume     *volume.Volume
	TotalBytes int64
}

// Options tunes the import
type Options struct {
	// Workers bounds the parse pool; 0 picks a sensible default
	Workers int
}

// ImportDir imports every regular file in a directory, in lexical
// order, as one series.
func ImportDir(ctx context.Context, dir string, opts Options) (*Result, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading series directory: %w", err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	sort.Strings(paths)
	return ImportFiles(ctx, paths, opts)
}

// ImportFiles imports an ordered file list as one series
func ImportFiles(ctx context.Context, paths []string, opts Options) (*Result, error) {
	buffers := make([][]byte, len(paths))
	for i, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", p, err)
		}
		buffers[i] = data
	}
	res, err := ImportBytes(ctx, buffers, opts)
	if err != nil {
		return nil, err
	}
	return res, nil
}

// ImportBytes imports an ordered collection of in-memory files as one
// series. Parsing and mapping are pure and deterministic, so files fan
// out across workers with no retries and no shared state; the
// reconstructor then runs serially because it enforces one global
// ordering invariant across all inputs.
func ImportBytes(ctx context.Context, buffers [][]byte, opts Options) (*Result, error) {
	if opts.Workers <= 0 {
		opts.Workers = 4
	}

	type parsed struct {
		patient *module.Patient
		study   *module.Study
		series  *module.Series
		image   *module.Image
	}

	results := make([]parsed, len(buffers))
	errs := make([]error, len(buffers))

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < opts.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				ds, err := dicom.Parse(buffers[i])
				if err != nil {
					errs[i] = fmt.Errorf("file %d: %w", i, err)
					continue
				}
				p, st, se, im, err := dicom.MapDataset(ds)
				if err != nil {
					errs[i] = fmt.Errorf("file %d: %w", i, err)
					continue
				}
				results[i] = parsed{patient: p, study: st, series: se, image: im}
			}
		}()
	}

feed:
	for i := range buffers {
		select {
		case jobs <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	// First failure in input order wins; skip-vs-abort policy for
	// batches belongs to the caller, not here.
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	res := &Result{ID: uuid.New()}
	images := make([]*module.Image, 0, len(results))
	for i, r := range results {
		if res.Series == nil {
			res.Patient, res.Study, res.Series = r.patient, r.study, r.series
		} else if r.series.SeriesInstanceUID != res.Series.SeriesInstanceUID {
			return nil, fmt.Errorf("file %d belongs to series %s, expected %s",
				i, r.series.SeriesInstanceUID, res.Series.SeriesInstanceUID)
		}
		images = append(images, r.image)
		res.TotalBytes += int64(len(buffers[i]))
	}

	vol, err := volume.Reconstruct(images)
	if err != nil {
		return nil, err
	}
	res.Images = volume.Order(images)
	res.Volume = vol

	slog.InfoContext(ctx, "series imported",
		"import", res.ID.String(),
		"images", len(images),
		"dims", fmt.Sprintf("%dx%dx%d", vol.Width(), vol.Height(), vol.Depth()),
		"bytes", res.TotalBytes)
	return res, nil
}
